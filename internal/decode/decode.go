// Package decode turns raw ledger records into the client's stable types.
// Decoding never substitutes defaults: a record with a missing or malformed
// field is rejected as a whole.
package decode

import (
	"fmt"
	"math"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/tansive/j832-go/internal/canonical"
	"github.com/tansive/j832-go/pkg/ledger"
	"github.com/tansive/j832-go/pkg/types"
)

func Change(raw ledger.RawChange) (types.Change, error) {
	version, err := Uint64("version", raw.Version)
	if err != nil {
		return types.Change{}, err
	}
	ts, err := Int64("timestamp", raw.Timestamp)
	if err != nil {
		return types.Change{}, err
	}
	ct, err := changeType(raw.ChangeType)
	if err != nil {
		return types.Change{}, err
	}
	if raw.DataHash == "" {
		return types.Change{}, ErrMissingField.Suffix("dataHash")
	}
	if !canonical.IsCanonical(raw.DataHash) {
		return types.Change{}, ErrMalformedHash.Suffix(raw.DataHash)
	}
	actor, err := Address("actor", raw.Actor)
	if err != nil {
		return types.Change{}, err
	}
	return types.Change{
		Version:    version,
		DataHash:   types.Hash(raw.DataHash),
		Timestamp:  ts,
		Actor:      actor,
		ChangeType: ct,
	}, nil
}

// ChangeList decodes every element in ledger order. The first bad element
// fails the whole list.
func ChangeList(raw []ledger.RawChange) ([]types.Change, error) {
	changes := make([]types.Change, 0, len(raw))
	for i, r := range raw {
		c, err := Change(r)
		if err != nil {
			return nil, fmt.Errorf("history entry %d: %w", i, err)
		}
		changes = append(changes, c)
	}
	return changes, nil
}

// ChangePage decodes a history range read of at most limit records.
func ChangePage(raw []ledger.RawChange, limit uint64) ([]types.Change, error) {
	if uint64(len(raw)) > limit {
		return nil, ErrTooManyRecords.Suffix(fmt.Sprintf("requested %d, got %d", limit, len(raw)))
	}
	return ChangeList(raw)
}

func ResourceConfig(raw ledger.RawResourceConfig) (types.ResourceConfig, error) {
	owner, err := Address("owner", raw.Owner)
	if err != nil {
		return types.ResourceConfig{}, err
	}
	return types.ResourceConfig{
		Owner:             owner,
		IsActive:          raw.IsActive,
		EnforceUniqueness: raw.EnforceUniqueness,
	}, nil
}

// Addresses renders a list of ledger addresses in checksummed hex, keeping order.
func Addresses(raw []common.Address) []string {
	out := make([]string, 0, len(raw))
	for _, a := range raw {
		out = append(out, a.Hex())
	}
	return out
}

func Uint64(field string, v *big.Int) (uint64, error) {
	if v == nil {
		return 0, ErrMissingField.Suffix(field)
	}
	if !v.IsUint64() {
		return 0, ErrNumericOverflow.Suffix(field)
	}
	return v.Uint64(), nil
}

func Int64(field string, v *big.Int) (int64, error) {
	if v == nil {
		return 0, ErrMissingField.Suffix(field)
	}
	if !v.IsInt64() || v.Sign() < 0 {
		return 0, ErrNumericOverflow.Suffix(field)
	}
	return v.Int64(), nil
}

func Address(field, v string) (string, error) {
	if v == "" {
		return "", ErrMissingField.Suffix(field)
	}
	if !common.IsHexAddress(v) || len(v) != 2+2*common.AddressLength {
		return "", ErrMalformedAddress.Suffix(field)
	}
	return v, nil
}

func changeType(v *big.Int) (types.ChangeType, error) {
	if v == nil {
		return 0, ErrMissingField.Suffix("changeType")
	}
	if !v.IsInt64() || v.Int64() > math.MaxInt32 {
		return 0, ErrUnknownChangeType
	}
	ct := types.ChangeType(v.Int64())
	if !ct.IsValid() {
		return 0, ErrUnknownChangeType.Suffix(ct.String())
	}
	return ct, nil
}
