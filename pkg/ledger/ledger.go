// Package ledger defines the typed boundary between the client and the J832
// ledger. Implementations talk to a real chain or stand in for one in tests.
package ledger

import (
	"context"
	"crypto/ecdsa"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/tansive/j832-go/pkg/types"
)

// RawChange is a change record as the ledger returns it, before decoding.
// Numeric fields keep the ledger's arbitrary precision representation and a
// nil or empty field means the ledger did not supply it.
type RawChange struct {
	Version    *big.Int
	DataHash   string
	Timestamp  *big.Int
	Actor      string
	ChangeType *big.Int
}

// RawResourceConfig is the undecoded result of the resource configuration read.
type RawResourceConfig struct {
	Owner             string
	IsActive          bool
	EnforceUniqueness bool
}

// Reader holds the read-only ledger calls.
type Reader interface {
	GetLatestChange(ctx context.Context, id common.Hash) (RawChange, error)
	GetHistoryRange(ctx context.Context, id common.Hash, start, count *big.Int) ([]RawChange, error)
	GetVersionCount(ctx context.Context, id common.Hash) (*big.Int, error)
	GetAdmins(ctx context.Context, id common.Hash) ([]common.Address, error)
	GetAdminCount(ctx context.Context, id common.Hash) (*big.Int, error)
	IsAdmin(ctx context.Context, id common.Hash, account common.Address) (bool, error)
	GetResourceConfig(ctx context.Context, id common.Hash) (RawResourceConfig, error)
	IsResourceActive(ctx context.Context, id common.Hash) (bool, error)
	IsUniquenessEnforced(ctx context.Context, id common.Hash) (bool, error)
}

// Writer holds the mutating ledger calls. Each call returns once the ledger
// has finalized the submission.
type Writer interface {
	CreateResource(ctx context.Context, id common.Hash, enforceUniqueness bool) (*types.Receipt, error)
	RegisterChange(ctx context.Context, id common.Hash, dataHash common.Hash, changeType uint8) (*types.Receipt, error)
	SetResourceActiveStatus(ctx context.Context, id common.Hash, active bool) (*types.Receipt, error)
	SetUniqueness(ctx context.Context, id common.Hash, enforce bool) (*types.Receipt, error)

	ProposeAddAdmin(ctx context.Context, id common.Hash, account common.Address) (*types.Receipt, error)
	ApproveAddAdmin(ctx context.Context, id common.Hash) (*types.Receipt, error)
	ProposeRemoveAdmin(ctx context.Context, id common.Hash, account common.Address) (*types.Receipt, error)
	ApproveRemoveAdmin(ctx context.Context, id common.Hash) (*types.Receipt, error)
	ProposeTransferOwnership(ctx context.Context, id common.Hash, account common.Address) (*types.Receipt, error)
	ApproveTransferOwnership(ctx context.Context, id common.Hash) (*types.Receipt, error)
}

type Ledger interface {
	Reader
	Writer
	Close()
}

// Connector opens a Ledger for the contract at address. signer is nil for a
// read-only connection; writes through such a connection fail.
type Connector interface {
	Connect(ctx context.Context, contract common.Address, signer *ecdsa.PrivateKey) (Ledger, error)
}

// ConnectorFunc adapts a function to the Connector interface.
type ConnectorFunc func(ctx context.Context, contract common.Address, signer *ecdsa.PrivateKey) (Ledger, error)

func (f ConnectorFunc) Connect(ctx context.Context, contract common.Address, signer *ecdsa.PrivateKey) (Ledger, error) {
	return f(ctx, contract, signer)
}
