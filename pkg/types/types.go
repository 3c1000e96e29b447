package types

import (
	"fmt"
	"strings"
)

// Hash is a 32-byte canonical identity rendered as 0x followed by 64 hex
// characters. Resource identities and data hashes share this encoding.
type Hash string

// ChangeType classifies a change recorded against a resource. The numeric
// values are the ledger's enum encoding.
type ChangeType int

const (
	ChangeTypeCreate ChangeType = iota
	ChangeTypeUpdate
	ChangeTypeDelete
	ChangeTypeTransfer
	ChangeTypeAudit
)

const (
	MinChangeType = ChangeTypeCreate
	MaxChangeType = ChangeTypeAudit
)

var changeTypeNames = [...]string{
	ChangeTypeCreate:   "CREATE",
	ChangeTypeUpdate:   "UPDATE",
	ChangeTypeDelete:   "DELETE",
	ChangeTypeTransfer: "TRANSFER",
	ChangeTypeAudit:    "AUDIT",
}

func (c ChangeType) IsValid() bool {
	return c >= MinChangeType && c <= MaxChangeType
}

func (c ChangeType) String() string {
	if !c.IsValid() {
		return fmt.Sprintf("ChangeType(%d)", int(c))
	}
	return changeTypeNames[c]
}

// ParseChangeType accepts the enum name in any case.
func ParseChangeType(name string) (ChangeType, error) {
	for i, n := range changeTypeNames {
		if strings.EqualFold(n, name) {
			return ChangeType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown change type: %q", name)
}

// Change is one immutable, versioned audit entry of a resource. Changes are
// created by the ledger only; the client never assigns versions.
type Change struct {
	Version    uint64     `json:"version"`
	DataHash   Hash       `json:"dataHash"`
	Timestamp  int64      `json:"timestamp"`
	Actor      string     `json:"actor"`
	ChangeType ChangeType `json:"changeType"`
}

// ResourceConfig is the ledger's configuration record for a resource.
type ResourceConfig struct {
	Owner             string `json:"owner"`
	IsActive          bool   `json:"isActive"`
	EnforceUniqueness bool   `json:"enforceUniqueness"`
}

const ReceiptStatusSuccessful uint64 = 1

// Receipt reports the outcome of a mutating call once the ledger has
// finalized it. An accepted submission may still carry a failed status.
type Receipt struct {
	TxHash      string `json:"txHash"`
	Status      uint64 `json:"status"`
	BlockNumber uint64 `json:"blockNumber"`
	GasUsed     uint64 `json:"gasUsed"`
}

func (r *Receipt) Successful() bool {
	return r != nil && r.Status == ReceiptStatusSuccessful
}
