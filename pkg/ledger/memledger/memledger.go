// Package memledger is an in-process J832 ledger. It applies the contract's
// rules deterministically so clients can be exercised without a chain.
package memledger

import (
	"context"
	"crypto/ecdsa"
	"encoding/binary"
	"math/big"
	"slices"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tansive/j832-go/pkg/ledger"
	"github.com/tansive/j832-go/pkg/types"
)

type proposalKind int

const (
	proposalAddAdmin proposalKind = iota
	proposalRemoveAdmin
	proposalTransferOwnership
)

type proposal struct {
	target    common.Address
	approvals map[common.Address]bool
}

type resource struct {
	owner     common.Address
	admins    []common.Address
	active    bool
	unique    bool
	changes   []ledger.RawChange
	seen      map[common.Hash]bool
	proposals map[proposalKind]*proposal
}

func (r *resource) isAdmin(a common.Address) bool {
	return slices.Contains(r.admins, a)
}

// Ledger holds the shared state. Use Connect or As to obtain a caller bound
// ledger.Ledger.
type Ledger struct {
	mu        sync.Mutex
	resources map[common.Hash]*resource
	now       func() time.Time
	block     uint64
}

type Option func(*Ledger)

// WithClock overrides the time source used for change timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

func New(opts ...Option) *Ledger {
	l := &Ledger{
		resources: make(map[common.Hash]*resource),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

var _ ledger.Connector = (*Ledger)(nil)

// Connect binds a session to the signer's address. The contract address is
// ignored: one Ledger models one deployed contract.
func (l *Ledger) Connect(_ context.Context, _ common.Address, signer *ecdsa.PrivateKey) (ledger.Ledger, error) {
	if signer == nil {
		return &Session{l: l}, nil
	}
	return l.As(crypto.PubkeyToAddress(signer.PublicKey)), nil
}

// As returns a session submitting writes from the given address.
func (l *Ledger) As(from common.Address) *Session {
	return &Session{l: l, from: from, canWrite: true}
}

// Session is a view of the Ledger bound to one caller.
type Session struct {
	l        *Ledger
	from     common.Address
	canWrite bool
}

var _ ledger.Ledger = (*Session)(nil)

func (s *Session) Close() {}

// write runs fn under the ledger lock and, if it succeeds, mines a receipt.
func (s *Session) write(ctx context.Context, fn func() error) (*types.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !s.canWrite {
		return nil, ErrNoSigner
	}
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	if err := fn(); err != nil {
		return nil, err
	}
	s.l.block++
	var seed [8 + common.AddressLength]byte
	binary.BigEndian.PutUint64(seed[:8], s.l.block)
	copy(seed[8:], s.from.Bytes())
	return &types.Receipt{
		TxHash:      crypto.Keccak256Hash(seed[:]).Hex(),
		Status:      types.ReceiptStatusSuccessful,
		BlockNumber: s.l.block,
		GasUsed:     21000,
	}, nil
}

// read runs fn under the ledger lock against an existing resource.
func (s *Session) read(ctx context.Context, id common.Hash, fn func(r *resource) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	r, ok := s.l.resources[id]
	if !ok {
		return ErrResourceNotFound
	}
	return fn(r)
}

// adminResource returns the resource if the session's caller administers it.
func (s *Session) adminResource(id common.Hash) (*resource, error) {
	r, ok := s.l.resources[id]
	if !ok {
		return nil, ErrResourceNotFound
	}
	if !r.isAdmin(s.from) {
		return nil, ErrNotAdmin
	}
	return r, nil
}

func (s *Session) CreateResource(ctx context.Context, id common.Hash, enforceUniqueness bool) (*types.Receipt, error) {
	return s.write(ctx, func() error {
		if _, ok := s.l.resources[id]; ok {
			return ErrResourceExists
		}
		s.l.resources[id] = &resource{
			owner:     s.from,
			admins:    []common.Address{s.from},
			active:    true,
			unique:    enforceUniqueness,
			seen:      make(map[common.Hash]bool),
			proposals: make(map[proposalKind]*proposal),
		}
		return nil
	})
}

func (s *Session) RegisterChange(ctx context.Context, id common.Hash, dataHash common.Hash, changeType uint8) (*types.Receipt, error) {
	return s.write(ctx, func() error {
		r, err := s.adminResource(id)
		if err != nil {
			return err
		}
		if !r.active {
			return ErrResourceInactive
		}
		if !types.ChangeType(changeType).IsValid() {
			return ErrInvalidChangeType
		}
		if r.unique && r.seen[dataHash] {
			return ErrDuplicateDataHash
		}
		r.seen[dataHash] = true
		r.changes = append(r.changes, ledger.RawChange{
			Version:    new(big.Int).SetInt64(int64(len(r.changes) + 1)),
			DataHash:   dataHash.Hex(),
			Timestamp:  big.NewInt(s.l.now().Unix()),
			Actor:      s.from.Hex(),
			ChangeType: big.NewInt(int64(changeType)),
		})
		return nil
	})
}

func (s *Session) SetResourceActiveStatus(ctx context.Context, id common.Hash, active bool) (*types.Receipt, error) {
	return s.write(ctx, func() error {
		r, err := s.adminResource(id)
		if err != nil {
			return err
		}
		r.active = active
		return nil
	})
}

func (s *Session) SetUniqueness(ctx context.Context, id common.Hash, enforce bool) (*types.Receipt, error) {
	return s.write(ctx, func() error {
		r, err := s.adminResource(id)
		if err != nil {
			return err
		}
		r.unique = enforce
		return nil
	})
}

func copyChange(c ledger.RawChange) ledger.RawChange {
	return ledger.RawChange{
		Version:    new(big.Int).Set(c.Version),
		DataHash:   c.DataHash,
		Timestamp:  new(big.Int).Set(c.Timestamp),
		Actor:      c.Actor,
		ChangeType: new(big.Int).Set(c.ChangeType),
	}
}

func (s *Session) GetLatestChange(ctx context.Context, id common.Hash) (ledger.RawChange, error) {
	var latest ledger.RawChange
	err := s.read(ctx, id, func(r *resource) error {
		if len(r.changes) == 0 {
			return ErrNoChanges
		}
		latest = copyChange(r.changes[len(r.changes)-1])
		return nil
	})
	return latest, err
}

// GetHistoryRange returns at most count changes starting at the zero-based
// offset start. A start at or past the end yields an empty slice.
func (s *Session) GetHistoryRange(ctx context.Context, id common.Hash, start, count *big.Int) ([]ledger.RawChange, error) {
	var out []ledger.RawChange
	err := s.read(ctx, id, func(r *resource) error {
		total := big.NewInt(int64(len(r.changes)))
		out = []ledger.RawChange{}
		if start.Cmp(total) >= 0 || count.Sign() <= 0 {
			return nil
		}
		end := new(big.Int).Add(start, count)
		if end.Cmp(total) > 0 {
			end = total
		}
		for i := start.Int64(); i < end.Int64(); i++ {
			out = append(out, copyChange(r.changes[i]))
		}
		return nil
	})
	return out, err
}

func (s *Session) GetVersionCount(ctx context.Context, id common.Hash) (*big.Int, error) {
	var n *big.Int
	err := s.read(ctx, id, func(r *resource) error {
		n = big.NewInt(int64(len(r.changes)))
		return nil
	})
	return n, err
}

func (s *Session) GetAdmins(ctx context.Context, id common.Hash) ([]common.Address, error) {
	var admins []common.Address
	err := s.read(ctx, id, func(r *resource) error {
		admins = slices.Clone(r.admins)
		return nil
	})
	return admins, err
}

func (s *Session) GetAdminCount(ctx context.Context, id common.Hash) (*big.Int, error) {
	var n *big.Int
	err := s.read(ctx, id, func(r *resource) error {
		n = big.NewInt(int64(len(r.admins)))
		return nil
	})
	return n, err
}

func (s *Session) IsAdmin(ctx context.Context, id common.Hash, account common.Address) (bool, error) {
	var ok bool
	err := s.read(ctx, id, func(r *resource) error {
		ok = r.isAdmin(account)
		return nil
	})
	return ok, err
}

func (s *Session) GetResourceConfig(ctx context.Context, id common.Hash) (ledger.RawResourceConfig, error) {
	var cfg ledger.RawResourceConfig
	err := s.read(ctx, id, func(r *resource) error {
		cfg = ledger.RawResourceConfig{
			Owner:             r.owner.Hex(),
			IsActive:          r.active,
			EnforceUniqueness: r.unique,
		}
		return nil
	})
	return cfg, err
}

func (s *Session) IsResourceActive(ctx context.Context, id common.Hash) (bool, error) {
	var active bool
	err := s.read(ctx, id, func(r *resource) error {
		active = r.active
		return nil
	})
	return active, err
}

func (s *Session) IsUniquenessEnforced(ctx context.Context, id common.Hash) (bool, error) {
	var unique bool
	err := s.read(ctx, id, func(r *resource) error {
		unique = r.unique
		return nil
	})
	return unique, err
}
