// Package evm binds the ledger interface to the J832 contract deployed on an
// EVM chain, using go-ethereum for ABI encoding, signing and transport.
package evm

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/avast/retry-go/v4"
	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog"
	"github.com/tansive/j832-go/pkg/ledger"
	"github.com/tansive/j832-go/pkg/types"
)

const DefaultReceiptPollInterval = time.Second

// Backend is the subset of an Ethereum client the ledger needs.
// *ethclient.Client satisfies it.
type Backend interface {
	bind.ContractBackend
	ChainID(ctx context.Context) (*big.Int, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*gethtypes.Receipt, error)
	Close()
}

var _ Backend = (*ethclient.Client)(nil)

// changeTuple mirrors the contract's Change struct in ABI order.
type changeTuple struct {
	Version    *big.Int
	DataHash   [32]byte
	Timestamp  *big.Int
	Actor      common.Address
	ChangeType uint8
}

type Option func(*Ledger)

// WithReceiptPollInterval sets how often the receipt of a submitted
// transaction is polled while waiting for it to be mined.
func WithReceiptPollInterval(d time.Duration) Option {
	return func(l *Ledger) {
		if d > 0 {
			l.pollInterval = d
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
	}
}

// Ledger implements ledger.Ledger against a deployed contract.
type Ledger struct {
	backend      Backend
	address      common.Address
	abi          abi.ABI
	contract     *bind.BoundContract
	transactOpts *bind.TransactOpts
	pollInterval time.Duration
	logger       zerolog.Logger
}

var _ ledger.Ledger = (*Ledger)(nil)

// NewLedger binds the contract at address. When signer is set the chain id is
// read from the backend to build the transaction signer.
func NewLedger(ctx context.Context, backend Backend, address common.Address, signer *ecdsa.PrivateKey, opts ...Option) (*Ledger, error) {
	parsed, err := DefaultABI()
	if err != nil {
		return nil, err
	}
	l := &Ledger{
		backend:      backend,
		address:      address,
		abi:          parsed,
		contract:     bind.NewBoundContract(address, parsed, backend, backend, backend),
		pollInterval: DefaultReceiptPollInterval,
		logger:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if signer != nil {
		chainID, err := backend.ChainID(ctx)
		if err != nil {
			return nil, ErrConnect.MsgErr("unable to read chain id", err)
		}
		l.transactOpts, err = bind.NewKeyedTransactorWithChainID(signer, chainID)
		if err != nil {
			return nil, ErrConnect.MsgErr("unable to create transactor", err)
		}
	}
	return l, nil
}

func (l *Ledger) Close() {
	l.backend.Close()
}

// call packs and sends an eth_call and unpacks the output itself, so that a
// response the ABI cannot unpack is reported as ErrUnexpectedResult rather
// than as a transport failure.
func (l *Ledger) call(ctx context.Context, method string, args ...any) ([]any, error) {
	input, err := l.abi.Pack(method, args...)
	if err != nil {
		return nil, err
	}
	output, err := l.backend.CallContract(ctx, ethereum.CallMsg{To: &l.address, Data: input}, nil)
	if err != nil {
		return nil, err
	}
	if len(output) == 0 {
		code, err := l.backend.CodeAt(ctx, l.address, nil)
		if err != nil {
			return nil, err
		}
		if len(code) == 0 {
			return nil, bind.ErrNoCode
		}
	}
	out, err := l.abi.Unpack(method, output)
	if err != nil {
		return nil, ErrUnexpectedResult.MsgErr(err.Error(), err)
	}
	return out, nil
}

// transact submits one transaction and blocks until its receipt is available.
// The submission itself is never repeated.
func (l *Ledger) transact(ctx context.Context, method string, args ...any) (*types.Receipt, error) {
	if l.transactOpts == nil {
		return nil, ErrNoSigner
	}
	opts := *l.transactOpts
	opts.Context = ctx
	tx, err := l.contract.Transact(&opts, method, args...)
	if err != nil {
		return nil, err
	}
	l.logger.Debug().Str("method", method).Str("tx", tx.Hash().Hex()).Msg("transaction submitted")

	receipt, err := l.waitMined(ctx, tx.Hash())
	if err != nil {
		return nil, err
	}
	return toReceipt(receipt), nil
}

func (l *Ledger) waitMined(ctx context.Context, hash common.Hash) (*gethtypes.Receipt, error) {
	return retry.DoWithData(
		func() (*gethtypes.Receipt, error) {
			return l.backend.TransactionReceipt(ctx, hash)
		},
		retry.Context(ctx),
		retry.Attempts(0),
		retry.Delay(l.pollInterval),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, ethereum.NotFound)
		}),
		retry.OnRetry(func(n uint, err error) {
			l.logger.Trace().Uint("attempt", n).Str("tx", hash.Hex()).Msg("waiting for receipt")
		}),
	)
}

func toReceipt(r *gethtypes.Receipt) *types.Receipt {
	receipt := &types.Receipt{
		TxHash:  r.TxHash.Hex(),
		Status:  r.Status,
		GasUsed: r.GasUsed,
	}
	if r.BlockNumber != nil {
		receipt.BlockNumber = r.BlockNumber.Uint64()
	}
	return receipt
}

// result converts the i-th unpacked output into T the way abigen does.
func result[T any](out []any, i int) (v T, err error) {
	if len(out) <= i {
		return v, ErrUnexpectedResult.Suffix(fmt.Sprintf("expected at least %d outputs, got %d", i+1, len(out)))
	}
	defer func() {
		if r := recover(); r != nil {
			err = ErrUnexpectedResult.Suffix(fmt.Sprint(r))
		}
	}()
	return *abi.ConvertType(out[i], new(T)).(*T), nil
}

func (t changeTuple) raw() ledger.RawChange {
	return ledger.RawChange{
		Version:    t.Version,
		DataHash:   common.Hash(t.DataHash).Hex(),
		Timestamp:  t.Timestamp,
		Actor:      t.Actor.Hex(),
		ChangeType: new(big.Int).SetUint64(uint64(t.ChangeType)),
	}
}

func (l *Ledger) GetLatestChange(ctx context.Context, id common.Hash) (ledger.RawChange, error) {
	out, err := l.call(ctx, MethodGetLatestChange, id)
	if err != nil {
		return ledger.RawChange{}, err
	}
	t, err := result[changeTuple](out, 0)
	if err != nil {
		return ledger.RawChange{}, err
	}
	return t.raw(), nil
}

func (l *Ledger) GetHistoryRange(ctx context.Context, id common.Hash, start, count *big.Int) ([]ledger.RawChange, error) {
	out, err := l.call(ctx, MethodGetHistoryRange, id, start, count)
	if err != nil {
		return nil, err
	}
	tuples, err := result[[]changeTuple](out, 0)
	if err != nil {
		return nil, err
	}
	changes := make([]ledger.RawChange, 0, len(tuples))
	for _, t := range tuples {
		changes = append(changes, t.raw())
	}
	return changes, nil
}

func (l *Ledger) GetVersionCount(ctx context.Context, id common.Hash) (*big.Int, error) {
	out, err := l.call(ctx, MethodGetVersionCount, id)
	if err != nil {
		return nil, err
	}
	return result[*big.Int](out, 0)
}

func (l *Ledger) GetAdmins(ctx context.Context, id common.Hash) ([]common.Address, error) {
	out, err := l.call(ctx, MethodGetAdmins, id)
	if err != nil {
		return nil, err
	}
	return result[[]common.Address](out, 0)
}

func (l *Ledger) GetAdminCount(ctx context.Context, id common.Hash) (*big.Int, error) {
	out, err := l.call(ctx, MethodGetAdminCount, id)
	if err != nil {
		return nil, err
	}
	return result[*big.Int](out, 0)
}

func (l *Ledger) IsAdmin(ctx context.Context, id common.Hash, account common.Address) (bool, error) {
	out, err := l.call(ctx, MethodIsAdmin, id, account)
	if err != nil {
		return false, err
	}
	return result[bool](out, 0)
}

func (l *Ledger) GetResourceConfig(ctx context.Context, id common.Hash) (ledger.RawResourceConfig, error) {
	out, err := l.call(ctx, MethodGetResourceConfig, id)
	if err != nil {
		return ledger.RawResourceConfig{}, err
	}
	owner, err := result[common.Address](out, 0)
	if err != nil {
		return ledger.RawResourceConfig{}, err
	}
	active, err := result[bool](out, 1)
	if err != nil {
		return ledger.RawResourceConfig{}, err
	}
	unique, err := result[bool](out, 2)
	if err != nil {
		return ledger.RawResourceConfig{}, err
	}
	return ledger.RawResourceConfig{
		Owner:             owner.Hex(),
		IsActive:          active,
		EnforceUniqueness: unique,
	}, nil
}

func (l *Ledger) IsResourceActive(ctx context.Context, id common.Hash) (bool, error) {
	out, err := l.call(ctx, MethodIsResourceActive, id)
	if err != nil {
		return false, err
	}
	return result[bool](out, 0)
}

func (l *Ledger) IsUniquenessEnforced(ctx context.Context, id common.Hash) (bool, error) {
	out, err := l.call(ctx, MethodIsUniquenessEnforced, id)
	if err != nil {
		return false, err
	}
	return result[bool](out, 0)
}

func (l *Ledger) CreateResource(ctx context.Context, id common.Hash, enforceUniqueness bool) (*types.Receipt, error) {
	return l.transact(ctx, MethodCreateResource, id, enforceUniqueness)
}

func (l *Ledger) RegisterChange(ctx context.Context, id common.Hash, dataHash common.Hash, changeType uint8) (*types.Receipt, error) {
	return l.transact(ctx, MethodRegisterChange, id, dataHash, changeType)
}

func (l *Ledger) SetResourceActiveStatus(ctx context.Context, id common.Hash, active bool) (*types.Receipt, error) {
	return l.transact(ctx, MethodSetResourceActiveStatus, id, active)
}

func (l *Ledger) SetUniqueness(ctx context.Context, id common.Hash, enforce bool) (*types.Receipt, error) {
	return l.transact(ctx, MethodSetUniqueness, id, enforce)
}

func (l *Ledger) ProposeAddAdmin(ctx context.Context, id common.Hash, account common.Address) (*types.Receipt, error) {
	return l.transact(ctx, MethodProposeAddAdmin, id, account)
}

func (l *Ledger) ApproveAddAdmin(ctx context.Context, id common.Hash) (*types.Receipt, error) {
	return l.transact(ctx, MethodApproveAddAdmin, id)
}

func (l *Ledger) ProposeRemoveAdmin(ctx context.Context, id common.Hash, account common.Address) (*types.Receipt, error) {
	return l.transact(ctx, MethodProposeRemoveAdmin, id, account)
}

func (l *Ledger) ApproveRemoveAdmin(ctx context.Context, id common.Hash) (*types.Receipt, error) {
	return l.transact(ctx, MethodApproveRemoveAdmin, id)
}

func (l *Ledger) ProposeTransferOwnership(ctx context.Context, id common.Hash, account common.Address) (*types.Receipt, error) {
	return l.transact(ctx, MethodProposeTransferOwnership, id, account)
}

func (l *Ledger) ApproveTransferOwnership(ctx context.Context, id common.Hash) (*types.Receipt, error) {
	return l.transact(ctx, MethodApproveTransferOwnership, id)
}
