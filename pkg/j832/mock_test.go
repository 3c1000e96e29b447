package j832

import (
	"context"
	"crypto/ecdsa"
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tansive/j832-go/pkg/ledger"
	"github.com/tansive/j832-go/pkg/types"
)

// mockLedger records every call. Tests that expect no ledger traffic set no
// expectations, so any call fails the test.
type mockLedger struct {
	mock.Mock
}

var _ ledger.Ledger = (*mockLedger)(nil)

func receiptOf(args mock.Arguments) (*types.Receipt, error) {
	r, _ := args.Get(0).(*types.Receipt)
	return r, args.Error(1)
}

func (m *mockLedger) GetLatestChange(ctx context.Context, id common.Hash) (ledger.RawChange, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(ledger.RawChange), args.Error(1)
}

func (m *mockLedger) GetHistoryRange(ctx context.Context, id common.Hash, start, count *big.Int) ([]ledger.RawChange, error) {
	args := m.Called(ctx, id, start, count)
	r, _ := args.Get(0).([]ledger.RawChange)
	return r, args.Error(1)
}

func (m *mockLedger) GetVersionCount(ctx context.Context, id common.Hash) (*big.Int, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*big.Int)
	return r, args.Error(1)
}

func (m *mockLedger) GetAdmins(ctx context.Context, id common.Hash) ([]common.Address, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).([]common.Address)
	return r, args.Error(1)
}

func (m *mockLedger) GetAdminCount(ctx context.Context, id common.Hash) (*big.Int, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*big.Int)
	return r, args.Error(1)
}

func (m *mockLedger) IsAdmin(ctx context.Context, id common.Hash, account common.Address) (bool, error) {
	args := m.Called(ctx, id, account)
	return args.Bool(0), args.Error(1)
}

func (m *mockLedger) GetResourceConfig(ctx context.Context, id common.Hash) (ledger.RawResourceConfig, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(ledger.RawResourceConfig), args.Error(1)
}

func (m *mockLedger) IsResourceActive(ctx context.Context, id common.Hash) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockLedger) IsUniquenessEnforced(ctx context.Context, id common.Hash) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockLedger) CreateResource(ctx context.Context, id common.Hash, enforceUniqueness bool) (*types.Receipt, error) {
	return receiptOf(m.Called(ctx, id, enforceUniqueness))
}

func (m *mockLedger) RegisterChange(ctx context.Context, id common.Hash, dataHash common.Hash, changeType uint8) (*types.Receipt, error) {
	return receiptOf(m.Called(ctx, id, dataHash, changeType))
}

func (m *mockLedger) SetResourceActiveStatus(ctx context.Context, id common.Hash, active bool) (*types.Receipt, error) {
	return receiptOf(m.Called(ctx, id, active))
}

func (m *mockLedger) SetUniqueness(ctx context.Context, id common.Hash, enforce bool) (*types.Receipt, error) {
	return receiptOf(m.Called(ctx, id, enforce))
}

func (m *mockLedger) ProposeAddAdmin(ctx context.Context, id common.Hash, account common.Address) (*types.Receipt, error) {
	return receiptOf(m.Called(ctx, id, account))
}

func (m *mockLedger) ApproveAddAdmin(ctx context.Context, id common.Hash) (*types.Receipt, error) {
	return receiptOf(m.Called(ctx, id))
}

func (m *mockLedger) ProposeRemoveAdmin(ctx context.Context, id common.Hash, account common.Address) (*types.Receipt, error) {
	return receiptOf(m.Called(ctx, id, account))
}

func (m *mockLedger) ApproveRemoveAdmin(ctx context.Context, id common.Hash) (*types.Receipt, error) {
	return receiptOf(m.Called(ctx, id))
}

func (m *mockLedger) ProposeTransferOwnership(ctx context.Context, id common.Hash, account common.Address) (*types.Receipt, error) {
	return receiptOf(m.Called(ctx, id, account))
}

func (m *mockLedger) ApproveTransferOwnership(ctx context.Context, id common.Hash) (*types.Receipt, error) {
	return receiptOf(m.Called(ctx, id))
}

func (m *mockLedger) Close() {}

// connectTo returns a connector handing out l and remembering the signer it
// was given.
func connectTo(l ledger.Ledger, signer **ecdsa.PrivateKey) ledger.Connector {
	return ledger.ConnectorFunc(func(_ context.Context, _ common.Address, key *ecdsa.PrivateKey) (ledger.Ledger, error) {
		if signer != nil {
			*signer = key
		}
		return l, nil
	})
}

const (
	testEndpoint = "http://127.0.0.1:8545"
	testContract = "0x5FbDB2315678afecb367f032d93F642f64180aa3"
	testAccount  = "0x0000000000000000000000000000000000000b0b"
)

func newKey(t *testing.T) (*ecdsa.PrivateKey, string) {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return key, "0x" + hex.EncodeToString(crypto.FromECDSA(key))
}

func readOnlyConfig() Config {
	return Config{Endpoint: testEndpoint, ContractAddress: testContract}
}

func signingConfig(t *testing.T) Config {
	_, secret := newKey(t)
	cfg := readOnlyConfig()
	cfg.SigningKey = secret
	return cfg
}
