package memledger

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tansive/j832-go/pkg/types"
)

var (
	alice = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob   = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
	carol = common.HexToAddress("0x00000000000000000000000000000000000ca201")
	dave  = common.HexToAddress("0x0000000000000000000000000000000000000da5")

	docID = crypto.Keccak256Hash([]byte("doc-1"))
)

func fixedClock() time.Time {
	return time.Unix(1700000000, 0)
}

func TestCreateResource(t *testing.T) {
	ctx := context.Background()
	l := New()

	receipt, err := l.As(alice).CreateResource(ctx, docID, true)
	require.NoError(t, err)
	assert.True(t, receipt.Successful())
	assert.Equal(t, uint64(1), receipt.BlockNumber)

	_, err = l.As(alice).CreateResource(ctx, docID, false)
	assert.ErrorIs(t, err, ErrResourceExists)
	_, err = l.As(bob).CreateResource(ctx, docID, false)
	assert.ErrorIs(t, err, ErrResourceExists)

	cfg, err := l.As(bob).GetResourceConfig(ctx, docID)
	require.NoError(t, err)
	assert.Equal(t, alice.Hex(), cfg.Owner)
	assert.True(t, cfg.IsActive)
	assert.True(t, cfg.EnforceUniqueness)

	admins, err := l.As(bob).GetAdmins(ctx, docID)
	require.NoError(t, err)
	assert.Equal(t, []common.Address{alice}, admins)
}

func TestReadOnlySession(t *testing.T) {
	ctx := context.Background()
	l := New()
	ro, err := l.Connect(ctx, common.Address{}, nil)
	require.NoError(t, err)

	_, err = ro.CreateResource(ctx, docID, false)
	assert.ErrorIs(t, err, ErrNoSigner)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	rw, err := l.Connect(ctx, common.Address{}, key)
	require.NoError(t, err)
	_, err = rw.CreateResource(ctx, docID, false)
	require.NoError(t, err)

	cfg, err := ro.GetResourceConfig(ctx, docID)
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey).Hex(), cfg.Owner)
}

func TestRegisterChangeAndHistory(t *testing.T) {
	ctx := context.Background()
	l := New(WithClock(fixedClock))
	s := l.As(alice)

	_, err := s.GetLatestChange(ctx, docID)
	assert.ErrorIs(t, err, ErrResourceNotFound)

	_, err = s.CreateResource(ctx, docID, true)
	require.NoError(t, err)

	_, err = s.GetLatestChange(ctx, docID)
	assert.ErrorIs(t, err, ErrNoChanges)

	for i := 0; i < 5; i++ {
		h := crypto.Keccak256Hash([]byte{byte(i)})
		_, err := s.RegisterChange(ctx, docID, h, uint8(i%5))
		require.NoError(t, err)
	}

	_, err = s.RegisterChange(ctx, docID, crypto.Keccak256Hash([]byte{0}), 1)
	assert.ErrorIs(t, err, ErrDuplicateDataHash)
	_, err = s.RegisterChange(ctx, docID, crypto.Keccak256Hash([]byte("x")), 5)
	assert.ErrorIs(t, err, ErrInvalidChangeType)
	_, err = l.As(bob).RegisterChange(ctx, docID, crypto.Keccak256Hash([]byte("y")), 1)
	assert.ErrorIs(t, err, ErrNotAdmin)

	latest, err := s.GetLatestChange(ctx, docID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), latest.Version.Int64())
	assert.Equal(t, int64(1700000000), latest.Timestamp.Int64())
	assert.Equal(t, alice.Hex(), latest.Actor)
	assert.Equal(t, int64(types.ChangeTypeAudit), latest.ChangeType.Int64())

	count, err := s.GetVersionCount(ctx, docID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count.Int64())

	tests := []struct {
		name     string
		start    int64
		count    int64
		versions []int64
	}{
		{"full", 0, 5, []int64{1, 2, 3, 4, 5}},
		{"middle", 1, 2, []int64{2, 3}},
		{"truncated", 3, 10, []int64{4, 5}},
		{"at end", 5, 3, nil},
		{"past end", 9, 3, nil},
		{"zero count", 0, 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.GetHistoryRange(ctx, docID, big.NewInt(tt.start), big.NewInt(tt.count))
			require.NoError(t, err)
			require.NotNil(t, got)
			require.Len(t, got, len(tt.versions))
			for i, v := range tt.versions {
				assert.Equal(t, v, got[i].Version.Int64())
			}
		})
	}
}

func TestUniquenessAndActiveStatus(t *testing.T) {
	ctx := context.Background()
	l := New()
	s := l.As(alice)
	h := crypto.Keccak256Hash([]byte("payload"))

	_, err := s.CreateResource(ctx, docID, false)
	require.NoError(t, err)
	_, err = s.RegisterChange(ctx, docID, h, 0)
	require.NoError(t, err)
	_, err = s.RegisterChange(ctx, docID, h, 1)
	require.NoError(t, err, "duplicates allowed while uniqueness is off")

	_, err = s.SetUniqueness(ctx, docID, true)
	require.NoError(t, err)
	unique, err := s.IsUniquenessEnforced(ctx, docID)
	require.NoError(t, err)
	assert.True(t, unique)
	_, err = s.RegisterChange(ctx, docID, h, 1)
	assert.ErrorIs(t, err, ErrDuplicateDataHash)

	_, err = l.As(bob).SetResourceActiveStatus(ctx, docID, false)
	assert.ErrorIs(t, err, ErrNotAdmin)

	_, err = s.SetResourceActiveStatus(ctx, docID, false)
	require.NoError(t, err)
	active, err := s.IsResourceActive(ctx, docID)
	require.NoError(t, err)
	assert.False(t, active)
	_, err = s.RegisterChange(ctx, docID, crypto.Keccak256Hash([]byte("new")), 1)
	assert.ErrorIs(t, err, ErrResourceInactive)
}

func TestGovernanceMajority(t *testing.T) {
	ctx := context.Background()
	l := New()

	_, err := l.As(alice).CreateResource(ctx, docID, false)
	require.NoError(t, err)

	// A single admin is a majority on its own.
	_, err = l.As(alice).ProposeAddAdmin(ctx, docID, bob)
	require.NoError(t, err)
	ok, err := l.As(alice).IsAdmin(ctx, docID, bob)
	require.NoError(t, err)
	assert.True(t, ok)

	// Two admins: one approval out of two is not a majority.
	_, err = l.As(bob).ProposeAddAdmin(ctx, docID, carol)
	require.NoError(t, err)
	n, err := l.As(bob).GetAdminCount(ctx, docID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n.Int64())

	_, err = l.As(bob).ApproveAddAdmin(ctx, docID)
	assert.ErrorIs(t, err, ErrAlreadyApproved)
	_, err = l.As(alice).ProposeAddAdmin(ctx, docID, dave)
	assert.ErrorIs(t, err, ErrProposalPending)
	_, err = l.As(dave).ApproveAddAdmin(ctx, docID)
	assert.ErrorIs(t, err, ErrNotAdmin)

	_, err = l.As(alice).ApproveAddAdmin(ctx, docID)
	require.NoError(t, err)
	admins, err := l.As(alice).GetAdmins(ctx, docID)
	require.NoError(t, err)
	assert.Equal(t, []common.Address{alice, bob, carol}, admins)

	_, err = l.As(alice).ApproveAddAdmin(ctx, docID)
	assert.ErrorIs(t, err, ErrNoProposal)

	// Removal rules.
	_, err = l.As(bob).ProposeRemoveAdmin(ctx, docID, alice)
	assert.ErrorIs(t, err, ErrCannotRemoveOwner)
	_, err = l.As(bob).ProposeRemoveAdmin(ctx, docID, dave)
	assert.ErrorIs(t, err, ErrNotAnAdmin)
	_, err = l.As(bob).ProposeRemoveAdmin(ctx, docID, carol)
	require.NoError(t, err)
	_, err = l.As(alice).ApproveRemoveAdmin(ctx, docID)
	require.NoError(t, err)
	ok, err = l.As(alice).IsAdmin(ctx, docID, carol)
	require.NoError(t, err)
	assert.False(t, ok)

	// Ownership transfer needs both remaining admins.
	_, err = l.As(alice).ProposeTransferOwnership(ctx, docID, alice)
	assert.ErrorIs(t, err, ErrAlreadyOwner)
	_, err = l.As(alice).ProposeTransferOwnership(ctx, docID, dave)
	require.NoError(t, err)
	cfg, err := l.As(alice).GetResourceConfig(ctx, docID)
	require.NoError(t, err)
	assert.Equal(t, alice.Hex(), cfg.Owner)

	_, err = l.As(bob).ApproveTransferOwnership(ctx, docID)
	require.NoError(t, err)
	cfg, err = l.As(alice).GetResourceConfig(ctx, docID)
	require.NoError(t, err)
	assert.Equal(t, dave.Hex(), cfg.Owner)
	ok, err = l.As(alice).IsAdmin(ctx, docID, dave)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = l.As(alice).ProposeAddAdmin(ctx, docID, common.Address{})
	assert.ErrorIs(t, err, ErrZeroAddress)
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().As(alice).CreateResource(ctx, docID, false)
	assert.ErrorIs(t, err, context.Canceled)
}
