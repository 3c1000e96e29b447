package j832

import (
	"context"
	"math/big"

	"github.com/tansive/j832-go/internal/canonical"
	"github.com/tansive/j832-go/internal/decode"
	"github.com/tansive/j832-go/internal/evm"
	"github.com/tansive/j832-go/internal/validation"
	"github.com/tansive/j832-go/pkg/ledger"
	"github.com/tansive/j832-go/pkg/types"
)

type resourceParams struct {
	ResourceID string `json:"resourceId" validate:"required"`
}

type registerChangeParams struct {
	ResourceID string           `json:"resourceId" validate:"required"`
	DataHash   string           `json:"dataHash" validate:"required"`
	ChangeType types.ChangeType `json:"changeType" validate:"changetype"`
}

func (c *Client) checkResource(op, resourceID string) error {
	if err := validation.Check(resourceParams{ResourceID: resourceID}); err != nil {
		return c.reject(op, err)
	}
	return nil
}

// CreateResource registers a new resource with the caller as owner and sole
// admin. Only the first creation of an identity succeeds; later attempts are
// rejected by the ledger.
func (c *Client) CreateResource(ctx context.Context, resourceID string, enforceUniqueness bool) (*types.Receipt, error) {
	const op = evm.MethodCreateResource
	if err := c.checkWrite(op); err != nil {
		return nil, err
	}
	if err := c.checkResource(op, resourceID); err != nil {
		return nil, err
	}
	id := canonical.ToHash(resourceID)
	args := map[string]any{"resourceId": id.Hex(), "enforceUniqueness": enforceUniqueness}
	return c.submit(ctx, op, args, func(ctx context.Context) (*types.Receipt, error) {
		return c.ledger.CreateResource(ctx, id, enforceUniqueness)
	})
}

// RegisterChange appends one change to the resource's history. The version
// is assigned by the ledger.
func (c *Client) RegisterChange(ctx context.Context, resourceID, dataHash string, changeType types.ChangeType) (*types.Receipt, error) {
	const op = evm.MethodRegisterChange
	if err := c.checkWrite(op); err != nil {
		return nil, err
	}
	params := registerChangeParams{ResourceID: resourceID, DataHash: dataHash, ChangeType: changeType}
	if err := validation.Check(params); err != nil {
		return nil, c.reject(op, err)
	}
	id := canonical.ToHash(resourceID)
	hash := canonical.ToHash(dataHash)
	args := map[string]any{"resourceId": id.Hex(), "dataHash": hash.Hex(), "changeType": changeType.String()}
	return c.submit(ctx, op, args, func(ctx context.Context) (*types.Receipt, error) {
		return c.ledger.RegisterChange(ctx, id, hash, uint8(changeType))
	})
}

// SetResourceActiveStatus activates or deactivates a resource. Admin
// membership is checked by the ledger, not here.
func (c *Client) SetResourceActiveStatus(ctx context.Context, resourceID string, active bool) (*types.Receipt, error) {
	const op = evm.MethodSetResourceActiveStatus
	if err := c.checkWrite(op); err != nil {
		return nil, err
	}
	if err := c.checkResource(op, resourceID); err != nil {
		return nil, err
	}
	id := canonical.ToHash(resourceID)
	args := map[string]any{"resourceId": id.Hex(), "active": active}
	return c.submit(ctx, op, args, func(ctx context.Context) (*types.Receipt, error) {
		return c.ledger.SetResourceActiveStatus(ctx, id, active)
	})
}

func (c *Client) SetUniqueness(ctx context.Context, resourceID string, enforce bool) (*types.Receipt, error) {
	const op = evm.MethodSetUniqueness
	if err := c.checkWrite(op); err != nil {
		return nil, err
	}
	if err := c.checkResource(op, resourceID); err != nil {
		return nil, err
	}
	id := canonical.ToHash(resourceID)
	args := map[string]any{"resourceId": id.Hex(), "enforceUniqueness": enforce}
	return c.submit(ctx, op, args, func(ctx context.Context) (*types.Receipt, error) {
		return c.ledger.SetUniqueness(ctx, id, enforce)
	})
}

// GetLatestChange returns the highest version change. A resource without
// changes is an error reported by the ledger.
func (c *Client) GetLatestChange(ctx context.Context, resourceID string) (types.Change, error) {
	const op = evm.MethodGetLatestChange
	if err := c.checkResource(op, resourceID); err != nil {
		return types.Change{}, err
	}
	id := canonical.ToHash(resourceID)
	return dispatch(ctx, c, op, func(ctx context.Context) (ledger.RawChange, error) {
		return c.ledger.GetLatestChange(ctx, id)
	}, decode.Change)
}

// GetHistoryRange returns at most count changes starting at the zero-based
// offset start, in ascending version order. A start at or past the end of
// the history yields an empty slice.
func (c *Client) GetHistoryRange(ctx context.Context, resourceID string, start, count uint64) ([]types.Change, error) {
	const op = evm.MethodGetHistoryRange
	if err := c.checkResource(op, resourceID); err != nil {
		return nil, err
	}
	id := canonical.ToHash(resourceID)
	return dispatch(ctx, c, op, func(ctx context.Context) ([]ledger.RawChange, error) {
		return c.ledger.GetHistoryRange(ctx, id, new(big.Int).SetUint64(start), new(big.Int).SetUint64(count))
	}, func(raw []ledger.RawChange) ([]types.Change, error) {
		return decode.ChangePage(raw, count)
	})
}

// GetHistory reads the version count and then the whole history in one range
// read. The two reads are not atomic: changes registered in between are not
// included.
func (c *Client) GetHistory(ctx context.Context, resourceID string) ([]types.Change, error) {
	n, err := c.GetVersionCount(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return []types.Change{}, nil
	}
	return c.GetHistoryRange(ctx, resourceID, 0, n)
}

func (c *Client) GetVersionCount(ctx context.Context, resourceID string) (uint64, error) {
	const op = evm.MethodGetVersionCount
	if err := c.checkResource(op, resourceID); err != nil {
		return 0, err
	}
	id := canonical.ToHash(resourceID)
	return dispatch(ctx, c, op, func(ctx context.Context) (*big.Int, error) {
		return c.ledger.GetVersionCount(ctx, id)
	}, func(v *big.Int) (uint64, error) {
		return decode.Uint64("versionCount", v)
	})
}

func (c *Client) IsResourceActive(ctx context.Context, resourceID string) (bool, error) {
	const op = evm.MethodIsResourceActive
	if err := c.checkResource(op, resourceID); err != nil {
		return false, err
	}
	id := canonical.ToHash(resourceID)
	return dispatch(ctx, c, op, func(ctx context.Context) (bool, error) {
		return c.ledger.IsResourceActive(ctx, id)
	}, passthrough[bool])
}

func (c *Client) IsUniquenessEnforced(ctx context.Context, resourceID string) (bool, error) {
	const op = evm.MethodIsUniquenessEnforced
	if err := c.checkResource(op, resourceID); err != nil {
		return false, err
	}
	id := canonical.ToHash(resourceID)
	return dispatch(ctx, c, op, func(ctx context.Context) (bool, error) {
		return c.ledger.IsUniquenessEnforced(ctx, id)
	}, passthrough[bool])
}

// GetResourceConfig returns the owner and flags of a resource.
func (c *Client) GetResourceConfig(ctx context.Context, resourceID string) (types.ResourceConfig, error) {
	const op = evm.MethodGetResourceConfig
	if err := c.checkResource(op, resourceID); err != nil {
		return types.ResourceConfig{}, err
	}
	id := canonical.ToHash(resourceID)
	return dispatch(ctx, c, op, func(ctx context.Context) (ledger.RawResourceConfig, error) {
		return c.ledger.GetResourceConfig(ctx, id)
	}, decode.ResourceConfig)
}
