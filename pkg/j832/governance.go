package j832

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/tansive/j832-go/internal/canonical"
	"github.com/tansive/j832-go/internal/decode"
	"github.com/tansive/j832-go/internal/evm"
	"github.com/tansive/j832-go/internal/validation"
	"github.com/tansive/j832-go/pkg/types"
)

// Governance calls are pass-through. Whether an approval reaches majority,
// and what happens when it does, is decided by the ledger alone; the client
// keeps no record of open proposals.

type accountParams struct {
	ResourceID string `json:"resourceId" validate:"required"`
	Account    string `json:"account" validate:"required,eth_addr"`
}

func (c *Client) propose(ctx context.Context, op, resourceID, account string, call func(context.Context, common.Hash, common.Address) (*types.Receipt, error)) (*types.Receipt, error) {
	if err := c.checkWrite(op); err != nil {
		return nil, err
	}
	if err := validation.Check(accountParams{ResourceID: resourceID, Account: account}); err != nil {
		return nil, c.reject(op, err)
	}
	id := canonical.ToHash(resourceID)
	target := common.HexToAddress(account)
	args := map[string]any{"resourceId": id.Hex(), "account": target.Hex()}
	return c.submit(ctx, op, args, func(ctx context.Context) (*types.Receipt, error) {
		return call(ctx, id, target)
	})
}

func (c *Client) approve(ctx context.Context, op, resourceID string, call func(context.Context, common.Hash) (*types.Receipt, error)) (*types.Receipt, error) {
	if err := c.checkWrite(op); err != nil {
		return nil, err
	}
	if err := c.checkResource(op, resourceID); err != nil {
		return nil, err
	}
	id := canonical.ToHash(resourceID)
	args := map[string]any{"resourceId": id.Hex()}
	return c.submit(ctx, op, args, func(ctx context.Context) (*types.Receipt, error) {
		return call(ctx, id)
	})
}

// ProposeAddAdmin opens a proposal to add account to the resource's admins.
func (c *Client) ProposeAddAdmin(ctx context.Context, resourceID, account string) (*types.Receipt, error) {
	return c.propose(ctx, evm.MethodProposeAddAdmin, resourceID, account, c.ledger.ProposeAddAdmin)
}

// ApproveAddAdmin records the caller's approval of the pending add-admin
// proposal.
func (c *Client) ApproveAddAdmin(ctx context.Context, resourceID string) (*types.Receipt, error) {
	return c.approve(ctx, evm.MethodApproveAddAdmin, resourceID, c.ledger.ApproveAddAdmin)
}

func (c *Client) ProposeRemoveAdmin(ctx context.Context, resourceID, account string) (*types.Receipt, error) {
	return c.propose(ctx, evm.MethodProposeRemoveAdmin, resourceID, account, c.ledger.ProposeRemoveAdmin)
}

func (c *Client) ApproveRemoveAdmin(ctx context.Context, resourceID string) (*types.Receipt, error) {
	return c.approve(ctx, evm.MethodApproveRemoveAdmin, resourceID, c.ledger.ApproveRemoveAdmin)
}

func (c *Client) ProposeTransferOwnership(ctx context.Context, resourceID, account string) (*types.Receipt, error) {
	return c.propose(ctx, evm.MethodProposeTransferOwnership, resourceID, account, c.ledger.ProposeTransferOwnership)
}

func (c *Client) ApproveTransferOwnership(ctx context.Context, resourceID string) (*types.Receipt, error) {
	return c.approve(ctx, evm.MethodApproveTransferOwnership, resourceID, c.ledger.ApproveTransferOwnership)
}

// GetAdmins returns the current admin addresses in ledger order.
func (c *Client) GetAdmins(ctx context.Context, resourceID string) ([]string, error) {
	const op = evm.MethodGetAdmins
	if err := c.checkResource(op, resourceID); err != nil {
		return nil, err
	}
	id := canonical.ToHash(resourceID)
	return dispatch(ctx, c, op, func(ctx context.Context) ([]common.Address, error) {
		return c.ledger.GetAdmins(ctx, id)
	}, func(raw []common.Address) ([]string, error) {
		return decode.Addresses(raw), nil
	})
}

func (c *Client) GetAdminCount(ctx context.Context, resourceID string) (uint64, error) {
	const op = evm.MethodGetAdminCount
	if err := c.checkResource(op, resourceID); err != nil {
		return 0, err
	}
	id := canonical.ToHash(resourceID)
	return dispatch(ctx, c, op, func(ctx context.Context) (*big.Int, error) {
		return c.ledger.GetAdminCount(ctx, id)
	}, func(v *big.Int) (uint64, error) {
		return decode.Uint64("adminCount", v)
	})
}

func (c *Client) IsAdmin(ctx context.Context, resourceID, account string) (bool, error) {
	const op = evm.MethodIsAdmin
	if err := validation.Check(accountParams{ResourceID: resourceID, Account: account}); err != nil {
		return false, c.reject(op, err)
	}
	id := canonical.ToHash(resourceID)
	target := common.HexToAddress(account)
	return dispatch(ctx, c, op, func(ctx context.Context) (bool, error) {
		return c.ledger.IsAdmin(ctx, id, target)
	}, passthrough[bool])
}

// GetResourceOwner returns the owner from the resource configuration read.
func (c *Client) GetResourceOwner(ctx context.Context, resourceID string) (string, error) {
	cfg, err := c.GetResourceConfig(ctx, resourceID)
	if err != nil {
		return "", err
	}
	return cfg.Owner, nil
}
