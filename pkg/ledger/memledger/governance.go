package memledger

import (
	"context"
	"slices"

	"github.com/ethereum/go-ethereum/common"
	"github.com/tansive/j832-go/pkg/types"
)

// A proposal takes effect once more than half of the current admins have
// approved it. The proposer's approval is recorded at proposal time.
func hasMajority(p *proposal, r *resource) bool {
	n := 0
	for a := range p.approvals {
		if r.isAdmin(a) {
			n++
		}
	}
	return n*2 > len(r.admins)
}

func (s *Session) propose(ctx context.Context, id common.Hash, kind proposalKind, target common.Address, check func(r *resource) error) (*types.Receipt, error) {
	return s.write(ctx, func() error {
		r, err := s.adminResource(id)
		if err != nil {
			return err
		}
		if target == (common.Address{}) {
			return ErrZeroAddress
		}
		if _, pending := r.proposals[kind]; pending {
			return ErrProposalPending
		}
		if err := check(r); err != nil {
			return err
		}
		p := &proposal{
			target:    target,
			approvals: map[common.Address]bool{s.from: true},
		}
		r.proposals[kind] = p
		s.l.applyIfMajority(r, kind, p)
		return nil
	})
}

func (s *Session) approve(ctx context.Context, id common.Hash, kind proposalKind) (*types.Receipt, error) {
	return s.write(ctx, func() error {
		r, err := s.adminResource(id)
		if err != nil {
			return err
		}
		p, ok := r.proposals[kind]
		if !ok {
			return ErrNoProposal
		}
		if p.approvals[s.from] {
			return ErrAlreadyApproved
		}
		p.approvals[s.from] = true
		s.l.applyIfMajority(r, kind, p)
		return nil
	})
}

func (l *Ledger) applyIfMajority(r *resource, kind proposalKind, p *proposal) {
	if !hasMajority(p, r) {
		return
	}
	delete(r.proposals, kind)
	switch kind {
	case proposalAddAdmin:
		if !r.isAdmin(p.target) {
			r.admins = append(r.admins, p.target)
		}
	case proposalRemoveAdmin:
		r.admins = slices.DeleteFunc(r.admins, func(a common.Address) bool { return a == p.target })
	case proposalTransferOwnership:
		r.owner = p.target
		if !r.isAdmin(p.target) {
			r.admins = append(r.admins, p.target)
		}
	}
}

func (s *Session) ProposeAddAdmin(ctx context.Context, id common.Hash, account common.Address) (*types.Receipt, error) {
	return s.propose(ctx, id, proposalAddAdmin, account, func(r *resource) error {
		if r.isAdmin(account) {
			return ErrAlreadyAdmin
		}
		return nil
	})
}

func (s *Session) ApproveAddAdmin(ctx context.Context, id common.Hash) (*types.Receipt, error) {
	return s.approve(ctx, id, proposalAddAdmin)
}

func (s *Session) ProposeRemoveAdmin(ctx context.Context, id common.Hash, account common.Address) (*types.Receipt, error) {
	return s.propose(ctx, id, proposalRemoveAdmin, account, func(r *resource) error {
		if !r.isAdmin(account) {
			return ErrNotAnAdmin
		}
		if account == r.owner {
			return ErrCannotRemoveOwner
		}
		if len(r.admins) == 1 {
			return ErrLastAdmin
		}
		return nil
	})
}

func (s *Session) ApproveRemoveAdmin(ctx context.Context, id common.Hash) (*types.Receipt, error) {
	return s.approve(ctx, id, proposalRemoveAdmin)
}

func (s *Session) ProposeTransferOwnership(ctx context.Context, id common.Hash, account common.Address) (*types.Receipt, error) {
	return s.propose(ctx, id, proposalTransferOwnership, account, func(r *resource) error {
		if account == r.owner {
			return ErrAlreadyOwner
		}
		return nil
	})
}

func (s *Session) ApproveTransferOwnership(ctx context.Context, id common.Hash) (*types.Receipt, error) {
	return s.approve(ctx, id, proposalTransferOwnership)
}
