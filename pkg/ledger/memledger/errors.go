package memledger

import "github.com/tansive/j832-go/internal/common/apperrors"

// Errors mirror the revert reasons of the J832 contract.
var (
	ErrReverted          apperrors.Error = apperrors.New("execution reverted").SetKind(apperrors.KindLedger)
	ErrNoSigner          apperrors.Error = apperrors.New("connection has no signer").SetKind(apperrors.KindLedger)
	ErrResourceExists    apperrors.Error = ErrReverted.New("execution reverted: resource already exists")
	ErrResourceNotFound  apperrors.Error = ErrReverted.New("execution reverted: resource does not exist")
	ErrNotAdmin          apperrors.Error = ErrReverted.New("execution reverted: caller is not an admin")
	ErrResourceInactive  apperrors.Error = ErrReverted.New("execution reverted: resource is not active")
	ErrDuplicateDataHash apperrors.Error = ErrReverted.New("execution reverted: data hash already registered")
	ErrInvalidChangeType apperrors.Error = ErrReverted.New("execution reverted: invalid change type")
	ErrNoChanges         apperrors.Error = ErrReverted.New("execution reverted: no changes recorded")
	ErrAlreadyAdmin      apperrors.Error = ErrReverted.New("execution reverted: account is already an admin")
	ErrNotAnAdmin        apperrors.Error = ErrReverted.New("execution reverted: account is not an admin")
	ErrCannotRemoveOwner apperrors.Error = ErrReverted.New("execution reverted: owner cannot be removed")
	ErrLastAdmin         apperrors.Error = ErrReverted.New("execution reverted: cannot remove the last admin")
	ErrAlreadyOwner      apperrors.Error = ErrReverted.New("execution reverted: account is already the owner")
	ErrProposalPending   apperrors.Error = ErrReverted.New("execution reverted: a proposal is already pending")
	ErrNoProposal        apperrors.Error = ErrReverted.New("execution reverted: no pending proposal")
	ErrAlreadyApproved   apperrors.Error = ErrReverted.New("execution reverted: caller already approved")
	ErrZeroAddress       apperrors.Error = ErrReverted.New("execution reverted: zero address")
)
