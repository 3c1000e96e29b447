package journal

import "github.com/tansive/j832-go/internal/common/apperrors"

var (
	ErrJournal      apperrors.Error = apperrors.New("journal error")
	ErrOpen         apperrors.Error = ErrJournal.New("unable to open journal")
	ErrWrite        apperrors.Error = ErrJournal.New("unable to write journal entry")
	ErrClosed       apperrors.Error = ErrJournal.New("journal is closed")
	ErrInvalidEntry apperrors.Error = ErrJournal.New("invalid journal entry")
	ErrHashMismatch apperrors.Error = ErrJournal.New("hash mismatch")
	ErrChainBroken  apperrors.Error = ErrJournal.New("prevHash mismatch")
	ErrBadSignature apperrors.Error = ErrJournal.New("signature mismatch")
)
