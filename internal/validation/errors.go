package validation

import "github.com/tansive/j832-go/internal/common/apperrors"

var (
	ErrInvalidInput      apperrors.Error = apperrors.New("invalid input").SetKind(apperrors.KindValidation)
	ErrMissingRequired   apperrors.Error = ErrInvalidInput.New("missing required field")
	ErrInvalidAddress    apperrors.Error = ErrInvalidInput.New("invalid address")
	ErrInvalidChangeType apperrors.Error = ErrInvalidInput.New("change type out of range")
	ErrInvalidFormat     apperrors.Error = ErrInvalidInput.New("invalid format")
)
