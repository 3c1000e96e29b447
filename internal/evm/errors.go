package evm

import (
	"github.com/tansive/j832-go/internal/common/apperrors"
	"github.com/tansive/j832-go/internal/decode"
)

var (
	ErrNoSigner         apperrors.Error = apperrors.New("ledger connection has no signer").SetKind(apperrors.KindCapability)
	ErrConnect          apperrors.Error = apperrors.New("unable to connect to ledger").SetKind(apperrors.KindLedger)
	ErrInvalidABI       apperrors.Error = apperrors.New("invalid contract ABI").SetKind(apperrors.KindConfiguration)
	ErrUnexpectedResult apperrors.Error = decode.ErrDecode.New("unexpected ledger result")
)
