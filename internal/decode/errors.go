package decode

import "github.com/tansive/j832-go/internal/common/apperrors"

var (
	ErrDecode            apperrors.Error = apperrors.New("unable to decode ledger response").SetKind(apperrors.KindDecode)
	ErrMissingField      apperrors.Error = ErrDecode.New("missing field in ledger response")
	ErrNumericOverflow   apperrors.Error = ErrDecode.New("numeric field out of range")
	ErrMalformedHash     apperrors.Error = ErrDecode.New("malformed hash in ledger response")
	ErrMalformedAddress  apperrors.Error = ErrDecode.New("malformed address in ledger response")
	ErrUnknownChangeType apperrors.Error = ErrDecode.New("unknown change type in ledger response")
	ErrTooManyRecords    apperrors.Error = ErrDecode.New("ledger returned more records than requested")
)
