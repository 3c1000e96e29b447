package j832

import (
	"github.com/tansive/j832-go/internal/common/apperrors"
	"github.com/tansive/j832-go/internal/decode"
	"github.com/tansive/j832-go/internal/journal"
	"github.com/tansive/j832-go/internal/validation"
)

// Kind classifies every error returned by the client.
type Kind = apperrors.Kind

const (
	KindConfiguration = apperrors.KindConfiguration
	KindCapability    = apperrors.KindCapability
	KindValidation    = apperrors.KindValidation
	KindLedger        = apperrors.KindLedger
	KindDecode        = apperrors.KindDecode
)

// ErrorKind returns the Kind of err, or the empty Kind for foreign errors.
func ErrorKind(err error) Kind {
	return apperrors.KindOf(err)
}

var (
	ErrConfiguration     apperrors.Error = apperrors.New("invalid client configuration").SetKind(apperrors.KindConfiguration)
	ErrMissingEndpoint   apperrors.Error = ErrConfiguration.New("endpoint is required")
	ErrInvalidEndpoint   apperrors.Error = ErrConfiguration.New("endpoint must be an http, https, ws or wss URL")
	ErrMissingContract   apperrors.Error = ErrConfiguration.New("contract address is required")
	ErrInvalidContract   apperrors.Error = ErrConfiguration.New("invalid contract address")
	ErrInvalidSigningKey apperrors.Error = ErrConfiguration.New("signing key must be 0x followed by 64 hex characters")
	ErrConfigFile        apperrors.Error = ErrConfiguration.New("unable to load configuration")
)

var ErrReadOnlyClient apperrors.Error = apperrors.New("client has no signing key and cannot submit writes").SetKind(apperrors.KindCapability)

// ErrLedger wraps every failure reported by the ledger or the transport. The
// message is the ledger's own and the original error stays reachable with
// errors.Is and errors.As.
var ErrLedger apperrors.Error = apperrors.New("ledger call failed").SetKind(apperrors.KindLedger)

var (
	ErrInvalidInput      = validation.ErrInvalidInput
	ErrMissingRequired   = validation.ErrMissingRequired
	ErrInvalidAddress    = validation.ErrInvalidAddress
	ErrInvalidChangeType = validation.ErrInvalidChangeType
)

var ErrDecode = decode.ErrDecode

var ErrJournal = journal.ErrJournal
