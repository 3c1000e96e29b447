package apperrors

// Kind groups errors by how a caller is expected to react to them.
type Kind string

const (
	KindUnknown       Kind = ""
	KindConfiguration Kind = "configuration"
	KindCapability    Kind = "capability"
	KindValidation    Kind = "validation"
	KindLedger        Kind = "ledger"
	KindDecode        Kind = "decode"
)

type Error interface {
	Error() string
	ErrorAll() string
	New(msg string) Error
	MsgErr(msg string, err ...error) Error
	Msg(msg string) Error
	Prefix(prefix string) Error
	Suffix(suffix string) Error
	Err(err ...error) Error
	Unwrap() []error
	Is(target error) bool
	SetExpandError(expand bool) Error
	SetKind(kind Kind) Error
	Kind() Kind
}
