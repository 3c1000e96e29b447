package apperrors

import "errors"

// appError implements the apperrors.Error interface. Modifiers return a child
// of the receiver, so package-level sentinels are never mutated by callers and
// the child still matches the sentinel with errors.Is.
type appError struct {
	msg           string
	base          Error
	wrappedErrors []error
	kind          Kind
	expandError   bool
	prefix        string
	suffix        string
}

func (e *appError) Error() string {
	msg := e.msg
	if e.prefix != "" {
		msg = e.prefix + ": " + msg
	}
	if e.suffix != "" {
		msg += ": " + e.suffix
	}
	return msg
}

func (e *appError) ErrorAll() string {
	msg := e.Error()
	if !e.expandError {
		return msg
	}
	var wrapped string
	for _, err := range e.wrappedErrors {
		wrapped += err.Error() + ";"
	}
	if len(wrapped) > 0 {
		// remove the last ;
		msg = msg + ": " + wrapped[:len(wrapped)-1]
	}
	return msg
}

func (e *appError) Unwrap() []error {
	return e.wrappedErrors
}

func (e *appError) derive() *appError {
	c := *e
	c.base = e
	c.wrappedErrors = append([]error(nil), e.wrappedErrors...)
	return &c
}

func (e *appError) New(msg string) Error {
	return &appError{
		msg:  msg,
		kind: e.kind,
		base: e,
	}
}

func (e *appError) Msg(msg string) Error {
	c := e.derive()
	c.msg = msg
	return c
}

func (e *appError) Prefix(prefix string) Error {
	c := e.derive()
	c.prefix = prefix
	return c
}

func (e *appError) Suffix(suffix string) Error {
	c := e.derive()
	c.suffix = suffix
	return c
}

func (e *appError) MsgErr(msg string, err ...error) Error {
	c := e.derive()
	c.msg = msg
	c.wrappedErrors = append(c.wrappedErrors, err...)
	return c
}

func (e *appError) Err(err ...error) Error {
	c := e.derive()
	c.wrappedErrors = append(c.wrappedErrors, err...)
	return c
}

// Is reports whether target is this error, one of its ancestors, or is
// reachable through the errors it wraps.
func (e *appError) Is(target error) bool {
	if e == target || e.base == target {
		return true
	}
	if e.base != nil && e.base.Is(target) {
		return true
	}
	for _, err := range e.wrappedErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func (e *appError) SetExpandError(expand bool) Error {
	c := e.derive()
	c.expandError = expand
	return c
}

func (e *appError) SetKind(kind Kind) Error {
	c := *e
	c.kind = kind
	return &c
}

func (e *appError) Kind() Kind {
	return e.kind
}

func New(msg string) Error {
	return &appError{
		msg: msg,
	}
}

// KindOf returns the Kind of the first apperrors.Error found in err's chain.
func KindOf(err error) Kind {
	var ae Error
	if errors.As(err, &ae) {
		return ae.Kind()
	}
	return KindUnknown
}
