package service

import "errors"

type ErrorKind string

const (
	KindValidation   ErrorKind = "VALIDATION_ERROR"
	KindNotFound     ErrorKind = "NOT_FOUND"
	KindBusinessRule ErrorKind = "BUSINESS_RULE"
	KindInternal     ErrorKind = "INTERNAL_ERROR"
)

// Error is a failure the HTTP layer can render as {code, message}.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
		return string(e.Kind) + ": " + e.Message + ": " + e.Err.Error()
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func validationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func notFoundError(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func businessRuleError(msg string) *Error {
	return &Error{Kind: KindBusinessRule, Message: msg}
}

// internalError carries the underlying message through to the caller.
func internalError(err error) *Error {
	return &Error{Kind: KindInternal, Message: err.Error(), Err: err}
}

// KindOf classifies err; anything that is not an *Error is internal.
func KindOf(err error) ErrorKind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindInternal
}
