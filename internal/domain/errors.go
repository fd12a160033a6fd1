package domain

import "errors"

// ErrorKind classifies a pipeline failure: was the request at fault
// (validation), the file itself (processing), or the infrastructure
// behind us (upstream)?
type ErrorKind string

const (
	ErrKindValidation ErrorKind = "validation"
	ErrKindProcessing ErrorKind = "processing"
	ErrKindUpstream   ErrorKind = "upstream"
)

// Error is a classified pipeline error. The wrapped cause is kept for
// logs; Message is safe to return to clients.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func ValidationError(msg string) *Error {
	return &Error{Kind: ErrKindValidation, Message: msg}
}

func ProcessingError(msg string, err error) *Error {
	return &Error{Kind: ErrKindProcessing, Message: msg, Err: err}
}

func UpstreamError(msg string, err error) *Error {
	return &Error{Kind: ErrKindUpstream, Message: msg, Err: err}
}

// KindOf extracts the classification from err. Unclassified errors are
// reported as upstream so operators never mistake an infrastructure
// fault for bad input.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ErrKindUpstream
}

// MessageOf returns the client-safe message for err.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return "internal error"
}
