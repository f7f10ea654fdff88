// Package apperror defines the error taxonomy the services return and the
// transport layer maps to HTTP statuses.
package apperror

import "errors"

type Kind int

const (
	// KindInternal covers storage and other unexpected failures. It is the
	// zero-ish default: anything that is not one of our typed errors.
	KindInternal Kind = iota
	// KindValidation is malformed or out-of-range input, surfaced with
	// field-level detail.
	KindValidation
	// KindConflict is a state collision: overlapping slots, an already
	// claimed slot, a duplicate booking. Retryable with other parameters.
	KindConflict
	// KindPolicy is a rule violation: past date, too late to cancel, not
	// the owner, wrong role. Not retryable.
	KindPolicy
	// KindNotFound is a missing or inaccessible entity. Absence and lack
	// of authorization are deliberately indistinguishable.
	KindNotFound
)

// FieldError is one per-field validation problem.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(message string, fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func Policy(message string) *Error {
	return &Error{Kind: KindPolicy, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal error", Err: err}
}

// KindOf extracts the kind from err, defaulting to KindInternal so that
// raw storage errors never leak detail to clients.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// As returns the typed error inside err, if any.
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
