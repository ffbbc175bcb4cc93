package serrors

import (
	"errors"
	"fmt"
)

// Kind is a marker interface implemented by the semantic error categories
// created with NewKind. It separates category sentinels from ordinary errors.
type Kind interface {
	error
	isKind()
}

// kind is the unexported sentinel implementation behind Kind.
type kind struct{ s string }

func (k kind) Error() string { return k.s }
func (k kind) isKind()       {}

// NewKind creates a new semantic error kind (a sentinel) with the given name.
// Kinds are comparable and match through errors.Is/As when wrapped in Error.
func NewKind(name string) Kind { return kind{s: name} }

// Default kinds cover the error taxonomy of the ticketing workflow. Local
// validation, transport failures, server-reported failures and the
// recognition-specific outcomes each get their own category so callers can
// branch on errors.Is without parsing messages.
var (
	// ErrValidation indicates a local field-grammar violation detected before
	// any network call was made.
	ErrValidation = NewKind("VALIDATION")
	// ErrNetwork indicates a transport-level failure (unreachable host,
	// connection reset) as opposed to a response the server produced.
	ErrNetwork = NewKind("NETWORK")
	// ErrRemote indicates a non-success HTTP response carrying a
	// server-supplied message.
	ErrRemote = NewKind("REMOTE")
	// ErrAmbiguousDetection indicates the plate recognizer found multiple
	// candidate plates in one image.
	ErrAmbiguousDetection = NewKind("AMBIGUOUS_DETECTION")
	// ErrMalformedRecognition indicates the recognizer answered successfully
	// but returned an incomplete plate.
	ErrMalformedRecognition = NewKind("MALFORMED_RECOGNITION")
	// ErrSessionExpired indicates the stored token is invalid or expired and
	// the local session must be purged.
	ErrSessionExpired = NewKind("SESSION_EXPIRED")
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = NewKind("NOT_FOUND")
	// ErrForbidden indicates the caller is authenticated but the operation is
	// not allowed (e.g. deleting a vehicle with unpaid tickets).
	ErrForbidden = NewKind("FORBIDDEN")
	// ErrBadRequest indicates the server rejected the request data.
	ErrBadRequest = NewKind("BAD_REQUEST")
	// ErrConflict indicates a state conflict (e.g. paying a ticket whose
	// status does not allow payment).
	ErrConflict = NewKind("CONFLICT")
	// ErrBusy indicates another request is already in flight for the same
	// workflow step.
	ErrBusy = NewKind("BUSY")
)

// Error is a semantic error carrying a kind sentinel, an optional wrapped
// cause and an optional message. It fully supports errors.Is/errors.As and
// unwrapping.
//
// Matching semantics:
//   - errors.Is(err, target) matches if target matches either the kind
//     sentinel or the wrapped cause.
//   - errors.As(err, target) succeeds for either the kind sentinel or the
//     wrapped cause.
//
// Error string formatting:
//   - msg and cause set: "<msg>: <cause>"
//   - only msg set: "<msg>"
//   - only cause set: "<cause>"
//   - neither: the kind's name.
type Error struct {
	kind Kind
	err  error
	msg  string
}

// With constructs a semantic error with the given kind and a human-readable
// message. Use Wrap to also record a concrete cause.
func With(k Kind, msgFmt string, args ...any) *Error {
	return &Error{kind: k, msg: fmt.Sprintf(msgFmt, args...)}
}

// Wrap constructs a semantic error with the given kind, wrapping the provided
// cause and attaching a message.
func Wrap(k Kind, err error, msgFmt string, args ...any) *Error {
	return &Error{kind: k, err: err, msg: fmt.Sprintf(msgFmt, args...)}
}

// KindOnly creates a semantic error carrying only the kind.
func KindOnly(k Kind) *Error { return &Error{kind: k} }

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.msg != "" && e.err != nil:
		return e.msg + ": " + e.err.Error()
	case e.msg != "":
		return e.msg
	case e.err != nil:
		return e.err.Error()
	default:
		if e.kind != nil {
			return e.kind.Error()
		}

		return "unknown error"
	}
}

// Unwrap returns the wrapped cause, letting errors.Unwrap/Is/As traverse the
// chain.
func (e *Error) Unwrap() error { return e.err }

// Is matches against either the kind sentinel or the wrapped cause.
func (e *Error) Is(target error) bool {
	if e == nil || target == nil {
		return e == nil && target == nil
	}
	if e.kind != nil && errors.Is(e.kind, target) {
		return true
	}
	if e.err != nil && errors.Is(e.err, target) {
		return true
	}

	return false
}

// As matches against either the kind sentinel or the wrapped cause.
func (e *Error) As(target any) bool {
	if e == nil || target == nil {
		return false
	}
	if e.kind != nil && errors.As(e.kind, target) {
		return true
	}
	if e.err != nil && errors.As(e.err, target) {
		return true
	}

	return false
}

// Kind returns the semantic kind sentinel of this error, or nil.
func (e *Error) Kind() Kind { return e.kind }

// Message returns the message attached to this error.
func (e *Error) Message() string { return e.msg }

// Cause returns the wrapped cause (may be nil).
func (e *Error) Cause() error { return e.err }
