package fault

import (
	"errors"
	"fmt"
)

// Kind classifies a fault.
type Kind int

// Fault kinds, in escalation order. Math typesetting failures are absorbed by
// the pipeline and have no kind.
const (
	RuntimeFault Kind = iota
	ParseFailure
	SanitizeFailure
	DecodeFailure
)

// String returns the lower-case kind name used in logs and JSON.
func (k Kind) String() string {
	switch k {
	case ParseFailure:
		return "parse"
	case SanitizeFailure:
		return "sanitize"
	case DecodeFailure:
		return "decode"
	default:
		return "runtime"
	}
}

// Error is the single fault shape delivered to a session.
// Error() returns Detail verbatim: it is shown to the author as-is.
type Error struct {
	Kind   Kind
	Detail string
	cause  error
}

// New creates an Error of the given kind.
func New(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

// Wrap creates an Error whose detail is prefix + ": " + err.
// The original error stays reachable through errors.Unwrap.
func Wrap(kind Kind, prefix string, err error) *Error {
	detail := err.Error()
	if prefix != "" {
		detail = prefix + ": " + detail
	}
	return &Error{Kind: kind, Detail: detail, cause: err}
}

func (e *Error) Error() string { return e.Detail }

func (e *Error) Unwrap() error { return e.cause }

// From converts anything raised or returned by a failing operation to an *Error.
// An existing *Error anywhere in an error chain is returned unchanged; other
// values (panic payloads, plain errors) become RuntimeFault.
func From(v any) *Error {
	switch x := v.(type) {
	case nil:
		return nil
	case *Error:
		return x
	case error:
		var fe *Error
		if errors.As(x, &fe) {
			return fe
		}
		return &Error{Kind: RuntimeFault, Detail: x.Error(), cause: x}
	case string:
		return &Error{Kind: RuntimeFault, Detail: x}
	default:
		return &Error{Kind: RuntimeFault, Detail: fmt.Sprint(x)}
	}
}
