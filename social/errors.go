package social

import (
	"errors"
	"fmt"

	"threadloom.com/threadloom-backend/storage"
)

// Kind classifies a failure so callers can map it without parsing messages.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalidArgument
	KindUnauthorized
	KindConflict
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindUnauthorized:
		return "unauthorized"
	case KindConflict:
		return "conflict"
	case KindUpstream:
		return "upstream"
	default:
		return "unknown"
	}
}

// Error is the failure type returned by every Service operation.
//
// Partial is set on an Upstream error raised after the first half of a
// two-record mutation already landed. A caller seeing Partial must re-read
// state before retrying; blindly re-toggling would invert the half that
// succeeded.
type Error struct {
	Kind    Kind
	Message string
	Partial bool
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func notFound(msg string) *Error        { return &Error{Kind: KindNotFound, Message: msg} }
func invalidArgument(msg string) *Error { return &Error{Kind: KindInvalidArgument, Message: msg} }
func unauthorized(msg string) *Error    { return &Error{Kind: KindUnauthorized, Message: msg} }
func conflict(msg string) *Error        { return &Error{Kind: KindConflict, Message: msg} }

func upstream(msg string, err error) *Error {
	return &Error{Kind: KindUpstream, Message: msg, Err: err}
}

func partialUpstream(msg string, err error) *Error {
	return &Error{Kind: KindUpstream, Message: msg, Partial: true, Err: err}
}

// wrapStore translates a store failure: absence becomes NotFound, a taken
// unique field becomes Conflict, anything else is Upstream.
func wrapStore(err error, msg string) *Error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return notFound(msg)
	case errors.Is(err, storage.ErrAlreadyExists):
		return conflict(msg)
	default:
		return upstream(msg, err)
	}
}

// KindOf extracts the Kind from any error in the chain, KindUnknown otherwise.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsPartial reports whether err carries the partial-application flag.
func IsPartial(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Partial
}
