package refresh

import (
	"errors"
	"fmt"
)

// Kind classifies why a refresh failed
type Kind int

const (
	KindNetwork Kind = iota + 1
	KindInvalidPayload
	KindRender
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindInvalidPayload:
		return "invalid_payload"
	case KindRender:
		return "render"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ErrStaleResponse is returned by Refresh when a newer refresh started
// before this one settled; its result was discarded.
var ErrStaleResponse = errors.New("stale refresh response discarded")

// Error is a failed refresh with its cause
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrap(kind Kind, err error) error {
	return &Error{Kind: kind, Err: err}
}

// IsKind reports whether err is a refresh Error of the given kind
func IsKind(err error, kind Kind) bool {
	var rerr *Error
	if errors.As(err, &rerr) {
		return rerr.Kind == kind
	}
	return false
}
