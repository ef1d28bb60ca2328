// internal/app/gateway/errors.go
package gateway

import (
	"errors"
	"fmt"
)

// Kind classifies a failed gateway operation. Every error that leaves
// this package carries exactly one Kind; callers branch on it instead
// of inspecting transport details.
type Kind int

const (
	// KindUnknown covers unclassified failures, including success
	// responses whose bodies could not be decoded.
	KindUnknown Kind = iota

	// KindNetwork means the request never produced an HTTP response
	// (DNS failure, refused connection, timeout).
	KindNetwork

	// KindUnauthorized means the server rejected the credential (401).
	KindUnauthorized

	// KindValidation means the server rejected the payload (400, 422).
	KindValidation

	// KindNotFound means the mutate/delete target is absent server-side (404).
	KindNotFound

	// KindBusy means a store rejected the command because another
	// request for the same resource type was already in flight. It is
	// produced by the store layer, never by the transport.
	KindBusy
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindUnauthorized:
		return "unauthorized"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindBusy:
		return "busy"
	default:
		return "unknown"
	}
}

// Error is the normalized failure surfaced to stores and screens.
// Message is always human-readable: either the server's {message} body
// or a generic per-operation fallback.
type Error struct {
	Kind    Kind
	Op      string // e.g. "list groups"
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Op, e.Message, e.Kind)
}

// Normalize converts an arbitrary error into a *Error. Errors already
// produced by this package pass through unchanged; anything else is
// wrapped as KindUnknown so callers never see a raw transport fault.
func Normalize(op string, err error) *Error {
	if err == nil {
		return nil
	}
	var ge *Error
	if errors.As(err, &ge) {
		return ge
	}
	return &Error{Kind: KindUnknown, Op: op, Message: err.Error()}
}

// kindForStatus maps a non-2xx HTTP status to an error Kind.
func kindForStatus(status int) Kind {
	switch status {
	case 401:
		return KindUnauthorized
	case 400, 422:
		return KindValidation
	case 404:
		return KindNotFound
	default:
		return KindUnknown
	}
}
