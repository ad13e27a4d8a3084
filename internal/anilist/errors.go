package anilist

import (
	"errors"
	"fmt"
)

// ErrUnavailable is the single "search unavailable" category every
// failure of the catalog client resolves to. Callers match it with
// errors.Is and inspect *APIError for the underlying detail.
var ErrUnavailable = errors.New("catalog search unavailable")

// FailureKind distinguishes the three failure classes of a catalog call.
type FailureKind string

const (
	// FailureTransport: the HTTP round trip itself failed (DNS, TLS,
	// timeout, connection reset).
	FailureTransport FailureKind = "transport"
	// FailureStatus: the catalog answered with a non-2xx status.
	FailureStatus FailureKind = "status"
	// FailurePayload: a 200 response carried an errors array instead
	// of data.
	FailurePayload FailureKind = "payload"
)

// APIError carries the failure class and underlying detail of a failed
// catalog call. It unwraps to ErrUnavailable.
type APIError struct {
	Kind       FailureKind
	StatusCode int    // set for FailureStatus
	Detail     string // response body excerpt or upstream error message
	Err        error  // set for FailureTransport
}

func (e *APIError) Error() string {
	switch e.Kind {
	case FailureTransport:
		return fmt.Sprintf("anilist: transport failure: %v", e.Err)
	case FailureStatus:
		return fmt.Sprintf("anilist: HTTP %d: %s", e.StatusCode, e.Detail)
	case FailurePayload:
		return fmt.Sprintf("anilist: API error: %s", e.Detail)
	default:
		return fmt.Sprintf("anilist: %s", e.Detail)
	}
}

func (e *APIError) Unwrap() error {
	return ErrUnavailable
}
