package entity

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an indexer API failure into the categories the
// rest of the application cares about.
type ErrorKind int

const (
	// KindUpstream covers any non-2xx response that does not fall into a
	// more specific category.
	KindUpstream ErrorKind = iota
	// KindNotFound means the upstream reported no such address or asset.
	KindNotFound
	// KindRateLimited means the upstream rejected the request with 429.
	KindRateLimited
	// KindUnauthorized means the project credential was rejected (401/403).
	KindUnauthorized
	// KindNetworkUnreachable means the request never produced an HTTP
	// response at all.
	KindNetworkUnreachable
)

// APIError is the typed failure surfaced by the indexer client. It carries
// the HTTP status and response body verbatim; interpretation (fatal vs.
// skippable) is left to the caller.
type APIError struct {
	Kind   ErrorKind
	Status int
	Body   string
}

func (e *APIError) Error() string {
	switch e.Kind {
	case KindNotFound:
		return fmt.Sprintf("indexer: not found (status %d)", e.Status)
	case KindRateLimited:
		return fmt.Sprintf("indexer: rate limited (status %d)", e.Status)
	case KindUnauthorized:
		return fmt.Sprintf("indexer: unauthorized (status %d)", e.Status)
	case KindNetworkUnreachable:
		return fmt.Sprintf("indexer: network unreachable: %s", e.Body)
	default:
		return fmt.Sprintf("indexer: upstream error (status %d): %s", e.Status, e.Body)
	}
}

// UserMessage maps the failure to the message shown to the end user.
func (e *APIError) UserMessage() string {
	switch e.Kind {
	case KindNotFound:
		return "Wallet address not found. Please check the address and try again."
	case KindRateLimited:
		return "Too many requests. Please wait a moment and try again."
	case KindUnauthorized:
		return "API authentication error. Please check your API key."
	case KindNetworkUnreachable:
		return "Network connection error. Please check your internet connection and try again."
	default:
		return fmt.Sprintf("The data provider returned an error (status %d). Please try again later.", e.Status)
	}
}

// ErrorKindOf extracts the kind from an error chain. The second return is
// false when err is not an APIError.
func ErrorKindOf(err error) (ErrorKind, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind, true
	}
	return KindUpstream, false
}

// IsNotFound reports whether err is an APIError of kind KindNotFound.
func IsNotFound(err error) bool {
	kind, ok := ErrorKindOf(err)
	return ok && kind == KindNotFound
}
