package responders

import "errors"

var (
	// ErrEndpointRequired is returned when an HTTP responder has no endpoint.
	ErrEndpointRequired = errors.New("responders: endpoint is required")
	// ErrUnexpectedStatus is returned for non-2xx responses.
	ErrUnexpectedStatus = errors.New("responders: unexpected status")
	// ErrUnknownKind is returned by New for an unsupported responder kind.
	ErrUnknownKind = errors.New("responders: unknown responder kind")
)
