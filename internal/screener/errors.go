package screener

import "errors"

// Error kinds surfaced by the screener and its provider clients.
// Callers match them with errors.Is; every wrap keeps the chain intact.
var (
	// ErrInvalidInput marks malformed caller input, detected before any
	// network call is made.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTransport marks an unreachable provider, timeout or non-success
	// HTTP status. Never retried by the scan itself.
	ErrTransport = errors.New("transport failure")

	// ErrDecode marks a response body that cannot be parsed into the
	// expected shape or is missing required fields.
	ErrDecode = errors.New("decode failure")

	// ErrProvider marks a response that parses but carries an explicit
	// error indicator from the provider.
	ErrProvider = errors.New("provider error")
)
