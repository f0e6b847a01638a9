package ports

import (
	"errors"
	"fmt"
)

// ErrorKind classifies request-level provider failures.
type ErrorKind string

const (
	ErrorTransport  ErrorKind = "transport"
	ErrorHTTPStatus ErrorKind = "http_status"
	ErrorQuota      ErrorKind = "quota"
	ErrorStatus     ErrorKind = "status"
	ErrorMalformed  ErrorKind = "malformed"
)

// ProviderError is a transient failure of a whole provider request. Callers
// degrade to fallback distances instead of surfacing it.
type ProviderError struct {
	Provider string
	Op       string
	Kind     ErrorKind
	// Status carries the HTTP code or the provider's top-level status string.
	Status string
	Err    error
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("%s %s: %s", e.Provider, e.Op, e.Kind)
	if e.Status != "" {
		msg += " status=" + e.Status
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ProviderError) Unwrap() error { return e.Err }

// KindOf returns the failure kind of a provider error, or "" for other errors.
func KindOf(err error) ErrorKind {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}
