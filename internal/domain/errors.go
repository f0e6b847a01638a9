package domain

import (
	"errors"
	"strings"
)

// ErrInvalidInput marks caller contract violations (malformed locations,
// duplicate ids). It is the only failure ComputeRoute reports for well-formed
// environments.
var ErrInvalidInput = errors.New("invalid input")

// ErrNotFound is returned by repositories when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError lists every problem found in a route request.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid input: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }
