package chem

import (
	"errors"
	"fmt"
)

var (
	// ErrDanglingEdge indicates a numbered bond edge that does not
	// connect exactly two sites.
	ErrDanglingEdge = errors.New("chem: bond edge must connect exactly two sites")

	// ErrNotConcrete indicates a pattern used where a fully specified
	// species is required (e.g. an initial condition).
	ErrNotConcrete = errors.New("chem: pattern is not a concrete species")
)

func errDanglingEdge(edge, n int) error {
	return fmt.Errorf("%w: edge %d has %d endpoints", ErrDanglingEdge, edge, n)
}
