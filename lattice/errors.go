package lattice

import (
	"errors"
	"fmt"
)

var (
	// ErrNoFeatures is returned when New is called with an empty feature set.
	ErrNoFeatures = errors.New("at least one feature vector is required")

	// ErrInvalidValueSize is returned when Apply is called with a
	// non-positive value size.
	ErrInvalidValueSize = errors.New("value size must be positive")
)

// ErrInvalidDimension indicates an unsupported feature dimension.
type ErrInvalidDimension struct {
	Dimension int
}

func (e *ErrInvalidDimension) Error() string {
	return fmt.Sprintf("invalid feature dimension: %d", e.Dimension)
}

// ErrDimensionMismatch indicates a feature vector whose length differs from
// the dimension established by the first vector.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// ErrInvalidRange indicates an Apply point range that falls outside the
// points the lattice was built from.
type ErrInvalidRange struct {
	Name   string // "in" or "out"
	Offset int
	Size   int
	Points int
}

func (e *ErrInvalidRange) Error() string {
	return fmt.Sprintf("invalid %s range: offset %d size %d with %d points", e.Name, e.Offset, e.Size, e.Points)
}

// ErrShortBuffer indicates an Apply value buffer too small for the requested
// range and value size.
type ErrShortBuffer struct {
	Name string // "in" or "out"
	Need int
	Got  int
}

func (e *ErrShortBuffer) Error() string {
	return fmt.Sprintf("%s buffer too small: need %d values, got %d", e.Name, e.Need, e.Got)
}
