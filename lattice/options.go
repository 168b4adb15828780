package lattice

import (
	"github.com/hupe1980/permuto/hashtable"
)

// Options represents the options for configuring lattice construction.
type Options struct {
	// NewStore constructs the vertex store used during construction. The
	// keySize argument is the feature dimension d (keys carry the first d
	// lattice coordinates; the last is implied), and expected is a capacity
	// hint of n*(d+1), the maximum number of distinct vertices the input can
	// touch. The hint affects sizing only, not semantics.
	NewStore func(keySize, expected int) VertexStore
}

// DefaultOptions holds the defaults used by New.
var DefaultOptions = Options{
	NewStore: func(keySize, expected int) VertexStore {
		return hashtable.New(keySize, expected)
	},
}

// ApplyOptions represents the options for a single Apply invocation.
type ApplyOptions struct {
	// InOffset is the index of the first input point. Input value i maps to
	// point InOffset+i.
	InOffset int

	// OutOffset is the index of the first output point.
	OutOffset int

	// InSize is the number of input points. Zero or negative means all points
	// from InOffset to the end.
	InSize int

	// OutSize is the number of output points. Zero or negative means all
	// points from OutOffset to the end.
	OutSize int

	// Parallelism is the number of worker goroutines for the splat, blur and
	// slice phases. Values below 2 select the serial path. The result is
	// independent of the worker count up to floating-point summation order.
	Parallelism int
}
