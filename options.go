package permuto

import (
	"github.com/hupe1980/permuto/lattice"
)

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	parallelism      int
	newStore         func(keySize, expected int) lattice.VertexStore
}

// Option configures Filter behavior.
type Option func(*options)

// WithLogger configures the logger used for build and apply diagnostics.
//
// If nil is passed, logging is disabled.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithMetricsCollector configures the collector that receives build and apply
// timings.
//
// If nil is passed, metrics collection is disabled.
func WithMetricsCollector(collector MetricsCollector) Option {
	return func(o *options) {
		if collector == nil {
			collector = NoopMetricsCollector{}
		}
		o.metricsCollector = collector
	}
}

// WithParallelism configures the number of worker goroutines used by Apply.
// Splat and slice parallelize across points, each blur pass across lattice
// vertices; blur passes themselves stay strictly sequential.
//
// Values below 2 select the serial path (the default). Outputs are identical
// up to floating-point summation order.
func WithParallelism(workers int) Option {
	return func(o *options) {
		o.parallelism = workers
	}
}

// WithVertexStore configures the vertex store implementation used during
// Build. The default is the open-addressing table from the hashtable
// package; alternatives only need to satisfy lattice.VertexStore.
func WithVertexStore(newStore func(keySize, expected int) lattice.VertexStore) Option {
	return func(o *options) {
		o.newStore = newStore
	}
}
