package permuto

import (
	"sync"
	"time"

	"github.com/hupe1980/permuto/lattice"
)

// Filter is a reusable permutohedral-lattice Gaussian filter. Build
// constructs the lattice for a feature set; Apply filters value arrays
// against it. A Filter may be rebuilt, which replaces any previous lattice.
//
// All methods are safe for concurrent use. Apply calls that overlap a Build
// see either the old or the new lattice, never a partial one.
type Filter struct {
	mu      sync.RWMutex
	lattice *lattice.Lattice
	opts    options
}

// New creates a new Filter. Call Build or LoadSnapshot before Apply.
func New(optFns ...Option) *Filter {
	opts := options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		parallelism:      1,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Filter{opts: opts}
}

// Build constructs the lattice for the given feature vectors, replacing any
// previously built state. All vectors must share one dimension d >= 1, and
// coordinates must be finite. Features are read during Build only; the
// caller may reuse the slices afterwards.
func (f *Filter) Build(features [][]float32) error {
	start := time.Now()

	var latticeOpts []func(o *lattice.Options)
	if f.opts.newStore != nil {
		latticeOpts = append(latticeOpts, func(o *lattice.Options) {
			o.NewStore = f.opts.newStore
		})
	}

	lt, err := lattice.New(features, latticeOpts...)
	if err != nil {
		f.opts.metricsCollector.RecordBuild(0, 0, 0, time.Since(start), err)
		return err
	}

	f.mu.Lock()
	f.lattice = lt
	f.mu.Unlock()

	duration := time.Since(start)
	f.opts.metricsCollector.RecordBuild(lt.NumPoints(), lt.Dimension(), lt.NumVertices(), duration, nil)
	f.opts.logger.Debug("lattice built",
		"points", lt.NumPoints(),
		"dimension", lt.Dimension(),
		"vertices", lt.NumVertices(),
		"duration", duration,
	)

	return nil
}

// Apply filters in into out with valueSize values per point. See
// lattice.Lattice.Apply for the range semantics; the Filter's configured
// parallelism applies unless an option sets its own.
func (f *Filter) Apply(out, in []float32, valueSize int, optFns ...func(o *lattice.ApplyOptions)) error {
	lt := f.current()
	if lt == nil {
		return ErrNotBuilt
	}

	start := time.Now()

	optFns = append(optFns, func(o *lattice.ApplyOptions) {
		if o.Parallelism == 0 {
			o.Parallelism = f.opts.parallelism
		}
	})

	err := lt.Apply(out, in, valueSize, optFns...)

	duration := time.Since(start)
	f.opts.metricsCollector.RecordApply(valueSize, duration, err)

	if err != nil {
		return err
	}

	f.opts.logger.Debug("filter applied", "value_size", valueSize, "duration", duration)

	return nil
}

// Built reports whether the filter holds a usable lattice.
func (f *Filter) Built() bool {
	return f.current() != nil
}

// NumPoints returns the number of points of the built lattice, or 0.
func (f *Filter) NumPoints() int {
	if lt := f.current(); lt != nil {
		return lt.NumPoints()
	}
	return 0
}

// Dimension returns the feature dimension of the built lattice, or 0.
func (f *Filter) Dimension() int {
	if lt := f.current(); lt != nil {
		return lt.Dimension()
	}
	return 0
}

// NumVertices returns the lattice vertex count of the built lattice, or 0.
func (f *Filter) NumVertices() int {
	if lt := f.current(); lt != nil {
		return lt.NumVertices()
	}
	return 0
}

// Lattice returns the built lattice, or nil. The lattice is immutable; use
// its Clone method before any use that requires independent lifetime.
func (f *Filter) Lattice() *lattice.Lattice {
	return f.current()
}

// Clone returns a Filter with the same options and a deep copy of the built
// lattice. The clone is fully independent of f.
func (f *Filter) Clone() *Filter {
	c := &Filter{opts: f.opts}

	if lt := f.current(); lt != nil {
		c.lattice = lt.Clone()
	}

	return c
}

func (f *Filter) current() *lattice.Lattice {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.lattice
}
