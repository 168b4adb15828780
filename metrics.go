package permuto

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like
// Prometheus.
type MetricsCollector interface {
	// RecordBuild is called after each lattice construction.
	// n is the number of points, d the feature dimension, m the number of
	// lattice vertices created, duration the total build time. err is nil on
	// success; n, d and m are zero when it is not.
	RecordBuild(n, d, m int, duration time.Duration, err error)

	// RecordApply is called after each filter application.
	// valueSize is the per-point value dimensionality, duration the time
	// taken, err nil if successful.
	RecordApply(valueSize int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordBuild(int, int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordApply(int, time.Duration, error)           {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	BuildCount      atomic.Int64
	BuildErrors     atomic.Int64
	BuildTotalNanos atomic.Int64
	ApplyCount      atomic.Int64
	ApplyErrors     atomic.Int64
	ApplyTotalNanos atomic.Int64
}

func (c *BasicMetricsCollector) RecordBuild(n, d, m int, duration time.Duration, err error) {
	c.BuildCount.Add(1)
	c.BuildTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		c.BuildErrors.Add(1)
	}
}

func (c *BasicMetricsCollector) RecordApply(valueSize int, duration time.Duration, err error) {
	c.ApplyCount.Add(1)
	c.ApplyTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		c.ApplyErrors.Add(1)
	}
}

// AverageBuildTime returns the mean build duration, or zero before any build.
func (c *BasicMetricsCollector) AverageBuildTime() time.Duration {
	count := c.BuildCount.Load()
	if count == 0 {
		return 0
	}
	return time.Duration(c.BuildTotalNanos.Load() / count)
}

// AverageApplyTime returns the mean apply duration, or zero before any apply.
func (c *BasicMetricsCollector) AverageApplyTime() time.Duration {
	count := c.ApplyCount.Load()
	if count == 0 {
		return 0
	}
	return time.Duration(c.ApplyTotalNanos.Load() / count)
}
