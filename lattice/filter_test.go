package lattice

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/permuto/testutil"
)

func TestApplyValidation(t *testing.T) {
	l, err := New([][]float32{{0, 0}, {1, 1}})
	require.NoError(t, err)

	in := []float32{1, 2}
	out := make([]float32, 2)

	t.Run("invalid value size", func(t *testing.T) {
		assert.ErrorIs(t, l.Apply(out, in, 0), ErrInvalidValueSize)
	})

	t.Run("in offset out of range", func(t *testing.T) {
		err := l.Apply(out, in, 1, func(o *ApplyOptions) { o.InOffset = 3 })

		var rangeErr *ErrInvalidRange
		require.ErrorAs(t, err, &rangeErr)
		assert.Equal(t, "in", rangeErr.Name)
	})

	t.Run("out range too large", func(t *testing.T) {
		err := l.Apply(out, in, 1, func(o *ApplyOptions) { o.OutOffset = 1; o.OutSize = 2 })

		var rangeErr *ErrInvalidRange
		require.ErrorAs(t, err, &rangeErr)
		assert.Equal(t, "out", rangeErr.Name)
	})

	t.Run("short input buffer", func(t *testing.T) {
		err := l.Apply(out, []float32{1}, 1)

		var shortErr *ErrShortBuffer
		require.ErrorAs(t, err, &shortErr)
		assert.Equal(t, "in", shortErr.Name)
		assert.Equal(t, 2, shortErr.Need)
	})

	t.Run("short output buffer", func(t *testing.T) {
		err := l.Apply(make([]float32, 1), in, 1)

		var shortErr *ErrShortBuffer
		require.ErrorAs(t, err, &shortErr)
		assert.Equal(t, "out", shortErr.Name)
	})
}

func TestApplyDeterminism(t *testing.T) {
	rng := testutil.NewRNG(303)

	features := testutil.RandomFeatures(rng, 50, 3, -4, 4)
	in := testutil.RandomValues(rng, 50, 2)

	l1, err := New(features)
	require.NoError(t, err)

	l2, err := New(features)
	require.NoError(t, err)

	out1 := make([]float32, 50*2)
	out2 := make([]float32, 50*2)

	require.NoError(t, l1.Apply(out1, in, 2))
	require.NoError(t, l2.Apply(out2, in, 2))

	assert.Equal(t, out1, out2)

	// Repeated application against one lattice is equally deterministic.
	out3 := make([]float32, 50*2)
	require.NoError(t, l1.Apply(out3, in, 2))
	assert.Equal(t, out1, out3)
}

func TestSinglePointBoundary(t *testing.T) {
	// A lattice of one point has sentinel neighbors everywhere; the blur must
	// stay finite through every pass.
	for d := 1; d <= 4; d++ {
		features := [][]float32{make([]float32, d)}

		l, err := New(features)
		require.NoError(t, err)

		out := make([]float32, 1)
		require.NoError(t, l.Apply(out, []float32{1}, 1))

		require.False(t, math.IsNaN(float64(out[0])), "d=%d", d)
		require.False(t, math.IsInf(float64(out[0]), 0), "d=%d", d)
		assert.Positive(t, out[0], "d=%d", d)
	}
}

func TestIdenticalPointsScenario(t *testing.T) {
	// Two coincident points share one simplex, so the filter cannot tell
	// them apart: outputs must match exactly and the normalized result is
	// the plain average of the values.
	features := [][]float32{{0, 0}, {0, 0}}

	l, err := New(features)
	require.NoError(t, err)

	out := make([]float32, 2)
	require.NoError(t, l.Apply(out, []float32{1, 2}, 1))

	assert.Equal(t, out[0], out[1])
	assert.Greater(t, out[0], float32(0))
	assert.Less(t, out[0], float32(3))

	withOnes := testutil.WithOnes([]float32{1, 2}, 1)
	filtered := make([]float32, len(withOnes))
	require.NoError(t, l.Apply(filtered, withOnes, 2))

	normalized := testutil.NormalizeHomogeneous(filtered, 1)
	assert.InDelta(t, 1.5, normalized[0], 1e-5)
	assert.InDelta(t, 1.5, normalized[1], 1e-5)
}

func TestWellSeparatedPointsScenario(t *testing.T) {
	// Points farther apart than the filter bandwidth exchange nothing; each
	// keeps its own (normalized) value.
	features := [][]float32{{0}, {100}, {200}}

	l, err := New(features)
	require.NoError(t, err)

	out := make([]float32, 3)
	require.NoError(t, l.Apply(out, []float32{1, 1, 1}, 1))

	for i, v := range out {
		assert.Greater(t, v, float32(0.7), "point %d", i)
		assert.Less(t, v, float32(0.9), "point %d", i)
	}

	values := []float32{1, 5, 9}
	withOnes := testutil.WithOnes(values, 1)
	filtered := make([]float32, len(withOnes))
	require.NoError(t, l.Apply(filtered, withOnes, 2))

	normalized := testutil.NormalizeHomogeneous(filtered, 1)
	for i, v := range values {
		assert.InDelta(t, float64(v), float64(normalized[i]), 1e-3, "point %d", i)
	}
}

func TestRangedOutput(t *testing.T) {
	rng := testutil.NewRNG(55)

	const n = 32

	features := testutil.RandomFeatures(rng, n, 2, -3, 3)
	in := testutil.RandomValues(rng, n, 1)

	l, err := New(features)
	require.NoError(t, err)

	full := make([]float32, n)
	require.NoError(t, l.Apply(full, in, 1))

	// Slicing a sub-range reproduces the corresponding slice of the full
	// output exactly.
	tail := make([]float32, n-10)
	require.NoError(t, l.Apply(tail, in, 1, func(o *ApplyOptions) {
		o.OutOffset = 10
	}))

	assert.Equal(t, full[10:], tail)

	window := make([]float32, 8)
	require.NoError(t, l.Apply(window, in, 1, func(o *ApplyOptions) {
		o.OutOffset = 4
		o.OutSize = 8
	}))

	assert.Equal(t, full[4:12], window)
}

func TestRangedInput(t *testing.T) {
	// Two clusters far apart in feature space: splatting only the first
	// cluster leaves the second cluster's outputs at zero.
	features := [][]float32{{0}, {0.5}, {300}, {300.5}}

	l, err := New(features)
	require.NoError(t, err)

	in := []float32{1, 1} // values for points 0 and 1 only
	out := make([]float32, 4)

	require.NoError(t, l.Apply(out, in, 1, func(o *ApplyOptions) {
		o.InSize = 2
	}))

	assert.Positive(t, out[0])
	assert.Positive(t, out[1])
	assert.Zero(t, out[2])
	assert.Zero(t, out[3])
}

func TestParallelMatchesSerial(t *testing.T) {
	rng := testutil.NewRNG(777)

	const (
		n         = 500
		d         = 3
		valueSize = 2
	)

	features := testutil.RandomFeatures(rng, n, d, -5, 5)
	in := testutil.RandomValues(rng, n, valueSize)

	l, err := New(features)
	require.NoError(t, err)

	serial := make([]float32, n*valueSize)
	require.NoError(t, l.Apply(serial, in, valueSize))

	for _, workers := range []int{2, 4, 7} {
		parallel := make([]float32, n*valueSize)
		require.NoError(t, l.Apply(parallel, in, valueSize, func(o *ApplyOptions) {
			o.Parallelism = workers
		}))

		for i := range serial {
			assert.InDelta(t, float64(serial[i]), float64(parallel[i]), 1e-2, "workers=%d index=%d", workers, i)
		}
	}
}

func TestAccuracyAgainstExactGaussian(t *testing.T) {
	rng := testutil.NewRNG(2024)

	const (
		n = 40
		d = 2
	)

	features := testutil.RandomFeatures(rng, n, d, 0, 3)
	values := testutil.RandomValues(rng, n, 1)

	l, err := New(features)
	require.NoError(t, err)

	withOnes := testutil.WithOnes(values, 1)
	filtered := make([]float32, len(withOnes))
	require.NoError(t, l.Apply(filtered, withOnes, 2))

	normalized := testutil.NormalizeHomogeneous(filtered, 1)
	reference := testutil.GaussianReferenceNormalized(features, values, 1)

	for i := range normalized {
		assert.InDelta(t, reference[i], float64(normalized[i]), 0.15, "point %d", i)

		// Normalized outputs are convex combinations of the inputs.
		assert.GreaterOrEqual(t, normalized[i], float32(-1e-4))
		assert.LessOrEqual(t, normalized[i], float32(1.0001))
	}
}
