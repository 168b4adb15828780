package permuto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/permuto"
	"github.com/hupe1980/permuto/hashtable"
	"github.com/hupe1980/permuto/lattice"
	"github.com/hupe1980/permuto/testutil"
)

func TestApplyBeforeBuild(t *testing.T) {
	f := permuto.New()

	assert.False(t, f.Built())
	assert.Zero(t, f.NumPoints())
	assert.Nil(t, f.Lattice())

	err := f.Apply(make([]float32, 1), []float32{1}, 1)
	assert.ErrorIs(t, err, permuto.ErrNotBuilt)
}

func TestBuildAndApply(t *testing.T) {
	collector := &permuto.BasicMetricsCollector{}

	f := permuto.New(permuto.WithMetricsCollector(collector))

	features := [][]float32{{0, 0}, {0.1, 0.1}, {5, 5}}
	require.NoError(t, f.Build(features))

	assert.True(t, f.Built())
	assert.Equal(t, 3, f.NumPoints())
	assert.Equal(t, 2, f.Dimension())
	assert.Positive(t, f.NumVertices())

	in := []float32{1, 2, 3}
	out := make([]float32, 3)
	require.NoError(t, f.Apply(out, in, 1))

	// The two close points smooth toward each other; the far one does not.
	assert.Positive(t, out[0])
	assert.Positive(t, out[1])
	assert.Positive(t, out[2])

	assert.Equal(t, int64(1), collector.BuildCount.Load())
	assert.Equal(t, int64(1), collector.ApplyCount.Load())
	assert.Zero(t, collector.BuildErrors.Load())
	assert.Zero(t, collector.ApplyErrors.Load())
	assert.Positive(t, collector.AverageBuildTime())
	assert.Positive(t, collector.AverageApplyTime())
}

func TestBuildReplacesState(t *testing.T) {
	f := permuto.New()

	require.NoError(t, f.Build([][]float32{{0}, {1}}))
	assert.Equal(t, 2, f.NumPoints())

	require.NoError(t, f.Build([][]float32{{0, 0}, {1, 1}, {2, 2}}))
	assert.Equal(t, 3, f.NumPoints())
	assert.Equal(t, 2, f.Dimension())

	// Buffers sized for the old point count are rejected.
	err := f.Apply(make([]float32, 2), []float32{1, 2}, 1)

	var shortErr *lattice.ErrShortBuffer
	assert.ErrorAs(t, err, &shortErr)
}

func TestBuildError(t *testing.T) {
	collector := &permuto.BasicMetricsCollector{}

	f := permuto.New(permuto.WithMetricsCollector(collector))

	err := f.Build([][]float32{{1, 2}, {1}})

	var mismatchErr *lattice.ErrDimensionMismatch
	require.ErrorAs(t, err, &mismatchErr)

	assert.False(t, f.Built())
	assert.Equal(t, int64(1), collector.BuildErrors.Load())
}

func TestFilterClone(t *testing.T) {
	rng := testutil.NewRNG(31)

	features := testutil.RandomFeatures(rng, 10, 2, -1, 1)
	in := testutil.RandomValues(rng, 10, 1)

	f := permuto.New()
	require.NoError(t, f.Build(features))

	out1 := make([]float32, 10)
	require.NoError(t, f.Apply(out1, in, 1))

	c := f.Clone()

	// Rebuilding the original leaves the clone on the old lattice.
	require.NoError(t, f.Build([][]float32{{0}, {1}}))

	out2 := make([]float32, 10)
	require.NoError(t, c.Apply(out2, in, 1))
	assert.Equal(t, out1, out2)
}

func TestWithParallelism(t *testing.T) {
	rng := testutil.NewRNG(64)

	const n = 200

	features := testutil.RandomFeatures(rng, n, 2, -4, 4)
	in := testutil.RandomValues(rng, n, 1)

	serial := permuto.New()
	require.NoError(t, serial.Build(features))

	parallel := permuto.New(permuto.WithParallelism(4))
	require.NoError(t, parallel.Build(features))

	out1 := make([]float32, n)
	out2 := make([]float32, n)

	require.NoError(t, serial.Apply(out1, in, 1))
	require.NoError(t, parallel.Apply(out2, in, 1))

	for i := range out1 {
		assert.InDelta(t, float64(out1[i]), float64(out2[i]), 1e-2, "index %d", i)
	}
}

func TestWithVertexStore(t *testing.T) {
	created := 0

	f := permuto.New(permuto.WithVertexStore(func(keySize, expected int) lattice.VertexStore {
		created++
		return hashtable.New(keySize, expected)
	}))

	require.NoError(t, f.Build([][]float32{{0}, {1}}))
	assert.Equal(t, 1, created)
}
