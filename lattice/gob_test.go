package lattice

import (
	"bytes"
	"encoding/gob"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/permuto/testutil"
)

func TestGobRoundTrip(t *testing.T) {
	rng := testutil.NewRNG(606)

	features := testutil.RandomFeatures(rng, 30, 2, -3, 3)

	l, err := New(features)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, gob.NewEncoder(&buf).Encode(l))

	decoded := &Lattice{}
	require.NoError(t, gob.NewDecoder(&buf).Decode(decoded))

	assert.Equal(t, l.NumPoints(), decoded.NumPoints())
	assert.Equal(t, l.Dimension(), decoded.Dimension())
	assert.Equal(t, l.NumVertices(), decoded.NumVertices())

	in := testutil.RandomValues(rng, 30, 1)
	out1 := make([]float32, 30)
	out2 := make([]float32, 30)

	require.NoError(t, l.Apply(out1, in, 1))
	require.NoError(t, decoded.Apply(out2, in, 1))

	assert.Equal(t, out1, out2)
}
