package testutil

import (
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float32 returns, as a float32, a pseudo-random number in [0.0,1.0).
func (r *RNG) Float32() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float32()
}

// FillUniform fills dst with random values in range [0, 1).
// Locks only once per call (preferred over calling Float32 in a loop).
func (r *RNG) FillUniform(dst []float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		dst[i] = r.rand.Float32()
	}
}

// FillUniformRange fills dst with random values in range [minVal, maxVal).
func (r *RNG) FillUniformRange(dst []float32, minVal, maxVal float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		dst[i] = minVal + r.rand.Float32()*(maxVal-minVal)
	}
}

// RandomFeatures generates n feature vectors of dimension d with coordinates
// in [minVal, maxVal).
func RandomFeatures(r *RNG, n, d int, minVal, maxVal float32) [][]float32 {
	features := make([][]float32, n)
	for i := range features {
		features[i] = make([]float32, d)
		r.FillUniformRange(features[i], minVal, maxVal)
	}

	return features
}

// RandomValues generates n*valueSize values in [0, 1).
func RandomValues(r *RNG, n, valueSize int) []float32 {
	values := make([]float32, n*valueSize)
	r.FillUniform(values)

	return values
}

// WithOnes appends a homogeneous 1.0 channel to each point's values,
// growing the per-point value size by one. Filtering the result and calling
// NormalizeHomogeneous yields the normalized Gaussian average.
func WithOnes(values []float32, valueSize int) []float32 {
	n := len(values) / valueSize
	out := make([]float32, 0, n*(valueSize+1))

	for i := 0; i < n; i++ {
		out = append(out, values[i*valueSize:(i+1)*valueSize]...)
		out = append(out, 1)
	}

	return out
}

// NormalizeHomogeneous divides each point's leading valueSize channels by its
// trailing homogeneous channel, dropping the latter.
func NormalizeHomogeneous(filtered []float32, valueSize int) []float32 {
	stride := valueSize + 1
	n := len(filtered) / stride
	out := make([]float32, 0, n*valueSize)

	for i := 0; i < n; i++ {
		w := filtered[i*stride+valueSize]
		for k := 0; k < valueSize; k++ {
			out = append(out, filtered[i*stride+k]/w)
		}
	}

	return out
}
