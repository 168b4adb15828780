package testutil

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// GaussianReferenceNormalized computes the exact normalized Gaussian-weighted
// average by direct O(n^2) pairwise evaluation, in float64:
//
//	out[i] = sum_j exp(-|f_i - f_j|^2 / 2) * v_j / sum_j exp(-|f_i - f_j|^2 / 2)
//
// This is the ground truth the permutohedral approximation is measured
// against, assuming features are pre-scaled so the kernel has unit standard
// deviation.
func GaussianReferenceNormalized(features [][]float32, values []float32, valueSize int) []float64 {
	n := len(features)

	// One float64 column per value channel.
	cols := make([][]float64, valueSize)
	for k := range cols {
		cols[k] = make([]float64, n)
		for j := 0; j < n; j++ {
			cols[k][j] = float64(values[j*valueSize+k])
		}
	}

	weights := make([]float64, n)
	out := make([]float64, n*valueSize)

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			weights[j] = math.Exp(-0.5 * squaredDistance(features[i], features[j]))
		}

		norm := floats.Sum(weights)

		for k := 0; k < valueSize; k++ {
			out[i*valueSize+k] = floats.Dot(weights, cols[k]) / norm
		}
	}

	return out
}

func squaredDistance(a, b []float32) float64 {
	var sum float64
	for i := range a {
		diff := float64(a[i]) - float64(b[i])
		sum += diff * diff
	}

	return sum
}
