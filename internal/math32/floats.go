// Package math32 provides float32 vector primitives for the filter hot loops.
// This is an internal package - external users should use the lattice package.
package math32

// Axpy adds alpha*x to y element-wise.
// Assumes len(x) == len(y) (caller's responsibility).
func Axpy(alpha float32, x, y []float32) {
	for i := range y {
		y[i] += alpha * x[i]
	}
}

// ScaleInPlace multiplies all elements of a by scalar.
func ScaleInPlace(a []float32, scalar float32) {
	for i := range a {
		a[i] *= scalar
	}
}

// Sum returns the sum of all elements of a.
func Sum(a []float32) float32 {
	var s float32
	for _, v := range a {
		s += v
	}

	return s
}
