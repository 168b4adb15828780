// Package lattice implements approximate high-dimensional Gaussian filtering
// on the permutohedral lattice (Adams, Baek, Davis 2010).
//
// Given n points with d-dimensional feature vectors, the lattice computes for
// each point a Gaussian-weighted sum of all points' values in O(n*d) instead
// of the O(n^2) of a direct pairwise evaluation. Construction embeds every
// feature into its enclosing lattice simplex (barycentric weights over d+1
// corner vertices) and records, per vertex and axis, the two lattice
// neighbors used by the blur. Filtering then runs splat, d+1 blur passes and
// slice over the sparse vertex set.
//
// A Lattice is built once per feature set and is immutable afterwards; Apply
// may be called repeatedly with different value arrays and value sizes. This
// is the message-passing core of mean-field inference in fully connected
// CRFs, where the same lattice filters a fresh distribution every iteration.
package lattice

import (
	"math"
)

// Neighbors holds the two neighbor vertex indices of a lattice vertex along
// one axis. Either may be NotFound at the lattice boundary.
type Neighbors struct {
	N1 int32
	N2 int32
}

// Lattice is a permutohedral lattice built from a fixed feature set. All
// state is read-only after New returns, so a Lattice is safe for concurrent
// Apply calls.
type Lattice struct {
	n int // number of points
	m int // number of lattice vertices
	d int // feature dimension

	offsets   []int32     // (d+1)*n vertex indices, point-major
	weights   []float32   // (d+1)*n barycentric weights, parallel to offsets
	neighbors []Neighbors // (d+1)*m neighbor pairs, axis-major
}

// New builds a lattice from n feature vectors of equal dimension d >= 1.
//
// Features must be finite; NaN or Inf coordinates are a precondition
// violation with unspecified embedding results. Feature magnitudes must keep
// lattice coordinates within int16 range, which holds for any realistic
// bandwidth-scaled input.
func New(features [][]float32, optFns ...func(o *Options)) (*Lattice, error) {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	n := len(features)
	if n == 0 {
		return nil, ErrNoFeatures
	}

	d := len(features[0])
	if d < 1 {
		return nil, &ErrInvalidDimension{Dimension: d}
	}

	for _, f := range features {
		if len(f) != d {
			return nil, &ErrDimensionMismatch{Expected: d, Actual: len(f)}
		}
	}

	l := &Lattice{
		n:       n,
		d:       d,
		offsets: make([]int32, (d+1)*n),
		weights: make([]float32, (d+1)*n),
	}

	store := opts.NewStore(d, n*(d+1))

	l.embed(features, store)

	l.m = store.Size()

	l.buildNeighbors(store)

	return l, nil
}

// NumPoints returns the number of points the lattice was built from.
func (l *Lattice) NumPoints() int {
	return l.n
}

// NumVertices returns the number of distinct lattice vertices touched by the
// input points.
func (l *Lattice) NumVertices() int {
	return l.m
}

// Dimension returns the feature dimension d.
func (l *Lattice) Dimension() int {
	return l.d
}

// Clone returns a deep copy sharing no backing storage with l.
func (l *Lattice) Clone() *Lattice {
	c := &Lattice{
		n:         l.n,
		m:         l.m,
		d:         l.d,
		offsets:   make([]int32, len(l.offsets)),
		weights:   make([]float32, len(l.weights)),
		neighbors: make([]Neighbors, len(l.neighbors)),
	}

	copy(c.offsets, l.offsets)
	copy(c.weights, l.weights)
	copy(c.neighbors, l.neighbors)

	return c
}

// embed computes, for every point, the d+1 corner vertices of its enclosing
// simplex and the barycentric weight of each corner, inserting the corners
// into the vertex store.
func (l *Lattice) embed(features [][]float32, store VertexStore) {
	d := l.d

	scaleFactor := make([]float32, d)
	elevated := make([]float32, d+1)
	rem0 := make([]float32, d+1)
	barycentric := make([]float32, d+2)
	rank := make([]int, d+1)
	key := make([]int16, d)

	// Canonical simplex table: row r holds the coordinate offsets of the
	// corner with remainder r, indexed by coordinate rank.
	canonical := make([]int16, (d+1)*(d+1))
	for i := 0; i <= d; i++ {
		for j := 0; j <= d-i; j++ {
			canonical[i*(d+1)+j] = int16(i)
		}

		for j := d - i + 1; j <= d; j++ {
			canonical[i*(d+1)+j] = int16(i - (d + 1))
		}
	}

	// Diagonal part of the elevation matrix E (Adams et al. 2010, p.5),
	// scaled so that unit lattice spacing matches the expected filter
	// standard deviation (p.6).
	invStdDev := float32(math.Sqrt(2.0/3.0)) * float32(d+1)
	for i := 0; i < d; i++ {
		scaleFactor[i] = invStdDev / float32(math.Sqrt(float64((i+1)*(i+2))))
	}

	downFactor := 1.0 / float32(d+1)
	upFactor := float32(d + 1)

	for k, f := range features {
		// Elevate the feature onto the hyperplane sum(x)=0 (y = Ep). The
		// running sum evaluates E without materializing the matrix.
		sm := float32(0)
		for j := d; j > 0; j-- {
			cf := f[j-1] * scaleFactor[j-1]
			elevated[j] = sm - float32(j)*cf
			sm += cf
		}
		elevated[0] = sm

		// Round to the nearest 0-colored lattice point, tracking the integer
		// sum of the rounded coordinates.
		sum := 0
		for i := 0; i <= d; i++ {
			rd := int(math.Round(float64(downFactor * elevated[i])))
			rem0[i] = float32(rd) * upFactor
			sum += rd
		}

		// Rank each coordinate by its residual relative to all others. The
		// ranks identify which of the d+1 simplices of the rounded cell
		// encloses the point.
		for i := range rank {
			rank[i] = 0
		}

		for i := 0; i < d; i++ {
			di := float64(elevated[i] - rem0[i])
			for j := i + 1; j <= d; j++ {
				if di < float64(elevated[j]-rem0[j]) {
					rank[i]++
				} else {
					rank[j]++
				}
			}
		}

		// If the rounded point left the plane (sum != 0), shift ranks by the
		// excess and wrap any that fall outside [0,d], correcting the
		// corresponding rounded coordinate in the opposite direction.
		for i := 0; i <= d; i++ {
			rank[i] += sum

			if rank[i] < 0 {
				rank[i] += d + 1
				rem0[i] += float32(d + 1)
			} else if rank[i] > d {
				rank[i] -= d + 1
				rem0[i] -= float32(d + 1)
			}
		}

		// Barycentric coordinates from the residuals (p.10). Each residual
		// contributes to two adjacent entries; the wrap-around folds the
		// (d+1)-th entry back into the first.
		for i := range barycentric {
			barycentric[i] = 0
		}

		for i := 0; i <= d; i++ {
			v := (elevated[i] - rem0[i]) * downFactor
			barycentric[d-rank[i]] += v
			barycentric[d-rank[i]+1] -= v
		}
		barycentric[0] += 1.0 + barycentric[d+1]

		// Enumerate the d+1 corners. A corner key is the rounded point plus
		// the canonical offset selected by coordinate rank; only the first d
		// coordinates are stored, the last is implied.
		base := k * (d + 1)
		for remainder := 0; remainder <= d; remainder++ {
			for i := 0; i < d; i++ {
				key[i] = int16(rem0[i]) + canonical[remainder*(d+1)+rank[i]]
			}

			l.offsets[base+remainder] = int32(store.Find(key, true))
			l.weights[base+remainder] = barycentric[remainder]
		}
	}
}

// buildNeighbors finds, for every vertex and every axis, the two lattice
// neighbors along that axis. Probes are lookup-only; absent neighbors mark
// the lattice boundary and stay NotFound.
func (l *Lattice) buildNeighbors(store VertexStore) {
	d, m := l.d, l.m

	l.neighbors = make([]Neighbors, (d+1)*m)

	n1 := make([]int16, d)
	n2 := make([]int16, d)

	for j := 0; j <= d; j++ {
		for i := 0; i < m; i++ {
			key := store.Key(i)

			for k := 0; k < d; k++ {
				n1[k] = key[k] - 1
				n2[k] = key[k] + 1
			}

			// Along axis j the step is +d/-d instead of -1/+1. For j == d the
			// override lands on the implied last coordinate, so the stored
			// key part is the plain -1/+1 vector.
			if j < d {
				n1[j] = key[j] + int16(d)
				n2[j] = key[j] - int16(d)
			}

			l.neighbors[j*m+i] = Neighbors{
				N1: int32(store.Find(n1, false)),
				N2: int32(store.Find(n2, false)),
			}
		}
	}
}
