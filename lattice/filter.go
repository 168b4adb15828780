package lattice

import (
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/permuto/internal/math32"
)

// Apply filters the input values through the lattice: splat onto the vertex
// set, blur once per axis, slice back to the output points, and scale by the
// normalization constant 1/(1+2^-d) that compensates the blur's self-weight.
//
// in holds valueSize contiguous values per input point and out receives
// valueSize values per output point; ranges and parallelism are set through
// ApplyOptions. out is fully overwritten for the requested range. Value
// buffers are transient per invocation, so Apply may be called concurrently
// and repeatedly with different value sizes against the same lattice.
func (l *Lattice) Apply(out, in []float32, valueSize int, optFns ...func(o *ApplyOptions)) error {
	var opts ApplyOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	if valueSize < 1 {
		return ErrInvalidValueSize
	}

	inOffset, inSize, err := l.resolveRange("in", opts.InOffset, opts.InSize)
	if err != nil {
		return err
	}

	outOffset, outSize, err := l.resolveRange("out", opts.OutOffset, opts.OutSize)
	if err != nil {
		return err
	}

	if need := inSize * valueSize; len(in) < need {
		return &ErrShortBuffer{Name: "in", Need: need, Got: len(in)}
	}

	if need := outSize * valueSize; len(out) < need {
		return &ErrShortBuffer{Name: "out", Need: need, Got: len(out)}
	}

	// Two (m+2)-slot buffers: slot 0 absorbs and supplies zero for NotFound
	// neighbors (all vertex indices are shifted by +1), slot m+1 pads the
	// far end. Both sentinel slots stay zero through every phase.
	values := make([]float32, (l.m+2)*valueSize)
	newValues := make([]float32, (l.m+2)*valueSize)

	if opts.Parallelism > 1 {
		l.splatParallel(values, in, valueSize, inOffset, inSize, opts.Parallelism)
		values = l.blurParallel(values, newValues, valueSize, opts.Parallelism)
		l.sliceParallel(out, values, valueSize, outOffset, outSize, opts.Parallelism)

		return nil
	}

	l.splatRange(values, in, valueSize, inOffset, 0, inSize)
	values = l.blur(values, newValues, valueSize)
	l.sliceRange(out, values, valueSize, outOffset, 0, outSize)

	return nil
}

// resolveRange applies the "all remaining points" default and validates the
// result against the built point count.
func (l *Lattice) resolveRange(name string, offset, size int) (int, int, error) {
	if offset < 0 || offset > l.n {
		return 0, 0, &ErrInvalidRange{Name: name, Offset: offset, Size: size, Points: l.n}
	}

	if size <= 0 {
		size = l.n - offset
	}

	if offset+size > l.n {
		return 0, 0, &ErrInvalidRange{Name: name, Offset: offset, Size: size, Points: l.n}
	}

	return offset, size, nil
}

// splatRange scatters the values of input points [lo,hi) onto the corner
// vertices of their enclosing simplices, weighted by barycentric coordinates.
func (l *Lattice) splatRange(dst, in []float32, valueSize, inOffset, lo, hi int) {
	d1 := l.d + 1

	for i := lo; i < hi; i++ {
		iv := in[i*valueSize : (i+1)*valueSize]
		base := (inOffset + i) * d1

		for j := 0; j < d1; j++ {
			o := int(l.offsets[base+j]) + 1
			math32.Axpy(l.weights[base+j], iv, dst[o*valueSize:(o+1)*valueSize])
		}
	}
}

// blur runs the d+1 axis passes sequentially, swapping buffers after each
// pass, and returns the buffer holding the final values.
func (l *Lattice) blur(values, newValues []float32, valueSize int) []float32 {
	for j := 0; j <= l.d; j++ {
		l.blurPass(j, 0, l.m, values, newValues, valueSize)
		values, newValues = newValues, values
	}

	return values
}

// blurPass computes new[i] = old[i] + 0.5*(old[n1] + old[n2]) for vertices
// [lo,hi) along one axis. Sentinel neighbors read the always-zero slot 0.
func (l *Lattice) blurPass(axis, lo, hi int, values, newValues []float32, valueSize int) {
	base := axis * l.m

	for i := lo; i < hi; i++ {
		nb := l.neighbors[base+i]

		oldVal := values[(i+1)*valueSize : (i+2)*valueSize]
		newVal := newValues[(i+1)*valueSize : (i+2)*valueSize]
		n1Val := values[(int(nb.N1)+1)*valueSize:]
		n2Val := values[(int(nb.N2)+1)*valueSize:]

		for k := range newVal {
			newVal[k] = oldVal[k] + 0.5*(n1Val[k]+n2Val[k])
		}
	}
}

// sliceRange gathers filtered vertex values back to output points [lo,hi)
// with the same barycentric weights used for splatting, then normalizes.
func (l *Lattice) sliceRange(out, values []float32, valueSize, outOffset, lo, hi int) {
	alpha := l.alpha()
	d1 := l.d + 1

	for i := lo; i < hi; i++ {
		ov := out[i*valueSize : (i+1)*valueSize]
		clear(ov)

		base := (outOffset + i) * d1
		for j := 0; j < d1; j++ {
			o := int(l.offsets[base+j]) + 1
			math32.Axpy(l.weights[base+j], values[o*valueSize:(o+1)*valueSize], ov)
		}

		math32.ScaleInPlace(ov, alpha)
	}
}

// alpha compensates the self-weight bias of the +0.5*(n1+n2) blur update.
func (l *Lattice) alpha() float32 {
	return float32(1.0 / (1.0 + math.Pow(2, -float64(l.d))))
}

// splatParallel partitions the input points across workers, each scattering
// into a private buffer, and merges the partial buffers afterwards. Merging
// avoids the write-write hazard of two points splatting onto one vertex.
func (l *Lattice) splatParallel(values, in []float32, valueSize, inOffset, inSize, workers int) {
	chunks := partition(inSize, workers)
	if len(chunks) == 1 {
		l.splatRange(values, in, valueSize, inOffset, 0, inSize)

		return
	}

	partials := make([][]float32, len(chunks))

	var g errgroup.Group

	for c, ch := range chunks {
		c, ch := c, ch

		g.Go(func() error {
			buf := make([]float32, len(values))
			l.splatRange(buf, in, valueSize, inOffset, ch[0], ch[1])
			partials[c] = buf

			return nil
		})
	}

	_ = g.Wait() // splat workers do not fail

	for _, buf := range partials {
		math32.Axpy(1, buf, values)
	}
}

// blurParallel shards the vertices of each axis pass across workers. The
// group wait is the full barrier between passes: pass j+1 must observe the
// completed output of pass j.
func (l *Lattice) blurParallel(values, newValues []float32, valueSize, workers int) []float32 {
	chunks := partition(l.m, workers)

	for j := 0; j <= l.d; j++ {
		var g errgroup.Group

		for _, ch := range chunks {
			ch := ch

			g.Go(func() error {
				l.blurPass(j, ch[0], ch[1], values, newValues, valueSize)

				return nil
			})
		}

		_ = g.Wait()

		values, newValues = newValues, values
	}

	return values
}

// sliceParallel partitions the output points across workers; writes are
// disjoint per point, so no merging is needed.
func (l *Lattice) sliceParallel(out, values []float32, valueSize, outOffset, outSize, workers int) {
	var g errgroup.Group

	for _, ch := range partition(outSize, workers) {
		ch := ch

		g.Go(func() error {
			l.sliceRange(out, values, valueSize, outOffset, ch[0], ch[1])

			return nil
		})
	}

	_ = g.Wait()
}

// partition splits [0,n) into at most workers near-equal chunks.
func partition(n, workers int) [][2]int {
	if workers > n {
		workers = n
	}

	if workers < 1 {
		workers = 1
	}

	size := (n + workers - 1) / workers
	chunks := make([][2]int, 0, workers)

	for lo := 0; lo < n; lo += size {
		hi := min(lo+size, n)
		chunks = append(chunks, [2]int{lo, hi})
	}

	return chunks
}
