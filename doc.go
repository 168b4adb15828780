// Package permuto provides approximate high-dimensional Gaussian filtering
// for Go, based on the permutohedral lattice.
//
// Given N points with d-dimensional feature vectors and per-point values,
// permuto computes for every point a weighted sum of all points' values,
// where the weight falls off as a Gaussian in feature-space distance. The
// lattice approximation runs in O(N*d) instead of the O(N^2) of a direct
// pairwise evaluation, which makes it the standard message-passing kernel
// for mean-field inference in fully connected CRFs (image labeling, joint
// bilateral filtering, non-local means).
//
// # Quick Start
//
// Build a filter once per feature set, then apply it to as many value
// channels as needed:
//
//	f := permuto.New()
//
//	// One feature vector per point, pre-scaled by the desired bandwidth.
//	if err := f.Build(features); err != nil {
//	    log.Fatal(err)
//	}
//
//	out := make([]float32, n*valueSize)
//	if err := f.Apply(out, in, valueSize); err != nil {
//	    log.Fatal(err)
//	}
//
// The filter bandwidth is controlled by scaling the features before Build:
// dividing a feature coordinate by sigma yields a Gaussian with standard
// deviation sigma along that coordinate.
//
// # Ranged Application
//
// Apply accepts offset/size options to filter a sub-range of the built
// points, e.g. to splat from one point set window and slice to another:
//
//	err := f.Apply(out, in, valueSize, func(o *lattice.ApplyOptions) {
//	    o.InOffset = 0
//	    o.InSize = n / 2
//	    o.OutOffset = n / 2
//	})
//
// # Parallelism
//
// The splat and slice phases are parallel across points and each blur pass
// is parallel across lattice vertices; passes stay strictly sequential.
// Enable with:
//
//	f := permuto.New(permuto.WithParallelism(runtime.GOMAXPROCS(0)))
//
// # Snapshots
//
// A built lattice can be persisted and restored, skipping reconstruction:
//
//	var buf bytes.Buffer
//	err := f.SaveSnapshot(&buf)
//	...
//	g := permuto.New()
//	err = g.LoadSnapshot(&buf)
//
// Snapshots are compressed with zstd by default; lz4 and uncompressed
// encodings are available via SnapshotOptions.
//
// For direct access to the kernel without logging, metrics or snapshots, use
// the lattice package.
package permuto
