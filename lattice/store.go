package lattice

// NotFound is the sentinel index returned by a VertexStore lookup when the
// queried key was never inserted. For neighbor lookups this is a legitimate
// outcome marking the lattice boundary, not an error.
const NotFound = -1

// VertexStore maps integer lattice keys to dense vertex indices. It is the
// single collaborator of the lattice construction: the embedder inserts the
// corners of every enclosing simplex, and the neighbor graph builder performs
// lookup-only probes against the populated store.
//
// Implementations must assign indices sequentially from zero in insertion
// order and keep keys retrievable by index. The default implementation is
// hashtable.Table; any structure satisfying the three operations works.
type VertexStore interface {
	// Find returns the dense index for key. If the key is absent it is
	// inserted and assigned the next sequential index when insert is true,
	// otherwise NotFound is returned.
	Find(key []int16, insert bool) int

	// Size returns the number of vertices created so far.
	Size() int

	// Key returns the key used to create the vertex at the given index.
	Key(i int) []int16
}
