package permuto_test

import (
	"bytes"
	"fmt"
	"log"

	"github.com/hupe1980/permuto"
)

// Example demonstrates building a filter and applying it to one value
// channel. Features sharing a position are smoothed together; a distant
// point is left alone.
func Example() {
	f := permuto.New()

	features := [][]float32{
		{0, 0},
		{0, 0},
		{50, 50},
	}
	if err := f.Build(features); err != nil {
		log.Fatal(err)
	}

	in := []float32{1, 2, 10}
	out := make([]float32, len(in))
	if err := f.Apply(out, in, 1); err != nil {
		log.Fatal(err)
	}

	fmt.Println("identical features share one output:", out[0] == out[1])
	fmt.Println("distant point stays apart:", out[2] != out[0])
	// Output:
	// identical features share one output: true
	// distant point stays apart: true
}

// Example_snapshot persists a built lattice and restores it into a fresh
// filter, skipping reconstruction.
func Example_snapshot() {
	f := permuto.New()
	if err := f.Build([][]float32{{0, 0}, {1, 1}, {2, 2}}); err != nil {
		log.Fatal(err)
	}

	var buf bytes.Buffer
	if err := f.SaveSnapshot(&buf); err != nil {
		log.Fatal(err)
	}

	restored := permuto.New()
	if err := restored.LoadSnapshot(&buf); err != nil {
		log.Fatal(err)
	}

	fmt.Println("points:", restored.NumPoints())
	fmt.Println("same vertex count:", restored.NumVertices() == f.NumVertices())
	// Output:
	// points: 3
	// same vertex count: true
}
