// Package hashtable provides a sparse map from integer lattice keys to dense
// vertex indices. It backs the lattice construction: every distinct key ever
// inserted is assigned the next sequential index, and keys remain retrievable
// by index afterwards.
//
// The table uses open addressing with linear probing over a power-of-two
// capacity. Keys are fixed-width int16 vectors; the width is set at
// construction and never changes.
package hashtable

import (
	"slices"
)

const (
	// NotFound is returned by Find when the key is absent and insertion was
	// not requested.
	NotFound = -1

	minCapacity = 16

	// FNV-1a parameters, applied per int16 coordinate.
	fnvOffset = 14695981039346656037
	fnvPrime  = 1099511628211
)

// Table maps fixed-width int16 keys to dense indices assigned in insertion
// order. The zero value is not usable; use New.
//
// Table is not safe for concurrent use.
type Table struct {
	keySize  int
	capacity int     // always a power of two
	filled   int
	slots    []int32 // slot -> dense index, NotFound when empty
	keys     []int16 // filled*keySize entries, insertion order
}

// New creates a table for keys of keySize int16 coordinates, sized for the
// expected number of distinct entries. The expectation is a sizing hint only;
// the table grows as needed.
func New(keySize, expected int) *Table {
	capacity := minCapacity
	for capacity < 2*expected {
		capacity *= 2
	}

	t := &Table{
		keySize:  keySize,
		capacity: capacity,
		slots:    make([]int32, capacity),
		keys:     make([]int16, 0, expected*keySize),
	}

	for i := range t.slots {
		t.slots[i] = NotFound
	}

	return t
}

// Find returns the dense index for key, or NotFound if the key is absent and
// insert is false. With insert true, an absent key is stored and assigned the
// next sequential index. len(key) must equal the table's key size.
func (t *Table) Find(key []int16, insert bool) int {
	if insert && 2*(t.filled+1) >= t.capacity {
		t.grow()
	}

	slot := int(hash(key) & uint64(t.capacity-1))

	for {
		idx := t.slots[slot]
		if idx == NotFound {
			if !insert {
				return NotFound
			}

			t.keys = append(t.keys, key...)
			idx = int32(t.filled)
			t.slots[slot] = idx
			t.filled++

			return int(idx)
		}

		if slices.Equal(t.Key(int(idx)), key) {
			return int(idx)
		}

		slot++
		if slot == t.capacity {
			slot = 0
		}
	}
}

// Size returns the number of distinct keys inserted so far.
func (t *Table) Size() int {
	return t.filled
}

// Key returns the key stored for the given dense index. The returned slice
// aliases internal storage and must not be modified.
func (t *Table) Key(i int) []int16 {
	return t.keys[i*t.keySize : (i+1)*t.keySize : (i+1)*t.keySize]
}

// grow doubles the capacity and rehashes all stored keys. Dense indices are
// stable across growth.
func (t *Table) grow() {
	t.capacity *= 2
	t.slots = make([]int32, t.capacity)

	for i := range t.slots {
		t.slots[i] = NotFound
	}

	for idx := 0; idx < t.filled; idx++ {
		slot := int(hash(t.Key(idx)) & uint64(t.capacity-1))
		for t.slots[slot] != NotFound {
			slot++
			if slot == t.capacity {
				slot = 0
			}
		}

		t.slots[slot] = int32(idx)
	}
}

func hash(key []int16) uint64 {
	h := uint64(fnvOffset)
	for _, k := range key {
		h ^= uint64(uint16(k))
		h *= fnvPrime
	}

	return h
}
