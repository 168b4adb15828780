package lattice

import (
	"bytes"
	"encoding/gob"
)

// Compile time checks to ensure Lattice satisfies the gob interfaces.
var (
	_ gob.GobEncoder = (*Lattice)(nil)
	_ gob.GobDecoder = (*Lattice)(nil)
)

// GobEncode method for Lattice.
func (l *Lattice) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	encoder := gob.NewEncoder(&buf)

	if err := encoder.Encode(l.n); err != nil {
		return nil, err
	}

	if err := encoder.Encode(l.m); err != nil {
		return nil, err
	}

	if err := encoder.Encode(l.d); err != nil {
		return nil, err
	}

	if err := encoder.Encode(l.offsets); err != nil {
		return nil, err
	}

	if err := encoder.Encode(l.weights); err != nil {
		return nil, err
	}

	if err := encoder.Encode(l.neighbors); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// GobDecode method for Lattice.
func (l *Lattice) GobDecode(data []byte) error {
	decoder := gob.NewDecoder(bytes.NewBuffer(data))

	if err := decoder.Decode(&l.n); err != nil {
		return err
	}

	if err := decoder.Decode(&l.m); err != nil {
		return err
	}

	if err := decoder.Decode(&l.d); err != nil {
		return err
	}

	if err := decoder.Decode(&l.offsets); err != nil {
		return err
	}

	if err := decoder.Decode(&l.weights); err != nil {
		return err
	}

	if err := decoder.Decode(&l.neighbors); err != nil {
		return err
	}

	return nil
}
