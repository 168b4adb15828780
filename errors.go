package permuto

import (
	"errors"
)

var (
	// ErrNotBuilt is returned by Apply and SaveSnapshot before a successful
	// Build or LoadSnapshot.
	ErrNotBuilt = errors.New("filter has not been built")

	// ErrInvalidSnapshot is returned when snapshot data does not start with
	// the expected magic bytes.
	ErrInvalidSnapshot = errors.New("invalid snapshot format")

	// ErrUnsupportedSnapshotVersion is returned when the snapshot was written
	// by an incompatible library version.
	ErrUnsupportedSnapshotVersion = errors.New("unsupported snapshot version")

	// ErrUnknownCompression is returned when the snapshot names a compression
	// codec this build does not understand.
	ErrUnknownCompression = errors.New("unknown snapshot compression")
)
