package permuto

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/permuto/lattice"
)

// CompressionType defines the compression algorithm used for snapshots.
type CompressionType uint8

const (
	// CompressionNone stores the snapshot payload uncompressed.
	CompressionNone CompressionType = 0
	// CompressionLZ4 uses LZ4 block compression (fast).
	CompressionLZ4 CompressionType = 1
	// CompressionZSTD uses ZSTD block compression (better ratio).
	CompressionZSTD CompressionType = 2
)

// SnapshotOptions represents the options for SaveSnapshot.
type SnapshotOptions struct {
	// Compression selects the payload codec. Default is CompressionZSTD.
	Compression CompressionType
}

const (
	snapshotMagic   = "PHLT"
	snapshotVersion = 1

	// Header layout: magic[4] | version | compression |
	// uncompressedSize uint32 | compressedSize uint32 (0 = stored raw).
	snapshotHeaderSize = 4 + 1 + 1 + 4 + 4
)

// SaveSnapshot writes the built lattice to w so that a later LoadSnapshot
// can restore it without rebuilding. Returns ErrNotBuilt before a build.
func (f *Filter) SaveSnapshot(w io.Writer, optFns ...func(o *SnapshotOptions)) error {
	opts := SnapshotOptions{
		Compression: CompressionZSTD,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	lt := f.current()
	if lt == nil {
		return ErrNotBuilt
	}

	payload, err := encodeLattice(lt)
	if err != nil {
		return fmt.Errorf("encode lattice: %w", err)
	}

	compressed, err := compressPayload(payload, opts.Compression)
	if err != nil {
		return fmt.Errorf("compress snapshot: %w", err)
	}

	// If compression doesn't help, store raw (compressedSize 0).
	if compressed != nil && len(compressed) >= len(payload) {
		compressed = nil
	}

	header := make([]byte, snapshotHeaderSize)
	copy(header, snapshotMagic)
	header[4] = snapshotVersion
	header[5] = byte(opts.Compression)
	binary.LittleEndian.PutUint32(header[6:], uint32(len(payload)))
	binary.LittleEndian.PutUint32(header[10:], uint32(len(compressed)))

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("write snapshot header: %w", err)
	}

	body := compressed
	if compressed == nil {
		body = payload // stored raw, compressedSize 0
	}

	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("write snapshot payload: %w", err)
	}

	return nil
}

// LoadSnapshot restores a lattice previously written by SaveSnapshot,
// replacing any built state.
func (f *Filter) LoadSnapshot(r io.Reader) error {
	header := make([]byte, snapshotHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return fmt.Errorf("read snapshot header: %w", err)
	}

	if string(header[:4]) != snapshotMagic {
		return ErrInvalidSnapshot
	}

	if header[4] != snapshotVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedSnapshotVersion, header[4])
	}

	compression := CompressionType(header[5])
	uncompressedSize := binary.LittleEndian.Uint32(header[6:])
	compressedSize := binary.LittleEndian.Uint32(header[10:])

	bodySize := compressedSize
	if bodySize == 0 {
		bodySize = uncompressedSize
	}

	body := make([]byte, bodySize)
	if _, err := io.ReadFull(r, body); err != nil {
		return fmt.Errorf("read snapshot payload: %w", err)
	}

	payload, err := decompressPayload(body, compression, uncompressedSize, compressedSize)
	if err != nil {
		return fmt.Errorf("decompress snapshot: %w", err)
	}

	lt := &lattice.Lattice{}
	if err := gob.NewDecoder(bytes.NewReader(payload)).Decode(lt); err != nil {
		return fmt.Errorf("decode lattice: %w", err)
	}

	f.mu.Lock()
	f.lattice = lt
	f.mu.Unlock()

	f.opts.logger.Debug("snapshot loaded",
		"points", lt.NumPoints(),
		"dimension", lt.Dimension(),
		"vertices", lt.NumVertices(),
	)

	return nil
}

func encodeLattice(lt *lattice.Lattice) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(lt); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// compressPayload returns nil for payloads stored raw (CompressionNone or
// incompressible data), which is signaled by compressedSize 0 in the header.
func compressPayload(payload []byte, compression CompressionType) ([]byte, error) {
	switch compression {
	case CompressionNone:
		return nil, nil
	case CompressionLZ4:
		compressed := make([]byte, lz4.CompressBlockBound(len(payload)))
		n, err := lz4.CompressBlock(payload, compressed, nil)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, nil // incompressible, store raw
		}
		return compressed[:n], nil
	case CompressionZSTD:
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, err
		}
		defer enc.Close()

		return enc.EncodeAll(payload, nil), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, compression)
	}
}

func decompressPayload(body []byte, compression CompressionType, uncompressedSize, compressedSize uint32) ([]byte, error) {
	if compressedSize == 0 {
		return body, nil
	}

	switch compression {
	case CompressionLZ4:
		payload := make([]byte, uncompressedSize)
		n, err := lz4.UncompressBlock(body, payload)
		if err != nil {
			return nil, err
		}
		return payload[:n], nil
	case CompressionZSTD:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()

		return dec.DecodeAll(body, make([]byte, 0, uncompressedSize))
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, compression)
	}
}
