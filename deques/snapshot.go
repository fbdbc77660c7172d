package deques

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/klauspost/compress/zstd"
)

// Snapshot format:
//
//	[Magic:4][Version:2][Flags:2][Count:8][PayloadLen:8][Payload:N][CRC32C:4]
//
// All integers little-endian. Flags bit 0 marks a zstd-compressed payload.
// The payload is Count records of [ElemLen:4][ElemBytes:N]; the CRC covers
// the payload exactly as stored. The chunk layout is not persisted:
// decoding rebuilds a balanced layout, the same way rebalancing treats
// layout as an implementation detail.
var (
	snapshotMagic   = [4]byte{'D', 'Q', 'S', '0'}
	snapshotVersion = uint16(1)
)

const snapshotFlagCompressed = uint16(1)

var crcTable = crc32.MakeTable(crc32.Castagnoli)

// EncodeFunc serializes one element.
type EncodeFunc[T any] func(T) ([]byte, error)

// DecodeFunc deserializes one element.
type DecodeFunc[T any] func([]byte) (T, error)

// SnapshotOptions configures EncodeSnapshot.
type SnapshotOptions struct {
	// Compress enables zstd compression of the element payload
	// (smaller snapshots, slightly slower writes).
	Compress bool

	// CompressionLevel sets the zstd compression level (1-22).
	// Default (3) provides a good balance; higher compresses better but
	// slower.
	CompressionLevel int
}

// EncodeSnapshot writes a versioned binary snapshot of the deque to w.
// Elements are serialized front to back with encode.
func (d *ChunkedDeque[T]) EncodeSnapshot(w io.Writer, opts SnapshotOptions, encode EncodeFunc[T]) error {
	var payload bytes.Buffer
	var lenBuf [4]byte
	for v := range d.Values() {
		b, err := encode(v)
		if err != nil {
			return fmt.Errorf("failed to encode element: %w", err)
		}
		binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(b)))
		payload.Write(lenBuf[:])
		payload.Write(b)
	}

	var flags uint16
	payloadBytes := payload.Bytes()
	if opts.Compress {
		level := opts.CompressionLevel
		if level == 0 {
			level = 3
		}
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
		if err != nil {
			return fmt.Errorf("failed to create zstd encoder: %w", err)
		}
		payloadBytes = enc.EncodeAll(payloadBytes, nil)
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to close zstd encoder: %w", err)
		}
		flags |= snapshotFlagCompressed
	}

	header := make([]byte, 0, 24)
	header = append(header, snapshotMagic[:]...)
	var fixed [20]byte
	binary.LittleEndian.PutUint16(fixed[0:2], snapshotVersion)
	binary.LittleEndian.PutUint16(fixed[2:4], flags)
	binary.LittleEndian.PutUint64(fixed[4:12], uint64(d.size))
	binary.LittleEndian.PutUint64(fixed[12:20], uint64(len(payloadBytes)))
	header = append(header, fixed[:]...)

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write snapshot header: %w", err)
	}
	if _, err := w.Write(payloadBytes); err != nil {
		return fmt.Errorf("failed to write snapshot payload: %w", err)
	}
	var crcBuf [4]byte
	binary.LittleEndian.PutUint32(crcBuf[:], crc32.Checksum(payloadBytes, crcTable))
	if _, err := w.Write(crcBuf[:]); err != nil {
		return fmt.Errorf("failed to write snapshot checksum: %w", err)
	}
	return nil
}

// DecodeSnapshot reads a snapshot produced by EncodeSnapshot from r and
// rebuilds the deque, deserializing elements with decode.
func DecodeSnapshot[T any](r io.Reader, decode DecodeFunc[T]) (*ChunkedDeque[T], error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("failed to read snapshot magic: %w", err)
	}
	if magic != snapshotMagic {
		return nil, fmt.Errorf("unsupported snapshot format: invalid header magic")
	}

	var fixed [20]byte
	if _, err := io.ReadFull(r, fixed[:]); err != nil {
		return nil, fmt.Errorf("failed to read snapshot header: %w", err)
	}
	version := binary.LittleEndian.Uint16(fixed[0:2])
	if version != snapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version: %d", version)
	}
	flags := binary.LittleEndian.Uint16(fixed[2:4])
	count := binary.LittleEndian.Uint64(fixed[4:12])
	payloadLen := binary.LittleEndian.Uint64(fixed[12:20])

	payload := make([]byte, payloadLen)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("failed to read snapshot payload: %w", err)
	}
	var crcBuf [4]byte
	if _, err := io.ReadFull(r, crcBuf[:]); err != nil {
		return nil, fmt.Errorf("failed to read snapshot checksum: %w", err)
	}
	if crc32.Checksum(payload, crcTable) != binary.LittleEndian.Uint32(crcBuf[:]) {
		return nil, fmt.Errorf("snapshot checksum mismatch")
	}

	if flags&snapshotFlagCompressed != 0 {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
		}
		payload, err = dec.DecodeAll(payload, nil)
		dec.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to decompress snapshot payload: %w", err)
		}
	}

	d := NewChunkedDeque[T]()
	for i := uint64(0); i < count; i++ {
		if len(payload) < 4 {
			return nil, fmt.Errorf("truncated snapshot payload at element %d", i)
		}
		elemLen := binary.LittleEndian.Uint32(payload[:4])
		payload = payload[4:]
		if uint64(len(payload)) < uint64(elemLen) {
			return nil, fmt.Errorf("truncated snapshot payload at element %d", i)
		}
		v, err := decode(payload[:elemLen])
		if err != nil {
			return nil, fmt.Errorf("failed to decode element %d: %w", i, err)
		}
		payload = payload[elemLen:]
		d.PushBack(v)
	}
	if len(payload) != 0 {
		return nil, fmt.Errorf("snapshot payload has %d trailing bytes", len(payload))
	}
	d.GC()
	return d, nil
}
