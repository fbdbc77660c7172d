package deques_test

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyzh/data-structure-deque/deques"
)

func encodeInt(v int) ([]byte, error) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v))
	return b[:], nil
}

func decodeInt(b []byte) (int, error) {
	if len(b) != 8 {
		return 0, fmt.Errorf("bad element length %d", len(b))
	}
	return int(binary.LittleEndian.Uint64(b)), nil
}

func TestSnapshot_RoundTrip(t *testing.T) {
	for _, tc := range []struct {
		name string
		opts deques.SnapshotOptions
	}{
		{name: "Plain", opts: deques.SnapshotOptions{}},
		{name: "Compressed", opts: deques.SnapshotOptions{Compress: true}},
		{name: "Compressed_HighLevel", opts: deques.SnapshotOptions{Compress: true, CompressionLevel: 9}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			d := deques.NewChunkedDeque[int]()
			for i := range 5000 {
				d.PushBack(i * 3)
			}

			var buf bytes.Buffer
			require.NoError(t, d.EncodeSnapshot(&buf, tc.opts, encodeInt))

			got, err := deques.DecodeSnapshot(bytes.NewReader(buf.Bytes()), decodeInt)
			require.NoError(t, err)
			require.Equal(t, d.Size(), got.Size())
			require.Equal(t, d.ToSlice(), got.ToSlice())
		})
	}
}

func TestSnapshot_Empty(t *testing.T) {
	d := deques.NewChunkedDeque[int]()
	var buf bytes.Buffer
	require.NoError(t, d.EncodeSnapshot(&buf, deques.SnapshotOptions{}, encodeInt))

	got, err := deques.DecodeSnapshot(bytes.NewReader(buf.Bytes()), decodeInt)
	require.NoError(t, err)
	require.True(t, got.IsEmpty())

	// The decoded deque must be fully usable.
	got.PushBack(1)
	got.PushFront(2)
	require.Equal(t, []int{2, 1}, got.ToSlice())
}

func TestSnapshot_VariableLengthElements(t *testing.T) {
	d := deques.NewChunkedDeque[string]()
	d.PushBack("")
	d.PushBack("a")
	d.PushBack("hello, snapshot")
	d.PushFront("front")

	var buf bytes.Buffer
	err := d.EncodeSnapshot(&buf, deques.SnapshotOptions{Compress: true},
		func(s string) ([]byte, error) { return []byte(s), nil })
	require.NoError(t, err)

	got, err := deques.DecodeSnapshot(bytes.NewReader(buf.Bytes()),
		func(b []byte) (string, error) { return string(b), nil })
	require.NoError(t, err)
	require.Equal(t, []string{"front", "", "a", "hello, snapshot"}, got.ToSlice())
}

func TestSnapshot_CompressionShrinksPayload(t *testing.T) {
	d := deques.NewChunkedDeque[int]()
	for range 10000 {
		d.PushBack(7) // highly compressible
	}

	var plain, compressed bytes.Buffer
	require.NoError(t, d.EncodeSnapshot(&plain, deques.SnapshotOptions{}, encodeInt))
	require.NoError(t, d.EncodeSnapshot(&compressed, deques.SnapshotOptions{Compress: true}, encodeInt))
	assert.Less(t, compressed.Len(), plain.Len()/4)
}

func TestSnapshot_Corruption(t *testing.T) {
	d := deques.NewChunkedDeque[int]()
	for i := range 100 {
		d.PushBack(i)
	}
	var buf bytes.Buffer
	require.NoError(t, d.EncodeSnapshot(&buf, deques.SnapshotOptions{}, encodeInt))
	good := buf.Bytes()

	t.Run("BadMagic", func(t *testing.T) {
		bad := bytes.Clone(good)
		bad[0] ^= 0xff
		_, err := deques.DecodeSnapshot(bytes.NewReader(bad), decodeInt)
		require.ErrorContains(t, err, "invalid header magic")
	})

	t.Run("BadVersion", func(t *testing.T) {
		bad := bytes.Clone(good)
		bad[4] = 0x7f
		_, err := deques.DecodeSnapshot(bytes.NewReader(bad), decodeInt)
		require.ErrorContains(t, err, "unsupported snapshot version")
	})

	t.Run("FlippedPayloadByte", func(t *testing.T) {
		bad := bytes.Clone(good)
		bad[len(bad)/2] ^= 0xff
		_, err := deques.DecodeSnapshot(bytes.NewReader(bad), decodeInt)
		require.ErrorContains(t, err, "checksum mismatch")
	})

	t.Run("Truncated", func(t *testing.T) {
		_, err := deques.DecodeSnapshot(bytes.NewReader(good[:len(good)/2]), decodeInt)
		require.Error(t, err)
	})

	t.Run("EncodeError", func(t *testing.T) {
		var sink bytes.Buffer
		err := d.EncodeSnapshot(&sink, deques.SnapshotOptions{},
			func(int) ([]byte, error) { return nil, fmt.Errorf("boom") })
		require.ErrorContains(t, err, "failed to encode element")
	})

	t.Run("DecodeError", func(t *testing.T) {
		_, err := deques.DecodeSnapshot(bytes.NewReader(good),
			func([]byte) (int, error) { return 0, fmt.Errorf("boom") })
		require.ErrorContains(t, err, "failed to decode element")
	})
}
