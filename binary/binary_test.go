package binary

import (
	stdbinary "encoding/binary"
	"testing"

	"github.com/kristiker/keyvalues3"
	"github.com/kristiker/keyvalues3/internal/lane"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/require"
)

func TestWriteDecodeRoundTripScalars(t *testing.T) {
	cases := []struct {
		name string
		v    keyvalues3.Value
	}{
		{"null", keyvalues3.Null{}},
		{"true", keyvalues3.Bool(true)},
		{"false", keyvalues3.Bool(false)},
		{"int64-zero", keyvalues3.Int64(0)},
		{"int64-one", keyvalues3.Int64(1)},
		{"int64-other", keyvalues3.Int64(-42)},
		{"uint64", keyvalues3.UInt64(18446744073709551615)},
		{"double-zero", keyvalues3.Double(0)},
		{"double-one", keyvalues3.Double(1)},
		{"double-other", keyvalues3.Double(3.25)},
		{"int32", keyvalues3.Int32(-7)},
		{"uint32", keyvalues3.UInt32(7)},
		{"string", keyvalues3.String("hello world")},
		{"empty-string", keyvalues3.String("")},
		{"blob", keyvalues3.Blob{0xDE, 0xAD, 0xBE, 0xEF}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			data, err := Write(c.v)
			require.NoError(t, err)

			doc, err := Decode(data)
			require.NoError(t, err)
			require.Equal(t, c.v, doc.Value)
		})
	}
}

func TestWriteDecodeRoundTripObject(t *testing.T) {
	v := keyvalues3.Object{
		{Key: "A", Value: keyvalues3.Int64(1)},
		{Key: "B", Value: keyvalues3.String("two")},
		{Key: "C", Value: keyvalues3.Array{keyvalues3.Int64(1), keyvalues3.Int64(2), keyvalues3.Int64(3)}},
	}

	data, err := Write(v)
	require.NoError(t, err)

	doc, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, v, doc.Value)
}

func TestWriteDecodeRoundTripTypedArray(t *testing.T) {
	v := keyvalues3.TypedArray{
		ElemKind: 3, // KindInt64
		Elems:    []keyvalues3.Value{keyvalues3.Int64(1), keyvalues3.Int64(2), keyvalues3.Int64(0)},
	}

	data, err := Write(v)
	require.NoError(t, err)

	doc, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, v, doc.Value)
}

func TestWriteDecodeRoundTripFlagged(t *testing.T) {
	v := keyvalues3.Flagged{Inner: keyvalues3.String("a/model.vmdl"), Flags: keyvalues3.FlagResource}

	data, err := Write(v)
	require.NoError(t, err)

	doc, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, v, doc.Value)
}

// TestWriteDecodeRoundTripEachFlag exercises every flag the legacy wire
// shape can carry, including the ones whose SpecifierBit wire value differs
// from their FlagSet bit position (Panorama, SoundEvent, SubClass).
func TestWriteDecodeRoundTripEachFlag(t *testing.T) {
	for name, flag := range map[string]keyvalues3.FlagSet{
		"resource":      keyvalues3.FlagResource,
		"resource_name": keyvalues3.FlagResourceName,
		"panorama":      keyvalues3.FlagPanorama,
		"soundevent":    keyvalues3.FlagSoundEvent,
		"subclass":      keyvalues3.FlagSubClass,
	} {
		t.Run(name, func(t *testing.T) {
			v := keyvalues3.Flagged{Inner: keyvalues3.String("x"), Flags: flag}

			data, err := Write(v)
			require.NoError(t, err)

			doc, err := Decode(data)
			require.NoError(t, err)
			require.Equal(t, v, doc.Value)
		})
	}
}

func TestWriteDecodeRoundTripStringDeduplication(t *testing.T) {
	v := keyvalues3.Array{keyvalues3.String("repeat"), keyvalues3.String("repeat"), keyvalues3.String("other")}

	data, err := Write(v)
	require.NoError(t, err)

	doc, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, v, doc.Value)
}

func TestWriteDecodeRoundTripLZ4(t *testing.T) {
	v := keyvalues3.Object{
		{Key: "payload", Value: keyvalues3.String("this string repeats this string repeats this string repeats")},
	}

	data, err := Write(v, WithLZ4())
	require.NoError(t, err)

	doc, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, v, doc.Value)
}

func TestWriteRejectsMultipleFlags(t *testing.T) {
	v := keyvalues3.Flagged{Inner: keyvalues3.Int64(1), Flags: keyvalues3.FlagResource | keyvalues3.FlagPanorama}
	_, err := Write(v)
	require.Error(t, err)
}

func TestWriteRejectsInvalidValue(t *testing.T) {
	obj := make(keyvalues3.Object, 1)
	obj[0] = keyvalues3.ObjectMember{Key: "self"}
	obj[0].Value = obj

	_, err := Write(obj)
	require.Error(t, err)
}

func TestDecodeUnknownMagic(t *testing.T) {
	_, err := Decode([]byte("NOPE"))
	require.Error(t, err)
}

func TestDecodeTruncatedInput(t *testing.T) {
	data, err := Write(keyvalues3.String("hello"))
	require.NoError(t, err)

	_, err = Decode(data[:len(data)-2])
	require.Error(t, err)
}

// TestDecodeChainedBlobLane exercises the V2+ compression_method == 1 blob
// path directly: one LZ4-chain frame holding a whole blob block, with its
// compressed size stored as a trailing uint16 in the decompressed main
// stream and the frame bytes themselves living in the raw post-main-block
// reader, matching original_source's read_v3 framing.
func TestDecodeChainedBlobLane(t *testing.T) {
	blob := []byte("this is one compressed blob block of data")

	compressed := make([]byte, lz4.CompressBlockBound(len(blob)))
	var c lz4.Compressor
	n, err := c.CompressBlock(blob, compressed)
	require.NoError(t, err)
	compressed = compressed[:n]

	sizeField := make([]byte, 2)
	stdbinary.LittleEndian.PutUint16(sizeField, uint16(len(compressed)))

	plain := lane.New(sizeField)
	rawRest := lane.New(compressed)

	blobLane, err := decodeChainedBlobLane(plain, rawRest, []int{len(blob)}, 1024)
	require.NoError(t, err)

	got, err := blobLane.Read(len(blob))
	require.NoError(t, err)
	require.Equal(t, blob, got)
}
