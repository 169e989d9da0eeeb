package compress

import (
	"testing"

	"github.com/kristiker/keyvalues3/wire"
	"github.com/stretchr/testify/require"
)

func TestNoOpCodecRoundTrip(t *testing.T) {
	c := NewNoOpCodec()
	data := []byte("hello world")

	compressed, err := c.Compress(data)
	require.NoError(t, err)
	require.Equal(t, data, compressed)

	decompressed, err := c.Decompress(compressed, len(data))
	require.NoError(t, err)
	require.Equal(t, data, decompressed)
}

func TestLZ4CodecRoundTrip(t *testing.T) {
	c := NewLZ4Codec()
	data := []byte("this string repeats this string repeats this string repeats")

	compressed, err := c.Compress(data)
	require.NoError(t, err)

	decompressed, err := c.Decompress(compressed, len(data))
	require.NoError(t, err)
	require.Equal(t, data, decompressed)
}

func TestLZ4CodecRoundTripUnknownSize(t *testing.T) {
	c := NewLZ4Codec()
	data := []byte("this string repeats this string repeats this string repeats")

	compressed, err := c.Compress(data)
	require.NoError(t, err)

	decompressed, err := c.Decompress(compressed, -1)
	require.NoError(t, err)
	require.Equal(t, data, decompressed)
}

func TestLZ4CodecEmptyInput(t *testing.T) {
	c := NewLZ4Codec()

	compressed, err := c.Compress(nil)
	require.NoError(t, err)
	require.Nil(t, compressed)

	decompressed, err := c.Decompress(nil, 0)
	require.NoError(t, err)
	require.Nil(t, decompressed)
}

func TestZstdCodecRoundTrip(t *testing.T) {
	c := NewZstdCodec()
	data := []byte("this string repeats this string repeats this string repeats")

	compressed, err := c.Compress(data)
	require.NoError(t, err)

	decompressed, err := c.Decompress(compressed, len(data))
	require.NoError(t, err)
	require.Equal(t, data, decompressed)
}

func TestLegacyBlockCodecPassthrough(t *testing.T) {
	c := NewLegacyBlockCodec()
	data := []byte("hello")
	header := []byte{byte(len(data)), 0, 0, 0x80}

	decompressed, err := c.Decompress(append(header, data...), -1)
	require.NoError(t, err)
	require.Equal(t, data, decompressed)
}

func TestLegacyBlockCodecTruncated(t *testing.T) {
	c := NewLegacyBlockCodec()
	_, err := c.Decompress([]byte{1, 2}, -1)
	require.ErrorIs(t, err, ErrTruncatedBlock)
}

func TestCreateCodec(t *testing.T) {
	codec, err := CreateCodec(wire.CompressionNone, "test")
	require.NoError(t, err)
	require.IsType(t, NoOpCodec{}, codec)

	codec, err = CreateCodec(wire.CompressionLZ4, "test")
	require.NoError(t, err)
	require.IsType(t, LZ4Codec{}, codec)

	codec, err = CreateCodec(wire.CompressionZstd, "test")
	require.NoError(t, err)
	require.IsType(t, ZstdCodec{}, codec)

	_, err = CreateCodec(wire.CompressionMethod(99), "test")
	require.ErrorIs(t, err, ErrUnsupportedMethod)
}

func TestGetCodec(t *testing.T) {
	codec, err := GetCodec(wire.CompressionZstd)
	require.NoError(t, err)
	require.IsType(t, ZstdCodec{}, codec)

	_, err = GetCodec(wire.CompressionMethod(99))
	require.ErrorIs(t, err, ErrUnsupportedMethod)
}
