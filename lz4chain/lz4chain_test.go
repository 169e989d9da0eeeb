package lz4chain

import (
	"testing"

	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/require"
)

func TestNormalizeBlockSize(t *testing.T) {
	require.Equal(t, 1024, normalizeBlockSize(0))
	require.Equal(t, 1024, normalizeBlockSize(1024))
	require.Equal(t, 2048, normalizeBlockSize(1025))
	require.Equal(t, 4096, normalizeBlockSize(4096))
}

func TestDecoderSingleFrame(t *testing.T) {
	plain := []byte("the quick brown fox jumps over the lazy dog")
	compressed := make([]byte, lz4.CompressBlockBound(len(plain)))
	var c lz4.Compressor
	n, err := c.CompressBlock(plain, compressed)
	require.NoError(t, err)
	compressed = compressed[:n]

	d := NewDecoder()
	d.Prepare(len(plain))
	got, err := d.Decode(compressed, len(plain))
	require.NoError(t, err)
	require.Equal(t, len(plain), got)

	out := make([]byte, len(plain))
	require.NoError(t, d.Drain(out, 0, len(plain)))
	require.Equal(t, plain, out)
}

func TestDecoderResetZeroesState(t *testing.T) {
	d := NewDecoder()
	d.Prepare(1024)
	d.outPos = 10
	d.buf[0] = 0xFF

	d.Reset()
	require.Equal(t, 0, d.outPos)
	require.Equal(t, byte(0), d.buf[0])
}

func TestDecoderDrainOutOfBounds(t *testing.T) {
	d := NewDecoder()
	d.Prepare(1024)
	err := d.Drain(make([]byte, 10), 0, 10)
	require.Error(t, err)
}

func TestDecodeChainSingleBlock(t *testing.T) {
	plain := []byte("abcdefghijklmnopqrstuvwxyz")
	compressed := make([]byte, lz4.CompressBlockBound(len(plain)))
	var c lz4.Compressor
	n, err := c.CompressBlock(plain, compressed)
	require.NoError(t, err)
	compressed = compressed[:n]

	read := func(n int) ([]byte, error) {
		require.Equal(t, len(compressed), n)
		return compressed, nil
	}

	out, err := DecodeChain(read, []int{len(plain)}, []int{len(compressed)}, len(plain))
	require.NoError(t, err)
	require.Equal(t, plain, out)
}

func TestDecodeChainExhaustedQueue(t *testing.T) {
	read := func(n int) ([]byte, error) { return make([]byte, n), nil }

	_, err := DecodeChain(read, []int{100}, nil, 64)
	require.Error(t, err)
}
