package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteBufferMustWriteAndReset(t *testing.T) {
	bb := NewByteBuffer(4)
	bb.MustWrite([]byte("hello"))
	require.Equal(t, []byte("hello"), bb.Bytes())
	require.Equal(t, 5, bb.Len())

	bb.Reset()
	require.Equal(t, 0, bb.Len())
	require.GreaterOrEqual(t, bb.Cap(), 4)
}

func TestByteBufferExtendAndSetLength(t *testing.T) {
	bb := NewByteBuffer(8)
	ok := bb.Extend(4)
	require.True(t, ok)
	require.Equal(t, 4, bb.Len())

	ok = bb.Extend(100)
	require.False(t, ok)

	bb.SetLength(2)
	require.Equal(t, 2, bb.Len())
}

func TestByteBufferExtendOrGrow(t *testing.T) {
	bb := NewByteBuffer(2)
	bb.ExtendOrGrow(10)
	require.Equal(t, 10, bb.Len())
	require.GreaterOrEqual(t, bb.Cap(), 10)
}

func TestByteBufferGrowPreservesContent(t *testing.T) {
	bb := NewByteBuffer(2)
	bb.MustWrite([]byte("ab"))
	bb.Grow(1000)
	require.Equal(t, []byte("ab"), bb.Bytes())
	require.GreaterOrEqual(t, bb.Cap(), 1002)
}

func TestByteBufferSlicePanicsOnInvalidRange(t *testing.T) {
	bb := NewByteBuffer(4)
	require.Panics(t, func() { bb.Slice(-1, 2) })
	require.Panics(t, func() { bb.Slice(2, 1) })
}

func TestByteBufferWriteAndWriteTo(t *testing.T) {
	bb := NewByteBuffer(4)
	n, err := bb.Write([]byte("xyz"))
	require.NoError(t, err)
	require.Equal(t, 3, n)

	var out []byte
	buf := &sliceWriter{&out}
	written, err := bb.WriteTo(buf)
	require.NoError(t, err)
	require.Equal(t, int64(3), written)
	require.Equal(t, []byte("xyz"), out)
}

type sliceWriter struct {
	out *[]byte
}

func (w *sliceWriter) Write(p []byte) (int, error) {
	*w.out = append(*w.out, p...)
	return len(p), nil
}

func TestByteBufferPoolGetPutRoundTrip(t *testing.T) {
	p := NewByteBufferPool(16, 64)
	bb := p.Get()
	bb.MustWrite([]byte("data"))
	p.Put(bb)

	bb2 := p.Get()
	require.Equal(t, 0, bb2.Len())
}

func TestByteBufferPoolDropsOversizedBuffers(t *testing.T) {
	p := NewByteBufferPool(4, 8)
	bb := p.Get()
	bb.Grow(100)
	require.Greater(t, bb.Cap(), 8)

	// Put should silently drop an oversized buffer rather than pool it.
	p.Put(bb)
	p.Put(nil)
}

func TestStringTableAndValueBlockBuffers(t *testing.T) {
	sb := GetStringTableBuffer()
	require.NotNil(t, sb)
	sb.MustWrite([]byte("s"))
	PutStringTableBuffer(sb)

	vb := GetValueBlockBuffer()
	require.NotNil(t, vb)
	vb.MustWrite([]byte("v"))
	PutValueBlockBuffer(vb)
}
