// Package pool provides a pooled, growable byte buffer used by the legacy
// writer to accumulate its string table and value block without repeated
// reallocation.
package pool

import (
	"io"
	"sync"
)

// Default and max-threshold sizes for the two buffers the legacy writer
// needs: the string table (small, one NUL-terminated string at a time) and
// the value block (can grow arbitrarily with nested containers).
const (
	StringTableDefaultSize  = 1024 * 4    // 4KiB
	StringTableMaxThreshold = 1024 * 64   // 64KiB
	ValueBlockDefaultSize   = 1024 * 16   // 16KiB
	ValueBlockMaxThreshold  = 1024 * 1024 // 1MiB
)

// ByteBuffer is a growable []byte with explicit capacity control, avoiding
// the hidden reallocation strategy of bytes.Buffer where the writer wants to
// reason about exact growth.
type ByteBuffer struct {
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified default size.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset resets the buffer to be empty, but retains the allocated memory for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// MustWrite writes data to the buffer, growing it if necessary.
func (bb *ByteBuffer) MustWrite(data []byte) {
	bb.B = append(bb.B, data...)
}

// Slice returns a slice of the buffer from start to end.
// Panics if the indices are out of bounds.
func (bb *ByteBuffer) Slice(start, end int) []byte {
	if start < 0 || end < start || end > cap(bb.B) {
		panic("Slice: invalid indices")
	}

	return bb.B[start:end]
}

// SetLength sets the length of the buffer to n.
// Panics if n is negative or greater than the capacity.
func (bb *ByteBuffer) SetLength(n int) {
	if n < 0 || n > cap(bb.B) {
		panic("SetLength: invalid length")
	}
	bb.B = bb.B[:n]
}

// Extend extends the buffer by n bytes if there is sufficient capacity.
func (bb *ByteBuffer) Extend(n int) bool {
	curLen := len(bb.B)
	if cap(bb.B)-curLen < n {
		return false
	}

	bb.B = bb.B[:curLen+n]

	return true
}

// ExtendOrGrow extends the buffer by n bytes, growing it if necessary.
func (bb *ByteBuffer) ExtendOrGrow(n int) {
	if bb.Extend(n) {
		return
	}

	start := len(bb.B)
	bb.Grow(n)
	bb.B = bb.B[:start+n]
}

// Grow grows the buffer to ensure it can hold requiredBytes more bytes without reallocating.
// If the buffer has sufficient capacity, Grow does nothing.
//
// The growth strategy is as follows:
//   - For buffers with capacity up to 4*ValueBlockDefaultSize (64KiB), grow by ValueBlockDefaultSize-sized chunks to minimize reallocations.
//   - For larger buffers, grow by 25% of current capacity to balance memory usage and reallocation cost.
//   - Either way, grow by at least requiredBytes.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	available := cap(bb.B) - len(bb.B)
	if available >= requiredBytes {
		return
	}

	growBy := ValueBlockDefaultSize
	if cap(bb.B) > 4*ValueBlockDefaultSize {
		growBy = cap(bb.B) / 4
	}

	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// Write appends the contents of data to the buffer, growing it as needed.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)

	return len(data), nil
}

// WriteTo writes the contents of the buffer to w.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)

	return int64(n), err
}

// ByteBufferPool pools ByteBuffers to minimize allocations, with an optional
// maximum size threshold so an unusually large document doesn't permanently
// bloat the pool.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a new ByteBufferPool with buffers of the specified default size.
func NewByteBufferPool(defaultSize, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)

	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var (
	stringTablePool = NewByteBufferPool(StringTableDefaultSize, StringTableMaxThreshold)
	valueBlockPool  = NewByteBufferPool(ValueBlockDefaultSize, ValueBlockMaxThreshold)
)

// GetStringTableBuffer retrieves a ByteBuffer from the string-table pool.
func GetStringTableBuffer() *ByteBuffer { return stringTablePool.Get() }

// PutStringTableBuffer returns a ByteBuffer to the string-table pool.
func PutStringTableBuffer(bb *ByteBuffer) { stringTablePool.Put(bb) }

// GetValueBlockBuffer retrieves a ByteBuffer from the value-block pool.
func GetValueBlockBuffer() *ByteBuffer { return valueBlockPool.Get() }

// PutValueBlockBuffer returns a ByteBuffer to the value-block pool.
func PutValueBlockBuffer(bb *ByteBuffer) { valueBlockPool.Put(bb) }
