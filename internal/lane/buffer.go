// Package lane implements the bounded, seekable little-endian byte stream
// (C2) that the binary reader splits a decompressed payload into: one
// Buffer per bucket (byte, short, int, double, types, member-count, blob).
// A Buffer never owns its storage — it is a value type over borrowed bytes,
// so slicing a sub-range costs nothing but a new header.
package lane

import (
	"io"
	"math"
	"unicode/utf8"

	"github.com/kristiker/keyvalues3/errs"
)

// Buffer is a little-endian cursor over a borrowed byte slice.
type Buffer struct {
	data []byte
	pos  int
}

// New wraps data in a Buffer starting at offset 0. data is not copied;
// callers must not mutate it while the Buffer is in use.
func New(data []byte) *Buffer {
	return &Buffer{data: data}
}

// Size returns the total length of the underlying region.
func (b *Buffer) Size() int { return len(b.data) }

// Tell returns the current cursor position.
func (b *Buffer) Tell() int { return b.pos }

// Remaining returns the number of unread bytes.
func (b *Buffer) Remaining() int { return len(b.data) - b.pos }

// Seek whence values, mirroring io.Seeker.
const (
	SeekStart   = io.SeekStart
	SeekCurrent = io.SeekCurrent
	SeekEnd     = io.SeekEnd
)

// Seek moves the cursor, matching io.Seeker semantics bounded to [0, Size()].
func (b *Buffer) Seek(offset int, whence int) error {
	var target int
	switch whence {
	case SeekStart:
		target = offset
	case SeekCurrent:
		target = b.pos + offset
	case SeekEnd:
		target = len(b.data) + offset
	default:
		return errs.NewInvalidValue("lane: invalid seek whence")
	}

	if target < 0 || target > len(b.data) {
		return errs.NewTruncatedInput(b.pos, target-len(b.data))
	}

	b.pos = target

	return nil
}

// Read returns exactly n bytes starting at the cursor and advances it. The
// returned slice aliases the buffer's storage; callers must not retain it
// across further mutation of the source document's lifetime assumptions.
func (b *Buffer) Read(n int) ([]byte, error) {
	if n < 0 || b.pos+n > len(b.data) {
		return nil, errs.NewTruncatedInput(b.pos, n)
	}
	out := b.data[b.pos : b.pos+n]
	b.pos += n

	return out, nil
}

// Align advances the cursor to the next multiple of a within the region,
// zero-padding semantics are the writer's concern; the reader only skips.
// It is a no-op if already aligned, and clamps rather than overruns when
// the region ends before the next aligned offset.
func (b *Buffer) Align(a int) error {
	if a <= 1 {
		return nil
	}
	rem := b.pos % a
	if rem == 0 {
		return nil
	}
	skip := a - rem
	if b.pos+skip > len(b.data) {
		b.pos = len(b.data)

		return nil
	}
	b.pos += skip

	return nil
}

// ReadU8 reads one unsigned byte.
func (b *Buffer) ReadU8() (uint8, error) {
	v, err := b.Read(1)
	if err != nil {
		return 0, err
	}

	return v[0], nil
}

// ReadI8 reads one signed byte.
func (b *Buffer) ReadI8() (int8, error) {
	v, err := b.ReadU8()

	return int8(v), err
}

// ReadU16 reads a little-endian uint16.
func (b *Buffer) ReadU16() (uint16, error) {
	v, err := b.Read(2)
	if err != nil {
		return 0, err
	}

	return uint16(v[0]) | uint16(v[1])<<8, nil
}

// ReadI16 reads a little-endian int16.
func (b *Buffer) ReadI16() (int16, error) {
	v, err := b.ReadU16()

	return int16(v), err
}

// ReadU32 reads a little-endian uint32.
func (b *Buffer) ReadU32() (uint32, error) {
	v, err := b.Read(4)
	if err != nil {
		return 0, err
	}

	return uint32(v[0]) | uint32(v[1])<<8 | uint32(v[2])<<16 | uint32(v[3])<<24, nil
}

// ReadI32 reads a little-endian int32.
func (b *Buffer) ReadI32() (int32, error) {
	v, err := b.ReadU32()

	return int32(v), err
}

// ReadU64 reads a little-endian uint64.
func (b *Buffer) ReadU64() (uint64, error) {
	v, err := b.Read(8)
	if err != nil {
		return 0, err
	}
	lo := uint64(v[0]) | uint64(v[1])<<8 | uint64(v[2])<<16 | uint64(v[3])<<24
	hi := uint64(v[4]) | uint64(v[5])<<8 | uint64(v[6])<<16 | uint64(v[7])<<24

	return lo | hi<<32, nil
}

// ReadI64 reads a little-endian int64.
func (b *Buffer) ReadI64() (int64, error) {
	v, err := b.ReadU64()

	return int64(v), err
}

// ReadF32 reads a little-endian IEEE-754 single-precision float.
func (b *Buffer) ReadF32() (float32, error) {
	v, err := b.ReadU32()

	return math.Float32frombits(v), err
}

// ReadF64 reads a little-endian IEEE-754 double-precision float.
func (b *Buffer) ReadF64() (float64, error) {
	v, err := b.ReadU64()

	return math.Float64frombits(v), err
}

// ReadCString reads bytes up to (and consuming) the next NUL byte, decoding
// the preceding bytes as UTF-8 with the replacement character substituted
// for invalid sequences.
func (b *Buffer) ReadCString() (string, error) {
	start := b.pos
	for b.pos < len(b.data) && b.data[b.pos] != 0 {
		b.pos++
	}
	if b.pos >= len(b.data) {
		return "", errs.NewTruncatedInput(start, 1)
	}
	raw := b.data[start:b.pos]
	b.pos++ // consume the NUL

	if utf8.Valid(raw) {
		return string(raw), nil
	}

	// Decode rune-by-rune, substituting utf8.RuneError for invalid sequences,
	// matching read_cstring's documented replacement behavior.
	out := make([]rune, 0, len(raw))
	for i := 0; i < len(raw); {
		r, size := utf8.DecodeRune(raw[i:])
		out = append(out, r)
		i += size
	}

	return string(out), nil
}

// Slice returns a new Buffer over the next n bytes and advances this
// Buffer's cursor past them — it both consumes n bytes from b and returns
// an independent cursor over that sub-range, sharing storage.
func (b *Buffer) Slice(n int) (*Buffer, error) {
	data, err := b.Read(n)
	if err != nil {
		return nil, err
	}

	return New(data), nil
}
