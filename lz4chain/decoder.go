// Package lz4chain implements KV3's LZ4-chain decompression (C3): LZ4 block
// compression where each frame may reference the previous 64 KiB of
// decompressed output as its dictionary. This is distinct from a single-shot
// LZ4 block (compress.LZ4Codec) and from LZ4 frame format — it is grounded
// on the original reference's LZ4ChainDecoder, which drives
// lz4.block.decompress(data, expected_size, dict=self.context) frame by
// frame and slides a 64 KiB window of decompressed output forward.
package lz4chain

import (
	"fmt"

	"github.com/pierrec/lz4/v4"
)

// DictWindow is the sliding dictionary size every chained frame may
// reference.
const DictWindow = 64 * 1024

// Decoder holds the growing output buffer and cursor (out_pos) that accumulates
// decompressed frames, sliding its dictionary window forward as needed.
type Decoder struct {
	buf       []byte
	outPos    int
	blockSize int
}

// NewDecoder creates an LZ4 chain decoder with no buffer allocated yet;
// Prepare must be called with the chain's frame size before the first
// Decode.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// normalizeBlockSize rounds frameSize up to the next power of two, floored
// at 1024, per §4.3.
func normalizeBlockSize(frameSize int) int {
	if frameSize < 1024 {
		frameSize = 1024
	}
	size := 1
	for size < frameSize {
		size <<= 1
	}

	return size
}

// Prepare ensures the buffer can hold one more frame of frameSize bytes. If
// out_pos+frameSize would exceed the allocated buffer, only the last 64 KiB
// of output is kept as dictionary, moved to the buffer start, and out_pos is
// reset to its length.
func (d *Decoder) Prepare(frameSize int) {
	bs := normalizeBlockSize(frameSize)
	d.blockSize = bs

	total := DictWindow + bs + 32
	if d.buf == nil {
		d.buf = make([]byte, total)
		d.outPos = 0

		return
	}

	if d.outPos+bs <= len(d.buf) {
		return
	}

	keepFrom := d.outPos - DictWindow
	if keepFrom < 0 {
		keepFrom = 0
	}
	dict := append([]byte(nil), d.buf[keepFrom:d.outPos]...)

	if len(d.buf) < len(dict)+bs+32 {
		d.buf = make([]byte, len(dict)+bs+32)
	} else {
		for i := range d.buf {
			d.buf[i] = 0
		}
	}
	copy(d.buf, dict)
	d.outPos = len(dict)
}

// Decode decompresses src, supplying the current [0:out_pos) region as the
// sliding dictionary, appends the result at out_pos, and returns the number
// of bytes produced.
func (d *Decoder) Decode(src []byte, maxOut int) (int, error) {
	if d.outPos+maxOut > len(d.buf) {
		grown := make([]byte, d.outPos+maxOut)
		copy(grown, d.buf[:d.outPos])
		d.buf = grown
	}

	dict := d.buf[:d.outPos]
	dst := d.buf[d.outPos : d.outPos+maxOut]

	n, err := lz4.UncompressBlockWithDict(src, dst, dict)
	if err != nil {
		return 0, fmt.Errorf("lz4chain: decode: %w", err)
	}

	d.outPos += n

	return n, nil
}

// Drain copies n bytes ending at out_pos+fromBackOffset into dst.
// fromBackOffset is typically <= 0 (a position already produced).
func (d *Decoder) Drain(dst []byte, fromBackOffset, n int) error {
	end := d.outPos + fromBackOffset
	start := end - n
	if start < 0 || end > len(d.buf) || n < 0 {
		return fmt.Errorf("lz4chain: drain: range [%d:%d] out of bounds (out_pos=%d, len=%d)", start, end, d.outPos, len(d.buf))
	}
	copy(dst, d.buf[start:end])

	return nil
}

// Reset zeroes the dictionary memory and returns the decoder to its initial
// state, preventing cross-decode leakage between uses (§5).
func (d *Decoder) Reset() {
	for i := range d.buf {
		d.buf[i] = 0
	}
	d.outPos = 0
}
