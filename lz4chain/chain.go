package lz4chain

import "fmt"

// DecodeChain reproduces decompress_lz4_chain: it walks decompressedSizes in
// order, and for each one keeps pulling compressed blocks off the FRONT of
// compressedSizes (a flat, shared queue interleaved across all decompressed
// block boundaries) and decoding them with a single running Decoder, until
// that decompressed block's quota of bytes has been produced. read is called
// once per compressed block to pull exactly that many bytes from the
// underlying compressed stream; it must return io.EOF-equivalent behavior by
// erroring if fewer bytes are available.
//
// This mirrors the original's block_size_tmp bookkeeping: a single
// decompressed "block" in decompressedSizes may itself be assembled from
// several compressed frames of at most frameSize bytes each.
func DecodeChain(read func(n int) ([]byte, error), decompressedSizes []int, compressedSizes []int, frameSize int) ([]byte, error) {
	dec := NewDecoder()
	out := make([]byte, 0, sum(decompressedSizes))

	queue := compressedSizes
	for _, blockSize := range decompressedSizes {
		remaining := blockSize
		for remaining > 0 {
			if len(queue) == 0 {
				return nil, fmt.Errorf("lz4chain: compressed block size queue exhausted with %d bytes still owed", remaining)
			}
			compressedSize := queue[0]
			queue = queue[1:]

			compressed, err := read(compressedSize)
			if err != nil {
				return nil, fmt.Errorf("lz4chain: reading compressed block: %w", err)
			}

			dec.Prepare(frameSize)
			n, err := dec.Decode(compressed, frameSize)
			if err != nil {
				return nil, err
			}

			actual := frameSize
			if remaining < actual {
				actual = remaining
			}
			if actual > n {
				actual = n
			}

			var frame []byte
			if n > 0 {
				frame = make([]byte, n)
				if err := dec.Drain(frame, 0, n); err != nil {
					return nil, err
				}
			}

			out = append(out, frame[:actual]...)
			remaining -= actual
		}
	}

	return out, nil
}

func sum(xs []int) int {
	total := 0
	for _, x := range xs {
		total += x
	}

	return total
}
