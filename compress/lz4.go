package compress

import (
	"errors"
	"fmt"
	"sync"

	"github.com/pierrec/lz4/v4"
)

// lz4CompressorPool pools lz4.Compressor instances for reuse.
// The lz4.Compressor maintains internal state that benefits from reuse.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// LZ4Codec implements the legacy encoding_binary_block_lz4 and the V1-V5
// compression_method == 1 single-shot LZ4 block format: no frame header, the
// decompressed size is carried out-of-band in the document header.
type LZ4Codec struct{}

var _ Codec = LZ4Codec{}

// NewLZ4Codec creates a new LZ4 codec.
func NewLZ4Codec() LZ4Codec {
	return LZ4Codec{}
}

// Compress compresses data with a pooled lz4.Compressor. Used only by the
// legacy writer's WithLZ4 option.
func (c LZ4Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dstSize := lz4.CompressBlockBound(len(data))
	dst := make([]byte, dstSize)

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst)
	if err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}

	return dst[:n], nil
}

// Decompress decompresses a single LZ4 block into a buffer of exactly
// expectedSize bytes, as required by KV3's header-carried size field. When
// expectedSize is unknown (<= 0), it falls back to mebo's adaptive
// buffer-doubling strategy.
func (c LZ4Codec) Decompress(data []byte, expectedSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	if expectedSize > 0 {
		dst := make([]byte, expectedSize)
		n, err := lz4.UncompressBlock(data, dst)
		if err != nil {
			return nil, fmt.Errorf("lz4 decompress: %w", err)
		}

		return dst[:n], nil
	}

	bufSize := len(data) * 4
	const maxSize = 128 * 1024 * 1024 // 128MB safety limit

	for bufSize <= maxSize {
		buf := make([]byte, bufSize)
		n, err := lz4.UncompressBlock(data, buf)
		if err != nil {
			if errors.Is(err, lz4.ErrInvalidSourceShortBuffer) && bufSize < maxSize {
				bufSize *= 2
				continue
			}

			return nil, fmt.Errorf("lz4 decompress: %w", err)
		}

		return buf[:n], nil
	}

	return nil, fmt.Errorf("lz4 decompress: %w", lz4.ErrInvalidSourceShortBuffer)
}
