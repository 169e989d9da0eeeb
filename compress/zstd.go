package compress

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// zstdDecoderPool pools zstd decoders for reuse to eliminate allocation overhead.
// klauspost/compress/zstd is explicitly designed for decoder reuse: "The
// decoder has been designed to operate without allocations after a warmup.
// This means that you should store the decoder for best performance."
var zstdDecoderPool = sync.Pool{
	New: func() any {
		decoder, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderLowmem(false),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create zstd decoder for pool: %v", err))
		}

		return decoder
	},
}

// zstdEncoderPool pools zstd encoders, used only by tests that need to
// produce zstd-compressed fixtures; no KV3 writer emits V2+ documents.
var zstdEncoderPool = sync.Pool{
	New: func() any {
		encoder, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.SpeedDefault),
			zstd.WithEncoderCRC(false),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create zstd encoder for pool: %v", err))
		}

		return encoder
	},
}

// ZstdCodec implements compression_method == 2 for V2-V5 documents.
type ZstdCodec struct{}

var _ Codec = ZstdCodec{}

// NewZstdCodec creates a new zstd codec.
func NewZstdCodec() ZstdCodec {
	return ZstdCodec{}
}

// Compress is exercised only by test fixtures; no KV3 writer targets V2+.
func (c ZstdCodec) Compress(data []byte) ([]byte, error) {
	encoder, _ := zstdEncoderPool.Get().(*zstd.Encoder)
	defer zstdEncoderPool.Put(encoder)

	return encoder.EncodeAll(data, nil), nil
}

// Decompress decompresses a zstd frame. expectedSize, when positive, only
// sets the initial capacity of the output slice; the decompressed length is
// not checked against it.
func (c ZstdCodec) Decompress(data []byte, expectedSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	decoder, _ := zstdDecoderPool.Get().(*zstd.Decoder)
	defer zstdDecoderPool.Put(decoder)

	var dst []byte
	if expectedSize > 0 {
		dst = make([]byte, 0, expectedSize)
	}

	decompressed, err := decoder.DecodeAll(data, dst)
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}

	return decompressed, nil
}
