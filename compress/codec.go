// Package compress provides the compression codecs used by KV3's binary
// variants: none, LZ4 block, and ZSTD. A document declares its method via a
// u32 header field (wire.CompressionMethod); this package maps that value
// onto a concrete Decompressor (and, for the legacy LZ4 writer, a
// Compressor).
package compress

import (
	"fmt"

	"github.com/kristiker/keyvalues3/wire"
)

// Compressor compresses a byte payload for one of KV3's binary variants.
//
// Only the legacy writer needs a live Compressor (V1 LZ4 wrapping); V2-V5
// writers are a non-goal, so most callers only ever need a Decompressor.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a payload previously compressed with the matching
// wire.CompressionMethod. Implementations must reject truncated or corrupt
// input with an error rather than return a partial result.
type Decompressor interface {
	Decompress(data []byte, expectedSize int) ([]byte, error)
}

// Codec combines both directions for a single compression method.
type Codec interface {
	Compressor
	Decompressor
}

// CreateCodec is a factory keyed by the wire compression method value.
func CreateCodec(method wire.CompressionMethod, target string) (Codec, error) {
	switch method {
	case wire.CompressionNone:
		return NewNoOpCodec(), nil
	case wire.CompressionLZ4:
		return NewLZ4Codec(), nil
	case wire.CompressionZstd:
		return NewZstdCodec(), nil
	default:
		return nil, fmt.Errorf("%s: %w: %d", target, ErrUnsupportedMethod, method)
	}
}

var builtinCodecs = map[wire.CompressionMethod]Codec{
	wire.CompressionNone: NewNoOpCodec(),
	wire.CompressionLZ4:  NewLZ4Codec(),
	wire.CompressionZstd: NewZstdCodec(),
}

// GetCodec retrieves a shared, concurrency-safe Codec for the given method.
func GetCodec(method wire.CompressionMethod) (Codec, error) {
	if codec, ok := builtinCodecs[method]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %d", ErrUnsupportedMethod, method)
}
