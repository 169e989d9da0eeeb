package compress

import "errors"

// ErrUnsupportedMethod is returned by CreateCodec/GetCodec for a compression
// method byte that is not one of the three KV3 defines (none/LZ4/zstd).
var ErrUnsupportedMethod = errors.New("compress: unsupported compression method")

// ErrTruncatedBlock is returned by LegacyBlockCodec when the input ends
// mid-mask, mid-literal, or mid-back-reference.
var ErrTruncatedBlock = errors.New("compress: truncated legacy block")

// ErrCorruptBlock is returned by LegacyBlockCodec when a back-reference
// points before the start of the output produced so far.
var ErrCorruptBlock = errors.New("compress: corrupt legacy block back-reference")
