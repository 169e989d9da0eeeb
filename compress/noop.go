package compress

// NoOpCodec implements compression_method == 0: the lane/blob payload is
// already plain bytes.
type NoOpCodec struct{}

var _ Codec = NoOpCodec{}

// NewNoOpCodec creates a no-operation codec.
func NewNoOpCodec() NoOpCodec {
	return NoOpCodec{}
}

// Compress returns data unchanged; the returned slice aliases the input.
func (c NoOpCodec) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns data unchanged; the returned slice aliases the input.
func (c NoOpCodec) Decompress(data []byte, expectedSize int) ([]byte, error) {
	return data, nil
}
