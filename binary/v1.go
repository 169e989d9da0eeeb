package binary

import (
	"github.com/google/uuid"
	"github.com/kristiker/keyvalues3"
	"github.com/kristiker/keyvalues3/compress"
	"github.com/kristiker/keyvalues3/errs"
	"github.com/kristiker/keyvalues3/internal/lane"
	"github.com/kristiker/keyvalues3/wire"
)

// decodeV1Document reads the format UUID, then the V1 payload header
// (compression_method, byte_count, int_count, double_count,
// uncompressed_size), decompresses if needed, and splits the resulting body
// into byte/int/double/string/types lanes.
func decodeV1Document(body []byte) (keyvalues3.Document, error) {
	r := lane.New(body)

	formatUUID, err := readFormatUUID(r)
	if err != nil {
		return keyvalues3.Document{}, err
	}

	method, err := r.ReadU32()
	if err != nil {
		return keyvalues3.Document{}, err
	}
	byteCount, err := r.ReadU32()
	if err != nil {
		return keyvalues3.Document{}, err
	}
	intCount, err := r.ReadU32()
	if err != nil {
		return keyvalues3.Document{}, err
	}
	doubleCount, err := r.ReadU32()
	if err != nil {
		return keyvalues3.Document{}, err
	}
	uncompressedSize, err := r.ReadU32()
	if err != nil {
		return keyvalues3.Document{}, err
	}

	rest, err := r.Read(r.Remaining())
	if err != nil {
		return keyvalues3.Document{}, err
	}

	plain, err := decompressPayload(wire.CompressionMethod(method), rest, int(uncompressedSize), "v1")
	if err != nil {
		return keyvalues3.Document{}, err
	}

	value, err := decodeLaneBody(plain, byteCount, 0, intCount, doubleCount, shapeLegacyV1V2)
	if err != nil {
		return keyvalues3.Document{}, err
	}

	return keyvalues3.Document{
		Value:    value,
		Encoding: keyvalues3.HeaderPiece{Name: "binary-uncompressed", UUID: wire.EncodingBinaryUncompressed},
		Format:   keyvalues3.HeaderPiece{Name: "generic", UUID: formatUUID},
	}, nil
}

// readFormatUUID reads the 16-byte wire-form UUID every V1-V5 header opens
// with (the encoding is implied by the magic, so only one UUID is stored).
func readFormatUUID(r *lane.Buffer) (uuid.UUID, error) {
	raw, err := r.Read(16)
	if err != nil {
		return uuid.UUID{}, err
	}
	var b [16]byte
	copy(b[:], raw)

	return wire.UUIDFromWireBytes(b), nil
}

// decompressPayload applies the V1+ compression_method selector to a raw
// body: 0 returns it unchanged, 2 runs it through compress.ZstdCodec, and 1
// treats it as one single-shot LZ4 block (compress.LZ4Codec). V2+'s blob stream is
// compressed differently when compression_method == 1 — a chain of
// dictionary-linked frames decoded by decodeChainedBlobLane in v2.go,
// which uses lz4chain instead of this function.
func decompressPayload(method wire.CompressionMethod, data []byte, expectedSize int, where string) ([]byte, error) {
	switch method {
	case wire.CompressionNone:
		return data, nil
	case wire.CompressionLZ4:
		codec := compress.NewLZ4Codec()
		out, err := codec.Decompress(data, expectedSize)
		if err != nil {
			return nil, errs.NewDecompressionFailure("lz4", err)
		}

		return out, nil
	case wire.CompressionZstd:
		codec := compress.NewZstdCodec()
		out, err := codec.Decompress(data, expectedSize)
		if err != nil {
			return nil, errs.NewDecompressionFailure("zstd", err)
		}

		return out, nil
	default:
		return nil, errs.NewUnsupportedCompression(uint32(method), where)
	}
}

// decodeLaneBody splits a V1-layout body into byte/int/double lanes (plus
// the shared string table and types lane that follow), builds the lanes
// struct, and reads the single root value from it. shortCount is always 0
// before V4; the V2+ layouts, including V4's short lane, are split by
// decodeV2BodyWithShort in v2.go instead.
func decodeLaneBody(body []byte, byteCount, shortCount, intCount, doubleCount uint32, shape typeByteShape) (keyvalues3.Value, error) {
	r := lane.New(body)

	byteLane, err := r.Slice(int(byteCount))
	if err != nil {
		return nil, err
	}

	var shortLaneBuf *lane.Buffer
	if shortCount > 0 {
		if err := r.Align(2); err != nil {
			return nil, err
		}
		shortLaneBuf, err = r.Slice(int(shortCount) * 2)
		if err != nil {
			return nil, err
		}
	}
	if err := r.Align(4); err != nil {
		return nil, err
	}

	intLane, err := r.Slice(int(intCount) * 4)
	if err != nil {
		return nil, err
	}
	if err := r.Align(8); err != nil {
		return nil, err
	}

	doubleLane, err := r.Slice(int(doubleCount) * 8)
	if err != nil {
		return nil, err
	}

	strings, err := readStringTable(r)
	if err != nil {
		return nil, err
	}

	typesLane, err := r.Slice(r.Remaining())
	if err != nil {
		return nil, err
	}

	l := &lanes{
		byte:    byteLane,
		short:   shortLaneBuf,
		int:     intLane,
		double:  doubleLane,
		types:   typesLane,
		strings: strings,
	}

	return readLaneValue(l, shape)
}
