package binary

import (
	"github.com/kristiker/keyvalues3"
	"github.com/kristiker/keyvalues3/internal/lane"
	"github.com/kristiker/keyvalues3/wire"
)

// v4Header is v2Header plus short_count and the compressed block size count,
// the two fields the spec names as V4's additions over V3.
type v4Header struct {
	v2Header
	ShortCount            uint32
	CompressedBlockSizes  uint32
}

func readV4Header(r *lane.Buffer) (v4Header, error) {
	base, err := readV2Header(r)
	if err != nil {
		return v4Header{}, err
	}
	h := v4Header{v2Header: base}
	if h.ShortCount, err = r.ReadU32(); err != nil {
		return h, err
	}
	if h.CompressedBlockSizes, err = r.ReadU32(); err != nil {
		return h, err
	}

	return h, nil
}

func decodeV4Document(body []byte) (keyvalues3.Document, error) {
	r := lane.New(body)

	formatUUID, err := readFormatUUID(r)
	if err != nil {
		return keyvalues3.Document{}, err
	}

	h, err := readV4Header(r)
	if err != nil {
		return keyvalues3.Document{}, err
	}

	mainRaw, err := r.Read(int(h.CompressedSize))
	if err != nil {
		return keyvalues3.Document{}, err
	}

	plain, err := decompressPayload(wire.CompressionMethod(h.CompressionMethod), mainRaw, int(h.UncompressedSize), "v4")
	if err != nil {
		return keyvalues3.Document{}, err
	}

	value, err := decodeV2BodyWithShort(plain, h.ByteCount, h.ShortCount, h.IntCount, h.DoubleCount, h.StringAndTypesSize, h.BlockCount, h.BlockTotalSize, wire.CompressionMethod(h.CompressionMethod), h.CompressionFrameSize, r, shapeV3V4)
	if err != nil {
		return keyvalues3.Document{}, err
	}

	return keyvalues3.Document{
		Value:    value,
		Encoding: keyvalues3.HeaderPiece{Name: "binary-uncompressed", UUID: wire.EncodingBinaryUncompressed},
		Format:   keyvalues3.HeaderPiece{Name: "generic", UUID: formatUUID},
	}, nil
}
