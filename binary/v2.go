package binary

import (
	"github.com/kristiker/keyvalues3"
	"github.com/kristiker/keyvalues3/errs"
	"github.com/kristiker/keyvalues3/internal/lane"
	"github.com/kristiker/keyvalues3/lz4chain"
	"github.com/kristiker/keyvalues3/wire"
)

// v2Header is the V2/V3 header in wire order, matching the reference
// reader's read_v2/read_v3 field for field (see DESIGN.md).
type v2Header struct {
	CompressionMethod    uint32
	CompressionDictID    uint16
	CompressionFrameSize uint16
	ByteCount            uint32
	IntCount             uint32
	DoubleCount          uint32
	StringAndTypesSize   uint32
	ObjectCount          uint16
	ArrayCount           uint16
	UncompressedSize     uint32
	CompressedSize       uint32
	BlockCount           uint32
	BlockTotalSize       uint32
}

func readV2Header(r *lane.Buffer) (v2Header, error) {
	var h v2Header
	var err error

	if h.CompressionMethod, err = r.ReadU32(); err != nil {
		return h, err
	}
	if h.CompressionDictID, err = r.ReadU16(); err != nil {
		return h, err
	}
	if h.CompressionFrameSize, err = r.ReadU16(); err != nil {
		return h, err
	}
	if h.ByteCount, err = r.ReadU32(); err != nil {
		return h, err
	}
	if h.IntCount, err = r.ReadU32(); err != nil {
		return h, err
	}
	if h.DoubleCount, err = r.ReadU32(); err != nil {
		return h, err
	}
	if h.StringAndTypesSize, err = r.ReadU32(); err != nil {
		return h, err
	}
	if h.ObjectCount, err = r.ReadU16(); err != nil {
		return h, err
	}
	if h.ArrayCount, err = r.ReadU16(); err != nil {
		return h, err
	}
	if h.UncompressedSize, err = r.ReadU32(); err != nil {
		return h, err
	}
	if h.CompressedSize, err = r.ReadU32(); err != nil {
		return h, err
	}
	if h.BlockCount, err = r.ReadU32(); err != nil {
		return h, err
	}
	if h.BlockTotalSize, err = r.ReadU32(); err != nil {
		return h, err
	}

	return h, nil
}

func decodeV2Document(body []byte) (keyvalues3.Document, error) { return decodeV2LikeDocument(body, shapeLegacyV1V2, "v2") }

func decodeV3Document(body []byte) (keyvalues3.Document, error) { return decodeV2LikeDocument(body, shapeV3V4, "v3") }

// decodeV2LikeDocument covers V2 and V3, which share a header and body
// layout and differ only in the type-byte kind mask (shapeLegacyV1V2 vs
// shapeV3V4).
func decodeV2LikeDocument(body []byte, shape typeByteShape, where string) (keyvalues3.Document, error) {
	r := lane.New(body)

	formatUUID, err := readFormatUUID(r)
	if err != nil {
		return keyvalues3.Document{}, err
	}

	h, err := readV2Header(r)
	if err != nil {
		return keyvalues3.Document{}, err
	}

	mainRaw, err := r.Read(int(h.CompressedSize))
	if err != nil {
		return keyvalues3.Document{}, err
	}

	plain, err := decompressPayload(wire.CompressionMethod(h.CompressionMethod), mainRaw, int(h.UncompressedSize), where)
	if err != nil {
		return keyvalues3.Document{}, err
	}

	// The blob stream's own LZ4-chain compressed bytes (compression_method
	// == 1 only) live past mainRaw in the raw file stream, not inside plain;
	// r's cursor is already positioned there.
	value, err := decodeV2Body(plain, h, shape, r)
	if err != nil {
		return keyvalues3.Document{}, err
	}

	return keyvalues3.Document{
		Value:    value,
		Encoding: keyvalues3.HeaderPiece{Name: "binary-uncompressed", UUID: wire.EncodingBinaryUncompressed},
		Format:   keyvalues3.HeaderPiece{Name: "generic", UUID: formatUUID},
	}, nil
}

// decodeV2Body splits a decompressed V2/V3 payload into byte/int/double
// lanes, the shared string-and-types region, and the blob size table plus
// blob stream. rawRest is the raw (still-compressed) file stream positioned
// right after the main compressed block, which is where compression_method
// == 1's chained blob frames live.
func decodeV2Body(body []byte, h v2Header, shape typeByteShape, rawRest *lane.Buffer) (keyvalues3.Value, error) {
	return decodeV2BodyWithShort(body, h.ByteCount, 0, h.IntCount, h.DoubleCount, h.StringAndTypesSize, h.BlockCount, h.BlockTotalSize, wire.CompressionMethod(h.CompressionMethod), h.CompressionFrameSize, rawRest, shape)
}

func decodeV2BodyWithShort(body []byte, byteCount, shortCount, intCount, doubleCount, stringAndTypesSize, blockCount, blockTotalSize uint32, compressionMethod wire.CompressionMethod, frameSize uint16, rawRest *lane.Buffer, shape typeByteShape) (keyvalues3.Value, error) {
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

	stringAndTypes, err := r.Slice(int(stringAndTypesSize))
	if err != nil {
		return nil, err
	}
	strings, err := readStringTable(stringAndTypes)
	if err != nil {
		return nil, err
	}
	typesLane, err := stringAndTypes.Slice(stringAndTypes.Remaining())
	if err != nil {
		return nil, err
	}

	var blobSizes []int
	var blobLane *lane.Buffer
	if blockCount > 0 {
		blobSizes, err = readBlobSizeTable(r, int(blockCount))
		if err != nil {
			return nil, err
		}
	} else {
		sentinel, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		if sentinel != wire.BlobSentinel {
			return nil, errs.NewBadSentinel(r.Tell()-4, wire.BlobSentinel, sentinel)
		}
	}

	if blockCount > 0 && blockTotalSize > 0 && compressionMethod == wire.CompressionLZ4 {
		blobLane, err = decodeChainedBlobLane(r, rawRest, blobSizes, int(frameSize))
		if err != nil {
			return nil, err
		}
	} else {
		// method 0: the remaining plain bytes are the blocks concatenated
		// uncompressed. method 2: the whole stream, blocks included, was
		// already decompressed as one zstd frame by decompressPayload.
		blobLane, err = r.Slice(r.Remaining())
		if err != nil {
			return nil, err
		}
	}

	l := &lanes{
		byte:      byteLane,
		short:     shortLaneBuf,
		int:       intLane,
		double:    doubleLane,
		types:     typesLane,
		blob:      blobLane,
		strings:   strings,
		blobSizes: blobSizes,
	}

	return readLaneValue(l, shape)
}

// decodeChainedBlobLane reconstructs the blob stream for compression_method
// == 1, grounded on original_source/keyvalues3/binaryreader.py's read_v3:
// once the blob size table (decompressedSizes) and its sentinel are behind
// plain, every remaining u16 in plain is the compressed size of one LZ4
// frame, and the frames themselves are raw bytes pulled from rawRest (the
// still-compressed file stream, positioned right after the main block) —
// they are never part of plain's own decompressed payload.
func decodeChainedBlobLane(plain *lane.Buffer, rawRest *lane.Buffer, decompressedSizes []int, frameSize int) (*lane.Buffer, error) {
	numFrames := plain.Remaining() / 2
	compressedSizes := make([]int, numFrames)
	for i := range compressedSizes {
		v, err := plain.ReadU16()
		if err != nil {
			return nil, err
		}
		compressedSizes[i] = int(v)
	}

	read := func(n int) ([]byte, error) { return rawRest.Read(n) }

	blobBytes, err := lz4chain.DecodeChain(read, decompressedSizes, compressedSizes, frameSize)
	if err != nil {
		return nil, errs.NewDecompressionFailure("lz4chain", err)
	}

	return lane.New(blobBytes), nil
}
