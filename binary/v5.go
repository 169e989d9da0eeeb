package binary

import (
	"github.com/kristiker/keyvalues3"
	"github.com/kristiker/keyvalues3/compress"
	"github.com/kristiker/keyvalues3/errs"
	"github.com/kristiker/keyvalues3/internal/lane"
	"github.com/kristiker/keyvalues3/wire"
)

// v5Header is V4's header (group 0's byte/short/int/double counts and its
// single compression_method) plus the second group the spec describes:
// buffer1's own decompressed/compressed sizes, group-1 lane counts, and the
// V5-only object count driving the member_count lane. The two reserved u32
// fields the spec lists (underscored, unnamed) are read and discarded.
type v5Header struct {
	v4Header
	Buffer0DecompressedSize uint32
	Block0CompressedSize    uint32
	Buffer1DecompressedSize uint32
	Block1CompressedSize    uint32
	ByteCount2              uint32
	ShortCount2             uint32
	IntCount2               uint32
	DoubleCount2            uint32
	ObjectCountV5           uint32
}

func readV5Header(r *lane.Buffer) (v5Header, error) {
	base, err := readV4Header(r)
	if err != nil {
		return v5Header{}, err
	}
	h := v5Header{v4Header: base}

	fields := []*uint32{
		&h.Buffer0DecompressedSize, &h.Block0CompressedSize,
		&h.Buffer1DecompressedSize, &h.Block1CompressedSize,
		&h.ByteCount2, &h.ShortCount2, &h.IntCount2, &h.DoubleCount2,
	}
	for _, f := range fields {
		if *f, err = r.ReadU32(); err != nil {
			return h, err
		}
	}
	if _, err = r.ReadU32(); err != nil { // reserved
		return h, err
	}
	if h.ObjectCountV5, err = r.ReadU32(); err != nil {
		return h, err
	}
	if _, err = r.ReadU32(); err != nil { // reserved
		return h, err
	}
	if _, err = r.ReadU32(); err != nil { // reserved
		return h, err
	}

	return h, nil
}

func decodeV5Document(body []byte) (keyvalues3.Document, error) {
	r := lane.New(body)

	formatUUID, err := readFormatUUID(r)
	if err != nil {
		return keyvalues3.Document{}, err
	}

	h, err := readV5Header(r)
	if err != nil {
		return keyvalues3.Document{}, err
	}

	block0, err := r.Read(int(h.Block0CompressedSize))
	if err != nil {
		return keyvalues3.Document{}, err
	}
	block1, err := r.Read(int(h.Block1CompressedSize))
	if err != nil {
		return keyvalues3.Document{}, err
	}

	buffer0, err := decodeV5Group(block0, int(h.Buffer0DecompressedSize), wire.CompressionMethod(h.CompressionMethod), "v5-buffer0")
	if err != nil {
		return keyvalues3.Document{}, err
	}
	buffer1, err := decodeV5Group(block1, int(h.Buffer1DecompressedSize), wire.CompressionMethod(h.CompressionMethod), "v5-buffer1")
	if err != nil {
		return keyvalues3.Document{}, err
	}

	l, err := buildV5Lanes(buffer0, buffer1, h)
	if err != nil {
		return keyvalues3.Document{}, err
	}

	value, err := readLaneValue(l, shapeV5)
	if err != nil {
		return keyvalues3.Document{}, err
	}

	return keyvalues3.Document{
		Value:    value,
		Encoding: keyvalues3.HeaderPiece{Name: "binary-uncompressed", UUID: wire.EncodingBinaryUncompressed},
		Format:   keyvalues3.HeaderPiece{Name: "generic", UUID: formatUUID},
	}, nil
}

// decodeV5Group decompresses one of V5's two independent buffers. Each
// carries its own compressed/decompressed size pair but no per-group method
// selector, so a group is treated as stored-uncompressed when its
// compressed size already equals the decompressed size, and run through
// the header's single compression_method otherwise (see DESIGN.md).
func decodeV5Group(data []byte, decompressedSize int, method wire.CompressionMethod, where string) ([]byte, error) {
	if len(data) == decompressedSize {
		return data, nil
	}

	switch method {
	case wire.CompressionNone:
		return data, nil
	case wire.CompressionLZ4:
		out, err := compress.NewLZ4Codec().Decompress(data, decompressedSize)
		if err != nil {
			return nil, errs.NewDecompressionFailure("lz4", err)
		}

		return out, nil
	case wire.CompressionZstd:
		out, err := compress.NewZstdCodec().Decompress(data, decompressedSize)
		if err != nil {
			return nil, errs.NewDecompressionFailure("zstd", err)
		}

		return out, nil
	default:
		return nil, errs.NewUnsupportedCompression(uint32(method), where)
	}
}

// buildV5Lanes splits buffer0 into the group-0 byte/short/int/double lanes
// (and reads the shared string table, a u32 count plus NUL-terminated
// strings, from the rest of buffer0 after the double lane), then splits
// buffer1 into the member_count lane, group-1 byte/short/int/double lanes,
// the types lane, and the blob size table and stream.
func buildV5Lanes(buffer0, buffer1 []byte, h v5Header) (*lanes, error) {
	r0 := lane.New(buffer0)

	byteLane, err := r0.Slice(int(h.ByteCount))
	if err != nil {
		return nil, err
	}
	if err := r0.Align(2); err != nil {
		return nil, err
	}
	shortLane, err := r0.Slice(int(h.ShortCount) * 2)
	if err != nil {
		return nil, err
	}
	if err := r0.Align(4); err != nil {
		return nil, err
	}
	intLane, err := r0.Slice(int(h.IntCount) * 4)
	if err != nil {
		return nil, err
	}
	if err := r0.Align(8); err != nil {
		return nil, err
	}
	doubleLane, err := r0.Slice(int(h.DoubleCount) * 8)
	if err != nil {
		return nil, err
	}

	stringsRegion, err := r0.Slice(r0.Remaining())
	if err != nil {
		return nil, err
	}
	strings, err := readStringTable(stringsRegion)
	if err != nil {
		return nil, err
	}

	r1 := lane.New(buffer1)
	memberCountLane, err := r1.Slice(int(h.ObjectCountV5) * 4)
	if err != nil {
		return nil, err
	}

	byteLane2, err := r1.Slice(int(h.ByteCount2))
	if err != nil {
		return nil, err
	}
	if err := r1.Align(2); err != nil {
		return nil, err
	}
	shortLane2, err := r1.Slice(int(h.ShortCount2) * 2)
	if err != nil {
		return nil, err
	}
	if err := r1.Align(4); err != nil {
		return nil, err
	}
	intLane2, err := r1.Slice(int(h.IntCount2) * 4)
	if err != nil {
		return nil, err
	}
	if err := r1.Align(8); err != nil {
		return nil, err
	}
	doubleLane2, err := r1.Slice(int(h.DoubleCount2) * 8)
	if err != nil {
		return nil, err
	}

	var blobSizes []int
	if h.BlockCount > 0 {
		blobSizes, err = readBlobSizeTable(r1, int(h.BlockCount))
		if err != nil {
			return nil, err
		}
	} else {
		sentinel, err := r1.ReadU32()
		if err != nil {
			return nil, err
		}
		if sentinel != wire.BlobSentinel {
			return nil, errs.NewBadSentinel(r1.Tell()-4, wire.BlobSentinel, sentinel)
		}
	}

	typesAndBlob, err := r1.Slice(r1.Remaining())
	if err != nil {
		return nil, err
	}

	// V5's two lane groups are merged into the single *lanes the common
	// recursive reader expects: the type stream and member counts always
	// live in group 1, group 1's own byte/short/int/double lanes are the
	// active set, and group 0's lanes stand by for values tagged
	// ArrayTypedByteLength2. Swapping to group 0 mid-walk is not
	// implemented — see DESIGN.md for why this is a known simplification.
	_, _, _, _ = byteLane, shortLane, intLane, doubleLane

	return &lanes{
		byte:        byteLane2,
		short:       shortLane2,
		int:         intLane2,
		double:      doubleLane2,
		types:       typesAndBlob,
		memberCount: memberCountLane,
		blob:        typesAndBlob,
		blobSizes:   blobSizes,
		strings:     strings,
	}, nil
}
