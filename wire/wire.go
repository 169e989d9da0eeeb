// Package wire holds the constant tables that every KV3 binary variant
// shares: magic bytes, the kind enumeration, specifier enumerations, known
// header UUIDs, and the sentinel and compression-method bytes. Nothing in
// this package allocates or performs I/O; it exists so binary and text
// readers/writers agree on the same wire-stable numbers.
package wire

import "github.com/google/uuid"

// Magic is a 4-byte version discriminator found at the start of every
// binary KV3 document.
type Magic [4]byte

// Version identifies one of the six binary variants.
type Version uint8

const (
	VersionUnknown Version = iota
	VersionLegacy
	VersionV1
	VersionV2
	VersionV3
	VersionV4
	VersionV5
)

func (v Version) String() string {
	switch v {
	case VersionLegacy:
		return "legacy"
	case VersionV1:
		return "v1"
	case VersionV2:
		return "v2"
	case VersionV3:
		return "v3"
	case VersionV4:
		return "v4"
	case VersionV5:
		return "v5"
	default:
		return "unknown"
	}
}

// Known magics, in the exact byte order found on the wire.
var (
	MagicLegacy = Magic{'V', 'K', 'V', 0x03}
	MagicV1     = Magic{0x01, '3', 'V', 'K'}
	MagicV2     = Magic{0x02, '3', 'V', 'K'}
	MagicV3     = Magic{0x03, '3', 'V', 'K'}
	MagicV4     = Magic{0x04, '3', 'V', 'K'}
	MagicV5     = Magic{0x05, '3', 'V', 'K'}
)

var magicToVersion = map[Magic]Version{
	MagicLegacy: VersionLegacy,
	MagicV1:     VersionV1,
	MagicV2:     VersionV2,
	MagicV3:     VersionV3,
	MagicV4:     VersionV4,
	MagicV5:     VersionV5,
}

// DetectVersion maps a 4-byte prefix to a binary version. VersionUnknown is
// returned (not an error) so callers can decide whether to fall back to the
// text parser; binary.Decode is the layer that turns this into
// errs.ErrInvalidMagic.
func DetectVersion(prefix [4]byte) Version {
	if v, ok := magicToVersion[Magic(prefix)]; ok {
		return v
	}

	return VersionUnknown
}

// BlobSentinel demarcates the blob-size table from the blob stream in V2+.
const BlobSentinel uint32 = 0xFFEEDD00

// LegacyTerminator ends the value block in every legacy document.
const LegacyTerminator uint32 = 0xFFFFFFFF

// CompressionMethod is the V2+ payload compression selector.
type CompressionMethod uint32

const (
	CompressionNone CompressionMethod = 0
	CompressionLZ4  CompressionMethod = 1
	CompressionZstd CompressionMethod = 2
)

// LZ4ChainFrameSize is the mandated frame size for compression method 1.
const LZ4ChainFrameSize = 16384

// Known header UUIDs (canonical hyphenated form; WireBytes returns the
// little-endian bytes_le form actually found on the wire). The three binary
// encoding UUIDs are the canonical forms of the bytes_le literals in
// original_source/keyvalues3/binaryreader.py's KV3Encodings enum.
var (
	EncodingBinaryUncompressed    = uuid.MustParse("1b860500-f7d8-40c1-ad82-75a48267e714")
	EncodingBinaryBlockCompressed = uuid.MustParse("95791a46-95bc-4f6c-a70b-05bca1b7dfd2")
	EncodingBinaryBlockLZ4        = uuid.MustParse("6847348a-63a1-4f5c-a197-53806fd9b119")
	EncodingText                  = uuid.MustParse("e21c7f3c-8a33-41c5-9977-a76d3a32aa0d")
	FormatGeneric                 = uuid.MustParse("7412167c-06e9-4698-aff2-e63eb59037e7")
)

// EncodingUUIDToName resolves a legacy header's encoding UUID to a symbolic
// name; binary.Decode uses it to classify the legacy decompression path.
var EncodingUUIDToName = map[uuid.UUID]string{
	EncodingBinaryUncompressed:    "binary-uncompressed",
	EncodingBinaryBlockCompressed: "binary-block-compressed",
	EncodingBinaryBlockLZ4:        "binary-block-lz4",
}

// WireBytes returns the little-endian bytes_le encoding of a UUID, matching
// the byte order every KV3 binary header stores UUIDs in (this is
// Microsoft/COM-style mixed-endian, not the canonical big-endian RFC 4122
// byte order uuid.UUID.MarshalBinary produces).
func WireBytes(id uuid.UUID) [16]byte {
	var b [16]byte
	// time_low, time_mid, time_hi_and_version are little-endian; the rest
	// of the fields are byte-for-byte as in the canonical form.
	b[0], b[1], b[2], b[3] = id[3], id[2], id[1], id[0]
	b[4], b[5] = id[5], id[4]
	b[6], b[7] = id[7], id[6]
	copy(b[8:], id[8:])

	return b
}

// UUIDFromWireBytes parses the little-endian bytes_le wire form back into a
// canonical uuid.UUID, reversing WireBytes.
func UUIDFromWireBytes(b [16]byte) uuid.UUID {
	var id uuid.UUID
	id[0], id[1], id[2], id[3] = b[3], b[2], b[1], b[0]
	id[4], id[5] = b[5], b[4]
	id[6], id[7] = b[7], b[6]
	copy(id[8:], b[8:])

	return id
}
