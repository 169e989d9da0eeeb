// Package binary implements the six binary KV3 variants (C4 reader, C5
// legacy writer): magic-byte dispatch into per-version header parsing, lane
// decomposition for V1-V5, and a single interleaved stream for legacy.
package binary

import (
	"github.com/kristiker/keyvalues3"
	"github.com/kristiker/keyvalues3/errs"
	"github.com/kristiker/keyvalues3/internal/lane"
	"github.com/kristiker/keyvalues3/wire"
)

// Decode parses a complete binary KV3 document (any of the six variants)
// from data. It never falls back to the text grammar; callers wanting the
// combined policy of §7 use the text package's Decode.
func Decode(data []byte) (keyvalues3.Document, error) {
	if len(data) < 4 {
		var prefix [4]byte
		copy(prefix[:], data)

		return keyvalues3.Document{}, errs.NewInvalidMagic(prefix)
	}

	var prefix [4]byte
	copy(prefix[:], data[:4])

	version := wire.DetectVersion(prefix)
	if version == wire.VersionUnknown {
		return keyvalues3.Document{}, errs.NewInvalidMagic(prefix)
	}

	body := data[4:]

	switch version {
	case wire.VersionLegacy:
		return decodeLegacyDocument(body)
	case wire.VersionV1:
		return decodeV1Document(body)
	case wire.VersionV2:
		return decodeV2Document(body)
	case wire.VersionV3:
		return decodeV3Document(body)
	case wire.VersionV4:
		return decodeV4Document(body)
	case wire.VersionV5:
		return decodeV5Document(body)
	default:
		return keyvalues3.Document{}, errs.NewInvalidMagic(prefix)
	}
}

// decodeLegacyDocument reads the 32-byte encoding+format UUID pair, resolves
// the encoding name, decompresses the remainder if needed, and parses the
// single interleaved value stream.
func decodeLegacyDocument(body []byte) (keyvalues3.Document, error) {
	r := lane.New(body)

	encodingRaw, err := r.Read(16)
	if err != nil {
		return keyvalues3.Document{}, err
	}
	formatRaw, err := r.Read(16)
	if err != nil {
		return keyvalues3.Document{}, err
	}

	var encBytes, fmtBytes [16]byte
	copy(encBytes[:], encodingRaw)
	copy(fmtBytes[:], formatRaw)

	encodingUUID := wire.UUIDFromWireBytes(encBytes)
	formatUUID := wire.UUIDFromWireBytes(fmtBytes)

	encodingName, ok := wire.EncodingUUIDToName[encodingUUID]
	if !ok {
		return keyvalues3.Document{}, errs.NewUnsupportedEncoding(encodingUUID.String())
	}

	rest, err := r.Read(r.Remaining())
	if err != nil {
		return keyvalues3.Document{}, err
	}

	plain, err := decompressLegacyBody(encodingName, rest)
	if err != nil {
		return keyvalues3.Document{}, err
	}

	value, err := decodeLegacy(plain)
	if err != nil {
		return keyvalues3.Document{}, err
	}

	return keyvalues3.Document{
		Value:    value,
		Encoding: keyvalues3.HeaderPiece{Name: encodingName, UUID: encodingUUID},
		Format:   keyvalues3.HeaderPiece{Name: "generic", UUID: formatUUID},
	}, nil
}
