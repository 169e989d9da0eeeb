package binary

import (
	"github.com/kristiker/keyvalues3/errs"
	"github.com/kristiker/keyvalues3/internal/lane"
	"github.com/kristiker/keyvalues3/wire"
)

// typeByteShape selects how a type byte's kind/specifier bits are packed,
// which differs across the three wire generations (§4.4).
type typeByteShape uint8

const (
	shapeLegacyV1V2 typeByteShape = iota // high bit + mask 0x7F
	shapeV3V4                           // high bit + mask 0x3F
	shapeV5                             // signed interpretation + explicit enum
)

// decodedType is one parsed type byte: the primitive kind plus whatever
// specifier (if any) followed it.
type decodedType struct {
	Kind      wire.Kind
	Specifier wire.Specifier
}

// readTypeByte reads one type byte (and, if flagged, one specifier byte)
// from r using the given shape, returning the decoded kind/specifier.
func readTypeByte(r *lane.Buffer, shape typeByteShape) (decodedType, error) {
	raw, err := r.ReadU8()
	if err != nil {
		return decodedType{}, err
	}

	switch shape {
	case shapeLegacyV1V2:
		return decodeLegacyShape(r, raw, 0x7F)
	case shapeV3V4:
		return decodeLegacyShape(r, raw, 0x3F)
	case shapeV5:
		return decodeV5Shape(r, raw)
	default:
		return decodedType{}, errs.NewUnknownKind(raw)
	}
}

func decodeLegacyShape(r *lane.Buffer, raw byte, mask byte) (decodedType, error) {
	kindByte := raw
	var specifier wire.Specifier

	if raw&0x80 != 0 {
		kindByte = raw & mask
		specByte, err := r.ReadU8()
		if err != nil {
			return decodedType{}, err
		}
		spec, ok := wire.SpecifierFromBit(specByte)
		if !ok {
			return decodedType{}, errs.NewInvalidSpecifier(specByte)
		}
		specifier = spec
	}

	kind := wire.Kind(kindByte)
	if !kind.Valid() {
		return decodedType{}, errs.NewUnknownKind(raw)
	}

	return decodedType{Kind: kind, Specifier: specifier}, nil
}

func decodeV5Shape(r *lane.Buffer, raw byte) (decodedType, error) {
	// Signed interpretation: the high bit set means negative, i.e. a
	// specifier byte follows. 0x40 is reserved and must not be set.
	if raw&0x40 != 0 {
		return decodedType{}, errs.NewReservedFlagSet(raw)
	}

	if int8(raw) >= 0 {
		kind := wire.Kind(raw)
		if !kind.Valid() {
			return decodedType{}, errs.NewUnknownKind(raw)
		}

		return decodedType{Kind: kind}, nil
	}

	kindByte := raw & 0x3F
	kind := wire.Kind(kindByte)
	if !kind.Valid() {
		return decodedType{}, errs.NewUnknownKind(raw)
	}

	specByte, err := r.ReadU8()
	if err != nil {
		return decodedType{}, err
	}
	if specByte > byte(wire.SpecifierUnspecified) {
		return decodedType{}, errs.NewInvalidSpecifier(specByte)
	}

	return decodedType{Kind: kind, Specifier: wire.Specifier(specByte)}, nil
}

// writeTypeByte packs a kind/flag pair using the legacy/V1 shape (the only
// shape the writer emits): high bit set iff flags != 0, one extra flag byte
// in that case.
func writeTypeByte(kind wire.Kind, flags byte) []byte {
	if flags == 0 {
		return []byte{byte(kind)}
	}

	return []byte{byte(kind) | 0x80, flags}
}
