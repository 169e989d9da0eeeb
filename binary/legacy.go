package binary

import (
	"github.com/kristiker/keyvalues3"
	"github.com/kristiker/keyvalues3/compress"
	"github.com/kristiker/keyvalues3/errs"
	"github.com/kristiker/keyvalues3/internal/lane"
	"github.com/kristiker/keyvalues3/wire"
)

// decodeLegacy reads a "VKV\x03" document: no lane bucketing, a single
// interleaved stream mirroring the legacy writer exactly (string table,
// then a recursively type-tagged value tree, then the terminator).
func decodeLegacy(body []byte) (keyvalues3.Value, error) {
	r := lane.New(body)

	stringCount, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	strings := make([]string, stringCount)
	for i := range strings {
		s, err := r.ReadCString()
		if err != nil {
			return nil, err
		}
		strings[i] = s
	}

	value, err := readLegacyValue(r, strings)
	if err != nil {
		return nil, err
	}

	term, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if term != wire.LegacyTerminator {
		return nil, errs.NewBadSentinel(r.Tell()-4, wire.LegacyTerminator, term)
	}

	return value, nil
}

// readLegacyValue reads one type_byte [flag_byte] payload block, recursing
// for Array/Object/TypedArray.
func readLegacyValue(r *lane.Buffer, strings []string) (keyvalues3.Value, error) {
	dt, flags, err := readLegacyTypeAndFlags(r)
	if err != nil {
		return nil, err
	}

	v, err := readLegacyPayload(r, dt.Kind, strings)
	if err != nil {
		return nil, err
	}

	if flags != 0 {
		return keyvalues3.Flagged{Inner: v, Flags: flags}, nil
	}

	return v, nil
}

// readLegacyTypeAndFlags reads the type byte and, if its high bit is set,
// one flag byte holding the legacy/V1-V4 single-bit specifier (one of the
// five SpecifierBit values the legacy writer's flagToBit emits), mapped
// back to the in-memory FlagSet via the same SpecifierFromBit/specifierFlag
// path V1-V5 use — the wire bit positions do not line up 1:1 with FlagSet's
// own bit positions (e.g. SpecifierBitPanorama is 8, FlagPanorama is 4), so
// casting the raw byte straight to FlagSet would silently mis-decode.
func readLegacyTypeAndFlags(r *lane.Buffer) (decodedType, keyvalues3.FlagSet, error) {
	raw, err := r.ReadU8()
	if err != nil {
		return decodedType{}, 0, err
	}

	kindByte := raw
	var flags keyvalues3.FlagSet
	if raw&0x80 != 0 {
		kindByte = raw & 0x7F
		flagByte, err := r.ReadU8()
		if err != nil {
			return decodedType{}, 0, err
		}
		specifier, ok := wire.SpecifierFromBit(flagByte)
		if !ok {
			return decodedType{}, 0, errs.NewInvalidSpecifier(flagByte)
		}
		flags = specifierFlag(specifier)
	}

	kind := wire.Kind(kindByte)
	if !kind.Valid() {
		return decodedType{}, 0, errs.NewUnknownKind(raw)
	}

	return decodedType{Kind: kind}, flags, nil
}

func readLegacyPayload(r *lane.Buffer, kind wire.Kind, strings []string) (keyvalues3.Value, error) {
	switch kind {
	case wire.KindNull:
		return keyvalues3.Null{}, nil
	case wire.KindBoolTrue:
		return keyvalues3.Bool(true), nil
	case wire.KindBoolFalse:
		return keyvalues3.Bool(false), nil
	case wire.KindInt64Zero:
		return keyvalues3.Int64(0), nil
	case wire.KindInt64One:
		return keyvalues3.Int64(1), nil
	case wire.KindDoubleZero:
		return keyvalues3.Double(0), nil
	case wire.KindDoubleOne:
		return keyvalues3.Double(1), nil
	case wire.KindBool:
		v, err := r.ReadU8()

		return keyvalues3.Bool(v != 0), err
	case wire.KindInt64:
		v, err := r.ReadI64()

		return keyvalues3.Int64(v), err
	case wire.KindUInt64:
		v, err := r.ReadU64()

		return keyvalues3.UInt64(v), err
	case wire.KindDouble:
		v, err := r.ReadF64()

		return keyvalues3.Double(v), err
	case wire.KindInt32:
		v, err := r.ReadI32()

		return keyvalues3.Int32(v), err
	case wire.KindUInt32:
		v, err := r.ReadU32()

		return keyvalues3.UInt32(v), err
	case wire.KindString:
		return readLegacyStringRef(r, strings)
	case wire.KindBlob:
		return readLegacyBlob(r)
	case wire.KindArray:
		return readLegacyArray(r, strings)
	case wire.KindTypedArray:
		return readLegacyTypedArray(r, strings)
	case wire.KindObject:
		return readLegacyObject(r, strings)
	default:
		return nil, errs.NewUnknownKind(byte(kind))
	}
}

func readLegacyStringRef(r *lane.Buffer, strings []string) (keyvalues3.Value, error) {
	idx, err := r.ReadI32()
	if err != nil {
		return nil, err
	}
	if idx == -1 {
		return keyvalues3.String(""), nil
	}
	if idx < 0 || int(idx) >= len(strings) {
		return nil, errs.NewStringIndexOutOfRange(idx, len(strings))
	}

	return keyvalues3.String(strings[idx]), nil
}

func readLegacyBlob(r *lane.Buffer) (keyvalues3.Value, error) {
	n, err := r.ReadI32()
	if err != nil {
		return nil, err
	}
	data, err := r.Read(int(n))
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(data))
	copy(out, data)

	return keyvalues3.Blob(out), nil
}

func readLegacyArray(r *lane.Buffer, strings []string) (keyvalues3.Value, error) {
	count, err := r.ReadI32()
	if err != nil {
		return nil, err
	}
	out := make(keyvalues3.Array, count)
	for i := range out {
		v, err := readLegacyValue(r, strings)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}

	return out, nil
}

// readLegacyTypedArray reads an i32 count, the element kind byte and a
// flags byte (read and discarded), then count payloads of that element kind
// with no per-element type byte — the shape the legacy writer emits for any
// TypedArray element kind.
func readLegacyTypedArray(r *lane.Buffer, strings []string) (keyvalues3.Value, error) {
	count, err := r.ReadI32()
	if err != nil {
		return nil, err
	}
	elemKindByte, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	if _, err := r.ReadU8(); err != nil { // flags byte, always 0 for this writer
		return nil, err
	}

	elemKind := wire.Kind(elemKindByte)
	elems := make([]keyvalues3.Value, count)
	for i := range elems {
		v, err := readLegacyPayload(r, elemKind, strings)
		if err != nil {
			return nil, err
		}
		elems[i] = v
	}

	return keyvalues3.TypedArray{ElemKind: elemKind, Elems: elems}, nil
}

func readLegacyObject(r *lane.Buffer, strings []string) (keyvalues3.Value, error) {
	count, err := r.ReadI32()
	if err != nil {
		return nil, err
	}
	out := make(keyvalues3.Object, count)
	for i := range out {
		keyIdx, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		if keyIdx < 0 || int(keyIdx) >= len(strings) {
			return nil, errs.NewStringIndexOutOfRange(keyIdx, len(strings))
		}
		v, err := readLegacyValue(r, strings)
		if err != nil {
			return nil, err
		}
		out[i] = keyvalues3.ObjectMember{Key: strings[keyIdx], Value: v}
	}

	return out, nil
}

// decompressLegacyBody picks the decompression path implied by the legacy
// encoding UUID and returns the plain body bytes ready for decodeLegacy.
func decompressLegacyBody(encodingName string, rest []byte) ([]byte, error) {
	switch encodingName {
	case "binary-uncompressed":
		return rest, nil
	case "binary-block-lz4":
		if len(rest) < 4 {
			return nil, errs.NewTruncatedInput(0, 4)
		}
		size, err := lane.New(rest[:4]).ReadU32()
		if err != nil {
			return nil, err
		}
		codec := compress.NewLZ4Codec()
		body, err := codec.Decompress(rest[4:], int(size))
		if err != nil {
			return nil, errs.NewDecompressionFailure("lz4", err)
		}

		return body, nil
	case "binary-block-compressed":
		body, err := compress.NewLegacyBlockCodec().Decompress(rest, -1)
		if err != nil {
			return nil, errs.NewDecompressionFailure("legacy-block", err)
		}

		return body, nil
	default:
		return nil, errs.NewUnsupportedEncoding(encodingName)
	}
}
