package binary

import (
	"math"

	"github.com/kristiker/keyvalues3"
	"github.com/kristiker/keyvalues3/errs"
	"github.com/kristiker/keyvalues3/wire"
)

// readLaneValue reads one type byte from l.types, dispatches on the decoded
// kind, pulls the payload from the matching lane, and recurses for
// Array/Object/TypedArray. shape selects how the type byte itself is
// decoded (legacy/V1/V2 vs V3/V4 vs V5); the lane layout it pulls from is
// otherwise identical across V1-V5.
func readLaneValue(l *lanes, shape typeByteShape) (keyvalues3.Value, error) {
	dt, err := readTypeByte(l.types, shape)
	if err != nil {
		return nil, err
	}

	v, err := readLanePayload(l, dt.Kind, shape)
	if err != nil {
		return nil, err
	}

	if dt.Specifier != wire.SpecifierNone {
		return keyvalues3.Flagged{Inner: v, Flags: specifierFlag(dt.Specifier)}, nil
	}

	return v, nil
}

// specifierFlag maps a decoded specifier back to the single-bit FlagSet the
// in-memory value model uses, regardless of whether the wire form was a
// legacy single-bit byte or a V5 dense enum.
func specifierFlag(s wire.Specifier) keyvalues3.FlagSet {
	switch s {
	case wire.SpecifierResource:
		return keyvalues3.FlagResource
	case wire.SpecifierResourceName:
		return keyvalues3.FlagResourceName
	case wire.SpecifierPanorama:
		return keyvalues3.FlagPanorama
	case wire.SpecifierSoundEvent:
		return keyvalues3.FlagSoundEvent
	case wire.SpecifierSubClass:
		return keyvalues3.FlagSubClass
	case wire.SpecifierEntityName:
		return keyvalues3.FlagEntityName
	case wire.SpecifierLocalize:
		return keyvalues3.FlagLocalize
	default:
		return 0
	}
}

func readLanePayload(l *lanes, kind wire.Kind, shape typeByteShape) (keyvalues3.Value, error) {
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
		v, err := l.byte.ReadU8()

		return keyvalues3.Bool(v != 0), err
	case wire.KindInt8:
		v, err := l.byte.ReadI8()

		return keyvalues3.Int8(v), err
	case wire.KindUInt8:
		v, err := l.byte.ReadU8()

		return keyvalues3.UInt8(v), err
	case wire.KindInt16:
		v, err := shortLane(l).ReadI16()

		return keyvalues3.Int16(v), err
	case wire.KindUInt16:
		v, err := shortLane(l).ReadU16()

		return keyvalues3.UInt16(v), err
	case wire.KindInt32:
		v, err := l.int.ReadI32()

		return keyvalues3.Int32(v), err
	case wire.KindUInt32:
		v, err := l.int.ReadU32()

		return keyvalues3.UInt32(v), err
	case wire.KindFloat:
		v, err := l.int.ReadF32()

		return keyvalues3.Float(v), err
	case wire.KindInt64:
		v, err := l.double.ReadI64()

		return keyvalues3.Int64(v), err
	case wire.KindUInt64:
		v, err := l.double.ReadU64()

		return keyvalues3.UInt64(v), err
	case wire.KindDouble:
		v, err := l.double.ReadF64()

		return keyvalues3.Double(v), err
	case wire.KindString:
		idx, err := l.int.ReadI32()
		if err != nil {
			return nil, err
		}
		s, err := l.stringAt(idx)

		return keyvalues3.String(s), err
	case wire.KindBlob:
		return readLaneBlob(l)
	case wire.KindArray:
		return readLaneArray(l, shape)
	case wire.KindObject:
		return readLaneObject(l, shape)
	case wire.KindTypedArray, wire.KindTypedArrayByteLen, wire.KindTypedArrayByteLen2:
		return readLaneTypedArray(l, shape, kind)
	default:
		return nil, errs.NewUnknownKind(byte(kind))
	}
}

// shortLane returns l.short if present, falling back to l.byte for V1-V3
// where no short lane exists and 16-bit kinds are not expected to occur.
func shortLane(l *lanes) *buf16 {
	if l.short != nil {
		return &buf16{l.short}
	}

	return &buf16{l.byte}
}

// buf16 narrows the two lane sources that may serve a 16-bit read to a
// common interface without duplicating lane.Buffer's method set.
type buf16 struct {
	r interface {
		ReadU16() (uint16, error)
		ReadI16() (int16, error)
	}
}

func (b *buf16) ReadU16() (uint16, error) { return b.r.ReadU16() }
func (b *buf16) ReadI16() (int16, error)  { return b.r.ReadI16() }

func readLaneBlob(l *lanes) (keyvalues3.Value, error) {
	n, err := l.nextBlobSize()
	if err != nil {
		return nil, err
	}
	data, err := l.blob.Read(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(data))
	copy(out, data)

	return keyvalues3.Blob(out), nil
}

func readLaneArray(l *lanes, shape typeByteShape) (keyvalues3.Value, error) {
	count, err := l.int.ReadI32()
	if err != nil {
		return nil, err
	}
	out := make(keyvalues3.Array, count)
	for i := range out {
		v, err := readLaneValue(l, shape)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}

	return out, nil
}

func readLaneObject(l *lanes, shape typeByteShape) (keyvalues3.Value, error) {
	count, err := objectMemberCount(l)
	if err != nil {
		return nil, err
	}
	out := make(keyvalues3.Object, count)
	for i := range out {
		keyIdx, err := l.int.ReadI32()
		if err != nil {
			return nil, err
		}
		key, err := l.stringAt(keyIdx)
		if err != nil {
			return nil, err
		}
		v, err := readLaneValue(l, shape)
		if err != nil {
			return nil, err
		}
		out[i] = keyvalues3.ObjectMember{Key: key, Value: v}
	}

	return out, nil
}

// objectMemberCount reads one object's member count: from the dedicated
// member_count_lane in V5, from the int-lane in every earlier version.
func objectMemberCount(l *lanes) (int32, error) {
	if l.memberCount != nil {
		return l.memberCount.ReadI32()
	}

	return l.int.ReadI32()
}

// readLaneTypedArray reads the element kind once, then count homogeneous
// payloads; DoubleZero/One and Int64Zero/One materialize their constant
// without consuming any lane bytes, per the recursive-read rule.
// TypedArrayByteLen/TypedArrayByteLen2 take their count as a single
// byte-lane u8 instead of an int-lane i32 count (§6 kind table).
func readLaneTypedArray(l *lanes, shape typeByteShape, outer wire.Kind) (keyvalues3.Value, error) {
	var count int32
	if outer == wire.KindTypedArrayByteLen || outer == wire.KindTypedArrayByteLen2 {
		b, err := l.byte.ReadU8()
		if err != nil {
			return nil, err
		}
		count = int32(b)
	} else {
		c, err := l.int.ReadI32()
		if err != nil {
			return nil, err
		}
		count = c
	}

	elemDT, err := readTypeByte(l.types, shape)
	if err != nil {
		return nil, err
	}

	elems := make([]keyvalues3.Value, count)
	for i := range elems {
		v, err := readLanePayload(l, elemDT.Kind, shape)
		if err != nil {
			return nil, err
		}
		elems[i] = v
	}

	return keyvalues3.TypedArray{ElemKind: elemDT.Kind, ElemSpecifier: elemDT.Specifier, Elems: elems}, nil
}

// decodeFloatBits reinterprets a uint32's bits as a float32. Nothing in this
// package calls it; KindFloat payloads are read with lane.Buffer.ReadF32.
func decodeFloatBits(bits uint32) float32 {
	return math.Float32frombits(bits)
}
