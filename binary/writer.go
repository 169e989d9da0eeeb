package binary

import (
	"math"

	"github.com/kristiker/keyvalues3"
	"github.com/kristiker/keyvalues3/compress"
	"github.com/kristiker/keyvalues3/errs"
	"github.com/kristiker/keyvalues3/internal/pool"
	"github.com/kristiker/keyvalues3/wire"
)

// WriteOption configures Write. The zero writeOptions value produces an
// uncompressed legacy document, matching the reference writer's default.
type WriteOption func(*writeOptions)

type writeOptions struct {
	lz4 bool
}

// WithLZ4 wraps the legacy body in a single LZ4 block, as the
// binary-block-lz4 encoding does.
func WithLZ4() WriteOption {
	return func(o *writeOptions) { o.lz4 = true }
}

// Write encodes v as a legacy "VKV\x03" document — the only variant this
// module writes; V1-V5 are decode-only (§4.5 scope).
func Write(v keyvalues3.Value, opts ...WriteOption) ([]byte, error) {
	if err := keyvalues3.Validate(v); err != nil {
		return nil, err
	}

	var o writeOptions
	for _, opt := range opts {
		opt(&o)
	}

	w := newLegacyWriter()
	defer w.release()

	w.writeValue(v)

	if err := w.err; err != nil {
		return nil, err
	}

	body := w.finish()

	var out []byte
	out = append(out, wire.MagicLegacy[:]...)

	encodingUUID := wire.EncodingBinaryUncompressed
	payload := body
	if o.lz4 {
		encodingUUID = wire.EncodingBinaryBlockLZ4
		compressed, err := compress.NewLZ4Codec().Compress(body)
		if err != nil {
			return nil, err
		}
		sizeHeader := uint32LE(uint32(len(body)))
		payload = append(sizeHeader, compressed...)
	}

	encBytes := wire.WireBytes(encodingUUID)
	fmtBytes := wire.WireBytes(wire.FormatGeneric)
	out = append(out, encBytes[:]...)
	out = append(out, fmtBytes[:]...)
	out = append(out, payload...)

	return out, nil
}

func uint32LE(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}

// legacyWriter accumulates the string table and value stream, deduplicating
// strings by stable insertion order (a deliberate improvement over a
// non-deduplicating reference writer — see DESIGN.md). The value block is
// built in a pooled, explicit-growth ByteBuffer rather than a plain slice,
// since a document's nested-container stream can grow arbitrarily and
// benefits from the same reuse the pool was built for.
type legacyWriter struct {
	stringIndex map[string]int32
	strings     []string
	buf         *pool.ByteBuffer
	err         error
}

func newLegacyWriter() *legacyWriter {
	return &legacyWriter{
		stringIndex: make(map[string]int32),
		buf:         pool.GetValueBlockBuffer(),
	}
}

// release returns the value-block buffer to the pool. Callers must not use
// w after calling release.
func (w *legacyWriter) release() {
	pool.PutValueBlockBuffer(w.buf)
}

func (w *legacyWriter) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

func (w *legacyWriter) internString(s string) int32 {
	if s == "" {
		return -1
	}
	if idx, ok := w.stringIndex[s]; ok {
		return idx
	}
	idx := int32(len(w.strings))
	w.strings = append(w.strings, s)
	w.stringIndex[s] = idx

	return idx
}

func (w *legacyWriter) putU8(b byte)    { w.buf.MustWrite([]byte{b}) }
func (w *legacyWriter) putU32(v uint32) { w.buf.MustWrite(uint32LE(v)) }
func (w *legacyWriter) putI32(v int32)  { w.putU32(uint32(v)) }
func (w *legacyWriter) putU64(v uint64) {
	w.buf.MustWrite([]byte{
		byte(v), byte(v>>8), byte(v>>16), byte(v>>24),
		byte(v>>32), byte(v>>40), byte(v>>48), byte(v>>56),
	})
}
func (w *legacyWriter) putI64(v int64) { w.putU64(uint64(v)) }

func (w *legacyWriter) putCString(s string) {
	w.buf.MustWrite([]byte(s))
	w.buf.MustWrite([]byte{0})
}

// writeValue writes one type_byte [flag_byte] payload block, peeling off a
// Flagged wrapper first since the flag byte belongs to the type byte, not
// the payload.
func (w *legacyWriter) writeValue(v keyvalues3.Value) {
	inner, flags := keyvalues3.Unwrap(v)

	single, ok := flags.Single()
	if flags != 0 && !ok {
		w.fail(errs.NewInvalidValue("legacy writer requires at most one flag per value"))

		return
	}

	kind := w.canonicalKind(inner)

	if single == 0 {
		w.putU8(byte(kind))
	} else {
		bit, ok := flagToBit(single)
		if !ok {
			w.fail(errs.NewInvalidValue("flag has no legacy single-bit representation"))

			return
		}
		w.putU8(byte(kind) | 0x80)
		w.putU8(bit)
	}

	w.writePayload(kind, inner)
}

// flagToBit maps the general FlagSet back to the legacy single-bit
// specifier byte, rejecting MultiLineString (a text-only flag with no
// binary representation).
func flagToBit(f keyvalues3.FlagSet) (byte, bool) {
	switch f {
	case keyvalues3.FlagResource:
		return wire.SpecifierBitResource, true
	case keyvalues3.FlagResourceName:
		return wire.SpecifierBitResourceName, true
	case keyvalues3.FlagPanorama:
		return wire.SpecifierBitPanorama, true
	case keyvalues3.FlagSoundEvent:
		return wire.SpecifierBitSoundEvent, true
	case keyvalues3.FlagSubClass:
		return wire.SpecifierBitSubClass, true
	default:
		return 0, false
	}
}

// canonicalKind applies the compact-encoding rule: integer/double 0 and 1
// collapse to the dedicated constant kinds, bools collapse to
// BoolTrue/BoolFalse, with no payload bytes in either case.
func (w *legacyWriter) canonicalKind(v keyvalues3.Value) wire.Kind {
	switch val := v.(type) {
	case keyvalues3.Null:
		return wire.KindNull
	case keyvalues3.Bool:
		if val {
			return wire.KindBoolTrue
		}

		return wire.KindBoolFalse
	case keyvalues3.Int64:
		switch val {
		case 0:
			return wire.KindInt64Zero
		case 1:
			return wire.KindInt64One
		default:
			return wire.KindInt64
		}
	case keyvalues3.Double:
		switch val {
		case 0:
			return wire.KindDoubleZero
		case 1:
			return wire.KindDoubleOne
		default:
			return wire.KindDouble
		}
	case keyvalues3.UInt64:
		return wire.KindUInt64
	case keyvalues3.Int32:
		return wire.KindInt32
	case keyvalues3.UInt32:
		return wire.KindUInt32
	case keyvalues3.String:
		return wire.KindString
	case keyvalues3.Blob:
		return wire.KindBlob
	case keyvalues3.Array:
		return wire.KindArray
	case keyvalues3.TypedArray:
		return wire.KindTypedArray
	case keyvalues3.Object:
		return wire.KindObject
	default:
		w.fail(errs.NewInvalidValue("unsupported value type for legacy writer"))

		return wire.KindNull
	}
}

func (w *legacyWriter) writePayload(kind wire.Kind, v keyvalues3.Value) {
	switch kind {
	case wire.KindNull, wire.KindBoolTrue, wire.KindBoolFalse,
		wire.KindInt64Zero, wire.KindInt64One, wire.KindDoubleZero, wire.KindDoubleOne:
		return
	case wire.KindInt64:
		w.putI64(int64(v.(keyvalues3.Int64)))
	case wire.KindUInt64:
		w.putU64(uint64(v.(keyvalues3.UInt64)))
	case wire.KindDouble:
		w.putU64(math.Float64bits(float64(v.(keyvalues3.Double))))
	case wire.KindInt32:
		w.putI32(int32(v.(keyvalues3.Int32)))
	case wire.KindUInt32:
		w.putU32(uint32(v.(keyvalues3.UInt32)))
	case wire.KindString:
		w.putI32(w.internString(string(v.(keyvalues3.String))))
	case wire.KindBlob:
		b := v.(keyvalues3.Blob)
		w.putI32(int32(len(b)))
		w.buf.MustWrite(b)
	case wire.KindArray:
		arr := v.(keyvalues3.Array)
		w.putI32(int32(len(arr)))
		for _, e := range arr {
			w.writeValue(e)
		}
	case wire.KindTypedArray:
		ta := v.(keyvalues3.TypedArray)
		w.putI32(int32(len(ta.Elems)))
		w.putU8(byte(ta.ElemKind))
		w.putU8(0)
		for _, e := range ta.Elems {
			w.writePayload(ta.ElemKind, e)
		}
	case wire.KindObject:
		obj := v.(keyvalues3.Object)
		w.putI32(int32(len(obj)))
		for _, m := range obj {
			w.putI32(w.internString(m.Key))
			w.writeValue(m.Value)
		}
	default:
		w.fail(errs.NewInvalidValue("unsupported kind in legacy payload"))
	}
}

// finish assembles the final body: string count + table, a copy of the
// pooled value stream (the pool reclaims w.buf once Write returns), and the
// terminator.
func (w *legacyWriter) finish() []byte {
	strTable := pool.GetStringTableBuffer()
	defer pool.PutStringTableBuffer(strTable)

	strTable.MustWrite(uint32LE(uint32(len(w.strings))))
	for _, s := range w.strings {
		strTable.MustWrite([]byte(s))
		strTable.MustWrite([]byte{0})
	}

	out := make([]byte, 0, strTable.Len()+w.buf.Len()+4)
	out = append(out, strTable.Bytes()...)
	out = append(out, w.buf.Bytes()...)
	out = append(out, uint32LE(wire.LegacyTerminator)...)

	return out
}
