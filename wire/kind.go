package wire

// Kind is the primitive type tag carried in a type byte, wire-stable across
// every binary version (§6).
type Kind uint8

const (
	KindNull Kind = iota + 1
	KindBool
	KindInt64
	KindUInt64
	KindDouble
	KindString
	KindBlob
	KindArray
	KindObject
	KindTypedArray
	KindInt32
	KindUInt32
	KindBoolTrue
	KindBoolFalse
	KindInt64Zero
	KindInt64One
	KindDoubleZero
	KindDoubleOne
	KindFloat
	KindInt16
	KindUInt16
	KindInt8
	KindUInt8
	KindTypedArrayByteLen
	KindTypedArrayByteLen2
)

var kindNames = map[Kind]string{
	KindNull:               "Null",
	KindBool:               "Bool",
	KindInt64:               "Int64",
	KindUInt64:              "UInt64",
	KindDouble:              "Double",
	KindString:              "String",
	KindBlob:                "Blob",
	KindArray:               "Array",
	KindObject:              "Object",
	KindTypedArray:          "TypedArray",
	KindInt32:               "Int32",
	KindUInt32:              "UInt32",
	KindBoolTrue:            "BoolTrue",
	KindBoolFalse:           "BoolFalse",
	KindInt64Zero:           "Int64Zero",
	KindInt64One:            "Int64One",
	KindDoubleZero:          "DoubleZero",
	KindDoubleOne:           "DoubleOne",
	KindFloat:               "Float",
	KindInt16:               "Int16",
	KindUInt16:              "UInt16",
	KindInt8:                "Int8",
	KindUInt8:               "UInt8",
	KindTypedArrayByteLen:   "TypedArrayByteLen",
	KindTypedArrayByteLen2:  "TypedArrayByteLen2",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return "Unknown"
}

// Valid reports whether k is one of the 25 wire-defined kinds.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]

	return ok
}

// Specifier is the per-value role tag (Resource, Panorama, ...). The legacy
// through V4 wire shape stores these as a single-bit flag byte; V5 stores a
// dense enum. SpecifierFromBit and SpecifierToBit below map between the
// single-bit form and this enum.
type Specifier uint8

const (
	SpecifierNone         Specifier = 0
	SpecifierResource     Specifier = 1
	SpecifierResourceName Specifier = 2
	SpecifierPanorama     Specifier = 3
	SpecifierSoundEvent   Specifier = 4
	SpecifierSubClass     Specifier = 5
	SpecifierEntityName   Specifier = 6
	SpecifierLocalize     Specifier = 7
	SpecifierUnspecified  Specifier = 8
)

// SpecifierBit is the legacy/V1-V4 single-bit encoding: only one of these
// five bits is ever set in the wire specifier byte.
const (
	SpecifierBitResource     uint8 = 1
	SpecifierBitResourceName uint8 = 2
	SpecifierBitPanorama     uint8 = 8
	SpecifierBitSoundEvent   uint8 = 16
	SpecifierBitSubClass     uint8 = 32
)

// SpecifierFromBit maps a legacy/V1-V4 single-bit specifier byte to the
// dense Specifier enum. It returns (SpecifierNone, true) for 0 (no
// specifier), and (SpecifierNone, false) for any other value that is not
// exactly one of the five known bits.
func SpecifierFromBit(b uint8) (Specifier, bool) {
	switch b {
	case 0:
		return SpecifierNone, true
	case SpecifierBitResource:
		return SpecifierResource, true
	case SpecifierBitResourceName:
		return SpecifierResourceName, true
	case SpecifierBitPanorama:
		return SpecifierPanorama, true
	case SpecifierBitSoundEvent:
		return SpecifierSoundEvent, true
	case SpecifierBitSubClass:
		return SpecifierSubClass, true
	default:
		return SpecifierNone, false
	}
}

// SpecifierToBit is the inverse of SpecifierFromBit, used by the legacy
// writer. ok is false for any specifier that has no single-bit legacy
// representation (EntityName, Localize, Unspecified).
func SpecifierToBit(s Specifier) (bit uint8, ok bool) {
	switch s {
	case SpecifierNone:
		return 0, true
	case SpecifierResource:
		return SpecifierBitResource, true
	case SpecifierResourceName:
		return SpecifierBitResourceName, true
	case SpecifierPanorama:
		return SpecifierBitPanorama, true
	case SpecifierSoundEvent:
		return SpecifierBitSoundEvent, true
	case SpecifierSubClass:
		return SpecifierBitSubClass, true
	default:
		return 0, false
	}
}

// ValidV5 reports whether s is a legal V5 wire specifier. Values above
// SpecifierEntityName(6) "must not be persisted" per the external-interface
// table, so Localize(7) and Unspecified(8) are accepted only as the
// not-applicable default a reader may synthesize, never as a value a
// well-formed encoder emits; MaxPersistedV5 is the boundary a writer checks.
func (s Specifier) ValidV5() bool {
	return s <= SpecifierUnspecified
}

// MaxPersistedV5 is the highest specifier value a V5 writer may emit.
const MaxPersistedV5 = SpecifierEntityName
