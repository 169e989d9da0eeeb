package keyvalues3

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateAcceptsScalars(t *testing.T) {
	for _, v := range []Value{Null{}, Bool(true), Int64(1), UInt64(1), Double(1.5), String("x"), Blob{1, 2}} {
		require.NoError(t, Validate(v))
	}
}

func TestValidateRejectsEmptyObjectKey(t *testing.T) {
	obj := Object{{Key: "", Value: Int64(1)}}
	err := Validate(obj)
	require.Error(t, err)
}

func TestValidateRejectsDoubleFlagged(t *testing.T) {
	v := Flagged{Inner: Flagged{Inner: Int64(1), Flags: FlagResource}, Flags: FlagPanorama}
	require.Error(t, Validate(v))
}

func TestValidateRejectsSelfReferentialArray(t *testing.T) {
	arr := make(Array, 1)
	arr[0] = arr
	require.Error(t, Validate(arr))
}

func TestValidateRejectsSelfReferentialObject(t *testing.T) {
	obj := make(Object, 1)
	obj[0] = ObjectMember{Key: "self", Value: nil}
	obj[0].Value = obj
	require.Error(t, Validate(obj))
}

func TestValidateAcceptsDistinctSiblingArrays(t *testing.T) {
	a := Array{Int64(1)}
	b := Array{Int64(2)}
	require.NoError(t, Validate(Array{a, b}))
}

func TestValidateRejectsInvalidTypedArrayElemKind(t *testing.T) {
	ta := TypedArray{ElemKind: 0, Elems: []Value{Int64(1)}}
	require.Error(t, Validate(ta))
}

func TestValidateNestedObjectsAndArrays(t *testing.T) {
	doc := Object{
		{Key: "name", Value: String("hello")},
		{Key: "items", Value: Array{Int64(1), Int64(2), Double(3.5)}},
		{Key: "nested", Value: Object{{Key: "flag", Value: Flagged{Inner: Bool(true), Flags: FlagSubClass}}}},
	}
	require.NoError(t, Validate(doc))
}
