package keyvalues3

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnwrapPeelsFlagged(t *testing.T) {
	inner, flags := Unwrap(Flagged{Inner: Int64(7), Flags: FlagResource})
	require.Equal(t, Int64(7), inner)
	require.Equal(t, FlagResource, flags)
}

func TestUnwrapPassesThroughPlainValue(t *testing.T) {
	inner, flags := Unwrap(Int64(7))
	require.Equal(t, Int64(7), inner)
	require.Equal(t, FlagSet(0), flags)
}

func TestObjectGet(t *testing.T) {
	obj := Object{
		{Key: "a", Value: Int64(1)},
		{Key: "b", Value: Int64(2)},
	}

	v, ok := obj.Get("b")
	require.True(t, ok)
	require.Equal(t, Int64(2), v)

	_, ok = obj.Get("missing")
	require.False(t, ok)
}

func TestFlagSetSingle(t *testing.T) {
	single, ok := FlagResource.Single()
	require.True(t, ok)
	require.Equal(t, FlagResource, single)

	_, ok = (FlagResource | FlagPanorama).Single()
	require.False(t, ok)

	_, ok = FlagSet(0).Single()
	require.False(t, ok)
}

func TestFlagSetString(t *testing.T) {
	require.Equal(t, "", FlagSet(0).String())
	require.Equal(t, "resource", FlagResource.String())
	require.Equal(t, "resource|subclass", (FlagResource | FlagSubClass).String())
}

func TestIsIdentifier(t *testing.T) {
	require.True(t, IsIdentifier("foo_bar"))
	require.True(t, IsIdentifier("_leading"))
	require.False(t, IsIdentifier(""))
	require.False(t, IsIdentifier("1leading"))
	require.True(t, IsIdentifier("has1digit"))
	require.False(t, IsIdentifier("has space"))
}

func TestHeaderPieceString(t *testing.T) {
	p := FormatGeneric
	require.Contains(t, p.String(), "generic:version{")
}
