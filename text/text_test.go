package text

import (
	"math"
	"testing"

	"github.com/kristiker/keyvalues3"
	"github.com/stretchr/testify/require"
)

const header = `<!-- kv3 encoding:text:version{e21c7f3c-8a33-41c5-9977-a76d3a32aa0d} format:generic:version{7412167c-06e9-4698-aff2-e63eb59037e7} -->`

func TestParseNullTrueFalse(t *testing.T) {
	cases := map[string]keyvalues3.Value{
		"null":  keyvalues3.Null{},
		"true":  keyvalues3.Bool(true),
		"false": keyvalues3.Bool(false),
	}
	for lit, want := range cases {
		doc, err := Parse(header + "\n" + lit)
		require.NoError(t, err)
		require.Equal(t, want, doc.Value)
	}
}

func TestParseNumbers(t *testing.T) {
	doc, err := Parse(header + "\n42")
	require.NoError(t, err)
	require.Equal(t, keyvalues3.Int64(42), doc.Value)

	doc, err = Parse(header + "\n-7")
	require.NoError(t, err)
	require.Equal(t, keyvalues3.Int64(-7), doc.Value)

	doc, err = Parse(header + "\n3.5")
	require.NoError(t, err)
	require.Equal(t, keyvalues3.Double(3.5), doc.Value)
}

func TestParseNanInfCaseInsensitive(t *testing.T) {
	doc, err := Parse(header + "\nNAN")
	require.NoError(t, err)
	require.True(t, math.IsNaN(float64(doc.Value.(keyvalues3.Double))))

	doc, err = Parse(header + "\ninf")
	require.NoError(t, err)
	require.True(t, math.IsInf(float64(doc.Value.(keyvalues3.Double)), 1))

	doc, err = Parse(header + "\n-Inf")
	require.NoError(t, err)
	require.True(t, math.IsInf(float64(doc.Value.(keyvalues3.Double)), -1))
}

func TestParseString(t *testing.T) {
	doc, err := Parse(header + "\n\"hello\\nworld\"")
	require.NoError(t, err)
	require.Equal(t, keyvalues3.String("hello\nworld"), doc.Value)
}

func TestParseMultilineString(t *testing.T) {
	src := header + "\n\"\"\"\nline one\nline two\"\"\""
	doc, err := Parse(src)
	require.NoError(t, err)
	inner, flags := keyvalues3.Unwrap(doc.Value)
	require.Equal(t, keyvalues3.FlagMultiLineString, flags)
	require.Equal(t, keyvalues3.String("line one\nline two"), inner)
}

func TestParseBlob(t *testing.T) {
	doc, err := Parse(header + "\n#[deadbeef]")
	require.NoError(t, err)
	require.Equal(t, keyvalues3.Blob{0xDE, 0xAD, 0xBE, 0xEF}, doc.Value)
}

func TestParseArray(t *testing.T) {
	doc, err := Parse(header + "\n[1, 2, 3]")
	require.NoError(t, err)
	require.Equal(t, keyvalues3.Array{keyvalues3.Int64(1), keyvalues3.Int64(2), keyvalues3.Int64(3)}, doc.Value)
}

func TestParseEmptyArrayAndObject(t *testing.T) {
	doc, err := Parse(header + "\n[]")
	require.NoError(t, err)
	require.Equal(t, keyvalues3.Array(nil), doc.Value)

	doc, err = Parse(header + "\n{}")
	require.NoError(t, err)
	require.Equal(t, keyvalues3.Object(nil), doc.Value)
}

func TestParseObject(t *testing.T) {
	doc, err := Parse(header + "\n{\n\tA = 1\n\tB = \"two\"\n}")
	require.NoError(t, err)
	obj := doc.Value.(keyvalues3.Object)
	v, ok := obj.Get("A")
	require.True(t, ok)
	require.Equal(t, keyvalues3.Int64(1), v)
	v, ok = obj.Get("B")
	require.True(t, ok)
	require.Equal(t, keyvalues3.String("two"), v)
}

func TestParseQuotedKey(t *testing.T) {
	doc, err := Parse(header + "\n{\n\t\"not an identifier\" = 1\n}")
	require.NoError(t, err)
	obj := doc.Value.(keyvalues3.Object)
	v, ok := obj.Get("not an identifier")
	require.True(t, ok)
	require.Equal(t, keyvalues3.Int64(1), v)
}

func TestParseFlagPrefixedValue(t *testing.T) {
	doc, err := Parse(header + "\nresource:\"models/x.vmdl\"")
	require.NoError(t, err)
	inner, flags := keyvalues3.Unwrap(doc.Value)
	require.Equal(t, keyvalues3.FlagResource, flags)
	require.Equal(t, keyvalues3.String("models/x.vmdl"), inner)
}

func TestParseFlagPrefixedValuePiped(t *testing.T) {
	doc, err := Parse(header + "\nresource|subclass:\"x\"")
	require.NoError(t, err)
	_, flags := keyvalues3.Unwrap(doc.Value)
	require.Equal(t, keyvalues3.FlagResource|keyvalues3.FlagSubClass, flags)
}

func TestParseSkipsComments(t *testing.T) {
	src := header + "\n// a line comment\n/* a block\ncomment */\n42"
	doc, err := Parse(src)
	require.NoError(t, err)
	require.Equal(t, keyvalues3.Int64(42), doc.Value)
}

func TestWriteParseRoundTrip(t *testing.T) {
	doc := keyvalues3.Document{
		Value: keyvalues3.Object{
			{Key: "name", Value: keyvalues3.String("test")},
			{Key: "values", Value: keyvalues3.Array{keyvalues3.Int64(1), keyvalues3.Int64(2)}},
			{Key: "flagged", Value: keyvalues3.Flagged{Inner: keyvalues3.String("p.vpcf"), Flags: keyvalues3.FlagResource}},
		},
		Encoding: keyvalues3.EncodingText,
		Format:   keyvalues3.FormatGeneric,
	}

	out, err := Write(doc)
	require.NoError(t, err)

	parsed, err := Parse(out)
	require.NoError(t, err)
	require.Equal(t, doc.Value, parsed.Value)
}
