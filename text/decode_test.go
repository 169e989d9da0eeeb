package text

import (
	"testing"

	"github.com/kristiker/keyvalues3"
	"github.com/kristiker/keyvalues3/binary"
	"github.com/kristiker/keyvalues3/errs"
	"github.com/stretchr/testify/require"
)

func TestDecodeTriesBinaryFirst(t *testing.T) {
	data, err := binary.Write(keyvalues3.Int64(42))
	require.NoError(t, err)

	doc, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, keyvalues3.Int64(42), doc.Value)
}

func TestDecodeFallsBackToTextOnInvalidMagic(t *testing.T) {
	src := header + "\n42"

	doc, err := Decode([]byte(src))
	require.NoError(t, err)
	require.Equal(t, keyvalues3.Int64(42), doc.Value)
}

func TestDecodeSurfacesOtherBinaryErrorsUnmodified(t *testing.T) {
	data, err := binary.Write(keyvalues3.String("truncate me"))
	require.NoError(t, err)

	_, err = Decode(data[:len(data)-2])
	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrTruncatedInput)
}
