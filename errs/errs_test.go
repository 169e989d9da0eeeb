package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSentinelsDistinguishableViaIs(t *testing.T) {
	cases := []struct {
		name  string
		err   error
		want  error
		other error
	}{
		{"invalid-magic", NewInvalidMagic([4]byte{1, 2, 3, 4}), ErrInvalidMagic, ErrTruncatedInput},
		{"unsupported-encoding", NewUnsupportedEncoding("foo"), ErrUnsupportedEncoding, ErrInvalidMagic},
		{"unsupported-compression", NewUnsupportedCompression(9, "v2"), ErrUnsupportedCompression, ErrBadSentinel},
		{"truncated-input", NewTruncatedInput(4, 8), ErrTruncatedInput, ErrUnknownKind},
		{"decompression-failure", NewDecompressionFailure("lz4", errors.New("boom")), ErrDecompressionFailure, ErrInvalidValue},
		{"bad-sentinel", NewBadSentinel(0, 0xFFEEDD00, 0), ErrBadSentinel, ErrReservedFlagSet},
		{"string-index", NewStringIndexOutOfRange(5, 2), ErrStringIndexOutOfRange, ErrInvalidSpecifier},
		{"unknown-kind", NewUnknownKind(200), ErrUnknownKind, ErrInvalidValue},
		{"reserved-flag", NewReservedFlagSet(0x40), ErrReservedFlagSet, ErrUnknownKind},
		{"invalid-specifier", NewInvalidSpecifier(9), ErrInvalidSpecifier, ErrWriteSink},
		{"invalid-value", NewInvalidValue("bad"), ErrInvalidValue, ErrTruncatedInput},
		{"write-sink", NewWriteSink(errors.New("disk full")), ErrWriteSink, ErrInvalidValue},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.ErrorIs(t, c.err, c.want)
			require.NotErrorIs(t, c.err, c.other)
		})
	}
}

func TestInvalidMagicErrorCarriesBytes(t *testing.T) {
	err := NewInvalidMagic([4]byte{0xDE, 0xAD, 0xBE, 0xEF})
	var magicErr *InvalidMagicError
	require.ErrorAs(t, err, &magicErr)
	require.Equal(t, [4]byte{0xDE, 0xAD, 0xBE, 0xEF}, magicErr.Bytes)
}

func TestBadSentinelErrorCarriesValues(t *testing.T) {
	err := NewBadSentinel(12, 0xFFEEDD00, 0x1234)
	var sentErr *BadSentinelError
	require.ErrorAs(t, err, &sentErr)
	require.Equal(t, 12, sentErr.Offset)
	require.Equal(t, uint32(0xFFEEDD00), sentErr.Expected)
	require.Equal(t, uint32(0x1234), sentErr.Got)
}
