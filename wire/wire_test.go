package wire

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestDetectVersion(t *testing.T) {
	cases := []struct {
		name   string
		magic  Magic
		expect Version
	}{
		{"legacy", MagicLegacy, VersionLegacy},
		{"v1", MagicV1, VersionV1},
		{"v2", MagicV2, VersionV2},
		{"v3", MagicV3, VersionV3},
		{"v4", MagicV4, VersionV4},
		{"v5", MagicV5, VersionV5},
		{"unknown", Magic{0, 0, 0, 0}, VersionUnknown},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.expect, DetectVersion([4]byte(c.magic)))
		})
	}
}

func TestWireBytesRoundTrip(t *testing.T) {
	for name, id := range map[string]uuid.UUID{
		"encoding-uncompressed": EncodingBinaryUncompressed,
		"encoding-block-lz4":    EncodingBinaryBlockLZ4,
		"format-generic":        FormatGeneric,
		"random":                uuid.MustParse("12345678-9abc-def0-1234-56789abcdef0"),
	} {
		t.Run(name, func(t *testing.T) {
			wire := WireBytes(id)
			back := UUIDFromWireBytes(wire)
			require.Equal(t, id, back)
		})
	}
}

func TestWireBytesMixedEndian(t *testing.T) {
	got := WireBytes(EncodingBinaryUncompressed)
	want := [16]byte{0x00, 0x05, 0x86, 0x1b, 0xd8, 0xf7, 0xc1, 0x40, 0xad, 0x82, 0x75, 0xa4, 0x82, 0x67, 0xe7, 0x14}
	require.Equal(t, want, got)
}

func TestKindValid(t *testing.T) {
	require.True(t, KindNull.Valid())
	require.True(t, KindTypedArrayByteLen2.Valid())
	require.False(t, Kind(0).Valid())
	require.False(t, Kind(200).Valid())
}

func TestSpecifierBitRoundTrip(t *testing.T) {
	for _, s := range []Specifier{SpecifierResource, SpecifierResourceName, SpecifierPanorama, SpecifierSoundEvent, SpecifierSubClass} {
		bit, ok := SpecifierToBit(s)
		require.True(t, ok)
		back, ok := SpecifierFromBit(bit)
		require.True(t, ok)
		require.Equal(t, s, back)
	}
}

func TestSpecifierToBitRejectsUnrepresentable(t *testing.T) {
	for _, s := range []Specifier{SpecifierEntityName, SpecifierLocalize, SpecifierUnspecified} {
		_, ok := SpecifierToBit(s)
		require.False(t, ok)
	}
}
