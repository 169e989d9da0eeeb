package endian

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetLittleEndianEngine(t *testing.T) {
	engine := GetLittleEndianEngine()
	require.Equal(t, binary.LittleEndian, engine)

	buf := engine.AppendUint32(nil, 0x01020304)
	require.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, buf)
}

func TestGetBigEndianEngine(t *testing.T) {
	engine := GetBigEndianEngine()
	require.Equal(t, binary.BigEndian, engine)

	buf := engine.AppendUint32(nil, 0x01020304)
	require.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, buf)
}

func TestCheckEndiannessMatchesNativeHelpers(t *testing.T) {
	order := CheckEndianness()
	if order == binary.LittleEndian {
		require.True(t, IsNativeLittleEndian())
		require.False(t, IsNativeBigEndian())
	} else {
		require.True(t, IsNativeBigEndian())
		require.False(t, IsNativeLittleEndian())
	}
}

func TestCompareNativeEndian(t *testing.T) {
	native := CheckEndianness()
	var nativeEngine EndianEngine
	if native == binary.LittleEndian {
		nativeEngine = GetLittleEndianEngine()
	} else {
		nativeEngine = GetBigEndianEngine()
	}
	require.True(t, CompareNativeEndian(nativeEngine))
}
