package rlp

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	item1 := EncodeBytes(nil, []byte("dog"))
	item2 := EncodeUint(nil, 1024)
	item3 := EncodeBytes(nil, nil)
	encoded := List(item1, item2, item3)

	decoded, n, err := DecodeItem(encoded)
	require.NoError(t, err)
	require.Equal(t, len(encoded), n)
	require.True(t, decoded.IsList)
	require.Len(t, decoded.List, 3)

	require.True(t, bytes.Equal(decoded.List[0].Bytes, []byte("dog")))
	v, err := decoded.List[1].AsUint64()
	require.NoError(t, err)
	require.Equal(t, uint64(1024), v)
	require.Empty(t, decoded.List[2].Bytes)
}

func TestEncodeUintZeroIsEmptyString(t *testing.T) {
	require.Equal(t, []byte{0x80}, EncodeUint(nil, 0))
}

func TestEncodeSingleByteSelfEncodes(t *testing.T) {
	require.Equal(t, []byte{0x01}, EncodeBytes(nil, []byte{0x01}))
}

func TestEncodeLongStringUsesLengthOfLength(t *testing.T) {
	long := bytes.Repeat([]byte{0xAA}, 60)
	encoded := EncodeBytes(nil, long)
	decoded, n, err := DecodeItem(encoded)
	require.NoError(t, err)
	require.Equal(t, len(encoded), n)
	require.True(t, bytes.Equal(decoded.Bytes, long))
}

func TestDecodeRejectsTruncatedInput(t *testing.T) {
	encoded := EncodeBytes(nil, []byte("hello world"))
	_, _, err := DecodeItem(encoded[:len(encoded)-2])
	require.ErrorIs(t, err, ErrUnexpectedEOF)
}

func TestDeterministicEncoding(t *testing.T) {
	a := List(EncodeBytes(nil, []byte("x")), EncodeUint(nil, 7))
	b := List(EncodeBytes(nil, []byte("x")), EncodeUint(nil, 7))
	require.True(t, bytes.Equal(a, b))
}
