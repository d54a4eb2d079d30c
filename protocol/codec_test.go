package protocol

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xkowalskidev/mcstatus/mcerr"
)

func TestVarIntRoundTrip(t *testing.T) {
	cases := []int32{0, 1, 127, 128, 255, 300, 2097151, 1 << 30, -1, -2147483648}
	for _, x := range cases {
		encoded := writeVarInt(x)
		got, err := readVarInt(bytes.NewReader(encoded))
		require.NoError(t, err)
		assert.Equal(t, x, got, "round trip for %d", x)
	}
}

func TestVarIntWidth(t *testing.T) {
	assert.Len(t, writeVarInt(0), 1)
	assert.Len(t, writeVarInt(127), 1)
	for _, x := range []int32{0, 1, 127, 128, 2097151, 1 << 30, -1} {
		n := len(writeVarInt(x))
		assert.GreaterOrEqual(t, n, 1)
		assert.LessOrEqual(t, n, 5)
	}
}

func TestVarIntTooLarge(t *testing.T) {
	// Six continuation bytes: 5 bytes with the high bit set, then a 6th.
	input := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x7F}
	_, err := readVarInt(bytes.NewReader(input))
	require.Error(t, err)
	assert.True(t, mcerr.Is(err, mcerr.VarIntTooLarge))
}

func TestVarIntUnexpectedEOF(t *testing.T) {
	input := []byte{0x80}
	_, err := readVarInt(bytes.NewReader(input))
	require.Error(t, err)
	assert.True(t, mcerr.Is(err, mcerr.UnexpectedEOF))
}

func TestUTF16BERoundTrip(t *testing.T) {
	cases := []string{"", "a", "hello world", "§1multiébyte", "日本語"}
	for _, s := range cases {
		encoded := encodeUTF16BE(s)
		got, err := decodeUTF16BE(encoded)
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
}

func TestReadStringUTF8VarIntInvalidUTF8(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(writeVarInt(1))
	buf.WriteByte(0xFF) // invalid utf-8 byte
	_, err := readStringUTF8VarInt(&buf)
	require.Error(t, err)
	assert.True(t, mcerr.Is(err, mcerr.InvalidUTF8))
}

func TestReadNullTerminatedASCII(t *testing.T) {
	buf := bytes.NewReader([]byte("hello\x00trailing"))
	s, err := readNullTerminatedASCII(buf)
	require.NoError(t, err)
	assert.Equal(t, "hello", s)
}

func TestExpectBytesMismatch(t *testing.T) {
	buf := bytes.NewReader([]byte{0x01, 0x02})
	err := expectBytes(buf, []byte{0x01, 0x03})
	require.Error(t, err)
	assert.True(t, mcerr.Is(err, mcerr.ProtocolMismatch))
}
