package protocol

import (
	"io"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/0xkowalskidev/mcstatus/mcerr"
)

// maxVarIntBytes is the widest a 32-bit varint is ever allowed to encode to.
// A 6th continuation byte means the value can't fit in 32 bits.
const maxVarIntBytes = 5

func readU8(r io.Reader) (byte, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, mcerr.Wrap(mcerr.UnexpectedEOF, err, "read u8")
	}
	return b[0], nil
}

func readU16BE(r io.Reader) (uint16, error) {
	var b [2]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, mcerr.Wrap(mcerr.UnexpectedEOF, err, "read u16be")
	}
	return uint16(b[0])<<8 | uint16(b[1]), nil
}

func readU16LE(r io.Reader) (uint16, error) {
	var b [2]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, mcerr.Wrap(mcerr.UnexpectedEOF, err, "read u16le")
	}
	return uint16(b[1])<<8 | uint16(b[0]), nil
}

func readI32BE(r io.Reader) (int32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, mcerr.Wrap(mcerr.UnexpectedEOF, err, "read i32be")
	}
	v := uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
	return int32(v), nil
}

func readI64BE(r io.Reader) (int64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, mcerr.Wrap(mcerr.UnexpectedEOF, err, "read i64be")
	}
	var v uint64
	for _, x := range b {
		v = v<<8 | uint64(x)
	}
	return int64(v), nil
}

func readI64LE(r io.Reader) (int64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, mcerr.Wrap(mcerr.UnexpectedEOF, err, "read i64le")
	}
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return int64(v), nil
}

// readVarInt decodes a 7-bit continuation-encoded integer. Each byte
// contributes its low 7 bits; the high bit set means "more follows".
func readVarInt(r io.Reader) (int32, error) {
	var result int32
	var numRead uint
	for {
		b, err := readU8(r)
		if err != nil {
			return 0, err
		}
		result |= int32(b&0x7F) << (7 * numRead)
		numRead++
		if b&0x80 == 0 {
			break
		}
		if numRead >= maxVarIntBytes {
			return 0, mcerr.New(mcerr.VarIntTooLarge, "varint exceeds 5 bytes")
		}
	}
	return result, nil
}

// writeVarInt encodes value as a 7-bit continuation-encoded integer,
// never producing more than 5 bytes for a 32-bit value.
func writeVarInt(value int32) []byte {
	uv := uint32(value)
	var out []byte
	for {
		b := byte(uv & 0x7F)
		uv >>= 7
		if uv != 0 {
			b |= 0x80
		}
		out = append(out, b)
		if uv == 0 {
			return out
		}
	}
}

// readStringUTF8VarInt reads a varint-length-prefixed UTF-8 string.
func readStringUTF8VarInt(r io.Reader) (string, error) {
	n, err := readVarInt(r)
	if err != nil {
		return "", err
	}
	if n < 0 {
		return "", mcerr.New(mcerr.ProtocolMismatch, "negative string length")
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", mcerr.Wrap(mcerr.UnexpectedEOF, err, "read utf8 string body")
	}
	if !isValidUTF8(buf) {
		return "", mcerr.New(mcerr.InvalidUTF8, "invalid utf-8 string")
	}
	return string(buf), nil
}

// readStringUTF16BEU16 reads a u16-BE character-count prefix followed by
// that many UTF-16BE characters.
func readStringUTF16BEU16(r io.Reader) (string, error) {
	n, err := readU16BE(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, int(n)*2)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", mcerr.Wrap(mcerr.UnexpectedEOF, err, "read utf16be string body")
	}
	return decodeUTF16BE(buf)
}

func decodeUTF16BE(buf []byte) (string, error) {
	if len(buf)%2 != 0 {
		return "", mcerr.New(mcerr.InvalidUTF8, "odd-length utf-16be buffer")
	}
	units := make([]uint16, len(buf)/2)
	for i := range units {
		units[i] = uint16(buf[2*i])<<8 | uint16(buf[2*i+1])
	}
	return string(utf16.Decode(units)), nil
}

func encodeUTF16BE(s string) []byte {
	units := utf16.Encode([]rune(s))
	out := make([]byte, len(units)*2)
	for i, u := range units {
		out[2*i] = byte(u >> 8)
		out[2*i+1] = byte(u)
	}
	return out
}

func isValidUTF8(b []byte) bool {
	return utf8.Valid(b)
}

// readNullTerminatedASCII reads bytes up to and including a 0x00 terminator,
// returning the bytes preceding it.
func readNullTerminatedASCII(r io.Reader) (string, error) {
	var out []byte
	for {
		b, err := readU8(r)
		if err != nil {
			return "", err
		}
		if b == 0x00 {
			return string(out), nil
		}
		out = append(out, b)
	}
}

// expectBytes reads exactly len(magic) bytes and compares them.
func expectBytes(r io.Reader, magic []byte) error {
	buf := make([]byte, len(magic))
	if _, err := io.ReadFull(r, buf); err != nil {
		return mcerr.Wrap(mcerr.UnexpectedEOF, err, "read magic")
	}
	for i := range magic {
		if buf[i] != magic[i] {
			return mcerr.New(mcerr.ProtocolMismatch, "magic bytes mismatch")
		}
	}
	return nil
}
