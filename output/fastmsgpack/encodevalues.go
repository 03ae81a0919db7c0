package fastmsgpack

import (
	"github.com/vmihailenco/msgpack/v4/codes"
)

// SizeOfString returns the full size of encoded string
func SizeOfString(str string) int {
	return SizeOfStringLen(len(str)) + len(str)
}

// EncodeString encodes string with the smallest header
func EncodeString(buffer []byte, start int, str string) int {
	pos := EncodeStringLen(buffer, start, len(str))
	pos += copy(buffer[pos:], str)
	return pos
}

// SizeOfInt64 is the size of int64 encoded by EncodeInt64
const SizeOfInt64 = 9

// EncodeInt64 encodes a 64 bits int in fixed size
func EncodeInt64(buffer []byte, start int, value int64) int {
	buffer[start] = byte(codes.Int64)
	return Write8(buffer, start+1, uint64(value))
}
