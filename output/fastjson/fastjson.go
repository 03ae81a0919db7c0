// Package fastjson offers a subset of JSON serialization operated on fixed length []byte with no heap allocation.
//
// Like fastmsgpack, every Encode function writes at "start" and returns the end position without bounds checking.
// Space must be reserved by the matching SizeOf function first.
package fastjson

import (
	"strconv"
	"unicode/utf8"
)

const hexDigits = "0123456789abcdef"

// SizeOfString returns the size of quoted and escaped string
func SizeOfString(str string) int {
	size := 2
	for i := 0; i < len(str); {
		c := str[i]
		if c < utf8.RuneSelf {
			size += sizeOfASCII(c)
			i++
			continue
		}
		r, n := utf8.DecodeRuneInString(str[i:])
		if r == utf8.RuneError && n == 1 {
			size += 6 // �
		} else {
			size += n
		}
		i += n
	}
	return size
}

// EncodeString writes the string quoted and escaped. Invalid UTF-8 bytes are replaced by �.
func EncodeString(buffer []byte, start int, str string) int {
	pos := start
	buffer[pos] = '"'
	pos++
	for i := 0; i < len(str); {
		c := str[i]
		if c < utf8.RuneSelf {
			pos = encodeASCII(buffer, pos, c)
			i++
			continue
		}
		r, n := utf8.DecodeRuneInString(str[i:])
		if r == utf8.RuneError && n == 1 {
			pos += copy(buffer[pos:], `�`)
		} else {
			pos += copy(buffer[pos:], str[i:i+n])
		}
		i += n
	}
	buffer[pos] = '"'
	return pos + 1
}

// SizeOfInt64String is the max size of int64 encoded by EncodeInt64String
const SizeOfInt64String = 22

// EncodeInt64String writes the number as a quoted decimal string, e.g. "1660000000123456789"
func EncodeInt64String(buffer []byte, start int, value int64) int {
	buffer[start] = '"'
	digits := strconv.AppendInt(buffer[start+1:start+1], value, 10)
	pos := start + 1 + len(digits)
	buffer[pos] = '"'
	return pos + 1
}

// EncodeRaw copies pre-encoded text, e.g. punctuations
func EncodeRaw(buffer []byte, start int, raw string) int {
	return start + copy(buffer[start:], raw)
}

func sizeOfASCII(c byte) int {
	switch {
	case c == '"' || c == '\\' || c == '\n' || c == '\r' || c == '\t':
		return 2
	case c < 0x20:
		return 6
	default:
		return 1
	}
}

func encodeASCII(buffer []byte, pos int, c byte) int {
	switch {
	case c == '"' || c == '\\':
		buffer[pos] = '\\'
		buffer[pos+1] = c
		return pos + 2
	case c == '\n':
		buffer[pos] = '\\'
		buffer[pos+1] = 'n'
		return pos + 2
	case c == '\r':
		buffer[pos] = '\\'
		buffer[pos+1] = 'r'
		return pos + 2
	case c == '\t':
		buffer[pos] = '\\'
		buffer[pos+1] = 't'
		return pos + 2
	case c < 0x20:
		pos += copy(buffer[pos:], `\u00`)
		buffer[pos] = hexDigits[c>>4]
		buffer[pos+1] = hexDigits[c&0xF]
		return pos + 2
	default:
		buffer[pos] = c
		return pos + 1
	}
}
