package util

import (
	"unsafe"
)

// StringFromBytes makes a string sharing the contents of buf without copying
//
// The string changes if buf is modified later. It must not be kept beyond the lifetime of buf.
func StringFromBytes(buf []byte) string {
	return unsafe.String(unsafe.SliceData(buf), len(buf))
}

// CloneStrings copies the list and the contents of all strings into one new backing array
//
// The result doesn't reference any of the original backing bytes, e.g. network buffers to be reused
func CloneStrings(list []string) []string {
	total := 0
	for _, str := range list {
		total += len(str)
	}
	backing := make([]byte, 0, total)
	for _, str := range list {
		backing = append(backing, str...)
	}

	result := make([]string, len(list))
	offset := 0
	for i, str := range list {
		result[i] = StringFromBytes(backing[offset : offset+len(str)])
		offset += len(str)
	}
	return result
}
