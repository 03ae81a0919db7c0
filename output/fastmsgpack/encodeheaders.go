package fastmsgpack

import (
	"math"

	"github.com/vmihailenco/msgpack/v4/codes"
)

// SizeOfArrayLen returns the size of array header
func SizeOfArrayLen(arrayLen int) int {
	switch {
	case arrayLen <= 15:
		return 1
	case arrayLen <= math.MaxUint16:
		return 3
	default:
		return 5
	}
}

// EncodeArrayLen encodes the header of array in the smallest form
func EncodeArrayLen(buffer []byte, start int, arrayLen int) int {
	switch {
	case arrayLen <= 15:
		buffer[start] = byte(codes.FixedArrayLow) | byte(arrayLen)
		return start + 1
	case arrayLen <= math.MaxUint16:
		buffer[start] = byte(codes.Array16)
		return Write2(buffer, start+1, uint16(arrayLen))
	default:
		return EncodeArrayLen32(buffer, start, arrayLen)
	}
}

// EncodeArrayLen32 encodes the header of array in 5 bytes, to fill space reserved by ReserveLen32
func EncodeArrayLen32(buffer []byte, start int, arrayLen int) int {
	buffer[start] = byte(codes.Array32)
	return Write4(buffer, start+1, uint32(arrayLen))
}

// SizeOfMapLen returns the size of map header
func SizeOfMapLen(mapLen int) int {
	return SizeOfArrayLen(mapLen)
}

// EncodeMapLen encodes the header of map in the smallest form
func EncodeMapLen(buffer []byte, start int, mapLen int) int {
	switch {
	case mapLen <= 15:
		buffer[start] = byte(codes.FixedMapLow) | byte(mapLen)
		return start + 1
	case mapLen <= math.MaxUint16:
		buffer[start] = byte(codes.Map16)
		return Write2(buffer, start+1, uint16(mapLen))
	default:
		buffer[start] = byte(codes.Map32)
		return Write4(buffer, start+1, uint32(mapLen))
	}
}

// SizeOfStringLen returns the size of string header
func SizeOfStringLen(strLen int) int {
	switch {
	case strLen <= 31:
		return 1
	case strLen <= math.MaxUint8:
		return 2
	case strLen <= math.MaxUint16:
		return 3
	default:
		return 5
	}
}

// EncodeStringLen encodes the header of string in the smallest form
func EncodeStringLen(buffer []byte, start int, strLen int) int {
	switch {
	case strLen <= 31:
		buffer[start] = byte(codes.FixedStrLow) | byte(strLen)
		return start + 1
	case strLen <= math.MaxUint8:
		buffer[start] = byte(codes.Str8)
		buffer[start+1] = byte(strLen)
		return start + 2
	case strLen <= math.MaxUint16:
		buffer[start] = byte(codes.Str16)
		return Write2(buffer, start+1, uint16(strLen))
	default:
		buffer[start] = byte(codes.Str32)
		return Write4(buffer, start+1, uint32(strLen))
	}
}

// ReserveLen32 reserves space to encode the length of array later by EncodeArrayLen32
func ReserveLen32(start int) int {
	return start + 5
}
