package fastmsgpack

// Write2 encodes big-endian uint of 2 bytes
func Write2(buffer []byte, start int, n uint16) int {
	buffer[start] = byte(n >> 8)
	buffer[start+1] = byte(n)
	return start + 2
}

// Write4 encodes big-endian uint of 4 bytes
func Write4(buffer []byte, start int, n uint32) int {
	buffer[start] = byte(n >> 24)
	buffer[start+1] = byte(n >> 16)
	buffer[start+2] = byte(n >> 8)
	buffer[start+3] = byte(n)
	return start + 4
}

// Write8 encodes big-endian uint of 8 bytes
func Write8(buffer []byte, start int, n uint64) int {
	for shift := 56; shift >= 0; shift -= 8 {
		buffer[start] = byte(n >> shift)
		start++
	}
	return start
}
