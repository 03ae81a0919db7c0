package shared

// OutputBuffer is the destination of StreamWriter
//
// A growing buffer is reallocated when space is insufficient. A fixed buffer is marked as overflowed instead and all
// further writes are skipped.
type OutputBuffer struct {
	data     []byte
	pos      int
	fixed    bool
	overflow bool
}

// NewGrowingBuffer creates an OutputBuffer which grows as needed
func NewGrowingBuffer(sizeHint int) *OutputBuffer {
	if sizeHint < 64 {
		sizeHint = 64
	}
	return &OutputBuffer{
		data: make([]byte, sizeHint),
	}
}

// NewFixedBuffer creates an OutputBuffer over the given buffer, starting at the given position
func NewFixedBuffer(data []byte, start int) *OutputBuffer {
	return &OutputBuffer{
		data:     data,
		pos:      start,
		fixed:    true,
		overflow: start > len(data),
	}
}

// Reserve makes sure there are n bytes available at the current position
//
// Returns the underlying buffer and current position to write, or false if the fixed buffer has overflowed
func (out *OutputBuffer) Reserve(n int) ([]byte, int, bool) {
	if out.overflow {
		return nil, 0, false
	}
	if out.pos+n > len(out.data) {
		if out.fixed {
			out.overflow = true
			return nil, 0, false
		}
		newSize := len(out.data) * 2
		if newSize < out.pos+n {
			newSize = out.pos + n
		}
		newData := make([]byte, newSize)
		copy(newData, out.data[:out.pos])
		out.data = newData
	}
	return out.data, out.pos, true
}

// Commit moves the current position to the end of written data
func (out *OutputBuffer) Commit(end int) {
	out.pos = end
}

// Pos returns the current position
func (out *OutputBuffer) Pos() int {
	return out.pos
}

// Patch gives access to already written data at given position, e.g. to fill reserved length headers
//
// Returns nil if overflowed
func (out *OutputBuffer) Patch() []byte {
	if out.overflow {
		return nil
	}
	return out.data
}

// Overflowed returns true if any write has been skipped
func (out *OutputBuffer) Overflowed() bool {
	return out.overflow
}

// Bytes returns all the written data
func (out *OutputBuffer) Bytes() []byte {
	return out.data[:out.pos]
}
