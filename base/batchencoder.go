package base

import (
	"errors"
	"fmt"
)

// ErrBufferOverflow is returned when the given buffer is too small to hold the encoded batch
var ErrBufferOverflow = errors.New("encoding buffer overflow")

// BatchEncoder serializes batches into stream-grouped payloads
//
// Implementations must be safe for concurrent use; each call should use its own writer state.
type BatchEncoder interface {
	// ContentType returns the content type of encoded payload
	ContentType() string

	// Encode encodes the batch into a newly allocated buffer
	Encode(batch LogBatch) []byte

	// EncodeInto encodes the batch into buffer starting at start, returns the numbers of bytes written
	//
	// The output is byte-identical to Encode(). ErrBufferOverflow is returned if the buffer is too small.
	EncodeInto(batch LogBatch, buffer []byte, start int) (int, error)
}

// EncodedBatch is the payload of a batch ready to send
type EncodedBatch struct {
	Data        []byte
	ContentType string
}

// LabelMode defines how records are grouped into streams
type LabelMode string

// LabelMode values
const (
	LabelModeStatic  LabelMode = "static"  // all records share the labels of the first record
	LabelModeDynamic LabelMode = "dynamic" // contiguous runs of records with the same stream
)

// Verify checks the value
func (mode LabelMode) Verify() error {
	switch mode {
	case LabelModeStatic, LabelModeDynamic:
		return nil
	default:
		return fmt.Errorf("unsupported label mode '%s'", mode)
	}
}

// OutputStrategy defines how the encoding output buffer is obtained
type OutputStrategy string

// OutputStrategy values
const (
	OutputAllocate OutputStrategy = "allocate" // new buffer for each batch
	OutputReuse    OutputStrategy = "reuse"    // pooled buffer, returned after the batch is sent
)

// Verify checks the value
func (strategy OutputStrategy) Verify() error {
	switch strategy {
	case OutputAllocate, OutputReuse:
		return nil
	default:
		return fmt.Errorf("unsupported output strategy '%s'", strategy)
	}
}
