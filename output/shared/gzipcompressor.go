package shared

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/gzip"
	"github.com/relex/slog-loki/util"
)

// GzipCompressor compresses payloads by pooled gzip writers
type GzipCompressor struct {
	writerPool *util.Pool[*gzip.Writer]
}

// NewGzipCompressor creates a GzipCompressor of given level, e.g. gzip.BestSpeed
func NewGzipCompressor(level int) (*GzipCompressor, error) {
	if _, err := gzip.NewWriterLevel(nil, level); err != nil {
		return nil, fmt.Errorf("invalid gzip level %d: %w", level, err)
	}
	return &GzipCompressor{
		writerPool: util.NewPool(func() *gzip.Writer {
			w, _ := gzip.NewWriterLevel(nil, level)
			return w
		}),
	}, nil
}

// Compress compresses the data into a new buffer
func (comp *GzipCompressor) Compress(data []byte) ([]byte, error) {
	output := bytes.NewBuffer(make([]byte, 0, len(data)/4+64))
	writer := comp.writerPool.Get()
	defer comp.writerPool.Put(writer)
	writer.Reset(output)
	if _, err := writer.Write(data); err != nil {
		return nil, fmt.Errorf("gzip write error: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("gzip close error: %w", err)
	}
	return output.Bytes(), nil
}
