package linelistener

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordReaderHelper struct {
	reader *recordReader
	input  []string
	output []string
}

func newRecordReaderHelper(isHead func(line []byte) bool, bufferSize int) *recordReaderHelper {
	h := &recordReaderHelper{}
	read := func(p []byte) (int, error) {
		if len(h.input) == 0 {
			return 0, io.EOF
		}
		n := copy(p, h.input[0])
		h.input[0] = h.input[0][n:]
		if h.input[0] == "" {
			h.input = h.input[1:]
		}
		return n, nil
	}
	h.reader = newRecordReader(read, isHead, bufferSize, func(record []byte) {
		h.output = append(h.output, string(record))
	})
	return h
}

func (h *recordReaderHelper) feed(blocks ...string) {
	h.input = append(h.input, blocks...)
	for len(h.input) > 0 {
		_ = h.reader.Read()
	}
}

func (h *recordReaderHelper) take() []string {
	out := h.output
	h.output = nil
	return out
}

func TestRecordReaderSingleLine(t *testing.T) {
	h := newRecordReaderHelper(nil, 64)
	h.feed("first\nsec", "ond\r\n\nthird")
	assert.Equal(t, []string{"first", "second"}, h.take())

	h.reader.Flush()
	assert.Empty(t, h.take())

	h.feed(" line\nfourth")
	assert.Equal(t, []string{"third line"}, h.take())
	h.reader.FlushAll()
	assert.Equal(t, []string{"fourth"}, h.take())
}

func TestRecordReaderMultiLine(t *testing.T) {
	isHead := func(line []byte) bool {
		return len(line) > 0 && line[0] == '>'
	}
	h := newRecordReaderHelper(isHead, 64)
	h.feed("> A\n  at 1\n  at 2\n> B\n")
	assert.Equal(t, []string{"> A\n  at 1\n  at 2"}, h.take())

	h.feed("  at 3\n> C")
	assert.Empty(t, h.take())

	h.feed("\n  at 4\n")
	assert.Equal(t, []string{"> B\n  at 3"}, h.take())
	h.reader.Flush()
	assert.Equal(t, []string{"> C\n  at 4"}, h.take())

	h.feed("orphan1\norphan2\n> D\n")
	assert.Equal(t, []string{"orphan1", "orphan2"}, h.take())
	h.reader.FlushAll()
	assert.Equal(t, []string{"> D"}, h.take())
}

func TestRecordReaderOrphanLines(t *testing.T) {
	isHead := func(line []byte) bool {
		return len(line) > 0 && line[0] == '>'
	}
	h := newRecordReaderHelper(isHead, 64)
	h.feed("  at 1\n  at 2\n  at 3\n> A\n  at 4\n")
	assert.Equal(t, []string{"  at 1", "  at 2", "  at 3"}, h.take())

	// continuation after a flushed record has no head to join
	h.reader.Flush()
	assert.Equal(t, []string{"> A\n  at 4"}, h.take())
	h.feed("  at 5\n  at 6\n")
	assert.Equal(t, []string{"  at 5", "  at 6"}, h.take())
}

func TestRecordReaderOversized(t *testing.T) {
	h := newRecordReaderHelper(nil, 16)
	h.feed(strings.Repeat("x", 20) + "\nshort\n")
	assert.Equal(t, []string{strings.Repeat("x", 16), "xxxx", "short"}, h.take())
}
