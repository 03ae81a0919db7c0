package linelistener

import (
	"bytes"
)

// recordReader splits a byte stream into records on the same buffer without allocation
//
// A record is a single line, or in multi-line mode a head line followed by lines not recognized as head, e.g.:
//
//	2022-08-01 10:00:00 ERROR failed
//	    at com.example.Main
//	2022-08-01 10:00:01 INFO next
//
// The end of a multi-line record is only known when the next head arrives or by Flush on read timeout. Lines
// without a pending head are emitted one by one.
type recordReader struct {
	read        func(p []byte) (int, error)
	isHead      func(line []byte) bool // nil for single-line mode
	emit        func(record []byte)    // record excludes the last newline and is only valid during the call
	buffer      []byte
	recordStart int // start of the pending record
	scanned     int // end of the last complete line
	end         int // end of buffered data
}

func newRecordReader(read func(p []byte) (int, error), isHead func(line []byte) bool, bufferSize int, emit func(record []byte)) *recordReader {
	return &recordReader{
		read:   read,
		isHead: isHead,
		emit:   emit,
		buffer: make([]byte, bufferSize),
	}
}

// Read reads the next block into buffer and emits completed records
func (rr *recordReader) Read() error {
	n, err := rr.read(rr.buffer[rr.end:])
	if n > 0 {
		rr.end += n
		rr.splitLines()
	}
	return err
}

// Flush emits the pending record made of complete lines, leaving any unfinished line in buffer
func (rr *recordReader) Flush() {
	if rr.scanned > rr.recordStart {
		rr.emitRecord(rr.recordStart, rr.scanned-1)
		rr.recordStart = rr.scanned
	}
	rr.compact()
}

// FlushAll emits everything in buffer including the unfinished line, to be called at the end of input
func (rr *recordReader) FlushAll() {
	if rr.end > rr.recordStart {
		end := rr.end
		if rr.buffer[end-1] == '\n' {
			end--
		}
		rr.emitRecord(rr.recordStart, end)
	}
	rr.recordStart = 0
	rr.scanned = 0
	rr.end = 0
}

func (rr *recordReader) splitLines() {
	for {
		newline := bytes.IndexByte(rr.buffer[rr.scanned:rr.end], '\n')
		if newline == -1 {
			break
		}
		lineStart := rr.scanned
		lineEnd := lineStart + newline
		rr.scanned = lineEnd + 1

		if rr.isHead == nil {
			rr.emitRecord(lineStart, lineEnd)
			rr.recordStart = rr.scanned
			continue
		}
		isHead := rr.isHead(rr.buffer[lineStart:lineEnd])
		switch {
		case lineStart == rr.recordStart && !isHead:
			// orphan line without preceding head, or continuation after the record is flushed
			rr.emitRecord(lineStart, lineEnd)
			rr.recordStart = rr.scanned
		case lineStart > rr.recordStart && isHead:
			rr.emitRecord(rr.recordStart, lineStart-1)
			rr.recordStart = lineStart
		}
	}
	rr.compact()

	// oversized record is split at buffer size
	if rr.end == len(rr.buffer) {
		rr.FlushAll()
	}
}

func (rr *recordReader) emitRecord(start int, end int) {
	record := rr.buffer[start:end]
	if n := len(record); n > 0 && record[n-1] == '\r' {
		record = record[:n-1]
	}
	if len(record) > 0 {
		rr.emit(record)
	}
}

// compact moves the pending record to the beginning of buffer
func (rr *recordReader) compact() {
	if rr.recordStart == 0 {
		return
	}
	rr.end = copy(rr.buffer, rr.buffer[rr.recordStart:rr.end])
	rr.scanned -= rr.recordStart
	rr.recordStart = 0
}
