package base

// LogRecord is the encoding-ready form of a log, owned by a batch
type LogRecord struct {
	Timestamp int64      // Unix epoch nanoseconds
	Line      string     // Formatted log line
	Stream    *LogStream // Interned stream, equal label sets share the same pointer
}

// LogBatch is an ordered list of records from one buffer generation
type LogBatch []LogRecord
