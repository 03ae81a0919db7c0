package linelistener

import (
	"net"
	"testing"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/relex/gotils/channels"
	"github.com/relex/gotils/logger"
	"github.com/relex/slog-loki/base"
	"github.com/relex/slog-loki/defs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSchema = base.MustNewLogSchema([]string{"source", "level", "message", "extra"})

type channelSink chan *base.LogEvent

func (sink channelSink) Append(event *base.LogEvent) {
	sink <- event
}

func readEvent(ch <-chan *base.LogEvent) base.LogFields {
	select {
	case event := <-ch:
		return event.Fields
	case <-time.After(defs.TestReadTimeout):
		return base.LogFields{"<timeout>"}
	}
}

func newTestConfig() Config {
	errorPattern, err := compileGlobPattern([]string{"*ERROR*"})
	if err != nil {
		panic(err)
	}
	return Config{
		Address:      "localhost:0",
		DefaultLevel: "INFO",
		Levels:       []LevelRule{{Level: "ERROR", Patterns: errorPattern}},
	}
}

func TestLineListener(t *testing.T) {
	const line1 = "2022-08-01 10:00:00 started"
	const line2 = "2022-08-01 10:00:01 ERROR failed"
	const line3 = "2022-08-01 10:00:02 end"

	rlogger := logger.WithField("test", t.Name())
	stop := channels.NewSignalAwaitable()
	sink := make(channelSink, 100)
	lsnr, err := NewLineListener(rlogger, newTestConfig(), testSchema, sink, stop)
	require.NoError(t, err)
	assert.NotEqual(t, "localhost:0", lsnr.Address())
	lsnr.Start()

	conn, err := net.Dial("tcp", lsnr.Address())
	require.NoError(t, err)
	_, err = conn.Write([]byte(line1 + "\n" + line2 + "\n"))
	assert.NoError(t, err)
	assert.Equal(t, base.LogFields{"127.0.0.1", "INFO", line1, ""}, readEvent(sink))
	assert.Equal(t, base.LogFields{"127.0.0.1", "ERROR", line2, ""}, readEvent(sink))

	_, err = conn.Write([]byte(line3)) // no newline end - close should force flushing
	assert.NoError(t, err)
	assert.NoError(t, conn.Close())
	assert.Equal(t, base.LogFields{"127.0.0.1", "INFO", line3, ""}, readEvent(sink))

	stop.Signal()
	assert.True(t, lsnr.Stopped().Wait(defs.TestReadTimeout))
}

func TestLineListenerMultiLine(t *testing.T) {
	config := newTestConfig()
	config.Source = "app1"
	head, err := compileGlobPattern([]string{"20*"})
	require.NoError(t, err)
	config.RecordHead = head

	rlogger := logger.WithField("test", t.Name())
	stop := channels.NewSignalAwaitable()
	sink := make(channelSink, 100)
	lsnr, err := NewLineListener(rlogger, config, testSchema, sink, stop)
	require.NoError(t, err)
	lsnr.Start()

	conn, err := net.Dial("tcp", lsnr.Address())
	require.NoError(t, err)
	_, err = conn.Write([]byte("2022-08-01 ERROR failed\n  at Main\n  at Run\n2022-08-01 next\n"))
	assert.NoError(t, err)
	assert.Equal(t, base.LogFields{"app1", "ERROR", "2022-08-01 ERROR failed\n  at Main\n  at Run", ""}, readEvent(sink))
	// the last record is flushed on read timeout
	assert.Equal(t, base.LogFields{"app1", "INFO", "2022-08-01 next", ""}, readEvent(sink))

	stop.Signal()
	assert.True(t, lsnr.Stopped().Wait(defs.TestReadTimeout))
	assert.NoError(t, conn.Close())
}

func TestLineListenerErrors(t *testing.T) {
	rlogger := logger.WithField("test", t.Name())
	stop := channels.NewSignalAwaitable()
	schema := base.MustNewLogSchema([]string{"source", "message"})
	_, err := NewLineListener(rlogger, newTestConfig(), schema, make(channelSink), stop)
	assert.EqualError(t, err, "schema [source, message]: field 'level' is not defined in schema")

	config := newTestConfig()
	config.Address = ""
	_, err = NewLineListener(rlogger, config, testSchema, make(channelSink), stop)
	assert.EqualError(t, err, ".address is empty")

	config = newTestConfig()
	config.MaxLineSize = 2 * datasize.GB
	_, err = NewLineListener(rlogger, config, testSchema, make(channelSink), stop)
	assert.ErrorContains(t, err, ".maxLineSize must not exceed 1GB")
}
