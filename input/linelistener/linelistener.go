// Package linelistener provides a TCP listener which turns incoming lines into log events
package linelistener

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/relex/gotils/channels"
	"github.com/relex/gotils/logger"
	"github.com/relex/slog-loki/base"
	"github.com/relex/slog-loki/defs"
	"github.com/relex/slog-loki/util"
)

const tcpReadBufferMax = 8 * 1024 * 1024 // Less than /proc/sys/net/ipv4/tcp_mem
const tcpReadBufferMin = 65536

var tcpLastReadBufferSize = tcpReadBufferMax // shared for all connections. No need to sync access as it's just a cached number.

// lineListener is a TCP Listener for line-based, request-only text protocol
//
// Each connection runs in its own goroutine and appends events to the sink directly. There is no request confirmation
// and the protocol is inherently unreliable.
type lineListener struct {
	logger       logger.Logger
	socket       *net.TCPListener
	address      string
	config       Config
	schema       base.LogSchema
	sourceField  base.LogFieldLocator
	levelField   base.LogFieldLocator
	messageField base.LogFieldLocator
	levels       levelClassifier
	sink         base.LogEventSink
	stopRequest  channels.Awaitable
	taskCounter  *sync.WaitGroup    // counter to track connection tasks and the listener task itself
	stopped      channels.Awaitable // stopped is signaled when both listener and all child connections have come to stop
}

// NewLineListener creates a socket listening on the configured TCP address
//
// The address may use port zero, which would cause the port to be assigned by OS. The schema must contain the fields
// "source", "level" and "message".
func NewLineListener(parentLogger logger.Logger, config Config, schema base.LogSchema, sink base.LogEventSink,
	stopRequest channels.Awaitable,
) (base.LogListener, error) {
	if err := config.VerifyConfig(); err != nil {
		return nil, err
	}
	locators := make([]base.LogFieldLocator, 0, 3)
	for _, name := range []string{"source", "level", "message"} {
		loc, err := schema.CreateFieldLocator(name)
		if err != nil {
			return nil, fmt.Errorf("schema %s: %w", schema, err)
		}
		locators = append(locators, loc)
	}

	socket, err := net.Listen("tcp", config.Address)
	if err != nil {
		return nil, err
	}
	boundAddr := socket.Addr().String()

	lsnrLogger := parentLogger.WithFields(logger.Fields{
		defs.LabelComponent: "LineListener",
		defs.LabelAddress:   boundAddr,
	})
	lsnrLogger.Info("start listening")

	// init taskCounter with 1 for the listener itself, or the WaitGroupAwaitable would be signaled immediately
	taskCounter := &sync.WaitGroup{}
	taskCounter.Add(1)

	return &lineListener{
		logger:       lsnrLogger,
		socket:       socket.(*net.TCPListener),
		address:      boundAddr,
		config:       config,
		schema:       schema,
		sourceField:  locators[0],
		levelField:   locators[1],
		messageField: locators[2],
		levels:       levelClassifier{rules: config.Levels, defaultLevel: config.DefaultLevel},
		sink:         sink,
		stopRequest:  stopRequest,
		taskCounter:  taskCounter,
		stopped:      channels.NewWaitGroupAwaitable(taskCounter),
	}, nil
}

func (lsnr *lineListener) Start() {
	go lsnr.run()
}

func (lsnr *lineListener) Address() string {
	return lsnr.address
}

func (lsnr *lineListener) Stopped() channels.Awaitable {
	return lsnr.stopped
}

func (lsnr *lineListener) run() {
	abortListener := channels.NewSignalAwaitable()
	go func() {
		channels.AnyAwaitables(lsnr.stopRequest, abortListener).Next(func() {
			if abortListener.Peek() {
				lsnr.logger.Info("abort listener")
			} else {
				lsnr.logger.Info("close listener on stop request")
			}
		}).WaitForever()
		lsnr.socket.Close()
	}()

	lsnr.logger.Info("start accept loop")
	for {
		conn, err := lsnr.socket.AcceptTCP()
		if err != nil {
			if !lsnr.stopRequest.Peek() || !util.IsNetworkClosed(err) {
				lsnr.logger.Error("accept() error: ", err)
				abortListener.Signal()
			}
			break
		}

		connLogger := lsnr.logger.WithFields(logger.Fields{
			defs.LabelPart:   "connection",
			defs.LabelClient: conn.RemoteAddr().String(),
		})
		connLogger.Info("accepted connection")
		lsnr.taskCounter.Add(1)
		go lsnr.runConnection(connLogger, conn)
	}
	lsnr.logger.Info("end accept loop")

	// the listener is done but there could still be established connections
	lsnr.taskCounter.Done()
}

func (lsnr *lineListener) runConnection(connLogger logger.Logger, conn *net.TCPConn) {
	defer lsnr.taskCounter.Done()

	connAborter := lsnr.launchConnectionCloser(connLogger, conn)
	connReader := lsnr.createConnectionReader(connLogger, conn)
	reader := newRecordReader(connReader.Read, lsnr.createHeadTester(), lsnr.config.lineBufferSize(), lsnr.createEmitter(conn))

	prevDeadline := time.Time{}
	for {
		err := reader.Read()
		if err == nil {
			// flush pending multi-line record periodically in case of continuous input
			if deadline := connReader.Deadline(); prevDeadline.IsZero() {
				prevDeadline = deadline
			} else if deadline != prevDeadline {
				reader.Flush()
				prevDeadline = deadline
			}
			continue
		}
		if util.IsNetworkTimeout(err) {
			reader.Flush()
			continue
		}
		reader.FlushAll()
		if util.IsNetworkClosed(err) && lsnr.stopRequest.Peek() {
			connLogger.Info("closed by stop request")
		} else {
			if !util.IsNetworkClosed(err) {
				connLogger.Warn("read() error: ", err)
			}
			connAborter.Signal()
		}
		break
	}
	connLogger.Info("ended")
}

func (lsnr *lineListener) createHeadTester() func(line []byte) bool {
	if lsnr.config.RecordHead.match == nil {
		return nil
	}
	return func(line []byte) bool {
		return lsnr.config.RecordHead.Match(util.StringFromBytes(line))
	}
}

func (lsnr *lineListener) createEmitter(conn *net.TCPConn) func(record []byte) {
	source := lsnr.config.Source
	if source == "" {
		source, _, _ = net.SplitHostPort(conn.RemoteAddr().String())
	}
	return func(record []byte) {
		message := util.StringFromBytes(record)
		event := lsnr.schema.NewEvent(time.Now())
		lsnr.sourceField.Set(event.Fields, source)
		lsnr.levelField.Set(event.Fields, lsnr.levels.Classify(message))
		lsnr.messageField.Set(event.Fields, message)
		event.PrepareForDeferredProcessing()
		lsnr.sink.Append(event)
	}
}

func (lsnr *lineListener) launchConnectionCloser(connLogger logger.Logger, conn *net.TCPConn) *channels.SignalAwaitable {
	abortConn := channels.NewSignalAwaitable()
	go func() {
		channels.AnyAwaitables(lsnr.stopRequest, abortConn).Next(func() {
			if abortConn.Peek() {
				connLogger.Info("abort connection")
			} else {
				connLogger.Info("close connection on stop request")
			}
		}).WaitForever()
		conn.Close()
	}()
	return abortConn
}

func (lsnr *lineListener) createConnectionReader(connLogger logger.Logger, conn *net.TCPConn) *util.DeadlineReader {
	if err := conn.SetKeepAlive(true); err != nil {
		connLogger.Warnf("error enabling keep-alive: %s", err.Error())
	}
	if sz, err := util.TrySetTCPReadBuffer(conn, tcpLastReadBufferSize, tcpReadBufferMin); err != nil {
		connLogger.Warnf("error changing buffer size: %s", err.Error())
	} else {
		connLogger.Debugf("set TCP buffer size: %d", sz)
		tcpLastReadBufferSize = sz
	}
	return util.NewDeadlineReader(conn, defs.InputFlushInterval)
}
