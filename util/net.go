package util

import (
	"errors"
	"io"
	"net"
	"syscall"
	"time"
)

// IsNetworkClosed checks if the error comes from EOF or a connection closed locally
func IsNetworkClosed(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed)
}

// IsNetworkTimeout checks if the error is a deadline exceeded on a connection
func IsNetworkTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// TrySetTCPReadBuffer sets the socket read buffer, halving the size from max down to min on ENOBUFS
//
// Returns the size applied
func TrySetTCPReadBuffer(conn *net.TCPConn, max int, min int) (int, error) {
	size := max
	for {
		err := conn.SetReadBuffer(size)
		switch {
		case err == nil:
			return size, nil
		case !errors.Is(err, syscall.ENOBUFS):
			return -1, err
		case size <= min:
			return -1, err
		}
		size /= 2
		if size < min {
			size = min
		}
	}
}

// DeadlineReader reads from a connection with a read timeout that's only renewed once it's half spent
//
// Each Read may therefore time out after anything between timeout and twice of it, which saves a syscall per Read
// on busy connections.
type DeadlineReader struct {
	conn     net.Conn
	timeout  time.Duration
	deadline time.Time
}

// NewDeadlineReader creates a DeadlineReader for the connection. Zero timeout means no deadline at all.
func NewDeadlineReader(conn net.Conn, timeout time.Duration) *DeadlineReader {
	return &DeadlineReader{conn: conn, timeout: timeout}
}

// Deadline returns the read deadline currently set, which changes only when renewed
func (dr *DeadlineReader) Deadline() time.Time {
	return dr.deadline
}

func (dr *DeadlineReader) Read(p []byte) (int, error) {
	if dr.timeout > 0 {
		now := time.Now()
		if dr.deadline.Sub(now) < dr.timeout {
			next := now.Add(2 * dr.timeout)
			if err := dr.conn.SetReadDeadline(next); err != nil {
				return 0, err
			}
			dr.deadline = next
		}
	}
	return dr.conn.Read(p)
}
