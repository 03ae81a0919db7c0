package util

import (
	"time"

	"golang.org/x/sys/unix"
)

// TimeFromTimeval creates a Time structure from unix.Timeval
func TimeFromTimeval(val unix.Timeval) time.Time { // xx:inline
	s, ns := val.Unix()
	return time.Unix(s, ns)
}
