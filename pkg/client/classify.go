package client

import (
	"context"
	"errors"
	"io"
	"net"
	"net/rpc"
	"strings"
	"syscall"
)

// transientMarkers are lower-case fragments of error text that mark a
// failure as a transient connection fault. Matching is a case-insensitive
// substring test against the full error string.
var transientMarkers = []string{
	"request-sent",
	"cannotsendrequest",
	"badstatusline",
	"connection reset",
	"connection refused",
	"connection aborted",
	"remotedisconnected",
	"timeout",
	"connection broken",
}

// IsTransient reports whether err looks like a connection fault that a
// reconnect and retry may cure. Cancellation of the caller's context is
// never transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if matchesMarker(err.Error()) {
		return true
	}
	return isTransportFault(err)
}

func matchesMarker(msg string) bool {
	msg = strings.ToLower(msg)
	for _, m := range transientMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

// isTransportFault catches the Go transport's own error values, whose text
// does not always contain one of the markers (a dropped keep-alive surfaces
// as io.EOF, a dead net/rpc client as rpc.ErrShutdown).
func isTransportFault(err error) bool {
	switch {
	case errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, rpc.ErrShutdown),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNABORTED),
		errors.Is(err, syscall.EPIPE):
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
