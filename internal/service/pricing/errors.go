package pricing

import (
	"context"
	"errors"
	"io"
	"net"
	"syscall"
)

// isTransient reports whether a fetch failure should be treated as
// recoverable: cancellations, timeouts and dropped connections leave the
// offline flag and any existing cache untouched. Everything else is a hard
// network failure.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EPIPE) {
		return true
	}
	return false
}
