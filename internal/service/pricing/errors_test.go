package pricing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"syscall"
	"testing"
)

type timeoutError struct{}

func (timeoutError) Error() string   { return "request timed out" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		transient bool
	}{
		{"nil", nil, false},
		{"cancellation", context.Canceled, true},
		{"deadline", context.DeadlineExceeded, true},
		{"wrapped cancellation", fmt.Errorf("fetch market quotes: %w", context.Canceled), true},
		{"timeout", timeoutError{}, true},
		{"dropped connection", syscall.ECONNRESET, true},
		{"unexpected eof", io.ErrUnexpectedEOF, true},
		{"generic failure", errors.New("dns resolution failed"), false},
		{"http status failure", errors.New("market price api error: code=500"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isTransient(tt.err); got != tt.transient {
				t.Errorf("isTransient(%v) = %v, want %v", tt.err, got, tt.transient)
			}
		})
	}
}
