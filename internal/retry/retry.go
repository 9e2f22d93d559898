// Package retry runs an operation again when it fails with a transient
// network error, waiting longer before each attempt.
package retry

import (
	"context"
	"errors"
	"io"
	"net"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/julianstephens/dayglow/internal/constants"
	"github.com/julianstephens/dayglow/internal/logger"
)

// Options configures retry behavior.
type Options struct {
	Retries  int           // attempts after the first call
	Delay    time.Duration // base wait between attempts
	Backoff  bool          // double the wait on every attempt
	Classify func(error) bool

	// Sleep waits for d or until ctx is done. Tests replace it to observe waits.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultOptions returns the retry policy used for backend calls.
func DefaultOptions() Options {
	return Options{
		Retries: constants.DefaultRetries,
		Delay:   constants.DefaultRetryDelay,
		Backoff: true,
	}
}

// Do calls fn until it succeeds, fails with an error Classify rejects, or the
// retries are used up. The last error is returned unwrapped.
func Do[T any](ctx context.Context, opts Options, fn func(ctx context.Context) (T, error)) (T, error) {
	classify := opts.Classify
	if classify == nil {
		classify = IsNetworkError
	}
	sleep := opts.Sleep
	if sleep == nil {
		sleep = wait
	}

	var zero T
	for attempt := 0; ; attempt++ {
		val, err := fn(ctx)
		if err == nil {
			if attempt > 0 {
				logger.Debug("Retry succeeded", "attempt", attempt+1)
			}
			return val, nil
		}

		if !classify(err) || attempt >= opts.Retries {
			return zero, err
		}

		d := Delay(opts, attempt)
		logger.Debug("Network error, retrying", "attempt", attempt+1, "wait", d, "error", err)
		if serr := sleep(ctx, d); serr != nil {
			return zero, serr
		}
	}
}

// Run is Do for operations without a result.
func Run(ctx context.Context, opts Options, fn func(ctx context.Context) error) error {
	_, err := Do(ctx, opts, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// MaxDelay caps a single backoff wait.
const MaxDelay = 5 * time.Minute

// Delay returns the wait before the retry that follows the given zero-based
// attempt, never more than MaxDelay when backing off.
func Delay(opts Options, attempt int) time.Duration {
	if !opts.Backoff || opts.Delay <= 0 {
		return opts.Delay
	}
	// Checking before shifting keeps the multiplication from overflowing.
	if attempt >= 62 || opts.Delay > MaxDelay>>attempt {
		return MaxDelay
	}
	return opts.Delay << attempt
}

func wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// networkMarkers are lower-cased fragments seen in transport failure messages.
var networkMarkers = []string{
	"failed to fetch",
	"networkerror",
	"network request failed",
	"network error",
	"econnrefused",
	"enotfound",
	"etimedout",
	"econnreset",
	"connection refused",
	"connection reset",
	"no such host",
	"timeout",
}

// IsNetworkError reports whether err looks like a transient connectivity failure.
func IsNetworkError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}

	var marked interface{ NetworkError() bool }
	if errors.As(err, &marked) {
		return marked.NetworkError()
	}

	// url.Error wraps every client failure, including bad schemes.
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return IsNetworkError(urlErr.Err)
	}
	// A bare context deadline satisfies net.Error but is not a transport failure.
	var netErr net.Error
	if errors.As(err, &netErr) && !errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	for _, errno := range []syscall.Errno{
		syscall.ECONNREFUSED,
		syscall.ECONNRESET,
		syscall.ETIMEDOUT,
		syscall.EHOSTUNREACH,
		syscall.ENETUNREACH,
	} {
		if errors.Is(err, errno) {
			return true
		}
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range networkMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
