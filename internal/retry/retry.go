// Package retry implements exponential backoff shared by the search,
// fetch and embedding stages.
package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"net"
	"time"

	"github.com/custodia-labs/scout/internal/logger"
)

// Default backoff parameters.
const (
	DefaultInitialBackoff = time.Second
	DefaultMaxBackoff     = 8 * time.Second
	DefaultMultiplier     = 2.0
)

// Policy defines retry behaviour with exponential backoff.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// InitialBackoff is the wait before the second attempt.
	InitialBackoff time.Duration

	// MaxBackoff caps a single wait. Zero means no cap.
	MaxBackoff time.Duration

	// Multiplier grows the wait after each attempt.
	Multiplier float64

	// Jitter is the random spread applied to each wait, as a fraction (0.25 = ±25%).
	Jitter float64

	// RetryableStatusCodes are HTTP statuses worth another attempt.
	RetryableStatusCodes map[int]bool
}

// NewPolicy returns a policy making maxRetries+1 attempts with the default
// 1s doubling backoff.
func NewPolicy(maxRetries int, statuses ...int) Policy {
	if maxRetries < 0 {
		maxRetries = 0
	}
	codes := make(map[int]bool, len(statuses))
	for _, s := range statuses {
		codes[s] = true
	}
	return Policy{
		MaxAttempts:          maxRetries + 1,
		InitialBackoff:       DefaultInitialBackoff,
		MaxBackoff:           DefaultMaxBackoff,
		Multiplier:           DefaultMultiplier,
		Jitter:               0.25,
		RetryableStatusCodes: codes,
	}
}

// IsRetryableStatus reports whether status is in the policy's retryable set.
func (p Policy) IsRetryableStatus(status int) bool {
	return p.RetryableStatusCodes[status]
}

// Backoff returns the wait after the given zero-based attempt.
func (p Policy) Backoff(attempt int) time.Duration {
	mult := p.Multiplier
	if mult <= 0 {
		mult = DefaultMultiplier
	}
	backoff := float64(p.InitialBackoff) * math.Pow(mult, float64(attempt))
	if p.MaxBackoff > 0 && backoff > float64(p.MaxBackoff) {
		backoff = float64(p.MaxBackoff)
	}

	if p.Jitter > 0 {
		backoff += backoff * p.Jitter * (rand.Float64()*2 - 1) //nolint:gosec // jitter does not need crypto randomness
	}
	if backoff < 0 {
		backoff = float64(p.InitialBackoff)
	}

	return time.Duration(backoff)
}

func (p Policy) attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

// Do calls fn until it succeeds, returns an error retryable rejects,
// or attempts run out. The last error is returned.
func (p Policy) Do(ctx context.Context, retryable func(error) bool, fn func(attempt int) error) error {
	var lastErr error
	for attempt := 0; attempt < p.attempts(); attempt++ {
		lastErr = fn(attempt)
		if lastErr == nil {
			return nil
		}
		if !retryable(lastErr) {
			logger.Debug("attempt %d: non-retryable error: %v", attempt+1, lastErr)
			return lastErr
		}
		if attempt == p.attempts()-1 {
			break
		}
		wait := p.Backoff(attempt)
		logger.Debug("attempt %d failed (%v), retrying in %s", attempt+1, lastErr, wait)
		if err := Sleep(ctx, wait); err != nil {
			return err
		}
	}

	logger.Debug("all %d attempts exhausted: %v", p.attempts(), lastErr)
	return lastErr
}

// Execute calls fn, which reports an HTTP status and a transport error,
// retrying retryable statuses and retryable errors. It returns the last
// status and error observed.
func (p Policy) Execute(ctx context.Context, fn func(attempt int) (int, error)) (int, error) {
	var (
		status  int
		lastErr error
	)
	for attempt := 0; attempt < p.attempts(); attempt++ {
		status, lastErr = fn(attempt)
		if lastErr == nil && !p.IsRetryableStatus(status) {
			return status, nil
		}
		if lastErr != nil && !IsTransient(lastErr) {
			return status, lastErr
		}
		if attempt == p.attempts()-1 {
			break
		}
		wait := p.Backoff(attempt)
		logger.Debug("attempt %d: status=%d err=%v, retrying in %s", attempt+1, status, lastErr, wait)
		if err := Sleep(ctx, wait); err != nil {
			return status, err
		}
	}

	return status, lastErr
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// IsTransient reports whether err looks like a network-level failure:
// timeouts, refused or reset connections, DNS errors.
// Context cancellation is never transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

// IsTimeout reports whether err is a timeout of any kind.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
