package provider

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/tacogips/tpick/internal/debug"
)

// DefaultRetries is the number of retries after the first attempt.
const DefaultRetries = 2

// defaultRetryInterval is the initial backoff interval.
const defaultRetryInterval = 500 * time.Millisecond

// retryPolicy bounds retries of transient transport failures.
type retryPolicy struct {
	retries  int
	interval time.Duration
}

// do runs op until it succeeds, fails permanently, or retries are exhausted.
// Only ProviderNetwork errors are retried.
func (r retryPolicy) do(ctx context.Context, what string, op func() error) error {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = r.interval
	if eb.InitialInterval <= 0 {
		eb.InitialInterval = defaultRetryInterval
	}
	eb.MaxElapsedTime = 0

	retries := r.retries
	if retries < 0 {
		retries = 0
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(retries)), ctx)

	attempt := 0
	return backoff.RetryNotify(func() error {
		attempt++
		err := op()
		if err == nil {
			return nil
		}
		var pe *ProviderError
		if errors.As(err, &pe) && pe.Type == ProviderNetwork {
			return err
		}
		return backoff.Permanent(err)
	}, policy, func(err error, wait time.Duration) {
		debug.Debug("[retry] %s attempt %d failed, retrying in %s: %v", what, attempt, wait.Round(time.Millisecond), err)
	})
}

// classifyTransportError converts a client-side transport failure into a ProviderError.
// Context cancellation is returned unchanged.
func classifyTransportError(provider, url string, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return NewTimeoutError(provider, url, err)
	}
	return NewNetworkError(provider, url, err)
}
