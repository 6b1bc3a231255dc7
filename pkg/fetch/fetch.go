// Package fetch wraps external data calls in a per-attempt timeout and
// bounded retries with exponential backoff plus jitter. Timed-out
// attempts fail immediately; transient errors are retried.
package fetch

import (
	"context"
	"encoding/json"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/junohq/agentskills/pkg/clients"
	"github.com/junohq/agentskills/pkg/logger"
	"github.com/junohq/agentskills/pkg/redact"
	skilltypes "github.com/junohq/agentskills/pkg/types/skills"
)

// Defaults for the retry policy.
const (
	DefaultMaxRetries uint          = 3
	DefaultBaseDelay  time.Duration = 500 * time.Millisecond
	DefaultMaxDelay   time.Duration = 8 * time.Second
)

// Options tunes a single WithRetry call. Zero values fall back to the
// package defaults; Timeout is required.
type Options struct {
	// MaxRetries is the number of additional attempts after the first.
	MaxRetries uint
	// BaseDelay seeds the exponential backoff.
	BaseDelay time.Duration
	// MaxDelay caps the backoff between attempts.
	MaxDelay time.Duration
	// Timeout bounds each individual attempt.
	Timeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.MaxRetries == 0 {
		o.MaxRetries = DefaultMaxRetries
	}
	if o.BaseDelay <= 0 {
		o.BaseDelay = DefaultBaseDelay
	}
	if o.MaxDelay <= 0 {
		o.MaxDelay = DefaultMaxDelay
	}
	return o
}

// WithRetry fetches endpoint through the client with up to
// MaxRetries+1 attempts. Each attempt runs under its own timeout whose
// timer is released when the attempt ends. An aborted (timed-out)
// attempt is never retried and maps to TIMEOUT; any other failure is
// retried with exponential backoff and jitter, then maps to
// NETWORK_ERROR carrying the last error's message.
func WithRetry(ctx context.Context, client clients.Client, endpoint string, params map[string]string, opts Options) (json.RawMessage, error) {
	opts = opts.withDefaults()

	var out json.RawMessage
	err := retry.Do(
		func() error {
			attemptCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
			defer cancel()

			raw, err := client.Fetch(attemptCtx, endpoint, params)
			if err != nil {
				return err
			}
			out = raw
			return nil
		},
		retry.Attempts(opts.MaxRetries+1),
		retry.RetryIf(func(err error) bool {
			return !clients.IsAbort(err)
		}),
		retry.Delay(opts.BaseDelay),
		retry.MaxDelay(opts.MaxDelay),
		retry.MaxJitter(opts.BaseDelay/2),
		retry.DelayType(retry.CombineDelay(retry.BackOffDelay, retry.RandomDelay)),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			logger.G(ctx).WithError(err).
				WithField("endpoint", endpoint).
				WithField("attempt", n+1).
				Warn("retrying market-data fetch")
		}),
	)
	if err != nil {
		if clients.IsAbort(err) {
			return nil, skilltypes.NewSkillError(skilltypes.CodeTimeout,
				"request timed out after "+opts.Timeout.String(), true)
		}
		return nil, skilltypes.NewSkillError(skilltypes.CodeNetworkError,
			redact.Redact(err.Error()), true)
	}

	return out, nil
}
