// Package call wraps outbound calls to external collaborators (language
// model, vector index) with one uniform timeout/retry discipline.
package call

import (
	"context"
	"time"
)

// Config controls how a single external call is executed.
type Config struct {
	// Timeout bounds each attempt. Zero means no per-attempt bound beyond
	// the caller's context.
	Timeout time.Duration

	// Retry reports whether a failed attempt may be retried once.
	// Nil means never retry.
	Retry func(error) bool
}

// Try runs fn under cfg.Timeout, retrying a single time when cfg.Retry
// reports the error as transient. A done parent context suppresses the
// retry so an abandoned turn never issues new work.
func Try[T any](ctx context.Context, cfg Config, fn func(context.Context) (T, error)) (T, error) {
	v, err := attempt(ctx, cfg.Timeout, fn)
	if err == nil {
		return v, nil
	}
	if cfg.Retry != nil && cfg.Retry(err) && ctx.Err() == nil {
		return attempt(ctx, cfg.Timeout, fn)
	}
	return v, err
}

func attempt[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return fn(ctx)
}
