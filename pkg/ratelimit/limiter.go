package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter paces outgoing requests to the archive and asset hosts
type Limiter interface {
	// Wait blocks until a request may be issued or ctx is done
	Wait(ctx context.Context) error
}

// TokenBucket spreads requests evenly over a minute with a burst of one,
// so consecutive requests are at least 60s/rpm apart
type TokenBucket struct {
	limiter *rate.Limiter
}

// NewTokenBucket creates a limiter allowing requestsPerMinute requests per minute.
// A non-positive rate yields an unlimited limiter.
func NewTokenBucket(requestsPerMinute int) Limiter {
	if requestsPerMinute <= 0 {
		return Unlimited()
	}
	interval := time.Minute / time.Duration(requestsPerMinute)
	return &TokenBucket{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait blocks until a token is available
func (tb *TokenBucket) Wait(ctx context.Context) error {
	return tb.limiter.Wait(ctx)
}

type unlimited struct{}

// Unlimited returns a limiter that never delays
func Unlimited() Limiter {
	return unlimited{}
}

func (unlimited) Wait(ctx context.Context) error {
	return ctx.Err()
}
