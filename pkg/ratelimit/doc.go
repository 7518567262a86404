// Package ratelimit paces requests against the third-party archive.
//
// The harvester is strictly sequential, so pacing only needs to space
// consecutive requests; NewTokenBucket wraps golang.org/x/time/rate with a
// burst of one. A rate of zero disables pacing.
//
//	limiter := ratelimit.NewTokenBucket(cfg.Download.RequestsPerMinute)
//	if err := limiter.Wait(ctx); err != nil {
//	    return err
//	}
package ratelimit
