// Package retry re-runs an operation while a predicate says its error is
// transient, waiting according to a backoff strategy between attempts.
//
// The fetcher uses it to re-issue a request that was answered with a
// redirect, bounded by the configured maximum:
//
//	resp, err := retry.DoWithResult(func() (*http.Response, error) {
//		return c.do(ctx, url, path)
//	}, &retry.Config{
//		MaxAttempts: c.maxRedirects + 1,
//		RetryIf:     func(err error) bool { return errors.Is(err, errRedirected) },
//		Context:     ctx,
//	})
package retry
