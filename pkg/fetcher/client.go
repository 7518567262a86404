package fetcher

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"ccscraper/pkg/config"
	errs "ccscraper/pkg/errors"
	"ccscraper/pkg/logger"
	"ccscraper/pkg/ratelimit"
	"ccscraper/pkg/retry"
)

// errRedirected marks a 3xx response; the identical request is issued again
var errRedirected = errors.New("redirected")

// Asset is a fetched photo. Body is nil for any non-2xx response; such
// bodies are drained and discarded.
type Asset struct {
	Status int
	Body   []byte
}

// OK reports whether the asset was served with a 2xx status
func (a *Asset) OK() bool {
	return a.Status >= 200 && a.Status < 300
}

// Client fetches archive pages from the archive host and photo bytes from
// the asset host
type Client struct {
	httpClient   *http.Client
	headers      map[string]string
	archiveBase  string
	assetBase    string
	maxRedirects int
	backoff      retry.BackoffStrategy
	limiter      ratelimit.Limiter
	logger       logger.Logger
}

// New creates a Client from the archive, asset and download settings of cfg
func New(cfg *config.Config, limiter ratelimit.Limiter, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	if limiter == nil {
		limiter = ratelimit.Unlimited()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Download.Timeout,
			// 3xx responses are handled by re-issuing the request ourselves
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		headers: map[string]string{
			"User-Agent":      cfg.Download.UserAgent,
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.9",
			"Cache-Control":   "no-cache",
		},
		archiveBase:  cfg.ArchiveBaseURL(),
		assetBase:    cfg.AssetBaseURL(),
		maxRedirects: cfg.Download.MaxRedirects,
		backoff:      &retry.ConstantBackoff{Delay: cfg.Download.RedirectDelay},
		limiter:      limiter,
		logger:       log,
	}
}

// FetchHTML fetches an archive or gallery page and returns its full body,
// whatever the final non-redirect status. An error page simply parses to
// nothing; only transport failures and redirect loops are errors.
func (c *Client) FetchHTML(ctx context.Context, path string) (string, error) {
	resp, err := c.get(ctx, c.archiveBase, path)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.WarnWithFields("Page served with error status", map[string]interface{}{
			"path":   path,
			"status": resp.StatusCode,
		})
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errs.Wrap(errs.ErrorTypeNetwork, path, "failed to read response body", err)
	}

	return string(body), nil
}

// FetchAsset fetches a photo from the asset host. A non-2xx status is not
// an error: the caller decides what it means for the photo.
func (c *Client) FetchAsset(ctx context.Context, path string) (*Asset, error) {
	resp, err := c.get(ctx, c.assetBase, path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	asset := &Asset{Status: resp.StatusCode}
	if !asset.OK() {
		drain(resp.Body)
		return asset, nil
	}

	asset.Body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeNetwork, path, "failed to read photo body", err)
	}

	return asset, nil
}

// get issues GET base+path, re-issuing the request while the server answers
// with a redirect, at most maxRedirects times and paced by the redirect delay
func (c *Client) get(ctx context.Context, base, path string) (*http.Response, error) {
	url := base + path

	resp, err := retry.DoWithResult(func() (*http.Response, error) {
		return c.do(ctx, url, path)
	}, &retry.Config{
		MaxAttempts: c.maxRedirects + 1,
		Backoff:     c.backoff,
		RetryIf:     func(err error) bool { return errors.Is(err, errRedirected) },
		Context:     ctx,
		Logger:      c.logger,
	})
	if err != nil {
		if errors.Is(err, retry.ErrAttemptsExhausted) {
			return nil, errs.Wrap(errs.ErrorTypeNetwork, path, "too many redirects", err).WithCode(errs.CodeOf(err))
		}
		return nil, err
	}

	return resp, nil
}

// do performs one request. A 3xx response is drained and reported as a
// redirect error so that get can issue the request again.
func (c *Client) do(ctx context.Context, url, path string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errs.Wrap(errs.ErrorTypeNetwork, path, "request cancelled", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeNetwork, path, "failed to create request", err)
	}
	for key, value := range c.headers {
		if value != "" {
			req.Header.Set(key, value)
		}
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"url": url,
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.logger.DebugWithFields("HTTP request failed", map[string]interface{}{
			"url":      url,
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, errs.Wrap(errs.ErrorTypeNetwork, path, "request failed", err)
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"url":      url,
		"status":   resp.StatusCode,
		"duration": duration,
	})

	if resp.StatusCode >= 300 && resp.StatusCode < 400 {
		drain(resp.Body)
		resp.Body.Close()
		return nil, errs.Wrap(errs.ErrorTypeNetwork, path, "server redirected", errRedirected).WithCode(resp.StatusCode)
	}

	return resp, nil
}

func drain(body io.Reader) {
	_, _ = io.Copy(io.Discard, body)
}
