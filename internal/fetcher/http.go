package fetcher

import (
	"context"
	"io"
	"math"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Downloader fetches remote dataset files with retry and backoff.
type Downloader struct {
	client     *http.Client
	userAgent  string
	maxRetries int
}

// DownloaderOption configures a Downloader.
type DownloaderOption func(*Downloader)

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) DownloaderOption {
	return func(dl *Downloader) { dl.client.Timeout = d }
}

// WithMaxRetries overrides the default retry count.
func WithMaxRetries(n int) DownloaderOption {
	return func(dl *Downloader) { dl.maxRetries = n }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) DownloaderOption {
	return func(dl *Downloader) { dl.userAgent = ua }
}

// NewDownloader creates a Downloader with sane defaults.
func NewDownloader(opts ...DownloaderOption) *Downloader {
	d := &Downloader{
		client:     &http.Client{Timeout: 60 * time.Second},
		userAgent:  "esg-screen/1.0",
		maxRetries: 3,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Download fetches the URL and returns the response body bytes.
func (d *Downloader) Download(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "fetcher: create request")
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.doWithRetry(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("fetcher: unexpected status %d from %s", resp.StatusCode, rawURL)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "fetcher: read body")
	}
	return data, nil
}

func (d *Downloader) doWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	var lastErr error
	for attempt := range d.maxRetries {
		cloned := req.Clone(ctx)
		resp, err := d.client.Do(cloned)
		if err != nil {
			lastErr = err
			zap.L().Warn("http request failed, retrying",
				zap.String("url", req.URL.String()),
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
			d.backoff(ctx, attempt)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			_ = resp.Body.Close()
			lastErr = eris.Errorf("http %d from %s", resp.StatusCode, req.URL.String())
			zap.L().Warn("retryable status, backing off",
				zap.String("url", req.URL.String()),
				zap.Int("status", resp.StatusCode),
				zap.Int("attempt", attempt+1),
			)
			d.backoff(ctx, attempt)
			continue
		}

		return resp, nil
	}

	return nil, eris.Wrap(lastErr, "fetcher: all retries exhausted")
}

func (d *Downloader) backoff(ctx context.Context, attempt int) {
	base := time.Second
	maxBackoff := 30 * time.Second
	wait := time.Duration(float64(base) * math.Pow(2, float64(attempt)))
	if wait > maxBackoff {
		wait = maxBackoff
	}
	wait += time.Duration(rand.Int64N(int64(wait) / 2))

	t := time.NewTimer(wait)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
