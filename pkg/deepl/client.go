// Package deepl provides a client for the DeepL translation API.
package deepl

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Client defines the DeepL translation operations.
type Client interface {
	// Translate translates text into English.
	Translate(ctx context.Context, text string) (string, error)
}

// translateResponse is the parsed DeepL API response.
type translateResponse struct {
	Translations []translation `json:"translations"`
}

type translation struct {
	DetectedSourceLanguage string `json:"detected_source_language"`
	Text                   string `json:"text"`
}

// Option configures the DeepL client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing, or the paid-tier host).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit sets the requests-per-second rate limit for API calls.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

type httpClient struct {
	authKey string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a new DeepL client. The free-tier host is the default;
// pass WithBaseURL("https://api.deepl.com") for paid keys.
func NewClient(authKey string, opts ...Option) Client {
	c := &httpClient{
		authKey: authKey,
		baseURL: "https://api-free.deepl.com",
		http:    &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(5, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// retryableStatusCode returns true if the HTTP status code should trigger a retry.
func retryableStatusCode(code int) bool {
	return code == http.StatusTooManyRequests ||
		code == http.StatusInternalServerError ||
		code == http.StatusBadGateway ||
		code == http.StatusServiceUnavailable
}

// retryDo executes the translate request with exponential backoff on
// transient failures (429, 500, 502, 503). The request body is rebuilt per
// attempt from form.
func (c *httpClient) retryDo(ctx context.Context, reqURL string, form url.Values) ([]byte, int, error) {
	const maxAttempts = 3
	backoff := 1 * time.Second

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, 0, eris.Wrap(err, "deepl: create request")
		}
		req.Header.Set("Authorization", "DeepL-Auth-Key "+c.authKey)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			if attempt < maxAttempts {
				select {
				case <-ctx.Done():
					return nil, 0, ctx.Err()
				case <-time.After(backoff):
				}
				backoff *= 2
				continue
			}
			return nil, 0, lastErr
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			return nil, resp.StatusCode, eris.Wrap(readErr, "deepl: read response body")
		}

		if retryableStatusCode(resp.StatusCode) && attempt < maxAttempts {
			lastErr = eris.Errorf("deepl: status %d: %s", resp.StatusCode, string(body))
			select {
			case <-ctx.Done():
				return nil, 0, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
			continue
		}

		return body, resp.StatusCode, nil
	}

	return nil, 0, lastErr
}

func (c *httpClient) Translate(ctx context.Context, text string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", eris.Wrap(err, "deepl: rate limit wait")
	}

	form := url.Values{}
	form.Set("text", text)
	form.Set("target_lang", "EN")

	body, statusCode, err := c.retryDo(ctx, c.baseURL+"/v2/translate", form)
	if err != nil {
		return "", eris.Wrap(err, "deepl: request failed")
	}

	if statusCode != http.StatusOK {
		return "", eris.Errorf("deepl: unexpected status %d: %s", statusCode, string(body))
	}

	var result translateResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", eris.Wrap(err, "deepl: unmarshal response")
	}

	if len(result.Translations) == 0 {
		return "", eris.New("deepl: empty translations in response")
	}

	return result.Translations[0].Text, nil
}
