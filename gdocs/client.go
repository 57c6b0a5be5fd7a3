// Package gdocs talks to the Google Drive and Docs REST APIs. It exports a
// document as Markdown (or HTML) and reads the document structure to list
// the content URIs of its embedded images in traversal order.
package gdocs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"golang.org/x/oauth2/google"
	"golang.org/x/time/rate"
)

// OAuth scopes requested from Application Default Credentials.
const (
	ScopeDriveReadOnly     = "https://www.googleapis.com/auth/drive.readonly"
	ScopeDocumentsReadOnly = "https://www.googleapis.com/auth/documents.readonly"
)

const (
	DefaultDriveBaseURL = "https://www.googleapis.com/drive/v3"
	DefaultDocsBaseURL  = "https://docs.googleapis.com/v1"
	DefaultMaxAttempts  = 3
	DefaultRetryDelay   = 500 * time.Millisecond
	DefaultTimeout      = 60 * time.Second
)

// Options configures a Client. Zero values select the defaults above.
type Options struct {
	DriveBaseURL string
	DocsBaseURL  string
	MaxAttempts  uint
	RetryDelay   time.Duration
	Timeout      time.Duration

	// RequestsPerSecond paces API calls; zero or negative disables pacing.
	RequestsPerSecond float64

	// HTTPClient must already carry credentials. NewDefaultClient fills it
	// in from Application Default Credentials.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client is an authenticated Drive/Docs API client.
type Client struct {
	http        *http.Client
	driveBase   string
	docsBase    string
	maxAttempts uint
	retryDelay  time.Duration
	limiter     *rate.Limiter
	logger      *slog.Logger
}

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d (%s) for %s: %s",
		e.StatusCode, http.StatusText(e.StatusCode), e.URL, e.Body)
}

// Temporary reports whether retrying the request may succeed.
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// NewDefaultClient builds a Client authenticated with Application Default
// Credentials for read-only Drive and Docs access.
func NewDefaultClient(ctx context.Context, opts Options) (*Client, error) {
	hc, err := google.DefaultClient(ctx, ScopeDriveReadOnly, ScopeDocumentsReadOnly)
	if err != nil {
		return nil, fmt.Errorf("loading application default credentials: %w", err)
	}
	opts.HTTPClient = hc
	return New(opts), nil
}

// New creates a Client from opts.
func New(opts Options) *Client {
	c := &Client{
		http:        opts.HTTPClient,
		driveBase:   opts.DriveBaseURL,
		docsBase:    opts.DocsBaseURL,
		maxAttempts: opts.MaxAttempts,
		retryDelay:  opts.RetryDelay,
		logger:      opts.Logger,
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.http.Timeout == 0 {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		c.http.Timeout = timeout
	}
	if c.driveBase == "" {
		c.driveBase = DefaultDriveBaseURL
	}
	if c.docsBase == "" {
		c.docsBase = DefaultDocsBaseURL
	}
	if c.maxAttempts == 0 {
		c.maxAttempts = DefaultMaxAttempts
	}
	if c.retryDelay <= 0 {
		c.retryDelay = DefaultRetryDelay
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	c.limiter = rate.NewLimiter(rate.Inf, 0)
	if rps := opts.RequestsPerSecond; rps > 0 {
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
	return c
}

// get performs a paced GET, retrying transport errors, 429 and 5xx.
// Other non-2xx responses fail immediately.
func (c *Client) get(ctx context.Context, reqURL string) ([]byte, error) {
	var body []byte
	err := retry.Do(
		func() error {
			if err := c.limiter.Wait(ctx); err != nil {
				return retry.Unrecoverable(err)
			}

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
			if err != nil {
				return retry.Unrecoverable(fmt.Errorf("creating request: %w", err))
			}
			req.Header.Set("Accept", "*/*")

			resp, err := c.http.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			data, err := io.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("reading response body: %w", err)
			}

			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				statusErr := &StatusError{URL: reqURL, StatusCode: resp.StatusCode, Body: snippet(data)}
				if statusErr.Temporary() {
					return statusErr
				}
				return retry.Unrecoverable(statusErr)
			}

			body = data
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.maxAttempts),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Warn("google api request failed",
				"url", reqURL, "attempt", n+1, "max_attempts", c.maxAttempts, "error", err)
		}),
	)
	if err != nil {
		return nil, err
	}
	return body, nil
}

// snippet trims an error body for inclusion in messages.
func snippet(data []byte) string {
	const limit = 256
	if len(data) > limit {
		return string(data[:limit]) + "..."
	}
	return string(data)
}
