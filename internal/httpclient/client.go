// Package httpclient issues outbound GET requests with bounded retries on
// transient failures.
package httpclient

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/spigell/linky/internal/logger"
)

const (
	DefaultMaxAttempts = 5
	DefaultBackoff     = 100 * time.Millisecond
	DefaultTimeout     = 30 * time.Second
)

// DefaultRetryStatuses are the response codes treated as transient.
var DefaultRetryStatuses = []int{
	http.StatusTooManyRequests,
	http.StatusInternalServerError,
	http.StatusBadGateway,
	http.StatusServiceUnavailable,
	http.StatusGatewayTimeout,
}

type Config struct {
	// MaxAttempts caps the total number of requests, first one included.
	MaxAttempts int `mapstructure:"max-attempts"`
	// Backoff is the base multiplier: retry n waits Backoff*2^n plus jitter in [0, Backoff).
	Backoff       time.Duration `mapstructure:"backoff"`
	Timeout       time.Duration `mapstructure:"timeout"`
	RetryStatuses []int         `mapstructure:"retry-statuses"`
}

// WithDefaults fills zero values with the package defaults.
func (c Config) WithDefaults() Config {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.Backoff < 0 {
		c.Backoff = 0
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if len(c.RetryStatuses) == 0 {
		c.RetryStatuses = DefaultRetryStatuses
	}
	return c
}

type Client struct {
	HTTPClient *http.Client

	cfg       Config
	retryable map[int]struct{}
	logger    *zap.Logger
	jitter    func(max time.Duration) time.Duration
}

// Response is a fully read 2xx response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// StatusError reports a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("bad status %d %s from %s", e.StatusCode, http.StatusText(e.StatusCode), e.URL)
}

func New(cfg Config, log *zap.Logger) *Client {
	cfg = cfg.WithDefaults()

	retryable := make(map[int]struct{}, len(cfg.RetryStatuses))
	for _, code := range cfg.RetryStatuses {
		retryable[code] = struct{}{}
	}

	return &Client{
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
		retryable:  retryable,
		logger:     logger.OrNop(log),
		jitter:     randomJitter,
	}
}

// Get fetches url, retrying network errors and retry-eligible statuses. Any
// other non-2xx status is returned at once as *StatusError.
func (c *Client) Get(ctx context.Context, url string, header http.Header) (*Response, error) {
	attempt := 0
	op := func() (*Response, error) {
		attempt++
		resp, err := c.do(ctx, url, header)
		if err != nil {
			if ctx.Err() != nil {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			statusErr := &StatusError{URL: url, StatusCode: resp.StatusCode}
			if !c.IsRetryable(resp.StatusCode) {
				return nil, backoff.Permanent(statusErr)
			}
			return nil, statusErr
		}

		return resp, nil
	}

	notify := func(err error, wait time.Duration) {
		c.logger.Debug("request failed, retrying",
			zap.String("url", url),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(&exponential{base: c.cfg.Backoff, jitter: c.jitter}, uint64(c.cfg.MaxAttempts-1)),
		ctx,
	)

	resp, err := backoff.RetryNotifyWithData(op, policy, notify)
	if err != nil {
		return nil, fmt.Errorf("get %s after %d attempt(s): %w", url, attempt, err)
	}

	return resp, nil
}

// IsRetryable reports whether code is one of the configured transient statuses.
func (c *Client) IsRetryable(code int) bool {
	_, ok := c.retryable[code]
	return ok
}

func (c *Client) do(ctx context.Context, url string, header http.Header) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}

	for key, values := range header {
		req.Header[key] = values
	}

	c.logger.Debug("make request", zap.String("url", url))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := readBody(resp)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}, nil
}

// readBody decodes gzip when the caller asked for it explicitly, in which case
// the transport leaves the body compressed.
func readBody(resp *http.Response) ([]byte, error) {
	if resp.Uncompressed || resp.Header.Get("Content-Encoding") != "gzip" {
		return io.ReadAll(resp.Body)
	}

	reader, err := gzip.NewReader(resp.Body)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	defer reader.Close()

	return io.ReadAll(reader)
}

// exponential waits base*2^n plus jitter before retry n (n starts at 0).
type exponential struct {
	base    time.Duration
	attempt int
	jitter  func(time.Duration) time.Duration
}

func (e *exponential) NextBackOff() time.Duration {
	shift := e.attempt
	if shift > 30 {
		shift = 30
	}
	e.attempt++

	return e.base<<shift + e.jitter(e.base)
}

func (e *exponential) Reset() { e.attempt = 0 }

func randomJitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	return time.Duration(rand.Int64N(int64(max)))
}
