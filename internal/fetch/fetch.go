// Package fetch retrieves upstream files over HTTP.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"datamine/internal/config"
	"datamine/internal/logging"
	"datamine/internal/services"
)

// MaxBodyBytes bounds the size of any fetched document.
const MaxBodyBytes = 512 << 20

// HTTPDoer describes the HTTP client used by Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client fetches bytes or text from URLs.
type Client struct {
	doer      HTTPDoer
	userAgent string
	logger    *slog.Logger
}

// NewClient builds a client with the configured timeout and user agent.
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	timeout := 30 * time.Second
	userAgent := ""
	if cfg != nil {
		if d := cfg.FetchTimeout(); d > 0 {
			timeout = d
		}
		userAgent = cfg.Fetch.UserAgent
	}
	return NewWithDoer(&http.Client{Timeout: timeout}, userAgent, logger)
}

// NewWithDoer builds a client around an arbitrary HTTPDoer.
func NewWithDoer(doer HTTPDoer, userAgent string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Client{
		doer:      doer,
		userAgent: strings.TrimSpace(userAgent),
		logger:    logging.NewComponentLogger(logger, "fetch"),
	}
}

// Bytes downloads url and returns the body. Non-2xx responses and transport
// errors are reported as services.ErrTransport.
func (c *Client) Bytes(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "fetch", "build request", url, err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.doer.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return nil, ctxErr
		}
		return nil, services.Wrap(services.ErrTransport, "fetch", "get", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, services.Wrap(services.ErrTransport, "fetch", "get", fmt.Sprintf("%s returned %d", url, resp.StatusCode), nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes+1))
	if err != nil {
		return nil, services.Wrap(services.ErrTransport, "fetch", "read body", url, err)
	}
	if len(body) > MaxBodyBytes {
		return nil, services.Wrap(services.ErrTransport, "fetch", "read body", fmt.Sprintf("%s exceeds %d bytes", url, MaxBodyBytes), nil)
	}

	logging.WithContext(ctx, c.logger).Debug("fetched",
		logging.String("url", url),
		logging.Int("byte_size", len(body)),
		logging.Duration("elapsed", time.Since(start)),
		logging.String(logging.FieldEventType, "fetch_complete"))
	return body, nil
}

// Text downloads url and returns the body as a string.
func (c *Client) Text(ctx context.Context, url string) (string, error) {
	body, err := c.Bytes(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// FirstOf tries each URL in order and returns the first successful body with
// the URL that served it. Every failure but the last is logged as a warning.
func (c *Client) FirstOf(ctx context.Context, urls []string) ([]byte, string, error) {
	if len(urls) == 0 {
		return nil, "", services.Wrap(services.ErrConfiguration, "fetch", "first of", "no urls configured", nil)
	}
	var errs []error
	for i, url := range urls {
		body, err := c.Bytes(ctx, url)
		if err == nil {
			return body, url, nil
		}
		if ctx.Err() != nil {
			return nil, "", err
		}
		errs = append(errs, err)
		if i < len(urls)-1 {
			logging.WarnWithContext(logging.WithContext(ctx, c.logger), "fetch failed; trying fallback", "fetch_fallback",
				logging.String("url", url),
				logging.String("fallback_url", urls[i+1]),
				logging.Error(err),
				logging.ErrorKind(err),
				logging.String(logging.FieldErrorHint, "check upstream availability"),
				logging.String(logging.FieldImpact, "content served from mirror"))
		}
	}
	return nil, "", errors.Join(errs...)
}
