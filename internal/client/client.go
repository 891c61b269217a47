// Package client talks to a remote assetdesk API. Source adapts one
// collection endpoint to listing.DataSource so that the same Collection and
// Controller code runs against a server instead of memory or Postgres.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"assetdesk/internal/common"
	"assetdesk/internal/listing"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const apiPrefix = "/v1"

// Config holds the connection settings shared by every Source.
type Config struct {
	BaseURL string
	Token   string
	// RPS caps outgoing requests per second. Zero means unlimited.
	RPS     float64
	Timeout time.Duration
}

// Client is the shared transport. It is safe for concurrent use.
type Client struct {
	base       *url.URL
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *zap.Logger
}

func New(cfg Config, log *zap.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid API URL %q", cfg.BaseURL)
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RPS > 0 {
		burst := int(cfg.RPS)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RPS), burst)
	}
	return &Client{
		base:       base,
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    limiter,
		log:        log,
	}, nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.base
	u.Path = c.base.Path + apiPrefix + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// call is one parsed response: the status plus the raw body.
type call struct {
	status int
	header http.Header
	body   []byte
}

// do sends one request. Only transport failures are returned as errors;
// HTTP error statuses are left to the caller to classify.
func (c *Client) do(ctx context.Context, kind, op, method, path string, query url.Values, payload any) (call, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return call{}, ctx.Err()
		}
		return call{}, &listing.SourceError{Kind: kind, Op: op, Class: listing.FailureTimeout, Err: err}
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return call{}, fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), body)
	if err != nil {
		return call{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json, */*")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() == context.Canceled {
			return call{}, ctx.Err()
		}
		return call{}, &listing.SourceError{Kind: kind, Op: op, Class: transportFailure(err), Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return call{}, &listing.SourceError{Kind: kind, Op: op, Class: transportFailure(err), Err: err}
	}
	c.log.Debug("API request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))
	return call{status: resp.StatusCode, header: resp.Header, body: data}, nil
}

func transportFailure(err error) listing.Failure {
	if errors.Is(err, context.DeadlineExceeded) {
		return listing.FailureTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return listing.FailureTimeout
	}
	return listing.FailureNetwork
}

// apiError turns an error response into the listing error taxonomy. id is
// zero when the call did not address a single record.
func apiError(kind, label, op string, id int64, res call) error {
	var payload common.ErrorResponse
	_ = json.Unmarshal(res.body, &payload)
	msg := payload.Error.Message
	if msg == "" {
		msg = http.StatusText(res.status)
	}
	field, detail := firstDetail(payload.Error.Details)

	switch {
	case res.status == http.StatusUnauthorized || res.status == http.StatusForbidden:
		return &listing.SourceError{Kind: kind, Op: op, Class: listing.FailureAuth, Err: errors.New(msg)}
	case res.status == http.StatusNotFound && id != 0:
		return &listing.NotFoundError{Kind: label, ID: id}
	case res.status == http.StatusConflict:
		return &listing.DuplicateError{Kind: label, Field: field, Value: detail}
	case res.status == http.StatusBadRequest || res.status == http.StatusUnprocessableEntity:
		if field != "" {
			return &listing.ValidationError{Field: field, Msg: detail}
		}
		return &listing.ValidationError{Msg: msg}
	case res.status == http.StatusRequestTimeout || res.status == http.StatusGatewayTimeout:
		return &listing.SourceError{Kind: kind, Op: op, Class: listing.FailureTimeout, Err: errors.New(msg)}
	case res.status == http.StatusTooManyRequests || res.status >= http.StatusInternalServerError:
		return &listing.SourceError{Kind: kind, Op: op, Class: listing.FailureNetwork, Err: fmt.Errorf("status %d: %s", res.status, msg)}
	}
	return fmt.Errorf("%s %s: unexpected status %d: %s", op, kind, res.status, msg)
}

// firstDetail picks the smallest key so the choice is stable when the
// server reports more than one field.
func firstDetail(details map[string]string) (string, string) {
	var key string
	for k := range details {
		if key == "" || k < key {
			key = k
		}
	}
	return key, details[key]
}
