package booksapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/goliatone/go-invoicedesk/books"
)

const maxErrorBody = 64 << 10

// Client talks to the accounting backend REST API.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Logger  books.Logger

	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.HTTP = client
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(logger books.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// WithRetry tunes GET retries. A zero maxRetries disables them.
func WithRetry(maxRetries int, initial, max time.Duration) Option {
	return func(c *Client) {
		c.MaxRetries = maxRetries
		if initial > 0 {
			c.InitialInterval = initial
		}
		if max > 0 {
			c.MaxInterval = max
		}
	}
}

// New creates a client for the backend rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		BaseURL:         strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		HTTP:            &http.Client{Timeout: 30 * time.Second},
		Logger:          books.NopLogger(),
		MaxRetries:      3,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     2 * time.Second,
		MaxElapsedTime:  10 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type envelope struct {
	Success *bool           `json:"success,omitempty"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message,omitempty"`
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	var body []byte
	op := func() error {
		var err error
		body, err = c.do(ctx, http.MethodGet, path, nil)
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return backoff.Permanent(err)
		}
		c.logger().Debugf("retrying GET %s: %v", path, err)
		return err
	}

	if c.MaxRetries <= 0 {
		if err := op(); err != nil {
			return unwrapPermanent(err)
		}
	} else {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = c.InitialInterval
		b.MaxInterval = c.MaxInterval
		b.MaxElapsedTime = c.MaxElapsedTime
		policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.MaxRetries)), ctx)
		if err := backoff.Retry(op, policy); err != nil {
			return err
		}
	}
	return decodeData(body, out)
}

func (c *Client) send(ctx context.Context, method, path string, payload any) error {
	var reader io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return books.NewError(books.KindValidation, "request payload invalid", err)
		}
		reader = bytes.NewReader(raw)
	}
	_, err := c.do(ctx, method, path, reader)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) ([]byte, error) {
	if c == nil {
		return nil, books.NewError(books.KindInternal, "api client is nil", nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, books.NewError(books.KindInternal, "build request", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, books.NewError(books.KindTransport, fmt.Sprintf("%s %s failed", method, path), err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, books.NewError(books.KindTransport, "read response", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, remoteError(resp.StatusCode, payload)
	}
	return payload, nil
}

func remoteError(status int, payload []byte) error {
	if len(payload) > maxErrorBody {
		payload = payload[:maxErrorBody]
	}
	var env envelope
	_ = json.Unmarshal(payload, &env)
	err := books.NewRemoteError(status, strings.TrimSpace(env.Message))
	if status == http.StatusNotFound {
		err.Kind = books.KindNotFound
		if err.Msg == "" {
			err.Msg = "resource not found"
		}
	}
	return err
}

func decodeData(body []byte, out any) error {
	if out == nil || len(body) == 0 {
		return nil
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return books.NewError(books.KindTransport, "decode response", err)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return books.NewError(books.KindTransport, "decode response data", err)
	}
	return nil
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var deskErr *books.DeskError
	if !errors.As(err, &deskErr) {
		return false
	}
	switch deskErr.Kind {
	case books.KindTransport:
		return true
	case books.KindRemote:
		return deskErr.Status >= http.StatusInternalServerError || deskErr.Status == http.StatusTooManyRequests
	default:
		return false
	}
}

func unwrapPermanent(err error) error {
	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		return permanent.Err
	}
	return err
}

func (c *Client) logger() books.Logger {
	if c.Logger == nil {
		return books.NopLogger()
	}
	return c.Logger
}

func escape(id string) string {
	return url.PathEscape(strings.TrimSpace(id))
}
