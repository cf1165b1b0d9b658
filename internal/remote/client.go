// Package remote talks to the project, sprint, task, user and notification
// services over their JSON REST APIs.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/alexanderramin/taskflow/internal/repository"
	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// StatusError is a non-2xx response.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Code, strings.TrimSpace(e.Body))
}

// Temporary reports whether retrying the request may succeed.
func (e *StatusError) Temporary() bool {
	return e.Code >= 500 || e.Code == http.StatusTooManyRequests
}

// RetryConfig configures exponential backoff between attempts.
type RetryConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:      3,
		InitialInterval: 200 * time.Millisecond,
		MaxInterval:     5 * time.Second,
	}
}

// ClientConfig describes one service endpoint.
type ClientConfig struct {
	Name            string
	BaseURL         string
	Token           string
	Timeout         time.Duration
	Retry           RetryConfig
	BreakerFailures int
	BreakerCooldown time.Duration
}

// Client is a JSON client for one service. Requests are retried on
// transport errors and 5xx responses and pass through a circuit breaker
// that opens after consecutive failures.
type Client struct {
	name    string
	baseURL string
	token   string
	http    *http.Client
	retry   RetryConfig
	breaker *gobreaker.CircuitBreaker
	log     *zap.Logger
}

func NewClient(cfg ClientConfig, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.BreakerFailures <= 0 {
		cfg.BreakerFailures = 5
	}
	if cfg.BreakerCooldown <= 0 {
		cfg.BreakerCooldown = 30 * time.Second
	}
	if cfg.Retry.InitialInterval <= 0 {
		cfg.Retry.InitialInterval = DefaultRetryConfig().InitialInterval
	}
	if cfg.Retry.MaxInterval <= 0 {
		cfg.Retry.MaxInterval = DefaultRetryConfig().MaxInterval
	}

	log = log.With(zap.String("service", cfg.Name))
	failures := uint32(cfg.BreakerFailures)
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.BreakerCooldown,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				zap.String("from", from.String()), zap.String("to", to.String()))
		},
		IsSuccessful: func(err error) bool {
			// Client errors and cancellations say nothing about service health.
			var se *StatusError
			switch {
			case err == nil:
				return true
			case errors.As(err, &se):
				return !se.Temporary()
			case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				return true
			}
			return false
		},
	})

	return &Client{
		name:    cfg.Name,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		http:    &http.Client{Timeout: cfg.Timeout},
		retry:   cfg.Retry,
		breaker: breaker,
		log:     log,
	}
}

// Do sends body as JSON and returns the raw response body of a 2xx reply.
// A 404 is reported as repository.ErrNotFound. Only idempotent methods are
// retried; a failed POST may already have been applied by the server.
func (c *Client) Do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return nil, fmt.Errorf("encoding %s %s: %w", method, path, err)
		}
	}

	var out []byte
	operation := func() error {
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		res, err := c.breaker.Execute(func() (interface{}, error) {
			return c.roundTrip(ctx, method, path, payload)
		})
		if err != nil {
			var se *StatusError
			switch {
			case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
				return backoff.Permanent(fmt.Errorf("%s service: %w", c.name, err))
			case errors.As(err, &se) && !se.Temporary():
				return backoff.Permanent(err)
			case ctx.Err() != nil, !idempotent(method):
				return backoff.Permanent(err)
			}
			return err
		}
		out = res.([]byte)
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.retry.InitialInterval
	policy.MaxInterval = c.retry.MaxInterval
	policy.MaxElapsedTime = 0
	retrier := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(max(c.retry.MaxRetries, 0))), ctx)

	notify := func(err error, wait time.Duration) {
		c.log.Debug("retrying request",
			zap.String("method", method), zap.String("path", path),
			zap.Duration("wait", wait), zap.Error(err))
	}
	if err := backoff.RetryNotify(operation, retrier, notify); err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.Code == http.StatusNotFound {
			return nil, fmt.Errorf("%s %s: %w", method, path, repository.ErrNotFound)
		}
		return nil, err
	}
	return out, nil
}

func idempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPut, http.MethodDelete, http.MethodOptions:
		return true
	}
	return false
}

func (c *Client) roundTrip(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: string(data)}
	}
	return data, nil
}
