package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"survey-insights-go/internal/logger"
	"survey-insights-go/internal/types"
)

var (
	// ErrSourceUnreachable covers transport failures, non-2xx statuses and unreadable bodies.
	ErrSourceUnreachable = errors.New("source unreachable")
	// ErrSourceReported is a 2xx answer carrying ok:false.
	ErrSourceReported = errors.New("source reported an error")
)

// SourceError describes why one upstream could not be used.
type SourceError struct {
	Source  string
	Status  int
	Message string
	Kind    error
}

func (e *SourceError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %v (status %d): %s", e.Source, e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %v: %s", e.Source, e.Kind, e.Message)
}

func (e *SourceError) Unwrap() error { return e.Kind }

type Options struct {
	Timeout         time.Duration
	MaxRetry        time.Duration
	InitialInterval time.Duration
}

// Client fetches survey payloads over HTTP with exponential backoff.
// Transport errors and 5xx are retried; everything else fails immediately.
type Client struct {
	http *http.Client
	opts Options
	log  *logger.Logger
}

func NewClient(opts Options, log *logger.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 25 * time.Second
	}
	if opts.MaxRetry <= 0 {
		opts.MaxRetry = 20 * time.Second
	}
	if log == nil {
		log = logger.New()
	}
	return &Client{
		http: &http.Client{Timeout: opts.Timeout},
		opts: opts,
		log:  log.Component("source"),
	}
}

func (c *Client) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = c.opts.MaxRetry
	if c.opts.InitialInterval > 0 {
		b.InitialInterval = c.opts.InitialInterval
	}
	return backoff.WithContext(b, ctx)
}

// errorBody is the subset of an error envelope used for messages.
type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

func describe(body []byte) string {
	var eb errorBody
	if json.Unmarshal(body, &eb) == nil && eb.Error != "" {
		if eb.Details != "" {
			return eb.Error + ": " + eb.Details
		}
		return eb.Error
	}
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}

// getJSON GETs url and decodes a 2xx body into target.
func (c *Client) getJSON(ctx context.Context, name, url string, target any) error {
	log := c.log.WithField("source", name)
	var lastErr error
	attempt := 0
	op := func() error {
		attempt++
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			lastErr = &SourceError{Source: name, Message: err.Error(), Kind: ErrSourceUnreachable}
			return backoff.Permanent(lastErr)
		}
		req.Header.Set("Accept", "application/json")
		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = &SourceError{Source: name, Message: err.Error(), Kind: ErrSourceUnreachable}
			log.WithField("attempt", attempt).WithField("error", err.Error()).Warn("request failed")
			return lastErr
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			lastErr = &SourceError{Source: name, Status: resp.StatusCode, Message: err.Error(), Kind: ErrSourceUnreachable}
			return lastErr
		}
		log.WithField("http_status", resp.StatusCode).WithField("bytes", len(body)).Debug("response received")

		if resp.StatusCode >= 500 {
			lastErr = &SourceError{Source: name, Status: resp.StatusCode, Message: describe(body), Kind: ErrSourceUnreachable}
			return lastErr
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			lastErr = &SourceError{Source: name, Status: resp.StatusCode, Message: describe(body), Kind: ErrSourceUnreachable}
			return backoff.Permanent(lastErr)
		}
		if err := json.Unmarshal(body, target); err != nil {
			lastErr = &SourceError{Source: name, Status: resp.StatusCode, Message: "decode: " + err.Error(), Kind: ErrSourceUnreachable}
			return backoff.Permanent(lastErr)
		}
		lastErr = nil
		return nil
	}
	if err := backoff.Retry(op, c.backOff(ctx)); err != nil {
		if lastErr == nil {
			lastErr = &SourceError{Source: name, Message: err.Error(), Kind: ErrSourceUnreachable}
		}
		return lastErr
	}
	return nil
}

// FetchComplete reads a complete-responses endpoint. The envelope must say ok:true.
func (c *Client) FetchComplete(ctx context.Context, name, url string) ([]types.CompleteResponse, error) {
	var env types.CompleteEnvelope
	if err := c.getJSON(ctx, name, url, &env); err != nil {
		return nil, err
	}
	if !env.OK {
		msg := env.Error
		if msg == "" {
			msg = "ok=false"
		}
		if env.Details != "" {
			msg += ": " + env.Details
		}
		return nil, &SourceError{Source: name, Status: http.StatusOK, Message: msg, Kind: ErrSourceReported}
	}
	if env.Responses == nil {
		return []types.CompleteResponse{}, nil
	}
	return env.Responses, nil
}

// FetchProgressive reads the progressive-responses endpoint. A missing
// responses field is an empty list; ok is only checked when present.
func (c *Client) FetchProgressive(ctx context.Context, name, url string) ([]types.ProgressiveEvent, error) {
	var env types.ProgressiveEnvelope
	if err := c.getJSON(ctx, name, url, &env); err != nil {
		return nil, err
	}
	if env.OK != nil && !*env.OK {
		msg := env.Error
		if msg == "" {
			msg = "ok=false"
		}
		return nil, &SourceError{Source: name, Status: http.StatusOK, Message: msg, Kind: ErrSourceReported}
	}
	if env.Responses == nil {
		return []types.ProgressiveEvent{}, nil
	}
	return env.Responses, nil
}
