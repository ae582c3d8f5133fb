// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the client side of the LegiChat answer endpoint.
package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/BenYacineSawadogo/LegiChatUi/internal/model"
)

// Configuration defaults for the answer backend.
const (
	// DefaultBaseURL is the development backend address.
	DefaultBaseURL = "http://localhost:5000/api"

	// DefaultTimeout bounds a single request, retries excluded.
	DefaultTimeout = 60 * time.Second

	// DefaultMaxRetries is the number of retries after a 5xx or network failure.
	DefaultMaxRetries = 2

	retryBaseDelay = 500 * time.Millisecond
	retryMaxDelay  = 5 * time.Second

	userAgent = "legichat-tui/1.0"
	opSubmit  = "submit"
)

// Client submits a user message and waits for the completed reply.
type Client interface {
	Submit(ctx context.Context, conversationID, text string) (*model.Message, error)
}

// =============================================================================
// WIRE TYPES
// =============================================================================

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	ConversationID string `json:"conversationId"`
	Message        string `json:"message"`
}

// ChatResponse is the body returned by POST /chat.
type ChatResponse struct {
	ID             string                  `json:"id"`
	ConversationID string                  `json:"conversationId"`
	Content        string                  `json:"content"`
	Role           string                  `json:"role"`
	Timestamp      string                  `json:"timestamp"`
	Metadata       *model.ResponseMetadata `json:"metadata,omitempty"`
}

// errorBody covers the error shapes the backend may return.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (b *errorBody) text() string {
	if b == nil {
		return ""
	}
	if b.Error != "" {
		return b.Error
	}
	return b.Message
}

// =============================================================================
// HTTP CLIENT
// =============================================================================

// HTTPClient talks to the answer backend over HTTP.
type HTTPClient struct {
	baseURL    string
	timeout    time.Duration
	maxRetries int
	limiter    *rate.Limiter
	http       *resty.Client
}

// NewHTTPClient creates a client for baseURL ("" means DefaultBaseURL).
func NewHTTPClient(baseURL string) *HTTPClient {
	c := &HTTPClient{
		timeout:    DefaultTimeout,
		maxRetries: DefaultMaxRetries,
	}

	c.http = resty.New().
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", userAgent).
		SetTimeout(c.timeout).
		SetRetryCount(c.maxRetries).
		SetRetryWaitTime(retryBaseDelay).
		SetRetryMaxWaitTime(retryMaxDelay).
		SetLogger(stdLogger{}).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				// resty already retries transport errors; never retry a cancellation
				return !errors.Is(err, context.Canceled)
			}
			return r != nil && r.StatusCode() >= 500
		}).
		OnAfterResponse(logResponse)

	return c.WithBaseURL(baseURL)
}

// WithBaseURL sets the backend base URL.
func (c *HTTPClient) WithBaseURL(url string) *HTTPClient {
	url = strings.TrimSuffix(strings.TrimSpace(url), "/")
	if url == "" {
		url = DefaultBaseURL
	}
	c.baseURL = url
	c.http.SetBaseURL(url)
	return c
}

// WithTimeout sets the per-request timeout.
func (c *HTTPClient) WithTimeout(timeout time.Duration) *HTTPClient {
	if timeout > 0 {
		c.timeout = timeout
		c.http.SetTimeout(timeout)
	}
	return c
}

// WithMaxRetries sets the number of retries after a retryable failure.
func (c *HTTPClient) WithMaxRetries(n int) *HTTPClient {
	if n < 0 {
		n = 0
	}
	c.maxRetries = n
	c.http.SetRetryCount(n)
	return c
}

// WithRetryWait overrides the backoff bounds. Mostly useful in tests.
func (c *HTTPClient) WithRetryWait(base, max time.Duration) *HTTPClient {
	c.http.SetRetryWaitTime(base).SetRetryMaxWaitTime(max)
	return c
}

// WithRateLimit caps submissions per second. Zero or less disables the limiter.
func (c *HTTPClient) WithRateLimit(perSecond float64) *HTTPClient {
	if perSecond <= 0 {
		c.limiter = nil
		return c
	}
	c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	return c
}

// BaseURL returns the configured base URL.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// Submit posts one message and returns the completed assistant reply.
func (c *HTTPClient) Submit(ctx context.Context, conversationID, text string) (*model.Message, error) {
	if conversationID == "" || strings.TrimSpace(text) == "" {
		return nil, &RequestError{Op: opSubmit, Err: ErrInvalidRequest}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &RequestError{Op: opSubmit, Err: fmt.Errorf("rate limiter: %w", err)}
		}
	}

	log.Printf("API Request: POST %s/chat", c.baseURL)

	var (
		out    ChatResponse
		errOut errorBody
	)
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(ChatRequest{ConversationID: conversationID, Message: text}).
		SetResult(&out).
		SetError(&errOut).
		Post("/chat")
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			err = fmt.Errorf("%w: %v", ctxErr, err)
		}
		return nil, &RequestError{Op: opSubmit, Err: err}
	}

	if resp.IsError() {
		msg := errOut.text()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode())
		}
		return nil, &RequestError{Op: opSubmit, StatusCode: resp.StatusCode(), Err: errors.New(msg)}
	}

	if len(resp.Body()) == 0 {
		return nil, &RequestError{Op: opSubmit, StatusCode: resp.StatusCode(), Err: ErrEmptyResponse}
	}

	return out.toMessage(conversationID), nil
}

// toMessage converts the wire response. The role is always assistant.
func (r *ChatResponse) toMessage(conversationID string) *model.Message {
	id := r.ID
	if id == "" {
		id = uuid.NewString()
	}
	convID := r.ConversationID
	if convID == "" {
		convID = conversationID
	}
	return &model.Message{
		ID:             id,
		ConversationID: convID,
		Content:        r.Content,
		Role:           model.RoleAssistant,
		Timestamp:      parseTimestamp(r.Timestamp),
		IsLoading:      false,
		Metadata:       r.Metadata,
	}
}

// timestampLayouts covers RFC3339 and naive ISO-8601 as emitted by Python backends.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// parseTimestamp falls back to now for empty or unparsable values.
func parseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Now()
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil && !t.IsZero() {
			return t
		}
	}
	return time.Now()
}

// =============================================================================
// LOGGING
// =============================================================================

// logResponse logs status and duration only. Bodies are never logged.
func logResponse(_ *resty.Client, r *resty.Response) error {
	log.Printf("API Response: %d %s (%v)", r.StatusCode(), r.Request.URL, r.Time())
	return nil
}

// stdLogger routes resty's internal messages to the standard logger.
type stdLogger struct{}

func (stdLogger) Errorf(format string, v ...interface{}) { log.Printf("ERROR resty: "+format, v...) }
func (stdLogger) Warnf(format string, v ...interface{})  { log.Printf("WARNING resty: "+format, v...) }
func (stdLogger) Debugf(format string, v ...interface{}) {}
