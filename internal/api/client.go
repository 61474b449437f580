package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/coworkhq/cowork/internal/session"
)

// Events receives the gateway's cross-cutting signals. Notify carries a
// user-facing message; SessionInvalidated fires when a 401 tears down the
// session, so the navigation layer can route back to login without the
// HTTP layer knowing anything about views.
type Events interface {
	Notify(text string)
	SessionInvalidated()
}

// NopEvents discards all events
type NopEvents struct{}

func (NopEvents) Notify(string)       {}
func (NopEvents) SessionInvalidated() {}

// RequestHook transforms an outbound request before dispatch.
type RequestHook func(*http.Request) error

// ResponseHook runs after every round trip, in order. apiErr is nil on
// success; a hook may replace it. resp is nil when the request never
// reached the server.
type ResponseHook func(resp *http.Response, apiErr *Error) *Error

// Client is the single choke point for all CoWork API traffic. Every
// resource call goes through do(), which runs the request hooks, the
// round trip, envelope decoding, and the response hooks.
type Client struct {
	baseURL string
	http    *http.Client
	store   *session.Store
	events  Events

	reqHooks  []RequestHook
	respHooks []ResponseHook
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithRequestHook appends a request hook after the defaults
func WithRequestHook(h RequestHook) Option {
	return func(c *Client) { c.reqHooks = append(c.reqHooks, h) }
}

// WithResponseHook appends a response hook after the defaults
func WithResponseHook(h ResponseHook) Option {
	return func(c *Client) { c.respHooks = append(c.respHooks, h) }
}

// New creates a gateway client rooted at baseURL (including the /api
// prefix). The default hook chains attach the bearer token and JSON
// content type on the way out, and run the session guard and notifier
// on the way back.
func New(baseURL string, store *session.Store, events Events, opts ...Option) *Client {
	if events == nil {
		events = NopEvents{}
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		store:   store,
		events:  events,
	}
	c.reqHooks = []RequestHook{c.attachBearer, defaultContentType}
	c.respHooks = []ResponseHook{c.sessionGuard, c.notifier}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// attachBearer injects the current token, if any
func (c *Client) attachBearer(req *http.Request) error {
	if token := c.store.Get().Token; token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return nil
}

func defaultContentType(req *http.Request) error {
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return nil
}

// sessionGuard tears down the session on any 401, regardless of which
// endpoint produced it.
func (c *Client) sessionGuard(_ *http.Response, apiErr *Error) *Error {
	if apiErr != nil && apiErr.Kind == KindUnauthorized {
		if err := c.store.Clear(); err != nil {
			log.WithError(err).Warn("clearing session after 401")
		}
		c.events.SessionInvalidated()
	}
	return apiErr
}

// notifier surfaces every failure to the user exactly once
func (c *Client) notifier(_ *http.Response, apiErr *Error) *Error {
	if apiErr != nil {
		c.events.Notify(apiErr.userMessage())
	}
	return apiErr
}

// envelope is the uniform {success, message, data} wrapper around every
// payload. The success flag is decoded but not consulted: HTTP status
// alone drives error handling, matching the original client.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	for _, hook := range c.reqHooks {
		if err := hook(req); err != nil {
			return err
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.WithFields(log.Fields{"method": method, "path": path}).WithError(err).Debug("request failed")
		return c.finish(nil, &Error{Kind: KindUnclassified, cause: err})
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.finish(resp, &Error{Kind: KindUnclassified, Status: resp.StatusCode, cause: err})
	}

	// Tolerate empty and non-JSON bodies; the envelope stays zero.
	var env envelope
	_ = json.Unmarshal(raw, &env)

	log.WithFields(log.Fields{
		"method":   method,
		"path":     path,
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	}).Debug("api call")

	if resp.StatusCode >= 400 {
		return c.finish(resp, classify(resp.StatusCode, env.Message))
	}
	if err := c.finish(resp, nil); err != nil {
		return err
	}

	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}

// finish runs the response hooks in order and converts the result to a
// plain error, so a nil *Error never leaks as a non-nil interface.
func (c *Client) finish(resp *http.Response, apiErr *Error) error {
	for _, hook := range c.respHooks {
		apiErr = hook(resp, apiErr)
	}
	if apiErr != nil {
		return apiErr
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}
