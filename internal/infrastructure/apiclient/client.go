// Package apiclient talks to the feedback REST backend on behalf of one
// browser session at a time.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/feedbackhub/portal/internal/core/domain"
	"github.com/feedbackhub/portal/internal/core/ports"
)

const defaultTimeout = 10 * time.Second

// Client holds what every session shares: the base URL and the transport.
type Client struct {
	baseURL string
	http    Doer
	log     zerolog.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithDoer replaces the underlying transport, mostly for tests.
func WithDoer(d Doer) Option {
	return func(c *Client) { c.http = d }
}

// WithTimeout sets the timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http = &http.Client{Timeout: d}
		}
	}
}

// New returns a Client for the backend at baseURL.
func New(baseURL string, log zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		log:     log.With().Str("component", "apiclient").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend base URL without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// Ping reports whether the backend answers at all. Any response below 500
// counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(withEndpoint(ctx, "/"), http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: status %d", domain.ErrBackendUnavailable, resp.StatusCode)
	}
	return nil
}

// Bind returns a Conn that authenticates with tokens and reports 401
// responses to onInvalid.
func (c *Client) Bind(tokens ports.TokenSource, onInvalid ports.InvalidationListener) ports.Backend {
	return &Conn{
		client: c,
		doer: Chain(c.http,
			Bearer(tokens),
			Invalidation(onInvalid),
			Instrument(),
		),
	}
}

// Conn is a Client bound to one browser session.
type Conn struct {
	client *Client
	doer   Doer
}

var (
	_ ports.Backend   = (*Conn)(nil)
	_ ports.Connector = (*Client)(nil)
)

// Login posts the credentials as an url-encoded form. A 401 is reported as
// domain.ErrInvalidCredentials.
func (c *Conn) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	var out ports.LoginResult
	err := c.send(ctx, http.MethodPost, "/login", "/login",
		strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", &out)
	if err != nil {
		if isStatus(err, http.StatusUnauthorized) {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidCredentials, err)
		}
		return nil, err
	}
	if out.AccessToken == "" {
		return nil, fmt.Errorf("login: %w: empty access token", domain.ErrInvalidCredentials)
	}
	return &out, nil
}

func (c *Conn) Register(ctx context.Context, reg domain.Registration) error {
	return c.sendJSON(ctx, http.MethodPost, "/register", "/register", reg, nil)
}

func (c *Conn) Me(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := c.send(ctx, http.MethodGet, "/me", "/me", nil, "", &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Conn) Dashboard(ctx context.Context) ([]domain.RosterEntry, error) {
	var out struct {
		Team []domain.RosterEntry `json:"team"`
	}
	if err := c.send(ctx, http.MethodGet, "/dashboard", "/dashboard", nil, "", &out); err != nil {
		return nil, err
	}
	return out.Team, nil
}

func (c *Conn) EmployeeFeedback(ctx context.Context, employeeID int64) ([]domain.Feedback, error) {
	var out []domain.Feedback
	path := "/feedback/" + strconv.FormatInt(employeeID, 10)
	if err := c.send(ctx, http.MethodGet, path, "/feedback/{id}", nil, "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Conn) SubmitFeedback(ctx context.Context, draft domain.FeedbackDraft) error {
	return c.sendJSON(ctx, http.MethodPost, "/feedback", "/feedback", draft, nil)
}

func (c *Conn) Acknowledge(ctx context.Context, feedbackID int64) error {
	path := "/acknowledge/" + strconv.FormatInt(feedbackID, 10)
	return c.send(ctx, http.MethodPost, path, "/acknowledge/{id}", nil, "", nil)
}

func (c *Conn) EmployeeDashboard(ctx context.Context) ([]domain.Feedback, error) {
	var out struct {
		Timeline []domain.Feedback `json:"timeline"`
	}
	if err := c.send(ctx, http.MethodGet, "/employee-dashboard", "/employee-dashboard", nil, "", &out); err != nil {
		return nil, err
	}
	return out.Timeline, nil
}

func (c *Conn) sendJSON(ctx context.Context, method, path, endpoint string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode %s: %w", endpoint, err)
	}
	return c.send(ctx, method, path, endpoint, bytes.NewReader(body), "application/json", out)
}

// send performs one call. Non-2xx responses become *Error; out may be nil
// when the caller does not use the body.
func (c *Conn) send(ctx context.Context, method, path, endpoint string, body io.Reader, contentType string, out any) error {
	ctx = withEndpoint(ctx, endpoint)
	req, err := http.NewRequestWithContext(ctx, method, c.client.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", endpoint, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.doer.Do(req)
	if err != nil {
		c.client.log.Warn().Err(err).Str("method", method).Str("endpoint", endpoint).Msg("backend unreachable")
		return fmt.Errorf("%s %s: %w: %v", method, endpoint, domain.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newError(endpoint, resp)
		c.client.log.Debug().
			Str("method", method).
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Str("detail", apiErr.Detail).
			Msg("backend rejected request")
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

func isStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == status
}
