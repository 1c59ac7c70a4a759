package schoolpass

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/schoolpass-automations/automations/pkg/logger"
)

// maxBodySize bounds how much of a response body is read.
const maxBodySize = 10 << 20

// ReauthFunc obtains a fresh token after the current one was rejected.
type ReauthFunc func(ctx context.Context) (string, error)

// Request describes one call made through Client.Send.
type Request struct {
	Method string
	// Path is resolved against the session base URL unless it is absolute.
	Path  string
	Query url.Values
	// Body is JSON encoded when non-nil.
	Body any
	// SkipReauth treats a 401 as final. Token requests set it so a
	// rejected refresh never recurses into another refresh.
	SkipReauth bool
}

// outcome is the action Send takes after a response.
type outcome int

const (
	outcomeOK outcome = iota
	outcomeReauth
	outcomeBackoff
	outcomeFail
)

// classify maps a response status to the next action. reauthed reports
// whether the request has already been resubmitted after a 401.
func classify(status int, reauthed bool) outcome {
	switch {
	case status >= 200 && status < 300:
		return outcomeOK
	case status == http.StatusUnauthorized && !reauthed:
		return outcomeReauth
	case status == http.StatusTooManyRequests:
		return outcomeBackoff
	default:
		return outcomeFail
	}
}

// Client sends requests on behalf of a Session. It refreshes the token once
// per request on 401 and waits out 429 responses.
type Client struct {
	session *Session
	reauth  ReauthFunc
	opts    *options
	logger  *slog.Logger
}

// NewClient returns a client bound to session. A nil reauth disables token
// refresh; a 401 is then returned as *APIError.
func NewClient(session *Session, reauth ReauthFunc, opts ...Option) *Client {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if session == nil {
		session = &Session{}
	}
	return &Client{
		session: session,
		reauth:  reauth,
		opts:    o,
		logger:  o.logger.With(logger.Component("schoolpass")),
	}
}

// Session returns the session the client authenticates with.
func (c *Client) Session() *Session { return c.session }

// Do is shorthand for Send with an authenticated request.
func (c *Client) Do(ctx context.Context, method, path string, body any, query url.Values, out any) error {
	return c.Send(ctx, Request{Method: method, Path: path, Body: body, Query: query}, out)
}

// Send performs r and decodes a successful JSON response into out. When out
// is a *[]byte the raw body is stored instead. A nil out discards the body.
func (c *Client) Send(ctx context.Context, r Request, out any) error {
	var payload []byte
	if r.Body != nil {
		var err error
		if payload, err = json.Marshal(r.Body); err != nil {
			return fmt.Errorf("schoolpass: failed to marshal request body: %w", err)
		}
	}

	target, err := c.resolve(r.Path, r.Query)
	if err != nil {
		return err
	}

	reauthed := r.SkipReauth || c.reauth == nil
	rateLimited := 0

	for {
		status, header, body, err := c.roundTrip(ctx, r.Method, target, payload)
		if err != nil {
			return err
		}

		switch classify(status, reauthed) {
		case outcomeOK:
			return decode(body, out)

		case outcomeReauth:
			reauthed = true
			c.logger.DebugContext(ctx, "unauthorized response", logger.URL(target), slog.String("body", messageFromBody(body)))
			c.logger.WarnContext(ctx, "Authentication token possibly expired. Auto refreshing token...", logger.URL(target))

			token, rerr := c.reauth(ctx)
			if rerr == nil && token == "" {
				rerr = ErrInvalidToken
			}
			if rerr != nil {
				c.logger.ErrorContext(ctx, "Unable to auto refresh authentication token", logger.URL(target), logger.Error(rerr))
				return fmt.Errorf("%w: %w: %w", ErrReauthFailed, newAPIError(r.Method, target, status, body), rerr)
			}
			c.session.Token = token

		case outcomeBackoff:
			apiErr := newAPIError(r.Method, target, status, body)
			if rateLimited >= c.opts.maxRateLimitRetries {
				c.logger.ErrorContext(ctx, "Rate limit retries exhausted", logger.URL(target), logger.RetryCount(rateLimited))
				return fmt.Errorf("%w: %w", ErrRateLimited, apiErr)
			}
			rateLimited++

			wait := parseRetryAfter(header.Get("Retry-After"), time.Now()) + c.opts.rateLimitPadding
			c.logger.WarnContext(ctx, fmt.Sprintf("Rate limit reached. Retrying after %d seconds", int(wait.Seconds())),
				logger.URL(target), logger.RetryCount(rateLimited), logger.Duration(wait))

			if err := c.opts.sleep(ctx, wait); err != nil {
				return err
			}

		default:
			return newAPIError(r.Method, target, status, body)
		}
	}
}

func (c *Client) resolve(path string, query url.Values) (string, error) {
	var raw string
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		raw = path
	} else {
		if c.session.BaseURL == "" {
			return "", ErrNotInitialized
		}
		raw = strings.TrimRight(c.session.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("schoolpass: invalid request URL %q: %w", raw, err)
	}
	if len(query) > 0 {
		q := u.Query()
		for k, vs := range query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func (c *Client) roundTrip(ctx context.Context, method, target string, payload []byte) (int, http.Header, []byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("schoolpass: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.session.authorize(req)

	resp, err := c.opts.httpClient.Do(req)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("schoolpass: %s %s: %w", method, target, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return 0, nil, nil, fmt.Errorf("schoolpass: failed to read response body: %w", err)
	}
	return resp.StatusCode, resp.Header, data, nil
}

func decode(body []byte, out any) error {
	switch v := out.(type) {
	case nil:
		return nil
	case *[]byte:
		*v = body
		return nil
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %w", ErrDecodeResponse, err)
	}
	return nil
}

// parseRetryAfter reads a Retry-After value given in seconds or as an HTTP
// date. Missing, invalid and past values yield zero.
func parseRetryAfter(value string, now time.Time) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := at.Sub(now); d > 0 {
			return d.Truncate(time.Second)
		}
	}
	return 0
}
