// Package api is the HTTP client for the restroom REST API.  Every call
// targets one base origin, carries JSON, and runs the request interceptor
// that attaches the visitor's token.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// TokenSource supplies the token attached to outbound requests.
type TokenSource interface {
	Token(ctx context.Context) (string, bool)
}

type noTokens struct{}

func (noTokens) Token(context.Context) (string, bool) { return "", false }

// Client talks to the restroom API.  A Client is safe for concurrent use;
// WithTokens derives a per-visitor copy sharing the same transport.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	tokens  TokenSource
}

// New creates a client for baseURL (e.g. http://localhost:8000/api).  A
// zero timeout leaves calls bounded only by the caller's context.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		timeout: timeout,
		tokens:  noTokens{},
	}
}

// WithHTTPClient replaces the underlying transport.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	cp := *c
	cp.http = hc
	return &cp
}

// WithTokens returns a copy of c whose interceptor reads from src.
func (c *Client) WithTokens(src TokenSource) *Client {
	cp := *c
	if src == nil {
		src = noTokens{}
	}
	cp.tokens = src
	return &cp
}

// BaseURL returns the base origin of the client.
func (c *Client) BaseURL() string { return c.baseURL }

// call describes one request.  anonymous calls skip the interceptor.
type call struct {
	method    string
	path      string
	body      any
	out       any
	anonymous bool
}

// intercept runs before every request: it attaches "Authorization: Token
// <value>" when a token is stored and leaves the request untouched otherwise.
func (c *Client) intercept(ctx context.Context, req *http.Request) {
	if tok, ok := c.tokens.Token(ctx); ok {
		req.Header.Set("Authorization", "Token "+tok)
	}
}

func (c *Client) do(ctx context.Context, cl call) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if cl.body != nil {
		data, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if !cl.anonymous {
		c.intercept(ctx, req)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", cl.method, cl.path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newError(cl.method, cl.path, resp.StatusCode, raw)
	}
	if cl.out != nil && len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, cl.out); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}
