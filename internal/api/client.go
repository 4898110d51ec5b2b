package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

// TokenSource supplies the current session bearer token, or "" when the
// client is unauthenticated (guest browsing).
type TokenSource interface {
	Token() string
}

// Client is the shared HTTP client for the storefront API. Typed
// per-resource clients wrap it.
type Client struct {
	BaseURL *url.URL
	HTTP    *http.Client

	tokens TokenSource
	log    *zap.Logger

	// onUnauthorized is the one centralized cross-cutting error policy:
	// any 401 tears down the session regardless of which call hit it.
	onUnauthorized func()
}

func NewClient(baseURL string, httpClient *http.Client, tokens TokenSource, log *zap.Logger) *Client {
	u, err := url.Parse(baseURL)
	if err != nil {
		// Fail fast: config error
		panic(fmt.Sprintf("invalid api base url %q: %v", baseURL, err))
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{BaseURL: u, HTTP: httpClient, tokens: tokens, log: log}
}

// OnUnauthorized registers the session-teardown hook fired on any 401.
func (c *Client) OnUnauthorized(fn func()) { c.onUnauthorized = fn }

// Do sends a request with an optional JSON body and returns the raw
// response. Responses with status >= 400 are converted to *Error; the
// body of failed responses is consumed.
func (c *Client) Do(ctx context.Context, method, path, rawQuery string, body any) (*http.Response, error) {
	rel := &url.URL{Path: path, RawQuery: rawQuery}
	u := c.BaseURL.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := errorFromResponse(resp)
		resp.Body.Close()
		if apiErr.Status == http.StatusUnauthorized && c.onUnauthorized != nil {
			c.log.Warn("unauthorized response, tearing down session",
				zap.String("path", path))
			c.onUnauthorized()
		}
		return nil, apiErr
	}
	return resp, nil
}

// DoJSON performs a request and decodes the JSON response into dest.
// A nil dest discards the response body.
func (c *Client) DoJSON(ctx context.Context, method, path, rawQuery string, body, dest any) error {
	resp, err := c.Do(ctx, method, path, rawQuery, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if dest == nil {
		_, err = io.Copy(io.Discard, resp.Body)
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}
