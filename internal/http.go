package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jdxj/v2ex-api/pkg/ratelimit"
)

// Client manages communication with the V2EX API. It resolves relative
// endpoint paths against the base URL, applies the bearer token to every
// request, and records rate-limit headers into the shared tracker as a side
// effect of each exchange.
//
// The client is immutable after construction and safe for concurrent use;
// the tracker is the only shared mutable state.
type Client struct {
	client  *http.Client
	BaseURL *url.URL
	token   string
	limits  *ratelimit.Tracker
	logger  *zerolog.Logger
}

// NewClient returns a new V2EX API client.
// If a nil httpClient is provided, http.DefaultClient will be used.
// A nil logger disables debug logging.
func NewClient(httpClient *http.Client, token, baseURL string, limits *ratelimit.Tracker, logger *zerolog.Logger) (*Client, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if !strings.HasSuffix(parsedURL.Path, "/") {
		parsedURL.Path += "/"
	}

	c := &Client{
		client:  httpClient,
		BaseURL: parsedURL,
		token:   token,
		limits:  limits,
		logger:  logger,
	}

	return c, nil
}

// NewRequest creates an API request. The path must be relative to the
// client's BaseURL. A non-nil query is encoded into the URL; a non-nil body
// is JSON-encoded and sent with a JSON content type.
func (c *Client) NewRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	u, err := c.BaseURL.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path %q: %w", path, err)
	}
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var buf *bytes.Buffer
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		buf = bytes.NewBuffer(encoded)
	}

	var req *http.Request
	if buf != nil {
		req, err = http.NewRequestWithContext(ctx, method, u.String(), buf)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, u.String(), nil)
	}
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// Do sends an API request and decodes the response body into the value
// pointed to by v, which may be nil to discard the body.
//
// Rate-limit headers are recorded before the body is touched, so the
// tracker reflects the exchange even when decoding fails afterwards. The
// body is decoded regardless of HTTP status: the API reports application
// failures as well-formed {success:false} bodies, which are results, not
// errors.
func (c *Client) Do(req *http.Request, v any) (*http.Response, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if c.limits != nil {
		c.limits.UpdateFromHeaders(resp.Header)
	}

	if c.logger != nil {
		evt := c.logger.Debug().
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Int("status", resp.StatusCode)
		if c.limits != nil {
			evt = evt.Uint16("rate_remaining", c.limits.Remaining())
		}
		evt.Msg("API exchange completed")
	}

	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			return resp, fmt.Errorf("decode response body: %w", err)
		}
	}

	return resp, nil
}
