package internal

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdxj/v2ex-api/pkg/ratelimit"
)

func TestNewClientNormalizesBaseURL(t *testing.T) {
	c, err := NewClient(nil, "tok", "https://www.v2ex.com/api/v2", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "/api/v2/", c.BaseURL.Path)
}

func TestNewRequestSetsBearerHeader(t *testing.T) {
	c, err := NewClient(nil, "secret-token", "https://www.v2ex.com/api/v2/", nil, nil)
	require.NoError(t, err)

	req, err := c.NewRequest(context.Background(), http.MethodGet, "member", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret-token", req.Header.Get("Authorization"))
	assert.Equal(t, "https://www.v2ex.com/api/v2/member", req.URL.String())
	assert.Empty(t, req.Header.Get("Content-Type"))
}

func TestNewRequestEncodesQuery(t *testing.T) {
	c, err := NewClient(nil, "tok", "https://www.v2ex.com/api/v2/", nil, nil)
	require.NoError(t, err)

	q := url.Values{}
	q.Set("p", "3")
	req, err := c.NewRequest(context.Background(), http.MethodGet, "notifications", q, nil)
	require.NoError(t, err)

	assert.Equal(t, "p=3", req.URL.RawQuery)
}

func TestNewRequestEncodesJSONBody(t *testing.T) {
	c, err := NewClient(nil, "tok", "https://www.v2ex.com/api/v2/", nil, nil)
	require.NoError(t, err)

	body := map[string]string{"scope": "regular"}
	req, err := c.NewRequest(context.Background(), http.MethodPost, "tokens", nil, body)
	require.NoError(t, err)

	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	raw, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"scope":"regular"}`, string(raw))
}

func TestDoUpdatesTrackerAndDecodes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(ratelimit.HeaderLimit, "600")
		w.Header().Set(ratelimit.HeaderRemaining, "599")
		w.Header().Set(ratelimit.HeaderReset, "3600")
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"success":true,"message":"ok"}`)
	}))
	defer server.Close()

	limits := &ratelimit.Tracker{}
	c, err := NewClient(server.Client(), "tok", server.URL, limits, nil)
	require.NoError(t, err)

	req, err := c.NewRequest(context.Background(), http.MethodGet, "notifications", nil, nil)
	require.NoError(t, err)

	var decoded struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	resp, err := c.Do(req, &decoded)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decoded.Success)

	assert.Equal(t, uint16(600), limits.Limit())
	assert.Equal(t, uint16(599), limits.Remaining())
	assert.Equal(t, int64(3600), limits.Reset())
}

func TestDoUpdatesTrackerBeforeDecodeFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(ratelimit.HeaderLimit, "600")
		w.Header().Set(ratelimit.HeaderRemaining, "42")
		w.Header().Set(ratelimit.HeaderReset, "120")
		io.WriteString(w, `{"success": tru`)
	}))
	defer server.Close()

	limits := &ratelimit.Tracker{}
	c, err := NewClient(server.Client(), "tok", server.URL, limits, nil)
	require.NoError(t, err)

	req, err := c.NewRequest(context.Background(), http.MethodGet, "member", nil, nil)
	require.NoError(t, err)

	var decoded struct{}
	_, err = c.Do(req, &decoded)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response body")

	// Header-derived state survives the decode failure.
	assert.Equal(t, uint16(600), limits.Limit())
	assert.Equal(t, uint16(42), limits.Remaining())
	assert.Equal(t, int64(120), limits.Reset())
}

func TestDoDecodesNon2xxBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"success":false,"message":"Node not found"}`)
	}))
	defer server.Close()

	c, err := NewClient(server.Client(), "tok", server.URL, nil, nil)
	require.NoError(t, err)

	req, err := c.NewRequest(context.Background(), http.MethodGet, "nodes/missing", nil, nil)
	require.NoError(t, err)

	var decoded struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	resp, err := c.Do(req, &decoded)
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.False(t, decoded.Success)
	assert.Equal(t, "Node not found", decoded.Message)
}

func TestDoTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	c, err := NewClient(nil, "tok", server.URL, nil, nil)
	require.NoError(t, err)

	req, err := c.NewRequest(context.Background(), http.MethodGet, "member", nil, nil)
	require.NoError(t, err)

	_, err = c.Do(req, nil)
	assert.Error(t, err)
}

func TestDoHonorsContextCancellation(t *testing.T) {
	block := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer server.Close()
	defer close(block)

	c, err := NewClient(server.Client(), "tok", server.URL, nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	req, err := c.NewRequest(ctx, http.MethodGet, "member", nil, nil)
	require.NoError(t, err)

	cancel()
	_, err = c.Do(req, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
