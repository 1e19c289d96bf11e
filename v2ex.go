package v2ex

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/jdxj/v2ex-api/internal"
	apierrors "github.com/jdxj/v2ex-api/pkg/errors"
	"github.com/jdxj/v2ex-api/pkg/ratelimit"
	"github.com/jdxj/v2ex-api/pkg/types"
)

const (
	// DefaultBaseURL is the fixed origin all endpoint paths are relative to.
	DefaultBaseURL = "https://www.v2ex.com/api/v2/"
	// DefaultTimeout is the default HTTP client timeout.
	DefaultTimeout = 30 * time.Second
)

// Config holds the configuration for the V2EX client.
//
// Only Token is required; the remaining fields exist for tests and tools
// that need to point the client at a different server or customize
// transport behavior.
type Config struct {
	// Token is the personal access token, sent as a bearer header on
	// every request. Create one at https://www.v2ex.com/settings/tokens.
	Token string

	// BaseURL for the V2EX API.
	// Defaults to DefaultBaseURL if not specified.
	BaseURL string

	// HTTPClient to use for requests.
	// Defaults to a client with DefaultTimeout if not specified.
	HTTPClient *http.Client

	// Logger for structured diagnostics.
	// Optional. If provided, each API exchange is logged at debug level.
	Logger *zerolog.Logger
}

// HTTPClient defines the behavior required from the internal HTTP client.
// This interface allows for easy testing and customization of HTTP behavior.
type HTTPClient interface {
	// NewRequest creates a new HTTP request with the bearer header applied.
	// The path is relative to the configured base URL.
	NewRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error)

	// Do executes an HTTP request, records rate-limit headers, and decodes
	// the response body into v.
	Do(req *http.Request, v any) (*http.Response, error)
}

// Client is the main V2EX API client.
//
// A single Client may be shared by any number of goroutines; every call is
// an independent round trip and the rate-limit tracker is the only shared
// mutable state.
type Client struct {
	client HTTPClient
	limits *ratelimit.Tracker
}

// New creates a client from a personal access token, with all other
// settings at their defaults.
func New(token string) (*Client, error) {
	return NewClient(&Config{Token: token})
}

// NewClient creates a new V2EX client with the provided configuration.
//
// Returns an error if:
//   - config is nil
//   - Token is missing
//   - BaseURL cannot be parsed
func NewClient(config *Config) (*Client, error) {
	if config == nil {
		return nil, &apierrors.ConfigError{Message: "config cannot be nil"}
	}
	if config.Token == "" {
		return nil, &apierrors.ConfigError{Field: "Token", Message: "token is required"}
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}

	limits := &ratelimit.Tracker{}
	client, err := internal.NewClient(httpClient, config.Token, baseURL, limits, config.Logger)
	if err != nil {
		return nil, &apierrors.ConfigError{Field: "BaseURL", Message: err.Error()}
	}

	return &Client{
		client: client,
		limits: limits,
	}, nil
}

// RateLimit returns the tracker holding the most recently observed
// rate-limit window. It is updated as a side effect of every call and may
// be read at any time, concurrently with in-flight requests.
func (c *Client) RateLimit() *ratelimit.Tracker {
	return c.limits
}

// GetNotifications retrieves a page of the authenticated member's
// notifications. page is 1-based; values <= 0 request page 1.
//
// The result payload's element shape is not finalized upstream, so the
// response carries only the status envelope.
func (c *Client) GetNotifications(ctx context.Context, page int) (*types.NotificationsResponse, error) {
	q := url.Values{}
	q.Set("p", strconv.Itoa(normalizePage(page)))

	req, err := c.client.NewRequest(ctx, http.MethodGet, "notifications", q, nil)
	if err != nil {
		return nil, &apierrors.RequestError{Operation: "GetNotifications", Err: err}
	}

	var result types.NotificationsResponse
	if _, err := c.client.Do(req, &result); err != nil {
		return nil, &apierrors.RequestError{Operation: "GetNotifications", URL: req.URL.String(), Err: err}
	}

	return &result, nil
}

// DeleteNotification deletes the notification with the given identifier.
func (c *Client) DeleteNotification(ctx context.Context, id uint64) (*types.DeleteNotificationResponse, error) {
	path := "notifications/" + strconv.FormatUint(id, 10)
	req, err := c.client.NewRequest(ctx, http.MethodDelete, path, nil, nil)
	if err != nil {
		return nil, &apierrors.RequestError{Operation: "DeleteNotification", Err: err}
	}

	var result types.DeleteNotificationResponse
	if _, err := c.client.Do(req, &result); err != nil {
		return nil, &apierrors.RequestError{Operation: "DeleteNotification", URL: req.URL.String(), Err: err}
	}

	return &result, nil
}

// GetMember retrieves the profile of the member the token belongs to.
func (c *Client) GetMember(ctx context.Context) (*types.MemberResponse, error) {
	req, err := c.client.NewRequest(ctx, http.MethodGet, "member", nil, nil)
	if err != nil {
		return nil, &apierrors.RequestError{Operation: "GetMember", Err: err}
	}

	var result types.MemberResponse
	if _, err := c.client.Do(req, &result); err != nil {
		return nil, &apierrors.RequestError{Operation: "GetMember", URL: req.URL.String(), Err: err}
	}

	return &result, nil
}

// GetToken retrieves details of the token used to make the call.
func (c *Client) GetToken(ctx context.Context) (*types.TokenResponse, error) {
	req, err := c.client.NewRequest(ctx, http.MethodGet, "token", nil, nil)
	if err != nil {
		return nil, &apierrors.RequestError{Operation: "GetToken", Err: err}
	}

	var result types.TokenResponse
	if _, err := c.client.Do(req, &result); err != nil {
		return nil, &apierrors.RequestError{Operation: "GetToken", URL: req.URL.String(), Err: err}
	}

	return &result, nil
}

// CreateToken mints a new personal access token with the requested scope
// and lifetime. The call must be made with a token whose scope permits it;
// tokens with the "regular" scope cannot mint further tokens. Scope and
// expiration validity is left to the server.
func (c *Client) CreateToken(ctx context.Context, request *types.CreateTokenRequest) (*types.TokenResponse, error) {
	if request == nil {
		return nil, &apierrors.RequestError{Operation: "CreateToken", Message: "request cannot be nil"}
	}

	req, err := c.client.NewRequest(ctx, http.MethodPost, "tokens", nil, request)
	if err != nil {
		return nil, &apierrors.RequestError{Operation: "CreateToken", Err: err}
	}

	var result types.TokenResponse
	if _, err := c.client.Do(req, &result); err != nil {
		return nil, &apierrors.RequestError{Operation: "CreateToken", URL: req.URL.String(), Err: err}
	}

	return &result, nil
}

// GetNode retrieves a node by its slug name (e.g. "python").
func (c *Client) GetNode(ctx context.Context, name string) (*types.NodeResponse, error) {
	req, err := c.client.NewRequest(ctx, http.MethodGet, "nodes/"+name, nil, nil)
	if err != nil {
		return nil, &apierrors.RequestError{Operation: "GetNode", Err: err}
	}

	var result types.NodeResponse
	if _, err := c.client.Do(req, &result); err != nil {
		return nil, &apierrors.RequestError{Operation: "GetNode", URL: req.URL.String(), Err: err}
	}

	return &result, nil
}

// GetNodeTopics retrieves a page of the topics in a node, newest first.
// page is 1-based; values <= 0 request page 1.
func (c *Client) GetNodeTopics(ctx context.Context, name string, page int) (*types.NodeTopicsResponse, error) {
	q := url.Values{}
	q.Set("p", strconv.Itoa(normalizePage(page)))

	req, err := c.client.NewRequest(ctx, http.MethodGet, "nodes/"+name+"/topics", q, nil)
	if err != nil {
		return nil, &apierrors.RequestError{Operation: "GetNodeTopics", Err: err}
	}

	var result types.NodeTopicsResponse
	if _, err := c.client.Do(req, &result); err != nil {
		return nil, &apierrors.RequestError{Operation: "GetNodeTopics", URL: req.URL.String(), Err: err}
	}

	return &result, nil
}

// GetTopic retrieves a topic by id, including its authoring member, owning
// node, and any supplements.
func (c *Client) GetTopic(ctx context.Context, id uint64) (*types.TopicResponse, error) {
	path := "topics/" + strconv.FormatUint(id, 10)
	req, err := c.client.NewRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, &apierrors.RequestError{Operation: "GetTopic", Err: err}
	}

	var result types.TopicResponse
	if _, err := c.client.Do(req, &result); err != nil {
		return nil, &apierrors.RequestError{Operation: "GetTopic", URL: req.URL.String(), Err: err}
	}

	return &result, nil
}

// GetTopicReplies retrieves a page of a topic's replies, oldest first.
// page is 1-based; values <= 0 request page 1.
func (c *Client) GetTopicReplies(ctx context.Context, id uint64, page int) (*types.TopicRepliesResponse, error) {
	q := url.Values{}
	q.Set("p", strconv.Itoa(normalizePage(page)))

	path := "topics/" + strconv.FormatUint(id, 10) + "/replies"
	req, err := c.client.NewRequest(ctx, http.MethodGet, path, q, nil)
	if err != nil {
		return nil, &apierrors.RequestError{Operation: "GetTopicReplies", Err: err}
	}

	var result types.TopicRepliesResponse
	if _, err := c.client.Do(req, &result); err != nil {
		return nil, &apierrors.RequestError{Operation: "GetTopicReplies", URL: req.URL.String(), Err: err}
	}

	return &result, nil
}

// normalizePage coerces non-positive page numbers to the API's first page.
func normalizePage(page int) int {
	if page <= 0 {
		return 1
	}
	return page
}
