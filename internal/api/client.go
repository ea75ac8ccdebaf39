package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/NexusGPU/couchgo/internal/errors"
	"github.com/go-resty/resty/v2"
	"k8s.io/klog/v2"
)

const (
	defaultBaseURL    = "http://127.0.0.1:5984"
	defaultTimeout    = 30 * time.Second
	sessionCookieName = "AuthSession"
)

// Client talks to the server-level CouchDB endpoints that sit outside any
// database: the welcome document, health, sessions and the database list.
type Client struct {
	baseURL    string
	httpClient *resty.Client
	username   string
	password   string

	mu      sync.RWMutex
	session *http.Cookie
}

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithBaseURL sets the server URL, e.g. "https://couch.example.com:6984"
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithBasicAuth sets the credentials used for basic auth and session login
func WithBasicAuth(username, password string) ClientOption {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.SetTimeout(timeout)
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient *resty.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a new server API client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: resty.New().SetTimeout(defaultTimeout),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// BaseURL returns the server URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// HasSession reports whether a session cookie from Login is held
func (c *Client) HasSession() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session != nil
}

// newRequest attaches the session cookie when one is held, falling back to
// basic auth when credentials are configured.
func (c *Client) newRequest(ctx context.Context) *resty.Request {
	req := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetError(&ErrorResponse{})

	c.mu.RLock()
	session := c.session
	c.mu.RUnlock()

	switch {
	case session != nil:
		req.SetCookie(session)
	case c.username != "":
		req.SetBasicAuth(c.username, c.password)
	}
	return req
}

// statusError maps a non-2xx response onto the error sentinels.
func statusError(path string, resp *resty.Response) error {
	reason := resp.String()
	if e, ok := resp.Error().(*ErrorResponse); ok && e.Error != "" {
		reason = e.Error
		if e.Reason != "" {
			reason += ": " + e.Reason
		}
	}

	switch resp.StatusCode() {
	case http.StatusNotFound:
		return errors.NotFound("resource", path)
	case http.StatusUnauthorized, http.StatusForbidden:
		return errors.Unauthorized(reason)
	case http.StatusConflict:
		return errors.Conflict(path, reason)
	case http.StatusServiceUnavailable:
		return errors.Unavailable(reason)
	}
	return fmt.Errorf("request failed: status %d, body: %s", resp.StatusCode(), reason)
}

// doGet performs a GET request and decodes a 200 response
func doGet[T any](c *Client, ctx context.Context, path string) (*T, error) {
	klog.V(2).Infof("doGet: path=%s", path)
	var resp T
	httpResp, err := c.newRequest(ctx).
		SetResult(&resp).
		Get(c.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if httpResp.StatusCode() != http.StatusOK {
		return nil, statusError(path, httpResp)
	}

	return &resp, nil
}

// doPost performs a POST request with a JSON body
func doPost[T any](c *Client, ctx context.Context, path string, body any) (*T, *resty.Response, error) {
	klog.V(2).Infof("doPost: path=%s", path)
	var resp T
	httpResp, err := c.newRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&resp).
		Post(c.baseURL + path)
	if err != nil {
		return nil, nil, fmt.Errorf("request failed: %w", err)
	}

	if httpResp.StatusCode() != http.StatusOK && httpResp.StatusCode() != http.StatusCreated {
		return nil, httpResp, statusError(path, httpResp)
	}

	return &resp, httpResp, nil
}

// doDelete performs a DELETE request
func doDelete(c *Client, ctx context.Context, path string) error {
	klog.V(2).Infof("doDelete: path=%s", path)
	httpResp, err := c.newRequest(ctx).Delete(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	if httpResp.StatusCode() != http.StatusOK && httpResp.StatusCode() != http.StatusNoContent {
		return statusError(path, httpResp)
	}

	return nil
}

// --- Server APIs ---

// Welcome fetches the server welcome document
func (c *Client) Welcome(ctx context.Context) (*Welcome, error) {
	return doGet[Welcome](c, ctx, "/")
}

// Up checks whether the node is up and ready to serve requests
func (c *Client) Up(ctx context.Context) (*UpResponse, error) {
	return doGet[UpResponse](c, ctx, "/_up")
}

// AllDBs lists the databases on the server
func (c *Client) AllDBs(ctx context.Context) ([]string, error) {
	dbs, err := doGet[[]string](c, ctx, "/_all_dbs")
	if err != nil {
		return nil, err
	}
	return *dbs, nil
}

// --- Session APIs ---

// Login opens a cookie session with the configured credentials. Later
// requests carry the session cookie instead of basic auth.
func (c *Client) Login(ctx context.Context) (*LoginResponse, error) {
	if c.username == "" {
		return nil, errors.NotConfigured("username")
	}

	resp, httpResp, err := doPost[LoginResponse](c, ctx, "/_session", &LoginRequest{
		Name:     c.username,
		Password: c.password,
	})
	if err != nil {
		return nil, err
	}

	for _, cookie := range httpResp.Cookies() {
		if cookie.Name == sessionCookieName {
			c.mu.Lock()
			c.session = cookie
			c.mu.Unlock()
			break
		}
	}

	return resp, nil
}

// Session returns information about the current authentication
func (c *Client) Session(ctx context.Context) (*SessionInfo, error) {
	return doGet[SessionInfo](c, ctx, "/_session")
}

// Logout closes the cookie session, if any
func (c *Client) Logout(ctx context.Context) error {
	if !c.HasSession() {
		return nil
	}
	if err := doDelete(c, ctx, "/_session"); err != nil {
		return err
	}
	c.mu.Lock()
	c.session = nil
	c.mu.Unlock()
	return nil
}
