// Package couch wires a CouchDB server into an app.App: a client with a
// per-database document cache, the extension lifecycle, and gin handlers.
package couch

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/NexusGPU/couchgo/internal/api"
	"github.com/NexusGPU/couchgo/internal/config"
	"github.com/NexusGPU/couchgo/internal/errors"
	"github.com/NexusGPU/couchgo/internal/log"
	kivik "github.com/go-kivik/kivik/v4"
	"github.com/go-kivik/kivik/v4/couchdb"
	"go.uber.org/multierr"
)

const (
	driverName     = "couch"
	defaultURL     = "http://127.0.0.1:5984"
	defaultTimeout = 30 * time.Second
)

// Client is a connection to one CouchDB server. Document access goes
// through kivik; server endpoints go through the api client.
type Client struct {
	kivik   *kivik.Client
	server  *api.Client
	url     string
	user    string
	auth    string
	log     *log.Logger
	metrics *Metrics

	mu        sync.Mutex
	databases map[string]*Database
}

type clientOptions struct {
	url     string
	auth    string
	timeout time.Duration
	connect bool
	logger  *log.Logger
	metrics *Metrics
}

// ClientOption configures NewClient
type ClientOption func(*clientOptions)

// WithURL sets the server URL, scheme://host[:port]
func WithURL(url string) ClientOption {
	return func(o *clientOptions) {
		o.url = url
	}
}

// WithAuthMode selects config.AuthCookie or config.AuthBasic
func WithAuthMode(mode string) ClientOption {
	return func(o *clientOptions) {
		o.auth = mode
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(o *clientOptions) {
		o.timeout = timeout
	}
}

// WithConnect makes NewClient authenticate before returning
func WithConnect() ClientOption {
	return func(o *clientOptions) {
		o.connect = true
	}
}

// WithLogger sets the logger
func WithLogger(l *log.Logger) ClientOption {
	return func(o *clientOptions) {
		o.logger = l
	}
}

// WithMetrics sets the collectors the document caches report to
func WithMetrics(m *Metrics) ClientOption {
	return func(o *clientOptions) {
		o.metrics = m
	}
}

// NewClient creates a client for the server with the given credentials
func NewClient(ctx context.Context, user, password string, opts ...ClientOption) (*Client, error) {
	o := clientOptions{
		url:     defaultURL,
		auth:    config.AuthCookie,
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.Default
	}
	if o.metrics == nil {
		o.metrics = NewMetrics(nil)
	}

	var authOpt kivik.Option
	switch o.auth {
	case config.AuthCookie:
		authOpt = couchdb.CookieAuth(user, password)
	case config.AuthBasic:
		authOpt = couchdb.BasicAuth(user, password)
	default:
		return nil, errors.BadRequest("unknown auth mode " + o.auth)
	}

	kc, err := kivik.New(driverName, o.url, authOpt,
		couchdb.OptionHTTPClient(&http.Client{Timeout: o.timeout}))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create couch client")
	}

	c := &Client{
		kivik: kc,
		server: api.NewClient(
			api.WithBaseURL(o.url),
			api.WithBasicAuth(user, password),
			api.WithTimeout(o.timeout),
		),
		url:       o.url,
		user:      user,
		auth:      o.auth,
		log:       o.logger.WithComponent("couch"),
		metrics:   o.metrics,
		databases: make(map[string]*Database),
	}

	if o.connect {
		if err := c.Connect(ctx); err != nil {
			_ = kc.Close()
			return nil, err
		}
	}
	return c, nil
}

// URL returns the server URL
func (c *Client) URL() string {
	return c.url
}

// Server returns the client for server-level endpoints
func (c *Client) Server() *api.Client {
	return c.server
}

// Connect checks the credentials. Cookie auth opens a session; basic auth
// asks the server who the credentials belong to.
func (c *Client) Connect(ctx context.Context) error {
	if c.auth == config.AuthCookie {
		resp, err := c.server.Login(ctx)
		if err != nil {
			return err
		}
		c.log.Info().Str("url", c.url).Str("user", resp.Name).Msg("session opened")
		return nil
	}

	info, err := c.server.Session(ctx)
	if err != nil {
		return err
	}
	if info.UserCtx.Name == nil {
		return errors.Unauthorized("credentials for " + c.user + " were not accepted")
	}
	c.log.Info().Str("url", c.url).Str("user", *info.UserCtx.Name).Msg("credentials verified")
	return nil
}

// Database returns a handle for an existing database. Handles are shared so
// the document cache survives between calls.
func (c *Client) Database(name string) *Database {
	c.mu.Lock()
	defer c.mu.Unlock()
	if db, ok := c.databases[name]; ok {
		return db
	}
	db := newDatabase(c.kivik.DB(name), c.log, c.metrics)
	c.databases[name] = db
	return db
}

// CreateDatabase creates the database unless it already exists. An existing
// database is an error only when throwOnExists is set.
func (c *Client) CreateDatabase(ctx context.Context, name string, throwOnExists bool) (*Database, error) {
	exists, err := c.kivik.DBExists(ctx, name)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check database "+name)
	}
	if exists {
		if throwOnExists {
			return nil, errors.Conflict("database", name+" already exists")
		}
		return c.Database(name), nil
	}

	if err := c.kivik.CreateDB(ctx, name); err != nil {
		// Lost a race with another creator.
		if kivik.HTTPStatus(err) == http.StatusPreconditionFailed && !throwOnExists {
			return c.Database(name), nil
		}
		return nil, errors.Wrap(err, "failed to create database "+name)
	}
	c.log.Info().Str("database", name).Msg("database created")
	return c.Database(name), nil
}

// Close ends the session, if any, and releases the client
func (c *Client) Close(ctx context.Context) error {
	var err error
	if c.server.HasSession() {
		err = c.server.Logout(ctx)
	}
	return multierr.Append(err, c.kivik.Close())
}
