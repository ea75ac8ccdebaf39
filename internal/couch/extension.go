package couch

import (
	"context"
	"sync"

	"github.com/NexusGPU/couchgo/internal/app"
	"github.com/NexusGPU/couchgo/internal/config"
	"github.com/NexusGPU/couchgo/internal/dburl"
	"github.com/NexusGPU/couchgo/internal/errors"
	"github.com/NexusGPU/couchgo/internal/log"
	"go.uber.org/multierr"
)

// ExtensionName is the key the extension state is registered under
const ExtensionName = "couchdb"

// HookFunc runs after the default open or close connection step
type HookFunc func(ctx context.Context, a *app.App) error

// State is what an initialized extension registers on its app
type State struct {
	Ext        *Extension
	Connectors map[string]any
}

// Extension connects an app to a CouchDB server. After InitApp the server
// client and, when COUCH_DB is configured, the application database are
// available.
type Extension struct {
	base      *log.Logger
	log       *log.Logger
	metrics   *Metrics
	clientOps []ClientOption

	mu        sync.RWMutex
	app       *app.App
	uri       string
	client    *Client
	db        *Database
	openHook  HookFunc
	closeHook HookFunc
	listening map[*app.App]bool
}

// Option configures an Extension
type Option func(*Extension)

// WithExtensionLogger sets the logger
func WithExtensionLogger(l *log.Logger) Option {
	return func(e *Extension) {
		e.base = l
	}
}

// WithExtensionMetrics sets the collectors passed to the client
func WithExtensionMetrics(m *Metrics) Option {
	return func(e *Extension) {
		e.metrics = m
	}
}

// WithClientOptions appends options used when the connection is opened
func WithClientOptions(opts ...ClientOption) Option {
	return func(e *Extension) {
		e.clientOps = append(e.clientOps, opts...)
	}
}

// WithOpenHook is OnOpen as an option, for use with New and an app
func WithOpenHook(fn HookFunc) Option {
	return func(e *Extension) {
		e.openHook = fn
	}
}

// WithCloseHook is OnClose as an option
func WithCloseHook(fn HookFunc) Option {
	return func(e *Extension) {
		e.closeHook = fn
	}
}

// New creates an extension. When a is non-nil the extension is initialized
// against it straight away with the given uri.
func New(ctx context.Context, a *app.App, uri string, opts ...Option) (*Extension, error) {
	e := &Extension{}
	for _, opt := range opts {
		opt(e)
	}
	if e.base == nil {
		e.base = log.Default
	}
	e.log = e.base.WithComponent("couch")
	if e.metrics == nil {
		e.metrics = NewMetrics(nil)
	}

	if a != nil {
		if err := e.InitApp(ctx, a, uri); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// OnOpen sets a hook run after the default open connection step
func (e *Extension) OnOpen(fn HookFunc) HookFunc {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.openHook = fn
	return fn
}

// OnClose sets a hook run after the default close connection step
func (e *Extension) OnClose(fn HookFunc) HookFunc {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closeHook = fn
	return fn
}

// InitApp resolves the connection settings of a, opens the connection and
// registers the extension state on a.
//
// The URI is taken from uri, then COUCH_DATABASE_URI. A full connection URI
// fills COUCH_URI with the server endpoint and COUCH_USER, COUCH_PASSWORD and
// COUCH_DB with the parts it carries. Without one, COUCH_URI must already be
// set. COUCH_USER and COUCH_PASSWORD are required either way.
func (e *Extension) InitApp(ctx context.Context, a *app.App, uri string) error {
	cfg := a.Config
	if uri == "" {
		uri = cfg.GetString(config.KeyDatabaseURI)
	}

	switch {
	case uri != "":
		if err := applyConnectionURI(a, uri); err != nil {
			return err
		}
	case cfg.GetString(config.KeyURI) != "":
		uri = cfg.GetString(config.KeyURI)
	default:
		return errors.ErrCouchURIMissing
	}

	if cfg.GetString(config.KeyUser) == "" {
		return errors.ErrCouchUserMissing
	}
	if cfg.GetString(config.KeyPassword) == "" {
		return errors.ErrCouchPasswordMissing
	}

	e.mu.Lock()
	e.uri = uri
	e.app = a
	openHook := e.openHook
	e.mu.Unlock()

	if err := e.DefaultOpenConnection(ctx, a); err != nil {
		return err
	}
	if openHook != nil {
		if err := openHook(ctx, a); err != nil {
			return multierr.Append(err, e.DefaultCloseConnection(ctx, a))
		}
	}

	e.listenShutdown(a)

	a.SetExtension(ExtensionName, &State{Ext: e, Connectors: make(map[string]any)})
	e.log.Info().Str("app", a.Name).Str("uri", redact(uri)).Msg("couch extension initialized")
	return nil
}

// listenShutdown registers the close listener on a, once per app
func (e *Extension) listenShutdown(a *app.App) {
	e.mu.Lock()
	if e.listening == nil {
		e.listening = make(map[*app.App]bool)
	}
	registered := e.listening[a]
	e.listening[a] = true
	e.mu.Unlock()
	if registered {
		return
	}

	a.OnShutdown(func(ctx context.Context) error {
		err := e.DefaultCloseConnection(ctx, a)
		e.mu.RLock()
		closeHook := e.closeHook
		e.mu.RUnlock()
		if closeHook != nil {
			err = multierr.Append(err, closeHook(ctx, a))
		}
		return err
	})
}

// applyConnectionURI derives the server endpoint and credentials from a
// full connection URI.
func applyConnectionURI(a *app.App, uri string) error {
	u, err := dburl.MakeURL(uri)
	if err != nil {
		return err
	}
	if u.Host() == "" {
		return errors.BadRequest("connection URI " + u.String() + " has no host")
	}
	transport, err := u.DriverName(nil)
	if err != nil {
		return errors.BadRequest("cannot resolve transport: " + err.Error())
	}
	if transport != "http" && transport != "https" {
		return errors.BadRequest("unsupported transport " + transport)
	}

	cfg := a.Config
	cfg.Set(config.KeyURI, transport+"://"+u.HostPort())
	if user, ok := u.Username(); ok {
		cfg.Set(config.KeyUser, user)
	}
	if password, ok := u.Password(); ok {
		cfg.Set(config.KeyPassword, password)
	}
	if database, ok := u.Database(); ok && database != "" {
		cfg.Set(config.KeyDB, database)
	}
	return nil
}

// DefaultOpenConnection connects to COUCH_URI and, when COUCH_DB is set,
// creates the database unless it exists. A client from an earlier call is
// closed once the new one is in place.
func (e *Extension) DefaultOpenConnection(ctx context.Context, a *app.App) error {
	cfg := a.Config
	opts := []ClientOption{
		WithURL(cfg.GetString(config.KeyURI)),
		WithAuthMode(cfg.GetString(config.KeyAuth)),
		WithLogger(e.base),
		WithMetrics(e.metrics),
		WithConnect(),
	}
	if timeout := cfg.GetDuration(config.KeyTimeout); timeout > 0 {
		opts = append(opts, WithTimeout(timeout))
	}
	opts = append(opts, e.clientOps...)

	client, err := NewClient(ctx, cfg.GetString(config.KeyUser), cfg.GetString(config.KeyPassword), opts...)
	if err != nil {
		return err
	}

	var db *Database
	if name := cfg.GetString(config.KeyDB); name != "" {
		db, err = client.CreateDatabase(ctx, name, false)
		if err != nil {
			return multierr.Append(err, client.Close(ctx))
		}
	}

	e.mu.Lock()
	prev := e.client
	e.client = client
	e.db = db
	e.mu.Unlock()

	if prev != nil {
		if err := prev.Close(ctx); err != nil {
			e.log.Warn().Err(err).Msg("failed to close replaced couch client")
		}
	}
	return nil
}

// DefaultCloseConnection closes the client opened by DefaultOpenConnection
func (e *Extension) DefaultCloseConnection(ctx context.Context, _ *app.App) error {
	e.mu.Lock()
	client := e.client
	e.client = nil
	e.db = nil
	e.mu.Unlock()

	if client == nil {
		return nil
	}
	err := client.Close(ctx)
	if err != nil {
		e.log.Warn().Err(err).Msg("failed to close couch client")
	}
	return err
}

// App returns ref when given, else the app the extension was initialized
// with.
func (e *Extension) App(ref *app.App) (*app.App, error) {
	if ref != nil {
		return ref, nil
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.app != nil {
		return e.app, nil
	}
	return nil, errors.ErrNoApplication
}

// Client returns the open client, or nil
func (e *Extension) Client() *Client {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.client
}

// DB returns the application database, or nil when COUCH_DB is not set
func (e *Extension) DB() *Database {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.db
}

// URI returns the URI the extension was initialized from
func (e *Extension) URI() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.uri
}

// FromApp returns the extension registered on a
func FromApp(a *app.App) (*Extension, bool) {
	v, ok := a.Extension(ExtensionName)
	if !ok {
		return nil, false
	}
	state, ok := v.(*State)
	if !ok {
		return nil, false
	}
	return state.Ext, true
}

func redact(uri string) string {
	u, err := dburl.Parse(uri)
	if err != nil {
		return "<invalid>"
	}
	return u.String()
}
