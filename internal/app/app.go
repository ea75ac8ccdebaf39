// Package app provides the web application object extensions attach to: a
// gin engine, a settings store, a registry of named extensions and a list of
// shutdown listeners.
package app

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/NexusGPU/couchgo/internal/config"
	"github.com/NexusGPU/couchgo/internal/errors"
	"github.com/NexusGPU/couchgo/internal/log"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
)

// ShutdownFunc is called when the application stops serving
type ShutdownFunc func(ctx context.Context) error

// App is a web application
type App struct {
	Name   string
	Config *viper.Viper
	Engine *gin.Engine

	log *log.Logger

	mu         sync.RWMutex
	extensions map[string]any
	onShutdown []ShutdownFunc
	closed     bool
}

// Option configures an App
type Option func(*App)

// WithConfig sets the settings store
func WithConfig(v *viper.Viper) Option {
	return func(a *App) {
		a.Config = v
	}
}

// WithEngine sets the gin engine
func WithEngine(e *gin.Engine) Option {
	return func(a *App) {
		a.Engine = e
	}
}

// WithLogger sets the logger
func WithLogger(l *log.Logger) Option {
	return func(a *App) {
		a.log = l
	}
}

// New creates an application with default settings and a gin engine that
// recovers from handler panics.
func New(name string, opts ...Option) *App {
	a := &App{
		Name:       name,
		extensions: make(map[string]any),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.Config == nil {
		a.Config = config.NewSettings()
	}
	if a.Engine == nil {
		a.Engine = gin.New()
		a.Engine.Use(gin.Recovery())
	}
	if a.log == nil {
		a.log = log.Default
	}
	a.log = a.log.WithComponent("app")
	return a
}

// SetExtension registers ext under name, replacing any previous value
func (a *App) SetExtension(name string, ext any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.extensions[name] = ext
}

// Extension returns the extension registered under name
func (a *App) Extension(name string) (any, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	ext, ok := a.extensions[name]
	return ext, ok
}

// OnShutdown registers fn to run when the application shuts down.
// Listeners run in reverse registration order.
func (a *App) OnShutdown(fn ShutdownFunc) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onShutdown = append(a.onShutdown, fn)
}

// Shutdown runs the shutdown listeners once. Later calls are no-ops.
func (a *App) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	hooks := a.onShutdown
	a.mu.Unlock()

	var err error
	for i := len(hooks) - 1; i >= 0; i-- {
		err = multierr.Append(err, hooks[i](ctx))
	}
	if err != nil {
		a.log.Error().Err(err).Msg("shutdown listeners failed")
	}
	return err
}

// Run listens on addr and serves until ctx is cancelled. The shutdown
// listeners run even when addr cannot be bound.
func (a *App) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return multierr.Append(errors.Wrap(err, "failed to listen on "+addr), a.Shutdown(ctx))
	}
	return a.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then stops the HTTP server and
// runs the shutdown listeners.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           a.Engine,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	a.log.Info().Str("addr", ln.Addr().String()).Str("app", a.Name).Msg("serving")

	var serveErr error
	select {
	case serveErr = <-errCh:
		if errors.Is(serveErr, http.ErrServerClosed) {
			serveErr = nil
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	err := multierr.Combine(serveErr, srv.Shutdown(shutdownCtx), a.Shutdown(shutdownCtx))
	a.log.Info().Str("app", a.Name).Msg("stopped")
	return err
}
