// Package cmdutil holds the state and helpers shared by gcouch commands
package cmdutil

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/NexusGPU/couchgo/internal/app"
	"github.com/NexusGPU/couchgo/internal/config"
	"github.com/NexusGPU/couchgo/internal/couch"
	"github.com/NexusGPU/couchgo/internal/log"
	"github.com/NexusGPU/couchgo/internal/platform"
	"github.com/NexusGPU/couchgo/internal/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// AppName names the application the CLI builds
const AppName = "gcouch"

// Options are the root flags every command sees
type Options struct {
	Verbose   bool
	URI       string
	Output    string
	ConfigDir string
}

// AddFlags registers the root persistent flags
func (o *Options) AddFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.BoolVar(&o.Verbose, "verbose", false, "Enable debug logging")
	flags.StringVar(&o.URI, "uri", "", "Connection URI (overrides COUCH_DATABASE_URI and the saved profile)")
	flags.StringVarP(&o.Output, "output", "o", "table", "Output format (table, json)")
	flags.StringVar(&o.ConfigDir, "config-dir", platform.DefaultPaths().ConfigDir(), "Configuration directory")
}

// Out returns an output in the -o format writing to the command's stdout
func (o *Options) Out(cmd *cobra.Command) *tui.Output {
	return tui.NewOutputWithFormat(tui.ParseOutputFormat(o.Output)).SetWriter(cmd.OutOrStdout())
}

// Manager returns the profile manager for --config-dir
func (o *Options) Manager() *config.Manager {
	return config.NewManager(o.ConfigDir)
}

// Settings builds the effective settings. Precedence, highest first:
// --uri, environment, saved profile, defaults.
func (o *Options) Settings() (*viper.Viper, error) {
	v := config.NewSettings()
	if err := o.Manager().Apply(v); err != nil {
		return nil, err
	}
	if o.URI != "" {
		v.Set(config.KeyDatabaseURI, o.URI)
	}
	return v, nil
}

// OpenApp builds the application and initializes the couch extension on it.
// Callers own the app and must call Shutdown.
func (o *Options) OpenApp(ctx context.Context, logger *log.Logger, extOpts ...couch.Option) (*app.App, *couch.Extension, error) {
	v, err := o.Settings()
	if err != nil {
		return nil, nil, err
	}
	a := app.New(AppName, app.WithConfig(v), app.WithLogger(logger))
	extOpts = append([]couch.Option{couch.WithExtensionLogger(logger)}, extOpts...)
	ext, err := couch.New(ctx, a, "", extOpts...)
	if err != nil {
		return nil, nil, err
	}
	return a, ext, nil
}

// SignalContext is cancelled on SIGINT or SIGTERM
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
