// Package serve implements "gcouch serve"
package serve

import (
	"context"
	"path/filepath"

	"github.com/NexusGPU/couchgo/cmd/gcouch/cmdutil"
	"github.com/NexusGPU/couchgo/internal/app"
	"github.com/NexusGPU/couchgo/internal/config"
	"github.com/NexusGPU/couchgo/internal/couch"
	"github.com/NexusGPU/couchgo/internal/errors"
	"github.com/NexusGPU/couchgo/internal/log"
	"github.com/NexusGPU/couchgo/internal/platform"
	"github.com/NexusGPU/couchgo/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

// NewServeCmd creates the serve command
func NewServeCmd(opts *cmdutil.Options) *cobra.Command {
	var (
		listen   string
		logFile  string
		logState bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve documents from the application database over HTTP",
		Long: `Run a web application with the couch extension installed.

Routes:
  GET /healthz     server health from /_up
  GET /metrics     Prometheus metrics, including document cache counters
  GET /docs/*id    a document from COUCH_DB, ?remote=true skips the cache

The listen address defaults to GCOUCH_LISTEN or the saved profile.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := cmdutil.SignalContext(cmd.Context())
			defer stop()

			logger := log.Default
			path, err := logPath(logFile, logState, platform.DefaultPaths())
			if err != nil {
				return err
			}
			if path != "" {
				fileLogger, closer := log.NewFile(path)
				defer closer.Close()
				logger = fileLogger
			}

			reg := newRegistry()
			a, ext, err := opts.OpenApp(ctx, logger, couch.WithExtensionMetrics(couch.NewMetrics(reg)))
			if err != nil {
				return err
			}

			if listen == "" {
				listen = a.Config.GetString(config.KeyListenAddr)
			}
			if err := utils.CheckListenAddr(listen); err != nil {
				return multierr.Append(err, a.Shutdown(context.WithoutCancel(ctx)))
			}

			routes(a, ext, reg, logger)
			return a.Run(ctx, listen)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Listen address, e.g. :8080")
	cmd.Flags().StringVar(&logFile, "log-file", "", "Write JSON logs to this file, rotated by size (default: stderr)")
	cmd.Flags().BoolVar(&logState, "log", false, "Write JSON logs to "+
		filepath.Join(platform.DefaultPaths().LogDir(), serveLogName)+" unless --log-file is set")
	return cmd
}

const serveLogName = "serve.log"

// logPath resolves the server log destination. An explicit file wins; with
// toState set the gcouch directories are created and the log goes under LogDir.
func logPath(file string, toState bool, paths *platform.Paths) (string, error) {
	if file != "" || !toState {
		return file, nil
	}
	if err := paths.EnsureAllDirs(); err != nil {
		return "", errors.Wrap(err, "create gcouch directories")
	}
	return filepath.Join(paths.LogDir(), serveLogName), nil
}

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func routes(a *app.App, ext *couch.Extension, reg *prometheus.Registry, logger *log.Logger) {
	a.Engine.Use(app.RequestLogger(logger), ext.Middleware())
	a.Engine.GET("/healthz", couch.HealthHandler())
	a.Engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))
	a.Engine.GET("/docs/*id", couch.DocumentHandler())
}
