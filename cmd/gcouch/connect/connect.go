// Package connect implements "gcouch connect"
package connect

import (
	"context"
	"strconv"
	"strings"

	"github.com/NexusGPU/couchgo/cmd/gcouch/cmdutil"
	"github.com/NexusGPU/couchgo/internal/config"
	"github.com/NexusGPU/couchgo/internal/log"
	"github.com/NexusGPU/couchgo/internal/tui"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

// Result is the JSON form of "connect"
type Result struct {
	Server    string   `json:"server"`
	Version   string   `json:"version"`
	Vendor    string   `json:"vendor"`
	Status    string   `json:"status"`
	User      string   `json:"user"`
	Roles     []string `json:"roles"`
	Auth      string   `json:"auth"`
	Database  string   `json:"database,omitempty"`
	Databases []string `json:"databases,omitempty"`
}

// NewConnectCmd creates the connect command
func NewConnectCmd(opts *cmdutil.Options) *cobra.Command {
	var listDBs bool

	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Connect to the configured server and report what it sees",
		Long: `Open the connection the way an application would: resolve the settings,
authenticate, and create COUCH_DB when it does not exist yet. Then print the
server version, the session user, and the application database.`,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx, stop := cmdutil.SignalContext(cmd.Context())
			defer stop()

			a, ext, err := opts.OpenApp(ctx, log.Default)
			if err != nil {
				return err
			}
			defer func() {
				err = multierr.Append(err, a.Shutdown(context.WithoutCancel(ctx)))
			}()

			server := ext.Client().Server()
			welcome, err := server.Welcome(ctx)
			if err != nil {
				return err
			}
			up, err := server.Up(ctx)
			if err != nil {
				return err
			}
			session, err := server.Session(ctx)
			if err != nil {
				return err
			}

			res := Result{
				Server:  ext.Client().URL(),
				Version: welcome.Version,
				Vendor:  welcome.Vendor.Name,
				Status:  up.Status,
				Roles:   session.UserCtx.Roles,
				Auth:    a.Config.GetString(config.KeyAuth),
			}
			if session.UserCtx.Name != nil {
				res.User = *session.UserCtx.Name
			}
			if db := ext.DB(); db != nil {
				res.Database = db.Name()
			}
			if listDBs {
				if res.Databases, err = server.AllDBs(ctx); err != nil {
					return err
				}
			}

			out := opts.Out(cmd)
			if err := cmdutil.Render(out, &cmdutil.PanelData{
				Title: "Connected",
				Panel: panel(res),
				JSON:  res,
			}); err != nil {
				return err
			}
			if res.Database == "" {
				out.Warning(config.KeyDB + " is not set, requests have no application database")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&listDBs, "list-dbs", false, "Also list the databases on the server")
	return cmd
}

func panel(res Result) *tui.Panel {
	p := tui.NewPanel().
		AddURL("server", res.Server).
		Add("version", res.Vendor+" "+res.Version).
		AddStatus("status", res.Status).
		AddOptional("user", res.User, res.User != "").
		Add("roles", strings.Join(res.Roles, ", ")).
		Add("authentication", res.Auth).
		AddOptional("database", res.Database, res.Database != "")
	if res.Databases != nil {
		p.Add("databases", strconv.Itoa(len(res.Databases))+": "+strings.Join(res.Databases, ", "))
	}
	return p
}
