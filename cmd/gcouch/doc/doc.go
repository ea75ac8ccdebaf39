// Package doc implements "gcouch doc"
package doc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/NexusGPU/couchgo/cmd/gcouch/cmdutil"
	"github.com/NexusGPU/couchgo/internal/config"
	"github.com/NexusGPU/couchgo/internal/couch"
	"github.com/NexusGPU/couchgo/internal/errors"
	"github.com/NexusGPU/couchgo/internal/log"
	"github.com/NexusGPU/couchgo/internal/tui"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

// NewDocCmd creates the doc command
func NewDocCmd(opts *cmdutil.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doc",
		Short: "Read documents from the application database",
	}
	cmd.AddCommand(newGetCmd(opts))
	return cmd
}

func newGetCmd(opts *cmdutil.Options) *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Fetch a document from COUCH_DB",
		Long: `Fetch a document by id from the database named by COUCH_DB or the
database part of the connection URI. Design documents ("_design/...") also
list their views.`,
		Args: cobra.ExactArgs(1),
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

			db := ext.DB()
			if db == nil {
				return errors.NotConfigured(config.KeyDB)
			}

			var getOpts []couch.GetOption
			if remote {
				getOpts = append(getOpts, couch.WithRemote())
			}
			d, err := db.Get(ctx, args[0], getOpts...)
			if err != nil {
				return err
			}
			return cmdutil.Render(opts.Out(cmd), &document{db: db.Name(), doc: d})
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "Skip the local cache")
	return cmd
}

type document struct {
	db  string
	doc *couch.Document
}

func (d *document) RenderJSON() any {
	return d.doc
}

func (d *document) RenderTUI(w io.Writer) {
	panel := tui.NewPanel().
		Add("database", d.db).
		Add("id", d.doc.ID).
		Add("rev", d.doc.Rev)

	fmt.Fprint(w, panel.String())

	if views := d.doc.Views(); len(views) > 0 {
		names := make([]string, 0, len(views))
		for name := range views {
			names = append(names, name)
		}
		sort.Strings(names)

		rows := make([][]string, 0, len(names))
		for _, name := range names {
			reduce := views[name].Reduce
			if reduce == "" {
				reduce = "-"
			}
			rows = append(rows, []string{name, reduce})
		}
		fmt.Fprintln(w, tui.SimpleTable([]string{"VIEW", "REDUCE"}, rows))
	}

	body, err := json.MarshalIndent(d.doc.Fields, "", "  ")
	if err != nil {
		fmt.Fprintln(w, tui.ErrorMessage(err.Error()))
		return
	}
	fmt.Fprintln(w, string(body))
}
