package main

import (
	"os"

	"github.com/NexusGPU/couchgo/cmd/gcouch/cmdutil"
	"github.com/NexusGPU/couchgo/cmd/gcouch/connect"
	"github.com/NexusGPU/couchgo/cmd/gcouch/doc"
	"github.com/NexusGPU/couchgo/cmd/gcouch/serve"
	"github.com/NexusGPU/couchgo/cmd/gcouch/settings"
	"github.com/NexusGPU/couchgo/cmd/gcouch/urlcmd"
	"github.com/NexusGPU/couchgo/cmd/gcouch/version"
	"github.com/NexusGPU/couchgo/internal/log"
	"github.com/spf13/cobra"
)

var (
	opts    = &cmdutil.Options{}
	rootCmd = &cobra.Command{
		Use:   "gcouch",
		Short: "gcouch - CouchDB for Go web applications",
		Long: `gcouch connects web applications to CouchDB.

It provides commands to:
  - Parse and inspect connection URIs
  - Save a connection profile
  - Check a server connection and session
  - Read documents through the document cache
  - Serve documents, health and metrics over HTTP`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetVerbose(opts.Verbose)
		},
	}
)

func init() {
	opts.AddFlags(rootCmd)

	rootCmd.AddCommand(urlcmd.NewURLCmd(opts))
	rootCmd.AddCommand(settings.NewConfigCmd(opts))
	rootCmd.AddCommand(connect.NewConnectCmd(opts))
	rootCmd.AddCommand(doc.NewDocCmd(opts))
	rootCmd.AddCommand(serve.NewServeCmd(opts))
	rootCmd.AddCommand(version.NewVersionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
