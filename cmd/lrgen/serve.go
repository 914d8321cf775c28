package main

import (
	"github.com/nihei9/lrgen/server"
	"github.com/spf13/cobra"
)

var serveFlags = struct {
	addr *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "serve <description file path>",
		Short:   "Serve a description over HTTP",
		Example: `  lrgen serve calc.toml --addr localhost:8080`,
		Args:    cobra.ExactArgs(1),
		RunE:    runServe,
	}
	serveFlags.addr = cmd.Flags().String("addr", "localhost:8080", "listen address")
	rootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	p, err := loadProject(args[0])
	if err != nil {
		return err
	}
	return server.New(p.tokenizer, p.table).ListenAndServe(*serveFlags.addr)
}
