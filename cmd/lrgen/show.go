package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var showFlags = struct {
	tokens *bool
	table  *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "show <description file path>",
		Short:   "Print the token rules and the parse table in a readable format",
		Example: `  lrgen show calc.toml --table`,
		Args:    cobra.ExactArgs(1),
		RunE:    runShow,
	}
	showFlags.tokens = cmd.Flags().Bool("tokens", false, "print only the token rules")
	showFlags.table = cmd.Flags().Bool("table", false, "print only the parse table")
	rootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	p, err := loadProject(args[0])
	if err != nil {
		return err
	}

	all := !*showFlags.tokens && !*showFlags.table
	if all || *showFlags.tokens {
		fmt.Fprintf(os.Stdout, "# Token rules\n\n%v\n", p.tokenizer.Report())
	}
	if all || *showFlags.table {
		fmt.Fprintf(os.Stdout, "# Parse table\n\n%v\n", p.table.Report())
	}
	return nil
}
