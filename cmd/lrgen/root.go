package main

import (
	"fmt"
	"os"

	"github.com/npillmayer/schuko/tracing"
	"github.com/spf13/cobra"
)

var rootFlags = struct {
	strategy *string
	trace    *string
}{}

var rootCmd = &cobra.Command{
	Use:   "lrgen",
	Short: "Build a tokenizer and an LR parser from a description file",
	Long: `lrgen provides the following features:
- Builds a canonical LR(1) or SLR(1) parse table from a description and reports its conflicts.
- Tokenizes and parses text with the tokenizer and the table of a description.
- Runs the test cases embedded in descriptions.
- Serves a description over HTTP.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setUpTracing,
}

var traceKeys = []string{
	"lrgen.lexer",
	"lrgen.grammar",
	"lrgen.driver",
	"lrgen.server",
}

func init() {
	rootFlags.strategy = rootCmd.PersistentFlags().String("strategy", "", "table construction: lr1 or slr (default: the description's strategy)")
	rootFlags.trace = rootCmd.PersistentFlags().String("trace", "Error", "trace level [Debug|Info|Error]")
}

func setUpTracing(cmd *cobra.Command, args []string) error {
	level := tracing.TraceLevelFromString(*rootFlags.trace)
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(level)
	}
	return nil
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}
