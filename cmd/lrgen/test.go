package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/nihei9/lrgen/grammar"
	"github.com/nihei9/lrgen/spec"
	"github.com/nihei9/lrgen/tester"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "test <description file path>|<directory path>",
		Short:   "Run the test cases of descriptions",
		Example: `  lrgen test testdata`,
		Args:    cobra.ExactArgs(1),
		RunE:    runTest,
	}
	rootCmd.AddCommand(cmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	paths, err := tester.ListDescriptions(args[0])
	if err != nil {
		return fmt.Errorf("Cannot list descriptions: %w", err)
	}

	var strategy grammar.Strategy
	if *rootFlags.strategy != "" {
		strategy, err = grammar.ParseStrategy(*rootFlags.strategy)
		if err != nil {
			return fmt.Errorf("%w: %v", spec.ErrUnknownStrategy, *rootFlags.strategy)
		}
	}

	failed := false
	for _, path := range paths {
		if !testDescription(path, strategy) {
			failed = true
		}
	}
	if failed {
		return errors.New("Test failed")
	}
	return nil
}

// testDescription runs the test cases of one description and reports whether all of them passed.
func testDescription(path string, strategy grammar.Strategy) bool {
	d, err := spec.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read a description: %v\n%v\n", path, err)
		return false
	}
	t, err := tester.NewTester(d, strategy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build a description: %v\n%v\n", path, err)
		return false
	}
	ok := true
	for _, r := range t.Run() {
		fmt.Fprintln(os.Stdout, r)
		ok = ok && r.Error == nil
	}
	return ok
}
