package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/nihei9/lrgen/grammar"
	"github.com/spf13/cobra"
)

var compileFlags = struct {
	output *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "compile <description file path>",
		Short:   "Build the parse table of a description and report its conflicts",
		Example: `  lrgen compile calc.toml -o calc-report.json`,
		Args:    cobra.ExactArgs(1),
		RunE:    runCompile,
	}
	compileFlags.output = cmd.Flags().StringP("output", "o", "", "write a JSON summary of the table to this file")
	rootCmd.AddCommand(cmd)
}

type compileSummary struct {
	Name         string   `json:"name"`
	Strategy     string   `json:"strategy"`
	States       int      `json:"states"`
	Cells        int      `json:"cells"`
	Stored       int      `json:"stored"`
	Terminals    []string `json:"terminals"`
	NonTerminals []string `json:"non_terminals"`
	Rules        []string `json:"rules"`
	Tokens       []string `json:"tokens"`
}

func runCompile(cmd *cobra.Command, args []string) error {
	p, err := loadProject(args[0])
	if err != nil {
		var conflicts grammar.ConflictErrors
		if errors.As(err, &conflicts) {
			for _, c := range conflicts {
				fmt.Fprintf(os.Stderr, "%v\n", c)
			}
			return fmt.Errorf("%v conflicts", len(conflicts))
		}
		return err
	}

	fmt.Fprintf(os.Stdout, "%v: %v states (%v)\n", args[0], p.table.StateCount(), p.table.Strategy())

	if *compileFlags.output == "" {
		return nil
	}
	s := &compileSummary{
		Name:         p.desc.Name,
		Strategy:     string(p.table.Strategy()),
		States:       p.table.StateCount(),
		Terminals:    p.grammar.Terminals(),
		NonTerminals: p.grammar.NonTerminals(),
		Tokens:       p.tokenizer.TokenNames(),
	}
	s.Cells, s.Stored = p.table.Size()
	for _, r := range p.grammar.Rules() {
		s.Rules = append(s.Rules, r.String())
	}
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	err = os.WriteFile(*compileFlags.output, append(b, '\n'), 0644)
	if err != nil {
		return fmt.Errorf("Cannot write an output file: %w", err)
	}
	return nil
}
