package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/nihei9/lrgen/driver"
	"github.com/spf13/cobra"
)

var replFlags = struct {
	pretty *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "repl <description file path>",
		Short:   "Parse lines interactively",
		Example: `  lrgen repl calc.toml`,
		Args:    cobra.ExactArgs(1),
		RunE:    runREPL,
	}
	replFlags.pretty = cmd.Flags().Bool("pretty", false, "print trees with colors")
	rootCmd.AddCommand(cmd)
}

func runREPL(cmd *cobra.Command, args []string) error {
	p, err := loadProject(args[0])
	if err != nil {
		return err
	}

	name := p.desc.Name
	if name == "" {
		name = "lrgen"
	}
	rl, err := readline.New(name + "> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	fmt.Fprintf(os.Stdout, "%v states (%v). Quit with <ctrl>D\n", p.table.StateCount(), p.table.Strategy())
	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		root, err := driver.Parse(p.table, p.tokenizer, line, driver.StrictInput())
		if err != nil {
			fmt.Fprintf(os.Stdout, "%v\n", err)
			continue
		}
		if *replFlags.pretty {
			printPrettyTree(root)
		} else {
			driver.PrintTree(os.Stdout, root)
		}
	}
}
