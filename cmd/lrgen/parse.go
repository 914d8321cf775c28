package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/nihei9/lrgen/driver"
	"github.com/nihei9/lrgen/grammar"
	"github.com/nihei9/lrgen/lexer"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var parseFlags = struct {
	source *string
	pretty *bool
	json   *bool
	steps  *bool
	strict *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "parse <description file path>",
		Short:   "Parse a text stream",
		Example: `  echo '1 + 2 * 3' | lrgen parse calc.toml --pretty`,
		Args:    cobra.ExactArgs(1),
		RunE:    runParse,
	}
	parseFlags.source = cmd.Flags().StringP("source", "s", "", "source file path (default stdin)")
	parseFlags.pretty = cmd.Flags().Bool("pretty", false, "print the tree with colors")
	parseFlags.json = cmd.Flags().Bool("json", false, "print the tree as JSON")
	parseFlags.steps = cmd.Flags().Bool("steps", false, "print every shift and reduction")
	parseFlags.strict = cmd.Flags().Bool("strict", false, "fail when the tokenizer stops before the end of the input")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	if *parseFlags.pretty && *parseFlags.json {
		return fmt.Errorf("You cannot enable --pretty and --json at the same time")
	}

	p, err := loadProject(args[0])
	if err != nil {
		return err
	}
	src, err := readSource(*parseFlags.source)
	if err != nil {
		return err
	}

	var opts []driver.ParserOption
	if *parseFlags.steps {
		opts = append(opts, driver.SemanticAction(&stepPrinter{w: os.Stderr}))
	}
	if *parseFlags.strict {
		opts = append(opts, driver.StrictInput())
	}
	root, err := driver.Parse(p.table, p.tokenizer, src, opts...)
	if err != nil {
		return err
	}

	switch {
	case *parseFlags.pretty:
		printPrettyTree(root)
	case *parseFlags.json:
		b, err := json.MarshalIndent(root, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "%v\n", string(b))
	default:
		driver.PrintTree(os.Stdout, root)
	}
	return nil
}

// stepPrinter traces the automaton the way a textbook derivation table does.
type stepPrinter struct {
	w     io.Writer
	count int
}

func (s *stepPrinter) Shift(tok *lexer.Token) {
	s.count++
	fmt.Fprintf(s.w, "%4d  shift   %v %#v\n", s.count, tok.Type, tok.Value)
}

func (s *stepPrinter) Reduce(rule *grammar.Rule) {
	s.count++
	fmt.Fprintf(s.w, "%4d  reduce  %v\n", s.count, rule)
}

func (s *stepPrinter) Accept() {
	s.count++
	fmt.Fprintf(s.w, "%4d  accept\n", s.count)
}

func printPrettyTree(root *driver.Node) {
	pterm.DefaultTree.WithRoot(pterm.NewTreeFromLeveledList(leveledList(root, pterm.LeveledList{}, 0))).Render()
}

func leveledList(node *driver.Node, ll pterm.LeveledList, level int) pterm.LeveledList {
	if node.Leaf {
		return append(ll, pterm.LeveledListItem{
			Level: level,
			Text:  fmt.Sprintf("%v %v", node.Type, node.Text()),
		})
	}
	ll = append(ll, pterm.LeveledListItem{
		Level: level,
		Text:  node.Type,
	})
	for _, c := range node.Children {
		ll = leveledList(c, ll, level+1)
	}
	return ll
}
