package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/nihei9/lrgen/lexer"
	"github.com/nihei9/lrgen/spec"
	"github.com/spf13/cobra"
)

var tokenizeFlags = struct {
	source *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "tokenize <description file path>",
		Short:   "Tokenize a text stream",
		Example: `  echo '1 + 2' | lrgen tokenize calc.toml`,
		Args:    cobra.ExactArgs(1),
		RunE:    runTokenize,
	}
	tokenizeFlags.source = cmd.Flags().StringP("source", "s", "", "source file path (default stdin)")
	rootCmd.AddCommand(cmd)
}

func runTokenize(cmd *cobra.Command, args []string) error {
	d, err := spec.Load(args[0])
	if err != nil {
		return err
	}
	tok, err := d.Lexer(lexer.DefaultActions(), nil)
	if err != nil {
		return err
	}
	src, err := readSource(*tokenizeFlags.source)
	if err != nil {
		return err
	}

	stream := tok.Input(src)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for {
		t, ok := stream.Next()
		if !ok {
			break
		}
		fmt.Fprintf(w, "%v:%v\t%v\t%#v\n", t.Line, t.Pos, t.Type, t.Value)
	}
	w.Flush()
	return stream.Err()
}
