package main

import (
	"fmt"
	"io"
	"os"

	"github.com/nihei9/lrgen/grammar"
	"github.com/nihei9/lrgen/lexer"
	"github.com/nihei9/lrgen/spec"
	"github.com/nihei9/lrgen/tablecache"
)

var tables = tablecache.New()

// project is a loaded description with its tokenizer and parse table.
type project struct {
	desc      *spec.Description
	tokenizer *lexer.Tokenizer
	grammar   *grammar.Grammar
	table     *grammar.ParseTable
}

// loadProject reads a description and builds its tokenizer and parse table. When the table cannot be built,
// the project is returned along with the error.
func loadProject(path string) (*project, error) {
	d, err := spec.Load(path)
	if err != nil {
		return nil, err
	}
	tok, err := d.Lexer(lexer.DefaultActions(), nil)
	if err != nil {
		return nil, err
	}
	g, err := d.Grammar()
	if err != nil {
		return nil, err
	}
	p := &project{
		desc:      d,
		tokenizer: tok,
		grammar:   g,
	}
	strategy, err := resolveStrategy(d)
	if err != nil {
		return nil, err
	}
	p.table, err = tables.Get(g, strategy)
	if err != nil {
		return p, err
	}
	return p, nil
}

// resolveStrategy prefers the --strategy flag over the description.
func resolveStrategy(d *spec.Description) (grammar.Strategy, error) {
	if *rootFlags.strategy != "" {
		s, err := grammar.ParseStrategy(*rootFlags.strategy)
		if err != nil {
			return "", fmt.Errorf("%w: %v", spec.ErrUnknownStrategy, *rootFlags.strategy)
		}
		return s, nil
	}
	return d.ParseStrategy()
}

// readSource reads a source file, or stdin when path is empty.
func readSource(path string) (string, error) {
	src := io.Reader(os.Stdin)
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("Cannot open the source file %s: %w", path, err)
		}
		defer f.Close()
		src = f
	}
	b, err := io.ReadAll(src)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
