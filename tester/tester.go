package tester

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nihei9/lrgen/driver"
	"github.com/nihei9/lrgen/grammar"
	"github.com/nihei9/lrgen/lexer"
	"github.com/nihei9/lrgen/spec"
	tspec "github.com/nihei9/lrgen/spec/test"
)

type TestResult struct {
	TestCasePath string
	Error        error
	Diffs        []*tspec.TreeDiff
}

func (r *TestResult) String() string {
	if r.Error == nil {
		return fmt.Sprintf("Passed %v", r.TestCasePath)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Failed %v:", r.TestCasePath)
	for _, l := range strings.Split(r.Error.Error(), "\n") {
		fmt.Fprintf(&b, "\n%v%v", indent, l)
	}
	for _, d := range r.Diffs {
		fmt.Fprintf(&b, "\n%v%v", indent+indent, d.Message)
		fmt.Fprintf(&b, "\n%v%vexpected path: %v", indent+indent, indent, d.ExpectedPath)
		fmt.Fprintf(&b, "\n%v%vactual path:   %v", indent+indent, indent, d.ActualPath)
	}
	return b.String()
}

const indent = "    "

// ListDescriptions returns the description files under a path. A file path is returned as is.
func ListDescriptions(path string) ([]string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return []string{path}, nil
	}

	es, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range es {
		p := filepath.Join(path, e.Name())
		if !e.IsDir() {
			if _, err := spec.FormatOf(p); err != nil {
				continue
			}
		}
		ps, err := ListDescriptions(p)
		if err != nil {
			return nil, err
		}
		paths = append(paths, ps...)
	}
	return paths, nil
}

// Tester runs the test cases of a description against its tokenizer and parse table.
type Tester struct {
	Name      string
	Tokenizer *lexer.Tokenizer
	Table     *grammar.ParseTable
	Cases     []*spec.TestCase
}

// NewTester builds the tokenizer and the parse table of a description. An empty strategy means the description's
// own choice.
func NewTester(d *spec.Description, strategy grammar.Strategy) (*Tester, error) {
	tok, err := d.Lexer(lexer.DefaultActions(), nil)
	if err != nil {
		return nil, err
	}
	g, err := d.Grammar()
	if err != nil {
		return nil, err
	}
	if strategy == "" {
		strategy, err = d.ParseStrategy()
		if err != nil {
			return nil, err
		}
	}
	tab, err := grammar.BuildParseTable(g, strategy)
	if err != nil {
		return nil, err
	}

	name := d.Name
	if name == "" {
		name = d.FilePath()
	}
	return &Tester{
		Name:      name,
		Tokenizer: tok,
		Table:     tab,
		Cases:     d.Test,
	}, nil
}

func (t *Tester) Run() []*TestResult {
	var rs []*TestResult
	for i, c := range t.Cases {
		rs = append(rs, t.runTest(i, c))
	}
	return rs
}

func (t *Tester) runTest(i int, c *spec.TestCase) *TestResult {
	r := &TestResult{
		TestCasePath: fmt.Sprintf("%v/%v", t.Name, c.Name),
	}
	if c.Name == "" {
		r.TestCasePath = fmt.Sprintf("%v/#%v", t.Name, i+1)
	}

	root, err := driver.Parse(t.Table, t.Tokenizer, c.Input, driver.StrictInput())
	if c.Error {
		r.Error = expectSyntaxError(root, err)
		return r
	}
	if err != nil {
		r.Error = err
		return r
	}

	expected, err := tspec.ParseTree(c.Tree)
	if err != nil {
		r.Error = err
		return r
	}
	r.Diffs = tspec.DiffTree(expected, tspec.ConvertNode(root).Fill())
	if len(r.Diffs) > 0 {
		r.Error = errors.New("output mismatch")
	}
	return r
}

// expectSyntaxError checks the outcome of a test case that must be rejected by the parser.
func expectSyntaxError(root *driver.Node, err error) error {
	if err == nil {
		return fmt.Errorf("a syntax error was expected but the input was accepted:\n%s", root.SExpr())
	}
	var synErr *driver.SyntaxError
	if !errors.As(err, &synErr) {
		return fmt.Errorf("a syntax error was expected: %w", err)
	}
	return nil
}
