package test

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/nihei9/lrgen/driver"
	"github.com/nihei9/lrgen/grammar"
	"github.com/nihei9/lrgen/lexer"
)

// wildcard is an expected kind that matches any actual kind.
const wildcard = "_"

// TreeDiff locates a mismatch between an expected tree and an actual one. Paths have the form
// `Root.[i]Child.[j]Grandchild`.
type TreeDiff struct {
	ExpectedPath string
	ActualPath   string
	Message      string
}

// Tree is the comparable form of a syntax tree. A leaf has a lexeme and no children. Parent and Offset are set by
// Fill.
type Tree struct {
	Parent   *Tree
	Offset   int
	Kind     string
	Children []*Tree
	Lexeme   string
	Leaf     bool
}

func NewNonTerminalTree(kind string, children ...*Tree) *Tree {
	return &Tree{Kind: kind, Children: children}
}

func NewTerminalNode(kind string, lexeme string) *Tree {
	return &Tree{Kind: kind, Lexeme: lexeme, Leaf: true}
}

// ConvertNode converts a syntax tree built by the driver.
func ConvertNode(node *driver.Node) *Tree {
	if node.Leaf {
		return NewTerminalNode(node.Type, node.Text())
	}
	t := NewNonTerminalTree(node.Type)
	for _, c := range node.Children {
		t.Children = append(t.Children, ConvertNode(c))
	}
	return t
}

// Fill links every node to its parent and returns t.
func (t *Tree) Fill() *Tree {
	for i, c := range t.Children {
		c.Parent, c.Offset = t, i
		c.Fill()
	}
	return t
}

func (t *Tree) path() string {
	var steps []string
	for n := t; n != nil; n = n.Parent {
		if n.Parent == nil {
			steps = append(steps, n.Kind)
		} else {
			steps = append(steps, fmt.Sprintf("[%v]%v", n.Offset, n.Kind))
		}
	}
	for l, r := 0, len(steps)-1; l < r; l, r = l+1, r-1 {
		steps[l], steps[r] = steps[r], steps[l]
	}
	return strings.Join(steps, ".")
}

// Format renders the tree one node per line, indenting children by four spaces. Lexemes are quoted.
func (t *Tree) Format() []byte {
	var b strings.Builder
	t.writeTo(&b, 0)
	return []byte(b.String())
}

func (t *Tree) writeTo(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("    ", depth))
	fmt.Fprintf(b, "(%v", t.Kind)
	if t.Leaf {
		fmt.Fprintf(b, " %v", strconv.Quote(t.Lexeme))
	}
	for _, c := range t.Children {
		b.WriteString("\n")
		c.writeTo(b, depth+1)
	}
	b.WriteString(")")
}

// DiffTree compares two filled trees and reports every mismatching subtree. Children of a mismatching node are
// not compared.
func DiffTree(expected, actual *Tree) []*TreeDiff {
	if expected == nil && actual == nil {
		return nil
	}
	if msg, ok := mismatch(expected, actual); ok {
		return []*TreeDiff{
			{
				ExpectedPath: expected.path(),
				ActualPath:   actual.path(),
				Message:      msg,
			},
		}
	}
	var diffs []*TreeDiff
	for i, exp := range expected.Children {
		diffs = append(diffs, DiffTree(exp, actual.Children[i])...)
	}
	return diffs
}

func mismatch(expected, actual *Tree) (string, bool) {
	switch {
	case expected.Kind != wildcard && expected.Kind != actual.Kind:
		return fmt.Sprintf("unexpected kind: expected '%v' but got '%v'", expected.Kind, actual.Kind), true
	case expected.Leaf != actual.Leaf:
		return fmt.Sprintf("unexpected node type: expected a leaf: %v, got a leaf: %v", expected.Leaf, actual.Leaf), true
	case expected.Lexeme != actual.Lexeme:
		return fmt.Sprintf("unexpected lexeme: expected '%v' but got '%v'", expected.Lexeme, actual.Lexeme), true
	case len(expected.Children) != len(actual.Children):
		return fmt.Sprintf("unexpected node count: expected %v but got %v", len(expected.Children), len(actual.Children)), true
	}
	return "", false
}

// treeParser reads S-expressions such as `(S (E (NUMBER 3)))` with a tokenizer and a parse table of its own.
type treeParser struct {
	tokenizer *lexer.Tokenizer
	table     *grammar.ParseTable
}

var (
	treeParserOnce sync.Once
	treeParserInst *treeParser
	treeParserErr  error
)

func getTreeParser() (*treeParser, error) {
	treeParserOnce.Do(func() {
		treeParserInst, treeParserErr = newTreeParser()
	})
	return treeParserInst, treeParserErr
}

func newTreeParser() (*treeParser, error) {
	tok, err := lexer.Build(&lexer.Spec{
		Tokens: []string{"l_paren", "r_paren", "string", "atom"},
		Rules: []*lexer.RuleSpec{
			{Name: "l_paren", Pattern: `\(`},
			{Name: "r_paren", Pattern: `\)`},
			{Name: "string", Pattern: `"(?:\\.|[^"\\])*"`},
			{Name: "atom", Pattern: `[^\s()"]+`},
			{Name: "white_space", Pattern: `\s+`, Action: lexer.ActionSkip, Kind: lexer.RuleKindAction},
		},
	})
	if err != nil {
		return nil, err
	}

	start := grammar.NewRule("tree", grammar.T("l_paren"), grammar.T("atom"), grammar.NT("elems"), grammar.T("r_paren"))
	g, err := grammar.NewGrammar([]*grammar.Rule{
		start,
		grammar.NewRule("elems", grammar.NT("elems"), grammar.NT("elem")),
		grammar.NewRule("elems"),
		grammar.NewRule("elem", grammar.NT("tree")),
		grammar.NewRule("elem", grammar.T("atom")),
		grammar.NewRule("elem", grammar.T("string")),
	}, start)
	if err != nil {
		return nil, err
	}
	tab, err := grammar.BuildParseTable(g, grammar.LR1)
	if err != nil {
		return nil, err
	}
	return &treeParser{
		tokenizer: tok,
		table:     tab,
	}, nil
}

// ParseTree reads an expected tree. `(K v)` is a leaf of kind K with lexeme v; a quoted v may contain spaces and
// parentheses. `(K (C ...) ...)` is an interior node and `(K)` an interior node without children.
func ParseTree(src string) (*Tree, error) {
	tp, err := getTreeParser()
	if err != nil {
		return nil, err
	}
	root, err := driver.Parse(tp.table, tp.tokenizer, src, driver.StrictInput())
	if err != nil {
		return nil, fmt.Errorf("invalid tree: %w", err)
	}
	t, err := genTree(root)
	if err != nil {
		return nil, err
	}
	return t.Fill(), nil
}

// genTree converts a `tree` node: l_paren atom elems r_paren.
func genTree(node *driver.Node) (*Tree, error) {
	kind := node.Children[1].Text()
	var elems []*driver.Node
	collectElems(node.Children[2], &elems)

	var children []*Tree
	var lexemes []string
	for _, e := range elems {
		c := e.Children[0]
		switch c.Type {
		case "tree":
			t, err := genTree(c)
			if err != nil {
				return nil, err
			}
			children = append(children, t)
		case "string":
			s, err := strconv.Unquote(c.Text())
			if err != nil {
				return nil, fmt.Errorf("invalid string %v: %w", c.Text(), err)
			}
			lexemes = append(lexemes, s)
		default:
			lexemes = append(lexemes, c.Text())
		}
	}

	switch {
	case len(lexemes) == 0:
		return NewNonTerminalTree(kind, children...), nil
	case len(lexemes) == 1 && len(children) == 0:
		return NewTerminalNode(kind, lexemes[0]), nil
	}
	return nil, fmt.Errorf("a node must have either one lexeme or child nodes: %v", kind)
}

// collectElems flattens the left-recursive elems list.
func collectElems(node *driver.Node, elems *[]*driver.Node) {
	if len(node.Children) == 0 {
		return
	}
	collectElems(node.Children[0], elems)
	*elems = append(*elems, node.Children[1])
}
