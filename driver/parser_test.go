package driver

import (
	"errors"
	"strings"
	"testing"

	"github.com/nihei9/lrgen/grammar"
	"github.com/nihei9/lrgen/lexer"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func newTestTokenizer(t *testing.T) *lexer.Tokenizer {
	t.Helper()

	tok, err := lexer.Build(&lexer.Spec{
		Tokens: []string{"NUMBER", "PLUS"},
		Rules: []*lexer.RuleSpec{
			{Name: "NUMBER", Pattern: `\d+`},
			{Name: "PLUS", Pattern: `\+`},
		},
		IgnoreChars: " ",
	})
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func newTestTable(t *testing.T, strategy grammar.Strategy) *grammar.ParseTable {
	t.Helper()

	start := grammar.NewRule("S", grammar.NT("E"))
	g, err := grammar.NewGrammar([]*grammar.Rule{
		start,
		grammar.NewRule("E", grammar.NT("T"), grammar.T("PLUS"), grammar.NT("E")),
		grammar.NewRule("E", grammar.NT("T")),
		grammar.NewRule("T", grammar.T("NUMBER")),
	}, start)
	if err != nil {
		t.Fatal(err)
	}
	tab, err := grammar.BuildParseTable(g, strategy)
	if err != nil {
		t.Fatal(err)
	}
	return tab
}

func TestParse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrgen.driver")
	defer teardown()

	tests := []struct {
		src  string
		tree string
	}{
		{
			src:  "3+5",
			tree: "(S (E (T (NUMBER 3)) (PLUS +) (E (T (NUMBER 5)))))",
		},
		{
			src:  "7",
			tree: "(S (E (T (NUMBER 7))))",
		},
		{
			src:  "1 + 2 + 3",
			tree: "(S (E (T (NUMBER 1)) (PLUS +) (E (T (NUMBER 2)) (PLUS +) (E (T (NUMBER 3))))))",
		},
	}
	tok := newTestTokenizer(t)
	for _, strategy := range []grammar.Strategy{grammar.LR1, grammar.SLR} {
		tab := newTestTable(t, strategy)
		for _, tt := range tests {
			t.Run(string(strategy)+" "+tt.src, func(t *testing.T) {
				root, err := Parse(tab, tok, tt.src)
				if err != nil {
					t.Fatal(err)
				}
				if root.SExpr() != tt.tree {
					t.Fatalf("unexpected tree; want: %v, got: %v", tt.tree, root.SExpr())
				}
			})
		}
	}
}

func TestParse_TreeShape(t *testing.T) {
	root, err := Parse(newTestTable(t, grammar.LR1), newTestTokenizer(t), "3+5")
	if err != nil {
		t.Fatal(err)
	}

	if root.Type != "S" || root.Leaf || len(root.Children) != 1 {
		t.Fatalf("unexpected root: %v", root)
	}
	e := root.Children[0]
	if e.Type != "E" || len(e.Children) != 3 {
		t.Fatalf("unexpected E node: %v", e)
	}
	lhs, op, rhs := e.Children[0], e.Children[1], e.Children[2]
	if lhs.Type != "T" || lhs.Children[0].Value != "3" || lhs.Children[0].Pos != 1 {
		t.Fatalf("unexpected left operand: %v", lhs)
	}
	if !op.Leaf || op.Type != "PLUS" || op.Value != "+" || op.Pos != 2 {
		t.Fatalf("unexpected operator: %#v", op)
	}
	if rhs.Type != "E" || rhs.Children[0].Children[0].Value != "5" {
		t.Fatalf("unexpected right operand: %v", rhs)
	}
}

func TestParser_UniqueRoot(t *testing.T) {
	tab := newTestTable(t, grammar.LR1)
	tok := newTestTokenizer(t)

	p, err := NewParser(tab, tok.Input("3+5"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Parse(); err != nil {
		t.Fatal(err)
	}
	if p.tree.Size() != 0 {
		t.Fatalf("the root must be taken off the node stack; %v nodes are left", p.tree.Size())
	}

	// A stray node left below the tree breaks the invariant and must be reported.
	p, err = NewParser(tab, tok.Input("3+5"))
	if err != nil {
		t.Fatal(err)
	}
	p.tree.semStack.push(&Node{Type: "stray"})
	_, err = p.Parse()
	var iErr *InternalError
	if !errors.As(err, &iErr) {
		t.Fatalf("expected an internal error, got: %v", err)
	}
}

func TestParse_SyntaxError(t *testing.T) {
	tests := []struct {
		caption  string
		src      string
		typ      string
		pos      int
		expected []string
	}{
		{
			caption:  "an unexpected token",
			src:      "3++5",
			typ:      "PLUS",
			pos:      3,
			expected: []string{"NUMBER"},
		},
		{
			caption:  "an unexpected end of input",
			src:      "3+",
			typ:      grammar.EOF,
			pos:      2,
			expected: []string{"NUMBER"},
		},
		{
			caption:  "a truncated token stream surfaces as a syntax error",
			src:      "3+@5",
			typ:      grammar.EOF,
			pos:      2,
			expected: []string{"NUMBER"},
		},
		{
			caption:  "empty input",
			src:      "",
			typ:      grammar.EOF,
			pos:      0,
			expected: []string{"NUMBER"},
		},
	}
	tab := newTestTable(t, grammar.LR1)
	tok := newTestTokenizer(t)
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			_, err := Parse(tab, tok, tt.src)
			var synErr *SyntaxError
			if !errors.As(err, &synErr) {
				t.Fatalf("expected a syntax error, got: %v", err)
			}
			if synErr.Token.Type != tt.typ || synErr.Token.Pos != tt.pos {
				t.Fatalf("unexpected token: %v", synErr.Token)
			}
			if strings.Join(synErr.Expected, ",") != strings.Join(tt.expected, ",") {
				t.Fatalf("unexpected expected terminals: %v", synErr.Expected)
			}
		})
	}
}

func TestParse_StrictInput(t *testing.T) {
	tab := newTestTable(t, grammar.LR1)
	tok := newTestTokenizer(t)

	// The stream stops before '@' and the prefix is a complete sentence.
	root, err := Parse(tab, tok, "3+5@")
	if err != nil {
		t.Fatal(err)
	}
	if root.SExpr() != "(S (E (T (NUMBER 3)) (PLUS +) (E (T (NUMBER 5)))))" {
		t.Fatalf("unexpected tree: %v", root.SExpr())
	}

	_, err = Parse(tab, tok, "3+5@", StrictInput())
	var uErr *lexer.UnmatchedError
	if !errors.As(err, &uErr) {
		t.Fatalf("expected an unmatched input error, got: %v", err)
	}
	if uErr.Rest != "@" || uErr.Pos != 3 {
		t.Fatalf("unexpected error: %v", uErr)
	}
}

type countingActionSet struct {
	shifts     int
	reductions []string
	accepted   bool
}

func (a *countingActionSet) Shift(tok *lexer.Token) {
	a.shifts++
}

func (a *countingActionSet) Reduce(rule *grammar.Rule) {
	a.reductions = append(a.reductions, rule.String())
}

func (a *countingActionSet) Accept() {
	a.accepted = true
}

func TestParser_SemanticAction(t *testing.T) {
	semAct := &countingActionSet{}
	toks := []*lexer.Token{
		{Type: "NUMBER", Value: 3, Pos: 1},
		{Type: "PLUS", Value: "+", Pos: 2},
		{Type: "NUMBER", Value: 5, Pos: 3},
	}
	p, err := NewParser(newTestTable(t, grammar.LR1), NewTokenSliceStream(toks), SemanticAction(semAct))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Parse(); err != nil {
		t.Fatal(err)
	}
	if semAct.shifts != 3 || !semAct.accepted {
		t.Fatalf("unexpected observations: %+v", semAct)
	}
	expected := []string{"T → NUMBER", "T → NUMBER", "E → T", "E → T PLUS E", "S → E"}
	if strings.Join(semAct.reductions, "|") != strings.Join(expected, "|") {
		t.Fatalf("unexpected reductions: %v", semAct.reductions)
	}
}

func TestPrintTree(t *testing.T) {
	root, err := Parse(newTestTable(t, grammar.LR1), newTestTokenizer(t), "3")
	if err != nil {
		t.Fatal(err)
	}
	var b strings.Builder
	PrintTree(&b, root)
	expected := "S\n└─ E\n   └─ T\n      └─ NUMBER \"3\"\n"
	if b.String() != expected {
		t.Fatalf("unexpected tree:\n%v", b.String())
	}
}
