package lexer

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

type tokenSummary struct {
	typ   string
	value interface{}
	line  int
	pos   int
}

func summarize(toks []*Token) []tokenSummary {
	s := make([]tokenSummary, len(toks))
	for i, tok := range toks {
		s[i] = tokenSummary{
			typ:   tok.Type,
			value: tok.Value,
			line:  tok.Line,
			pos:   tok.Pos,
		}
	}
	return s
}

func calcSpec() *Spec {
	return &Spec{
		Tokens: []string{"NUMBER", "PLUS", "TIMES", "NAME"},
		Rules: []*RuleSpec{
			{Name: "PLUS", Pattern: `\+`},
			{Name: "TIMES", Pattern: `\*`},
			{Name: "NAME", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
			{Name: "NUMBER", Pattern: `\d+`, Action: ActionInt, Kind: RuleKindAction},
			{Name: "newline", Pattern: `\r?\n`, Action: ActionNewline, Kind: RuleKindAction},
		},
		IgnoreChars: " \t",
	}
}

func TestTokenizer_Input(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrgen.lexer")
	defer teardown()

	tests := []struct {
		caption string
		spec    *Spec
		src     string
		tokens  []tokenSummary
	}{
		{
			caption: "action results replace the raw text and line counting survives suppression",
			spec:    calcSpec(),
			src:     "12 + x\n* 3",
			tokens: []tokenSummary{
				{typ: "NUMBER", value: 12, line: 0, pos: 2},
				{typ: "PLUS", value: "+", line: 0, pos: 3},
				{typ: "NAME", value: "x", line: 0, pos: 4},
				{typ: "TIMES", value: "*", line: 1, pos: 6},
				{typ: "NUMBER", value: 3, line: 1, pos: 7},
			},
		},
		{
			caption: "a longer plain pattern wins over a shorter one",
			spec: &Spec{
				Tokens: []string{"ASSIGN", "EQ"},
				Rules: []*RuleSpec{
					{Name: "ASSIGN", Pattern: `=`},
					{Name: "EQ", Pattern: `==`},
				},
			},
			src: "===",
			tokens: []tokenSummary{
				{typ: "EQ", value: "==", line: 0, pos: 2},
				{typ: "ASSIGN", value: "=", line: 0, pos: 3},
			},
		},
		{
			caption: "ignore characters are deleted before scanning and fuse the text around them",
			spec: &Spec{
				Tokens: []string{"NAME"},
				Rules: []*RuleSpec{
					{Name: "NAME", Pattern: `[a-z]+`},
				},
				IgnoreChars: "_",
			},
			src: "a_b",
			tokens: []tokenSummary{
				{typ: "NAME", value: "ab", line: 0, pos: 2},
			},
		},
		{
			caption: "ignored plain rules consume text without emitting tokens",
			spec: &Spec{
				Tokens: []string{"NAME", "COMMENT"},
				Rules: []*RuleSpec{
					{Name: "NAME", Pattern: `[a-z]+`},
					{Name: "COMMENT", Pattern: `#[^\n]*`, Ignore: true},
				},
			},
			src: "ab#cd",
			tokens: []tokenSummary{
				{typ: "NAME", value: "ab", line: 0, pos: 2},
			},
		},
		{
			caption: "an ignored rule discards the token its action returns but keeps the action's side effects",
			spec: &Spec{
				Tokens: []string{"NAME", "WS"},
				Rules: []*RuleSpec{
					{Name: "NAME", Pattern: `[a-z]+`},
					{
						Name:    "WS",
						Pattern: ` `,
						Action: func(ctx *Context, tok *Token) *Token {
							ctx.Line++
							return tok
						},
						Ignore: true,
						Kind:   RuleKindAction,
					},
				},
			},
			src: "a b",
			tokens: []tokenSummary{
				{typ: "NAME", value: "a", line: 0, pos: 1},
				{typ: "NAME", value: "b", line: 1, pos: 3},
			},
		},
		{
			caption: "action-backed rules take priority over plain rules",
			spec: &Spec{
				Tokens: []string{"NAME", "IF"},
				Rules: []*RuleSpec{
					{Name: "NAME", Pattern: `[a-z]+`},
					{
						Name:    "IF",
						Pattern: `if`,
						Action: func(ctx *Context, tok *Token) *Token {
							return tok
						},
						Kind: RuleKindAction,
					},
				},
			},
			src: "iff",
			tokens: []tokenSummary{
				{typ: "IF", value: "if", line: 0, pos: 2},
				{typ: "NAME", value: "f", line: 0, pos: 3},
			},
		},
		{
			caption: "literal characters become one-character tokens",
			spec: &Spec{
				Tokens: []string{"NAME"},
				Rules: []*RuleSpec{
					{Name: "NAME", Pattern: `[a-z]+`},
				},
				Literals: "()+",
			},
			src: "(a+b)",
			tokens: []tokenSummary{
				{typ: "(", value: "(", line: 0, pos: 1},
				{typ: "NAME", value: "a", line: 0, pos: 2},
				{typ: "+", value: "+", line: 0, pos: 3},
				{typ: "NAME", value: "b", line: 0, pos: 4},
				{typ: ")", value: ")", line: 0, pos: 5},
			},
		},
		{
			caption: "a rule without a pattern never matches",
			spec: &Spec{
				Tokens: []string{"NAME", "ERROR"},
				Rules: []*RuleSpec{
					{Name: "ERROR"},
					{Name: "NAME", Pattern: `[a-z]+`},
				},
			},
			src: "abc",
			tokens: []tokenSummary{
				{typ: "NAME", value: "abc", line: 0, pos: 3},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			tok, err := Build(tt.spec)
			if err != nil {
				t.Fatal(err)
			}
			s := tok.Input(tt.src)
			actual := summarize(Collect(s))
			if !reflect.DeepEqual(tt.tokens, actual) {
				t.Fatalf("unexpected tokens; want: %+v, got: %+v", tt.tokens, actual)
			}
			if s.Err() != nil {
				t.Fatalf("unexpected error: %v", s.Err())
			}
		})
	}
}

func TestTokenizer_Deterministic(t *testing.T) {
	tok, err := Build(calcSpec())
	if err != nil {
		t.Fatal(err)
	}
	src := "a + 1\n* bc + 22"
	first := summarize(Collect(tok.Input(src)))
	second := summarize(Collect(tok.Input(src)))
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("two scans of the same input differ; first: %+v, second: %+v", first, second)
	}
}

func TestTokenizer_Unmatched(t *testing.T) {
	newSpec := func(onError ErrorFunc) *Spec {
		return &Spec{
			Tokens: []string{"NUMBER", "PLUS"},
			Rules: []*RuleSpec{
				{Name: "NUMBER", Pattern: `\d+`},
				{Name: "PLUS", Pattern: `\+`},
			},
			OnError: onError,
		}
	}
	expected := []tokenSummary{
		{typ: "NUMBER", value: "3", line: 0, pos: 1},
		{typ: "PLUS", value: "+", line: 0, pos: 2},
	}

	t.Run("without a callback the stream ends before the unmatched text", func(t *testing.T) {
		tok, err := Build(newSpec(nil))
		if err != nil {
			t.Fatal(err)
		}
		s := tok.Input("3+@5")
		actual := summarize(Collect(s))
		if !reflect.DeepEqual(expected, actual) {
			t.Fatalf("unexpected tokens; want: %+v, got: %+v", expected, actual)
		}
		var uErr *UnmatchedError
		if !errors.As(s.Err(), &uErr) {
			t.Fatalf("expected an unmatched error, got: %v", s.Err())
		}
		if _, ok := s.Next(); ok {
			t.Fatalf("the stream must not resume")
		}
	})

	t.Run("the callback receives the whole unmatched suffix", func(t *testing.T) {
		var calls []*UnmatchedError
		tok, err := Build(newSpec(func(err *UnmatchedError) {
			calls = append(calls, err)
		}))
		if err != nil {
			t.Fatal(err)
		}
		actual := summarize(Collect(tok.Input("3+@5")))
		if !reflect.DeepEqual(expected, actual) {
			t.Fatalf("unexpected tokens; want: %+v, got: %+v", expected, actual)
		}
		if len(calls) != 1 {
			t.Fatalf("the callback must run exactly once; got: %v", len(calls))
		}
		if calls[0].Rest != "@5" || calls[0].Pos != 2 || calls[0].Line != 0 {
			t.Fatalf("unexpected failure report: %+v", calls[0])
		}
	})

	t.Run("a match later in the text does not count", func(t *testing.T) {
		tok, err := Build(newSpec(nil))
		if err != nil {
			t.Fatal(err)
		}
		s := tok.Input("x1")
		if toks := Collect(s); len(toks) != 0 {
			t.Fatalf("unexpected tokens: %+v", summarize(toks))
		}
		if s.Err() == nil {
			t.Fatalf("expected an error")
		}
	})

	t.Run("an empty match does not count", func(t *testing.T) {
		tok, err := Build(&Spec{
			Tokens: []string{"AS"},
			Rules: []*RuleSpec{
				{Name: "AS", Pattern: `a*`},
			},
		})
		if err != nil {
			t.Fatal(err)
		}
		s := tok.Input("aab")
		actual := summarize(Collect(s))
		want := []tokenSummary{
			{typ: "AS", value: "aa", line: 0, pos: 2},
		}
		if !reflect.DeepEqual(want, actual) {
			t.Fatalf("unexpected tokens; want: %+v, got: %+v", want, actual)
		}
		if s.Err() == nil {
			t.Fatalf("expected an error")
		}
	})
}

func TestBuild_RuleOrder(t *testing.T) {
	tok, err := Build(&Spec{
		Tokens: []string{"B_ACT", "SHORT", "A_ACT", "LONGEST"},
		Rules: []*RuleSpec{
			{Name: "SHORT", Pattern: `s`},
			{Name: "ws", Pattern: `\s+`, Action: ActionSkip, Kind: RuleKindAction},
			{Name: "LONGEST", Pattern: `long+`},
			{Name: "A_ACT", Pattern: `a`, Action: ActionSkip, Kind: RuleKindAction},
			{Name: "B_ACT", Pattern: `b`, Action: ActionSkip, Kind: RuleKindAction},
		},
		Literals: ";",
	})
	if err != nil {
		t.Fatal(err)
	}

	expected := []struct {
		name   string
		tier   Tier
		ignore bool
	}{
		{"B_ACT", TierDeclaredAction, false},
		{"A_ACT", TierDeclaredAction, false},
		{"ws", TierAuxiliary, true},
		{"LONGEST", TierPlain, false},
		{"SHORT", TierPlain, false},
		{";", TierLiteral, false},
	}
	rules := tok.Rules()
	if len(rules) != len(expected) {
		t.Fatalf("unexpected rule count; want: %v, got: %v", len(expected), len(rules))
	}
	for i, e := range expected {
		r := rules[i]
		if r.Name != e.name || r.Tier != e.tier || r.Ignore != e.ignore {
			t.Errorf("unexpected rule #%v; want: %+v, got: %v (%v, ignore: %v)", i, e, r.Name, r.Tier, r.Ignore)
		}
	}
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		caption string
		spec    *Spec
		cause   error
	}{
		{
			caption: "a declared token needs a rule",
			spec: &Spec{
				Tokens: []string{"A", "B"},
				Rules:  []*RuleSpec{{Name: "A", Pattern: `a`}},
			},
			cause: ErrUndefinedToken,
		},
		{
			caption: "token names must be unique in the list",
			spec: &Spec{
				Tokens: []string{"A", "A"},
				Rules:  []*RuleSpec{{Name: "A", Pattern: `a`}},
			},
			cause: ErrDuplicateToken,
		},
		{
			caption: "rules must be unique",
			spec: &Spec{
				Tokens: []string{"A"},
				Rules:  []*RuleSpec{{Name: "A", Pattern: `a`}, {Name: "A", Pattern: `b`}},
			},
			cause: ErrDuplicateRule,
		},
		{
			caption: "plain rules must be declared",
			spec: &Spec{
				Tokens: []string{"A"},
				Rules:  []*RuleSpec{{Name: "A", Pattern: `a`}, {Name: "B", Pattern: `b`}},
			},
			cause: ErrUndeclaredRule,
		},
		{
			caption: "action-backed rules need an action",
			spec: &Spec{
				Tokens: []string{"A"},
				Rules:  []*RuleSpec{{Name: "A", Pattern: `a`, Kind: RuleKindAction}},
			},
			cause: ErrMissingAction,
		},
		{
			caption: "patterns must compile",
			spec: &Spec{
				Tokens: []string{"A"},
				Rules:  []*RuleSpec{{Name: "A", Pattern: `(a`}},
			},
			cause: ErrInvalidPattern,
		},
		{
			caption: "literal characters must not shadow tokens",
			spec: &Spec{
				Tokens:   []string{"+"},
				Rules:    []*RuleSpec{{Name: "+", Pattern: `\+`}},
				Literals: "+",
			},
			cause: ErrDuplicateLiteral,
		},
		{
			caption: "the end-of-input terminal is reserved",
			spec: &Spec{
				Tokens: []string{ReservedEOF},
			},
			cause: ErrReservedTokenName,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			_, err := Build(tt.spec)
			if err == nil {
				t.Fatalf("expected an error")
			}
			if !errors.Is(err, tt.cause) {
				t.Fatalf("unexpected error; want: %v, got: %v", tt.cause, err)
			}
		})
	}
}

func TestMatcherBackends(t *testing.T) {
	for _, m := range []MatcherCompiler{Regexp, Lexmachine, Maleeni} {
		t.Run(m.Name(), func(t *testing.T) {
			tok, err := Build(&Spec{
				Tokens: []string{"NUMBER", "PLUS"},
				Rules: []*RuleSpec{
					{Name: "NUMBER", Pattern: `[0-9]+`},
					{Name: "PLUS", Pattern: m.Quote("+")},
				},
				Literals: "(",
				Matcher:  m,
			})
			if err != nil {
				t.Fatal(err)
			}
			s := tok.Input("(12+3x")
			actual := summarize(Collect(s))
			expected := []tokenSummary{
				{typ: "(", value: "(", line: 0, pos: 1},
				{typ: "NUMBER", value: "12", line: 0, pos: 3},
				{typ: "PLUS", value: "+", line: 0, pos: 4},
				{typ: "NUMBER", value: "3", line: 0, pos: 5},
			}
			if !reflect.DeepEqual(expected, actual) {
				t.Fatalf("unexpected tokens; want: %+v, got: %+v", expected, actual)
			}
			var uErr *UnmatchedError
			if !errors.As(s.Err(), &uErr) || uErr.Rest != "x" {
				t.Fatalf("unexpected error: %v", s.Err())
			}
		})
	}
}

func TestMaleeniMatcher_MatchAt(t *testing.T) {
	tests := []struct {
		caption string
		pattern string
		src     string
		p       int
		n       int
	}{
		{
			caption: "a match starting at p",
			pattern: `[0-9]+`,
			src:     "ab123c",
			p:       2,
			n:       3,
		},
		{
			caption: "a match starting later is not reported",
			pattern: `[0-9]+`,
			src:     "ab123c",
			p:       0,
			n:       -1,
		},
		{
			caption: "the longest accepted prefix wins after a dead end",
			pattern: `ab(cd)?`,
			src:     "abcx",
			p:       0,
			n:       2,
		},
		{
			caption: "the end of the input ends the walk",
			pattern: `ab(cd)?`,
			src:     "xabcd",
			p:       1,
			n:       4,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			m, err := Maleeni.Compile(tt.pattern)
			if err != nil {
				t.Fatal(err)
			}
			if n := m.MatchAt([]byte(tt.src), tt.p); n != tt.n {
				t.Fatalf("unexpected match length; want: %v, got: %v", tt.n, n)
			}
		})
	}
}

func TestMatcherBackends_LongInput(t *testing.T) {
	const count = 5000
	src := strings.Repeat("12+", count)
	for _, m := range []MatcherCompiler{Regexp, Lexmachine, Maleeni} {
		t.Run(m.Name(), func(t *testing.T) {
			tok, err := Build(&Spec{
				Tokens: []string{"NUMBER", "PLUS"},
				Rules: []*RuleSpec{
					{Name: "NUMBER", Pattern: `[0-9]+`},
					{Name: "PLUS", Pattern: m.Quote("+")},
				},
				Matcher: m,
			})
			if err != nil {
				t.Fatal(err)
			}
			s := tok.Input(src)
			toks := Collect(s)
			if s.Err() != nil {
				t.Fatal(s.Err())
			}
			if len(toks) != 2*count {
				t.Fatalf("unexpected token count; want: %v, got: %v", 2*count, len(toks))
			}
			last := toks[len(toks)-1]
			if last.Type != "PLUS" || last.Pos != len(src) {
				t.Fatalf("unexpected last token: %v", last)
			}
		})
	}
}
