/*
Package lexer builds tokenizers from ordered token rules.

Rules are tried in priority order at the current scan position and the first rule whose pattern matches exactly
there wins. The priority order is: action-backed rules named in the token list, in list order; action-backed helper
rules missing from the list, which never emit tokens; plain rules by descending pattern length; literal characters.
*/
package lexer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lrgen.lexer'.
func tracer() tracing.Trace {
	return tracing.Select("lrgen.lexer")
}

// Tokenizer is an immutable, compiled rule table. A Tokenizer can serve any number of concurrent Input calls.
type Tokenizer struct {
	rules       []*Rule
	ignoreChars map[rune]struct{}
	onError     ErrorFunc
}

// Build compiles a rule table. All configuration errors are reported together as an error.SpecErrors.
func Build(spec *Spec) (*Tokenizer, error) {
	s := *spec
	if s.Matcher == nil {
		s.Matcher = Regexp
	}
	b := &ruleTableBuilder{
		spec: &s,
	}
	rules, err := b.build()
	if err != nil {
		return nil, err
	}

	ignore := map[rune]struct{}{}
	for _, c := range s.IgnoreChars {
		ignore[c] = struct{}{}
	}

	tracer().Debugf("built a tokenizer with %v rules using the %v matcher", len(rules), s.Matcher.Name())

	return &Tokenizer{
		rules:       rules,
		ignoreChars: ignore,
		onError:     s.OnError,
	}, nil
}

// Rules returns the compiled rules in priority order.
func (t *Tokenizer) Rules() []*Rule {
	rules := make([]*Rule, len(t.rules))
	copy(rules, t.rules)
	return rules
}

// TokenNames returns the names of all tokens the tokenizer can emit, in priority order.
func (t *Tokenizer) TokenNames() []string {
	var names []string
	for _, r := range t.rules {
		if r.Ignore {
			continue
		}
		names = append(names, r.Name)
	}
	return names
}

// Report renders the rule table. The output is meant for debugging only.
func (t *Tokenizer) Report() string {
	var b strings.Builder
	writeRuleTable(&b, t.rules)
	if len(t.ignoreChars) > 0 {
		chars := make([]rune, 0, len(t.ignoreChars))
		for c := range t.ignoreChars {
			chars = append(chars, c)
		}
		sort.Slice(chars, func(i, j int) bool {
			return chars[i] < chars[j]
		})
		fmt.Fprintf(&b, "ignore: %q\n", string(chars))
	}
	return b.String()
}

// Input starts a scan of text. Ignore characters are deleted from the whole text before scanning begins, which
// fuses the text around them.
func (t *Tokenizer) Input(text string) *Stream {
	if len(t.ignoreChars) > 0 {
		text = strings.Map(func(c rune) rune {
			if _, ok := t.ignoreChars[c]; ok {
				return -1
			}
			return c
		}, text)
	}
	return &Stream{
		tokenizer: t,
		src:       []byte(text),
		ctx: &Context{
			Text: text,
		},
	}
}

// Stream is a lazy, finite, forward-only token sequence over one input. A Stream must not be shared between
// goroutines.
type Stream struct {
	tokenizer *Tokenizer
	src       []byte
	pos       int
	ctx       *Context
	err       *UnmatchedError
	done      bool
}

// Context returns the per-input context shared with the actions.
func (s *Stream) Context() *Context {
	return s.ctx
}

// Next returns the next token. It returns false at the end of the input or after a position no rule matches.
func (s *Stream) Next() (*Token, bool) {
	for !s.done {
		if s.pos >= len(s.src) {
			s.done = true
			break
		}
		tok, ok := s.step()
		if !ok {
			s.done = true
			break
		}
		if tok != nil {
			return tok, true
		}
	}
	return nil, false
}

// Err returns the failure that ended the stream early, or nil.
func (s *Stream) Err() error {
	if s.err == nil {
		return nil
	}
	return s.err
}

func (s *Stream) step() (*Token, bool) {
	p := s.pos
	for _, r := range s.tokenizer.rules {
		if r.matcher == nil {
			continue
		}
		n := r.matcher.MatchAt(s.src, p)
		if n <= 0 {
			continue
		}

		lexeme := string(s.src[p : p+n])
		s.pos = p + n
		s.ctx.Pos = s.pos
		s.ctx.LastMatch = lexeme
		tok := &Token{
			Type:  r.Name,
			Value: lexeme,
			Line:  s.ctx.Line,
			Pos:   s.pos,
		}
		tracer().Debugf("%v matched %q at %v", r.Name, lexeme, p)

		if r.Action != nil {
			tok = r.Action(s.ctx, tok)
		}
		s.ctx.Pos = s.pos
		if r.Ignore {
			return nil, true
		}
		return tok, true
	}

	s.err = &UnmatchedError{
		Rest: string(s.src[p:]),
		Line: s.ctx.Line,
		Pos:  p,
	}
	if s.tokenizer.onError != nil {
		s.tokenizer.onError(s.err)
	} else {
		tracer().Debugf("%v", s.err)
	}
	return nil, false
}

// Collect drains a stream.
func Collect(s *Stream) []*Token {
	var toks []*Token
	for {
		tok, ok := s.Next()
		if !ok {
			return toks
		}
		toks = append(toks, tok)
	}
}
