package lexer

import (
	"strings"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

type lexmachineCompiler struct{}

func (lexmachineCompiler) Name() string {
	return "lexmachine"
}

// Compile builds a single-pattern DFA. The action hands the raw match back to MatchAt instead of building a token.
func (lexmachineCompiler) Compile(pattern string) (Matcher, error) {
	lex := lexmachine.NewLexer()
	lex.Add([]byte(pattern), func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return m, nil
	})
	if err := lex.Compile(); err != nil {
		return nil, err
	}
	return &lexmachineMatcher{
		lex: lex,
	}, nil
}

func (lexmachineCompiler) Quote(literal string) string {
	var b strings.Builder
	for _, c := range literal {
		if !isWordChar(c) {
			b.WriteRune('\\')
		}
		b.WriteRune(c)
	}
	return b.String()
}

type lexmachineMatcher struct {
	lex *lexmachine.Lexer
}

func (m *lexmachineMatcher) MatchAt(src []byte, p int) int {
	s, err := m.lex.Scanner(src)
	if err != nil {
		return -1
	}
	s.TC = p
	tok, err, eos := s.Next()
	if err != nil || eos {
		return -1
	}
	match, ok := tok.(*machines.Match)
	if !ok || match.TC != p {
		return -1
	}
	return len(match.Bytes)
}

func isWordChar(c rune) bool {
	return c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
