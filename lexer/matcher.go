package lexer

import (
	"fmt"
	"regexp"
	"strings"
)

// Matcher matches one compiled pattern.
type Matcher interface {
	// MatchAt returns the length of a match that starts exactly at p, or -1. A match starting later is never
	// reported.
	MatchAt(src []byte, p int) int
}

// MatcherCompiler compiles patterns of one regular expression dialect.
type MatcherCompiler interface {
	Name() string
	Compile(pattern string) (Matcher, error)

	// Quote returns a pattern matching the literal text.
	Quote(literal string) string
}

var (
	// Regexp compiles RE2 patterns with the regexp package. It is the default.
	Regexp MatcherCompiler = regexpCompiler{}

	// Lexmachine compiles patterns into lexmachine DFAs.
	Lexmachine MatcherCompiler = lexmachineCompiler{}

	// Maleeni compiles patterns with the maleeni lexer compiler.
	Maleeni MatcherCompiler = maleeniCompiler{}
)

// MatcherByName returns the matcher backend named by a description file. An empty name selects Regexp.
func MatcherByName(name string) (MatcherCompiler, error) {
	switch strings.ToLower(name) {
	case "", Regexp.Name():
		return Regexp, nil
	case Lexmachine.Name():
		return Lexmachine, nil
	case Maleeni.Name():
		return Maleeni, nil
	}
	return nil, fmt.Errorf("unknown matcher: %v", name)
}

type regexpCompiler struct{}

func (regexpCompiler) Name() string {
	return "regexp"
}

func (regexpCompiler) Compile(pattern string) (Matcher, error) {
	re, err := regexp.Compile(`^(?:` + pattern + `)`)
	if err != nil {
		return nil, err
	}
	return &regexpMatcher{
		re: re,
	}, nil
}

func (regexpCompiler) Quote(literal string) string {
	return regexp.QuoteMeta(literal)
}

type regexpMatcher struct {
	re *regexp.Regexp
}

func (m *regexpMatcher) MatchAt(src []byte, p int) int {
	loc := m.re.FindIndex(src[p:])
	if loc == nil || loc[0] != 0 {
		return -1
	}
	return loc[1]
}
