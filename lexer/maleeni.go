package lexer

import (
	"errors"
	"fmt"
	"strings"

	mlcompiler "github.com/nihei9/maleeni/compiler"
	mldriver "github.com/nihei9/maleeni/driver"
	mlspec "github.com/nihei9/maleeni/spec"
)

const maleeniKindName = "pattern"

type maleeniCompiler struct{}

func (maleeniCompiler) Name() string {
	return "maleeni"
}

func (maleeniCompiler) Compile(pattern string) (Matcher, error) {
	lspec := &mlspec.LexSpec{
		Name: "lrgen",
		Entries: []*mlspec.LexEntry{
			{
				Kind:    mlspec.LexKindName(maleeniKindName),
				Pattern: mlspec.LexPattern(pattern),
			},
		},
	}
	clspec, err, cErrs := mlcompiler.Compile(lspec, mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
	if err != nil {
		if len(cErrs) > 0 {
			var b strings.Builder
			fmt.Fprintf(&b, "%v", cErrs[0].Cause)
			if cErrs[0].Detail != "" {
				fmt.Fprintf(&b, ": %v", cErrs[0].Detail)
			}
			return nil, errors.New(b.String())
		}
		return nil, err
	}
	return &maleeniMatcher{
		spec: mldriver.NewLexSpec(clspec),
	}, nil
}

func (maleeniCompiler) Quote(literal string) string {
	return mlspec.EscapePattern(literal)
}

// maleeniMatcher walks the compiled DFA from p and remembers the last accepting position, the way the maleeni
// driver finds the longest match. The walk stops at the first missing transition, so an attempt costs the length of
// the match plus the bytes read past it.
type maleeniMatcher struct {
	spec mldriver.LexSpec
}

func (m *maleeniMatcher) MatchAt(src []byte, p int) int {
	mode := m.spec.InitialMode()
	state := m.spec.InitialState(mode)
	n := -1
	for i := p; i < len(src); i++ {
		next, ok := m.spec.NextState(mode, state, int(src[i]))
		if !ok {
			break
		}
		state = next
		if _, ok := m.spec.Accept(mode, state); ok {
			n = i - p + 1
		}
	}
	return n
}
