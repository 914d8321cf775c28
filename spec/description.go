package spec

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	verr "github.com/nihei9/lrgen/error"
	"github.com/nihei9/lrgen/grammar"
	"github.com/nihei9/lrgen/lexer"
)

var (
	ErrMalformed       = errors.New("malformed description")
	ErrUnknownFormat   = errors.New("unknown description format")
	ErrUnknownKey      = errors.New("unknown key")
	ErrUnknownAction   = errors.New("unknown action")
	ErrUnknownKind     = errors.New("unknown token kind")
	ErrUnknownMatcher  = errors.New("unknown matcher")
	ErrUnknownStrategy = errors.New("unknown strategy")
	ErrUnknownStart    = errors.New("no rule has the start symbol as its head")
	ErrNoRule          = errors.New("a description needs at least one rule")
)

// Format is the encoding of a description file.
type Format string

const (
	FormatTOML = Format("toml")
	FormatJSON = Format("json")
)

// FormatOf derives the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %v", ErrUnknownFormat, path)
}

// Description is a declarative definition of a tokenizer, a grammar, and test cases.
type Description struct {
	Name        string      `toml:"name" json:"name"`
	Tokens      []string    `toml:"tokens" json:"tokens"`
	IgnoreChars string      `toml:"ignore_chars" json:"ignore_chars"`
	Literals    string      `toml:"literals" json:"literals"`
	Matcher     string      `toml:"matcher" json:"matcher"`
	Strategy    string      `toml:"strategy" json:"strategy"`
	Start       string      `toml:"start" json:"start"`
	Token       []*TokenDef `toml:"token" json:"token"`
	Rule        []*RuleDef  `toml:"rule" json:"rule"`
	Test        []*TestCase `toml:"test" json:"test"`

	filePath string
}

// TokenDef defines one token rule. Kind is "plain" (the default) or "action"; an action-kind rule needs an action
// and takes its priority from the token list.
type TokenDef struct {
	Name    string `toml:"name" json:"name"`
	Pattern string `toml:"pattern" json:"pattern"`
	Action  string `toml:"action" json:"action"`
	Ignore  bool   `toml:"ignore" json:"ignore"`
	Kind    string `toml:"kind" json:"kind"`
}

// RuleDef defines one production. An empty body derives the empty string.
type RuleDef struct {
	Head string   `toml:"head" json:"head"`
	Body []string `toml:"body" json:"body"`
}

// TestCase is an input with either the expected tree as an S-expression or the expectation of a syntax error.
type TestCase struct {
	Name  string `toml:"name" json:"name"`
	Input string `toml:"input" json:"input"`
	Tree  string `toml:"tree" json:"tree"`
	Error bool   `toml:"error" json:"error"`
}

// Load reads a description file. The format is taken from the file extension.
func Load(path string) (*Description, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	d, err := Parse(f, format)
	if err != nil {
		var specErrs verr.SpecErrors
		if errors.As(err, &specErrs) {
			return nil, specErrs.WithSource(path)
		}
		return nil, fmt.Errorf("%v: %w", path, err)
	}
	d.filePath = path
	return d, nil
}

// Parse decodes a description. Unknown keys are errors.
func Parse(r io.Reader, format Format) (*Description, error) {
	d := &Description{}
	switch format {
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(d)
		if err != nil {
			var perr toml.ParseError
			if errors.As(err, &perr) {
				return nil, verr.SpecErrors{
					{
						Cause:  ErrMalformed,
						Detail: perr.Message,
						Row:    perr.Position.Line,
					},
				}
			}
			return nil, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			var errs verr.SpecErrors
			for _, key := range undecoded {
				errs = append(errs, &verr.SpecError{
					Cause:  ErrUnknownKey,
					Detail: key.String(),
				})
			}
			return nil, errs
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(d); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, format)
	}
	return d, nil
}

// FilePath returns the path the description was loaded from, or an empty string.
func (d *Description) FilePath() string {
	return d.filePath
}

func (d *Description) annotate(err error) error {
	var specErrs verr.SpecErrors
	if d.filePath != "" && errors.As(err, &specErrs) {
		return specErrs.WithSource(d.filePath)
	}
	return err
}

// LexSpec converts the token part of the description. Action names are resolved through actions once, here.
func (d *Description) LexSpec(actions lexer.Actions, onError lexer.ErrorFunc) (*lexer.Spec, error) {
	var errs verr.SpecErrors

	matcher, err := lexer.MatcherByName(d.Matcher)
	if err != nil {
		errs = append(errs, &verr.SpecError{
			Cause:  ErrUnknownMatcher,
			Detail: d.Matcher,
		})
	}

	var rules []*lexer.RuleSpec
	for _, def := range d.Token {
		rs := &lexer.RuleSpec{
			Name:    def.Name,
			Pattern: def.Pattern,
			Ignore:  def.Ignore,
		}
		switch strings.ToLower(def.Kind) {
		case "", "plain":
			rs.Kind = lexer.RuleKindPlain
		case "action":
			rs.Kind = lexer.RuleKindAction
		default:
			errs = append(errs, &verr.SpecError{
				Cause:  ErrUnknownKind,
				Detail: fmt.Sprintf("%v: %v", def.Name, def.Kind),
			})
		}
		if def.Action != "" {
			f, ok := actions.Lookup(def.Action)
			if !ok {
				errs = append(errs, &verr.SpecError{
					Cause:  ErrUnknownAction,
					Detail: fmt.Sprintf("%v: %v", def.Name, def.Action),
				})
			}
			rs.Action = f
		}
		rules = append(rules, rs)
	}
	if len(errs) > 0 {
		return nil, d.annotate(errs)
	}

	return &lexer.Spec{
		Tokens:      d.Tokens,
		Rules:       rules,
		IgnoreChars: d.IgnoreChars,
		Literals:    d.Literals,
		OnError:     onError,
		Matcher:     matcher,
	}, nil
}

// Lexer builds the tokenizer of the description.
func (d *Description) Lexer(actions lexer.Actions, onError lexer.ErrorFunc) (*lexer.Tokenizer, error) {
	s, err := d.LexSpec(actions, onError)
	if err != nil {
		return nil, err
	}
	tok, err := lexer.Build(s)
	if err != nil {
		return nil, d.annotate(err)
	}
	return tok, nil
}

// Grammar builds the grammar of the description. A body symbol is a terminal when it names a declared token or a
// literal character. The start rule is the first rule whose head is the start symbol, which defaults to the head
// of the first rule.
func (d *Description) Grammar() (*grammar.Grammar, error) {
	if len(d.Rule) == 0 {
		return nil, d.annotate(verr.SpecErrors{
			{
				Cause: ErrNoRule,
			},
		})
	}

	terms := map[string]struct{}{}
	for _, name := range d.Tokens {
		terms[name] = struct{}{}
	}
	for _, c := range d.Literals {
		terms[string(c)] = struct{}{}
	}

	startSym := d.Start
	if startSym == "" {
		startSym = d.Rule[0].Head
	}

	var rules []*grammar.Rule
	var start *grammar.Rule
	for _, def := range d.Rule {
		body := make([]grammar.Symbol, len(def.Body))
		for i, label := range def.Body {
			if _, ok := terms[label]; ok {
				body[i] = grammar.T(label)
			} else {
				body[i] = grammar.NT(label)
			}
		}
		r := grammar.NewRule(def.Head, body...)
		if start == nil && def.Head == startSym {
			start = r
		}
		rules = append(rules, r)
	}
	if start == nil {
		return nil, d.annotate(verr.SpecErrors{
			{
				Cause:  ErrUnknownStart,
				Detail: startSym,
			},
		})
	}

	g, err := grammar.NewGrammar(rules, start)
	if err != nil {
		return nil, d.annotate(err)
	}
	return g, nil
}

// ParseStrategy returns the table construction the description asks for. LR1 is the default.
func (d *Description) ParseStrategy() (grammar.Strategy, error) {
	s, err := grammar.ParseStrategy(d.Strategy)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnknownStrategy, d.Strategy)
	}
	return s, nil
}
