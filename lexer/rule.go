package lexer

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	verr "github.com/nihei9/lrgen/error"
)

var (
	ErrEmptyName         = errors.New("a token name must not be empty")
	ErrDuplicateToken    = errors.New("duplicate token name in the token list")
	ErrDuplicateRule     = errors.New("duplicate token rule")
	ErrUndefinedToken    = errors.New("declared token has no rule")
	ErrUndeclaredRule    = errors.New("a plain token rule must be declared in the token list")
	ErrMissingAction     = errors.New("an action-backed token rule needs an action")
	ErrInvalidPattern    = errors.New("invalid pattern")
	ErrDuplicateLiteral  = errors.New("literal character conflicts with another token")
	ErrReservedTokenName = errors.New("reserved token name")
)

// ReservedEOF is the terminal the parser appends to every token stream. No rule may use it.
const ReservedEOF = "<eof>"

// RuleKind tells how a rule was declared.
type RuleKind int

const (
	// RuleKindPlain is a pattern with an optional action, ordered by pattern length.
	RuleKindPlain RuleKind = iota

	// RuleKindAction is a pattern bound to an action. Its priority comes from the token list.
	RuleKindAction
)

func (k RuleKind) String() string {
	if k == RuleKindAction {
		return "action"
	}
	return "plain"
}

// RuleSpec is one token definition.
type RuleSpec struct {
	Name string

	// Pattern is empty for rules that never match, such as pure error markers.
	Pattern string

	Action ActionFunc
	Ignore bool
	Kind   RuleKind
}

// ErrorFunc receives the failure that ends a stream.
type ErrorFunc func(err *UnmatchedError)

// Spec is the normalized token rule input.
type Spec struct {
	// Tokens is the declared token list.
	Tokens []string

	Rules []*RuleSpec

	// IgnoreChars are deleted from the whole input before scanning.
	IgnoreChars string

	// Literals holds single characters, each of which becomes a one-character token named by itself.
	Literals string

	OnError ErrorFunc

	// Matcher defaults to Regexp.
	Matcher MatcherCompiler
}

// Tier is the priority group of a compiled rule. Lower tiers are tried first.
type Tier int

const (
	TierDeclaredAction Tier = iota + 1
	TierAuxiliary
	TierPlain
	TierLiteral
)

func (t Tier) String() string {
	switch t {
	case TierDeclaredAction:
		return "action"
	case TierAuxiliary:
		return "auxiliary"
	case TierPlain:
		return "plain"
	case TierLiteral:
		return "literal"
	}
	return "?"
}

// Rule is a compiled token rule.
type Rule struct {
	Name    string
	Pattern string
	Action  ActionFunc
	Ignore  bool
	Tier    Tier

	matcher Matcher
}

func (r *Rule) String() string {
	ignore := ""
	if r.Ignore {
		ignore = "!"
	}
	return fmt.Sprintf("Token(%v%v: %v)", r.Name, ignore, r.Pattern)
}

type ruleTableBuilder struct {
	spec *Spec
	errs verr.SpecErrors
}

func (b *ruleTableBuilder) addErr(cause error, detail string) {
	b.errs = append(b.errs, &verr.SpecError{
		Cause:  cause,
		Detail: detail,
	})
}

func (b *ruleTableBuilder) build() ([]*Rule, error) {
	declared := map[string]struct{}{}
	for _, name := range b.spec.Tokens {
		if name == "" {
			b.addErr(ErrEmptyName, "token list")
			continue
		}
		if name == ReservedEOF {
			b.addErr(ErrReservedTokenName, name)
			continue
		}
		if _, ok := declared[name]; ok {
			b.addErr(ErrDuplicateToken, name)
			continue
		}
		declared[name] = struct{}{}
	}

	defs := map[string]*RuleSpec{}
	for _, rs := range b.spec.Rules {
		if rs.Name == "" {
			b.addErr(ErrEmptyName, fmt.Sprintf("rule with pattern %q", rs.Pattern))
			continue
		}
		if _, ok := defs[rs.Name]; ok {
			b.addErr(ErrDuplicateRule, rs.Name)
			continue
		}
		if rs.Kind == RuleKindAction && rs.Action == nil {
			b.addErr(ErrMissingAction, rs.Name)
		}
		defs[rs.Name] = rs
	}

	var rules []*Rule

	// Action-backed rules named in the token list keep the order of the list.
	for _, name := range b.spec.Tokens {
		rs, ok := defs[name]
		if !ok {
			if name != "" && name != ReservedEOF {
				b.addErr(ErrUndefinedToken, name)
			}
			continue
		}
		if rs.Kind != RuleKindAction {
			continue
		}
		rules = append(rules, newRule(rs, TierDeclaredAction, rs.Ignore))
	}

	// Auxiliary action-backed rules are helpers such as white space and comment skippers. They never emit tokens.
	for _, rs := range b.spec.Rules {
		if _, ok := declared[rs.Name]; ok || rs.Kind != RuleKindAction || defs[rs.Name] != rs {
			continue
		}
		rules = append(rules, newRule(rs, TierAuxiliary, true))
	}

	var plain []*Rule
	for _, rs := range b.spec.Rules {
		if rs.Kind != RuleKindPlain || defs[rs.Name] != rs {
			continue
		}
		if _, ok := declared[rs.Name]; !ok {
			b.addErr(ErrUndeclaredRule, rs.Name)
			continue
		}
		plain = append(plain, newRule(rs, TierPlain, rs.Ignore))
	}
	sort.SliceStable(plain, func(i, j int) bool {
		return len(plain[i].Pattern) > len(plain[j].Pattern)
	})
	rules = append(rules, plain...)

	for _, c := range b.spec.Literals {
		name := string(c)
		_, isDeclared := declared[name]
		_, isDefined := defs[name]
		if isDeclared || isDefined {
			b.addErr(ErrDuplicateLiteral, name)
			continue
		}
		defs[name] = nil
		rules = append(rules, &Rule{
			Name:    name,
			Pattern: b.spec.Matcher.Quote(name),
			Tier:    TierLiteral,
		})
	}

	for _, r := range rules {
		if r.Pattern == "" {
			continue
		}
		m, err := b.spec.Matcher.Compile(r.Pattern)
		if err != nil {
			b.addErr(ErrInvalidPattern, fmt.Sprintf("%v: %v", r.Name, err))
			continue
		}
		r.matcher = m
	}

	if len(b.errs) > 0 {
		return nil, b.errs
	}
	return rules, nil
}

func newRule(rs *RuleSpec, tier Tier, ignore bool) *Rule {
	return &Rule{
		Name:    rs.Name,
		Pattern: rs.Pattern,
		Action:  rs.Action,
		Ignore:  ignore,
		Tier:    tier,
	}
}

func writeRuleTable(b *strings.Builder, rules []*Rule) {
	w := tabwriter.NewWriter(b, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "#\tname\ttier\tignore\tpattern\n")
	for i, r := range rules {
		pattern := r.Pattern
		if pattern == "" {
			pattern = "<none>"
		}
		fmt.Fprintf(w, "%v\t%v\t%v\t%v\t%v\n", i+1, r.Name, r.Tier, r.Ignore, pattern)
	}
	w.Flush()
}
