package grammar

type SemanticError struct {
	message string
}

func newSemanticError(message string) *SemanticError {
	return &SemanticError{
		message: message,
	}
}

func (e *SemanticError) Error() string {
	return e.message
}

var (
	ErrNoRule               = newSemanticError("a grammar needs at least one rule")
	ErrNilRule              = newSemanticError("a rule must be non-nil")
	ErrNoStartRule          = newSemanticError("a grammar needs a start rule")
	ErrStartRuleNotFound    = newSemanticError("the start rule is not one of the rules of the grammar")
	ErrEmptyHead            = newSemanticError("a rule needs a head")
	ErrEmptyLabel           = newSemanticError("a symbol needs a label")
	ErrReservedLabel        = newSemanticError("reserved symbol label")
	ErrUndefinedNonTerminal = newSemanticError("a non-terminal has no rule")
	ErrDuplicateRule        = newSemanticError("duplicate rule")
	ErrDuplicateName        = newSemanticError("duplicate names are not allowed between terminals and non-terminals")
)
