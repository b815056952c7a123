// Package errors defines every diagnostic spec.md §7 names. Lexer,
// parser, and annotator raise these via panic from deep recursive
// descent / tree-walking call stacks (the teacher's tawago/parser.go
// does the same thing for its own grammar); a single recover per pass
// wraps the panic with github.com/ztrue/tracerr so a caller gets a
// returned error plus a stack trace, instead of requiring every parse
// function to thread an error return through the call chain.
package errors

import (
	"fmt"

	"github.com/diamant-lang/diamant/token"
)

// UnmatchedToken is raised when the lexer finds a byte at the current
// offset that starts no recognized token.
type UnmatchedToken struct {
	Pos token.Position
}

func (e UnmatchedToken) Error() string {
	return fmt.Sprintf("Unmatched token on line %d, column %d", e.Pos.Line, e.Pos.Column)
}

// MalformedLiteral is raised for an ill-formed numeric, string, or regex
// literal (e.g. a bad \u escape or an unterminated string).
type MalformedLiteral struct {
	Kind string // "numeric", "string", or "regex"
	Pos  token.Position
	Why  string
}

func (e MalformedLiteral) Error() string {
	return fmt.Sprintf("%s: malformed %s literal: %s", e.Pos, e.Kind, e.Why)
}

// UnexpectedToken is raised by the parser when the current token's kind
// doesn't match what the current production allows.
type UnexpectedToken struct {
	Got      token.Kind
	Expected []token.Kind
	Context  string // e.g. "pattern context", "expr"
	Pos      token.Position
}

func (e UnexpectedToken) Error() string {
	if len(e.Expected) == 0 {
		if e.Context != "" {
			return fmt.Sprintf("%s: Unexpected %s in %s.", e.Pos, e.Got, e.Context)
		}
		return fmt.Sprintf("%s: Unexpected %s.", e.Pos, e.Got)
	}
	if len(e.Expected) == 1 {
		return fmt.Sprintf("%s: Unexpected %s. Expecting %s.", e.Pos, e.Got, e.Expected[0])
	}
	return fmt.Sprintf("%s: Unexpected %s. Expecting one of %v.", e.Pos, e.Got, e.Expected)
}

// InvalidPatternConstruct is raised by the validation pass when a
// construct that is only legal in expression position appears where a
// pattern is required (spec.md §4.2 Validation pass).
type InvalidPatternConstruct struct {
	Syntax string
	Pos    token.Position
}

func (e InvalidPatternConstruct) Error() string {
	return fmt.Sprintf("%s: Unexpected %s in pattern context.", e.Pos, e.Syntax)
}

// InvalidExpressionConstruct is raised when a pattern-only construct
// (regex, or a nested = match) appears in expression position.
type InvalidExpressionConstruct struct {
	Syntax string
	Pos    token.Position
}

func (e InvalidExpressionConstruct) Error() string {
	return fmt.Sprintf("%s: Unexpected %s in expression context.", e.Pos, e.Syntax)
}

// MalformedFunctionLHS is raised when the left side of a top-level `=`
// in a `do` sequence is an apply whose function position isn't a bare
// identifier, so it can't be partitioned into defs (spec.md §4.2
// "Function definition LHS").
type MalformedFunctionLHS struct {
	Pos token.Position
}

func (e MalformedFunctionLHS) Error() string {
	return fmt.Sprintf("%s: function definition's left-hand side must be an identifier applied to patterns", e.Pos)
}

// ArityMismatch is raised when two clauses of the same function name
// have a different number of parameters.
type ArityMismatch struct {
	Name      string
	WantArity int
	GotArity  int
	Pos       token.Position
}

func (e ArityMismatch) Error() string {
	return fmt.Sprintf("%s: clause of %s has arity %d, expected %d", e.Pos, e.Name, e.GotArity, e.WantArity)
}

// UndefinedVariable is raised by the annotator when a var node's name
// resolves in no enclosing scope.
type UndefinedVariable struct {
	Name string
	Pos  token.Position
}

func (e UndefinedVariable) Error() string {
	return fmt.Sprintf("%d:%d: Undefined variable %s", e.Pos.Line, e.Pos.Column, e.Name)
}

// PatternMatchOnFunction is raised when a pattern tries to bind a name
// that the enclosing scope already knows as a function/closure.
type PatternMatchOnFunction struct {
	Name string
	Pos  token.Position
}

func (e PatternMatchOnFunction) Error() string {
	return fmt.Sprintf("%s: Pattern matching on functions not supported: %s", e.Pos, e.Name)
}

// UnusedVariable is a non-fatal warning (spec.md §7): a bound variable
// with no access, reported unless its name starts with "_".
type UnusedVariable struct {
	Name string
	Pos  token.Position
}

func (e UnusedVariable) Error() string {
	return fmt.Sprintf("%d:%d: Warning: unused variable %s", e.Pos.Line, e.Pos.Column, e.Name)
}
