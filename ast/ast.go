// Package ast defines the tagged-node parse tree spec.md §3 describes.
// Nodes are produced once by the parser and then mutated in place by
// the annotator, which is the idiomatic Go rendering of "nodes are
// immutable once produced; annotation semantically rebuilds them with
// added fields" spec.md §3 calls for (arena-style single ownership,
// per spec.md §9 "Reference-counting with lazy clone-on-write").
package ast

import (
	"github.com/diamant-lang/diamant/token"
	"github.com/diamant-lang/diamant/value"
)

// ActionTag labels how a var occurrence relates to reference-count
// insertion in a later pass (spec.md GLOSSARY "Action tag").
type ActionTag string

const (
	ActionBind    ActionTag = "bind"
	ActionDiscard ActionTag = "discard"
	ActionAccess  ActionTag = "access"
	ActionFirst   ActionTag = "first"
	ActionLast    ActionTag = "last"
	ActionOnly    ActionTag = "only"
)

// Varset is the multiset of names a subtree references, each tagged
// with the role it plays there (spec.md §3 "Varset").
type Varset map[string]ActionTag

// Node is the marker interface every AST node implements. GetVarset and
// SetVarset let annotate walk and mutate any node's Varset generically,
// without a type switch over every concrete node kind (spec.md §9
// "collapses hundreds of string comparisons to structural matching").
type Node interface {
	is_Node()
	Syntax() string
	Position() token.Position
	GetVarset() Varset
	SetVarset(Varset)
}

// Base carries the fields every node has: source position and, once
// annotate.Run has visited it, the subtree's Varset.
type Base struct {
	Pos    token.Position
	Varset Varset
}

func (b Base) Position() token.Position { return b.Pos }

// GetVarset and SetVarset are promoted onto every *Node that embeds
// Base, which is every node kind in this file.
func (b *Base) GetVarset() Varset     { return b.Varset }
func (b *Base) SetVarset(vs Varset) { b.Varset = vs }

type Lit struct {
	Base
	Value value.Value
}

func (Lit) is_Node()      {}
func (Lit) Syntax() string { return "lit" }

// Var is an identifier occurrence. Action is set by the annotator;
// it is the zero ActionTag ("") until then.
type Var struct {
	Base
	Name   string
	Action ActionTag
}

func (Var) is_Node()      {}
func (Var) Syntax() string { return "var" }

// Regex is valid only in pattern position (spec.md §4.2 Validation
// pass).
type Regex struct {
	Base
	Pattern string
}

func (Regex) is_Node()      {}
func (Regex) Syntax() string { return "regex" }

type Array struct {
	Base
	Elems []Node
}

func (Array) is_Node()      {}
func (Array) Syntax() string { return "array" }

type Entry struct {
	Base
	Key   Node
	Value Node
}

func (Entry) is_Node()      {}
func (Entry) Syntax() string { return "entry" }

type Dict struct {
	Base
	Entries []*Entry
}

func (Dict) is_Node()      {}
func (Dict) Syntax() string { return "dict" }

type DictUp struct {
	Base
	Subj    Node
	Entries []*Entry
}

func (DictUp) is_Node()      {}
func (DictUp) Syntax() string { return "dictup" }

type Apply struct {
	Base
	Func Node
	Args []Node
}

func (Apply) is_Node()      {}
func (Apply) Syntax() string { return "apply" }

// Clause is a single pattern-to-body rule, shared by case alternatives
// and function-definition clauses (spec.md GLOSSARY "Clause").
type Clause struct {
	Base
	Pats []Node
	Body Node
}

func (Clause) is_Node()      {}
func (Clause) Syntax() string { return "clause" }

type Case struct {
	Base
	Subj    Node
	Clauses []*Clause
}

func (Case) is_Node()      {}
func (Case) Syntax() string { return "case" }

type If struct {
	Base
	Cond Node
	Then Node
	Else Node
}

func (If) is_Node()      {}
func (If) Syntax() string { return "if" }

// FuncDef is one entry of a Do node's Defs map. Env is filled by the
// annotator: the closure's captured names with their access tags
// (spec.md §4.3 "Function-definition nodes gain env").
type FuncDef struct {
	Pos     token.Position
	Name    string
	Arity   int
	Clauses []*Clause
	Env     Varset
}

// Do is a block: a `;`-separated sequence of body expressions, plus the
// function definitions partitioned out of that sequence during parsing
// (spec.md §4.2 "Block body").
type Do struct {
	Base
	Seq  []Node
	Defs map[string]*FuncDef
}

func (Do) is_Node()      {}
func (Do) Syntax() string { return "do" }

// Assign is the `=` node. Legal only inside a do's Seq, as a function
// definition's left-hand side before partitioning rewrites it into a
// Clause (spec.md §3 "="), or nested inside a pattern as a match.
type Assign struct {
	Base
	Left  Node
	Right Node
}

func (Assign) is_Node()      {}
func (Assign) Syntax() string { return "=" }

// Binary covers every binary operator node spec.md §3 lists:
// and, or, <, >, =<, >=, ==, !=, +, -, *, /, div, mod, ~, @.
type Binary struct {
	Base
	Op    token.Kind
	Left  Node
	Right Node
}

func (Binary) is_Node()        {}
func (b Binary) Syntax() string { return string(b.Op) }

// Unary covers the two unary operator nodes: - and not.
type Unary struct {
	Base
	Op    token.Kind
	Right Node
}

func (Unary) is_Node()        {}
func (u Unary) Syntax() string { return string(u.Op) }
