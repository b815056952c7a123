// Package annotate implements the whole-tree scope, closure, and
// liveness pass of spec.md §4.3: it binds variables, detects undefined
// references, computes closure environments for out-of-order function
// definitions, and marks every var occurrence with an action tag
// driving reference-count insertion in a later pass.
//
// It is structurally ported from original_source/di_annotate.c's
// block/clauses/expr/pattern/mark_last_access* functions, generalized
// to the larger node set spec.md §3 adds (div, dedicated clause nodes
// shared between case and function definitions, = as a nested pattern
// match). Where the C source mutates a dict in place, this port
// mutates the same *ast.Node the parser produced, since every node
// here is a single-owner pointer (spec.md §9 "the passes here are
// build-once, read-many").
package annotate

import (
	"fmt"
	"sort"

	"github.com/ztrue/tracerr"

	"github.com/diamant-lang/diamant/ast"
	"github.com/diamant-lang/diamant/errors"
	"github.com/diamant-lang/diamant/token"
)

// entryKind discriminates a scope entry (spec.md §3 "Scope model"):
// an ordinary bound variable, or a function name whose captured
// environment is read off its ast.FuncDef once known.
type entryKind int

const (
	entryVar entryKind = iota
	entryFunc
)

type scopeEntry struct {
	kind entryKind
	def  *ast.FuncDef
}

// scope is one level of the nested scope; scopeStack's index 0 is the
// innermost (spec.md §3 "Nested scope ... innermost first").
type scope map[string]scopeEntry
type scopeStack []scope

func (s scopeStack) lookup(name string) (scopeEntry, bool) {
	for _, sc := range s {
		if e, ok := sc[name]; ok {
			return e, true
		}
	}
	return scopeEntry{}, false
}

func (s scopeStack) push(sc scope) scopeStack {
	next := make(scopeStack, 0, len(s)+1)
	next = append(next, sc)
	return append(next, s...)
}

// annotator accumulates non-fatal diagnostics (spec.md §7 "Warnings")
// across the whole tree walk; fatal diagnostics are raised by panic
// and recovered once, in Run.
type annotator struct {
	warnings []error
}

func (a *annotator) warn(e error) { a.warnings = append(a.warnings, e) }

// Run annotates top, the parser's top-level do node, in place: every
// container node gains a Varset, every var node gains an Action, and
// every function definition gains its closure Env (spec.md §4.3).
// warnings carries non-fatal unused-variable diagnostics; err is set
// only for a fatal diagnostic (undefined variable, a pattern matching
// a function, or a pattern-only construct in expression position),
// wrapped with a stack
// trace the way tawago/parser.go wraps its own recursive-descent
// panics.
func Run(top *ast.Do) (warnings []error, err error) {
	defer func() {
		if r := recover(); r != nil {
			if rerr, ok := r.(error); ok {
				err = tracerr.Wrap(rerr)
				return
			}
			panic(r)
		}
	}()
	a := &annotator{}
	a.block(top, nil)
	return a.warnings, nil
}

// block implements spec.md §4.3.1 "When entering a do block": defs are
// pre-bound into a fresh scope (so mutual recursion and out-of-order
// definitions resolve), each function definition is annotated in turn
// to compute its closure env, then seq is annotated in textual order.
func (a *annotator) block(do *ast.Do, scopes scopeStack) {
	defNames := make([]string, 0, len(do.Defs))
	for name := range do.Defs {
		defNames = append(defNames, name)
	}
	sort.Strings(defNames)

	blockScope := scope{}
	for _, name := range defNames {
		blockScope[name] = scopeEntry{kind: entryFunc, def: do.Defs[name]}
	}
	inner := scopes.push(blockScope)

	for _, name := range defNames {
		a.funcDef(do.Defs[name], inner)
	}

	for _, item := range do.Seq {
		a.seqEntry(item, inner)
	}

	preDiff := varsetOfNodes(do.Seq)

	scopeNames := make([]string, 0, len(blockScope))
	for name := range blockScope {
		scopeNames = append(scopeNames, name)
	}
	sort.Strings(scopeNames)

	for _, name := range scopeNames {
		tag, ok := preDiff[name]
		if !ok {
			if e := blockScope[name]; e.kind == entryFunc && (len(name) == 0 || name[0] != '_') {
				a.warn(errors.UnusedVariable{Name: name, Pos: e.def.Pos})
			}
			continue
		}
		if !a.markLastAccessInSeq(do.Seq, name) {
			continue // defensive: preDiff[name] guarantees an occurrence exists
		}
		if tag == ast.ActionAccess {
			a.markFirstAccessInSeq(do.Seq, name)
		}
	}

	do.SetVarset(varsetDiff(preDiff, blockScope))
}

// funcDef checks and annotates one function definition's clauses, then
// derives its closure env from what remains free in them (spec.md
// §4.3.1 item 2).
func (a *annotator) funcDef(def *ast.FuncDef, scopes scopeStack) {
	a.clauses(def.Clauses, scopes)
	def.Env = varsetOfClauses(def.Clauses)
}

// clauses implements spec.md §4.3.1 "When entering a case-clause or
// function clause": a fresh scope per clause, patterns bound first,
// then the body, then last/first access marked within the clause
// before its local bindings are subtracted.
func (a *annotator) clauses(clauses []*ast.Clause, scopes scopeStack) {
	for _, c := range clauses {
		clauseScope := scope{}
		inner := scopes.push(clauseScope)

		for _, p := range c.Pats {
			a.pattern(p, inner)
		}
		a.expr(c.Body, inner)

		preDiff := varsetUnion(varsetOfNodes(c.Pats), c.Body.GetVarset())
		c.SetVarset(preDiff)

		names := make([]string, 0, len(clauseScope))
		for name := range clauseScope {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			tag := preDiff[name] // always present: a pattern bind always contributes at least "bind"
			if !a.markLastAccess(c, name) {
				continue
			}
			if tag == ast.ActionAccess {
				a.markFirstAccess(c, name)
			}
		}

		c.SetVarset(varsetDiff(preDiff, clauseScope))
	}
}

// seqEntry implements spec.md §4.3.1 item 3: a do sequence entry is
// either a plain expression or a `=` binding, whose right side is
// annotated first (no letrec) and whose left side is then annotated
// as a pattern, binding into the current scope.
func (a *annotator) seqEntry(n ast.Node, scopes scopeStack) {
	if asn, ok := n.(*ast.Assign); ok {
		a.expr(asn.Right, scopes)
		a.pattern(asn.Left, scopes)
		asn.SetVarset(varsetUnion(asn.Left.GetVarset(), asn.Right.GetVarset()))
		return
	}
	a.expr(n, scopes)
}

// expr annotates n in expression position (spec.md §4.2 grammar node
// kinds valid there), setting its Varset and, for a Var, its Action
// and resolved closure accesses (spec.md §4.3.2).
func (a *annotator) expr(n ast.Node, scopes scopeStack) {
	switch v := n.(type) {
	case *ast.Lit:
	case *ast.Var:
		vs, err := getRecAccessedVarset(v.Name, scopes, ast.Varset{}, v.Position())
		if err != nil {
			panic(err)
		}
		v.Action = ast.ActionAccess
		v.Varset = vs
	case *ast.Regex:
		panic(errors.InvalidExpressionConstruct{Syntax: "regex", Pos: v.Position()})
	case *ast.Array:
		for _, e := range v.Elems {
			a.expr(e, scopes)
		}
		v.SetVarset(varsetOfNodes(v.Elems))
	case *ast.Dict:
		a.dictEntries(v.Entries, scopes, a.expr)
		v.SetVarset(varsetOfEntries(v.Entries))
	case *ast.DictUp:
		a.expr(v.Subj, scopes)
		a.dictEntries(v.Entries, scopes, a.expr)
		v.SetVarset(varsetUnion(v.Subj.GetVarset(), varsetOfEntries(v.Entries)))
	case *ast.Apply:
		a.expr(v.Func, scopes)
		for _, arg := range v.Args {
			a.expr(arg, scopes)
		}
		v.SetVarset(varsetUnion(v.Func.GetVarset(), varsetOfNodes(v.Args)))
	case *ast.Case:
		a.expr(v.Subj, scopes)
		a.clauses(v.Clauses, scopes)
		v.SetVarset(varsetUnion(v.Subj.GetVarset(), varsetOfClauses(v.Clauses)))
	case *ast.Do:
		a.block(v, scopes)
	case *ast.If:
		a.expr(v.Cond, scopes)
		a.expr(v.Then, scopes)
		a.expr(v.Else, scopes)
		v.SetVarset(varsetUnion3(v.Cond.GetVarset(), v.Then.GetVarset(), v.Else.GetVarset()))
	case *ast.Binary:
		// Right is annotated before left, mirroring di_annotate.c's expr();
		// this only affects build order, not the varset each side ends up
		// carrying.
		a.expr(v.Right, scopes)
		a.expr(v.Left, scopes)
		v.SetVarset(varsetUnion(v.Left.GetVarset(), v.Right.GetVarset()))
	case *ast.Unary:
		a.expr(v.Right, scopes)
		v.SetVarset(v.Right.GetVarset())
	case *ast.Assign:
		panic(errors.InvalidExpressionConstruct{Syntax: "=", Pos: v.Position()})
	default:
		panic(fmt.Sprintf("annotate: expr: unhandled node type %T", n))
	}
}

// pattern annotates n in pattern position (spec.md §4.2's pattern-valid
// node kinds), binding fresh variable names into the innermost scope
// and rejecting a bind against a name the scope already knows as a
// function (spec.md §4.3.2).
func (a *annotator) pattern(n ast.Node, scopes scopeStack) {
	switch v := n.(type) {
	case *ast.Lit:
	case *ast.Regex:
		// No variable bindings live inside a regex literal; di_annotate.c's
		// pattern() leaves it untouched for the same reason.
	case *ast.Var:
		if v.Name == "_" {
			return // wildcard: binds nothing, gets no varset or action
		}
		entry, found := scopes.lookup(v.Name)
		var action ast.ActionTag
		switch {
		case !found:
			scopes[0][v.Name] = scopeEntry{kind: entryVar}
			action = ast.ActionBind
		case entry.kind == entryFunc:
			panic(errors.PatternMatchOnFunction{Name: v.Name, Pos: v.Position()})
		default:
			action = ast.ActionAccess
		}
		v.Action = action
		v.Varset = ast.Varset{v.Name: action}
	case *ast.Array:
		for _, e := range v.Elems {
			a.pattern(e, scopes)
		}
		v.SetVarset(varsetOfNodes(v.Elems))
	case *ast.Dict:
		a.dictEntries(v.Entries, scopes, a.pattern)
		v.SetVarset(varsetOfEntries(v.Entries))
	case *ast.DictUp:
		a.pattern(v.Subj, scopes)
		a.dictEntries(v.Entries, scopes, a.pattern)
		v.SetVarset(varsetUnion(v.Subj.GetVarset(), varsetOfEntries(v.Entries)))
	case *ast.Binary:
		// Only ~ and @ reach pattern position; the parser's validation
		// pass (parser/validate.go) has already rejected every other
		// binary operator here.
		a.pattern(v.Left, scopes)
		a.pattern(v.Right, scopes)
		v.SetVarset(varsetUnion(v.Left.GetVarset(), v.Right.GetVarset()))
	case *ast.Assign:
		// Nested match pattern (spec.md §3 "= ... patterns only"). This
		// generalizes di_annotate.c's pattern(), which has no `=` case at
		// all (its caller never produced one); both sides are patterns and
		// contribute their bound names to the enclosing scope.
		a.pattern(v.Left, scopes)
		a.pattern(v.Right, scopes)
		v.SetVarset(varsetUnion(v.Left.GetVarset(), v.Right.GetVarset()))
	default:
		panic(fmt.Sprintf("annotate: pattern: unhandled node type %T", n))
	}
}

// dictEntries annotates a dict/dictup's entries with either expr or
// pattern for both key and value, per spec.md §4.3.4.
func (a *annotator) dictEntries(entries []*ast.Entry, scopes scopeStack, f func(ast.Node, scopeStack)) {
	for _, e := range entries {
		f(e.Key, scopes)
		f(e.Value, scopes)
		e.SetVarset(varsetUnion(e.Key.GetVarset(), e.Value.GetVarset()))
	}
}

// getRecAccessedVarset resolves name in the nested scope and, if it
// denotes a function, recursively resolves every name captured in its
// closure env, failing if any is not yet bound (spec.md §4.3.2). acc
// doubles as both the accumulated varset and the set of already-
// explored names, exactly as di_annotate.c's varset_acc parameter does.
func getRecAccessedVarset(name string, scopes scopeStack, acc ast.Varset, pos token.Position) (ast.Varset, error) {
	if _, ok := acc[name]; ok {
		return acc, nil
	}
	entry, found := scopes.lookup(name)
	if !found {
		return nil, errors.UndefinedVariable{Name: name, Pos: pos}
	}
	if acc == nil {
		acc = ast.Varset{}
	}
	acc[name] = ast.ActionAccess
	if entry.kind == entryFunc {
		for captured := range entry.def.Env {
			var err error
			acc, err = getRecAccessedVarset(captured, scopes, acc, pos)
			if err != nil {
				return nil, err
			}
		}
	}
	return acc, nil
}

func nodesOfClauses(cs []*ast.Clause) []ast.Node {
	out := make([]ast.Node, len(cs))
	for i, c := range cs {
		out[i] = c
	}
	return out
}

func nodesOfEntries(es []*ast.Entry) []ast.Node {
	out := make([]ast.Node, len(es))
	for i, e := range es {
		out[i] = e
	}
	return out
}
