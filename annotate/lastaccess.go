package annotate

import (
	"github.com/diamant-lang/diamant/ast"
	"github.com/diamant-lang/diamant/errors"
)

// markLastAccess finds the unique last occurrence of name within n's
// subtree and re-tags it: an access var becomes last, and a var still
// tagged bind (never separately accessed) becomes discard, with an
// unused-variable warning unless its name starts with "_" (spec.md
// §4.3.3). Ported from di_annotate.c's mark_last_access, generalized to
// the larger node set spec.md §3 adds; per-construct traversal order
// matches spec.md §4.3.3's table exactly.
func (a *annotator) markLastAccess(n ast.Node, name string) bool {
	vs := n.GetVarset()
	if vs == nil {
		return false
	}
	if _, ok := vs[name]; !ok {
		return false
	}
	switch v := n.(type) {
	case *ast.Var:
		if v.Name != name {
			return false
		}
		switch v.Action {
		case ast.ActionAccess:
			v.Action = ast.ActionLast
		case ast.ActionBind:
			if len(v.Name) == 0 || v.Name[0] != '_' {
				a.warn(errors.UnusedVariable{Name: v.Name, Pos: v.Position()})
			}
			v.Action = ast.ActionDiscard
		}
	case *ast.Regex:
		// no-op: a regex carries no variable occurrences to mark.
	case *ast.Assign:
		if !a.markLastAccess(v.Left, name) {
			a.markLastAccess(v.Right, name)
		}
	case *ast.Binary:
		if !a.markLastAccess(v.Right, name) {
			a.markLastAccess(v.Left, name)
		}
	case *ast.Unary:
		a.markLastAccess(v.Right, name)
	case *ast.If:
		lastThen := a.markLastAccess(v.Then, name)
		lastElse := a.markLastAccess(v.Else, name)
		if !lastThen && !lastElse {
			a.markLastAccess(v.Cond, name)
		}
	case *ast.Case:
		if !a.markLastAccessInSeq(nodesOfClauses(v.Clauses), name) {
			a.markLastAccess(v.Subj, name)
		}
	case *ast.Clause:
		if !a.markLastAccess(v.Body, name) {
			a.markLastAccessInSeq(v.Pats, name)
		}
	case *ast.Apply:
		if !a.markLastAccessInSeq(v.Args, name) {
			a.markLastAccess(v.Func, name)
		}
	case *ast.Array:
		a.markLastAccessInSeq(v.Elems, name)
	case *ast.Dict:
		a.markLastAccessInSeq(nodesOfEntries(v.Entries), name)
	case *ast.DictUp:
		if !a.markLastAccessInSeq(nodesOfEntries(v.Entries), name) {
			a.markLastAccess(v.Subj, name)
		}
	case *ast.Entry:
		if !a.markLastAccess(v.Value, name) {
			a.markLastAccess(v.Key, name)
		}
	case *ast.Do:
		a.markLastAccessInSeq(v.Seq, name)
	}
	return true
}

// markLastAccessInSeq walks nodes in reverse; the first element whose
// varset contains name houses the last access (spec.md §4.3.3
// "Sequence ... iterate in reverse").
func (a *annotator) markLastAccessInSeq(nodes []ast.Node, name string) bool {
	for i := len(nodes) - 1; i >= 0; i-- {
		if vs := nodes[i].GetVarset(); vs != nil {
			if _, ok := vs[name]; ok {
				a.markLastAccess(nodes[i], name)
				return true
			}
		}
	}
	return false
}

// markFirstAccess is the forward-pass counterpart to markLastAccess,
// resolving spec.md §9's open question on first-access marking: it
// mirrors the last-access walk in the forward direction, using the
// symmetric preference at every construct (cond before branches, left
// before right, and so on). A var chosen as both first and last
// becomes only. A subtree that only binds name (its varset tag is bind)
// holds no access and is skipped.
func (a *annotator) markFirstAccess(n ast.Node, name string) bool {
	vs := n.GetVarset()
	if vs == nil {
		return false
	}
	if tag, ok := vs[name]; !ok || tag == ast.ActionBind {
		return false
	}
	switch v := n.(type) {
	case *ast.Var:
		if v.Name != name {
			return false
		}
		switch v.Action {
		case ast.ActionAccess:
			v.Action = ast.ActionFirst
		case ast.ActionLast:
			v.Action = ast.ActionOnly
		}
	case *ast.Regex:
	case *ast.Assign:
		if !a.markFirstAccess(v.Right, name) {
			a.markFirstAccess(v.Left, name)
		}
	case *ast.Binary:
		if !a.markFirstAccess(v.Left, name) {
			a.markFirstAccess(v.Right, name)
		}
	case *ast.Unary:
		a.markFirstAccess(v.Right, name)
	case *ast.If:
		if !a.markFirstAccess(v.Cond, name) {
			a.markFirstAccess(v.Then, name)
			a.markFirstAccess(v.Else, name)
		}
	case *ast.Case:
		if !a.markFirstAccess(v.Subj, name) {
			a.markFirstAccessInSeq(nodesOfClauses(v.Clauses), name)
		}
	case *ast.Clause:
		if !a.markFirstAccessInSeq(v.Pats, name) {
			a.markFirstAccess(v.Body, name)
		}
	case *ast.Apply:
		if !a.markFirstAccess(v.Func, name) {
			a.markFirstAccessInSeq(v.Args, name)
		}
	case *ast.Array:
		a.markFirstAccessInSeq(v.Elems, name)
	case *ast.Dict:
		a.markFirstAccessInSeq(nodesOfEntries(v.Entries), name)
	case *ast.DictUp:
		if !a.markFirstAccess(v.Subj, name) {
			a.markFirstAccessInSeq(nodesOfEntries(v.Entries), name)
		}
	case *ast.Entry:
		if !a.markFirstAccess(v.Key, name) {
			a.markFirstAccess(v.Value, name)
		}
	case *ast.Do:
		a.markFirstAccessInSeq(v.Seq, name)
	}
	return true
}

// markFirstAccessInSeq walks nodes forward; the first element that
// accesses name (not merely binds it) houses the first access.
func (a *annotator) markFirstAccessInSeq(nodes []ast.Node, name string) bool {
	for _, n := range nodes {
		if a.markFirstAccess(n, name) {
			return true
		}
	}
	return false
}
