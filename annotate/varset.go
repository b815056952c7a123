package annotate

import "github.com/diamant-lang/diamant/ast"

// varsetUnion merges two varsets. Where a name appears in both with
// different tags, the adopted merge policy (spec.md §9 Open Questions,
// DESIGN.md) applies: bind ⊕ access → access. di_annotate.c's own
// setunion leaves this case as a FIXME; this is the concrete rule this
// port settles on.
func varsetUnion(a, b ast.Varset) ast.Varset {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	out := make(ast.Varset, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		if old, ok := out[k]; ok {
			if old != v {
				out[k] = ast.ActionAccess
			}
		} else {
			out[k] = v
		}
	}
	return out
}

func varsetUnion3(a, b, c ast.Varset) ast.Varset {
	return varsetUnion(varsetUnion(a, b), c)
}

// varsetOfNodes merges the varsets of a sequence of nodes, such as a
// do's seq, an apply's args, or an array's elems.
func varsetOfNodes(nodes []ast.Node) ast.Varset {
	var out ast.Varset
	for _, n := range nodes {
		out = varsetUnion(out, n.GetVarset())
	}
	return out
}

func varsetOfClauses(clauses []*ast.Clause) ast.Varset {
	var out ast.Varset
	for _, c := range clauses {
		out = varsetUnion(out, c.Varset)
	}
	return out
}

func varsetOfEntries(entries []*ast.Entry) ast.Varset {
	var out ast.Varset
	for _, e := range entries {
		out = varsetUnion(out, e.Varset)
	}
	return out
}

// varsetDiff returns vs with every name bound in sc removed, used when
// a scope closes (spec.md §4.3.4 "When a scope closes, the closing
// construct subtracts its locally bound names from its varset").
func varsetDiff(vs ast.Varset, sc scope) ast.Varset {
	if len(vs) == 0 {
		return nil
	}
	out := make(ast.Varset, len(vs))
	for k, v := range vs {
		if _, ok := sc[k]; ok {
			continue
		}
		out[k] = v
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
