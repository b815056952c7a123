package parser

import (
	"fmt"

	"github.com/diamant-lang/diamant/ast"
	"github.com/diamant-lang/diamant/errors"
	"github.com/diamant-lang/diamant/token"
)

// validateExpr and validatePattern are the two recursive walks spec.md
// §4.2's "Validation pass (integrated)" calls for. They run once over
// the fully parsed tree (from Parser.Parse, on the top-level do), since
// the grammar that produced the tree is unified across expression and
// pattern positions and does not itself reject anything.
func validateExpr(n ast.Node) {
	switch v := n.(type) {
	case *ast.Assign:
		panic(errors.InvalidExpressionConstruct{Syntax: "=", Pos: v.Position()})
	case *ast.Regex:
		panic(errors.InvalidExpressionConstruct{Syntax: "regex", Pos: v.Position()})
	case *ast.Lit, *ast.Var:
	case *ast.Array:
		for _, e := range v.Elems {
			validateExpr(e)
		}
	case *ast.Dict:
		for _, e := range v.Entries {
			validateExpr(e.Key)
			validateExpr(e.Value)
		}
	case *ast.DictUp:
		validateExpr(v.Subj)
		for _, e := range v.Entries {
			validateExpr(e.Key)
			validateExpr(e.Value)
		}
	case *ast.Apply:
		validateExpr(v.Func)
		for _, a := range v.Args {
			validateExpr(a)
		}
	case *ast.Case:
		validateExpr(v.Subj)
		for _, c := range v.Clauses {
			for _, pat := range c.Pats {
				validatePattern(pat)
			}
			validateExpr(c.Body)
		}
	case *ast.If:
		validateExpr(v.Cond)
		validateExpr(v.Then)
		validateExpr(v.Else)
	case *ast.Do:
		for _, s := range v.Seq {
			validateSeqEntry(s)
		}
		for _, def := range v.Defs {
			for _, c := range def.Clauses {
				for _, pat := range c.Pats {
					validatePattern(pat)
				}
				validateExpr(c.Body)
			}
		}
	case *ast.Binary:
		validateExpr(v.Left)
		validateExpr(v.Right)
	case *ast.Unary:
		validateExpr(v.Right)
	default:
		panic(fmt.Sprintf("parser: validateExpr: unhandled node type %T", n))
	}
}

// validateSeqEntry validates one item of a do's seq: spec.md §3 marks
// `=` "special: only legal inside a do sequence", so a seq-level
// assignment is neither a plain expression nor a plain pattern — its
// left is a binding pattern, its right an expression.
func validateSeqEntry(n ast.Node) {
	if a, ok := n.(*ast.Assign); ok {
		validatePattern(a.Left)
		validateExpr(a.Right)
		return
	}
	validateExpr(n)
}

var rejectedInPattern = map[token.Kind]bool{
	token.KindAnd: true, token.KindOr: true,
	token.KindLT: true, token.KindGT: true, token.KindLE: true, token.KindGE: true,
	token.KindEQ: true, token.KindNE: true,
	token.KindPlus: true, token.KindMinus: true, token.KindStar: true,
	token.KindSlash: true, token.KindDiv: true, token.KindMod: true,
}

func validatePattern(n ast.Node) {
	switch v := n.(type) {
	case *ast.Do:
		panic(errors.InvalidPatternConstruct{Syntax: "do", Pos: v.Position()})
	case *ast.If:
		panic(errors.InvalidPatternConstruct{Syntax: "if", Pos: v.Position()})
	case *ast.Case:
		panic(errors.InvalidPatternConstruct{Syntax: "case", Pos: v.Position()})
	case *ast.Apply:
		panic(errors.InvalidPatternConstruct{Syntax: "apply", Pos: v.Position()})
	case *ast.Unary:
		panic(errors.InvalidPatternConstruct{Syntax: string(v.Op), Pos: v.Position()})
	case *ast.Binary:
		if rejectedInPattern[v.Op] {
			panic(errors.InvalidPatternConstruct{Syntax: string(v.Op), Pos: v.Position()})
		}
		validatePattern(v.Left)
		validatePattern(v.Right)
	case *ast.Lit, *ast.Var, *ast.Regex:
	case *ast.Array:
		for _, e := range v.Elems {
			validatePattern(e)
		}
	case *ast.Dict:
		for _, e := range v.Entries {
			validatePattern(e.Key)
			validatePattern(e.Value)
		}
	case *ast.DictUp:
		validatePattern(v.Subj)
		for _, e := range v.Entries {
			validatePattern(e.Key)
			validatePattern(e.Value)
		}
	case *ast.Assign:
		validatePattern(v.Left)
		validatePattern(v.Right)
	default:
		panic(fmt.Sprintf("parser: validatePattern: unhandled node type %T", n))
	}
}
