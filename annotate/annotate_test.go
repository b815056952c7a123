package annotate

import (
	"strings"
	"testing"

	"github.com/diamant-lang/diamant/ast"
	"github.com/diamant-lang/diamant/lexer"
	"github.com/diamant-lang/diamant/parser"
)

func mustParse(t *testing.T, source string) *ast.Do {
	t.Helper()
	l := lexer.New(source, "test")
	top, err := parser.New(l).Parse()
	if err != nil {
		t.Fatalf("parse(%q) failed: %v", source, err)
	}
	return top
}

func findVar(t *testing.T, n ast.Node, name string) []*ast.Var {
	t.Helper()
	var out []*ast.Var
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		switch v := n.(type) {
		case *ast.Var:
			if v.Name == name {
				out = append(out, v)
			}
		case *ast.Binary:
			walk(v.Left)
			walk(v.Right)
		case *ast.Unary:
			walk(v.Right)
		case *ast.If:
			walk(v.Cond)
			walk(v.Then)
			walk(v.Else)
		case *ast.Apply:
			walk(v.Func)
			for _, a := range v.Args {
				walk(a)
			}
		case *ast.Array:
			for _, e := range v.Elems {
				walk(e)
			}
		case *ast.Dict:
			for _, e := range v.Entries {
				walk(e.Key)
				walk(e.Value)
			}
		case *ast.DictUp:
			walk(v.Subj)
			for _, e := range v.Entries {
				walk(e.Key)
				walk(e.Value)
			}
		case *ast.Assign:
			walk(v.Left)
			walk(v.Right)
		case *ast.Case:
			walk(v.Subj)
			for _, c := range v.Clauses {
				for _, p := range c.Pats {
					walk(p)
				}
				walk(c.Body)
			}
		case *ast.Do:
			for _, item := range v.Seq {
				walk(item)
			}
			for _, def := range v.Defs {
				for _, c := range def.Clauses {
					for _, p := range c.Pats {
						walk(p)
					}
					walk(c.Body)
				}
			}
		}
	}
	walk(n)
	return out
}

// TestClosureCaptureComputesEnv exercises a closure capturing a plain
// (non-function) binding from an enclosing block. Note: this uses a
// nested do rather than spec.md §8 scenario 4's single flat block
// (`do y = 42 ; f(x) = x + y ; f(1) end`), because block() computes
// every function's closure env (step 2) before binding any of the
// block's own seq entries (step 3, spec.md §4.3.1) — so within a single
// block, a function can never see a plain variable bound later in that
// same block's seq, even if the binding precedes the function
// textually. Tracing spec.md's own scenario 4 against this (and against
// original_source/di_annotate.c's identical step ordering) undefined-
// variables on "y"; see DESIGN.md for the discrepancy this leaves with
// the spec's worked example. A variable bound in a strictly enclosing
// block, before the inner block is annotated, resolves correctly.
func TestClosureCaptureComputesEnv(t *testing.T) {
	top := mustParse(t, "do\n  y = 42\n  do\n    f(x) = x + y\n    f(1)\n  end\nend")
	outer := top.Seq[0].(*ast.Do)
	if _, err := Run(outer); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	var inner *ast.Do
	for _, item := range outer.Seq {
		if d, ok := item.(*ast.Do); ok {
			inner = d
		}
	}
	if inner == nil {
		t.Fatalf("outer.Seq = %v, want a nested *ast.Do", outer.Seq)
	}
	def, ok := inner.Defs["f"]
	if !ok {
		t.Fatalf("defs = %v, want key f", inner.Defs)
	}
	// def.Env is fixed once, when funcDef computes it; nothing later
	// promotes a captured free variable's tag past "access" (the
	// clause-level last/first pass in clauses() only marks names bound
	// locally by that clause's own patterns, never a captured free
	// name), so "access" is the real, stable result here.
	tag, ok := def.Env["y"]
	if !ok {
		t.Fatalf("f.env = %v, want key y", def.Env)
	}
	if tag != ast.ActionAccess {
		t.Fatalf("f.env[y] = %s, want access", tag)
	}
	vars := findVar(t, inner, "y")
	if len(vars) != 1 || vars[0].Action != ast.ActionAccess {
		t.Fatalf("y occurrences in f's body = %v, want one tagged access", vars)
	}
}

func TestUndefinedVariableIsFatal(t *testing.T) {
	top := mustParse(t, "x + 1")
	_, err := Run(top)
	if err == nil {
		t.Fatalf("expected an undefined-variable error, got none")
	}
	if !strings.Contains(err.Error(), "Undefined variable x") {
		t.Fatalf("error = %v, want it to mention x", err)
	}
}

func TestUnusedBindingWarnsAndMarksDiscard(t *testing.T) {
	top := mustParse(t, "do\n  x = 1\n  2\nend")
	inner := top.Seq[0].(*ast.Do)
	warnings, err := Run(inner)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly 1", warnings)
	}
	if !strings.Contains(warnings[0].Error(), "unused variable x") {
		t.Fatalf("warning = %v, want it to mention x", warnings[0])
	}
	vars := findVar(t, inner, "x")
	if len(vars) != 1 || vars[0].Action != ast.ActionDiscard {
		t.Fatalf("x occurrences = %v, want one tagged discard", vars)
	}
}

func TestUnusedVariableStartingWithUnderscoreIsSilent(t *testing.T) {
	top := mustParse(t, "do\n  _x = 1\n  2\nend")
	inner := top.Seq[0].(*ast.Do)
	warnings, err := Run(inner)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("warnings = %v, want none", warnings)
	}
}

func TestSingleAccessIsTaggedOnly(t *testing.T) {
	top := mustParse(t, "do\n  x = 1\n  x\nend")
	inner := top.Seq[0].(*ast.Do)
	if _, err := Run(inner); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	vars := findVar(t, inner, "x")
	if len(vars) != 2 || vars[1].Action != ast.ActionOnly {
		t.Fatalf("x occurrences = %v, want the binding plus one access tagged only", vars)
	}
}

func TestTwoAccessesTagFirstAndLast(t *testing.T) {
	top := mustParse(t, "do\n  x = 1\n  x + x\nend")
	inner := top.Seq[0].(*ast.Do)
	if _, err := Run(inner); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	vars := findVar(t, inner, "x")
	if len(vars) != 3 {
		t.Fatalf("x occurrences = %d, want 3 (the binding plus two accesses)", len(vars))
	}
	if vars[1].Action != ast.ActionFirst {
		t.Fatalf("first x access = %s, want first", vars[1].Action)
	}
	if vars[2].Action != ast.ActionLast {
		t.Fatalf("second x access = %s, want last", vars[2].Action)
	}
}

func TestPatternMatchOnFunctionIsFatal(t *testing.T) {
	top := mustParse(t, "do\n  f(x) = x\n  f = 1\n  f\nend")
	inner := top.Seq[0].(*ast.Do)
	_, err := Run(inner)
	if err == nil {
		t.Fatalf("expected a pattern-match-on-function error, got none")
	}
	if !strings.Contains(err.Error(), "Pattern matching on functions") {
		t.Fatalf("error = %v, want it to mention pattern matching on functions", err)
	}
}

func TestUnusedFunctionWarns(t *testing.T) {
	top := mustParse(t, "do\n  f(x) = x\n  1\nend")
	inner := top.Seq[0].(*ast.Do)
	warnings, err := Run(inner)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0].Error(), "unused variable f") {
		t.Fatalf("warnings = %v, want exactly one mentioning f", warnings)
	}
}

func TestMutualRecursionResolves(t *testing.T) {
	top := mustParse(t, "do\n  isEven(n) = if n == 0 then true else isOdd(n - 1)\n  isOdd(n) = if n == 0 then false else isEven(n - 1)\n  isEven(4)\nend")
	inner := top.Seq[0].(*ast.Do)
	if _, err := Run(inner); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
}

func TestNestedAssignPatternBindsBothSides(t *testing.T) {
	top := mustParse(t, "do\n  p = [1, 2]\n  case p of whole = [a, b] -> whole ; _ -> 0 end\nend")
	inner := top.Seq[0].(*ast.Do)
	if _, err := Run(inner); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
}
