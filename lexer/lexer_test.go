package lexer

import (
	"testing"

	"github.com/diamant-lang/diamant/token"
)

func lexAll(t *testing.T, source string) []token.Token {
	t.Helper()
	l := New(source, "test")
	var toks []token.Token
	for {
		tok := l.Lex()
		toks = append(toks, tok)
		if tok.Kind == token.KindEOF {
			return toks
		}
	}
}

func kinds(toks []token.Token) []token.Kind {
	ks := make([]token.Kind, len(toks))
	for i, t := range toks {
		ks[i] = t.Kind
	}
	return ks
}

func assertKinds(t *testing.T, source string, want ...token.Kind) {
	t.Helper()
	got := kinds(lexAll(t, source))
	if len(got) != len(want) {
		t.Fatalf("lex(%q) = %v, want %v", source, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("lex(%q)[%d] = %s, want %s (full: %v)", source, i, got[i], want[i], got)
		}
	}
}

func TestDivisionVsRegex(t *testing.T) {
	assertKinds(t, "x / 2",
		token.KindIdent, token.KindSlash, token.KindLit, token.KindEOF)
	assertKinds(t, "y = /a*/",
		token.KindIdent, token.KindAssign, token.KindRegex, token.KindEOF)
	assertKinds(t, "(x) / 2",
		token.KindLParen, token.KindIdent, token.KindRParen, token.KindSlash, token.KindLit, token.KindEOF)
}

func TestNumbers(t *testing.T) {
	toks := lexAll(t, "0 42 -7 3.14 1e10 -2.5e-3")
	want := []token.Kind{token.KindLit, token.KindLit, token.KindLit, token.KindLit, token.KindLit, token.KindLit, token.KindEOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	if !toks[3].Data.IsDouble() || toks[3].Data.Double() != 3.14 {
		t.Fatalf("3.14 decoded as %#v", toks[3].Data)
	}
	if !toks[2].Data.IsInt() || toks[2].Data.Int() != -7 {
		t.Fatalf("-7 decoded as %#v", toks[2].Data)
	}
}

func TestMinusAsOperator(t *testing.T) {
	assertKinds(t, "x - 1",
		token.KindIdent, token.KindMinus, token.KindLit, token.KindEOF)
}

func TestString(t *testing.T) {
	toks := lexAll(t, `"a\nbA"`)
	if len(toks) != 2 {
		t.Fatalf("got %v", toks)
	}
	if got := toks[0].Data.Str(); got != "a\nbA" {
		t.Fatalf("string decoded as %q", got)
	}
}

func TestKeywordsAndLiterals(t *testing.T) {
	toks := lexAll(t, "true false null case of end")
	want := []token.Kind{
		token.KindLit, token.KindLit, token.KindLit,
		token.KindCase, token.KindOf, token.KindEnd, token.KindEOF,
	}
	if len(toks) != len(want) {
		t.Fatalf("got %v", toks)
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Fatalf("token %d: got %s, want %s", i, toks[i].Kind, k)
		}
	}
	if !toks[0].Data.IsBool() || toks[0].Data.Bool() != true {
		t.Fatalf("true decoded as %#v", toks[0].Data)
	}
	if !toks[2].Data.IsNull() {
		t.Fatalf("null decoded as %#v", toks[2].Data)
	}
}

func TestOffsideBlockInsertsSemiAndEnd(t *testing.T) {
	source := "do\n  x = 1\n  y = 2\nz"
	got := kinds(lexAll(t, source))
	want := []token.Kind{
		token.KindDo,
		token.KindIdent, token.KindAssign, token.KindLit,
		token.KindSemi,
		token.KindIdent, token.KindAssign, token.KindLit,
		token.KindEnd,
		token.KindIdent,
		token.KindEOF,
	}
	if len(got) != len(want) {
		t.Fatalf("lex(%q) = %v, want %v", source, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("lex(%q)[%d] = %s, want %s (full: %v)", source, i, got[i], want[i], got)
		}
	}
}

func TestLetOpensInCloser(t *testing.T) {
	source := "let\n  x = 1\ny"
	got := kinds(lexAll(t, source))
	want := []token.Kind{
		token.KindLet,
		token.KindIdent, token.KindAssign, token.KindLit,
		token.KindIn,
		token.KindIdent,
		token.KindEOF,
	}
	if len(got) != len(want) {
		t.Fatalf("lex(%q) = %v, want %v", source, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("lex(%q)[%d] = %s, want %s (full: %v)", source, i, got[i], want[i], got)
		}
	}
}

func TestComments(t *testing.T) {
	assertKinds(t, "x # this is a comment\n+ 1",
		token.KindIdent, token.KindPlus, token.KindLit, token.KindEOF)
}

func TestNewWithTabWidthChangesColumnArithmetic(t *testing.T) {
	l := NewWithTabWidth("\tx", "test", 4)
	tok := l.Lex()
	if tok.Pos.Column != 5 {
		t.Fatalf("column after one tab at width 4 = %d, want 5", tok.Pos.Column)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	l := New("a b", "test")
	first := l.Peek()
	second := l.Peek()
	if first.Kind != second.Kind || first.Pos != second.Pos {
		t.Fatalf("Peek not idempotent: %v != %v", first, second)
	}
	consumed := l.Lex()
	if consumed.Kind != first.Kind || consumed.Pos != first.Pos {
		t.Fatalf("Lex() = %v, want peeked %v", consumed, first)
	}
	next := l.Lex()
	if next.Kind != token.KindIdent || next.Data.Str() != "b" {
		t.Fatalf("Lex() after peek = %v, want ident b", next)
	}
}
