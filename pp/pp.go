// Package pp dumps tokens and annotated AST nodes in a readable,
// reflection-driven form, the way tawago/main.go's "typeinfo" command
// dumps its typeInfo struct with github.com/alecthomas/repr.
package pp

import (
	"io"

	"github.com/alecthomas/repr"

	"github.com/diamant-lang/diamant/ast"
	"github.com/diamant-lang/diamant/token"
)

// Tokens dumps a whole token stream to w, one repr-formatted entry per
// token, for the `pp` CLI command (spec.md §6).
func Tokens(w io.Writer, toks []token.Token) {
	p := repr.New(w, repr.Indent("  "), repr.OmitEmpty(true))
	for _, t := range toks {
		p.Println(t)
	}
}

// AST dumps an annotated (or bare) top-level do node to w, for the
// `pp` CLI command (spec.md §6).
func AST(w io.Writer, top *ast.Do) {
	p := repr.New(w, repr.Indent("  "), repr.OmitEmpty(true))
	p.Println(top)
}
