// Package parser implements the recursive-descent parser of spec.md
// §4.2: a single unified grammar for both expression and pattern
// positions, followed by an integrated validation pass that rejects
// context-incompatible constructs.
package parser

import (
	"github.com/ztrue/tracerr"

	"github.com/diamant-lang/diamant/ast"
	"github.com/diamant-lang/diamant/errors"
	"github.com/diamant-lang/diamant/lexer"
	"github.com/diamant-lang/diamant/token"
)

// Parser drives a lexer.Lexer with one-token lookahead, exactly the
// teacher's pull model (tawago/parser.go's Parser wrapping a *Lexer).
type Parser struct {
	l *lexer.Lexer
}

func New(l *lexer.Lexer) *Parser {
	return &Parser{l: l}
}

// Parse consumes the whole token stream and returns the top-level do
// expression spec.md §4.2 describes: its Seq is the source file, its
// Defs the partitioned function-definition map. A panic raised from
// anywhere in the descent (lexer or parser) is recovered here and
// wrapped with a stack trace, mirroring tawago's Parser.Parse().
func (p *Parser) Parse() (top *ast.Do, err error) {
	defer func() {
		if r := recover(); r != nil {
			if rerr, ok := r.(error); ok {
				err = tracerr.Wrap(rerr)
				return
			}
			panic(r)
		}
	}()

	pos := p.l.Peek().Pos
	items := p.parseSeqItems(token.KindEOF)
	p.l.LexExpecting(token.KindEOF)
	seq, defs := p.partition(items)
	top = &ast.Do{Base: ast.Base{Pos: pos}, Seq: seq, Defs: defs}
	validateExpr(top)
	return
}

// parseSeqItems parses a `;`-separated sequence of expressions up to
// (but not consuming) a token of kind stop.
func (p *Parser) parseSeqItems(stop token.Kind) []ast.Node {
	var items []ast.Node
	if p.l.PeekIs(stop) {
		return items
	}
	for {
		items = append(items, p.parseExpr())
		if p.l.PeekIs(token.KindSemi) {
			p.l.Lex()
			if p.l.PeekIs(stop) {
				break
			}
			continue
		}
		break
	}
	return items
}

// partition implements spec.md §4.2 "Block body": entries whose
// outermost syntax is `=` and whose left is an apply on a bare var are
// lifted into defs, grouped by name; everything else stays in seq.
func (p *Parser) partition(items []ast.Node) ([]ast.Node, map[string]*ast.FuncDef) {
	defs := map[string]*ast.FuncDef{}
	var seq []ast.Node
	for _, item := range items {
		assign, ok := item.(*ast.Assign)
		if !ok {
			seq = append(seq, item)
			continue
		}
		apply, ok := assign.Left.(*ast.Apply)
		if !ok {
			seq = append(seq, item)
			continue
		}
		fn, ok := apply.Func.(*ast.Var)
		if !ok {
			panic(errors.MalformedFunctionLHS{Pos: assign.Position()})
		}
		clause := &ast.Clause{
			Base: ast.Base{Pos: assign.Position()},
			Pats: apply.Args,
			Body: assign.Right,
		}
		def, exists := defs[fn.Name]
		if !exists {
			def = &ast.FuncDef{Pos: fn.Position(), Name: fn.Name, Arity: len(apply.Args)}
			defs[fn.Name] = def
		} else if def.Arity != len(apply.Args) {
			panic(errors.ArityMismatch{
				Name: fn.Name, WantArity: def.Arity, GotArity: len(apply.Args), Pos: assign.Position(),
			})
		}
		def.Clauses = append(def.Clauses, clause)
	}
	return seq, defs
}

// parseExpr is the single entry point for the unified grammar
// (spec.md §4.2 "Grammar"); it is used for expression positions,
// pattern positions, and do-sequence items alike. Level 1, `=`, is
// right-associative and the weakest-binding production.
func (p *Parser) parseExpr() ast.Node {
	left := p.parseLogic()
	if p.l.PeekIs(token.KindAssign) {
		pos := left.Position()
		p.l.Lex()
		right := p.parseExpr()
		return &ast.Assign{Base: ast.Base{Pos: pos}, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseLogic() ast.Node {
	left := p.parseRelational()
	for p.l.PeekIs(token.KindAnd, token.KindOr) {
		op := p.l.Lex()
		right := p.parseRelational()
		left = &ast.Binary{Base: ast.Base{Pos: left.Position()}, Op: op.Kind, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseRelational() ast.Node {
	left := p.parseAdditive()
	for p.l.PeekIs(token.KindLT, token.KindGT, token.KindLE, token.KindGE, token.KindEQ, token.KindNE) {
		op := p.l.Lex()
		right := p.parseAdditive()
		left = &ast.Binary{Base: ast.Base{Pos: left.Position()}, Op: op.Kind, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseAdditive() ast.Node {
	left := p.parseMultiplicative()
	for p.l.PeekIs(token.KindPlus, token.KindMinus, token.KindTilde, token.KindAt) {
		op := p.l.Lex()
		right := p.parseMultiplicative()
		left = &ast.Binary{Base: ast.Base{Pos: left.Position()}, Op: op.Kind, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Node {
	left := p.parsePostfix()
	for p.l.PeekIs(token.KindStar, token.KindSlash, token.KindDiv, token.KindMod) {
		op := p.l.Lex()
		right := p.parsePostfix()
		left = &ast.Binary{Base: ast.Base{Pos: left.Position()}, Op: op.Kind, Left: left, Right: right}
	}
	return left
}

// parsePostfix handles function application and dict-update, which
// bind tighter than every binary operator but apply to the result of
// a (possibly unary-prefixed) atom (spec.md §4.2 grammar levels 6-7).
func (p *Parser) parsePostfix() ast.Node {
	n := p.parseUnary()
	for {
		switch {
		case p.l.PeekIs(token.KindLParen):
			pos := n.Position()
			p.l.Lex()
			var args []ast.Node
			if !p.l.PeekIs(token.KindRParen) {
				for {
					args = append(args, p.parseExpr())
					if p.l.PeekIs(token.KindComma) {
						p.l.Lex()
						continue
					}
					break
				}
			}
			p.l.LexExpecting(token.KindRParen)
			n = &ast.Apply{Base: ast.Base{Pos: pos}, Func: n, Args: args}
		case p.l.PeekIs(token.KindLBrace):
			pos := n.Position()
			entries := p.parseDictEntries()
			n = &ast.DictUp{Base: ast.Base{Pos: pos}, Subj: n, Entries: entries}
		default:
			return n
		}
	}
}

func (p *Parser) parseUnary() ast.Node {
	if p.l.PeekIs(token.KindMinus, token.KindNot) {
		op := p.l.Lex()
		right := p.parseUnary()
		return &ast.Unary{Base: ast.Base{Pos: op.Pos}, Op: op.Kind, Right: right}
	}
	return p.parseAtom()
}

func (p *Parser) parseAtom() ast.Node {
	switch {
	case p.l.PeekIs(token.KindCase):
		return p.parseCase()
	case p.l.PeekIs(token.KindDo):
		return p.parseDo()
	case p.l.PeekIs(token.KindLet):
		return p.parseLet()
	case p.l.PeekIs(token.KindIf):
		return p.parseIf()
	case p.l.PeekIs(token.KindLBracket):
		return p.parseArray()
	case p.l.PeekIs(token.KindLBrace):
		pos := p.l.Peek().Pos
		entries := p.parseDictEntries()
		return &ast.Dict{Base: ast.Base{Pos: pos}, Entries: entries}
	case p.l.PeekIs(token.KindIdent):
		tok := p.l.Lex()
		return &ast.Var{Base: ast.Base{Pos: tok.Pos}, Name: tok.Data.Str()}
	case p.l.PeekIs(token.KindLit):
		tok := p.l.Lex()
		return &ast.Lit{Base: ast.Base{Pos: tok.Pos}, Value: tok.Data}
	case p.l.PeekIs(token.KindRegex):
		tok := p.l.Lex()
		return &ast.Regex{Base: ast.Base{Pos: tok.Pos}, Pattern: tok.Data.Str()}
	case p.l.PeekIs(token.KindLParen):
		p.l.Lex()
		n := p.parseExpr()
		p.l.LexExpecting(token.KindRParen)
		return n
	default:
		tok := p.l.Peek()
		panic(errors.UnexpectedToken{Got: tok.Kind, Pos: tok.Pos})
	}
}

func (p *Parser) parseDo() *ast.Do {
	doTok := p.l.LexExpecting(token.KindDo)
	items := p.parseSeqItems(token.KindEnd)
	p.l.LexExpecting(token.KindEnd)
	seq, defs := p.partition(items)
	return &ast.Do{Base: ast.Base{Pos: doTok.Pos}, Seq: seq, Defs: defs}
}

// parseLet implements the `let <seq> in <body>` form decided in
// DESIGN.md's Open Question resolution: it desugars to a do whose seq
// is the let block's bindings plus body appended as the final entry.
func (p *Parser) parseLet() *ast.Do {
	letTok := p.l.LexExpecting(token.KindLet)
	items := p.parseSeqItems(token.KindIn)
	p.l.LexExpecting(token.KindIn)
	body := p.parseExpr()
	items = append(items, body)
	seq, defs := p.partition(items)
	return &ast.Do{Base: ast.Base{Pos: letTok.Pos}, Seq: seq, Defs: defs}
}

func (p *Parser) parseIf() *ast.If {
	ifTok := p.l.LexExpecting(token.KindIf)
	cond := p.parseExpr()
	p.l.LexExpecting(token.KindThen)
	then := p.parseExpr()
	p.l.LexExpecting(token.KindElse)
	els := p.parseExpr()
	return &ast.If{Base: ast.Base{Pos: ifTok.Pos}, Cond: cond, Then: then, Else: els}
}

func (p *Parser) parseArray() *ast.Array {
	lb := p.l.LexExpecting(token.KindLBracket)
	var elems []ast.Node
	if !p.l.PeekIs(token.KindRBracket) {
		for {
			elems = append(elems, p.parseExpr())
			if p.l.PeekIs(token.KindComma) {
				p.l.Lex()
				continue
			}
			break
		}
	}
	p.l.LexExpecting(token.KindRBracket)
	return &ast.Array{Base: ast.Base{Pos: lb.Pos}, Elems: elems}
}

// parseDictEntries parses `{ key: value, ... }`, used both for a
// standalone dict literal and as the suffix of a postfix dict-update.
func (p *Parser) parseDictEntries() []*ast.Entry {
	p.l.LexExpecting(token.KindLBrace)
	var entries []*ast.Entry
	if !p.l.PeekIs(token.KindRBrace) {
		for {
			pos := p.l.Peek().Pos
			key := p.parseExpr()
			p.l.LexExpecting(token.KindColon)
			val := p.parseExpr()
			entries = append(entries, &ast.Entry{Base: ast.Base{Pos: pos}, Key: key, Value: val})
			if p.l.PeekIs(token.KindComma) {
				p.l.Lex()
				continue
			}
			break
		}
	}
	p.l.LexExpecting(token.KindRBrace)
	return entries
}

// parseCase implements `case expr of pat -> expr ; pat -> expr ; … end`
// (spec.md §4.2 "Case alternatives").
func (p *Parser) parseCase() *ast.Case {
	caseTok := p.l.LexExpecting(token.KindCase)
	subj := p.parseExpr()
	p.l.LexExpecting(token.KindOf)

	var clauses []*ast.Clause
	if !p.l.PeekIs(token.KindEnd) {
		for {
			clauses = append(clauses, p.parseCaseClause())
			if p.l.PeekIs(token.KindSemi) {
				p.l.Lex()
				if p.l.PeekIs(token.KindEnd) {
					break
				}
				continue
			}
			break
		}
	}
	p.l.LexExpecting(token.KindEnd)
	return &ast.Case{Base: ast.Base{Pos: caseTok.Pos}, Subj: subj, Clauses: clauses}
}

func (p *Parser) parseCaseClause() *ast.Clause {
	pos := p.l.Peek().Pos
	pat := p.parseExpr()
	p.l.LexExpecting(token.KindArrow)
	body := p.parseExpr()
	return &ast.Clause{Base: ast.Base{Pos: pos}, Pats: []ast.Node{pat}, Body: body}
}
