// Package parser builds a SOL25 ast.Program from a lexer.Token stream.
//
// The grammar is plain recursive descent over the token list (no
// lookahead beyond one token, except where telling a keyword-message
// tail from a unary one requires peeking at the token after the
// current one). There is
// no error-recovery pass: the first unmet expectation returns
// immediately as a *diagnostics.Diagnostic carrying ERR_SYNTACTIC, per
// the front-end's first-failure-wins error model.
package parser

import (
	"github.com/sol25lang/solc/internal/ast"
	"github.com/sol25lang/solc/internal/diagnostics"
	"github.com/sol25lang/solc/internal/lexer"
)

const phase = "syntactic"

var reservedIdents = map[string]bool{
	"self": true, "super": true, "true": true, "false": true, "nil": true, "class": true,
}

// Parse runs the full pipeline over already-lexed tokens: it lifts the
// lexically-first comment into the program description, discards every
// COMMENT token, and parses the remaining stream as a sequence of class
// declarations.
func Parse(tokens []lexer.Token) (*ast.Program, *diagnostics.Diagnostic) {
	description, hasDescription, rest := extractDescription(tokens)

	p := &parser{tokens: rest}
	var classes []*ast.ClassDecl
	for !p.atEnd() {
		cls, err := p.parseClass()
		if err != nil {
			return nil, err
		}
		classes = append(classes, cls)
	}
	return &ast.Program{Classes: classes, Description: description, HasDescription: hasDescription}, nil
}

// extractDescription finds the lexically-first COMMENT token, strips
// its surrounding quotes for use as the program description, and
// returns the remaining tokens with every COMMENT removed.
func extractDescription(tokens []lexer.Token) (string, bool, []lexer.Token) {
	description := ""
	found := false
	rest := make([]lexer.Token, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Type == lexer.COMMENT {
			if !found {
				description = stripQuotes(tok.Value)
				found = true
			}
			continue
		}
		rest = append(rest, tok)
	}
	return description, found, rest
}

func stripQuotes(raw string) string {
	if len(raw) >= 2 {
		return raw[1 : len(raw)-1]
	}
	return raw
}

type parser struct {
	tokens  []lexer.Token
	pos     int
	lastEnd int
}

func (p *parser) atEnd() bool { return p.pos >= len(p.tokens) }

func (p *parser) current() *lexer.Token {
	if p.atEnd() {
		return nil
	}
	return &p.tokens[p.pos]
}

func (p *parser) peekAt(offset int) *lexer.Token {
	i := p.pos + offset
	if i < 0 || i >= len(p.tokens) {
		return nil
	}
	return &p.tokens[i]
}

// errf builds a syntactic diagnostic anchored to the current token, or
// to end-of-input when the stream is exhausted.
func (p *parser) errf(format string, args ...any) *diagnostics.Diagnostic {
	tok := p.current()
	if tok == nil {
		pos := p.lastEnd
		return diagnostics.At(diagnostics.ExitSyntactic, phase, pos, "unexpected end of input: "+format, args...)
	}
	return diagnostics.At(diagnostics.ExitSyntactic, phase, tok.Pos, format, args...)
}

// expect consumes the current token, verifying its type, and advances
// lastEnd to the byte offset immediately after it.
func (p *parser) expect(tt lexer.TokenType) (lexer.Token, *diagnostics.Diagnostic) {
	tok := p.current()
	if tok == nil {
		return lexer.Token{}, p.errf("expected %s", tt)
	}
	if tok.Type != tt {
		return lexer.Token{}, p.errf("expected %s, got %s %q", tt, tok.Type, tok.Value)
	}
	p.pos++
	p.lastEnd = tok.End()
	return *tok, nil
}

func (p *parser) parseClass() (*ast.ClassDecl, *diagnostics.Diagnostic) {
	kw, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	if kw.Value != "class" {
		return nil, p.errf("expected keyword 'class', got %q", kw.Value)
	}
	nameTok, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	if !isClassName(nameTok.Value) {
		return nil, p.errf("invalid class identifier %q", nameTok.Value)
	}
	if _, err := p.expect(lexer.COLON); err != nil {
		return nil, err
	}
	parentTok, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	if !isClassName(parentTok.Value) {
		return nil, p.errf("invalid parent class identifier %q", parentTok.Value)
	}
	if _, err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}
	var methods []*ast.Method
	for {
		tok := p.current()
		if tok == nil {
			return nil, p.errf("unterminated class body")
		}
		if tok.Type == lexer.RBRACE {
			break
		}
		m, err := p.parseMethod()
		if err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	if _, err := p.expect(lexer.RBRACE); err != nil {
		return nil, err
	}
	return &ast.ClassDecl{Name: nameTok.Value, Parent: parentTok.Value, Methods: methods}, nil
}

// isClassName enforces the "starts uppercase, no underscore" discipline
// shared by class names and parent names.
func isClassName(s string) bool {
	if s == "" {
		return false
	}
	if !(s[0] >= 'A' && s[0] <= 'Z') {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] == '_' {
			return false
		}
	}
	return true
}

func isLower(b byte) bool { return b >= 'a' && b <= 'z' }

func (p *parser) parseMethod() (*ast.Method, *diagnostics.Diagnostic) {
	selector, err := p.parseSelector()
	if err != nil {
		return nil, err
	}
	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.Method{Selector: selector, Block: block}, nil
}

// parseSelector parses a method selector: either a lowercase bare
// identifier with no colon, or one or more adjacency-checked "name:"
// parts concatenated together.
func (p *parser) parseSelector() (string, *diagnostics.Diagnostic) {
	first, err := p.expect(lexer.IDENT)
	if err != nil {
		return "", err
	}
	if !isLower(first.Value[0]) {
		return "", p.errf("invalid selector identifier %q", first.Value)
	}
	selector := first.Value
	for p.current() != nil && p.current().Type == lexer.COLON {
		colon := p.current()
		if colon.Pos != p.lastEnd {
			return "", p.errf("invalid selector format: space between identifier and colon")
		}
		if _, err := p.expect(lexer.COLON); err != nil {
			return "", err
		}
		selector += ":"
		if next := p.current(); next != nil && next.Type == lexer.IDENT {
			if next.Pos != p.lastEnd {
				return "", p.errf("invalid selector format: space between colon and identifier")
			}
			part, err := p.expect(lexer.IDENT)
			if err != nil {
				return "", err
			}
			selector += part.Value
		}
	}
	if !containsColon(selector) && reservedIdents[selector] {
		return "", p.errf("invalid selector identifier %q", selector)
	}
	return selector, nil
}

func containsColon(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == ':' {
			return true
		}
	}
	return false
}

// parseBlock parses "[" header assign* "]".
func (p *parser) parseBlock() (*ast.Block, *diagnostics.Diagnostic) {
	if _, err := p.expect(lexer.LBRACKET); err != nil {
		return nil, err
	}

	var params []*ast.Parameter
	tok := p.current()
	switch {
	case tok != nil && tok.Type == lexer.PIPE:
		if _, err := p.expect(lexer.PIPE); err != nil {
			return nil, err
		}
	case tok != nil && tok.Type == lexer.COLON:
		order := 1
		for p.current() != nil && p.current().Type == lexer.COLON {
			colonTok := *p.current()
			if _, err := p.expect(lexer.COLON); err != nil {
				return nil, err
			}
			next := p.current()
			if next == nil || next.Type != lexer.IDENT {
				return nil, p.errf("expected an identifier after ':' in block header")
			}
			if next.Pos != colonTok.End() {
				return nil, p.errf("invalid parameter format: space between ':' and identifier")
			}
			paramTok, err := p.expect(lexer.IDENT)
			if err != nil {
				return nil, err
			}
			if !(isLower(paramTok.Value[0]) || paramTok.Value[0] == '_') {
				return nil, p.errf("invalid parameter identifier %q", paramTok.Value)
			}
			if reservedIdents[paramTok.Value] {
				return nil, p.errf("invalid parameter identifier %q", paramTok.Value)
			}
			params = append(params, &ast.Parameter{Name: paramTok.Value, Order: order})
			order++
		}
		if cur := p.current(); cur == nil || cur.Type != lexer.PIPE {
			return nil, p.errf("expected '|' after parameter declarations")
		}
		if _, err := p.expect(lexer.PIPE); err != nil {
			return nil, err
		}
	default:
		return nil, p.errf("expected parameter declarations or '|' in block header")
	}

	var assigns []*ast.Assignment
	order := 1
	for {
		tok := p.current()
		if tok == nil {
			return nil, p.errf("unterminated block")
		}
		if tok.Type == lexer.RBRACKET {
			break
		}
		a, err := p.parseAssignment(order)
		if err != nil {
			return nil, err
		}
		assigns = append(assigns, a)
		order++
	}
	if _, err := p.expect(lexer.RBRACKET); err != nil {
		return nil, err
	}
	return &ast.Block{Parameters: params, Assigns: assigns}, nil
}

func (p *parser) parseAssignment(order int) (*ast.Assignment, *diagnostics.Diagnostic) {
	varTok, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	if reservedIdents[varTok.Value] {
		return nil, p.errf("cannot assign to reserved identifier %q", varTok.Value)
	}
	if _, err := p.expect(lexer.ASSIGN); err != nil {
		return nil, err
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.DOT); err != nil {
		return nil, err
	}
	return &ast.Assignment{Order: order, Target: varTok.Value, TargetPos: varTok.Pos, Expr: expr}, nil
}

func (p *parser) parseExpr() (ast.Expression, *diagnostics.Diagnostic) {
	base, err := p.parseExprBase()
	if err != nil {
		return nil, err
	}
	return p.parseExprTail(base)
}

func (p *parser) parseExprBase() (ast.Expression, *diagnostics.Diagnostic) {
	tok := p.current()
	if tok == nil {
		return nil, p.errf("unexpected end of input in expression")
	}
	switch tok.Type {
	case lexer.LPAREN:
		if _, err := p.expect(lexer.LPAREN); err != nil {
			return nil, err
		}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return expr, nil
	case lexer.LBRACKET:
		block, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return &ast.BlockExpr{Block: block, Pos: tok.Pos}, nil
	case lexer.NUMBER:
		t, _ := p.expect(lexer.NUMBER)
		return &ast.Literal{Kind: ast.LiteralInteger, Value: t.Value, Pos: t.Pos}, nil
	case lexer.STRING:
		t, _ := p.expect(lexer.STRING)
		return &ast.Literal{Kind: ast.LiteralString, Value: t.Value, Pos: t.Pos}, nil
	case lexer.IDENT:
		t, _ := p.expect(lexer.IDENT)
		switch {
		case t.Value == "true":
			return &ast.Literal{Kind: ast.LiteralTrue, Value: t.Value, Pos: t.Pos}, nil
		case t.Value == "false":
			return &ast.Literal{Kind: ast.LiteralFalse, Value: t.Value, Pos: t.Pos}, nil
		case t.Value == "nil":
			return &ast.Literal{Kind: ast.LiteralNil, Value: t.Value, Pos: t.Pos}, nil
		case t.Value[0] >= 'A' && t.Value[0] <= 'Z':
			return &ast.Literal{Kind: ast.LiteralClass, Value: t.Value, Pos: t.Pos}, nil
		default:
			return &ast.Var{Name: t.Value, Pos: t.Pos}, nil
		}
	default:
		return nil, p.errf("unexpected token %s %q in expression", tok.Type, tok.Value)
	}
}

// parseExprTail extends base with unary sends and keyword sends for as
// long as the next token introduces one. A keyword-message tail binds
// as tightly as possible: it consumes every "ident :" argument triple
// it can before returning, folding them into a single Send with a
// concatenated selector.
func (p *parser) parseExprTail(base ast.Expression) (ast.Expression, *diagnostics.Diagnostic) {
	for {
		tok := p.current()
		if tok == nil {
			return base, nil
		}
		if tok.Type == lexer.IDENT {
			next := p.peekAt(1)
			if next != nil && next.Type == lexer.COLON {
				var err *diagnostics.Diagnostic
				base, err = p.parseKeywordSend(base)
				if err != nil {
					return nil, err
				}
				continue
			}
			identTok, _ := p.expect(lexer.IDENT)
			base = &ast.Send{Selector: identTok.Value, Target: base, Pos: ast.Pos(base)}
			continue
		}
		return base, nil
	}
}

// parseKeywordSend parses a run of "ident : argBase" pairs into one
// Send, enforcing that each colon is glued to its preceding identifier.
// Each argument binds via parseExprBase only, so chained keyword
// extensions require explicit parentheses.
func (p *parser) parseKeywordSend(target ast.Expression) (ast.Expression, *diagnostics.Diagnostic) {
	selector := ""
	var args []ast.Expression
	for {
		identTok := p.current()
		if identTok == nil || identTok.Type != lexer.IDENT {
			break
		}
		next := p.peekAt(1)
		if next == nil || next.Type != lexer.COLON {
			break
		}
		id, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		colon := p.current()
		if colon.Pos != p.lastEnd {
			return nil, p.errf("invalid selector format: space between identifier and colon")
		}
		if _, err := p.expect(lexer.COLON); err != nil {
			return nil, err
		}
		selector += id.Value + ":"
		arg, err := p.parseExprBase()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return &ast.Send{Selector: selector, Target: target, Args: args, Pos: ast.Pos(target)}, nil
}
