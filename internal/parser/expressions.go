package parser

import (
	"github.com/olix3001/ccash/internal/cst"
	"github.com/olix3001/ccash/internal/lexer"
)

// parseExpr parses a single expression. On unrecognised input it reports an
// error and returns a BadExpr; closing delimiters are left for the caller.
func (p *Parser) parseExpr() cst.Expr {
	tok := p.curTok
	switch tok.Type {
	case lexer.IDENT:
		p.nextToken()
		return cst.NewPrimaryExpr(&tok, tok.Span)
	case lexer.INT:
		p.nextToken()
		return cst.NewIntLit(tok, tok.Span)
	case lexer.LPAREN:
		return p.parseParenExpr()
	case lexer.LBRACE:
		return p.parseBlockExpr()
	}

	p.reportExpectedError("expression", tok)
	switch tok.Type {
	case lexer.EOF, lexer.RPAREN, lexer.RBRACE, lexer.SEMICOLON, lexer.COMMA, lexer.FUNC:
	default:
		p.nextToken()
	}
	return cst.NewBadExpr(tok, tok.Span)
}

func (p *Parser) parseParenExpr() cst.Expr {
	start := p.curTok.Span
	p.nextToken() // consume '('

	inner := p.parseExpr()
	p.expect(lexer.RPAREN, "`)`")

	return cst.NewParenExpr(inner, p.spanFrom(start))
}

// parseBlockExpr parses `{ stmt (; stmt)* }`. Semicolons are separators and
// may be omitted.
func (p *Parser) parseBlockExpr() *cst.BlockExpr {
	start := p.curTok.Span
	p.nextToken() // consume '{'

	var stmts []cst.Stmt
	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		if p.curTokenIs(lexer.SEMICOLON) {
			p.nextToken()
			continue
		}

		before := p.curTok.Span.Start
		stmts = append(stmts, p.parseStmt())
		if p.curTok.Span.Start == before && !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
			p.nextToken()
		}
	}
	p.expect(lexer.RBRACE, "`}`")

	return cst.NewBlockExpr(stmts, p.spanFrom(start))
}

func (p *Parser) parseStmt() cst.Stmt {
	switch p.curTok.Type {
	case lexer.LET:
		return p.parseLetStmt()
	case lexer.RETURN:
		return p.parseReturnStmt()
	}

	start := p.curTok.Span
	x := p.parseExpr()
	return cst.NewExprStmt(x, p.spanFrom(start))
}

func (p *Parser) parseLetStmt() *cst.LetStmt {
	start := p.curTok.Span
	p.nextToken() // consume 'let'

	var name *lexer.Token
	if p.curTokenIs(lexer.IDENT) {
		tok := p.curTok
		name = &tok
		p.nextToken()
	} else {
		p.reportExpectedError("binding name", p.curTok)
	}

	var typ *cst.TypeRef
	if p.curTokenIs(lexer.COLON) {
		p.nextToken()
		typ = p.parseType()
	}

	var value cst.Expr
	if p.expect(lexer.ASSIGN, "`=`") {
		value = p.parseExpr()
	}

	return cst.NewLetStmt(name, typ, value, p.spanFrom(start))
}

func (p *Parser) parseReturnStmt() *cst.ReturnStmt {
	start := p.curTok.Span
	p.nextToken() // consume 'return'

	var value cst.Expr
	switch p.curTok.Type {
	case lexer.SEMICOLON, lexer.RBRACE, lexer.EOF:
	default:
		value = p.parseExpr()
	}

	return cst.NewReturnStmt(value, p.spanFrom(start))
}
