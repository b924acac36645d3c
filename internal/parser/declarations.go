package parser

import (
	"github.com/olix3001/ccash/internal/cst"
	"github.com/olix3001/ccash/internal/lexer"
)

// parseFunctionDecl parses `func name(params) [-> type] (= expr | block)`.
// The return type is optional in the grammar; requiring it is the lowering
// pass's job.
func (p *Parser) parseFunctionDecl() *cst.FunctionDecl {
	start := p.curTok.Span
	p.nextToken() // consume 'func'

	var name *lexer.Token
	if p.curTokenIs(lexer.IDENT) {
		tok := p.curTok
		name = &tok
		p.nextToken()
	} else {
		p.reportExpectedError("function name", p.curTok)
	}

	var params *cst.ParamList
	if p.curTokenIs(lexer.LPAREN) {
		params = p.parseParamList()
	} else {
		p.reportExpectedError("`(`", p.curTok)
	}

	var ret *cst.TypeRef
	if p.curTokenIs(lexer.ARROW) {
		p.nextToken()
		ret = p.parseType()
	}

	var body cst.Expr
	switch p.curTok.Type {
	case lexer.ASSIGN:
		p.nextToken()
		body = p.parseExpr()
	case lexer.LBRACE:
		body = p.parseBlockExpr()
	default:
		p.reportExpectedError("function body", p.curTok)
		p.skipTo(lexer.FUNC)
	}

	return cst.NewFunctionDecl(name, params, ret, body, p.spanFrom(start))
}

func (p *Parser) parseParamList() *cst.ParamList {
	start := p.curTok.Span
	p.nextToken() // consume '('

	var params []*cst.Param
	for !p.curTokenIs(lexer.RPAREN) && !p.curTokenIs(lexer.EOF) {
		params = append(params, p.parseParam())

		if p.curTokenIs(lexer.COMMA) {
			p.nextToken()
			continue
		}
		if !p.curTokenIs(lexer.RPAREN) {
			p.reportExpectedError("`,` or `)`", p.curTok)
			p.skipTo(lexer.RPAREN, lexer.ARROW, lexer.LBRACE, lexer.FUNC)
			break
		}
	}
	if p.curTokenIs(lexer.RPAREN) {
		p.nextToken()
	} else if !p.curTokenIs(lexer.EOF) {
		p.reportExpectedError("`)`", p.curTok)
	}

	return cst.NewParamList(params, p.spanFrom(start))
}

// parseParam parses `name: type [= expr]`.
func (p *Parser) parseParam() *cst.Param {
	start := p.curTok.Span

	var name *lexer.Token
	if p.curTokenIs(lexer.IDENT) {
		tok := p.curTok
		name = &tok
		p.nextToken()
	} else {
		p.reportExpectedError("parameter name", p.curTok)
	}

	var typ *cst.TypeRef
	if p.expect(lexer.COLON, "`:`") {
		typ = p.parseType()
	}

	var def *cst.DefaultClause
	if p.curTokenIs(lexer.ASSIGN) {
		defStart := p.curTok.Span
		p.nextToken()
		var value cst.Expr
		if !p.curTokenIs(lexer.COMMA) && !p.curTokenIs(lexer.RPAREN) {
			value = p.parseExpr()
		} else {
			p.reportExpectedError("default value", p.curTok)
		}
		def = cst.NewDefaultClause(value, p.spanFrom(defStart))
	}

	return cst.NewParam(name, typ, def, p.spanFrom(start))
}

// parseType parses a sized type literal. It returns nil after reporting an
// error when the current token is not a type literal.
func (p *Parser) parseType() *cst.TypeRef {
	tok := p.curTok
	var kind cst.LiteralKind
	switch tok.Type {
	case lexer.INT_TYPE:
		kind = cst.IntLiteral
	case lexer.FLOAT_TYPE:
		kind = cst.FloatLiteral
	default:
		p.reportExpectedError("type", tok)
		return nil
	}
	p.nextToken()
	return cst.NewTypeRef(kind, &tok, tok.Span)
}

// skipTo advances until the current token is one of types or EOF.
func (p *Parser) skipTo(types ...lexer.TokenType) {
	for !p.curTokenIs(lexer.EOF) {
		for _, t := range types {
			if p.curTokenIs(t) {
				return
			}
		}
		p.nextToken()
	}
}
