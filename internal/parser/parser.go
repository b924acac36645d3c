// Package parser turns CCash source text into a concrete syntax tree.
//
// The parser never fails outright: it records recoverable diagnostics and
// leaves the affected CST fields nil, so callers must consult Errors and
// LexerErrors before trusting the tree.
package parser

import (
	"github.com/olix3001/ccash/internal/cst"
	"github.com/olix3001/ccash/internal/lexer"
)

type Option func(*options)

type options struct {
	filename string
}

// WithFilename configures the parser to attribute all emitted spans to the provided filename.
func WithFilename(name string) Option {
	return func(o *options) {
		o.filename = name
	}
}

// Parser implements a recursive descent parser for CCash.
// Invariants:
//   - Lookahead: curTok always reflects the token currently under examination;
//     peekTok mirrors the next token pulled from the lexer. prevTok is the last
//     consumed token and closes node spans. All three move only via nextToken.
//   - Diagnostics: errors is an append-only accumulator. Callers consult
//     Errors() after ParseFile.
//   - Progress: every loop that repeats on arbitrary input consumes at least
//     one token per iteration.
type Parser struct {
	lx      *lexer.Lexer
	prevTok lexer.Token
	curTok  lexer.Token
	peekTok lexer.Token

	errors []ParseError

	filename string
}

// New returns a parser initialised with the provided source input.
func New(input string, opts ...Option) *Parser {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}

	p := &Parser{
		lx:       lexer.New(input),
		filename: cfg.filename,
	}

	if cfg.filename != "" {
		p.lx.SetFilename(cfg.filename)
	}

	// Seed curTok/peekTok.
	p.nextToken()
	p.nextToken()

	return p
}

// Errors returns the parse diagnostics recorded so far.
func (p *Parser) Errors() []ParseError {
	return p.errors
}

// LexerErrors returns the diagnostics produced while tokenizing.
func (p *Parser) LexerErrors() []lexer.LexerError {
	return p.lx.Errors
}

func (p *Parser) nextToken() {
	p.prevTok = p.curTok
	p.curTok = p.peekTok
	p.peekTok = p.lx.NextToken()
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool {
	return p.curTok.Type == t
}

// expect consumes the current token if it has type t, otherwise it reports
// what was expected and leaves the token in place.
func (p *Parser) expect(t lexer.TokenType, what string) bool {
	if p.curTokenIs(t) {
		p.nextToken()
		return true
	}
	p.reportExpectedError(what, p.curTok)
	return false
}

// spanFrom closes a node span that started at start and ends at the last
// consumed token.
func (p *Parser) spanFrom(start lexer.Span) lexer.Span {
	if p.prevTok.Span.End < start.Start {
		return start
	}
	return start.Merge(p.prevTok.Span)
}

// ParseFile parses the whole input into a CST file node.
func (p *Parser) ParseFile() *cst.File {
	start := p.curTok.Span
	var items []cst.Item

	for !p.curTokenIs(lexer.EOF) {
		switch p.curTok.Type {
		case lexer.FUNC:
			items = append(items, p.parseFunctionDecl())
		default:
			items = append(items, p.parseBadItem())
		}
	}

	span := start
	span.End = p.curTok.Span.End
	return cst.NewFile(items, span)
}

// parseBadItem records an unexpected top-level token and skips ahead to the
// next `func` keyword.
func (p *Parser) parseBadItem() *cst.BadItem {
	tok := p.curTok
	p.reportUnexpectedError(tok, "expected a declaration")
	p.nextToken()
	for !p.curTokenIs(lexer.FUNC) && !p.curTokenIs(lexer.EOF) {
		p.nextToken()
	}
	return cst.NewBadItem(tok, p.spanFrom(tok.Span))
}
