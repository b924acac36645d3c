package parser

import (
	"fmt"

	"github.com/olix3001/ccash/internal/diag"
	"github.com/olix3001/ccash/internal/lexer"
)

// ParseError captures a recoverable parsing error with location context.
type ParseError struct {
	Message  string
	Span     lexer.Span
	Severity diag.Severity
	Code     diag.Code
	Help     string
}

// Error implements the error interface.
func (e ParseError) Error() string {
	return e.ToDiagnostic().Error()
}

// ToDiagnostic converts the parse error into the shared diagnostic structure.
func (e ParseError) ToDiagnostic() diag.Diagnostic {
	severity := e.Severity
	if severity == "" {
		severity = diag.SeverityError
	}
	return diag.Diagnostic{
		Stage:    diag.StageParser,
		Severity: severity,
		Code:     e.Code,
		Message:  e.Message,
		Span:     lexer.ToDiagSpan(e.Span),
		Help:     e.Help,
	}
}

func (p *Parser) report(msg string, code diag.Code, span lexer.Span, help string) {
	if span.Filename == "" && p.filename != "" {
		span.Filename = p.filename
	}

	p.errors = append(p.errors, ParseError{
		Message:  msg,
		Span:     span,
		Severity: diag.SeverityError,
		Code:     code,
		Help:     help,
	})
}

func describe(tok lexer.Token) string {
	if tok.Type == lexer.EOF {
		return "end of file"
	}
	if tok.Value == "" {
		return "`" + string(tok.Type) + "`"
	}
	return "`" + tok.Value + "`"
}

// reportExpectedError reports an error when an expected token is missing.
func (p *Parser) reportExpectedError(expected string, found lexer.Token) {
	msg := fmt.Sprintf("expected %s, found %s", expected, describe(found))

	help := ""
	if found.Type == lexer.EOF {
		help = "the input ended early; check for a missing `)` or `}`"
	}

	p.report(msg, diag.CodeParseExpectedToken, found.Span, help)
}

// reportUnexpectedError reports an error for an unexpected token.
func (p *Parser) reportUnexpectedError(unexpected lexer.Token, context string) {
	msg := fmt.Sprintf("unexpected token %s", describe(unexpected))
	if context != "" {
		msg = fmt.Sprintf("%s: %s", context, msg)
	}
	p.report(msg, diag.CodeParseUnexpectedToken, unexpected.Span, "")
}
