package lexer

import "strings"

// TokenType represents the type of a token
type TokenType string

// Span represents the source location of a token
type Span struct {
	Filename string // optional source filename for diagnostics
	Line     int    // 1-based line number
	Column   int    // 1-based column number
	Start    int    // index in []rune of the original string
	End      int    // exclusive end index
}

// IsValid reports whether the span points at a real source position.
func (s Span) IsValid() bool {
	return s.Line > 0 && s.Column > 0
}

// Merge returns the smallest span covering both s and other.
func (s Span) Merge(other Span) Span {
	if !s.IsValid() {
		return other
	}
	if !other.IsValid() {
		return s
	}
	out := s
	if other.Start < out.Start {
		out.Start = other.Start
		out.Line = other.Line
		out.Column = other.Column
	}
	if other.End > out.End {
		out.End = other.End
	}
	return out
}

// Token represents a lexical token
type Token struct {
	Type  TokenType
	Value string // exact text from source
	Span  Span   // source location information
}

// Token type constants
const (
	// Special tokens
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	// Identifiers and literals
	IDENT      TokenType = "IDENT"      // add, foobar, x, y, ...
	INT        TokenType = "INT"        // 1343456
	INT_TYPE   TokenType = "INT_TYPE"   // int8, int32, ...
	FLOAT_TYPE TokenType = "FLOAT_TYPE" // float32, float64, ...

	// Operators
	ASSIGN TokenType = "="
	MINUS  TokenType = "-"
	ARROW  TokenType = "->"

	// Delimiters
	COMMA     TokenType = ","
	SEMICOLON TokenType = ";"
	COLON     TokenType = ":"

	LPAREN TokenType = "("
	RPAREN TokenType = ")"
	LBRACE TokenType = "{"
	RBRACE TokenType = "}"

	// Keywords
	FUNC   TokenType = "FUNC"
	LET    TokenType = "LET"
	RETURN TokenType = "RETURN"
)

// Prefixes of the sized type literals. The lowering pass strips exactly
// len(IntTypePrefix) or len(FloatTypePrefix) characters from the token text.
const (
	IntTypePrefix   = "int"
	FloatTypePrefix = "float"
)

var keywords = map[string]TokenType{
	"func":   FUNC,
	"let":    LET,
	"return": RETURN,
}

// LookupIdent checks if the identifier is a keyword or a sized type literal.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	if isSizedLiteral(ident, IntTypePrefix) {
		return INT_TYPE
	}
	if isSizedLiteral(ident, FloatTypePrefix) {
		return FLOAT_TYPE
	}
	return IDENT
}

func isSizedLiteral(ident, prefix string) bool {
	rest, ok := strings.CutPrefix(ident, prefix)
	if !ok || rest == "" {
		return false
	}
	for _, r := range rest {
		if !isDigit(r) {
			return false
		}
	}
	return true
}
