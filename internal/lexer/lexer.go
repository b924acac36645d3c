package lexer

import (
	"strconv"
	"unicode"

	"github.com/olix3001/ccash/internal/diag"
)

type LexerErrorKind int

const (
	ErrUnterminatedBlockComment LexerErrorKind = iota
	ErrIllegalRune
)

type LexerError struct {
	Kind    LexerErrorKind
	Message string
	Span    Span
}

// Error implements the error interface.
func (e LexerError) Error() string {
	return e.ToDiagnostic().Span.String() + ": " + e.Message
}

func (k LexerErrorKind) diagnosticCode() diag.Code {
	switch k {
	case ErrUnterminatedBlockComment:
		return diag.CodeLexerUnterminatedBlockComment
	case ErrIllegalRune:
		return diag.CodeLexerIllegalRune
	default:
		return diag.Code("LEXER_UNKNOWN_ERROR")
	}
}

// ToDiagnostic converts a lexer error into a shared diagnostic structure.
func (e LexerError) ToDiagnostic() diag.Diagnostic {
	return diag.Diagnostic{
		Stage:    diag.StageLexer,
		Severity: diag.SeverityError,
		Code:     e.Kind.diagnosticCode(),
		Message:  e.Message,
		Span:     ToDiagSpan(e.Span),
	}
}

// ToDiagSpan converts a lexer span to the diagnostic span representation.
func ToDiagSpan(s Span) diag.Span {
	return diag.Span{
		Filename: s.Filename,
		Line:     s.Line,
		Column:   s.Column,
		Start:    s.Start,
		End:      s.End,
	}
}

// Lexer represents the lexer state
type Lexer struct {
	input    []rune
	pos      int  // index of the current rune
	ch       rune // current rune (0 = EOF)
	line     int  // current line number (1-based)
	column   int  // current column number (1-based)
	filename string

	Errors []LexerError
}

func (l *Lexer) addError(kind LexerErrorKind, msg string, span Span) {
	span.Filename = l.filename
	l.Errors = append(l.Errors, LexerError{
		Kind:    kind,
		Message: msg,
		Span:    span,
	})
}

// New creates a new lexer for the given input
func New(input string) *Lexer {
	l := &Lexer{
		input:  []rune(input),
		pos:    -1, // start before first rune
		line:   1,
		column: 0, // will be 1 after first read()
	}
	l.read()
	return l
}

// SetFilename attributes every subsequent token span to name.
func (l *Lexer) SetFilename(name string) {
	l.filename = name
}

// read advances the lexer to the next character.
// line/column always reflect the position of the character at pos.
func (l *Lexer) read() {
	l.pos++
	prevPos := l.pos - 1
	inputLen := len(l.input)

	if l.pos >= inputLen {
		// Normalize position to virtual EOF
		if prevPos >= 0 && prevPos < inputLen {
			if l.input[prevPos] == '\n' {
				l.line++
				l.column = 1
			} else {
				l.column++
			}
		} else if prevPos < 0 {
			l.column = 1
		}
		l.ch = 0
		return
	}

	l.ch = l.input[l.pos]

	if prevPos >= 0 && prevPos < inputLen && l.input[prevPos] == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
}

// peek returns the next character without advancing
func (l *Lexer) peek() rune {
	if l.pos+1 >= len(l.input) {
		return 0
	}
	return l.input[l.pos+1]
}

func (l *Lexer) currentSpanStart() (line, column, pos int) {
	return l.line, l.column, l.pos
}

func (l *Lexer) makeToken(tokType TokenType, startLine, startColumn, startPos, endPos int) Token {
	return Token{
		Type:  tokType,
		Value: string(l.input[startPos:endPos]),
		Span: Span{
			Filename: l.filename,
			Line:     startLine,
			Column:   startColumn,
			Start:    startPos,
			End:      endPos,
		},
	}
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.read()
	}
}

func (l *Lexer) skipLineComment() {
	for l.ch != '\n' && l.ch != '\r' && l.ch != 0 {
		l.read()
	}
}

// skipBlockComment skips a (possibly nested) block comment whose opening
// delimiter has already been consumed.
func (l *Lexer) skipBlockComment(startLine, startColumn, startPos int) {
	depth := 1
	for depth > 0 {
		if l.ch == 0 {
			l.addError(
				ErrUnterminatedBlockComment,
				"unterminated block comment",
				Span{Line: startLine, Column: startColumn, Start: startPos, End: l.pos},
			)
			return
		}
		if l.ch == '/' && l.peek() == '*' {
			l.read()
			l.read()
			depth++
		} else if l.ch == '*' && l.peek() == '/' {
			l.read()
			l.read()
			depth--
		} else {
			l.read()
		}
	}
}

// readIdentifier reads an identifier, keyword or type literal
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) {
		l.read()
	}
	return string(l.input[start:l.pos])
}

func (l *Lexer) readNumber() {
	for isDigit(l.ch) || l.ch == '_' {
		l.read()
	}
}

// single emits a one-rune token of the given type.
func (l *Lexer) single(tokType TokenType) Token {
	startLine, startColumn, startPos := l.currentSpanStart()
	l.read()
	return l.makeToken(tokType, startLine, startColumn, startPos, l.pos)
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() Token {
	for {
		l.skipWhitespace()

		switch l.ch {
		case 0:
			startLine, startColumn, startPos := l.currentSpanStart()
			if startColumn == 0 {
				startColumn = 1
			}
			return l.makeToken(EOF, startLine, startColumn, startPos, startPos)

		case '=':
			return l.single(ASSIGN)

		case '-':
			startLine, startColumn, startPos := l.currentSpanStart()
			if l.peek() == '>' {
				l.read()
				l.read()
				return l.makeToken(ARROW, startLine, startColumn, startPos, l.pos)
			}
			l.read()
			return l.makeToken(MINUS, startLine, startColumn, startPos, l.pos)

		case '/':
			startLine, startColumn, startPos := l.currentSpanStart()
			switch l.peek() {
			case '/':
				l.read()
				l.read()
				l.skipLineComment()
				continue
			case '*':
				l.read()
				l.read()
				l.skipBlockComment(startLine, startColumn, startPos)
				continue
			}
			return l.illegal()

		case ';':
			return l.single(SEMICOLON)
		case ',':
			return l.single(COMMA)
		case ':':
			return l.single(COLON)
		case '(':
			return l.single(LPAREN)
		case ')':
			return l.single(RPAREN)
		case '{':
			return l.single(LBRACE)
		case '}':
			return l.single(RBRACE)

		default:
			if isLetter(l.ch) {
				startLine, startColumn, startPos := l.currentSpanStart()
				literal := l.readIdentifier()
				return l.makeToken(LookupIdent(literal), startLine, startColumn, startPos, l.pos)
			}
			if isDigit(l.ch) {
				startLine, startColumn, startPos := l.currentSpanStart()
				l.readNumber()
				return l.makeToken(INT, startLine, startColumn, startPos, l.pos)
			}
			return l.illegal()
		}
	}
}

// Tokenize drains the lexer, returning every token up to and including EOF.
func (l *Lexer) Tokenize() []Token {
	var toks []Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == EOF {
			return toks
		}
	}
}

func (l *Lexer) illegal() Token {
	tok := l.single(ILLEGAL)
	l.addError(
		ErrIllegalRune,
		"illegal character "+strconv.Quote(tok.Value),
		tok.Span,
	)
	return tok
}

func isLetter(ch rune) bool {
	return unicode.IsLetter(ch) || ch == '_'
}

func isDigit(ch rune) bool {
	// Numeric literals are restricted to ASCII digits.
	return ch >= '0' && ch <= '9'
}
