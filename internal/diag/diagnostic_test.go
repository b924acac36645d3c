package diag_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/olix3001/ccash/internal/diag"
	"github.com/olix3001/ccash/internal/lexer"
)

func TestFromLexerError(t *testing.T) {
	err := lexer.LexerError{
		Kind:    lexer.ErrUnterminatedBlockComment,
		Message: "unterminated block comment",
		Span: lexer.Span{
			Line:   1,
			Column: 3,
			Start:  2,
			End:    6,
		},
	}

	diagnostic := err.ToDiagnostic()

	if diagnostic.Stage != diag.StageLexer {
		t.Fatalf("expected stage %q, got %q", diag.StageLexer, diagnostic.Stage)
	}
	if diagnostic.Code != diag.CodeLexerUnterminatedBlockComment {
		t.Fatalf("expected code %q, got %q", diag.CodeLexerUnterminatedBlockComment, diagnostic.Code)
	}
	if diagnostic.Message != err.Message {
		t.Fatalf("expected message %q, got %q", err.Message, diagnostic.Message)
	}
	if diagnostic.Severity != diag.SeverityError {
		t.Fatalf("expected severity %q, got %q", diag.SeverityError, diagnostic.Severity)
	}

	wantSpan := diag.Span{
		Line:   err.Span.Line,
		Column: err.Span.Column,
		Start:  err.Span.Start,
		End:    err.Span.End,
	}
	if diagnostic.Span != wantSpan {
		t.Fatalf("expected span %+v, got %+v", wantSpan, diagnostic.Span)
	}
}

func TestDiagnosticError(t *testing.T) {
	d := diag.Diagnostic{
		Message: "missing return type",
		Span:    diag.Span{Filename: "a.cc", Line: 3, Column: 7},
	}
	if got, want := d.Error(), "a.cc:3:7: missing return type"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}

	d.Span = diag.Span{}
	if got, want := d.Error(), "missing return type"; got != want {
		t.Fatalf("Error() without span = %q, want %q", got, want)
	}
}

func TestFormatterSnippet(t *testing.T) {
	const src = "func a() -> int32 = x\nfunc b(p: int0) -> int8 = p\n"

	var buf bytes.Buffer
	f := diag.NewFormatter(&buf)
	f.AddSource("main.cc", src)

	f.Format(diag.Diagnostic{
		Stage:    diag.StageLower,
		Severity: diag.SeverityError,
		Code:     diag.CodeLowerMalformedWidth,
		Message:  "malformed type width",
		Span:     diag.Span{Filename: "main.cc", Line: 2, Column: 11, Start: 32, End: 36},
		Help:     "widths are positive decimal integers",
	})

	out := buf.String()
	for _, want := range []string{
		"error[LOWER_MALFORMED_WIDTH]: malformed type width",
		"--> main.cc:2:11",
		"2 | func b(p: int0) -> int8 = p",
		"| " + strings.Repeat(" ", 10) + "^^^^",
		"= help: widths are positive decimal integers",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no ANSI escapes without WithColor, got:\n%s", out)
	}
}

func TestFormatterFallsBackWithoutSource(t *testing.T) {
	var buf bytes.Buffer
	f := diag.NewFormatter(&buf)

	f.Format(diag.Diagnostic{
		Severity: diag.SeverityError,
		Code:     diag.CodeLowerMissingField,
		Message:  "function is missing a return type",
		Span:     diag.Span{Line: 1, Column: 1},
	})

	out := buf.String()
	if !strings.Contains(out, "error[LOWER_MISSING_FIELD]: function is missing a return type") {
		t.Fatalf("unexpected header:\n%s", out)
	}
	if !strings.Contains(out, "--> 1:1") {
		t.Fatalf("expected bare location, got:\n%s", out)
	}
}

func TestFormatAllLimit(t *testing.T) {
	var buf bytes.Buffer
	f := diag.NewFormatter(&buf)

	ds := []diag.Diagnostic{
		{Message: "first"},
		{Message: "second"},
		{Message: "third"},
	}
	f.FormatAll(ds, 2)

	out := buf.String()
	if !strings.Contains(out, "first") || !strings.Contains(out, "second") {
		t.Fatalf("expected first two diagnostics, got:\n%s", out)
	}
	if strings.Contains(out, "third") {
		t.Fatalf("expected third diagnostic to be suppressed, got:\n%s", out)
	}
	if !strings.Contains(out, "... and 1 more diagnostic(s)") {
		t.Fatalf("expected summary line, got:\n%s", out)
	}
}
