package lower_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/olix3001/ccash/internal/diag"
	"github.com/olix3001/ccash/internal/lower"
	"github.com/olix3001/ccash/internal/parser"
)

func TestDelegateKeepsUpstreamDiagnostics(t *testing.T) {
	p := parser.New("func (", parser.WithFilename("broken.cc"))
	p.ParseFile()

	var upstream []error
	for _, e := range p.Errors() {
		upstream = append(upstream, e)
	}
	if len(upstream) == 0 {
		t.Fatalf("expected parse errors")
	}

	err := lower.Delegate(upstream...)
	if !errors.Is(err, lower.ErrSyntaxDelegation) {
		t.Fatalf("expected ErrSyntaxDelegation, got %v", err)
	}

	var pe parser.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected the parse error to stay reachable through errors.As")
	}

	ds := lower.Diagnostics(err)
	if len(ds) != len(upstream) {
		t.Fatalf("expected %d diagnostics, got %d", len(upstream), len(ds))
	}
	for i, d := range ds {
		want := p.Errors()[i].ToDiagnostic()
		if d.Stage != diag.StageParser {
			t.Fatalf("diagnostic %d: expected parser stage, got %s", i, d.Stage)
		}
		if d.Code != want.Code || d.Message != want.Message || d.Span != want.Span {
			t.Fatalf("diagnostic %d was reinterpreted:\n got %+v\nwant %+v", i, d, want)
		}
	}
}

func TestDelegateEmpty(t *testing.T) {
	if err := lower.Delegate(); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestDelegateForeignError(t *testing.T) {
	err := lower.Delegate(fmt.Errorf("disk on fire"))
	ds := lower.Diagnostics(err)
	if len(ds) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(ds))
	}
	if ds[0].Stage != diag.StageLower || ds[0].Message != "disk on fire" {
		t.Fatalf("unexpected diagnostic %+v", ds[0])
	}
}

func TestErrorListMessages(t *testing.T) {
	list := lower.ErrorList{
		{Kind: lower.KindMissingField, Message: "first", Span: at(3)},
		{Kind: lower.KindDuplicateParameter, Message: "second"},
	}

	msg := list.Error()
	if !strings.HasPrefix(msg, "2 errors:") {
		t.Fatalf("unexpected message %q", msg)
	}
	if !strings.Contains(msg, "1:3: first") || !strings.Contains(msg, "second") {
		t.Fatalf("message lost an entry: %q", msg)
	}

	if !errors.Is(list, lower.ErrMissingField) || !errors.Is(list, lower.ErrDuplicateParameter) {
		t.Fatalf("expected both sentinels to match the list")
	}
	if errors.Is(list, lower.ErrMalformedWidth) {
		t.Fatalf("unexpected sentinel match")
	}
}

func TestToDiagnosticCodes(t *testing.T) {
	tests := []struct {
		kind lower.ErrorKind
		code diag.Code
	}{
		{lower.KindMissingField, diag.CodeLowerMissingField},
		{lower.KindMalformedWidth, diag.CodeLowerMalformedWidth},
		{lower.KindUnsupportedConstruct, diag.CodeLowerUnsupportedConstruct},
		{lower.KindDuplicateParameter, diag.CodeLowerDuplicateParameter},
	}

	for _, tt := range tests {
		d := (&lower.Error{Kind: tt.kind, Message: "m", Span: at(2)}).ToDiagnostic()
		if d.Code != tt.code {
			t.Errorf("%s: expected code %s, got %s", tt.kind, tt.code, d.Code)
		}
		if d.Stage != diag.StageLower || d.Severity != diag.SeverityError {
			t.Errorf("%s: unexpected stage/severity %s/%s", tt.kind, d.Stage, d.Severity)
		}
		if d.Span.Column != 2 {
			t.Errorf("%s: span not carried over", tt.kind)
		}
	}

	if d := (&lower.Error{Kind: lower.KindMalformedWidth}).ToDiagnostic(); d.Help == "" {
		t.Fatalf("expected a help line for malformed widths")
	}
}

func TestErrorUnwrapsCause(t *testing.T) {
	_, cause := lower.DecodeType(0, "int32")
	e := &lower.Error{Kind: lower.KindUnsupportedConstruct, Message: "x", Err: cause}
	if errors.Unwrap(e) != cause {
		t.Fatalf("expected Unwrap to return the cause")
	}
}
