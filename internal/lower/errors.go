package lower

import (
	"errors"
	"fmt"
	"strings"

	"github.com/olix3001/ccash/internal/cst"
	"github.com/olix3001/ccash/internal/diag"
	"github.com/olix3001/ccash/internal/lexer"
)

// ErrorKind classifies lowering failures.
type ErrorKind int

const (
	// KindSyntaxDelegation wraps an upstream lexer or parser failure.
	KindSyntaxDelegation ErrorKind = iota
	// KindMissingField reports an absent required CST field.
	KindMissingField
	// KindMalformedWidth reports a type literal whose width does not decode.
	KindMalformedWidth
	// KindUnsupportedConstruct reports a CST node with no lowering rule.
	KindUnsupportedConstruct
	// KindDuplicateParameter reports a repeated parameter name.
	KindDuplicateParameter
)

// Sentinels matched by errors.Is against *Error and ErrorList values.
var (
	ErrSyntaxDelegation     = errors.New("syntax error")
	ErrMissingField         = errors.New("missing field")
	ErrMalformedWidth       = errors.New("malformed type width")
	ErrUnsupportedConstruct = errors.New("unsupported construct")
	ErrDuplicateParameter   = errors.New("duplicate parameter")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindSyntaxDelegation:
		return ErrSyntaxDelegation
	case KindMissingField:
		return ErrMissingField
	case KindMalformedWidth:
		return ErrMalformedWidth
	case KindUnsupportedConstruct:
		return ErrUnsupportedConstruct
	case KindDuplicateParameter:
		return ErrDuplicateParameter
	default:
		return nil
	}
}

func (k ErrorKind) String() string {
	if s := k.sentinel(); s != nil {
		return s.Error()
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

func (k ErrorKind) diagnosticCode() diag.Code {
	switch k {
	case KindMissingField:
		return diag.CodeLowerMissingField
	case KindMalformedWidth:
		return diag.CodeLowerMalformedWidth
	case KindUnsupportedConstruct:
		return diag.CodeLowerUnsupportedConstruct
	case KindDuplicateParameter:
		return diag.CodeLowerDuplicateParameter
	default:
		return diag.Code("LOWER_UNKNOWN_ERROR")
	}
}

// Error is a single lowering failure tied to the CST node it arose from.
type Error struct {
	Kind    ErrorKind
	Message string
	Span    lexer.Span
	// Node is the originating CST node. It is nil for syntax delegation.
	Node cst.Node
	// Field names the absent field for KindMissingField.
	Field string
	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	if e.Span.IsValid() {
		return lexer.ToDiagSpan(e.Span).String() + ": " + e.Message
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// ToDiagnostic converts the error into the shared diagnostic structure.
// Syntax delegation errors return the upstream diagnostic unchanged.
func (e *Error) ToDiagnostic() diag.Diagnostic {
	if e.Kind == KindSyntaxDelegation {
		var upstream interface{ ToDiagnostic() diag.Diagnostic }
		if errors.As(e.Err, &upstream) {
			return upstream.ToDiagnostic()
		}
	}

	d := diag.Diagnostic{
		Stage:    diag.StageLower,
		Severity: diag.SeverityError,
		Code:     e.Kind.diagnosticCode(),
		Message:  e.Message,
		Span:     lexer.ToDiagSpan(e.Span),
	}
	switch e.Kind {
	case KindMalformedWidth:
		d = d.WithHelp("type widths are written as a positive decimal number, e.g. `int32` or `float64`")
	case KindDuplicateParameter:
		d = d.WithNote("parameter names must be unique within a function")
	}
	return d
}

// ErrorList collects every failure of one compilation unit in the order the
// lowering pass encountered them.
type ErrorList []*Error

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d errors:", len(l))
	for _, e := range l {
		b.WriteString("\n\t")
		b.WriteString(e.Error())
	}
	return b.String()
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (l ErrorList) Unwrap() []error {
	out := make([]error, len(l))
	for i, e := range l {
		out[i] = e
	}
	return out
}

// Diagnostics converts every error to a diagnostic.
func (l ErrorList) Diagnostics() []diag.Diagnostic {
	out := make([]diag.Diagnostic, len(l))
	for i, e := range l {
		out[i] = e.ToDiagnostic()
	}
	return out
}

// Delegate wraps upstream lexer or parser failures so they travel through the
// lowering error channel without being reinterpreted. It returns nil when
// errs is empty.
func Delegate(errs ...error) error {
	if len(errs) == 0 {
		return nil
	}
	list := make(ErrorList, 0, len(errs))
	for _, err := range errs {
		e := &Error{
			Kind:    KindSyntaxDelegation,
			Message: err.Error(),
			Err:     err,
		}
		var upstream interface{ ToDiagnostic() diag.Diagnostic }
		if errors.As(err, &upstream) {
			d := upstream.ToDiagnostic()
			e.Message = d.Message
			e.Span = lexer.Span{
				Filename: d.Span.Filename,
				Line:     d.Span.Line,
				Column:   d.Span.Column,
				Start:    d.Span.Start,
				End:      d.Span.End,
			}
		}
		list = append(list, e)
	}
	return list
}

// Diagnostics extracts diagnostics from any error returned by this package
// or by Delegate. Foreign errors become a single span-less diagnostic.
func Diagnostics(err error) []diag.Diagnostic {
	if err == nil {
		return nil
	}
	var list ErrorList
	if errors.As(err, &list) {
		return list.Diagnostics()
	}
	var single *Error
	if errors.As(err, &single) {
		return []diag.Diagnostic{single.ToDiagnostic()}
	}
	return []diag.Diagnostic{{
		Stage:    diag.StageLower,
		Severity: diag.SeverityError,
		Message:  err.Error(),
	}}
}
