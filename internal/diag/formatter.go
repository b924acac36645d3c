package diag

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	noteStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	gutterStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	messageStyle = lipgloss.NewStyle().Bold(true)
)

// Formatter formats diagnostics in a Rust-style format with source code snippets.
type Formatter struct {
	out         io.Writer
	color       bool
	sourceCache map[string]string // Cache of source files by filename
}

// FormatterOption configures a Formatter.
type FormatterOption func(*Formatter)

// WithColor enables ANSI styling of headers and gutters.
func WithColor(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.color = enabled
	}
}

// NewFormatter creates a new diagnostic formatter writing to out.
func NewFormatter(out io.Writer, opts ...FormatterOption) *Formatter {
	f := &Formatter{
		out:         out,
		sourceCache: make(map[string]string),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// AddSource registers in-memory source text for filename, so snippets can be
// rendered for inputs that never touched the filesystem (REPL, tests).
func (f *Formatter) AddSource(filename, src string) {
	f.sourceCache[filename] = src
}

// LoadSource loads source code for a file (cached).
func (f *Formatter) LoadSource(filename string) (string, error) {
	if filename == "" {
		return "", nil
	}
	if src, ok := f.sourceCache[filename]; ok {
		return src, nil
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", err
	}
	src := string(data)
	f.sourceCache[filename] = src
	return src, nil
}

// FormatAll formats every diagnostic in order. When limit is positive, at
// most limit diagnostics are printed and a summary line notes the rest.
func (f *Formatter) FormatAll(ds []Diagnostic, limit int) {
	shown := ds
	if limit > 0 && len(ds) > limit {
		shown = ds[:limit]
	}
	for i, d := range shown {
		if i > 0 {
			fmt.Fprintln(f.out)
		}
		f.Format(d)
	}
	if hidden := len(ds) - len(shown); hidden > 0 {
		fmt.Fprintf(f.out, "\n... and %d more diagnostic(s)\n", hidden)
	}
}

// Format formats and prints a diagnostic in Rust-style format.
func (f *Formatter) Format(d Diagnostic) {
	spans := f.collectSpans(d)
	if len(spans) == 0 {
		f.formatSimple(d)
		return
	}

	spansByFile := make(map[string][]LabeledSpan)
	var files []string
	for _, span := range spans {
		filename := span.Span.Filename
		if _, seen := spansByFile[filename]; !seen {
			files = append(files, filename)
		}
		spansByFile[filename] = append(spansByFile[filename], span)
	}

	// Sources must all be available before the header is written, otherwise
	// the simple form is used for the whole diagnostic.
	sources := make(map[string]string, len(files))
	for _, filename := range files {
		src, err := f.LoadSource(filename)
		if err != nil || src == "" {
			f.formatSimple(d)
			return
		}
		sources[filename] = src
	}

	f.printHeader(d)
	for _, filename := range files {
		f.printFileSpans(filename, sources[filename], spansByFile[filename])
	}
	f.printHelp(d)
}

// collectSpans collects all spans from the diagnostic, prioritizing LabeledSpans.
func (f *Formatter) collectSpans(d Diagnostic) []LabeledSpan {
	if len(d.LabeledSpans) > 0 {
		return d.LabeledSpans
	}
	if d.Span.IsValid() {
		return []LabeledSpan{{Span: d.Span, Style: "primary"}}
	}
	return nil
}

func (f *Formatter) style(s lipgloss.Style, text string) string {
	if !f.color {
		return text
	}
	return s.Render(text)
}

// printHeader prints the error header (error[CODE]: message).
func (f *Formatter) printHeader(d Diagnostic) {
	severity := string(d.Severity)
	if severity == "" {
		severity = string(SeverityError)
	}

	label := severity
	if d.Code != "" {
		label = fmt.Sprintf("%s[%s]", severity, d.Code)
	}

	switch d.Severity {
	case SeverityWarning:
		label = f.style(warningStyle, label)
	case SeverityNote:
		label = f.style(noteStyle, label)
	default:
		label = f.style(errorStyle, label)
	}
	fmt.Fprintf(f.out, "%s: %s\n", label, f.style(messageStyle, d.Message))
}

// printFileSpans prints source code with underlines for spans in a file.
func (f *Formatter) printFileSpans(filename string, src string, spans []LabeledSpan) {
	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].Span.Line != spans[j].Span.Line {
			return spans[i].Span.Line < spans[j].Span.Line
		}
		return spans[i].Span.Column < spans[j].Span.Column
	})

	lines := strings.Split(src, "\n")
	maxLine := len(lines)

	spansByLine := make(map[int][]LabeledSpan)
	for _, span := range spans {
		line := span.Span.Line
		if line > 0 && line <= maxLine {
			spansByLine[line] = append(spansByLine[line], span)
		}
	}

	lineNumbers := make([]int, 0, len(spansByLine))
	for line := range spansByLine {
		lineNumbers = append(lineNumbers, line)
	}
	sort.Ints(lineNumbers)

	if len(lineNumbers) == 0 {
		return
	}

	startLine := lineNumbers[0]
	endLine := lineNumbers[len(lineNumbers)-1]

	// Two lines of context on each side.
	contextStart := max(1, startLine-2)
	contextEnd := min(maxLine, endLine+2)

	lineNumWidth := len(fmt.Sprintf("%d", contextEnd))
	pad := strings.Repeat(" ", lineNumWidth)
	bar := f.style(gutterStyle, "|")

	location := filename
	if first := spans[0].Span; first.IsValid() {
		location = first.String()
	}
	fmt.Fprintf(f.out, "  %s %s\n", f.style(gutterStyle, "-->"), location)
	fmt.Fprintf(f.out, "   %s %s\n", pad, bar)

	for lineNum := contextStart; lineNum <= contextEnd; lineNum++ {
		lineContent := lines[lineNum-1]
		lineNumStr := f.style(gutterStyle, fmt.Sprintf("%*d", lineNumWidth, lineNum))
		fmt.Fprintf(f.out, " %s %s %s\n", lineNumStr, bar, lineContent)

		if lineSpans := spansByLine[lineNum]; len(lineSpans) > 0 {
			f.printUnderlines(pad, bar, lineContent, lineSpans)
		}
	}

	fmt.Fprintf(f.out, "   %s %s\n", pad, bar)
}

// printUnderlines prints underlines (^ primary, ~ secondary) for spans on a line.
func (f *Formatter) printUnderlines(pad, bar string, lineContent string, spans []LabeledSpan) {
	width := len([]rune(lineContent))
	underline := make([]rune, width+1)
	for i := range underline {
		underline[i] = ' '
	}

	mark := func(style string, ch rune) {
		for _, span := range spans {
			if span.Style != style {
				continue
			}
			start := max(0, span.Span.Column-1)
			end := min(len(underline), start+max(1, span.Span.End-span.Span.Start))
			for i := start; i < end; i++ {
				if underline[i] == ' ' {
					underline[i] = ch
				}
			}
		}
	}
	mark("primary", '^')
	mark("secondary", '~')

	text := strings.TrimRight(string(underline), " ")
	if text == "" {
		return
	}

	var labels []string
	for _, span := range spans {
		if span.Label != "" {
			labels = append(labels, span.Label)
		}
	}

	line := fmt.Sprintf("   %s %s %s", pad, bar, text)
	if len(labels) > 0 {
		line += " " + strings.Join(labels, "; ")
	}
	fmt.Fprintln(f.out, line)
}

// printHelp prints notes and help text.
func (f *Formatter) printHelp(d Diagnostic) {
	for _, note := range d.Notes {
		fmt.Fprintf(f.out, "  = note: %s\n", note)
	}
	if d.Help != "" {
		fmt.Fprintf(f.out, "  = help: %s\n", d.Help)
	}
}

// formatSimple formats a diagnostic without source code.
func (f *Formatter) formatSimple(d Diagnostic) {
	f.printHeader(d)
	if d.Span.IsValid() {
		fmt.Fprintf(f.out, "  %s %s\n", f.style(gutterStyle, "-->"), d.Span.String())
	}
	f.printHelp(d)
}
