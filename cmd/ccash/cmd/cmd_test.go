package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/olix3001/ccash/internal/config"
)

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cfg = config.Default()
	cfg.Output.Color = false
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeSource(t *testing.T, name, src string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLowerCommandPrintsTree(t *testing.T) {
	path := writeSource(t, "hello.cc", "func hello(a: int32) -> int32 = a\n")

	out, _, err := runCLI(t, "lower", path)
	if err != nil {
		t.Fatalf("lower: %v", err)
	}
	if !strings.Contains(out, "FunctionDef hello: int32") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestLowerCommandJSON(t *testing.T) {
	path := writeSource(t, "hello.cc", "func hello(a: int32) -> int32 = a\n")

	out, _, err := runCLI(t, "lower", "--format", "json", path)
	if err != nil {
		t.Fatalf("lower: %v", err)
	}
	if !strings.Contains(out, `"kind": "FunctionDef"`) {
		t.Fatalf("expected JSON output, got:\n%s", out)
	}
}

func TestLowerCommandReportsDiagnostics(t *testing.T) {
	good := writeSource(t, "good.cc", "func g() -> int8 = x\n")
	bad := writeSource(t, "bad.cc", "func f(a: int8) = a\nfunc h(b: int0) -> int8 = b\n")

	out, errOut, err := runCLI(t, "lower", good, bad)
	if !errors.Is(err, errFailed) {
		t.Fatalf("expected errFailed, got %v", err)
	}
	if !strings.Contains(out, "FunctionDef g") {
		t.Fatalf("expected the good file to be printed, got:\n%s", out)
	}
	for _, want := range []string{"LOWER_MISSING_FIELD", "LOWER_MALFORMED_WIDTH", "1 of 2 file(s) failed"} {
		if !strings.Contains(errOut, want) {
			t.Fatalf("expected %q in diagnostics:\n%s", want, errOut)
		}
	}
}

func TestLowerCommandMaxErrors(t *testing.T) {
	bad := writeSource(t, "bad.cc", "func f(a: int8) = a\nfunc h(b: int0) -> int8 = b\n")

	_, errOut, _ := runCLI(t, "lower", "--max-errors", "1", bad)
	if strings.Contains(errOut, "LOWER_MALFORMED_WIDTH") {
		t.Fatalf("expected the second diagnostic to be hidden:\n%s", errOut)
	}
	if !strings.Contains(errOut, "and 1 more diagnostic(s)") {
		t.Fatalf("expected a summary line:\n%s", errOut)
	}
}

func TestLowerCommandUsesConfigFile(t *testing.T) {
	src := writeSource(t, "hello.cc", "func hello(a: int32) -> int32 = a\n")
	conf := writeSource(t, "ccash.yaml", "output:\n  format: yaml\n  color: false\n")

	out, _, err := runCLI(t, "--config", conf, "lower", src)
	if err != nil {
		t.Fatalf("lower: %v", err)
	}
	if !strings.Contains(out, "kind: FunctionDef") {
		t.Fatalf("expected YAML output, got:\n%s", out)
	}
}

func TestLowerCommandRejectsBadFormat(t *testing.T) {
	src := writeSource(t, "hello.cc", "func hello(a: int32) -> int32 = a\n")

	_, _, err := runCLI(t, "lower", "--format", "xml", src)
	if err == nil || !strings.Contains(err.Error(), "output.format") {
		t.Fatalf("expected an output format error, got %v", err)
	}
}

func TestTokensCommand(t *testing.T) {
	path := writeSource(t, "t.cc", "func f() -> int8 = a")

	out, _, err := runCLI(t, "tokens", path)
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}
	if !strings.Contains(out, "INT_TYPE") || !strings.Contains(out, `"int8"`) {
		t.Fatalf("unexpected token dump:\n%s", out)
	}
}

func TestVersionCommand(t *testing.T) {
	out, _, err := runCLI(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "ccash v"+Version) {
		t.Fatalf("unexpected version output %q", out)
	}
}

func TestDepth(t *testing.T) {
	tests := []struct {
		src  string
		want int
	}{
		{"func f() -> int8 = a", 0},
		{"func f() -> int8 {", 1},
		{"func f(a: int8 = (", 2},
		{"}", -1},
	}
	for _, tt := range tests {
		if got := depth(tt.src); got != tt.want {
			t.Errorf("depth(%q) = %d, want %d", tt.src, got, tt.want)
		}
	}
}
