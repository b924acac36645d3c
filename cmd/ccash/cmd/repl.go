package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/olix3001/ccash/internal/astdump"
	"github.com/olix3001/ccash/internal/frontend"
	"github.com/olix3001/ccash/internal/logger"
)

const (
	historyFile = ".ccash_history"
	promptMain  = "ccash> "
	promptCont  = "   ... "
	replName    = "<repl>"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Lower declarations interactively",
	Long: `repl reads declarations line by line and prints the lowered AST of each
entry. Unbalanced brackets continue the entry on the next line.
Type :quit to exit.`,
	Args: cobra.NoArgs,
	RunE: runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runRepl(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "ccash repl. Type :quit to exit.")

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		src, ok := readEntry(ln)
		if !ok {
			fmt.Fprintln(out)
			return nil
		}

		entry := strings.TrimSpace(src)
		if strings.HasPrefix(entry, ":") {
			switch strings.ToLower(entry) {
			case ":quit", ":q":
				return nil
			default:
				fmt.Fprintln(out, "unknown command. Type :quit to exit.")
			}
			continue
		}
		if entry == "" {
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		evalEntry(cmd, src)
	}
}

// readEntry prompts until the brackets of the collected input balance.
func readEntry(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if err != nil {
			// io.EOF, liner.ErrPromptAborted or a terminal failure.
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		if depth(b.String()) <= 0 {
			return b.String(), true
		}
	}
}

// depth returns how many brackets remain open in src.
func depth(src string) int {
	n := 0
	for _, r := range src {
		switch r {
		case '(', '{':
			n++
		case ')', '}':
			n--
		}
	}
	return n
}

// evalEntry lowers one entry and prints the AST or its diagnostics.
func evalEntry(cmd *cobra.Command, src string) bool {
	unit := frontend.NewUnit(replName, src)
	m, err := frontend.LowerUnit(cmd.Context(), unit, frontend.WithLogger(logger.Default()))
	if err != nil {
		reportDiagnostics(cmd.ErrOrStderr(), unit, err)
		return false
	}
	if err := astdump.Write(cmd.OutOrStdout(), m, cfg.Output.Format); err != nil {
		printError(err)
		return false
	}
	return true
}
