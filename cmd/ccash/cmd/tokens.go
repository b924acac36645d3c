package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/olix3001/ccash/internal/frontend"
	"github.com/olix3001/ccash/internal/lexer"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens <file>",
	Short: "Dump the token stream of a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		unit := frontend.NewUnit(args[0], string(src))

		toks, lexErr := frontend.Tokens(unit)
		printTokens(cmd, toks)

		if lexErr != nil {
			reportDiagnostics(cmd.ErrOrStderr(), unit, lexErr)
			return errFailed
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokensCmd)
}

func printTokens(cmd *cobra.Command, toks []lexer.Token) {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, tok := range toks {
		fmt.Fprintf(tw, "%d:%d\t%s\t%q\n", tok.Span.Line, tok.Span.Column, tok.Type, tok.Value)
	}
	_ = tw.Flush()
}
