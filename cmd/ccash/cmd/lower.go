package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/olix3001/ccash/internal/astdump"
	"github.com/olix3001/ccash/internal/diag"
	"github.com/olix3001/ccash/internal/frontend"
	"github.com/olix3001/ccash/internal/logger"
	"github.com/olix3001/ccash/internal/lower"
)

var (
	outputFormat string
	maxErrors    int
	jobs         int
)

var lowerCmd = &cobra.Command{
	Use:   "lower [files...]",
	Short: "Lower source files and print the AST",
	Long: `Lower parses every file, lowers it into the AST and prints the result.
Files are processed concurrently. If any file fails, its diagnostics are
printed to stderr and the command exits with status 1.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLower,
}

func init() {
	lowerCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format: text, yaml or json")
	lowerCmd.Flags().IntVar(&maxErrors, "max-errors", 0, "maximum diagnostics printed per file (0 = all)")
	lowerCmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "files lowered in parallel (0 = GOMAXPROCS)")
	rootCmd.AddCommand(lowerCmd)
}

func runLower(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("format") {
		cfg.Output.Format = outputFormat
	}
	if cmd.Flags().Changed("max-errors") {
		cfg.Diagnostics.MaxErrors = maxErrors
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	units := make([]frontend.Unit, 0, len(args))
	for _, path := range args {
		src, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		units = append(units, frontend.NewUnit(path, string(src)))
	}

	results := frontend.LowerUnits(cmd.Context(), units,
		frontend.WithWorkers(jobs),
		frontend.WithLogger(logger.Default()),
	)

	out := cmd.OutOrStdout()
	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			reportDiagnostics(cmd.ErrOrStderr(), res.Unit, res.Err)
			continue
		}
		if len(results) > 1 {
			fmt.Fprintf(out, "// %s\n", res.Unit.Filename)
		}
		if err := astdump.Write(out, res.Module, cfg.Output.Format); err != nil {
			return err
		}
		logger.Debug("lowered unit", "unit", res.Unit.ID.String(), "file", res.Unit.Filename, "duration", res.Duration)
	}

	if failed > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "\n%d of %d file(s) failed\n", failed, len(results))
		return errFailed
	}
	return nil
}

func reportDiagnostics(w io.Writer, unit frontend.Unit, err error) {
	f := diag.NewFormatter(w, diag.WithColor(cfg.Output.Color))
	f.AddSource(unit.Filename, unit.Source)
	f.FormatAll(lower.Diagnostics(err), cfg.Diagnostics.MaxErrors)
}
