package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/olix3001/ccash/internal/config"
	"github.com/olix3001/ccash/internal/logger"
)

var (
	cfgFile   string
	verbose   bool
	logFormat string

	cfg       = config.Default()
	logCloser io.Closer
)

// errFailed signals that diagnostics were already printed.
var errFailed = errors.New("one or more units failed")

var rootCmd = &cobra.Command{
	Use:   "ccash",
	Short: "CCash front end",
	Long: `ccash parses CCash source files and lowers them into the typed AST.

Commands:
  lower    - lower files and print the AST or diagnostics
  tokens   - dump the token stream of a file
  repl     - lower declarations interactively`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			_ = logCloser.Close()
		}
	},
}

// Execute runs the command tree.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errFailed) {
		printError(err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (.toml, .yaml or .yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text or json")
}

// setup loads the configuration, applies flag overrides and starts logging.
func setup(cmd *cobra.Command, args []string) error {
	if cfgFile != "" {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	if verbose {
		cfg.Log.Level = "debug"
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format = logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	lc, err := cfg.LoggerConfig()
	if err != nil {
		return err
	}
	closer, err := logger.Init(lc)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logCloser = closer

	logger.Debug("configuration loaded", "config", cfgFile, "level", cfg.Log.Level)
	return nil
}

func printError(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
}
