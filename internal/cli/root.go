package cli

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/turing/internal/config"
	"github.com/roach88/turing/internal/engine"
	"github.com/roach88/turing/internal/logging"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	LogFile string

	// Config supplies flag defaults from the environment.
	// Nil means built-in defaults.
	Config *config.Config

	// Logger is installed by the root command before any subcommand runs.
	// Subcommands built directly (as in tests) fall back to a discarding logger.
	Logger *slog.Logger

	closeLog func() error
	envErr   error
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the turing CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	if cfg, err := config.Load(); err != nil {
		opts.envErr = err
	} else {
		opts.Config = &cfg
	}

	cmd := &cobra.Command{
		Use:   "turing",
		Short: "Turing - binary string deciders",
		Long: `Deterministic single-tape Turing machines over binary strings.

The built-in machines decide palindromes and divisibility by three; the
composite decision accepts a string only when both machines accept it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if opts.envErr != nil {
				return WrapExitError(ExitCommandError, "invalid environment", opts.envErr)
			}

			logger, closeLog, err := logging.New(logging.Options{
				Verbose: opts.Verbose,
				Console: cmd.ErrOrStderr(),
				File:    opts.LogFile,
			})
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to set up logging", err)
			}
			opts.Logger = logger
			opts.closeLog = closeLog
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if opts.closeLog != nil {
				return opts.closeLog()
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.LogFile, "log-file", opts.defaults().LogFile, "also write JSON logs to this file (env TURING_LOG_FILE)")

	// Add subcommands
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewExploreCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewDiagramCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// defaults returns the environment configuration, or built-in defaults when
// none was loaded.
func (o *RootOptions) defaults() config.Config {
	if o.Config != nil {
		return *o.Config
	}
	return config.Config{MaxSteps: engine.DefaultMaxSteps}
}

// logger returns the installed logger or a discarding one.
func (o *RootOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return logging.Discard()
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
