package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/turing/internal/decide"
	"github.com/roach88/turing/internal/explore"
)

// ExploreOptions holds flags for the explore command.
type ExploreOptions struct {
	*RootOptions
	Depth    int
	Workers  int
	MaxSteps int
}

// NewExploreCommand creates the explore command.
func NewExploreCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExploreOptions{RootOptions: rootOpts}
	defaults := rootOpts.defaults()

	cmd := &cobra.Command{
		Use:   "explore",
		Short: "List every accepted string up to a length",
		Long: `Decide every non-empty binary string up to --depth characters and
print those the composite decision accepts, shortest first.

Examples:
  turing explore
  turing explore --depth 10 --workers 4 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplore(opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Depth, "depth", explore.DefaultMaxLen, "longest input length to decide")
	cmd.Flags().IntVar(&opts.Workers, "workers", defaults.Workers, "concurrent decisions, 0 for one per CPU (env TURING_WORKERS)")
	cmd.Flags().IntVar(&opts.MaxSteps, "max-steps", defaults.MaxSteps, "per-machine step ceiling, 0 for none (env TURING_MAX_STEPS)")

	return cmd
}

func runExplore(opts *ExploreOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	if opts.Depth < 1 {
		return formatter.fail(ExitCommandError, ErrCodeGeneric, fmt.Errorf("--depth must be positive, got %d", opts.Depth), nil)
	}
	if opts.Workers < 0 {
		return formatter.fail(ExitCommandError, ErrCodeGeneric, fmt.Errorf("--workers must be non-negative, got %d", opts.Workers), nil)
	}

	logger := opts.logger()
	decider := decide.Default(
		decide.WithMaxSteps(opts.MaxSteps),
		decide.WithLogger(logger),
	)

	report, err := explore.Explore(commandContext(cmd), decider, explore.Options{
		MaxLen:  opts.Depth,
		Workers: opts.Workers,
		Logger:  logger,
	})
	if err != nil {
		return formatter.fail(ExitCommandError, decisionErrorCode(err), err, nil)
	}

	if formatter.JSON() {
		return formatter.Success(report)
	}

	w := formatter.Writer
	for _, s := range report.Accepted {
		fmt.Fprintln(w, displayInput(s))
	}
	fmt.Fprintf(w, "\n%d of %d strings up to length %d accepted\n", len(report.Accepted), report.Candidates, report.MaxLen)
	return nil
}
