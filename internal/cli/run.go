package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/turing/internal/engine"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	File     string
	MaxSteps int
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <machine> <binary>",
		Short: "Run a single machine over a binary string",
		Long: `Run one machine over one input and print its verdict and trace.

The machine is a built-in (palindrome, div3) or, with --file, a machine
declared in a CUE definition file.

Exit codes:
  0 - Accepted
  1 - Rejected
  2 - Invalid input, unknown machine, or run failure

Examples:
  turing run div3 110
  turing run palindrome 10101 -v
  turing run parity 0110 --file ./parity.cue --max-steps 100`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMachine(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.File, "file", "", "CUE file declaring the machine")
	cmd.Flags().IntVar(&opts.MaxSteps, "max-steps", rootOpts.defaults().MaxSteps, "step ceiling, 0 for none (env TURING_MAX_STEPS)")

	return cmd
}

func runMachine(opts *RunOptions, name, input string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := opts.logger()

	def, err := LoadDefinition(name, opts.File)
	if err != nil {
		return formatter.fail(ExitCommandError, loadErrorCode(err), err, nil)
	}

	res, err := engine.Execute(commandContext(cmd), def, input,
		engine.WithMaxSteps(opts.MaxSteps),
		engine.WithLogger(logger),
	)
	if err != nil {
		return formatter.fail(ExitCommandError, decisionErrorCode(err), err, nil)
	}
	logger.Info("run complete", "machine", res.Machine, "input", input, "accepted", res.Accepted, "steps", res.Steps)

	view := runViews([]*engine.Result{res})[0]
	if formatter.JSON() {
		if res.Accepted {
			return formatter.Success(view)
		}
		if err := formatter.Failure(ErrCodeRejected, "input rejected", view); err != nil {
			return err
		}
		return &ExitError{Code: ExitFailure, Message: "input rejected", Silent: true}
	}

	writeDecisionText(formatter.Writer, input, res.Accepted, []RunView{view}, opts.Verbose)
	if !res.Accepted {
		return &ExitError{Code: ExitFailure, Message: "input rejected", Silent: true}
	}
	return nil
}
