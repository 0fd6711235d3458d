package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/turing/internal/decide"
	"github.com/roach88/turing/internal/engine"
	"github.com/roach88/turing/internal/ir"
	"github.com/roach88/turing/internal/render"
	"github.com/roach88/turing/internal/store"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Database string
	DotDir   string
	MaxSteps int

	// IDs allows overriding the decision ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDs engine.IDGenerator
}

// RunView is the reported outcome of one machine run.
type RunView struct {
	Machine    string     `json:"machine"`
	Accepted   bool       `json:"accepted"`
	FinalState ir.State   `json:"final_state"`
	Steps      int        `json:"steps"`
	Trace      []ir.State `json:"trace"`
	Tape       string     `json:"tape"`
	Head       int        `json:"head"`
}

// CheckResult is the reported outcome of a composite decision.
type CheckResult struct {
	Input      string    `json:"input"`
	Accepted   bool      `json:"accepted"`
	Runs       []RunView `json:"runs"`
	DecisionID string    `json:"decision_id,omitempty"`
	DotFiles   []string  `json:"dot_files,omitempty"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}
	defaults := rootOpts.defaults()

	cmd := &cobra.Command{
		Use:   "check <binary>",
		Short: "Decide whether a binary string is a palindrome divisible by three",
		Long: `Run the palindrome and div3 machines concurrently over one input.

The input is accepted only when both machines accept it. Both traces are
reported either way.

Exit codes:
  0 - Accepted
  1 - Rejected
  2 - Invalid input or command error

Examples:
  turing check 0110
  turing check 1001 --format json
  turing check 11011 --db ./decisions.db --dot-dir ./dot`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", defaults.DB, "record the decision in this SQLite database (env TURING_DB)")
	cmd.Flags().StringVar(&opts.DotDir, "dot-dir", "", "write one <machine>_path.dot per run to this directory")
	cmd.Flags().IntVar(&opts.MaxSteps, "max-steps", defaults.MaxSteps, "per-machine step ceiling, 0 for none (env TURING_MAX_STEPS)")

	return cmd
}

func runCheck(opts *CheckOptions, input string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := opts.logger()

	decider := decide.Default(
		decide.WithMaxSteps(opts.MaxSteps),
		decide.WithLogger(logger),
	)
	decision, err := decider.Decide(commandContext(cmd), input)
	if err != nil {
		return formatter.fail(ExitCommandError, decisionErrorCode(err), err, nil)
	}
	logger.Info("decided", "input", input, "accepted", decision.Accepted, "elapsed", decision.Elapsed)

	result := CheckResult{
		Input:    decision.Input,
		Accepted: decision.Accepted,
		Runs:     runViews(decision.Runs),
	}

	if opts.Database != "" {
		id, err := recordDecision(commandContext(cmd), opts, decision)
		if err != nil {
			return formatter.fail(ExitCommandError, ErrCodeStore, err, nil)
		}
		result.DecisionID = id
		formatter.VerboseLog("Recorded decision %s in %s", id, opts.Database)
	}

	if opts.DotDir != "" {
		files, err := writeTraceDOT(opts.DotDir, decision.Runs)
		if err != nil {
			return formatter.fail(ExitCommandError, ErrCodeWriteFailed, err, nil)
		}
		result.DotFiles = files
		formatter.VerboseLog("Wrote %d DOT file(s) to %s", len(files), opts.DotDir)
	}

	if formatter.JSON() {
		if result.Accepted {
			return formatter.Success(result)
		}
		if err := formatter.Failure(ErrCodeRejected, "input rejected", result); err != nil {
			return err
		}
		return &ExitError{Code: ExitFailure, Message: "input rejected", Silent: true}
	}

	writeDecisionText(formatter.Writer, result.Input, result.Accepted, result.Runs, opts.Verbose)
	if result.DecisionID != "" {
		fmt.Fprintf(formatter.Writer, "decision: %s\n", result.DecisionID)
	}
	if !result.Accepted {
		return &ExitError{Code: ExitFailure, Message: "input rejected", Silent: true}
	}
	return nil
}

// recordDecision persists the decision and returns its ID.
func recordDecision(ctx context.Context, opts *CheckOptions, decision *decide.Decision) (string, error) {
	ids := opts.IDs
	if ids == nil {
		ids = engine.UUIDv7Generator{}
	}
	rec, err := store.NewDecisionRecord(ids, decision)
	if err != nil {
		return "", err
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return "", fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	if err := st.WriteDecision(ctx, rec); err != nil {
		return "", fmt.Errorf("record decision: %w", err)
	}
	return rec.ID, nil
}

// writeTraceDOT writes one trace diagram per run into dir.
func writeTraceDOT(dir string, runs []*engine.Result) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create dot directory: %w", err)
	}
	files := make([]string, 0, len(runs))
	for _, r := range runs {
		path := filepath.Join(dir, r.Machine+"_path.dot")
		if err := os.WriteFile(path, []byte(render.TraceDOT(r.Machine, r.Trace)), 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		files = append(files, path)
	}
	return files, nil
}

func runViews(runs []*engine.Result) []RunView {
	views := make([]RunView, len(runs))
	for i, r := range runs {
		views[i] = RunView{
			Machine:    r.Machine,
			Accepted:   r.Accepted,
			FinalState: r.FinalState,
			Steps:      r.Steps,
			Trace:      r.Trace,
			Tape:       r.Tape,
			Head:       r.Head,
		}
	}
	return views
}

// writeDecisionText prints a verdict line followed by one line per run.
//
//	0110: accept
//	  palindrome  accept   15 steps  q0 -> q1 -> ... -> q_accept
//	  div3        accept    5 steps  q0 -> q0 -> ... -> q_accept
func writeDecisionText(w io.Writer, input string, accepted bool, runs []RunView, verbose bool) {
	fmt.Fprintf(w, "%s: %s\n", displayInput(input), verdict(accepted))
	for _, r := range runs {
		fmt.Fprintf(w, "  %-12s %-7s %4d steps  %s\n", r.Machine, verdict(r.Accepted), r.Steps, render.Path(r.Trace))
		if verbose {
			fmt.Fprintf(w, "%s\n", indent(render.Tape(r.Tape, r.Head), "    "))
		}
	}
}

func verdict(accepted bool) string {
	if accepted {
		return "accept"
	}
	return "reject"
}

// displayInput shows the empty string visibly.
func displayInput(input string) string {
	if input == "" {
		return `""`
	}
	return input
}

func indent(s, prefix string) string {
	return prefix + strings.ReplaceAll(s, "\n", "\n"+prefix)
}

// commandContext returns the command's context, or Background when unset.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
