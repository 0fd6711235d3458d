package cli

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/turing/internal/render"
	"github.com/roach88/turing/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Input    string // optional - filter to one input
	ID       string // optional - show a single decision
	Verdict  string // optional - "accept" or "reject"
	Rejected string // optional - machine that must have rejected
	Limit    int
}

// HistoryResult holds the history output.
type HistoryResult struct {
	Decisions []store.DecisionRecord `json:"decisions"`
	Stats     HistoryStats           `json:"stats"`
}

// HistoryStats holds summary statistics for the listed decisions.
type HistoryStats struct {
	Total    int `json:"total"`
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded decisions",
		Long: `List decisions recorded by "turing check --db", oldest first,
with the run of every machine.

Examples:
  turing history --db ./decisions.db
  turing history --db ./decisions.db --input 0110
  turing history --db ./decisions.db --verdict reject --rejected-by div3
  turing history --db ./decisions.db --id 0192d3c4-... --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", rootOpts.defaults().DB, "path to SQLite database (env TURING_DB)")
	cmd.Flags().StringVar(&opts.Input, "input", "", "only decisions for this input")
	cmd.Flags().StringVar(&opts.ID, "id", "", "show a single decision")
	cmd.Flags().StringVar(&opts.Verdict, "verdict", "", "only decisions with this verdict (accept or reject)")
	cmd.Flags().StringVar(&opts.Rejected, "rejected-by", "", "only decisions this machine rejected")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum decisions to list, 0 for all")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	ctx := commandContext(cmd)

	query, err := historyQuery(opts)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeGeneric, err, nil)
	}

	if opts.Database == "" {
		return formatter.fail(ExitCommandError, ErrCodeNotFound, errors.New("--db is required"), nil)
	}
	if _, err := os.Stat(opts.Database); err != nil {
		return formatter.fail(ExitCommandError, ErrCodeNotFound, fmt.Errorf("database not found: %s", opts.Database), nil)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeStore, err, nil)
	}
	defer st.Close()

	var decisions []store.DecisionRecord
	if opts.ID != "" {
		rec, err := st.ReadDecision(ctx, opts.ID)
		if errors.Is(err, sql.ErrNoRows) {
			return formatter.fail(ExitCommandError, ErrCodeNotFound, fmt.Errorf("decision not found: %s", opts.ID), nil)
		}
		if err != nil {
			return formatter.fail(ExitCommandError, ErrCodeStore, err, nil)
		}
		decisions = []store.DecisionRecord{rec}
	} else {
		decisions, err = st.FindDecisions(ctx, query)
		if err != nil {
			return formatter.fail(ExitCommandError, ErrCodeStore, err, nil)
		}
	}

	result := HistoryResult{Decisions: decisions, Stats: HistoryStats{Total: len(decisions)}}
	for _, d := range decisions {
		if d.Accepted {
			result.Stats.Accepted++
		} else {
			result.Stats.Rejected++
		}
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}

	writeHistoryText(formatter.Writer, result, opts.Verbose)
	return nil
}

// historyQuery builds the store query for the list filters.
func historyQuery(opts *HistoryOptions) (store.Query, error) {
	var preds []store.Predicate
	if opts.Input != "" {
		preds = append(preds, store.Equals{Column: "input", Value: opts.Input})
	}
	switch opts.Verdict {
	case "":
	case "accept", "reject":
		preds = append(preds, store.Equals{Column: "accepted", Value: opts.Verdict == "accept"})
	default:
		return store.Query{}, fmt.Errorf("invalid verdict %q: must be accept or reject", opts.Verdict)
	}
	if opts.Rejected != "" {
		preds = append(preds, store.RunVerdict{Machine: opts.Rejected, Accepted: false})
	}

	q := store.Query{Limit: opts.Limit}
	if len(preds) > 0 {
		q.Filter = store.And{Predicates: preds}
	}
	return q, nil
}

// writeHistoryText outputs the history as text.
func writeHistoryText(w io.Writer, result HistoryResult, verbose bool) {
	if len(result.Decisions) == 0 {
		fmt.Fprintln(w, "No decisions recorded.")
		return
	}

	for _, d := range result.Decisions {
		fmt.Fprintf(w, "[%d] %s: %s  (%s)\n", d.Seq, displayInput(d.Input), verdict(d.Accepted), truncateID(d.ID))
		for _, r := range d.Runs {
			fmt.Fprintf(w, "  %-12s %-7s %4d steps  %s\n", r.Machine, verdict(r.Accepted), r.Steps, render.Path(r.Trace))
			if verbose {
				fmt.Fprintf(w, "       trace hash: %s\n", r.TraceHash)
				fmt.Fprintf(w, "       definition: %s\n", r.DefinitionHash)
			}
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Total: %d  Accepted: %d  Rejected: %d\n", result.Stats.Total, result.Stats.Accepted, result.Stats.Rejected)
}

// truncateID truncates a long ID for display.
func truncateID(id string) string {
	if len(id) <= 16 {
		return id
	}
	return id[:8] + "..." + id[len(id)-8:]
}
