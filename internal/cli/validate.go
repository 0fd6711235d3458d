package cli

import (
	"errors"
	"fmt"
	"io"

	"cuelang.org/go/cue/token"
	"github.com/spf13/cobra"

	"github.com/roach88/turing/internal/compiler"
)

// ValidationResult holds validation results for one definition file.
type ValidationResult struct {
	Valid    bool                `json:"valid"`
	File     string              `json:"file"`
	Machines []MachineValidation `json:"machines"`
}

// MachineValidation summarises one compiled machine.
type MachineValidation struct {
	Name        string             `json:"name"`
	Hash        string             `json:"hash"`
	States      int                `json:"states"`
	Transitions int                `json:"transitions"`
	Findings    []compiler.Finding `json:"findings,omitempty"`
}

// CompileErrorDetails locates a compile error in its source.
type CompileErrorDetails struct {
	Machine string `json:"machine,omitempty"`
	Field   string `json:"field,omitempty"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file.cue>",
		Short: "Compile and analyse machine definitions",
		Long: `Compile every machine declared in a CUE file and report static findings.

Compile errors (schema violations, duplicate transitions, a start state
with no transitions) fail validation. Findings such as unreachable states
or loops are reported but do not fail it.

Exit codes:
  0 - All machines compiled
  2 - File missing or a machine failed to compile`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, file string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	defs, err := LoadFile(file)
	if err != nil {
		return formatter.fail(ExitCommandError, loadErrorCode(err), err, compileErrorDetails(err))
	}
	formatter.VerboseLog("Compiled %d machine(s) from %s", len(defs), file)

	result := ValidationResult{Valid: true, File: file}
	for _, def := range defs {
		hash, err := def.Hash()
		if err != nil {
			return formatter.fail(ExitCommandError, ErrCodeGeneric, err, nil)
		}
		result.Machines = append(result.Machines, MachineValidation{
			Name:        def.Name,
			Hash:        hash,
			States:      len(def.Table.States()),
			Transitions: def.Table.Len(),
			Findings:    compiler.Analyze(def),
		})
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}

	writeValidationText(formatter.Writer, result)
	return nil
}

// compileErrorDetails extracts the source location of a compile error.
// Returns nil (an untyped nil) for other errors.
func compileErrorDetails(err error) any {
	var cerr *compiler.CompileError
	if !errors.As(err, &cerr) {
		return nil
	}
	return CompileErrorDetails{
		Machine: cerr.Machine,
		Field:   cerr.Field,
		Line:    lineOf(cerr.Pos),
		Column:  columnOf(cerr.Pos),
	}
}

func lineOf(pos token.Pos) int {
	if pos.IsValid() {
		return pos.Line()
	}
	return 0
}

func columnOf(pos token.Pos) int {
	if pos.IsValid() {
		return pos.Column()
	}
	return 0
}

// writeValidationText outputs one block per machine.
func writeValidationText(w io.Writer, result ValidationResult) {
	for _, m := range result.Machines {
		fmt.Fprintf(w, "✓ %s (%d states, %d transitions)\n", m.Name, m.States, m.Transitions)
		for _, f := range m.Findings {
			fmt.Fprintf(w, "  %s %s: %s\n", f.Code, f.Level, f.Message)
		}
	}
}
