package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/turing/internal/render"
)

// DiagramOptions holds flags for the diagram command.
type DiagramOptions struct {
	*RootOptions
	File string
}

// DiagramResult is the JSON payload of the diagram command.
type DiagramResult struct {
	Machine string `json:"machine"`
	DOT     string `json:"dot"`
}

// NewDiagramCommand creates the diagram command.
func NewDiagramCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DiagramOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "diagram <machine>",
		Short: "Print the state diagram of a machine as Graphviz DOT",
		Long: `Print the full transition table of a machine as a Graphviz digraph.

Examples:
  turing diagram div3 | dot -Tsvg > div3.svg
  turing diagram parity --file ./parity.cue`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiagram(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.File, "file", "", "CUE file declaring the machine")

	return cmd
}

func runDiagram(opts *DiagramOptions, name string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	def, err := LoadDefinition(name, opts.File)
	if err != nil {
		return formatter.fail(ExitCommandError, loadErrorCode(err), err, nil)
	}

	dot := render.TableDOT(def)
	if formatter.JSON() {
		return formatter.Success(DiagramResult{Machine: def.Name, DOT: dot})
	}
	fmt.Fprint(formatter.Writer, dot)
	return nil
}
