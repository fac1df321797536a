package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/semdoc/internal/polynomial"
)

// MachineOptions holds flags for the machine command.
type MachineOptions struct {
	*RootOptions
}

// NewMachineCommand creates the machine command.
func NewMachineCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MachineOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "machine <input>...",
		Short: "Drive the document state machine through a sequence of inputs",
		Long: `Feed a sequence of inputs to a fresh document state machine and print
each transition. The machine starts in "viewing". Inputs that are invalid
in the current state produce a no_op output and leave the state unchanged;
they never error.

Inputs: begin_edit, save, cancel, sync_ok, conflict, keep_local,
keep_remote, resolve, abort.

Examples:
  semdoc machine begin_edit save sync_ok
  semdoc machine begin_edit save conflict keep_local --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMachine(opts, args, cmd)
		},
	}

	return cmd
}

func runMachine(opts *MachineOptions, inputs []string, cmd *cobra.Command) error {
	m := polynomial.New()

	outputs := make([]polynomial.Output, len(inputs))
	for i, in := range inputs {
		outputs[i] = m.Step(polynomial.Input(in))
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if formatter.JSON() {
		steps := make([]map[string]any, len(outputs))
		for i, out := range outputs {
			steps[i] = map[string]any{
				"input":  string(out.Input),
				"output": string(out.Kind),
				"from":   string(out.From),
				"to":     string(out.To),
			}
		}
		valid := make([]string, 0)
		for _, in := range m.ValidInputs() {
			valid = append(valid, string(in))
		}
		return formatter.Success(map[string]any{
			"steps":        steps,
			"final_state":  string(m.State()),
			"valid_inputs": valid,
		})
	}

	w := cmd.OutOrStdout()
	for _, out := range outputs {
		if out.Kind == polynomial.OutNoOp {
			fmt.Fprintf(w, "  %-11s --%s--> %-11s (no_op)\n", out.From, out.Input, out.To)
			continue
		}
		fmt.Fprintf(w, "  %-11s --%s--> %-11s %s\n", out.From, out.Input, out.To, out.Kind)
	}
	fmt.Fprintf(w, "final state: %s (valid inputs: %v)\n", m.State(), m.ValidInputs())
	return nil
}
