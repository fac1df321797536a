package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/semdoc/internal/defs"
	"github.com/roach88/semdoc/internal/registry"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <defs-dir>",
		Short: "Validate CUE token definitions",
		Long: `Compile the CUE token definitions in a directory and check them
against the builtin registry. Reports compile errors with their CUE
source positions, and name collisions with the builtin definitions.

Examples:
  semdoc validate ./custom-tokens
  semdoc validate ./custom-tokens --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *ValidateOptions, dir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	loaded, err := defs.LoadDir(dir)
	if err != nil {
		var ce *defs.CompileError
		if errors.As(err, &ce) {
			if ferr := formatter.Error("E_COMPILE", err.Error(),
				map[string]any{"field": ce.Field}); ferr != nil {
				return ferr
			}
			return NewExitError(ExitFailure, "definitions failed to compile")
		}
		return WrapExitError(ExitCommandError, "failed to load definitions", err)
	}

	// Name collisions with the builtins fail validation too.
	reg := registry.Builtin()
	for _, def := range loaded {
		if err := reg.Register(def); err != nil {
			if ferr := formatter.Error("E_DUPLICATE", err.Error(), nil); ferr != nil {
				return ferr
			}
			return NewExitError(ExitFailure, "definitions collide with builtins")
		}
	}

	if formatter.JSON() {
		names := make([]map[string]any, len(loaded))
		for i, def := range loaded {
			names[i] = map[string]any{
				"name":        def.Name,
				"kind":        string(def.Kind),
				"priority":    def.Priority,
				"affordances": len(def.Affordances),
			}
		}
		return formatter.Success(map[string]any{"dir": dir, "definitions": names})
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s: %d definition(s) valid\n", dir, len(loaded))
	for _, def := range loaded {
		fmt.Fprintf(w, "  %-20s kind=%-11s priority=%-4d affordances=%d\n",
			def.Name, def.Kind, def.Priority, len(def.Affordances))
	}
	return nil
}
