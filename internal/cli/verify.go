package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/semdoc/internal/sheaf"
	"github.com/roach88/semdoc/internal/token"
)

// VerifyOptions holds flags for the verify command.
type VerifyOptions struct {
	*RootOptions
	Glue bool
}

// ViewSnapshotFile is the JSON input format of the verify command: one
// document path and the token-state snapshots of its concurrent views.
type ViewSnapshotFile struct {
	DocumentPath string               `json:"document_path"`
	Views        []token.DocumentView `json:"views"`
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VerifyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "verify <views.json>",
		Short: "Check coherence across concurrent document views",
		Long: `Verify the coherence of concurrent views of one document.

The input file holds a document path and per-view token-state snapshots.
Every pair of views is checked: views disagreeing on a shared token make
the document incoherent, and the exit code is 1.

With --glue, a coherent set of views is additionally merged into a single
global document state. Gluing an incoherent set is refused.

Example input:
  {"document_path": "notes.md",
   "views": [{"view_id": "editor-1", "document_path": "notes.md",
              "token_states": {"abc123": {"token_id": "abc123", ...}}}]}

Examples:
  semdoc verify views.json
  semdoc verify views.json --glue --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Glue, "glue", false, "merge coherent views into a global state")

	return cmd
}

func runVerify(opts *VerifyOptions, path string, cmd *cobra.Command) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read snapshot file", err)
	}

	var snapshot ViewSnapshotFile
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return WrapExitError(ExitCommandError, "failed to parse snapshot file", err)
	}
	if snapshot.DocumentPath == "" {
		return NewExitError(ExitCommandError, "snapshot file is missing document_path")
	}

	s := sheaf.New(snapshot.DocumentPath)
	for _, v := range snapshot.Views {
		if err := s.AddView(v); err != nil {
			return WrapExitError(ExitCommandError, "failed to register view", err)
		}
	}

	verification := s.VerifySheafCondition()
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	if formatter.JSON() {
		out := verification.ToMap()
		if opts.Glue && verification.Success {
			global, glueErr := s.Glue()
			if glueErr != nil {
				return WrapExitError(ExitFailure, "glue refused", glueErr)
			}
			out["global_state"] = globalStateMap(global)
		}
		if err := formatter.Success(out); err != nil {
			return err
		}
	} else {
		printVerification(cmd, snapshot.DocumentPath, verification)
		if opts.Glue && verification.Success {
			global, glueErr := s.Glue()
			if glueErr != nil {
				return WrapExitError(ExitFailure, "glue refused", glueErr)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "glued %d token state(s) from %d view(s)\n",
				len(global.TokenStates), len(global.ViewIDs))
		}
	}

	if !verification.Success {
		return NewExitError(ExitFailure, "sheaf condition violated")
	}
	return nil
}

func printVerification(cmd *cobra.Command, documentPath string, v sheaf.SheafVerification) {
	w := cmd.OutOrStdout()
	status := "coherent"
	if !v.Success {
		status = "INCOHERENT"
	}
	fmt.Fprintf(w, "%s: %s (%d pair(s) checked)\n", documentPath, status, v.CheckedPairs)
	for _, pair := range v.IncompatiblePairs {
		fmt.Fprintf(w, "  %s <-> %s disagree on: %v\n", pair.ViewA, pair.ViewB, pair.TokenIDs)
	}
}

func globalStateMap(g sheaf.GlobalDocumentState) map[string]any {
	states := make(map[string]any, len(g.TokenStates))
	for id, s := range g.TokenStates {
		states[id] = s.ToMap()
	}
	viewIDs := make([]any, len(g.ViewIDs))
	for i, id := range g.ViewIDs {
		viewIDs[i] = id
	}
	return map[string]any{
		"document_path": g.DocumentPath,
		"token_states":  states,
		"view_ids":      viewIDs,
	}
}
