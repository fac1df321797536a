package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/semdoc/internal/interact"
	"github.com/roach88/semdoc/internal/parser"
	"github.com/roach88/semdoc/internal/registry"
	"github.com/roach88/semdoc/internal/store"
	"github.com/roach88/semdoc/internal/token"
	"github.com/roach88/semdoc/internal/trace"
)

// ToggleOptions holds flags for the toggle command.
type ToggleOptions struct {
	*RootOptions
	Line       int
	Apply      bool
	Database   string
	ObserverID string
}

// NewToggleCommand creates the toggle command.
func NewToggleCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ToggleOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "toggle <file>",
		Short: "Toggle a checkbox on a document line",
		Long: `Toggle the checkbox on the given 1-indexed line.

The engine itself never writes files: it returns the toggled text, and
this command - acting as the external collaborator - applies it when
--apply is set. Without --apply the updated text is printed instead.

With --db, a trace witness of the interaction is appended to the witness
log, with its timestamp resumed from the log's last sequence number.

Examples:
  semdoc toggle notes.md --line 3
  semdoc toggle notes.md --line 3 --apply
  semdoc toggle notes.md --line 3 --apply --db ./witnesses.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToggle(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Line, "line", 0, "1-indexed line number of the checkbox (required)")
	_ = cmd.MarkFlagRequired("line")
	cmd.Flags().BoolVar(&opts.Apply, "apply", false, "write the toggled text back to the file")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the witness log database")
	cmd.Flags().StringVar(&opts.ObserverID, "observer", "cli", "observer ID recorded in the witness")

	return cmd
}

func runToggle(opts *ToggleOptions, path string, cmd *cobra.Command) error {
	text, err := readDocument(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read document", err)
	}

	reg := registry.Builtin()
	doc := parser.New(reg).Parse(text)

	target, ok := checkboxOnLine(doc, text, opts.Line)
	if !ok {
		return NewExitError(ExitFailure, fmt.Sprintf("no checkbox on line %d", opts.Line))
	}

	interactorOpts, cleanup, err := witnessOptions(opts, path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open witness log", err)
	}
	defer cleanup()

	interactor := interact.New(reg, interactorOpts...)
	result := interactor.Interact(interact.Request{
		Token:  target,
		Action: "toggle",
		Observer: token.Observer{
			ID:           opts.ObserverID,
			Role:         "editor",
			Capabilities: []token.Capability{token.CapView, token.CapEdit},
			Density:      "compact",
		},
		Args: token.Object{
			"text":        token.Str(text),
			"line_number": token.Int(int64(opts.Line)),
		},
	})

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if !result.OK() {
		if err := formatter.Error("E_TOGGLE", result.Message, nil); err != nil {
			return err
		}
		return NewExitError(ExitFailure, result.Message)
	}

	newText := string(result.Data["new_text"].(token.Str))
	if opts.Apply {
		if err := os.WriteFile(path, []byte(newText), 0o644); err != nil {
			return WrapExitError(ExitCommandError, "failed to write document", err)
		}
		slog.Info("document updated", "path", path, "line", opts.Line)
	}

	if formatter.JSON() {
		out := result.ToMap()
		out["applied"] = opts.Apply
		return formatter.Success(out)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "line %d -> checked=%v (witness %s)\n",
		opts.Line, bool(result.Data["new_state"].(token.Bool)), result.WitnessID)
	if !opts.Apply {
		fmt.Fprintln(w, newText)
	}
	return nil
}

// checkboxOnLine finds the checkbox token whose span covers the given
// 1-indexed line.
func checkboxOnLine(doc *parser.ParsedDocument, text string, line int) (token.MeaningToken, bool) {
	if line < 1 {
		return token.MeaningToken{}, false
	}
	start := 0
	for i := 1; i < line; i++ {
		nl := strings.IndexByte(text[start:], '\n')
		if nl < 0 {
			return token.MeaningToken{}, false
		}
		start += nl + 1
	}
	for _, t := range doc.TokensOfKind(token.KindCheckbox) {
		if t.Span.Start <= start && start < t.Span.End {
			return t, true
		}
	}
	return token.MeaningToken{}, false
}

// witnessOptions wires the interactor to the persistent witness log when
// --db is set, resuming the logical clock from the stored maximum.
func witnessOptions(opts *ToggleOptions, documentPath string) ([]interact.Option, func(), error) {
	if opts.Database == "" {
		return nil, func() {}, nil
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing witness log", "error", closeErr)
		}
	}

	ctx := context.Background()
	maxSeq, err := st.MaxSeq(ctx, documentPath)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	return []interact.Option{
		interact.WithSink(st.SinkFor(ctx, documentPath)),
		interact.WithClock(trace.NewSeqClockAt(maxSeq)),
	}, cleanup, nil
}
