package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/semdoc/internal/store"
	"github.com/roach88/semdoc/internal/token"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database   string
	Document   string
	HandlerRef string // optional filter
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Read the witness log for a document",
		Long: `List the trace witnesses recorded for a document, in logical
timestamp order. Each witness records one successful interaction: the
handler that ran, its input and output, and the observer who acted.

Examples:
  semdoc trace --db ./witnesses.db --document notes.md
  semdoc trace --db ./witnesses.db --document notes.md --handler core.toggle
  semdoc trace --db ./witnesses.db --document notes.md --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTraceCmd(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the witness log database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Document, "document", "", "document path to list witnesses for (required)")
	_ = cmd.MarkFlagRequired("document")
	cmd.Flags().StringVar(&opts.HandlerRef, "handler", "", "filter to one handler ref")

	return cmd
}

func runTraceCmd(opts *TraceOptions, cmd *cobra.Command) error {
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open witness log", err)
	}
	defer st.Close()

	witnesses, err := st.ListWitnesses(context.Background(), opts.Document)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list witnesses", err)
	}

	if opts.HandlerRef != "" {
		filtered := witnesses[:0]
		for _, w := range witnesses {
			if w.Trace.HandlerRef == opts.HandlerRef {
				filtered = append(filtered, w)
			}
		}
		witnesses = filtered
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if formatter.JSON() {
		list := make([]map[string]any, len(witnesses))
		for i, w := range witnesses {
			list[i] = token.ToAny(w.ToObject()).(map[string]any)
		}
		return formatter.Success(map[string]any{
			"document":  opts.Document,
			"witnesses": list,
		})
	}

	w := cmd.OutOrStdout()
	if len(witnesses) == 0 {
		fmt.Fprintf(w, "No witnesses recorded for %s\n", opts.Document)
		return nil
	}

	fmt.Fprintf(w, "Witnesses for %s\n", opts.Document)
	for _, wit := range witnesses {
		fmt.Fprintf(w, "  [%d] %s %s by %s (witness %s)\n",
			wit.Trace.Timestamp, wit.Trace.HandlerRef, wit.Trace.Operation,
			wit.Trace.ObserverID, truncateID(wit.ID))
		if opts.Verbose {
			fmt.Fprintf(w, "       input:  %s\n", formatObject(wit.Trace.Input))
			fmt.Fprintf(w, "       output: %s\n", formatObject(wit.Trace.Output))
		}
		if v := wit.Verification; v != nil {
			fmt.Fprintf(w, "       verified: %v %s\n", v.Verified, v.Note)
		}
	}
	fmt.Fprintf(w, "%d witness(es)\n", len(witnesses))
	return nil
}

// formatObject renders an object single-line with sorted keys.
func formatObject(obj token.Object) string {
	if len(obj) == 0 {
		return "{}"
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%s", k, formatValue(obj[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func formatValue(v token.Value) string {
	switch val := v.(type) {
	case token.Str:
		return string(val)
	case token.Object:
		return formatObject(val)
	case token.Array:
		parts := make([]string, len(val))
		for i, elem := range val {
			parts[i] = formatValue(elem)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprintf("%v", v)
	}
}

// truncateID shortens a long witness ID for display.
func truncateID(id string) string {
	if len(id) <= 16 {
		return id
	}
	return id[:8] + "..." + id[len(id)-8:]
}
