package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/semdoc/internal/interact"
	"github.com/roach88/semdoc/internal/parser"
	"github.com/roach88/semdoc/internal/token"
)

// TokensOptions holds flags for the tokens command.
type TokensOptions struct {
	*RootOptions
	DefsDir      string
	ObserverID   string
	Role         string
	Capabilities []string
	Density      string
}

// NewTokensCommand creates the tokens command.
func NewTokensCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TokensOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "tokens <file>",
		Short: "Show token affordances for an observer",
		Long: `Parse a document and show, for each token, the affordances the given
observer sees. Affordances the observer lacks capabilities for are listed
as disabled, never hidden. Ghost path references keep only their inert
affordances enabled.

Examples:
  semdoc tokens notes.md --caps view
  semdoc tokens notes.md --caps view,edit,invoke --density rich
  semdoc tokens notes.md --observer alice --role editor --caps view,edit`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokens(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DefsDir, "defs", "", "directory of CUE token definitions")
	cmd.Flags().StringVar(&opts.ObserverID, "observer", "cli", "observer ID")
	cmd.Flags().StringVar(&opts.Role, "role", "viewer", "observer role")
	cmd.Flags().StringSliceVar(&opts.Capabilities, "caps", []string{"view"}, "observer capabilities")
	cmd.Flags().StringVar(&opts.Density, "density", "compact", "projection density (compact|rich)")

	return cmd
}

func runTokens(opts *TokensOptions, path string, cmd *cobra.Command) error {
	obs, err := buildObserver(opts)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid observer", err)
	}

	reg, err := buildRegistry(opts.DefsDir)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to build registry", err)
	}

	text, err := readDocument(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read document", err)
	}

	doc := parser.New(reg).Parse(text)
	interactor := interact.New(reg)

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if formatter.JSON() {
		tokens := make([]map[string]any, 0, len(doc.Tokens))
		for _, t := range doc.Tokens {
			affs := interactor.Affordances(t, obs)
			affMaps := make([]map[string]any, len(affs))
			for i, a := range affs {
				affMaps[i] = a.ToMap()
			}
			tokens = append(tokens, map[string]any{
				"token_id":    t.ID,
				"kind":        string(t.Kind),
				"projection":  interact.Project(t, interact.TargetSummary, obs),
				"affordances": affMaps,
			})
		}
		return formatter.Success(map[string]any{"path": path, "tokens": tokens})
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s as observer %s (%s)\n", path, obs.ID, strings.Join(opts.Capabilities, ","))
	for _, t := range doc.Tokens {
		fmt.Fprintf(w, "  %-11s %s  %s\n", t.Kind, t.ID, interact.Project(t, interact.TargetSummary, obs))
		for _, a := range interactor.Affordances(t, obs) {
			state := "enabled"
			if !a.Enabled {
				state = "disabled: " + a.Description
			}
			fmt.Fprintf(w, "      %-14s %-10s %s\n", a.Name, a.ActionKind, state)
		}
	}
	return nil
}

func buildObserver(opts *TokensOptions) (token.Observer, error) {
	caps := make([]token.Capability, len(opts.Capabilities))
	for i, c := range opts.Capabilities {
		capability := token.Capability(c)
		if !token.ValidCapabilities[capability] {
			return token.Observer{}, fmt.Errorf("unknown capability %q", c)
		}
		caps[i] = capability
	}
	if opts.Density != "compact" && opts.Density != "rich" {
		return token.Observer{}, fmt.Errorf("unknown density %q", opts.Density)
	}
	return token.Observer{
		ID:           opts.ObserverID,
		Role:         opts.Role,
		Capabilities: caps,
		Density:      opts.Density,
	}, nil
}
