package interact

import (
	"fmt"
	"strings"

	"github.com/roach88/semdoc/internal/token"
)

// Projection target surfaces. A target names a representation, not a
// renderer: the caller owns whatever actually draws the result.
const (
	// TargetPlain reproduces the token's verbatim source slice.
	TargetPlain = "plain"

	// TargetSummary is a one-line human-readable description of the token,
	// sensitive to the observer's density hint.
	TargetSummary = "summary"
)

// Project renders a token for a target surface and observer. It is a pure
// function: it never mutates token or document state, and the same inputs
// always produce the same string. Unknown targets degrade to the verbatim
// source slice.
func Project(tok token.MeaningToken, target string, obs token.Observer) string {
	switch target {
	case TargetSummary:
		return summarize(tok, obs)
	default:
		return tok.SourceText
	}
}

func summarize(tok token.MeaningToken, obs token.Observer) string {
	rich := obs.Density == "rich"
	switch p := tok.Payload.(type) {
	case token.TextPayload:
		return tok.SourceText

	case token.CheckboxPayload:
		mark := " "
		if p.Checked {
			mark = "x"
		}
		if rich {
			state := "open"
			if p.Checked {
				state = "done"
			}
			return fmt.Sprintf("[%s] %s (%s task)", mark, p.Label, state)
		}
		return fmt.Sprintf("[%s] %s", mark, p.Label)

	case token.PathRefPayload:
		path := strings.Join(p.Segments, ".")
		if p.IsGhost && rich {
			return path + " (ghost)"
		}
		return path

	case token.ImagePayload:
		if rich {
			return fmt.Sprintf("image %q -> %s", p.Alt, p.Target)
		}
		if p.Alt != "" {
			return p.Alt
		}
		return p.Target

	case token.CodeBlockPayload:
		lines := len(strings.Split(p.Body, "\n"))
		lang := p.Language
		if lang == "" {
			lang = "code"
		}
		if rich {
			return fmt.Sprintf("%s block, %d line(s)", lang, lines)
		}
		return fmt.Sprintf("%s (%d)", lang, lines)

	case token.CrossRefPayload:
		if rich {
			return fmt.Sprintf("%s %s", p.RefType, p.RefID)
		}
		return "[" + p.RefID + "]"

	case token.TablePayload:
		if rich {
			return fmt.Sprintf("table with %d column(s), %d row(s)", len(p.Header), len(p.Rows))
		}
		return fmt.Sprintf("table %dx%d", len(p.Header), len(p.Rows))

	default:
		return tok.SourceText
	}
}
