package interact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/semdoc/internal/parser"
	"github.com/roach88/semdoc/internal/registry"
	"github.com/roach88/semdoc/internal/token"
)

func observer(caps ...token.Capability) token.Observer {
	return token.Observer{ID: "obs-1", Role: "tester", Capabilities: caps, Density: "compact"}
}

func parseOne(t *testing.T, text string, kind token.TokenKind) token.MeaningToken {
	t.Helper()
	doc := parser.New(registry.Builtin()).Parse(text)
	toks := doc.TokensOfKind(kind)
	require.Len(t, toks, 1)
	return toks[0]
}

func affordanceByName(t *testing.T, affs []token.Affordance, name string) token.Affordance {
	t.Helper()
	for _, a := range affs {
		if a.Name == name {
			return a
		}
	}
	t.Fatalf("affordance %q not found", name)
	return token.Affordance{}
}

func TestAffordancesFullCapabilities(t *testing.T) {
	i := New(registry.Builtin())
	tok := parseOne(t, "- [ ] task", token.KindCheckbox)
	obs := observer(token.CapView, token.CapEdit, token.CapInvoke)

	affs := i.Affordances(tok, obs)
	require.Len(t, affs, 3)
	for _, a := range affs {
		assert.True(t, a.Enabled, "affordance %s", a.Name)
	}
}

func TestAffordancesDisabledNotRemoved(t *testing.T) {
	i := New(registry.Builtin())
	tok := parseOne(t, "- [ ] task", token.KindCheckbox)
	obs := observer(token.CapView)

	affs := i.Affordances(tok, obs)
	require.Len(t, affs, 3) // same length as for a fully-capable observer

	assert.True(t, affordanceByName(t, affs, "hover").Enabled)

	toggle := affordanceByName(t, affs, "toggle")
	assert.False(t, toggle.Enabled)
	assert.Contains(t, toggle.Description, "edit")

	menu := affordanceByName(t, affs, "context_menu")
	assert.False(t, menu.Enabled)
	assert.Contains(t, menu.Description, "invoke")
}

func TestAffordancesGhostDowngrade(t *testing.T) {
	i := New(registry.Builtin())
	tok := parseOne(t, "`world.nonexistent.node`", token.KindPathRef)
	require.True(t, tok.Payload.(token.PathRefPayload).IsGhost)

	obs := observer(token.CapView, token.CapEdit, token.CapInvoke)
	affs := i.Affordances(tok, obs)
	require.Len(t, affs, 4)

	assert.True(t, affordanceByName(t, affs, "hover").Enabled)
	assert.True(t, affordanceByName(t, affs, "click").Enabled)

	for _, name := range []string{"context_menu", "drag"} {
		a := affordanceByName(t, affs, name)
		assert.False(t, a.Enabled, "affordance %s", name)
		assert.Contains(t, a.Description, "ghost token")
	}
}

func TestAffordancesResolvedPathNotDowngraded(t *testing.T) {
	resolver := func([]string) bool { return true }
	doc := parser.New(registry.Builtin(), parser.WithResolver(resolver)).Parse("`world.agents.alpha`")
	toks := doc.TokensOfKind(token.KindPathRef)
	require.Len(t, toks, 1)

	i := New(registry.Builtin())
	affs := i.Affordances(toks[0], observer(token.CapView, token.CapInvoke))
	for _, a := range affs {
		assert.True(t, a.Enabled, "affordance %s", a.Name)
	}
}

func TestAffordancesTextTokenHasNone(t *testing.T) {
	i := New(registry.Builtin())
	tok := parseOne(t, "plain prose only", token.KindText)
	assert.Empty(t, i.Affordances(tok, observer(token.CapView)))
}
