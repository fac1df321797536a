package sheaf

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/semdoc/internal/token"
)

func state(id, content string) token.TokenState {
	return token.TokenState{
		TokenID:   id,
		TokenType: token.KindCheckbox,
		Content:   content,
		Position:  token.Span{Start: 0, End: len(content)},
	}
}

func TestAddViewRejectsWrongPath(t *testing.T) {
	s := New("docs/a.md")

	err := s.AddView(token.NewDocumentView("v1", "docs/b.md"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "docs/a.md")
	assert.Equal(t, 0, s.Len())
}

func TestAddViewRejectsDuplicateID(t *testing.T) {
	s := New("docs/a.md")
	require.NoError(t, s.AddView(token.NewDocumentView("v1", "docs/a.md")))

	err := s.AddView(token.NewDocumentView("v1", "docs/a.md"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestAddViewCopiesStates(t *testing.T) {
	s := New("docs/a.md")
	v := token.NewDocumentView("v1", "docs/a.md", state("t1", "- [ ] task"))
	require.NoError(t, s.AddView(v))

	// Mutating the caller's map must not reach the sheaf's copy.
	v.SetState(state("t1", "- [x] task"))

	got := s.Views()[0]
	assert.Equal(t, "- [ ] task", got.TokenStates["t1"].Content)
}

func TestOverlapSymmetric(t *testing.T) {
	a := token.NewDocumentView("a", "d", state("t1", "x"), state("t2", "y"))
	b := token.NewDocumentView("b", "d", state("t2", "y"), state("t3", "z"))

	ab := Overlap(a, b)
	ba := Overlap(b, a)
	assert.Equal(t, []string{"t2"}, ab)
	assert.Equal(t, ab, ba)

	c := token.NewDocumentView("c", "d", state("t9", "w"))
	assert.Empty(t, Overlap(a, c))
}

func TestCompatibleSymmetric(t *testing.T) {
	a := token.NewDocumentView("a", "d", state("t1", "same"))
	b := token.NewDocumentView("b", "d", state("t1", "same"))
	c := token.NewDocumentView("c", "d", state("t1", "different"))

	assert.True(t, Compatible(a, b))
	assert.True(t, Compatible(b, a))
	assert.False(t, Compatible(a, c))
	assert.False(t, Compatible(c, a))
}

func TestCompatibleIgnoresViewLocalMeta(t *testing.T) {
	sa := state("t1", "same")
	sa.Meta = map[string]string{"highlight": "yellow"}
	sb := state("t1", "same")
	sb.Meta = map[string]string{"highlight": "blue"}

	a := token.NewDocumentView("a", "d", sa)
	b := token.NewDocumentView("b", "d", sb)
	assert.True(t, Compatible(a, b))
}

func TestCompatibleNoSharedTokens(t *testing.T) {
	a := token.NewDocumentView("a", "d", state("t1", "x"))
	b := token.NewDocumentView("b", "d", state("t2", "y"))
	assert.True(t, Compatible(a, b))
}

func TestSingleViewTriviallyCoherent(t *testing.T) {
	s := New("docs/a.md")
	require.NoError(t, s.AddView(token.NewDocumentView("v1", "docs/a.md", state("t1", "x"))))

	v := s.VerifySheafCondition()
	assert.True(t, v.Success)
	assert.Equal(t, 0, v.CheckedPairs)
	assert.Empty(t, v.IncompatiblePairs)
}

func TestVerifyChecksAllPairs(t *testing.T) {
	s := New("d")
	for _, id := range []string{"v1", "v2", "v3", "v4"} {
		require.NoError(t, s.AddView(token.NewDocumentView(id, "d", state("t1", "same"))))
	}

	v := s.VerifySheafCondition()
	assert.True(t, v.Success)
	assert.Equal(t, 6, v.CheckedPairs) // 4*3/2
}

func TestVerifyReportsIncompatiblePairs(t *testing.T) {
	s := New("d")
	require.NoError(t, s.AddView(token.NewDocumentView("v1", "d", state("t1", "a"), state("t2", "ok"))))
	require.NoError(t, s.AddView(token.NewDocumentView("v2", "d", state("t1", "b"), state("t2", "ok"))))
	require.NoError(t, s.AddView(token.NewDocumentView("v3", "d", state("t2", "ok"))))

	v := s.VerifySheafCondition()
	assert.False(t, v.Success)
	assert.Equal(t, 3, v.CheckedPairs)
	require.Len(t, v.IncompatiblePairs, 1)
	assert.Equal(t, "v1", v.IncompatiblePairs[0].ViewA)
	assert.Equal(t, "v2", v.IncompatiblePairs[0].ViewB)
	assert.Equal(t, []string{"t1"}, v.IncompatiblePairs[0].TokenIDs)
}

func TestGlueMergesCoherentViews(t *testing.T) {
	s := New("d")
	require.NoError(t, s.AddView(token.NewDocumentView("v1", "d", state("t1", "x"), state("t2", "y"))))
	require.NoError(t, s.AddView(token.NewDocumentView("v2", "d", state("t2", "y"), state("t3", "z"))))

	global, err := s.Glue()
	require.NoError(t, err)
	assert.Equal(t, "d", global.DocumentPath)
	assert.Equal(t, []string{"v1", "v2"}, global.ViewIDs)
	require.Len(t, global.TokenStates, 3)
	assert.Equal(t, "y", global.TokenStates["t2"].Content)
}

func TestGlueRefusesIncompatibleViews(t *testing.T) {
	s := New("d")
	require.NoError(t, s.AddView(token.NewDocumentView("v1", "d", state("t1", "local edit"))))
	require.NoError(t, s.AddView(token.NewDocumentView("v2", "d", state("t1", "remote edit"))))

	global, err := s.Glue()
	require.Error(t, err)

	var sce *SheafConditionError
	require.True(t, errors.As(err, &sce))
	assert.Equal(t, "d", sce.DocumentPath)
	require.Len(t, sce.Pairs, 1)
	assert.Equal(t, []string{"t1"}, sce.Pairs[0].TokenIDs)

	// No partial state committed.
	assert.Nil(t, global.TokenStates)
	assert.Empty(t, global.ViewIDs)
}

func TestGlueEmptySheaf(t *testing.T) {
	s := New("d")
	global, err := s.Glue()
	require.NoError(t, err)
	assert.Empty(t, global.TokenStates)
	assert.Empty(t, global.ViewIDs)
}

func TestRemoveViewRestoresCoherence(t *testing.T) {
	s := New("d")
	require.NoError(t, s.AddView(token.NewDocumentView("v1", "d", state("t1", "a"))))
	require.NoError(t, s.AddView(token.NewDocumentView("v2", "d", state("t1", "b"))))
	require.False(t, s.VerifySheafCondition().Success)

	s.RemoveView("v2")
	assert.True(t, s.VerifySheafCondition().Success)
	assert.Equal(t, 1, s.Len())

	s.RemoveView("never-registered")
	assert.Equal(t, 1, s.Len())
}
