package story

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fable/pkg/schema"
)

func TestSessionNavigation(t *testing.T) {
	sess := NewSession(schema.Storyline{Prompt: "p"})
	sess.paragraphs = []string{"one", "two", "three"}
	sess.current = 2

	require.NoError(t, sess.Back())
	require.NoError(t, sess.Back())
	assert.Equal(t, 0, sess.Snapshot().CurrentIndex)
	assert.ErrorIs(t, sess.Back(), ErrNoParagraph)

	require.NoError(t, sess.Forward())
	require.NoError(t, sess.Forward())
	assert.Equal(t, 2, sess.Snapshot().CurrentIndex)
	assert.ErrorIs(t, sess.Forward(), ErrNoParagraph)
}

func TestSessionRejectsActionsWhileStreaming(t *testing.T) {
	sess := NewSession(schema.Storyline{Prompt: "p"})
	sess.paragraphs = []string{"one", "two"}
	sess.current = 1
	sess.streaming = true

	assert.ErrorIs(t, sess.Select("x"), ErrTurnInFlight)
	assert.ErrorIs(t, sess.Back(), ErrTurnInFlight)
	assert.ErrorIs(t, sess.Forward(), ErrTurnInFlight)

	_, _, _, err := sess.beginTurn()
	assert.ErrorIs(t, err, ErrTurnInFlight)
}

func TestSessionBeginTurnClearsStaleOptions(t *testing.T) {
	sess := NewSession(schema.Storyline{Prompt: "p"})
	sess.options = []string{"a", "b", "c"}
	require.NoError(t, sess.Select("chosen"))

	index, previous, selected, err := sess.beginTurn()
	require.NoError(t, err)
	assert.Equal(t, 0, index)
	assert.Empty(t, previous)
	assert.Equal(t, "chosen", selected)
	assert.Empty(t, sess.Options())
}

func TestSessionSetOptionsSkippedDuringNewTurn(t *testing.T) {
	sess := NewSession(schema.Storyline{Prompt: "p"})
	sess.streaming = true
	sess.setOptions([]string{"stale"})
	assert.Empty(t, sess.options)
}

func TestSessionSettle(t *testing.T) {
	sess := NewSession(schema.Storyline{Prompt: "p"})
	_, _, _, err := sess.beginTurn()
	require.NoError(t, err)
	sess.appendDelta("Hello ")
	sess.appendDelta("world.")

	paragraph, count := sess.settle()
	assert.Equal(t, "Hello world.", paragraph)
	assert.Equal(t, 1, count)
	assert.Equal(t, []string{"Hello world."}, sess.Paragraphs())

	snap := sess.Snapshot()
	assert.False(t, snap.IsStreaming)
	assert.Empty(t, snap.StreamingText)
	assert.Equal(t, 0, snap.CurrentIndex)
}

func TestSessionFailTurnKeepsSettledParagraphs(t *testing.T) {
	sess := NewSession(schema.Storyline{Prompt: "p"})
	sess.paragraphs = []string{"kept"}
	_, _, _, err := sess.beginTurn()
	require.NoError(t, err)
	sess.appendDelta("doomed")

	sess.failTurn()
	assert.Equal(t, []string{"kept"}, sess.Paragraphs())
	assert.False(t, sess.IsStreaming())
	assert.Empty(t, sess.Snapshot().StreamingText)
}

func TestSessionIDsAreUnique(t *testing.T) {
	a := NewSession(schema.Storyline{Prompt: "p"})
	b := NewSession(schema.Storyline{Prompt: "p"})
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}
