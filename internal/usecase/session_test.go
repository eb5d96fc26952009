package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docqa/internal/adapter/chunker"
	"docqa/internal/port"
)

func newTestSession(repo port.Repository, gen port.Generator, topK int) (*Session, *stubEmbedder) {
	embedder := newStubEmbedder()
	builder := NewBuilder(repo, chunker.NewSplitter(200, 40), embedder)
	retriever := NewRetriever(embedder, topK, 0)
	synthesizer := NewSynthesizer(gen, 0)
	return NewSession(builder, retriever, synthesizer), embedder
}

func TestSessionLifecycle(t *testing.T) {
	repo := corpus(map[string]string{
		"x.txt": "Project Hydra status: green.",
		"y.txt": "Unrelated notes.",
	})
	gen := &echoGenerator{}
	session, _ := newTestSession(repo, gen, 1)

	assert.Equal(t, StateEmpty, session.State())
	assert.NotEmpty(t, session.ID())

	_, err := session.Ask(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrNoIndex)

	err = session.Reindex(context.Background(), "folder", nil)
	require.NoError(t, err)
	assert.Equal(t, StateReady, session.State())

	answer, err := session.Ask(context.Background(), "What is the status of Project Hydra?")
	require.NoError(t, err)
	assert.Equal(t, StateReady, session.State(), "session returns to Ready after a query")
	assert.NotEmpty(t, answer.Text)

	require.NotNil(t, session.LastAnswer())
	assert.Equal(t, answer.Text, session.LastAnswer().Text)
}

func TestSessionEndToEndHydra(t *testing.T) {
	repo := corpus(map[string]string{
		"X": "Project Hydra status: green.",
		"Y": "Unrelated notes.",
	})
	gen := &echoGenerator{}
	session, _ := newTestSession(repo, gen, 1)

	require.NoError(t, session.Reindex(context.Background(), "folder", nil))

	answer, err := session.Ask(context.Background(), "What is the status of Project Hydra?")
	require.NoError(t, err)

	// With top-1 retrieval only doc X's fragment may reach the prompt.
	assert.Contains(t, answer.Text, "green")
	assert.NotContains(t, answer.Text, "Unrelated notes")
	assert.Equal(t, []string{"X"}, answer.Sources)
}

func TestSessionBuildFailureReturnsToEmpty(t *testing.T) {
	repo := corpus(map[string]string{
		"a.txt": "",
		"b.txt": "",
	})
	session, _ := newTestSession(repo, &echoGenerator{}, 4)

	err := session.Reindex(context.Background(), "folder", nil)
	assert.ErrorIs(t, err, ErrNoContent)
	assert.Equal(t, StateEmpty, session.State())
	assert.ErrorIs(t, session.LastErr(), ErrNoContent)

	_, err = session.Ask(context.Background(), "question")
	assert.ErrorIs(t, err, ErrNoIndex)
}

func TestSessionGenerationFailureKeepsSessionUsable(t *testing.T) {
	repo := corpus(map[string]string{"x.txt": "Some indexed content."})
	gen := &echoGenerator{}
	session, _ := newTestSession(repo, gen, 4)

	require.NoError(t, session.Reindex(context.Background(), "folder", nil))

	gen.err = assert.AnError
	_, err := session.Ask(context.Background(), "question")
	require.Error(t, err)
	assert.Equal(t, StateReady, session.State(), "a failed query must not tear the session down")

	gen.err = nil
	answer, err := session.Ask(context.Background(), "question")
	require.NoError(t, err)
	assert.NotEmpty(t, answer.Text)
}

func TestSessionReindexDiscardsPriorIndex(t *testing.T) {
	repo := corpus(map[string]string{"x.txt": "Original corpus content."})
	session, _ := newTestSession(repo, &echoGenerator{}, 4)

	require.NoError(t, session.Reindex(context.Background(), "folder", nil))
	require.NoError(t, session.Reindex(context.Background(), "folder", nil))
	assert.Equal(t, StateReady, session.State())

	// A rebuild that fails leaves no stale index behind.
	repo.listErr = assert.AnError
	err := session.Reindex(context.Background(), "folder", nil)
	require.Error(t, err)
	assert.Equal(t, StateEmpty, session.State())
	_, err = session.Ask(context.Background(), "question")
	assert.ErrorIs(t, err, ErrNoIndex)
}

func TestSessionEmptyQuestionRejected(t *testing.T) {
	repo := corpus(map[string]string{"x.txt": "content"})
	session, embedder := newTestSession(repo, &echoGenerator{}, 4)
	require.NoError(t, session.Reindex(context.Background(), "folder", nil))

	callsBefore := embedder.calls
	_, err := session.Ask(context.Background(), "   ")
	require.Error(t, err)
	assert.Equal(t, callsBefore, embedder.calls, "no I/O for rejected input")
	assert.Equal(t, StateReady, session.State())
}
