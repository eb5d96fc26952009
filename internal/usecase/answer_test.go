package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docqa/internal/domain"
)

func scored(source, text string, score float64) domain.ScoredFragment {
	return domain.ScoredFragment{
		Fragment: domain.Fragment{Text: text, Source: source},
		Score:    score,
	}
}

func TestAnswerNoFragmentsShortCircuits(t *testing.T) {
	gen := &echoGenerator{}
	syn := NewSynthesizer(gen, 0)

	answer, err := syn.Answer(context.Background(), "any question", nil)
	require.NoError(t, err)
	assert.Equal(t, InsufficientContextAnswer, answer.Text)
	assert.Empty(t, answer.Sources)
	assert.Zero(t, gen.calls, "generator must not be invoked without context")
}

func TestAnswerPromptContainsContextAndQuestion(t *testing.T) {
	gen := &echoGenerator{}
	syn := NewSynthesizer(gen, 0)

	fragments := []domain.ScoredFragment{
		scored("x.txt", "Project Hydra status: green.", 0.9),
	}
	answer, err := syn.Answer(context.Background(), "What is the status of Project Hydra?", fragments)
	require.NoError(t, err)

	assert.Contains(t, answer.Text, "green")
	assert.Contains(t, answer.Text, "What is the status of Project Hydra?")
	assert.Contains(t, answer.Text, "strictly and only")
	assert.Equal(t, []string{"x.txt"}, answer.Sources)
	assert.Equal(t, 1, gen.calls)
}

func TestAnswerSourcesDeduplicatedAndSorted(t *testing.T) {
	gen := &echoGenerator{}
	syn := NewSynthesizer(gen, 0)

	fragments := []domain.ScoredFragment{
		scored("B", "first fragment", 0.9),
		scored("A", "second fragment", 0.8),
		scored("B", "third fragment", 0.7),
	}
	answer, err := syn.Answer(context.Background(), "question", fragments)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, answer.Sources)
}

func TestAnswerTrimsLowestRankedFragmentsFirst(t *testing.T) {
	gen := &echoGenerator{}
	syn := NewSynthesizer(gen, 50)

	fragments := []domain.ScoredFragment{
		scored("keep.txt", strings.Repeat("k", 40), 0.9),
		scored("drop.txt", strings.Repeat("d", 40), 0.2),
	}
	answer, err := syn.Answer(context.Background(), "question", fragments)
	require.NoError(t, err)

	assert.Contains(t, answer.Text, strings.Repeat("k", 40))
	assert.NotContains(t, answer.Text, strings.Repeat("d", 40))
	assert.Equal(t, []string{"keep.txt"}, answer.Sources, "sources reflect only included fragments")
}

func TestAnswerOversizedFirstFragmentTruncated(t *testing.T) {
	gen := &echoGenerator{}
	syn := NewSynthesizer(gen, 30)

	fragments := []domain.ScoredFragment{
		scored("big.txt", strings.Repeat("x", 100), 0.9),
	}
	answer, err := syn.Answer(context.Background(), "question", fragments)
	require.NoError(t, err)
	assert.Contains(t, answer.Text, strings.Repeat("x", 30))
	assert.NotContains(t, answer.Text, strings.Repeat("x", 31))
	assert.Equal(t, []string{"big.txt"}, answer.Sources)
}

func TestAnswerGenerationFailureIsCaught(t *testing.T) {
	gen := &echoGenerator{err: errors.New("quota exhausted")}
	syn := NewSynthesizer(gen, 0)

	fragments := []domain.ScoredFragment{scored("x.txt", "some context", 0.9)}
	_, err := syn.Answer(context.Background(), "question", fragments)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generation failed")
	assert.Contains(t, err.Error(), "quota exhausted")
}

func TestAnswerEmptyQuestionRejected(t *testing.T) {
	gen := &echoGenerator{}
	syn := NewSynthesizer(gen, 0)

	_, err := syn.Answer(context.Background(), " ", []domain.ScoredFragment{scored("x", "text", 1)})
	require.Error(t, err)
	assert.Zero(t, gen.calls)
}
