package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"docqa/internal/domain"
	"docqa/internal/port"
)

// InsufficientContextAnswer is returned, without calling the generator,
// when retrieval produced nothing to ground an answer on.
const InsufficientContextAnswer = "The indexed documents do not contain enough information to answer this question."

// DefaultMaxContextChars bounds the context block handed to the generator.
const DefaultMaxContextChars = 12000

const contextSeparator = "\n\n"

const promptTemplate = `Answer the user's question using the context below.
Your answer must be based strictly and only on the information contained in the provided context.
If the answer cannot be found in the context, state that clearly.

--- CONTEXT ---
%s
--- END OF CONTEXT ---

USER'S QUESTION:
%s`

// Synthesizer builds a bounded-context prompt from retrieved fragments
// and asks the generator for an answer.
type Synthesizer struct {
	generator       port.Generator
	maxContextChars int
}

func NewSynthesizer(generator port.Generator, maxContextChars int) *Synthesizer {
	if maxContextChars <= 0 {
		maxContextChars = DefaultMaxContextChars
	}
	return &Synthesizer{
		generator:       generator,
		maxContextChars: maxContextChars,
	}
}

// Answer produces an answer grounded on the given fragments, together with
// the sorted set of source documents actually included in the prompt. The
// generator is invoked exactly once; its failure is returned as an error
// for the caller to surface, never a panic or partial answer.
func (s *Synthesizer) Answer(ctx context.Context, question string, fragments []domain.ScoredFragment) (domain.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return domain.Answer{}, fmt.Errorf("question is empty")
	}

	if len(fragments) == 0 {
		return domain.Answer{Text: InsufficientContextAnswer}, nil
	}

	included := s.fitToBudget(fragments)

	texts := make([]string, len(included))
	for i, f := range included {
		texts[i] = f.Fragment.Text
	}
	contextBlock := strings.Join(texts, contextSeparator)

	prompt := fmt.Sprintf(promptTemplate, contextBlock, question)

	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("generation failed: %w", err)
	}

	return domain.Answer{
		Text:    text,
		Sources: sourceSet(included),
	}, nil
}

// fitToBudget keeps fragments in retrieval order until the context budget
// is spent, dropping the lowest-ranked ones from the tail. The first
// fragment is always included, truncated if it alone exceeds the budget.
func (s *Synthesizer) fitToBudget(fragments []domain.ScoredFragment) []domain.ScoredFragment {
	var included []domain.ScoredFragment
	used := 0

	for i, f := range fragments {
		cost := len(f.Fragment.Text)
		if i > 0 {
			cost += len(contextSeparator)
		}
		if used+cost > s.maxContextChars {
			break
		}
		included = append(included, f)
		used += cost
	}

	if len(included) == 0 {
		first := fragments[0]
		first.Fragment.Text = truncate(first.Fragment.Text, s.maxContextChars)
		included = []domain.ScoredFragment{first}
	}
	return included
}

// sourceSet returns the deduplicated, sorted source names of fragments.
func sourceSet(fragments []domain.ScoredFragment) []string {
	seen := make(map[string]struct{}, len(fragments))
	for _, f := range fragments {
		seen[f.Fragment.Source] = struct{}{}
	}
	sources := make([]string, 0, len(seen))
	for src := range seen {
		sources = append(sources, src)
	}
	sort.Strings(sources)
	return sources
}

func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	cut := text[:limit]
	// do not cut mid-rune
	for len(cut) > 0 && !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	return cut
}
