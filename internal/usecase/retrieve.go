package usecase

import (
	"context"
	"fmt"
	"strings"

	"docqa/internal/domain"
	"docqa/internal/port"
)

// DefaultTopK is the default number of fragments retrieved per question.
const DefaultTopK = 4

// Retriever finds the fragments most similar to a question.
type Retriever struct {
	embedder port.Embedder
	topK     int
	minScore float64 // drop results below this score (0 = disabled)
}

func NewRetriever(embedder port.Embedder, topK int, minScore float64) *Retriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Retriever{
		embedder: embedder,
		topK:     topK,
		minScore: minScore,
	}
}

// Retrieve embeds the question with query intent and returns up to k
// fragments, most similar first. An empty result is a valid outcome, not
// an error; k <= 0 uses the configured default.
func (r *Retriever) Retrieve(ctx context.Context, idx port.VectorIndex, question string, k int) ([]domain.ScoredFragment, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("question is empty")
	}
	if k <= 0 {
		k = r.topK
	}
	if idx == nil || idx.Len() == 0 {
		return nil, nil
	}

	embeddings, err := r.embedder.Embed(ctx, []string{question}, port.IntentQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("embedding returned empty result")
	}

	results, err := idx.Search(embeddings[0], k)
	if err != nil {
		return nil, fmt.Errorf("index search failed: %w", err)
	}

	if r.minScore > 0 {
		filtered := results[:0]
		for _, res := range results {
			if res.Score >= r.minScore {
				filtered = append(filtered, res)
			}
		}
		results = filtered
	}

	return results, nil
}
