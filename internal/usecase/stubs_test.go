package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"docqa/internal/domain"
	"docqa/internal/port"
)

// stubRepository serves a fixed corpus from memory.
type stubRepository struct {
	refs       []domain.DocumentRef
	content    map[string]string
	listErr    error
	fetchErr   error
	fetchCalls int
}

func (r *stubRepository) List(_ context.Context, _ string) ([]domain.DocumentRef, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.refs, nil
}

func (r *stubRepository) Fetch(_ context.Context, ref domain.DocumentRef) (string, error) {
	r.fetchCalls++
	if r.fetchErr != nil {
		return "", r.fetchErr
	}
	return r.content[ref.ID], nil
}

func corpus(docs map[string]string) *stubRepository {
	repo := &stubRepository{content: make(map[string]string)}
	for name, text := range docs {
		id := "id-" + name
		repo.refs = append(repo.refs, domain.DocumentRef{
			ID:          id,
			Name:        name,
			ContentType: domain.ContentPlainText,
		})
		repo.content[id] = text
	}
	return repo
}

// stubVocab is the vocabulary the stub embedder projects onto, one axis
// per word. Unknown words contribute nothing, so overlap in these words is
// the only source of similarity.
var stubVocab = []string{
	"project", "hydra", "status", "green",
	"unrelated", "notes", "meeting",
	"alpha", "beta", "gamma", "content",
	"exact", "phrase", "match", "different",
	"provenance", "sentence", "document", "indexed",
}

// stubEmbedder embeds text as a bag of words over stubVocab. Deterministic
// and cheap, with just enough semantics for ranking assertions. failAtCall
// makes the n-th Embed call fail to exercise batch-abort behaviour.
type stubEmbedder struct {
	vocab      map[string]int
	calls      int
	failAtCall int
	lastIntent port.Intent
}

func newStubEmbedder() *stubEmbedder {
	vocab := make(map[string]int, len(stubVocab))
	for i, word := range stubVocab {
		vocab[word] = i
	}
	return &stubEmbedder{vocab: vocab}
}

func (e *stubEmbedder) Embed(_ context.Context, texts []string, intent port.Intent) ([][]float32, error) {
	e.calls++
	e.lastIntent = intent
	if e.failAtCall > 0 && e.calls == e.failAtCall {
		return nil, errors.New("embedding provider unavailable")
	}

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, len(stubVocab))
		for _, word := range strings.Fields(strings.ToLower(text)) {
			word = strings.Trim(word, ".,:;?!\"'")
			if axis, ok := e.vocab[word]; ok {
				vec[axis]++
			}
		}
		vectors[i] = vec
	}
	return vectors, nil
}

func (e *stubEmbedder) Dimension() int { return len(stubVocab) }

func (e *stubEmbedder) ModelName() string { return "stub" }

// echoGenerator returns its prompt back, so tests can assert on prompt
// content; it counts calls for short-circuit assertions.
type echoGenerator struct {
	calls int
	err   error
}

func (g *echoGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	return fmt.Sprintf("ECHO: %s", prompt), nil
}

func (g *echoGenerator) ModelName() string { return "echo" }
