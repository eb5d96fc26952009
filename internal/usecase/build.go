package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"docqa/internal/adapter/chunker"
	"docqa/internal/adapter/index"
	"docqa/internal/domain"
	"docqa/internal/logger"
	"docqa/internal/port"
)

// ErrNoContent is returned when every document in the corpus yields empty
// content. It is a terminal, user-visible outcome, not a crash.
var ErrNoContent = errors.New("no indexable content found")

// DefaultBatchSize bounds how many fragments are embedded per request.
const DefaultBatchSize = 100

// Progress is one structured progress event from an index build. Rendering
// is the caller's concern; the builder only emits events.
type Progress struct {
	Stage        string // "fetch" or "embed"
	DocsDone     int
	DocsTotal    int
	CurrentDoc   string
	BatchesDone  int
	BatchesTotal int
	Fragments    int
}

// ProgressFunc receives build progress events. May be nil.
type ProgressFunc func(Progress)

// Builder runs the ingestion pipeline: list documents, fetch content,
// chunk, embed in batches, and populate a fresh vector index.
type Builder struct {
	repo       port.Repository
	splitter   *chunker.Splitter
	embedder   port.Embedder
	cache      port.ContentCache
	batchSize  int
	batchPause time.Duration
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithCache caches fetched content by document ID across builds.
func WithCache(c port.ContentCache) BuilderOption {
	return func(b *Builder) { b.cache = c }
}

// WithBatchSize sets the embedding batch size.
func WithBatchSize(n int) BuilderOption {
	return func(b *Builder) {
		if n > 0 {
			b.batchSize = n
		}
	}
}

// WithBatchPause inserts a pause between embedding batches to smooth
// request rate against provider limits.
func WithBatchPause(d time.Duration) BuilderOption {
	return func(b *Builder) {
		if d > 0 {
			b.batchPause = d
		}
	}
}

func NewBuilder(repo port.Repository, splitter *chunker.Splitter, embedder port.Embedder, opts ...BuilderOption) *Builder {
	b := &Builder{
		repo:      repo,
		splitter:  splitter,
		embedder:  embedder,
		batchSize: DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build indexes every eligible document under folderID and returns the
// populated index. Documents that yield no content are skipped; an
// embedding failure aborts the whole build so no partial index escapes.
// The context is honoured between documents and between batches.
func (b *Builder) Build(ctx context.Context, folderID string, progress ProgressFunc) (port.VectorIndex, error) {
	if strings.TrimSpace(folderID) == "" {
		return nil, fmt.Errorf("folder ID is empty")
	}

	refs, err := b.repo.List(ctx, folderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	var fragments []domain.Fragment
	for i, ref := range refs {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		content, err := b.fetch(ctx, ref)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn("skipping %s: %v", ref.Name, err)
			continue
		}
		if strings.TrimSpace(content) == "" {
			logger.Info("skipping %s: no content", ref.Name)
			continue
		}

		fragments = append(fragments, b.splitter.Split(content, ref.Name)...)

		emit(progress, Progress{
			Stage:      "fetch",
			DocsDone:   i + 1,
			DocsTotal:  len(refs),
			CurrentDoc: ref.Name,
			Fragments:  len(fragments),
		})
	}

	if len(fragments) == 0 {
		return nil, ErrNoContent
	}

	idx := index.NewMemoryIndex(b.embedder.Dimension())
	batches := (len(fragments) + b.batchSize - 1) / b.batchSize

	for start := 0; start < len(fragments); start += b.batchSize {
		if start > 0 && b.batchPause > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(b.batchPause):
			}
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		end := start + b.batchSize
		if end > len(fragments) {
			end = len(fragments)
		}
		batch := fragments[start:end]

		texts := make([]string, len(batch))
		for i, f := range batch {
			texts[i] = f.Text
		}

		vectors, err := b.embedder.Embed(ctx, texts, port.IntentDocument)
		if err != nil {
			return nil, fmt.Errorf("embedding batch %d/%d failed: %w", start/b.batchSize+1, batches, err)
		}
		if err := idx.Append(batch, vectors); err != nil {
			return nil, fmt.Errorf("failed to extend index: %w", err)
		}

		emit(progress, Progress{
			Stage:        "embed",
			DocsTotal:    len(refs),
			DocsDone:     len(refs),
			BatchesDone:  start/b.batchSize + 1,
			BatchesTotal: batches,
			Fragments:    len(fragments),
		})
	}

	return idx, nil
}

func (b *Builder) fetch(ctx context.Context, ref domain.DocumentRef) (string, error) {
	if b.cache != nil {
		if text, ok := b.cache.Get(ref.ID); ok {
			return text, nil
		}
	}

	text, err := b.repo.Fetch(ctx, ref)
	if err != nil {
		return "", err
	}
	if b.cache != nil && strings.TrimSpace(text) != "" {
		b.cache.Put(ref.ID, text)
	}
	return text, nil
}

func emit(progress ProgressFunc, p Progress) {
	if progress != nil {
		progress(p)
	}
}
