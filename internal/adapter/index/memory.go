package index

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"docqa/internal/domain"
	"docqa/internal/port"
)

// MemoryIndex is a brute-force cosine-similarity index over embedded
// fragments. It lives entirely in memory and is owned by one session;
// rebuilding produces a fresh MemoryIndex that the session swaps in.
// Brute force is fine at corpus scale; swap in HNSW if that changes.
type MemoryIndex struct {
	mu        sync.RWMutex
	dimension int
	entries   []entry
}

type entry struct {
	fragment domain.Fragment
	vector   []float32
}

var _ port.VectorIndex = (*MemoryIndex)(nil)

// NewMemoryIndex creates an empty index for vectors of the given dimension.
func NewMemoryIndex(dimension int) *MemoryIndex {
	return &MemoryIndex{dimension: dimension}
}

// Append adds a batch of embedded fragments in order.
func (m *MemoryIndex) Append(fragments []domain.Fragment, vectors [][]float32) error {
	if len(fragments) != len(vectors) {
		return fmt.Errorf("fragment/vector count mismatch: %d vs %d", len(fragments), len(vectors))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i, vec := range vectors {
		if len(vec) != m.dimension {
			return fmt.Errorf("vector dimension mismatch: expected %d, got %d", m.dimension, len(vec))
		}
		m.entries = append(m.entries, entry{fragment: fragments[i], vector: vec})
	}
	return nil
}

// Search returns up to k fragments most similar to the query vector, best
// first. Ties keep insertion order, so results are deterministic for a
// fixed index and query.
func (m *MemoryIndex) Search(query []float32, k int) ([]domain.ScoredFragment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(query) != m.dimension {
		return nil, fmt.Errorf("query dimension mismatch: expected %d, got %d", m.dimension, len(query))
	}
	if k <= 0 || len(m.entries) == 0 {
		return nil, nil
	}

	scored := make([]domain.ScoredFragment, len(m.entries))
	for i, e := range m.entries {
		scored[i] = domain.ScoredFragment{
			Fragment: e.fragment,
			Score:    cosineSimilarity(query, e.vector),
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k], nil
}

// Len returns the number of indexed fragments.
func (m *MemoryIndex) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// cosineSimilarity calculates the cosine similarity between two vectors.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
