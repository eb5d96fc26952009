package port

import "docqa/internal/domain"

// VectorIndex stores embedded fragments and supports nearest-neighbour
// search. It is populated once by the index builder, appending batch by
// batch in listing order, and only read afterwards.
type VectorIndex interface {
	// Append adds a batch of embedded fragments. Fragments and vectors
	// correspond by position.
	Append(fragments []domain.Fragment, vectors [][]float32) error

	// Search returns up to k fragments most similar to the query vector,
	// best first. Ties keep insertion order.
	Search(query []float32, k int) ([]domain.ScoredFragment, error)

	// Len returns the number of indexed fragments.
	Len() int
}
