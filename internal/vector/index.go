// Package vector provides feature-vector similarity and an in-memory similarity index.
package vector

import "context"

// VectorIndex ranks stored vectors by similarity to a query.
type VectorIndex interface {
	Add(ctx context.Context, ids []string, vectors [][]float64) error
	// Search returns every vector scoring at least threshold, best first.
	Search(ctx context.Context, query []float64, threshold float64) ([]*VectorResult, error)
	Size() int
	Close() error
}

// VectorResult is a single similarity hit. Position is the insertion order of the vector.
type VectorResult struct {
	ID       string
	Position int
	Score    float64
}
