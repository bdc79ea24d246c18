package vector

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
)

// MemoryIndex is a brute-force cosine similarity index. Vectors of any length may be added;
// a query only scores above zero against vectors of its own length.
type MemoryIndex struct {
	ids     []string
	vectors [][]float64
	mu      sync.RWMutex
}

// NewMemoryIndex creates an empty in-memory index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		ids:     make([]string, 0),
		vectors: make([][]float64, 0),
	}
}

// Add appends vectors with the given IDs. Vectors are copied.
func (m *MemoryIndex) Add(ctx context.Context, ids []string, vectors [][]float64) error {
	if len(ids) != len(vectors) {
		return fmt.Errorf("ids and vectors length mismatch")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, id := range ids {
		m.ids = append(m.ids, id)
		m.vectors = append(m.vectors, slices.Clone(vectors[i]))
	}
	return nil
}

// Search scores every stored vector against query and keeps those at or above threshold.
// Results are sorted by descending score; equal scores keep insertion order.
func (m *MemoryIndex) Search(ctx context.Context, query []float64, threshold float64) ([]*VectorResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	results := make([]*VectorResult, 0)
	for i, vec := range m.vectors {
		score := CosineSimilarity(query, vec)
		if score >= threshold {
			results = append(results, &VectorResult{ID: m.ids[i], Position: i, Score: score})
		}
	}
	slices.SortStableFunc(results, func(a, b *VectorResult) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return results, nil
}

// Size returns the number of vectors in the index.
func (m *MemoryIndex) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.ids)
}

// Close is a no-op for MemoryIndex.
func (m *MemoryIndex) Close() error {
	return nil
}
