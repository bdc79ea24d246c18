// Package keyword provides a bleve full-text index over incidents for relevance ordering
// and "did you mean" suggestions.
package keyword

import (
	"context"

	"github.com/hyperjump/crime360/internal/models"
)

// KeywordIndex defines keyword indexing and relevance search operations.
type KeywordIndex interface {
	IndexIncidents(ctx context.Context, incidents []models.Incident) error
	// Search returns up to limit hits keyed by models.Incident.Key, best first.
	Search(ctx context.Context, query string, limit int) ([]*KeywordResult, error)
	DocCount() (uint64, error)
	Close() error
}

// KeywordResult is a single keyword search hit.
type KeywordResult struct {
	ID    string
	Score float64
}

// TermDictionary provides access to the term dictionary for spell checking.
// This interface allows dependency injection for testing.
type TermDictionary interface {
	// GetAllTerms returns all unique terms in the index.
	GetAllTerms() ([]string, error)
	// GetTermFrequency returns the document frequency for a term.
	GetTermFrequency(term string) (int, error)
}
