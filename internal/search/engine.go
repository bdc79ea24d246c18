// Package search provides incident search and face similarity search over a snapshot.
package search

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/crime360/internal/config"
	"github.com/hyperjump/crime360/internal/keyword"
	"github.com/hyperjump/crime360/internal/metrics"
	"github.com/hyperjump/crime360/internal/models"
	"github.com/hyperjump/crime360/internal/store"
	"github.com/hyperjump/crime360/internal/vector"
)

// Suggester proposes alternative queries for a term that matched nothing.
type Suggester interface {
	Suggestions(query string) ([]string, error)
}

// Engine answers incident and face queries against one immutable snapshot.
type Engine struct {
	snapshot     *store.Snapshot
	config       *config.SearchConfig
	faceIndex    vector.VectorIndex
	keywordIndex keyword.KeywordIndex
	suggester    Suggester
	logger       *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithKeywordIndex enables relevance ordering. The index must hold the snapshot's incidents.
func WithKeywordIndex(idx keyword.KeywordIndex) Option {
	return func(e *Engine) { e.keywordIndex = idx }
}

// WithSuggester enables suggestions for terms with no matches.
func WithSuggester(s Suggester) Option {
	return func(e *Engine) { e.suggester = s }
}

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates an engine over snap and indexes person feature vectors.
func NewEngine(ctx context.Context, snap *store.Snapshot, cfg *config.SearchConfig, opts ...Option) (*Engine, error) {
	if snap == nil {
		return nil, fmt.Errorf("snapshot is required")
	}
	if cfg == nil {
		cfg = &config.SearchConfig{DefaultSize: models.DefaultPageSize, MaxSize: models.MaxPageSize}
	}
	e := &Engine{
		snapshot: snap,
		config:   cfg,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	persons := snap.Persons()
	ids := make([]string, len(persons))
	vectors := make([][]float64, len(persons))
	for i := range persons {
		ids[i] = persons[i].Key()
		vectors[i] = persons[i].Features
	}
	faces := vector.NewMemoryIndex()
	if err := faces.Add(ctx, ids, vectors); err != nil {
		return nil, fmt.Errorf("failed to index face features: %w", err)
	}
	e.faceIndex = faces
	return e, nil
}

// Snapshot returns the snapshot the engine reads.
func (e *Engine) Snapshot() *store.Snapshot {
	return e.snapshot
}

// Close releases the face index.
func (e *Engine) Close() error {
	return e.faceIndex.Close()
}

// Search returns one page of incidents matching the query text and filters, plus the total
// match count. The query is normalized in place.
func (e *Engine) Search(ctx context.Context, query *models.SearchQuery) (*models.SearchResponse[models.Incident], error) {
	startTime := time.Now()
	if err := ProcessQuery(query, e.config); err != nil {
		metrics.ObserveError("search")
		return nil, err
	}

	term := query.Term()
	incidents := e.snapshot.Incidents()
	matched := make([]int, 0)
	for i := range incidents {
		if matchesTerm(&incidents[i], term) && matchesFilters(&incidents[i], &query.Filters) {
			matched = append(matched, i)
		}
	}
	if err := ctx.Err(); err != nil {
		metrics.ObserveError("search")
		return nil, err
	}

	var scores map[int]float64
	switch {
	case len(query.Sort) > 0:
		slices.SortStableFunc(matched, func(a, b int) int {
			return compareIncidents(&incidents[a], &incidents[b], query.Sort)
		})
	case (query.Relevance || e.config.Relevance) && term != "" && e.keywordIndex != nil && len(matched) > 0:
		var err error
		scores, err = e.relevanceScores(ctx, term)
		if err != nil {
			metrics.ObserveError("search")
			return nil, err
		}
		slices.SortStableFunc(matched, func(a, b int) int {
			sa, okA := scores[a]
			sb, okB := scores[b]
			switch {
			case okA && okB:
				return cmp.Compare(sb, sa)
			case okA:
				return -1
			case okB:
				return 1
			}
			return 0
		})
	}

	window := page(matched, query.From, query.Size)
	resp := &models.SearchResponse[models.Incident]{
		Total: len(matched),
		Hits:  make([]models.Hit[models.Incident], 0, len(window)),
	}
	for i, idx := range window {
		inc := incidents[idx]
		score := max(0, 1.0-0.1*float64(i))
		if scores != nil {
			score = scores[idx]
		}
		resp.Hits = append(resp.Hits, models.Hit[models.Incident]{
			ID:     inc.ID,
			Key:    inc.Key(),
			Score:  score,
			Source: inc,
		})
	}

	if resp.Total == 0 && term != "" {
		resp.Suggestions = e.suggest(term)
	}
	resp.TookMs = time.Since(startTime).Milliseconds()
	metrics.ObserveOperation("search", startTime, resp.Total)
	e.logger.Debug("incident search",
		zap.String("term", term),
		zap.Int("total", resp.Total),
		zap.Int("returned", len(resp.Hits)),
		zap.Int64("took_ms", resp.TookMs))
	return resp, nil
}

// relevanceScores maps snapshot positions to keyword scores normalized to (0, 1].
func (e *Engine) relevanceScores(ctx context.Context, term string) (map[int]float64, error) {
	incidents := e.snapshot.Incidents()
	results, err := e.keywordIndex.Search(ctx, term, len(incidents))
	if err != nil {
		return nil, fmt.Errorf("keyword search failed: %w", err)
	}
	byKey := make(map[string]float64, len(results))
	top := 0.0
	for _, r := range results {
		byKey[r.ID] = r.Score
		top = max(top, r.Score)
	}
	scores := make(map[int]float64, len(results))
	for i := range incidents {
		if s, ok := byKey[incidents[i].Key()]; ok && top > 0 {
			scores[i] = s / top
		}
	}
	return scores, nil
}

func (e *Engine) suggest(term string) []string {
	if e.suggester == nil || !e.config.SuggestionsOrDefault() {
		return nil
	}
	suggestions, err := e.suggester.Suggestions(term)
	if err != nil {
		e.logger.Warn("suggestions failed", zap.String("term", term), zap.Error(err))
		return nil
	}
	return suggestions
}

// SearchBySimilarity returns every person whose face features have cosine similarity of at
// least threshold with features, most similar first. Equal scores keep snapshot order.
func (e *Engine) SearchBySimilarity(ctx context.Context, features []float64, threshold float64) (*models.SearchResponse[models.Person], error) {
	startTime := time.Now()
	if err := ValidateThreshold(threshold); err != nil {
		metrics.ObserveError("similarity")
		return nil, err
	}
	results, err := e.faceIndex.Search(ctx, features, threshold)
	if err != nil {
		metrics.ObserveError("similarity")
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	persons := e.snapshot.Persons()
	resp := &models.SearchResponse[models.Person]{
		Total: len(results),
		Hits:  make([]models.Hit[models.Person], 0, len(results)),
	}
	for _, r := range results {
		p := persons[r.Position]
		resp.Hits = append(resp.Hits, models.Hit[models.Person]{
			ID:     p.ID,
			Key:    r.ID,
			Score:  r.Score,
			Source: p,
		})
	}
	resp.TookMs = time.Since(startTime).Milliseconds()
	metrics.ObserveOperation("similarity", startTime, resp.Total)
	return resp, nil
}
