// Package app assembles the engines that serve one snapshot.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/crime360/internal/aggregate"
	"github.com/hyperjump/crime360/internal/config"
	"github.com/hyperjump/crime360/internal/features"
	"github.com/hyperjump/crime360/internal/keyword"
	"github.com/hyperjump/crime360/internal/metrics"
	"github.com/hyperjump/crime360/internal/models"
	"github.com/hyperjump/crime360/internal/search"
	"github.com/hyperjump/crime360/internal/store"
)

// Runtime bundles a snapshot with the engines built over it. A Runtime is never modified;
// reloading builds a new one.
type Runtime struct {
	Snapshot  *store.Snapshot
	Search    *search.Engine
	Analytics *aggregate.Engine
	Keywords  *keyword.BleveIndex
	Features  features.Extractor
	Source    store.Source
	Config    *config.Config
}

// Build loads the configured seed source and builds a runtime over it.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Runtime, error) {
	src, err := store.NewSource(&cfg.Seed)
	if err != nil {
		return nil, err
	}
	return BuildFrom(ctx, cfg, src, logger)
}

// BuildFrom loads src and builds a runtime over the resulting snapshot.
func BuildFrom(ctx context.Context, cfg *config.Config, src store.Source, logger *zap.Logger) (*Runtime, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	start := time.Now()
	snap, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", src.Describe(), err)
	}

	kw, err := keyword.NewBleveIndex()
	if err != nil {
		return nil, err
	}
	if err := kw.IndexIncidents(ctx, snap.Incidents()); err != nil {
		_ = kw.Close()
		return nil, err
	}
	spell := keyword.NewSpellChecker(kw,
		keyword.WithMaxDistance(cfg.Search.SuggestionDistance),
		keyword.WithMaxSuggestions(cfg.Search.MaxSuggestions),
	)

	engine, err := search.NewEngine(ctx, snap, &cfg.Search,
		search.WithKeywordIndex(kw),
		search.WithSuggester(spell),
		search.WithLogger(logger),
	)
	if err != nil {
		_ = kw.Close()
		return nil, err
	}

	rt := &Runtime{
		Snapshot:  snap,
		Search:    engine,
		Analytics: aggregate.NewEngine(snap, &cfg.Analytics, aggregate.WithLogger(logger)),
		Keywords:  kw,
		Features:  features.NewSegmentExtractor(cfg.Faces.FeatureDimensions, cfg.Faces.CacheSize),
		Source:    src,
		Config:    cfg,
	}
	metrics.SetSnapshotSize(len(snap.Incidents()), len(snap.Persons()))
	logger.Info("snapshot loaded",
		zap.String("source", src.Describe()),
		zap.Strings("datasets", snap.Datasets()),
		zap.Int("incidents", len(snap.Incidents())),
		zap.Int("persons", len(snap.Persons())),
		zap.Duration("took", time.Since(start)))
	return rt, nil
}

// MatchImage extracts features from image and returns persons at or above threshold.
func (r *Runtime) MatchImage(ctx context.Context, image []byte, threshold float64) (*models.SearchResponse[models.Person], error) {
	if err := search.ValidateThreshold(threshold); err != nil {
		return nil, err
	}
	vec, err := r.Features.Extract(ctx, image)
	if err != nil {
		return nil, err
	}
	return r.Search.SearchBySimilarity(ctx, vec, threshold)
}

// Status summarises the runtime for status endpoints and CLI output.
type Status struct {
	Source    string    `json:"source"`
	Datasets  []string  `json:"datasets"`
	Incidents int       `json:"incidents"`
	Persons   int       `json:"persons"`
	Indexed   uint64    `json:"indexed"`
	LoadedAt  time.Time `json:"loadedAt"`
}

// Status reports what the runtime holds.
func (r *Runtime) Status() Status {
	indexed, _ := r.Keywords.DocCount()
	return Status{
		Source:    r.Source.Describe(),
		Datasets:  r.Snapshot.Datasets(),
		Incidents: len(r.Snapshot.Incidents()),
		Persons:   len(r.Snapshot.Persons()),
		Indexed:   indexed,
		LoadedAt:  r.Snapshot.LoadedAt(),
	}
}

// Close releases the runtime's indexes and caches.
func (r *Runtime) Close() error {
	r.Analytics.Close()
	return errors.Join(r.Search.Close(), r.Keywords.Close(), r.Features.Close())
}
