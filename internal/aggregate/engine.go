package aggregate

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/hyperjump/crime360/internal/config"
	"github.com/hyperjump/crime360/internal/metrics"
	"github.com/hyperjump/crime360/internal/models"
	"github.com/hyperjump/crime360/internal/store"
)

const (
	defaultCacheTTL = 5 * time.Minute
	cacheName       = "dashboard"
)

// Engine answers aggregation queries over one snapshot. Dashboard reads are memoised per
// date range until the TTL expires.
type Engine struct {
	snapshot    *store.Snapshot
	topKeywords int
	cache       *gocache.Cache
	logger      *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates an aggregation engine over snap.
func NewEngine(snap *store.Snapshot, cfg *config.AnalyticsConfig, opts ...Option) *Engine {
	ttl := defaultCacheTTL
	top := DefaultTopKeywords
	if cfg != nil {
		if cfg.CacheTTLSec > 0 {
			ttl = time.Duration(cfg.CacheTTLSec) * time.Second
		}
		if cfg.TopKeywords > 0 {
			top = cfg.TopKeywords
		}
	}
	e := &Engine{
		snapshot:    snap,
		topKeywords: top,
		cache:       gocache.New(ttl, 2*ttl),
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AggregateBy counts every incident in the snapshot by the named field.
func (e *Engine) AggregateBy(name string) (models.FrequencyTable, error) {
	start := time.Now()
	field, err := models.ParseField(name)
	if err != nil {
		metrics.ObserveError("aggregate")
		return models.FrequencyTable{}, err
	}
	table := Frequency(e.snapshot.Incidents(), field)
	metrics.ObserveOperation("aggregate", start, len(table.Buckets))
	return table, nil
}

// Heatmap plots incidents inside bounds. Nil bounds plot the whole snapshot.
func (e *Engine) Heatmap(ctx context.Context, bounds *models.Bounds) (*models.Heatmap, error) {
	start := time.Now()
	if bounds != nil && !bounds.Box().Valid() {
		metrics.ObserveError("heatmap")
		return nil, fmt.Errorf("%w: heatmap bounds must have top-left north-west of bottom-right", models.ErrInvalidQuery)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	hm := BuildHeatmap(e.snapshot.Incidents(), bounds)
	metrics.ObserveOperation("heatmap", start, hm.Total)
	return &hm, nil
}

// Snapshot returns the dashboard read for incidents filed within r. A nil range covers the
// whole snapshot.
func (e *Engine) Snapshot(ctx context.Context, r *models.DateRange) (*models.DashboardSnapshot, error) {
	start := time.Now()
	if err := r.Validate(); err != nil {
		metrics.ObserveError("dashboard")
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := cacheKey(r)
	if cached, ok := e.cache.Get(key); ok {
		metrics.ObserveCache(cacheName, true)
		snap := cached.(models.DashboardSnapshot)
		return &snap, nil
	}
	metrics.ObserveCache(cacheName, false)

	snap := Dashboard(e.snapshot.Incidents(), r, e.topKeywords)
	e.cache.SetDefault(key, snap)
	metrics.ObserveOperation("dashboard", start, snap.TotalCount)
	e.logger.Debug("dashboard computed", zap.String("range", key), zap.Int("total", snap.TotalCount))
	return &snap, nil
}

// Close drops memoised results.
func (e *Engine) Close() {
	e.cache.Flush()
}

func cacheKey(r *models.DateRange) string {
	if r == nil {
		return "all"
	}
	return r.From.String() + ".." + r.To.String()
}
