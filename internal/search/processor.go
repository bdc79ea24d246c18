package search

import (
	"fmt"

	"github.com/hyperjump/crime360/internal/config"
	"github.com/hyperjump/crime360/internal/models"
)

// ProcessQuery validates the query and applies paging defaults from cfg.
func ProcessQuery(query *models.SearchQuery, cfg *config.SearchConfig) error {
	if query == nil {
		return fmt.Errorf("%w: missing query", models.ErrInvalidQuery)
	}
	if cfg == nil || cfg.DefaultSize <= 0 || cfg.MaxSize <= 0 {
		return query.Validate()
	}
	return query.ValidateWithLimits(cfg.DefaultSize, cfg.MaxSize)
}

// ValidateThreshold rejects similarity thresholds outside [0, 1].
func ValidateThreshold(threshold float64) error {
	if !(threshold >= 0 && threshold <= 1) {
		return fmt.Errorf("%w: threshold %v must be within [0, 1]", models.ErrInvalidQuery, threshold)
	}
	return nil
}
