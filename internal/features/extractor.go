// Package features turns face images into feature vectors comparable with stored person features.
package features

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"

	"github.com/hyperjump/crime360/internal/metrics"
	"github.com/hyperjump/crime360/internal/models"
	"github.com/hyperjump/crime360/pkg/utils"
)

// DefaultDimensions matches the length of the seed person feature vectors.
const DefaultDimensions = 5

// Extractor produces a feature vector from raw image bytes.
type Extractor interface {
	Extract(ctx context.Context, image []byte) ([]float64, error)
	Dimensions() int
	Close() error
}

// SegmentExtractor is a deterministic extractor: the image is cut into Dimensions equal
// segments and each feature is the mean byte intensity of its segment, L2-normalised.
// Identical images always yield identical vectors.
type SegmentExtractor struct {
	dimensions int
	cache      *FeatureCache
}

// NewSegmentExtractor returns an extractor of the given dimensions. cacheSize <= 0 disables caching.
func NewSegmentExtractor(dimensions, cacheSize int) *SegmentExtractor {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	e := &SegmentExtractor{dimensions: dimensions}
	if cacheSize > 0 {
		e.cache = NewFeatureCache(cacheSize)
	}
	return e
}

// Extract returns the feature vector for image.
func (e *SegmentExtractor) Extract(ctx context.Context, image []byte) ([]float64, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("%w: empty image", models.ErrInvalidQuery)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var key string
	if e.cache != nil {
		sum := sha256.Sum256(image)
		key = hex.EncodeToString(sum[:])
		if v, ok := e.cache.Get(key); ok {
			metrics.ObserveCache("features", true)
			return slices.Clone(v), nil
		}
		metrics.ObserveCache("features", false)
	}

	vec := make([]float64, e.dimensions)
	for i := range vec {
		lo := i * len(image) / e.dimensions
		hi := (i + 1) * len(image) / e.dimensions
		if hi <= lo {
			// Fewer bytes than dimensions: reuse the byte the segment falls on.
			vec[i] = float64(image[lo%len(image)]) / 255
			continue
		}
		var sum float64
		for _, b := range image[lo:hi] {
			sum += float64(b)
		}
		vec[i] = sum / float64(hi-lo) / 255
	}
	utils.NormalizeL2(vec)

	if e.cache != nil {
		e.cache.Set(key, slices.Clone(vec))
	}
	return vec, nil
}

// Dimensions returns the feature vector length.
func (e *SegmentExtractor) Dimensions() int {
	return e.dimensions
}

// Close is a no-op for SegmentExtractor.
func (e *SegmentExtractor) Close() error {
	return nil
}
