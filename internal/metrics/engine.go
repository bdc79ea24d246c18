package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Engine operation metrics.
var (
	OperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "crime360",
			Name:      "engine_operation_duration_seconds",
			Help:      "Engine operation duration in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
		[]string{"operation"},
	)

	OperationResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crime360",
			Name:      "engine_operation_results_total",
			Help:      "Total records matched by engine operations",
		},
		[]string{"operation"},
	)

	OperationErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crime360",
			Name:      "engine_operation_errors_total",
			Help:      "Total failed engine operations",
		},
		[]string{"operation"},
	)

	SnapshotRecords = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "crime360",
			Name:      "snapshot_records",
			Help:      "Records in the active snapshot",
		},
		[]string{"kind"},
	)

	CacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crime360",
			Name:      "cache_total",
			Help:      "Cache hits and misses",
		},
		[]string{"cache", "result"}, // result: "hit" / "miss"
	)
)

func init() {
	prometheus.MustRegister(OperationDuration, OperationResults, OperationErrors, SnapshotRecords, CacheTotal)
}

// ObserveOperation records the duration and result count of a successful operation.
func ObserveOperation(operation string, start time.Time, results int) {
	OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	OperationResults.WithLabelValues(operation).Add(float64(results))
}

// ObserveError counts a failed operation.
func ObserveError(operation string) {
	OperationErrors.WithLabelValues(operation).Inc()
}

// ObserveCache counts a cache lookup.
func ObserveCache(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheTotal.WithLabelValues(cache, result).Inc()
}

// SetSnapshotSize publishes the record counts of the active snapshot.
func SetSnapshotSize(incidents, persons int) {
	SnapshotRecords.WithLabelValues("incident").Set(float64(incidents))
	SnapshotRecords.WithLabelValues("person").Set(float64(persons))
}
