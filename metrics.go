package corrfunc

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordIndexBuild is called after each point set is binned into cells.
	// cells is the number of occupied cells.
	RecordIndexBuild(points, cells int, duration time.Duration)

	// RecordCount is called after each Auto or Cross run.
	// pairs is the total over all bins (0 on failure), err is nil if successful.
	RecordCount(pairs uint64, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordIndexBuild(int, int, time.Duration) {}
func (NoopMetricsCollector) RecordCount(uint64, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	IndexBuilds     atomic.Int64
	IndexedPoints   atomic.Int64
	OccupiedCells   atomic.Int64
	IndexTotalNanos atomic.Int64
	CountRuns       atomic.Int64
	CountErrors     atomic.Int64
	CountedPairs    atomic.Uint64
	CountTotalNanos atomic.Int64
}

// RecordIndexBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordIndexBuild(points, cells int, duration time.Duration) {
	b.IndexBuilds.Add(1)
	b.IndexedPoints.Add(int64(points))
	b.OccupiedCells.Add(int64(cells))
	b.IndexTotalNanos.Add(duration.Nanoseconds())
}

// RecordCount implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCount(pairs uint64, duration time.Duration, err error) {
	b.CountRuns.Add(1)
	b.CountTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.CountErrors.Add(1)
		return
	}
	b.CountedPairs.Add(pairs)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		IndexBuilds:   b.IndexBuilds.Load(),
		IndexedPoints: b.IndexedPoints.Load(),
		OccupiedCells: b.OccupiedCells.Load(),
		IndexAvgNanos: avg(b.IndexTotalNanos.Load(), b.IndexBuilds.Load()),
		CountRuns:     b.CountRuns.Load(),
		CountErrors:   b.CountErrors.Load(),
		CountedPairs:  b.CountedPairs.Load(),
		CountAvgNanos: avg(b.CountTotalNanos.Load(), b.CountRuns.Load()),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	IndexBuilds   int64
	IndexedPoints int64
	OccupiedCells int64
	IndexAvgNanos int64
	CountRuns     int64
	CountErrors   int64
	CountedPairs  uint64
	CountAvgNanos int64
}
