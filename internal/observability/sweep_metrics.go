package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricDecompositions        = "rectsweep.decompositions.total"
	metricDecompositionDuration = "rectsweep.decomposition.duration.seconds"
	metricOutputRects           = "rectsweep.output.rects"
	metricObstructions          = "rectsweep.obstructions"
	metricCacheLookups          = "rectsweep.cache.lookups.total"

	attrSource = "source"
	attrResult = "result"

	// CacheHit and CacheMiss are the result attribute values of cache lookups.
	CacheHit  = "hit"
	CacheMiss = "miss"
)

var (
	sweepBuckets = []float64{0.00001, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1}
	countBuckets = []float64{0, 1, 2, 4, 8, 16, 32, 64, 128, 256, 512, 1024}
)

// SweepMetrics records per-decomposition instruments.
type SweepMetrics struct {
	decompositions metric.Int64Counter
	duration       metric.Float64Histogram
	outputRects    metric.Int64Histogram
	obstructions   metric.Int64Histogram
	cacheLookups   metric.Int64Counter
}

// NewSweepMetrics creates the decomposition instruments on mt.
func NewSweepMetrics(mt metric.Meter) (*SweepMetrics, error) {
	b := newMetricBuilder(mt)

	sm := &SweepMetrics{
		decompositions: b.counter(metricDecompositions, "Total number of decompositions", "{decomposition}"),
		duration:       b.histogram(metricDecompositionDuration, "Time spent in a single sweep", "s", sweepBuckets...),
		outputRects:    b.intHistogram(metricOutputRects, "Rectangles produced per decomposition", "{rect}", countBuckets...),
		obstructions:   b.intHistogram(metricObstructions, "Obstructions given per decomposition", "{rect}", countBuckets...),
		cacheLookups:   b.counter(metricCacheLookups, "Decomposition cache lookups by result", "{lookup}"),
	}

	if b.err != nil {
		return nil, b.err
	}

	return sm, nil
}

// RecordDecomposition records one sweep. source names the caller, e.g. "cli" or "api".
func (sm *SweepMetrics) RecordDecomposition(ctx context.Context, source string, obstructions, rects int, dur time.Duration) {
	if sm == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String(attrSource, source))

	sm.decompositions.Add(ctx, 1, attrs)
	sm.duration.Record(ctx, dur.Seconds(), attrs)
	sm.outputRects.Record(ctx, int64(rects), attrs)
	sm.obstructions.Record(ctx, int64(obstructions), attrs)
}

// RecordCacheLookup counts one result cache lookup.
func (sm *SweepMetrics) RecordCacheLookup(ctx context.Context, hit bool) {
	if sm == nil {
		return
	}

	result := CacheMiss
	if hit {
		result = CacheHit
	}

	sm.cacheLookups.Add(ctx, 1, metric.WithAttributes(attribute.String(attrResult, result)))
}
