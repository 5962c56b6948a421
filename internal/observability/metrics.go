package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricRequestsTotal    = "rectsweep.requests.total"
	metricRequestDuration  = "rectsweep.request.duration.seconds"
	metricErrorsTotal      = "rectsweep.errors.total"
	metricInflightRequests = "rectsweep.inflight.requests"

	attrOp          = "op"
	attrStatus      = "status"
	attrStatusClass = "status_class"

	statusOK    = "ok"
	statusError = "error"
)

// requestBuckets spans sub-millisecond sweeps up to slow multi-layer requests.
var requestBuckets = []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// REDMetrics holds the rate, error and duration instruments for API requests.
// A nil *REDMetrics records nothing.
type REDMetrics struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
	errors   metric.Int64Counter
	inflight metric.Int64UpDownCounter
}

// NewREDMetrics creates the request instruments on mt.
func NewREDMetrics(mt metric.Meter) (*REDMetrics, error) {
	b := newMetricBuilder(mt)

	rm := &REDMetrics{
		requests: b.counter(metricRequestsTotal, "API requests by operation and outcome", "{request}"),
		duration: b.histogram(metricRequestDuration, "API request latency", "s", requestBuckets...),
		errors:   b.counter(metricErrorsTotal, "API requests answered with 4xx or 5xx", "{error}"),
		inflight: b.upDownCounter(metricInflightRequests, "API requests being served", "{request}"),
	}

	if b.err != nil {
		return nil, b.err
	}

	return rm, nil
}

// Begin marks one op request in flight. The returned func ends it with the
// HTTP status the request was answered with; call it exactly once.
func (rm *REDMetrics) Begin(ctx context.Context, op string) func(status int) {
	if rm == nil {
		return func(int) {}
	}

	start := time.Now()
	opAttr := attribute.String(attrOp, op)
	rm.inflight.Add(ctx, 1, metric.WithAttributes(opAttr))

	return func(status int) {
		rm.inflight.Add(ctx, -1, metric.WithAttributes(opAttr))

		outcome := statusOK
		if status >= http.StatusBadRequest {
			outcome = statusError
		}

		attrs := metric.WithAttributes(
			opAttr,
			attribute.String(attrStatus, outcome),
			attribute.String(attrStatusClass, statusClass(status)),
		)

		rm.requests.Add(ctx, 1, attrs)
		rm.duration.Record(ctx, time.Since(start).Seconds(), attrs)

		if outcome == statusError {
			rm.errors.Add(ctx, 1, attrs)
		}
	}
}

// statusClass maps 404 to "4xx".
func statusClass(status int) string {
	return strconv.Itoa(status/100) + "xx"
}
