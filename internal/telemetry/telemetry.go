// Package telemetry records search statistics as OpenTelemetry
// instruments. It wires a no-op meter provider by default, so running
// the engine never requires a collector; a caller that wants real
// metrics passes its own provider to NewRecorder.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Recorder publishes per-iteration search statistics: node count, the
// iterative-deepening depth reached, and the transposition table's hit
// ratio, as spec.md doesn't define these but an observable engine needs
// them.
type Recorder struct {
	nodes      metric.Int64Counter
	depth      metric.Int64Gauge
	ttHitRatio metric.Float64Gauge
}

// NewRecorder builds a Recorder against the given meter provider. Pass
// noop.NewMeterProvider() (the default) to disable export entirely.
func NewRecorder(provider metric.MeterProvider) (*Recorder, error) {
	if provider == nil {
		provider = noop.NewMeterProvider()
	}
	meter := provider.Meter("github.com/chesscore/chesscore/internal/search")

	nodes, err := meter.Int64Counter("search.nodes",
		metric.WithDescription("nodes visited across all completed searches"))
	if err != nil {
		return nil, err
	}
	depth, err := meter.Int64Gauge("search.depth",
		metric.WithDescription("iterative-deepening depth reached by the most recent search"))
	if err != nil {
		return nil, err
	}
	ttHitRatio, err := meter.Float64Gauge("search.tt_hit_ratio",
		metric.WithDescription("transposition table hit rate, 0-100, since the table was created or last cleared"))
	if err != nil {
		return nil, err
	}

	return &Recorder{nodes: nodes, depth: depth, ttHitRatio: ttHitRatio}, nil
}

// RecordIteration records one completed iterative-deepening depth.
func (r *Recorder) RecordIteration(ctx context.Context, depth int, nodesThisSearch uint64, ttHitRate float64) {
	if r == nil {
		return
	}
	r.nodes.Add(ctx, int64(nodesThisSearch))
	r.depth.Record(ctx, int64(depth))
	r.ttHitRatio.Record(ctx, ttHitRate)
}
