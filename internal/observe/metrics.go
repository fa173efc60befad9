// Package observe provides observability primitives for the kiosk:
// OpenTelemetry metrics with a Prometheus exporter bridge, and tracer
// helpers for per-turn spans.
//
// A package-level default [Metrics] instance ([DefaultMetrics]) is provided
// for convenience; tests should use [NewMetrics] with a custom
// [metric.MeterProvider] to avoid cross-test pollution.
package observe

import (
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all kiosk metrics.
const meterName = "github.com/apetrei/glas"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// --- Latency histograms per pipeline stage ---

	// RecognizeDuration tracks speech-to-text transcription latency.
	RecognizeDuration metric.Float64Histogram

	// SynthesizeDuration tracks text-to-speech synthesis latency.
	SynthesizeDuration metric.Float64Histogram

	// TurnDuration tracks the full capture → answer → speak turn latency.
	TurnDuration metric.Float64Histogram

	// --- Counters ---

	// Sessions counts completed session attempts. Use with attribute:
	//   attribute.String("outcome", "rejected"|"idle_expired"|"explicit_exit")
	Sessions metric.Int64Counter

	// Turns counts conversational turns. Use with attribute:
	//   attribute.String("outcome", "answered"|"fallback"|"exit")
	Turns metric.Int64Counter

	// DictionaryAdditions counts pronunciation entries appended by the
	// maintainer.
	DictionaryAdditions metric.Int64Counter

	// IngestRecords counts records received from the data-entry client.
	// Use with attributes:
	//   attribute.String("kind", ...), attribute.String("status", ...)
	IngestRecords metric.Int64Counter

	// --- Gauges ---

	// ActiveSessions tracks whether a session is currently being served
	// (0 or 1 in normal operation — the loop is strictly sequential).
	ActiveSessions metric.Int64UpDownCounter
}

// latencyBuckets defines histogram bucket boundaries (in seconds) sized for
// a turn that includes a fixed multi-second audio capture.
var latencyBuckets = []float64{
	0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	// Histograms.
	if met.RecognizeDuration, err = m.Float64Histogram("glas.recognize.duration",
		metric.WithDescription("Latency of speech-to-text transcription."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.SynthesizeDuration, err = m.Float64Histogram("glas.synthesize.duration",
		metric.WithDescription("Latency of text-to-speech synthesis."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.TurnDuration, err = m.Float64Histogram("glas.turn.duration",
		metric.WithDescription("Latency of one full conversational turn."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	// Counters.
	if met.Sessions, err = m.Int64Counter("glas.sessions",
		metric.WithDescription("Completed session attempts by outcome."),
	); err != nil {
		return nil, err
	}
	if met.Turns, err = m.Int64Counter("glas.turns",
		metric.WithDescription("Conversational turns by outcome."),
	); err != nil {
		return nil, err
	}
	if met.DictionaryAdditions, err = m.Int64Counter("glas.dictionary.additions",
		metric.WithDescription("Pronunciation dictionary entries appended."),
	); err != nil {
		return nil, err
	}
	if met.IngestRecords, err = m.Int64Counter("glas.ingest.records",
		metric.WithDescription("Data-entry records received by kind and status."),
	); err != nil {
		return nil, err
	}

	// Gauges (UpDownCounters).
	if met.ActiveSessions, err = m.Int64UpDownCounter("glas.active_sessions",
		metric.WithDescription("Whether a kiosk session is currently active."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// Attr is a convenience alias for [attribute.String] to reduce verbosity at
// call sites.
func Attr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}
