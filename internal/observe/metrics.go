// Package observe provides application-wide observability primitives for
// phonoscore: OpenTelemetry metrics, tracing, and structured logging helpers.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is available via [InitProvider] so that metrics can still be
// scraped via the standard /metrics endpoint. A package-level default
// [Metrics] instance ([DefaultMetrics]) is provided for convenience; tests
// should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all phonoscore metrics.
const meterName = "github.com/arpege-labs/phonoscore"

// Metrics holds all OpenTelemetry metric instruments for the scoring
// pipeline. All fields are safe for concurrent use — the underlying OTel
// types handle their own synchronisation.
type Metrics struct {
	// --- Latency histograms per pipeline stage ---

	// PhonemizeDuration tracks text-to-phoneme conversion latency.
	PhonemizeDuration metric.Float64Histogram

	// AlignDuration tracks phoneme alignment latency.
	AlignDuration metric.Float64Histogram

	// ExtractDuration tracks acoustic feature extraction latency (whole
	// buffer and per-segment extractions alike).
	ExtractDuration metric.Float64Histogram

	// AssessDuration tracks per-phoneme quality assessment latency.
	AssessDuration metric.Float64Histogram

	// ScoreDuration tracks end-to-end scoring request latency.
	ScoreDuration metric.Float64Histogram

	// --- Counters ---

	// ScoringRuns counts scoring requests.
	ScoringRuns metric.Int64Counter

	// DegradedFeatures counts feature sub-extractors that failed and were
	// replaced with zeroed defaults. Use with attribute:
	//   attribute.String("extractor", "pitch"|"formant"|"spectral"|"temporal")
	DegradedFeatures metric.Int64Counter

	// AlignmentFallbacks counts alignment strategy downgrades. Use with
	// attributes: attribute.String("from", ...), attribute.String("to", ...)
	AlignmentFallbacks metric.Int64Counter

	// PhonemesScored counts individual phoneme assessments by quality label.
	// Use with attribute: attribute.String("quality", ...)
	PhonemesScored metric.Int64Counter
}

// latencyBuckets defines histogram bucket boundaries (in seconds) optimised
// for in-process signal analysis latencies.
var latencyBuckets = []float64{
	0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	// Histograms.
	if met.PhonemizeDuration, err = m.Float64Histogram("phonoscore.phonemize.duration",
		metric.WithDescription("Latency of text-to-phoneme conversion."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.AlignDuration, err = m.Float64Histogram("phonoscore.align.duration",
		metric.WithDescription("Latency of phoneme alignment."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.ExtractDuration, err = m.Float64Histogram("phonoscore.extract.duration",
		metric.WithDescription("Latency of acoustic feature extraction."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.AssessDuration, err = m.Float64Histogram("phonoscore.assess.duration",
		metric.WithDescription("Latency of per-phoneme quality assessment."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.ScoreDuration, err = m.Float64Histogram("phonoscore.score.duration",
		metric.WithDescription("End-to-end scoring request latency."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	// Counters.
	if met.ScoringRuns, err = m.Int64Counter("phonoscore.scoring.runs",
		metric.WithDescription("Total scoring requests."),
	); err != nil {
		return nil, err
	}
	if met.DegradedFeatures, err = m.Int64Counter("phonoscore.features.degraded",
		metric.WithDescription("Feature sub-extractor failures replaced with zeroed defaults."),
	); err != nil {
		return nil, err
	}
	if met.AlignmentFallbacks, err = m.Int64Counter("phonoscore.align.fallbacks",
		metric.WithDescription("Alignment strategy downgrades by source and target strategy."),
	); err != nil {
		return nil, err
	}
	if met.PhonemesScored, err = m.Int64Counter("phonoscore.phonemes.scored",
		metric.WithDescription("Individual phoneme assessments by quality label."),
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
			panic("observe: creating default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}
