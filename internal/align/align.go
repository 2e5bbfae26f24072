// Package align assigns time spans to phoneme sequences.
//
// An alignment is a list of [pronounce.Segment] values that tile the audio
// exactly: the first segment starts at 0, each segment's end equals the next
// segment's start, and the last segment ends at the total duration, in the
// order of the input phoneme sequence. Three heuristic strategies are
// provided (uniform, duration-weighted, energy change-point) plus a forced
// entry point that consumes an external recognition signal. Preferred
// strategies degrade along a defined chain (energy → uniform,
// forced → uniform) instead of failing.
package align

import (
	"context"
	"math"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/arpege-labs/phonoscore/internal/config"
	"github.com/arpege-labs/phonoscore/internal/dsp"
	"github.com/arpege-labs/phonoscore/internal/observe"
	"github.com/arpege-labs/phonoscore/pkg/phoneme"
	"github.com/arpege-labs/phonoscore/pkg/pronounce"
)

// Option configures an [Aligner].
type Option func(*Aligner)

// WithMetrics sets the metrics instance used to count strategy fallbacks.
// Defaults to [observe.DefaultMetrics].
func WithMetrics(m *observe.Metrics) Option {
	return func(a *Aligner) { a.metrics = m }
}

// Aligner produces phoneme alignments using the configured strategy. It is
// read-only after construction and safe for concurrent use.
type Aligner struct {
	cfg     config.AlignerConfig
	metrics *observe.Metrics
}

// New returns an [Aligner] using the given strategy configuration.
func New(cfg config.AlignerConfig, opts ...Option) *Aligner {
	a := &Aligner{cfg: cfg}
	for _, o := range opts {
		o(a)
	}
	if a.metrics == nil {
		a.metrics = observe.DefaultMetrics()
	}
	return a
}

// Align assigns a time span to each phoneme of seq over the given audio
// buffer, using the configured strategy. Returns nil for an empty sequence
// or an empty buffer.
func (a *Aligner) Align(ctx context.Context, samples []float64, sampleRate int, seq []phoneme.Symbol) []pronounce.Segment {
	if len(seq) == 0 || len(samples) == 0 || sampleRate <= 0 {
		return nil
	}
	total := float64(len(samples)) / float64(sampleRate)

	switch a.cfg.Strategy {
	case config.AlignEnergy:
		if segs := a.energyChangePoint(samples, sampleRate, seq, total); segs != nil {
			return segs
		}
		a.fallback(ctx, string(config.AlignEnergy))
		return Uniform(seq, total)
	case config.AlignUniform:
		return Uniform(seq, total)
	default:
		return DurationWeighted(seq, total, a.cfg.MinPhonemeDuration, a.cfg.MaxPhonemeDuration)
	}
}

// ForcedAlign aligns seq against the audio using an externally supplied
// recognition signal. True CTC forced alignment belongs to an external
// collaborator; this implementation degrades to a uniform split scaled to
// the real audio duration, preserving the interface so a real forced aligner
// can be substituted without changing downstream contracts.
func (a *Aligner) ForcedAlign(ctx context.Context, samples []float64, sampleRate int, seq []phoneme.Symbol, rec *pronounce.Recognition) []pronounce.Segment {
	if len(seq) == 0 || len(samples) == 0 || sampleRate <= 0 {
		return nil
	}
	if rec == nil || len(rec.Logits) == 0 {
		return a.Align(ctx, samples, sampleRate, seq)
	}
	a.fallback(ctx, "forced")
	return Uniform(seq, float64(len(samples))/float64(sampleRate))
}

func (a *Aligner) fallback(ctx context.Context, from string) {
	observe.Logger(ctx).Debug("alignment strategy degraded",
		"from", from, "to", string(config.AlignUniform))
	a.metrics.AlignmentFallbacks.Add(ctx, 1, metric.WithAttributes(
		attribute.String("from", from),
		attribute.String("to", string(config.AlignUniform)),
	))
}

// Uniform divides total seconds into equal spans, one per phoneme.
func Uniform(seq []phoneme.Symbol, total float64) []pronounce.Segment {
	n := len(seq)
	if n == 0 || total <= 0 {
		return nil
	}
	segs := make([]pronounce.Segment, n)
	span := total / float64(n)
	for i, sym := range seq {
		segs[i] = pronounce.Segment{
			Symbol: sym,
			Start:  float64(i) * span,
			End:    float64(i+1) * span,
		}
	}
	segs[n-1].End = total
	return segs
}

// DurationWeighted assigns each phoneme a span proportional to its typical
// duration weight, clamps each span to [minDur, maxDur], and rescales the
// clamped spans so they tile [0, total] exactly.
func DurationWeighted(seq []phoneme.Symbol, total, minDur, maxDur float64) []pronounce.Segment {
	n := len(seq)
	if n == 0 || total <= 0 {
		return nil
	}

	weights := make([]float64, n)
	var weightSum float64
	for i, sym := range seq {
		weights[i] = phoneme.DurationWeight(sym)
		weightSum += weights[i]
	}

	durations := make([]float64, n)
	var durSum float64
	for i, w := range weights {
		d := w / weightSum * total
		d = math.Max(minDur, math.Min(maxDur, d))
		durations[i] = d
		durSum += d
	}

	// Clamping can break the tiling; rescale so spans cover the buffer
	// exactly.
	scale := total / durSum
	segs := make([]pronounce.Segment, n)
	cursor := 0.0
	for i, sym := range seq {
		d := durations[i] * scale
		segs[i] = pronounce.Segment{Symbol: sym, Start: cursor, End: cursor + d}
		cursor += d
	}
	segs[n-1].End = total
	return segs
}

// energyChangePoint places boundaries at abrupt changes of the smoothed RMS
// energy curve. Returns nil when fewer change-point candidates exist than
// boundaries are needed, signalling the caller to fall back.
func (a *Aligner) energyChangePoint(samples []float64, sampleRate int, seq []phoneme.Symbol, total float64) []pronounce.Segment {
	const (
		frameLen = 1024
		hop      = 512
	)
	n := len(seq)
	if n == 1 {
		return Uniform(seq, total)
	}

	frames := dsp.Frames(samples, frameLen, hop)
	if len(frames) < 2 {
		return nil
	}
	rms := make([]float64, len(frames))
	for i, frame := range frames {
		var sumSq float64
		for _, s := range frame {
			sumSq += s * s
		}
		rms[i] = math.Sqrt(sumSq / float64(len(frame)))
	}
	smoothed := dsp.GaussianSmooth(rms, a.cfg.EnergySmoothingSigma)

	diff := make([]float64, len(smoothed)-1)
	for i := range diff {
		diff[i] = smoothed[i+1] - smoothed[i]
	}
	threshold := dsp.Std(diff) * a.cfg.EnergyChangeStdFraction

	timePerFrame := float64(hop) / float64(sampleRate)
	var candidates []float64
	for i, d := range diff {
		if math.Abs(d) > threshold {
			candidates = append(candidates, float64(i)*timePerFrame)
		}
	}
	if len(candidates) < n-1 {
		return nil
	}

	// Pick n-1 candidates spaced as evenly as possible, then sort: the even
	// spacing is over candidate indices, not times, so the selected times
	// must be made monotonic before they can serve as boundaries.
	needed := n - 1
	boundaries := make([]float64, 0, n+1)
	boundaries = append(boundaries, 0)
	for i := 0; i < needed; i++ {
		idx := 0
		if needed > 1 {
			idx = i * (len(candidates) - 1) / (needed - 1)
		}
		boundaries = append(boundaries, candidates[idx])
	}
	boundaries = append(boundaries, total)
	sort.Float64s(boundaries)

	// Degenerate spans (duplicate candidates or a candidate beyond the
	// buffer end) violate the tiling contract; fall back instead.
	for i := 0; i < len(boundaries)-1; i++ {
		if boundaries[i+1] <= boundaries[i] {
			return nil
		}
	}

	segs := make([]pronounce.Segment, n)
	for i, sym := range seq {
		segs[i] = pronounce.Segment{Symbol: sym, Start: boundaries[i], End: boundaries[i+1]}
	}
	return segs
}
