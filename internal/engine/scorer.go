// Package engine orchestrates the pronunciation scoring pipeline.
//
// A [Scorer] wires the text-to-phoneme converter, the aligner, the acoustic
// feature extractor, the per-phoneme assessor, the aggregators, and the
// suggestion generator into one request-scoped computation: one audio buffer
// and one reference text in, one [pronounce.DetailedPronunciationResult] out.
//
// Scoring never fails: unscoreable input produces a well-defined zero-score
// result with a diagnostic issue rather than an error.
package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"

	"github.com/arpege-labs/phonoscore/internal/aggregate"
	"github.com/arpege-labs/phonoscore/internal/align"
	"github.com/arpege-labs/phonoscore/internal/assess"
	"github.com/arpege-labs/phonoscore/internal/config"
	"github.com/arpege-labs/phonoscore/internal/feature"
	"github.com/arpege-labs/phonoscore/internal/observe"
	"github.com/arpege-labs/phonoscore/internal/phonemize"
	"github.com/arpege-labs/phonoscore/internal/suggest"
	"github.com/arpege-labs/phonoscore/pkg/phoneme"
	"github.com/arpege-labs/phonoscore/pkg/pronounce"
)

// unscoreableIssue is the single diagnostic issue of a default result.
const unscoreableIssue = "input could not be scored: empty audio or no phonemes in the reference text"

// FeatureExtractor computes the acoustic feature vector of an audio segment.
// Implementations must tolerate arbitrary segment lengths and never fail.
type FeatureExtractor interface {
	Extract(ctx context.Context, samples []float64, sampleRate int) feature.Vector
}

// Aligner assigns time spans to an expected phoneme sequence.
type Aligner interface {
	Align(ctx context.Context, samples []float64, sampleRate int, seq []phoneme.Symbol) []pronounce.Segment
	ForcedAlign(ctx context.Context, samples []float64, sampleRate int, seq []phoneme.Symbol, rec *pronounce.Recognition) []pronounce.Segment
}

// Option configures a [Scorer].
type Option func(*Scorer)

// WithExtractor replaces the default acoustic feature extractor.
func WithExtractor(e FeatureExtractor) Option {
	return func(s *Scorer) { s.extractor = e }
}

// WithAligner replaces the default phoneme aligner.
func WithAligner(a Aligner) Option {
	return func(s *Scorer) { s.aligner = a }
}

// WithMetrics sets the metrics instruments used by the scorer and its default
// collaborators.
func WithMetrics(m *observe.Metrics) Option {
	return func(s *Scorer) { s.metrics = m }
}

// Scorer is the top-level pronunciation scoring pipeline. It is stateless
// across requests and safe for concurrent use.
type Scorer struct {
	cfg       *config.Config
	metrics   *observe.Metrics
	converter *phonemize.Converter
	extractor FeatureExtractor
	aligner   Aligner
	assessor  *assess.Assessor
	words     *aggregate.WordAggregator
	utterance *aggregate.UtteranceAggregator
	suggester *suggest.Generator
}

// New returns a fully wired [Scorer] for the given configuration. Options may
// substitute individual collaborators, e.g. for tests.
func New(cfg *config.Config, opts ...Option) *Scorer {
	s := &Scorer{
		cfg:       cfg,
		metrics:   observe.DefaultMetrics(),
		converter: phonemize.New(),
		assessor:  assess.New(cfg.Assessor),
		words:     aggregate.NewWordAggregator(cfg.Aggregate.Word),
		utterance: aggregate.NewUtteranceAggregator(cfg.Aggregate.Utterance),
		suggester: suggest.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.extractor == nil {
		s.extractor = feature.New(cfg.Extractor, feature.WithMetrics(s.metrics))
	}
	if s.aligner == nil {
		s.aligner = align.New(cfg.Aligner, align.WithMetrics(s.metrics))
	}
	return s
}

// Score runs the pipeline in simple mode and returns only the overall score.
func (s *Scorer) Score(ctx context.Context, samples []float64, sampleRate int, text string) float64 {
	return s.ScoreDetailed(ctx, samples, sampleRate, text, nil).OverallScore
}

// ScoreDetailed runs the full pipeline. rec is an optional externally
// computed recognition signal; nil degrades alignment to the configured
// heuristic strategy. The returned result is always valid.
func (s *Scorer) ScoreDetailed(ctx context.Context, samples []float64, sampleRate int, text string, rec *pronounce.Recognition) pronounce.DetailedPronunciationResult {
	ctx, span := observe.StartSpan(ctx, "pronounce.score")
	defer span.End()
	start := time.Now()
	defer func() {
		s.metrics.ScoreDuration.Record(ctx, time.Since(start).Seconds())
	}()
	s.metrics.ScoringRuns.Add(ctx, 1)

	result := pronounce.DetailedPronunciationResult{RequestID: uuid.NewString()}
	log := observe.Logger(ctx).With("request_id", result.RequestID)

	seq, words := s.timePhonemize(ctx, text)
	if len(samples) == 0 || sampleRate <= 0 || len(seq) == 0 {
		log.Warn("unscoreable input",
			"samples", len(samples), "sample_rate", sampleRate, "phonemes", len(seq))
		result.PronunciationIssues = []string{unscoreableIssue}
		return result
	}

	segments := s.timeAlign(ctx, samples, sampleRate, seq, rec)
	scores := s.assessSegments(ctx, samples, sampleRate, segments)

	result.PhonemeScores = scores
	result.WordScores = s.words.Aggregate(words, scores)
	result.OverallScore = s.utterance.Aggregate(scores)
	result.PronunciationIssues = distinctIssues(scores)
	result.ImprovementSuggestions = s.suggester.Generate(result.OverallScore, scores, result.WordScores)
	result.DurationAnalysis = durationAnalysis(samples, sampleRate, segments)
	result.PitchAnalysis = s.pitchAnalysis(ctx, samples, sampleRate)

	log.Info("scored utterance",
		"overall", result.OverallScore,
		"phonemes", len(scores),
		"words", len(result.WordScores))
	return result
}

func (s *Scorer) timePhonemize(ctx context.Context, text string) ([]phoneme.Symbol, []phonemize.Word) {
	start := time.Now()
	seq, words := s.converter.Convert(text)
	s.metrics.PhonemizeDuration.Record(ctx, time.Since(start).Seconds())
	return seq, words
}

func (s *Scorer) timeAlign(ctx context.Context, samples []float64, sampleRate int, seq []phoneme.Symbol, rec *pronounce.Recognition) []pronounce.Segment {
	start := time.Now()
	defer func() {
		s.metrics.AlignDuration.Record(ctx, time.Since(start).Seconds())
	}()
	if rec != nil {
		return s.aligner.ForcedAlign(ctx, samples, sampleRate, seq, rec)
	}
	return s.aligner.Align(ctx, samples, sampleRate, seq)
}

// assessSegments extracts features and scores every segment. Segments are
// independent, so assessment runs across a bounded worker pool.
func (s *Scorer) assessSegments(ctx context.Context, samples []float64, sampleRate int, segments []pronounce.Segment) []pronounce.PhonemeScore {
	scores := make([]pronounce.PhonemeScore, len(segments))

	g, gctx := errgroup.WithContext(ctx)
	if s.cfg.Engine.Parallelism > 0 {
		g.SetLimit(s.cfg.Engine.Parallelism)
	}
	for i, seg := range segments {
		i, seg := i, seg
		g.Go(func() error {
			start := time.Now()
			segment := sliceSegment(samples, sampleRate, seg)
			vec := s.extractor.Extract(gctx, segment, sampleRate)
			scores[i] = s.assessor.Assess(seg, vec)
			s.metrics.AssessDuration.Record(gctx, time.Since(start).Seconds())
			s.metrics.PhonemesScored.Add(gctx, 1, metric.WithAttributes(
				attribute.String("quality", string(scores[i].Quality)),
			))
			return nil
		})
	}
	g.Wait()

	return scores
}

// sliceSegment cuts the sample range covered by seg, clamped to the buffer.
func sliceSegment(samples []float64, sampleRate int, seg pronounce.Segment) []float64 {
	lo := int(seg.Start * float64(sampleRate))
	hi := int(seg.End * float64(sampleRate))
	if lo < 0 {
		lo = 0
	}
	if hi > len(samples) {
		hi = len(samples)
	}
	if lo >= hi {
		return nil
	}
	return samples[lo:hi]
}

func distinctIssues(scores []pronounce.PhonemeScore) []string {
	var out []string
	seen := make(map[string]bool)
	for _, ps := range scores {
		for _, issue := range ps.Issues {
			if !seen[issue] {
				seen[issue] = true
				out = append(out, issue)
			}
		}
	}
	return out
}

func durationAnalysis(samples []float64, sampleRate int, segments []pronounce.Segment) pronounce.DurationAnalysis {
	total := float64(len(samples)) / float64(sampleRate)
	da := pronounce.DurationAnalysis{TotalDuration: total}
	if total > 0 {
		da.SpeechRate = float64(len(segments)) / total
	}
	if len(segments) > 0 {
		da.AvgPhonemeDuration = total / float64(len(segments))
	}
	return da
}

// pitchAnalysis summarises F0 over the whole utterance.
func (s *Scorer) pitchAnalysis(ctx context.Context, samples []float64, sampleRate int) pronounce.PitchAnalysis {
	start := time.Now()
	vec := s.extractor.Extract(ctx, samples, sampleRate)
	s.metrics.ExtractDuration.Record(ctx, time.Since(start).Seconds())

	pa := pronounce.PitchAnalysis{
		AverageF0:   vec.PitchMean,
		F0Variation: vec.PitchStd,
	}
	switch {
	case vec.PitchMean == 0:
		pa.Range = "flat"
	case vec.PitchStd < s.cfg.Engine.Pitch.FlatBelowHz:
		pa.Range = "flat"
	case vec.PitchStd > s.cfg.Engine.Pitch.WideAboveHz:
		pa.Range = "wide"
	default:
		pa.Range = "normal"
	}
	return pa
}
