package engine_test

import (
	"context"
	"math"
	"testing"

	"github.com/arpege-labs/phonoscore/internal/config"
	"github.com/arpege-labs/phonoscore/internal/engine"
	"github.com/arpege-labs/phonoscore/internal/feature"
	"github.com/arpege-labs/phonoscore/pkg/phoneme"
	"github.com/arpege-labs/phonoscore/pkg/pronounce"
)

// fakeExtractor returns the same feature vector for every segment. The vector
// is tuned to trigger no assessment rule for the phonemes of "hello".
type fakeExtractor struct{ vec feature.Vector }

func (f *fakeExtractor) Extract(context.Context, []float64, int) feature.Vector {
	return f.vec
}

func neutralVector() feature.Vector {
	return feature.Vector{
		PitchMean:    180,
		PitchStd:     30,
		VoicingRate:  0.9,
		F1:           700,
		F2:           1200,
		CentroidMean: 2600,
		MFCCMean:     []float64{10, 10, 10, 10, 10},
		RMSMean:      0.2,
		ZCRMean:      0.05,
		EnergyMean:   0.4,
		EnergyMax:    1.3,
	}
}

// fakeAligner tiles the sequence uniformly and records which entry point was
// used.
type fakeAligner struct{ forced bool }

func (f *fakeAligner) Align(_ context.Context, samples []float64, sampleRate int, seq []phoneme.Symbol) []pronounce.Segment {
	total := float64(len(samples)) / float64(sampleRate)
	step := total / float64(len(seq))
	out := make([]pronounce.Segment, len(seq))
	for i, sym := range seq {
		out[i] = pronounce.Segment{Symbol: sym, Start: float64(i) * step, End: float64(i+1) * step}
	}
	return out
}

func (f *fakeAligner) ForcedAlign(ctx context.Context, samples []float64, sampleRate int, seq []phoneme.Symbol, _ *pronounce.Recognition) []pronounce.Segment {
	f.forced = true
	return f.Align(ctx, samples, sampleRate, seq)
}

func newFakeScorer(t *testing.T) (*engine.Scorer, *fakeAligner) {
	t.Helper()
	aligner := &fakeAligner{}
	s := engine.New(config.Default(),
		engine.WithExtractor(&fakeExtractor{vec: neutralVector()}),
		engine.WithAligner(aligner),
	)
	return s, aligner
}

func tone(n int, sampleRate int, freq float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 0.4 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return out
}

func TestScoreDetailedEndToEnd(t *testing.T) {
	t.Parallel()

	s, _ := newFakeScorer(t)
	samples := tone(8000, 16000, 180)

	res := s.ScoreDetailed(context.Background(), samples, 16000, "hello", nil)

	if res.RequestID == "" {
		t.Error("request id is empty")
	}
	want := []phoneme.Symbol{"h", "ə", "l", "əʊ"}
	if len(res.PhonemeScores) != len(want) {
		t.Fatalf("got %d phoneme scores, want %d", len(res.PhonemeScores), len(want))
	}
	for i, ps := range res.PhonemeScores {
		if ps.Symbol != want[i] {
			t.Errorf("phoneme %d = %q, want %q", i, ps.Symbol, want[i])
		}
		if ps.Score != 80 {
			t.Errorf("phoneme %q score = %v, want 80 with a neutral vector", ps.Symbol, ps.Score)
		}
		if len(ps.Issues) != 0 {
			t.Errorf("phoneme %q has issues %v", ps.Symbol, ps.Issues)
		}
	}
	// Four "good" phonemes contribute 80 × 0.9 each to a mean over the
	// phoneme count, so the overall lands below the per-phoneme scores.
	if math.Abs(res.OverallScore-72) > 1e-9 {
		t.Errorf("overall = %v, want 72", res.OverallScore)
	}
	if len(res.WordScores) != 1 || res.WordScores[0].Word != "hello" {
		t.Fatalf("word scores = %+v, want one entry for hello", res.WordScores)
	}
	if got := res.WordScores[0].Score; math.Abs(got-80/1.1) > 1e-9 {
		t.Errorf("word score = %v, want %v", got, 80/1.1)
	}
	if res.WordScores[0].NeedsImprovement {
		t.Error("hello flagged for improvement at score above threshold")
	}
	if len(res.PronunciationIssues) != 0 {
		t.Errorf("utterance issues = %v, want none", res.PronunciationIssues)
	}
	if len(res.ImprovementSuggestions) != 1 {
		t.Errorf("suggestions = %v, want only the overall tier line", res.ImprovementSuggestions)
	}
}

func TestScoreDetailedDurationAndPitchAnalysis(t *testing.T) {
	t.Parallel()

	s, _ := newFakeScorer(t)
	res := s.ScoreDetailed(context.Background(), tone(8000, 16000, 180), 16000, "hello", nil)

	da := res.DurationAnalysis
	if math.Abs(da.TotalDuration-0.5) > 1e-9 {
		t.Errorf("total duration = %v, want 0.5", da.TotalDuration)
	}
	if math.Abs(da.SpeechRate-8) > 1e-9 {
		t.Errorf("speech rate = %v, want 8 phonemes/s", da.SpeechRate)
	}
	if math.Abs(da.AvgPhonemeDuration-0.125) > 1e-9 {
		t.Errorf("avg phoneme duration = %v, want 0.125", da.AvgPhonemeDuration)
	}

	pa := res.PitchAnalysis
	if pa.AverageF0 != 180 || pa.F0Variation != 30 {
		t.Errorf("pitch analysis = %+v, want F0 180 with variation 30", pa)
	}
	if pa.Range != "normal" {
		t.Errorf("pitch range = %q, want normal", pa.Range)
	}
}

func TestScoreDetailedPitchRangeBoundsFromConfig(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Engine.Pitch = config.PitchRule{FlatBelowHz: 40, WideAboveHz: 50}
	s := engine.New(cfg,
		engine.WithExtractor(&fakeExtractor{vec: neutralVector()}),
		engine.WithAligner(&fakeAligner{}),
	)

	res := s.ScoreDetailed(context.Background(), tone(8000, 16000, 180), 16000, "hello", nil)
	if res.PitchAnalysis.Range != "flat" {
		t.Errorf("pitch range = %q, want flat with a raised lower bound", res.PitchAnalysis.Range)
	}
}

func TestScoreDetailedUnscoreableInput(t *testing.T) {
	t.Parallel()

	s, _ := newFakeScorer(t)
	tests := []struct {
		name       string
		samples    []float64
		sampleRate int
		text       string
	}{
		{"empty audio", nil, 16000, "hello"},
		{"zero sample rate", tone(8000, 16000, 180), 0, "hello"},
		{"empty text", tone(8000, 16000, 180), 16000, ""},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			res := s.ScoreDetailed(context.Background(), tc.samples, tc.sampleRate, tc.text, nil)
			if res.OverallScore != 0 {
				t.Errorf("overall = %v, want 0", res.OverallScore)
			}
			if res.RequestID == "" {
				t.Error("request id is empty")
			}
			if len(res.PhonemeScores) != 0 || len(res.WordScores) != 0 {
				t.Error("unscoreable input produced phoneme or word scores")
			}
			if len(res.PronunciationIssues) != 1 {
				t.Fatalf("issues = %v, want exactly one diagnostic", res.PronunciationIssues)
			}
		})
	}
}

func TestScoreDetailedUsesForcedAlignment(t *testing.T) {
	t.Parallel()

	s, aligner := newFakeScorer(t)
	samples := tone(8000, 16000, 180)

	s.ScoreDetailed(context.Background(), samples, 16000, "hello", nil)
	if aligner.forced {
		t.Error("forced alignment used without a recognition signal")
	}

	rec := &pronounce.Recognition{Text: "hello", FrameDuration: 0.02}
	s.ScoreDetailed(context.Background(), samples, 16000, "hello", rec)
	if !aligner.forced {
		t.Error("recognition signal did not route through forced alignment")
	}
}

func TestScoreMatchesDetailedOverall(t *testing.T) {
	t.Parallel()

	s, _ := newFakeScorer(t)
	samples := tone(8000, 16000, 180)

	simple := s.Score(context.Background(), samples, 16000, "hello")
	detailed := s.ScoreDetailed(context.Background(), samples, 16000, "hello", nil).OverallScore
	if simple != detailed {
		t.Errorf("simple score %v != detailed overall %v", simple, detailed)
	}
}

func TestScoreDetailedWithDefaultCollaborators(t *testing.T) {
	t.Parallel()

	s := engine.New(config.Default())
	samples := tone(16000, 16000, 150)

	res := s.ScoreDetailed(context.Background(), samples, 16000, "hello world", nil)

	if res.OverallScore < 0 || res.OverallScore > 100 {
		t.Errorf("overall = %v, want within [0, 100]", res.OverallScore)
	}
	if len(res.PhonemeScores) == 0 {
		t.Error("no phoneme scores from the full pipeline")
	}
	if len(res.WordScores) != 2 {
		t.Errorf("got %d word scores, want 2", len(res.WordScores))
	}
	if len(res.ImprovementSuggestions) == 0 {
		t.Error("no suggestions from the full pipeline")
	}
	for _, ps := range res.PhonemeScores {
		if ps.Score < 0 || ps.Score > 100 {
			t.Errorf("phoneme %q score %v outside [0, 100]", ps.Symbol, ps.Score)
		}
	}
}
