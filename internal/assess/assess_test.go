package assess_test

import (
	"math"
	"testing"

	"github.com/arpege-labs/phonoscore/internal/assess"
	"github.com/arpege-labs/phonoscore/internal/config"
	"github.com/arpege-labs/phonoscore/internal/feature"
	"github.com/arpege-labs/phonoscore/pkg/pronounce"
)

// cleanVector returns features that violate none of the default rules for a
// typical vowel segment.
func cleanVector() feature.Vector {
	return feature.Vector{
		PitchMean:    180,
		VoicingRate:  0.9,
		F1:           700,
		F2:           1200,
		CentroidMean: 1200,
		MFCCMean:     []float64{10, 12, 11, 10, 12},
		RMSMean:      0.2,
		ZCRMean:      0.05,
		EnergyMean:   0.4,
		EnergyMax:    1.3,
	}
}

func newAssessor() *assess.Assessor {
	return assess.New(config.Default().Assessor)
}

func TestAssessCleanSegment(t *testing.T) {
	t.Parallel()

	ps := newAssessor().Assess(pronounce.Segment{Symbol: "æ", Start: 0, End: 0.1}, cleanVector())

	if ps.Score != 80 {
		t.Errorf("score = %v, want base 80 with no deductions", ps.Score)
	}
	if len(ps.Issues) != 0 {
		t.Errorf("unexpected issues: %v", ps.Issues)
	}
	if ps.Confidence != 1.0 {
		t.Errorf("confidence = %v, want 1.0", ps.Confidence)
	}
	if ps.Quality != pronounce.QualityGood {
		t.Errorf("quality = %q, want good", ps.Quality)
	}
}

func TestAssessDurationTiers(t *testing.T) {
	t.Parallel()

	// Prior for æ is [0.08, 0.15].
	tests := []struct {
		name     string
		duration float64
		penalty  float64
	}{
		{"far under", 0.04, 30},
		{"under", 0.075, 20},
		{"far over", 0.30, 25},
		{"over", 0.16, 15},
		{"within", 0.10, 0},
	}
	a := newAssessor()
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ps := a.Assess(pronounce.Segment{Symbol: "æ", Start: 0, End: tc.duration}, cleanVector())
			if got := 80 - ps.Score; got != tc.penalty {
				t.Errorf("deduction = %v, want %v", got, tc.penalty)
			}
		})
	}
}

func TestAssessWeakSibilant(t *testing.T) {
	t.Parallel()

	// Low centroid plus low ZCR: the centroid rule (-20) and the category
	// friction check (-8) both fire.
	v := cleanVector()
	v.CentroidMean = 500
	v.ZCRMean = 0.05

	ps := newAssessor().Assess(pronounce.Segment{Symbol: "s", Start: 0, End: 0.1}, v)
	if ps.Score != 80-20-8 {
		t.Errorf("score = %v, want 52", ps.Score)
	}
	if ps.Quality != pronounce.QualityPoor {
		t.Errorf("quality = %q, want poor", ps.Quality)
	}
	if len(ps.Issues) != 2 {
		t.Errorf("issues = %v, want 2", ps.Issues)
	}
	for _, issue := range ps.Issues {
		if !assess.IsArticulationIssue(issue) {
			t.Errorf("issue %q should classify as articulation", issue)
		}
	}
}

func TestAssessInsufficientEnergy(t *testing.T) {
	t.Parallel()

	v := cleanVector()
	v.RMSMean = 0.003

	ps := newAssessor().Assess(pronounce.Segment{Symbol: "æ", Start: 0, End: 0.1}, v)
	if ps.Score != 80-25 {
		t.Errorf("score = %v, want 55", ps.Score)
	}
	if len(ps.Issues) != 1 || !assess.IsSevereIssue(ps.Issues[0]) {
		t.Errorf("expected one severe energy issue, got %v", ps.Issues)
	}
}

func TestAssessCategoryChecks(t *testing.T) {
	t.Parallel()

	a := newAssessor()

	t.Run("low vowel f1", func(t *testing.T) {
		t.Parallel()
		v := cleanVector()
		v.F1 = 400
		ps := a.Assess(pronounce.Segment{Symbol: "æ", Start: 0, End: 0.1}, v)
		if ps.Score != 80-8 {
			t.Errorf("score = %v, want 72", ps.Score)
		}
	})

	t.Run("high vowel f1", func(t *testing.T) {
		t.Parallel()
		v := cleanVector()
		v.F1 = 500
		v.CentroidMean = 1800
		ps := a.Assess(pronounce.Segment{Symbol: "iː", Start: 0, End: 0.15}, v)
		if ps.Score != 80-8 {
			t.Errorf("score = %v, want 72", ps.Score)
		}
	})

	t.Run("voiceless stop burst", func(t *testing.T) {
		t.Parallel()
		v := cleanVector()
		v.EnergyMean = 1.0
		v.EnergyMax = 1.5
		ps := a.Assess(pronounce.Segment{Symbol: "t", Start: 0, End: 0.05}, v)
		if ps.Score != 80-8 {
			t.Errorf("score = %v, want 72", ps.Score)
		}
	})

	t.Run("voiced stop voicing", func(t *testing.T) {
		t.Parallel()
		v := cleanVector()
		v.VoicingRate = 0.3
		ps := a.Assess(pronounce.Segment{Symbol: "b", Start: 0, End: 0.05}, v)
		if ps.Score != 80-8 {
			t.Errorf("score = %v, want 72", ps.Score)
		}
	})

	t.Run("nasal resonance", func(t *testing.T) {
		t.Parallel()
		v := cleanVector()
		v.F1 = 800
		ps := a.Assess(pronounce.Segment{Symbol: "n", Start: 0, End: 0.1}, v)
		if ps.Score != 80-8 {
			t.Errorf("score = %v, want 72", ps.Score)
		}
	})
}

func TestAssessStabilityTiers(t *testing.T) {
	t.Parallel()

	a := newAssessor()

	v := cleanVector()
	v.MFCCMean = []float64{0, 80, 0, 80, 0} // dispersion ~39, above the high tier
	ps := a.Assess(pronounce.Segment{Symbol: "æ", Start: 0, End: 0.1}, v)
	if ps.Score != 80-20 {
		t.Errorf("high tier score = %v, want 60", ps.Score)
	}

	v = cleanVector()
	v.MFCCMean = []float64{0, 50, 0, 50, 0} // dispersion ~24, low tier only
	ps = a.Assess(pronounce.Segment{Symbol: "æ", Start: 0, End: 0.1}, v)
	if ps.Score != 80-10 {
		t.Errorf("low tier score = %v, want 70", ps.Score)
	}
}

func TestAssessScoreClamp(t *testing.T) {
	t.Parallel()

	// Everything wrong at once: five issues, deductions beyond the base.
	v := feature.Vector{
		MFCCMean:     []float64{0, 100, 0, 100},
		RMSMean:      0.001,
		CentroidMean: 100,
		ZCRMean:      0.01,
	}
	ps := newAssessor().Assess(pronounce.Segment{Symbol: "s", Start: 0, End: 0.01}, v)

	if ps.Score != 0 {
		t.Errorf("score = %v, want clamp at 0", ps.Score)
	}
	if math.Abs(ps.Confidence-0.5) > 1e-9 {
		t.Errorf("confidence = %v, want 0.5 with five issues", ps.Confidence)
	}
	if ps.Quality != pronounce.QualityPoor {
		t.Errorf("quality = %q, want poor", ps.Quality)
	}
}

func TestAssessUnknownSymbolSkipsCategoryRules(t *testing.T) {
	t.Parallel()

	// A bad F1 and centroid are ignored for unknown symbols; only the
	// generic rules apply, and all generic inputs are clean.
	v := cleanVector()
	v.F1 = 100
	v.CentroidMean = 9000

	ps := newAssessor().Assess(pronounce.Segment{Symbol: "ℵ", Start: 0, End: 0.1}, v)
	if ps.Score != 80 {
		t.Errorf("score = %v, want 80", ps.Score)
	}
}

func TestDurationPriorOverride(t *testing.T) {
	t.Parallel()

	cfg := config.Default().Assessor
	cfg.DurationPriors = map[string][2]float64{"æ": {0.2, 0.3}}
	a := assess.New(cfg)

	// 0.1 s is fine for the built-in prior but far under the override.
	ps := a.Assess(pronounce.Segment{Symbol: "æ", Start: 0, End: 0.1}, cleanVector())
	if ps.Score != 80-30 {
		t.Errorf("score = %v, want 50 under the overridden prior", ps.Score)
	}
}

func TestIssueClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		issue         string
		timing        bool
		energy        bool
		stability     bool
		articulation  bool
		severe        bool
		severeForWord bool
	}{
		{
			issue: "phoneme 'æ' pronounced too short; hold the sound a little longer",
			timing: true, severe: true, severeForWord: true,
		},
		{
			issue: "phoneme 'æ' has insufficient energy; speak louder and more clearly",
			energy: true, severe: true, severeForWord: true,
		},
		{
			issue: "phoneme 'æ' sounds unstable, possibly tense or hesitant",
			stability: true, severeForWord: true,
		},
		{
			issue: "sibilant 's' friction is weak; push more air through the constriction",
			articulation: true,
		},
		{issue: "phoneme 'æ' is rather quiet"},
	}
	for _, tc := range tests {
		if got := assess.IsTimingIssue(tc.issue); got != tc.timing {
			t.Errorf("IsTimingIssue(%q) = %v", tc.issue, got)
		}
		if got := assess.IsEnergyIssue(tc.issue); got != tc.energy {
			t.Errorf("IsEnergyIssue(%q) = %v", tc.issue, got)
		}
		if got := assess.IsStabilityIssue(tc.issue); got != tc.stability {
			t.Errorf("IsStabilityIssue(%q) = %v", tc.issue, got)
		}
		if got := assess.IsArticulationIssue(tc.issue); got != tc.articulation {
			t.Errorf("IsArticulationIssue(%q) = %v", tc.issue, got)
		}
		if got := assess.IsSevereIssue(tc.issue); got != tc.severe {
			t.Errorf("IsSevereIssue(%q) = %v", tc.issue, got)
		}
		if got := assess.IsSevereWordIssue(tc.issue); got != tc.severeForWord {
			t.Errorf("IsSevereWordIssue(%q) = %v", tc.issue, got)
		}
	}
}

func TestConfidenceDecreasesWithIssues(t *testing.T) {
	t.Parallel()

	a := newAssessor()

	v := cleanVector()
	v.RMSMean = 0.003 // one issue
	one := a.Assess(pronounce.Segment{Symbol: "æ", Start: 0, End: 0.1}, v)
	if math.Abs(one.Confidence-0.9) > 1e-9 {
		t.Errorf("confidence with one issue = %v, want 0.9", one.Confidence)
	}

	v.CentroidMean = 2000 // adds the low-vowel centroid issue
	two := a.Assess(pronounce.Segment{Symbol: "æ", Start: 0, End: 0.1}, v)
	if math.Abs(two.Confidence-0.8) > 1e-9 {
		t.Errorf("confidence with two issues = %v, want 0.8", two.Confidence)
	}
}
