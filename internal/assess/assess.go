// Package assess scores individual aligned phoneme segments.
//
// Assessment is deduction-based: every phoneme starts from a base score
// below 100 (only deductions are expected, never bonuses) and independent
// rules subtract fixed amounts while appending a human-readable issue.
// Generic rules (duration, spectral stability, energy) apply to every
// phoneme; category-specific rules (spectral centroid, formants, voicing,
// zero-crossing) apply according to the [phoneme.Classify] result. Unknown
// symbols receive only the generic rules.
//
// All thresholds and penalties come from [config.AssessorConfig] so the
// scoring model is tunable without touching this package.
package assess

import (
	"math"

	"github.com/arpege-labs/phonoscore/internal/config"
	"github.com/arpege-labs/phonoscore/internal/feature"
	"github.com/arpege-labs/phonoscore/pkg/phoneme"
	"github.com/arpege-labs/phonoscore/pkg/pronounce"
)

// Assessor scores phoneme segments against category-specific acoustic
// expectations. It is read-only after construction and safe for concurrent
// use.
type Assessor struct {
	cfg    config.AssessorConfig
	priors map[phoneme.Symbol]phoneme.DurationPrior
}

// New returns an [Assessor] using the given rule tables. Duration-prior
// overrides in the config shadow the built-in priors per symbol.
func New(cfg config.AssessorConfig) *Assessor {
	priors := make(map[phoneme.Symbol]phoneme.DurationPrior, len(cfg.DurationPriors))
	for sym, bounds := range cfg.DurationPriors {
		priors[phoneme.Symbol(sym)] = phoneme.DurationPrior{Min: bounds[0], Max: bounds[1]}
	}
	return &Assessor{cfg: cfg, priors: priors}
}

// prior resolves the duration prior for sym, config overrides first.
func (a *Assessor) prior(sym phoneme.Symbol) (phoneme.DurationPrior, bool) {
	if p, ok := a.priors[sym]; ok {
		return p, true
	}
	return phoneme.DurationPriorFor(sym)
}

// Assess scores one aligned segment given its acoustic features. The result
// is complete: score clamped to [0, 100], confidence derived from the issue
// count, and the quality label applied.
func (a *Assessor) Assess(seg pronounce.Segment, v feature.Vector) pronounce.PhonemeScore {
	score := a.cfg.BaseScore
	issues := make([]string, 0, 4)

	deduct := func(penalty float64, issue string) {
		score -= penalty
		issues = append(issues, issue)
	}

	// Duration rule.
	if p, ok := a.prior(seg.Symbol); ok {
		d := seg.Duration()
		rule := a.cfg.Duration
		switch {
		case d < p.Min*rule.FarUnderFactor:
			deduct(rule.FarUnderPenalty, durationFarUnderIssue(seg.Symbol))
		case d < p.Min:
			deduct(rule.UnderPenalty, durationUnderIssue(seg.Symbol))
		case d > p.Max*rule.FarOverFactor:
			deduct(rule.FarOverPenalty, durationFarOverIssue(seg.Symbol))
		case d > p.Max:
			deduct(rule.OverPenalty, durationOverIssue(seg.Symbol))
		}
	}

	// Spectral stability rule.
	switch dispersion := v.MFCCDispersion(); {
	case dispersion > a.cfg.StabilityHigh.Threshold:
		deduct(a.cfg.StabilityHigh.Penalty, stabilityHighIssue(seg.Symbol))
	case dispersion > a.cfg.StabilityLow.Threshold:
		deduct(a.cfg.StabilityLow.Penalty, stabilityLowIssue(seg.Symbol))
	}

	// Energy rule (mean RMS).
	switch {
	case v.RMSMean < a.cfg.EnergyLow.Threshold:
		deduct(a.cfg.EnergyLow.Penalty, energyLowIssue(seg.Symbol))
	case v.RMSMean < a.cfg.EnergyMid.Threshold:
		deduct(a.cfg.EnergyMid.Penalty, energyMidIssue(seg.Symbol))
	}

	cat := phoneme.Classify(seg.Symbol)

	// Category-specific spectral-centroid rule.
	cen := a.cfg.Centroid
	switch cat {
	case phoneme.CategoryFricativeSibilant, phoneme.CategoryFricativeNonSibilant:
		if v.CentroidMean < cen.SibilantMin {
			deduct(cen.SibilantPenalty, centroidFricativeIssue(seg.Symbol))
		}
	case phoneme.CategoryVowelLow:
		if v.CentroidMean > cen.LowVowelMax {
			deduct(cen.LowVowelPenalty, centroidLowVowelIssue(seg.Symbol))
		}
	case phoneme.CategoryVowelHigh:
		if v.CentroidMean < cen.HighVowelMin || v.CentroidMean > cen.HighVowelMax {
			deduct(cen.HighVowelPenalty, centroidHighVowelIssue(seg.Symbol))
		}
	}

	// Category-specific secondary rule: one fixed deduction per violation.
	for _, issue := range a.categoryIssues(seg.Symbol, cat, v) {
		deduct(a.cfg.Category.PerIssuePenalty, issue)
	}

	score = math.Max(0, math.Min(100, score))
	confidence := math.Min(1.0, math.Max(0.3, 1.0-0.1*float64(len(issues))))

	return pronounce.PhonemeScore{
		Symbol:     seg.Symbol,
		Start:      seg.Start,
		End:        seg.End,
		Score:      score,
		Confidence: confidence,
		Quality:    pronounce.QualityForScore(score),
		Issues:     issues,
	}
}

// categoryIssues runs the secondary articulatory checks for the phoneme's
// category. Unknown categories produce no issues.
func (a *Assessor) categoryIssues(sym phoneme.Symbol, cat phoneme.Category, v feature.Vector) []string {
	rule := a.cfg.Category
	var issues []string

	switch cat {
	case phoneme.CategoryVowelLow:
		// Low vowels expect a high first formant (wide-open vocal tract).
		if v.F1 > 0 && v.F1 < rule.LowVowelF1Min {
			issues = append(issues, f1LowVowelIssue(sym))
		}
	case phoneme.CategoryVowelHigh:
		// High vowels expect a low first formant.
		if v.F1 > rule.HighVowelF1Max {
			issues = append(issues, f1HighVowelIssue(sym))
		}
	case phoneme.CategoryFricativeSibilant:
		if v.ZCRMean < rule.SibilantZCRMin {
			issues = append(issues, zcrSibilantIssue(sym))
		}
	case phoneme.CategoryStopVoiceless:
		if v.EnergyMean > 0 && v.EnergyMax/v.EnergyMean < rule.VoicelessStopBurstMin {
			issues = append(issues, burstStopIssue(sym))
		}
	case phoneme.CategoryStopVoiced:
		if v.VoicingRate < rule.VoicedStopVoicingMin {
			issues = append(issues, voicingStopIssue(sym))
		}
	case phoneme.CategoryNasal:
		if v.F1 > rule.NasalF1Max {
			issues = append(issues, nasalResonanceIssue(sym))
		}
	}
	return issues
}
