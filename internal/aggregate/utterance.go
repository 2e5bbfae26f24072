package aggregate

import (
	"math"

	"github.com/arpege-labs/phonoscore/internal/assess"
	"github.com/arpege-labs/phonoscore/internal/config"
	"github.com/arpege-labs/phonoscore/pkg/pronounce"
)

// qualityWeights discounts low-quality phonemes in the utterance mean so a
// few poor segments drag the base score down more than their share.
var qualityWeights = map[pronounce.QualityLevel]float64{
	pronounce.QualityExcellent: 1.0,
	pronounce.QualityGood:      0.9,
	pronounce.QualityFair:      0.7,
	pronounce.QualityPoor:      0.4,
}

// UtteranceAggregator computes the overall utterance score from the full
// phoneme-score sequence.
type UtteranceAggregator struct {
	cfg config.UtteranceRule
}

// NewUtteranceAggregator returns an utterance aggregator using the given
// policy.
func NewUtteranceAggregator(cfg config.UtteranceRule) *UtteranceAggregator {
	return &UtteranceAggregator{cfg: cfg}
}

// Aggregate returns the overall score in [0, 100]: the plain mean over all
// phonemes of score × confidence × quality weight, so every discounted
// phoneme pulls the base below what an unweighted mean would give. The base
// is then reduced by a penalty ladder over the distribution of poor and fair
// phonemes, total issues, and severe issues, and capped when the distribution
// is bad enough that a high score would be misleading. An empty sequence
// scores zero.
func (u *UtteranceAggregator) Aggregate(scores []pronounce.PhonemeScore) float64 {
	if len(scores) == 0 {
		return 0
	}

	var weightedSum float64
	var poor, fair, totalIssues, severe int
	for _, ps := range scores {
		weight, ok := qualityWeights[ps.Quality]
		if !ok {
			weight = qualityWeights[pronounce.QualityPoor]
		}
		weight *= ps.Confidence
		weightedSum += ps.Score * weight

		switch ps.Quality {
		case pronounce.QualityPoor:
			poor++
		case pronounce.QualityFair:
			fair++
		}
		totalIssues += len(ps.Issues)
		for _, issue := range ps.Issues {
			if assess.IsSevereIssue(issue) {
				severe++
			}
		}
	}

	n := float64(len(scores))
	score := weightedSum / n
	poorRatio := float64(poor) / n
	fairRatio := float64(fair) / n

	switch {
	case poorRatio > u.cfg.PoorRatioHigh.Threshold:
		score -= u.cfg.PoorRatioHigh.Penalty
	case poorRatio > u.cfg.PoorRatioMid.Threshold:
		score -= u.cfg.PoorRatioMid.Penalty
	}
	if fairRatio > u.cfg.FairRatioHigh.Threshold {
		score -= u.cfg.FairRatioHigh.Penalty
	}
	switch {
	case float64(totalIssues) > u.cfg.IssueRatioHigh.Threshold*n:
		score -= u.cfg.IssueRatioHigh.Penalty
	case float64(totalIssues) > u.cfg.IssueRatioMid.Threshold*n:
		score -= u.cfg.IssueRatioMid.Penalty
	}
	if float64(severe) > u.cfg.SevereCount.Threshold {
		score -= u.cfg.SevereCount.Penalty
	}

	if poorRatio > u.cfg.HighCapPoorRatio || severe > u.cfg.HighCapSevereCount {
		score = math.Min(score, u.cfg.HighCap)
	}
	if poorRatio > u.cfg.MidCapPoorRatio {
		score = math.Min(score, u.cfg.MidCap)
	}

	return math.Max(0, math.Min(100, score))
}
