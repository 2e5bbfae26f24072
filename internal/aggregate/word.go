// Package aggregate rolls phoneme-level assessments up into word scores and a
// single utterance score.
//
// Aggregation is policy, not measurement: it never inspects audio, only the
// [pronounce.PhonemeScore] values the assessor produced. All thresholds come
// from [config.AggregateConfig].
package aggregate

import (
	"fmt"

	"github.com/arpege-labs/phonoscore/internal/assess"
	"github.com/arpege-labs/phonoscore/internal/config"
	"github.com/arpege-labs/phonoscore/internal/phonemize"
	"github.com/arpege-labs/phonoscore/pkg/phoneme"
	"github.com/arpege-labs/phonoscore/pkg/pronounce"
)

// WordAggregator resolves each word's expected phonemes against the scored
// utterance sequence and computes one [pronounce.WordScore] per word.
type WordAggregator struct {
	cfg config.WordRule
}

// NewWordAggregator returns a word aggregator using the given policy.
func NewWordAggregator(cfg config.WordRule) *WordAggregator {
	return &WordAggregator{cfg: cfg}
}

// Aggregate walks the scored phoneme sequence in utterance order and carves it
// into per-word slices following each word's expected phonemes. When the
// cursor symbol does not match the expected one (an upstream substitution or
// drop), it searches up to ResyncWindow positions around the cursor to
// resynchronise. A
// word whose phonemes cannot be resolved at all yields a zero score with
// [pronounce.QualityUnknown].
func (w *WordAggregator) Aggregate(words []phonemize.Word, scores []pronounce.PhonemeScore) []pronounce.WordScore {
	out := make([]pronounce.WordScore, 0, len(words))
	cursor := 0

	for _, word := range words {
		matched := make([]pronounce.PhonemeScore, 0, len(word.Phonemes))
		for _, expected := range word.Phonemes {
			idx := w.resync(scores, cursor, expected)
			if idx < 0 {
				continue
			}
			matched = append(matched, scores[idx])
			cursor = idx + 1
		}
		out = append(out, w.score(word, matched))
	}
	return out
}

// resync returns the index of the first score within ResyncWindow positions
// of the cursor, in either direction, whose symbol matches expected, or -1.
// The backward half recovers words whose phonemes the previous word's resync
// skipped over.
func (w *WordAggregator) resync(scores []pronounce.PhonemeScore, cursor int, expected phoneme.Symbol) int {
	start := cursor - w.cfg.ResyncWindow
	if start < 0 {
		start = 0
	}
	limit := cursor + w.cfg.ResyncWindow
	for i := start; i <= limit && i < len(scores); i++ {
		if scores[i].Symbol == expected {
			return i
		}
	}
	return -1
}

func (w *WordAggregator) score(word phonemize.Word, matched []pronounce.PhonemeScore) pronounce.WordScore {
	ws := pronounce.WordScore{
		Word:     word.Text,
		Phonemes: word.Phonemes,
	}
	if len(matched) == 0 {
		ws.Quality = pronounce.QualityUnknown
		ws.NeedsImprovement = true
		ws.Issues = []string{fmt.Sprintf("no phoneme scores could be resolved for word '%s'", word.Text)}
		return ws
	}
	ws.PhonemeScores = matched

	// Each score is divided by its quality divisor before averaging, so a
	// poor phoneme drags the word down harder than a plain mean would.
	var sum float64
	for _, ps := range matched {
		sum += ps.Score / qualityDivisor(ps.Quality)
	}
	score := sum / float64(len(matched))

	severe := 0
	seen := make(map[string]bool)
	for _, ps := range matched {
		hasSevere := false
		for _, issue := range ps.Issues {
			if !seen[issue] {
				seen[issue] = true
				ws.Issues = append(ws.Issues, issue)
			}
			if assess.IsSevereWordIssue(issue) {
				hasSevere = true
			}
		}
		if hasSevere {
			severe++
		}
	}

	severePenalised := false
	if float64(severe) > w.cfg.SevereRatioThreshold*float64(len(matched)) {
		score *= w.cfg.SeverePenaltyFactor
		severePenalised = true
	}

	ws.Score = score
	ws.Quality = pronounce.QualityForScore(score)
	ws.NeedsImprovement = score < w.cfg.NeedsImprovementBelow || severe > 0
	ws.Suggestions = wordSuggestions(word.Text, ws.NeedsImprovement, severePenalised)
	return ws
}

// qualityDivisor maps a phoneme's quality level to the divisor applied to its
// score inside the word mean.
func qualityDivisor(q pronounce.QualityLevel) float64 {
	switch q {
	case pronounce.QualityExcellent:
		return 1.0
	case pronounce.QualityGood:
		return 1.1
	case pronounce.QualityFair:
		return 1.3
	}
	return 1.5
}

func wordSuggestions(word string, needsImprovement, severePenalised bool) []string {
	var tips []string
	if severePenalised {
		tips = append(tips, fmt.Sprintf("record yourself saying '%s' and compare it against a reference recording", word))
	}
	if needsImprovement {
		tips = append(tips, fmt.Sprintf("practice the word '%s' slowly, sound by sound", word))
	}
	return tips
}
