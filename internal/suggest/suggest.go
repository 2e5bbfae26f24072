// Package suggest turns aggregated scoring results into ordered,
// human-readable practice advice.
//
// Generation is deterministic: the same result always produces the same
// suggestion list. Output is organised in fixed blocks, and a block with no
// qualifying data is simply omitted:
//
//  1. up to five worst-scoring words needing improvement, each with up to
//     two tailored tips
//  2. a rollup of the distinct poor, then fair, phoneme symbols
//  3. general advice for timing, clarity, and articulation issues
//  4. one tier of overall practice advice by score bracket
//  5. a technique tip when the total issue count is high
package suggest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arpege-labs/phonoscore/internal/assess"
	"github.com/arpege-labs/phonoscore/pkg/phoneme"
	"github.com/arpege-labs/phonoscore/pkg/pronounce"
)

const (
	maxWorstWords  = 5
	maxTipsPerWord = 2

	// techniqueTipIssueCount is the total issue count above which the
	// shadowing tip is appended.
	techniqueTipIssueCount = 3
)

// Generator derives improvement suggestions from a scored utterance.
// The zero value is ready to use.
type Generator struct{}

// New returns a suggestion generator.
func New() *Generator { return &Generator{} }

// Generate builds the ordered suggestion list for one scored utterance.
// It never fails; with nothing to advise it returns only the overall-score
// tier line.
func (g *Generator) Generate(overall float64, phonemeScores []pronounce.PhonemeScore, wordScores []pronounce.WordScore) []string {
	var out []string

	out = append(out, g.worstWords(wordScores)...)
	out = append(out, g.phonemeRollup(phonemeScores)...)
	out = append(out, g.issueAdvice(phonemeScores)...)
	out = append(out, overallAdvice(overall))

	if totalIssues(phonemeScores) > techniqueTipIssueCount {
		out = append(out, "try shadowing native-speaker recordings: listen to a sentence, imitate it immediately, and compare")
	}
	return out
}

// worstWords emits one line per improvement-needing word, worst first.
func (g *Generator) worstWords(wordScores []pronounce.WordScore) []string {
	var needy []pronounce.WordScore
	for _, ws := range wordScores {
		if ws.NeedsImprovement {
			needy = append(needy, ws)
		}
	}
	sort.SliceStable(needy, func(i, j int) bool { return needy[i].Score < needy[j].Score })
	if len(needy) > maxWorstWords {
		needy = needy[:maxWorstWords]
	}

	out := make([]string, 0, len(needy))
	for _, ws := range needy {
		tips := tailoredTips(ws)
		if len(tips) == 0 {
			out = append(out, fmt.Sprintf("work on '%s': repeat it slowly until it feels natural", ws.Word))
			continue
		}
		out = append(out, fmt.Sprintf("work on '%s': %s", ws.Word, strings.Join(tips, "; ")))
	}
	return out
}

// tailoredTips picks up to maxTipsPerWord tips for a word: a word-specific
// tip first, then articulation tips for its weakest phonemes.
func tailoredTips(ws pronounce.WordScore) []string {
	var tips []string
	if tip, ok := wordTips[strings.ToLower(ws.Word)]; ok {
		tips = append(tips, tip)
	}
	for _, ps := range ws.PhonemeScores {
		if len(tips) >= maxTipsPerWord {
			break
		}
		if ps.Quality != pronounce.QualityPoor && ps.Quality != pronounce.QualityFair {
			continue
		}
		if tip, ok := phonemeTips[ps.Symbol]; ok && !contains(tips, tip) {
			tips = append(tips, tip)
		}
	}
	return tips
}

// phonemeRollup lists the distinct poor symbols, then the distinct fair ones,
// in first-occurrence order.
func (g *Generator) phonemeRollup(scores []pronounce.PhonemeScore) []string {
	poor := distinctSymbols(scores, pronounce.QualityPoor)
	fair := distinctSymbols(scores, pronounce.QualityFair)

	var out []string
	if len(poor) > 0 {
		out = append(out, fmt.Sprintf("sounds needing the most attention: %s", joinSymbols(poor)))
	}
	if len(fair) > 0 {
		out = append(out, fmt.Sprintf("sounds that could be polished: %s", joinSymbols(fair)))
	}
	return out
}

func (g *Generator) issueAdvice(scores []pronounce.PhonemeScore) []string {
	var timing, clarity, articulation bool
	for _, ps := range scores {
		for _, issue := range ps.Issues {
			timing = timing || assess.IsTimingIssue(issue)
			clarity = clarity || assess.IsClarityIssue(issue)
			articulation = articulation || assess.IsArticulationIssue(issue)
		}
	}

	var out []string
	if timing {
		out = append(out, "pay attention to rhythm: hold long sounds and keep short sounds crisp")
	}
	if clarity {
		out = append(out, "articulate each sound clearly and keep a steady, confident volume")
	}
	if articulation {
		out = append(out, "check tongue and lip placement in a mirror while practicing the difficult sounds")
	}
	return out
}

func overallAdvice(overall float64) string {
	switch {
	case overall < 60:
		return "overall pronunciation needs systematic work; practice daily with slow, exaggerated articulation"
	case overall < 75:
		return "pronunciation is understandable but uneven; drill the problem sounds listed above"
	case overall < 85:
		return "pronunciation is good; polish the remaining rough sounds for a more natural flow"
	}
	return "excellent pronunciation; keep practicing to maintain it"
}

func totalIssues(scores []pronounce.PhonemeScore) int {
	n := 0
	for _, ps := range scores {
		n += len(ps.Issues)
	}
	return n
}

func distinctSymbols(scores []pronounce.PhonemeScore, quality pronounce.QualityLevel) []phoneme.Symbol {
	var out []phoneme.Symbol
	seen := make(map[phoneme.Symbol]bool)
	for _, ps := range scores {
		if ps.Quality == quality && !seen[ps.Symbol] {
			seen[ps.Symbol] = true
			out = append(out, ps.Symbol)
		}
	}
	return out
}

func joinSymbols(syms []phoneme.Symbol) string {
	parts := make([]string, len(syms))
	for i, s := range syms {
		parts[i] = fmt.Sprintf("'%s'", s)
	}
	return strings.Join(parts, ", ")
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
