package aggregate_test

import (
	"math"
	"testing"

	"github.com/arpege-labs/phonoscore/internal/aggregate"
	"github.com/arpege-labs/phonoscore/internal/config"
	"github.com/arpege-labs/phonoscore/internal/phonemize"
	"github.com/arpege-labs/phonoscore/pkg/phoneme"
	"github.com/arpege-labs/phonoscore/pkg/pronounce"
)

func score(sym phoneme.Symbol, value float64, issues ...string) pronounce.PhonemeScore {
	return pronounce.PhonemeScore{
		Symbol:     sym,
		Score:      value,
		Confidence: 1.0,
		Quality:    pronounce.QualityForScore(value),
		Issues:     issues,
	}
}

func newWordAggregator() *aggregate.WordAggregator {
	return aggregate.NewWordAggregator(config.Default().Aggregate.Word)
}

func newUtteranceAggregator() *aggregate.UtteranceAggregator {
	return aggregate.NewUtteranceAggregator(config.Default().Aggregate.Utterance)
}

func TestWordAggregateSequentialMatch(t *testing.T) {
	t.Parallel()

	words := []phonemize.Word{
		{Text: "the", Phonemes: []phoneme.Symbol{"ð", "ə"}},
		{Text: "cat", Phonemes: []phoneme.Symbol{"k", "æ", "t"}},
	}
	scores := []pronounce.PhonemeScore{
		score("ð", 80), score("ə", 80),
		score("k", 80), score("æ", 80), score("t", 80),
	}

	out := newWordAggregator().Aggregate(words, scores)
	if len(out) != 2 {
		t.Fatalf("got %d word scores, want 2", len(out))
	}
	// All constituents are "good" quality, so each score is divided by 1.1.
	want := 80 / 1.1
	for _, ws := range out {
		if math.Abs(ws.Score-want) > 1e-9 {
			t.Errorf("word %q score = %v, want %v", ws.Word, ws.Score, want)
		}
		if ws.NeedsImprovement {
			t.Errorf("word %q flagged for improvement", ws.Word)
		}
	}
	if len(out[1].PhonemeScores) != 3 {
		t.Errorf("cat resolved %d phonemes, want 3", len(out[1].PhonemeScores))
	}
}

func TestWordAggregateResynchronises(t *testing.T) {
	t.Parallel()

	words := []phonemize.Word{
		{Text: "the", Phonemes: []phoneme.Symbol{"ð", "ə"}},
	}
	// An extra aligned phoneme sits between the expected two.
	scores := []pronounce.PhonemeScore{
		score("ð", 85), score("s", 70), score("ə", 85),
	}

	out := newWordAggregator().Aggregate(words, scores)
	if len(out[0].PhonemeScores) != 2 {
		t.Fatalf("resolved %d phonemes, want 2 after resync", len(out[0].PhonemeScores))
	}
	if out[0].PhonemeScores[1].Symbol != "ə" {
		t.Errorf("second resolved symbol = %q, want ə", out[0].PhonemeScores[1].Symbol)
	}
}

func TestWordAggregateResynchronisesBackward(t *testing.T) {
	t.Parallel()

	words := []phonemize.Word{
		{Text: "oak", Phonemes: []phoneme.Symbol{"əʊ", "k"}},
		{Text: "bee", Phonemes: []phoneme.Symbol{"b", "iː"}},
	}
	// The aligner emitted bee's "b" before oak's "k": matching oak moves the
	// cursor past it, so bee can only resolve by searching behind the cursor.
	scores := []pronounce.PhonemeScore{
		score("əʊ", 82), score("b", 78), score("k", 82), score("iː", 78),
	}

	out := newWordAggregator().Aggregate(words, scores)
	if len(out) != 2 {
		t.Fatalf("got %d word scores, want 2", len(out))
	}
	bee := out[1]
	if bee.Quality == pronounce.QualityUnknown {
		t.Fatal("bee did not resolve; backward window not searched")
	}
	if len(bee.PhonemeScores) != 2 {
		t.Fatalf("bee resolved %d phonemes, want 2", len(bee.PhonemeScores))
	}
	if bee.PhonemeScores[0].Symbol != "b" || bee.PhonemeScores[1].Symbol != "iː" {
		t.Errorf("bee resolved %q and %q, want b and iː",
			bee.PhonemeScores[0].Symbol, bee.PhonemeScores[1].Symbol)
	}
}

func TestWordAggregateUnresolvableWord(t *testing.T) {
	t.Parallel()

	words := []phonemize.Word{
		{Text: "dog", Phonemes: []phoneme.Symbol{"d", "ɒ", "g"}},
	}
	scores := []pronounce.PhonemeScore{score("ʃ", 80), score("iː", 80)}

	out := newWordAggregator().Aggregate(words, scores)
	ws := out[0]
	if ws.Quality != pronounce.QualityUnknown {
		t.Errorf("quality = %q, want unknown", ws.Quality)
	}
	if ws.Score != 0 {
		t.Errorf("score = %v, want 0", ws.Score)
	}
	if !ws.NeedsImprovement {
		t.Error("unresolvable word should need improvement")
	}
	if len(ws.Issues) != 1 {
		t.Errorf("expected one diagnostic issue, got %v", ws.Issues)
	}
}

func TestWordAggregateQualityDivisors(t *testing.T) {
	t.Parallel()

	words := []phonemize.Word{
		{Text: "go", Phonemes: []phoneme.Symbol{"g", "əʊ"}},
	}
	scores := []pronounce.PhonemeScore{score("g", 95), score("əʊ", 50)}

	out := newWordAggregator().Aggregate(words, scores)
	want := (95/1.0 + 50/1.5) / 2
	if math.Abs(out[0].Score-want) > 1e-9 {
		t.Errorf("score = %v, want %v", out[0].Score, want)
	}
}

func TestWordAggregateSeverePenalty(t *testing.T) {
	t.Parallel()

	words := []phonemize.Word{
		{Text: "sea", Phonemes: []phoneme.Symbol{"s", "iː"}},
	}
	severe := "phoneme 'iː' has insufficient energy; speak louder and more clearly"
	scores := []pronounce.PhonemeScore{score("s", 80), score("iː", 55, severe)}

	out := newWordAggregator().Aggregate(words, scores)
	// Half the phonemes carry severe issues: the 0.85 factor applies.
	base := (80/1.1 + 55/1.5) / 2
	if math.Abs(out[0].Score-base*0.85) > 1e-9 {
		t.Errorf("score = %v, want %v", out[0].Score, base*0.85)
	}
	if !out[0].NeedsImprovement {
		t.Error("word with severe issue should need improvement")
	}
	if len(out[0].Suggestions) == 0 {
		t.Error("expected word-level suggestions")
	}
}

func TestUtteranceAggregateEmpty(t *testing.T) {
	t.Parallel()

	if got := newUtteranceAggregator().Aggregate(nil); got != 0 {
		t.Errorf("empty aggregate = %v, want 0", got)
	}
}

func TestUtteranceAggregateCleanRun(t *testing.T) {
	t.Parallel()

	var scores []pronounce.PhonemeScore
	for i := 0; i < 10; i++ {
		scores = append(scores, score("æ", 95))
	}
	if got := newUtteranceAggregator().Aggregate(scores); got != 95 {
		t.Errorf("aggregate = %v, want 95", got)
	}
}

func TestUtteranceQualityDiscountLowersMean(t *testing.T) {
	t.Parallel()

	// Ten uniform "good" phonemes: each contributes score × 0.9, and the mean
	// divides by the phoneme count, not the weight sum, so the base lands at
	// 72 rather than a plain 80.
	var scores []pronounce.PhonemeScore
	for i := 0; i < 10; i++ {
		scores = append(scores, score("æ", 80))
	}

	got := newUtteranceAggregator().Aggregate(scores)
	if math.Abs(got-72) > 1e-9 {
		t.Errorf("aggregate = %v, want 72", got)
	}
}

func TestUtteranceConfidenceDiscountsMean(t *testing.T) {
	t.Parallel()

	half := score("æ", 95)
	half.Confidence = 0.5
	scores := []pronounce.PhonemeScore{score("æ", 95), half}

	got := newUtteranceAggregator().Aggregate(scores)
	want := (95*1.0 + 95*0.5) / 2
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("aggregate = %v, want %v", got, want)
	}
}

func TestUtterancePenaltyLadderWithPoorPhonemes(t *testing.T) {
	t.Parallel()

	// 4 of 10 poor: the 0.3 poor-ratio tier (-15) and the 0.3 issue-ratio
	// tier (-6) fire; both caps are already above the result.
	var scores []pronounce.PhonemeScore
	for i := 0; i < 6; i++ {
		scores = append(scores, score("æ", 95))
	}
	for i := 0; i < 4; i++ {
		scores = append(scores, score("s", 50, "phoneme 's' is rather quiet"))
	}

	got := newUtteranceAggregator().Aggregate(scores)
	want := (6*95*1.0+4*50*0.4)/10 - 15 - 6
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("aggregate = %v, want %v", got, want)
	}
	if got >= 75 {
		t.Errorf("aggregate = %v, want < 75 with 40%% poor phonemes", got)
	}
}

func TestUtteranceSevereCapAt85(t *testing.T) {
	t.Parallel()

	var scores []pronounce.PhonemeScore
	for i := 0; i < 9; i++ {
		scores = append(scores, score("æ", 98))
	}
	scores = append(scores, score("s", 55,
		"phoneme 's' has insufficient energy; speak louder and more clearly",
		"phoneme 's' pronounced too short; hold the sound a little longer"))

	// Base mean (9×98 + 55×0.4)/10 = 90.4 stays above 85 and no penalty tier
	// fires, but the two severe issues cap the result.
	if got := newUtteranceAggregator().Aggregate(scores); got != 85 {
		t.Errorf("aggregate = %v, want cap 85", got)
	}
}

func TestUtteranceMidPoorRatioPenalty(t *testing.T) {
	t.Parallel()

	// 3 of 10 poor: the 0.2 poor-ratio tier (-10) fires and the result stays
	// under the 75 cap for that distribution.
	var scores []pronounce.PhonemeScore
	for i := 0; i < 7; i++ {
		scores = append(scores, score("æ", 100))
	}
	for i := 0; i < 3; i++ {
		scores = append(scores, score("s", 59))
	}

	got := newUtteranceAggregator().Aggregate(scores)
	want := (7*100*1.0+3*59*0.4)/10 - 10
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("aggregate = %v, want %v", got, want)
	}
	if got > 75 {
		t.Errorf("aggregate = %v, want at most 75 with 30%% poor phonemes", got)
	}
}

func TestUtteranceNeverOutsideRange(t *testing.T) {
	t.Parallel()

	severe := "phoneme 'æ' pronounced too short; hold the sound a little longer"
	var scores []pronounce.PhonemeScore
	for i := 0; i < 10; i++ {
		scores = append(scores, score("æ", 5, severe, "phoneme 'æ' is rather quiet"))
	}
	got := newUtteranceAggregator().Aggregate(scores)
	if got < 0 || got > 100 {
		t.Errorf("aggregate = %v, want within [0, 100]", got)
	}
	if got != 0 {
		t.Errorf("aggregate = %v, want clamp at 0", got)
	}
}
