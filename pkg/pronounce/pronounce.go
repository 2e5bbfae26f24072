// Package pronounce defines the shared result types of the pronunciation
// scoring pipeline.
//
// These types form the lingua franca between the aligner, the assessor, the
// aggregators, and the suggestion generator. All values are request-scoped:
// created during a single scoring call, immutable once constructed, and never
// shared across requests. Callers serialise them for transport; this package
// knows nothing about the transport format.
package pronounce

import "github.com/arpege-labs/phonoscore/pkg/phoneme"

// QualityLevel is the ordered categorical judgment of a score range.
type QualityLevel string

const (
	QualityExcellent QualityLevel = "excellent"
	QualityGood      QualityLevel = "good"
	QualityFair      QualityLevel = "fair"
	QualityPoor      QualityLevel = "poor"

	// QualityUnknown marks a word whose phonemes could not be resolved from
	// the phoneme-score sequence. Never produced for individual phonemes.
	QualityUnknown QualityLevel = "unknown"
)

// IsValid reports whether q is a recognised quality level.
func (q QualityLevel) IsValid() bool {
	switch q {
	case QualityExcellent, QualityGood, QualityFair, QualityPoor, QualityUnknown:
		return true
	}
	return false
}

// QualityForScore maps a score in [0,100] to its quality level using the
// fixed breakpoints 90/75/60.
func QualityForScore(score float64) QualityLevel {
	switch {
	case score >= 90:
		return QualityExcellent
	case score >= 75:
		return QualityGood
	case score >= 60:
		return QualityFair
	default:
		return QualityPoor
	}
}

// Segment assigns a time span to one phoneme of the expected sequence.
// For a complete alignment, segments are ordered, contiguous, and tile
// [0, total duration] exactly: the first starts at 0, each segment's End
// equals the next segment's Start, and the last ends at the total duration.
type Segment struct {
	Symbol phoneme.Symbol `json:"symbol"`

	// Start and End are in seconds from the beginning of the audio buffer.
	// Invariant: Start < End.
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Duration returns the segment length in seconds.
func (s Segment) Duration() float64 { return s.End - s.Start }

// PhonemeScore is the assessment of a single aligned phoneme segment.
// Created once per segment and immutable thereafter.
type PhonemeScore struct {
	Symbol phoneme.Symbol `json:"symbol"`
	Start  float64        `json:"start"`
	End    float64        `json:"end"`

	// Score is in [0, 100].
	Score float64 `json:"score"`

	// Confidence is in [0.3, 1.0], derived from the number of detected issues.
	Confidence float64 `json:"confidence"`

	Quality QualityLevel `json:"quality"`

	// Issues lists human-readable problems detected for this phoneme, in
	// rule-application order.
	Issues []string `json:"issues"`
}

// WordScore aggregates the phoneme scores belonging to one word of the
// reference text.
type WordScore struct {
	Word string `json:"word"`

	// Score is in [0, 100]. Zero with Quality == QualityUnknown when the
	// word's phonemes could not be resolved.
	Score float64 `json:"score"`

	Quality QualityLevel `json:"quality"`

	// Phonemes is the expected phoneme sequence of the word.
	Phonemes []phoneme.Symbol `json:"phonemes"`

	// PhonemeScores are the resolved per-phoneme assessments, in word order.
	PhonemeScores []PhonemeScore `json:"phoneme_scores"`

	// Issues is the de-duplicated union of the constituent phoneme issues.
	Issues []string `json:"issues"`

	// Suggestions holds word-level remediation tips.
	Suggestions []string `json:"suggestions"`

	NeedsImprovement bool `json:"needs_improvement"`
}

// DurationAnalysis summarises the timing of one scored utterance.
type DurationAnalysis struct {
	// TotalDuration is the length of the audio buffer in seconds.
	TotalDuration float64 `json:"total_duration"`

	// SpeechRate is expected phonemes per second.
	SpeechRate float64 `json:"speech_rate"`

	// AvgPhonemeDuration is the mean aligned segment length in seconds.
	AvgPhonemeDuration float64 `json:"avg_phoneme_duration"`
}

// PitchAnalysis summarises the fundamental-frequency behaviour of one
// scored utterance. Zero values mean no voiced frames were detected.
type PitchAnalysis struct {
	// AverageF0 is the mean fundamental frequency over voiced frames, in Hz.
	AverageF0 float64 `json:"average_f0"`

	// F0Variation is the standard deviation of voiced-frame F0, in Hz.
	F0Variation float64 `json:"f0_variation"`

	// Range is a qualitative label: "flat", "normal", or "wide".
	Range string `json:"range"`
}

// DetailedPronunciationResult is the terminal artifact of one scoring run.
// It has no lifecycle beyond the request that produced it.
type DetailedPronunciationResult struct {
	// RequestID identifies the scoring run in logs and traces.
	RequestID string `json:"request_id"`

	// OverallScore is in [0, 100]. Zero when the input was unscoreable.
	OverallScore float64 `json:"overall_score"`

	PhonemeScores []PhonemeScore `json:"phoneme_scores"`
	WordScores    []WordScore    `json:"word_scores"`

	// PronunciationIssues is the de-duplicated set of all phoneme issues,
	// in first-occurrence order.
	PronunciationIssues []string `json:"pronunciation_issues"`

	// ImprovementSuggestions is the ordered output of the suggestion
	// generator.
	ImprovementSuggestions []string `json:"improvement_suggestions"`

	DurationAnalysis DurationAnalysis `json:"duration_analysis"`
	PitchAnalysis    PitchAnalysis    `json:"pitch_analysis"`
}

// Recognition is an optional externally-computed ASR signal supplied by a
// collaborator. When present, the aligner may use it for forced alignment;
// when absent, alignment degrades to heuristic strategies.
type Recognition struct {
	// Text is the recogniser's transcription of the audio.
	Text string `json:"text"`

	// Logits is the per-frame logit matrix ([frames][vocabulary]). May be nil
	// when the recogniser only produced text.
	Logits [][]float64 `json:"-"`

	// FrameDuration is the time step between logit frames, in seconds.
	FrameDuration float64 `json:"frame_duration"`
}
