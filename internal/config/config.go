// Package config provides the configuration schema and loader for the
// phonoscore scoring pipeline.
//
// Every heuristic threshold used by the aligner, the assessor, and the
// aggregators lives here in a named table per rule category, so rules are
// tunable and unit-testable without touching scoring logic. [Default] returns
// the values the scoring model was calibrated with.
package config

// LogLevel controls log verbosity for the phonoscore process.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// AlignStrategy selects how phoneme segment boundaries are chosen when no
// external recognition signal is available.
type AlignStrategy string

const (
	// AlignUniform divides the audio into equal spans, one per phoneme.
	AlignUniform AlignStrategy = "uniform"

	// AlignDuration weights spans by per-phoneme typical-duration priors.
	AlignDuration AlignStrategy = "duration"

	// AlignEnergy places boundaries at abrupt changes in smoothed RMS energy,
	// falling back to uniform when too few change points are found.
	AlignEnergy AlignStrategy = "energy"
)

// IsValid reports whether s is a recognised alignment strategy.
func (s AlignStrategy) IsValid() bool {
	switch s {
	case AlignUniform, AlignDuration, AlignEnergy:
		return true
	}
	return false
}

// Config is the root configuration structure for phonoscore.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Extractor ExtractorConfig `yaml:"extractor"`
	Aligner   AlignerConfig   `yaml:"aligner"`
	Assessor  AssessorConfig  `yaml:"assessor"`
	Aggregate AggregateConfig `yaml:"aggregate"`
	Engine    EngineConfig    `yaml:"engine"`
}

// LoggingConfig holds structured-logging settings.
type LoggingConfig struct {
	// Level controls verbosity. Defaults to "info".
	Level LogLevel `yaml:"level"`
}

// MetricsConfig holds settings for the Prometheus metrics endpoint.
type MetricsConfig struct {
	// ListenAddr is the TCP address the /metrics endpoint listens on
	// (e.g., ":9091"). Empty disables the endpoint.
	ListenAddr string `yaml:"listen_addr"`
}

// ExtractorConfig holds the analysis parameters of the acoustic feature
// extractor.
type ExtractorConfig struct {
	// FFTSize is the FFT length for spectral analysis. Must be a power of 2.
	FFTSize int `yaml:"fft_size"`

	// HopLength is the frame advance in samples for spectral and pitch frames.
	HopLength int `yaml:"hop_length"`

	// EnergyFrameLength is the frame length in samples for short-time energy.
	EnergyFrameLength int `yaml:"energy_frame_length"`

	// NumMFCC is the number of mel cepstral coefficients per frame.
	NumMFCC int `yaml:"num_mfcc"`

	// NumMelFilters is the number of triangular mel filters.
	NumMelFilters int `yaml:"num_mel_filters"`

	// PreEmphasis is the pre-emphasis filter coefficient used before LPC.
	PreEmphasis float64 `yaml:"pre_emphasis"`

	// LPCOrder is the linear-prediction order for formant estimation.
	LPCOrder int `yaml:"lpc_order"`

	// PitchMinHz and PitchMaxHz bound the YIN pitch search band.
	PitchMinHz float64 `yaml:"pitch_min_hz"`
	PitchMaxHz float64 `yaml:"pitch_max_hz"`

	// YinThreshold is the absolute threshold on the cumulative mean
	// normalised difference below which a frame counts as voiced.
	YinThreshold float64 `yaml:"yin_threshold"`

	// SilenceEnergyFraction: frames whose energy falls below this fraction of
	// the mean frame energy count towards the silence ratio.
	SilenceEnergyFraction float64 `yaml:"silence_energy_fraction"`
}

// AlignerConfig holds the alignment strategy and its bounds.
type AlignerConfig struct {
	// Strategy selects the heuristic boundary placement. Defaults to "duration".
	Strategy AlignStrategy `yaml:"strategy"`

	// MinPhonemeDuration and MaxPhonemeDuration clamp each duration-weighted
	// span, in seconds, before spans are rescaled to tile the audio exactly.
	MinPhonemeDuration float64 `yaml:"min_phoneme_duration"`
	MaxPhonemeDuration float64 `yaml:"max_phoneme_duration"`

	// EnergySmoothingSigma is the Gaussian sigma (in frames) applied to the
	// RMS curve before change-point detection.
	EnergySmoothingSigma float64 `yaml:"energy_smoothing_sigma"`

	// EnergyChangeStdFraction: a frame-to-frame RMS delta larger than this
	// fraction of the delta standard deviation is a boundary candidate.
	EnergyChangeStdFraction float64 `yaml:"energy_change_std_fraction"`
}

// Tier is a threshold/penalty pair for a tiered deduction rule.
type Tier struct {
	Threshold float64 `yaml:"threshold"`
	Penalty   float64 `yaml:"penalty"`
}

// DurationRule holds the four-tier duration deduction of the assessor.
// "Far" tiers scale the prior bound by a factor before comparing.
type DurationRule struct {
	// FarUnderFactor scales the prior minimum: durations below
	// factor*min take the FarUnderPenalty.
	FarUnderFactor  float64 `yaml:"far_under_factor"`
	FarUnderPenalty float64 `yaml:"far_under_penalty"`

	// UnderPenalty applies to durations below the prior minimum.
	UnderPenalty float64 `yaml:"under_penalty"`

	// FarOverFactor scales the prior maximum: durations above
	// factor*max take the FarOverPenalty.
	FarOverFactor  float64 `yaml:"far_over_factor"`
	FarOverPenalty float64 `yaml:"far_over_penalty"`

	// OverPenalty applies to durations above the prior maximum.
	OverPenalty float64 `yaml:"over_penalty"`
}

// CentroidRule holds the category-specific spectral-centroid expectations.
type CentroidRule struct {
	// SibilantMin is the minimum expected centroid (Hz) for fricatives with
	// strong high-frequency content.
	SibilantMin     float64 `yaml:"sibilant_min"`
	SibilantPenalty float64 `yaml:"sibilant_penalty"`

	// LowVowelMax is the maximum expected centroid (Hz) for low vowels.
	LowVowelMax     float64 `yaml:"low_vowel_max"`
	LowVowelPenalty float64 `yaml:"low_vowel_penalty"`

	// HighVowelMin/HighVowelMax bound the expected centroid for high vowels.
	HighVowelMin     float64 `yaml:"high_vowel_min"`
	HighVowelMax     float64 `yaml:"high_vowel_max"`
	HighVowelPenalty float64 `yaml:"high_vowel_penalty"`
}

// CategoryRule holds the thresholds of the secondary category-specific checks.
// Each violated check appends one issue and deducts PerIssuePenalty.
type CategoryRule struct {
	// LowVowelF1Min: low vowels expect a first formant at or above this (Hz).
	LowVowelF1Min float64 `yaml:"low_vowel_f1_min"`

	// HighVowelF1Max: high vowels expect a first formant at or below this (Hz).
	HighVowelF1Max float64 `yaml:"high_vowel_f1_max"`

	// SibilantZCRMin: sibilants expect a zero-crossing rate at or above this.
	SibilantZCRMin float64 `yaml:"sibilant_zcr_min"`

	// VoicelessStopBurstMin: voiceless stops expect a peak-to-mean energy
	// ratio at or above this.
	VoicelessStopBurstMin float64 `yaml:"voiceless_stop_burst_min"`

	// VoicedStopVoicingMin: voiced stops expect a voicing rate at or above this.
	VoicedStopVoicingMin float64 `yaml:"voiced_stop_voicing_min"`

	// NasalF1Max: nasals expect a first formant at or below this (Hz).
	NasalF1Max float64 `yaml:"nasal_f1_max"`

	// PerIssuePenalty is deducted once per violated check.
	PerIssuePenalty float64 `yaml:"per_issue_penalty"`
}

// AssessorConfig holds the per-phoneme scoring rule tables.
type AssessorConfig struct {
	// BaseScore is the starting score before deductions. Kept below 100 so a
	// phoneme with no detected issues still reads as "good", not "perfect".
	BaseScore float64 `yaml:"base_score"`

	Duration DurationRule `yaml:"duration"`

	// StabilityHigh/StabilityLow: deductions when the dispersion of the MFCC
	// means exceeds the tier threshold (high tier wins).
	StabilityHigh Tier `yaml:"stability_high"`
	StabilityLow  Tier `yaml:"stability_low"`

	// EnergyLow/EnergyMid: deductions when mean RMS energy falls below the
	// tier threshold (low tier wins).
	EnergyLow Tier `yaml:"energy_low"`
	EnergyMid Tier `yaml:"energy_mid"`

	Centroid CentroidRule `yaml:"centroid"`
	Category CategoryRule `yaml:"category"`

	// DurationPriors optionally overrides the built-in per-symbol duration
	// priors; keys are phoneme symbols, values are [min, max] seconds.
	DurationPriors map[string][2]float64 `yaml:"duration_priors"`
}

// WordRule holds the word-aggregation policy.
type WordRule struct {
	// ResyncWindow is the search distance (in phoneme positions) used to
	// resynchronise expected phonemes with the scored sequence.
	ResyncWindow int `yaml:"resync_window"`

	// SevereRatioThreshold and SeverePenaltyFactor: when severe issues touch
	// more than the threshold fraction of a word's phonemes, the word score
	// is multiplied by the factor.
	SevereRatioThreshold float64 `yaml:"severe_ratio_threshold"`
	SeverePenaltyFactor  float64 `yaml:"severe_penalty_factor"`

	// NeedsImprovementBelow marks words under this score for improvement.
	NeedsImprovementBelow float64 `yaml:"needs_improvement_below"`
}

// UtteranceRule holds the utterance-level penalty ladder and score caps.
type UtteranceRule struct {
	// PoorRatioHigh/PoorRatioMid: penalties applied when the fraction of
	// poor-quality phonemes exceeds the tier threshold (high tier wins).
	PoorRatioHigh Tier `yaml:"poor_ratio_high"`
	PoorRatioMid  Tier `yaml:"poor_ratio_mid"`

	// FairRatioHigh: additional penalty when the fraction of fair-quality
	// phonemes exceeds the threshold.
	FairRatioHigh Tier `yaml:"fair_ratio_high"`

	// IssueRatioHigh/IssueRatioMid: penalties when total issues exceed the
	// threshold fraction of the phoneme count (high tier wins).
	IssueRatioHigh Tier `yaml:"issue_ratio_high"`
	IssueRatioMid  Tier `yaml:"issue_ratio_mid"`

	// SevereCount: penalty when more than Threshold severe issues exist.
	SevereCount Tier `yaml:"severe_count"`

	// HighCap caps the overall score when poor-ratio > HighCapPoorRatio or
	// severe issues > HighCapSevereCount.
	HighCap            float64 `yaml:"high_cap"`
	HighCapPoorRatio   float64 `yaml:"high_cap_poor_ratio"`
	HighCapSevereCount int     `yaml:"high_cap_severe_count"`

	// MidCap caps the overall score when poor-ratio > MidCapPoorRatio.
	MidCap          float64 `yaml:"mid_cap"`
	MidCapPoorRatio float64 `yaml:"mid_cap_poor_ratio"`
}

// AggregateConfig holds word- and utterance-level aggregation policy.
type AggregateConfig struct {
	Word      WordRule      `yaml:"word"`
	Utterance UtteranceRule `yaml:"utterance"`
}

// EngineConfig holds pipeline orchestration settings.
type EngineConfig struct {
	// Parallelism bounds the number of concurrently assessed phonemes.
	// Zero or negative means one goroutine per phoneme.
	Parallelism int `yaml:"parallelism"`

	// Pitch classifies the utterance's F0 variation in the pitch analysis.
	Pitch PitchRule `yaml:"pitch"`
}

// PitchRule maps the utterance F0 standard deviation to a qualitative range
// label.
type PitchRule struct {
	// FlatBelowHz labels the range "flat" when the F0 std is below it.
	FlatBelowHz float64 `yaml:"flat_below_hz"`

	// WideAboveHz labels the range "wide" when the F0 std is above it.
	// Between the two bounds the range is "normal".
	WideAboveHz float64 `yaml:"wide_above_hz"`
}

// Default returns the configuration the scoring model was calibrated with.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: LogInfo},
		Extractor: ExtractorConfig{
			FFTSize:               2048,
			HopLength:             512,
			EnergyFrameLength:     1024,
			NumMFCC:               13,
			NumMelFilters:         26,
			PreEmphasis:           0.97,
			LPCOrder:              10,
			PitchMinHz:            80,
			PitchMaxHz:            400,
			YinThreshold:          0.1,
			SilenceEnergyFraction: 0.1,
		},
		Aligner: AlignerConfig{
			Strategy:                AlignDuration,
			MinPhonemeDuration:      0.03,
			MaxPhonemeDuration:      0.4,
			EnergySmoothingSigma:    2.0,
			EnergyChangeStdFraction: 0.5,
		},
		Assessor: AssessorConfig{
			BaseScore: 80,
			Duration: DurationRule{
				FarUnderFactor:  0.7,
				FarUnderPenalty: 30,
				UnderPenalty:    20,
				FarOverFactor:   1.5,
				FarOverPenalty:  25,
				OverPenalty:     15,
			},
			StabilityHigh: Tier{Threshold: 30, Penalty: 20},
			StabilityLow:  Tier{Threshold: 20, Penalty: 10},
			EnergyLow:     Tier{Threshold: 0.005, Penalty: 25},
			EnergyMid:     Tier{Threshold: 0.01, Penalty: 15},
			Centroid: CentroidRule{
				SibilantMin:      2500,
				SibilantPenalty:  20,
				LowVowelMax:      1500,
				LowVowelPenalty:  15,
				HighVowelMin:     1000,
				HighVowelMax:     2200,
				HighVowelPenalty: 15,
			},
			Category: CategoryRule{
				LowVowelF1Min:         600,
				HighVowelF1Max:        450,
				SibilantZCRMin:        0.15,
				VoicelessStopBurstMin: 2.5,
				VoicedStopVoicingMin:  0.6,
				NasalF1Max:            500,
				PerIssuePenalty:       8,
			},
		},
		Aggregate: AggregateConfig{
			Word: WordRule{
				ResyncWindow:          2,
				SevereRatioThreshold:  0.3,
				SeverePenaltyFactor:   0.85,
				NeedsImprovementBelow: 70,
			},
			Utterance: UtteranceRule{
				PoorRatioHigh:      Tier{Threshold: 0.3, Penalty: 15},
				PoorRatioMid:       Tier{Threshold: 0.2, Penalty: 10},
				FairRatioHigh:      Tier{Threshold: 0.4, Penalty: 8},
				IssueRatioHigh:     Tier{Threshold: 0.5, Penalty: 12},
				IssueRatioMid:      Tier{Threshold: 0.3, Penalty: 6},
				SevereCount:        Tier{Threshold: 3, Penalty: 10},
				HighCap:            85,
				HighCapPoorRatio:   0.1,
				HighCapSevereCount: 1,
				MidCap:             75,
				MidCapPoorRatio:    0.2,
			},
		},
		Engine: EngineConfig{
			Parallelism: 4,
			Pitch:       PitchRule{FlatBelowHz: 10, WideAboveHz: 60},
		},
	}
}
