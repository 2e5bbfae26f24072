package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML configuration file at path and returns a validated
// [Config]. Fields absent from the file keep their [Default] values.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r over the defaults and validates
// the result. Useful in tests where configs are constructed from string
// literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Logging.Level != "" && !cfg.Logging.Level.IsValid() {
		errs = append(errs, fmt.Errorf("logging.level %q is invalid; valid values: debug, info, warn, error", cfg.Logging.Level))
	}

	// Extractor
	ex := cfg.Extractor
	if ex.FFTSize < 2 || ex.FFTSize&(ex.FFTSize-1) != 0 {
		errs = append(errs, fmt.Errorf("extractor.fft_size %d must be a power of 2 >= 2", ex.FFTSize))
	}
	if ex.HopLength <= 0 {
		errs = append(errs, fmt.Errorf("extractor.hop_length %d must be positive", ex.HopLength))
	}
	if ex.EnergyFrameLength <= 0 {
		errs = append(errs, fmt.Errorf("extractor.energy_frame_length %d must be positive", ex.EnergyFrameLength))
	}
	if ex.NumMFCC <= 0 || ex.NumMFCC > ex.NumMelFilters {
		errs = append(errs, fmt.Errorf("extractor.num_mfcc %d must be in [1, num_mel_filters=%d]", ex.NumMFCC, ex.NumMelFilters))
	}
	if ex.PitchMinHz <= 0 || ex.PitchMaxHz <= ex.PitchMinHz {
		errs = append(errs, fmt.Errorf("extractor pitch band [%.0f, %.0f] Hz is invalid", ex.PitchMinHz, ex.PitchMaxHz))
	}
	if ex.YinThreshold <= 0 || ex.YinThreshold >= 1 {
		errs = append(errs, fmt.Errorf("extractor.yin_threshold %.3f must be in (0, 1)", ex.YinThreshold))
	}
	if ex.LPCOrder < 2 {
		errs = append(errs, fmt.Errorf("extractor.lpc_order %d must be >= 2", ex.LPCOrder))
	}

	// Aligner
	al := cfg.Aligner
	if al.Strategy != "" && !al.Strategy.IsValid() {
		errs = append(errs, fmt.Errorf("aligner.strategy %q is invalid; valid values: uniform, duration, energy", al.Strategy))
	}
	if al.MinPhonemeDuration <= 0 || al.MaxPhonemeDuration <= al.MinPhonemeDuration {
		errs = append(errs, fmt.Errorf("aligner phoneme duration bounds [%.3f, %.3f] are invalid", al.MinPhonemeDuration, al.MaxPhonemeDuration))
	}

	// Assessor
	as := cfg.Assessor
	if as.BaseScore <= 0 || as.BaseScore > 100 {
		errs = append(errs, fmt.Errorf("assessor.base_score %.1f must be in (0, 100]", as.BaseScore))
	}
	if as.Duration.FarUnderFactor <= 0 || as.Duration.FarUnderFactor > 1 {
		errs = append(errs, fmt.Errorf("assessor.duration.far_under_factor %.2f must be in (0, 1]", as.Duration.FarUnderFactor))
	}
	if as.Duration.FarOverFactor < 1 {
		errs = append(errs, fmt.Errorf("assessor.duration.far_over_factor %.2f must be >= 1", as.Duration.FarOverFactor))
	}
	for symbol, bounds := range as.DurationPriors {
		if bounds[0] <= 0 || bounds[1] <= bounds[0] {
			errs = append(errs, fmt.Errorf("assessor.duration_priors[%q] = [%.3f, %.3f] is invalid", symbol, bounds[0], bounds[1]))
		}
	}

	// Aggregation
	ag := cfg.Aggregate
	if ag.Word.ResyncWindow < 0 {
		errs = append(errs, fmt.Errorf("aggregate.word.resync_window %d must be >= 0", ag.Word.ResyncWindow))
	}
	if ag.Word.SeverePenaltyFactor <= 0 || ag.Word.SeverePenaltyFactor > 1 {
		errs = append(errs, fmt.Errorf("aggregate.word.severe_penalty_factor %.2f must be in (0, 1]", ag.Word.SeverePenaltyFactor))
	}
	for name, ratio := range map[string]float64{
		"aggregate.word.severe_ratio_threshold":   ag.Word.SevereRatioThreshold,
		"aggregate.utterance.high_cap_poor_ratio": ag.Utterance.HighCapPoorRatio,
		"aggregate.utterance.mid_cap_poor_ratio":  ag.Utterance.MidCapPoorRatio,
		"aggregate.utterance.poor_ratio_high":     ag.Utterance.PoorRatioHigh.Threshold,
		"aggregate.utterance.poor_ratio_mid":      ag.Utterance.PoorRatioMid.Threshold,
		"aggregate.utterance.fair_ratio_high":     ag.Utterance.FairRatioHigh.Threshold,
	} {
		if ratio < 0 || ratio > 1 {
			errs = append(errs, fmt.Errorf("%s %.2f must be in [0, 1]", name, ratio))
		}
	}
	if ag.Utterance.MidCap > ag.Utterance.HighCap {
		errs = append(errs, fmt.Errorf("aggregate.utterance.mid_cap %.1f must not exceed high_cap %.1f", ag.Utterance.MidCap, ag.Utterance.HighCap))
	}

	// Engine
	en := cfg.Engine
	if en.Pitch.FlatBelowHz < 0 || en.Pitch.WideAboveHz < en.Pitch.FlatBelowHz {
		errs = append(errs, fmt.Errorf("engine.pitch bounds [%.1f, %.1f] Hz are invalid", en.Pitch.FlatBelowHz, en.Pitch.WideAboveHz))
	}

	return errors.Join(errs...)
}
