package config_test

import (
	"strings"
	"testing"

	"github.com/arpege-labs/phonoscore/internal/config"
)

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()

	if err := config.Validate(config.Default()); err != nil {
		t.Fatalf("default config failed validation: %v", err)
	}
}

func TestLoadFromReaderOverridesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadFromReader(strings.NewReader(`
logging:
  level: debug
aligner:
  strategy: uniform
assessor:
  base_score: 75
  duration_priors:
    "æ": [0.05, 0.2]
`))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}

	if cfg.Logging.Level != config.LogDebug {
		t.Errorf("logging.level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Aligner.Strategy != config.AlignUniform {
		t.Errorf("aligner.strategy = %q, want uniform", cfg.Aligner.Strategy)
	}
	if cfg.Assessor.BaseScore != 75 {
		t.Errorf("assessor.base_score = %v, want 75", cfg.Assessor.BaseScore)
	}
	// Untouched sections keep their defaults.
	if cfg.Extractor.FFTSize != 2048 {
		t.Errorf("extractor.fft_size = %d, want default 2048", cfg.Extractor.FFTSize)
	}
	if got := cfg.Assessor.DurationPriors["æ"]; got != [2]float64{0.05, 0.2} {
		t.Errorf("duration prior override = %v", got)
	}
}

func TestLoadFromReaderEmptyInput(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadFromReader(strings.NewReader(""))
	if err != nil {
		t.Fatalf("empty config should load defaults, got %v", err)
	}
	if cfg.Assessor.BaseScore != 80 {
		t.Errorf("base_score = %v, want default 80", cfg.Assessor.BaseScore)
	}
}

func TestLoadFromReaderRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	_, err := config.LoadFromReader(strings.NewReader("assesor:\n  base_score: 80\n"))
	if err == nil {
		t.Fatal("expected error on misspelled section")
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Extractor.FFTSize = 1000
	cfg.Extractor.YinThreshold = 2
	cfg.Aligner.MinPhonemeDuration = 0.5
	cfg.Aligner.MaxPhonemeDuration = 0.1
	cfg.Assessor.BaseScore = 0

	err := config.Validate(cfg)
	if err == nil {
		t.Fatal("expected validation errors")
	}
	for _, fragment := range []string{"fft_size", "yin_threshold", "duration bounds", "base_score"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Errorf("error %q is missing fragment %q", err, fragment)
		}
	}
}

func TestValidateCapOrdering(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Aggregate.Utterance.MidCap = 90
	if err := config.Validate(cfg); err == nil {
		t.Error("expected error when mid cap exceeds high cap")
	}
}

func TestValidatePitchBounds(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Engine.Pitch.WideAboveHz = 5 // below the flat bound
	err := config.Validate(cfg)
	if err == nil || !strings.Contains(err.Error(), "engine.pitch") {
		t.Errorf("err = %v, want engine.pitch bounds error", err)
	}
}

func TestEnumValidity(t *testing.T) {
	t.Parallel()

	if !config.AlignEnergy.IsValid() {
		t.Error("energy strategy should be valid")
	}
	if config.AlignStrategy("spectral").IsValid() {
		t.Error("unexpected valid strategy")
	}
	if config.LogLevel("trace").IsValid() {
		t.Error("unexpected valid log level")
	}
}
