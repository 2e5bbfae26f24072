// Command phonoscore scores the pronunciation of a WAV recording against a
// reference text and prints the detailed result as JSON.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arpege-labs/phonoscore/internal/config"
	"github.com/arpege-labs/phonoscore/internal/engine"
	"github.com/arpege-labs/phonoscore/internal/health"
	"github.com/arpege-labs/phonoscore/internal/observe"
	"github.com/arpege-labs/phonoscore/internal/wav"
)

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "", "path to the YAML configuration file (optional)")
	audioPath := flag.String("audio", "", "path to a 16-bit PCM mono WAV file")
	text := flag.String("text", "", "reference text the recording should match")
	flag.Parse()

	if *audioPath == "" || *text == "" {
		fmt.Fprintln(os.Stderr, "phonoscore: both -audio and -text are required")
		return 2
	}

	// ── Load configuration ────────────────────────────────────────────────────
	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "phonoscore: %v\n", err)
			return 1
		}
		cfg = loaded
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	slog.SetDefault(newLogger(cfg.Logging.Level))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Telemetry ─────────────────────────────────────────────────────────────
	shutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Warn("telemetry shutdown error", "err", err)
		}
	}()

	// ── Metrics endpoint (optional) ───────────────────────────────────────────
	if cfg.Metrics.ListenAddr != "" {
		sidecar := health.New()
		srv := &http.Server{Addr: cfg.Metrics.ListenAddr, Handler: sidecar.Routes()}
		go func() {
			slog.Info("metrics endpoint listening", "addr", cfg.Metrics.ListenAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics endpoint error", "err", err)
			}
		}()
		defer srv.Close()
	}

	// ── Score ─────────────────────────────────────────────────────────────────
	samples, sampleRate, err := wav.ReadFile(*audioPath)
	if err != nil {
		slog.Error("failed to read audio", "path", *audioPath, "err", err)
		return 1
	}
	slog.Info("audio loaded",
		"path", *audioPath,
		"sample_rate", sampleRate,
		"duration_s", float64(len(samples))/float64(sampleRate),
	)

	scorer := engine.New(cfg)
	result := scorer.ScoreDetailed(ctx, samples, sampleRate, *text, nil)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		slog.Error("failed to encode result", "err", err)
		return 1
	}
	return 0
}

func newLogger(level config.LogLevel) *slog.Logger {
	var lvl slog.Level
	switch level {
	case config.LogDebug:
		lvl = slog.LevelDebug
	case config.LogWarn:
		lvl = slog.LevelWarn
	case config.LogError:
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
