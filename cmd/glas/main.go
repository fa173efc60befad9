// Command glas is the main entry point for the glas voice kiosk: an
// unattended question-answering terminal that identifies the person in
// front of it, listens for spoken questions, and answers from a local
// knowledge base.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/apetrei/glas/internal/config"
	"github.com/apetrei/glas/internal/dictionary"
	"github.com/apetrei/glas/internal/health"
	"github.com/apetrei/glas/internal/identity"
	"github.com/apetrei/glas/internal/ingest"
	"github.com/apetrei/glas/internal/observe"
	"github.com/apetrei/glas/internal/phonetic"
	"github.com/apetrei/glas/internal/resilience"
	"github.com/apetrei/glas/internal/session"
	"github.com/apetrei/glas/internal/store"
	"github.com/apetrei/glas/internal/voice"
	"github.com/apetrei/glas/pkg/audio"
	"github.com/apetrei/glas/pkg/provider/stt"
	"github.com/apetrei/glas/pkg/provider/stt/whisper"
	"github.com/apetrei/glas/pkg/provider/tts"
	"github.com/apetrei/glas/pkg/provider/tts/coqui"
)

// version is injected at build time via -ldflags.
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	// ── Load configuration ────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "glas: config file %q not found — copy configs/example.yaml to get started\n", *configPath)
		} else {
			fmt.Fprintf(os.Stderr, "glas: %v\n", err)
		}
		return 1
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	logger := newLogger(cfg.Server.LogLevel)
	slog.SetDefault(logger)

	slog.Info("glas starting",
		"version", version,
		"config", *configPath,
		"log_level", cfg.Server.LogLevel,
	)

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Telemetry providers ───────────────────────────────────────────────────
	otelShutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{
		ServiceName:    "glas",
		ServiceVersion: version,
	})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			slog.Warn("telemetry shutdown error", "err", err)
		}
	}()
	metrics := observe.DefaultMetrics()

	// ── Knowledge base ────────────────────────────────────────────────────────
	db, err := store.OpenSQLite(cfg.Storage.DatabasePath)
	if err != nil {
		slog.Error("failed to open knowledge base", "path", cfg.Storage.DatabasePath, "err", err)
		return 1
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Warn("knowledge base close error", "err", err)
		}
	}()

	// ── Pronunciation dictionary ──────────────────────────────────────────────
	dict, err := dictionary.Open(cfg.Dictionary.Path)
	if err != nil {
		slog.Error("failed to open pronunciation dictionary", "path", cfg.Dictionary.Path, "err", err)
		return 1
	}
	defer dict.Close()

	// The dictionary is reconciled to completion before serving begins, so
	// the recognizer never sees a vocabulary word without a pronunciation.
	maintainer := dictionary.NewMaintainer(db, dict, phonetic.New())
	added, err := maintainer.Reconcile(ctx)
	if err != nil {
		slog.Error("dictionary reconciliation failed", "err", err)
		return 1
	}
	metrics.DictionaryAdditions.Add(ctx, int64(added))
	slog.Info("dictionary reconciled", "added", added, "entries", dict.Len())

	// ── Providers ─────────────────────────────────────────────────────────────
	reg := config.NewRegistry()
	registerBuiltinProviders(reg)

	sttProvider, err := reg.CreateSTT(cfg.Providers.STT)
	if err != nil {
		slog.Error("failed to create stt provider", "name", cfg.Providers.STT.Name, "err", err)
		return 1
	}
	recognizer := resilience.NewRecognizer(sttProvider, resilience.CircuitBreakerConfig{Name: cfg.Providers.STT.Name})
	defer recognizer.Close()
	slog.Info("provider created", "kind", "stt", "name", cfg.Providers.STT.Name)

	speaker := buildSpeaker(cfg, reg, metrics, logger)

	// ── Audio I/O ─────────────────────────────────────────────────────────────
	recorder := buildRecorder(cfg)

	// ── Identity gate ─────────────────────────────────────────────────────────
	pipe, err := identity.NewPipeSource(cfg.Identity.PipePath)
	if err != nil {
		slog.Error("failed to open identity pipe", "path", cfg.Identity.PipePath, "err", err)
		return 1
	}
	gate := identity.New(pipe, db)

	// ── Session loop ──────────────────────────────────────────────────────────
	var loopOpts []session.Option
	if cfg.Session.MaxIdleSeconds > 0 {
		loopOpts = append(loopOpts, session.WithMaxIdle(time.Duration(cfg.Session.MaxIdleSeconds)*time.Second))
	}
	if cfg.Session.RetryPauseSeconds > 0 {
		loopOpts = append(loopOpts, session.WithRetryPause(time.Duration(cfg.Session.RetryPauseSeconds)*time.Second))
	}
	loop := session.NewLoop(gate, db, recorder, recognizer, speaker, loopOpts...)

	// ── Serve ─────────────────────────────────────────────────────────────────
	slog.Info("kiosk ready — press Ctrl+C to shut down")

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return loop.Run(gctx)
	})

	g.Go(func() error {
		return ingest.NewServer(db, ingest.WithLogger(logger), ingest.WithMetrics(metrics)).Run(gctx, cfg.Server.IngestAddr)
	})

	if cfg.Server.MetricsAddr != "" {
		g.Go(func() error {
			return serveTelemetry(gctx, cfg.Server.MetricsAddr, db, dict)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("run error", "err", err)
		return 1
	}

	slog.Info("goodbye")
	return 0
}

// ── Provider wiring ───────────────────────────────────────────────────────────

// registerBuiltinProviders wires all built-in provider factories into reg.
// Each factory receives a config.ProviderEntry and constructs the
// appropriate provider from the real implementation packages.
func registerBuiltinProviders(reg *config.Registry) {
	// ── STT ───────────────────────────────────────────────────────────────────

	reg.RegisterSTT("whisper", func(entry config.ProviderEntry) (stt.Provider, error) {
		var opts []whisper.Option
		if entry.Model != "" {
			opts = append(opts, whisper.WithModel(entry.Model))
		}
		if entry.Language != "" {
			opts = append(opts, whisper.WithLanguage(entry.Language))
		}
		return whisper.New(entry.BaseURL, opts...)
	})

	reg.RegisterSTT("whisper-native", func(entry config.ProviderEntry) (stt.Provider, error) {
		var opts []whisper.NativeOption
		if entry.Language != "" {
			opts = append(opts, whisper.WithNativeLanguage(entry.Language))
		}
		return whisper.NewNative(entry.Model, opts...)
	})

	// ── TTS ───────────────────────────────────────────────────────────────────

	reg.RegisterTTS("coqui", func(entry config.ProviderEntry) (tts.Provider, error) {
		var opts []coqui.Option
		if entry.Language != "" {
			opts = append(opts, coqui.WithLanguage(entry.Language))
		}
		return coqui.New(entry.BaseURL, opts...)
	})
}

// buildSpeaker assembles the spoken-output path. When no TTS provider is
// configured the kiosk serves silently: replies are logged only.
func buildSpeaker(cfg *config.Config, reg *config.Registry, metrics *observe.Metrics, logger *slog.Logger) session.Speaker {
	if cfg.Providers.TTS.Name == "" {
		return silentSpeaker{log: logger}
	}

	synth, err := reg.CreateTTS(cfg.Providers.TTS)
	if err != nil {
		slog.Warn("failed to create tts provider; serving silently", "name", cfg.Providers.TTS.Name, "err", err)
		return silentSpeaker{log: logger}
	}
	slog.Info("provider created", "kind", "tts", "name", cfg.Providers.TTS.Name)

	guarded := resilience.NewSynthesizer(synth, resilience.CircuitBreakerConfig{Name: cfg.Providers.TTS.Name})

	var playerOpts []audio.PlayerOption
	if cfg.Audio.PlayerCommand != "" {
		playerOpts = append(playerOpts, audio.WithPlayerCommand(cfg.Audio.PlayerCommand, "-"))
	}
	return voice.NewSpeaker(guarded, audio.NewPlayer(playerOpts...), metrics, logger)
}

// buildRecorder assembles the microphone capture pipeline from config.
func buildRecorder(cfg *config.Config) *audio.ALSARecorder {
	var opts []audio.RecorderOption
	if cfg.Audio.Device != "" {
		opts = append(opts, audio.WithDevice(cfg.Audio.Device))
	}
	if cfg.Audio.CaptureSeconds > 0 {
		opts = append(opts, audio.WithWindow(time.Duration(cfg.Audio.CaptureSeconds)*time.Second))
	}
	if cfg.Audio.GainDB != 0 {
		opts = append(opts, audio.WithGain(cfg.Audio.GainDB))
	}
	return audio.NewRecorder(opts...)
}

// silentSpeaker logs replies instead of speaking them.
type silentSpeaker struct {
	log *slog.Logger
}

func (s silentSpeaker) Say(_ context.Context, text string) error {
	s.log.Info("reply (unspoken)", "text", text)
	return nil
}

// ── Telemetry listener ────────────────────────────────────────────────────────

// serveTelemetry runs the /metrics, /healthz and /readyz listener until ctx
// is cancelled.
func serveTelemetry(ctx context.Context, addr string, db *store.SQLiteStore, dict *dictionary.Dictionary) error {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())

	health.New(
		health.Checker{Name: "database", Check: db.Ping},
		health.Checker{Name: "dictionary", Check: func(context.Context) error {
			_, err := os.Stat(dict.Path())
			return err
		}},
	).Register(mux)

	srv := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return fmt.Errorf("telemetry listener: %w", err)
	}
}

// ── Logger ─────────────────────────────────────────────────────────────────────

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
