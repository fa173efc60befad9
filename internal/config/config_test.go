package config_test

import (
	"strings"
	"testing"

	"github.com/apetrei/glas/internal/config"
	"github.com/apetrei/glas/pkg/provider/stt"
	sttmock "github.com/apetrei/glas/pkg/provider/stt/mock"
	"github.com/apetrei/glas/pkg/provider/tts"
	ttsmock "github.com/apetrei/glas/pkg/provider/tts/mock"
)

const validYAML = `
server:
  log_level: info
  ingest_addr: ":5051"
  metrics_addr: ":9090"
storage:
  database_path: /var/lib/glas/students.db
dictionary:
  path: /var/lib/glas/ro.dic
identity:
  pipe_path: /tmp/studentName_pipe
audio:
  capture_seconds: 5
  device: plughw:1,0
providers:
  stt:
    name: whisper
    base_url: http://localhost:8080
  tts:
    name: coqui
    base_url: http://localhost:5002
    language: ro
session:
  max_idle_seconds: 90
  retry_pause_seconds: 3
`

func TestLoadFromReaderValid(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadFromReader(strings.NewReader(validYAML))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if cfg.Server.LogLevel != config.LogInfo {
		t.Errorf("log_level = %q", cfg.Server.LogLevel)
	}
	if cfg.Storage.DatabasePath != "/var/lib/glas/students.db" {
		t.Errorf("database_path = %q", cfg.Storage.DatabasePath)
	}
	if cfg.Identity.PipePath != "/tmp/studentName_pipe" {
		t.Errorf("pipe_path = %q", cfg.Identity.PipePath)
	}
	if cfg.Providers.STT.Name != "whisper" {
		t.Errorf("stt provider = %q", cfg.Providers.STT.Name)
	}
	if cfg.Session.MaxIdleSeconds != 90 {
		t.Errorf("max_idle_seconds = %d", cfg.Session.MaxIdleSeconds)
	}
}

func TestLoadFromReaderRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	_, err := config.LoadFromReader(strings.NewReader("bogus_section:\n  x: 1\n"))
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestValidateCollectsAllFailures(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	cfg.Server.LogLevel = "loud"
	cfg.Audio.CaptureSeconds = 120
	cfg.Session.MaxIdleSeconds = -1

	err := config.Validate(cfg)
	if err == nil {
		t.Fatal("expected validation errors")
	}
	for _, want := range []string{
		"server.log_level",
		"server.ingest_addr",
		"storage.database_path",
		"dictionary.path",
		"identity.pipe_path",
		"audio.capture_seconds",
		"providers.stt.name",
		"session.max_idle_seconds",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error is missing %q: %v", want, err)
		}
	}
}

func TestLogLevelIsValid(t *testing.T) {
	t.Parallel()

	for _, l := range []config.LogLevel{config.LogDebug, config.LogInfo, config.LogWarn, config.LogError} {
		if !l.IsValid() {
			t.Errorf("%q should be valid", l)
		}
	}
	if config.LogLevel("verbose").IsValid() {
		t.Error("verbose should be invalid")
	}
}

func TestRegistryCreatesRegisteredProviders(t *testing.T) {
	t.Parallel()

	reg := config.NewRegistry()
	reg.RegisterSTT("mock", func(config.ProviderEntry) (stt.Provider, error) {
		return sttmock.New(), nil
	})
	reg.RegisterTTS("mock", func(config.ProviderEntry) (tts.Provider, error) {
		return &ttsmock.Provider{}, nil
	})

	if _, err := reg.CreateSTT(config.ProviderEntry{Name: "mock"}); err != nil {
		t.Errorf("CreateSTT: %v", err)
	}
	if _, err := reg.CreateTTS(config.ProviderEntry{Name: "mock"}); err != nil {
		t.Errorf("CreateTTS: %v", err)
	}
}

func TestRegistryRejectsUnknownName(t *testing.T) {
	t.Parallel()

	reg := config.NewRegistry()
	if _, err := reg.CreateSTT(config.ProviderEntry{Name: "nope"}); err == nil {
		t.Error("expected ErrProviderNotRegistered")
	}
}
