// Package config provides the configuration schema, loader, and provider
// registry for the glas kiosk.
package config

// LogLevel controls log verbosity for the kiosk process.
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

// Config is the root configuration structure for the kiosk.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	Dictionary DictionaryConfig `yaml:"dictionary"`
	Identity   IdentityConfig   `yaml:"identity"`
	Audio      AudioConfig      `yaml:"audio"`
	Providers  ProvidersConfig  `yaml:"providers"`
	Session    SessionConfig    `yaml:"session"`
}

// ServerConfig holds network and logging settings for the kiosk process.
type ServerConfig struct {
	// LogLevel controls verbosity.
	LogLevel LogLevel `yaml:"log_level"`

	// IngestAddr is the TCP address the data-entry ingest service listens
	// on (e.g., ":5051").
	IngestAddr string `yaml:"ingest_addr"`

	// MetricsAddr is the address for the /metrics, /healthz and /readyz
	// endpoints (e.g., ":9090"). Empty disables the telemetry listener.
	MetricsAddr string `yaml:"metrics_addr"`
}

// StorageConfig locates the knowledge base.
type StorageConfig struct {
	// DatabasePath is the SQLite database file. Created on first start.
	DatabasePath string `yaml:"database_path"`
}

// DictionaryConfig locates the pronunciation dictionary.
type DictionaryConfig struct {
	// Path is the line-oriented dictionary file. Created on first start.
	Path string `yaml:"path"`
}

// IdentityConfig configures the identity channel.
type IdentityConfig struct {
	// PipePath is the named pipe the external identification process
	// writes one name per line into.
	PipePath string `yaml:"pipe_path"`
}

// AudioConfig configures microphone capture and loudspeaker playback.
type AudioConfig struct {
	// CaptureSeconds is the fixed utterance capture window. 0 selects the
	// built-in default.
	CaptureSeconds int `yaml:"capture_seconds"`

	// Device is the ALSA capture device (arecord -D). Empty selects
	// "default".
	Device string `yaml:"device"`

	// GainDB is a sox gain adjustment applied to captured audio.
	GainDB int `yaml:"gain_db"`

	// PlayerCommand overrides the playback binary (e.g., "mpg123").
	// Empty selects the built-in aplay invocation.
	PlayerCommand string `yaml:"player_command"`
}

// ProvidersConfig declares which provider implementation to use for each
// speech stage. Each field selects a named provider registered in the
// [Registry].
type ProvidersConfig struct {
	STT ProviderEntry `yaml:"stt"`
	TTS ProviderEntry `yaml:"tts"`
}

// ProviderEntry is the common configuration block shared by all provider
// types. The Name field is used to look up the constructor in the
// [Registry].
type ProviderEntry struct {
	// Name selects the registered provider implementation (e.g.,
	// "whisper", "coqui").
	Name string `yaml:"name"`

	// BaseURL is the provider's server endpoint, for server-backed
	// providers.
	BaseURL string `yaml:"base_url"`

	// Model selects a model within the provider: a model name for
	// server-backed providers, a model file path for in-process ones.
	Model string `yaml:"model"`

	// Language is the recognition/synthesis language id. Empty selects
	// the provider default ("ro").
	Language string `yaml:"language"`
}

// SessionConfig tunes the session state machine.
type SessionConfig struct {
	// MaxIdleSeconds is how long a session survives without a completed
	// turn. 0 selects the built-in 90 s default.
	MaxIdleSeconds int `yaml:"max_idle_seconds"`

	// RetryPauseSeconds is the pause after a "could not understand"
	// reply. 0 selects the built-in 3 s default.
	RetryPauseSeconds int `yaml:"retry_pause_seconds"`
}
