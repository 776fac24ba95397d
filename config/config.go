// Package config holds the externally supplied configuration surface:
// bridge endpoint, audio geometry and operational knobs. Core packages
// never read files themselves; the binary loads this once and passes
// values down.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete client configuration.
type Config struct {
	Bridge  BridgeConfig  `yaml:"bridge"`
	Audio   AudioConfig   `yaml:"audio"`
	Metrics MetricsConfig `yaml:"metrics"`
	Logging LoggingConfig `yaml:"logging"`
}

// BridgeConfig locates the remote processing service.
type BridgeConfig struct {
	Host              string `yaml:"host"`
	Port              int    `yaml:"port"`
	Path              string `yaml:"path"`
	ReconnectInterval int    `yaml:"reconnect_interval"` // seconds
	HeartbeatInterval int    `yaml:"heartbeat_interval"` // seconds
}

// AudioConfig contains the fixed audio geometry.
type AudioConfig struct {
	SampleRate            int `yaml:"sample_rate"`
	ChunkSamples          int `yaml:"chunk_samples"`
	PlaybackBufferSamples int `yaml:"playback_buffer_samples"`
	CaptureBufferBytes    int `yaml:"capture_buffer_bytes"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration matching the firmware constants:
// 16 kHz mono, 10 ms chunks, one second of playback buffer, 5 s
// reconnect and heartbeat.
func Default() Config {
	return Config{
		Bridge: BridgeConfig{
			Host:              "127.0.0.1",
			Port:              8787,
			Path:              "/ws/audio",
			ReconnectInterval: 5,
			HeartbeatInterval: 5,
		},
		Audio: AudioConfig{
			SampleRate:            16000,
			ChunkSamples:          160,
			PlaybackBufferSamples: 16000,
			CaptureBufferBytes:    4096,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Address: "127.0.0.1:9120",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads and parses the configuration file, filling unset fields
// with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Bridge.Validate(); err != nil {
		return fmt.Errorf("bridge config: %w", err)
	}
	if err := c.Audio.Validate(); err != nil {
		return fmt.Errorf("audio config: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}
	return nil
}

func (b *BridgeConfig) Validate() error {
	if b.Host == "" {
		return fmt.Errorf("host must not be empty")
	}
	if b.Port <= 0 || b.Port > 65535 {
		return fmt.Errorf("port must be in 1..65535, got %d", b.Port)
	}
	if b.ReconnectInterval <= 0 {
		return fmt.Errorf("reconnect_interval must be positive, got %d", b.ReconnectInterval)
	}
	if b.HeartbeatInterval <= 0 {
		return fmt.Errorf("heartbeat_interval must be positive, got %d", b.HeartbeatInterval)
	}
	return nil
}

func (a *AudioConfig) Validate() error {
	if a.SampleRate <= 0 {
		return fmt.Errorf("sample_rate must be positive, got %d", a.SampleRate)
	}
	if a.ChunkSamples <= 0 {
		return fmt.Errorf("chunk_samples must be positive, got %d", a.ChunkSamples)
	}
	if a.PlaybackBufferSamples < a.ChunkSamples {
		return fmt.Errorf("playback_buffer_samples must hold at least one chunk (%d), got %d",
			a.ChunkSamples, a.PlaybackBufferSamples)
	}
	if a.CaptureBufferBytes < a.ChunkSamples*2 {
		return fmt.Errorf("capture_buffer_bytes must hold at least one chunk (%d), got %d",
			a.ChunkSamples*2, a.CaptureBufferBytes)
	}
	return nil
}

func (l *LoggingConfig) Validate() error {
	switch l.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("level must be one of debug, info, warn, error; got %q", l.Level)
	}
	switch l.Format {
	case "text", "json":
	default:
		return fmt.Errorf("format must be text or json, got %q", l.Format)
	}
	return nil
}

// GetReconnectInterval returns the reconnect interval as a duration.
func (b *BridgeConfig) GetReconnectInterval() time.Duration {
	return time.Duration(b.ReconnectInterval) * time.Second
}

// GetHeartbeatInterval returns the heartbeat interval as a duration.
func (b *BridgeConfig) GetHeartbeatInterval() time.Duration {
	return time.Duration(b.HeartbeatInterval) * time.Second
}
