// Package config loads midistream settings from TOML files.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/james-see/midistream/pkg/decoder"
)

// Error policies applied by stream readers when the decoder enters Error
const (
	PolicyReset = "reset"
	PolicyStop  = "stop"
)

// Config holds all runtime settings
type Config struct {
	Decoder DecoderConfig
	Server  ServerConfig
	Log     LogConfig
}

// DecoderConfig configures decoders built by the CLI, API and TUI
type DecoderConfig struct {
	BufferSize int
	OnError    string
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Port         int
	MaxBodyBytes int64
}

// LogConfig configures the zerolog logger
type LogConfig struct {
	Level     string
	NoColor   bool
	Timestamp bool
}

type fileConfig struct {
	Decoder struct {
		BufferSize int    `toml:"buffer_size"`
		OnError    string `toml:"on_error"`
	} `toml:"decoder"`
	Server struct {
		Port         int   `toml:"port"`
		MaxBodyBytes int64 `toml:"max_body_bytes"`
	} `toml:"server"`
	Log struct {
		Level     string `toml:"level"`
		NoColor   bool   `toml:"no_color"`
		Timestamp bool   `toml:"timestamp"`
	} `toml:"log"`
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		Decoder: DecoderConfig{
			BufferSize: decoder.DefaultBufferSize,
			OnError:    PolicyReset,
		},
		Server: ServerConfig{
			Port:         8080,
			MaxBodyBytes: 4 << 20,
		},
		Log: LogConfig{
			Level:     "info",
			Timestamp: true,
		},
	}
}

// Load reads a TOML file and applies the keys it defines over Default.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("decoder", "buffer_size") {
		cfg.Decoder.BufferSize = raw.Decoder.BufferSize
	}
	if meta.IsDefined("decoder", "on_error") {
		cfg.Decoder.OnError = strings.ToLower(strings.TrimSpace(raw.Decoder.OnError))
	}
	if meta.IsDefined("server", "port") {
		cfg.Server.Port = raw.Server.Port
	}
	if meta.IsDefined("server", "max_body_bytes") {
		cfg.Server.MaxBodyBytes = raw.Server.MaxBodyBytes
	}
	if meta.IsDefined("log", "level") {
		cfg.Log.Level = strings.TrimSpace(raw.Log.Level)
	}
	if meta.IsDefined("log", "no_color") {
		cfg.Log.NoColor = raw.Log.NoColor
	}
	if meta.IsDefined("log", "timestamp") {
		cfg.Log.Timestamp = raw.Log.Timestamp
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings for values no component can use.
func (c Config) Validate() error {
	if c.Decoder.BufferSize < 3 {
		return fmt.Errorf("decoder buffer_size must be at least 3, got %d", c.Decoder.BufferSize)
	}
	switch c.Decoder.OnError {
	case PolicyReset, PolicyStop:
	default:
		return fmt.Errorf("decoder on_error must be %q or %q, got %q", PolicyReset, PolicyStop, c.Decoder.OnError)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port out of range: %d", c.Server.Port)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return errors.New("server max_body_bytes must be positive")
	}
	return nil
}

// DecoderOptions returns the decoder options these settings imply.
func (c Config) DecoderOptions() []decoder.Option {
	return []decoder.Option{decoder.WithBufferSize(c.Decoder.BufferSize)}
}
