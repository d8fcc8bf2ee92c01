// Package config loads the server configuration from an optional YAML
// file, filling defaults for anything unset.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Media   MediaConfig   `yaml:"media"`
	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`
}

// Duration wraps time.Duration so YAML values like "15s" parse.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	d.Duration = parsed
	return nil
}

type ServerConfig struct {
	Host         string   `yaml:"host"`
	Port         int      `yaml:"port"`
	ReadTimeout  Duration `yaml:"read_timeout"`
	WriteTimeout Duration `yaml:"write_timeout"`
}

type MediaConfig struct {
	// AudioSourceDir holds the wav/srt pairs served by the audio player.
	// Empty means the library is unconfigured and listings are empty.
	AudioSourceDir string `yaml:"audio_source_dir"`
}

type StorageConfig struct {
	// DataDir is where per-user settings files are persisted.
	DataDir string `yaml:"data_dir"`
}

type LoggingConfig struct {
	// File enables rotated file logging when set; empty logs to stderr.
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	Debug      bool   `yaml:"debug"`
}

// Load reads the config at path, which may be empty or missing; the
// PORT env var overrides the configured port either way.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        3000,
			ReadTimeout: Duration{30 * time.Second},
			// WriteTimeout stays zero: streaming responses must not be cut off
		},
		Storage: StorageConfig{
			DataDir: "data",
		},
		Logging: LoggingConfig{
			MaxSizeMB:  20,
			MaxBackups: 3,
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("AUDIO_SOURCE_DIR"); v != "" {
		cfg.Media.AudioSourceDir = v
	}

	return cfg, nil
}
