package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 3000 || cfg.Server.Host != "0.0.0.0" {
		t.Errorf("server defaults = %s:%d", cfg.Server.Host, cfg.Server.Port)
	}
	if cfg.Server.WriteTimeout.Duration != 0 {
		t.Errorf("WriteTimeout = %v, want 0 for streaming", cfg.Server.WriteTimeout)
	}
	if cfg.Storage.DataDir != "data" {
		t.Errorf("DataDir = %q", cfg.Storage.DataDir)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := `server:
  port: 8080
  read_timeout: 15s
media:
  audio_source_dir: /srv/audio
logging:
  file: /var/log/glasslink.log
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout.Duration != 15*time.Second {
		t.Errorf("ReadTimeout = %v, want 15s", cfg.Server.ReadTimeout)
	}
	if cfg.Media.AudioSourceDir != "/srv/audio" {
		t.Errorf("AudioSourceDir = %q", cfg.Media.AudioSourceDir)
	}
	if cfg.Logging.File != "/var/log/glasslink.log" {
		t.Errorf("Logging.File = %q", cfg.Logging.File)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("AUDIO_SOURCE_DIR", "/mnt/audio")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Port = %d, want env override 9999", cfg.Server.Port)
	}
	if cfg.Media.AudioSourceDir != "/mnt/audio" {
		t.Errorf("AudioSourceDir = %q, want env override", cfg.Media.AudioSourceDir)
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	if _, err := Load(""); err == nil {
		t.Error("Load accepted a non-numeric PORT")
	}
}
