package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig_Validate_Success(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{
			Port: 3000,
		},
		Extractor: ExtractorConfig{
			Binary: "yt-dlp",
			Format: "mp4",
		},
		History: HistoryConfig{
			RingSize: 100,
		},
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() should pass, got %v", err)
	}
}

func TestConfig_Validate_BadPort(t *testing.T) {
	cfg := &Config{
		Server:    ServerConfig{Port: -1},
		Extractor: ExtractorConfig{Binary: "yt-dlp", Format: "mp4"},
		History:   HistoryConfig{RingSize: 100},
	}

	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should fail for a negative port")
	}
}

func TestConfig_Validate_MissingBinary(t *testing.T) {
	cfg := &Config{
		Server:    ServerConfig{Port: 3000},
		Extractor: ExtractorConfig{Binary: "", Format: "mp4"},
		History:   HistoryConfig{RingSize: 100},
	}

	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should fail for missing binary")
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("Port = %d, want 3000", cfg.Server.Port)
	}
	if cfg.Extractor.Binary != "yt-dlp" {
		t.Errorf("Binary = %q, want %q", cfg.Extractor.Binary, "yt-dlp")
	}
	if cfg.Extractor.Format != "mp4" {
		t.Errorf("Format = %q, want %q", cfg.Extractor.Format, "mp4")
	}
	if cfg.Extractor.DetachOnDisconnect {
		t.Error("DetachOnDisconnect should default to false")
	}
	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("ReadTimeout = %v, want 30s", cfg.Server.ReadTimeout)
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte(`
server:
  host: 127.0.0.1
  port: 8080
extractor:
  binary: /usr/local/bin/yt-dlp
  format: mp4
  extra_args: ["--no-playlist"]
history:
  ring_size: 50
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Host = %q, want %q", cfg.Server.Host, "127.0.0.1")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Extractor.Binary != "/usr/local/bin/yt-dlp" {
		t.Errorf("Binary = %q, want %q", cfg.Extractor.Binary, "/usr/local/bin/yt-dlp")
	}
	if len(cfg.Extractor.ExtraArgs) != 1 || cfg.Extractor.ExtraArgs[0] != "--no-playlist" {
		t.Errorf("ExtraArgs = %v, want [--no-playlist]", cfg.Extractor.ExtraArgs)
	}
	if cfg.History.RingSize != 50 {
		t.Errorf("RingSize = %d, want 50", cfg.History.RingSize)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("EXTRACTOR_BINARY", "youtube-dl")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Extractor.Binary != "youtube-dl" {
		t.Errorf("Binary = %q, want %q", cfg.Extractor.Binary, "youtube-dl")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("Load() should fail for a missing config file")
	}
}

func TestAddress(t *testing.T) {
	sc := ServerConfig{Host: "0.0.0.0", Port: 3000}
	if got := sc.Address(); got != "0.0.0.0:3000" {
		t.Errorf("Address() = %q, want %q", got, "0.0.0.0:3000")
	}
}
