package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Mining.Language != "python" {
		t.Errorf("Mining.Language = %q, want %q", cfg.Mining.Language, "python")
	}
	if cfg.Mining.MinStars != 50 || cfg.Mining.MaxStars != 200 {
		t.Errorf("Mining stars = %d..%d, want 50..200", cfg.Mining.MinStars, cfg.Mining.MaxStars)
	}
	if cfg.OCR.Model != "glm-4.6v" {
		t.Errorf("OCR.Model = %q, want %q", cfg.OCR.Model, "glm-4.6v")
	}
	if cfg.OCR.MaxTokens != 4096 {
		t.Errorf("OCR.MaxTokens = %d, want 4096", cfg.OCR.MaxTokens)
	}
	if cfg.Paths.ImageVariant != "1024x1024_hl_nl" {
		t.Errorf("Paths.ImageVariant = %q", cfg.Paths.ImageVariant)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default() should validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	yamlContent := `
mining:
  language: go
  limit: 5
ocr:
  model: test-vision
  retry_delay_ms: 500
paths:
  dataset: /tmp/ds.json
server:
  addr: ":9999"
log_level: debug
`
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Mining.Language != "go" {
		t.Errorf("Mining.Language = %q, want %q", cfg.Mining.Language, "go")
	}
	if cfg.Mining.Limit != 5 {
		t.Errorf("Mining.Limit = %d, want 5", cfg.Mining.Limit)
	}
	// Unset fields keep defaults.
	if cfg.Mining.MinStars != 50 {
		t.Errorf("Mining.MinStars = %d, want default 50", cfg.Mining.MinStars)
	}
	if cfg.OCR.Model != "test-vision" {
		t.Errorf("OCR.Model = %q, want %q", cfg.OCR.Model, "test-vision")
	}
	if cfg.Server.Addr != ":9999" {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, ":9999")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}

	got := cfg.OCRClientConfig()
	if got.RetryDelay != 500*time.Millisecond {
		t.Errorf("OCRClientConfig().RetryDelay = %v, want 500ms", got.RetryDelay)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("Load() should fail for missing file")
	}
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadOrDefault() error = %v", err)
	}
	if cfg.Mining.Language != "python" {
		t.Errorf("Mining.Language = %q, want default", cfg.Mining.Language)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "tok-123")
	t.Setenv("OCR_API_KEY", "key-456")
	t.Setenv("PORT", "7070")

	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadOrDefault() error = %v", err)
	}
	if cfg.Mining.Token != "tok-123" {
		t.Errorf("Mining.Token = %q, want env value", cfg.Mining.Token)
	}
	if cfg.OCR.APIKey != "key-456" {
		t.Errorf("OCR.APIKey = %q, want env value", cfg.OCR.APIKey)
	}
	if cfg.Server.Addr != ":7070" {
		t.Errorf("Server.Addr = %q, want :7070", cfg.Server.Addr)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"empty language", func(c *Config) { c.Mining.Language = "" }, "mining.language"},
		{"inverted stars", func(c *Config) { c.Mining.MinStars = 300 }, "min_stars"},
		{"zero limit", func(c *Config) { c.Mining.Limit = 0 }, "mining.limit"},
		{"inverted file bytes", func(c *Config) { c.Mining.MinFileBytes = 30000 }, "min_file_bytes"},
		{"empty model", func(c *Config) { c.OCR.Model = "" }, "ocr.model"},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }, "log_level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() should fail")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}
