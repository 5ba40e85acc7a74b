package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/avezina/codeocr/internal/env"
	"github.com/avezina/codeocr/internal/mining"
	"github.com/avezina/codeocr/internal/ocr"
)

// Config holds all application configuration.
type Config struct {
	Mining   MiningConfig `yaml:"mining"`
	OCR      OCRConfig    `yaml:"ocr"`
	Paths    PathsConfig  `yaml:"paths"`
	Server   ServerConfig `yaml:"server"`
	LogLevel string       `yaml:"log_level"`
}

// MiningConfig holds GitHub sample collection settings.
type MiningConfig struct {
	Language       string `yaml:"language"`
	CreatedAfter   string `yaml:"created_after"`
	MinStars       int    `yaml:"min_stars"`
	MaxStars       int    `yaml:"max_stars"`
	Limit          int    `yaml:"limit"`
	PoolSize       int    `yaml:"pool_size"`
	Randomize      bool   `yaml:"randomize"`
	MinFileBytes   int    `yaml:"min_file_bytes"`
	MaxFileBytes   int    `yaml:"max_file_bytes"`
	MinFileLines   int    `yaml:"min_file_lines"`
	MaxFileLines   int    `yaml:"max_file_lines"`
	RequestDelayMs int    `yaml:"request_delay_ms"`
	Token          string `yaml:"token"` // GITHUB_TOKEN overrides
}

// OCRConfig holds vision model settings.
type OCRConfig struct {
	Model        string `yaml:"model"`
	BaseURL      string `yaml:"base_url"`
	APIKey       string `yaml:"api_key"` // OCR_API_KEY overrides
	MaxTokens    int64  `yaml:"max_tokens"`
	MaxRetries   int    `yaml:"max_retries"`
	RetryDelayMs int    `yaml:"retry_delay_ms"`
	PoolSize     int    `yaml:"pool_size"`
	TimeoutS     int    `yaml:"timeout_s"`
}

// PathsConfig holds dataset and image layout settings.
type PathsConfig struct {
	Dataset      string `yaml:"dataset"`
	ImagesRoot   string `yaml:"images_root"`
	ImageVariant string `yaml:"image_variant"`
}

// ServerConfig holds the results server settings.
type ServerConfig struct {
	Addr        string `yaml:"addr"`
	DatabaseURL string `yaml:"database_url"` // DATABASE_URL overrides
}

// Default returns a Config with sensible default values.
func Default() *Config {
	m := mining.DefaultConfig()
	o := ocr.Config{}.WithDefaults()
	return &Config{
		Mining: MiningConfig{
			Language:       m.Language,
			CreatedAfter:   m.CreatedAfter,
			MinStars:       m.MinStars,
			MaxStars:       m.MaxStars,
			Limit:          m.Limit,
			PoolSize:       m.PoolSize,
			Randomize:      m.Randomize,
			MinFileBytes:   m.File.MinBytes,
			MaxFileBytes:   m.File.MaxBytes,
			MinFileLines:   m.File.MinLines,
			MaxFileLines:   m.File.MaxLines,
			RequestDelayMs: int(m.RequestDelay / time.Millisecond),
		},
		OCR: OCRConfig{
			Model:        o.Model,
			MaxTokens:    o.MaxTokens,
			MaxRetries:   o.MaxRetries,
			RetryDelayMs: int(o.RetryDelay / time.Millisecond),
			PoolSize:     o.PoolSize,
			TimeoutS:     int(o.Timeout / time.Second),
		},
		Paths: PathsConfig{
			Dataset:      "dataset/dataset.json",
			ImagesRoot:   "images",
			ImageVariant: "1024x1024_hl_nl",
		},
		Server: ServerConfig{
			Addr: ":8090",
		},
		LogLevel: "info",
	}
}

// Load reads and parses a YAML config file. Missing fields are filled with
// defaults, then environment variables override the secrets.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	cfg.applyEnv()

	return cfg, nil
}

// LoadOrDefault loads the file when it exists and falls back to defaults
// (plus environment overrides) when it does not.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		cfg.applyEnv()
		return cfg, nil
	}
	return Load(path)
}

func (c *Config) applyEnv() {
	c.Mining.Token = env.Str("GITHUB_TOKEN", c.Mining.Token)
	c.Mining.Randomize = env.Bool("MINING_RANDOMIZE", c.Mining.Randomize)
	c.OCR.APIKey = env.Str("OCR_API_KEY", c.OCR.APIKey)
	c.OCR.BaseURL = env.Str("OCR_BASE_URL", c.OCR.BaseURL)
	c.OCR.TimeoutS = env.Int("OCR_TIMEOUT_S", c.OCR.TimeoutS)
	c.Server.DatabaseURL = env.Str("DATABASE_URL", c.Server.DatabaseURL)
	if port := env.Str("PORT", ""); port != "" {
		c.Server.Addr = ":" + port
	}
}

// Validate checks the config for invalid values.
func (c *Config) Validate() error {
	if c.Mining.Language == "" {
		return fmt.Errorf("mining.language must not be empty")
	}
	if c.Mining.MinStars > c.Mining.MaxStars {
		return fmt.Errorf("mining.min_stars must be <= mining.max_stars")
	}
	if c.Mining.Limit <= 0 {
		return fmt.Errorf("mining.limit must be > 0")
	}
	if c.Mining.MinFileBytes >= c.Mining.MaxFileBytes {
		return fmt.Errorf("mining.min_file_bytes must be < mining.max_file_bytes")
	}
	if c.OCR.Model == "" {
		return fmt.Errorf("ocr.model must not be empty")
	}
	if c.OCR.MaxTokens <= 0 {
		return fmt.Errorf("ocr.max_tokens must be > 0")
	}
	if c.Paths.Dataset == "" {
		return fmt.Errorf("paths.dataset must not be empty")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn, or error, got %q", c.LogLevel)
	}
	return nil
}

// MinerConfig translates the YAML section into the miner's runtime config.
func (c *Config) MinerConfig() mining.Config {
	return mining.Config{
		Language:     c.Mining.Language,
		CreatedAfter: c.Mining.CreatedAfter,
		MinStars:     c.Mining.MinStars,
		MaxStars:     c.Mining.MaxStars,
		Limit:        c.Mining.Limit,
		PoolSize:     c.Mining.PoolSize,
		Randomize:    c.Mining.Randomize,
		File: mining.FileFilter{
			MinBytes: c.Mining.MinFileBytes,
			MaxBytes: c.Mining.MaxFileBytes,
			MinLines: c.Mining.MinFileLines,
			MaxLines: c.Mining.MaxFileLines,
		},
		RequestDelay: time.Duration(c.Mining.RequestDelayMs) * time.Millisecond,
	}
}

// OCRClientConfig translates the YAML section into the OCR client's config.
func (c *Config) OCRClientConfig() ocr.Config {
	return ocr.Config{
		APIKey:     c.OCR.APIKey,
		BaseURL:    c.OCR.BaseURL,
		Model:      c.OCR.Model,
		MaxTokens:  c.OCR.MaxTokens,
		MaxRetries: c.OCR.MaxRetries,
		RetryDelay: time.Duration(c.OCR.RetryDelayMs) * time.Millisecond,
		PoolSize:   c.OCR.PoolSize,
		Timeout:    time.Duration(c.OCR.TimeoutS) * time.Second,
	}
}
