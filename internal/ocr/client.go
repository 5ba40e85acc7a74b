// Package ocr transcribes rendered code page images with a vision-capable
// chat model and reassembles per-page transcripts into one text.
package ocr

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/avezina/codeocr/internal/telemetry"
)

const (
	systemPrompt = "You are an OCR engine for code images."
	userPrompt   = "Transcribe the code exactly. Output plain text only. Preserve all whitespace and indentation."
)

// Config holds OCR client settings. Zero values fall back to defaults.
type Config struct {
	APIKey     string
	BaseURL    string // OpenAI-compatible endpoint; empty uses the default API
	Model      string
	MaxTokens  int64
	MaxRetries int
	RetryDelay time.Duration
	PoolSize   int
	Timeout    time.Duration
}

// Client sends page images to a vision chat model for transcription.
type Client struct {
	client     openai.Client
	model      string
	maxTokens  int64
	maxRetries int
	retryDelay time.Duration
}

// WithDefaults fills zero-valued fields with the standard settings.
func (c Config) WithDefaults() Config {
	if c.Model == "" {
		c.Model = "glm-4.6v"
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = 4096
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = 2 * time.Second
	}
	if c.PoolSize <= 0 {
		c.PoolSize = 10
	}
	if c.Timeout <= 0 {
		c.Timeout = 120 * time.Second
	}
	return c
}

// NewClient creates an OCR client over an OpenAI-compatible chat API.
func NewClient(cfg Config) *Client {
	cfg = cfg.WithDefaults()

	opts := []option.RequestOption{
		option.WithHTTPClient(&http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        cfg.PoolSize,
				MaxIdleConnsPerHost: cfg.PoolSize,
				IdleConnTimeout:     90 * time.Second,
				ForceAttemptHTTP2:   true,
			},
		}),
	}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Client{
		client:     openai.NewClient(opts...),
		model:      cfg.Model,
		maxTokens:  cfg.MaxTokens,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
	}
}

// TranscribeImage OCRs a single PNG page. Empty transcripts and transport
// errors are retried up to MaxRetries attempts with a fixed pause between.
func (c *Client) TranscribeImage(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("ocr read image: %w", err)
	}
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)

	start := time.Now()
	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		telemetry.OCRRequests.Inc()

		text, err := c.transcribe(ctx, dataURL)
		if err == nil && text != "" {
			telemetry.StageDuration.WithLabelValues("ocr").Observe(time.Since(start).Seconds())
			return text, nil
		}

		if err != nil {
			lastErr = err
			telemetry.Errors.WithLabelValues("ocr", "request").Inc()
			slog.Warn("ocr attempt failed", "image", path, "attempt", attempt, "error", err)
		} else {
			lastErr = fmt.Errorf("empty transcript")
			slog.Warn("ocr returned empty transcript", "image", path, "attempt", attempt)
		}

		if attempt < c.maxRetries {
			telemetry.OCRRetries.Inc()
			select {
			case <-time.After(c.retryDelay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}

	telemetry.OCRFailures.Inc()
	return "", fmt.Errorf("ocr %s: %w after %d attempts", path, lastErr, c.maxRetries)
}

func (c *Client) transcribe(ctx context.Context, dataURL string) (string, error) {
	parts := []openai.ChatCompletionContentPartUnionParam{
		{
			OfText: &openai.ChatCompletionContentPartTextParam{Text: userPrompt},
		},
		{
			OfImageURL: &openai.ChatCompletionContentPartImageParam{
				ImageURL: openai.ChatCompletionContentPartImageImageURLParam{URL: dataURL},
			},
		},
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.model),
		Temperature: openai.Float(0),
		MaxTokens:   openai.Int(c.maxTokens),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfArrayOfContentParts: parts,
					},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: no choices")
	}

	return strings.TrimSpace(StripBoxMarkers(resp.Choices[0].Message.Content)), nil
}
