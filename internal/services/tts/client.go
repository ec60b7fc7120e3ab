package tts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"kartei/internal/fileutil"
)

const defaultHTTPTimeout = 60 * time.Second

// Config captures the runtime settings for the speech synthesis API.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	Voice          string
	TimeoutSeconds int
}

// Client synthesizes German speech as mp3 files via an OpenAI-compatible
// audio endpoint.
type Client struct {
	api   *openai.Client
	model string
	voice string
}

// Option customizes the client.
type Option func(*clientOptions)

type clientOptions struct {
	httpClient *http.Client
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		if client != nil {
			o.httpClient = client
		}
	}
}

// NewClient constructs a speech client from the supplied configuration.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("tts: api key required")
	}
	var options clientOptions
	for _, opt := range opts {
		opt(&options)
	}

	apiCfg := openai.DefaultConfig(apiKey)
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		apiCfg.BaseURL = strings.TrimSuffix(base, "/")
	}
	if options.httpClient != nil {
		apiCfg.HTTPClient = options.httpClient
	} else {
		timeout := defaultHTTPTimeout
		if cfg.TimeoutSeconds > 0 {
			timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
		}
		apiCfg.HTTPClient = &http.Client{Timeout: timeout}
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gpt-4o-mini-tts"
	}
	voice := strings.ToLower(strings.TrimSpace(cfg.Voice))
	if voice == "" {
		voice = "alloy"
	}
	return &Client{
		api:   openai.NewClientWithConfig(apiCfg),
		model: model,
		voice: voice,
	}, nil
}

// Generate synthesizes text and writes the mp3 to outPath. The file is
// written atomically so an interrupted run never leaves a truncated cache
// entry behind.
func (c *Client) Generate(ctx context.Context, text, outPath string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return errors.New("tts generate: text required")
	}
	resp, err := c.api.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(c.model),
		Input:          text,
		Voice:          openai.SpeechVoice(c.voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return fmt.Errorf("tts generate: %w", err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return fmt.Errorf("tts generate: read audio: %w", err)
	}
	if len(audio) == 0 {
		return errors.New("tts generate: empty audio response")
	}
	if err := fileutil.WriteFileAtomic(outPath, audio, 0o644); err != nil {
		return fmt.Errorf("tts generate: write %s: %w", outPath, err)
	}
	return nil
}

// HealthCheck verifies the API key is accepted by listing models.
func (c *Client) HealthCheck(ctx context.Context) error {
	if _, err := c.api.ListModels(ctx); err != nil {
		return fmt.Errorf("tts health: %w", err)
	}
	return nil
}
