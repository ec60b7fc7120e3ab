package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTTS(); err != nil {
		return err
	}
	if err := c.validateImageSearch(); err != nil {
		return err
	}
	if err := c.validateLLM(); err != nil {
		return err
	}
	if err := c.validateAnki(); err != nil {
		return err
	}
	if err := c.validateLevels(); err != nil {
		return err
	}
	if err := c.validateEnrichment(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTTS() error {
	if c.TTS.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/kartei/config.toml"
		}
		return fmt.Errorf("tts.api_key is required. Set OPENAI_API_KEY env var or edit %s (create with 'kartei config init')", defaultPath)
	}
	if strings.TrimSpace(c.TTS.BaseURL) == "" {
		return errors.New("tts.base_url must be set")
	}
	return nil
}

func (c *Config) validateImageSearch() error {
	if strings.TrimSpace(c.ImageSearch.BaseURL) == "" {
		return errors.New("image_search.base_url must be set")
	}
	if c.ImageSearch.TimeoutSeconds <= 0 {
		return errors.New("image_search.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateLLM() error {
	if strings.TrimSpace(c.LLM.BaseURL) == "" {
		return errors.New("llm.base_url must be set")
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		return errors.New("llm.model must be set")
	}
	return nil
}

func (c *Config) validateAnki() error {
	if strings.TrimSpace(c.Anki.ConnectURL) == "" {
		return errors.New("anki.connect_url must be set")
	}
	if strings.TrimSpace(c.Anki.DeckName) == "" {
		return errors.New("anki.deck_name must be set")
	}
	return nil
}

func (c *Config) validateLevels() error {
	if _, ok := c.Levels.Tenses[c.Levels.Level]; !ok {
		known := make([]string, 0, len(c.Levels.Tenses))
		for level := range c.Levels.Tenses {
			known = append(known, level)
		}
		return fmt.Errorf("levels.level %q has no tense list (configured levels: %s)", c.Levels.Level, strings.Join(known, ", "))
	}
	for level, tenses := range c.Levels.Tenses {
		if len(tenses) == 0 {
			return fmt.Errorf("levels.tenses.%s must include at least one tense", level)
		}
	}
	return nil
}

func (c *Config) validateEnrichment() error {
	if c.Enrichment.RequestDelayMS < 0 {
		return errors.New("enrichment.request_delay_ms must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
