package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTTS()
	c.normalizeImageSearch()
	c.normalizeLLM()
	c.normalizeAnki()
	c.normalizeLevels()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.AudioCacheDir) == "" {
		c.Paths.AudioCacheDir = defaultAudioCacheDir
	}
	if c.Paths.AudioCacheDir, err = expandPath(c.Paths.AudioCacheDir); err != nil {
		return fmt.Errorf("paths.audio_cache_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ImageCacheDir) == "" {
		c.Paths.ImageCacheDir = defaultImageCacheDir
	}
	if c.Paths.ImageCacheDir, err = expandPath(c.Paths.ImageCacheDir); err != nil {
		return fmt.Errorf("paths.image_cache_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ExportDir) != "" {
		if c.Paths.ExportDir, err = expandPath(c.Paths.ExportDir); err != nil {
			return fmt.Errorf("paths.export_dir: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeTTS() {
	if c.TTS.APIKey == "" {
		if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
			c.TTS.APIKey = strings.TrimSpace(value)
		}
	}
	c.TTS.BaseURL = strings.TrimRight(strings.TrimSpace(c.TTS.BaseURL), "/")
	if c.TTS.BaseURL == "" {
		c.TTS.BaseURL = defaultTTSBaseURL
	}
	c.TTS.Model = strings.TrimSpace(c.TTS.Model)
	if c.TTS.Model == "" {
		c.TTS.Model = defaultTTSModel
	}
	c.TTS.Voice = strings.ToLower(strings.TrimSpace(c.TTS.Voice))
	if c.TTS.Voice == "" {
		c.TTS.Voice = defaultTTSVoice
	}
	if c.TTS.TimeoutSeconds <= 0 {
		c.TTS.TimeoutSeconds = defaultTTSTimeout
	}
}

func (c *Config) normalizeImageSearch() {
	c.ImageSearch.BaseURL = strings.TrimRight(strings.TrimSpace(c.ImageSearch.BaseURL), "/")
	if c.ImageSearch.BaseURL == "" {
		c.ImageSearch.BaseURL = defaultImageSearchURL
	}
	c.ImageSearch.License = strings.ToLower(strings.TrimSpace(c.ImageSearch.License))
	if c.ImageSearch.TimeoutSeconds <= 0 {
		c.ImageSearch.TimeoutSeconds = defaultImageSearchTimeout
	}
}

func (c *Config) normalizeLLM() {
	if c.LLM.APIKey == "" {
		if value, ok := os.LookupEnv("OPENROUTER_API_KEY"); ok {
			c.LLM.APIKey = strings.TrimSpace(value)
		}
	}
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if c.LLM.Model == "" {
		c.LLM.Model = defaultLLMModel
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeout
	}
}

func (c *Config) normalizeAnki() {
	c.Anki.ConnectURL = strings.TrimRight(strings.TrimSpace(c.Anki.ConnectURL), "/")
	if c.Anki.ConnectURL == "" {
		c.Anki.ConnectURL = defaultAnkiConnectURL
	}
	c.Anki.DeckName = strings.TrimSpace(c.Anki.DeckName)
	if c.Anki.DeckName == "" {
		c.Anki.DeckName = defaultAnkiDeckName
	}
	if c.Anki.TimeoutSeconds <= 0 {
		c.Anki.TimeoutSeconds = defaultAnkiTimeout
	}
	tags := make([]string, 0, len(c.Anki.Tags))
	for _, tag := range c.Anki.Tags {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	c.Anki.Tags = tags
}

func (c *Config) normalizeLevels() {
	c.Levels.Level = strings.ToLower(strings.TrimSpace(c.Levels.Level))
	if c.Levels.Level == "" {
		c.Levels.Level = defaultLevel
	}
	if len(c.Levels.Tenses) == 0 {
		c.Levels.Tenses = Default().Levels.Tenses
	}
	normalized := make(map[string][]string, len(c.Levels.Tenses))
	for level, tenses := range c.Levels.Tenses {
		level = strings.ToLower(strings.TrimSpace(level))
		if level == "" {
			continue
		}
		cleaned := make([]string, 0, len(tenses))
		for _, tense := range tenses {
			tense = strings.ToLower(strings.TrimSpace(tense))
			if tense != "" {
				cleaned = append(cleaned, tense)
			}
		}
		normalized[level] = cleaned
	}
	c.Levels.Tenses = normalized

	allow := make([]string, 0, len(c.Levels.PreteriteAllowlist))
	for _, infinitive := range c.Levels.PreteriteAllowlist {
		infinitive = strings.ToLower(strings.TrimSpace(infinitive))
		if infinitive != "" {
			allow = append(allow, infinitive)
		}
	}
	c.Levels.PreteriteAllowlist = allow
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays <= 0 {
		c.Logging.RetentionDays = defaultLogRetentionDays
	}
}
