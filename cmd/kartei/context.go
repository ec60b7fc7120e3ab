package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"kartei/internal/anki"
	"kartei/internal/config"
	"kartei/internal/enrich"
	"kartei/internal/ledger"
	"kartei/internal/logging"
	"kartei/internal/multiplier"
	"kartei/internal/notifications"
	"kartei/internal/pipeline"
	"kartei/internal/services/imagesearch"
	"kartei/internal/services/textgen"
	"kartei/internal/services/tts"
	"kartei/internal/vocab"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

func (c *commandContext) newLogger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays, cfg.Paths.LogDir, "kartei*.log", "kartei.log")
	return logger, nil
}

// newGenerator wires the full pipeline: service clients, enricher,
// multiplier, ledger, notifications, and the deck backend. The caller owns
// the returned ledger store and must close it.
func (c *commandContext) newGenerator(logger *slog.Logger) (*pipeline.Generator, *ledger.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}

	ttsClient, err := tts.NewClient(tts.Config{
		APIKey:         cfg.TTS.APIKey,
		BaseURL:        cfg.TTS.BaseURL,
		Model:          cfg.TTS.Model,
		Voice:          cfg.TTS.Voice,
		TimeoutSeconds: cfg.TTS.TimeoutSeconds,
	})
	if err != nil {
		return nil, nil, err
	}

	imageClient := imagesearch.NewClient(imagesearch.Config{
		BaseURL:        cfg.ImageSearch.BaseURL,
		License:        cfg.ImageSearch.License,
		TimeoutSeconds: cfg.ImageSearch.TimeoutSeconds,
	})

	var queries vocab.QueryGenerator
	if llm := cfg.GetLLM(); llm.APIKey != "" {
		queries = textgen.NewClient(textgen.Config{
			APIKey:         llm.APIKey,
			BaseURL:        llm.BaseURL,
			Model:          llm.Model,
			Referer:        llm.Referer,
			Title:          llm.Title,
			TimeoutSeconds: llm.TimeoutSeconds,
		})
	}

	enricher := enrich.New(cfg.Paths.AudioCacheDir, cfg.Paths.ImageCacheDir, ttsClient, imageClient, queries,
		enrich.WithRequestDelay(time.Duration(cfg.Enrichment.RequestDelayMS)*time.Millisecond),
		enrich.WithLogger(logger),
	)

	level := strings.ToLower(strings.TrimSpace(cfg.Levels.Level))
	mult := multiplier.New(level, cfg.Levels.Tenses[level], cfg.Levels.PreteriteAllowlist, logger)

	backend := anki.NewConnectClient(anki.ConnectConfig{
		URL:            cfg.Anki.ConnectURL,
		TimeoutSeconds: cfg.Anki.TimeoutSeconds,
	})

	store, err := ledger.Open(cfg.Paths.StateDir)
	if err != nil {
		return nil, nil, fmt.Errorf("open ledger: %w", err)
	}

	gen, err := pipeline.New(pipeline.Params{
		Config:     cfg,
		Backend:    backend,
		Enricher:   enricher,
		Multiplier: mult,
		Ledger:     store,
		Notifier:   notifications.NewService(cfg),
		Logger:     logger,
	})
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return gen, store, nil
}
