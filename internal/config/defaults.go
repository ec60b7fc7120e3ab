package config

const (
	defaultAudioCacheDir      = "~/.local/share/kartei/media/audio"
	defaultImageCacheDir      = "~/.local/share/kartei/media/images"
	defaultStateDir           = "~/.local/share/kartei/state"
	defaultLogDir             = "~/.local/share/kartei/logs"
	defaultExportDir          = "~/decks"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultLogRetentionDays   = 60
	defaultTTSBaseURL         = "https://api.openai.com/v1"
	defaultTTSModel           = "gpt-4o-mini-tts"
	defaultTTSVoice           = "alloy"
	defaultTTSTimeout         = 60
	defaultImageSearchURL     = "https://api.openverse.org/v1/images"
	defaultImageSearchLicense = "by"
	defaultImageSearchTimeout = 30
	defaultLLMBaseURL         = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel           = "google/gemini-3-flash-preview"
	defaultLLMReferer         = "https://github.com/five82/kartei"
	defaultLLMTitle           = "Kartei Query Builder"
	defaultLLMTimeout         = 60
	defaultAnkiConnectURL     = "http://127.0.0.1:8765"
	defaultAnkiDeckName       = "Kartei::Deutsch"
	defaultAnkiTimeout        = 30
	defaultLevel              = "a1"
	defaultNotifyTimeout      = 10
	defaultRequestDelayMS     = 0
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			AudioCacheDir: defaultAudioCacheDir,
			ImageCacheDir: defaultImageCacheDir,
			StateDir:      defaultStateDir,
			LogDir:        defaultLogDir,
			ExportDir:     defaultExportDir,
		},
		TTS: TTS{
			BaseURL:        defaultTTSBaseURL,
			Model:          defaultTTSModel,
			Voice:          defaultTTSVoice,
			TimeoutSeconds: defaultTTSTimeout,
		},
		ImageSearch: ImageSearch{
			BaseURL:        defaultImageSearchURL,
			License:        defaultImageSearchLicense,
			TimeoutSeconds: defaultImageSearchTimeout,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Referer:        defaultLLMReferer,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeout,
		},
		Anki: Anki{
			ConnectURL:     defaultAnkiConnectURL,
			DeckName:       defaultAnkiDeckName,
			Tags:           []string{"kartei"},
			TimeoutSeconds: defaultAnkiTimeout,
		},
		Levels: Levels{
			Level: defaultLevel,
			Tenses: map[string][]string{
				"a1": {"present", "perfect"},
				"a2": {"present", "perfect", "preterite", "imperative"},
				"b1": {"present", "perfect", "preterite", "future", "imperative"},
				"b2": {"present", "perfect", "preterite", "future", "subjunctive2", "imperative"},
			},
			// High-frequency irregular verbs whose preterite forms are taught
			// early even when the level's tense set excludes preterite.
			PreteriteAllowlist: []string{
				"sein", "haben", "werden", "gehen", "kommen", "geben",
				"wissen", "denken", "finden", "stehen",
			},
		},
		Enrichment: Enrichment{
			RequestDelayMS: defaultRequestDelayMS,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			Runs:           true,
			Errors:         true,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
