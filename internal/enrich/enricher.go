package enrich

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"kartei/internal/logging"
	"kartei/internal/record"
	"kartei/internal/textutil"
	"kartei/internal/vocab"
)

// AudioGenerator synthesizes speech for text and writes it to outPath.
type AudioGenerator interface {
	Generate(ctx context.Context, text, outPath string) error
}

// ImageDownloader finds an image for query and writes it to outPath. It
// returns false without error when the search produced no usable result.
type ImageDownloader interface {
	Download(ctx context.Context, query, outPath string) (bool, error)
}

// Hasher derives the cache filename stem for a piece of audio text. The
// default is md5, chosen for stable short hex names rather than for any
// cryptographic property.
type Hasher func(text string) string

// Sleeper abstracts the inter-call delay so tests run without waiting.
type Sleeper interface {
	Sleep(d time.Duration)
}

type realSleeper struct{}

func (realSleeper) Sleep(d time.Duration) { time.Sleep(d) }

// Stats counts enrichment outcomes over the lifetime of one Enricher.
type Stats struct {
	AudioGenerated int
	AudioReused    int
	ImageGenerated int
	ImageReused    int
	Failed         int
}

// Enricher produces media values for domain models, backed by two on-disk
// caches: audio files named by content hash, images named by headword. Cache
// hits never touch an external service.
type Enricher struct {
	audioDir string
	imageDir string
	tts      AudioGenerator
	images   ImageDownloader
	queries  vocab.QueryGenerator
	hash     Hasher
	sleeper  Sleeper
	delay    time.Duration
	logger   *slog.Logger
	stats    Stats
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithHasher replaces the content hasher used for audio cache filenames.
func WithHasher(h Hasher) Option {
	return func(e *Enricher) {
		if h != nil {
			e.hash = h
		}
	}
}

// WithSleeper replaces the delay implementation.
func WithSleeper(s Sleeper) Option {
	return func(e *Enricher) {
		if s != nil {
			e.sleeper = s
		}
	}
}

// WithRequestDelay sets a flat pause inserted after each external call, for
// rate-limited providers.
func WithRequestDelay(d time.Duration) Option {
	return func(e *Enricher) {
		if d > 0 {
			e.delay = d
		}
	}
}

// WithLogger sets the enricher's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Enricher) {
		if logger != nil {
			e.logger = logger.With(logging.String(logging.FieldComponent, "enricher"))
		}
	}
}

// New builds an Enricher writing into the given cache directories. tts,
// images, and queries may be nil; the corresponding enrichment paths then
// only serve cache hits.
func New(audioDir, imageDir string, tts AudioGenerator, images ImageDownloader, queries vocab.QueryGenerator, opts ...Option) *Enricher {
	e := &Enricher{
		audioDir: audioDir,
		imageDir: imageDir,
		tts:      tts,
		images:   images,
		queries:  queries,
		hash:     MD5Hex,
		sleeper:  realSleeper{},
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MD5Hex is the default audio cache hasher.
func MD5Hex(text string) string {
	sum := md5.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Stats returns the counters accumulated so far.
func (e *Enricher) Stats() Stats { return e.stats }

// Enrich produces the media values for one domain model. Failures in one
// media field never block the others; a failed field is simply absent from
// the returned map.
func (e *Enricher) Enrich(ctx context.Context, model vocab.Model) map[string]string {
	media := make(map[string]string)
	rec := model.Record()
	word := model.PrimaryWord()

	for field, text := range model.AudioSegments() {
		if existing := rec.Media(field); existing != "" {
			media[field] = existing
			continue
		}
		value, err := e.enrichAudio(ctx, text)
		if err != nil {
			e.stats.Failed++
			e.logger.Warn("audio enrichment failed",
				logging.String(logging.FieldWord, word),
				logging.String(logging.FieldMediaKind, field),
				logging.Error(err))
			continue
		}
		media[field] = value
	}

	if model.WantsImage() {
		if existing := rec.Media(record.FieldImage); existing != "" {
			media[record.FieldImage] = existing
		} else if filename, ok := e.enrichImage(ctx, model); ok {
			media[record.FieldImage] = filename
		}
	}
	return media
}

// EnrichRecords enriches a batch. The output always has exactly one media
// map per input record, in input order, even when individual records fail to
// enrich or have no registered domain model.
func (e *Enricher) EnrichRecords(ctx context.Context, records []record.Record) []map[string]string {
	out := make([]map[string]string, len(records))
	for i, rec := range records {
		model, err := vocab.New(rec)
		if err != nil {
			e.stats.Failed++
			e.logger.Warn("no domain model for record, skipping enrichment",
				logging.String(logging.FieldRecordType, string(rec.Type())),
				logging.Int(logging.FieldRow, rec.Row()),
				logging.Error(err))
			out[i] = map[string]string{}
			continue
		}
		out[i] = e.Enrich(ctx, model)
	}
	return out
}

// enrichAudio returns the playback tag for text, generating the file on a
// cache miss. Identical text always maps to the same file, so two records
// sharing an example sentence share one mp3.
func (e *Enricher) enrichAudio(ctx context.Context, text string) (string, error) {
	filename := e.hash(text) + ".mp3"
	path := filepath.Join(e.audioDir, filename)
	if fileExists(path) {
		e.stats.AudioReused++
		return soundTag(filename), nil
	}
	if e.tts == nil {
		return "", errNoAudioGenerator
	}
	if err := e.tts.Generate(ctx, text, path); err != nil {
		return "", err
	}
	e.pause()
	e.stats.AudioGenerated++
	e.logger.Info("audio generated",
		logging.String(logging.FieldFilename, filename))
	return soundTag(filename), nil
}

// enrichImage returns the cached or freshly downloaded image filename for
// the model's headword. The existence check runs before any query
// generation, so illustrated words never spend API quota.
func (e *Enricher) enrichImage(ctx context.Context, model vocab.Model) (string, bool) {
	word := model.PrimaryWord()
	filename := ImageFilename(word)
	path := filepath.Join(e.imageDir, filename)
	if fileExists(path) {
		e.stats.ImageReused++
		return filename, true
	}
	if e.images == nil {
		return "", false
	}
	query := model.SearchQuery(ctx, e.queries)
	found, err := e.images.Download(ctx, query, path)
	e.pause()
	if err != nil {
		e.stats.Failed++
		e.logger.Warn("image enrichment failed",
			logging.String(logging.FieldWord, word),
			logging.Error(err))
		return "", false
	}
	if !found {
		e.logger.Info("no image found",
			logging.String(logging.FieldWord, word),
			logging.String("query", query))
		return "", false
	}
	e.stats.ImageGenerated++
	e.logger.Info("image downloaded",
		logging.String(logging.FieldWord, word),
		logging.String(logging.FieldFilename, filename))
	return filename, true
}

func (e *Enricher) pause() {
	if e.delay > 0 {
		e.sleeper.Sleep(e.delay)
	}
}

// ImageFilename derives the cache filename for a headword: diacritics
// folded, lower-cased, token-sanitized, extension .jpg.
func ImageFilename(word string) string {
	return textutil.SanitizeToken(strings.ToLower(textutil.FoldDiacritics(word))) + ".jpg"
}

func soundTag(filename string) string {
	return "[sound:" + filename + "]"
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
