package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"kartei/internal/anki"
	"kartei/internal/card"
	"kartei/internal/config"
	"kartei/internal/enrich"
	"kartei/internal/ledger"
	"kartei/internal/logging"
	"kartei/internal/mediafiles"
	"kartei/internal/multiplier"
	"kartei/internal/notifications"
	"kartei/internal/record"
	"kartei/internal/services"
)

// Source names one input CSV and the record type its rows carry.
type Source struct {
	Path string
	Type record.Type
}

// RunReport summarizes one generation run.
type RunReport struct {
	RunID           string
	Level           string
	RecordsLoaded   int
	RecordsRejected int
	RecordsDropped  int
	CardsBuilt      int
	NotesAdded      int
	NotesSkipped    int
	MediaRegistered int
	Enrichment      enrich.Stats
	Errors          int
	Duration        time.Duration
}

// Params carries the Generator's dependencies. Ledger and Notifier are
// optional; everything else is required.
type Params struct {
	Config     *config.Config
	Backend    anki.Backend
	Enricher   *enrich.Enricher
	Multiplier *multiplier.Multiplier
	Ledger     *ledger.Store
	Notifier   notifications.Service
	Logger     *slog.Logger
}

// Generator runs the record-to-deck pipeline end to end: CSV ingestion,
// level multiplication, media enrichment, card building, media registration,
// and note persistence. A file lock under the state directory keeps
// concurrent runs off the shared caches.
type Generator struct {
	cfg        *config.Config
	backend    anki.Backend
	enricher   *enrich.Enricher
	multiplier *multiplier.Multiplier
	registrar  *mediafiles.Registrar
	ledger     *ledger.Store
	notifier   notifications.Service
	logger     *slog.Logger
	lock       *flock.Flock
}

// New constructs a Generator.
func New(p Params) (*Generator, error) {
	if p.Config == nil || p.Backend == nil || p.Enricher == nil || p.Multiplier == nil {
		return nil, errors.New("pipeline requires config, backend, enricher, and multiplier")
	}
	logger := p.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	notifier := p.Notifier
	if notifier == nil {
		notifier = notifications.NewService(p.Config)
	}
	mediaDirs := []string{p.Config.Paths.AudioCacheDir, p.Config.Paths.ImageCacheDir}
	return &Generator{
		cfg:        p.Config,
		backend:    p.Backend,
		enricher:   p.Enricher,
		multiplier: p.Multiplier,
		registrar:  mediafiles.New(p.Backend, mediaDirs, logger),
		ledger:     p.Ledger,
		notifier:   notifier,
		logger:     logger.With(logging.String(logging.FieldComponent, "pipeline")),
		lock:       flock.New(filepath.Join(p.Config.Paths.StateDir, "kartei.lock")),
	}, nil
}

// Run executes one generation run over the given sources. It returns the
// report even on failure, so callers can surface partial progress.
func (g *Generator) Run(ctx context.Context, sources []Source) (*RunReport, error) {
	locked, err := g.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return nil, errors.New("another generation run is already in progress")
	}
	defer func() {
		if err := g.lock.Unlock(); err != nil {
			g.logger.Warn("failed to release run lock", logging.Error(err))
		}
	}()

	report := &RunReport{
		RunID: uuid.NewString(),
		Level: g.cfg.Levels.Level,
	}
	started := time.Now()
	logger := g.logger.With(logging.String(logging.FieldRunID, report.RunID))
	logger.Info("generation run started",
		logging.String("level", report.Level),
		logging.Int("sources", len(sources)))

	err = g.run(ctx, sources, report, logger)
	report.Duration = time.Since(started)
	report.Enrichment = g.enricher.Stats()

	status := ledger.RunStatusCompleted
	if err != nil {
		status = ledger.RunStatusFailed
		report.Errors++
		logger.Error("generation run failed", logging.Error(err))
		if nerr := g.notifier.NotifyError(ctx, err, "generation run"); nerr != nil {
			logger.Warn("error notification failed", logging.Error(nerr))
		}
	} else {
		logger.Info("generation run completed",
			logging.Int("notes_added", report.NotesAdded),
			logging.Int("media_registered", report.MediaRegistered),
			logging.Int("errors", report.Errors))
	}

	g.finishLedger(ctx, report, status, logger)
	if err == nil {
		if nerr := g.notifier.NotifyRunCompleted(ctx, report.Level, report.NotesAdded, report.MediaRegistered, report.Errors, report.Duration); nerr != nil {
			logger.Warn("completion notification failed", logging.Error(nerr))
		}
	}
	return report, err
}

func (g *Generator) run(ctx context.Context, sources []Source, report *RunReport, logger *slog.Logger) error {
	records, err := g.loadSources(sources, report, logger)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return services.Wrap(services.ErrValidation, "pipeline", "load sources", "no valid records in input", nil)
	}

	multiplied := g.multiplier.Multiply(records)
	report.Errors += multiplied.ErrorCount
	report.RecordsDropped = multiplied.Dropped
	records = multiplied.Records

	if nerr := g.notifier.NotifyRunStarted(ctx, report.Level, len(records)); nerr != nil {
		logger.Warn("start notification failed", logging.Error(nerr))
	}
	g.startLedger(ctx, report, logger)

	if err := g.prepareBackend(ctx); err != nil {
		return err
	}

	g.registrar.Reset()
	enriched := g.enricher.EnrichRecords(ctx, records)
	for i, rec := range records {
		if err := g.processRecord(ctx, rec, enriched[i], report, logger); err != nil {
			return err
		}
	}
	return nil
}

// loadSources ingests every input CSV, counting rejected rows rather than
// failing the run.
func (g *Generator) loadSources(sources []Source, report *RunReport, logger *slog.Logger) ([]record.Record, error) {
	var records []record.Record
	for _, source := range sources {
		result, err := record.LoadFile(source.Path, source.Type)
		if err != nil {
			return nil, err
		}
		for _, reject := range result.Rejected {
			logger.Warn("row rejected",
				logging.String("file", filepath.Base(source.Path)),
				logging.Int(logging.FieldRow, reject.Row),
				logging.String("reason", reject.Error()))
		}
		report.RecordsLoaded += len(result.Records)
		report.RecordsRejected += len(result.Rejected)
		report.Errors += len(result.Rejected)
		records = append(records, result.Records...)
	}
	return records, nil
}

// prepareBackend makes sure the deck and every note model exist before any
// note is added.
func (g *Generator) prepareBackend(ctx context.Context) error {
	if err := g.backend.Ping(ctx); err != nil {
		return err
	}
	if err := g.backend.EnsureDeck(ctx, g.cfg.Anki.DeckName); err != nil {
		return err
	}
	for _, nt := range card.NoteTypes() {
		if err := g.backend.EnsureNoteType(ctx, nt); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) processRecord(ctx context.Context, rec record.Record, media map[string]string, report *RunReport, logger *slog.Logger) error {
	cards, err := card.Build(rec, media)
	if err != nil {
		// Shape violations and unsupported types are construction bugs;
		// stop instead of producing a partial deck. Data-level problems
		// (a case form missing from an otherwise well-formed row) only
		// cost that row.
		if services.IsFatal(err) {
			return err
		}
		report.Errors++
		logger.Warn("card build failed",
			logging.Int(logging.FieldRow, rec.Row()),
			logging.Error(err))
		return nil
	}
	for _, c := range cards {
		c.Tags = g.cfg.Anki.Tags
		report.CardsBuilt++
		added, err := g.backend.AddNote(ctx, g.cfg.Anki.DeckName, c)
		if err != nil {
			return err
		}
		if added {
			report.NotesAdded++
		} else {
			report.NotesSkipped++
		}
		registered, err := g.registrar.Register(ctx, c.Fields)
		if err != nil {
			return err
		}
		report.MediaRegistered += registered
		g.touchAssets(ctx, rec, c.Fields, report.RunID, logger)
	}
	return nil
}

// touchAssets records cache usage in the ledger. Ledger trouble never fails
// a run.
func (g *Generator) touchAssets(ctx context.Context, rec record.Record, fields []string, runID string, logger *slog.Logger) {
	if g.ledger == nil {
		return
	}
	word := rec.Field("Word")
	if word == "" {
		word = rec.Field("Infinitive")
	}
	if word == "" {
		word = rec.Field("Phrase")
	}
	for _, field := range fields {
		for _, filename := range mediafiles.ExtractFilenames(field) {
			kind := ledger.KindAudio
			if strings.HasSuffix(filename, ".jpg") || strings.HasSuffix(filename, ".jpeg") || strings.HasSuffix(filename, ".png") {
				kind = ledger.KindImage
			}
			asset := ledger.Asset{Filename: filename, Kind: kind, Word: word, RunID: runID}
			if err := g.ledger.TouchAsset(ctx, asset); err != nil {
				logger.Warn("ledger update failed", logging.Error(err))
				return
			}
		}
	}
}

func (g *Generator) startLedger(ctx context.Context, report *RunReport, logger *slog.Logger) {
	if g.ledger == nil {
		return
	}
	if err := g.ledger.StartRun(ctx, report.RunID, report.Level); err != nil {
		logger.Warn("ledger run start failed", logging.Error(err))
	}
}

func (g *Generator) finishLedger(ctx context.Context, report *RunReport, status string, logger *slog.Logger) {
	if g.ledger == nil {
		return
	}
	totals := ledger.RunTotals{
		RecordsTotal:    report.RecordsLoaded,
		CardsCreated:    report.CardsBuilt,
		NotesAdded:      report.NotesAdded,
		MediaRegistered: report.MediaRegistered,
		ErrorCount:      report.Errors,
	}
	if err := g.ledger.FinishRun(ctx, report.RunID, status, totals); err != nil {
		logger.Warn("ledger run finish failed", logging.Error(err))
	}
}

// Export writes the configured deck as an .apkg package to outPath.
func (g *Generator) Export(ctx context.Context, outPath string) error {
	if strings.TrimSpace(outPath) == "" {
		return errors.New("export: output path required")
	}
	return g.backend.ExportDeck(ctx, g.cfg.Anki.DeckName, outPath)
}
