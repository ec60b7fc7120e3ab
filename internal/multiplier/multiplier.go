package multiplier

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"kartei/internal/logging"
	"kartei/internal/record"
)

// Multiplier filters verb records down to the tenses appropriate for one
// proficiency level, grouping rows by infinitive so each verb's cards come
// out in a stable pedagogical order.
type Multiplier struct {
	level     string
	allowed   map[string]struct{}
	preterite map[string]struct{}
	logger    *slog.Logger
}

// Result is the multiplied record list plus the count of records that could
// not be processed. Failed records are kept as-is rather than dropped, so a
// nonzero ErrorCount never shrinks the output on its own.
type Result struct {
	Records    []record.Record
	Dropped    int
	ErrorCount int
}

// New builds a multiplier for the given level. allowedTenses is the level's
// tense allow-list; preteriteAllowlist names the high-frequency infinitives
// that keep their preterite rows even when the level excludes that tense.
func New(level string, allowedTenses, preteriteAllowlist []string, logger *slog.Logger) *Multiplier {
	if logger == nil {
		logger = logging.NewNop()
	}
	m := &Multiplier{
		level:     strings.ToLower(strings.TrimSpace(level)),
		allowed:   make(map[string]struct{}, len(allowedTenses)),
		preterite: make(map[string]struct{}, len(preteriteAllowlist)),
		logger:    logger.With(logging.String(logging.FieldComponent, "multiplier")),
	}
	for _, tense := range allowedTenses {
		m.allowed[normalizeTense(tense)] = struct{}{}
	}
	for _, infinitive := range preteriteAllowlist {
		m.preterite[strings.ToLower(strings.TrimSpace(infinitive))] = struct{}{}
	}
	return m
}

func normalizeTense(tense string) string {
	return strings.ToLower(strings.TrimSpace(tense))
}

// tenseRank orders records within one verb group: present first, then
// perfect, then imperative, then everything else in first-seen order.
func tenseRank(typ record.Type, tense string) int {
	if typ == record.TypeVerbImperative {
		return 2
	}
	switch tense {
	case "present":
		return 0
	case "perfect":
		return 1
	default:
		return 3
	}
}

type groupEntry struct {
	rec   record.Record
	rank  int
	order int
}

type verbGroup struct {
	infinitive string
	entries    []groupEntry
}

// sequence items are either a single passthrough record or a verb group
// placed at the position of its first row.
type sequenceItem struct {
	passthrough *record.Record
	group       *verbGroup
}

// Multiply applies level filtering to conjugation records, passes imperative
// records through unfiltered, and passes every other record type through
// unchanged with a warning. Grouping preserves first-appearance order of
// infinitives; a record the multiplier cannot process is kept unmodified and
// counted in ErrorCount.
func (m *Multiplier) Multiply(records []record.Record) Result {
	var (
		sequence []sequenceItem
		groups   = make(map[string]*verbGroup)
		result   Result
	)

	for _, rec := range records {
		switch rec.Type() {
		case record.TypeVerbConjugation, record.TypeVerbImperative:
			infinitive := strings.ToLower(strings.TrimSpace(rec.Field("Infinitive")))
			if infinitive == "" {
				m.logger.Warn("verb record has no infinitive, keeping as-is",
					logging.Int(logging.FieldRow, rec.Row()),
					logging.String(logging.FieldRecordType, string(rec.Type())))
				result.ErrorCount++
				r := rec
				sequence = append(sequence, sequenceItem{passthrough: &r})
				continue
			}
			keep, err := m.keepTense(rec, infinitive)
			if err != nil {
				m.logger.Warn("cannot evaluate tense filter, keeping record as-is",
					logging.Int(logging.FieldRow, rec.Row()),
					logging.String(logging.FieldInfinitive, infinitive),
					logging.Error(err))
				result.ErrorCount++
				keep = true
			}
			group, ok := groups[infinitive]
			if !ok {
				group = &verbGroup{infinitive: infinitive}
				groups[infinitive] = group
				sequence = append(sequence, sequenceItem{group: group})
			}
			if !keep {
				result.Dropped++
				m.logger.Debug("tense dropped for level",
					logging.String(logging.FieldInfinitive, infinitive),
					logging.String(logging.FieldTense, normalizeTense(rec.Field("Tense"))),
					logging.String("level", m.level))
				continue
			}
			group.entries = append(group.entries, groupEntry{
				rec:   rec,
				rank:  tenseRank(rec.Type(), normalizeTense(rec.Field("Tense"))),
				order: len(group.entries),
			})
		default:
			m.logger.Debug("record type has no multiplier handling, passing through",
				logging.String(logging.FieldRecordType, string(rec.Type())),
				logging.Int(logging.FieldRow, rec.Row()))
			r := rec
			sequence = append(sequence, sequenceItem{passthrough: &r})
		}
	}

	for _, item := range sequence {
		if item.passthrough != nil {
			result.Records = append(result.Records, *item.passthrough)
			continue
		}
		entries := item.group.entries
		sort.SliceStable(entries, func(i, j int) bool {
			if entries[i].rank != entries[j].rank {
				return entries[i].rank < entries[j].rank
			}
			return entries[i].order < entries[j].order
		})
		for _, entry := range entries {
			result.Records = append(result.Records, entry.rec)
		}
	}
	return result
}

// keepTense decides whether one conjugation row survives level filtering.
// Imperative records are always kept.
func (m *Multiplier) keepTense(rec record.Record, infinitive string) (bool, error) {
	if rec.Type() == record.TypeVerbImperative {
		return true, nil
	}
	tense := normalizeTense(rec.Field("Tense"))
	if tense == "" {
		return false, fmt.Errorf("conjugation record for %q has no tense", infinitive)
	}
	if _, ok := m.allowed[tense]; ok {
		return true, nil
	}
	if tense == "preterite" {
		_, ok := m.preterite[infinitive]
		return ok, nil
	}
	return false, nil
}
