package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"kartei/internal/pipeline"
	"kartei/internal/record"
)

// stemTypes maps conventional input file stems to record types, so
// `kartei generate nouns.csv verbs.csv` needs no explicit annotations.
var stemTypes = map[string]record.Type{
	"noun":        record.TypeNoun,
	"nouns":       record.TypeNoun,
	"verb":        record.TypeVerbConjugation,
	"verbs":       record.TypeVerbConjugation,
	"imperative":  record.TypeVerbImperative,
	"imperatives": record.TypeVerbImperative,
	"adjective":   record.TypeAdjective,
	"adjectives":  record.TypeAdjective,
	"case":        record.TypeNounCases,
	"cases":       record.TypeNounCases,
	"phrase":      record.TypePhrase,
	"phrases":     record.TypePhrase,
}

// parseSources turns CLI arguments into pipeline sources. Each argument is
// either `type=path` or a bare path whose file stem names the record type.
func parseSources(args []string) ([]pipeline.Source, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("at least one input CSV is required")
	}
	sources := make([]pipeline.Source, 0, len(args))
	for _, arg := range args {
		source, err := parseSource(arg)
		if err != nil {
			return nil, err
		}
		sources = append(sources, source)
	}
	return sources, nil
}

func parseSource(arg string) (pipeline.Source, error) {
	arg = strings.TrimSpace(arg)
	if name, path, ok := strings.Cut(arg, "="); ok {
		typ, err := record.ParseType(strings.TrimSpace(name))
		if err != nil {
			return pipeline.Source{}, fmt.Errorf("input %q: %w", arg, err)
		}
		path = strings.TrimSpace(path)
		if path == "" {
			return pipeline.Source{}, fmt.Errorf("input %q: missing path after %q=", arg, name)
		}
		return pipeline.Source{Path: path, Type: typ}, nil
	}

	stem := strings.ToLower(strings.TrimSuffix(filepath.Base(arg), filepath.Ext(arg)))
	if typ, ok := stemTypes[stem]; ok {
		return pipeline.Source{Path: arg, Type: typ}, nil
	}
	if typ, err := record.ParseType(stem); err == nil {
		return pipeline.Source{Path: arg, Type: typ}, nil
	}
	return pipeline.Source{}, fmt.Errorf("cannot infer record type from %q; use type=path (types: %s)", arg, strings.Join(typeNames(), ", "))
}

func typeNames() []string {
	types := record.Types()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return names
}
