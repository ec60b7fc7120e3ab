package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestPrettyHandlerIncludesComponentPrefix(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	logger := slog.New(newPrettyHandler(&buf, levelVar, false))
	logger = NewComponentLogger(logger, "enricher")

	logger.Info("audio reused", String(FieldFilename, "abc.mp3"))

	line := buf.String()
	if !strings.Contains(line, "enricher: audio reused") {
		t.Fatalf("missing component prefix: %q", line)
	}
	if !strings.Contains(line, "filename=abc.mp3") {
		t.Fatalf("missing attribute: %q", line)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
		" ERROR ": slog.LevelError,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFormatValueQuotesSpaces(t *testing.T) {
	got := formatValue(slog.StringValue("ich gehe"))
	if got != `"ich gehe"` {
		t.Fatalf("formatValue = %s", got)
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	logger.Error("should not panic", Error(nil))
}
