package services

import (
	"errors"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("boom")
	err := Wrap(ErrExternal, "enrich", "audio", "tts call failed", base)
	if !errors.Is(err, ErrExternal) {
		t.Fatalf("expected ErrExternal marker: %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped cause: %v", err)
	}
}

func TestWrapNilMarkerDefaultsTransient(t *testing.T) {
	err := Wrap(nil, "enrich", "image", "", nil)
	if !errors.Is(err, ErrTransient) {
		t.Fatalf("expected ErrTransient: %v", err)
	}
}

func TestIsFatal(t *testing.T) {
	if !IsFatal(Wrap(ErrUnsupported, "cards", "build", "no builder", nil)) {
		t.Fatalf("unsupported should be fatal")
	}
	if !IsFatal(Wrap(ErrCardShape, "card", "check shape", "field count", nil)) {
		t.Fatalf("shape mismatch should be fatal")
	}
	if IsFatal(Wrap(ErrExternal, "enrich", "audio", "", nil)) {
		t.Fatalf("external should not be fatal")
	}
	if IsFatal(Wrap(ErrValidation, "card", "build cloze", "missing form", nil)) {
		t.Fatalf("bad input data should not be fatal")
	}
}
