package tts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func speechServer(t *testing.T, audio []byte) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/speech" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test" {
			t.Fatalf("auth header = %q", auth)
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		if _, err := w.Write(audio); err != nil {
			t.Fatalf("write audio: %v", err)
		}
	}))
}

func TestGenerateWritesAudioFile(t *testing.T) {
	server := speechServer(t, []byte("mp3-bytes"))
	defer server.Close()

	client, err := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "gpt-4o-mini-tts", Voice: "alloy"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	outPath := filepath.Join(t.TempDir(), "abc.mp3")
	if err := client.Generate(context.Background(), "der Mann", outPath); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "mp3-bytes" {
		t.Fatalf("audio content = %q", data)
	}
}

func TestGenerateRejectsEmptyResponses(t *testing.T) {
	server := speechServer(t, nil)
	defer server.Close()

	client, err := NewClient(Config{APIKey: "test", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	outPath := filepath.Join(t.TempDir(), "abc.mp3")
	if err := client.Generate(context.Background(), "der Mann", outPath); err == nil {
		t.Fatal("expected error for empty audio")
	}
	if _, err := os.Stat(outPath); !os.IsNotExist(err) {
		t.Fatal("empty response must not create a cache file")
	}
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Fatal("expected error for missing api key")
	}
}

func TestGenerateRequiresText(t *testing.T) {
	client, err := NewClient(Config{APIKey: "test"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if err := client.Generate(context.Background(), "  ", "out.mp3"); err == nil {
		t.Fatal("expected error for empty text")
	}
}
