package imagesearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestDownloadWritesFirstResult(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/v1/images/", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "a man reading" {
			t.Fatalf("query = %q", got)
		}
		if got := r.URL.Query().Get("license_type"); got != "commercial" {
			t.Fatalf("license_type = %q", got)
		}
		payload := map[string]any{
			"results": []any{
				map[string]any{"url": server.URL + "/img/first.jpg", "title": "first"},
			},
		}
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			t.Fatalf("encode: %v", err)
		}
	})
	mux.HandleFunc("/img/first.jpg", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("jpg-bytes")); err != nil {
			t.Fatalf("write: %v", err)
		}
	})

	client := NewClient(Config{BaseURL: server.URL + "/v1", License: "commercial"})
	outPath := filepath.Join(t.TempDir(), "mann.jpg")
	found, err := client.Download(context.Background(), "a man reading", outPath)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if !found {
		t.Fatal("expected a result")
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "jpg-bytes" {
		t.Fatalf("image content = %q", data)
	}
}

func TestDownloadReturnsFalseOnNoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewEncoder(w).Encode(map[string]any{"results": []any{}}); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	outPath := filepath.Join(t.TempDir(), "x.jpg")
	found, err := client.Download(context.Background(), "nonexistent thing", outPath)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if found {
		t.Fatal("expected no result")
	}
	if _, err := os.Stat(outPath); !os.IsNotExist(err) {
		t.Fatal("no file should be written without a result")
	}
}

func TestDownloadFallsBackToNextResult(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/images/", func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]any{
			"results": []any{
				map[string]any{"url": server.URL + "/img/gone.jpg"},
				map[string]any{"url": server.URL + "/img/here.jpg"},
			},
		}
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			t.Fatalf("encode: %v", err)
		}
	})
	mux.HandleFunc("/img/gone.jpg", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/img/here.jpg", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("second")); err != nil {
			t.Fatalf("write: %v", err)
		}
	})

	client := NewClient(Config{BaseURL: server.URL})
	outPath := filepath.Join(t.TempDir(), "y.jpg")
	found, err := client.Download(context.Background(), "dog", outPath)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if !found {
		t.Fatal("expected fallback result")
	}
	data, _ := os.ReadFile(outPath)
	if string(data) != "second" {
		t.Fatalf("content = %q", data)
	}
}

func TestDownloadSurfacesSearchErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "throttled", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	if _, err := client.Download(context.Background(), "dog", filepath.Join(t.TempDir(), "z.jpg")); err == nil {
		t.Fatal("expected error")
	}
}
