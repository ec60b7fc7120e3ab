package ledger

import (
	"context"
	"testing"
	"time"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRunLifecycle(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.StartRun(ctx, "run-1", "a1"); err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	totals := RunTotals{RecordsTotal: 12, CardsCreated: 15, NotesAdded: 14, MediaRegistered: 20, ErrorCount: 1}
	if err := store.FinishRun(ctx, "run-1", RunStatusCompleted, totals); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	runs, err := store.RecentRuns(ctx, 5)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs", len(runs))
	}
	run := runs[0]
	if run.Status != RunStatusCompleted || run.CardsCreated != 15 || run.ErrorCount != 1 {
		t.Fatalf("run = %+v", run)
	}
	if run.FinishedAt.IsZero() {
		t.Fatal("finished_at not recorded")
	}

	if err := store.FinishRun(ctx, "missing", RunStatusFailed, RunTotals{}); err == nil {
		t.Fatal("expected error for unknown run id")
	}
}

func TestTouchAssetUpserts(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	asset := Asset{Filename: "abc.mp3", Kind: KindAudio, Word: "gehen", RunID: "run-1"}
	if err := store.TouchAsset(ctx, asset); err != nil {
		t.Fatalf("TouchAsset: %v", err)
	}
	if err := store.TouchAsset(ctx, asset); err != nil {
		t.Fatalf("TouchAsset again: %v", err)
	}
	if err := store.TouchAsset(ctx, Asset{Filename: "mann.jpg", Kind: KindImage, Word: "Mann"}); err != nil {
		t.Fatalf("TouchAsset image: %v", err)
	}

	stats, err := store.AssetStats(ctx)
	if err != nil {
		t.Fatalf("AssetStats: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("stats = %+v", stats)
	}
	if stats[0].Kind != KindAudio || stats[0].Count != 1 || stats[0].UseTotal != 2 {
		t.Fatalf("audio stat = %+v", stats[0])
	}
	if stats[1].Kind != KindImage || stats[1].Count != 1 {
		t.Fatalf("image stat = %+v", stats[1])
	}
}

func TestStaleAssetsAndForget(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.TouchAsset(ctx, Asset{Filename: "old.mp3", Kind: KindAudio}); err != nil {
		t.Fatalf("TouchAsset: %v", err)
	}

	stale, err := store.StaleAssets(ctx, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("StaleAssets: %v", err)
	}
	if len(stale) != 1 || stale[0].Filename != "old.mp3" {
		t.Fatalf("stale = %+v", stale)
	}

	none, err := store.StaleAssets(ctx, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("StaleAssets: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no stale assets, got %+v", none)
	}

	if err := store.ForgetAssets(ctx, []string{"old.mp3"}); err != nil {
		t.Fatalf("ForgetAssets: %v", err)
	}
	stats, _ := store.AssetStats(ctx)
	if len(stats) != 0 {
		t.Fatalf("stats after forget = %+v", stats)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	store, err = Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer store.Close()
	if _, err := store.RecentRuns(context.Background(), 1); err != nil {
		t.Fatalf("RecentRuns after reopen: %v", err)
	}
}
