package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/louisbranch/benchboard/internal/leaderboard/bundle"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "bundle.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestReplaceThenLoadRoundTrips(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	want := bundle.Bundle{
		Metric: bundle.MetricResolved,
		Leaderboard: []bundle.Dataset{
			{Name: "FULL", Data: []bundle.Entry{
				{Method: "A", Model: "M1", Resolved: 10, Date: "2025-01-01"},
				{Method: "B", Model: "M2", Resolved: 7.5, Org: "https://example.com/o.png", Site: "https://example.com", Date: "2025-01-02"},
			}},
			{Name: "Empty"},
		},
		Sections: []bundle.Section{
			{Title: "Overview", Subtitle: "Intro", Content: []bundle.Block{
				bundle.Image{URL: "https://example.com/task.png"},
				bundle.RichText{HTML: "<b>x</b>"},
				bundle.Unknown{Type: "bogus", Content: "hello"},
				bundle.Omitted{Type: "text"},
			}},
		},
	}
	if err := store.Replace(context.Background(), want); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	got, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestReplaceKeepsScoreMetric(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	in := bundle.Bundle{
		Metric: bundle.MetricScore,
		Leaderboard: []bundle.Dataset{{Name: "Lite", Data: []bundle.Entry{
			{Method: "A", Resolved: 41},
		}}},
	}
	if err := store.Replace(context.Background(), in); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	got, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Metric != bundle.MetricScore {
		t.Fatalf("Metric = %q, want %q", got.Metric, bundle.MetricScore)
	}
	if got.Leaderboard[0].Data[0].Resolved != 41 {
		t.Fatalf("Resolved = %v, want 41", got.Leaderboard[0].Data[0].Resolved)
	}
}

func TestLoadEmptyDatabase(t *testing.T) {
	t.Parallel()

	got, err := openTestStore(t).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !got.IsEmpty() {
		t.Fatalf("expected empty bundle, got %+v", got)
	}
}

func TestLoadClosedStoreReturnsDataLoadError(t *testing.T) {
	t.Parallel()

	var store *Store
	_, err := store.Load(context.Background())
	var loadErr *bundle.DataLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("Load() error = %v, want DataLoadError", err)
	}
}

func TestLoadCancelledContext(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := store.Load(ctx)
	var loadErr *bundle.DataLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("Load() error = %v, want DataLoadError", err)
	}
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), " "); err == nil {
		t.Fatal("expected error for blank path")
	}
}
