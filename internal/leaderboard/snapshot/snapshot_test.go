package snapshot

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/louisbranch/benchboard/internal/leaderboard/bundle"
	"github.com/louisbranch/benchboard/internal/leaderboard/provider"
)

func fixedClock() func() time.Time {
	return func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }
}

func TestCurrentBeforeLoadIsEmpty(t *testing.T) {
	t.Parallel()

	store := New(provider.Static{})
	snap := store.Current()
	if !snap.Bundle.IsEmpty() {
		t.Fatalf("expected empty bundle, got %+v", snap.Bundle)
	}
	if snap.Version != 0 {
		t.Fatalf("Version = %d, want 0", snap.Version)
	}

	var nilStore *Store
	if !nilStore.Current().Bundle.IsEmpty() {
		t.Fatal("nil store should report empty bundle")
	}
}

func TestLoadPublishesSnapshot(t *testing.T) {
	t.Parallel()

	b := bundle.Bundle{Leaderboard: []bundle.Dataset{{Name: "FULL"}}}
	store := New(provider.Static{Bundle: b}, WithClock(fixedClock()), WithLogger(log.New(&bytes.Buffer{}, "", 0)))
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	snap := store.Current()
	if snap.Version != 1 {
		t.Fatalf("Version = %d, want 1", snap.Version)
	}
	if snap.Bundle.Leaderboard[0].Name != "FULL" {
		t.Fatalf("unexpected bundle %+v", snap.Bundle)
	}
	if snap.Bundle.Metric != bundle.MetricResolved {
		t.Fatalf("Metric = %q, want default resolved", snap.Bundle.Metric)
	}
	if got := snap.Token(); !strings.HasPrefix(got, "1-") {
		t.Fatalf("Token() = %q, want version prefix", got)
	}
}

func TestFailedLoadKeepsPreviousSnapshot(t *testing.T) {
	t.Parallel()

	fail := false
	p := provider.Func(func(context.Context) (bundle.Bundle, error) {
		if fail {
			return bundle.Bundle{}, bundle.LoadError("data.js", errors.New("boom"))
		}
		return bundle.Bundle{Leaderboard: []bundle.Dataset{{Name: "FULL"}}}, nil
	})
	var logs bytes.Buffer
	store := New(p, WithLogger(log.New(&logs, "", 0)))
	store.Reload(context.Background())

	fail = true
	err := store.Load(context.Background())
	var loadErr *bundle.DataLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("Load() error = %v, want DataLoadError", err)
	}
	store.Reload(context.Background())
	if !strings.Contains(logs.String(), "bundle reload failed") {
		t.Fatalf("missing failure log: %q", logs.String())
	}

	snap := store.Current()
	if snap.Version != 1 || snap.Bundle.Leaderboard[0].Name != "FULL" {
		t.Fatalf("snapshot replaced after failure: %+v", snap)
	}
}

func TestFirstLoadFailureLeavesEmptyBundle(t *testing.T) {
	t.Parallel()

	store := New(provider.Func(func(context.Context) (bundle.Bundle, error) {
		return bundle.Bundle{}, errors.New("missing")
	}), WithLogger(nil))
	if err := store.Load(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if !store.Current().Bundle.IsEmpty() {
		t.Fatal("expected empty bundle after failed first load")
	}
}

func TestLoadAfterCloseDoesNotPublish(t *testing.T) {
	t.Parallel()

	store := New(provider.Static{Bundle: bundle.Bundle{Leaderboard: []bundle.Dataset{{Name: "FULL"}}}}, WithLogger(nil))
	store.Close()
	if err := store.Load(context.Background()); !errors.Is(err, ErrClosed) {
		t.Fatalf("Load() error = %v, want ErrClosed", err)
	}
	if store.Current().Version != 0 {
		t.Fatal("closed store published a snapshot")
	}
}

func TestLateLoadAfterCancelDoesNotPublish(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	store := New(provider.Func(func(context.Context) (bundle.Bundle, error) {
		cancel()
		return bundle.Bundle{Leaderboard: []bundle.Dataset{{Name: "late"}}}, nil
	}), WithLogger(nil))
	if err := store.Load(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Load() error = %v, want context.Canceled", err)
	}
	if store.Current().Version != 0 {
		t.Fatal("late load published a snapshot")
	}
}

func TestLoadLogsBlockDiagnostics(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	store := New(provider.Static{Bundle: bundle.Bundle{Sections: []bundle.Section{{
		Title:   "T",
		Content: []bundle.Block{bundle.Unknown{Type: "bogus", Content: "hello"}},
	}}}}, WithLogger(log.New(&logs, "", 0)))
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !strings.Contains(logs.String(), `unknown type "bogus"`) {
		t.Fatalf("missing diagnostic: %q", logs.String())
	}
}

func TestLoadRequiresProvider(t *testing.T) {
	t.Parallel()

	if err := New(nil).Load(context.Background()); err == nil {
		t.Fatal("expected error without provider")
	}
}
