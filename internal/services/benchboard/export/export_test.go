package export

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/louisbranch/benchboard/internal/leaderboard/bundle"
	"github.com/louisbranch/benchboard/internal/services/benchboard/templates"
	"golang.org/x/text/language"
)

func twoDatasetBundle() bundle.Bundle {
	return bundle.Bundle{
		Leaderboard: []bundle.Dataset{
			{Name: "FULL", Data: []bundle.Entry{{Method: "full-method", Model: "M1", Resolved: 10, Date: "2025-01-01"}}},
			{Name: "Verified", Data: []bundle.Entry{{Method: "verified-method", Model: "M2", Resolved: 20.5, Date: "2025-02-01"}}},
		},
		Sections: []bundle.Section{{Title: "How to submit", Content: []bundle.Block{bundle.RichText{HTML: "<b>mail us</b>"}}}},
		Metric:   bundle.MetricResolved,
	}
}

func readFile(t *testing.T, dir, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("read %s: %v", rel, err)
	}
	return string(data)
}

func TestWriteProducesOnePagePerDataset(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "dist")
	var logs bytes.Buffer
	result, err := Write(context.Background(), twoDatasetBundle(), Config{
		OutDir: dir,
		Chrome: templates.Chrome{Title: "Bench"},
		Logger: log.New(&logs, "", 0),
	})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	want := []string{
		"bench-1.html",
		"data.json",
		"index.html",
		"static/benchboard.css",
		"static/benchboard.js",
		"static/link.svg",
	}
	if diff := cmp.Diff(want, result.Files); diff != "" {
		t.Fatalf("files mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(logs.String(), "export complete") {
		t.Fatalf("missing completion log: %q", logs.String())
	}

	index := readFile(t, dir, "index.html")
	if !strings.Contains(index, "full-method") || strings.Contains(index, "verified-method") {
		t.Fatal("index.html should show the first dataset only")
	}
	for _, marker := range []string{`href="bench-1.html"`, `href="index.html"`, `href="static/benchboard.css"`, `<p><b>mail us</b></p>`} {
		if !strings.Contains(index, marker) {
			t.Fatalf("index.html missing %q", marker)
		}
	}
	if strings.Contains(index, "data-fragment") {
		t.Fatal("exported pages should not reference server fragments")
	}

	second := readFile(t, dir, "bench-1.html")
	if !strings.Contains(second, "verified-method") || !strings.Contains(second, `class="bench-btn bench-btn__active" href="bench-1.html"`) {
		t.Fatal("bench-1.html should show the second dataset active")
	}
}

func TestWriteDataJSONRoundTrips(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	b := twoDatasetBundle()
	if _, err := Write(context.Background(), b, Config{OutDir: dir}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	decoded, err := bundle.DecodeJSON([]byte(readFile(t, dir, "data.json")))
	if err != nil {
		t.Fatalf("DecodeJSON() error = %v", err)
	}
	if diff := cmp.Diff(b, decoded); diff != "" {
		t.Fatalf("bundle mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteEmptyBundleStillWritesIndex(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	result, err := Write(context.Background(), bundle.Empty(), Config{OutDir: dir})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if result.Files[1] != "index.html" {
		t.Fatalf("files = %v", result.Files)
	}
	if !strings.Contains(readFile(t, dir, "index.html"), "table-empty") {
		t.Fatal("expected empty table marker")
	}
}

func TestWriteLocalizesLabels(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if _, err := Write(context.Background(), twoDatasetBundle(), Config{OutDir: dir, Lang: language.MustParse("zh-CN")}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	index := readFile(t, dir, "index.html")
	if !strings.Contains(index, `<html lang="zh-CN">`) || !strings.Contains(index, "<th>排名</th>") {
		t.Fatal("expected zh-CN labels")
	}
}

func TestWriteRequiresOutDir(t *testing.T) {
	t.Parallel()

	if _, err := Write(context.Background(), bundle.Empty(), Config{OutDir: "  "}); err == nil {
		t.Fatal("expected error for blank output directory")
	}
}

func TestWriteHonorsCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Write(ctx, twoDatasetBundle(), Config{OutDir: t.TempDir()})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Write() error = %v, want context.Canceled", err)
	}
}
