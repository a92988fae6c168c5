package benchboard

import (
	"bytes"
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"BENCHBOARD_HTTP_ADDR", "BENCHBOARD_BUNDLE", "BENCHBOARD_WATCH", "BENCHBOARD_STRICT",
		"BENCHBOARD_SANITIZE_RICH_TEXT", "BENCHBOARD_TITLE", "BENCHBOARD_SUBTITLE",
		"BENCHBOARD_FOOTER_CREDIT", "BENCHBOARD_FOOTER_URL", "BENCHBOARD_BADGES",
	} {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("unset %s: %v", key, err)
		}
	}
}

func TestParseConfigDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := ParseConfig(flag.NewFlagSet("benchboard", flag.ContinueOnError), nil)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.HTTPAddr != "localhost:8095" {
		t.Fatalf("HTTPAddr = %q, want %q", cfg.HTTPAddr, "localhost:8095")
	}
	if cfg.Bundle != "data.js" {
		t.Fatalf("Bundle = %q, want %q", cfg.Bundle, "data.js")
	}
	if cfg.Watch || cfg.Strict || cfg.SanitizeRichText {
		t.Fatalf("expected boolean options off, got %+v", cfg)
	}
	if cfg.Title != "Leaderboard" {
		t.Fatalf("Title = %q", cfg.Title)
	}
}

func TestParseConfigReadsEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("BENCHBOARD_BUNDLE", "board.db")
	t.Setenv("BENCHBOARD_WATCH", "true")
	t.Setenv("BENCHBOARD_BADGES", "github|https://github.com/x|https://img.shields.io/badge/GitHub")

	cfg, err := ParseConfig(flag.NewFlagSet("benchboard", flag.ContinueOnError), nil)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.Bundle != "board.db" || !cfg.Watch {
		t.Fatalf("unexpected config %+v", cfg)
	}
	chrome, err := cfg.Chrome()
	if err != nil {
		t.Fatalf("Chrome() error = %v", err)
	}
	if len(chrome.Badges) != 1 || chrome.Badges[0].Title != "github" {
		t.Fatalf("Badges = %+v", chrome.Badges)
	}
}

func TestParseConfigFlagsOverrideEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("BENCHBOARD_HTTP_ADDR", "env:9000")

	args := []string{"-http-addr", "127.0.0.1:9001", "-bundle", "data.yaml", "-strict", "-sanitize-rich-text", "-title", "NoCode-bench", "-subtitle", "sub"}
	cfg, err := ParseConfig(flag.NewFlagSet("benchboard", flag.ContinueOnError), args)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.HTTPAddr != "127.0.0.1:9001" {
		t.Fatalf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.Bundle != "data.yaml" || !cfg.Strict || !cfg.SanitizeRichText {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Title != "NoCode-bench" || cfg.Subtitle != "sub" {
		t.Fatalf("unexpected chrome config %+v", cfg)
	}
}

func TestChromeRejectsMalformedBadges(t *testing.T) {
	t.Parallel()

	if _, err := (Config{Badges: []string{"broken"}}).Chrome(); err == nil {
		t.Fatal("expected badge parse error")
	}
}

func TestServeStrictFailsOnMissingBundle(t *testing.T) {
	t.Parallel()

	cfg := Config{
		HTTPAddr: "127.0.0.1:0",
		Bundle:   filepath.Join(t.TempDir(), "missing.json"),
		Strict:   true,
	}
	err := serve(context.Background(), cfg, log.New(&bytes.Buffer{}, "", 0))
	if err == nil || !strings.Contains(err.Error(), "load bundle") {
		t.Fatalf("serve() error = %v, want load bundle failure", err)
	}
}

func TestServeLenientStartsWithEmptyBundle(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := Config{
		HTTPAddr: "127.0.0.1:0",
		Bundle:   filepath.Join(t.TempDir(), "missing.json"),
	}
	if err := serve(ctx, cfg, log.New(&logs, "", 0)); err != nil {
		t.Fatalf("serve() error = %v", err)
	}
	if !strings.Contains(logs.String(), "bundle load failed") {
		t.Fatalf("missing load failure log: %q", logs.String())
	}
}

func TestServeRejectsUnknownBundleFormat(t *testing.T) {
	t.Parallel()

	err := serve(context.Background(), Config{HTTPAddr: "127.0.0.1:0", Bundle: "data.toml"}, log.New(&bytes.Buffer{}, "", 0))
	if err == nil || !strings.Contains(err.Error(), "open bundle") {
		t.Fatalf("serve() error = %v", err)
	}
}
