// Package benchboard parses benchboard command flags and runs the leaderboard service.
package benchboard

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/louisbranch/benchboard/internal/leaderboard/provider"
	"github.com/louisbranch/benchboard/internal/leaderboard/snapshot"
	"github.com/louisbranch/benchboard/internal/leaderboard/source"
	entrypoint "github.com/louisbranch/benchboard/internal/platform/cmd"
	"github.com/louisbranch/benchboard/internal/platform/timeouts"
	"github.com/louisbranch/benchboard/internal/services/benchboard"
	"github.com/louisbranch/benchboard/internal/services/benchboard/templates"
	"golang.org/x/sync/errgroup"
)

// Config holds benchboard command configuration.
type Config struct {
	HTTPAddr         string   `env:"BENCHBOARD_HTTP_ADDR"          envDefault:"localhost:8095"`
	Bundle           string   `env:"BENCHBOARD_BUNDLE"             envDefault:"data.js"`
	Watch            bool     `env:"BENCHBOARD_WATCH"`
	Strict           bool     `env:"BENCHBOARD_STRICT"`
	SanitizeRichText bool     `env:"BENCHBOARD_SANITIZE_RICH_TEXT"`
	Title            string   `env:"BENCHBOARD_TITLE"              envDefault:"Leaderboard"`
	Subtitle         string   `env:"BENCHBOARD_SUBTITLE"`
	FooterCredit     string   `env:"BENCHBOARD_FOOTER_CREDIT"`
	FooterURL        string   `env:"BENCHBOARD_FOOTER_URL"`
	Badges           []string `env:"BENCHBOARD_BADGES"             envSeparator:","`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.Bundle, "bundle", cfg.Bundle, "bundle path (.js, .json, .yaml, .db)")
	fs.BoolVar(&cfg.Watch, "watch", cfg.Watch, "reload the bundle when its file changes")
	fs.BoolVar(&cfg.Strict, "strict", cfg.Strict, "exit when the initial bundle load fails")
	fs.BoolVar(&cfg.SanitizeRichText, "sanitize-rich-text", cfg.SanitizeRichText, "filter rich-text blocks through an HTML sanitizer")
	fs.StringVar(&cfg.Title, "title", cfg.Title, "page title")
	fs.StringVar(&cfg.Subtitle, "subtitle", cfg.Subtitle, "page subtitle")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Chrome builds the page chrome from cfg.
func (c Config) Chrome() (templates.Chrome, error) {
	badges, err := templates.ParseBadges(c.Badges)
	if err != nil {
		return templates.Chrome{}, fmt.Errorf("parse badges: %w", err)
	}
	return templates.Chrome{
		Title:        c.Title,
		Subtitle:     c.Subtitle,
		Badges:       badges,
		FooterCredit: c.FooterCredit,
		FooterURL:    c.FooterURL,
	}, nil
}

// Run loads the bundle and serves it until ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceBenchboard, func(ctx context.Context) error {
		return serve(ctx, cfg, log.Default())
	})
}

func serve(ctx context.Context, cfg Config, logger *log.Logger) error {
	chrome, err := cfg.Chrome()
	if err != nil {
		return err
	}
	src, err := source.Open(ctx, cfg.Bundle)
	if err != nil {
		return fmt.Errorf("open bundle: %w", err)
	}
	defer func() {
		if err := src.Close(); err != nil {
			logger.Printf("close bundle source err=%v", err)
		}
	}()

	store := snapshot.New(src.Provider, snapshot.WithLogger(logger), snapshot.WithTimeout(timeouts.BundleLoad))
	defer store.Close()
	if err := store.Load(ctx); err != nil {
		if cfg.Strict {
			return fmt.Errorf("load bundle: %w", err)
		}
		logger.Printf("bundle load failed, serving empty leaderboard source=%s err=%v", src.Path, err)
	}

	server, err := benchboard.NewServer(ctx, benchboard.Config{
		HTTPAddr:         cfg.HTTPAddr,
		Snapshots:        store,
		Chrome:           chrome,
		SanitizeRichText: cfg.SanitizeRichText,
		Logger:           logger,
	})
	if err != nil {
		return fmt.Errorf("init benchboard server: %w", err)
	}
	defer server.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Printf("benchboard listening addr=%s bundle=%s kind=%s", server.Addr(), src.Path, src.Kind)
		if err := server.ListenAndServe(gctx); err != nil {
			return fmt.Errorf("serve benchboard: %w", err)
		}
		return nil
	})
	if cfg.Watch {
		g.Go(func() error {
			watcher := provider.Watcher{Path: src.Path, OnChange: store.Reload, Logger: logger}
			if err := watcher.Run(gctx); err != nil {
				return fmt.Errorf("watch bundle: %w", err)
			}
			return nil
		})
	}
	return g.Wait()
}
