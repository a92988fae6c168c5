// Package export parses benchboard-export flags and writes a static site.
package export

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/louisbranch/benchboard/internal/leaderboard/bundle"
	"github.com/louisbranch/benchboard/internal/leaderboard/provider/sqlite"
	"github.com/louisbranch/benchboard/internal/leaderboard/source"
	entrypoint "github.com/louisbranch/benchboard/internal/platform/cmd"
	"github.com/louisbranch/benchboard/internal/platform/i18n"
	"github.com/louisbranch/benchboard/internal/platform/timeouts"
	siteexport "github.com/louisbranch/benchboard/internal/services/benchboard/export"
	"github.com/louisbranch/benchboard/internal/services/benchboard/templates"
)

// Config holds benchboard-export command configuration.
type Config struct {
	Bundle           string   `env:"BENCHBOARD_BUNDLE"             envDefault:"data.js"`
	OutDir           string   `env:"BENCHBOARD_EXPORT_OUT"         envDefault:"dist"`
	SQLiteOut        string   `env:"BENCHBOARD_EXPORT_SQLITE_OUT"`
	Lang             string   `env:"BENCHBOARD_LANG"`
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

	fs.StringVar(&cfg.Bundle, "bundle", cfg.Bundle, "bundle path (.js, .json, .yaml, .db)")
	fs.StringVar(&cfg.OutDir, "out", cfg.OutDir, "output directory")
	fs.StringVar(&cfg.SQLiteOut, "sqlite-out", cfg.SQLiteOut, "also store the bundle in this SQLite database")
	fs.StringVar(&cfg.Lang, "lang", cfg.Lang, "UI language (en-US, zh-CN)")
	fs.BoolVar(&cfg.SanitizeRichText, "sanitize-rich-text", cfg.SanitizeRichText, "filter rich-text blocks through an HTML sanitizer")
	fs.StringVar(&cfg.Title, "title", cfg.Title, "page title")
	fs.StringVar(&cfg.Subtitle, "subtitle", cfg.Subtitle, "page subtitle")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run loads the bundle strictly and writes the export.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceExport, func(ctx context.Context) error {
		_, err := run(ctx, cfg, log.Default())
		return err
	})
}

func run(ctx context.Context, cfg Config, logger *log.Logger) (siteexport.Result, error) {
	badges, err := templates.ParseBadges(cfg.Badges)
	if err != nil {
		return siteexport.Result{}, fmt.Errorf("parse badges: %w", err)
	}
	langs, err := i18n.Load()
	if err != nil {
		return siteexport.Result{}, fmt.Errorf("load languages: %w", err)
	}
	lang := langs.Default()
	if raw := strings.TrimSpace(cfg.Lang); raw != "" {
		tag, ok := langs.Parse(raw)
		if !ok {
			return siteexport.Result{}, fmt.Errorf("unknown language %q", raw)
		}
		lang = tag
	}

	b, err := load(ctx, cfg.Bundle)
	if err != nil {
		return siteexport.Result{}, err
	}
	for _, diagnostic := range bundle.Diagnose(b) {
		logger.Printf("bundle diagnostic source=%s msg=%q", cfg.Bundle, diagnostic)
	}

	result, err := siteexport.Write(ctx, b, siteexport.Config{
		OutDir: cfg.OutDir,
		Chrome: templates.Chrome{
			Title:        cfg.Title,
			Subtitle:     cfg.Subtitle,
			Badges:       badges,
			FooterCredit: cfg.FooterCredit,
			FooterURL:    cfg.FooterURL,
		},
		SanitizeRichText: cfg.SanitizeRichText,
		Lang:             lang,
		Languages:        langs,
		Logger:           logger,
	})
	if err != nil {
		return siteexport.Result{}, fmt.Errorf("write export: %w", err)
	}

	if out := strings.TrimSpace(cfg.SQLiteOut); out != "" {
		if err := storeSQLite(ctx, out, b); err != nil {
			return siteexport.Result{}, err
		}
		logger.Printf("bundle stored sqlite=%s", out)
	}
	return result, nil
}

func load(ctx context.Context, path string) (bundle.Bundle, error) {
	src, err := source.Open(ctx, path)
	if err != nil {
		return bundle.Bundle{}, err
	}
	defer src.Close()

	loadCtx, cancel := context.WithTimeout(ctx, timeouts.BundleLoad)
	defer cancel()
	b, err := src.Provider.Load(loadCtx)
	if err != nil {
		return bundle.Bundle{}, err
	}
	return b, nil
}

func storeSQLite(ctx context.Context, path string, b bundle.Bundle) error {
	store, err := sqlite.Open(ctx, path)
	if err != nil {
		return fmt.Errorf("open sqlite output: %w", err)
	}
	defer store.Close()
	if err := store.Replace(ctx, b); err != nil {
		return fmt.Errorf("store bundle: %w", err)
	}
	return nil
}
