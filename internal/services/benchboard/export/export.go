// Package export writes the leaderboard as a static site.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/louisbranch/benchboard/internal/leaderboard/bundle"
	"github.com/louisbranch/benchboard/internal/leaderboard/view"
	"github.com/louisbranch/benchboard/internal/platform/i18n"
	"github.com/louisbranch/benchboard/internal/services/benchboard/routepath"
	bbstatic "github.com/louisbranch/benchboard/internal/services/benchboard/static"
	"github.com/louisbranch/benchboard/internal/services/benchboard/templates"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
	// maxParallelWrites bounds concurrent page renders.
	maxParallelWrites = 4
)

// Config controls one export run.
type Config struct {
	OutDir           string
	Chrome           templates.Chrome
	SanitizeRichText bool
	// Lang selects the UI language; the zero tag uses the base locale.
	Lang      language.Tag
	Languages *i18n.Languages
	Logger    *log.Logger
}

// Result lists the files written, relative to the output directory.
type Result struct {
	Files []string
}

// Write renders b into cfg.OutDir: one page per dataset, the bundle JSON and
// the static assets. The directory is created when missing.
func Write(ctx context.Context, b bundle.Bundle, cfg Config) (Result, error) {
	outDir := strings.TrimSpace(cfg.OutDir)
	if outDir == "" {
		return Result{}, errors.New("output directory is required")
	}
	langs := cfg.Languages
	if langs == nil {
		loaded, err := i18n.Load()
		if err != nil {
			return Result{}, fmt.Errorf("load languages: %w", err)
		}
		langs = loaded
	}
	lang := cfg.Lang
	if lang == language.Und {
		lang = langs.Default()
	} else {
		lang = langs.Match(lang)
	}
	if err := os.MkdirAll(outDir, dirPerm); err != nil {
		return Result{}, fmt.Errorf("create output directory: %w", err)
	}

	w := &writer{outDir: outDir}
	loc := langs.Printer(lang)
	blocks := templates.NewBlockOptions(cfg.SanitizeRichText)

	pages := len(b.Leaderboard)
	if pages == 0 {
		pages = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelWrites)
	for i := 0; i < pages; i++ {
		i := i
		g.Go(func() error {
			return w.page(gctx, b, i, lang, loc, cfg.Chrome, blocks)
		})
	}
	g.Go(func() error { return w.data(gctx, b) })
	g.Go(func() error { return w.static(gctx) })
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	files := w.written()
	if cfg.Logger != nil {
		cfg.Logger.Printf("export complete dir=%s files=%d datasets=%d", outDir, len(files), len(b.Leaderboard))
	}
	return Result{Files: files}, nil
}

type writer struct {
	outDir string
	mu     sync.Mutex
	files  []string
}

func (w *writer) page(ctx context.Context, b bundle.Bundle, index int, lang language.Tag, loc i18n.Localizer, chrome templates.Chrome, blocks templates.BlockOptions) error {
	tabs := view.Tabs{}
	tabs.Select(index)
	table := templates.NewTableModel(b, tabs)
	table.TabURL = routepath.ExportPage
	table.LinkIconURL = routepath.ExportStatic(bbstatic.LinkIcon)
	table.Loc = loc

	var buf bytes.Buffer
	err := templates.Page(templates.PageModel{
		Lang:          lang.String(),
		Chrome:        chrome,
		Table:         table,
		Sections:      b.Sections,
		Blocks:        blocks,
		StylesheetURL: routepath.ExportStatic(bbstatic.Stylesheet),
		DataURL:       routepath.ExportData,
		Loc:           loc,
	}).Render(ctx, &buf)
	if err != nil {
		return fmt.Errorf("render page %d: %w", index, err)
	}
	return w.file(ctx, routepath.ExportPage(index), buf.Bytes())
}

func (w *writer) data(ctx context.Context, b bundle.Bundle) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("encode bundle json: %w", err)
	}
	return w.file(ctx, routepath.ExportData, append(data, '\n'))
}

func (w *writer) static(ctx context.Context) error {
	return fs.WalkDir(bbstatic.FS, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(bbstatic.FS, name)
		if err != nil {
			return fmt.Errorf("read asset %s: %w", name, err)
		}
		return w.file(ctx, routepath.ExportStatic(name), data)
	})
}

func (w *writer) file(ctx context.Context, rel string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := filepath.Join(w.outDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("create directory for %s: %w", rel, err)
	}
	if err := os.WriteFile(path, data, filePerm); err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}
	w.mu.Lock()
	w.files = append(w.files, rel)
	w.mu.Unlock()
	return nil
}

func (w *writer) written() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	files := append([]string(nil), w.files...)
	sort.Strings(files)
	return files
}
