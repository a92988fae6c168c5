// Package sqlite stores leaderboard bundles in a SQLite database.
//
// The database mirrors the bundle wire shape: datasets with positioned
// entries, sections with positioned blocks. NULL block content is read as
// non-string content, and NULL resolved/score columns as absent fields.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/louisbranch/benchboard/internal/leaderboard/bundle"
	"github.com/louisbranch/benchboard/internal/leaderboard/provider"
	"github.com/louisbranch/benchboard/internal/leaderboard/provider/sqlite/migrations"
	"github.com/louisbranch/benchboard/internal/platform/storage/sqlitemigrate"
	"go.opentelemetry.io/otel/codes"
	_ "modernc.org/sqlite"
)

// Store reads and writes bundles in one SQLite database.
type Store struct {
	path  string
	sqlDB *sql.DB
}

// Open opens the database at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.Apply(ctx, sqlDB, migrations.FS, "."); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{path: cleanPath, sqlDB: sqlDB}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Load reads the stored bundle.
func (s *Store) Load(ctx context.Context) (bundle.Bundle, error) {
	source := "sqlite"
	if s != nil {
		source = s.path
	}
	ctx, span := provider.StartLoadSpan(ctx, "sqlite", source)
	defer span.End()

	b, err := s.load(ctx)
	if err != nil {
		err = bundle.LoadError(source, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "bundle load failed")
		return bundle.Bundle{}, err
	}
	return b, nil
}

func (s *Store) load(ctx context.Context) (bundle.Bundle, error) {
	if s == nil || s.sqlDB == nil {
		return bundle.Bundle{}, errors.New("sqlite store is not open")
	}
	leaderboard, err := s.loadLeaderboard(ctx)
	if err != nil {
		return bundle.Bundle{}, err
	}
	sections, err := s.loadSections(ctx)
	if err != nil {
		return bundle.Bundle{}, err
	}
	return bundle.FromTree(map[string]any{
		"leaderboard": leaderboard,
		"sections":    sections,
	})
}

func (s *Store) loadLeaderboard(ctx context.Context) ([]any, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT d.id, d.name, e.position, e.method, e.model, e.resolved, e.score, e.org, e.site, e.date
FROM datasets d
LEFT JOIN entries e ON e.dataset_id = d.id
ORDER BY d.position, d.id, e.position`)
	if err != nil {
		return nil, fmt.Errorf("query datasets: %w", err)
	}
	defer rows.Close()

	var (
		out     []any
		current map[string]any
		lastID  int64
	)
	for rows.Next() {
		var (
			datasetID                      int64
			name                           string
			position                       sql.NullInt64
			method, model, org, site, date sql.NullString
			resolved, score                sql.NullFloat64
		)
		if err := rows.Scan(&datasetID, &name, &position, &method, &model, &resolved, &score, &org, &site, &date); err != nil {
			return nil, fmt.Errorf("scan dataset row: %w", err)
		}
		if current == nil || datasetID != lastID {
			current = map[string]any{"name": name, "data": []any{}}
			out = append(out, current)
			lastID = datasetID
		}
		if !position.Valid {
			continue
		}
		entry := map[string]any{
			"method": method.String,
			"model":  model.String,
			"org":    org.String,
			"site":   site.String,
			"date":   date.String,
		}
		if resolved.Valid {
			entry["resolved"] = resolved.Float64
		}
		if score.Valid {
			entry["score"] = score.Float64
		}
		current["data"] = append(current["data"].([]any), entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate datasets: %w", err)
	}
	return out, nil
}

func (s *Store) loadSections(ctx context.Context) ([]any, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT s.id, s.title, s.subtitle, b.position, b.type, b.content
FROM sections s
LEFT JOIN blocks b ON b.section_id = s.id
ORDER BY s.position, s.id, b.position`)
	if err != nil {
		return nil, fmt.Errorf("query sections: %w", err)
	}
	defer rows.Close()

	var (
		out     []any
		current map[string]any
		lastID  int64
	)
	for rows.Next() {
		var (
			sectionID       int64
			title, subtitle string
			position        sql.NullInt64
			blockType       sql.NullString
			content         sql.NullString
		)
		if err := rows.Scan(&sectionID, &title, &subtitle, &position, &blockType, &content); err != nil {
			return nil, fmt.Errorf("scan section row: %w", err)
		}
		if current == nil || sectionID != lastID {
			current = map[string]any{"title": title, "subtitle": subtitle, "content": []any{}}
			out = append(out, current)
			lastID = sectionID
		}
		if !position.Valid {
			continue
		}
		block := map[string]any{"type": blockType.String}
		if content.Valid {
			block["content"] = content.String
		}
		current["content"] = append(current["content"].([]any), block)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sections: %w", err)
	}
	return out, nil
}

// Replace overwrites the stored bundle with b in one transaction.
func (s *Store) Replace(ctx context.Context, b bundle.Bundle) error {
	if s == nil || s.sqlDB == nil {
		return errors.New("sqlite store is not open")
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"blocks", "sections", "entries", "datasets"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	column := "resolved"
	if b.MetricOrDefault() == bundle.MetricScore {
		column = "score"
	}
	for di, dataset := range b.Leaderboard {
		res, err := tx.ExecContext(ctx, "INSERT INTO datasets (position, name) VALUES (?, ?)", di, dataset.Name)
		if err != nil {
			return fmt.Errorf("insert dataset %d: %w", di, err)
		}
		datasetID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("dataset %d id: %w", di, err)
		}
		for ei, entry := range dataset.Data {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO entries (dataset_id, position, method, model, "+column+", org, site, date) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
				datasetID, ei, entry.Method, entry.Model, entry.Resolved, entry.Org, entry.Site, entry.Date,
			); err != nil {
				return fmt.Errorf("insert entry %d/%d: %w", di, ei, err)
			}
		}
	}

	for si, section := range b.Sections {
		res, err := tx.ExecContext(ctx, "INSERT INTO sections (position, title, subtitle) VALUES (?, ?, ?)", si, section.Title, section.Subtitle)
		if err != nil {
			return fmt.Errorf("insert section %d: %w", si, err)
		}
		sectionID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("section %d id: %w", si, err)
		}
		for bi, block := range section.Content {
			if block == nil {
				continue
			}
			var content sql.NullString
			if value, ok := bundle.BlockContent(block); ok {
				content = sql.NullString{String: value, Valid: true}
			}
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO blocks (section_id, position, type, content) VALUES (?, ?, ?, ?)",
				sectionID, bi, block.Tag(), content,
			); err != nil {
				return fmt.Errorf("insert block %d/%d: %w", si, bi, err)
			}
		}
	}
	return tx.Commit()
}
