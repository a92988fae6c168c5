// Package sqlitemigrate applies embedded SQL migrations to SQLite databases.
package sqlitemigrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"
)

const (
	migrationTable = "schema_migrations"
	upMarker       = "-- +migrate Up"
	downMarker     = "-- +migrate Down"
)

// Apply runs every *.sql file under root in name order, recording each one so
// it is applied at most once.
func Apply(ctx context.Context, db *sql.DB, migrations fs.FS, root string) error {
	if db == nil {
		return errors.New("sql db is required")
	}
	root = strings.TrimSpace(root)
	if root == "" {
		root = "."
	}

	names, err := fs.Glob(migrations, path.Join(root, "*.sql"))
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(names)

	if _, err := db.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS "+migrationTable+
		" (name TEXT PRIMARY KEY, applied_at INTEGER NOT NULL)"); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}

	for _, name := range names {
		if err := applyOne(ctx, db, migrations, name); err != nil {
			return fmt.Errorf("migration %s: %w", name, err)
		}
	}
	return nil
}

func applyOne(ctx context.Context, db *sql.DB, migrations fs.FS, name string) error {
	applied, err := isApplied(ctx, db, name)
	if err != nil || applied {
		return err
	}
	content, err := fs.ReadFile(migrations, name)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}
	up := UpSection(string(content))
	if strings.TrimSpace(up) == "" {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, up); err != nil && !IsAlreadyExistsError(err) {
		return fmt.Errorf("exec: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT OR IGNORE INTO "+migrationTable+" (name, applied_at) VALUES (?, ?)",
		name, time.Now().UTC().UnixMilli(),
	); err != nil {
		return fmt.Errorf("record: %w", err)
	}
	return tx.Commit()
}

// UpSection returns the statements between the Up and Down markers. Files
// without an Up marker are returned whole.
func UpSection(content string) string {
	start := strings.Index(content, upMarker)
	if start < 0 {
		return content
	}
	body := content[start+len(upMarker):]
	if end := strings.Index(body, downMarker); end >= 0 {
		body = body[:end]
	}
	return body
}

// IsAlreadyExistsError reports whether err comes from DDL that already ran.
func IsAlreadyExistsError(err error) bool {
	if err == nil {
		return false
	}
	value := strings.ToLower(err.Error())
	return strings.Contains(value, "already exists") || strings.Contains(value, "duplicate column name")
}

func isApplied(ctx context.Context, db *sql.DB, name string) (bool, error) {
	var found int
	err := db.QueryRowContext(ctx, "SELECT 1 FROM "+migrationTable+" WHERE name = ?", name).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check applied: %w", err)
	}
	return true, nil
}
