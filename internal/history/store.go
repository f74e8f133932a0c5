// Package history persists a small append-only record of past builds in a
// local SQLite database. The store is optional and never consulted during
// resolution; it only feeds the history command.
package history

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/LeonAquitaine/as-stagefx-sub006/internal/models"
)

//go:embed schema.sql
var schemaSQL string

// Record is one per-package build history row
type Record struct {
	ID           int64
	BuildID      string
	Version      string
	Package      string
	FileCount    int
	TextureCount int
	WarningCount int
	CreatedAt    time.Time
}

// Store manages the SQLite build-history database
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore opens (creating if needed) the history database at dbPath and
// ensures the schema exists
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// busy_timeout first so subsequent statements wait on locks
	for _, pragma := range []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordBuild appends one row per package of a finished build
func (s *Store) RecordBuild(m *models.Manifest, warningCount int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO build_packages
			(build_id, version, package, file_count, texture_count, warning_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, pkg := range m.Packages {
		textureCount := 0
		if pkg.Textures != nil {
			textureCount = pkg.Textures.Count
		}
		if _, err := stmt.Exec(m.BuildID, m.Version, pkg.Name, pkg.FileCount,
			textureCount, warningCount, m.GeneratedAt); err != nil {
			return fmt.Errorf("insert package %s: %w", pkg.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Recent returns up to limit history rows, newest first
func (s *Store) Recent(limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(`
		SELECT id, build_id, version, package, file_count, texture_count, warning_count, created_at
		FROM build_packages
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.BuildID, &rec.Version, &rec.Package,
			&rec.FileCount, &rec.TextureCount, &rec.WarningCount, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return records, nil
}
