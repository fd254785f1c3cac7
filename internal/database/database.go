package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

type DB struct {
	conn *sql.DB
	path string
}

func New(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Parallel renders share one connection.
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn, path: path}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

func (db *DB) Path() string {
	return db.path
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) Exec(query string, args ...any) (sql.Result, error) {
	return db.conn.Exec(query, args...)
}

func (db *DB) Query(query string, args ...any) (*sql.Rows, error) {
	return db.conn.Query(query, args...)
}

func (db *DB) QueryRow(query string, args ...any) *sql.Row {
	return db.conn.QueryRow(query, args...)
}

func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS banners (
		id INTEGER PRIMARY KEY,
		run_id TEXT NOT NULL,
		post_path TEXT NOT NULL,
		post_title TEXT,
		prompt TEXT NOT NULL,
		style TEXT NOT NULL,
		version TEXT NOT NULL DEFAULT 'standard',
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		output_path TEXT NOT NULL,
		status TEXT NOT NULL CHECK (status IN ('ok', 'failed')),
		error TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_banners_run ON banners(run_id);
	CREATE INDEX IF NOT EXISTS idx_banners_created ON banners(created_at DESC);
	`

	_, err := db.conn.Exec(schema)
	return err
}
