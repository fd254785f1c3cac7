// internal/history/repository.go
package history

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/julienpequegnot/bannergen/internal/database"
)

const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

type Record struct {
	ID         int64
	RunID      string
	PostPath   string
	PostTitle  string
	Prompt     string
	Style      string
	Version    string
	Width      int
	Height     int
	OutputPath string
	Status     string
	Error      string
	CreatedAt  time.Time
}

type Repository struct {
	db *database.DB
}

func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Add(rec Record) (int64, error) {
	if rec.Version == "" {
		rec.Version = "standard"
	}
	result, err := r.db.Exec(
		`INSERT INTO banners (run_id, post_path, post_title, prompt, style, version, width, height, output_path, status, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.PostPath, rec.PostTitle, rec.Prompt, rec.Style, rec.Version,
		rec.Width, rec.Height, rec.OutputPath, rec.Status, nullString(rec.Error),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert banner: %w", err)
	}
	return result.LastInsertId()
}

// Count returns the number of recorded banners.
func (r *Repository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM banners`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count banners: %w", err)
	}
	return n, nil
}

const selectColumns = `SELECT id, run_id, post_path, COALESCE(post_title, ''), prompt, style, version,
	width, height, output_path, status, COALESCE(error, ''), created_at FROM banners`

// List returns the most recent banners, newest first.
func (r *Repository) List(limit int) ([]Record, error) {
	return r.query(selectColumns+` ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
}

// ListRun returns the banners of one generate run in insertion order.
func (r *Repository) ListRun(runID string) ([]Record, error) {
	return r.query(selectColumns+` WHERE run_id = ? ORDER BY id`, runID)
}

// Search matches query against prompts and post titles.
func (r *Repository) Search(query string, limit int) ([]Record, error) {
	pattern := "%" + query + "%"
	return r.query(selectColumns+` WHERE prompt LIKE ? OR post_title LIKE ? ORDER BY created_at DESC, id DESC LIMIT ?`,
		pattern, pattern, limit)
}

func (r *Repository) query(q string, args ...any) ([]Record, error) {
	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.PostPath, &rec.PostTitle, &rec.Prompt, &rec.Style, &rec.Version,
			&rec.Width, &rec.Height, &rec.OutputPath, &rec.Status, &rec.Error, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
