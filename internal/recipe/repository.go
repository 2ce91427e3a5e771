package recipe

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Repository mirrors the corpus into SQLite so other components can query it
// without re-reading the CSV. The CSV file stays authoritative; the mirror is
// refreshed on each planning run.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// Save inserts or updates a recipe, keyed by title.
func (r *Repository) Save(ctx context.Context, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal recipe to JSON: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO recipes (title, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(title) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		rec.Title, string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save recipe %q: %w", rec.Title, err)
	}
	return nil
}

// Get retrieves a recipe by title. A missing recipe returns (nil, nil).
func (r *Repository) Get(ctx context.Context, title string) (*Record, error) {
	var data string
	err := r.db.QueryRowContext(ctx,
		`SELECT data FROM recipes WHERE title = ?`, title).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe %q: %w", title, err)
	}

	var rec Record
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recipe JSON: %w", err)
	}
	return &rec, nil
}

// List retrieves all mirrored recipes, ordered by title.
func (r *Repository) List(ctx context.Context) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT data FROM recipes ORDER BY title`)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan recipe row: %w", err)
		}
		var rec Record
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal recipe JSON: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Count returns the number of mirrored recipes.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM recipes`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count recipes: %w", err)
	}
	return count, nil
}
