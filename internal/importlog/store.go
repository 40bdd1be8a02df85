// Package importlog records finished CSV import runs for operator review.
package importlog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Record is one finished import run. ErrorFields lists the distinct field
// names that produced row errors, for a quick read on what went wrong.
type Record struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Filename    string    `json:"filename"`
	Success     int       `json:"success"`
	Failed      int       `json:"failed"`
	ErrorFields []string  `json:"error_fields"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store persists import runs via database/sql. A nil store is a no-op so the
// API can run without a database.
type Store struct {
	db *sql.DB
}

// NewStore wraps a sql.DB; returns nil when db is nil.
func NewStore(db *sql.DB) *Store {
	if db == nil {
		return nil
	}
	return &Store{db: db}
}

// Insert writes one run. The id is assigned when empty.
func (s *Store) Insert(ctx context.Context, rec *Record) error {
	if s == nil {
		return nil
	}
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO import_runs (id, owner_id, filename, success_count, failed_count, error_fields)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		rec.ID, rec.OwnerID, rec.Filename, rec.Success, rec.Failed, pq.Array(rec.ErrorFields),
	).Scan(&rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("importlog: insert failed: %w", err)
	}
	return nil
}

// ListByOwner returns the owner's most recent runs, newest first.
func (s *Store) ListByOwner(ctx context.Context, ownerID string, limit int) ([]Record, error) {
	if s == nil {
		return []Record{}, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, filename, success_count, failed_count, error_fields, created_at
		FROM import_runs WHERE owner_id = $1
		ORDER BY created_at DESC LIMIT $2`, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("importlog: list failed: %w", err)
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.OwnerID, &rec.Filename, &rec.Success,
			&rec.Failed, pq.Array(&rec.ErrorFields), &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("importlog: scan failed: %w", err)
		}
		if rec.ErrorFields == nil {
			rec.ErrorFields = []string{}
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
