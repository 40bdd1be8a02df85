package buyers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	defaultListLimit = 50
	maxListLimit     = 100
)

// PgxPool is the subset of pgxpool.Pool the repository needs; pgxmock
// implements it for tests.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores buyer leads in the relational database.
type PostgresRepository struct {
	pool PgxPool
}

// NewPostgresRepository initializes a repo backed by a pgx pool.
func NewPostgresRepository(pool PgxPool) *PostgresRepository {
	if pool == nil {
		panic("buyers: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

const buyerColumns = `id, owner_id, full_name, email, phone, city, property_type, bhk, purpose,
	budget_min, budget_max, timeline, source, status, notes, tags, created_at, updated_at`

// List returns the owner's leads, newest first, honoring the filter.
func (r *PostgresRepository) List(ctx context.Context, ownerID string, filter ListFilter) ([]Buyer, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, ErrMissingOwner
	}

	query := `SELECT ` + buyerColumns + ` FROM buyers WHERE owner_id = $1`
	args := []any{ownerID}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		query += fmt.Sprintf(" AND (full_name ILIKE $%d OR email ILIKE $%d OR phone ILIKE $%d)", n, n, n)
	}
	for _, eq := range []struct {
		column string
		value  string
	}{
		{"city", filter.City},
		{"property_type", filter.PropertyType},
		{"status", filter.Status},
		{"timeline", filter.Timeline},
	} {
		if eq.value == "" {
			continue
		}
		args = append(args, eq.value)
		query += fmt.Sprintf(" AND %s = $%d", eq.column, len(args))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("buyers: list failed: %w", err)
	}
	defer rows.Close()

	out := []Buyer{}
	for rows.Next() {
		var b Buyer
		if err := scanBuyer(rows, &b); err != nil {
			return nil, fmt.Errorf("buyers: scan failed: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Create inserts a new lead for the owner. The input must already be
// canonicalized and validated by the caller; this layer only persists.
func (r *PostgresRepository) Create(ctx context.Context, ownerID string, in *BuyerInput) (*Buyer, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, ErrMissingOwner
	}

	id := uuid.New()
	query := `
		INSERT INTO buyers (id, owner_id, full_name, email, phone, city, property_type, bhk,
			purpose, budget_min, budget_max, timeline, source, status, notes, tags)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
		RETURNING created_at, updated_at
	`
	b := buyerFromInput(id.String(), ownerID, in)
	if err := r.pool.QueryRow(ctx, query,
		id, ownerID, b.FullName, b.Email, b.Phone, b.City, b.PropertyType, b.BHK,
		b.Purpose, b.BudgetMin, b.BudgetMax, b.Timeline, b.Source, b.Status, b.Notes, b.Tags,
	).Scan(&b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, fmt.Errorf("buyers: insert failed: %w", err)
	}
	return b, nil
}

// GetByID fetches one lead scoped to the owner.
func (r *PostgresRepository) GetByID(ctx context.Context, id, ownerID string) (*Buyer, error) {
	query := `SELECT ` + buyerColumns + ` FROM buyers WHERE id = $1 AND owner_id = $2`
	var b Buyer
	if err := scanBuyer(r.pool.QueryRow(ctx, query, id, ownerID), &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("buyers: select failed: %w", err)
	}
	return &b, nil
}

// Update replaces every mutable field of the owner's lead. Owner and id are
// immutable; updated_at advances server-side.
func (r *PostgresRepository) Update(ctx context.Context, id, ownerID string, in *BuyerInput) (*Buyer, error) {
	query := `
		UPDATE buyers SET full_name=$3, email=$4, phone=$5, city=$6, property_type=$7, bhk=$8,
			purpose=$9, budget_min=$10, budget_max=$11, timeline=$12, source=$13, status=$14,
			notes=$15, tags=$16, updated_at=now()
		WHERE id = $1 AND owner_id = $2
		RETURNING created_at, updated_at
	`
	b := buyerFromInput(id, ownerID, in)
	if err := r.pool.QueryRow(ctx, query,
		id, ownerID, b.FullName, b.Email, b.Phone, b.City, b.PropertyType, b.BHK,
		b.Purpose, b.BudgetMin, b.BudgetMax, b.Timeline, b.Source, b.Status, b.Notes, b.Tags,
	).Scan(&b.CreatedAt, &b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("buyers: update failed: %w", err)
	}
	return b, nil
}

// Delete removes the owner's lead.
func (r *PostgresRepository) Delete(ctx context.Context, id, ownerID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM buyers WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("buyers: delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats aggregates the owner's dashboard numbers in one round trip.
func (r *PostgresRepository) Stats(ctx context.Context, ownerID string) (*Stats, error) {
	query := `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE status = 'new'),
			COUNT(*) FILTER (WHERE status = 'closed'),
			COUNT(*) FILTER (WHERE timeline = 'immediate')
		FROM buyers WHERE owner_id = $1
	`
	s := &Stats{OwnerID: ownerID}
	if err := r.pool.QueryRow(ctx, query, ownerID).Scan(&s.Total, &s.New, &s.Converted, &s.Urgent); err != nil {
		return nil, fmt.Errorf("buyers: stats failed: %w", err)
	}
	s.ConversionRate = conversionRate(s.Converted, s.Total)
	return s, nil
}

func buyerFromInput(id, ownerID string, in *BuyerInput) *Buyer {
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	return &Buyer{
		ID:           id,
		OwnerID:      ownerID,
		FullName:     in.FullName,
		Email:        in.Email,
		Phone:        in.Phone,
		City:         in.City,
		PropertyType: in.PropertyType,
		BHK:          in.BHK,
		Purpose:      in.Purpose,
		BudgetMin:    in.BudgetMin,
		BudgetMax:    in.BudgetMax,
		Timeline:     in.Timeline,
		Source:       in.Source,
		Status:       in.Status,
		Notes:        in.Notes,
		Tags:         tags,
	}
}

func scanBuyer(row pgx.Row, b *Buyer) error {
	return row.Scan(
		&b.ID, &b.OwnerID, &b.FullName, &b.Email, &b.Phone, &b.City, &b.PropertyType, &b.BHK,
		&b.Purpose, &b.BudgetMin, &b.BudgetMax, &b.Timeline, &b.Source, &b.Status, &b.Notes,
		&b.Tags, &b.CreatedAt, &b.UpdatedAt,
	)
}
