// Package importer runs the CSV batch import pipeline: parse, validate each
// row, transform to canonical form and persist, aggregating per-row outcomes.
package importer

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/tricityrealty/leadhub/internal/buyers"
	"github.com/tricityrealty/leadhub/internal/csvio"
	"github.com/tricityrealty/leadhub/internal/observability/metrics"
	"github.com/tricityrealty/leadhub/pkg/logging"
)

// DefaultMaxRows caps one import batch unless configured otherwise.
const DefaultMaxRows = 200

// RowError describes one field-level failure on one source line. Data carries
// the full raw row so operators can diagnose without reopening the file.
type RowError struct {
	Row     int               `json:"row"`
	Field   string            `json:"field"`
	Message string            `json:"message"`
	Data    map[string]string `json:"data"`
}

// Result aggregates a whole batch. Failed counts rows, not violations: a row
// with three bad fields adds one to Failed and three entries to Errors.
type Result struct {
	Success int        `json:"success"`
	Failed  int        `json:"failed"`
	Errors  []RowError `json:"errors"`
}

// ErrTooManyRows rejects an oversized batch before any row is processed.
type ErrTooManyRows struct {
	Rows, Max int
}

func (e *ErrTooManyRows) Error() string {
	return fmt.Sprintf("import has %d rows, maximum is %d", e.Rows, e.Max)
}

// Importer orchestrates the batch pipeline against a buyers repository.
type Importer struct {
	repo    buyers.Repository
	logger  *logging.Logger
	metrics *metrics.ImportMetrics
	maxRows int
}

// New creates an importer. metrics may be nil; maxRows <= 0 selects the
// default cap.
func New(repo buyers.Repository, logger *logging.Logger, m *metrics.ImportMetrics, maxRows int) *Importer {
	if logger == nil {
		logger = logging.Default()
	}
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}
	return &Importer{repo: repo, logger: logger, metrics: m, maxRows: maxRows}
}

// Import runs the whole pipeline for one file. Row failures are recovered and
// reported in the result; only an unreadable file, a missing owner or an
// oversized batch abort the operation. Rows are processed strictly in input
// order and one row's failure never affects another (row-level isolation).
// Data row i (0-based) is reported as source line i+2, accounting for the
// header line.
func (imp *Importer) Import(ctx context.Context, ownerID string, r io.Reader) (*Result, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, buyers.ErrMissingOwner
	}

	rows, err := csvio.ParseRows(r)
	if err != nil {
		imp.metrics.ObserveBatch("unreadable", 0)
		return nil, err
	}
	if len(rows) > imp.maxRows {
		imp.metrics.ObserveBatch("rejected", 0)
		return nil, &ErrTooManyRows{Rows: len(rows), Max: imp.maxRows}
	}

	start := time.Now()
	result := &Result{Errors: []RowError{}}

	for i, row := range rows {
		line := i + 2

		if violations := buyers.ValidateRow(row); len(violations) > 0 {
			result.Failed++
			imp.metrics.ObserveRow(metrics.RowInvalid)
			for _, v := range violations {
				result.Errors = append(result.Errors, RowError{
					Row:     line,
					Field:   v.Field,
					Message: v.Message,
					Data:    row,
				})
			}
			continue
		}

		in := transformRow(row)
		if _, err := imp.repo.Create(ctx, ownerID, in); err != nil {
			result.Failed++
			imp.metrics.ObserveRow(metrics.RowDBError)
			result.Errors = append(result.Errors, RowError{
				Row:     line,
				Field:   "database",
				Message: err.Error(),
				Data:    row,
			})
			continue
		}

		result.Success++
		imp.metrics.ObserveRow(metrics.RowImported)
	}

	imp.metrics.ObserveBatch("completed", time.Since(start).Seconds())
	imp.logger.Info("csv import finished",
		"owner_id", ownerID,
		"success", result.Success,
		"failed", result.Failed,
	)
	return result, nil
}

// transformRow maps a validated raw row onto the canonical record shape:
// enums lowercased, strings trimmed, numerics converted, tags split and
// deduplicated, status defaulted.
func transformRow(row csvio.Row) *buyers.BuyerInput {
	in := &buyers.BuyerInput{
		FullName:     row["full_name"],
		Email:        row["email"],
		Phone:        row["phone"],
		City:         row["city"],
		PropertyType: row["property_type"],
		Purpose:      row["purpose"],
		Timeline:     row["timeline"],
		Source:       row["source"],
		Status:       row["status"],
		Notes:        row["notes"],
		Tags:         buyers.SplitTags(row["tags"]),
	}
	if raw := strings.TrimSpace(row["bhk"]); raw != "" {
		if bhk, err := strconv.Atoi(raw); err == nil {
			in.BHK = &bhk
		}
	}
	if raw := strings.TrimSpace(row["budget_min"]); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			in.BudgetMin = &v
		}
	}
	if raw := strings.TrimSpace(row["budget_max"]); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			in.BudgetMax = &v
		}
	}
	in.Canonicalize()
	return in
}
