package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"progeval/domain/core"
	"progeval/domain/study"
	apperrors "progeval/internal/errors"
	"progeval/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// ReportArchiveImpl implements ReportArchive for PostgreSQL. Reports are
// archived as JSONB documents alongside a few indexed listing columns.
type ReportArchiveImpl struct {
	db *sqlx.DB
}

// NewReportArchive creates a new PostgreSQL report archive
func NewReportArchive(db *sqlx.DB) ports.ReportArchive {
	return &ReportArchiveImpl{db: db}
}

// Connect opens a PostgreSQL connection and ensures the schema exists
func Connect(ctx context.Context, databaseURL string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", databaseURL)
	if err != nil {
		return nil, apperrors.DatabaseError("failed to connect to database", err)
	}
	if err := ensureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS evaluation_reports (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			records INTEGER NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			payload JSONB NOT NULL
		)`)
	if err != nil {
		return apperrors.DatabaseError("failed to create evaluation_reports table", err)
	}
	return nil
}

// Save archives a report, replacing any previous version with the same ID
func (r *ReportArchiveImpl) Save(ctx context.Context, report *study.EvaluationReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return apperrors.Wrap(err, "failed to encode report")
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO evaluation_reports (id, source, records, created_at, payload)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET source = EXCLUDED.source,
		    records = EXCLUDED.records,
		    created_at = EXCLUDED.created_at,
		    payload = EXCLUDED.payload
	`, report.ID.String(), report.Source, report.Records, report.CreatedAt.Time(), payload)
	if err != nil {
		return apperrors.DatabaseError("failed to save report", err)
	}
	return nil
}

// GetByID retrieves an archived report
func (r *ReportArchiveImpl) GetByID(ctx context.Context, id core.ReportID) (*study.EvaluationReport, error) {
	var payload []byte
	err := r.db.GetContext(ctx, &payload, `
		SELECT payload FROM evaluation_reports WHERE id = $1
	`, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound(fmt.Sprintf("report %s", id))
	}
	if err != nil {
		return nil, apperrors.DatabaseError("failed to load report", err)
	}

	var report study.EvaluationReport
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode report")
	}
	return &report, nil
}

// List returns report summaries, newest first
func (r *ReportArchiveImpl) List(ctx context.Context, limit, offset int) ([]ports.ReportSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	summaries := []ports.ReportSummary{}
	err := r.db.SelectContext(ctx, &summaries, `
		SELECT id, source, records, created_at
		FROM evaluation_reports
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, apperrors.DatabaseError("failed to list reports", err)
	}
	return summaries, nil
}

// Delete removes an archived report
func (r *ReportArchiveImpl) Delete(ctx context.Context, id core.ReportID) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM evaluation_reports WHERE id = $1
	`, id.String())
	if err != nil {
		return apperrors.DatabaseError("failed to delete report", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.NotFound(fmt.Sprintf("report %s", id))
	}
	return nil
}
