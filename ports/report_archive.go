package ports

import (
	"context"

	"progeval/domain/core"
	"progeval/domain/study"
)

// ReportArchive defines the interface for evaluation report storage
type ReportArchive interface {
	Save(ctx context.Context, report *study.EvaluationReport) error
	GetByID(ctx context.Context, id core.ReportID) (*study.EvaluationReport, error)
	List(ctx context.Context, limit, offset int) ([]ReportSummary, error)
	Delete(ctx context.Context, id core.ReportID) error
}

// ReportSummary is the listing view of an archived report
type ReportSummary struct {
	ID        core.ReportID  `db:"id" json:"id"`
	Source    string         `db:"source" json:"source"`
	Records   int            `db:"records" json:"records"`
	CreatedAt core.Timestamp `db:"created_at" json:"created_at"`
}
