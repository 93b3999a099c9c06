package study

import (
	"progeval/domain/core"
	"progeval/domain/stats"
)

// EvaluationReport is the assembled artifact of one full evaluation run over
// a loaded dataset: descriptives, the baseline and outcome mean comparisons,
// and the follow-up association. It is a value object; once assembled it is
// never mutated.
type EvaluationReport struct {
	ID        core.ReportID  `json:"id"`
	Source    string         `json:"source"` // file or generator the dataset came from
	Records   int            `json:"records"`
	CreatedAt core.Timestamp `json:"created_at"`

	GroupColumn string `json:"group_column"`

	Descriptives []stats.GroupSummary  `json:"descriptives"`
	Baseline     *stats.MeanComparison `json:"baseline,omitempty"` // pretest equivalence check
	Outcome      stats.MeanComparison  `json:"outcome"`
	Followup     stats.Association     `json:"followup"`

	Warnings []stats.Warning `json:"warnings,omitempty"`
}

// NewEvaluationReport stamps identity and creation time onto assembled results.
func NewEvaluationReport(source string, records int) *EvaluationReport {
	return &EvaluationReport{
		ID:        core.ReportID(core.NewID()),
		Source:    source,
		Records:   records,
		CreatedAt: core.Now(),
	}
}
