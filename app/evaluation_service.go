package app

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"progeval/domain/core"
	"progeval/domain/stats"
	"progeval/domain/study"
	"progeval/internal"
	"progeval/internal/analysis/assoc"
	"progeval/internal/analysis/describe"
	"progeval/internal/analysis/meandiff"
	"progeval/internal/analysis/power"
	apperrors "progeval/internal/errors"
	"progeval/ports"
)

// EvaluationService runs the full program evaluation over a loaded dataset
// and optionally archives the assembled report.
type EvaluationService struct {
	archive ports.ReportArchive // nil disables archiving
	logger  *internal.Logger
}

// AnalysisSpec names the dataset columns each analysis reads. PretestColumn
// and FollowupColumn may be empty, which skips the baseline comparison and
// the follow-up association respectively.
type AnalysisSpec struct {
	GroupColumn    string
	PretestColumn  string
	PosttestColumn string
	FollowupColumn string

	// Zero-value scales fall back to the conventional cutoffs for each
	// effect size measure.
	EffectScale stats.BandScale
	AssocScale  stats.BandScale
}

func (spec AnalysisSpec) validate() error {
	if spec.GroupColumn == "" {
		return apperrors.InvalidInput("group column is required")
	}
	if spec.PosttestColumn == "" {
		return apperrors.InvalidInput("posttest column is required")
	}
	return nil
}

// NewEvaluationService creates an evaluation service. A nil archive is
// allowed and turns report persistence into a no-op.
func NewEvaluationService(archive ports.ReportArchive, logger *internal.Logger) *EvaluationService {
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	return &EvaluationService{archive: archive, logger: logger}
}

// Evaluate runs descriptives, the baseline and outcome mean comparisons, and
// the follow-up association over the dataset. The four analyses are
// independent reads of an immutable dataset, so they run concurrently.
func (s *EvaluationService) Evaluate(ctx context.Context, ds *study.Dataset, source string, spec AnalysisSpec) (*study.EvaluationReport, error) {
	if err := spec.validate(); err != nil {
		return nil, err
	}

	started := time.Now()
	s.logger.Info("evaluating %s (%d records, group column %q)", source, ds.Len(), spec.GroupColumn)

	report := study.NewEvaluationReport(source, ds.Len())
	report.GroupColumn = spec.GroupColumn

	var g errgroup.Group

	g.Go(func() error {
		cols := []string{spec.PosttestColumn}
		if spec.PretestColumn != "" {
			cols = append([]string{spec.PretestColumn}, cols...)
		}
		summaries, err := describe.Summarize(ds, spec.GroupColumn, cols...)
		if err != nil {
			return apperrors.Wrap(err, "descriptive summary failed")
		}
		report.Descriptives = summaries
		return nil
	})

	if spec.PretestColumn != "" {
		g.Go(func() error {
			baseline, err := meandiff.Compare(ds, spec.GroupColumn, spec.PretestColumn, spec.EffectScale)
			if err != nil {
				return apperrors.Wrap(err, "baseline comparison failed")
			}
			report.Baseline = baseline
			return nil
		})
	}

	g.Go(func() error {
		outcome, err := meandiff.Compare(ds, spec.GroupColumn, spec.PosttestColumn, spec.EffectScale)
		if err != nil {
			return apperrors.Wrap(err, "outcome comparison failed")
		}
		report.Outcome = *outcome
		return nil
	})

	if spec.FollowupColumn != "" {
		g.Go(func() error {
			followup, err := assoc.Associate(ds, spec.GroupColumn, spec.FollowupColumn, spec.AssocScale)
			if err != nil {
				return apperrors.Wrap(err, "follow-up association failed")
			}
			report.Followup = *followup
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.Warnings = append(report.Warnings, report.Followup.Warnings...)

	if s.archive != nil {
		if err := s.archive.Save(ctx, report); err != nil {
			return nil, apperrors.Wrap(err, "failed to archive report")
		}
		s.logger.Debug("archived report %s", report.ID)
	}

	s.logger.Info("evaluation %s complete in %dms", report.ID, time.Since(started).Milliseconds())
	return report, nil
}

// PlanStudy solves the power analysis for the missing design parameter.
func (s *EvaluationService) PlanStudy(req power.Request) (stats.PowerResult, error) {
	result, err := power.Solve(req)
	if err != nil {
		return stats.PowerResult{}, err
	}
	s.logger.Info("power analysis solved %s: d=%.3f alpha=%.3f power=%.3f n=%d per group",
		result.Solved, result.EffectSize, result.Alpha, result.Power, result.SampleSize)
	return result, nil
}

// GetReport loads an archived report by ID.
func (s *EvaluationService) GetReport(ctx context.Context, id string) (*study.EvaluationReport, error) {
	if s.archive == nil {
		return nil, apperrors.ConfigInvalid("report archive is not configured")
	}
	reportID, err := core.ParseReportID(id)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	return s.archive.GetByID(ctx, reportID)
}

// ListReports lists archived report summaries, newest first.
func (s *EvaluationService) ListReports(ctx context.Context, limit, offset int) ([]ports.ReportSummary, error) {
	if s.archive == nil {
		return []ports.ReportSummary{}, nil
	}
	return s.archive.List(ctx, limit, offset)
}
