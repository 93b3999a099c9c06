package app

import (
	"context"
	"math"
	"testing"

	"progeval/domain/core"
	"progeval/domain/stats"
	"progeval/domain/study"
	"progeval/internal/analysis/power"
	"progeval/internal/studygen"
	"progeval/ports"
)

type memoryArchive struct {
	reports map[core.ReportID]*study.EvaluationReport
}

func newMemoryArchive() *memoryArchive {
	return &memoryArchive{reports: make(map[core.ReportID]*study.EvaluationReport)}
}

func (m *memoryArchive) Save(_ context.Context, report *study.EvaluationReport) error {
	m.reports[report.ID] = report
	return nil
}

func (m *memoryArchive) GetByID(_ context.Context, id core.ReportID) (*study.EvaluationReport, error) {
	if r, ok := m.reports[id]; ok {
		return r, nil
	}
	return nil, context.Canceled
}

func (m *memoryArchive) List(_ context.Context, _, _ int) ([]ports.ReportSummary, error) {
	out := make([]ports.ReportSummary, 0, len(m.reports))
	for _, r := range m.reports {
		out = append(out, ports.ReportSummary{ID: r.ID, Source: r.Source, Records: r.Records, CreatedAt: r.CreatedAt})
	}
	return out, nil
}

func (m *memoryArchive) Delete(_ context.Context, id core.ReportID) error {
	delete(m.reports, id)
	return nil
}

func demoDataset(t *testing.T) *study.Dataset {
	t.Helper()
	ds, err := studygen.Generate(studygen.DefaultConfig())
	if err != nil {
		t.Fatalf("generating dataset: %v", err)
	}
	return ds
}

func demoSpec() AnalysisSpec {
	return AnalysisSpec{
		GroupColumn:    studygen.ColGroup,
		PretestColumn:  studygen.ColPretest,
		PosttestColumn: studygen.ColPosttest,
		FollowupColumn: studygen.ColFollowup,
	}
}

func TestEvaluateFullStudy(t *testing.T) {
	archive := newMemoryArchive()
	svc := NewEvaluationService(archive, nil)

	report, err := svc.Evaluate(context.Background(), demoDataset(t), "generated", demoSpec())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	if report.Records != 128 {
		t.Errorf("expected 128 records, got %d", report.Records)
	}
	if len(report.Descriptives) != 2 {
		t.Fatalf("expected 2 group summaries, got %d", len(report.Descriptives))
	}

	if report.Baseline == nil {
		t.Fatal("expected a baseline comparison")
	}
	if report.Baseline.Test.PValue < 0.05 {
		t.Errorf("baseline groups should not differ, p=%.4f", report.Baseline.Test.PValue)
	}

	if report.Outcome.Test.PValue >= 0.01 {
		t.Errorf("outcome difference should be significant, p=%.4f", report.Outcome.Test.PValue)
	}
	if math.Abs(report.Outcome.Effect.Value-(-0.632)) > 0.005 {
		t.Errorf("expected outcome d near -0.632, got %.4f", report.Outcome.Effect.Value)
	}

	if report.Followup.Effect.Measure != "phi" {
		t.Errorf("expected phi effect size, got %q", report.Followup.Effect.Measure)
	}
	if math.Abs(report.Followup.Effect.Value-0.207) > 0.005 {
		t.Errorf("expected phi near 0.207, got %.4f", report.Followup.Effect.Value)
	}

	if _, ok := archive.reports[report.ID]; !ok {
		t.Error("report was not archived")
	}
}

func TestEvaluateWithoutOptionalColumns(t *testing.T) {
	svc := NewEvaluationService(nil, nil)

	spec := demoSpec()
	spec.PretestColumn = ""
	spec.FollowupColumn = ""

	report, err := svc.Evaluate(context.Background(), demoDataset(t), "generated", spec)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if report.Baseline != nil {
		t.Error("baseline should be skipped without a pretest column")
	}
	if report.Followup.Test.Method != "" {
		t.Error("follow-up should be skipped without a followup column")
	}
	if len(report.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", report.Warnings)
	}
}

func TestEvaluateValidation(t *testing.T) {
	svc := NewEvaluationService(nil, nil)
	ds := demoDataset(t)

	if _, err := svc.Evaluate(context.Background(), ds, "generated", AnalysisSpec{PosttestColumn: "posttest"}); err == nil {
		t.Error("expected error for missing group column")
	}
	if _, err := svc.Evaluate(context.Background(), ds, "generated", AnalysisSpec{GroupColumn: "group"}); err == nil {
		t.Error("expected error for missing posttest column")
	}

	spec := demoSpec()
	spec.PosttestColumn = "no_such_column"
	if _, err := svc.Evaluate(context.Background(), ds, "generated", spec); err == nil {
		t.Error("expected error for unknown posttest column")
	}
}

func TestPlanStudy(t *testing.T) {
	svc := NewEvaluationService(nil, nil)

	result, err := svc.PlanStudy(power.Request{
		EffectSize: power.Float(0.5),
		Alpha:      power.Float(0.05),
		Power:      power.Float(0.80),
	})
	if err != nil {
		t.Fatalf("PlanStudy: %v", err)
	}
	if result.Solved != stats.ParamSampleSize {
		t.Errorf("expected sample size solved, got %s", result.Solved)
	}
	if result.SampleSize != 64 {
		t.Errorf("expected n=64 per group, got %d", result.SampleSize)
	}
}
