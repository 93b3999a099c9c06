package report

import (
	"fmt"
	"math"
	"strings"

	"progeval/domain/stats"
	"progeval/domain/study"
)

// Render produces the markdown narrative for an evaluation report. The
// layout is stable so rendered reports can be diffed across runs.
func Render(r *study.EvaluationReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Program Evaluation Report\n\n")
	fmt.Fprintf(&b, "- Report: `%s`\n", r.ID)
	fmt.Fprintf(&b, "- Source: %s\n", r.Source)
	fmt.Fprintf(&b, "- Records: %d\n", r.Records)
	fmt.Fprintf(&b, "- Generated: %s\n\n", r.CreatedAt)

	renderDescriptives(&b, r.Descriptives)

	if r.Baseline != nil {
		fmt.Fprintf(&b, "## Baseline Equivalence\n\n")
		renderComparison(&b, r.Baseline)
	}

	fmt.Fprintf(&b, "## Outcome Comparison\n\n")
	renderComparison(&b, &r.Outcome)

	if r.Followup.Test.Method != "" {
		fmt.Fprintf(&b, "## Follow-up Association\n\n")
		renderAssociation(&b, &r.Followup)
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintf(&b, "## Warnings\n\n")
		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// RenderPower produces the markdown summary of a power analysis.
func RenderPower(p stats.PowerResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Power Analysis\n\n")
	fmt.Fprintf(&b, "Solved for %s.\n\n", strings.ReplaceAll(string(p.Solved), "_", " "))
	fmt.Fprintf(&b, "| Parameter | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Effect size (d) | %.3f |\n", p.EffectSize)
	fmt.Fprintf(&b, "| Alpha | %.3f |\n", p.Alpha)
	fmt.Fprintf(&b, "| Power | %.3f |\n", p.Power)
	fmt.Fprintf(&b, "| Sample size per group | %d |\n\n", p.SampleSize)
	return b.String()
}

func renderDescriptives(b *strings.Builder, groups []stats.GroupSummary) {
	if len(groups) == 0 {
		return
	}
	fmt.Fprintf(b, "## Descriptive Statistics\n\n")
	fmt.Fprintf(b, "| Group | Column | N | Mean | SD | Min | Max |\n")
	fmt.Fprintf(b, "|---|---|---|---|---|---|---|\n")
	for _, g := range groups {
		for _, c := range g.Columns {
			fmt.Fprintf(b, "| %s | %s | %d | %s | %s | %s | %s |\n",
				g.Group, c.Column, c.N, num(c.Mean), num(c.StdDev), num(c.Min), num(c.Max))
		}
	}
	b.WriteString("\n")
}

func renderComparison(b *strings.Builder, cmp *stats.MeanComparison) {
	fmt.Fprintf(b, "Outcome column: `%s`\n\n", cmp.Outcome)
	fmt.Fprintf(b, "| Group | N | Mean | SD |\n|---|---|---|---|\n")
	for _, g := range cmp.Groups {
		fmt.Fprintf(b, "| %s | %d | %s | %s |\n", g.Group, g.N, num(g.Mean), num(g.StdDev))
	}
	fmt.Fprintf(b, "\n%s: t = %.3f, df = %.1f, p = %.4f.\n",
		cmp.Test.Method, cmp.Test.Statistic, cmp.Test.DF, cmp.Test.PValue)
	fmt.Fprintf(b, "Effect size %s = %.3f (%s).\n\n",
		cmp.Effect.Measure, cmp.Effect.Value, cmp.Effect.Band)
}

func renderAssociation(b *strings.Builder, a *stats.Association) {
	t := a.Table
	fmt.Fprintf(b, "Cross-tabulation of `%s` by `%s` (N = %d):\n\n", t.RowColumn, t.ColColumn, t.Total)

	fmt.Fprintf(b, "| %s \\ %s |", t.RowColumn, t.ColColumn)
	for _, col := range t.ColLevels {
		fmt.Fprintf(b, " %s |", col)
	}
	b.WriteString("\n|---|")
	for range t.ColLevels {
		b.WriteString("---|")
	}
	b.WriteString("\n")
	for i, row := range t.RowLevels {
		fmt.Fprintf(b, "| %s |", row)
		for j := range t.ColLevels {
			fmt.Fprintf(b, " %d |", t.Counts[i][j])
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(b, "\n%s: chi-square = %.3f, df = %.0f, p = %.4f.\n",
		a.Test.Method, a.Test.Statistic, a.Test.DF, a.Test.PValue)
	fmt.Fprintf(b, "Effect size %s = %.3f (%s).\n\n",
		a.Effect.Measure, a.Effect.Value, a.Effect.Band)
}

// num formats a statistic for tables, keeping missing values readable
func num(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}
