// Package assoc tests independence of two categorical columns with the
// chi-squared statistic and reports phi (or Cramér's V) as the effect size.
package assoc

import (
	"fmt"
	"math"

	"progeval/domain/core"
	"progeval/domain/stats"
	"progeval/domain/study"
	"progeval/internal/analysis/dist"
)

// lowExpectedThreshold is the standard validity floor for expected cell
// counts in a chi-squared test.
const lowExpectedThreshold = 5.0

// Associate cross-tabulates rowCol against colCol and tests independence.
//
// For 2x2 tables the reported statistic carries Yates' continuity correction;
// the effect size phi is computed from the uncorrected statistic, matching
// its classical definition sqrt(chi2/N). Larger tables use the uncorrected
// statistic and Cramér's V.
//
// Expected cell counts below 5 do not fail the test; they surface as
// WarningLowExpectedCount on the result and the caller decides whether the
// degraded p-value is acceptable.
//
// An unset scale defaults to stats.PhiScale.
func Associate(ds *study.Dataset, rowCol, colCol string, scale stats.BandScale) (*stats.Association, error) {
	if ds == nil || ds.Len() == 0 {
		return nil, core.ErrEmptyDataset
	}
	if scale.IsZero() {
		scale = stats.PhiScale
	}
	if err := scale.Validate(); err != nil {
		return nil, err
	}

	table, err := crossTabulate(ds, rowCol, colCol)
	if err != nil {
		return nil, err
	}

	rows, cols := len(table.RowLevels), len(table.ColLevels)
	if rows < 2 || cols < 2 {
		return nil, fmt.Errorf("%w: need at least 2 levels per column, got %dx%d",
			core.ErrDegenerateTable, rows, cols)
	}

	rowTotals := table.RowTotals()
	colTotals := table.ColTotals()
	for i, rt := range rowTotals {
		if rt == 0 {
			return nil, fmt.Errorf("%w: row %q is empty", core.ErrDegenerateTable, table.RowLevels[i])
		}
	}
	for j, ct := range colTotals {
		if ct == 0 {
			return nil, fmt.Errorf("%w: column %q is empty", core.ErrDegenerateTable, table.ColLevels[j])
		}
	}

	chiSq, chiSqYates, lowExpected := chiSquare(table, rowTotals, colTotals)

	// Yates' correction guards the p-value of 2x2 tables against
	// overstatement; it only applies there.
	method := "chi_square"
	statistic := chiSq
	if table.IsTwoByTwo() {
		method = "chi_square_yates"
		statistic = chiSqYates
	}

	df := float64((rows - 1) * (cols - 1))
	test, err := stats.NewTestResult(method, statistic, df, dist.ChiSquarePValue(statistic, df))
	if err != nil {
		return nil, err
	}

	var warnings []stats.Warning
	if lowExpected {
		warnings = append(warnings, stats.WarningLowExpectedCount)
	}

	return &stats.Association{
		Table:    *table,
		Test:     test,
		Effect:   effectSize(table, chiSq, scale),
		Warnings: warnings,
	}, nil
}

// crossTabulate builds the observed table, levels in first-seen order.
// Records missing either label are excluded.
func crossTabulate(ds *study.Dataset, rowCol, colCol string) (*stats.ContingencyTable, error) {
	rowLabels, err := ds.Categorical(rowCol)
	if err != nil {
		return nil, err
	}
	colLabels, err := ds.Categorical(colCol)
	if err != nil {
		return nil, err
	}
	rowLevels, err := ds.Levels(rowCol)
	if err != nil {
		return nil, err
	}
	colLevels, err := ds.Levels(colCol)
	if err != nil {
		return nil, err
	}

	rowIdx := make(map[string]int, len(rowLevels))
	for i, l := range rowLevels {
		rowIdx[l] = i
	}
	colIdx := make(map[string]int, len(colLevels))
	for j, l := range colLevels {
		colIdx[l] = j
	}

	counts := make([][]int, len(rowLevels))
	for i := range counts {
		counts[i] = make([]int, len(colLevels))
	}

	total := 0
	for k := range rowLabels {
		if rowLabels[k] == "" || colLabels[k] == "" {
			continue
		}
		counts[rowIdx[rowLabels[k]]][colIdx[colLabels[k]]]++
		total++
	}

	return &stats.ContingencyTable{
		RowColumn: rowCol,
		ColColumn: colCol,
		RowLevels: rowLevels,
		ColLevels: colLevels,
		Counts:    counts,
		Total:     total,
	}, nil
}

// chiSquare returns the uncorrected and Yates-corrected statistics plus
// whether any expected count fell below the validity floor.
func chiSquare(table *stats.ContingencyTable, rowTotals, colTotals []int) (chiSq, chiSqYates float64, lowExpected bool) {
	n := float64(table.Total)
	for i, row := range table.Counts {
		for j, observed := range row {
			expected := float64(rowTotals[i]) * float64(colTotals[j]) / n
			if expected < lowExpectedThreshold {
				lowExpected = true
			}

			diff := float64(observed) - expected
			chiSq += diff * diff / expected

			adj := math.Abs(diff) - 0.5
			if adj < 0 {
				adj = 0
			}
			chiSqYates += adj * adj / expected
		}
	}
	return chiSq, chiSqYates, lowExpected
}

// effectSize computes phi for 2x2 tables, Cramér's V otherwise, from the
// uncorrected statistic.
func effectSize(table *stats.ContingencyTable, chiSq float64, scale stats.BandScale) stats.EffectSize {
	n := float64(table.Total)
	if table.IsTwoByTwo() {
		return stats.NewEffectSize("phi", math.Sqrt(chiSq/n), scale)
	}

	minDim := math.Min(float64(len(table.RowLevels)-1), float64(len(table.ColLevels)-1))
	return stats.NewEffectSize("cramers_v", math.Sqrt(chiSq/(n*minDim)), scale)
}
