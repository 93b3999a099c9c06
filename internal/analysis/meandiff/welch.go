// Package meandiff runs the two-sample mean comparison: Welch's t test plus
// Cohen's d.
package meandiff

import (
	"fmt"
	"math"

	"progeval/domain/core"
	"progeval/domain/stats"
	"progeval/domain/study"
	"progeval/internal/analysis/dist"
)

// Compare tests the difference in means of the outcome column between the two
// levels of the grouping column.
//
// The test is Welch's t (unequal variances, Welch-Satterthwaite df) so
// real-world groups with different sizes and spreads are handled correctly.
// The effect size is Cohen's d with the classical pooled standard deviation,
// weighted by group sizes minus one.
//
// Sign convention: statistic and d are first-seen group minus second-seen
// group. Swapping the two labels in the dataset negates both and leaves the
// p-value unchanged.
//
// An unset scale defaults to stats.CohenScale.
func Compare(ds *study.Dataset, groupCol, outcomeCol string, scale stats.BandScale) (*stats.MeanComparison, error) {
	if ds == nil || ds.Len() == 0 {
		return nil, core.ErrEmptyDataset
	}
	if scale.IsZero() {
		scale = stats.CohenScale
	}
	if err := scale.Validate(); err != nil {
		return nil, err
	}

	levels, split, err := ds.GroupNumeric(groupCol, outcomeCol)
	if err != nil {
		return nil, err
	}
	if len(levels) != 2 {
		return nil, fmt.Errorf("%w: column %q has %d", core.ErrGroupCount, groupCol, len(levels))
	}

	g1, g2 := split[levels[0]], split[levels[1]]
	if len(g1) < 2 || len(g2) < 2 {
		return nil, fmt.Errorf("%w: groups %q=%d, %q=%d records",
			core.ErrInsufficientData, levels[0], len(g1), levels[1], len(g2))
	}

	s1 := groupStats(levels[0], g1)
	s2 := groupStats(levels[1], g2)

	test, err := welch(s1, s2)
	if err != nil {
		return nil, err
	}

	d := cohenD(s1, s2)
	return &stats.MeanComparison{
		Outcome: outcomeCol,
		Groups:  [2]stats.GroupStats{s1, s2},
		Test:    test,
		Effect:  stats.NewEffectSize("d", d, scale),
	}, nil
}

func groupStats(name string, values []float64) stats.GroupStats {
	n := float64(len(values))

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / n

	sumSq := 0.0
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}
	sd := math.Sqrt(sumSq / (n - 1))

	return stats.GroupStats{Group: name, N: len(values), Mean: mean, StdDev: sd}
}

// welch computes the t statistic, Welch-Satterthwaite df and two-tailed
// p-value.
func welch(a, b stats.GroupStats) (stats.TestResult, error) {
	n1, n2 := float64(a.N), float64(b.N)
	v1, v2 := a.StdDev*a.StdDev, b.StdDev*b.StdDev

	se := math.Sqrt(v1/n1 + v2/n2)
	if se == 0 {
		// Both groups constant at the same value; no variance to test against.
		return stats.TestResult{}, fmt.Errorf("%w: outcome has zero variance in both groups", core.ErrInsufficientData)
	}

	tStat := (a.Mean - b.Mean) / se
	df := math.Pow(v1/n1+v2/n2, 2) / (math.Pow(v1/n1, 2)/(n1-1) + math.Pow(v2/n2, 2)/(n2-1))
	pValue := dist.TTestPValue(tStat, df)

	return stats.NewTestResult("welch_ttest", tStat, df, pValue)
}

// cohenD is (mean1 - mean2) / pooled SD with (n-1)-weighted pooled variance.
func cohenD(a, b stats.GroupStats) float64 {
	n1, n2 := float64(a.N), float64(b.N)
	v1, v2 := a.StdDev*a.StdDev, b.StdDev*b.StdDev

	pooled := math.Sqrt(((n1-1)*v1 + (n2-1)*v2) / (n1 + n2 - 2))
	if pooled == 0 {
		return 0
	}
	return (a.Mean - b.Mean) / pooled
}
