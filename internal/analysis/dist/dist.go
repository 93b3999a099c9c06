// Package dist provides unified access to the sampling distributions the
// analyzers share. This keeps CDF and quantile calculations in one place
// instead of fragmenting approximations across the codebase.
package dist

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// TTestPValue computes the two-tailed p-value for a t-statistic using
// Student's t-distribution. Fractional df is supported (Welch).
func TTestPValue(tStatistic, df float64) float64 {
	if df <= 0 {
		return 1.0
	}

	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return 2 * (1 - tDist.CDF(math.Abs(tStatistic)))
}

// TQuantile computes the quantile of Student's t-distribution.
func TQuantile(p, df float64) float64 {
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return tDist.Quantile(p)
}

// ChiSquarePValue computes the upper-tail p-value for a chi-squared statistic.
func ChiSquarePValue(chiSquare, df float64) float64 {
	if df <= 0 {
		return 1.0
	}

	chiDist := distuv.ChiSquared{K: df}
	return 1 - chiDist.CDF(chiSquare)
}

// NormalCDF computes the standard normal cumulative distribution function.
func NormalCDF(x float64) float64 {
	return distuv.UnitNormal.CDF(x)
}

// NormalQuantile computes the standard normal quantile (inverse CDF).
func NormalQuantile(p float64) float64 {
	return distuv.UnitNormal.Quantile(p)
}
