package dist

import (
	"math"
	"testing"
)

func almost(t *testing.T, got, want, tol float64, what string) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Fatalf("%s: got %.6f, want %.6f (tol %.6f)", what, got, want, tol)
	}
}

func TestTTestPValue_AgainstTables(t *testing.T) {
	// t=2.0, df=60 gives p ~ 0.0499 two-tailed.
	almost(t, TTestPValue(2.0, 60), 0.0499, 0.002, "t=2 df=60")
	// Sign must not matter.
	almost(t, TTestPValue(-2.0, 60), TTestPValue(2.0, 60), 1e-12, "symmetry")
	// Degenerate df falls back to p=1.
	almost(t, TTestPValue(5.0, 0), 1.0, 0, "df=0")
}

func TestTQuantile_CriticalValues(t *testing.T) {
	// Classic two-tailed 5% critical values.
	almost(t, TQuantile(0.975, 10), 2.228, 0.002, "t crit df=10")
	almost(t, TQuantile(0.975, 120), 1.980, 0.002, "t crit df=120")
}

func TestChiSquarePValue_AgainstTables(t *testing.T) {
	// chi2=3.841, df=1 is the 5% critical value.
	almost(t, ChiSquarePValue(3.841, 1), 0.05, 0.001, "chi2 crit df=1")
	almost(t, ChiSquarePValue(4.446, 1), 0.035, 0.001, "chi2=4.446 df=1")
	almost(t, ChiSquarePValue(2.0, 0), 1.0, 0, "df=0")
}

func TestNormal_RoundTrip(t *testing.T) {
	almost(t, NormalQuantile(0.975), 1.95996, 0.0005, "z 0.975")
	almost(t, NormalCDF(NormalQuantile(0.8)), 0.8, 1e-9, "round trip")
}
