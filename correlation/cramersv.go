package correlation

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// CramersV returns the bias-corrected Cramér's V association statistic
// between two categorical columns, in [0, 1]. Returns NaN for empty or
// mismatched inputs, and 0 when either column is constant after correction.
func CramersV(x, y []string) float64 {
	if len(x) != len(y) || len(x) == 0 {
		return math.NaN()
	}

	// Contingency table
	xLevels := make(map[string]int)
	yLevels := make(map[string]int)
	for _, v := range x {
		if _, ok := xLevels[v]; !ok {
			xLevels[v] = len(xLevels)
		}
	}
	for _, v := range y {
		if _, ok := yLevels[v]; !ok {
			yLevels[v] = len(yLevels)
		}
	}

	r := len(xLevels)
	k := len(yLevels)
	if r < 2 || k < 2 {
		return 0
	}

	observed := make([][]float64, r)
	for i := range observed {
		observed[i] = make([]float64, k)
	}
	rowTotals := make([]float64, r)
	colTotals := make([]float64, k)
	n := float64(len(x))
	for i := range x {
		ri := xLevels[x[i]]
		ci := yLevels[y[i]]
		observed[ri][ci]++
		rowTotals[ri]++
		colTotals[ci]++
	}

	chi2 := 0.0
	for i := 0; i < r; i++ {
		for j := 0; j < k; j++ {
			expected := rowTotals[i] * colTotals[j] / n
			if expected > 0 {
				d := observed[i][j] - expected
				chi2 += d * d / expected
			}
		}
	}

	// Bias correction (Bergsma & Wicher)
	phi2 := chi2 / n
	rf := float64(r)
	kf := float64(k)
	phi2corr := math.Max(0, phi2-(kf-1)*(rf-1)/(n-1))
	rcorr := rf - (rf-1)*(rf-1)/(n-1)
	kcorr := kf - (kf-1)*(kf-1)/(n-1)
	denom := math.Min(kcorr-1, rcorr-1)
	if denom <= 0 {
		return 0
	}
	return math.Sqrt(phi2corr / denom)
}

// CramersVMatrix computes the pairwise bias-corrected Cramér's V matrix of
// the given categorical columns. The result is symmetric with a unit
// diagonal.
func CramersVMatrix(columns [][]string) *mat.Dense {
	n := len(columns)
	if n == 0 {
		return nil
	}
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1.0)
		for j := i + 1; j < n; j++ {
			v := CramersV(columns[i], columns[j])
			m.Set(i, j, v)
			m.Set(j, i, v)
		}
	}
	return m
}
