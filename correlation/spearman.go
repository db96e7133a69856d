// Package correlation implements the association measures used for
// redundancy pruning: Spearman rank correlation for numerical features and
// bias-corrected Cramér's V for categorical ones.
package correlation

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Spearman returns the Spearman rank correlation coefficient between x and
// y. Ties receive average ranks. Returns NaN when either input has zero
// variance or the lengths differ.
func Spearman(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return math.NaN()
	}
	return stat.Correlation(ranks(x), ranks(y), nil)
}

// SpearmanMatrix computes the pairwise Spearman correlation matrix of the
// given columns. The result is symmetric with a unit diagonal.
func SpearmanMatrix(columns [][]float64) *mat.Dense {
	n := len(columns)
	if n == 0 {
		return nil
	}
	ranked := make([][]float64, n)
	for i, col := range columns {
		ranked[i] = ranks(col)
	}

	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1.0)
		for j := i + 1; j < n; j++ {
			rho := stat.Correlation(ranked[i], ranked[j], nil)
			m.Set(i, j, rho)
			m.Set(j, i, rho)
		}
	}
	return m
}

// HighlyCorrelated returns the names of columns whose absolute correlation
// with any earlier column exceeds the threshold, scanning the strict upper
// triangle of the matrix. A flagged column is safe to drop because an
// earlier column carries the same signal.
func HighlyCorrelated(m mat.Matrix, names []string, threshold float64) []string {
	var out []string
	_, c := m.Dims()
	for j := 0; j < c && j < len(names); j++ {
		for i := 0; i < j; i++ {
			v := m.At(i, j)
			if !math.IsNaN(v) && math.Abs(v) > threshold {
				out = append(out, names[j])
				break
			}
		}
	}
	return out
}

// ranks assigns average ranks (1-based) with ties sharing their mean rank.
func ranks(x []float64) []float64 {
	n := len(x)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return x[idx[a]] < x[idx[b]] })

	out := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && x[idx[j+1]] == x[idx[i]] {
			j++
		}
		// Average rank over the tie run [i, j].
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			out[idx[k]] = avg
		}
		i = j + 1
	}
	return out
}
