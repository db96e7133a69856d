package dataset

import (
	"fmt"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/mat"

	"github.com/edakit/edago/correlation"
	"github.com/edakit/edago/linear"
	edagoErrors "github.com/edakit/edago/pkg/errors"
	"github.com/edakit/edago/pkg/log"
	"github.com/edakit/edago/split"
)

// outlierAlpha is the Bonferroni-adjusted p-value below which a row counts
// as an outlier.
const outlierAlpha = 1e-3

// Correlated returns the features that are highly associated with another
// feature: categorical columns by bias-corrected Cramér's V, numerical
// columns by absolute Spearman correlation, both against the same
// threshold. The returned columns are safe to drop.
func (d *Dataset) Correlated(threshold float64) ([]string, error) {
	categorical, _, err := d.CategoricalCorrelated(threshold)
	if err != nil {
		return nil, err
	}
	numerical, _, err := d.NumericalCorrelated(threshold)
	if err != nil {
		return nil, err
	}
	return append(categorical, numerical...), nil
}

// NumericalCorrelated returns the numerical features whose absolute
// Spearman correlation with an earlier numerical feature exceeds the
// threshold, together with the full correlation matrix (row/column order =
// the numerical view).
func (d *Dataset) NumericalCorrelated(threshold float64) ([]string, *mat.Dense, error) {
	names := d.meta[ViewNumerical]
	if len(names) < 2 {
		return nil, nil, nil
	}

	columns := make([][]float64, len(names))
	for i, name := range names {
		columns[i] = d.features.Col(name).Float()
	}
	matrix := correlation.SpearmanMatrix(columns)
	return correlation.HighlyCorrelated(matrix, names, threshold), matrix, nil
}

// CategoricalCorrelated returns the categorical features whose Cramér's V
// with an earlier categorical feature exceeds the threshold, together with
// the association matrix (row/column order = the categorical view).
func (d *Dataset) CategoricalCorrelated(threshold float64) ([]string, *mat.Dense, error) {
	names := d.meta[ViewCategorical]
	if len(names) < 2 {
		return nil, nil, nil
	}

	columns := make([][]string, len(names))
	for i, name := range names {
		columns[i] = d.features.Col(name).Records()
	}
	matrix := correlation.CramersVMatrix(columns)
	return correlation.HighlyCorrelated(matrix, names, threshold), matrix, nil
}

// UnderRepresentedFeatures returns the categorical features dominated by a
// single category: those whose majority category frequency ratio exceeds
// the threshold.
func (d *Dataset) UnderRepresentedFeatures(threshold float64) []string {
	var out []string
	for _, name := range d.meta[ViewCategorical] {
		col := d.features.Col(name)
		missing := col.IsNaN()

		// Missing values are not a category; the ratio is taken over the
		// observed records only.
		counts := make(map[string]int)
		total := 0
		for i, v := range col.Records() {
			if missing[i] {
				continue
			}
			counts[v]++
			total++
		}
		if total == 0 {
			continue
		}

		majority := 0
		for _, c := range counts {
			if c > majority {
				majority = c
			}
		}
		if float64(majority)/float64(total) > threshold {
			out = append(out, name)
		}
	}
	return out
}

// Outliers returns the row indices the regression oracle flags as outliers:
// rows whose Bonferroni-adjusted studentized-residual p-value from the OLS
// fit of the target on the numerical view falls below 1e-3.
func (d *Dataset) Outliers() ([]int, error) {
	if d.target == nil {
		return nil, edagoErrors.NewPreconditionError("Dataset.Outliers", "target is not set")
	}

	X, err := d.numericMatrix(d.meta[ViewNumerical])
	if err != nil {
		return nil, err
	}

	ols := linear.NewOLS()
	if err := ols.Fit(X, d.targetFloats()); err != nil {
		return nil, err
	}
	return ols.OutlierIndices(outlierAlpha)
}

// Split partitions features and target into train/test (optionally
// validation) subsets with a seeded shuffle. The first Split holds the
// feature partitions, the second the target partitions.
func (d *Dataset) Split(seed int64, testFraction float64, withValidation bool) (split.Split, split.Split, error) {
	if d.target == nil {
		return split.Split{}, split.Split{}, edagoErrors.NewPreconditionError("Dataset.Split", "target is not set")
	}

	X := d.features.Copy()
	Y := dataframe.New(d.target.Copy())
	return split.TrainTest(X, Y, seed, testFraction, withValidation)
}

// Summary holds the per-view counts reported by Describe.
type Summary struct {
	Features      int
	Numerical     int
	Categorical   int
	NumericalNA   int
	CategoricalNA int
	Complete      int
	Target        string
}

// Describe returns the meta summary counts and logs them through the
// dataset logger.
func (d *Dataset) Describe() Summary {
	s := Summary{
		Features:      len(d.meta[ViewFeatures]),
		Numerical:     len(d.meta[ViewNumerical]),
		Categorical:   len(d.meta[ViewCategorical]),
		NumericalNA:   len(d.meta[ViewNumericalNA]),
		CategoricalNA: len(d.meta[ViewCategoricalNA]),
		Complete:      len(d.meta[ViewComplete]),
	}
	if d.target != nil {
		s.Target = d.target.Name
	}

	if d.logger != nil {
		d.logger.Info("Dataset summary",
			log.PhaseKey, log.PhaseAnalysis,
			log.FeaturesKey, s.Features,
			"numerical", s.Numerical,
			"categorical", s.Categorical,
			"numerical_na", s.NumericalNA,
			"categorical_na", s.CategoricalNA,
			"complete", s.Complete,
			log.TargetKey, s.Target,
		)
	}
	return s
}

// Table renders the column names of a view as a fixed-width table no wider
// than maxWidth characters.
func (d *Dataset) Table(view View, maxWidth int) (string, error) {
	names, err := d.Names(view)
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", nil
	}
	if maxWidth <= 0 {
		maxWidth = 80
	}

	maxLength := 0
	for _, name := range names {
		if len(name) > maxLength {
			maxLength = len(name)
		}
	}
	colWidth := maxLength + 1
	fields := maxWidth / colWidth
	if fields < 1 {
		fields = 1
	}
	rule := strings.Repeat("-", fields*maxLength+(fields-1))

	var b strings.Builder
	b.WriteString(rule)
	b.WriteByte('\n')
	for from := 0; from < len(names); from += fields {
		to := from + fields
		if to > len(names) {
			to = len(names)
		}
		for _, name := range names[from:to] {
			fmt.Fprintf(&b, "%-*s", colWidth, name)
		}
		b.WriteByte('\n')
	}
	b.WriteString(rule)
	return b.String(), nil
}
