package dataset

import (
	"path/filepath"

	"gonum.org/v1/gonum/mat"

	edagoErrors "github.com/edakit/edago/pkg/errors"
	"github.com/edakit/edago/visualize"
)

// PlotCorrMatrix renders a correlation matrix (as produced by
// NumericalCorrelated or CategoricalCorrelated) with its column labels and
// writes the image to path.
func (d *Dataset) PlotCorrMatrix(matrix *mat.Dense, labels []string, path string) error {
	return visualize.SaveCorrMatrix(matrix, labels, path)
}

// PlotAgainstTarget writes one histogram image per listed numerical
// feature into dir, splitting each feature's values by the binary target
// (0/1). Columns that are not numerical features are skipped, matching the
// exploratory use of the plot.
func (d *Dataset) PlotAgainstTarget(cols []string, bins int, dir string) error {
	if d.target == nil {
		return edagoErrors.NewPreconditionError("Dataset.PlotAgainstTarget", "target is not set")
	}

	targetVals := d.targetFloats()
	for _, name := range cols {
		if !d.hasFeature(name) || d.isCategorical(name) {
			continue
		}

		values := d.features.Col(name).Float()
		var class0, class1 []float64
		for i, t := range targetVals {
			switch t {
			case 0:
				class0 = append(class0, values[i])
			case 1:
				class1 = append(class1, values[i])
			}
		}

		path := filepath.Join(dir, name+".png")
		if err := visualize.SaveHistAgainstTarget(name, class0, class1, bins, path); err != nil {
			return err
		}
	}
	return nil
}
