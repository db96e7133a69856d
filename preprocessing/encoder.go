package preprocessing

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/edakit/edago/core/model"
	edagoErrors "github.com/edakit/edago/pkg/errors"
)

// OneHotEncoder expands categorical string features into indicator (dummy)
// columns, one per category, in sorted category order.
type OneHotEncoder struct {
	model.BaseEstimator

	// Categories holds the sorted category list per input feature.
	Categories [][]string

	// NFeatures is the number of input features seen during Fit.
	NFeatures int

	// NOutputs is the total number of indicator columns.
	NOutputs int

	categoryToIdx []map[string]int
}

// NewOneHotEncoder creates an unfitted OneHotEncoder.
func NewOneHotEncoder() *OneHotEncoder {
	return &OneHotEncoder{}
}

// Fit learns the category vocabulary of every feature from data, a
// row-major n_samples x n_features string matrix.
func (e *OneHotEncoder) Fit(data [][]string) (err error) {
	defer edagoErrors.Recover(&err, "OneHotEncoder.Fit")
	if len(data) == 0 || len(data[0]) == 0 {
		return edagoErrors.NewModelError("OneHotEncoder.Fit", "empty data", edagoErrors.ErrEmptyData)
	}

	nSamples := len(data)
	nFeatures := len(data[0])
	for i, row := range data {
		if len(row) != nFeatures {
			return edagoErrors.NewDimensionError("OneHotEncoder.Fit", nFeatures, len(row), i)
		}
	}

	e.NFeatures = nFeatures
	e.Categories = make([][]string, nFeatures)
	e.categoryToIdx = make([]map[string]int, nFeatures)

	for j := 0; j < nFeatures; j++ {
		seen := make(map[string]bool)
		for i := 0; i < nSamples; i++ {
			seen[data[i][j]] = true
		}

		categories := make([]string, 0, len(seen))
		for category := range seen {
			categories = append(categories, category)
		}
		sort.Strings(categories)
		e.Categories[j] = categories

		index := make(map[string]int, len(categories))
		for idx, category := range categories {
			index[category] = idx
		}
		e.categoryToIdx[j] = index
	}

	e.NOutputs = 0
	for _, categories := range e.Categories {
		e.NOutputs += len(categories)
	}

	e.SetFitted()
	return nil
}

// Transform expands data into its indicator representation. Categories not
// seen during Fit produce all-zero rows for that feature.
func (e *OneHotEncoder) Transform(data [][]string) (_ mat.Matrix, err error) {
	defer edagoErrors.Recover(&err, "OneHotEncoder.Transform")
	if !e.IsFitted() {
		return nil, edagoErrors.NewNotFittedError("OneHotEncoder", "Transform")
	}

	if len(data) == 0 {
		return mat.NewDense(0, e.NOutputs, nil), nil
	}

	nSamples := len(data)
	if len(data[0]) != e.NFeatures {
		return nil, edagoErrors.NewDimensionError("OneHotEncoder.Transform", e.NFeatures, len(data[0]), 1)
	}

	result := mat.NewDense(nSamples, e.NOutputs, nil)
	for i := 0; i < nSamples; i++ {
		offset := 0
		for j := 0; j < e.NFeatures; j++ {
			if idx, ok := e.categoryToIdx[j][data[i][j]]; ok {
				result.Set(i, offset+idx, 1.0)
			}
			offset += len(e.Categories[j])
		}
	}
	return result, nil
}

// FitTransform fits the encoder on data and returns its indicator
// representation.
func (e *OneHotEncoder) FitTransform(data [][]string) (_ mat.Matrix, err error) {
	defer edagoErrors.Recover(&err, "OneHotEncoder.FitTransform")
	if err := e.Fit(data); err != nil {
		return nil, err
	}
	return e.Transform(data)
}

// FeatureNames returns the output column names as "<feature>_<category>".
// When inputFeatures is nil the features are named x0, x1, ...
func (e *OneHotEncoder) FeatureNames(inputFeatures []string) []string {
	if !e.IsFitted() {
		return nil
	}

	names := make([]string, 0, e.NOutputs)
	for j, categories := range e.Categories {
		base := fmt.Sprintf("x%d", j)
		if inputFeatures != nil && j < len(inputFeatures) {
			base = inputFeatures[j]
		}
		for _, category := range categories {
			names = append(names, fmt.Sprintf("%s_%s", base, category))
		}
	}
	return names
}
