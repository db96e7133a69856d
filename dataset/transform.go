package dataset

import (
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	edagoErrors "github.com/edakit/edago/pkg/errors"
	"github.com/edakit/edago/pkg/log"
	"github.com/edakit/edago/preprocessing"
)

// Scale standardizes the columns of a view in place (zero mean, unit
// variance) and returns the transformed sub-table. The view must contain
// only numerical columns.
func (d *Dataset) Scale(view View) (dataframe.DataFrame, error) {
	scaler := preprocessing.NewStandardScalerDefault()
	return d.transformView(view, "Dataset.Scale", scaler.FitTransform)
}

// Rescale min-max scales the columns of a view in place into
// [featureRange[0], featureRange[1]] and returns the transformed sub-table.
func (d *Dataset) Rescale(view View, featureRange [2]float64) (dataframe.DataFrame, error) {
	scaler := preprocessing.NewMinMaxScaler(featureRange)
	return d.transformView(view, "Dataset.Rescale", scaler.FitTransform)
}

// EnsureNormality applies a Yeo-Johnson power transform to the columns of a
// view in place, pushing each toward a normal distribution, and returns the
// transformed sub-table.
func (d *Dataset) EnsureNormality(view View) (dataframe.DataFrame, error) {
	transformer := preprocessing.NewPowerTransformer(false)
	return d.transformView(view, "Dataset.EnsureNormality", transformer.FitTransform)
}

func (d *Dataset) transformView(view View, op string,
	fitTransform func(mat.Matrix) (mat.Matrix, error)) (dataframe.DataFrame, error) {
	if !view.valid() {
		return dataframe.DataFrame{}, edagoErrors.NewInvalidSelectorError(string(view), viewTagNames())
	}

	if view == ViewTarget {
		return dataframe.DataFrame{}, edagoErrors.NewValueError(op, "cannot transform the target view")
	}
	names := d.meta[view]
	if view == ViewAll {
		// ViewAll lists the target name too, which is not a working-table
		// column; the transform covers the features.
		names = d.meta[ViewFeatures]
	}
	if len(names) == 0 {
		return dataframe.DataFrame{}, edagoErrors.NewModelError(op, "empty view", edagoErrors.ErrEmptyData)
	}

	X, err := d.numericMatrix(names)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	transformed, err := fitTransform(X)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	if err := d.setNumericColumns(names, transformed); err != nil {
		return dataframe.DataFrame{}, err
	}
	d.recompute()

	if d.logger != nil {
		d.logger.Debug("View transformed",
			log.OperationKey, log.OperationTransform,
			log.ColumnsKey, len(names),
		)
	}
	out := d.features.Select(names)
	if out.Err != nil {
		return dataframe.DataFrame{}, edagoErrors.Wrap(out.Err, "dataset: select transformed view")
	}
	return out, nil
}

// FeatureSkew reports the sample skewness of one numerical feature.
type FeatureSkew struct {
	Name string
	Skew float64
}

// Skewness returns the skewness of every numerical feature, most skewed
// first. With fix set, features whose skewness exceeds the threshold are
// replaced in place by their Box-Cox(1+x) transform with a
// likelihood-optimal lambda.
func (d *Dataset) Skewness(threshold float64, fix bool) ([]FeatureSkew, error) {
	names := d.meta[ViewNumerical]
	result := make([]FeatureSkew, 0, len(names))
	for _, name := range names {
		col := d.features.Col(name).Float()
		result = append(result, FeatureSkew{Name: name, Skew: stat.Skew(col, nil)})
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Skew > result[j].Skew })

	if fix {
		for _, fs := range result {
			if fs.Skew <= threshold {
				continue
			}
			col := d.features.Col(fs.Name).Float()
			lambda, err := preprocessing.BoxCoxNormMax(col)
			if err != nil {
				return nil, edagoErrors.Wrap(err, "dataset: skewness fix for "+fs.Name)
			}
			fixed := preprocessing.BoxCox1p(col, lambda)
			d.features = d.features.Mutate(series.New(fixed, series.Float, fs.Name))
			if d.features.Err != nil {
				return nil, edagoErrors.Wrap(d.features.Err, "dataset: skewness fix for "+fs.Name)
			}
		}
		d.recompute()
	}
	return result, nil
}

// OneHotEncode replaces every categorical column by its indicator (dummy)
// expansion, named "<column>_<category>". Afterwards the working table is
// entirely numerical. A dataset without categorical columns is left
// untouched.
func (d *Dataset) OneHotEncode() error {
	catNames := d.meta[ViewCategorical]
	if len(catNames) == 0 {
		return nil
	}

	r := d.features.Nrow()
	records := make([][]string, r)
	columns := make([][]string, len(catNames))
	for j, name := range catNames {
		columns[j] = d.features.Col(name).Records()
	}
	for i := 0; i < r; i++ {
		row := make([]string, len(catNames))
		for j := range catNames {
			row[j] = columns[j][i]
		}
		records[i] = row
	}

	encoder := preprocessing.NewOneHotEncoder()
	encoded, err := encoder.FitTransform(records)
	if err != nil {
		return err
	}
	outNames := encoder.FeatureNames(catNames)

	// Numerical columns first, indicator columns after, mirroring the
	// encode-then-concat order of the working table rebuild. Missing values
	// surface as the literal "NaN" record; they get no indicator column, so
	// a row with a missing value stays all-zero in that feature's expansion.
	numNames := d.meta[ViewNumerical]
	cols := make([]series.Series, 0, len(numNames)+len(outNames))
	for _, name := range numNames {
		cols = append(cols, d.features.Col(name).Copy())
	}
	j := 0
	for _, categories := range encoder.Categories {
		for _, category := range categories {
			if category == "NaN" {
				j++
				continue
			}
			col := make([]float64, r)
			for i := 0; i < r; i++ {
				col[i] = encoded.At(i, j)
			}
			cols = append(cols, series.New(col, series.Float, outNames[j]))
			j++
		}
	}

	rebuilt := dataframe.New(cols...)
	if rebuilt.Err != nil {
		return edagoErrors.Wrap(rebuilt.Err, "dataset: one-hot encode")
	}
	d.features = rebuilt
	d.recompute()

	if d.logger != nil {
		d.logger.Info("Categorical columns encoded",
			log.OperationKey, log.OperationTransform,
			log.ColumnsKey, len(catNames),
			log.FeaturesKey, len(cols)-len(numNames),
		)
	}
	return nil
}
