// Package dataset implements the tabular metadata engine at the center of
// edago: a Dataset wraps a working table of features plus an optional
// target column, classifies every column by type and missingness, and keeps
// a derived index of named column views consistent across mutations.
//
// The working table is a gota dataframe. A column is categorical iff its
// series type is string, numerical otherwise; a column belongs to the *_na
// views iff it contains at least one missing value. The meta index is never
// set directly: every mutating operation ends by recomputing it, so a
// consistent view is an invariant, not a caller obligation.
//
// Example usage:
//
//	ds, err := dataset.Open("housing.csv")
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := ds.SetTarget("SalePrice"); err != nil {
//		log.Fatal(err)
//	}
//	numeric, _ := ds.Names(dataset.ViewNumerical)
package dataset

import (
	"io"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/mat"

	edagoErrors "github.com/edakit/edago/pkg/errors"
	"github.com/edakit/edago/pkg/log"
)

// View is a named column view over the working table. The eight recognized
// tags form a closed enumeration; anything else is an InvalidSelectorError.
type View string

const (
	// ViewAll covers every column including the target.
	ViewAll View = "all"
	// ViewNumerical covers non-string feature columns.
	ViewNumerical View = "numerical"
	// ViewCategorical covers string feature columns.
	ViewCategorical View = "categorical"
	// ViewComplete covers feature columns without missing values.
	ViewComplete View = "complete"
	// ViewNumericalNA covers numerical columns with missing values.
	ViewNumericalNA View = "numerical_na"
	// ViewCategoricalNA covers categorical columns with missing values.
	ViewCategoricalNA View = "categorical_na"
	// ViewFeatures covers every feature column.
	ViewFeatures View = "features"
	// ViewTarget covers the target column.
	ViewTarget View = "target"
)

// Views lists the recognized view tags.
var Views = []View{
	ViewAll, ViewNumerical, ViewCategorical, ViewComplete,
	ViewNumericalNA, ViewCategoricalNA, ViewFeatures, ViewTarget,
}

func (v View) valid() bool {
	for _, tag := range Views {
		if v == tag {
			return true
		}
	}
	return false
}

func viewTagNames() []string {
	names := make([]string, len(Views))
	for i, v := range Views {
		names[i] = string(v)
	}
	return names
}

// Dataset wraps a working table of features, an optional target column and
// the derived meta index of named column views.
type Dataset struct {
	features dataframe.DataFrame
	target   *series.Series
	meta     map[View][]string
	logger   log.Logger
}

// Open loads a Dataset from a delimited-text file. options are forwarded to
// the gota CSV reader (delimiter, types, NaN tokens, ...).
func Open(path string, options ...dataframe.LoadOption) (*Dataset, error) {
	if path == "" {
		return nil, edagoErrors.NewConstructionError("no data location nor table supplied")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, edagoErrors.NewConstructionErrorWrap("cannot open data location", err)
	}
	defer func() { _ = f.Close() }()
	df := dataframe.ReadCSV(f, options...)
	return FromDataFrame(df)
}

// FromCSV loads a Dataset from a delimited-text reader.
func FromCSV(r io.Reader, options ...dataframe.LoadOption) (*Dataset, error) {
	if r == nil {
		return nil, edagoErrors.NewConstructionError("no data location nor table supplied")
	}
	df := dataframe.ReadCSV(r, options...)
	return FromDataFrame(df)
}

// FromDataFrame wraps an existing dataframe as a Dataset.
func FromDataFrame(df dataframe.DataFrame) (*Dataset, error) {
	if df.Err != nil {
		return nil, edagoErrors.NewConstructionErrorWrap("table load failed", df.Err)
	}
	if df.Ncol() == 0 {
		return nil, edagoErrors.NewConstructionError("table has no columns")
	}

	d := &Dataset{
		features: df.Copy(),
		logger: log.GetLoggerWithName("dataset").With(
			log.ComponentKey, "dataset",
		),
	}
	d.recompute()
	return d, nil
}

// recompute scans the working table and rebuilds the meta index. Called by
// every mutator before it returns.
func (d *Dataset) recompute() {
	names := d.features.Names()
	types := d.features.Types()

	meta := map[View][]string{
		ViewAll:           {},
		ViewNumerical:     {},
		ViewCategorical:   {},
		ViewComplete:      {},
		ViewNumericalNA:   {},
		ViewCategoricalNA: {},
		ViewFeatures:      {},
		ViewTarget:        {},
	}

	for i, name := range names {
		col := d.features.Col(name)
		hasNA := false
		for _, isNaN := range col.IsNaN() {
			if isNaN {
				hasNA = true
				break
			}
		}

		categorical := types[i] == series.String
		meta[ViewFeatures] = append(meta[ViewFeatures], name)
		if categorical {
			meta[ViewCategorical] = append(meta[ViewCategorical], name)
			if hasNA {
				meta[ViewCategoricalNA] = append(meta[ViewCategoricalNA], name)
			}
		} else {
			meta[ViewNumerical] = append(meta[ViewNumerical], name)
			if hasNA {
				meta[ViewNumericalNA] = append(meta[ViewNumericalNA], name)
			}
		}
		if !hasNA {
			meta[ViewComplete] = append(meta[ViewComplete], name)
		}
	}

	meta[ViewAll] = append(meta[ViewAll], names...)
	if d.target != nil {
		meta[ViewAll] = append(meta[ViewAll], d.target.Name)
		meta[ViewTarget] = []string{d.target.Name}
	}

	d.meta = meta

	if d.logger != nil {
		d.logger.Debug("Meta recomputed",
			log.OperationKey, log.OperationRecompute,
			log.FeaturesKey, len(meta[ViewFeatures]),
			log.ColumnsKey, len(meta[ViewAll]),
		)
	}
}

// SetTarget moves the named column out of the working table and installs it
// as the target. Setting the current target again is a no-op.
func (d *Dataset) SetTarget(name string) error {
	if d.target != nil && d.target.Name == name {
		return nil
	}
	if !d.hasFeature(name) {
		return edagoErrors.NewInvalidSelectorError(name, d.meta[ViewFeatures])
	}

	col := d.features.Col(name).Copy()
	d.features = d.features.Drop(name)
	if d.features.Err != nil {
		return edagoErrors.Wrap(d.features.Err, "dataset: drop target column")
	}
	d.target = &col
	d.recompute()

	if d.logger != nil {
		d.logger.Info("Target set", log.TargetKey, name)
	}
	return nil
}

// Target returns a copy of the target column, or nil when unset.
func (d *Dataset) Target() *series.Series {
	if d.target == nil {
		return nil
	}
	col := d.target.Copy()
	return &col
}

// Features returns a copy of the working table.
func (d *Dataset) Features() dataframe.DataFrame {
	return d.features.Copy()
}

// NumRows returns the number of rows in the working table.
func (d *Dataset) NumRows() int {
	return d.features.Nrow()
}

// Names returns the column names of a view. Only view tags are accepted;
// explicit lists belong to SelectColumns.
func (d *Dataset) Names(view View) ([]string, error) {
	if !view.valid() {
		return nil, edagoErrors.NewInvalidSelectorError(string(view), viewTagNames())
	}
	names := make([]string, len(d.meta[view]))
	copy(names, d.meta[view])
	return names, nil
}

// Select returns the sub-table of a view. Selecting ViewTarget requires the
// target to be set.
func (d *Dataset) Select(view View) (dataframe.DataFrame, error) {
	if !view.valid() {
		return dataframe.DataFrame{}, edagoErrors.NewInvalidSelectorError(string(view), viewTagNames())
	}

	switch view {
	case ViewTarget:
		if d.target == nil {
			return dataframe.DataFrame{}, edagoErrors.NewPreconditionError("Dataset.Select", "target is not set")
		}
		return dataframe.New(d.target.Copy()), nil
	case ViewAll:
		out := d.features.Copy()
		if d.target != nil {
			out = out.Mutate(d.target.Copy())
		}
		if out.Err != nil {
			return dataframe.DataFrame{}, edagoErrors.Wrap(out.Err, "dataset: select all")
		}
		return out, nil
	default:
		names := d.meta[view]
		if len(names) == 0 {
			return dataframe.DataFrame{}, nil
		}
		out := d.features.Select(names)
		if out.Err != nil {
			return dataframe.DataFrame{}, edagoErrors.Wrap(out.Err, "dataset: select view")
		}
		return out, nil
	}
}

// SelectColumns returns the sub-table for an explicit column list, in the
// given order. Unknown columns produce an InvalidSelectorError.
func (d *Dataset) SelectColumns(names []string) (dataframe.DataFrame, error) {
	if len(names) == 0 {
		return dataframe.DataFrame{}, edagoErrors.NewValueError("Dataset.SelectColumns", "empty column list")
	}
	for _, name := range names {
		if !d.hasFeature(name) {
			return dataframe.DataFrame{}, edagoErrors.NewInvalidSelectorError(name, d.meta[ViewFeatures])
		}
	}
	out := d.features.Select(names)
	if out.Err != nil {
		return dataframe.DataFrame{}, edagoErrors.Wrap(out.Err, "dataset: select columns")
	}
	return out, nil
}

func (d *Dataset) hasFeature(name string) bool {
	for _, n := range d.features.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// NumericMatrix extracts the named feature columns into a dense matrix,
// column order preserved. All columns must be numerical features.
func (d *Dataset) NumericMatrix(names []string) (*mat.Dense, error) {
	for _, name := range names {
		if !d.hasFeature(name) {
			return nil, edagoErrors.NewInvalidSelectorError(name, d.meta[ViewFeatures])
		}
	}
	return d.numericMatrix(names)
}

// numericMatrix extracts the named columns into a dense matrix, column
// order preserved. All columns must be numerical.
func (d *Dataset) numericMatrix(names []string) (*mat.Dense, error) {
	if len(names) == 0 {
		return nil, edagoErrors.NewModelError("Dataset.numericMatrix", "empty view", edagoErrors.ErrEmptyData)
	}
	for _, name := range names {
		if d.isCategorical(name) {
			return nil, edagoErrors.NewValueError("Dataset.numericMatrix",
				"column "+name+" is categorical; encode it first")
		}
	}

	r := d.features.Nrow()
	m := mat.NewDense(r, len(names), nil)
	for j, name := range names {
		col := d.features.Col(name).Float()
		for i := 0; i < r; i++ {
			m.Set(i, j, col[i])
		}
	}
	return m, nil
}

func (d *Dataset) isCategorical(name string) bool {
	for _, n := range d.meta[ViewCategorical] {
		if n == name {
			return true
		}
	}
	return false
}

// setNumericColumns writes the columns of m back into the working table
// under the given names, as float series.
func (d *Dataset) setNumericColumns(names []string, m mat.Matrix) error {
	r, c := m.Dims()
	if c != len(names) {
		return edagoErrors.NewDimensionError("Dataset.setNumericColumns", len(names), c, 1)
	}
	for j, name := range names {
		col := make([]float64, r)
		for i := 0; i < r; i++ {
			col[i] = m.At(i, j)
		}
		d.features = d.features.Mutate(series.New(col, series.Float, name))
		if d.features.Err != nil {
			return edagoErrors.Wrap(d.features.Err, "dataset: write column "+name)
		}
	}
	return nil
}

// targetFloats returns the target as a float slice.
func (d *Dataset) targetFloats() []float64 {
	return d.target.Float()
}
