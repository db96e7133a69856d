package dataset

import (
	"fmt"
	"math"

	"github.com/go-gota/gota/series"

	edagoErrors "github.com/edakit/edago/pkg/errors"
	"github.com/edakit/edago/pkg/log"
)

// AggregateOp is a row-wise reduction applied by Aggregate. The supported
// operations form a closed enumeration.
type AggregateOp string

const (
	// OpSum adds the column values of each row.
	OpSum AggregateOp = "sum"
	// OpDiff subtracts the remaining columns from the first, left to right.
	OpDiff AggregateOp = "diff"
	// OpMax takes the row-wise maximum.
	OpMax AggregateOp = "max"
	// OpMin takes the row-wise minimum.
	OpMin AggregateOp = "min"
	// OpMean takes the row-wise mean.
	OpMean AggregateOp = "mean"
)

var aggregateFuncs = map[AggregateOp]func([]float64) float64{
	OpSum: func(row []float64) float64 {
		acc := 0.0
		for _, v := range row {
			acc += v
		}
		return acc
	},
	OpDiff: func(row []float64) float64 {
		acc := row[0]
		for _, v := range row[1:] {
			acc -= v
		}
		return acc
	},
	OpMax: func(row []float64) float64 {
		acc := row[0]
		for _, v := range row[1:] {
			acc = math.Max(acc, v)
		}
		return acc
	},
	OpMin: func(row []float64) float64 {
		acc := row[0]
		for _, v := range row[1:] {
			acc = math.Min(acc, v)
		}
		return acc
	},
	OpMean: func(row []float64) float64 {
		acc := 0.0
		for _, v := range row {
			acc += v
		}
		return acc / float64(len(row))
	},
}

// AddColumn appends a column to the working table. Columns whose name is
// already a feature are ignored.
func (d *Dataset) AddColumn(col series.Series) error {
	if col.Err != nil {
		return edagoErrors.Wrap(col.Err, "dataset: add column")
	}
	if d.hasFeature(col.Name) {
		return nil
	}
	if d.features.Nrow() != col.Len() {
		return edagoErrors.NewDimensionError("Dataset.AddColumn", d.features.Nrow(), col.Len(), 0)
	}

	d.features = d.features.Mutate(col)
	if d.features.Err != nil {
		return edagoErrors.Wrap(d.features.Err, "dataset: add column "+col.Name)
	}
	d.recompute()
	return nil
}

// DropColumns removes the named columns from the working table. Names that
// are not features are skipped.
func (d *Dataset) DropColumns(names ...string) error {
	var present []string
	for _, name := range names {
		if d.hasFeature(name) {
			present = append(present, name)
		}
	}
	if len(present) == 0 {
		return nil
	}

	d.features = d.features.Drop(present)
	if d.features.Err != nil {
		return edagoErrors.Wrap(d.features.Err, "dataset: drop columns")
	}
	d.recompute()

	if d.logger != nil {
		d.logger.Debug("Columns dropped", log.ColumnsKey, len(present))
	}
	return nil
}

// KeepColumns removes every feature column not in the given list.
func (d *Dataset) KeepColumns(names ...string) error {
	keep := make(map[string]bool, len(names))
	for _, name := range names {
		keep[name] = true
	}

	var drop []string
	for _, name := range d.features.Names() {
		if !keep[name] {
			drop = append(drop, name)
		}
	}
	return d.DropColumns(drop...)
}

// Aggregate reduces the listed columns row-wise with op and stores the
// result in a new column. When dropSources is true the source columns are
// removed afterwards.
func (d *Dataset) Aggregate(cols []string, newName string, op AggregateOp, dropSources bool) error {
	fn, ok := aggregateFuncs[op]
	if !ok {
		return edagoErrors.NewValueError("Dataset.Aggregate",
			fmt.Sprintf("unsupported operation %q", op))
	}
	if len(cols) == 0 {
		return edagoErrors.NewValueError("Dataset.Aggregate", "empty column list")
	}
	for _, name := range cols {
		if !d.hasFeature(name) {
			return edagoErrors.NewInvalidSelectorError(name, d.meta[ViewFeatures])
		}
		if d.isCategorical(name) {
			return edagoErrors.NewValueError("Dataset.Aggregate",
				"column "+name+" is categorical")
		}
	}

	r := d.features.Nrow()
	columns := make([][]float64, len(cols))
	for j, name := range cols {
		columns[j] = d.features.Col(name).Float()
	}

	result := make([]float64, r)
	row := make([]float64, len(cols))
	for i := 0; i < r; i++ {
		for j := range cols {
			row[j] = columns[j][i]
		}
		result[i] = fn(row)
	}

	d.features = d.features.Mutate(series.New(result, series.Float, newName))
	if d.features.Err != nil {
		return edagoErrors.Wrap(d.features.Err, "dataset: aggregate into "+newName)
	}

	if dropSources {
		// DropColumns recomputes meta.
		var sources []string
		for _, name := range cols {
			if name != newName {
				sources = append(sources, name)
			}
		}
		return d.DropColumns(sources...)
	}
	d.recompute()
	return nil
}

// DropSamples removes the given rows from the working table and, when a
// target is set, the same rows from the target so the two stay aligned.
func (d *Dataset) DropSamples(rows ...int) error {
	n := d.features.Nrow()
	drop := make(map[int]bool, len(rows))
	for _, row := range rows {
		if row < 0 || row >= n {
			return edagoErrors.NewValueError("Dataset.DropSamples",
				fmt.Sprintf("row index %d out of range [0, %d)", row, n))
		}
		drop[row] = true
	}
	if len(drop) == 0 {
		return nil
	}

	keep := make([]int, 0, n-len(drop))
	for i := 0; i < n; i++ {
		if !drop[i] {
			keep = append(keep, i)
		}
	}

	d.features = d.features.Subset(keep)
	if d.features.Err != nil {
		return edagoErrors.Wrap(d.features.Err, "dataset: drop samples")
	}
	if d.target != nil {
		sub := d.target.Subset(keep)
		if sub.Err != nil {
			return edagoErrors.Wrap(sub.Err, "dataset: drop target samples")
		}
		d.target = &sub
	}
	d.recompute()

	if d.logger != nil {
		d.logger.Debug("Samples dropped", log.SamplesKey, len(drop))
	}
	return nil
}

// ReplaceNA fills missing values in the named columns with value. Numeric
// columns require a numeric value; categorical columns require a string.
// With no columns given, every column with missing values is filled.
func (d *Dataset) ReplaceNA(value interface{}, cols ...string) error {
	if len(cols) == 0 {
		cols = append(append([]string{}, d.meta[ViewNumericalNA]...), d.meta[ViewCategoricalNA]...)
	}
	for _, name := range cols {
		if !d.hasFeature(name) {
			return edagoErrors.NewInvalidSelectorError(name, d.meta[ViewFeatures])
		}
	}

	for _, name := range cols {
		col := d.features.Col(name)
		missing := col.IsNaN()
		hasNA := false
		for _, isNaN := range missing {
			if isNaN {
				hasNA = true
				break
			}
		}
		if !hasNA {
			continue
		}

		if d.isCategorical(name) {
			fill, ok := value.(string)
			if !ok {
				return edagoErrors.NewValueError("Dataset.ReplaceNA",
					"column "+name+" is categorical and needs a string fill value")
			}
			records := col.Records()
			for i, isNaN := range missing {
				if isNaN {
					records[i] = fill
				}
			}
			d.features = d.features.Mutate(series.New(records, series.String, name))
		} else {
			fill, err := toFloat(value)
			if err != nil {
				return edagoErrors.NewValueError("Dataset.ReplaceNA",
					"column "+name+" is numerical and needs a numeric fill value")
			}
			floats := col.Float()
			for i, isNaN := range missing {
				if isNaN {
					floats[i] = fill
				}
			}
			d.features = d.features.Mutate(series.New(floats, series.Float, name))
		}
		if d.features.Err != nil {
			return edagoErrors.Wrap(d.features.Err, "dataset: replace NA in "+name)
		}
	}

	d.recompute()
	return nil
}

func toFloat(value interface{}) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, edagoErrors.Newf("not a numeric value: %v", value)
	}
}
