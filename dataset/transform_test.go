package dataset_test

import (
	"math"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edakit/edago/dataset"
	edagoErrors "github.com/edakit/edago/pkg/errors"
)

const epsilon = 1e-9

func newNumericDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	df := dataframe.LoadRecords([][]string{
		{"p", "q"},
		{"1.0", "10.0"},
		{"2.0", "20.0"},
		{"3.0", "30.0"},
		{"4.0", "40.0"},
	})
	require.NoError(t, df.Err)
	ds, err := dataset.FromDataFrame(df)
	require.NoError(t, err)
	return ds
}

func TestScale(t *testing.T) {
	ds := newNumericDataset(t)

	sub, err := ds.Scale(dataset.ViewNumerical)
	require.NoError(t, err)
	assert.Equal(t, []string{"p", "q"}, sub.Names())

	// Scaling mutates in place: each column now has zero mean and unit
	// variance.
	for _, name := range []string{"p", "q"} {
		col, err := ds.SelectColumns([]string{name})
		require.NoError(t, err)
		values := col.Col(name).Float()

		mean := 0.0
		for _, v := range values {
			mean += v
		}
		mean /= float64(len(values))
		if math.Abs(mean) > epsilon {
			t.Errorf("column %s: mean = %v, want 0", name, mean)
		}

		variance := 0.0
		for _, v := range values {
			variance += (v - mean) * (v - mean)
		}
		variance /= float64(len(values))
		if math.Abs(variance-1) > 1e-6 {
			t.Errorf("column %s: variance = %v, want 1", name, variance)
		}
	}
}

func TestScale_AllViewSkipsTarget(t *testing.T) {
	df := dataframe.LoadRecords([][]string{
		{"x", "y"},
		{"1.0", "10.0"},
		{"2.0", "20.0"},
		{"3.0", "30.0"},
		{"4.0", "40.0"},
	})
	ds, err := dataset.FromDataFrame(df)
	require.NoError(t, err)
	require.NoError(t, ds.SetTarget("y"))

	// The all view lists the target name too, but only working-table
	// columns get transformed.
	sub, err := ds.Scale(dataset.ViewAll)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, sub.Names())

	// The target keeps its original scale.
	assert.Equal(t, []float64{10, 20, 30, 40}, ds.Target().Float())
}

func TestRescale(t *testing.T) {
	ds := newNumericDataset(t)

	sub, err := ds.Rescale(dataset.ViewNumerical, [2]float64{0, 1})
	require.NoError(t, err)

	values := sub.Col("p").Float()
	assert.InDelta(t, 0.0, values[0], epsilon)
	assert.InDelta(t, 1.0, values[3], epsilon)
	for _, v := range values {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestEnsureNormality(t *testing.T) {
	df := dataframe.LoadRecords([][]string{
		{"x"},
		{"0.1"},
		{"0.2"},
		{"0.5"},
		{"1.0"},
		{"5.0"},
		{"20.0"},
		{"100.0"},
	})
	ds, err := dataset.FromDataFrame(df)
	require.NoError(t, err)

	before, err := ds.Skewness(0, false)
	require.NoError(t, err)

	_, err = ds.EnsureNormality(dataset.ViewNumerical)
	require.NoError(t, err)

	after, err := ds.Skewness(0, false)
	require.NoError(t, err)

	// The power transform must pull a heavily right-skewed column toward
	// symmetry.
	assert.Less(t, math.Abs(after[0].Skew), math.Abs(before[0].Skew))
}

func TestTransformView_Errors(t *testing.T) {
	ds := newNumericDataset(t)

	_, err := ds.Scale(dataset.View("nope"))
	var selErr *edagoErrors.InvalidSelectorError
	require.ErrorAs(t, err, &selErr)

	_, err = ds.Scale(dataset.ViewTarget)
	var valErr *edagoErrors.ValueError
	require.ErrorAs(t, err, &valErr)

	// The numeric view of an all-categorical table is empty.
	catDF := dataframe.LoadRecords([][]string{
		{"c"},
		{"x"},
		{"y"},
	})
	catDS, err := dataset.FromDataFrame(catDF)
	require.NoError(t, err)
	_, err = catDS.Scale(dataset.ViewNumerical)
	require.Error(t, err)
	assert.ErrorIs(t, err, edagoErrors.ErrEmptyData)
}

func TestSkewness_Order(t *testing.T) {
	df := dataframe.LoadRecords([][]string{
		{"symmetric", "skewed"},
		{"1.0", "0.1"},
		{"2.0", "0.2"},
		{"3.0", "0.3"},
		{"4.0", "10.0"},
		{"5.0", "100.0"},
	})
	ds, err := dataset.FromDataFrame(df)
	require.NoError(t, err)

	result, err := ds.Skewness(0, false)
	require.NoError(t, err)
	require.Len(t, result, 2)

	// Sorted most skewed first.
	assert.Equal(t, "skewed", result[0].Name)
	assert.Greater(t, result[0].Skew, result[1].Skew)
	assert.InDelta(t, 0.0, result[1].Skew, epsilon)
}

func TestSkewness_Fix(t *testing.T) {
	df := dataframe.LoadRecords([][]string{
		{"skewed"},
		{"0.1"},
		{"0.2"},
		{"0.3"},
		{"0.5"},
		{"1.0"},
		{"10.0"},
		{"200.0"},
	})
	ds, err := dataset.FromDataFrame(df)
	require.NoError(t, err)

	before, err := ds.Skewness(0.5, false)
	require.NoError(t, err)
	require.Greater(t, before[0].Skew, 0.5)

	_, err = ds.Skewness(0.5, true)
	require.NoError(t, err)

	after, err := ds.Skewness(0.5, false)
	require.NoError(t, err)
	assert.Less(t, after[0].Skew, before[0].Skew)
}

func TestOutliers(t *testing.T) {
	// y follows x exactly except one corrupted row.
	records := [][]string{{"x", "y"}}
	for i := 1; i <= 20; i++ {
		x := float64(i)
		y := 2*x + math.Sin(x)
		if i == 10 {
			y += 50
		}
		records = append(records, []string{floatString(x), floatString(y)})
	}
	df := dataframe.LoadRecords(records)
	ds, err := dataset.FromDataFrame(df)
	require.NoError(t, err)

	_, err = ds.Outliers()
	var preErr *edagoErrors.PreconditionError
	require.ErrorAs(t, err, &preErr)

	require.NoError(t, ds.SetTarget("y"))
	outliers, err := ds.Outliers()
	require.NoError(t, err)
	assert.Equal(t, []int{9}, outliers)
}
