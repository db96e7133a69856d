package dataset_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edakit/edago/dataset"
	edagoErrors "github.com/edakit/edago/pkg/errors"
)

// newScenarioDataset builds the reference table: A numeric without missing
// values, B categorical with two missing values, and a numeric target.
func newScenarioDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	df := dataframe.LoadRecords([][]string{
		{"A", "B", "target"},
		{"1.0", "x", "0"},
		{"2.0", "NaN", "1"},
		{"3.0", "y", "0"},
		{"4.0", "NaN", "1"},
	})
	require.NoError(t, df.Err)

	ds, err := dataset.FromDataFrame(df)
	require.NoError(t, err)
	return ds
}

// assertPartition checks the core meta invariant: numerical and
// categorical partition the working columns with no overlap.
func assertPartition(t *testing.T, ds *dataset.Dataset) {
	t.Helper()
	features, err := ds.Names(dataset.ViewFeatures)
	require.NoError(t, err)
	numerical, err := ds.Names(dataset.ViewNumerical)
	require.NoError(t, err)
	categorical, err := ds.Names(dataset.ViewCategorical)
	require.NoError(t, err)

	seen := make(map[string]int)
	for _, name := range numerical {
		seen[name]++
	}
	for _, name := range categorical {
		seen[name]++
	}

	require.Len(t, seen, len(features))
	for _, name := range features {
		assert.Equal(t, 1, seen[name], "column %s must appear in exactly one partition", name)
	}
}

func TestFromDataFrame_MetaScenario(t *testing.T) {
	ds := newScenarioDataset(t)
	require.NoError(t, ds.SetTarget("target"))

	numerical, _ := ds.Names(dataset.ViewNumerical)
	categorical, _ := ds.Names(dataset.ViewCategorical)
	categoricalNA, _ := ds.Names(dataset.ViewCategoricalNA)
	complete, _ := ds.Names(dataset.ViewComplete)

	assert.Equal(t, []string{"A"}, numerical)
	assert.Equal(t, []string{"B"}, categorical)
	assert.Equal(t, []string{"B"}, categoricalNA)
	assert.Equal(t, []string{"A"}, complete)
	assertPartition(t, ds)
}

func TestConstruction_Errors(t *testing.T) {
	_, err := dataset.Open("")
	var consErr *edagoErrors.ConstructionError
	require.ErrorAs(t, err, &consErr)

	_, err = dataset.FromDataFrame(dataframe.DataFrame{})
	require.ErrorAs(t, err, &consErr)
}

func TestFromCSV(t *testing.T) {
	csv := "A,B\n1.5,x\n2.5,y\n"
	ds, err := dataset.FromCSV(strings.NewReader(csv))
	require.NoError(t, err)

	features, _ := ds.Names(dataset.ViewFeatures)
	assert.Equal(t, []string{"A", "B"}, features)
	assertPartition(t, ds)
}

func TestSelect_InvalidSelector(t *testing.T) {
	ds := newScenarioDataset(t)

	_, err := ds.Select(dataset.View("numerix"))
	var selErr *edagoErrors.InvalidSelectorError
	require.ErrorAs(t, err, &selErr)
	assert.Equal(t, "numerix", selErr.Selector)

	_, err = ds.Names(dataset.View("bogus"))
	require.ErrorAs(t, err, &selErr)

	_, err = ds.SelectColumns([]string{"A", "missing"})
	require.ErrorAs(t, err, &selErr)
	assert.Equal(t, "missing", selErr.Selector)
}

func TestSelect_TagAndListAgree(t *testing.T) {
	ds := newScenarioDataset(t)
	require.NoError(t, ds.SetTarget("target"))

	names, err := ds.Names(dataset.ViewNumerical)
	require.NoError(t, err)

	byTag, err := ds.Select(dataset.ViewNumerical)
	require.NoError(t, err)
	byList, err := ds.SelectColumns(names)
	require.NoError(t, err)

	assert.Equal(t, byTag.Names(), byList.Names())
	assert.Equal(t, byTag.Records(), byList.Records())
}

func TestSelect_TargetRequiresTarget(t *testing.T) {
	ds := newScenarioDataset(t)

	_, err := ds.Select(dataset.ViewTarget)
	var preErr *edagoErrors.PreconditionError
	require.ErrorAs(t, err, &preErr)

	require.NoError(t, ds.SetTarget("target"))
	sub, err := ds.Select(dataset.ViewTarget)
	require.NoError(t, err)
	assert.Equal(t, []string{"target"}, sub.Names())
}

func TestSetTarget(t *testing.T) {
	ds := newScenarioDataset(t)
	require.NoError(t, ds.SetTarget("target"))

	features, _ := ds.Names(dataset.ViewFeatures)
	assert.NotContains(t, features, "target")

	all, _ := ds.Names(dataset.ViewAll)
	assert.Contains(t, all, "target")

	// Re-setting the same target is a no-op.
	require.NoError(t, ds.SetTarget("target"))

	// An unknown column is an invalid selector.
	err := ds.SetTarget("nope")
	var selErr *edagoErrors.InvalidSelectorError
	require.ErrorAs(t, err, &selErr)
}

func TestReplaceNA(t *testing.T) {
	ds := newScenarioDataset(t)
	require.NoError(t, ds.SetTarget("target"))

	require.NoError(t, ds.ReplaceNA("missing", "B"))

	categoricalNA, _ := ds.Names(dataset.ViewCategoricalNA)
	assert.Empty(t, categoricalNA)
	complete, _ := ds.Names(dataset.ViewComplete)
	assert.ElementsMatch(t, []string{"A", "B"}, complete)

	sub, err := ds.SelectColumns([]string{"B"})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"B"}, {"x"}, {"missing"}, {"y"}, {"missing"}}, sub.Records())
	assertPartition(t, ds)
}

func TestReplaceNA_TypeMismatch(t *testing.T) {
	ds := newScenarioDataset(t)

	err := ds.ReplaceNA(1.5, "B")
	var valErr *edagoErrors.ValueError
	require.ErrorAs(t, err, &valErr)

	df := dataframe.LoadRecords([][]string{
		{"N"},
		{"1.0"},
		{"NaN"},
	})
	numDS, err := dataset.FromDataFrame(df)
	require.NoError(t, err)

	err = numDS.ReplaceNA("oops", "N")
	require.ErrorAs(t, err, &valErr)

	require.NoError(t, numDS.ReplaceNA(0.0, "N"))
	numericalNA, _ := numDS.Names(dataset.ViewNumericalNA)
	assert.Empty(t, numericalNA)
}

func TestAddDropKeepColumns(t *testing.T) {
	ds := newScenarioDataset(t)

	require.NoError(t, ds.AddColumn(series.New([]float64{9, 8, 7, 6}, series.Float, "C")))
	features, _ := ds.Names(dataset.ViewFeatures)
	assert.Contains(t, features, "C")

	// Adding an existing name is ignored.
	require.NoError(t, ds.AddColumn(series.New([]float64{0, 0, 0, 0}, series.Float, "C")))
	sub, _ := ds.SelectColumns([]string{"C"})
	assert.Equal(t, "9.000000", sub.Records()[1][0])

	require.NoError(t, ds.DropColumns("C", "not_there"))
	features, _ = ds.Names(dataset.ViewFeatures)
	assert.NotContains(t, features, "C")

	require.NoError(t, ds.KeepColumns("A"))
	features, _ = ds.Names(dataset.ViewFeatures)
	assert.Equal(t, []string{"A"}, features)
	assertPartition(t, ds)
}

func TestAggregate(t *testing.T) {
	df := dataframe.LoadRecords([][]string{
		{"p", "q", "r"},
		{"1.0", "10.0", "100.0"},
		{"2.0", "20.0", "200.0"},
		{"3.0", "30.0", "300.0"},
	})
	ds, err := dataset.FromDataFrame(df)
	require.NoError(t, err)

	require.NoError(t, ds.Aggregate([]string{"p", "q"}, "pq_sum", dataset.OpSum, true))

	features, _ := ds.Names(dataset.ViewFeatures)
	assert.ElementsMatch(t, []string{"r", "pq_sum"}, features)

	sub, err := ds.SelectColumns([]string{"pq_sum"})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"pq_sum"}, {"11.000000"}, {"22.000000"}, {"33.000000"}}, sub.Records())
	assertPartition(t, ds)
}

func TestAggregate_Errors(t *testing.T) {
	ds := newScenarioDataset(t)

	err := ds.Aggregate([]string{"A"}, "out", dataset.AggregateOp("median"), false)
	var valErr *edagoErrors.ValueError
	require.ErrorAs(t, err, &valErr)

	err = ds.Aggregate([]string{"A", "nope"}, "out", dataset.OpSum, false)
	var selErr *edagoErrors.InvalidSelectorError
	require.ErrorAs(t, err, &selErr)

	err = ds.Aggregate([]string{"A", "B"}, "out", dataset.OpSum, false)
	require.ErrorAs(t, err, &valErr)
}

func TestAggregateOps(t *testing.T) {
	cases := []struct {
		op   dataset.AggregateOp
		want []string
	}{
		{dataset.OpDiff, []string{"-9.000000", "-18.000000", "-27.000000"}},
		{dataset.OpMax, []string{"10.000000", "20.000000", "30.000000"}},
		{dataset.OpMin, []string{"1.000000", "2.000000", "3.000000"}},
		{dataset.OpMean, []string{"5.500000", "11.000000", "16.500000"}},
	}
	for _, tc := range cases {
		df := dataframe.LoadRecords([][]string{
			{"p", "q"},
			{"1.0", "10.0"},
			{"2.0", "20.0"},
			{"3.0", "30.0"},
		})
		ds, err := dataset.FromDataFrame(df)
		require.NoError(t, err)

		require.NoError(t, ds.Aggregate([]string{"p", "q"}, "out", tc.op, true))
		sub, err := ds.SelectColumns([]string{"out"})
		require.NoError(t, err)
		for i, want := range tc.want {
			assert.Equal(t, want, sub.Records()[i+1][0], "op %s row %d", tc.op, i)
		}
	}
}

func TestDropSamples(t *testing.T) {
	ds := newScenarioDataset(t)
	require.NoError(t, ds.SetTarget("target"))

	require.NoError(t, ds.DropSamples(1, 3))
	assert.Equal(t, 2, ds.NumRows())

	target := ds.Target()
	require.NotNil(t, target)
	assert.Equal(t, 2, target.Len())
	assert.Equal(t, []float64{0, 0}, target.Float())

	err := ds.DropSamples(10)
	var valErr *edagoErrors.ValueError
	require.ErrorAs(t, err, &valErr)
	assertPartition(t, ds)
}

func TestOneHotEncode(t *testing.T) {
	ds := newScenarioDataset(t)
	require.NoError(t, ds.SetTarget("target"))
	require.NoError(t, ds.ReplaceNA("missing", "B"))

	require.NoError(t, ds.OneHotEncode())

	categorical, _ := ds.Names(dataset.ViewCategorical)
	assert.Empty(t, categorical)
	features, _ := ds.Names(dataset.ViewFeatures)
	assert.Equal(t, []string{"A", "B_missing", "B_x", "B_y"}, features)
	assertPartition(t, ds)

	sub, err := ds.SelectColumns([]string{"B_x"})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"B_x"}, {"1.000000"}, {"0.000000"}, {"0.000000"}, {"0.000000"}}, sub.Records())
}

func TestOneHotEncode_MissingValues(t *testing.T) {
	ds := newScenarioDataset(t)
	require.NoError(t, ds.SetTarget("target"))

	// Missing values are not a category: no indicator column for them, and
	// the affected rows stay all-zero across the feature's expansion.
	require.NoError(t, ds.OneHotEncode())

	features, _ := ds.Names(dataset.ViewFeatures)
	assert.Equal(t, []string{"A", "B_x", "B_y"}, features)

	sub, err := ds.SelectColumns([]string{"B_x", "B_y"})
	require.NoError(t, err)
	want := [][]string{
		{"B_x", "B_y"},
		{"1.000000", "0.000000"},
		{"0.000000", "0.000000"},
		{"0.000000", "1.000000"},
		{"0.000000", "0.000000"},
	}
	assert.Equal(t, want, sub.Records())
	assertPartition(t, ds)
}

func TestOneHotEncode_NoCategoricals(t *testing.T) {
	df := dataframe.LoadRecords([][]string{
		{"p"},
		{"1.0"},
		{"2.0"},
	})
	ds, err := dataset.FromDataFrame(df)
	require.NoError(t, err)

	require.NoError(t, ds.OneHotEncode())
	features, _ := ds.Names(dataset.ViewFeatures)
	assert.Equal(t, []string{"p"}, features)
}

func TestEncodeAggregateDrop_RoundTrip(t *testing.T) {
	ds := newScenarioDataset(t)
	require.NoError(t, ds.SetTarget("target"))
	require.NoError(t, ds.ReplaceNA("missing", "B"))
	require.NoError(t, ds.OneHotEncode())
	require.NoError(t, ds.Aggregate([]string{"B_x", "B_y"}, "B_known", dataset.OpSum, true))
	require.NoError(t, ds.DropColumns("B_missing"))

	features, _ := ds.Names(dataset.ViewFeatures)
	assert.ElementsMatch(t, []string{"A", "B_known"}, features)
	assertPartition(t, ds)
}

func TestUnderRepresentedFeatures(t *testing.T) {
	n := 100
	skewed := make([]string, n)
	balanced := make([]string, n)
	for i := 0; i < n; i++ {
		skewed[i] = "a"
		if i < 60 {
			balanced[i] = "u"
		} else {
			balanced[i] = "v"
		}
	}
	skewed[0] = "b" // 99% majority

	df := dataframe.New(
		series.New(skewed, series.String, "skewed"),
		series.New(balanced, series.String, "balanced"),
	)
	ds, err := dataset.FromDataFrame(df)
	require.NoError(t, err)

	under := ds.UnderRepresentedFeatures(0.98)
	assert.Equal(t, []string{"skewed"}, under)
}

func TestUnderRepresentedFeatures_IgnoresMissing(t *testing.T) {
	n := 100
	mostlyMissing := make([]string, n)
	allMissing := make([]string, n)
	for i := 0; i < n; i++ {
		switch {
		case i < 95:
			mostlyMissing[i] = "NaN"
		case i < 98:
			mostlyMissing[i] = "a"
		default:
			mostlyMissing[i] = "b"
		}
		allMissing[i] = "NaN"
	}

	df := dataframe.New(
		series.New(mostlyMissing, series.String, "mostly_missing"),
		series.New(allMissing, series.String, "all_missing"),
	)
	ds, err := dataset.FromDataFrame(df)
	require.NoError(t, err)

	// The NaN share is not a category ratio: the observed records split
	// 3/2, well under the threshold, and a fully missing column is skipped.
	under := ds.UnderRepresentedFeatures(0.9)
	assert.Empty(t, under)
}

func TestDescribeAndTable(t *testing.T) {
	ds := newScenarioDataset(t)
	require.NoError(t, ds.SetTarget("target"))

	summary := ds.Describe()
	assert.Equal(t, 2, summary.Features)
	assert.Equal(t, 1, summary.Numerical)
	assert.Equal(t, 1, summary.Categorical)
	assert.Equal(t, 1, summary.CategoricalNA)
	assert.Equal(t, 1, summary.Complete)
	assert.Equal(t, "target", summary.Target)

	table, err := ds.Table(dataset.ViewFeatures, 80)
	require.NoError(t, err)
	assert.Contains(t, table, "A")
	assert.Contains(t, table, "B")

	_, err = ds.Table(dataset.View("junk"), 80)
	var selErr *edagoErrors.InvalidSelectorError
	require.ErrorAs(t, err, &selErr)
}

func TestSplit(t *testing.T) {
	df := dataframe.LoadRecords(makeNumericRecords(50))
	ds, err := dataset.FromDataFrame(df)
	require.NoError(t, err)

	// Splitting before a target is set is a precondition failure.
	_, _, err = ds.Split(1024, 0.2, false)
	var preErr *edagoErrors.PreconditionError
	require.ErrorAs(t, err, &preErr)

	require.NoError(t, ds.SetTarget("y"))
	xs, ys, err := ds.Split(1024, 0.2, false)
	require.NoError(t, err)

	assert.Equal(t, 10, xs.Test.Nrow())
	assert.Equal(t, 40, xs.Train.Nrow())
	assert.Equal(t, xs.Train.Nrow(), ys.Train.Nrow())
	assert.Equal(t, xs.Test.Nrow(), ys.Test.Nrow())
	assert.Nil(t, xs.Validation)
}

// makeNumericRecords builds a simple numeric table x,y with n rows.
func makeNumericRecords(n int) [][]string {
	records := [][]string{{"x", "y"}}
	for i := 0; i < n; i++ {
		records = append(records, []string{
			floatString(float64(i)),
			floatString(float64(2 * i)),
		})
	}
	return records
}

// floatString keeps one decimal so type detection reads the column as float.
func floatString(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
