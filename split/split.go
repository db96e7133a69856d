// Package split partitions feature and target tables into train/test
// subsets with a reproducible seeded shuffle.
package split

import (
	"math"
	"math/rand"

	"github.com/go-gota/gota/dataframe"

	edagoErrors "github.com/edakit/edago/pkg/errors"
)

// Split holds the partitions of one table. Validation is only populated
// when the split was requested with a validation fold.
type Split struct {
	Train      dataframe.DataFrame
	Test       dataframe.DataFrame
	Validation *dataframe.DataFrame
}

// TrainTest partitions X and Y row-wise into train and test subsets using a
// shuffle seeded with seed. testFraction is the fraction of rows assigned
// to the test partition (rounded up). When withValidation is true the train
// partition is split once more with the same fraction to produce a
// validation fold.
//
// The same row permutation is applied to X and Y, so corresponding rows
// stay aligned across the two returned Splits.
func TrainTest(X, Y dataframe.DataFrame, seed int64, testFraction float64, withValidation bool) (Split, Split, error) {
	if X.Err != nil {
		return Split{}, Split{}, edagoErrors.Wrap(X.Err, "split: invalid feature table")
	}
	if Y.Err != nil {
		return Split{}, Split{}, edagoErrors.Wrap(Y.Err, "split: invalid target table")
	}
	n := X.Nrow()
	if n == 0 {
		return Split{}, Split{}, edagoErrors.NewModelError("split.TrainTest", "empty data", edagoErrors.ErrEmptyData)
	}
	if Y.Nrow() != n {
		return Split{}, Split{}, edagoErrors.NewDimensionError("split.TrainTest", n, Y.Nrow(), 0)
	}
	if testFraction <= 0 || testFraction >= 1 {
		return Split{}, Split{}, edagoErrors.NewValueError("split.TrainTest",
			"testFraction must be in (0, 1)")
	}

	rnd := rand.New(rand.NewSource(seed))
	perm := rnd.Perm(n)

	nTest := int(math.Ceil(float64(n) * testFraction))
	if nTest >= n {
		return Split{}, Split{}, edagoErrors.NewValueError("split.TrainTest",
			"testFraction leaves no training rows")
	}
	testIdx := perm[:nTest]
	trainIdx := perm[nTest:]

	xs := Split{Train: X.Subset(trainIdx), Test: X.Subset(testIdx)}
	ys := Split{Train: Y.Subset(trainIdx), Test: Y.Subset(testIdx)}

	if withValidation {
		nVal := int(math.Ceil(float64(len(trainIdx)) * testFraction))
		if nVal >= len(trainIdx) {
			return Split{}, Split{}, edagoErrors.NewValueError("split.TrainTest",
				"testFraction leaves no training rows after validation split")
		}
		valIdx := trainIdx[:nVal]
		trainIdx = trainIdx[nVal:]

		xVal := X.Subset(valIdx)
		yVal := Y.Subset(valIdx)
		xs.Train = X.Subset(trainIdx)
		ys.Train = Y.Subset(trainIdx)
		xs.Validation = &xVal
		ys.Validation = &yVal
	}

	for _, df := range []dataframe.DataFrame{xs.Train, xs.Test, ys.Train, ys.Test} {
		if df.Err != nil {
			return Split{}, Split{}, edagoErrors.Wrap(df.Err, "split: subset failed")
		}
	}
	return xs, ys, nil
}
