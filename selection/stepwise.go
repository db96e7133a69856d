// Package selection implements greedy stepwise feature selection driven by
// the p-values of the OLS oracle.
//
// The selector consumes a Dataset whose categorical columns have already
// been one-hot encoded (the design matrix must be numeric) and repeats a
// forward and a backward step until neither changes the included set:
//
//	included, err := selection.Stepwise(ds, nil, 0.01, 0.05)
//
// Keep thresholdIn below thresholdOut; otherwise a feature can oscillate in
// and out and the loop may not terminate. This is the caller's contract and
// is not enforced, only warned about.
package selection

import (
	"math"

	"github.com/edakit/edago/dataset"
	"github.com/edakit/edago/linear"
	edagoErrors "github.com/edakit/edago/pkg/errors"
	"github.com/edakit/edago/pkg/log"
)

// Stepwise performs a forward-backward feature selection over the
// dataset's features.
//
// initial is the (possibly empty) ordered list of already-included feature
// names. In every iteration the forward step fits the target against each
// excluded candidate joined to the included set (plus intercept) and
// includes the candidate with the globally smallest p-value when it falls
// below thresholdIn; the backward step refits on the included set and
// excludes the feature with the largest p-value when it exceeds
// thresholdOut. Insertion order is preserved, ties resolve to the first
// feature in iteration order, and an empty result is a valid outcome.
//
// Preconditions: the target must be set and the categorical view must be
// empty (one-hot encode first); both violations return a PreconditionError.
func Stepwise(ds *dataset.Dataset, initial []string, thresholdIn, thresholdOut float64) ([]string, error) {
	logger := log.GetLoggerWithName("selection").With(
		log.ComponentKey, "selection",
	)

	if ds.Target() == nil {
		return nil, edagoErrors.NewPreconditionError("selection.Stepwise", "target is not set")
	}
	categorical, err := ds.Names(dataset.ViewCategorical)
	if err != nil {
		return nil, err
	}
	if len(categorical) > 0 {
		return nil, edagoErrors.NewPreconditionError("selection.Stepwise",
			"categorical columns remain unencoded; call OneHotEncode first")
	}
	if thresholdIn >= thresholdOut {
		logger.Warn("thresholdIn should be below thresholdOut to guarantee termination",
			log.ThresholdKey, thresholdIn,
		)
	}

	features, err := ds.Names(dataset.ViewFeatures)
	if err != nil {
		return nil, err
	}

	included := make([]string, 0, len(initial))
	for _, name := range initial {
		if !contains(features, name) {
			return nil, edagoErrors.NewInvalidSelectorError(name, features)
		}
		included = append(included, name)
	}

	y := ds.Target().Float()

	for {
		changed := false

		// Forward step: best candidate by its own p-value in the joint fit.
		bestP := math.Inf(1)
		bestName := ""
		for _, candidate := range features {
			if contains(included, candidate) {
				continue
			}
			cols := append(append([]string{}, included...), candidate)
			pvals, err := fitPValues(ds, cols, y)
			if err != nil {
				// A collinear candidate cannot be scored; skip it.
				logger.Debug("Candidate fit failed",
					"candidate", candidate, "error", err.Error())
				continue
			}
			p := pvals[len(pvals)-1]
			if p < bestP {
				bestP = p
				bestName = candidate
			}
		}
		if bestName != "" && bestP < thresholdIn {
			included = append(included, bestName)
			changed = true
			logger.Info("Feature added",
				log.FeaturesKey, bestName,
				log.PValueKey, bestP,
			)
		}

		// Backward step: worst included feature by p-value, intercept
		// excluded.
		if len(included) > 0 {
			pvals, err := fitPValues(ds, included, y)
			if err != nil {
				return nil, err
			}
			worstP := math.Inf(-1)
			worstIdx := -1
			for i, p := range pvals[1:] {
				if p > worstP {
					worstP = p
					worstIdx = i
				}
			}
			if worstIdx >= 0 && worstP > thresholdOut {
				name := included[worstIdx]
				included = append(included[:worstIdx], included[worstIdx+1:]...)
				changed = true
				logger.Info("Feature dropped",
					log.FeaturesKey, name,
					log.PValueKey, worstP,
				)
			}
		}

		if !changed {
			break
		}
	}
	return included, nil
}

// fitPValues fits the target against the named columns plus intercept and
// returns the coefficient p-values, intercept first.
func fitPValues(ds *dataset.Dataset, cols []string, y []float64) ([]float64, error) {
	X, err := ds.NumericMatrix(cols)
	if err != nil {
		return nil, err
	}
	ols := linear.NewOLS()
	if err := ols.Fit(X, y); err != nil {
		return nil, err
	}
	return ols.PValues(), nil
}

func contains(list []string, name string) bool {
	for _, v := range list {
		if v == name {
			return true
		}
	}
	return false
}
