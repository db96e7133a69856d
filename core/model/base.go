// Package model provides the shared estimator base for edago transformers
// and models.
//
// Every estimator (scalers, encoders, the OLS oracle) embeds BaseEstimator
// to get consistent fitted-state tracking:
//
//	type PowerTransformer struct {
//		model.BaseEstimator
//		// estimator-specific fields
//	}
//
//	func (t *PowerTransformer) Fit(X mat.Matrix) error {
//		// fitting logic
//		t.SetFitted()
//		return nil
//	}
//
// Methods that require a trained estimator guard on IsFitted and return a
// NotFittedError otherwise.
package model

// EstimatorState represents the learning state of an estimator.
type EstimatorState int

const (
	// NotFitted indicates the estimator has not been trained yet.
	NotFitted EstimatorState = iota
	// Fitted indicates the estimator has been trained.
	Fitted
)

// BaseEstimator is the embedded base for all estimators.
type BaseEstimator struct {
	// State holds the estimator's learning state. Public for gob encoding.
	State EstimatorState
}

// IsFitted returns whether the estimator has been fitted with training data.
func (e *BaseEstimator) IsFitted() bool {
	return e.State == Fitted
}

// SetFitted marks the estimator as fitted. Called by estimator
// implementations at the end of a successful Fit, never by callers.
func (e *BaseEstimator) SetFitted() {
	e.State = Fitted
}

// Reset returns the estimator to its initial untrained state. After Reset
// the estimator must be fitted again before use.
func (e *BaseEstimator) Reset() {
	e.State = NotFitted
}
