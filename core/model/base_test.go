package model_test

import (
	"testing"

	"github.com/edakit/edago/core/model"
)

func TestBaseEstimatorLifecycle(t *testing.T) {
	var e model.BaseEstimator

	if e.IsFitted() {
		t.Error("new estimator reports fitted")
	}

	e.SetFitted()
	if !e.IsFitted() {
		t.Error("estimator not fitted after SetFitted")
	}

	e.Reset()
	if e.IsFitted() {
		t.Error("estimator still fitted after Reset")
	}
	if e.State != model.NotFitted {
		t.Errorf("State = %v, want NotFitted", e.State)
	}
}
