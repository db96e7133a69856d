// Package linear implements the ordinary least squares oracle consumed by
// the dataset layer and the stepwise selector.
//
// The model is deliberately small: it fits target against a design matrix
// with an intercept and exposes the inference byproducts the rest of the
// library needs — per-coefficient two-tailed p-values and Bonferroni-adjusted
// outlier p-values. Fitting uses the normal equations with an explicit
// (X'X)^-1, which is then reused for coefficient standard errors and the hat
// matrix diagonal.
//
// Example usage:
//
//	ols := linear.NewOLS()
//	err := ols.Fit(X, y) // X: features, y: target values
//	if err != nil {
//		log.Fatal(err)
//	}
//	pvals := ols.PValues() // intercept first, then one per column of X
//
// All entry points follow the estimator contract: NotFittedError before Fit,
// DimensionError on shape mismatches, and panics converted to errors.
package linear

import (
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/edakit/edago/core/model"
	edagoErrors "github.com/edakit/edago/pkg/errors"
	"github.com/edakit/edago/pkg/log"
)

// OLS is an ordinary least squares regression model with inference support.
type OLS struct {
	model.BaseEstimator

	// Coefs holds the fitted coefficients, intercept first.
	Coefs []float64

	// StdErrs holds the coefficient standard errors, aligned with Coefs.
	StdErrs []float64

	// NFeatures is the number of features (columns of X, excluding the
	// intercept).
	NFeatures int

	// NSamples is the number of training rows.
	NSamples int

	// DegreesOfFreedom is the residual degrees of freedom (n - p).
	DegreesOfFreedom int

	// RSS is the residual sum of squares.
	RSS float64

	pvalues   []float64
	residuals []float64
	hatDiag   []float64
	logger    log.Logger
}

// NewOLS creates a new untrained OLS model.
func NewOLS() *OLS {
	m := &OLS{}
	m.logger = log.GetLoggerWithName("linear").With(
		log.ModelNameKey, "OLS",
		log.ComponentKey, "linear",
	)
	return m
}

// Fit trains the model on the feature matrix X and target vector y.
//
// An intercept column is prepended to X and the normal equations
// (X'X)w = X'y are solved through an explicit inverse. The inverse is kept
// for inference: coefficient standard errors, t statistics and the leverage
// (hat matrix diagonal) used by OutlierTest.
//
// Errors:
//   - ErrEmptyData: X has zero rows or columns
//   - DimensionError: len(y) differs from the row count of X
//   - ValueError: fewer rows than coefficients (no residual degrees of freedom)
//   - ErrSingularMatrix: X'X cannot be inverted
func (m *OLS) Fit(X mat.Matrix, y []float64) (err error) {
	defer edagoErrors.Recover(&err, "OLS.Fit")

	startTime := time.Now()
	r, c := X.Dims()

	if m.logger != nil {
		m.logger.Debug("Fit started",
			log.OperationKey, log.OperationFit,
			log.PhaseKey, log.PhaseTraining,
			log.SamplesKey, r,
			log.FeaturesKey, c,
		)
	}

	if r == 0 || c == 0 {
		return edagoErrors.NewModelError("OLS.Fit", "empty data", edagoErrors.ErrEmptyData)
	}
	if len(y) != r {
		return edagoErrors.NewDimensionError("OLS.Fit", r, len(y), 0)
	}

	p := c + 1
	if r <= p {
		return edagoErrors.NewValueError("OLS.Fit",
			"not enough samples for the number of coefficients")
	}

	// Design matrix with intercept: D = [1, X]
	design := mat.NewDense(r, p, nil)
	for i := 0; i < r; i++ {
		design.Set(i, 0, 1.0)
		for j := 0; j < c; j++ {
			design.Set(i, j+1, X.At(i, j))
		}
	}

	var dt mat.Dense
	dt.CloneFrom(design.T())

	var dtd mat.Dense
	dtd.Mul(&dt, design)

	var dtdInv mat.Dense
	if err := dtdInv.Inverse(&dtd); err != nil {
		return edagoErrors.NewModelError("OLS.Fit", "singular design matrix",
			edagoErrors.ErrSingularMatrix)
	}

	yVec := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		yVec.SetVec(i, y[i])
	}

	var dty mat.VecDense
	dty.MulVec(&dt, yVec)

	coefs := mat.NewVecDense(p, nil)
	coefs.MulVec(&dtdInv, &dty)

	m.NFeatures = c
	m.NSamples = r
	m.DegreesOfFreedom = r - p
	m.Coefs = make([]float64, p)
	for j := 0; j < p; j++ {
		m.Coefs[j] = coefs.AtVec(j)
	}

	// Residuals and RSS
	m.residuals = make([]float64, r)
	m.RSS = 0
	for i := 0; i < r; i++ {
		fitted := 0.0
		for j := 0; j < p; j++ {
			fitted += design.At(i, j) * m.Coefs[j]
		}
		m.residuals[i] = y[i] - fitted
		m.RSS += m.residuals[i] * m.residuals[i]
	}

	// Standard errors and two-tailed t p-values
	sigma2 := m.RSS / float64(m.DegreesOfFreedom)
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(m.DegreesOfFreedom)}

	m.StdErrs = make([]float64, p)
	m.pvalues = make([]float64, p)
	for j := 0; j < p; j++ {
		m.StdErrs[j] = math.Sqrt(sigma2 * dtdInv.At(j, j))
		m.pvalues[j] = twoTailed(m.Coefs[j], m.StdErrs[j], dist)
	}

	// Leverage for outlier diagnostics: h_i = d_i' (D'D)^-1 d_i
	m.hatDiag = make([]float64, r)
	row := mat.NewVecDense(p, nil)
	tmp := mat.NewVecDense(p, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < p; j++ {
			row.SetVec(j, design.At(i, j))
		}
		tmp.MulVec(&dtdInv, row)
		m.hatDiag[i] = mat.Dot(row, tmp)
	}

	m.SetFitted()

	if m.logger != nil {
		m.logger.Debug("Fit completed",
			log.OperationKey, log.OperationFit,
			log.PhaseKey, log.PhaseTraining,
			log.DurationMsKey, time.Since(startTime).Milliseconds(),
			log.SamplesKey, r,
			log.FeaturesKey, c,
		)
	}

	return nil
}

func twoTailed(coef, stderr float64, dist distuv.StudentsT) float64 {
	if stderr == 0 {
		if coef == 0 {
			return 1.0
		}
		return 0.0
	}
	t := math.Abs(coef / stderr)
	if math.IsInf(t, 0) {
		return 0.0
	}
	return 2 * dist.Survival(t)
}

// PValues returns the two-tailed p-values for all coefficients, intercept
// first. The slice is aligned with Coefs.
func (m *OLS) PValues() []float64 {
	if !m.IsFitted() {
		return nil
	}
	out := make([]float64, len(m.pvalues))
	copy(out, m.pvalues)
	return out
}

// Coefficients returns the fitted feature coefficients, excluding the
// intercept.
func (m *OLS) Coefficients() []float64 {
	if !m.IsFitted() {
		return nil
	}
	out := make([]float64, m.NFeatures)
	copy(out, m.Coefs[1:])
	return out
}

// Intercept returns the fitted intercept term.
func (m *OLS) Intercept() float64 {
	if !m.IsFitted() {
		return 0
	}
	return m.Coefs[0]
}

// Residuals returns the training residuals y - X*w.
func (m *OLS) Residuals() []float64 {
	if !m.IsFitted() {
		return nil
	}
	out := make([]float64, len(m.residuals))
	copy(out, m.residuals)
	return out
}

// Predict computes fitted values for new rows. X must have the same number
// of columns as the training data.
func (m *OLS) Predict(X mat.Matrix) (_ []float64, err error) {
	defer edagoErrors.Recover(&err, "OLS.Predict")
	if !m.IsFitted() {
		return nil, edagoErrors.NewNotFittedError("OLS", "Predict")
	}

	r, c := X.Dims()
	if c != m.NFeatures {
		return nil, edagoErrors.NewDimensionError("OLS.Predict", m.NFeatures, c, 1)
	}

	preds := make([]float64, r)
	for i := 0; i < r; i++ {
		v := m.Coefs[0]
		for j := 0; j < c; j++ {
			v += X.At(i, j) * m.Coefs[j+1]
		}
		preds[i] = v
	}
	return preds, nil
}

// Score returns the coefficient of determination R² on the given data.
func (m *OLS) Score(X mat.Matrix, y []float64) (_ float64, err error) {
	defer edagoErrors.Recover(&err, "OLS.Score")
	if !m.IsFitted() {
		return 0, edagoErrors.NewNotFittedError("OLS", "Score")
	}

	preds, err := m.Predict(X)
	if err != nil {
		return 0, err
	}
	if len(y) != len(preds) {
		return 0, edagoErrors.NewDimensionError("OLS.Score", len(preds), len(y), 0)
	}

	var yMean float64
	for _, v := range y {
		yMean += v
	}
	yMean /= float64(len(y))

	var tss, rss float64
	for i, v := range y {
		tss += (v - yMean) * (v - yMean)
		rss += (v - preds[i]) * (v - preds[i])
	}
	if tss == 0 {
		return 0, edagoErrors.NewValueError("OLS.Score", "total sum of squares is zero")
	}
	return 1 - rss/tss, nil
}

// OutlierTest returns Bonferroni-adjusted two-tailed p-values for the
// externally studentized residual of every training row. Values near zero
// mark rows the model considers outliers.
func (m *OLS) OutlierTest() (_ []float64, err error) {
	defer edagoErrors.Recover(&err, "OLS.OutlierTest")
	if !m.IsFitted() {
		return nil, edagoErrors.NewNotFittedError("OLS", "OutlierTest")
	}

	n := m.NSamples
	dof := m.DegreesOfFreedom - 1
	if dof <= 0 {
		return nil, edagoErrors.NewValueError("OLS.OutlierTest",
			"not enough degrees of freedom for studentized residuals")
	}

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(dof)}
	bonf := make([]float64, n)
	for i := 0; i < n; i++ {
		denom := 1 - m.hatDiag[i]
		if denom <= 0 {
			// Leverage of one: the row determines its own fit exactly.
			bonf[i] = 1.0
			continue
		}
		s2i := (m.RSS - m.residuals[i]*m.residuals[i]/denom) / float64(dof)
		if s2i <= 0 {
			bonf[i] = 0.0
			continue
		}
		t := math.Abs(m.residuals[i] / math.Sqrt(s2i*denom))
		p := 2 * dist.Survival(t)
		bonf[i] = math.Min(1.0, p*float64(n))
	}
	return bonf, nil
}

// OutlierIndices returns the training row indices whose Bonferroni-adjusted
// outlier p-value falls below alpha, in row order.
func (m *OLS) OutlierIndices(alpha float64) ([]int, error) {
	bonf, err := m.OutlierTest()
	if err != nil {
		return nil, err
	}
	var idx []int
	for i, p := range bonf {
		if p < alpha {
			idx = append(idx, i)
		}
	}
	return idx, nil
}
