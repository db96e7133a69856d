package preprocessing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"

	"github.com/edakit/edago/core/model"
	edagoErrors "github.com/edakit/edago/pkg/errors"
)

// PowerTransformer applies the Yeo-Johnson power transform to make each
// feature more Gaussian. The per-feature lambda is estimated by maximum
// likelihood during Fit. Unlike Box-Cox, Yeo-Johnson accepts zero and
// negative values.
type PowerTransformer struct {
	model.BaseEstimator

	// Lambdas holds the per-feature transform parameter learned by Fit.
	Lambdas []float64

	// Standardize controls whether the transformed output is additionally
	// scaled to zero mean and unit variance.
	Standardize bool

	// NFeatures is the number of features seen during Fit.
	NFeatures int

	scaler *StandardScaler
}

// NewPowerTransformer creates a Yeo-Johnson PowerTransformer. standardize
// additionally rescales the transformed output to zero mean and unit
// variance.
func NewPowerTransformer(standardize bool) *PowerTransformer {
	return &PowerTransformer{Standardize: standardize}
}

// Fit estimates the per-feature Yeo-Johnson lambda by maximizing the
// profile log-likelihood of the transformed column.
func (t *PowerTransformer) Fit(X mat.Matrix) (err error) {
	defer edagoErrors.Recover(&err, "PowerTransformer.Fit")
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return edagoErrors.NewModelError("PowerTransformer.Fit", "empty data", edagoErrors.ErrEmptyData)
	}

	t.NFeatures = c
	t.Lambdas = make([]float64, c)

	col := make([]float64, r)
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			col[i] = X.At(i, j)
		}
		t.Lambdas[j] = yeoJohnsonNormMax(col)
	}

	if t.Standardize {
		transformed, err := t.apply(X)
		if err != nil {
			return err
		}
		t.scaler = NewStandardScalerDefault()
		if err := t.scaler.Fit(transformed); err != nil {
			return err
		}
	}

	t.SetFitted()
	return nil
}

// Transform applies the fitted Yeo-Johnson transform to X.
func (t *PowerTransformer) Transform(X mat.Matrix) (_ mat.Matrix, err error) {
	defer edagoErrors.Recover(&err, "PowerTransformer.Transform")
	if !t.IsFitted() {
		return nil, edagoErrors.NewNotFittedError("PowerTransformer", "Transform")
	}

	r, c := X.Dims()
	_ = r
	if c != t.NFeatures {
		return nil, edagoErrors.NewDimensionError("PowerTransformer.Transform", t.NFeatures, c, 1)
	}

	result, err := t.apply(X)
	if err != nil {
		return nil, err
	}
	if t.Standardize && t.scaler != nil {
		return t.scaler.Transform(result)
	}
	return result, nil
}

// FitTransform fits the transformer on X and returns the transformed X.
func (t *PowerTransformer) FitTransform(X mat.Matrix) (_ mat.Matrix, err error) {
	defer edagoErrors.Recover(&err, "PowerTransformer.FitTransform")
	if err := t.Fit(X); err != nil {
		return nil, err
	}
	return t.Transform(X)
}

// InverseTransform maps transformed data back to the original space.
func (t *PowerTransformer) InverseTransform(X mat.Matrix) (_ mat.Matrix, err error) {
	defer edagoErrors.Recover(&err, "PowerTransformer.InverseTransform")
	if !t.IsFitted() {
		return nil, edagoErrors.NewNotFittedError("PowerTransformer", "InverseTransform")
	}

	r, c := X.Dims()
	if c != t.NFeatures {
		return nil, edagoErrors.NewDimensionError("PowerTransformer.InverseTransform", t.NFeatures, c, 1)
	}

	in := X
	if t.Standardize && t.scaler != nil {
		unscaled, err := t.scaler.InverseTransform(X)
		if err != nil {
			return nil, err
		}
		in = unscaled
	}

	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			result.Set(i, j, yeoJohnsonInverse(in.At(i, j), t.Lambdas[j]))
		}
	}
	return result, nil
}

// String returns a readable description of the transformer.
func (t *PowerTransformer) String() string {
	if !t.IsFitted() {
		return fmt.Sprintf("PowerTransformer(method=yeo-johnson, standardize=%t)", t.Standardize)
	}
	return fmt.Sprintf("PowerTransformer(method=yeo-johnson, standardize=%t, n_features=%d)",
		t.Standardize, t.NFeatures)
}

func (t *PowerTransformer) apply(X mat.Matrix) (*mat.Dense, error) {
	r, c := X.Dims()
	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			result.Set(i, j, YeoJohnson(X.At(i, j), t.Lambdas[j]))
		}
	}
	return result, nil
}

// YeoJohnson applies the Yeo-Johnson transform with parameter lambda to a
// single value.
func YeoJohnson(x, lambda float64) float64 {
	switch {
	case x >= 0 && lambda != 0:
		return (math.Pow(x+1, lambda) - 1) / lambda
	case x >= 0:
		return math.Log1p(x)
	case lambda != 2:
		return -(math.Pow(-x+1, 2-lambda) - 1) / (2 - lambda)
	default:
		return -math.Log1p(-x)
	}
}

func yeoJohnsonInverse(y, lambda float64) float64 {
	switch {
	case y >= 0 && lambda != 0:
		return math.Pow(y*lambda+1, 1/lambda) - 1
	case y >= 0:
		return math.Expm1(y)
	case lambda != 2:
		return 1 - math.Pow(-(2-lambda)*y+1, 1/(2-lambda))
	default:
		return 1 - math.Exp(-y)
	}
}

// yeoJohnsonNormMax finds the lambda maximizing the Yeo-Johnson profile
// log-likelihood of x. The search is a one-dimensional Nelder-Mead
// minimization of the negative log-likelihood, started at lambda = 1
// (identity).
func yeoJohnsonNormMax(x []float64) float64 {
	problem := optimize.Problem{
		Func: func(p []float64) float64 {
			return -yeoJohnsonLogLik(x, p[0])
		},
	}
	result, err := optimize.Minimize(problem, []float64{1.0}, nil, &optimize.NelderMead{})
	if err != nil || result == nil || math.IsNaN(result.X[0]) {
		return 1.0
	}
	return result.X[0]
}

func yeoJohnsonLogLik(x []float64, lambda float64) float64 {
	n := float64(len(x))
	transformed := make([]float64, len(x))
	logTerm := 0.0
	for i, v := range x {
		transformed[i] = YeoJohnson(v, lambda)
		if v >= 0 {
			logTerm += math.Log1p(v)
		} else {
			logTerm -= math.Log1p(-v)
		}
	}
	variance := stat.Variance(transformed, nil) * (n - 1) / n
	if variance <= 0 {
		return math.Inf(-1)
	}
	return -n/2*math.Log(variance) + (lambda-1)*logTerm
}

// BoxCox1p applies the Box-Cox transform to 1+x with parameter lambda. All
// inputs must satisfy x > -1.
func BoxCox1p(x []float64, lambda float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		if lambda == 0 {
			out[i] = math.Log1p(v)
		} else {
			out[i] = (math.Pow(1+v, lambda) - 1) / lambda
		}
	}
	return out
}

// BoxCoxNormMax finds the Box-Cox lambda maximizing the log-likelihood for
// the shifted data 1+x. Used together with BoxCox1p to unskew strictly
// positive-shifted features.
func BoxCoxNormMax(x []float64) (float64, error) {
	for _, v := range x {
		if 1+v <= 0 {
			return 0, edagoErrors.NewValueError("BoxCoxNormMax",
				"data must satisfy x > -1 for the 1p transform")
		}
	}

	problem := optimize.Problem{
		Func: func(p []float64) float64 {
			return -boxCox1pLogLik(x, p[0])
		},
	}
	result, err := optimize.Minimize(problem, []float64{1.0}, nil, &optimize.NelderMead{})
	if err != nil || result == nil || math.IsNaN(result.X[0]) {
		return 1.0, nil
	}
	return result.X[0], nil
}

func boxCox1pLogLik(x []float64, lambda float64) float64 {
	n := float64(len(x))
	transformed := BoxCox1p(x, lambda)
	logTerm := 0.0
	for _, v := range x {
		logTerm += math.Log1p(v)
	}
	variance := stat.Variance(transformed, nil) * (n - 1) / n
	if variance <= 0 {
		return math.Inf(-1)
	}
	return -n/2*math.Log(variance) + (lambda-1)*logTerm
}
