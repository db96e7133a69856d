// Package visualize renders the analysis plots of the library: correlation
// matrix heatmaps and per-feature histograms split by a binary target. It
// is a pure side-effecting sink over gonum/plot; nothing is read back.
package visualize

import (
	"image/color"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	edagoErrors "github.com/edakit/edago/pkg/errors"
)

// corrGrid adapts a correlation matrix to the heatmap grid interface,
// masking the strict upper triangle like the usual correlation plot.
type corrGrid struct {
	m mat.Matrix
}

func (g corrGrid) Dims() (c, r int) {
	rr, cc := g.m.Dims()
	return cc, rr
}

func (g corrGrid) Z(c, r int) float64 {
	if c > r {
		return math.NaN()
	}
	return g.m.At(r, c)
}

func (g corrGrid) X(c int) float64 { return float64(c) }
func (g corrGrid) Y(r int) float64 { return float64(r) }

// SaveCorrMatrix renders a correlation (or association) matrix as a lower
// triangle heatmap with nominal axis labels and writes it to path. The
// image format follows the file extension.
func SaveCorrMatrix(m mat.Matrix, labels []string, path string) error {
	if m == nil {
		return edagoErrors.NewValueError("visualize.SaveCorrMatrix", "nil matrix")
	}
	r, c := m.Dims()
	if r != c {
		return edagoErrors.NewDimensionError("visualize.SaveCorrMatrix", r, c, 1)
	}
	if len(labels) != r {
		return edagoErrors.NewDimensionError("visualize.SaveCorrMatrix", r, len(labels), 0)
	}

	pal := moreland.SmoothBlueRed().Palette(255)
	heatmap := plotter.NewHeatMap(corrGrid{m: m}, pal)

	p := plot.New()
	p.Title.Text = "Correlation matrix"
	p.Add(heatmap)
	p.NominalX(labels...)
	p.NominalY(labels...)

	return p.Save(9*vg.Inch, 9*vg.Inch, path)
}

// SaveHistAgainstTarget renders stacked histograms of one feature split by
// a binary target (class 0 and class 1) and writes them to path.
func SaveHistAgainstTarget(name string, class0, class1 []float64, bins int, path string) error {
	if len(class0) == 0 && len(class1) == 0 {
		return edagoErrors.NewModelError("visualize.SaveHistAgainstTarget", "empty data",
			edagoErrors.ErrEmptyData)
	}
	if bins <= 0 {
		bins = 50
	}

	p := plot.New()
	p.Title.Text = "Histogram of " + name
	p.X.Label.Text = name
	p.Y.Label.Text = "count"

	if len(class0) > 0 {
		h0, err := plotter.NewHist(plotter.Values(class0), bins)
		if err != nil {
			return edagoErrors.Wrap(err, "visualize: histogram for class 0")
		}
		h0.FillColor = color.RGBA{R: 70, G: 130, B: 180, A: 200}
		p.Add(h0)
		p.Legend.Add(name+": 0", h0)
	}
	if len(class1) > 0 {
		h1, err := plotter.NewHist(plotter.Values(class1), bins)
		if err != nil {
			return edagoErrors.Wrap(err, "visualize: histogram for class 1")
		}
		h1.FillColor = color.RGBA{R: 220, G: 100, B: 60, A: 200}
		p.Add(h1)
		p.Legend.Add(name+": 1", h1)
	}

	return p.Save(8*vg.Inch, 5*vg.Inch, path)
}
