// Package plot renders diagnostic figures for a pipeline run: a scree
// plot of explained variance per component and a biplot of the first two
// score dimensions overlaid with loading vectors.
package plot

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/ajitpratap0/prism/pkg/errors"
	"github.com/ajitpratap0/prism/pkg/logger"
)

// loadingScale stretches loading vectors so they remain visible against
// the spread of the scores.
const loadingScale = 0.8

// Scree renders a bar chart of explained variance per component with the
// cumulative curve overlaid, saved as a PNG at path.
func Scree(path, dataset string, explained, cumulative []float64) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Scree plot: %s", dataset)
	p.X.Label.Text = "Component"
	p.Y.Label.Text = "Explained variance"
	p.Y.Min = 0
	p.Y.Max = 1.05

	bars := make(plotter.Values, len(explained))
	copy(bars, explained)
	bar, err := plotter.NewBarChart(bars, vg.Points(18))
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "failed to build scree bars")
	}
	p.Add(bar)

	cum := make(plotter.XYs, len(cumulative))
	for i, v := range cumulative {
		cum[i] = plotter.XY{X: float64(i), Y: v}
	}
	line, err := plotter.NewLine(cum)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "failed to build cumulative line")
	}
	line.LineStyle.Width = vg.Points(2)
	p.Add(line)
	p.Legend.Add("cumulative", line)

	labels := make([]string, len(explained))
	for i := range labels {
		labels[i] = fmt.Sprintf("PC%d", i+1)
	}
	p.NominalX(labels...)

	return save(p, path)
}

// Biplot renders the first two score dimensions as a scatter with the
// loading vectors of each variable drawn from the origin, saved as a PNG
// at path. It requires at least two selected components.
func Biplot(path, dataset string, scores *mat.Dense, basis *mat.Dense, variables []string) error {
	_, k := scores.Dims()
	if k < 2 {
		return errors.New(errors.ErrorTypeNoComponents, "biplot requires at least two components").
			WithDetail("components", k)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Biplot: %s", dataset)
	p.X.Label.Text = "PC1"
	p.Y.Label.Text = "PC2"

	rows, _ := scores.Dims()
	pts := make(plotter.XYs, rows)
	for i := 0; i < rows; i++ {
		pts[i] = plotter.XY{X: scores.At(i, 0), Y: scores.At(i, 1)}
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "failed to build score scatter")
	}
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}
	scatter.GlyphStyle.Radius = vg.Points(2)
	p.Add(scatter)

	// Scale loadings to the score spread so the arrows stay readable.
	scale := loadingScale * floats.Max([]float64{
		mat.Norm(scores.ColView(0), 2),
		mat.Norm(scores.ColView(1), 2),
		1,
	})
	for i, name := range variables {
		x := basis.At(i, 0) * scale
		y := basis.At(i, 1) * scale
		vec, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: x, Y: y}})
		if err != nil {
			return errors.Wrap(err, errors.ErrorTypeInternal, "failed to build loading vector")
		}
		vec.LineStyle.Width = vg.Points(1)
		p.Add(vec)

		label, err := plotter.NewLabels(plotter.XYLabels{
			XYs:    plotter.XYs{{X: x, Y: y}},
			Labels: []string{name},
		})
		if err != nil {
			return errors.Wrap(err, errors.ErrorTypeInternal, "failed to build loading label")
		}
		p.Add(label)
	}

	return save(p, path)
}

func save(p *plot.Plot, path string) error {
	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to save plot").
			WithDetail("path", path)
	}
	logger.Get().Debug("plot saved",
		zap.String("path", filepath.Base(path)))
	return nil
}
