package viz

import (
	"fmt"
	"image/color"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/kaybrian/Water-Quality-Model/pkg/model"
)

// confusionGrid lays the matrix out so actual class 0 is the top row.
type confusionGrid struct{ cm model.ConfusionMatrix }

func (g confusionGrid) Dims() (c, r int)   { return 2, 2 }
func (g confusionGrid) X(c int) float64    { return float64(c) }
func (g confusionGrid) Y(r int) float64    { return float64(r) }
func (g confusionGrid) Z(c, r int) float64 { return float64(g.cm[1-r][c]) }

// blues runs from near white to dark blue.
type blues int

func (b blues) Colors() []color.Color {
	n := int(b)
	out := make([]color.Color, n)
	for i := range out {
		t := float64(i) / float64(n-1)
		out[i] = color.RGBA{
			R: uint8(247 - t*(247-8)),
			G: uint8(251 - t*(251-48)),
			B: uint8(255 - t*(255-107)),
			A: 255,
		}
	}
	return out
}

func classTicks(labels ...string) plot.ConstantTicks {
	ticks := make(plot.ConstantTicks, len(labels))
	for i, l := range labels {
		ticks[i] = plot.Tick{Value: float64(i), Label: l}
	}
	return ticks
}

// ConfusionPlot returns an annotated heatmap of cm.
func ConfusionPlot(cm model.ConfusionMatrix) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Confusion Matrix"
	p.X.Label.Text = "Predicted"
	p.Y.Label.Text = "Actual"
	p.X.Tick.Marker = classTicks("0", "1")
	p.Y.Tick.Marker = classTicks("1", "0")

	grid := confusionGrid{cm}
	p.Add(plotter.NewHeatMap(grid, blues(64)))

	var cells plotter.XYLabels
	max := 0
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			v := int(grid.Z(c, r))
			if v > max {
				max = v
			}
			cells.XYs = append(cells.XYs, plotter.XY{X: float64(c), Y: float64(r)})
			cells.Labels = append(cells.Labels, fmt.Sprintf("%d", v))
		}
	}
	labels, err := plotter.NewLabels(cells)
	if err != nil {
		return nil, errors.Wrap(err, "annotate heatmap")
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].Font.Size = vg.Points(14)
		labels.TextStyle[i].XAlign = -0.5
		labels.TextStyle[i].YAlign = -0.5
		// dark cells get white text
		if v := grid.Z(i%2, i/2); max > 0 && v > float64(max)/2 {
			labels.TextStyle[i].Color = color.White
		}
	}
	p.Add(labels)
	return p, nil
}

// ConfusionHeatmap renders cm to an image file; the format follows the
// extension of path.
func ConfusionHeatmap(cm model.ConfusionMatrix, path string) error {
	p, err := ConfusionPlot(cm)
	if err != nil {
		return err
	}
	return errors.Wrapf(p.Save(5*vg.Inch, 4*vg.Inch, path), "save %s", path)
}
