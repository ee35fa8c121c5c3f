package viz

import (
	"os"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/kaybrian/Water-Quality-Model/pkg/nn"
)

func series(vals []float64) plotter.XYs {
	pts := make(plotter.XYs, len(vals))
	for i, v := range vals {
		pts[i].X = float64(i)
		pts[i].Y = v
	}
	return pts
}

// curvePlot draws train and, when present, validation values per epoch.
func curvePlot(title, ylabel string, train, val []float64) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Epoch"
	p.Y.Label.Text = ylabel
	p.Legend.Top = true
	p.Legend.Left = true

	lines := []interface{}{"Train", series(train)}
	if len(val) > 0 {
		lines = append(lines, "Validation", series(val))
	}
	if err := plotutil.AddLines(p, lines...); err != nil {
		return nil, errors.Wrapf(err, "plot %s", title)
	}
	return p, nil
}

// HistoryPlots returns the loss and accuracy panels.
func HistoryPlots(h *nn.History) (loss, accuracy *plot.Plot, err error) {
	if h.Epochs() == 0 {
		return nil, nil, errors.New("history is empty")
	}
	if loss, err = curvePlot("Model loss", "Loss", h.Loss, h.ValLoss); err != nil {
		return nil, nil, err
	}
	if accuracy, err = curvePlot("Model accuracy", "Accuracy", h.Accuracy, h.ValAccuracy); err != nil {
		return nil, nil, err
	}
	return loss, accuracy, nil
}

// TrainingCurves renders the loss and accuracy panels side by side as a PNG.
func TrainingCurves(h *nn.History, path string) error {
	loss, acc, err := HistoryPlots(h)
	if err != nil {
		return err
	}

	img := vgimg.New(12*vg.Inch, 4*vg.Inch)
	dc := draw.New(img)
	tiles := draw.Tiles{Rows: 1, Cols: 2, PadX: vg.Millimeter * 4}
	canvases := plot.Align([][]*plot.Plot{{loss, acc}}, tiles, dc)
	loss.Draw(canvases[0][0])
	acc.Draw(canvases[0][1])

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer f.Close()
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return f.Close()
}
