// Package plotting renders the tutorial figures with gonum/plot.
package plotting

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	_ "gonum.org/v1/plot/vg/vgimg"
	_ "gonum.org/v1/plot/vg/vgpdf"
	_ "gonum.org/v1/plot/vg/vgsvg"

	"github.com/YuminosukeSato/scigo-labs/datasets"
	"github.com/YuminosukeSato/scigo-labs/pkg/errors"
	"github.com/YuminosukeSato/scigo-labs/pkg/log"
)

var (
	curveColor  = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	sampleColor = color.RGBA{R: 255, A: 255}
	fitColor    = color.RGBA{G: 128, A: 255}
)

var formats = map[string]bool{
	"png": true, "jpg": true, "jpeg": true, "tif": true, "tiff": true,
	"svg": true, "pdf": true,
}

type options struct {
	width, height vg.Length
	title         string
	xLabel        string
	yLabel        string
}

// Option configures a figure.
type Option func(*options)

// WithSize sets the figure size.
func WithSize(width, height vg.Length) Option {
	return func(o *options) {
		o.width, o.height = width, height
	}
}

// WithTitle sets the plot title.
func WithTitle(title string) Option {
	return func(o *options) { o.title = title }
}

// WithLabels sets the axis labels.
func WithLabels(x, y string) Option {
	return func(o *options) { o.xLabel, o.yLabel = x, y }
}

func apply(opts []Option) options {
	o := options{width: 6 * vg.Inch, height: 4 * vg.Inch}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Fit は1本の当てはめ曲線
type Fit struct {
	Label string
	X, Y  []float64
}

func xys(op string, x, y []float64) (plotter.XYs, error) {
	if len(x) != len(y) {
		return nil, errors.NewDimensionError(op, len(x), len(y), 0)
	}
	if len(x) == 0 {
		return nil, errors.NewModelError(op, "no points to plot", errors.ErrEmptyData)
	}
	pts := make(plotter.XYs, len(x))
	for i := range x {
		pts[i].X, pts[i].Y = x[i], y[i]
	}
	return pts, nil
}

func format(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if !formats[ext] {
		return "", errors.NewValidationError("path", "unsupported image format (use png, jpg, tiff, svg or pdf)", path)
	}
	return ext, nil
}

func addLine(p *plot.Plot, pts plotter.XYs, c color.Color, label string) error {
	l, err := plotter.NewLine(pts)
	if err != nil {
		return errors.Wrap(err, "plotting: line")
	}
	l.Color = c
	l.Width = vg.Points(1.5)
	p.Add(l)
	if label != "" {
		p.Legend.Add(label, l)
	}
	return nil
}

func addScatter(p *plot.Plot, pts plotter.XYs, c color.Color, label string) error {
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return errors.Wrap(err, "plotting: scatter")
	}
	s.Color = c
	s.Shape = draw.CircleGlyph{}
	s.Radius = vg.Points(3)
	p.Add(s)
	if label != "" {
		p.Legend.Add(label, s)
	}
	return nil
}

// samplePlot draws the clean curve and the noisy observations.
func samplePlot(s *datasets.SineSample) (*plot.Plot, error) {
	p := plot.New()
	p.Legend.Top = true

	curve, err := xys("plotting.SamplePlot", s.Grid(), s.Curve())
	if err != nil {
		return nil, err
	}
	if err := addLine(p, curve, curveColor, "y_sinx"); err != nil {
		return nil, err
	}
	obs, err := xys("plotting.SamplePlot", s.XValues(), s.YValues())
	if err != nil {
		return nil, err
	}
	if err := addScatter(p, obs, sampleColor, "y_true"); err != nil {
		return nil, err
	}
	return p, nil
}

func save(p *plot.Plot, o options, path string) error {
	if _, err := format(path); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "plotting: create directory for %s", path)
	}
	if err := p.Save(o.width, o.height, path); err != nil {
		return errors.Wrapf(err, "plotting: save %s", path)
	}
	logSaved(path)
	return nil
}

func logSaved(path string) {
	log.GetLoggerWithName("plotting").Info("Figure saved",
		log.OperationKey, log.OperationPlot,
		log.OutputPathKey, path,
	)
}

// SeriesLine は (xs, ys) の折れ線を1枚の画像として保存する
func SeriesLine(xs, ys []float64, path string, opts ...Option) error {
	o := apply(opts)
	pts, err := xys("plotting.SeriesLine", xs, ys)
	if err != nil {
		return err
	}
	p := plot.New()
	p.Title.Text = o.title
	p.X.Label.Text = o.xLabel
	p.Y.Label.Text = o.yLabel
	if err := addLine(p, pts, curveColor, ""); err != nil {
		return err
	}
	return save(p, o, path)
}

// SamplePlot saves the sine curve with the noisy samples.
func SamplePlot(s *datasets.SineSample, path string, opts ...Option) error {
	o := apply(opts)
	p, err := samplePlot(s)
	if err != nil {
		return err
	}
	p.Title.Text = o.title
	return save(p, o, path)
}

// ComparisonGrid は各 Fit を1枚のパネルにし、2列のタイルに並べて保存する
//
// 各パネルには正弦曲線・観測点・当てはめ曲線を重ねる。
func ComparisonGrid(s *datasets.SineSample, fits []Fit, path string, opts ...Option) error {
	const op = "plotting.ComparisonGrid"
	if len(fits) == 0 {
		return errors.NewValidationError("fits", "at least one fit is required", 0)
	}
	o := apply(opts)
	ext, err := format(path)
	if err != nil {
		return err
	}

	cols := 2
	if len(fits) == 1 {
		cols = 1
	}
	rows := (len(fits) + cols - 1) / cols
	plots := make([][]*plot.Plot, rows)
	for i := range plots {
		plots[i] = make([]*plot.Plot, cols)
	}
	for k, f := range fits {
		p, err := samplePlot(s)
		if err != nil {
			return err
		}
		pts, err := xys(op, f.X, f.Y)
		if err != nil {
			return errors.Wrapf(err, "fit %q", f.Label)
		}
		if err := addLine(p, pts, fitColor, f.Label); err != nil {
			return err
		}
		p.Title.Text = f.Label
		plots[k/cols][k%cols] = p
	}
	// 奇数個の場合の空きセル
	for i := range plots {
		for j := range plots[i] {
			if plots[i][j] == nil {
				plots[i][j] = plot.New()
				plots[i][j].HideAxes()
			}
		}
	}

	img, err := draw.NewFormattedCanvas(o.width, o.height, ext)
	if err != nil {
		return errors.Wrap(err, "plotting: canvas")
	}
	tiles := draw.Tiles{
		Rows:      rows,
		Cols:      cols,
		PadX:      vg.Millimeter,
		PadY:      vg.Millimeter,
		PadTop:    vg.Points(2),
		PadBottom: vg.Points(2),
		PadLeft:   vg.Points(2),
		PadRight:  vg.Points(2),
	}
	canvases := plot.Align(plots, tiles, draw.New(img))
	for i := range plots {
		for j, p := range plots[i] {
			p.Draw(canvases[i][j])
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "plotting: create directory for %s", path)
	}
	w, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "plotting: create %s", path)
	}
	if _, err := img.WriteTo(w); err != nil {
		w.Close()
		return errors.Wrapf(err, "plotting: write %s", path)
	}
	if err := w.Close(); err != nil {
		return errors.Wrapf(err, "plotting: close %s", path)
	}
	logSaved(path)
	return nil
}
