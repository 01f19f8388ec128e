package report

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"github.com/npillmayer/coaster"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

var (
	speedColor  = color.RGBA{R: 200, G: 30, B: 30, A: 255}
	heightColor = color.RGBA{R: 30, G: 90, B: 200, A: 255}
)

// Plot creates a chart of the speed profile. If the profile carries
// heights, they are drawn as a second line.
func Plot(p Profile) (*plot.Plot, error) {
	if p.Len() == 0 {
		return nil, fmt.Errorf("%w: empty profile", coaster.ErrInvalidInput)
	}
	plt := plot.New()
	plt.Title.Text = "Speed profile"
	plt.X.Label.Text = "time (s)"
	plt.Y.Label.Text = "speed (m/s), height (m)"
	plt.Add(plotter.NewGrid())

	speed, err := plotter.NewLine(xys(p.T, p.Speed))
	if err != nil {
		return nil, err
	}
	speed.LineStyle.Width = vg.Points(1.5)
	speed.LineStyle.Color = speedColor
	plt.Add(speed)
	plt.Legend.Add("speed", speed)

	if len(p.Height) == p.Len() {
		height, err := plotter.NewLine(xys(p.T, p.Height))
		if err != nil {
			return nil, err
		}
		height.LineStyle.Width = vg.Points(1)
		height.LineStyle.Color = heightColor
		height.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		plt.Add(height)
		plt.Legend.Add("height", height)
	}
	plt.Legend.Top = true
	return plt, nil
}

func xys(x, y []float64) plotter.XYs {
	pts := make(plotter.XYs, len(x))
	for i := range x {
		pts[i].X = x[i]
		pts[i].Y = y[i]
	}
	return pts
}

// WritePNG renders the speed profile as a PNG of the given size in inches.
func WritePNG(w io.Writer, p Profile, widthIn, heightIn float64) error {
	if !(widthIn > 0 && heightIn > 0) {
		return fmt.Errorf("%w: chart size %g × %g", coaster.ErrInvalidInput, widthIn, heightIn)
	}
	plt, err := Plot(p)
	if err != nil {
		return err
	}
	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(widthIn)*vg.Inch, vg.Length(heightIn)*vg.Inch),
		vgimg.UseDPI(96),
	)
	plt.Draw(draw.New(c))
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(w); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return nil
}

// SavePNG renders the speed profile into a PNG file, creating its
// directory if necessary.
func SavePNG(p Profile, filename string, widthIn, heightIn float64) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return fmt.Errorf("cannot create directory: %w", err)
	}
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("cannot create png: %w", err)
	}
	defer f.Close()
	bw := bufio.NewWriter(f)
	if err = WritePNG(bw, p, widthIn, heightIn); err != nil {
		return err
	}
	if err = bw.Flush(); err != nil {
		return err
	}
	tracer().Infof("speed profile written to %s", filename)
	return f.Close()
}
