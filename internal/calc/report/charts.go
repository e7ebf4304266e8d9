package report

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"strconv"

	"ElectroHub/internal/project"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var ErrNoChartData = errors.New("nothing to chart")

var (
	barColor    = color.RGBA{R: 37, G: 99, B: 235, A: 255}
	targetColor = color.RGBA{R: 220, G: 38, B: 38, A: 255}
)

const (
	chartWidth  = 16 * vg.Centimeter
	chartHeight = 8 * vg.Centimeter
)

func barPlot(title, ylabel string, labels []string, values plotter.Values) (*plot.Plot, error) {
	if len(values) == 0 {
		return nil, ErrNoChartData
	}
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = ylabel
	p.Y.Min = 0

	bars, err := plotter.NewBarChart(values, vg.Points(18))
	if err != nil {
		return nil, fmt.Errorf("bar chart: %w", err)
	}
	bars.Color = barColor
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(labels...)
	return p, nil
}

func render(p *plot.Plot) ([]byte, error) {
	wt, err := p.WriterTo(chartWidth, chartHeight, "png")
	if err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}

// VoltageDropChart draws the voltage drop of every feeder against the
// target as a PNG.
func VoltageDropChart(r project.Results, targetPct float64) ([]byte, error) {
	labels := make([]string, 0, len(r.Feeders))
	values := make(plotter.Values, 0, len(r.Feeders))
	for _, f := range r.Feeders {
		labels = append(labels, f.Name)
		values = append(values, f.VoltageDropPct)
	}
	p, err := barPlot("Voltage drop per feeder", "dV [%]", labels, values)
	if err != nil {
		return nil, err
	}

	if targetPct > 0 {
		target := plotter.NewFunction(func(float64) float64 { return targetPct })
		target.Color = targetColor
		target.Width = vg.Points(1.5)
		target.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}
		p.Add(target)
		p.Legend.Add(fmt.Sprintf("target %s %%", strconv.FormatFloat(targetPct, 'f', -1, 64)), target)
		p.Legend.Top = true
		p.Y.Max = max(p.Y.Max, targetPct*1.2)
	}
	return render(p)
}

// HarmonicsChart draws the harmonic voltage of every order as a PNG.
func HarmonicsChart(r project.Results) ([]byte, error) {
	if r.Harmonics.NoData {
		return nil, ErrNoChartData
	}
	labels := make([]string, 0, len(r.Harmonics.Rows))
	values := make(plotter.Values, 0, len(r.Harmonics.Rows))
	for _, h := range r.Harmonics.Rows {
		labels = append(labels, "h"+strconv.Itoa(h.Order))
		values = append(values, h.VoltageV)
	}
	p, err := barPlot(fmt.Sprintf("Harmonic voltages (THD %.2f %%)", r.Harmonics.THDPct), "Vh [V]", labels, values)
	if err != nil {
		return nil, err
	}
	return render(p)
}
