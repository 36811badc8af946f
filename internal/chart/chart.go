// Package chart renders simulation results as PNG line charts.
package chart

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vicanso/go-charts/v2"

	"MemeSim/internal/calculator"
	"MemeSim/internal/model"
)

const (
	Title = "Meme Coin Portfolio Simulation Over Time"

	SeriesCash          = "Cash on Hand"
	SeriesAUM           = "Assets Under Management (AUM)"
	SeriesExpectedValue = "Expected Value"

	// ThemeName is the light theme with cash green, AUM blue and EV orange.
	ThemeName = "memesim"
)

var (
	colorCash          = charts.Color{R: 44, G: 160, B: 44, A: 255}
	colorAUM           = charts.Color{R: 31, G: 119, B: 180, A: 255}
	colorExpectedValue = charts.Color{R: 255, G: 127, B: 14, A: 255}

	expectedValueDash = []float64{6, 4}
)

func init() {
	charts.AddTheme(ThemeName, charts.ThemeOption{
		AxisStrokeColor:    charts.Color{R: 110, G: 112, B: 121, A: 255},
		AxisSplitLineColor: charts.Color{R: 224, G: 230, B: 242, A: 255},
		BackgroundColor:    charts.Color{R: 255, G: 255, B: 255, A: 255},
		TextColor:          charts.Color{R: 70, G: 70, B: 70, A: 255},
		SeriesColors:       []charts.Color{colorCash, colorAUM, colorExpectedValue},
	})
}

// Options controls rendering.
type Options struct {
	Stride int    // hours between plotted points; <= 0 plots every hour
	Unit   string // unit of account shown on the subtitle
	Width  int
	Height int
}

// Render draws cash on hand, AUM and expected value against the hour axis.
func Render(res *model.Result, opts Options) ([]byte, error) {
	if res == nil || len(res.TimeAxis) == 0 {
		return nil, errors.New("no data")
	}
	stride := opts.Stride
	if stride <= 0 {
		stride = 1
	}
	if opts.Width <= 0 {
		opts.Width = 1200
	}
	if opts.Height <= 0 {
		opts.Height = 800
	}

	idx, err := calculator.DownsampleIndex(len(res.TimeAxis), stride)
	if err != nil {
		return nil, fmt.Errorf("downsample: %w", err)
	}
	xLabels := make([]string, len(idx))
	values := [][]float64{
		make([]float64, len(idx)),
		make([]float64, len(idx)),
		make([]float64, len(idx)),
	}
	yMax := 0.0
	for i, j := range idx {
		xLabels[i] = fmt.Sprintf("%d", res.TimeAxis[j])
		values[0][i] = res.CashOnHand[j]
		values[1][i] = res.AUM[j]
		values[2][i] = res.ExpectedValue[j]
		for _, s := range values {
			if s[i] > yMax {
				yMax = s[i]
			}
		}
	}
	yMin := 0.0
	yMax *= 1.05
	if yMax == 0 {
		yMax = 1
	}

	split := len(xLabels) / 10
	if split < 2 {
		split = 2
	}

	names := []string{SeriesCash, SeriesAUM, SeriesExpectedValue}
	seriesList := newSeriesList(names, values)

	subtitle := fmt.Sprintf("Time (Hours) • Amount (%s) • EV per meme %.4f", opts.Unit, res.ExpectedValuePerAsset)
	painter, err := charts.Render(charts.ChartOption{SeriesList: seriesList},
		charts.TitleTextOptionFunc(Title, subtitle),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: xLabels, BoundaryGap: charts.FalseFlag(), SplitNumber: split}),
		charts.YAxisOptionFunc(charts.YAxisOption{Min: &yMin, Max: &yMax, DivideCount: 5}),
		charts.LegendOptionFunc(charts.LegendOption{Data: names}),
		charts.WidthOptionFunc(opts.Width),
		charts.HeightOptionFunc(opts.Height),
		charts.ThemeOptionFunc(ThemeName),
	)
	if err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return painter.Bytes()
}

// newSeriesList names the series in theme colour order; expected value is dashed.
func newSeriesList(names []string, values [][]float64) charts.SeriesList {
	seriesList := charts.NewSeriesListDataFromValues(values, charts.ChartTypeLine)
	for i := range seriesList {
		seriesList[i].Name = names[i]
	}
	seriesList[2].Style.StrokeDashArray = expectedValueDash
	return seriesList
}

// WriteFile renders res and writes the PNG to path, creating parent dirs.
func WriteFile(path string, res *model.Result, opts Options) error {
	img, err := Render(res, opts)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create chart dir: %w", err)
	}
	if err := os.WriteFile(path, img, 0o644); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	return nil
}
