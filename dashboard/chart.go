package dashboard

import (
	"errors"
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"go-fieldwatch/types"
)

var ErrNotEnoughSamples = errors.New("need at least two samples to draw a chart")

var (
	chartBackground = drawing.ColorFromHex("102026")
	chartLine       = drawing.ColorFromHex("ECF22E")
	chartDot        = drawing.ColorFromHex("EDF25E")
)

const (
	ChartWidth  = 480
	ChartHeight = 300
)

// RenderChart draws the series as a PNG line chart, x = sample index.
func RenderChart(w io.Writer, series types.ChannelSeries) error {
	if len(series.Values) < 2 {
		return ErrNotEnoughSamples
	}

	xs := make([]float64, len(series.Values))
	for i := range xs {
		xs[i] = float64(i)
	}

	yName := series.Label
	if series.Unit != "" {
		yName = fmt.Sprintf("%s (%s)", series.Label, series.Unit)
	}

	graph := chart.Chart{
		Title:  series.Label,
		Width:  ChartWidth,
		Height: ChartHeight,
		TitleStyle: chart.Style{
			FontColor: chartLine,
		},
		Background: chart.Style{
			FillColor: chartBackground,
			FontColor: chartLine,
			Padding:   chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		Canvas: chart.Style{FillColor: chartBackground},
		XAxis: chart.XAxis{
			Name:  fmt.Sprintf("Time (last %d samples)", len(series.Values)),
			Style: chart.Style{FontColor: chartLine, StrokeColor: chartLine},
		},
		YAxis: chart.YAxis{
			Name:  yName,
			Range: &chart.ContinuousRange{Min: series.DisplayMin, Max: series.DisplayMax},
			Style: chart.Style{FontColor: chartLine, StrokeColor: chartLine},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    string(series.Channel),
				XValues: xs,
				YValues: series.Values,
				Style: chart.Style{
					StrokeColor: chartLine,
					StrokeWidth: 2,
					DotColor:    chartDot,
					DotWidth:    5,
				},
			},
		},
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render %s chart: %w", series.Channel, err)
	}
	return nil
}
