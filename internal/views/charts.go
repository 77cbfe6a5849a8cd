package views

import (
	"errors"
	"fmt"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrHiddenView is returned when asked to draw a view with nothing to show.
var ErrHiddenView = errors.New("view is hidden")

const (
	chartWidth  = 900
	chartHeight = 420
	pieSize     = 320
)

var seriesColors = map[string]drawing.Color{
	"red":    drawing.ColorFromHex("d62728"),
	"blue":   drawing.ColorFromHex("1f77b4"),
	"green":  drawing.ColorFromHex("2ca02c"),
	"orange": drawing.ColorFromHex("ff7f0e"),
	"purple": drawing.ColorFromHex("9467bd"),
	"black":  drawing.ColorFromHex("000000"),
}

func colorFor(name string) drawing.Color {
	if c, ok := seriesColors[name]; ok {
		return c
	}
	return chart.ColorAlternateGray
}

// lineStyle draws a line with a marker on every sample.
func lineStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeColor: col,
		StrokeWidth: 2,
		DotColor:    col,
		DotWidth:    3,
	}
}

// FeaturedGameChart builds the go-chart definition for the visible series.
// The X axis always spans the full game.
func FeaturedGameChart(v FeaturedGameView) (chart.Chart, error) {
	if !v.Visible {
		return chart.Chart{}, ErrHiddenView
	}

	visible := v.VisibleSeries()
	series := make([]chart.Series, 0, len(visible))
	yMin, yMax := 0.0, 0.0
	for _, s := range visible {
		xs := make([]float64, len(s.Points))
		ys := make([]float64, len(s.Points))
		for i, p := range s.Points {
			xs[i] = p.ElapsedSeconds
			ys[i] = p.Value
			if p.Value < yMin {
				yMin = p.Value
			}
			if p.Value > yMax {
				yMax = p.Value
			}
		}
		// go-chart needs two points to draw a line.
		if len(xs) == 1 {
			xs = append(xs, xs[0])
			ys = append(ys, ys[0])
		}
		series = append(series, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: ys,
			Style:   lineStyle(colorFor(s.Color)),
		})
	}
	if yMax <= yMin {
		yMax = yMin + 1
	}

	ch := chart.Chart{
		Title:      v.Title,
		Width:      chartWidth,
		Height:     chartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  v.XLabel,
			Range: &chart.ContinuousRange{Min: v.XMin, Max: v.XMax},
		},
		YAxis: chart.YAxis{
			Name:  string(v.Mode),
			Range: &chart.ContinuousRange{Min: yMin, Max: yMax},
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch, nil
}

// RenderFeaturedGameSVG writes the featured game chart as SVG.
func RenderFeaturedGameSVG(w io.Writer, v FeaturedGameView) error {
	ch, err := FeaturedGameChart(v)
	if err != nil {
		return err
	}
	if err := ch.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("render featured game chart: %w", err)
	}
	return nil
}

// WinProbabilityChart builds a two-slice pie of the win split.
func WinProbabilityChart(r ResultsView) (chart.PieChart, error) {
	if !r.Visible {
		return chart.PieChart{}, ErrHiddenView
	}

	slice := func(s WinShare, col drawing.Color) chart.Value {
		return chart.Value{
			Label: fmt.Sprintf("%s %s%%", s.Label, s.Value.String()),
			Value: s.Percent(),
			Style: chart.Style{FillColor: col, StrokeColor: drawing.ColorWhite, StrokeWidth: 2},
		}
	}

	return chart.PieChart{
		Title:  "Win Probability",
		Width:  pieSize,
		Height: pieSize,
		Values: []chart.Value{
			slice(r.Split.Home, colorFor("red")),
			slice(r.Split.Away, colorFor("blue")),
		},
	}, nil
}

// RenderWinProbabilitySVG writes the win split as SVG.
func RenderWinProbabilitySVG(w io.Writer, r ResultsView) error {
	pie, err := WinProbabilityChart(r)
	if err != nil {
		return err
	}
	if err := pie.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("render win probability chart: %w", err)
	}
	return nil
}
