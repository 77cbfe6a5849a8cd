package views

import (
	"errors"
	"fmt"

	"github.com/irfndi/gridiron-sim-viewer/internal/models"
)

// ErrUnknownMode is returned by WithMode for a mode outside the series groups.
var ErrUnknownMode = errors.New("unknown featured game mode")

// DefaultMode is the group shown when a featured game is first rendered.
const DefaultMode = models.GroupPassing

// XAxisLabel is the featured-game chart's horizontal axis title.
const XAxisLabel = "Time Elapsed (seconds)"

// ChartSeries is a series plus its visibility in the current mode.
type ChartSeries struct {
	models.Series
	Visible bool `json:"visible"`
}

// FeaturedGameView is the featured game chart with one group of series shown.
type FeaturedGameView struct {
	Visible bool               `json:"visible"`
	Title   string             `json:"title,omitempty"`
	Mode    models.SeriesGroup `json:"mode,omitempty"`
	XMin    float64            `json:"x_min"`
	XMax    float64            `json:"x_max"`
	XLabel  string             `json:"x_label,omitempty"`
	Series  []ChartSeries      `json:"series,omitempty"`
}

// FeaturedGameTitle formats the chart title for a matchup.
func FeaturedGameTitle(home, away models.TeamCode) string {
	return fmt.Sprintf("Random Simulation of %s vs %s", home, away)
}

// NewFeaturedGameView builds the chart in DefaultMode. It is hidden unless
// the six series cover every side and group exactly once.
func NewFeaturedGameView(title string, series []models.Series) FeaturedGameView {
	if !completeSeries(series) {
		return FeaturedGameView{}
	}

	view := FeaturedGameView{
		Visible: true,
		Title:   title,
		XMin:    0,
		XMax:    models.GameDurationSeconds,
		XLabel:  XAxisLabel,
		Series:  make([]ChartSeries, len(series)),
	}
	for i, s := range series {
		view.Series[i] = ChartSeries{Series: s}
	}
	view.applyMode(DefaultMode)
	return view
}

// WithMode returns a copy showing only the series of mode. An unknown mode
// leaves v untouched and returns ErrUnknownMode.
func (v FeaturedGameView) WithMode(mode models.SeriesGroup) (FeaturedGameView, error) {
	if !mode.Valid() {
		return v, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	if !v.Visible {
		return v, nil
	}

	next := v
	next.Series = make([]ChartSeries, len(v.Series))
	copy(next.Series, v.Series)
	next.applyMode(mode)
	return next, nil
}

// VisibleSeries returns the series shown in the current mode.
func (v FeaturedGameView) VisibleSeries() []models.Series {
	var out []models.Series
	for _, s := range v.Series {
		if s.Visible {
			out = append(out, s.Series)
		}
	}
	return out
}

func (v *FeaturedGameView) applyMode(mode models.SeriesGroup) {
	v.Mode = mode
	for i := range v.Series {
		v.Series[i].Visible = v.Series[i].Group == mode
	}
}

func completeSeries(series []models.Series) bool {
	if len(series) != len(models.AllSeriesGroups)*2 {
		return false
	}
	type slot struct {
		side  models.Side
		group models.SeriesGroup
	}
	seen := make(map[slot]bool, len(series))
	for _, s := range series {
		if len(s.Points) == 0 || !s.Group.Valid() {
			return false
		}
		if s.Side != models.SideHome && s.Side != models.SideAway {
			return false
		}
		k := slot{s.Side, s.Group}
		if seen[k] {
			return false
		}
		seen[k] = true
	}
	return true
}
