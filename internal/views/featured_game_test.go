package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irfndi/gridiron-sim-viewer/internal/models"
	"github.com/irfndi/gridiron-sim-viewer/internal/services"
)

func gamePoints(values ...float64) []models.TimePoint {
	out := make([]models.TimePoint, len(values))
	for i, v := range values {
		out[i] = models.TimePoint{ElapsedSeconds: float64(i) * 600, Value: v}
	}
	return out
}

func sixSeries(t *testing.T) []models.Series {
	t.Helper()
	series, err := services.BuildSeries("ATL", "NO", models.FeaturedGame{
		HomePassing: gamePoints(0, 40, 95),
		AwayPassing: gamePoints(0, 55, 120),
		HomeRushing: gamePoints(0, 12, 30),
		AwayRushing: gamePoints(0, 8, 19),
		HomeScoring: gamePoints(0, 7, 14),
		AwayScoring: gamePoints(0, 0, 3),
	})
	require.NoError(t, err)
	return series
}

func TestFeaturedGameTitle(t *testing.T) {
	assert.Equal(t, "Random Simulation of ATL vs NO", FeaturedGameTitle("ATL", "NO"))
}

func TestNewFeaturedGameView_DefaultsToPassing(t *testing.T) {
	view := NewFeaturedGameView(FeaturedGameTitle("ATL", "NO"), sixSeries(t))

	require.True(t, view.Visible)
	assert.Equal(t, models.GroupPassing, view.Mode)
	assert.Equal(t, 0.0, view.XMin)
	assert.Equal(t, 3600.0, view.XMax)
	assert.Equal(t, XAxisLabel, view.XLabel)

	visible := view.VisibleSeries()
	require.Len(t, visible, 2)
	assert.Equal(t, "ATL", visible[0].Name)
	assert.Equal(t, "NO", visible[1].Name)
}

func TestFeaturedGameView_EveryModeShowsTwo(t *testing.T) {
	view := NewFeaturedGameView("title", sixSeries(t))

	for _, mode := range models.AllSeriesGroups {
		t.Run(string(mode), func(t *testing.T) {
			next, err := view.WithMode(mode)
			require.NoError(t, err)
			assert.Equal(t, mode, next.Mode)

			visible := next.VisibleSeries()
			require.Len(t, visible, 2)
			for _, s := range visible {
				assert.Equal(t, mode, s.Group)
			}
			assert.Len(t, next.Series, 6)
		})
	}
}

func TestFeaturedGameView_WithModeDoesNotMutate(t *testing.T) {
	view := NewFeaturedGameView("title", sixSeries(t))

	_, err := view.WithMode(models.GroupScoring)
	require.NoError(t, err)

	assert.Equal(t, models.GroupPassing, view.Mode)
	assert.True(t, view.Series[0].Visible)
	assert.False(t, view.Series[4].Visible)
}

func TestFeaturedGameView_UnknownMode(t *testing.T) {
	view := NewFeaturedGameView("title", sixSeries(t))

	next, err := view.WithMode("defense")

	require.ErrorIs(t, err, ErrUnknownMode)
	assert.Equal(t, view, next)
}

func TestNewFeaturedGameView_Hidden(t *testing.T) {
	full := sixSeries(t)

	duplicate := append([]models.Series(nil), full...)
	duplicate[1] = duplicate[0]

	empty := append([]models.Series(nil), full...)
	empty[3].Points = nil

	tests := []struct {
		name   string
		series []models.Series
	}{
		{"none", nil},
		{"five series", full[:5]},
		{"duplicated slot", duplicate},
		{"empty series", empty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := NewFeaturedGameView("title", tt.series)
			assert.False(t, view.Visible)
			assert.Empty(t, view.VisibleSeries())

			same, err := view.WithMode(models.GroupRushing)
			require.NoError(t, err)
			assert.False(t, same.Visible)
		})
	}
}
