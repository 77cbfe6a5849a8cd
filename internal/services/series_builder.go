package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/irfndi/gridiron-sim-viewer/internal/models"
	"github.com/irfndi/gridiron-sim-viewer/internal/simengine"
)

// ErrIncompleteFeaturedGame means at least one of the six featured-game
// series was missing or empty.
var ErrIncompleteFeaturedGame = errors.New("featured game series incomplete")

type seriesSlot struct {
	name   string
	side   models.Side
	group  models.SeriesGroup
	color  string
	points func(models.FeaturedGame) []models.TimePoint
}

// seriesSlots fixes the order, color and grouping of the featured-game chart.
var seriesSlots = []seriesSlot{
	{"home passing", models.SideHome, models.GroupPassing, "red", func(g models.FeaturedGame) []models.TimePoint { return g.HomePassing }},
	{"away passing", models.SideAway, models.GroupPassing, "blue", func(g models.FeaturedGame) []models.TimePoint { return g.AwayPassing }},
	{"home rushing", models.SideHome, models.GroupRushing, "green", func(g models.FeaturedGame) []models.TimePoint { return g.HomeRushing }},
	{"away rushing", models.SideAway, models.GroupRushing, "orange", func(g models.FeaturedGame) []models.TimePoint { return g.AwayRushing }},
	{"home scoring", models.SideHome, models.GroupScoring, "purple", func(g models.FeaturedGame) []models.TimePoint { return g.HomeScoring }},
	{"away scoring", models.SideAway, models.GroupScoring, "black", func(g models.FeaturedGame) []models.TimePoint { return g.AwayScoring }},
}

// BuildSeries turns the six featured-game sequences into chart series.
// Points are passed through untouched. Any empty input fails the whole
// build; a partial chart is never returned.
func BuildSeries(home, away models.TeamCode, game models.FeaturedGame) ([]models.Series, error) {
	var missing []string
	for _, slot := range seriesSlots {
		if len(slot.points(game)) == 0 {
			missing = append(missing, slot.name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrIncompleteFeaturedGame, strings.Join(missing, ", "))
	}

	series := make([]models.Series, 0, len(seriesSlots))
	for _, slot := range seriesSlots {
		name := home
		if slot.side == models.SideAway {
			name = away
		}
		src := slot.points(game)
		points := make([]models.TimePoint, len(src))
		copy(points, src)
		series = append(series, models.Series{
			Name:   name.String(),
			Side:   slot.side,
			Color:  slot.color,
			Group:  slot.group,
			Points: points,
		})
	}
	return series, nil
}

// FeaturedGameFromResponse decodes the six raw featured-game arrays.
func FeaturedGameFromResponse(resp *simengine.SimulationResponse) (models.FeaturedGame, error) {
	var game models.FeaturedGame
	decode := []struct {
		dst     *[]models.TimePoint
		records []map[string]any
		metric  string
		name    string
	}{
		{&game.HomePassing, resp.HomePassStats, simengine.FieldPassYards, "home passing"},
		{&game.AwayPassing, resp.AwayPassStats, simengine.FieldPassYards, "away passing"},
		{&game.HomeRushing, resp.HomeRushStats, simengine.FieldRushYards, "home rushing"},
		{&game.AwayRushing, resp.AwayRushStats, simengine.FieldRushYards, "away rushing"},
		{&game.HomeScoring, resp.HomeScoringStats, simengine.FieldTeamScore, "home scoring"},
		{&game.AwayScoring, resp.AwayScoringStats, simengine.FieldTeamScore, "away scoring"},
	}
	for _, d := range decode {
		points, err := PointsFromRecords(d.records, d.metric)
		if err != nil {
			return models.FeaturedGame{}, fmt.Errorf("%s: %w", d.name, err)
		}
		*d.dst = points
	}
	return game, nil
}

// PointsFromRecords reads the elapsed time and metric of every sample.
func PointsFromRecords(records []map[string]any, metric string) ([]models.TimePoint, error) {
	points := make([]models.TimePoint, 0, len(records))
	for i, rec := range records {
		elapsed, err := numericField(rec, simengine.FieldElapsed)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		if elapsed < 0 || elapsed > models.GameDurationSeconds {
			return nil, fmt.Errorf("sample %d: elapsed time %v outside game", i, elapsed)
		}
		value, err := numericField(rec, metric)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		points = append(points, models.TimePoint{ElapsedSeconds: elapsed, Value: value})
	}
	return points, nil
}

func numericField(rec map[string]any, field string) (float64, error) {
	raw, ok := rec[field]
	if !ok || raw == nil {
		return 0, fmt.Errorf("field %q missing", field)
	}
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("field %q is not numeric", field)
	}
}
