package models

// GameDurationSeconds is the length of one regulation game.
const GameDurationSeconds = 3600.0

// TimePoint is a statistic sampled at a moment of the featured game.
type TimePoint struct {
	ElapsedSeconds float64 `json:"elapsed_seconds"`
	Value          float64 `json:"value"`
}

// SeriesGroup is the chart display mode a series belongs to.
type SeriesGroup string

const (
	GroupPassing SeriesGroup = "passing"
	GroupRushing SeriesGroup = "rushing"
	GroupScoring SeriesGroup = "scoring"
)

// AllSeriesGroups lists the groups in selector order.
var AllSeriesGroups = []SeriesGroup{GroupPassing, GroupRushing, GroupScoring}

// Valid reports whether g is a known display mode.
func (g SeriesGroup) Valid() bool {
	switch g {
	case GroupPassing, GroupRushing, GroupScoring:
		return true
	default:
		return false
	}
}

// Side tells whether a series belongs to the home or away team.
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

// FeaturedGame holds the raw per-team time series of the featured game.
type FeaturedGame struct {
	HomePassing []TimePoint `json:"home_passing"`
	AwayPassing []TimePoint `json:"away_passing"`
	HomeRushing []TimePoint `json:"home_rushing"`
	AwayRushing []TimePoint `json:"away_rushing"`
	HomeScoring []TimePoint `json:"home_scoring"`
	AwayScoring []TimePoint `json:"away_scoring"`
}

// Series is a chart-ready named sequence of points.
type Series struct {
	Name   string      `json:"name"`
	Side   Side        `json:"side"`
	Color  string      `json:"color"`
	Group  SeriesGroup `json:"group"`
	Points []TimePoint `json:"points"`
}
