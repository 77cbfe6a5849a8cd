package simengine

import "errors"

// ErrMalformedResponse is returned when the engine answered 2xx with a body
// that cannot be used.
var ErrMalformedResponse = errors.New("malformed simulation response")

// SimulationRequest is the body of a run-simulation call.
type SimulationRequest struct {
	HomeTeam       string `json:"home_team"`
	AwayTeam       string `json:"away_team"`
	NumSimulations int    `json:"num_simulations"`
	GameModel      string `json:"game_model"`
}

// SimulationResponse is the subset of the engine payload the viewer consumes.
// Stat records and featured-game samples stay loosely typed; the services
// package adapts them.
type SimulationResponse struct {
	ResultString string           `json:"result_string"`
	HomeWinPct   *float64         `json:"home_win_pct"`
	TotalStats   []map[string]any `json:"total_sim_stats"`

	HomePassStats    []map[string]any `json:"feat_game_home_pass_stats"`
	AwayPassStats    []map[string]any `json:"feat_game_away_pass_stats"`
	HomeRushStats    []map[string]any `json:"feat_game_home_rush_stats"`
	AwayRushStats    []map[string]any `json:"feat_game_away_rush_stats"`
	HomeScoringStats []map[string]any `json:"feat_game_home_scoring_stats"`
	AwayScoringStats []map[string]any `json:"feat_game_away_scoring_stats"`
}

// Featured-game sample field names.
const (
	FieldElapsed   = "game_time_elapsed"
	FieldPassYards = "agg_pass_yards"
	FieldRushYards = "agg_rush_yards"
	FieldTeamScore = "posteam_score"
)

// ErrorResponse is the JSON error body the engine may return.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusError reports a non-success HTTP status from the engine.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return "simulation engine returned status " + itoa(e.StatusCode)
	}
	return "simulation engine error (" + itoa(e.StatusCode) + "): " + e.Message
}
