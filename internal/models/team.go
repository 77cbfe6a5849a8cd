package models

import (
	"fmt"
	"strings"
)

// TeamCode is a league team abbreviation from the closed set in AllTeams.
type TeamCode string

// AllTeams lists every known team abbreviation in dropdown order.
var AllTeams = []TeamCode{
	"ARI", "ATL", "BAL", "BUF", "CAR", "CHI", "CIN", "CLE", "DAL",
	"DEN", "DET", "GB", "HOU", "IND", "JAX", "KC", "LA", "LAC",
	"LV", "MIA", "MIN", "NE", "NO", "NYG", "NYJ", "PHI", "PIT",
	"SEA", "SF", "TB", "TEN", "WAS",
}

var knownTeams = func() map[TeamCode]struct{} {
	m := make(map[TeamCode]struct{}, len(AllTeams))
	for _, t := range AllTeams {
		m[t] = struct{}{}
	}
	return m
}()

// Valid reports whether the code belongs to the closed team set.
func (t TeamCode) Valid() bool {
	_, ok := knownTeams[t]
	return ok
}

func (t TeamCode) String() string {
	return string(t)
}

// ParseTeamCode normalizes and validates a user supplied abbreviation.
func ParseTeamCode(s string) (TeamCode, error) {
	code := TeamCode(strings.ToUpper(strings.TrimSpace(s)))
	if code == "" {
		return "", fmt.Errorf("team code is empty")
	}
	if !code.Valid() {
		return "", fmt.Errorf("unknown team code %q", s)
	}
	return code, nil
}

// GameModel identifies the statistical model the engine runs.
type GameModel string

const (
	GameModelProto GameModel = "proto"
	GameModelV1    GameModel = "v1"
)

// AllGameModels lists the models offered to the user.
var AllGameModels = []GameModel{GameModelProto, GameModelV1}

// Valid reports whether the model is one the engine understands.
func (m GameModel) Valid() bool {
	switch m {
	case GameModelProto, GameModelV1:
		return true
	default:
		return false
	}
}

func (m GameModel) String() string {
	return string(m)
}

// ParseGameModel normalizes and validates a model identifier.
func ParseGameModel(s string) (GameModel, error) {
	m := GameModel(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("unknown game model %q", s)
	}
	return m, nil
}
