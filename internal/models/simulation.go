package models

import "fmt"

// SimulationRequest is the immutable description of one simulation run.
type SimulationRequest struct {
	Home  TeamCode  `json:"home_team"`
	Away  TeamCode  `json:"away_team"`
	Count int       `json:"num_simulations"`
	Model GameModel `json:"game_model"`
}

// MirrorMatch reports whether a team is simulated against itself.
func (r SimulationRequest) MirrorMatch() bool {
	return r.Home == r.Away
}

// Lifecycle is the state of a simulation request as seen by the orchestrator.
type Lifecycle int

const (
	LifecycleIdle Lifecycle = iota
	LifecyclePending
	LifecycleSucceeded
	LifecycleFailed
)

func (l Lifecycle) String() string {
	switch l {
	case LifecycleIdle:
		return "idle"
	case LifecyclePending:
		return "pending"
	case LifecycleSucceeded:
		return "succeeded"
	case LifecycleFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText renders the lifecycle by name in JSON payloads.
func (l Lifecycle) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText accepts the names produced by MarshalText.
func (l *Lifecycle) UnmarshalText(text []byte) error {
	for _, candidate := range []Lifecycle{LifecycleIdle, LifecyclePending, LifecycleSucceeded, LifecycleFailed} {
		if candidate.String() == string(text) {
			*l = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown lifecycle %q", text)
}

// Degradation flags a successful response that could not be fully rendered.
type Degradation string

const (
	DegradationFeaturedGameIncomplete Degradation = "featured_game_incomplete"
	DegradationStatRowsIncomplete     Degradation = "stat_rows_incomplete"
)
