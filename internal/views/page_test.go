package views

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irfndi/gridiron-sim-viewer/internal/models"
	"github.com/irfndi/gridiron-sim-viewer/internal/services"
)

var testForm = services.FormState{HomeTeam: "ATL", AwayTeam: "NO", NumSimulations: 10, GameModel: "proto"}

func succeededSnapshot(t *testing.T) services.Snapshot {
	t.Helper()
	req := models.SimulationRequest{Home: "ATL", Away: "NO", Count: 10, Model: models.GameModelV1}
	return services.Snapshot{
		Lifecycle:  models.LifecycleSucceeded,
		Sequence:   1,
		Form:       testForm,
		Request:    &req,
		Message:    "ATL wins 63.5% of simulations.\nAverage score 24-20.",
		HomeWinPct: pct(63.5),
		StatRows:   statRows("ATL", "NO"),
		Series:     sixSeries(t),
	}
}

func render(t *testing.T, v SimulationView) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Page(v).Render(context.Background(), &buf))
	return buf.String()
}

func TestNewSimulationView_Succeeded(t *testing.T) {
	view := NewSimulationView(succeededSnapshot(t))

	assert.Equal(t, models.LifecycleSucceeded, view.Lifecycle)
	assert.True(t, view.Results.Visible)
	assert.True(t, view.Featured.Visible)
	assert.Equal(t, "Random Simulation of ATL vs NO", view.Featured.Title)
	assert.Equal(t, models.GroupPassing, view.Featured.Mode)
	assert.NotNil(t, view.Degradations)
}

func TestNewSimulationView_LabelsFallBackToRequest(t *testing.T) {
	snap := succeededSnapshot(t)
	snap.StatRows = []models.StatRow{
		services.ProjectStats(models.RawStatRecord{"score": 24.0}, models.StatColumns),
		services.ProjectStats(models.RawStatRecord{"score": 20.0}, models.StatColumns),
	}

	view := NewSimulationView(snap)

	require.True(t, view.Results.Visible)
	assert.Equal(t, "ATL", view.Results.Split.Home.Label)
	assert.Equal(t, "NO", view.Results.Split.Away.Label)
}

func TestNewSimulationView_PendingHidesResults(t *testing.T) {
	snap := succeededSnapshot(t)
	snap.Lifecycle = models.LifecyclePending

	view := NewSimulationView(snap)

	assert.False(t, view.Results.Visible)
	assert.False(t, view.Featured.Visible)
}

func TestSimulationView_WithMode(t *testing.T) {
	view := NewSimulationView(succeededSnapshot(t))

	next, err := view.WithMode(models.GroupScoring)
	require.NoError(t, err)
	assert.Equal(t, models.GroupScoring, next.Featured.Mode)

	_, err = view.WithMode("kicking")
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestPage_Idle(t *testing.T) {
	html := render(t, NewSimulationView(services.Snapshot{Lifecycle: models.LifecycleIdle, Form: testForm}))

	assert.Contains(t, html, `<form method="post" action="/simulate"`)
	assert.Contains(t, html, `<option value="ATL" selected>ATL</option>`)
	assert.Contains(t, html, `<option value="NO" selected>NO</option>`)
	assert.Contains(t, html, `<option value="proto" selected>proto</option>`)
	assert.Contains(t, html, `name="num_simulations" min="1" value="10"`)
	assert.NotContains(t, html, "Running simulation")
	assert.NotContains(t, html, `id="results"`)
	assert.NotContains(t, html, `id="featured-game"`)
}

func TestPage_Pending(t *testing.T) {
	html := render(t, NewSimulationView(services.Snapshot{Lifecycle: models.LifecyclePending, Form: testForm}))

	assert.Contains(t, html, "Running simulation...")
	assert.Contains(t, html, `http-equiv="refresh"`)
	assert.NotContains(t, html, `id="results"`)
}

func TestPage_Failed(t *testing.T) {
	html := render(t, NewSimulationView(services.Snapshot{
		Lifecycle: models.LifecycleFailed,
		Form:      testForm,
		Message:   "Error running simulation: <engine> down",
	}))

	assert.Contains(t, html, `role="alert"`)
	assert.Contains(t, html, "Error running simulation: &lt;engine&gt; down")
	assert.NotContains(t, html, `id="results"`)
}

func TestPage_Succeeded(t *testing.T) {
	html := render(t, NewSimulationView(succeededSnapshot(t)))

	assert.Contains(t, html, "ATL wins 63.5% of simulations.<br>Average score 24-20.")
	assert.Contains(t, html, `<img src="/charts/win-probability.svg"`)
	assert.Contains(t, html, "ATL 63.5% / NO 36.5%")
	assert.Contains(t, html, "<th>team</th>")
	assert.Contains(t, html, "<th>fg_pct</th>")
	assert.Equal(t, 3, bytes.Count([]byte(html), []byte("<tr>")))
	assert.Contains(t, html, "Random Simulation of ATL vs NO")
	assert.Contains(t, html, `<strong>passing</strong>`)
	assert.Contains(t, html, `<a href="/?mode=rushing">rushing</a>`)
	assert.Contains(t, html, `/charts/featured-game.svg?mode=passing`)
}
