package views

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/irfndi/gridiron-sim-viewer/internal/models"
	"github.com/irfndi/gridiron-sim-viewer/internal/services"
)

// SimulationView is everything the page and the JSON API render for one
// orchestrator snapshot.
type SimulationView struct {
	Lifecycle    models.Lifecycle     `json:"lifecycle"`
	Sequence     uint64               `json:"sequence"`
	Form         services.FormState   `json:"form"`
	Message      string               `json:"message"`
	Results      ResultsView          `json:"results"`
	Featured     FeaturedGameView     `json:"featured_game"`
	Degradations []models.Degradation `json:"degradations"`
}

// NewSimulationView derives the views from a snapshot. While a request is
// pending every result view is hidden.
func NewSimulationView(snap services.Snapshot) SimulationView {
	view := SimulationView{
		Lifecycle:    snap.Lifecycle,
		Sequence:     snap.Sequence,
		Form:         snap.Form,
		Message:      snap.Message,
		Degradations: snap.Degradations,
	}
	if view.Degradations == nil {
		view.Degradations = []models.Degradation{}
	}
	if snap.Lifecycle != models.LifecycleSucceeded {
		return view
	}

	view.Results = NewResultsView(snap.StatRows, snap.HomeWinPct)
	title := ""
	if snap.Request != nil {
		view.Results = view.Results.WithFallbackLabels(snap.Request.Home.String(), snap.Request.Away.String())
		title = FeaturedGameTitle(snap.Request.Home, snap.Request.Away)
	}
	view.Featured = NewFeaturedGameView(title, snap.Series)
	return view
}

// WithMode switches the featured game chart to mode.
func (v SimulationView) WithMode(mode models.SeriesGroup) (SimulationView, error) {
	featured, err := v.Featured.WithMode(mode)
	if err != nil {
		return v, err
	}
	v.Featured = featured
	return v, nil
}

// Page renders the full single-page viewer.
func Page(v SimulationView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &htmlWriter{w: w}
		p.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		p.raw(`<title>Gridiron Simulation Viewer</title>`)
		if v.Lifecycle == models.LifecyclePending {
			p.raw(`<meta http-equiv="refresh" content="2">`)
		}
		p.raw(`</head><body><h1>Gridiron Simulation Viewer</h1>`)
		if p.err != nil {
			return p.err
		}

		for _, c := range []templ.Component{
			SimulationForm(v.Form),
			Status(v),
			Results(v.Results),
			FeaturedGame(v.Featured),
		} {
			if err := c.Render(ctx, w); err != nil {
				return err
			}
		}

		p.raw(`</body></html>`)
		return p.err
	})
}

// SimulationForm renders the team, count and model inputs.
func SimulationForm(form services.FormState) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		p := &htmlWriter{w: w}
		p.raw(`<form method="post" action="/simulate" id="simulation-form">`)
		teamSelect(p, "home_team", "Home Team", form.HomeTeam)
		teamSelect(p, "away_team", "Away Team", form.AwayTeam)

		p.raw(`<label for="num_simulations">Number of Simulations</label>`)
		p.raw(`<input type="number" id="num_simulations" name="num_simulations" min="1" value="`)
		p.text(strconv.Itoa(form.NumSimulations))
		p.raw(`">`)

		p.raw(`<label for="game_model">Game Model</label><select id="game_model" name="game_model">`)
		for _, m := range models.AllGameModels {
			option(p, m.String(), m.String(), strings.EqualFold(m.String(), form.GameModel))
		}
		p.raw(`</select>`)

		p.raw(`<button type="submit">Run Simulation</button></form>`)
		return p.err
	})
}

func teamSelect(p *htmlWriter, name, label, selected string) {
	p.raw(`<label for="` + name + `">` + label + `</label>`)
	p.raw(`<select id="` + name + `" name="` + name + `">`)
	for _, t := range models.AllTeams {
		option(p, t.String(), t.String(), strings.EqualFold(t.String(), selected))
	}
	p.raw(`</select>`)
}

func option(p *htmlWriter, value, label string, selected bool) {
	p.raw(`<option value="`)
	p.text(value)
	p.raw(`"`)
	if selected {
		p.raw(` selected`)
	}
	p.raw(`>`)
	p.text(label)
	p.raw(`</option>`)
}

// Status renders the loading indicator or the message of the last run.
func Status(v SimulationView) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		p := &htmlWriter{w: w}
		switch v.Lifecycle {
		case models.LifecyclePending:
			p.raw(`<div class="loading" role="status">Running simulation...</div>`)
		case models.LifecycleFailed:
			p.raw(`<div class="error" role="alert">`)
			p.text(v.Message)
			p.raw(`</div>`)
		case models.LifecycleSucceeded:
			if v.Message != "" {
				p.raw(`<div class="result-message">`)
				for i, line := range strings.Split(v.Message, "\n") {
					if i > 0 {
						p.raw(`<br>`)
					}
					p.text(line)
				}
				p.raw(`</div>`)
			}
		}
		return p.err
	})
}

// Results renders the win split and the statistics table.
func Results(r ResultsView) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if !r.Visible {
			return nil
		}
		p := &htmlWriter{w: w}
		p.raw(`<section id="results"><h2>Win Probability</h2>`)
		p.raw(`<img src="/charts/win-probability.svg" alt="Win probability">`)
		p.raw(`<p class="win-split">`)
		p.text(fmt.Sprintf("%s %s%% / %s %s%%", r.Split.Home.Label, r.Split.Home.Value, r.Split.Away.Label, r.Split.Away.Value))
		p.raw(`</p><table><thead><tr>`)
		for _, h := range r.Header {
			p.raw(`<th>`)
			p.text(h)
			p.raw(`</th>`)
		}
		p.raw(`</tr></thead><tbody>`)
		for _, row := range r.Rows {
			p.raw(`<tr>`)
			for _, cell := range row {
				p.raw(`<td>`)
				p.text(cell)
				p.raw(`</td>`)
			}
			p.raw(`</tr>`)
		}
		p.raw(`</tbody></table></section>`)
		return p.err
	})
}

// FeaturedGame renders the mode selector and the chart image.
func FeaturedGame(f FeaturedGameView) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if !f.Visible {
			return nil
		}
		p := &htmlWriter{w: w}
		p.raw(`<section id="featured-game"><h2>`)
		p.text(f.Title)
		p.raw(`</h2><nav class="modes">`)
		for _, g := range models.AllSeriesGroups {
			if g == f.Mode {
				p.raw(`<strong>`)
				p.text(string(g))
				p.raw(`</strong> `)
				continue
			}
			p.raw(`<a href="/?mode=` + url.QueryEscape(string(g)) + `">`)
			p.text(string(g))
			p.raw(`</a> `)
		}
		p.raw(`</nav><img src="/charts/featured-game.svg?mode=` + url.QueryEscape(string(f.Mode)) + `" alt="`)
		p.text(f.Title)
		p.raw(`"></section>`)
		return p.err
	})
}

// htmlWriter keeps the first write error so components can write freely.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}
