// Package views turns orchestrator snapshots into render-ready structures:
// the results table, the win-probability split and the featured-game chart.
// Nothing here owns state; every view is a value built from a snapshot.
package views

import (
	"encoding/json"
	"math"

	"github.com/shopspring/decimal"

	"github.com/irfndi/gridiron-sim-viewer/internal/models"
)

var hundred = decimal.NewFromInt(100)

// WinShare is one labelled segment of the win-probability split.
type WinShare struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

// MarshalJSON emits the percentage as a JSON number rather than a string.
func (s WinShare) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Label string      `json:"label"`
		Value json.Number `json:"value"`
	}{s.Label, json.Number(s.Value.String())})
}

// Percent returns the share as a float for chart libraries.
func (s WinShare) Percent() float64 {
	return s.Value.InexactFloat64()
}

// WinSplit is the home/away win-probability pair. Home and away always sum
// to exactly 100.
type WinSplit struct {
	Home WinShare `json:"home"`
	Away WinShare `json:"away"`
}

// NewWinSplit clamps homePct into [0,100] and derives the away share. NaN
// counts as 0.
func NewWinSplit(homeLabel, awayLabel string, homePct float64) WinSplit {
	switch {
	case math.IsNaN(homePct), math.IsInf(homePct, -1):
		homePct = 0
	case math.IsInf(homePct, 1):
		homePct = 100
	}
	home := decimal.NewFromFloat(homePct)
	if home.LessThan(decimal.Zero) {
		home = decimal.Zero
	}
	if home.GreaterThan(hundred) {
		home = hundred
	}
	return WinSplit{
		Home: WinShare{Label: homeLabel, Value: home},
		Away: WinShare{Label: awayLabel, Value: hundred.Sub(home)},
	}
}

// ResultsView is the aggregate statistics table plus the win split.
type ResultsView struct {
	Visible bool       `json:"visible"`
	Split   WinSplit   `json:"win_split"`
	Header  []string   `json:"header,omitempty"`
	Rows    [][]string `json:"rows,omitempty"`
}

// NewResultsView renders exactly two stat rows and a win probability. Any
// other shape yields a hidden view.
func NewResultsView(rows []models.StatRow, homeWinPct *float64) ResultsView {
	if len(rows) != 2 || homeWinPct == nil || math.IsNaN(*homeWinPct) || math.IsInf(*homeWinPct, 0) {
		return ResultsView{}
	}

	header := make([]string, len(models.StatColumns))
	copy(header, models.StatColumns)

	body := make([][]string, len(rows))
	for i, row := range rows {
		body[i] = row.Values()
	}

	return ResultsView{
		Visible: true,
		Split:   NewWinSplit(rows[0].Get("team"), rows[1].Get("team"), *homeWinPct),
		Header:  header,
		Rows:    body,
	}
}

// WithFallbackLabels fills win split labels the stat rows left empty.
func (r ResultsView) WithFallbackLabels(home, away string) ResultsView {
	if r.Split.Home.Label == "" {
		r.Split.Home.Label = home
	}
	if r.Split.Away.Label == "" {
		r.Split.Away.Label = away
	}
	return r
}
