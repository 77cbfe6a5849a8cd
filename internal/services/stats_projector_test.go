package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irfndi/gridiron-sim-viewer/internal/models"
)

func TestProjectStats_OrderAndShape(t *testing.T) {
	raw := models.RawStatRecord{
		"fg_pct":     0.85,
		"team":       "ATL",
		"score":      24.5,
		"unexpected": "ignored",
	}

	row := ProjectStats(raw, models.StatColumns)

	require.Len(t, row, len(models.StatColumns))
	for i, column := range models.StatColumns {
		assert.Equal(t, column, row[i].Column)
	}
	assert.Equal(t, "ATL", row.Get("team"))
	assert.Equal(t, "24.5", row.Get("score"))
	assert.Equal(t, "0.85", row.Get("fg_pct"))
	assert.Equal(t, StatPlaceholder, row.Get("pass_yards"))
	assert.Equal(t, "", row.Get("unexpected"))
}

func TestProjectStats_EmptyRecord(t *testing.T) {
	row := ProjectStats(models.RawStatRecord{}, models.StatColumns)

	require.Len(t, row, len(models.StatColumns))
	for _, cell := range row {
		assert.Equal(t, StatPlaceholder, cell.Value)
	}
}

func TestProjectStats_Idempotent(t *testing.T) {
	tests := []struct {
		name string
		raw  models.RawStatRecord
	}{
		{"full record", models.RawStatRecord{
			"team": "KC", "score": 27.25, "run_rate": 0.41, "pass_rate": 0.59, "pass_cmp_rate": 0.67,
			"pass_yards": 281.0, "passing_tds": 2.1, "sacks_allowed": 1.5, "pass_yards_per_play": 7.2,
			"rushing_attempts": 24.0, "rushing_yards": 118.4, "rushing_tds": 0.9, "rush_yards_per_play": 4.9,
			"total_turnovers": 1.1, "fg_pct": 0.88,
		}},
		{"placeholders", models.RawStatRecord{"team": "NO", "score": nil}},
		{"extra fields", models.RawStatRecord{"team": "ATL", "score": 20.0, "home_away": "home", "sim_id": 42.0}},
		{"empty", models.RawStatRecord{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := ProjectStats(tt.raw, models.StatColumns)

			again := ProjectStats(row.Record(), models.StatColumns)

			assert.Equal(t, row, again)
		})
	}
}

func TestProjectStats_CustomColumns(t *testing.T) {
	raw := models.RawStatRecord{"a": 1.0, "b": 2.0, "c": 3.0}

	row := ProjectStats(raw, []string{"c", "a"})

	assert.Equal(t, []string{"3", "1"}, row.Values())
}

func TestProjectStats_ValueFormatting(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"nil", nil, StatPlaceholder},
		{"string", "NO", "NO"},
		{"integral float", 312.0, "312"},
		{"fraction", 4.125, "4.125"},
		{"int", 3, "3"},
		{"int64", int64(7), "7"},
		{"json number", json.Number("6.2"), "6.2"},
		{"bool", true, "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := ProjectStats(models.RawStatRecord{"score": tt.value}, []string{"score"})
			assert.Equal(t, tt.want, row.Get("score"))
		})
	}
}

func TestProjectStatRows(t *testing.T) {
	assert.Nil(t, ProjectStatRows(nil))

	rows := ProjectStatRows([]map[string]any{
		{"team": "ATL", "score": 21.0},
		{"team": "NO", "score": 17.0},
	})

	require.Len(t, rows, 2)
	assert.Equal(t, "ATL", rows[0].Get("team"))
	assert.Equal(t, "17", rows[1].Get("score"))
	assert.Len(t, rows[1], len(models.StatColumns))
}
