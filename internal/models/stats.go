package models

// RawStatRecord is a per-team aggregate record exactly as the engine sent it.
type RawStatRecord map[string]any

// StatCell is one projected column value.
type StatCell struct {
	Column string `json:"column"`
	Value  string `json:"value"`
}

// StatRow is a per-team record restricted to the display columns, in order.
type StatRow []StatCell

// Values returns the cell values in column order.
func (r StatRow) Values() []string {
	out := make([]string, len(r))
	for i, c := range r {
		out[i] = c.Value
	}
	return out
}

// Get returns the value for column, or "" when the row has no such column.
func (r StatRow) Get(column string) string {
	for _, c := range r {
		if c.Column == column {
			return c.Value
		}
	}
	return ""
}

// Record converts the row back into a raw record.
func (r StatRow) Record() RawStatRecord {
	rec := make(RawStatRecord, len(r))
	for _, c := range r {
		rec[c.Column] = c.Value
	}
	return rec
}

// StatColumns is the fixed, ordered display contract for team statistics.
var StatColumns = []string{
	"team",
	"score",
	"run_rate",
	"pass_rate",
	"pass_cmp_rate",
	"pass_yards",
	"passing_tds",
	"sacks_allowed",
	"pass_yards_per_play",
	"rushing_attempts",
	"rushing_yards",
	"rushing_tds",
	"rush_yards_per_play",
	"total_turnovers",
	"fg_pct",
}
