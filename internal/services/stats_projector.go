package services

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/irfndi/gridiron-sim-viewer/internal/models"
)

// StatPlaceholder fills a column the engine did not send.
const StatPlaceholder = ""

// ProjectStats restricts a raw per-team record to columns, in that order.
// Missing or null fields become StatPlaceholder and unknown fields are ignored,
// so the row shape depends only on columns.
func ProjectStats(raw models.RawStatRecord, columns []string) models.StatRow {
	row := make(models.StatRow, len(columns))
	for i, column := range columns {
		row[i] = models.StatCell{
			Column: column,
			Value:  formatStatValue(raw[column]),
		}
	}
	return row
}

// ProjectStatRows projects every record against the fixed display columns.
func ProjectStatRows(records []map[string]any) []models.StatRow {
	if len(records) == 0 {
		return nil
	}
	rows := make([]models.StatRow, len(records))
	for i, rec := range records {
		rows[i] = ProjectStats(rec, models.StatColumns)
	}
	return rows
}

func formatStatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return StatPlaceholder
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}
