// ABOUTME: Shared scan/encode helpers for the SQLite stores
// ABOUTME: JSON-encoded string arrays and nullable column handling
package sqlite

import (
	"database/sql"
	"encoding/json"
	"time"
)

// marshalStrings encodes a string slice as a JSON text column.
// nil and empty both encode as "[]" so scans round-trip cleanly.
func marshalStrings(items []string) string {
	if len(items) == 0 {
		return "[]"
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// unmarshalStrings decodes a JSON text column into a string slice
func unmarshalStrings(raw sql.NullString) []string {
	if !raw.Valid || raw.String == "" {
		return []string{}
	}
	var items []string
	if err := json.Unmarshal([]byte(raw.String), &items); err != nil {
		return []string{}
	}
	return items
}

// nullString converts an empty string to a SQL NULL
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// nullTime converts a nil time pointer to a SQL NULL
func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// timePtr converts a nullable column back to a time pointer
func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
