package store

// pgconv.go converts between catalog values and pgtype columns. Every
// to* helper returns Valid=false for an absent value so the column is NULL.

import (
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

func toPgText(s string) pgtype.Text {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

func toPgTimestamptz(t time.Time) pgtype.Timestamptz {
	if t.IsZero() {
		return pgtype.Timestamptz{Valid: false}
	}
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func toPgInt8(i int64) pgtype.Int8 {
	if i == 0 {
		return pgtype.Int8{Valid: false}
	}
	return pgtype.Int8{Int64: i, Valid: true}
}

// valueFloat8 reads a numeric variant value.
func valueFloat8(vals map[string]any, name string) pgtype.Float8 {
	if f, ok := vals[name].(float64); ok {
		return pgtype.Float8{Float64: f, Valid: true}
	}
	return pgtype.Float8{Valid: false}
}

// valueText reads an enum variant value.
func valueText(vals map[string]any, name string) pgtype.Text {
	if s, ok := vals[name].(string); ok {
		return toPgText(s)
	}
	return pgtype.Text{Valid: false}
}

// valueBool reads a boolean variant value.
func valueBool(vals map[string]any, name string) pgtype.Bool {
	if b, ok := vals[name].(bool); ok {
		return pgtype.Bool{Bool: b, Valid: true}
	}
	return pgtype.Bool{Valid: false}
}

func fromPgText(t pgtype.Text) string {
	if !t.Valid {
		return ""
	}
	return t.String
}

func fromPgTextPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}

func fromPgFloat8(f pgtype.Float8) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}

func fromPgBool(b pgtype.Bool) *bool {
	if !b.Valid {
		return nil
	}
	v := b.Bool
	return &v
}

func fromPgTimestamptz(t pgtype.Timestamptz) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time
}
