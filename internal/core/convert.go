package core

// Conversions between contact fields and pgtype values. Optional contact
// fields distinguish "column absent" (nil) from "present but blank" (""), so
// text values are not trimmed or collapsed to NULL here.

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// PgTextFromPtr maps nil to NULL and any other value, including "", to text.
func PgTextFromPtr(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: *s, Valid: true}
}

// PtrFromPgText is the inverse of PgTextFromPtr.
func PtrFromPgText(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}

// PgTimestamptz converts a non-zero time. The zero time maps to NULL.
func PgTimestamptz(t time.Time) pgtype.Timestamptz {
	if t.IsZero() {
		return pgtype.Timestamptz{Valid: false}
	}
	return pgtype.Timestamptz{Time: t.UTC(), Valid: true}
}

// PgTimestamptzFromPtr maps nil to NULL.
func PgTimestamptzFromPtr(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{Valid: false}
	}
	return PgTimestamptz(*t)
}

// PtrFromPgTimestamptz is the inverse of PgTimestamptzFromPtr.
func PtrFromPgTimestamptz(ts pgtype.Timestamptz) *time.Time {
	if !ts.Valid {
		return nil
	}
	t := ts.Time
	return &t
}

// nonNilStrings keeps text[] columns NOT NULL.
func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
