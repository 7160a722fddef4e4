package contacts

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Row error reasons.
const (
	ReasonEmptyCSV     = "Empty CSV"
	ReasonMissingEmail = "missing email"
)

// Mapper converts tokenized rows into contacts.
// The zero value is ready to use and stamps records with time.Now and
// random UUIDs.
type Mapper struct {
	// Now returns the creation timestamp for new records.
	Now func() time.Time
	// NewID returns a fresh identifier for each record.
	NewID func() string
}

// MapRows maps rows with a zero-value Mapper.
func MapRows(rows [][]string) Outcome {
	return Mapper{}.Map(rows)
}

// Map treats rows[0] as the header and converts every following row into a
// Contact. Rows without an email are reported and skipped; they never stop
// the batch. When rows is empty the outcome holds a single "Empty CSV" error.
func (m Mapper) Map(rows [][]string) Outcome {
	if len(rows) == 0 {
		return Outcome{
			Records: []Contact{},
			Errors:  []RowError{{Reason: ReasonEmptyCSV}},
		}
	}

	now := m.Now
	if now == nil {
		now = time.Now
	}
	newID := m.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	idx := NewHeaderIndex(rows[0])
	out := Outcome{
		Records: make([]Contact, 0, len(rows)-1),
		Errors:  []RowError{},
	}

	for r := 1; r < len(rows); r++ {
		row := rows[r]
		rowNum := r + 1

		// A header without an email column fails every row the same way.
		email := strings.TrimSpace(idx.text(row, ColEmail))
		if email == "" {
			out.Errors = append(out.Errors, RowError{Row: rowNum, Reason: ReasonMissingEmail})
			continue
		}

		out.Records = append(out.Records, Contact{
			ID:           newID(),
			Email:        email,
			FirstName:    nameOrUnknown(idx.text(row, firstNameColumns...)),
			LastName:     nameOrUnknown(idx.text(row, lastNameColumns...)),
			Company:      idx.optional(row, ColCompany),
			Phone:        idx.optional(row, ColPhone),
			Tags:         idx.multi(row, ColTags),
			Lists:        idx.multi(row, ColLists),
			CustomFields: map[string]any{},
			Subscribed:   idx.subscribed(row),
			CreatedAt:    now(),
		})
	}

	return out
}

// text returns the raw cell for the first present column, or "".
func (h HeaderIndex) text(row []string, names ...string) string {
	pos, ok := h.Lookup(names...)
	if !ok {
		return ""
	}
	return cell(row, pos)
}

// optional returns the trimmed cell, or nil when the column is absent.
func (h HeaderIndex) optional(row []string, name string) *string {
	pos, ok := h.Lookup(name)
	if !ok {
		return nil
	}
	v := strings.TrimSpace(cell(row, pos))
	return &v
}

// multi splits a tags/lists cell on '|' and then ','.
func (h HeaderIndex) multi(row []string, name string) []string {
	return SplitMulti(h.text(row, name))
}

// subscribed defaults to true when the column is absent.
func (h HeaderIndex) subscribed(row []string) bool {
	pos, ok := h.Lookup(ColSubscribed)
	if !ok {
		return true
	}
	return ParseSubscribed(cell(row, pos))
}

// SplitMulti splits a multi-valued cell first on '|' and then each piece on
// ','. Pieces are trimmed and empty pieces dropped; duplicates are kept.
// The result is never nil.
func SplitMulti(raw string) []string {
	out := []string{}
	for _, group := range strings.Split(raw, "|") {
		for _, piece := range strings.Split(group, ",") {
			if piece = strings.TrimSpace(piece); piece != "" {
				out = append(out, piece)
			}
		}
	}
	return out
}

// ParseSubscribed accepts "true", "1" and "yes" in any case. Anything else,
// including an empty cell, is false.
func ParseSubscribed(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}

func nameOrUnknown(raw string) string {
	if name := strings.TrimSpace(raw); name != "" {
		return name
	}
	return UnknownName
}
