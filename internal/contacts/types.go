package contacts

import (
	"fmt"
	"time"
)

// UnknownName is substituted for a blank or absent first/last name.
const UnknownName = "Unknown"

// Contact is a single contact record.
type Contact struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	FirstName    string         `json:"firstName"`
	LastName     string         `json:"lastName"`
	Company      *string        `json:"company,omitempty"` // nil when the column is absent
	Phone        *string        `json:"phone,omitempty"`
	Tags         []string       `json:"tags"`
	Lists        []string       `json:"lists"`
	CustomFields map[string]any `json:"customFields"`
	Subscribed   bool           `json:"subscribed"`
	CreatedAt    time.Time      `json:"createdAt"`
	LastActivity *time.Time     `json:"lastActivity,omitempty"`
}

// RowError describes why one CSV data row was not converted to a Contact.
type RowError struct {
	Row    int    `json:"row"` // 1-based, header is row 1; 0 for batch-level errors
	Reason string `json:"reason"`
}

// String renders the error the way it is shown to users, e.g.
// "Row 2: missing email".
func (e RowError) String() string {
	if e.Row <= 0 {
		return e.Reason
	}
	return fmt.Sprintf("Row %d: %s", e.Row, e.Reason)
}

// Outcome is the result of mapping rows: the records that parsed, in row
// order, and the errors for the rows that did not.
type Outcome struct {
	Records []Contact  `json:"records"`
	Errors  []RowError `json:"errors"`
}

// MergePolicy controls how incoming records whose email matches an existing
// record are reconciled.
type MergePolicy struct {
	RemoveDuplicates bool `json:"removeDuplicates"`
	UpdateExisting   bool `json:"updateExisting"`
}

// DefaultMergePolicy drops incoming duplicates and leaves existing records
// untouched.
var DefaultMergePolicy = MergePolicy{RemoveDuplicates: true, UpdateExisting: false}
