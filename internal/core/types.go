package core

import (
	"context"
	"io"
	"time"

	"github.com/JonMunkholm/contactimport/internal/contacts"
)

// ContactStore holds the single user's contact collection.
//
// Update is the only write path: fn receives a snapshot of the current
// collection and returns the collection to save. Implementations run fn and
// the save atomically with respect to other Update calls. If fn returns an
// error nothing is saved.
type ContactStore interface {
	List(ctx context.Context) ([]contacts.Contact, error)
	Update(ctx context.Context, fn func(existing []contacts.Contact) ([]contacts.Contact, error)) error
	Ping(ctx context.Context) error
}

// ImportRequest is one uploaded file plus the merge policy to apply.
type ImportRequest struct {
	FileName string
	Body     io.Reader
	// Policy is nil to use the configured default.
	Policy *contacts.MergePolicy
}

// ImportSummary describes what an import does with a file.
type ImportSummary struct {
	FileName string               `json:"fileName"`
	Parsed   int                  `json:"parsed"`
	Errors   []contacts.RowError  `json:"errors"`
	Issues   []string             `json:"issues"`
	Policy   contacts.MergePolicy `json:"policy"`
	Merge    contacts.MergeStats  `json:"merge"`
}

// ImportPreview is the dry-run result returned before the user confirms.
type ImportPreview struct {
	ImportSummary
	// ExistingCount is the size of the stored collection the preview ran against.
	ExistingCount int `json:"existingCount"`
}

// ImportResult is the outcome of a persisted import.
type ImportResult struct {
	ImportSummary
	ImportID   string        `json:"importId"`
	TotalCount int           `json:"totalCount"` // collection size after the merge
	StartedAt  time.Time     `json:"startedAt"`
	Duration   time.Duration `json:"duration"`
	ClientIP   string        `json:"-"`
}

// HasIssues reports whether any row was skipped.
func (s ImportSummary) HasIssues() bool {
	return len(s.Errors) > 0
}

func newSummary(fileName string, outcome contacts.Outcome, policy contacts.MergePolicy, stats contacts.MergeStats) ImportSummary {
	issues := make([]string, len(outcome.Errors))
	for i, e := range outcome.Errors {
		issues[i] = e.String()
	}
	return ImportSummary{
		FileName: fileName,
		Parsed:   len(outcome.Records),
		Errors:   outcome.Errors,
		Issues:   issues,
		Policy:   policy,
		Merge:    stats,
	}
}
