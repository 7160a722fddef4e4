package contacts

import "strings"

// Canonical column names recognised in the header row.
const (
	ColEmail      = "email"
	ColFirstName  = "firstname"
	ColFirstName2 = "first_name"
	ColLastName   = "lastname"
	ColLastName2  = "last_name"
	ColCompany    = "company"
	ColPhone      = "phone"
	ColTags       = "tags"
	ColLists      = "lists"
	ColSubscribed = "subscribed"
)

// Fallback pairs: the first name that is present in the header wins.
var (
	firstNameColumns = []string{ColFirstName, ColFirstName2}
	lastNameColumns  = []string{ColLastName, ColLastName2}
)

// HeaderIndex maps canonical column names to their position in a row.
// Columns that are not recognised are kept but never consulted.
type HeaderIndex map[string]int

// NewHeaderIndex builds a HeaderIndex from a header row. Names are trimmed
// and lower-cased. When a name repeats, the leftmost column wins.
func NewHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		key := CanonicalColumn(h)
		if _, seen := idx[key]; !seen {
			idx[key] = i
		}
	}
	return idx
}

// CanonicalColumn returns the form of a header cell used for matching.
func CanonicalColumn(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Lookup returns the position of the first of names present in the header.
func (h HeaderIndex) Lookup(names ...string) (int, bool) {
	for _, name := range names {
		if pos, ok := h[name]; ok {
			return pos, true
		}
	}
	return -1, false
}

// Has reports whether any of names is present in the header.
func (h HeaderIndex) Has(names ...string) bool {
	_, ok := h.Lookup(names...)
	return ok
}

// cell returns row[pos], or "" when pos is outside the row.
func cell(row []string, pos int) string {
	if pos < 0 || pos >= len(row) {
		return ""
	}
	return row[pos]
}
