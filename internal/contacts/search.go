package contacts

import "strings"

// Search returns the contacts whose email, first name, last name or company
// contains query, ignoring case. Order is preserved. An empty query matches
// everything.
func Search(all []Contact, query string) []Contact {
	q := strings.ToLower(query)
	out := make([]Contact, 0, len(all))
	for _, c := range all {
		if q == "" || matches(c, q) {
			out = append(out, c)
		}
	}
	return out
}

func matches(c Contact, q string) bool {
	if strings.Contains(strings.ToLower(c.Email), q) ||
		strings.Contains(strings.ToLower(c.FirstName), q) ||
		strings.Contains(strings.ToLower(c.LastName), q) {
		return true
	}
	return c.Company != nil && strings.Contains(strings.ToLower(*c.Company), q)
}
