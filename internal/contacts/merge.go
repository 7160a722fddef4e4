package contacts

import "strings"

// MergeStats counts what a merge did with the incoming records.
type MergeStats struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// Merge combines incoming records into existing under policy and returns the
// new collection. See MergeWithStats.
func Merge(existing, incoming []Contact, policy MergePolicy) []Contact {
	merged, _ := MergeWithStats(existing, incoming, policy)
	return merged
}

// MergeWithStats combines incoming records into existing. Duplicates are
// matched on the lower-cased email.
//
// Existing records keep their relative order; genuinely new records are
// appended in incoming order. For an incoming record that matches:
//
//   - RemoveDuplicates false: appended anyway, both records coexist.
//   - RemoveDuplicates true, UpdateExisting false: dropped.
//   - RemoveDuplicates true, UpdateExisting true: the matched record takes
//     the incoming fields but keeps its ID, CreatedAt and LastActivity.
//
// With RemoveDuplicates set, records appended earlier in the same call are
// matched too, so an email never ends up on two records through this call.
// Duplicates already present in existing are left alone; the last one is the
// match target.
//
// Neither input slice is modified.
func MergeWithStats(existing, incoming []Contact, policy MergePolicy) ([]Contact, MergeStats) {
	var stats MergeStats

	merged := make([]Contact, len(existing), len(existing)+len(incoming))
	copy(merged, existing)

	byEmail := make(map[string]int, len(merged))
	for i, c := range merged {
		byEmail[EmailKey(c.Email)] = i
	}

	for _, c := range incoming {
		key := EmailKey(c.Email)
		pos, found := byEmail[key]

		switch {
		case !found:
			merged = append(merged, c)
			stats.Added++
			if policy.RemoveDuplicates {
				byEmail[key] = len(merged) - 1
			}
		case !policy.RemoveDuplicates:
			merged = append(merged, c)
			stats.Added++
		case policy.UpdateExisting:
			merged[pos] = overwrite(merged[pos], c)
			stats.Updated++
		default:
			stats.Skipped++
		}
	}

	return merged, stats
}

// EmailKey is the duplicate key for an email address.
func EmailKey(email string) string {
	return strings.ToLower(email)
}

// overwrite returns incoming carrying the identity of existing.
func overwrite(existing, incoming Contact) Contact {
	out := incoming
	out.ID = existing.ID
	out.CreatedAt = existing.CreatedAt
	if out.LastActivity == nil {
		out.LastActivity = existing.LastActivity
	}
	return out
}
