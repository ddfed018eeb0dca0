package ledger

import "strings"

// ReviewFilter is the tri-state review predicate.
type ReviewFilter string

const (
	ReviewAny      ReviewFilter = ""
	ReviewedOnly   ReviewFilter = "reviewed"
	UnreviewedOnly ReviewFilter = "unreviewed"
)

// Filter represents the predicate set for subsetting a transaction list.
// Empty fields match everything.
type Filter struct {
	Search   string
	Type     TransactionType
	Category string
	Reviewed ReviewFilter
}

// ApplyFilters returns the subset of txns matching every supplied predicate.
// Search matches case-insensitively as a substring of description, vendor or
// category. Pure function; the input slice is not modified.
func ApplyFilters(txns []Transaction, f Filter) []Transaction {
	search := strings.ToLower(f.Search)
	out := make([]Transaction, 0, len(txns))
	for _, t := range txns {
		if search != "" && !matchesSearch(t, search) {
			continue
		}
		if f.Type != "" && t.Type != f.Type {
			continue
		}
		if f.Category != "" && t.Category != f.Category {
			continue
		}
		switch f.Reviewed {
		case ReviewedOnly:
			if !t.Reviewed {
				continue
			}
		case UnreviewedOnly:
			if t.Reviewed {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

func matchesSearch(t Transaction, search string) bool {
	return strings.Contains(strings.ToLower(t.Description), search) ||
		strings.Contains(strings.ToLower(t.Vendor), search) ||
		strings.Contains(strings.ToLower(t.Category), search)
}

// Categories returns the distinct categories present in txns, in first-seen
// order. Used to populate filter choices.
func Categories(txns []Transaction) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range txns {
		if !seen[t.Category] {
			seen[t.Category] = true
			out = append(out, t.Category)
		}
	}
	return out
}
