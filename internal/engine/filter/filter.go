// internal/engine/filter/filter.go

// Package filter applies the user-selected contractor, category and search
// restrictions to the raw progress dataset before any aggregation runs.
package filter

import (
	"strings"

	"compliance-engine/internal/models"
)

// Apply returns the rows passing every active restriction, in their original
// order. The input slice is never mutated. Ordering guarantees beyond input
// order are each downstream consumer's responsibility.
func Apply(rows []models.ProgressRecord, f models.FilterState) []models.ProgressRecord {
	search := f.SearchTerm()

	out := make([]models.ProgressRecord, 0, len(rows))
	for _, r := range rows {
		if !f.AllContractors() && r.ContractorID != f.ContractorID {
			continue
		}
		// Rows without a category are exempt from the category filter.
		if !f.AllCategories() && r.Category != "" && r.Category != f.Category {
			continue
		}
		if search != "" && !matchesSearch(r, search) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchesSearch(r models.ProgressRecord, term string) bool {
	return strings.Contains(strings.ToLower(r.DocumentName), term) ||
		strings.Contains(strings.ToLower(r.DocumentCode), term) ||
		strings.Contains(strings.ToLower(r.ContractorName), term)
}
