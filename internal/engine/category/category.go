// internal/engine/category/category.go

// Package category rolls the filtered rows up per category for
// portfolio-level views.
package category

import (
	"math"
	"sort"

	"compliance-engine/internal/models"
)

// Summarize groups rows by category, sums approved/required and orders the
// result ascending by completion so the least-compliant categories surface
// first. Equal completion orders by name for a deterministic listing.
func Summarize(rows []models.ProgressRecord) []models.CategorySummary {
	totals := make(map[string]*models.CategorySummary)
	for _, r := range rows {
		s, ok := totals[r.Category]
		if !ok {
			s = &models.CategorySummary{Category: r.Category}
			totals[r.Category] = s
		}
		s.ApprovedCount += r.ApprovedCount
		s.RequiredCount += r.RequiredCount
	}

	out := make([]models.CategorySummary, 0, len(totals))
	for _, s := range totals {
		if s.RequiredCount > 0 {
			s.CompletionPct = int(math.Round(float64(s.ApprovedCount) / float64(s.RequiredCount) * 100))
		}
		out = append(out, *s)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CompletionPct != out[j].CompletionPct {
			return out[i].CompletionPct < out[j].CompletionPct
		}
		return out[i].Category < out[j].Category
	})
	return out
}
