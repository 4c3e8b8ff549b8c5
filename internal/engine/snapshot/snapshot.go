// internal/engine/snapshot/snapshot.go

// Package snapshot produces the bounded, cross-severity prioritized
// worklist. One comparator is applied to the full filtered set rather than
// concatenating per-tier lists, so the cut line stays consistent across
// severities.
package snapshot

import (
	"sort"
	"strings"

	"compliance-engine/internal/engine/clock"
	"compliance-engine/internal/models"
)

// DefaultLimit bounds the worklist when the caller passes limit <= 0.
const DefaultLimit = 5

// Top returns the limit most urgent rows. The comparator is a total order,
// so repeated calls on identical input slice identically.
func Top(rows []models.ProgressRecord, snap clock.Snapshot, limit int) []models.AlertItem {
	if limit <= 0 {
		limit = DefaultLimit
	}

	items := make([]models.AlertItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, models.AlertItem{
			ProgressRecord: r,
			OverdueDays:    snap.OverdueDays(r.PlannedDue),
			DueInDays:      snap.DueInDays(r.PlannedDue),
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return moreUrgent(items[i], items[j])
	})

	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

// moreUrgent is the priority cascade:
//  1. higher severity rank
//  2. among overdue rows, more overdue days
//  3. among amber rows, fewer due-in days (nil is infinitely far)
//  4. lower progress percentage
//  5. earlier planned due date, missing dates last
//
// A final identifier comparison keeps the order total for distinct rows.
func moreUrgent(a, b models.AlertItem) bool {
	ra, rb := a.Status.SeverityRank(), b.Status.SeverityRank()
	if ra != rb {
		return ra > rb
	}

	if ra == 3 && a.OverdueDays != b.OverdueDays {
		return a.OverdueDays > b.OverdueDays
	}

	if ra == 2 {
		switch {
		case a.DueInDays == nil && b.DueInDays != nil:
			return false
		case a.DueInDays != nil && b.DueInDays == nil:
			return true
		case a.DueInDays != nil && b.DueInDays != nil && *a.DueInDays != *b.DueInDays:
			return *a.DueInDays < *b.DueInDays
		}
	}

	pa, pb := a.ProgressPercent(), b.ProgressPercent()
	if pa != pb {
		return pa < pb
	}

	switch {
	case a.PlannedDue == nil && b.PlannedDue != nil:
		return false
	case a.PlannedDue != nil && b.PlannedDue == nil:
		return true
	case a.PlannedDue != nil && b.PlannedDue != nil && !a.PlannedDue.Equal(*b.PlannedDue):
		return a.PlannedDue.Before(*b.PlannedDue)
	}

	if c := strings.Compare(a.DocumentCode, b.DocumentCode); c != 0 {
		return c < 0
	}
	return a.ContractorID < b.ContractorID
}
