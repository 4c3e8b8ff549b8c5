// internal/engine/alerts/sort.go
package alerts

import (
	"sort"
	"strings"

	"compliance-engine/internal/models"
)

// SortKey names the user-selectable sort columns of the unified view.
type SortKey string

const (
	SortBySeverity    SortKey = "severity"
	SortByDocument    SortKey = "document"
	SortByContractor  SortKey = "contractor"
	SortByRiskScore   SortKey = "risk_score"
	SortByDueDate     SortKey = "due_date"
	SortByOverdueDays SortKey = "overdue_days"
	SortByDueInDays   SortKey = "due_in_days"
)

// SortState is the active sort column and direction.
type SortState struct {
	Key        SortKey `json:"key"`
	Descending bool    `json:"descending"`
}

// DefaultSortState sorts by severity, highest first.
func DefaultSortState() SortState {
	return SortState{Key: SortBySeverity, Descending: true}
}

// Toggle applies a column click: the active key flips direction, a new key
// resets to descending.
func (s SortState) Toggle(key SortKey) SortState {
	if s.Key == key {
		return SortState{Key: key, Descending: !s.Descending}
	}
	return SortState{Key: key, Descending: true}
}

// SortItems orders items in place per the sort state. The sort is stable,
// so repeated calls on unchanged input yield identical output. Absent
// values (nil due date or due-in count) sort last in either direction.
func SortItems(items []models.AlertItem, state SortState) {
	sort.SliceStable(items, func(i, j int) bool {
		cmp, ok := compare(items[i], items[j], state.Key)
		if !ok {
			// Exactly one side has a value; the present one wins
			// regardless of direction.
			return cmp < 0
		}
		if cmp == 0 {
			return false
		}
		if state.Descending {
			return cmp > 0
		}
		return cmp < 0
	})
}

// compare returns a three-way comparison for the given key. ok is false
// when one side is missing the keyed value, in which case cmp already
// encodes "present first".
func compare(a, b models.AlertItem, key SortKey) (cmp int, ok bool) {
	switch key {
	case SortByDocument:
		return strings.Compare(strings.ToLower(a.DocumentName), strings.ToLower(b.DocumentName)), true
	case SortByContractor:
		return strings.Compare(strings.ToLower(a.ContractorName), strings.ToLower(b.ContractorName)), true
	case SortByRiskScore:
		return compareFloat(a.RiskScore, b.RiskScore), true
	case SortByOverdueDays:
		return a.OverdueDays - b.OverdueDays, true
	case SortByDueInDays:
		return compareIntPtr(a.DueInDays, b.DueInDays)
	case SortByDueDate:
		switch {
		case a.PlannedDue == nil && b.PlannedDue == nil:
			return 0, true
		case a.PlannedDue == nil:
			return 1, false
		case b.PlannedDue == nil:
			return -1, false
		case a.PlannedDue.Before(*b.PlannedDue):
			return -1, true
		case a.PlannedDue.After(*b.PlannedDue):
			return 1, true
		default:
			return 0, true
		}
	default: // SortBySeverity
		if c := a.WarningLevel - b.WarningLevel; c != 0 {
			return c, true
		}
		return compareFloat(a.RiskScore, b.RiskScore), true
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareIntPtr(a, b *int) (int, bool) {
	switch {
	case a == nil && b == nil:
		return 0, true
	case a == nil:
		return 1, false
	case b == nil:
		return -1, false
	default:
		return *a - *b, true
	}
}
