// internal/engine/alerts/alerts.go

// Package alerts partitions the filtered rows into severity tiers.
// Classification derives solely from the upstream status color plus the
// day counts computed here; it never re-derives status.
package alerts

import (
	"math"
	"sort"

	"compliance-engine/internal/engine/clock"
	"compliance-engine/internal/models"
)

// Thresholds are the day windows driving tier membership.
type Thresholds struct {
	// AmberDueSoonDays is the amber-card window: critical amber rows due
	// within this many days.
	AmberDueSoonDays int
	// UrgentDays and EarlyDays bound tiers 2 and 1 of the unified view.
	UrgentDays int
	EarlyDays  int
}

// DefaultThresholds returns the standard windows.
func DefaultThresholds() Thresholds {
	return Thresholds{AmberDueSoonDays: 3, UrgentDays: 3, EarlyDays: 7}
}

// Warning levels of the unified view.
const (
	LevelEarlyWarning = 1
	LevelUrgent       = 2
	LevelOverdue      = 3
)

// Suggested remediation actions. These are opaque labels; dispatching them
// is the notification layer's job.
const (
	ActionSendReminder   = "send_reminder_email"
	ActionScheduleReview = "schedule_review_meeting"
	ActionEscalate       = "escalate"
)

// RedCards returns critical red-status rows that are at least one day past
// due, most overdue first. A row can be status-red without having elapsed a
// day past due; such rows are excluded.
func RedCards(rows []models.ProgressRecord, snap clock.Snapshot) []models.AlertItem {
	out := make([]models.AlertItem, 0, len(rows))
	for _, r := range rows {
		if !r.Critical || r.Status != models.StatusRed {
			continue
		}
		overdue := snap.OverdueDays(r.PlannedDue)
		if overdue <= 0 {
			continue
		}
		out = append(out, models.AlertItem{
			ProgressRecord: r,
			OverdueDays:    overdue,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OverdueDays > out[j].OverdueDays
	})
	return out
}

// AmberCards returns critical amber-status rows due within dueSoonDays,
// soonest deadline first. The direction is the opposite of RedCards on
// purpose: it measures urgency of approach, not urgency of lateness.
func AmberCards(rows []models.ProgressRecord, snap clock.Snapshot, dueSoonDays int) []models.AlertItem {
	out := make([]models.AlertItem, 0, len(rows))
	for _, r := range rows {
		if !r.Critical || r.Status != models.StatusAmber || r.PlannedDue == nil {
			continue
		}
		dueIn := snap.DueInDays(r.PlannedDue)
		if dueIn == nil || *dueIn > dueSoonDays {
			continue
		}
		out = append(out, models.AlertItem{
			ProgressRecord: r,
			DueInDays:      dueIn,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return *out[i].DueInDays < *out[j].DueInDays
	})
	return out
}

// Unified returns the combined three-tier view: overdue rows, rows inside
// the urgent window and rows inside the early-warning window, annotated
// with a per-item risk score, progress and suggested actions. The result
// arrives in the default order (severity descending); callers re-sort it
// through SortItems.
func Unified(rows []models.ProgressRecord, snap clock.Snapshot, th Thresholds) []models.AlertItem {
	out := make([]models.AlertItem, 0, len(rows))
	for _, r := range rows {
		overdue := snap.OverdueDays(r.PlannedDue)
		dueIn := snap.DueInDays(r.PlannedDue)

		level := classify(overdue, dueIn, th)
		if level == 0 {
			continue
		}

		item := models.AlertItem{
			ProgressRecord: r,
			OverdueDays:    overdue,
			DueInDays:      dueIn,
			WarningLevel:   level,
			ProgressPct:    r.ProgressPercentRounded(),
			Actions:        actionsFor(level),
		}
		item.RiskScore = itemRiskScore(item)
		out = append(out, item)
	}

	SortItems(out, DefaultSortState())
	return out
}

func classify(overdue int, dueIn *int, th Thresholds) int {
	switch {
	case overdue > 0:
		return LevelOverdue
	case dueIn != nil && *dueIn <= th.UrgentDays:
		return LevelUrgent
	case dueIn != nil && *dueIn <= th.EarlyDays:
		return LevelEarlyWarning
	default:
		return 0
	}
}

func actionsFor(level int) []string {
	switch level {
	case LevelOverdue:
		return []string{ActionSendReminder, ActionScheduleReview, ActionEscalate}
	case LevelUrgent:
		return []string{ActionSendReminder, ActionScheduleReview}
	default:
		return []string{ActionSendReminder}
	}
}

// itemRiskScore blends warning level, day counts and inverse progress into
// a 0-100 sort key for the unified view. It is presentation data only and
// feeds nothing back into classification.
func itemRiskScore(item models.AlertItem) float64 {
	score := float64(item.WarningLevel) * 25

	switch item.WarningLevel {
	case LevelOverdue:
		score += math.Min(float64(item.OverdueDays), 20)
	default:
		if item.DueInDays != nil {
			score += math.Max(0, 10-float64(*item.DueInDays))
		}
	}

	score += (100 - float64(item.ProgressPct)) * 0.05
	return math.Min(100, score)
}
