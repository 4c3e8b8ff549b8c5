// internal/engine/kpi/kpi.go

// Package kpi rolls the filtered progress rows up into the five scalar KPIs.
//
// When a single contractor is selected the numbers come straight from that
// contractor's precomputed summary: re-deriving from raw rows must never
// drift from what the backend view reports. "All contractors" has no such
// precomputed summary, so it is reduced from the filtered rows.
package kpi

import (
	"math"

	"compliance-engine/internal/engine/clock"
	"compliance-engine/internal/models"
)

// Compute returns the KPI block for one evaluation pass. A non-nil summary
// switches to passthrough mode; a nil summary reduces the rows.
func Compute(rows []models.ProgressRecord, summary *models.KpiSummary, snap clock.Snapshot) models.KpiSet {
	if summary != nil {
		return fromSummary(summary)
	}
	return fromRows(rows, snap)
}

func fromSummary(s *models.KpiSummary) models.KpiSet {
	return models.KpiSet{
		CompletionPct:    roundPct(s.CompletionRatio * 100),
		MustHaveReadyPct: roundPct(s.MustHaveReadyRatio * 100),
		OverdueMustHave:  s.RedItems,
		AvgPrepDays:      int(math.Round(s.AvgPrepDays)),
		AvgApprovalDays:  int(math.Round(s.AvgApprovalDays)),
	}
}

func fromRows(rows []models.ProgressRecord, snap clock.Snapshot) models.KpiSet {
	var (
		sumApproved, sumRequired int
		mustHaveEligible         int
		mustHaveReady            int
		overdueMustHave          int
		prepDays, prepCount      int
		apprDays, apprCount      int
	)

	for _, r := range rows {
		sumApproved += r.ApprovedCount
		sumRequired += r.RequiredCount

		if r.Critical {
			// Critical items with a zero requirement cannot be ready or
			// not ready; they are excluded from the eligible denominator.
			if r.RequiredCount > 0 {
				mustHaveEligible++
				if r.ApprovedCount >= r.RequiredCount {
					mustHaveReady++
				}
			}
			if r.Status == models.StatusRed {
				overdueMustHave++
			}
		}

		if r.StartedAt != nil && r.SubmittedAt != nil {
			prepDays += snap.DaysBetween(*r.StartedAt, *r.SubmittedAt)
			prepCount++
		}
		if r.SubmittedAt != nil && r.ApprovedAt != nil {
			apprDays += snap.DaysBetween(*r.SubmittedAt, *r.ApprovedAt)
			apprCount++
		}
	}

	return models.KpiSet{
		CompletionPct:    ratioPct(sumApproved, sumRequired),
		MustHaveReadyPct: ratioPct(mustHaveReady, mustHaveEligible),
		OverdueMustHave:  overdueMustHave,
		AvgPrepDays:      average(prepDays, prepCount),
		AvgApprovalDays:  average(apprDays, apprCount),
	}
}

func ratioPct(numerator, denominator int) int {
	if denominator == 0 {
		return 0
	}
	return roundPct(float64(numerator) / float64(denominator) * 100)
}

func roundPct(pct float64) int {
	return int(math.Round(pct))
}

func average(total, count int) int {
	if count == 0 {
		return 0
	}
	return int(math.Round(float64(total) / float64(count)))
}
