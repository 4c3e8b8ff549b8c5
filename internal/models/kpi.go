// internal/models/kpi.go
package models

// KpiSummary is the per-contractor precomputed rollup from the backend
// summary view. Ratios are expressed 0-1. It is used verbatim when a single
// contractor is selected so the engine never drifts from the view it mirrors.
type KpiSummary struct {
	ContractorID       string  `json:"contractor_id"`
	CompletionRatio    float64 `json:"completion_ratio"`
	MustHaveReadyRatio float64 `json:"must_have_ready_ratio"`
	AvgPrepDays        float64 `json:"avg_prep_days"`
	AvgApprovalDays    float64 `json:"avg_approval_days"`
	RedItems           int     `json:"red_items"`
}

// KpiSet is the scalar KPI block exposed to the presentation layer.
// All percentages are rounded to whole numbers.
type KpiSet struct {
	CompletionPct    int `json:"completion_pct"`
	MustHaveReadyPct int `json:"must_have_ready_pct"`
	OverdueMustHave  int `json:"overdue_must_have"`
	AvgPrepDays      int `json:"avg_prep_days"`
	AvgApprovalDays  int `json:"avg_approval_days"`
}

// CategorySummary is the per-category approved/required rollup.
type CategorySummary struct {
	Category      string `json:"category"`
	ApprovedCount int    `json:"approved_count"`
	RequiredCount int    `json:"required_count"`
	CompletionPct int    `json:"completion_pct"`
}
