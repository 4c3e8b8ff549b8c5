// internal/models/alert.go
package models

// AlertItem is a ProgressRecord augmented with the day counts derived for
// one evaluation pass. RiskScore, WarningLevel, ProgressPct and Actions are
// populated only for the unified cross-tier view; Actions are opaque labels,
// executing them is the notification dispatcher's job.
type AlertItem struct {
	ProgressRecord

	// OverdueDays is always >= 0; DueInDays is nil when the row is overdue
	// or has no planned due date. The two are never simultaneously positive.
	OverdueDays int  `json:"overdue_days"`
	DueInDays   *int `json:"due_in_days,omitempty"`

	RiskScore    float64  `json:"risk_score,omitempty"`
	WarningLevel int      `json:"warning_level,omitempty"`
	ProgressPct  int      `json:"progress_pct,omitempty"`
	Actions      []string `json:"actions,omitempty"`
}
