// internal/models/risk.go
package models

import "time"

// RiskLevel buckets a contractor's total risk score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// TrendDirection classifies risk movement over the recent history window.
type TrendDirection string

const (
	TrendImproving TrendDirection = "improving"
	TrendWorsening TrendDirection = "worsening"
	TrendStable    TrendDirection = "stable"
)

// RiskMetrics are the four current per-contractor metrics, each 0-100.
type RiskMetrics struct {
	Completion float64 `json:"completion"`
	Quality    float64 `json:"quality"`
	Compliance float64 `json:"compliance"`
	Timeline   float64 `json:"timeline"`
}

// FactorRisk is one factor's weighted contribution to the total risk score.
type FactorRisk struct {
	Factor string  `json:"factor"`
	Risk   float64 `json:"risk"`
}

// RiskSample is one historical measurement of a contractor's metrics.
type RiskSample struct {
	At      time.Time   `json:"at"`
	Metrics RiskMetrics `json:"metrics"`
}

// ContractorRiskProfile is the composite risk output for one contractor.
type ContractorRiskProfile struct {
	ContractorID   string      `json:"contractor_id"`
	ContractorName string      `json:"contractor_name"`
	Metrics        RiskMetrics `json:"metrics"`

	TotalRisk  float64   `json:"total_risk"`
	Level      RiskLevel `json:"level"`
	Bottlenecks []string `json:"bottlenecks,omitempty"`

	// PredictedCompletion is the projected completion percentage at the
	// requested horizon (7, 30 or 90 days).
	PredictedCompletion float64        `json:"predicted_completion"`
	HorizonDays         int            `json:"horizon_days"`
	Trend               TrendDirection `json:"trend"`
}
