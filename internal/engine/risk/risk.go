// internal/engine/risk/risk.go

// Package risk turns a contractor's four current metrics into a weighted
// risk score, bottleneck labels, a damped completion projection and a trend
// classification over a short historical window.
package risk

import (
	"math"
	"sort"
	"strings"

	"compliance-engine/internal/models"
)

// Factor display labels, in fixed evaluation order.
const (
	FactorCompletion = "Completion"
	FactorQuality    = "Quality"
	FactorCompliance = "Compliance"
	FactorTimeline   = "Timeline"
)

// Each factor contributes zero risk at or above its floor, and
// weight * (floor - metric) below it. Compliance gaps are penalized most
// heavily, quality gaps least.
var factorTable = []struct {
	label  string
	floor  float64
	weight float64
	metric func(models.RiskMetrics) float64
}{
	{FactorCompletion, 70, 2.0, func(m models.RiskMetrics) float64 { return m.Completion }},
	{FactorQuality, 75, 1.5, func(m models.RiskMetrics) float64 { return m.Quality }},
	{FactorCompliance, 70, 2.5, func(m models.RiskMetrics) float64 { return m.Compliance }},
	{FactorTimeline, 75, 2.0, func(m models.RiskMetrics) float64 { return m.Timeline }},
}

// MaxBottlenecks caps how many factor labels a profile reports.
const MaxBottlenecks = 2

// DefaultProjectionDamping is the conservatism factor applied to the naive
// daily completion rate. Treated as tunable, not a derived constant.
const DefaultProjectionDamping = 0.8

// nominalRateWindowDays is the baseline over which the naive daily rate is
// taken: current completion accrued per day across a 30-day window.
const nominalRateWindowDays = 30

// trendWindow is how many trailing history samples the trend looks at.
const trendWindow = 7

// FactorRisks returns each factor's contribution in fixed order.
func FactorRisks(m models.RiskMetrics) []models.FactorRisk {
	out := make([]models.FactorRisk, 0, len(factorTable))
	for _, f := range factorTable {
		risk := 0.0
		if v := f.metric(m); v < f.floor {
			risk = (f.floor - v) * f.weight
		}
		out = append(out, models.FactorRisk{Factor: f.label, Risk: risk})
	}
	return out
}

// TotalScore sums the factor contributions, capped at 100.
func TotalScore(m models.RiskMetrics) float64 {
	total := 0.0
	for _, f := range FactorRisks(m) {
		total += f.Risk
	}
	return math.Min(100, total)
}

// LevelFor buckets a total score.
func LevelFor(score float64) models.RiskLevel {
	switch {
	case score < 20:
		return models.RiskLow
	case score < 40:
		return models.RiskMedium
	case score < 60:
		return models.RiskHigh
	default:
		return models.RiskCritical
	}
}

// Bottlenecks returns the labels of the highest nonzero factor risks,
// descending, at most MaxBottlenecks of them.
func Bottlenecks(m models.RiskMetrics) []string {
	factors := FactorRisks(m)
	sort.SliceStable(factors, func(i, j int) bool {
		return factors[i].Risk > factors[j].Risk
	})

	var out []string
	for _, f := range factors {
		if f.Risk <= 0 || len(out) == MaxBottlenecks {
			break
		}
		out = append(out, f.Factor)
	}
	return out
}

// PredictCompletion linearly projects the current completion percentage
// over the horizon at damping times the naive daily rate, clamped to
// [0, 100]. The naive rate is completion accrued per day over a 30-day
// nominal window.
func PredictCompletion(completion float64, horizonDays int, damping float64) float64 {
	if damping <= 0 {
		damping = DefaultProjectionDamping
	}
	rate := completion / nominalRateWindowDays
	predicted := completion + rate*damping*float64(horizonDays)
	return math.Max(0, math.Min(100, predicted))
}

// Trend compares the total risk at the earliest point of the last
// trendWindow history samples against the current total risk: improving
// when current is at most 90% of the old value, worsening at 110% or more.
// Fewer than two samples default to stable.
func Trend(history []models.RiskMetrics, current float64) models.TrendDirection {
	if len(history) < 2 {
		return models.TrendStable
	}
	window := history
	if len(window) > trendWindow {
		window = window[len(window)-trendWindow:]
	}

	old := TotalScore(window[0])
	switch {
	case old == 0 && current == 0:
		return models.TrendStable
	case current <= old*0.9:
		return models.TrendImproving
	case current >= old*1.1:
		return models.TrendWorsening
	default:
		return models.TrendStable
	}
}

// BuildProfile assembles the full risk profile for one contractor.
func BuildProfile(contractorID, contractorName string, m models.RiskMetrics, history []models.RiskMetrics, horizonDays int, damping float64) models.ContractorRiskProfile {
	total := TotalScore(m)
	return models.ContractorRiskProfile{
		ContractorID:        contractorID,
		ContractorName:      contractorName,
		Metrics:             m,
		TotalRisk:           total,
		Level:               LevelFor(total),
		Bottlenecks:         Bottlenecks(m),
		PredictedCompletion: PredictCompletion(m.Completion, horizonDays, damping),
		HorizonDays:         horizonDays,
		Trend:               Trend(history, total),
	}
}

// LevelFilter restricts profiles for presentation.
type LevelFilter string

const (
	// FilterAllLevels passes every profile through.
	FilterAllLevels LevelFilter = "all"
	// FilterElevated keeps only critical and high profiles.
	FilterElevated LevelFilter = "critical+high"
)

// FilterProfiles returns the profiles matching the level filter. A filter
// naming an exact level keeps only that level.
func FilterProfiles(profiles []models.ContractorRiskProfile, f LevelFilter) []models.ContractorRiskProfile {
	if f == "" || f == FilterAllLevels {
		return append([]models.ContractorRiskProfile(nil), profiles...)
	}

	out := make([]models.ContractorRiskProfile, 0, len(profiles))
	for _, p := range profiles {
		switch f {
		case FilterElevated:
			if p.Level == models.RiskCritical || p.Level == models.RiskHigh {
				out = append(out, p)
			}
		default:
			if string(p.Level) == string(f) {
				out = append(out, p)
			}
		}
	}
	return out
}

// SortBy names the profile sort orders.
type SortBy string

const (
	SortByScore SortBy = "score" // risk score descending
	SortByName  SortBy = "name"  // contractor name ascending
)

// SortProfiles orders profiles in place.
func SortProfiles(profiles []models.ContractorRiskProfile, by SortBy) {
	sort.SliceStable(profiles, func(i, j int) bool {
		if by == SortByName {
			return strings.ToLower(profiles[i].ContractorName) < strings.ToLower(profiles[j].ContractorName)
		}
		return profiles[i].TotalRisk > profiles[j].TotalRisk
	})
}
