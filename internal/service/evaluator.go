// internal/service/evaluator.go

// Package service orchestrates one evaluation pass over a dataset: freeze
// the clock once, filter, then run every aggregator against the same rows
// and the same frozen instant.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"compliance-engine/internal/cache"
	"compliance-engine/internal/common/config"
	stderrors "compliance-engine/internal/common/errors"
	"compliance-engine/internal/common/logger"
	"compliance-engine/internal/common/metrics"
	"compliance-engine/internal/common/observability"
	"compliance-engine/internal/engine/alerts"
	"compliance-engine/internal/engine/category"
	"compliance-engine/internal/engine/clock"
	"compliance-engine/internal/engine/filter"
	"compliance-engine/internal/engine/kpi"
	"compliance-engine/internal/engine/risk"
	"compliance-engine/internal/engine/snapshot"
	"compliance-engine/internal/models"
)

// Dataset is one immutable batch of input rows. Version changes whenever the
// rows change; it keys every cache layer.
type Dataset struct {
	Rows      []models.ProgressRecord `json:"rows"`
	Summaries []models.KpiSummary     `json:"summaries,omitempty"`
	Version   string                  `json:"version"`
}

// Evaluation is the full derived state for one dataset and one filter,
// computed against a single frozen instant.
type Evaluation struct {
	PassID      string             `json:"pass_id"`
	EvaluatedAt time.Time          `json:"evaluated_at"`
	Filter      models.FilterState `json:"filter"`

	Kpis       models.KpiSet            `json:"kpis"`
	RedCards   []models.AlertItem       `json:"red_cards"`
	AmberCards []models.AlertItem       `json:"amber_cards"`
	Unified    []models.AlertItem       `json:"unified"`
	Snapshot   []models.AlertItem       `json:"snapshot"`
	Categories []models.CategorySummary `json:"categories"`
}

// SharedCache is the cross-instance evaluation cache. redisstore.EvalCache
// satisfies it; nil disables the layer.
type SharedCache interface {
	Get(ctx context.Context, key string, out interface{}) (bool, error)
	Put(ctx context.Context, key string, value interface{}) error
}

// RiskInput is the per-contractor raw material for risk profiling.
type RiskInput struct {
	ContractorID   string              `json:"contractor_id"`
	ContractorName string              `json:"contractor_name"`
	Metrics        models.RiskMetrics  `json:"metrics"`
	History        []models.RiskSample `json:"history,omitempty"`
}

// Evaluator runs evaluation passes. All engine calls behind it are pure;
// the evaluator owns the stateful edges: clock capture, caching, metrics.
type Evaluator struct {
	cal    *clock.Calendar
	cfg    config.EngineConfig
	log    logger.Logger
	memo   *cache.Memo[*Evaluation]
	shared SharedCache
	obs    *observability.Observability
	nowFn  func() time.Time
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithSharedCache enables the cross-instance cache layer.
func WithSharedCache(c SharedCache) Option {
	return func(e *Evaluator) { e.shared = c }
}

// WithObservability enables OTel pass counters alongside the Prometheus ones.
func WithObservability(o *observability.Observability) Option {
	return func(e *Evaluator) { e.obs = o }
}

// WithNow fixes the evaluator's wall clock. Tests use it to pin the frozen
// instant.
func WithNow(nowFn func() time.Time) Option {
	return func(e *Evaluator) { e.nowFn = nowFn }
}

// New builds an Evaluator from the engine tunables.
func New(cfg config.EngineConfig, memoCapacity int, log logger.Logger, opts ...Option) (*Evaluator, error) {
	cal, err := clock.NewCalendar(cfg.Timezone)
	if err != nil {
		return nil, err
	}
	memo, err := cache.NewMemo[*Evaluation](memoCapacity)
	if err != nil {
		return nil, err
	}

	e := &Evaluator{
		cal:   cal,
		cfg:   cfg,
		log:   log,
		memo:  memo,
		nowFn: time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Evaluator) thresholds() alerts.Thresholds {
	return alerts.Thresholds{
		AmberDueSoonDays: e.cfg.AmberDueSoonDays,
		UrgentDays:       e.cfg.UrgentWindowDays,
		EarlyDays:        e.cfg.EarlyWindowDays,
	}
}

// Evaluate runs one full pass for the given filter. Results for the same
// dataset version and filter are served from the memo, then from the shared
// cache, before being recomputed.
func (e *Evaluator) Evaluate(ctx context.Context, ds Dataset, f models.FilterState) (*Evaluation, error) {
	key := cache.Key(ds.Version, f.ContractorID, f.Category, f.Search)

	if cached, ok := e.memo.Get(key); ok {
		metrics.CacheHits.WithLabelValues("memo").Inc()
		return cached, nil
	}
	metrics.CacheMisses.WithLabelValues("memo").Inc()

	if e.shared != nil {
		var cached Evaluation
		found, err := e.shared.Get(ctx, key, &cached)
		if err != nil {
			// The shared layer is an accelerator; losing it degrades to
			// recomputation, never to failure.
			e.log.Warn("shared cache unavailable", map[string]interface{}{"error": err.Error()})
		}
		if found {
			metrics.CacheHits.WithLabelValues("shared").Inc()
			e.memo.Put(key, &cached)
			return &cached, nil
		}
		metrics.CacheMisses.WithLabelValues("shared").Inc()
	}

	eval := e.compute(ctx, ds, f)

	e.memo.Put(key, eval)
	if e.shared != nil {
		if err := e.shared.Put(ctx, key, eval); err != nil {
			e.log.Warn("shared cache write failed", map[string]interface{}{"error": err.Error()})
		}
	}
	return eval, nil
}

func (e *Evaluator) compute(ctx context.Context, ds Dataset, f models.FilterState) *Evaluation {
	start := e.nowFn()
	snap := e.cal.At(start)

	mode := "reduction"
	var summary *models.KpiSummary
	if !f.AllContractors() {
		summary = e.summaryFor(ds, f.ContractorID)
		if summary != nil {
			mode = "passthrough"
		}
	}

	rows := filter.Apply(ds.Rows, f)

	eval := &Evaluation{
		PassID:      uuid.New().String(),
		EvaluatedAt: snap.Now(),
		Filter:      f,
		Kpis:        kpi.Compute(rows, summary, snap),
		RedCards:    alerts.RedCards(rows, snap),
		AmberCards:  alerts.AmberCards(rows, snap, e.cfg.AmberDueSoonDays),
		Unified:     alerts.Unified(rows, snap, e.thresholds()),
		Snapshot:    snapshot.Top(rows, snap, e.cfg.SnapshotLimit),
		Categories:  category.Summarize(rows),
	}

	elapsed := e.nowFn().Sub(start)
	metrics.EvaluationsTotal.WithLabelValues(mode).Inc()
	metrics.EvaluationDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
	if e.obs != nil {
		e.obs.RecordPass(ctx, mode)
		e.obs.RecordPassDuration(ctx, elapsed, mode)
	}

	e.log.Info("evaluation pass complete", map[string]interface{}{
		"passId":     eval.PassID,
		"version":    ds.Version,
		"contractor": f.ContractorID,
		"mode":       mode,
		"rows":       len(rows),
		"redCards":   len(eval.RedCards),
		"amberCards": len(eval.AmberCards),
	})

	return eval
}

func (e *Evaluator) summaryFor(ds Dataset, contractorID string) *models.KpiSummary {
	for i := range ds.Summaries {
		if ds.Summaries[i].ContractorID == contractorID {
			return &ds.Summaries[i]
		}
	}
	return nil
}

// RiskProfiles scores each contractor and returns the filtered, sorted
// profiles. horizonDays of 0 takes the configured default; anything outside
// the supported horizons is rejected.
func (e *Evaluator) RiskProfiles(inputs []RiskInput, horizonDays int, lf risk.LevelFilter, by risk.SortBy) ([]models.ContractorRiskProfile, error) {
	if horizonDays == 0 {
		horizonDays = e.cfg.DefaultHorizonDays
	}
	switch horizonDays {
	case 7, 30, 90:
	default:
		return nil, stderrors.NewInvalidHorizonError(horizonDays)
	}

	profiles := make([]models.ContractorRiskProfile, 0, len(inputs))
	for _, in := range inputs {
		history := make([]models.RiskMetrics, 0, len(in.History))
		for _, sample := range in.History {
			history = append(history, sample.Metrics)
		}
		profiles = append(profiles, risk.BuildProfile(
			in.ContractorID, in.ContractorName, in.Metrics, history,
			horizonDays, e.cfg.ProjectionDamping,
		))
	}

	profiles = risk.FilterProfiles(profiles, lf)
	risk.SortProfiles(profiles, by)
	return profiles, nil
}

// ResortUnified reorders a unified view in place for an interactive sort
// toggle, without recomputing the pass.
func (e *Evaluator) ResortUnified(eval *Evaluation, state alerts.SortState) {
	alerts.SortItems(eval.Unified, state)
}
