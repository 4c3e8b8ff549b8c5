// internal/store/postgres/store.go

// Package postgres reads the reporting views the engine consumes. The views
// themselves are produced by the host application; this store only fetches,
// types and validates their rows.
package postgres

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"

	"compliance-engine/internal/common/config"
	stderrors "compliance-engine/internal/common/errors"
	"compliance-engine/internal/common/logger"
	"compliance-engine/internal/common/metrics"
	"compliance-engine/internal/common/validation"
	"compliance-engine/internal/models"
)

const (
	progressView   = "contractor_document_progress_v"
	kpiSummaryView = "contractor_kpi_summary_v"
	riskHistory    = "contractor_risk_history"
)

// Store wraps the reporting database connection.
type Store struct {
	db  *sql.DB
	log logger.Logger
}

// Open connects to the reporting database.
func Open(cfg config.PostgresConfig, log logger.Logger) (*Store, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, stderrors.NewStoreConnectionFailedError(err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return NewWithDB(db, log), nil
}

// NewWithDB wraps an existing connection; tests inject sqlmock through it.
func NewWithDB(db *sql.DB, log logger.Logger) *Store {
	return &Store{db: db, log: log}
}

// Ping tests the database connection.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return stderrors.NewStoreConnectionFailedError(err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// FetchProgress returns the validated progress rows plus how many rows the
// boundary rejected. Rejected rows are logged and counted, never scored.
func (s *Store) FetchProgress(ctx context.Context) ([]models.ProgressRecord, int, error) {
	query := `SELECT contractor_id, contractor_name, document_type_id, document_name, document_code,
		category, critical, required_count, approved_count, planned_due, status_color,
		first_started_at, first_submitted_at, first_approved_at
	FROM ` + progressView

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, 0, stderrors.NewStoreQueryFailedError(progressView, err)
	}
	defer rows.Close()

	var (
		records  []models.ProgressRecord
		rejected int
	)
	for rows.Next() {
		var (
			rec       models.ProgressRecord
			category  sql.NullString
			due       sql.NullTime
			started   sql.NullTime
			submitted sql.NullTime
			approved  sql.NullTime
			status    string
		)
		err := rows.Scan(
			&rec.ContractorID, &rec.ContractorName, &rec.DocumentTypeID, &rec.DocumentName, &rec.DocumentCode,
			&category, &rec.Critical, &rec.RequiredCount, &rec.ApprovedCount, &due, &status,
			&started, &submitted, &approved,
		)
		if err != nil {
			return nil, 0, stderrors.NewStoreQueryFailedError(progressView, err)
		}

		rec.Category = category.String
		rec.Status = models.StatusColor(status)
		rec.PlannedDue = nullableTime(due)
		rec.StartedAt = nullableTime(started)
		rec.SubmittedAt = nullableTime(submitted)
		rec.ApprovedAt = nullableTime(approved)

		if result := validation.CheckRecord(rec); !result.Valid {
			rejected++
			metrics.RecordsRejected.Inc()
			s.log.Warn("rejecting malformed progress row", map[string]interface{}{
				"contractorId": rec.ContractorID,
				"documentCode": rec.DocumentCode,
				"errors":       result.Errors,
			})
			continue
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, stderrors.NewStoreQueryFailedError(progressView, err)
	}

	return records, rejected, nil
}

// FetchKpiSummaries returns the per-contractor precomputed summary rows.
func (s *Store) FetchKpiSummaries(ctx context.Context) ([]models.KpiSummary, error) {
	query := `SELECT contractor_id, completion_ratio, must_have_ready_ratio,
		avg_prep_days, avg_approval_days, red_items
	FROM ` + kpiSummaryView

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, stderrors.NewStoreQueryFailedError(kpiSummaryView, err)
	}
	defer rows.Close()

	var summaries []models.KpiSummary
	for rows.Next() {
		var sum models.KpiSummary
		err := rows.Scan(&sum.ContractorID, &sum.CompletionRatio, &sum.MustHaveReadyRatio,
			&sum.AvgPrepDays, &sum.AvgApprovalDays, &sum.RedItems)
		if err != nil {
			return nil, stderrors.NewStoreQueryFailedError(kpiSummaryView, err)
		}
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, stderrors.NewStoreQueryFailedError(kpiSummaryView, err)
	}

	return summaries, nil
}

// FetchRiskHistory returns up to limit metric samples for one contractor,
// oldest first, ready for the trend window.
func (s *Store) FetchRiskHistory(ctx context.Context, contractorID string, limit int) ([]models.RiskSample, error) {
	query := `SELECT sampled_at, completion, quality, compliance, timeline
	FROM ` + riskHistory + `
	WHERE contractor_id = $1
	ORDER BY sampled_at DESC
	LIMIT $2`

	rows, err := s.db.QueryContext(ctx, query, contractorID, limit)
	if err != nil {
		return nil, stderrors.NewStoreQueryFailedError(riskHistory, err)
	}
	defer rows.Close()

	var samples []models.RiskSample
	for rows.Next() {
		var sample models.RiskSample
		err := rows.Scan(&sample.At, &sample.Metrics.Completion, &sample.Metrics.Quality,
			&sample.Metrics.Compliance, &sample.Metrics.Timeline)
		if err != nil {
			return nil, stderrors.NewStoreQueryFailedError(riskHistory, err)
		}
		samples = append(samples, sample)
	}
	if err := rows.Err(); err != nil {
		return nil, stderrors.NewStoreQueryFailedError(riskHistory, err)
	}

	// The query walks newest-first for the LIMIT; flip to oldest-first.
	for i, j := 0, len(samples)-1; i < j; i, j = i+1, j-1 {
		samples[i], samples[j] = samples[j], samples[i]
	}
	return samples, nil
}

func nullableTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
