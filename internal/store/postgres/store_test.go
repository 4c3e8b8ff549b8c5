// internal/store/postgres/store_test.go

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compliance-engine/internal/common/logger"
)

func newTestStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewWithDB(db, logger.NewNoOpLogger()), mock
}

var progressColumns = []string{
	"contractor_id", "contractor_name", "document_type_id", "document_name", "document_code",
	"category", "critical", "required_count", "approved_count", "planned_due", "status_color",
	"first_started_at", "first_submitted_at", "first_approved_at",
}

func TestFetchProgress(t *testing.T) {
	store, mock := newTestStore(t)

	due := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(progressColumns).
		AddRow("c-001", "Alpha Builders", "dt-01", "Safety Plan", "SAF-01",
			"Safety", true, 3, 1, due, "red", due.AddDate(0, 0, -20), nil, nil).
		AddRow("c-002", "Beta Corp", "dt-02", "Insurance Certificate", "INS-01",
			nil, false, 1, 1, nil, "green", nil, nil, nil)

	mock.ExpectQuery("FROM contractor_document_progress_v").WillReturnRows(rows)

	records, rejected, err := store.FetchProgress(context.Background())
	require.NoError(t, err)
	assert.Zero(t, rejected)
	require.Len(t, records, 2)

	assert.Equal(t, "c-001", records[0].ContractorID)
	assert.True(t, records[0].Critical)
	require.NotNil(t, records[0].PlannedDue)
	assert.True(t, records[0].PlannedDue.Equal(due))

	assert.Equal(t, "", records[1].Category)
	assert.Nil(t, records[1].PlannedDue)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchProgressRejectsMalformedRows(t *testing.T) {
	store, mock := newTestStore(t)

	// an unrecognized status and a negative counter are both rejected.
	rows := sqlmock.NewRows(progressColumns).
		AddRow("c-001", "Alpha Builders", "dt-01", "Safety Plan", "SAF-01",
			"Safety", true, 2, 1, nil, "purple", nil, nil, nil).
		AddRow("c-002", "Beta Corp", "dt-02", "Insurance Certificate", "INS-01",
			"Legal", false, -1, 0, nil, "amber", nil, nil, nil).
		AddRow("c-003", "Gamma Ltd", "dt-03", "Work Permit", "PER-01",
			"Legal", true, 1, 0, nil, "amber", nil, nil, nil)

	mock.ExpectQuery("FROM contractor_document_progress_v").WillReturnRows(rows)

	records, rejected, err := store.FetchProgress(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, rejected)
	require.Len(t, records, 1)
	assert.Equal(t, "c-003", records[0].ContractorID)
}

func TestFetchProgressQueryError(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery("FROM contractor_document_progress_v").
		WillReturnError(assert.AnError)

	_, _, err := store.FetchProgress(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE_QUERY_FAILED")
}

func TestFetchKpiSummaries(t *testing.T) {
	store, mock := newTestStore(t)

	rows := sqlmock.NewRows([]string{
		"contractor_id", "completion_ratio", "must_have_ready_ratio",
		"avg_prep_days", "avg_approval_days", "red_items",
	}).
		AddRow("c-001", 0.82, 0.5, 4.2, 2.1, 3).
		AddRow("c-002", 1.0, 1.0, 1.0, 0.5, 0)

	mock.ExpectQuery("FROM contractor_kpi_summary_v").WillReturnRows(rows)

	summaries, err := store.FetchKpiSummaries(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, 0.82, summaries[0].CompletionRatio)
	assert.Equal(t, 3, summaries[0].RedItems)
}

func TestFetchRiskHistoryOldestFirst(t *testing.T) {
	store, mock := newTestStore(t)

	newest := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"sampled_at", "completion", "quality", "compliance", "timeline"}).
		AddRow(newest, 60.0, 80.0, 70.0, 75.0).
		AddRow(newest.AddDate(0, 0, -1), 55.0, 80.0, 68.0, 74.0).
		AddRow(newest.AddDate(0, 0, -2), 50.0, 79.0, 65.0, 70.0)

	mock.ExpectQuery("FROM contractor_risk_history").
		WithArgs("c-001", 7).
		WillReturnRows(rows)

	samples, err := store.FetchRiskHistory(context.Background(), "c-001", 7)
	require.NoError(t, err)
	require.Len(t, samples, 3)

	assert.True(t, samples[0].At.Before(samples[1].At))
	assert.True(t, samples[1].At.Before(samples[2].At))
	assert.Equal(t, 60.0, samples[2].Metrics.Completion)
}
