// internal/common/validation/schema_test.go
package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compliance-engine/internal/models"
)

func validRow() map[string]interface{} {
	return map[string]interface{}{
		"contractor_id":    "c1",
		"contractor_name":  "Alpha Construction",
		"document_type_id": "dt-1",
		"document_name":    "Safety Plan",
		"document_code":    "SAF-01",
		"category":         "Safety",
		"critical":         true,
		"required_count":   2,
		"approved_count":   0,
		"status_color":     "red",
		"planned_due":      "2024-06-10T00:00:00Z",
	}
}

func TestValidateProgressRow(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(row map[string]interface{})
		wantValid bool
		wantField string
	}{
		{
			name:      "valid row",
			mutate:    func(row map[string]interface{}) {},
			wantValid: true,
		},
		{
			name:      "negative required count",
			mutate:    func(row map[string]interface{}) { row["required_count"] = -1 },
			wantField: "required_count",
		},
		{
			name:      "negative approved count",
			mutate:    func(row map[string]interface{}) { row["approved_count"] = -3 },
			wantField: "approved_count",
		},
		{
			name:      "status outside the closed enum",
			mutate:    func(row map[string]interface{}) { row["status_color"] = "purple" },
			wantField: "status_color",
		},
		{
			name:      "missing contractor id",
			mutate:    func(row map[string]interface{}) { delete(row, "contractor_id") },
			wantValid: false,
		},
		{
			name:      "fractional count",
			mutate:    func(row map[string]interface{}) { row["required_count"] = 1.5 },
			wantField: "required_count",
		},
		{
			name:      "null timestamps allowed",
			mutate:    func(row map[string]interface{}) { row["planned_due"] = nil },
			wantValid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := validRow()
			tt.mutate(row)

			result, err := ValidateProgressRow(row)
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, result.Valid)
			if tt.wantField != "" {
				require.NotEmpty(t, result.Errors)
				assert.Equal(t, tt.wantField, result.Errors[0].Field)
			}
		})
	}
}

func TestCheckRecord(t *testing.T) {
	valid := models.ProgressRecord{
		ContractorID:   "c1",
		DocumentTypeID: "dt-1",
		RequiredCount:  2,
		Status:         models.StatusAmber,
	}
	assert.True(t, CheckRecord(valid).Valid)

	invalid := valid
	invalid.ApprovedCount = -1
	invalid.Status = "violet"
	result := CheckRecord(invalid)
	assert.False(t, result.Valid)
	assert.Len(t, result.Errors, 2)
}

func TestDecodeProgressRows(t *testing.T) {
	rows := []map[string]interface{}{
		validRow(),
		validRow(),
	}
	rows[1]["required_count"] = -2

	data, err := json.Marshal(rows)
	require.NoError(t, err)

	records, rejected, err := DecodeProgressRows(data)
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "c1", records[0].ContractorID)
	assert.Equal(t, models.StatusRed, records[0].Status)
	require.NotNil(t, records[0].PlannedDue)

	require.Len(t, rejected, 1)
	assert.Contains(t, rejected, 1)
}

func TestDecodeProgressRowsBadPayload(t *testing.T) {
	_, _, err := DecodeProgressRows([]byte(`{"not": "an array"}`))
	assert.Error(t, err)
}

func TestParseTimestamp(t *testing.T) {
	got, err := ParseTimestamp("2024-06-10T00:00:00Z")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 2024, got.Year())

	got, err = ParseTimestamp(nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = ParseTimestamp("last tuesday")
	assert.Error(t, err)
}
