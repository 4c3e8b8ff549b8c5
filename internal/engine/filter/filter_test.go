// internal/engine/filter/filter_test.go
package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"compliance-engine/internal/models"
)

func makeRecord(contractorID, contractorName, docName, docCode, category string) models.ProgressRecord {
	return models.ProgressRecord{
		ContractorID:   contractorID,
		ContractorName: contractorName,
		DocumentTypeID: docCode + "-id",
		DocumentName:   docName,
		DocumentCode:   docCode,
		Category:       category,
		RequiredCount:  1,
		Status:         models.StatusGreen,
	}
}

func testRows() []models.ProgressRecord {
	return []models.ProgressRecord{
		makeRecord("c1", "Alpha Construction", "Safety Plan", "SAF-01", "Safety"),
		makeRecord("c1", "Alpha Construction", "Welding Cert", "QA-07", "Quality"),
		makeRecord("c2", "Beta Engineering", "Safety Plan", "SAF-01", "Safety"),
		makeRecord("c3", "Gamma Works", "Insurance Policy", "ADM-02", ""),
	}
}

func TestApply(t *testing.T) {
	rows := testRows()

	tests := []struct {
		name      string
		filter    models.FilterState
		wantCount int
		check     func(t *testing.T, got []models.ProgressRecord)
	}{
		{
			name:      "unrestricted returns every row in original order",
			filter:    models.NewFilterState(),
			wantCount: 4,
			check: func(t *testing.T, got []models.ProgressRecord) {
				assert.Equal(t, rows, got)
			},
		},
		{
			name:      "contractor filter",
			filter:    models.FilterState{ContractorID: "c1", Category: models.FilterAll},
			wantCount: 2,
			check: func(t *testing.T, got []models.ProgressRecord) {
				for _, r := range got {
					assert.Equal(t, "c1", r.ContractorID)
				}
			},
		},
		{
			name:      "category filter exempts rows without a category",
			filter:    models.FilterState{ContractorID: models.FilterAll, Category: "Safety"},
			wantCount: 3,
			check: func(t *testing.T, got []models.ProgressRecord) {
				assert.Equal(t, "ADM-02", got[2].DocumentCode)
			},
		},
		{
			name:      "search matches document code case-insensitively",
			filter:    models.FilterState{ContractorID: models.FilterAll, Category: models.FilterAll, Search: "saf-01"},
			wantCount: 2,
		},
		{
			name:      "search matches contractor name",
			filter:    models.FilterState{ContractorID: models.FilterAll, Category: models.FilterAll, Search: "BETA"},
			wantCount: 1,
		},
		{
			name:      "whitespace-only search is ignored",
			filter:    models.FilterState{ContractorID: models.FilterAll, Category: models.FilterAll, Search: "   "},
			wantCount: 4,
		},
		{
			name:      "filters compose",
			filter:    models.FilterState{ContractorID: "c1", Category: "Safety", Search: "plan"},
			wantCount: 1,
		},
		{
			name:      "no matches yields empty, not nil panic",
			filter:    models.FilterState{ContractorID: "missing", Category: models.FilterAll},
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(rows, tt.filter)
			assert.Len(t, got, tt.wantCount)
			if tt.check != nil {
				tt.check(t, got)
			}
		})
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	rows := testRows()
	original := testRows()

	Apply(rows, models.FilterState{ContractorID: "c2", Category: models.FilterAll})
	assert.Equal(t, original, rows)
}
