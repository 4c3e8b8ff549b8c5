// internal/engine/category/category_test.go
package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compliance-engine/internal/models"
)

func row(category string, required, approved int) models.ProgressRecord {
	return models.ProgressRecord{Category: category, RequiredCount: required, ApprovedCount: approved}
}

func TestSummarize(t *testing.T) {
	rows := []models.ProgressRecord{
		row("Safety", 6, 2),
		row("Safety", 4, 1),
		row("Quality", 5, 5),
		row("Admin", 10, 6),
	}

	got := Summarize(rows)
	require.Len(t, got, 3)

	// Worst-performing category first.
	assert.Equal(t, models.CategorySummary{Category: "Safety", ApprovedCount: 3, RequiredCount: 10, CompletionPct: 30}, got[0])
	assert.Equal(t, "Admin", got[1].Category)
	assert.Equal(t, 100, got[2].CompletionPct)
}

func TestSummarizeZeroRequired(t *testing.T) {
	got := Summarize([]models.ProgressRecord{row("Empty", 0, 0)})
	require.Len(t, got, 1)
	assert.Zero(t, got[0].CompletionPct)
}

func TestSummarizeEmptyInput(t *testing.T) {
	assert.Empty(t, Summarize(nil))
}

func TestSummarizeDeterministicOnTies(t *testing.T) {
	rows := []models.ProgressRecord{
		row("Bravo", 2, 1),
		row("Alpha", 4, 2),
	}

	first := Summarize(rows)
	second := Summarize(rows)
	assert.Equal(t, first, second)
	assert.Equal(t, "Alpha", first[0].Category)
}
