// internal/models/progress.go
package models

import (
	"math"
	"time"
)

// StatusColor is the upstream-computed health enum for a single
// contractor x document-type requirement. The engine treats it as
// ground truth and never re-derives it.
type StatusColor string

const (
	StatusGreen   StatusColor = "green"
	StatusAmber   StatusColor = "amber"
	StatusRed     StatusColor = "red"
	StatusUnknown StatusColor = "unknown"
)

// SeverityRank maps a status color to its fixed sort ordinal.
// Unrecognized colors rank 0 so they sort last without breaking a comparator.
func (s StatusColor) SeverityRank() int {
	switch s {
	case StatusRed:
		return 3
	case StatusAmber:
		return 2
	case StatusGreen:
		return 1
	default:
		return 0
	}
}

// ProgressRecord is one row of the reporting view: the submission state of
// one contractor against one document-type requirement. Rows are validated
// at the store boundary; everything downstream assumes non-negative counts
// and a well-typed status.
type ProgressRecord struct {
	ContractorID   string      `json:"contractor_id"`
	ContractorName string      `json:"contractor_name"`
	DocumentTypeID string      `json:"document_type_id"`
	DocumentName   string      `json:"document_name"`
	DocumentCode   string      `json:"document_code"`
	Category       string      `json:"category,omitempty"`
	Critical       bool        `json:"critical"`
	RequiredCount  int         `json:"required_count"`
	ApprovedCount  int         `json:"approved_count"`
	PlannedDue     *time.Time  `json:"planned_due,omitempty"`
	Status         StatusColor `json:"status_color"`
	StartedAt      *time.Time  `json:"first_started_at,omitempty"`
	SubmittedAt    *time.Time  `json:"first_submitted_at,omitempty"`
	ApprovedAt     *time.Time  `json:"first_approved_at,omitempty"`
}

// ProgressPercent returns approved/required as a percentage.
// A zero requirement counts as fully complete.
func (r ProgressRecord) ProgressPercent() float64 {
	if r.RequiredCount == 0 {
		return 100
	}
	return float64(r.ApprovedCount) / float64(r.RequiredCount) * 100
}

// ProgressPercentRounded is ProgressPercent rounded to the nearest integer.
func (r ProgressRecord) ProgressPercentRounded() int {
	return int(math.Round(r.ProgressPercent()))
}
