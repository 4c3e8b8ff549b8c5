// internal/common/validation/schema.go
package validation

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"compliance-engine/internal/models"
)

// progressRowSchema is the closed shape a raw reporting-view row must
// satisfy before it may enter the scoring cascade.
const progressRowSchema = `{
	"type": "object",
	"required": ["contractor_id", "contractor_name", "document_type_id", "document_name", "document_code", "required_count", "approved_count", "status_color"],
	"additionalProperties": true,
	"properties": {
		"contractor_id":    {"type": "string", "minLength": 1},
		"contractor_name":  {"type": "string", "minLength": 1},
		"document_type_id": {"type": "string", "minLength": 1},
		"document_name":    {"type": "string", "minLength": 1},
		"document_code":    {"type": "string", "minLength": 1},
		"category":         {"type": "string"},
		"critical":         {"type": "boolean"},
		"required_count":   {"type": "integer", "minimum": 0},
		"approved_count":   {"type": "integer", "minimum": 0},
		"status_color":     {"type": "string", "enum": ["green", "amber", "red", "unknown"]},
		"planned_due":       {"type": ["string", "null"], "format": "date-time"},
		"first_started_at":  {"type": ["string", "null"], "format": "date-time"},
		"first_submitted_at": {"type": ["string", "null"], "format": "date-time"},
		"first_approved_at":  {"type": ["string", "null"], "format": "date-time"}
	}
}`

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

var rowSchemaLoader = gojsonschema.NewStringLoader(progressRowSchema)

// ValidateProgressRow validates one raw row against the schema.
func ValidateProgressRow(row map[string]interface{}) (*ValidationResult, error) {
	result, err := gojsonschema.Validate(rowSchemaLoader, gojsonschema.NewGoLoader(row))
	if err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, e := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   e.Field(),
			Message: e.Description(),
			Code:    "SCHEMA_VIOLATION",
		})
	}
	return out, nil
}

// CheckRecord validates an already-typed record. The SQL store uses it
// after scanning, where the type system already guarantees most of the
// schema and only the value-range invariants remain.
func CheckRecord(r models.ProgressRecord) *ValidationResult {
	var errs []ValidationError

	appendErr := func(field, message, code string) {
		errs = append(errs, ValidationError{Field: field, Message: message, Code: code})
	}

	if r.ContractorID == "" {
		appendErr("contractor_id", "must not be empty", "REQUIRED_FIELD_MISSING")
	}
	if r.DocumentTypeID == "" {
		appendErr("document_type_id", "must not be empty", "REQUIRED_FIELD_MISSING")
	}
	if r.RequiredCount < 0 {
		appendErr("required_count", "must not be negative", "OUT_OF_RANGE")
	}
	if r.ApprovedCount < 0 {
		appendErr("approved_count", "must not be negative", "OUT_OF_RANGE")
	}
	switch r.Status {
	case models.StatusGreen, models.StatusAmber, models.StatusRed, models.StatusUnknown:
	default:
		appendErr("status_color", fmt.Sprintf("unrecognized value %q", r.Status), "ENUM_VIOLATION")
	}

	return &ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// DecodeProgressRows parses a JSON array of raw rows, validating each one.
// Valid rows come back typed; invalid rows come back as per-row error
// lists, index-aligned with the input. The two never overlap: a row either
// scores or is rejected whole.
func DecodeProgressRows(data []byte) ([]models.ProgressRecord, map[int][]ValidationError, error) {
	var raw []map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("decode progress rows: %w", err)
	}

	rejected := make(map[int][]ValidationError)
	records := make([]models.ProgressRecord, 0, len(raw))

	for i, row := range raw {
		result, err := ValidateProgressRow(row)
		if err != nil {
			return nil, nil, err
		}
		if !result.Valid {
			rejected[i] = result.Errors
			continue
		}

		rec, err := recordFromMap(row)
		if err != nil {
			rejected[i] = []ValidationError{{Field: "", Message: err.Error(), Code: "PARSE_ERROR"}}
			continue
		}
		records = append(records, rec)
	}

	return records, rejected, nil
}

func recordFromMap(row map[string]interface{}) (models.ProgressRecord, error) {
	// Round-trip through JSON so the struct tags drive field mapping.
	data, err := json.Marshal(row)
	if err != nil {
		return models.ProgressRecord{}, err
	}
	var rec models.ProgressRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return models.ProgressRecord{}, err
	}
	if rec.Status == "" {
		rec.Status = models.StatusUnknown
	}
	return rec, nil
}

// ParseTimestamp parses an optional RFC3339 timestamp from a raw row.
func ParseTimestamp(v interface{}) (*time.Time, error) {
	if v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return &t, nil
}
