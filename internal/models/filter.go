// internal/models/filter.go
package models

import "strings"

// FilterAll is the sentinel for "no restriction" on contractor or category.
const FilterAll = "all"

// FilterState is the immutable filter selection for one evaluation pass.
type FilterState struct {
	ContractorID string `json:"contractor_id"`
	Category     string `json:"category"`
	Search       string `json:"search,omitempty"`
}

// NewFilterState returns the unrestricted selection.
func NewFilterState() FilterState {
	return FilterState{ContractorID: FilterAll, Category: FilterAll}
}

// AllContractors reports whether no contractor restriction applies.
func (f FilterState) AllContractors() bool {
	return f.ContractorID == "" || f.ContractorID == FilterAll
}

// AllCategories reports whether no category restriction applies.
func (f FilterState) AllCategories() bool {
	return f.Category == "" || f.Category == FilterAll
}

// SearchTerm returns the normalized free-text search, empty when blank.
func (f FilterState) SearchTerm() string {
	return strings.ToLower(strings.TrimSpace(f.Search))
}
