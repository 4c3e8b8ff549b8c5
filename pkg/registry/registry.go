// pkg/registry/registry.go

// Package registry loads the document type catalog: the canonical list of
// document codes, their categories and whether they are must-have. The engine
// works off whatever codes the rows carry; the registry lets callers spot
// rows referencing codes the catalog does not know.
package registry

import (
	"encoding/json"
	"os"
	"sort"

	"compliance-engine/internal/models"
)

// DocumentRegistry is the parsed catalog file.
type DocumentRegistry struct {
	Version     string         `json:"version"`
	LastUpdated string         `json:"lastUpdated"`
	Documents   []DocumentType `json:"documents"`

	byCode map[string]*DocumentType
}

// DocumentType describes one catalog entry.
type DocumentType struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	DisplayName string `json:"displayName"`
	Category    string `json:"category"`
	Critical    bool   `json:"critical"`
}

// Load reads and indexes the catalog file.
func Load(path string) (*DocumentRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg DocumentRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, err
	}
	reg.index()
	return &reg, nil
}

func (r *DocumentRegistry) index() {
	r.byCode = make(map[string]*DocumentType, len(r.Documents))
	for i := range r.Documents {
		r.byCode[r.Documents[i].Code] = &r.Documents[i]
	}
}

// Lookup returns the catalog entry for a document code.
func (r *DocumentRegistry) Lookup(code string) (*DocumentType, bool) {
	dt, ok := r.byCode[code]
	return dt, ok
}

// Categories returns the distinct catalog categories, sorted.
func (r *DocumentRegistry) Categories() []string {
	seen := make(map[string]struct{})
	for _, dt := range r.Documents {
		if dt.Category != "" {
			seen[dt.Category] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// UnknownCodes returns the distinct document codes in rows that the catalog
// does not list, sorted.
func (r *DocumentRegistry) UnknownCodes(rows []models.ProgressRecord) []string {
	seen := make(map[string]struct{})
	for _, row := range rows {
		if _, ok := r.byCode[row.DocumentCode]; !ok {
			seen[row.DocumentCode] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
