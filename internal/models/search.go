package models

import (
	"fmt"
	"strings"
)

// SearchMode selects between a single free-text entry and a spreadsheet batch.
type SearchMode string

const (
	SearchModeIndividual SearchMode = "individual"
	SearchModeBatch      SearchMode = "batch"
)

// ParseSearchMode accepts the wire tags case-insensitively. "group" is the
// operator-facing name for batch searches and maps to SearchModeBatch.
func ParseSearchMode(s string) (SearchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(SearchModeIndividual):
		return SearchModeIndividual, nil
	case string(SearchModeBatch), "group":
		return SearchModeBatch, nil
	default:
		return "", fmt.Errorf("unknown search mode %q", s)
	}
}

func (m SearchMode) Valid() bool {
	return m == SearchModeIndividual || m == SearchModeBatch
}

// SearchRequest is the finalized unit handed to the resolution engine.
// Jurisdictions holds unique ids in ascending order; empty means unfiltered.
type SearchRequest struct {
	Mode          SearchMode `json:"mode"`
	Terms         []string   `json:"terms"`
	Jurisdictions []int      `json:"jurisdictions"`
}

// Clone returns a deep copy so callers cannot mutate a finalized request.
func (r SearchRequest) Clone() SearchRequest {
	out := SearchRequest{Mode: r.Mode}
	if r.Terms != nil {
		out.Terms = make([]string, len(r.Terms))
		copy(out.Terms, r.Terms)
	}
	if r.Jurisdictions != nil {
		out.Jurisdictions = make([]int, len(r.Jurisdictions))
		copy(out.Jurisdictions, r.Jurisdictions)
	}
	return out
}

// JurisdictionOption is one selectable county in the catalog.
type JurisdictionOption struct {
	ID       int    `json:"id" db:"id"`
	Label    string `json:"label" db:"label"`
	Selected bool   `json:"selected"`
}
