// Package jurisdictionfilter holds the county catalog and the operator's
// inclusion choices for one search session.
package jurisdictionfilter

import (
	"sort"
	"strings"

	"records-search/internal/models"

	"golang.org/x/text/cases"
)

// FilterSet is a label-sorted view of the catalog with per-option selection.
// It is not safe for concurrent mutation; a session serializes access.
type FilterSet struct {
	options []models.JurisdictionOption
	index   map[int]int
}

// Load copies catalog, sorts it by case-folded label (ties keep declaration
// order) and clears every selection. When ids repeat, the first wins.
func Load(catalog []models.JurisdictionOption) *FilterSet {
	options := make([]models.JurisdictionOption, 0, len(catalog))
	seen := make(map[int]bool, len(catalog))
	for _, opt := range catalog {
		if seen[opt.ID] {
			continue
		}
		seen[opt.ID] = true
		options = append(options, models.JurisdictionOption{ID: opt.ID, Label: opt.Label})
	}

	sortByLabel(options)

	index := make(map[int]int, len(options))
	for i, opt := range options {
		index[opt.ID] = i
	}
	return &FilterSet{options: options, index: index}
}

func sortByLabel(options []models.JurisdictionOption) {
	fold := cases.Fold()
	keys := make(map[int]string, len(options))
	for _, opt := range options {
		keys[opt.ID] = fold.String(opt.Label)
	}
	sort.SliceStable(options, func(i, j int) bool {
		return keys[options[i].ID] < keys[options[j].ID]
	})
}

// Toggle flips the selection of id. Unknown ids are ignored.
func (f *FilterSet) Toggle(id int) {
	i, ok := f.index[id]
	if !ok {
		return
	}
	f.options[i].Selected = !f.options[i].Selected
}

// Select sets the selection of id explicitly; it reports whether id exists.
func (f *FilterSet) Select(id int, selected bool) bool {
	i, ok := f.index[id]
	if !ok {
		return false
	}
	f.options[i].Selected = selected
	return true
}

// SelectedIDs returns the selected ids in ascending order.
func (f *FilterSet) SelectedIDs() []int {
	ids := make([]int, 0, len(f.options))
	for _, opt := range f.options {
		if opt.Selected {
			ids = append(ids, opt.ID)
		}
	}
	sort.Ints(ids)
	return ids
}

// View returns a copy of the sorted options.
func (f *FilterSet) View() []models.JurisdictionOption {
	return append([]models.JurisdictionOption(nil), f.options...)
}

// Lookup finds an option id by label, ignoring case and surrounding space.
func (f *FilterSet) Lookup(label string) (int, bool) {
	fold := cases.Fold()
	want := fold.String(strings.TrimSpace(label))
	for _, opt := range f.options {
		if fold.String(opt.Label) == want {
			return opt.ID, true
		}
	}
	return 0, false
}

// Len reports the catalog size.
func (f *FilterSet) Len() int {
	return len(f.options)
}
