package viewmodels

import (
	"sort"
	"strings"

	"github.com/tomtom215/catalogcore/pkg/catalogtypes"
)

// InstalledAddonsSelected is the current type scope and free-text filter.
type InstalledAddonsSelected struct {
	Type  *string
	Query string
}

// InstalledAddonsWithFilters projects the installed addon list through an
// optional type scope and a free-text name filter, preserving install
// order (the order addons were added/reordered in, never re-sorted).
type InstalledAddonsWithFilters struct {
	Selected   InstalledAddonsSelected
	Types      []string
	Catalog    []catalogtypes.Descriptor
}

// NewInstalledAddonsWithFilters builds an empty, unloaded view model.
func NewInstalledAddonsWithFilters() *InstalledAddonsWithFilters {
	return &InstalledAddonsWithFilters{}
}

// Load recomputes Types (every distinct addon.Manifest.Types entry, for
// the type picker) and the filtered Catalog.
func (m *InstalledAddonsWithFilters) Load(addons []catalogtypes.Descriptor, selected InstalledAddonsSelected) {
	m.Selected = selected

	seen := map[string]bool{}
	var types []string
	var catalog []catalogtypes.Descriptor
	query := strings.ToLower(selected.Query)
	for _, a := range addons {
		for _, t := range a.Manifest.Types {
			if !seen[t] {
				seen[t] = true
				types = append(types, t)
			}
		}
		if selected.Type != nil && !containsManifestType(a.Manifest.Types, *selected.Type) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(a.Manifest.Name), query) {
			continue
		}
		catalog = append(catalog, a)
	}
	sort.Strings(types)
	m.Types = types
	m.Catalog = catalog
}

func containsManifestType(types []string, want string) bool {
	for _, t := range types {
		if t == want {
			return true
		}
	}
	return false
}
