package viewmodels

import (
	"github.com/tomtom215/catalogcore/pkg/aggr"
	"github.com/tomtom215/catalogcore/pkg/catalogtypes"
	"github.com/tomtom215/catalogcore/pkg/effects"
	"github.com/tomtom215/catalogcore/pkg/env"
	"github.com/tomtom215/catalogcore/pkg/loadable"
)

// CatalogSelected names the page currently requested.
type CatalogSelected struct {
	Request catalogtypes.ResourceRequest
}

// SelectableCatalog is one (type,id) combination the installed addons
// declare, used by the host UI to render the catalog picker.
type SelectableCatalog struct {
	Type string
	ID   string
	Name string
}

// SelectableExtraOption is one value the host UI can offer for an extra
// parameter on the currently selected catalog.
type SelectableExtraOption struct {
	Name    string
	Options []string
}

// CatalogSelectable describes every valid choice the current addon set
// offers, rebuilt on every Load; a profile or addon-list change alone does
// not rebuild it.
type CatalogSelectable struct {
	Types    []string
	Catalogs []SelectableCatalog
	Extra    []SelectableExtraOption
	PrevPage bool
	NextPage bool
	Sorts    []string
}

// CatalogWithFilters is the generic catalog-browsing view model,
// parametrised by the decoded item type (addon.MetaPreview in the
// common case).
type CatalogWithFilters[T any] struct {
	Selected   *CatalogSelected
	Selectable CatalogSelectable
	Catalog    []loadable.ResourceLoadable[[]T]
}

// IsLastPage infers whether the resource at slot 0 (the only slot a
// CatalogWithFilters ever holds — one page at a time) is the final page:
// either the addon reported hasMore=false, or it returned fewer than a
// full page of items.
func IsLastPage[T any](content loadable.Loadable[[]T, loadable.ResourceError], hasMore *bool) bool {
	if hasMore != nil {
		return !*hasMore
	}
	if !content.IsReady() {
		return false
	}
	return len(content.Value) < CatalogPageSize
}

// NewCatalogWithFilters builds an empty, unloaded catalog view model.
func NewCatalogWithFilters[T any]() *CatalogWithFilters[T] {
	return &CatalogWithFilters[T]{}
}

// RebuildSelectable recomputes Selectable from the installed addon list,
// collapsing duplicate (type,id) catalog declarations and deriving the
// distinct type list, both in install order. Extra, Sorts, PrevPage and
// NextPage are not derived here; they are reset to their zero values.
func (m *CatalogWithFilters[T]) RebuildSelectable(addons []catalogtypes.Descriptor) {
	seenType := map[string]bool{}
	seenCatalog := map[string]bool{}
	var types []string
	var catalogs []SelectableCatalog
	for _, a := range addons {
		for _, cat := range a.Manifest.Catalogs {
			if !seenType[cat.Type] {
				seenType[cat.Type] = true
				types = append(types, cat.Type)
			}
			key := cat.Type + "\x1f" + cat.ID
			if seenCatalog[key] {
				continue
			}
			seenCatalog[key] = true
			name := cat.ID
			if cat.Name != nil {
				name = *cat.Name
			}
			catalogs = append(catalogs, SelectableCatalog{Type: cat.Type, ID: cat.ID, Name: name})
		}
	}
	m.Selectable = CatalogSelectable{Types: types, Catalogs: catalogs}
}

// nearestValidSelection snaps an unknown (type,id) pair to the first
// declared catalog of the requested type, or the very first declared
// catalog if the type itself is unknown.
func nearestValidSelection(selectable CatalogSelectable, wantType, wantID string) (string, string) {
	for _, c := range selectable.Catalogs {
		if c.Type == wantType && c.ID == wantID {
			return wantType, wantID
		}
	}
	for _, c := range selectable.Catalogs {
		if c.Type == wantType {
			return c.Type, c.ID
		}
	}
	if len(selectable.Catalogs) > 0 {
		return selectable.Catalogs[0].Type, selectable.Catalogs[0].ID
	}
	return wantType, wantID
}

// Load rebuilds Selectable from the installed addon set, snaps the
// requested selection to the nearest valid one, quantises skip to a page
// boundary, and (unless the exact same request is already planned —
// "double Load is a no-op") launches a single effect fetching that page.
// extra carries every extra parameter except "skip", which is supplied
// separately and quantised here.
func (m *CatalogWithFilters[T]) Load(environ env.Environment, addons []catalogtypes.Descriptor, addonBase, catalogType, catalogID string, extra []catalogtypes.ExtraValue, skip int) effects.Effects {
	m.RebuildSelectable(addons)

	validType, validID := nearestValidSelection(m.Selectable, catalogType, catalogID)
	path := catalogtypes.ResourcePath{Resource: "catalog", Type: validType, ID: validID, Extra: extra}
	if q := quantisePage(skip); q > 0 {
		path.Extra = append(append([]catalogtypes.ExtraValue{}, extra...), catalogtypes.ExtraValue{Name: "skip", Value: itoa(q)})
	}

	requests := aggr.Plan(addons, aggr.AggrRequest{Kind: aggr.FromAddon, Request: catalogtypes.ResourceRequest{Base: addonBase, Path: path}})
	if len(requests) == 0 {
		m.Catalog = nil
		return effects.Changed()
	}
	req := requests[0]

	if m.Selected != nil && m.Selected.Request.Equal(req) && len(m.Catalog) == 1 && m.Catalog[0].Content != nil && !m.Catalog[0].Content.IsErr() {
		// Exact same request already planned/in-flight or already
		// resolved: no-op per S8 "double Load is a no-op".
		return effects.Changed()
	}

	m.Selected = &CatalogSelected{Request: req}
	m.Catalog = loadable.UpdatePlan[[]T](nil, []catalogtypes.ResourceRequest{req})

	return effects.FromFutureChanged(fetchResourceSlice[T](environ, req, "CatalogResourceReceived"))
}

// HandleResourceReceived applies a resolved page fetch, discarding it if
// the plan has since moved on (stale-response discarding, S5).
func (m *CatalogWithFilters[T]) HandleResourceReceived(result ResourceResult[[]T]) effects.Effects {
	if m.Selected == nil || !m.Selected.Request.Equal(result.Request) {
		return effects.None()
	}
	m.Catalog = loadable.ApplyResponse(m.Catalog, result.Request, result.Loadable)
	return effects.Changed()
}
