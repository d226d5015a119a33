// Package aggr plans which ResourceRequests must be sent to which addons
// to satisfy one of the four aggregation-request shapes the view models
// issue.
package aggr

import "github.com/tomtom215/catalogcore/pkg/catalogtypes"

// RequestKind discriminates the AggrRequest union.
type RequestKind int

const (
	AllCatalogs RequestKind = iota
	AllOfResource
	FromAddon
	CatalogsFiltered
)

// CatalogSelector names one catalog an explicit CatalogsFiltered request
// wants, regardless of whether every declared extra is supplied.
type CatalogSelector struct {
	Type  string
	ID    string
	Extra []catalogtypes.ExtraValue
}

// AggrRequest is the union of ways a view model can ask the planner for
// work. Exactly the fields relevant to Kind are read.
type AggrRequest struct {
	Kind RequestKind

	// AllCatalogs
	ExtraForAllCatalogs []catalogtypes.ExtraValue
	TypeForAllCatalogs  *string

	// AllOfResource
	Path catalogtypes.ResourcePath

	// FromAddon
	Request catalogtypes.ResourceRequest

	// CatalogsFiltered
	Selectors []CatalogSelector
}

// Plan returns an ordered, deduplicated list of ResourceRequests, one per
// matching (addon, catalog-or-path) pair, preserving addon install order.
func Plan(addons []catalogtypes.Descriptor, req AggrRequest) []catalogtypes.ResourceRequest {
	switch req.Kind {
	case AllCatalogs:
		return planAllCatalogs(addons, req.TypeForAllCatalogs, req.ExtraForAllCatalogs)
	case AllOfResource:
		return planAllOfResource(addons, req.Path)
	case FromAddon:
		return []catalogtypes.ResourceRequest{req.Request}
	case CatalogsFiltered:
		return planCatalogsFiltered(addons, req.Selectors)
	default:
		return nil
	}
}

func planAllCatalogs(addons []catalogtypes.Descriptor, typeFilter *string, extra []catalogtypes.ExtraValue) []catalogtypes.ResourceRequest {
	var out []catalogtypes.ResourceRequest
	seen := make(map[string]bool)
	for _, addon := range addons {
		for _, cat := range addon.Manifest.Catalogs {
			if typeFilter != nil && cat.Type != *typeFilter {
				continue
			}
			if !catalogQualifies(cat, extra) {
				continue
			}
			reqPath := catalogtypes.ResourcePath{
				Resource: "catalog",
				Type:     cat.Type,
				ID:       cat.ID,
				Extra:    filterSupportedExtra(cat, extra),
			}
			appendDeduped(&out, seen, catalogtypes.ResourceRequest{Base: addon.TransportURL, Path: reqPath})
		}
	}
	return out
}

func planAllOfResource(addons []catalogtypes.Descriptor, path catalogtypes.ResourcePath) []catalogtypes.ResourceRequest {
	var out []catalogtypes.ResourceRequest
	seen := make(map[string]bool)
	for _, addon := range addons {
		if !addon.Manifest.SupportsResource(path.Resource, path.Type, path.ID) {
			continue
		}
		appendDeduped(&out, seen, catalogtypes.ResourceRequest{Base: addon.TransportURL, Path: path})
	}
	return out
}

func planCatalogsFiltered(addons []catalogtypes.Descriptor, selectors []CatalogSelector) []catalogtypes.ResourceRequest {
	var out []catalogtypes.ResourceRequest
	seen := make(map[string]bool)
	for _, sel := range selectors {
		for _, addon := range addons {
			if !addonDeclaresCatalog(addon.Manifest, sel.Type, sel.ID) {
				continue
			}
			reqPath := catalogtypes.ResourcePath{Resource: "catalog", Type: sel.Type, ID: sel.ID, Extra: sel.Extra}
			appendDeduped(&out, seen, catalogtypes.ResourceRequest{Base: addon.TransportURL, Path: reqPath})
		}
	}
	return out
}

func addonDeclaresCatalog(m catalogtypes.Manifest, typ, id string) bool {
	for _, c := range m.Catalogs {
		if c.Type == typ && c.ID == id {
			return true
		}
	}
	return false
}

// catalogQualifies reports whether a catalog can be queried given the
// extras on offer: every required extra name must either be present in
// extra, or be a full-form extra prop with a non-empty option list (so a
// default can be auto-selected).
func catalogQualifies(cat catalogtypes.ManifestCatalog, extra []catalogtypes.ExtraValue) bool {
	for _, name := range cat.RequiredExtraNames() {
		if extraHasName(extra, name) {
			continue
		}
		if fullFormHasOptions(cat, name) {
			continue
		}
		return false
	}
	return true
}

func fullFormHasOptions(cat catalogtypes.ManifestCatalog, name string) bool {
	for _, e := range cat.Extra {
		if e.Name == name {
			return len(e.Options) > 0
		}
	}
	return false
}

func extraHasName(extra []catalogtypes.ExtraValue, name string) bool {
	for _, e := range extra {
		if e.Name == name {
			return true
		}
	}
	return false
}

// filterSupportedExtra keeps only the extras this catalog actually
// declares (required or optional), preserving the caller's order.
func filterSupportedExtra(cat catalogtypes.ManifestCatalog, extra []catalogtypes.ExtraValue) []catalogtypes.ExtraValue {
	supported := supportedExtraNames(cat)
	if len(supported) == 0 {
		return nil
	}
	var out []catalogtypes.ExtraValue
	for _, e := range extra {
		if supported[e.Name] {
			out = append(out, e)
		}
	}
	return out
}

func supportedExtraNames(cat catalogtypes.ManifestCatalog) map[string]bool {
	names := make(map[string]bool)
	if cat.Extra2 != nil {
		for _, n := range cat.Extra2.Required {
			names[n] = true
		}
		for _, n := range cat.Extra2.Supported {
			names[n] = true
		}
		return names
	}
	for _, e := range cat.Extra {
		names[e.Name] = true
	}
	return names
}

func appendDeduped(out *[]catalogtypes.ResourceRequest, seen map[string]bool, r catalogtypes.ResourceRequest) {
	key := r.Key()
	if seen[key] {
		return
	}
	seen[key] = true
	*out = append(*out, r)
}
