package aggr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/catalogcore/pkg/catalogtypes"
)

func addonWithCatalogs(base string, catalogs ...catalogtypes.ManifestCatalog) catalogtypes.Descriptor {
	return catalogtypes.Descriptor{
		TransportURL: base,
		Manifest: catalogtypes.Manifest{
			Catalogs: catalogs,
		},
	}
}

func TestPlanAllCatalogsPreservesAddonOrderAndDedupes(t *testing.T) {
	addons := []catalogtypes.Descriptor{
		addonWithCatalogs("a/manifest.json", catalogtypes.ManifestCatalog{Type: "movie", ID: "top"}),
		addonWithCatalogs("b/manifest.json", catalogtypes.ManifestCatalog{Type: "movie", ID: "top"}),
	}
	reqs := Plan(addons, AggrRequest{Kind: AllCatalogs})
	require.Len(t, reqs, 2)
	assert.Equal(t, "a/manifest.json", reqs[0].Base)
	assert.Equal(t, "b/manifest.json", reqs[1].Base)
}

func TestPlanAllCatalogsSkipsUnsatisfiedRequiredExtra(t *testing.T) {
	cat := catalogtypes.ManifestCatalog{
		Type: "movie", ID: "search",
		Extra: []catalogtypes.ExtraProp{{Name: "search", IsRequired: true}},
	}
	addons := []catalogtypes.Descriptor{addonWithCatalogs("a/manifest.json", cat)}

	reqs := Plan(addons, AggrRequest{Kind: AllCatalogs})
	assert.Empty(t, reqs)

	reqs = Plan(addons, AggrRequest{Kind: AllCatalogs, ExtraForAllCatalogs: []catalogtypes.ExtraValue{{Name: "search", Value: "foo"}}})
	require.Len(t, reqs, 1)
	require.Len(t, reqs[0].Path.Extra, 1)
	assert.Equal(t, "search", reqs[0].Path.Extra[0].Name)
}

func TestPlanAllCatalogsAllowsOptionDefaultedExtra(t *testing.T) {
	cat := catalogtypes.ManifestCatalog{
		Type: "movie", ID: "genre",
		Extra: []catalogtypes.ExtraProp{{Name: "genre", IsRequired: true, Options: []string{"action", "drama"}}},
	}
	addons := []catalogtypes.Descriptor{addonWithCatalogs("a/manifest.json", cat)}
	reqs := Plan(addons, AggrRequest{Kind: AllCatalogs})
	require.Len(t, reqs, 1)
}

func TestPlanAllOfResourceFiltersBySupport(t *testing.T) {
	supporting := catalogtypes.Descriptor{
		TransportURL: "a/manifest.json",
		Manifest: catalogtypes.Manifest{
			Resources: []catalogtypes.ManifestResource{catalogtypes.ShortResource("meta")},
		},
	}
	notSupporting := catalogtypes.Descriptor{TransportURL: "b/manifest.json"}
	addons := []catalogtypes.Descriptor{supporting, notSupporting}

	reqs := Plan(addons, AggrRequest{
		Kind: AllOfResource,
		Path: catalogtypes.ResourcePath{Resource: "meta", Type: "movie", ID: "tt1"},
	})
	require.Len(t, reqs, 1)
	assert.Equal(t, "a/manifest.json", reqs[0].Base)
}

func TestPlanFromAddonIsPassthrough(t *testing.T) {
	r := catalogtypes.ResourceRequest{Base: "a/manifest.json", Path: catalogtypes.ResourcePath{Resource: "meta", Type: "movie", ID: "tt1"}}
	reqs := Plan(nil, AggrRequest{Kind: FromAddon, Request: r})
	require.Len(t, reqs, 1)
	assert.True(t, reqs[0].Equal(r))
}

func TestPlanCatalogsFilteredMatchesExplicitSelectors(t *testing.T) {
	addons := []catalogtypes.Descriptor{
		addonWithCatalogs("a/manifest.json", catalogtypes.ManifestCatalog{Type: "series", ID: "top"}),
	}
	reqs := Plan(addons, AggrRequest{
		Kind:      CatalogsFiltered,
		Selectors: []CatalogSelector{{Type: "series", ID: "top"}, {Type: "movie", ID: "top"}},
	})
	require.Len(t, reqs, 1)
	assert.Equal(t, "series", reqs[0].Path.Type)
}
