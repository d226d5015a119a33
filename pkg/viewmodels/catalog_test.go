package viewmodels

import (
	"context"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/catalogcore/pkg/addon"
	"github.com/tomtom215/catalogcore/pkg/catalogtypes"
	"github.com/tomtom215/catalogcore/pkg/env"
	"github.com/tomtom215/catalogcore/pkg/loadable"
)

type fakeEnv struct {
	now     time.Time
	handler func(env.HTTPRequest[any]) (env.FetchResult, error)
}

func (f *fakeEnv) Now() time.Time                                       { return f.now }
func (f *fakeEnv) Exec(ctx context.Context, task func(context.Context)) { task(ctx) }
func (f *fakeEnv) RandomU64() uint64                                    { return 0 }
func (f *fakeEnv) AnalyticsContext() map[string]any                     { return map[string]any{} }
func (f *fakeEnv) AddonTransport(baseURL string) env.AddonTransportFactory {
	return addon.NewFactory(f, baseURL)
}
func (f *fakeEnv) GetStorage(context.Context, string, any) (bool, error) { return false, nil }
func (f *fakeEnv) SetStorage(context.Context, string, any) error         { return nil }
func (f *fakeEnv) Fetch(ctx context.Context, req env.HTTPRequest[any]) (env.FetchResult, error) {
	return f.handler(req)
}

func jsonResult(v any) (env.FetchResult, error) {
	body, err := json.Marshal(v)
	return env.FetchResult{StatusCode: 200, Body: body}, err
}

func oneAddon(catalogType, catalogID string) catalogtypes.Descriptor {
	return catalogtypes.Descriptor{
		TransportURL: "https://addon.example/manifest.json",
		Manifest: catalogtypes.Manifest{
			ID: "x", Name: "X", Version: "1.0.0",
			Resources: []catalogtypes.ManifestResource{catalogtypes.ShortResource("catalog")},
			Catalogs:  []catalogtypes.ManifestCatalog{{Type: catalogType, ID: catalogID}},
		},
	}
}

func TestCatalogLoadFetchesOnePage(t *testing.T) {
	e := &fakeEnv{now: time.UnixMilli(1000), handler: func(req env.HTTPRequest[any]) (env.FetchResult, error) {
		return jsonResult(map[string]any{"metas": []addon.MetaPreview{{ID: "tt1", Type: "movie", Name: "A"}}})
	}}
	m := NewCatalogWithFilters[addon.MetaPreview]()
	addons := []catalogtypes.Descriptor{oneAddon("movie", "top")}
	eff := m.Load(e, addons, addons[0].TransportURL, "movie", "top", nil, 0)
	require.True(t, eff.Changed)
	require.Len(t, eff.Futures, 1)

	msg := eff.Futures[0](context.Background())
	result, ok := msg.Payload.(ResourceResult[[]addon.MetaPreview])
	require.True(t, ok)

	applyEff := m.HandleResourceReceived(result)
	assert.True(t, applyEff.Changed)
	require.Len(t, m.Catalog, 1)
	require.NotNil(t, m.Catalog[0].Content)
	assert.True(t, m.Catalog[0].Content.IsReady())
	assert.Equal(t, "tt1", m.Catalog[0].Content.Value[0].ID)
}

func TestCatalogSnapsUnknownSelectionToNearestValid(t *testing.T) {
	e := &fakeEnv{now: time.UnixMilli(1000), handler: func(req env.HTTPRequest[any]) (env.FetchResult, error) {
		return jsonResult(map[string]any{"metas": []addon.MetaPreview{}})
	}}
	m := NewCatalogWithFilters[addon.MetaPreview]()
	addons := []catalogtypes.Descriptor{oneAddon("movie", "top")}
	m.Load(e, addons, addons[0].TransportURL, "movie", "does-not-exist", nil, 0)
	require.NotNil(t, m.Selected)
	assert.Equal(t, "top", m.Selected.Request.Path.ID)
}

func TestCatalogStaleResponseDiscarded(t *testing.T) {
	e := &fakeEnv{now: time.UnixMilli(1000)}
	m := NewCatalogWithFilters[addon.MetaPreview]()
	addons := []catalogtypes.Descriptor{oneAddon("movie", "top")}
	m.Load(e, addons, addons[0].TransportURL, "movie", "top", nil, 0)
	staleReq := m.Selected.Request
	// Switch selection away before the stale response arrives.
	m.Selected.Request.Path.ID = "something-else"

	result := ResourceResult[[]addon.MetaPreview]{Request: staleReq}
	eff := m.HandleResourceReceived(result)
	assert.False(t, eff.Changed, "a response for a superseded request must not change state")
}

func TestIsLastPageFromFewerThanPageSize(t *testing.T) {
	content := loadable.Ready[[]addon.MetaPreview, loadable.ResourceError]([]addon.MetaPreview{{ID: "tt1"}})
	assert.True(t, IsLastPage(content, nil))
}
