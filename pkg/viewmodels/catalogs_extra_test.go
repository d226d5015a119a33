package viewmodels

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/catalogcore/pkg/addon"
	"github.com/tomtom215/catalogcore/pkg/catalogtypes"
	"github.com/tomtom215/catalogcore/pkg/env"
)

func TestCatalogsWithExtraFetchesOneRowPerCatalog(t *testing.T) {
	e := &fakeEnv{now: time.UnixMilli(1000), handler: func(req env.HTTPRequest[any]) (env.FetchResult, error) {
		return jsonResult(map[string]any{"metas": []addon.MetaPreview{{ID: "tt1", Type: "movie"}}})
	}}
	addons := []catalogtypes.Descriptor{oneAddon("movie", "top"), oneAddon("series", "popular")}
	m := NewCatalogsWithExtra[addon.MetaPreview]()
	eff := m.Load(e, addons, nil, nil)
	require.True(t, eff.Changed)
	require.Len(t, eff.Futures, 2)
	require.Len(t, m.Rows, 2)
	assert.True(t, m.Rows[0].Content.IsLoading())
}

func TestCatalogsWithExtraSkipsAlreadyResolvedRowsOnReload(t *testing.T) {
	e := &fakeEnv{now: time.UnixMilli(1000), handler: func(req env.HTTPRequest[any]) (env.FetchResult, error) {
		return jsonResult(map[string]any{"metas": []addon.MetaPreview{{ID: "tt1", Type: "movie"}}})
	}}
	addons := []catalogtypes.Descriptor{oneAddon("movie", "top")}
	m := NewCatalogsWithExtra[addon.MetaPreview]()
	eff := m.Load(e, addons, nil, nil)
	msg := eff.Futures[0](context.Background())
	result := msg.Payload.(ResourceResult[[]addon.MetaPreview])
	m.HandleResourceReceived(result)
	require.True(t, m.Rows[0].Content.IsReady())

	eff2 := m.Load(e, addons, nil, nil)
	assert.Empty(t, eff2.Futures, "a resolved row should not be refetched on a matching reload")
}

func TestCatalogsWithExtraDiscardsStaleRow(t *testing.T) {
	e := &fakeEnv{now: time.UnixMilli(1000)}
	addons := []catalogtypes.Descriptor{oneAddon("movie", "top")}
	m := NewCatalogsWithExtra[addon.MetaPreview]()
	m.Load(e, addons, nil, nil)
	staleReq := m.Rows[0].Request

	otherAddons := []catalogtypes.Descriptor{oneAddon("series", "popular")}
	m.Load(e, otherAddons, nil, nil)

	eff := m.HandleResourceReceived(ResourceResult[[]addon.MetaPreview]{Request: staleReq})
	assert.False(t, eff.Changed)
}
