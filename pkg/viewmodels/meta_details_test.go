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
	"github.com/tomtom215/catalogcore/pkg/loadable"
)

func metaAddon() catalogtypes.Descriptor {
	return catalogtypes.Descriptor{
		TransportURL: "https://addon.example/manifest.json",
		Manifest: catalogtypes.Manifest{
			ID: "x", Name: "X", Version: "1.0.0",
			Resources: []catalogtypes.ManifestResource{catalogtypes.ShortResource("meta"), catalogtypes.ShortResource("stream")},
		},
	}
}

func TestMetaDetailsLoadFetchesAcrossAddons(t *testing.T) {
	e := &fakeEnv{now: time.UnixMilli(1000), handler: func(req env.HTTPRequest[any]) (env.FetchResult, error) {
		return jsonResult(map[string]any{"meta": addon.Meta{ID: "tt1", Type: "series", Name: "Show", Videos: []addon.MetaVideo{{ID: "tt1:1:1"}, {ID: "tt1:1:2"}}}})
	}}
	m := NewMetaDetails()
	eff := m.Load(e, []catalogtypes.Descriptor{metaAddon()}, "series", "tt1")
	require.True(t, eff.Changed)
	require.Len(t, eff.Futures, 1)

	msg := eff.Futures[0](context.Background())
	result := msg.Payload.(ResourceResult[addon.Meta])
	applyEff := m.HandleMetaReceived(result)
	assert.True(t, applyEff.Changed)

	got, ok := m.Meta()
	require.True(t, ok)
	assert.Equal(t, "Show", got.Name)
	assert.Len(t, got.Videos, 2)
}

func TestMetaDetailsSelectVideoFetchesStreams(t *testing.T) {
	e := &fakeEnv{now: time.UnixMilli(1000), handler: func(req env.HTTPRequest[any]) (env.FetchResult, error) {
		return jsonResult(map[string]any{"streams": []catalogtypes.Stream{{Name: strptr("720p")}}})
	}}
	m := NewMetaDetails()
	m.Selected = &MetaDetailsSelected{Type: "movie", ID: "tt1"}
	eff := m.SelectVideo(e, []catalogtypes.Descriptor{metaAddon()}, "tt1")
	require.True(t, eff.Changed)
	require.Len(t, eff.Futures, 1)

	msg := eff.Futures[0](context.Background())
	result := msg.Payload.(ResourceResult[[]catalogtypes.Stream])
	m.HandleStreamReceived(result)

	stream, ok := m.GuessStream()
	require.True(t, ok)
	assert.Equal(t, "720p", *stream.Name)
}

func TestMetaDetailsWatchedOverlayRoundTrips(t *testing.T) {
	m := NewMetaDetails()
	m.Selected = &MetaDetailsSelected{Type: "series", ID: "tt1"}

	// Inject a resolved meta directly, bypassing the fetch path, since
	// LoadWatched only needs Meta() to succeed.
	req := catalogtypes.ResourceRequest{Base: "https://addon.example/manifest.json", Path: catalogtypes.ResourcePath{Resource: "meta", Type: "series", ID: "tt1"}}
	m.MetaItems = loadable.UpdatePlan[addon.Meta](nil, []catalogtypes.ResourceRequest{req})
	result := ResourceResult[addon.Meta]{
		Request:  req,
		Loadable: loadable.Ready[addon.Meta, loadable.ResourceError](addon.Meta{ID: "tt1", Videos: []addon.MetaVideo{{ID: "v1"}, {ID: "v2"}}}),
	}
	m.HandleMetaReceived(result)

	m.LoadWatched(catalogtypes.LibraryItemState{})
	assert.False(t, m.IsVideoWatched("v1"))

	token, err := m.ToggleWatched("v1", true)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.True(t, m.IsVideoWatched("v1"))
}

func strptr(s string) *string { return &s }
