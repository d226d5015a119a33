package viewmodels

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/catalogcore/pkg/catalogtypes"
	"github.com/tomtom215/catalogcore/pkg/env"
)

func TestAddonDetailsLoadFetchesManifest(t *testing.T) {
	e := &fakeEnv{now: time.UnixMilli(1000), handler: func(req env.HTTPRequest[any]) (env.FetchResult, error) {
		return jsonResult(catalogtypes.Manifest{ID: "x", Name: "X Addon", Version: "1.0.0"})
	}}
	m := NewAddonDetails()
	eff := m.Load(e, "https://addon.example/manifest.json")
	require.True(t, eff.Changed)
	require.Len(t, eff.Futures, 1)
	require.True(t, m.Manifest.IsLoading())

	msg := eff.Futures[0](context.Background())
	result := msg.Payload.(ManifestResult)
	applyEff := m.HandleManifestReceived(result)
	assert.True(t, applyEff.Changed)
	require.True(t, m.Manifest.IsReady())
	assert.Equal(t, "X Addon", m.Manifest.Value.Name)
}

func TestAddonDetailsDoubleLoadIsNoOpOnceResolved(t *testing.T) {
	e := &fakeEnv{now: time.UnixMilli(1000), handler: func(req env.HTTPRequest[any]) (env.FetchResult, error) {
		return jsonResult(catalogtypes.Manifest{ID: "x"})
	}}
	m := NewAddonDetails()
	eff := m.Load(e, "https://addon.example/manifest.json")
	msg := eff.Futures[0](context.Background())
	m.HandleManifestReceived(msg.Payload.(ManifestResult))

	eff2 := m.Load(e, "https://addon.example/manifest.json")
	assert.Empty(t, eff2.Futures)
}

func TestAddonDetailsIsInstalled(t *testing.T) {
	m := NewAddonDetails()
	m.TransportURL = "https://addon.example/manifest.json"
	installed := []catalogtypes.Descriptor{{TransportURL: "https://addon.example/manifest.json"}}
	assert.True(t, m.IsInstalled(installed))
	assert.False(t, m.IsInstalled(nil))
}
