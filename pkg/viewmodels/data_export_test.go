package viewmodels

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/catalogcore/pkg/env"
	"github.com/tomtom215/catalogcore/pkg/loadable"
)

func TestDataExportRequestSucceeds(t *testing.T) {
	e := &fakeEnv{now: time.UnixMilli(1000), handler: func(req env.HTTPRequest[any]) (env.FetchResult, error) {
		return jsonResult(map[string]any{"result": "https://example.com/export/abc"})
	}}
	m := NewDataExport()
	eff := m.Request(e, "https://api.example.com", "authkey")
	require.True(t, eff.Changed)
	require.Len(t, eff.Futures, 1)
	require.True(t, m.URL.IsLoading())

	msg := eff.Futures[0](context.Background())
	result := msg.Payload.(loadable.Loadable[string, loadable.ResourceError])
	m.HandleReceived(result)
	require.True(t, m.URL.IsReady())
	assert.Equal(t, "https://example.com/export/abc", m.URL.Value)
}

func TestDataExportRequestSurfacesAPIError(t *testing.T) {
	e := &fakeEnv{now: time.UnixMilli(1000), handler: func(req env.HTTPRequest[any]) (env.FetchResult, error) {
		return jsonResult(map[string]any{"error": map[string]any{"code": 1, "message": "nope"}})
	}}
	m := NewDataExport()
	eff := m.Request(e, "https://api.example.com", "authkey")
	msg := eff.Futures[0](context.Background())
	result := msg.Payload.(loadable.Loadable[string, loadable.ResourceError])
	m.HandleReceived(result)
	assert.True(t, m.URL.IsErr())
}
