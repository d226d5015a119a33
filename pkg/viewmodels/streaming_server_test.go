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

func TestStreamingServerLoadSettings(t *testing.T) {
	e := &fakeEnv{now: time.UnixMilli(1000), handler: func(req env.HTTPRequest[any]) (env.FetchResult, error) {
		return jsonResult(ServerSettings{CacheRoot: "/data", MaxConnections: 55})
	}}
	m := NewStreamingServer("http://127.0.0.1:11470")
	eff := m.LoadSettings(e)
	require.True(t, eff.Changed)
	require.Len(t, eff.Futures, 1)
	require.True(t, m.Settings.IsLoading())

	msg := eff.Futures[0](context.Background())
	result := msg.Payload.(loadable.Loadable[ServerSettings, loadable.ResourceError])
	m.HandleSettingsReceived(result)
	require.True(t, m.Settings.IsReady())
	assert.Equal(t, 55, m.Settings.Value.MaxConnections)
}

func TestStreamingServerRegisterTorrentSkipsDuplicate(t *testing.T) {
	calls := 0
	e := &fakeEnv{now: time.UnixMilli(1000), handler: func(req env.HTTPRequest[any]) (env.FetchResult, error) {
		calls++
		return env.FetchResult{StatusCode: 200}, nil
	}}
	m := NewStreamingServer("http://127.0.0.1:11470")
	eff := m.RegisterTorrent(e, "deadbeef", nil, nil)
	require.Len(t, eff.Futures, 1)
	eff.Futures[0](context.Background())
	assert.Equal(t, 1, calls)

	eff2 := m.RegisterTorrent(e, "deadbeef", nil, nil)
	assert.Empty(t, eff2.Futures, "re-registering the same torrent must not re-POST")
	assert.Equal(t, 1, calls)
}
