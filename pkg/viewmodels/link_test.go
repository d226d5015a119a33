package viewmodels

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/catalogcore/internal/linkcodes"
	"github.com/tomtom215/catalogcore/pkg/effects"
	"github.com/tomtom215/catalogcore/pkg/env"
	"github.com/tomtom215/catalogcore/pkg/loadable"
)

type linkedAuth struct {
	AuthKey string `json:"authKey"`
}

func newTestSigner(t *testing.T) *linkcodes.Signer {
	t.Helper()
	signer, err := linkcodes.NewSigner([]byte("this_is_a_very_long_secret_key_for_link_tests_0"))
	require.NoError(t, err)
	return signer
}

func TestLinkCreateCodeFetchesCode(t *testing.T) {
	signer := newTestSigner(t)
	e := &fakeEnv{now: time.UnixMilli(1000), handler: func(req env.HTTPRequest[any]) (env.FetchResult, error) {
		return jsonResult(map[string]any{"result": map[string]any{"code": "ABCDEF"}})
	}}

	m := NewLink[linkedAuth]()
	eff := m.CreateCode(e, signer, "https://api.example.com", 30*time.Second)
	require.True(t, eff.Changed)
	require.Len(t, eff.Futures, 1)
	require.True(t, m.Code.IsLoading())

	msg := eff.Futures[0](context.Background())
	result := msg.Payload.(loadable.Loadable[LinkCodeResponse, loadable.ResourceError])
	m.HandleCodeReceived(result)
	require.True(t, m.Code.IsReady())
	assert.Equal(t, "ABCDEF", m.Code.Value.Code)
}

func TestLinkReadDataReturnsOnceLinked(t *testing.T) {
	signer := newTestSigner(t)
	attempts := 0
	e := &fakeEnv{now: time.UnixMilli(1000), handler: func(req env.HTTPRequest[any]) (env.FetchResult, error) {
		attempts++
		if attempts < 3 {
			return jsonResult(map[string]any{"result": nil})
		}
		return jsonResult(map[string]any{"result": linkedAuth{AuthKey: "key-123"}})
	}}

	token, err := signer.CreateCode("ABCDEF", e.now, time.Minute)
	require.NoError(t, err)

	m := NewLink[linkedAuth]()
	ready := loadable.Ready[LinkCodeResponse, loadable.ResourceError](LinkCodeResponse{Code: "ABCDEF", token: token})
	m.Code = &ready

	eff := m.ReadData(e, signer, "https://api.example.com", 10*time.Millisecond)
	require.Len(t, eff.Futures, 1)

	done := make(chan effects.Msg, 1)
	go func() { done <- eff.Futures[0](context.Background()) }()

	select {
	case msg := <-done:
		result := msg.Payload.(loadable.Loadable[linkedAuth, loadable.ResourceError])
		m.HandleDataReceived(result)
	case <-time.After(2 * time.Second):
		t.Fatal("ReadData poll loop did not resolve in time")
	}
	require.True(t, m.Data.IsReady())
	assert.Equal(t, "key-123", m.Data.Value.AuthKey)
	assert.GreaterOrEqual(t, attempts, 3)
}

func TestLinkReadDataRejectsExpiredCodeWithoutPolling(t *testing.T) {
	signer := newTestSigner(t)
	calls := 0
	e := &fakeEnv{now: time.UnixMilli(1000), handler: func(req env.HTTPRequest[any]) (env.FetchResult, error) {
		calls++
		return jsonResult(map[string]any{"result": nil})
	}}

	token, err := signer.CreateCode("ABCDEF", time.UnixMilli(0), time.Millisecond)
	require.NoError(t, err)

	m := NewLink[linkedAuth]()
	ready := loadable.Ready[LinkCodeResponse, loadable.ResourceError](LinkCodeResponse{Code: "ABCDEF", token: token})
	m.Code = &ready

	eff := m.ReadData(e, signer, "https://api.example.com", 10*time.Millisecond)
	msg := eff.Futures[0](context.Background())
	result := msg.Payload.(loadable.Loadable[linkedAuth, loadable.ResourceError])
	m.HandleDataReceived(result)

	require.True(t, m.Data.IsErr())
	assert.Equal(t, 0, calls, "an already-expired token must never reach the network")
}
