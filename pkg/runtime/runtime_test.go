package runtime

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/catalogcore/pkg/catalogtypes"
	"github.com/tomtom215/catalogcore/pkg/ctx"
	"github.com/tomtom215/catalogcore/pkg/env"
)

// fakeEnv is a synchronous-Exec env.Environment: futures run inline on the
// calling goroutine. An Internal message a future resolves to is still
// published to the runtime's bus and applied by its loop goroutine, so it
// can land after Dispatch returns.
type fakeEnv struct {
	now time.Time
}

func newFakeEnv() *fakeEnv { return &fakeEnv{now: time.UnixMilli(1_700_000_000_000)} }

func (f *fakeEnv) Now() time.Time { return f.now }

func (f *fakeEnv) Exec(ctx context.Context, task func(context.Context)) { task(ctx) }

func (f *fakeEnv) RandomU64() uint64 { return 7 }

func (f *fakeEnv) AnalyticsContext() map[string]any { return map[string]any{} }

func (f *fakeEnv) AddonTransport(baseURL string) env.AddonTransportFactory { return nil }

func (f *fakeEnv) GetStorage(ctx context.Context, key string, out any) (bool, error) {
	return false, nil
}

func (f *fakeEnv) SetStorage(ctx context.Context, key string, value any) error { return nil }

func (f *fakeEnv) Fetch(ctx context.Context, req env.HTTPRequest[any]) (env.FetchResult, error) {
	return env.FetchResult{StatusCode: 200, Body: []byte("{}")}, nil
}

func newTestRuntime(t *testing.T) (*Runtime, *fakeEnv) {
	t.Helper()
	fe := newFakeEnv()
	root := ctx.New(nil, "http://127.0.0.1:11470", fe.now.UnixMilli())
	model := NewModel(root)
	rt := New(context.Background(), model, fe, Config{APIURL: "https://api.example.invalid"})
	t.Cleanup(rt.Close)
	return rt, fe
}

// TestDispatchEmitsNewStateOnlyWhenChanged asserts testable property 5:
// the runtime never emits NewState without some sub-model reporting
// changed. DismissNotificationItem for an id with no pending
// notifications is a genuine no-op (Ctx.DismissNotificationItem returns
// effects.None in that case) and must not emit NewState.
func TestDispatchEmitsNewStateOnlyWhenChanged(t *testing.T) {
	rt, _ := newTestRuntime(t)
	events, unsub := rt.Subscribe(4)
	defer unsub()

	err := rt.Dispatch(Action{Field: FieldCtx, Verb: VerbDismissNotificationItem, Payload: "tt-not-pending"})
	require.NoError(t, err)

	err = rt.Dispatch(Action{Field: FieldCtx, Verb: VerbRecordSearchHistory, Payload: "matrix"})
	require.NoError(t, err)

	select {
	case evt := <-events:
		assert.Equal(t, NewState, evt.Kind)
	case <-time.After(time.Second):
		t.Fatal("expected a NewState event after RecordSearchHistory")
	}

	select {
	case evt := <-events:
		t.Fatalf("unexpected second event %+v; a genuine no-op must not emit NewState", evt)
	default:
	}
}

// TestPlayerProgressUpdatesLibraryItem exercises the runtime's
// Player-progress subscriber wiring: a progress push for an id that is
// already a library item must mutate that item's watch state, per
// spec.md §4.7's Player contract.
func TestPlayerProgressUpdatesLibraryItem(t *testing.T) {
	rt, _ := newTestRuntime(t)

	item := catalogtypes.LibraryItem{ID: "tt0111161", Name: "The Shawshank Redemption", Type: "movie"}
	rt.Dispatch(Action{Field: FieldCtx, Verb: VerbAddToLibrary, Payload: item})

	stream := catalogtypes.Stream{Source: catalogtypes.StreamSource{Kind: catalogtypes.StreamSourceURL, URL: "https://example.invalid/s.mp4"}}
	err := rt.Dispatch(Action{Field: FieldPlayer, Verb: VerbLoad, Payload: PlayerLoadPayload{
		Stream: stream, MetaID: "tt0111161", VideoID: "tt0111161", LibraryItemID: "tt0111161",
	}})
	require.NoError(t, err)

	// 95/100 crosses WatchedCrossingRatio, so this single progress push
	// must both set the time offset and count as one watch.
	err = rt.Dispatch(Action{Field: FieldPlayer, Verb: VerbPlayerTimeChanged, Payload: PlayerTimeChangedPayload{
		Time: 95, Duration: 100,
	}})
	require.NoError(t, err)

	updated, ok := rt.model.Ctx.Library.Items["tt0111161"]
	require.True(t, ok)
	assert.Equal(t, uint64(95), updated.State.TimeOffset)
	assert.Equal(t, uint32(1), updated.State.TimesWatched)
}
