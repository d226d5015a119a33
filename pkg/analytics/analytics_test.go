package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/catalogcore/pkg/env"
)

// fakeEnv is a minimal env.Environment stub; Emit only calls Now and
// AnalyticsContext, the rest panic if exercised.
type fakeEnv struct {
	now time.Time
}

func (f fakeEnv) Now() time.Time                  { return f.now }
func (f fakeEnv) Exec(context.Context, func(context.Context)) {}
func (f fakeEnv) RandomU64() uint64               { return 0 }
func (f fakeEnv) AnalyticsContext() map[string]any { return map[string]any{"platform": "test"} }
func (f fakeEnv) AddonTransport(string) env.AddonTransportFactory { return nil }
func (f fakeEnv) GetStorage(context.Context, string, any) (bool, error) { return false, nil }
func (f fakeEnv) SetStorage(context.Context, string, any) error         { return nil }
func (f fakeEnv) Fetch(context.Context, env.HTTPRequest[any]) (env.FetchResult, error) {
	return env.FetchResult{}, nil
}

type fakePoster struct {
	code uint64
	err  error
	got  []Event
}

func (p *fakePoster) PostEvents(_ context.Context, _ string, events []Event) (uint64, error) {
	p.got = events
	return p.code, p.err
}

func TestEmitDropsAnonymous(t *testing.T) {
	q := New()
	q.Emit(fakeEnv{now: time.UnixMilli(100)}, "", "x", nil)
	assert.Equal(t, 0, q.Len())
}

func TestEmitBatchesByAuthKey(t *testing.T) {
	q := New()
	e := fakeEnv{now: time.UnixMilli(100)}
	q.Emit(e, "key1", "x", nil)
	q.Emit(e, "key1", "y", nil)
	q.Emit(e, "key2", "z", nil)
	require.Equal(t, 2, q.Len())
}

func TestFlushNextRevertOnFailure(t *testing.T) {
	q := New()
	e := fakeEnv{now: time.UnixMilli(100)}
	q.Emit(e, "key1", "x", nil)

	poster := &fakePoster{err: errors.New("boom")}
	run, ok := q.FlushNext(poster)
	require.True(t, ok)
	assert.True(t, q.HasPending())

	result := run(context.Background())
	assert.True(t, result.Reverted)
	q.ApplyFlushResult(result)

	assert.False(t, q.HasPending())
	assert.Equal(t, 1, q.Len(), "reverted batch must be back at the front of the queue")

	poster2 := &fakePoster{code: 1}
	run2, ok := q.FlushNext(poster2)
	require.True(t, ok)
	result2 := run2(context.Background())
	assert.False(t, result2.Reverted)
	q.ApplyFlushResult(result2)
	assert.Equal(t, 0, q.Len())
	require.Len(t, poster2.got, 1)
	assert.Equal(t, "x", poster2.got[0].Name)
}

func TestFlushNextRefusesSecondInFlight(t *testing.T) {
	q := New()
	e := fakeEnv{now: time.UnixMilli(100)}
	q.Emit(e, "key1", "x", nil)
	q.Emit(e, "key2", "y", nil)

	poster := &fakePoster{code: 1}
	_, ok := q.FlushNext(poster)
	require.True(t, ok)

	_, ok = q.FlushNext(poster)
	assert.False(t, ok, "a second FlushNext while one is pending must refuse")
}

func TestSequenceNumbersAreMonotone(t *testing.T) {
	q := New()
	e := fakeEnv{now: time.UnixMilli(100)}
	q.Emit(e, "key1", "a", nil)
	q.Emit(e, "key1", "b", nil)
	batch := q.queue.Front().Value.(*Batch)
	require.Len(t, batch.Events, 2)
	assert.Less(t, batch.Events[0].Number, batch.Events[1].Number)
}

func TestFlushAllDrainsQueue(t *testing.T) {
	q := New()
	e := fakeEnv{now: time.UnixMilli(100)}
	q.Emit(e, "key1", "a", nil)
	q.Emit(e, "key2", "b", nil)
	require.Equal(t, 2, q.Len())

	runs := q.FlushAll(&fakePoster{code: 1})
	assert.Equal(t, 0, q.Len())
	assert.Len(t, runs, 2)
	for _, run := range runs {
		_, result := run(context.Background())
		assert.False(t, result.Reverted)
	}
}
