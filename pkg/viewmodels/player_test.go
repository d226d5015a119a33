package viewmodels

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/catalogcore/pkg/catalogtypes"
)

func TestPlayerLoadEntersLoading(t *testing.T) {
	p := NewPlayer()
	eff := p.Load(catalogtypes.Stream{}, "tt1", "tt1:1:1", "tt1")
	require.True(t, eff.Changed)
	assert.Equal(t, PhaseLoading, p.Phase)
}

func TestPlayerTimeChangedEntersReadyAndPushesFirstUpdate(t *testing.T) {
	e := &fakeEnv{now: time.UnixMilli(1000)}
	p := NewPlayer()
	p.Load(catalogtypes.Stream{}, "tt1", "tt1:1:1", "tt1")
	eff := p.TimeChanged(e, 5000, 120000)
	assert.Equal(t, PhaseReady, p.Phase)
	require.Len(t, eff.Futures, 1)

	msg := eff.Futures[0](context.Background())
	progress := msg.Payload.(PlayerProgress)
	assert.Equal(t, uint64(5000), progress.Time)
	assert.False(t, progress.Ended)
}

func TestPlayerTimeChangedDebouncesWithinPushInterval(t *testing.T) {
	e := &fakeEnv{now: time.UnixMilli(1000)}
	p := NewPlayer()
	p.Load(catalogtypes.Stream{}, "tt1", "tt1:1:1", "tt1")
	p.TimeChanged(e, 1000, 120000)

	e.now = e.now.Add(5 * time.Second)
	eff := p.TimeChanged(e, 6000, 120000)
	assert.True(t, eff.Changed)
	assert.Empty(t, eff.Futures, "a time update within the push interval must not push again")
}

func TestPlayerEndedAlwaysPushesRegardlessOfDebounce(t *testing.T) {
	e := &fakeEnv{now: time.UnixMilli(1000)}
	p := NewPlayer()
	p.Load(catalogtypes.Stream{}, "tt1", "tt1:1:1", "tt1")
	p.TimeChanged(e, 1000, 120000)

	eff := p.Ended()
	assert.Equal(t, PhaseEnded, p.Phase)
	require.Len(t, eff.Futures, 1)
	msg := eff.Futures[0](context.Background())
	progress := msg.Payload.(PlayerProgress)
	assert.True(t, progress.Ended)
	assert.Equal(t, p.Duration, progress.Time)
}

func TestPlayerStopResetsToIdle(t *testing.T) {
	p := NewPlayer()
	p.Load(catalogtypes.Stream{}, "tt1", "tt1:1:1", "tt1")
	eff := p.Stop()
	assert.True(t, eff.Changed)
	assert.Equal(t, PhaseIdle, p.Phase)
}
