package viewmodels

import (
	"context"
	"time"

	"github.com/tomtom215/catalogcore/pkg/catalogtypes"
	"github.com/tomtom215/catalogcore/pkg/effects"
	"github.com/tomtom215/catalogcore/pkg/env"
)

// PlayerPhase is the playback state machine: Idle (nothing selected),
// Loading (a stream is selected but hasn't reported its first time update),
// Ready (actively playing/paused), Ended (playback reached its end).
type PlayerPhase int

const (
	PhaseIdle PlayerPhase = iota
	PhaseLoading
	PhaseReady
	PhaseEnded
)

// PlayerPushInterval bounds how often TimeChanged pushes progress to the
// library, so scrubbing/frequent timeupdate events don't each trigger a
// network push.
const PlayerPushInterval = 15 * time.Second

// PlayerProgressMsg names the Event every progress push emits; a
// subscriber (the runtime's Ctx wiring) turns it into
// Ctx.UpdateLibraryItem.
const PlayerProgressMsg = "PlayerProgressChanged"

// PlayerProgress is the payload of PlayerProgressMsg.
type PlayerProgress struct {
	LibraryItemID string
	VideoID       string
	Time          uint64
	Duration      uint64
	Ended         bool
}

// Player tracks one playback session: the selected stream, its current
// phase, and the time/duration the host player last reported.
type Player struct {
	Phase         PlayerPhase
	Stream        catalogtypes.Stream
	MetaID        string
	VideoID       string
	LibraryItemID string
	Time          uint64
	Duration      uint64

	lastPushed time.Time
}

// NewPlayer builds an idle player.
func NewPlayer() *Player { return &Player{} }

// Load selects a stream and enters Loading, resetting time/duration; the
// host player is expected to report its first TimeChanged once the stream
// actually starts.
func (p *Player) Load(stream catalogtypes.Stream, metaID, videoID, libraryItemID string) effects.Effects {
	p.Phase = PhaseLoading
	p.Stream = stream
	p.MetaID = metaID
	p.VideoID = videoID
	p.LibraryItemID = libraryItemID
	p.Time = 0
	p.Duration = 0
	p.lastPushed = time.Time{}
	return effects.Changed()
}

// TimeChanged records a playback position update from the host player,
// transitioning Loading -> Ready on the first report, and pushes progress
// to the library at most once per PlayerPushInterval of wall-clock time.
func (p *Player) TimeChanged(environ env.Environment, playTime, duration uint64) effects.Effects {
	if p.Phase == PhaseIdle || p.Phase == PhaseEnded {
		return effects.None()
	}
	p.Phase = PhaseReady
	p.Time = playTime
	p.Duration = duration

	now := environ.Now()
	if !p.lastPushed.IsZero() && now.Sub(p.lastPushed) < PlayerPushInterval {
		return effects.Changed()
	}
	p.lastPushed = now
	return effects.Join(effects.Changed(), p.pushProgressEffect(false))
}

// Ended marks playback complete and unconditionally pushes a final,
// 100%-watched progress update regardless of the push-interval debounce.
func (p *Player) Ended() effects.Effects {
	if p.Phase == PhaseIdle {
		return effects.None()
	}
	p.Phase = PhaseEnded
	if p.Duration > 0 {
		p.Time = p.Duration
	}
	return effects.Join(effects.Changed(), p.pushProgressEffect(true))
}

// Stop returns the player to Idle without a final push (the "close
// player without finishing" path).
func (p *Player) Stop() effects.Effects {
	if p.Phase == PhaseIdle {
		return effects.None()
	}
	*p = Player{}
	return effects.Changed()
}

func (p *Player) pushProgressEffect(ended bool) effects.Effects {
	payload := PlayerProgress{
		LibraryItemID: p.LibraryItemID,
		VideoID:       p.VideoID,
		Time:          p.Time,
		Duration:      p.Duration,
		Ended:         ended,
	}
	return effects.FromFuture(func(_ context.Context) effects.Msg {
		return effects.NewEvent(PlayerProgressMsg, payload)
	})
}
