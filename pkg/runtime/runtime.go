package runtime

import (
	"context"
	"fmt"
	"sync"

	"github.com/tomtom215/catalogcore/pkg/effects"
	"github.com/tomtom215/catalogcore/pkg/env"
	"github.com/tomtom215/catalogcore/pkg/viewmodels"
)

// Runtime owns one Model and drives its dispatch loop: Dispatch runs
// Update under a write lock, spawns the returned Futures through
// Environment.Exec, and re-enters the loop with whatever Msg each Future
// resolves to. It is the only thing in this package that mutates Model
// concurrently with readers.
type Runtime struct {
	mu      sync.RWMutex
	model   *Model
	environ env.Environment
	cfg     Config
	bus     MsgBus
	hub     *Hub

	ctx    context.Context
	cancel context.CancelFunc
}

// New builds a Runtime around root and starts its internal dispatch loop.
// The returned Runtime must be Closed when the process shuts down.
func New(ctx context.Context, root *Model, environ env.Environment, cfg Config) *Runtime {
	runCtx, cancel := context.WithCancel(ctx)
	r := &Runtime{
		model:   root,
		environ: environ,
		cfg:     cfg,
		bus:     newChanBus(256),
		hub:     NewHub(256),
		ctx:     runCtx,
		cancel:  cancel,
	}
	go r.loop()
	return r
}

// Subscribe registers a new RuntimeEvent listener.
func (r *Runtime) Subscribe(capacity int) (<-chan RuntimeEvent, func()) {
	return r.hub.Subscribe(capacity)
}

// Snapshot returns an immutable, consistent-as-of-acquisition copy of the
// model, safe to read without racing Dispatch.
func (r *Runtime) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.model.Snapshot()
}

// Dispatch routes a into Update under the write lock, publishes the
// resulting internal messages and spawns the resulting futures, and
// returns any error Update itself reported (a caller bug, not a runtime
// fault). It never blocks on a subscriber or a future's completion.
func (r *Runtime) Dispatch(a Action) error {
	r.mu.Lock()
	eff, err := Update(r.model, r.environ, r.cfg, a)
	changed := eff.Changed
	r.mu.Unlock()

	if err != nil {
		return err
	}
	if changed {
		r.publishNewState()
	}
	r.spawn(eff.Futures)
	return nil
}

// publishNewState takes a fresh snapshot under the read lock and hands it
// to the hub; it never holds the write lock while a subscriber drains.
func (r *Runtime) publishNewState() {
	snap := r.Snapshot()
	r.hub.Publish(RuntimeEvent{Kind: NewState, Snapshot: snap})
}

// spawn submits every future to Environment.Exec; each resolved Msg is
// handed to applyMsg from inside the spawned task, never synchronously
// from Dispatch's caller.
func (r *Runtime) spawn(futures []effects.Future) {
	for _, f := range futures {
		future := f
		r.environ.Exec(r.ctx, func(taskCtx context.Context) {
			msg := future(taskCtx)
			r.applyMsg(msg)
		})
	}
}

// applyMsg routes a resolved Future's Msg back into the loop: Internal
// messages re-enter Update, Event messages are forwarded to subscribers
// untouched, and Action is an invariant violation — a Future must never
// resolve to one, since actions originate only from the UI.
func (r *Runtime) applyMsg(msg effects.Msg) {
	switch msg.Kind {
	case effects.Action:
		panic(fmt.Sprintf("runtime: future resolved to an Action message %q, which is illegal", msg.Name))
	case effects.Event:
		switch msg.Name {
		case viewmodels.PlayerProgressMsg:
			r.applyPlayerProgress(msg)
		case "NotificationsChanged":
			r.rerunContinueWatching()
		}
		r.hub.Publish(RuntimeEvent{Kind: CoreEvent, EventName: msg.Name, Payload: msg.Payload})
	default:
		r.bus.Publish(msg)
	}
}

// applyPlayerProgress is the runtime's subscriber wiring for
// viewmodels.PlayerProgressMsg: pkg/viewmodels has no dependency on
// pkg/ctx, so the Player view model can only describe a progress push as
// an Event; the runtime is what turns it into a LibraryItem mutation and
// pushes it through Ctx.UpdateLibraryItem. A progress report for an id
// with no existing library item is dropped silently (playback of
// not-yet-libraried content doesn't implicitly add it).
func (r *Runtime) applyPlayerProgress(msg effects.Msg) {
	progress, ok := msg.Payload.(viewmodels.PlayerProgress)
	if !ok || progress.LibraryItemID == "" {
		return
	}

	r.mu.Lock()
	item, ok := r.model.Ctx.Library.Items[progress.LibraryItemID]
	if !ok {
		r.mu.Unlock()
		return
	}
	item.ApplyProgress(r.environ.Now().UnixMilli(), progress.VideoID, progress.Time, progress.Duration)
	eff, err := r.model.Ctx.UpdateLibraryItem(r.environ, r.cfg.APIURL, item)
	r.mu.Unlock()
	if err != nil {
		return
	}

	if eff.Changed {
		r.publishNewState()
	}
	r.spawn(eff.Futures)
}

// rerunContinueWatching re-derives the continue-watching preview against
// the now-updated notifications bucket, per spec.md §4.5
// ("NotificationsChanged re-runs the continue-watching projection"). A
// no-op when the view model hasn't been loaded by any UI yet.
func (r *Runtime) rerunContinueWatching() {
	r.mu.Lock()
	loaded := r.model.ContinueWatching != nil
	if loaded {
		r.model.ContinueWatching.Load(r.model.Ctx.Library, r.model.Ctx.Notifications)
	}
	r.mu.Unlock()
	if loaded {
		r.publishNewState()
	}
}

// loop drains the internal message bus, applying each Internal message
// to the model under the write lock and republishing NewState when it
// changes something. This is the single path by which a resolved
// Future's result re-enters Model state.
func (r *Runtime) loop() {
	for {
		select {
		case <-r.ctx.Done():
			return
		case msg, ok := <-r.bus.Subscribe():
			if !ok {
				return
			}
			r.applyInternal(msg)
		}
	}
}

// applyInternal dispatches one resolved Internal message to the sub-model
// (or Ctx) that owns the corresponding Handle* method, then spawns any
// further futures that handler itself returns (e.g. a library sync that
// chains a follow-up push).
func (r *Runtime) applyInternal(msg effects.Msg) {
	r.mu.Lock()
	eff := dispatchInternal(r.model, r.environ, r.cfg, msg)
	r.mu.Unlock()

	if eff.Changed {
		r.publishNewState()
	}
	r.spawn(eff.Futures)
}

// Close stops the dispatch loop and the event hub. Outstanding futures
// already spawned through Environment.Exec are not waited on; Environment
// implementations are expected to honor context cancellation for any
// that are still in flight.
func (r *Runtime) Close() {
	r.cancel()
	r.hub.Close()
}
