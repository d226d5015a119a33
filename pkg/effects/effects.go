// Package effects defines the value types that let Model.Update stay
// synchronous: side effects are returned as data (a Future to run later)
// rather than awaited in place.
package effects

import "context"

// MsgKind discriminates the Msg union a resolved Future produces.
type MsgKind int

const (
	// Internal messages re-enter Model.Update under the runtime's write
	// lock (e.g. a resource fetch's decoded result).
	Internal MsgKind = iota
	// Event messages are forwarded to subscribers as RuntimeEvent.CoreEvent
	// without touching the model.
	Event
	// Action is never a legal resolution kind for a Future; the runtime
	// treats a Future resolving to Action as an invariant violation.
	Action
)

// Msg is the tagged union a resolved Future produces: an internal message
// that re-enters the model, a user-facing event, or (illegally) an
// action. Name identifies which concrete message this is (e.g.
// "AuthenticateResult", "ResourceResponseReceived"); Payload carries its
// data.
type Msg struct {
	Kind    MsgKind
	Name    string
	Payload any
}

// NewInternal builds an Internal-kind message.
func NewInternal(name string, payload any) Msg { return Msg{Kind: Internal, Name: name, Payload: payload} }

// NewEvent builds an Event-kind message.
func NewEvent(name string, payload any) Msg { return Msg{Kind: Event, Name: name, Payload: payload} }

// Future is a side effect Model.Update returns instead of performing: the
// runtime spawns it via Environment.Exec and feeds its result back in as
// a Msg once it resolves. ctx is cancelled only on process shutdown —
// there is no per-effect cancellation primitive; stale results are
// discarded by the receiving model via structural request comparison.
type Future func(ctx context.Context) Msg

// Effects is what Model.Update returns: zero or more Futures to spawn,
// plus whether the model actually changed (the runtime only emits
// RuntimeEvent.NewState when Changed is true).
type Effects struct {
	Futures []Future
	Changed bool
}

// None is the empty, unchanged Effects value.
func None() Effects { return Effects{} }

// Changed is the empty Effects value with the changed flag set, for
// updates that mutate state synchronously without spawning any future.
func Changed() Effects { return Effects{Changed: true} }

// FromFuture wraps a single Future as spawnable Effects.
func FromFuture(f Future) Effects { return Effects{Futures: []Future{f}} }

// FromFutureChanged is FromFuture plus a changed flag, for updates that
// both mutate state and spawn a future in the same step (e.g. optimistic
// local mutation followed by a network push).
func FromFutureChanged(f Future) Effects { return Effects{Futures: []Future{f}, Changed: true} }

// Join concatenates several Effects in order, preserving the sequence
// Futures were produced in (the runtime runs resolved messages in this
// order), and ORs their Changed flags.
func Join(all ...Effects) Effects {
	joined := Effects{}
	for _, e := range all {
		joined.Futures = append(joined.Futures, e.Futures...)
		joined.Changed = joined.Changed || e.Changed
	}
	return joined
}
