// Package bus republishes pkg/runtime's in-process Hub fanout onto a
// watermill message.Publisher, so a second process (a companion sync
// daemon, a notification worker) can observe RuntimeEvents without
// linking against the core directly. The in-memory default (this file)
// needs nothing else running; build with -tags nats to back it with
// NATS JetStream instead (internal/bus/nats.go).
package bus

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	gochannel "github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	json "github.com/goccy/go-json"

	"github.com/tomtom215/catalogcore/pkg/runtime"
)

// RuntimeEventsTopic is the single topic every published RuntimeEvent is
// sent on; consumers filter by the wire envelope's Kind/EventName.
const RuntimeEventsTopic = "catalogcore.runtime_events"

// envelope is the wire shape of one published RuntimeEvent. Snapshot is
// intentionally omitted: it holds live sub-model pointers meant for
// same-process readers, not cross-process serialization. Cross-process
// consumers that need projected state should poll the host's own
// snapshot endpoint; the bus only carries CoreEvent-kind notifications
// and a change tick for NewState.
type envelope struct {
	Kind      string `json:"kind"`
	EventName string `json:"event_name,omitempty"`
	Payload   any    `json:"payload,omitempty"`
}

// Forwarder subscribes to a runtime.Hub and republishes every event onto
// a watermill publisher under RuntimeEventsTopic.
type Forwarder struct {
	pub       message.Publisher
	unsub     func()
	logger    watermill.LoggerAdapter
	closeOnce chan struct{}
}

// NewInMemory builds a Forwarder backed by watermill's in-process
// gochannel pub/sub — no external broker, suitable for a single-binary
// deployment or tests. The returned Subscriber is the same gochannel, for
// in-process consumers that prefer the pub/sub API over runtime.Hub
// directly.
func NewInMemory(r *runtime.Runtime) (*Forwarder, message.Subscriber) {
	logger := watermill.NopLogger{}
	gc := gochannel.NewGoChannel(gochannel.Config{}, logger)
	return newForwarder(r, gc, logger), gc
}

func newForwarder(r *runtime.Runtime, pub message.Publisher, logger watermill.LoggerAdapter) *Forwarder {
	f := &Forwarder{pub: pub, logger: logger, closeOnce: make(chan struct{})}
	ch, unsub := r.Subscribe(256)
	f.unsub = unsub
	go f.drain(ch)
	return f
}

func (f *Forwarder) drain(ch <-chan runtime.RuntimeEvent) {
	for {
		select {
		case <-f.closeOnce:
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			f.publish(ev)
		}
	}
}

func (f *Forwarder) publish(ev runtime.RuntimeEvent) {
	env := envelope{EventName: ev.EventName, Payload: ev.Payload}
	switch ev.Kind {
	case runtime.NewState:
		env.Kind = "new_state"
	case runtime.CoreEvent:
		env.Kind = "core_event"
	}

	data, err := json.Marshal(env)
	if err != nil {
		f.logger.Error("bus: marshal runtime event", err, nil)
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	if err := f.pub.Publish(RuntimeEventsTopic, msg); err != nil {
		f.logger.Error("bus: publish runtime event", err, nil)
	}
}

// Close stops forwarding and unsubscribes from the runtime hub. It does
// not close the underlying publisher — the caller owns that lifecycle.
func (f *Forwarder) Close() error {
	select {
	case <-f.closeOnce:
		return nil
	default:
		close(f.closeOnce)
	}
	f.unsub()
	return nil
}

// Serve implements suture.Service: it blocks until ctx is canceled, then
// stops forwarding, so internal/supervisor.Tree can own the Forwarder's
// lifecycle alongside the other background services.
func (f *Forwarder) Serve(ctx context.Context) error {
	<-ctx.Done()
	return f.Close()
}

func (f *Forwarder) String() string { return "bus.Forwarder" }
