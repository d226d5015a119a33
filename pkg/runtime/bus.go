package runtime

import "github.com/tomtom215/catalogcore/pkg/effects"

// MsgBus is the pluggable transport effect resolutions travel over on
// their way back into the model. The runtime never assumes an in-process
// channel: a resolved effects.Msg is Published once and the runtime's own
// dispatch loop is the Subscriber, but the same interface can be backed
// by a durable/out-of-process transport without the runtime caring which.
// chanBus is the only implementation in this module; internal/bus
// republishes RuntimeEvents over watermill and does not implement MsgBus.
type MsgBus interface {
	Publish(msg effects.Msg)
	Subscribe() <-chan effects.Msg
	Close()
}

// chanBus is the default, in-process MsgBus: an unbounded-enough buffered
// channel. It is sufficient for a single-process embedding of the core
// and is what New uses for every Runtime.
type chanBus struct {
	ch chan effects.Msg
}

// newChanBus builds the default in-memory bus with the given channel
// capacity (the runtime never blocks a future's goroutine waiting for the
// dispatch loop to catch up, within this buffer).
func newChanBus(capacity int) *chanBus {
	if capacity <= 0 {
		capacity = 256
	}
	return &chanBus{ch: make(chan effects.Msg, capacity)}
}

func (b *chanBus) Publish(msg effects.Msg)        { b.ch <- msg }
func (b *chanBus) Subscribe() <-chan effects.Msg  { return b.ch }
func (b *chanBus) Close()                         { close(b.ch) }
