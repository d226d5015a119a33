// Package analytics implements the per-auth batching queue described in
// spec.md §4.9: events are appended to the last batch for the current
// auth key, at most one batch is ever in flight, and a failed flush
// reverts the pending batch to the front of the queue rather than
// dropping it.
package analytics

import (
	"container/list"
	"context"

	"github.com/tomtom215/catalogcore/pkg/env"
)

// Event is one emitted analytics event.
type Event struct {
	Name    string
	Data    map[string]any
	Time    int64
	Number  uint64
	Context map[string]any
}

// Batch groups events emitted under the same auth key. Batches never mix
// auth keys: a new key always starts a fresh batch at the back of the
// queue.
type Batch struct {
	AuthKey string
	Events  []Event
}

// Queue is the analytics emit/flush state machine. Not safe for
// concurrent use without external synchronization — callers drive it the
// same way Ctx drives the model, from a single update loop.
type Queue struct {
	number  uint64
	queue   *list.List // of *Batch
	pending *Batch
}

// New builds an empty queue.
func New() *Queue {
	return &Queue{queue: list.New()}
}

// Emit appends an event to the last batch if its auth key matches, or
// starts a new batch otherwise. An empty authKey drops the event: there
// is no anonymous analytics queue.
func (q *Queue) Emit(environ env.Environment, authKey, name string, data map[string]any) {
	if authKey == "" {
		return
	}
	q.number++
	ev := Event{
		Name:    name,
		Data:    data,
		Time:    environ.Now().UnixMilli(),
		Number:  q.number,
		Context: environ.AnalyticsContext(),
	}

	if back := q.queue.Back(); back != nil {
		batch := back.Value.(*Batch)
		if batch.AuthKey == authKey {
			batch.Events = append(batch.Events, ev)
			return
		}
	}
	q.queue.PushBack(&Batch{AuthKey: authKey, Events: []Event{ev}})
}

// Len reports how many batches are queued, excluding the in-flight
// pending batch.
func (q *Queue) Len() int { return q.queue.Len() }

// HasPending reports whether a flush is currently in flight.
func (q *Queue) HasPending() bool { return q.pending != nil }

// Poster sends a batch to the platform API's events endpoint. Code 1 on
// the response means "benignly rejected" (discard, not a retriable
// failure); any other non-nil error is treated as transient and the
// batch is reverted.
type Poster interface {
	PostEvents(ctx context.Context, authKey string, events []Event) (code uint64, err error)
}

// FlushResult is what FlushNext resolves to once the in-flight POST
// completes.
type FlushResult struct {
	Reverted bool
	Err      error
}

// FlushNext dequeues the oldest batch into pending and returns a function
// the caller should run (typically inside an effects.Future) to perform
// the actual POST. Calling FlushNext again before the previous flush's
// ApplyFlushResult is invoked is a caller error (mirrors "at most one
// in-flight batch"): it returns ok=false and does nothing.
func (q *Queue) FlushNext(poster Poster) (run func(ctx context.Context) FlushResult, ok bool) {
	if q.pending != nil {
		return nil, false
	}
	front := q.queue.Front()
	if front == nil {
		return nil, false
	}
	batch := front.Value.(*Batch)
	q.queue.Remove(front)
	q.pending = batch

	return func(ctx context.Context) FlushResult {
		code, err := poster.PostEvents(ctx, batch.AuthKey, batch.Events)
		if err != nil {
			return FlushResult{Reverted: true, Err: err}
		}
		if code != 1 && code != 0 {
			// Non-benign, non-success code: treat like a transport
			// failure so the batch gets another attempt.
			return FlushResult{Reverted: true}
		}
		return FlushResult{}
	}, true
}

// ApplyFlushResult finalizes the in-flight flush: on success (or a
// benign rejection) the pending batch is discarded; on failure it is
// pushed back to the front of the queue so the next FlushNext retries it
// first.
func (q *Queue) ApplyFlushResult(result FlushResult) {
	batch := q.pending
	q.pending = nil
	if batch == nil {
		return
	}
	if result.Reverted {
		q.queue.PushFront(batch)
	}
}

// FlushAll drains the queue by returning one run function per batch
// currently in it; callers run them concurrently. It empties the queue and
// clears q.pending, so a batch already in flight from FlushNext is no
// longer tracked. ApplyFlushResult only acts on a batch taken by
// FlushNext, so a FlushAll batch whose run reports Reverted is not
// re-queued.
func (q *Queue) FlushAll(poster Poster) []func(ctx context.Context) (string, FlushResult) {
	var runs []func(ctx context.Context) (string, FlushResult)
	for e := q.queue.Front(); e != nil; e = e.Next() {
		batch := e.Value.(*Batch)
		runs = append(runs, func(ctx context.Context) (string, FlushResult) {
			code, err := poster.PostEvents(ctx, batch.AuthKey, batch.Events)
			if err != nil {
				return batch.AuthKey, FlushResult{Reverted: true, Err: err}
			}
			if code != 1 && code != 0 {
				return batch.AuthKey, FlushResult{Reverted: true}
			}
			return batch.AuthKey, FlushResult{}
		})
	}
	q.queue.Init()
	q.pending = nil
	return runs
}
