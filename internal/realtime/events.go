package realtime

import (
	"sync"
	"sync/atomic"
	"time"
)

// OpenEvent is emitted once the transport is open.
type OpenEvent struct {
	URL string
	At  time.Time
}

// CloseEvent is emitted on every close, including failed dials.
type CloseEvent struct {
	URL         string
	Code        int
	Reason      string
	Attempts    int  // reconnect attempts used so far
	WillRetry   bool // a reconnect has been scheduled
	Intentional bool // caused by Disconnect
}

// ErrorEvent is advisory; the following CloseEvent drives the state.
type ErrorEvent struct {
	URL string
	Err error
}

// ExhaustedEvent is emitted once the reconnect budget is spent.
type ExhaustedEvent struct {
	URL      string
	Attempts int
}

// Subscription identifies a registered listener for Off.
type Subscription uint64

type listener[T any] struct {
	id Subscription
	fn func(T)
}

// channel is a typed, ordered list of listeners.
type channel[T any] struct {
	mu   sync.Mutex
	subs []listener[T]
}

func (c *channel[T]) add(id Subscription, fn func(T)) {
	c.mu.Lock()
	c.subs = append(c.subs, listener[T]{id: id, fn: fn})
	c.mu.Unlock()
}

func (c *channel[T]) remove(id Subscription) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, l := range c.subs {
		if l.id == id {
			c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
			return true
		}
	}
	return false
}

func (c *channel[T]) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs)
}

// emit calls every listener in registration order. A panicking listener is
// reported to onPanic and does not stop the others.
func (c *channel[T]) emit(v T, onPanic func(Subscription, any)) {
	c.mu.Lock()
	snapshot := make([]listener[T], len(c.subs))
	copy(snapshot, c.subs)
	c.mu.Unlock()

	for _, l := range snapshot {
		func() {
			defer func() {
				if r := recover(); r != nil && onPanic != nil {
					onPanic(l.id, r)
				}
			}()
			l.fn(v)
		}()
	}
}

// Events is the listener registry: one typed channel per event kind.
type Events struct {
	seq       atomic.Uint64
	open      channel[OpenEvent]
	message   channel[Message]
	close     channel[CloseEvent]
	errs      channel[ErrorEvent]
	exhausted channel[ExhaustedEvent]
}

func (e *Events) nextID() Subscription { return Subscription(e.seq.Add(1)) }

// OnOpen registers fn for open events.
func (e *Events) OnOpen(fn func(OpenEvent)) Subscription {
	id := e.nextID()
	e.open.add(id, fn)
	return id
}

// OnMessage registers fn for every decoded inbound message.
func (e *Events) OnMessage(fn func(Message)) Subscription {
	id := e.nextID()
	e.message.add(id, fn)
	return id
}

// OnClose registers fn for close events.
func (e *Events) OnClose(fn func(CloseEvent)) Subscription {
	id := e.nextID()
	e.close.add(id, fn)
	return id
}

// OnError registers fn for transport errors.
func (e *Events) OnError(fn func(ErrorEvent)) Subscription {
	id := e.nextID()
	e.errs.add(id, fn)
	return id
}

// OnExhausted registers fn for the terminal "gave up reconnecting" event.
func (e *Events) OnExhausted(fn func(ExhaustedEvent)) Subscription {
	id := e.nextID()
	e.exhausted.add(id, fn)
	return id
}

// Off removes a listener. It reports whether the subscription was found.
func (e *Events) Off(id Subscription) bool {
	return e.open.remove(id) ||
		e.message.remove(id) ||
		e.close.remove(id) ||
		e.errs.remove(id) ||
		e.exhausted.remove(id)
}
