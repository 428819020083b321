// Package notify provides the in-memory notification bus decoupling
// event producers (auth, assistant, payments) from the transient-message
// surfaces (notification list, SSE stream).
package notify

import (
	"sync"
	"time"
)

// Kind classifies a notification for display.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
	KindLoading Kind = "loading"
)

const (
	// DefaultTTL is the auto-expiry for non-error notifications.
	DefaultTTL = 4 * time.Second
	// ErrorTTL is the longer auto-expiry for error notifications.
	ErrorTTL = 8 * time.Second
)

// Action is an optional affordance attached to a notification.
type Action struct {
	Label    string
	Callback func()
}

// Notification is a transient user-facing message. Instances are never
// mutated after creation; removal is the only lifecycle transition.
type Notification struct {
	ID         int64
	Kind       Kind
	Title      string
	Body       string
	Persistent bool
	TTL        time.Duration
	Action     *Action
	CreatedAt  time.Time
}

// EventType identifies a bus event delivered to subscribers.
type EventType string

const (
	EventAdded   EventType = "added"
	EventRemoved EventType = "removed"
	EventCleared EventType = "cleared"
)

// Event is delivered to subscribers on every bus mutation.
type Event struct {
	Type         EventType
	Notification *Notification
}

// Bus is an in-memory ordered queue of notifications with TTL expiry.
type Bus struct {
	mu      sync.Mutex
	nextID  int64
	order   []int64
	items   map[int64]*Notification
	timers  map[int64]*time.Timer
	subs    map[int64]chan Event
	nextSub int64
	closed  bool
}

// NewBus creates an empty notification bus.
func NewBus() *Bus {
	return &Bus{
		items:  make(map[int64]*Notification),
		timers: make(map[int64]*time.Timer),
		subs:   make(map[int64]chan Event),
	}
}

// Add enqueues a notification and returns its identifier. Unless the
// notification is persistent, removal is scheduled after its TTL (a zero
// TTL gets the kind's default).
func (b *Bus) Add(n Notification) int64 {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return 0
	}

	b.nextID++
	n.ID = b.nextID
	n.CreatedAt = time.Now()
	if n.TTL == 0 {
		n.TTL = DefaultTTL
		if n.Kind == KindError {
			n.TTL = ErrorTTL
		}
	}

	stored := n
	b.items[stored.ID] = &stored
	b.order = append(b.order, stored.ID)

	if !stored.Persistent {
		id := stored.ID
		b.timers[id] = time.AfterFunc(stored.TTL, func() {
			b.Remove(id)
		})
	}
	b.mu.Unlock()

	b.publish(Event{Type: EventAdded, Notification: &stored})
	return stored.ID
}

// Remove deletes a notification by id. Removal preserves the relative
// order of the remaining items. Removing an unknown id is a no-op.
func (b *Bus) Remove(id int64) {
	b.mu.Lock()
	n, ok := b.items[id]
	if !ok {
		b.mu.Unlock()
		return
	}
	delete(b.items, id)
	if t, ok := b.timers[id]; ok {
		t.Stop()
		delete(b.timers, id)
	}
	for i, v := range b.order {
		if v == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	b.mu.Unlock()

	b.publish(Event{Type: EventRemoved, Notification: n})
}

// ClearAll removes every notification and cancels pending expiries.
func (b *Bus) ClearAll() {
	b.mu.Lock()
	for id, t := range b.timers {
		t.Stop()
		delete(b.timers, id)
	}
	b.items = make(map[int64]*Notification)
	b.order = nil
	b.mu.Unlock()

	b.publish(Event{Type: EventCleared})
}

// List returns the current notifications in insertion order.
func (b *Bus) List() []*Notification {
	b.mu.Lock()
	defer b.mu.Unlock()

	list := make([]*Notification, 0, len(b.order))
	for _, id := range b.order {
		if n, ok := b.items[id]; ok {
			list = append(list, n)
		}
	}
	return list
}

// Subscribe registers a listener for bus events. The returned channel is
// buffered; events are dropped rather than blocking producers.
func (b *Bus) Subscribe() (int64, <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextSub++
	ch := make(chan Event, 16)
	b.subs[b.nextSub] = ch
	return b.nextSub, ch
}

// Unsubscribe removes a listener and closes its channel.
func (b *Bus) Unsubscribe(id int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

// Close shuts the bus down, cancelling timers and closing subscriber
// channels. Add becomes a no-op afterwards.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	for id, t := range b.timers {
		t.Stop()
		delete(b.timers, id)
	}
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}

func (b *Bus) publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
			// Slow subscriber, drop the event.
		}
	}
}

// Success adds a success notification with the default TTL.
func (b *Bus) Success(title, body string) int64 {
	return b.Add(Notification{Kind: KindSuccess, Title: title, Body: body})
}

// Error adds an error notification with the longer error TTL.
func (b *Bus) Error(title, body string) int64 {
	return b.Add(Notification{Kind: KindError, Title: title, Body: body})
}

// Warning adds a warning notification with the default TTL.
func (b *Bus) Warning(title, body string) int64 {
	return b.Add(Notification{Kind: KindWarning, Title: title, Body: body})
}

// Info adds an info notification with the default TTL.
func (b *Bus) Info(title, body string) int64 {
	return b.Add(Notification{Kind: KindInfo, Title: title, Body: body})
}

// Loading adds a persistent loading notification; the caller removes it
// when the tracked operation settles.
func (b *Bus) Loading(title, body string) int64 {
	return b.Add(Notification{Kind: KindLoading, Title: title, Body: body, Persistent: true})
}
