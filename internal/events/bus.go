package events

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const defaultHistorySize = 500

// Envelope is what subscribers receive: the published event plus bookkeeping.
type Envelope struct {
	ID    string
	Seq   uint64
	At    time.Time
	Event Event
}

type Handler func(Envelope)

type subscription struct {
	id      int
	handler Handler
}

// Bus dispatches synchronously. Handlers for a published event run in
// subscription order before Publish returns, and a handler may publish again
// (the nested event is fully dispatched before the outer dispatch continues).
// The bus is not safe for concurrent use; all simulation mutation happens on the
// goroutine that owns the session.
type Bus struct {
	subs       map[Type][]subscription
	nextID     int
	seq        uint64
	history    []Envelope
	maxHistory int
	now        func() time.Time
	log        *slog.Logger
}

func NewBus(log *slog.Logger) *Bus {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Bus{
		subs:       make(map[Type][]subscription),
		maxHistory: defaultHistorySize,
		now:        time.Now,
		log:        log,
	}
}

// SetHistorySize bounds how many envelopes History keeps. Zero disables history.
func (b *Bus) SetHistorySize(n int) {
	if n < 0 {
		n = 0
	}
	b.maxHistory = n
	b.trim()
}

// Subscribe registers handler for t and returns a func that removes it.
func (b *Bus) Subscribe(t Type, handler Handler) func() {
	if handler == nil {
		b.log.Warn("refusing nil event handler", "type", t)
		return func() {}
	}
	b.nextID++
	id := b.nextID
	b.subs[t] = append(b.subs[t], subscription{id: id, handler: handler})
	return func() { b.unsubscribe(t, id) }
}

func (b *Bus) unsubscribe(t Type, id int) {
	subs := b.subs[t]
	for i, s := range subs {
		if s.id == id {
			out := make([]subscription, 0, len(subs)-1)
			out = append(out, subs[:i]...)
			out = append(out, subs[i+1:]...)
			b.subs[t] = out
			return
		}
	}
}

func (b *Bus) Publish(ev Event) Envelope {
	b.seq++
	env := Envelope{
		ID:    uuid.NewString(),
		Seq:   b.seq,
		At:    b.now(),
		Event: ev,
	}
	if b.maxHistory > 0 {
		b.history = append(b.history, env)
		b.trim()
	}
	b.log.Debug("event", "type", ev.EventType(), "seq", env.Seq)

	// Copy so a handler that subscribes or unsubscribes does not disturb this dispatch.
	subs := append([]subscription(nil), b.subs[ev.EventType()]...)
	for _, s := range subs {
		s.handler(env)
	}
	return env
}

func (b *Bus) trim() {
	if len(b.history) > b.maxHistory {
		b.history = append([]Envelope(nil), b.history[len(b.history)-b.maxHistory:]...)
	}
}

func (b *Bus) History() []Envelope {
	out := make([]Envelope, len(b.history))
	copy(out, b.history)
	return out
}

// ClearHistory drops recorded envelopes but keeps subscribers.
func (b *Bus) ClearHistory() {
	b.history = nil
}
