package changefeed

import (
	"sync"
)

// Feed is the subscribe side of the change feed. Handlers run on the
// dispatching goroutine; delivery is best effort with no replay, so every
// consumer must also do an initial full fetch on mount.
type Feed interface {
	Subscribe(table string, kinds []Kind, fn func(Event)) *Subscription
	Unsubscribe(*Subscription)
}

type Subscription struct {
	id    uint64
	table string
	kinds map[Kind]bool
	fn    func(Event)
}

// Hub fans events out to in-process subscribers. It implements Feed and is
// fed either by the Kafka consumer or directly (tests, single-process mode).
type Hub struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[uint64]*Subscription
}

func NewHub() *Hub {
	return &Hub{subs: make(map[uint64]*Subscription)}
}

func (h *Hub) Subscribe(table string, kinds []Kind, fn func(Event)) *Subscription {
	ks := make(map[Kind]bool, len(kinds))
	for _, k := range kinds {
		ks[k] = true
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	sub := &Subscription{id: h.nextID, table: table, kinds: ks, fn: fn}
	h.subs[sub.id] = sub
	return sub
}

func (h *Hub) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, sub.id)
}

// Dispatch delivers an event to every matching subscriber.
func (h *Hub) Dispatch(ev Event) {
	h.mu.RLock()
	matched := make([]func(Event), 0, len(h.subs))
	for _, sub := range h.subs {
		if sub.table != ev.Table {
			continue
		}
		if len(sub.kinds) > 0 && !sub.kinds[ev.Kind] {
			continue
		}
		matched = append(matched, sub.fn)
	}
	h.mu.RUnlock()

	for _, fn := range matched {
		fn(ev)
	}
}
