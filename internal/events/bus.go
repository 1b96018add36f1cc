// Package events provides the in-process publish/subscribe primitive used to
// notify collaborators about engine decisions. Delivery is synchronous; any
// transport beyond the process boundary is the subscriber's concern.
package events

import "sync"

type Type string

const (
	ConflictCreated   Type = "conflict.created"
	ConflictUpdated   Type = "conflict.updated"
	ConflictResolved  Type = "conflict.resolved"
	ConflictEscalated Type = "conflict.escalated"
	ReviewAssigned    Type = "review.assigned"
	TaskCoordinated   Type = "task.coordinated"
	KnowledgeGapFound Type = "knowledge.gap_found"
	MetricsSampled    Type = "metrics.sampled"
)

type Event struct {
	Type    Type
	Payload any
}

type Handler func(Event)

// Bus is a registry of typed subscriber callbacks. Publish invokes handlers
// synchronously in subscription order; handlers must not block.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Type][]Handler
	all      []Handler
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[Type][]Handler)}
}

// Subscribe registers a handler for one event type.
func (b *Bus) Subscribe(t Type, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[t] = append(b.handlers[t], h)
}

// SubscribeAll registers a handler for every event type.
func (b *Bus) SubscribeAll(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.all = append(b.all, h)
}

func (b *Bus) Publish(t Type, payload any) {
	b.mu.RLock()
	typed := append([]Handler(nil), b.handlers[t]...)
	catchall := append([]Handler(nil), b.all...)
	b.mu.RUnlock()

	evt := Event{Type: t, Payload: payload}
	for _, h := range typed {
		h(evt)
	}
	for _, h := range catchall {
		h(evt)
	}
}
