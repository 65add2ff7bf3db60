package events

import "sync"

// Subscriber receives events from the bus.
type Subscriber interface {
	Receive(ev Event)
	Closed() bool
}

// Bus is a per-channel pub/sub event bus with support for global
// subscribers. Game code publishes structured events; each subscriber
// (connection, channel logger) encodes them for its own transport.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string][]Subscriber
	global      []Subscriber
}

// NewBus creates a new event bus.
func NewBus() *Bus {
	return &Bus{
		subscribers: make(map[string][]Subscriber),
	}
}

// Subscribe registers a subscriber on a channel. Subscribing twice is a no-op.
func (b *Bus) Subscribe(channel string, sub Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range b.subscribers[channel] {
		if s == sub {
			return
		}
	}
	b.subscribers[channel] = append(b.subscribers[channel], sub)
}

// Unsubscribe removes a subscriber from a channel.
func (b *Bus) Unsubscribe(channel string, sub Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.removeLocked(channel, sub)
}

// UnsubscribeAll removes a subscriber from every channel.
func (b *Bus) UnsubscribeAll(sub Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for channel := range b.subscribers {
		b.removeLocked(channel, sub)
	}
}

func (b *Bus) removeLocked(channel string, sub Subscriber) {
	subs := b.subscribers[channel]
	for i, s := range subs {
		if s == sub {
			b.subscribers[channel] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(b.subscribers[channel]) == 0 {
		delete(b.subscribers, channel)
	}
}

// SubscribeGlobal registers a subscriber that receives all events.
func (b *Bus) SubscribeGlobal(sub Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.global = append(b.global, sub)
}

// Publish delivers an event to the subscribers of ev.Channel and to all
// global subscribers.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	subs := append([]Subscriber(nil), b.subscribers[ev.Channel]...)
	globals := append([]Subscriber(nil), b.global...)
	b.mu.RUnlock()

	for _, s := range subs {
		if !s.Closed() {
			s.Receive(ev)
		}
	}
	for _, s := range globals {
		if !s.Closed() {
			s.Receive(ev)
		}
	}
}

// Subscribers returns the number of subscribers on a channel.
func (b *Bus) Subscribers(channel string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[channel])
}

// Cleanup removes closed subscribers from all lists.
func (b *Bus) Cleanup() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for channel, subs := range b.subscribers {
		var active []Subscriber
		for _, s := range subs {
			if !s.Closed() {
				active = append(active, s)
			}
		}
		if len(active) == 0 {
			delete(b.subscribers, channel)
		} else {
			b.subscribers[channel] = active
		}
	}

	var activeGlobal []Subscriber
	for _, s := range b.global {
		if !s.Closed() {
			activeGlobal = append(activeGlobal, s)
		}
	}
	b.global = activeGlobal
}
