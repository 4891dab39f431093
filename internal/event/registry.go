package event

import (
	"sort"
	"sync"

	"github.com/dshills/keybus/internal/event/topic"
)

// Registry manages subscriptions organized by topic pattern.
// It is thread-safe for concurrent access.
type Registry struct {
	mu   sync.RWMutex
	subs map[topic.Topic][]*subscription
	byID map[string]*subscription
	seq  uint64
	ord  map[string]uint64
}

// NewRegistry creates a new subscription registry.
func NewRegistry() *Registry {
	return &Registry{
		subs: make(map[topic.Topic][]*subscription),
		byID: make(map[string]*subscription),
		ord:  make(map[string]uint64),
	}
}

func (r *Registry) add(sub *subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	r.ord[sub.ID()] = r.seq
	r.subs[sub.Topic()] = append(r.subs[sub.Topic()], sub)
	r.byID[sub.ID()] = sub
}

func (r *Registry) remove(subID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, exists := r.byID[subID]
	if !exists {
		return false
	}

	pattern := sub.Topic()
	subs := r.subs[pattern]
	for i, s := range subs {
		if s.ID() == subID {
			r.subs[pattern] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(r.subs[pattern]) == 0 {
		delete(r.subs, pattern)
	}
	delete(r.byID, subID)
	delete(r.ord, subID)
	return true
}

// Match returns the active subscriptions whose pattern matches eventTopic,
// ordered by priority and then by registration order.
func (r *Registry) Match(eventTopic topic.Topic) []*subscription {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []*subscription
	for pattern, subs := range r.subs {
		if !eventTopic.Matches(pattern) {
			continue
		}
		for _, s := range subs {
			if s.IsActive() {
				all = append(all, s)
			}
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		pi, pj := all[i].Config().Priority, all[j].Config().Priority
		if pi != pj {
			return pi < pj
		}
		return r.ord[all[i].ID()] < r.ord[all[j].ID()]
	})
	return all
}

// Count returns the total number of subscriptions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// CountActive returns the number of active subscriptions.
func (r *Registry) CountActive() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, sub := range r.byID {
		if sub.IsActive() {
			count++
		}
	}
	return count
}

// Topics returns all subscribed topic patterns.
func (r *Registry) Topics() []topic.Topic {
	r.mu.RLock()
	defer r.mu.RUnlock()

	topics := make([]topic.Topic, 0, len(r.subs))
	for t := range r.subs {
		topics = append(topics, t)
	}
	sort.Slice(topics, func(i, j int) bool { return topics[i] < topics[j] })
	return topics
}
