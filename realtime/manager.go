// Package realtime is an in-process change-notification channel. UI layers
// subscribe per match; engine components publish when ballots or result rows
// change. Subscriptions have an explicit lifecycle and must be closed by
// their owner.
package realtime

import "sync"

type EventKind string

const (
	EventBallotSubmitted EventKind = "ballot_submitted"
	EventSurveySubmitted EventKind = "survey_submitted"
	EventRatingsClosed   EventKind = "ratings_closed"
	EventResultUpdated   EventKind = "result_updated"
)

type Event struct {
	MatchID int64     `json:"matchId"`
	Kind    EventKind `json:"kind"`
}

const subscriptionBuffer = 16

type Manager struct {
	mu     sync.Mutex
	subs   map[int64]map[*Subscription]bool
	closed bool
}

func NewManager() *Manager {
	return &Manager{
		subs: make(map[int64]map[*Subscription]bool),
	}
}

type Subscription struct {
	manager *Manager
	matchID int64
	events  chan Event
	once    sync.Once
}

func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Close unregisters the subscription and closes its channel. Safe to call
// more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.manager.unsubscribe(s)
		close(s.events)
	})
}

// Subscribe registers for events about a single match. Returns nil if the
// manager has already been shut down.
func (m *Manager) Subscribe(matchID int64) *Subscription {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}

	s := &Subscription{
		manager: m,
		matchID: matchID,
		events:  make(chan Event, subscriptionBuffer),
	}
	if m.subs[matchID] == nil {
		m.subs[matchID] = make(map[*Subscription]bool)
	}
	m.subs[matchID][s] = true
	return s
}

// Publish delivers an event to every open subscription for the match. A
// subscriber that is not keeping up loses events rather than blocking the
// publisher.
func (m *Manager) Publish(e Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for s := range m.subs[e.MatchID] {
		select {
		case s.events <- e:
		default:
		}
	}
}

// Close shuts the manager down and closes every open subscription.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	all := make([]*Subscription, 0, 8)
	for _, set := range m.subs {
		for s := range set {
			all = append(all, s)
		}
	}
	m.subs = make(map[int64]map[*Subscription]bool)
	m.mu.Unlock()

	for _, s := range all {
		s.once.Do(func() { close(s.events) })
	}
}

func (m *Manager) unsubscribe(s *Subscription) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if set, found := m.subs[s.matchID]; found {
		delete(set, s)
		if len(set) == 0 {
			delete(m.subs, s.matchID)
		}
	}
}
