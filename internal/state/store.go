package state

import (
	"sync"

	"github.com/rs/zerolog"
)

// Listener is called after every dispatch with the previous and next state.
type Listener func(prev, next State, action Action)

// Store holds the current state and notifies listeners of every change.
// Dispatch is expected to be called from a single goroutine; the mutex only
// keeps accidental concurrent use memory-safe.
type Store struct {
	mu        sync.Mutex
	state     State
	listeners map[int]Listener
	order     []int
	nextID    int
	log       zerolog.Logger
}

// NewStore creates a store seeded with the given state.
func NewStore(initial State, logger zerolog.Logger) *Store {
	return &Store{
		state:     initial.clone(),
		listeners: make(map[int]Listener),
		log:       logger,
	}
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Dispatch reduces the action into the state and notifies listeners in
// subscription order.
func (s *Store) Dispatch(action Action) {
	s.mu.Lock()
	prev := s.state
	next := Reduce(prev, action)
	s.state = next

	listeners := make([]Listener, 0, len(s.order))
	for _, id := range s.order {
		listeners = append(listeners, s.listeners[id])
	}
	s.mu.Unlock()

	s.log.Debug().
		Str("action", action.Kind()).
		Int("activities", len(next.Activities)).
		Str("active_id", next.ActiveID).
		Msg("dispatch")

	for _, l := range listeners {
		l(prev.clone(), next.clone(), action)
	}
}

// Subscribe registers a listener and returns a func that removes it.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.order = append(s.order, id)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
		for i, v := range s.order {
			if v == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
}
