// Package store holds the UI-wide state many views read and write: active
// persona, theme intensity, the provider/model pair in use. It is an explicit
// observable object handed to each component at construction time; nothing in
// this module reaches for an ambient singleton.
package store

import "sync"

// Snapshot is an immutable copy of the shared state.
type Snapshot struct {
	Persona        string
	ThemeIntensity float64
	Provider       string
	Model          string
}

// Listener receives the new snapshot after each change.
type Listener func(Snapshot)

// Store is a small observable state container. All methods are safe for
// concurrent use; listeners run synchronously on the mutating goroutine, in
// registration order.
type Store struct {
	mu        sync.Mutex
	state     Snapshot
	nextID    int
	listeners map[int]Listener
}

// New returns a store seeded with initial.
func New(initial Snapshot) *Store {
	return &Store{state: initial, listeners: map[int]Listener{}}
}

// Get returns the current snapshot.
func (s *Store) Get() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetPersona updates the active persona.
func (s *Store) SetPersona(persona string) {
	s.apply(func(st *Snapshot) { st.Persona = persona })
}

// SetThemeIntensity updates the theme intensity, clamped to [0, 1].
func (s *Store) SetThemeIntensity(v float64) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	s.apply(func(st *Snapshot) { st.ThemeIntensity = v })
}

// SetRouting records the provider/model pair the backend reported.
func (s *Store) SetRouting(provider, model string) {
	s.apply(func(st *Snapshot) {
		st.Provider = provider
		st.Model = model
	})
}

// Subscribe registers fn and returns an unsubscribe function. fn is not
// called with the current state; callers that need it read Get first.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Store) apply(fn func(*Snapshot)) {
	s.mu.Lock()
	fn(&s.state)
	snap := s.state
	fns := make([]Listener, 0, len(s.listeners))
	for i := 0; i < s.nextID; i++ {
		if fn, ok := s.listeners[i]; ok {
			fns = append(fns, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
