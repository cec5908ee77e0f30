package battle

import (
	"errors"
	"sync"
)

// Session is the common surface of PvE and PvP battles the registry tracks.
type Session interface {
	ID() string
	Done() bool
	Participants() []Combatant
}

var ErrAlreadyInBattle = errors.New("player is already in an active battle")

// Registry is the injectable index of live sessions. It enforces the
// one-session-per-player rule and resolves inbound connections to their
// battle. Handlers receive a Registry instead of touching package state so
// tests can run isolated instances.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]Session
	byUser   map[uint]string
	byConn   map[string]string
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]Session),
		byUser:   make(map[uint]string),
		byConn:   make(map[string]string),
	}
}

// Add registers a session under every participant. It fails when any
// participant is already bound to a live session; done sessions found in the
// way are reaped so a terminal battle never blocks or leaks.
func (r *Registry) Add(s Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	parts := s.Participants()
	for _, p := range parts {
		if id, ok := r.byUser[p.UserID]; ok {
			if live, exists := r.sessions[id]; exists {
				if !live.Done() {
					return ErrAlreadyInBattle
				}
				r.removeLocked(id)
			}
		}
	}
	r.sessions[s.ID()] = s
	for _, p := range parts {
		r.byUser[p.UserID] = s.ID()
		if p.ConnID != "" {
			r.byConn[p.ConnID] = s.ID()
		}
	}
	return nil
}

// Remove drops a session and all its participant bindings.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(id)
}

func (r *Registry) removeLocked(id string) {
	s, ok := r.sessions[id]
	if !ok {
		return
	}
	delete(r.sessions, id)
	for _, p := range s.Participants() {
		if r.byUser[p.UserID] == id {
			delete(r.byUser, p.UserID)
		}
		if p.ConnID != "" && r.byConn[p.ConnID] == id {
			delete(r.byConn, p.ConnID)
		}
	}
}

// ByID returns the session with the given id.
func (r *Registry) ByID(id string) (Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

// ByUser returns the live session a user participates in.
func (r *Registry) ByUser(userID uint) (Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byUser[userID]
	if !ok {
		return nil, false
	}
	s, ok := r.sessions[id]
	return s, ok
}

// ByConn returns the live session bound to a connection identity.
func (r *Registry) ByConn(connID string) (Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byConn[connID]
	if !ok {
		return nil, false
	}
	s, ok := r.sessions[id]
	return s, ok
}
