package realtime

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Registry indexes live sessions by user id and session id.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]map[string]*Session),
	}
}

func (r *Registry) Add(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sessions[s.UserID] == nil {
		r.sessions[s.UserID] = make(map[string]*Session)
	}
	r.sessions[s.UserID][s.ID] = s
}

func (r *Registry) Remove(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if byID, ok := r.sessions[s.UserID]; ok {
		delete(byID, s.ID)
		if len(byID) == 0 {
			delete(r.sessions, s.UserID)
		}
	}
}

func (r *Registry) UserSessions(userID string) []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Session, 0, len(r.sessions[userID]))
	for _, s := range r.sessions[userID] {
		result = append(result, s)
	}
	return result
}

// Count returns the number of open sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, byID := range r.sessions {
		n += len(byID)
	}
	return n
}

func (r *Registry) CloseAll() {
	r.mu.RLock()
	all := make([]*Session, 0)
	for _, byID := range r.sessions {
		for _, s := range byID {
			all = append(all, s)
		}
	}
	r.mu.RUnlock()

	for _, s := range all {
		s.CloseWithReason(websocket.CloseGoingAway, "server shutting down")
	}
}
