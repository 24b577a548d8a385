package assessment

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// MemoryRepository keeps sessions in process memory.
type MemoryRepository struct {
	mu       sync.Mutex
	sessions map[string]storedSession
	now      func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		sessions: make(map[string]storedSession),
		now:      time.Now,
	}
}

func (r *MemoryRepository) Create(_ context.Context, s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweep()
	r.sessions[s.ID] = toStored(s)
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.live(id)
	if !ok {
		return nil, goerr.Wrap(ErrSessionNotFound, "session not in memory", goerr.V("session_id", id))
	}
	return st.toSession(), nil
}

func (r *MemoryRepository) Save(_ context.Context, s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev, ok := r.live(s.ID)
	if !ok {
		return goerr.Wrap(ErrSessionNotFound, "session not in memory", goerr.V("session_id", s.ID))
	}
	st := toStored(s)
	st.ExpiresAt = prev.ExpiresAt
	r.sessions[s.ID] = st
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

// live returns an unexpired session. Caller holds mu.
func (r *MemoryRepository) live(id string) (storedSession, bool) {
	st, ok := r.sessions[id]
	if !ok {
		return storedSession{}, false
	}
	if !r.now().Before(st.ExpiresAt) {
		delete(r.sessions, id)
		return storedSession{}, false
	}
	return st, true
}

// sweep drops expired sessions. Caller holds mu.
func (r *MemoryRepository) sweep() {
	now := r.now()
	for id, st := range r.sessions {
		if !now.Before(st.ExpiresAt) {
			delete(r.sessions, id)
		}
	}
}
