package wizard

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is one client's wizard run. The state mutex serializes
// transitions; the cancel func belongs to the in-flight fetch/extract
// operation, if any.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	State     *State    `json:"state"`

	mu     sync.Mutex
	opMu   sync.Mutex
	cancel context.CancelFunc
}

// Lock serializes access to the session state for one transition.
func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// BeginOp cancels any in-flight operation on this session and returns a
// fresh context for the new one. Starting a second fetch while the first
// is still running supersedes it; the superseded operation sees a
// canceled context and leaves the state untouched.
func (s *Session) BeginOp() context.Context {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	return ctx
}

// CancelOp aborts the in-flight operation, if any.
func (s *Session) CancelOp() {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Registry holds live sessions in memory. Sessions are short-lived and
// single-node scoped; there is nothing here worth persisting across
// restarts.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: map[string]*Session{}}
}

func (r *Registry) Create(st *State) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		State:     st,
	}
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s
}

func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Remove tears a session down, aborting any in-flight operation.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if ok {
		s.CancelOp()
	}
}
