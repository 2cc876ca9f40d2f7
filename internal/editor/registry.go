package editor

import (
	"sync"
	"time"
)

type entry struct {
	store    *Store
	lastUsed time.Time
}

// Registry holds one Store per admin session id. Stores unused for longer
// than the idle timeout are dropped on the next Get, so sessions that expire
// without a logout do not keep their working copies forever.
type Registry struct {
	gw   Gateway
	idle time.Duration
	now  func() time.Time

	mu     sync.Mutex
	stores map[string]*entry
}

// NewRegistry returns an empty registry whose stores use gw.
// A zero idle timeout keeps stores until Drop.
func NewRegistry(gw Gateway, idle time.Duration) *Registry {
	return &Registry{gw: gw, idle: idle, now: time.Now, stores: map[string]*entry{}}
}

// Get returns the store of sessionID, creating an unloaded one on first use.
func (r *Registry) Get(sessionID string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweep(now)

	e, ok := r.stores[sessionID]
	if !ok {
		e = &entry{store: NewStore(r.gw)}
		r.stores[sessionID] = e
	}

	e.lastUsed = now

	return e.store
}

// sweep drops idle stores. The caller holds mu.
func (r *Registry) sweep(now time.Time) {
	if r.idle <= 0 {
		return
	}

	for id, e := range r.stores {
		if now.Sub(e.lastUsed) > r.idle {
			delete(r.stores, id)
		}
	}
}

// Drop forgets the store of sessionID, e.g. on logout.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.stores, sessionID)
}

// Len returns the number of open editing sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.stores)
}
