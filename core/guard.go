package core

import "sync"

// UserGuard tracks members with an operation in flight so that concurrent
// requests for the same member can be rejected instead of racing. The zero
// value is not usable; use NewUserGuard.
type UserGuard struct {
	mu     sync.Mutex
	active map[UserID]struct{}
}

// NewUserGuard creates an empty guard.
func NewUserGuard() *UserGuard {
	return &UserGuard{active: make(map[UserID]struct{})}
}

// TryAcquire marks the member as busy. It returns false if the member
// already has an operation in flight.
func (g *UserGuard) TryAcquire(id UserID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.active[id]; busy {
		return false
	}
	g.active[id] = struct{}{}
	return true
}

// Release marks the member as idle again. Releasing an id that was never
// acquired is a no-op.
func (g *UserGuard) Release(id UserID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.active, id)
}
