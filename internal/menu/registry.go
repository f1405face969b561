package menu

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// ScreenFactory builds a fresh screen for a session.
type ScreenFactory func(session Session) *Screen

// Registry keeps one mounted screen per user. Mounting a screen starts its
// catalog load in the background, the same way the screen loads on mount.
type Registry struct {
	ctx     context.Context
	factory ScreenFactory

	mu      sync.Mutex
	screens map[uuid.UUID]*Screen
}

// NewRegistry creates a registry. ctx bounds the background loads.
func NewRegistry(ctx context.Context, factory ScreenFactory) *Registry {
	return &Registry{
		ctx:     ctx,
		factory: factory,
		screens: make(map[uuid.UUID]*Screen),
	}
}

// Mount returns the user's screen, creating and loading it if needed.
func (r *Registry) Mount(session Session) *Screen {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.screens[session.UserID]; ok {
		return s
	}
	return r.mountLocked(session)
}

// Remount discards the user's screen and mounts a new one.
func (r *Registry) Remount(session Session) *Screen {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mountLocked(session)
}

// Unmount drops the user's screen and all of its local state.
func (r *Registry) Unmount(userID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.screens, userID)
}

// Get returns the user's screen if one is mounted.
func (r *Registry) Get(userID uuid.UUID) (*Screen, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.screens[userID]
	return s, ok
}

func (r *Registry) mountLocked(session Session) *Screen {
	s := r.factory(session)
	r.screens[session.UserID] = s
	go s.Load(r.ctx) //nolint:errcheck
	return s
}
