// Package session maps browser sessions to their simulation orchestrators.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/irfndi/gridiron-sim-viewer/internal/services"
)

// Factory creates the orchestrator for a new session.
type Factory func(id string) *services.Orchestrator

type entry struct {
	orchestrator *services.Orchestrator
	lastAccess   time.Time
}

// Registry owns one orchestrator per session id. Sessions that are not
// accessed for the idle TTL are evicted by Sweep, which also cancels their
// in-flight request.
type Registry struct {
	factory Factory
	idleTTL time.Duration
	logger  *logrus.Logger
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

// NewRegistry creates an empty registry.
func NewRegistry(factory Factory, idleTTL time.Duration, logger *logrus.Logger) *Registry {
	if idleTTL <= 0 {
		idleTTL = 30 * time.Minute
	}
	return &Registry{
		factory:  factory,
		idleTTL:  idleTTL,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*entry),
	}
}

// Acquire returns the orchestrator for id, creating a session when id is
// empty, not a UUID or unknown. The returned id is the one the caller must
// use from now on.
func (r *Registry) Acquire(id string) (string, *services.Orchestrator) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if e, ok := r.sessions[id]; ok {
		e.lastAccess = now
		return id, e.orchestrator
	}

	newID := uuid.NewString()
	e := &entry{orchestrator: r.factory(newID), lastAccess: now}
	r.sessions[newID] = e

	fields := logrus.Fields{"session_id": newID, "sessions": len(r.sessions)}
	if _, err := uuid.Parse(id); err == nil {
		fields["expired_session_id"] = id
	}
	r.logger.WithFields(fields).Debug("Session created")
	return newID, e.orchestrator
}

// Lookup returns the orchestrator for an existing session without creating one.
func (r *Registry) Lookup(id string) (*services.Orchestrator, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	e.lastAccess = r.now()
	return e.orchestrator, true
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep evicts idle sessions and returns how many were removed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	var evicted []*services.Orchestrator
	cutoff := r.now().Add(-r.idleTTL)
	for id, e := range r.sessions {
		if e.lastAccess.Before(cutoff) {
			evicted = append(evicted, e.orchestrator)
			delete(r.sessions, id)
		}
	}
	remaining := len(r.sessions)
	r.mu.Unlock()

	for _, o := range evicted {
		o.Close()
	}
	if len(evicted) > 0 {
		r.logger.WithFields(logrus.Fields{
			"evicted":   len(evicted),
			"remaining": remaining,
		}).Info("Idle sessions evicted")
	}
	return len(evicted)
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

// Close evicts every session.
func (r *Registry) Close() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*entry)
	r.mu.Unlock()

	for _, e := range sessions {
		e.orchestrator.Close()
	}
}
