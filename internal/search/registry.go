package search

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"ymm/catalog/internal/domain"
)

// Search is one run of the results pipeline for a session
type Search struct {
	ID         string
	SessionID  string
	Generation uint64
	Data       domain.SearchData
	Aggregator *Aggregator
	StartedAt  time.Time

	cancel context.CancelFunc
	done   chan struct{}
}

// Done is closed when the fetch loop of the search has returned
func (s *Search) Done() <-chan struct{} {
	return s.done
}

// Registry tracks the current search of every session. Replacing a session's search cancels
// the previous one; its pages are dropped by generation check and never reach the new aggregate.
type Registry struct {
	mu         sync.RWMutex
	searches   map[string]*Search
	generation atomic.Uint64
}

func NewRegistry() *Registry {
	return &Registry{searches: make(map[string]*Search)}
}

func (r *Registry) nextGeneration() uint64 {
	return r.generation.Add(1)
}

// Replace installs s as the current search of its session and cancels the one it supersedes
func (r *Registry) Replace(s *Search) {
	r.mu.Lock()
	previous := r.searches[s.SessionID]
	r.searches[s.SessionID] = s
	r.mu.Unlock()

	if previous != nil && previous.cancel != nil {
		previous.cancel()
	}
}

func (r *Registry) Current(sessionID string) (*Search, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.searches[sessionID]
	return s, ok
}

// IsCurrent reports whether generation is still the live search of sessionID
func (r *Registry) IsCurrent(sessionID string, generation uint64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.searches[sessionID]
	return ok && s.Generation == generation
}

// Remove cancels and forgets the session's search
func (r *Registry) Remove(sessionID string) {
	r.mu.Lock()
	s := r.searches[sessionID]
	delete(r.searches, sessionID)
	r.mu.Unlock()

	if s != nil && s.cancel != nil {
		s.cancel()
	}
}

// Prune drops searches started before the cutoff and returns how many were removed
func (r *Registry) Prune(before time.Time) int {
	r.mu.Lock()
	var stale []*Search
	for id, s := range r.searches {
		if s.StartedAt.Before(before) {
			stale = append(stale, s)
			delete(r.searches, id)
		}
	}
	r.mu.Unlock()

	for _, s := range stale {
		if s.cancel != nil {
			s.cancel()
		}
	}
	return len(stale)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.searches)
}
