package queue

import (
	"context"
	"errors"
	"sync"

	log "github.com/sirupsen/logrus"

	"ymm/catalog/internal/domain/event"
)

// Publisher delivers events to whatever sinks are configured
type Publisher interface {
	Publish(ctx context.Context, e event.Event) error
}

// Multi publishes to every sink. A failing sink does not stop the others.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e event.Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, e); err != nil {
			log.Warnf("⚠️ Failed to publish %s: %v", e.EventType(), err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop drops every event
type Nop struct{}

func (Nop) Publish(context.Context, event.Event) error { return nil }

// Recorder keeps published events in memory, in order
type Recorder struct {
	mu     sync.Mutex
	events []event.Event
}

func (r *Recorder) Publish(_ context.Context, e event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

// Events returns a copy of the recorded events
func (r *Recorder) Events() []event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]event.Event(nil), r.events...)
}

// Types returns the event types recorded so far
func (r *Recorder) Types() []string {
	events := r.Events()
	types := make([]string, 0, len(events))
	for _, e := range events {
		types = append(types, e.EventType())
	}
	return types
}
