package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"ymm/catalog/internal/client"
	"ymm/catalog/internal/domain"
	"ymm/catalog/internal/domain/event"
	"ymm/catalog/internal/queue"
)

var errSuperseded = errors.New("search superseded")

// PartsFetcher pages through the fitment records of a vehicle
type PartsFetcher interface {
	FetchParts(ctx context.Context, q domain.PartsQuery, handler client.PageHandler) error
}

// Pipeline runs searches: it fetches fitment pages one at a time, matches them against the
// store product index and feeds the session's aggregator.
type Pipeline struct {
	parts     PartsFetcher
	products  ProductLister
	publisher queue.Publisher
	registry  *Registry
	pageSize  int
	maxAge    time.Duration
}

func NewPipeline(
	parts PartsFetcher,
	products ProductLister,
	publisher queue.Publisher,
	registry *Registry,
	pageSize int,
	maxAge time.Duration,
) *Pipeline {
	if publisher == nil {
		publisher = queue.Nop{}
	}

	return &Pipeline{
		parts:     parts,
		products:  products,
		publisher: publisher,
		registry:  registry,
		pageSize:  pageSize,
		maxAge:    maxAge,
	}
}

func (p *Pipeline) Registry() *Registry {
	return p.registry
}

// Start begins a search for the session, replacing any search still running for it, and returns
// as soon as the first page is displayable. The remaining pages keep arriving in the background.
func (p *Pipeline) Start(ctx context.Context, sessionID string, data domain.SearchData) (*Search, error) {
	if p.maxAge > 0 {
		if n := p.registry.Prune(time.Now().Add(-p.maxAge)); n > 0 {
			log.Debugf("Pruned %d expired searches", n)
		}
	}

	// The search outlives the request that started it but keeps its values, the shop among them
	searchCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	s := &Search{
		ID:         uuid.NewString(),
		SessionID:  sessionID,
		Generation: p.registry.nextGeneration(),
		Data:       data,
		StartedAt:  time.Now(),
		cancel:     cancel,
		done:       make(chan struct{}),
	}
	s.Aggregator = NewAggregator(event.Meta{
		SearchID:  s.ID,
		SessionID: sessionID,
		Shop:      domain.ShopFrom(ctx),
	}, p.pageSize)

	p.registry.Replace(s)
	p.emit(searchCtx, s.Aggregator.Begin(data))

	log.Infof("🔎 Search %s started for base vehicle %d (session %s)", s.ID, data.BaseVehicleID, sessionID)
	go p.run(searchCtx, s)

	select {
	case <-s.Aggregator.Ready():
		return s, nil
	case <-s.done:
		return s, nil
	case <-ctx.Done():
		return s, fmt.Errorf("search %s interrupted before the first page: %w", s.ID, ctx.Err())
	}
}

func (p *Pipeline) run(ctx context.Context, s *Search) {
	defer close(s.done)
	defer s.cancel()

	started := time.Now()
	var index *ProductIndex

	err := p.parts.FetchParts(ctx, s.Data.Query(), func(page *client.PartsPage) error {
		if !p.registry.IsCurrent(s.SessionID, s.Generation) {
			return errSuperseded
		}

		// An empty page adds nothing, and the matcher is not consulted for it
		if len(page.Records) == 0 {
			return nil
		}

		if index == nil {
			loaded, err := LoadIndex(ctx, p.products)
			if err != nil {
				return err
			}
			index = loaded
		}

		matches := Match(page.Records, index)
		log.Debugf("Search %s page %d: %d of %d records matched", s.ID, page.Page, len(matches), len(page.Records))

		p.emit(ctx, s.Aggregator.AddPage(matches, page.Last))
		return nil
	})

	switch {
	case errors.Is(err, errSuperseded) || (err != nil && ctx.Err() != nil):
		log.Infof("🛑 Search %s superseded, dropping remaining pages", s.ID)
	case err != nil:
		log.Warnf("⚠️ Search %s failed: %v", s.ID, err)
		p.emit(ctx, s.Aggregator.Fail(err))
	default:
		p.emit(ctx, s.Aggregator.Complete())
		log.Infof("✅ Search %s finished in %s: %s", s.ID, time.Since(started).Round(time.Millisecond), s.Aggregator.Summary())
	}
}

func (p *Pipeline) emit(ctx context.Context, e event.Event) {
	if e == nil {
		return
	}
	if err := p.publisher.Publish(context.WithoutCancel(ctx), e); err != nil {
		log.Warnf("⚠️ Failed to publish %s: %v", e.EventType(), err)
	}
}
