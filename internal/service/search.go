package service

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"ymm/catalog/internal/domain"
	"ymm/catalog/internal/search"
	"ymm/catalog/internal/state"
)

// SearchService starts parts searches and serves their pages, filters and restore data per session
type SearchService struct {
	vehicles *VehicleService
	taxonomy *TaxonomyService
	pipeline *search.Pipeline
	sessions state.SessionStore
}

func NewSearchService(
	vehicles *VehicleService,
	taxonomy *TaxonomyService,
	pipeline *search.Pipeline,
	sessions state.SessionStore,
) *SearchService {
	return &SearchService{
		vehicles: vehicles,
		taxonomy: taxonomy,
		pipeline: pipeline,
		sessions: sessions,
	}
}

// Search resolves the vehicle when no base vehicle id is given, replaces the session's search and
// returns page 1 as soon as the first fitment page is matched. A failed search returns its view
// together with the error that ended it.
func (s *SearchService) Search(ctx context.Context, sessionID string, data domain.SearchData) (search.PageView, error) {
	if data.BaseVehicleID == 0 {
		vehicle, err := s.vehicles.Resolve(ctx, data.Year, data.MakeID, data.ModelID)
		if err != nil {
			return search.PageView{}, err
		}
		data.BaseVehicleID = vehicle.ID
	}
	if data.RegionID == 0 {
		data.RegionID = domain.DefaultRegionID
	}
	data.Timestamp = time.Now().UnixMilli()

	if err := s.sessions.SaveSearch(ctx, sessionID, data); err != nil {
		log.Warnf("⚠️ Failed to store search data for session %s: %v", sessionID, err)
	}

	srch, err := s.pipeline.Start(ctx, sessionID, data)
	if err != nil {
		return search.PageView{}, err
	}

	return srch.Aggregator.View(), srch.Aggregator.Err()
}

// Results moves the session's search to page and returns it. Page 0 leaves the current page as is.
func (s *SearchService) Results(sessionID string, page int) (search.PageView, error) {
	srch, err := s.current(sessionID)
	if err != nil {
		return search.PageView{}, err
	}
	// no page means a poll of the page the shopper is on
	if page == 0 {
		return srch.Aggregator.View(), nil
	}
	return srch.Aggregator.Page(page), nil
}

// SetFilter narrows the session's results in memory; nothing is refetched
func (s *SearchService) SetFilter(sessionID string, f search.Filter) (search.PageView, error) {
	srch, err := s.current(sessionID)
	if err != nil {
		return search.PageView{}, err
	}
	return srch.Aggregator.SetFilter(f), nil
}

// FilterTree renders the shop's taxonomy with the session's checked terminology ids
func (s *SearchService) FilterTree(ctx context.Context, shop, sessionID string) (search.FilterTree, error) {
	tree, err := s.taxonomy.Tree(ctx, shop)
	if err != nil {
		return search.FilterTree{}, err
	}

	var f search.Filter
	if srch, ok := s.pipeline.Registry().Current(sessionID); ok {
		f = srch.Aggregator.View().Filter
	}

	return search.BuildFilterTree(tree, f), nil
}

// Session returns the stored search data of the session, nil when there is none
func (s *SearchService) Session(ctx context.Context, sessionID string) (*domain.SearchData, error) {
	return s.sessions.GetSearch(ctx, sessionID)
}

// Clear drops the session's results and its stored search data
func (s *SearchService) Clear(ctx context.Context, sessionID string) error {
	s.pipeline.Registry().Remove(sessionID)
	return s.sessions.ClearSearch(ctx, sessionID)
}

func (s *SearchService) current(sessionID string) (*search.Search, error) {
	srch, ok := s.pipeline.Registry().Current(sessionID)
	if !ok {
		return nil, &domain.Error{
			Kind:    domain.KindNotFound,
			Op:      "search.results",
			Message: "No search in progress",
			Err:     domain.ErrNotFound,
		}
	}
	return srch, nil
}
