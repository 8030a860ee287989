package search

import (
	"errors"
	"sync"
	"time"

	"ymm/catalog/internal/domain"
	"ymm/catalog/internal/domain/event"
)

type State int

const (
	StateIdle State = iota
	StateFetchingFirstPage
	StateDisplayingPartial
	StateFetchingNextPage
	StateComplete
	StateEmpty
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetchingFirstPage:
		return "fetching_first_page"
	case StateDisplayingPartial:
		return "displaying_partial"
	case StateFetchingNextPage:
		return "fetching_next_page"
	case StateComplete:
		return "complete"
	case StateEmpty:
		return "empty"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Terminal reports whether no more pages will arrive
func (s State) Terminal() bool {
	return s == StateComplete || s == StateEmpty || s == StateFailed
}

const loadingMessage = "Loading parts..."

// PageView is what the results widget renders for the current page
type PageView struct {
	SearchID string               `json:"searchId"`
	State    State                `json:"state"`
	Message  string               `json:"message"`
	Summary  domain.ResultSummary `json:"summary"`
	Parts    []domain.PartView    `json:"parts"`
	Filter   Filter               `json:"filter"`
	Options  FilterOptions        `json:"options"`
	Error    string               `json:"error,omitempty"`
}

// Aggregator owns the matched results of one search. A new search gets a new Aggregator;
// nothing outside it mutates the aggregate or the current page.
type Aggregator struct {
	mu           sync.RWMutex
	meta         event.Meta
	pageSize     int
	state        State
	all          []domain.MatchedResult
	visible      []domain.MatchedResult
	filter       Filter
	page         int
	fetchedPages int
	err          error
	ready        chan struct{}
	readyOnce    sync.Once
}

func NewAggregator(meta event.Meta, pageSize int) *Aggregator {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	return &Aggregator{
		meta:     meta,
		pageSize: pageSize,
		state:    StateIdle,
		page:     1,
		ready:    make(chan struct{}),
	}
}

// Ready is closed once the first page has been handled, or the search ended without one
func (a *Aggregator) Ready() <-chan struct{} {
	return a.ready
}

// Begin moves Idle to FetchingFirstPage
func (a *Aggregator) Begin(vehicle domain.SearchData) event.Event {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state != StateIdle {
		return nil
	}
	a.state = StateFetchingFirstPage

	return &event.SearchTriggered{Meta: a.stamp(), Vehicle: vehicle}
}

// AddPage records the matches of one fetched page. The first page replaces the visible set and
// yields FirstPageReady; later pages are appended and yield only SummaryUpdated.
func (a *Aggregator) AddPage(matches []domain.MatchedResult, last bool) event.Event {
	a.mu.Lock()
	defer a.mu.Unlock()

	var e event.Event
	switch a.state {
	case StateFetchingFirstPage:
		a.all = append(a.all[:0], matches...)
		a.visible = a.filter.Apply(a.all)
		a.page = 1
		a.fetchedPages = 1
		e = &event.FirstPageReady{Meta: a.stamp(), Summary: a.summary()}
		a.markReady()
	case StateFetchingNextPage:
		a.all = append(a.all, matches...)
		a.visible = append(a.visible, a.filter.Apply(matches)...)
		a.fetchedPages++
		e = &event.SummaryUpdated{Meta: a.stamp(), FetchedPages: a.fetchedPages, Summary: a.summary()}
	default:
		return nil
	}

	a.state = StateDisplayingPartial
	if !last {
		a.state = StateFetchingNextPage
	}
	return e
}

// Complete ends the search. An empty aggregate is reported as Empty, not Complete.
func (a *Aggregator) Complete() event.Event {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state.Terminal() || a.state == StateIdle {
		return nil
	}
	defer a.markReady()

	if len(a.all) == 0 {
		a.state = StateEmpty
		return &event.SearchEmpty{Meta: a.stamp(), FetchedPages: a.fetchedPages}
	}

	a.state = StateComplete
	return &event.SearchCompleted{Meta: a.stamp(), FetchedPages: a.fetchedPages, Summary: a.summary()}
}

// Fail ends the search with err. Results gathered before the failure stay viewable.
func (a *Aggregator) Fail(err error) event.Event {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state.Terminal() || a.state == StateIdle {
		return nil
	}
	defer a.markReady()

	a.state = StateFailed
	a.err = err

	failed := &event.SearchFailed{
		Meta:  a.stamp(),
		Page:  a.fetchedPages + 1,
		Error: domain.MessageOf(err, "failed to load parts"),
	}
	var fetchErr *domain.FetchFailure
	if errors.As(err, &fetchErr) {
		failed.Page = fetchErr.Page
		failed.Status = fetchErr.Status
	}
	return failed
}

// SetFilter replaces the filter and recomputes the visible set from the aggregate. The page resets to 1.
func (a *Aggregator) SetFilter(f Filter) PageView {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.filter = f
	a.visible = f.Apply(a.all)
	a.page = 1
	return a.view()
}

// Page moves to page n, clamped to the available pages
func (a *Aggregator) Page(n int) PageView {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.page = ClampPage(n, a.pageSize, len(a.visible))
	return a.view()
}

func (a *Aggregator) View() PageView {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.view()
}

func (a *Aggregator) State() State {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

// Err is the failure that ended the search, if any
func (a *Aggregator) Err() error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.err
}

func (a *Aggregator) Summary() domain.ResultSummary {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.summary()
}

func (a *Aggregator) summary() domain.ResultSummary {
	return Summarize(a.page, a.pageSize, len(a.visible))
}

func (a *Aggregator) view() PageView {
	summary := a.summary()
	start, end := PageBounds(a.page, a.pageSize, len(a.visible))

	parts := make([]domain.PartView, 0, end-start)
	for _, m := range a.visible[start:end] {
		parts = append(parts, domain.NewPartView(m))
	}

	v := PageView{
		SearchID: a.meta.SearchID,
		State:    a.state,
		Summary:  summary,
		Parts:    parts,
		Filter:   a.filter,
		Options:  BuildFilterOptions(a.all),
	}

	switch a.state {
	case StateIdle, StateFetchingFirstPage:
		v.Message = loadingMessage
	case StateFailed:
		v.Error = domain.MessageOf(a.err, "failed to load parts")
		v.Message = v.Error
	default:
		v.Message = summary.String()
	}
	return v
}

func (a *Aggregator) stamp() event.Meta {
	meta := a.meta
	meta.At = time.Now().UTC()
	return meta
}

func (a *Aggregator) markReady() {
	a.readyOnce.Do(func() { close(a.ready) })
}
