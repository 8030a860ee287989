package event

import "ymm/catalog/internal/domain"

type SearchTriggered struct {
	Meta
	Vehicle domain.SearchData `json:"vehicle"`
}

func (e *SearchTriggered) EventType() string {
	return TypeSearchTriggered
}

func (e *SearchTriggered) EventValue() ([]byte, error) {
	return DefaultEventValue(e)
}

// FirstPageReady is emitted once per search, as soon as the first fitment page is matched
type FirstPageReady struct {
	Meta
	Summary domain.ResultSummary `json:"summary"`
}

func (e *FirstPageReady) EventType() string {
	return TypeFirstPageReady
}

func (e *FirstPageReady) EventValue() ([]byte, error) {
	return DefaultEventValue(e)
}

// SummaryUpdated carries only the refreshed counts after a later page was appended
type SummaryUpdated struct {
	Meta
	FetchedPages int                  `json:"fetched_pages"`
	Summary      domain.ResultSummary `json:"summary"`
}

func (e *SummaryUpdated) EventType() string {
	return TypeSummaryUpdated
}

func (e *SummaryUpdated) EventValue() ([]byte, error) {
	return DefaultEventValue(e)
}

type SearchCompleted struct {
	Meta
	FetchedPages int                  `json:"fetched_pages"`
	Summary      domain.ResultSummary `json:"summary"`
}

func (e *SearchCompleted) EventType() string {
	return TypeSearchCompleted
}

func (e *SearchCompleted) EventValue() ([]byte, error) {
	return DefaultEventValue(e)
}

// SearchEmpty is the terminal "no parts found" state, distinct from loading
type SearchEmpty struct {
	Meta
	FetchedPages int `json:"fetched_pages"`
}

func (e *SearchEmpty) EventType() string {
	return TypeSearchEmpty
}

func (e *SearchEmpty) EventValue() ([]byte, error) {
	return DefaultEventValue(e)
}

type SearchFailed struct {
	Meta
	Page   int    `json:"page"`
	Status int    `json:"status,omitempty"`
	Error  string `json:"error"` // Error message from the failed fetch
}

func (e *SearchFailed) EventType() string {
	return TypeSearchFailed
}

func (e *SearchFailed) EventValue() ([]byte, error) {
	return DefaultEventValue(e)
}
