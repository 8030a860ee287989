package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ymm/catalog/internal/domain"
	"ymm/catalog/internal/domain/event"
)

func matches(n int, offset int) []domain.MatchedResult {
	out := make([]domain.MatchedResult, 0, n)
	for i := 0; i < n; i++ {
		id := int64(offset + i)
		out = append(out, domain.MatchedResult{
			Record:  domain.FitmentRecord{BrandCode: "BRD", PartNumber: "P", PartTypeID: id},
			Product: domain.StoreProductEntry{ProductID: id},
		})
	}
	return out
}

func TestAggregatorLifecycle(t *testing.T) {
	agg := NewAggregator(event.Meta{SearchID: "s1", SessionID: "sess"}, 20)
	assert.Equal(t, StateIdle, agg.State())

	e := agg.Begin(domain.SearchData{BaseVehicleID: 5911})
	require.IsType(t, &event.SearchTriggered{}, e)
	assert.Equal(t, StateFetchingFirstPage, agg.State())
	assert.Equal(t, "Loading parts...", agg.View().Message)

	select {
	case <-agg.Ready():
		t.Fatal("ready before the first page")
	default:
	}

	e = agg.AddPage(matches(25, 0), false)
	first, ok := e.(*event.FirstPageReady)
	require.True(t, ok)
	assert.Equal(t, "s1", first.SearchID)
	assert.Equal(t, 25, first.Summary.Total)
	assert.Equal(t, StateFetchingNextPage, agg.State())
	<-agg.Ready()

	// the user moves to page 2 while more pages arrive
	view := agg.Page(2)
	require.Len(t, view.Parts, 5)
	assert.Equal(t, int64(20), view.Parts[0].ProductID)

	e = agg.AddPage(matches(30, 25), true)
	updated, ok := e.(*event.SummaryUpdated)
	require.True(t, ok)
	assert.Equal(t, 2, updated.FetchedPages)
	assert.Equal(t, domain.ResultSummary{From: 21, To: 40, Total: 55, Page: 2, PageSize: 20, TotalPages: 3}, updated.Summary)
	assert.Equal(t, StateDisplayingPartial, agg.State())

	e = agg.Complete()
	done, ok := e.(*event.SearchCompleted)
	require.True(t, ok)
	assert.Equal(t, 55, done.Summary.Total)
	assert.Equal(t, StateComplete, agg.State())

	assert.Nil(t, agg.Complete(), "terminal states emit nothing further")
	assert.Nil(t, agg.AddPage(matches(1, 99), true))

	view = agg.Page(3)
	assert.Len(t, view.Parts, 15)
	assert.Equal(t, "Showing 41-55 of 55 parts", view.Message)
}

func TestAggregatorEmpty(t *testing.T) {
	agg := NewAggregator(event.Meta{}, 20)
	agg.Begin(domain.SearchData{})

	e := agg.Complete()

	require.IsType(t, &event.SearchEmpty{}, e)
	assert.Equal(t, StateEmpty, agg.State())
	<-agg.Ready()

	view := agg.View()
	assert.Equal(t, "No parts found", view.Message)
	assert.Empty(t, view.Parts)
	assert.NotEqual(t, loadingMessage, view.Message)
}

func TestAggregatorFail(t *testing.T) {
	agg := NewAggregator(event.Meta{}, 20)
	agg.Begin(domain.SearchData{})
	agg.AddPage(matches(3, 0), false)

	e := agg.Fail(&domain.FetchFailure{Page: 2, Status: 502})

	failed, ok := e.(*event.SearchFailed)
	require.True(t, ok)
	assert.Equal(t, 2, failed.Page)
	assert.Equal(t, 502, failed.Status)
	assert.Equal(t, "failed to fetch page 2: HTTP 502", failed.Error)

	view := agg.View()
	assert.Equal(t, StateFailed, view.State)
	assert.Len(t, view.Parts, 3, "earlier results stay visible")
	assert.Equal(t, domain.KindRemoteCall, domain.KindOf(agg.Err()))
}

func TestAggregatorFilterResetsPage(t *testing.T) {
	agg := NewAggregator(event.Meta{}, 2)
	agg.Begin(domain.SearchData{})
	agg.AddPage(matches(6, 0), true)
	agg.Complete()

	agg.Page(3)
	view := agg.SetFilter(Filter{TerminologyIDs: []int64{1, 4, 5}})

	assert.Equal(t, 1, view.Summary.Page)
	assert.Equal(t, 3, view.Summary.Total)
	assert.Equal(t, 2, view.Summary.TotalPages)
	assert.Len(t, view.Parts, 2)

	view = agg.SetFilter(Filter{})
	assert.Equal(t, 6, view.Summary.Total, "clearing the filter shows the full aggregate")
}

func TestAggregatorFilterAppliesToLaterPages(t *testing.T) {
	agg := NewAggregator(event.Meta{}, 20)
	agg.Begin(domain.SearchData{})
	agg.AddPage(matches(4, 0), false)
	agg.SetFilter(Filter{TerminologyIDs: []int64{1, 5}})

	e := agg.AddPage(matches(4, 4), true)

	updated := e.(*event.SummaryUpdated)
	assert.Equal(t, 2, updated.Summary.Total)
}
