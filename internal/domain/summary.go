package domain

import "fmt"

// ResultSummary is the "showing X-Y of Z" line plus the pagination control state
type ResultSummary struct {
	From       int `json:"from"` // 1-based index of the first visible result, 0 when empty
	To         int `json:"to"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
}

func (s ResultSummary) String() string {
	if s.Total == 0 {
		return "No parts found"
	}
	return fmt.Sprintf("Showing %d-%d of %d parts", s.From, s.To, s.Total)
}
