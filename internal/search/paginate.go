package search

import "ymm/catalog/internal/domain"

const DefaultPageSize = 20

// PageCount returns ceil(total/size), zero for an empty set
func PageCount(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// ClampPage bounds page to [1, PageCount]
func ClampPage(page, size, total int) int {
	pages := PageCount(total, size)
	if page > pages {
		page = pages
	}
	if page < 1 {
		page = 1
	}
	return page
}

// PageBounds returns the half-open slice range [start, end) of page
func PageBounds(page, size, total int) (int, int) {
	if total <= 0 || size <= 0 || page < 1 {
		return 0, 0
	}

	start := (page - 1) * size
	if start >= total {
		return total, total
	}
	return start, min(page*size, total)
}

func Summarize(page, size, total int) domain.ResultSummary {
	start, end := PageBounds(page, size, total)

	summary := domain.ResultSummary{
		To:         end,
		Total:      total,
		Page:       page,
		PageSize:   size,
		TotalPages: PageCount(total, size),
	}
	if end > start {
		summary.From = start + 1
	}
	return summary
}
