package utils

import "math"

// Pagination bounds. The store cannot combine filters with ordering without a
// pre-declared index, so every listing fetches the filtered set and pages it
// in memory; the limit cap bounds the slice handed back to clients.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// PageRequest holds clamped pagination parameters.
type PageRequest struct {
	Page  int
	Limit int
}

// ClampPage normalises raw page/limit query values: page >= 1, limit within
// [1, MaxPageLimit], defaulting to DefaultPageLimit when unset.
func ClampPage(page, limit int) PageRequest {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return PageRequest{Page: page, Limit: limit}
}

// Offset returns the index of the first item on the page.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// TotalPages computes the page count for a result set of the given size.
func (p PageRequest) TotalPages(total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(p.Limit)))
}

// PageSlice returns the bounds of the requested page within a sorted slice of
// length total, suitable for slicing as items[start:end].
func (p PageRequest) PageSlice(total int) (start, end int) {
	start = p.Offset()
	if start >= total {
		return total, total
	}
	end = start + p.Limit
	if end > total {
		end = total
	}
	return start, end
}

// Paginate slices one page out of the in-memory result set and wraps it with
// metadata for the response envelope.
func Paginate[T any](items []T, p PageRequest) PaginatedData {
	start, end := p.PageSlice(len(items))
	return PaginatedData{
		Data:       items[start:end],
		Total:      len(items),
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: p.TotalPages(len(items)),
	}
}
