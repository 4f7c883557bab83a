package service

import (
	"strconv"
	"strings"
)

// Pagination describes one page of a listing.
type Pagination struct {
	Page       int
	PerPage    int
	Total      int64
	TotalPages int
	Offset     int
}

// HasPrevious reports whether a previous page exists.
func (p Pagination) HasPrevious() bool { return p.Page > 1 }

// HasNext reports whether a next page exists.
func (p Pagination) HasNext() bool { return p.Page < p.TotalPages }

// PreviousPage returns the previous page number.
func (p Pagination) PreviousPage() int { return p.Page - 1 }

// NextPage returns the next page number.
func (p Pagination) NextPage() int { return p.Page + 1 }

// Pages lists every page number, for the page links under a listing.
func (p Pagination) Pages() []int {
	out := make([]int, p.TotalPages)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// ParsePageNumber reads the ?page= query value. Anything that is not an integer means page 1;
// integers are returned as-is and clamped later by Paginate.
func ParsePageNumber(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	return n
}

// Paginate clamps requested into [1, TotalPages]: pages outside the range fall back to the last page.
// An empty listing still has one page.
func Paginate(requested int, total int64, perPage int) Pagination {
	perPage = normalizePerPage(perPage, 10)
	p := Pagination{
		PerPage:    perPage,
		Total:      total,
		TotalPages: calculateTotalPages(total, perPage),
	}
	p.Page = requested
	if p.Page < 1 || p.Page > p.TotalPages {
		p.Page = p.TotalPages
	}
	p.Offset = (p.Page - 1) * perPage
	return p
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func normalizePerPage(perPage, fallback int) int {
	if perPage <= 0 {
		return fallback
	}
	return perPage
}

func calculateTotalPages(total int64, perPage int) int {
	if perPage <= 0 {
		return 1
	}
	if total == 0 {
		return 1
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}
