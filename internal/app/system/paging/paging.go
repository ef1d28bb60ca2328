// internal/app/system/paging/paging.go
package paging

import "fmt"

// PageSize is the default number of rows shown in paged lists.
const PageSize = 10

// Ellipsis is the collapsed-gap marker in a page range. It is not a
// page number; renderers print it as "...".
const Ellipsis = -1

// Meta describes one page window over a total count. Indices are
// 0-based; Showing is the 1-based display label.
type Meta struct {
	Page       int
	Limit      int
	Total      int
	TotalPages int
	HasNext    bool
	HasPrev    bool
	StartIndex int
	EndIndex   int
	Showing    string
}

// ComputeMeta calculates pagination info for a 1-based page over total
// items. A zero total yields zero TotalPages and the "0-0" label.
func ComputeMeta(page, limit, total int) Meta {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	start := (page - 1) * limit
	end := start + limit - 1
	if end > total-1 {
		end = total - 1
	}

	showing := "0-0"
	if total > 0 {
		showing = fmt.Sprintf("%d-%d", start+1, end+1)
	}

	return Meta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
		StartIndex: start,
		EndIndex:   end,
		Showing:    showing,
	}
}

// Paginate returns the window of items for a 1-based page, clamped to
// bounds, along with its metadata. Empty input yields an empty slice
// and zero-total metadata.
func Paginate[T any](items []T, page, limit int) ([]T, Meta) {
	meta := ComputeMeta(page, limit, len(items))

	start := (page - 1) * limit
	if start < 0 {
		start = 0
	}
	if start > len(items) {
		start = len(items)
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], meta
}

// RangeWithEllipsis returns the page numbers to render around current:
// always the first and last page, every page within delta of current,
// and an Ellipsis marker for each collapsed gap. No page number is
// emitted twice. A single page yields [1]; zero pages yield nil.
func RangeWithEllipsis(current, totalPages, delta int) []int {
	if totalPages <= 0 {
		return nil
	}
	if totalPages == 1 {
		return []int{1}
	}

	window := make([]int, 0, 2*delta+1)
	lo := current - delta
	if lo < 2 {
		lo = 2
	}
	hi := current + delta
	if hi > totalPages-1 {
		hi = totalPages - 1
	}
	for i := lo; i <= hi; i++ {
		window = append(window, i)
	}

	out := make([]int, 0, len(window)+4)
	out = append(out, 1)
	if current-delta > 2 {
		out = append(out, Ellipsis)
	}
	out = append(out, window...)
	if current+delta < totalPages-1 {
		out = append(out, Ellipsis)
	}
	return append(out, totalPages)
}

// IsValidPage reports whether page falls inside [1, totalPages].
func IsValidPage(page, totalPages int) bool {
	return page >= 1 && page <= totalPages
}

// SafePage clamps page into the valid range, returning 1 when there
// are no pages at all.
func SafePage(page, totalPages int) int {
	if totalPages == 0 || page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// FormatInfo renders a human-readable summary line for a page window.
func FormatInfo(m Meta) string {
	if m.Total == 0 {
		return "No items found"
	}
	return fmt.Sprintf("Showing %s of %d items (Page %d of %d)",
		m.Showing, m.Total, m.Page, m.TotalPages)
}
