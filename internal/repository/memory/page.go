package memory

import "github.com/ignite/newsletter-api/internal/filter"

// paginate returns the slice of items for page p. Pages past the end, or
// whose offset does not fit in an int, are empty.
func paginate[T any](items []T, p filter.Page) []T {
	start := p.Offset()
	if start < 0 || start >= len(items) || p.PerPage < 1 {
		return []T{}
	}
	end := len(items)
	if p.PerPage < end-start {
		end = start + p.PerPage
	}
	return items[start:end]
}
