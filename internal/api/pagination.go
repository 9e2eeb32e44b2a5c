package api

import (
	"net/http"
	"strconv"

	"github.com/ignite/newsletter-api/internal/filter"
)

// Pagination headers set on every list response.
const (
	headerPage       = "X-Page"
	headerPerPage    = "X-Per-Page"
	headerTotalCount = "X-Total-Count"
)

func setPageHeaders(w http.ResponseWriter, p filter.Page, total int) {
	w.Header().Set(headerPage, strconv.Itoa(p.Page))
	w.Header().Set(headerPerPage, strconv.Itoa(p.PerPage))
	w.Header().Set(headerTotalCount, strconv.Itoa(total))
}
