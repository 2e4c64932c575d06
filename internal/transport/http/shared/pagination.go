package shared

import (
	"net/http"
	"strconv"
	"strings"
)

type PageQuery struct {
	Page   int
	Limit  int
	Search string
}

// ParsePageQuery reads page/limit/search. Bad or missing values fall back to
// page 1 and the default limit rather than erroring.
func ParsePageQuery(r *http.Request, defaultLimit, maxLimit int) PageQuery {
	page := 1
	limit := defaultLimit
	if raw := r.URL.Query().Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			page = v
		}
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	return PageQuery{
		Page:   page,
		Limit:  limit,
		Search: strings.TrimSpace(r.URL.Query().Get("search")),
	}
}
