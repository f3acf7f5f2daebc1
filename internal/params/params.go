package params

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Pagination holds the parsed ?limit/?page values plus metadata computed once
// the total row count is known.
type Pagination struct {
	Limit      int  `json:"limit"`
	Offset     int  `json:"offset"`
	Page       int  `json:"page"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

const (
	defaultLimit = 15
	maxLimit     = 50
)

// ParsePagination parses ?limit=...&page=... with safe fallbacks; keys are
// case sensitive.
func ParsePagination(q url.Values) Pagination {
	p := Pagination{
		Limit: defaultLimit,
		Page:  1,
	}

	if limitStr := strings.TrimSpace(q.Get("limit")); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			switch {
			case limit <= 0:
				p.Limit = defaultLimit
			case limit > maxLimit:
				p.Limit = maxLimit
			default:
				p.Limit = limit
			}
		}
	}

	if pageStr := strings.TrimSpace(q.Get("page")); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil && page > 0 {
			p.Page = page
		}
	}

	p.Offset = (p.Page - 1) * p.Limit
	return p
}

// ComputeMeta fills the derived fields once the query has counted rows.
func (p *Pagination) ComputeMeta(total int) {
	p.Total = total
	p.TotalPages = int(math.Ceil(float64(total) / float64(p.Limit)))
	p.HasNext = p.Page < p.TotalPages
	p.HasPrev = p.Page > 1
}
