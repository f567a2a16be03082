package helpers

import (
	"net/http"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

type Pagination struct {
	Page  int
	Limit int
}

// ParsePagination reads page and limit from the query string. Missing or
// malformed values fall back to the defaults and limit is clamped to
// 1..MaxLimit.
func ParsePagination(r *http.Request) Pagination {
	q := r.URL.Query()
	return NewPagination(atoiOr(q.Get("page"), DefaultPage), atoiOr(q.Get("limit"), DefaultLimit))
}

func NewPagination(page, limit int) Pagination {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Pagination{Page: page, Limit: limit}
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

func (p Pagination) TotalPages(totalItems int64) int {
	if totalItems <= 0 {
		return 0
	}
	return int((totalItems + int64(p.Limit) - 1) / int64(p.Limit))
}

func atoiOr(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
