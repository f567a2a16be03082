package helpers

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePagination(t *testing.T) {
	testCases := []struct {
		query string
		page  int
		limit int
	}{
		{query: "", page: 1, limit: 10},
		{query: "?page=3&limit=25", page: 3, limit: 25},
		{query: "?page=0&limit=0", page: 1, limit: 1},
		{query: "?page=-4&limit=500", page: 1, limit: 100},
		{query: "?page=abc&limit=xyz", page: 1, limit: 10},
	}

	for _, tc := range testCases {
		t.Run(tc.query, func(t *testing.T) {
			p := ParsePagination(httptest.NewRequest("GET", "/api/products"+tc.query, nil))
			assert.Equal(t, tc.page, p.Page)
			assert.Equal(t, tc.limit, p.Limit)
		})
	}
}

func TestPagination_OffsetAndTotalPages(t *testing.T) {
	p := NewPagination(3, 10)
	assert.Equal(t, 20, p.Offset())
	assert.Equal(t, 0, p.TotalPages(0))
	assert.Equal(t, 1, p.TotalPages(10))
	assert.Equal(t, 2, p.TotalPages(11))
}
