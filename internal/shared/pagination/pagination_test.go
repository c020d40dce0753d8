package pagination

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	tests := []struct {
		name  string
		page  string
		limit string
		want  Page
	}{
		{"empty query", "", "", Page{Skip: 0, Limit: 0}},
		{"second page of ten", "2", "10", Page{Skip: 10, Limit: 10}},
		{"negative page is absolute", "-3", "", Page{Skip: 0, Limit: 0}},
		{"negative page with limit", "-3", "5", Page{Skip: 10, Limit: 5}},
		{"negative limit", "2", "-4", Page{Skip: 4, Limit: 4}},
		{"zero page falls back", "0", "10", Page{Skip: 0, Limit: 10}},
		{"malformed values fall back", "abc", "xyz", Page{Skip: 0, Limit: 0}},
		{"fractional values truncate", "2.7", "3.2", Page{Skip: 3, Limit: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Paginate(tt.page, tt.limit))
		})
	}
}

func TestFromQuery(t *testing.T) {
	q := url.Values{"page": {"3"}, "limit": {"25"}}
	assert.Equal(t, Page{Skip: 50, Limit: 25}, FromQuery(q))
	assert.Equal(t, Page{}, FromQuery(url.Values{}))
}
