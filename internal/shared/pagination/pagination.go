// Package pagination translates page/limit query parameters into skip/limit.
package pagination

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultPageNumber is used when page is absent, malformed or zero.
	DefaultPageNumber = 1
	// DefaultPageLimit of zero means no limit.
	DefaultPageLimit = 0
)

type Page struct {
	Skip  int `json:"skip"`
	Limit int `json:"limit"`
}

// FromQuery reads the page and limit parameters of a request query.
func FromQuery(query url.Values) Page {
	return Paginate(query.Get("page"), query.Get("limit"))
}

// Paginate never fails: malformed input degrades to the defaults and
// negative values are taken as their absolute value.
func Paginate(page, limit string) Page {
	p := absOrDefault(page, DefaultPageNumber)
	l := absOrDefault(limit, DefaultPageLimit)

	return Page{
		Skip:  (p - 1) * l,
		Limit: l,
	}
}

func absOrDefault(raw string, fallback int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}

	n, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return fallback
	}

	n = math.Abs(n)
	if n > math.MaxInt32 {
		n = math.MaxInt32
	}

	v := int(n)
	if v == 0 {
		return fallback
	}
	return v
}
