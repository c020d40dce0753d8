package launch

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ParseLaunchDate parses a client supplied launch date in any of the common
// layouts, from a bare year to RFC 3339. Dates without a zone are taken as
// UTC.
func ParseLaunchDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty launch date")
	}

	t, err := dateparse.ParseIn(value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognised launch date %q: %w", value, err)
	}
	return t.UTC(), nil
}
