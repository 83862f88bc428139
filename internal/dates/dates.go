// Package dates parses heterogeneous date representations into canonical
// YYYY-MM-DD strings. Parse failures are reported as values, never panics,
// so a malformed cell degrades to a skipped row instead of a failed request.
package dates

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/ganttd/ganttd/internal/tabular"
)

// Layout is the canonical calendar-date form used throughout the pipeline.
const Layout = "2006-01-02"

// Epoch timestamps are only believed when they decode to a year in this
// range; small integers in a date column are almost never timestamps.
const (
	minEpochYear = 1970
	maxEpochYear = 2100

	// Numbers below this magnitude (about three years of seconds) are ids,
	// counts, or durations rather than timestamps.
	minEpochMagnitude = 1e8
)

// Role names which date field a value was parsed for, for error reporting.
type Role string

const (
	RoleStart Role = "start"
	RoleEnd   Role = "end"
)

// ParseError describes a value that no strategy could interpret as a date.
type ParseError struct {
	Raw  string
	Role Role
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %s date from %q", e.Role, e.Raw)
}

// Normalize converts a raw cell value into a canonical date string.
// Strategies are attempted in order: native time value, canonical string
// (time-of-day discarded), Unix epoch number within the sane year bound,
// then generic format inference. Ambiguous numeric forms like 03/04/2024
// resolve month-first, following the inference library's default.
func Normalize(v tabular.Value, role Role) (string, *ParseError) {
	switch v.Kind {
	case tabular.KindTime:
		return v.Time.Format(Layout), nil
	case tabular.KindNumber:
		if s, ok := fromEpoch(v.Num); ok {
			return s, nil
		}
		return "", &ParseError{Raw: v.Display(), Role: role}
	case tabular.KindText:
		if s, ok := fromString(v.Str); ok {
			return s, nil
		}
		return "", &ParseError{Raw: v.Str, Role: role}
	default:
		return "", &ParseError{Raw: "", Role: role}
	}
}

// fromEpoch interprets a number as Unix seconds, then milliseconds. The
// value must clear the minimum magnitude and land in the sane year range
// to be believed.
func fromEpoch(f float64) (string, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", false
	}
	if math.Abs(f) < minEpochMagnitude {
		return "", false
	}
	for _, div := range []float64{1, 1000} {
		sec := f / div
		if math.Abs(sec) > math.MaxInt64/2 {
			continue
		}
		t := time.Unix(int64(sec), 0).UTC()
		if y := t.Year(); y >= minEpochYear && y <= maxEpochYear {
			return t.Format(Layout), true
		}
	}
	return "", false
}

func fromString(s string) (string, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", false
	}

	// Fast path: already canonical, optionally with a time component.
	if len(trimmed) == len(Layout) ||
		(len(trimmed) > len(Layout) && (trimmed[len(Layout)] == 'T' || trimmed[len(Layout)] == ' ')) {
		if t, err := time.Parse(Layout, trimmed[:len(Layout)]); err == nil {
			return t.Format(Layout), true
		}
	}

	// Last resort: automatic format inference.
	t, err := dateparse.ParseAny(trimmed)
	if err != nil {
		return "", false
	}
	return t.Format(Layout), true
}
