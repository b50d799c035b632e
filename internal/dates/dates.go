// Package dates parses the loosely formatted date cells found in the
// content sheets and resolves trailing date windows.
package dates

import (
	"strings"
	"time"

	"github.com/smartworkmark/seo-content-portal/internal/model"
)

// UnparseableFallback is the instant used for dates that cannot be parsed.
// Such records count as the oldest possible, so they never fall inside a
// window and sink to the end of a newest-first sort.
var UnparseableFallback = time.Unix(0, 0).UTC()

// layouts are tried in order. Zone-less layouts are read in the caller's location.
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 3:04:05 PM",
	"2006-01-02 3:04 PM",
	"2006-01-02",
	"2006-1-2 15:04:05",
	"2006-1-2 15:04",
	"2006-1-2 3:04 PM",
	"2006-1-2",
	"2006/1/2 15:04:05",
	"2006/1/2 15:04",
	"2006/1/2 3:04 PM",
	"2006/1/2",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 3:04 PM",
	"1/2/2006",
	"Jan 2, 2006 15:04:05",
	"Jan 2, 2006 15:04",
	"Jan 2, 2006 3:04:05 PM",
	"Jan 2, 2006 3:04 PM",
	"Jan 2, 2006",
	"January 2, 2006 15:04:05",
	"January 2, 2006 15:04",
	"January 2, 2006 3:04:05 PM",
	"January 2, 2006 3:04 PM",
	"January 2, 2006",
}

// Parse reads value using the first layout that fits.
func Parse(value string, loc *time.Location) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseLenient is Parse with UnparseableFallback for anything it can't read.
func ParseLenient(value string, loc *time.Location) time.Time {
	if t, ok := Parse(value, loc); ok {
		return t
	}
	return UnparseableFallback
}

// StartOfDay returns midnight of t's day, daysBack days earlier, in t's location.
func StartOfDay(t time.Time, daysBack int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d-daysBack, 0, 0, 0, 0, t.Location())
}

// Threshold returns the earliest instant inside r, counting today as the
// first day: 7d starts at midnight six days ago.
func Threshold(r model.DateRange, now time.Time) time.Time {
	return StartOfDay(now, windowDays(r)-1)
}

func windowDays(r model.DateRange) int {
	switch r {
	case model.Range7d:
		return 7
	case model.Range30d:
		return 30
	default:
		return 90
	}
}
