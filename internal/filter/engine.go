// Package filter narrows record lists to a group selection and date range.
package filter

import (
	"time"

	"github.com/smartworkmark/seo-content-portal/internal/dates"
	"github.com/smartworkmark/seo-content-portal/internal/model"
	"github.com/smartworkmark/seo-content-portal/internal/urlcheck"
)

// Selection is what the user picked: group names and a date range.
// No groups means every group.
type Selection struct {
	Groups    []string
	DateRange model.DateRange
}

// Apply returns the records, in order, whose group is selected, whose date
// is on or after the range threshold and, for valid records, whose URL still
// passes validation. An empty groups list selects every group.
func Apply[T model.Record](records []T, groups []string, r model.DateRange, now time.Time) []T {
	selected := toSet(groups)
	threshold := Threshold(r, now)
	loc := now.Location()

	out := make([]T, 0, len(records))
	for _, rec := range records {
		if len(selected) > 0 {
			if _, ok := selected[rec.GroupName()]; !ok {
				continue
			}
		}
		if dates.ParseLenient(rec.DateValue(), loc).Before(threshold) {
			continue
		}
		if !hasUsableLink(rec) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// Threshold is the midnight that opens r: today minus 6, 29 or 89 days.
func Threshold(r model.DateRange, now time.Time) time.Time {
	return dates.Threshold(r, now)
}

// hasUsableLink re-validates valid records. Error records have no link to check.
func hasUsableLink(rec model.Record) bool {
	switch v := rec.(type) {
	case model.ValidRecord:
		return urlcheck.IsValid(v.Link())
	case model.BlogError, model.GmbPostError:
		return true
	}
	return false
}

// IsActive reports whether saved describes the current selection: the same
// set of groups, ignoring order and duplicates, and the same date range.
func IsActive(saved model.SavedFilter, selected []string, r model.DateRange) bool {
	if saved.DateRange != r {
		return false
	}
	a, b := toSet(saved.Practices), toSet(selected)
	if len(a) != len(b) {
		return false
	}
	for name := range a {
		if _, ok := b[name]; !ok {
			return false
		}
	}
	return true
}

// TabCounts holds the number of matching valid records per content tab.
type TabCounts struct {
	Blogs    int `json:"blogs"`
	GmbPosts int `json:"gmbPosts"`
	Replies  int `json:"replies"`
}

// Counts applies sel to every valid record list of snap.
func Counts(snap *model.ContentResponse, sel Selection, now time.Time) TabCounts {
	return TabCounts{
		Blogs:    len(Apply(snap.Blogs, sel.Groups, sel.DateRange, now)),
		GmbPosts: len(Apply(snap.GmbPosts, sel.Groups, sel.DateRange, now)),
		Replies:  len(Apply(snap.Replies, sel.Groups, sel.DateRange, now)),
	}
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}
