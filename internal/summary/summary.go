// Package summary computes the dashboard counters and group name lists.
package summary

import (
	"slices"
	"time"

	"github.com/smartworkmark/seo-content-portal/internal/dates"
	"github.com/smartworkmark/seo-content-portal/internal/model"
)

// Summarize counts valid records in the trailing 7-day window and records
// dated today. Both windows end at now.
func Summarize(now time.Time, blogs []model.Blog, posts []model.GmbPost, replies []model.Reply) model.SummaryData {
	weekStart := dates.Threshold(model.Range7d, now)
	todayStart := dates.StartOfDay(now, 0)
	loc := now.Location()

	var s model.SummaryData
	for _, b := range blogs {
		t := dates.ParseLenient(b.Date, loc)
		s.Blogs7d += inWindow(t, weekStart, now)
		s.TodayActivity += inWindow(t, todayStart, now)
	}
	for _, p := range posts {
		t := dates.ParseLenient(p.Date, loc)
		s.GmbPosts7d += inWindow(t, weekStart, now)
		s.TodayActivity += inWindow(t, todayStart, now)
	}
	for _, r := range replies {
		t := dates.ParseLenient(r.DateTime, loc)
		s.Replies7d += inWindow(t, weekStart, now)
		s.TodayActivity += inWindow(t, todayStart, now)
	}
	return s
}

// SummarizeErrors counts error records in the trailing 7-day window.
func SummarizeErrors(now time.Time, blogErrors []model.BlogError, postErrors []model.GmbPostError) model.ErrorSummaryData {
	weekStart := dates.Threshold(model.Range7d, now)
	loc := now.Location()

	var s model.ErrorSummaryData
	for _, e := range blogErrors {
		s.BlogErrors += inWindow(dates.ParseLenient(e.Date, loc), weekStart, now)
	}
	for _, e := range postErrors {
		s.GmbPostErrors += inWindow(dates.ParseLenient(e.Date, loc), weekStart, now)
	}
	return s
}

// inWindow returns 1 when t lies in [start, end].
func inWindow(t, start, end time.Time) int {
	if t.Before(start) || t.After(end) {
		return 0
	}
	return 1
}

// Practices returns the sorted, de-duplicated practice names across valid
// and error records.
func Practices(blogs []model.Blog, posts []model.GmbPost, blogErrors []model.BlogError, postErrors []model.GmbPostError) []string {
	names := make([]string, 0, len(blogs)+len(posts)+len(blogErrors)+len(postErrors))
	names = appendGroups(names, blogs)
	names = appendGroups(names, posts)
	names = appendGroups(names, blogErrors)
	names = appendGroups(names, postErrors)
	return uniqueSorted(names)
}

// Accounts returns the sorted, de-duplicated reply account names.
func Accounts(replies []model.Reply) []string {
	return uniqueSorted(appendGroups(make([]string, 0, len(replies)), replies))
}

func appendGroups[T model.Record](dst []string, records []T) []string {
	for _, r := range records {
		dst = append(dst, r.GroupName())
	}
	return dst
}

func uniqueSorted(names []string) []string {
	slices.Sort(names)
	return slices.Compact(names)
}
