// Package model defines the domain types used across the application.
package model

import "time"

// ContentKind identifies one of the monitored content streams.
type ContentKind string

// Supported content kinds.
const (
	KindBlogs    ContentKind = "blogs"
	KindGmbPosts ContentKind = "gmb-posts"
	KindReplies  ContentKind = "replies"
)

// Valid reports whether k is a known content kind.
func (k ContentKind) Valid() bool {
	switch k {
	case KindBlogs, KindGmbPosts, KindReplies:
		return true
	}
	return false
}

// HasErrors reports whether the kind has an error stream. Replies don't.
func (k ContentKind) HasErrors() bool {
	return k == KindBlogs || k == KindGmbPosts
}

// DateRange is the trailing window a selection covers.
type DateRange string

// Supported date ranges.
const (
	Range7d  DateRange = "7d"
	Range30d DateRange = "30d"
	Range90d DateRange = "90d"

	// RangeAllLegacy was retired in favour of Range90d. Only the saved filter
	// migration still understands it.
	RangeAllLegacy DateRange = "all"
)

// DefaultDateRange is used when a request doesn't name one.
const DefaultDateRange = Range7d

// Valid reports whether r is a currently supported range.
func (r DateRange) Valid() bool {
	switch r {
	case Range7d, Range30d, Range90d:
		return true
	}
	return false
}

// SummaryData holds the dashboard card counters.
type SummaryData struct {
	Blogs7d       int `json:"blogs7d"`
	GmbPosts7d    int `json:"gmbPosts7d"`
	Replies7d     int `json:"replies7d"`
	TodayActivity int `json:"todayActivity"`
}

// ErrorSummaryData holds error counters for the trailing 7-day window.
type ErrorSummaryData struct {
	BlogErrors    int `json:"blogErrors"`
	GmbPostErrors int `json:"gmbPostErrors"`
}

// Source tells whether a snapshot came from the spreadsheet or the mock generator.
type Source string

// Snapshot sources.
const (
	SourceLive Source = "live"
	SourceMock Source = "mock"
)

// ContentResponse is the snapshot produced by one fetch cycle.
type ContentResponse struct {
	Blogs         []Blog           `json:"blogs"`
	GmbPosts      []GmbPost        `json:"gmbPosts"`
	Replies       []Reply          `json:"replies"`
	Summary       SummaryData      `json:"summary"`
	Practices     []string         `json:"practices"`
	Accounts      []string         `json:"accounts"`
	BlogErrors    []BlogError      `json:"blogErrors"`
	GmbPostErrors []GmbPostError   `json:"gmbPostErrors"`
	ErrorSummary  ErrorSummaryData `json:"errorSummary"`
	Source        Source           `json:"source"`
	GeneratedAt   time.Time        `json:"generatedAt"`
}

// SavedFilter is a named, persisted group selection and date range.
type SavedFilter struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	ContentType ContentKind `json:"contentType"`
	// Practices holds the selected group names. Empty means "all".
	Practices []string  `json:"practices"`
	DateRange DateRange `json:"dateRange"`
	CreatedAt string    `json:"createdAt"`
}

// SavedFiltersStore is the persisted collection of saved filters.
type SavedFiltersStore struct {
	Version int           `json:"version"`
	Filters []SavedFilter `json:"filters"`
}

// RefreshRun records the outcome of one background refresh.
type RefreshRun struct {
	ID            int64     `json:"id"`
	Source        Source    `json:"source"`
	Blogs         int       `json:"blogs"`
	GmbPosts      int       `json:"gmbPosts"`
	Replies       int       `json:"replies"`
	BlogErrors    int       `json:"blogErrors"`
	GmbPostErrors int       `json:"gmbPostErrors"`
	NewErrors     int       `json:"newErrors"`
	FinishedAt    time.Time `json:"finishedAt"`
}

// NewRefreshRun summarizes snap as a refresh run.
func NewRefreshRun(snap *ContentResponse, newErrors int) RefreshRun {
	return RefreshRun{
		Source:        snap.Source,
		Blogs:         len(snap.Blogs),
		GmbPosts:      len(snap.GmbPosts),
		Replies:       len(snap.Replies),
		BlogErrors:    len(snap.BlogErrors),
		GmbPostErrors: len(snap.GmbPostErrors),
		NewErrors:     newErrors,
	}
}
