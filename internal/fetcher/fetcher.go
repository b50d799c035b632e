// Package fetcher assembles the content snapshot from the spreadsheet,
// falling back to mock data when the sheets are unavailable.
package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/smartworkmark/seo-content-portal/internal/classify"
	"github.com/smartworkmark/seo-content-portal/internal/dates"
	"github.com/smartworkmark/seo-content-portal/internal/mock"
	"github.com/smartworkmark/seo-content-portal/internal/model"
	"github.com/smartworkmark/seo-content-portal/internal/summary"
)

// Default sheet names.
const (
	DefaultBlogsSheet    = "Blogs"
	DefaultGmbPostsSheet = "GMB Posts"
	DefaultRepliesSheet  = "GMB Replies"
)

// RowSource returns the raw rows of a named sheet, header row first.
type RowSource interface {
	Rows(ctx context.Context, sheet string) ([][]string, error)
	Configured() bool
}

// SheetNames names the tab read for each content stream.
type SheetNames struct {
	Blogs    string
	GmbPosts string
	Replies  string
}

// DefaultSheetNames returns the tab names used by the content spreadsheet.
func DefaultSheetNames() SheetNames {
	return SheetNames{Blogs: DefaultBlogsSheet, GmbPosts: DefaultGmbPostsSheet, Replies: DefaultRepliesSheet}
}

// Fetcher builds content snapshots.
type Fetcher struct {
	source     RowSource
	classifier *classify.Classifier
	mock       *mock.Cache
	sheets     SheetNames
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithSheetNames overrides the default tab names.
func WithSheetNames(names SheetNames) Option {
	return func(f *Fetcher) { f.sheets = names }
}

// WithClock sets the clock used for summary windows. Its location is the
// one zone-less sheet dates are read in.
func WithClock(now func() time.Time) Option {
	return func(f *Fetcher) { f.now = now }
}

// New creates a Fetcher. source may be nil, which always serves mock data.
func New(source RowSource, classifier *classify.Classifier, cache *mock.Cache, logger *slog.Logger, opts ...Option) *Fetcher {
	f := &Fetcher{
		source:     source,
		classifier: classifier,
		mock:       cache,
		sheets:     DefaultSheetNames(),
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns a snapshot built from the live sheets. When the sheets are
// not configured, or any of them cannot be read, the whole snapshot comes
// from the mock cache instead; forceRefresh regenerates it first.
func (f *Fetcher) Fetch(ctx context.Context, forceRefresh bool) model.ContentResponse {
	if f.source == nil || !f.source.Configured() {
		f.logger.Debug("spreadsheet not configured, serving mock data")
		return f.mockSnapshot(forceRefresh)
	}

	snap, err := f.fetchLive(ctx)
	if err != nil {
		f.logger.Error("fetch sheets, falling back to mock data", "error", err)
		return f.mockSnapshot(forceRefresh)
	}
	return snap
}

func (f *Fetcher) mockSnapshot(forceRefresh bool) model.ContentResponse {
	if forceRefresh {
		return f.mock.Refresh()
	}
	return f.mock.Get()
}

func (f *Fetcher) fetchLive(ctx context.Context) (model.ContentResponse, error) {
	var blogRows, postRows, replyRows [][]string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(f.readInto(gctx, f.sheets.Blogs, &blogRows))
	g.Go(f.readInto(gctx, f.sheets.GmbPosts, &postRows))
	g.Go(f.readInto(gctx, f.sheets.Replies, &replyRows))
	if err := g.Wait(); err != nil {
		return model.ContentResponse{}, err
	}

	now := f.now()
	loc := now.Location()

	blogs := f.classifier.Blogs(blogRows)
	posts := f.classifier.GmbPosts(postRows)
	replies := f.classifier.Replies(replyRows)

	newestFirst(blogs.Valid, loc)
	newestFirst(posts.Valid, loc)
	newestFirst(replies, loc)
	newestFirst(blogs.Errors, loc)
	newestFirst(posts.Errors, loc)

	return model.ContentResponse{
		Blogs:         orEmpty(blogs.Valid),
		GmbPosts:      orEmpty(posts.Valid),
		Replies:       orEmpty(replies),
		Summary:       summary.Summarize(now, blogs.Valid, posts.Valid, replies),
		Practices:     summary.Practices(blogs.Valid, posts.Valid, blogs.Errors, posts.Errors),
		Accounts:      summary.Accounts(replies),
		BlogErrors:    orEmpty(blogs.Errors),
		GmbPostErrors: orEmpty(posts.Errors),
		ErrorSummary:  summary.SummarizeErrors(now, blogs.Errors, posts.Errors),
		Source:        model.SourceLive,
		GeneratedAt:   now,
	}, nil
}

func (f *Fetcher) readInto(ctx context.Context, sheet string, dst *[][]string) func() error {
	return func() error {
		rows, err := f.source.Rows(ctx, sheet)
		if err != nil {
			return fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		f.logger.Debug("sheet read", "sheet", sheet, "rows", len(rows))
		*dst = rows
		return nil
	}
}

// newestFirst sorts records by date, newest first. Ties keep sheet order.
func newestFirst[T model.Record](records []T, loc *time.Location) {
	slices.SortStableFunc(records, func(a, b T) int {
		return dates.ParseLenient(b.DateValue(), loc).Compare(dates.ParseLenient(a.DateValue(), loc))
	})
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
