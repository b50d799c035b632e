package fetcher

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/smartworkmark/seo-content-portal/internal/classify"
	"github.com/smartworkmark/seo-content-portal/internal/mock"
	"github.com/smartworkmark/seo-content-portal/internal/model"
)

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

type fakeSource struct {
	mu         sync.Mutex
	configured bool
	rows       map[string][][]string
	errs       map[string]error
	calls      []string
}

func (s *fakeSource) Configured() bool { return s.configured }

func (s *fakeSource) Rows(_ context.Context, sheet string) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, sheet)
	if err := s.errs[sheet]; err != nil {
		return nil, err
	}
	return s.rows[sheet], nil
}

func newTestFetcher(src RowSource) (*Fetcher, *mock.Cache) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cache := mock.NewCache(mock.NewGenerator(1), clock)
	return New(src, classify.Default(), cache, logger, WithClock(clock)), cache
}

func liveRows() map[string][][]string {
	return map[string][][]string{
		DefaultBlogsSheet: {
			{"Date", "Time", "Practice Name", "Blog Title", "Keyword", "Post URL", "CompanyID"},
			{"2025-06-10", "", "Acme Dental", "Older", "implants", "acme.com/older", "1"},
			{"2025-06-14", "", "Acme Dental", "First tie", "implants", "acme.com/a", "1"},
			{"2025-06-14", "", "Bright Smiles", "Second tie", "whitening", "bright.com/b", "2"},
			{"2025-06-13", "", "Bright Smiles", "", "whitening", "", "2"},
		},
		DefaultGmbPostsSheet: {
			{"Date", "Time", "Practice Name", "Post Title", "Keyword", "Post URL", "CompanyID"},
			{"2025-06-15", "09:00", "Acme Dental", "Open late", "hours", "https://g.page/acme/1", "1"},
			{"2025-06-15", "10:00", "Downtown Dental", "", "", "processing", "3"},
		},
		DefaultRepliesSheet: {
			{"Account Name", "Date Time", "Reply", "Reviews URL"},
			{"Acme Dental", "2025-06-12 08:00", "Thanks!", "https://g.page/r/1"},
			{"Zen Dental", "2025-06-15 08:00", "Thank you!", "https://g.page/r/2"},
		},
	}
}

func TestFetchUnconfiguredServesMock(t *testing.T) {
	src := &fakeSource{configured: false}
	f, cache := newTestFetcher(src)

	got := f.Fetch(context.Background(), false)
	if diff := cmp.Diff(cache.Get(), got); diff != "" {
		t.Errorf("Fetch() mismatch (-want +got):\n%s", diff)
	}
	if len(src.calls) != 0 {
		t.Errorf("expected no sheet reads, got %v", src.calls)
	}
}

func TestFetchNilSourceServesMock(t *testing.T) {
	f, _ := newTestFetcher(nil)
	got := f.Fetch(context.Background(), false)
	if diff := cmp.Diff(model.SourceMock, got.Source); diff != "" {
		t.Errorf("source mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchLive(t *testing.T) {
	src := &fakeSource{configured: true, rows: liveRows()}
	f, _ := newTestFetcher(src)

	got := f.Fetch(context.Background(), false)

	if diff := cmp.Diff(model.SourceLive, got.Source); diff != "" {
		t.Fatalf("source mismatch (-want +got):\n%s", diff)
	}

	var blogIDs []string
	for _, b := range got.Blogs {
		blogIDs = append(blogIDs, b.ID)
	}
	if diff := cmp.Diff([]string{"blog-2", "blog-3", "blog-1"}, blogIDs); diff != "" {
		t.Errorf("blog order mismatch (-want +got):\n%s", diff)
	}

	var replyIDs []string
	for _, r := range got.Replies {
		replyIDs = append(replyIDs, r.ID)
	}
	if diff := cmp.Diff([]string{"reply-2", "reply-1"}, replyIDs); diff != "" {
		t.Errorf("reply order mismatch (-want +got):\n%s", diff)
	}

	wantErrors := []model.BlogError{{
		ID:           "blog-error-4",
		Date:         "2025-06-13",
		PracticeName: "Bright Smiles",
		CompanyID:    "2",
		ErrorMessage: classify.BlogFallbackMessage,
	}}
	if diff := cmp.Diff(wantErrors, got.BlogErrors); diff != "" {
		t.Errorf("blog errors mismatch (-want +got):\n%s", diff)
	}

	wantSummary := model.SummaryData{Blogs7d: 3, GmbPosts7d: 1, Replies7d: 2, TodayActivity: 2}
	if diff := cmp.Diff(wantSummary, got.Summary); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(model.ErrorSummaryData{BlogErrors: 1, GmbPostErrors: 1}, got.ErrorSummary); diff != "" {
		t.Errorf("error summary mismatch (-want +got):\n%s", diff)
	}

	wantPractices := []string{"Acme Dental", "Bright Smiles", "Downtown Dental"}
	if diff := cmp.Diff(wantPractices, got.Practices); diff != "" {
		t.Errorf("practices mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Acme Dental", "Zen Dental"}, got.Accounts); diff != "" {
		t.Errorf("accounts mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(fixedNow, got.GeneratedAt); diff != "" {
		t.Errorf("generatedAt mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchEmptySheetsGiveEmptyLists(t *testing.T) {
	src := &fakeSource{configured: true, rows: map[string][][]string{}}
	f, _ := newTestFetcher(src)

	got := f.Fetch(context.Background(), false)
	if got.Blogs == nil || got.GmbPosts == nil || got.Replies == nil || got.BlogErrors == nil || got.GmbPostErrors == nil {
		t.Fatalf("expected empty, non-nil lists: %+v", got)
	}
	if diff := cmp.Diff(model.SourceLive, got.Source); diff != "" {
		t.Errorf("source mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchFailureFallsBackToMock(t *testing.T) {
	src := &fakeSource{
		configured: true,
		rows:       liveRows(),
		errs:       map[string]error{DefaultRepliesSheet: errors.New("quota exceeded")},
	}
	f, cache := newTestFetcher(src)

	got := f.Fetch(context.Background(), false)
	if diff := cmp.Diff(cache.Get(), got); diff != "" {
		t.Errorf("Fetch() mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchForceRefreshRegeneratesMock(t *testing.T) {
	f, cache := newTestFetcher(nil)

	before := f.Fetch(context.Background(), false)
	refreshed := f.Fetch(context.Background(), true)

	if cmp.Equal(before.Blogs, refreshed.Blogs) {
		t.Fatal("forced refresh returned the cached snapshot")
	}
	if diff := cmp.Diff(cache.Get(), refreshed); diff != "" {
		t.Errorf("cache not updated (-want +got):\n%s", diff)
	}
}

func TestFetchCustomSheetNames(t *testing.T) {
	rows := liveRows()
	src := &fakeSource{
		configured: true,
		rows: map[string][][]string{
			"Posts":   rows[DefaultBlogsSheet],
			"Updates": rows[DefaultGmbPostsSheet],
			"Reviews": rows[DefaultRepliesSheet],
		},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f := New(src, classify.Default(), mock.NewCache(mock.NewGenerator(1), clock), logger,
		WithClock(clock),
		WithSheetNames(SheetNames{Blogs: "Posts", GmbPosts: "Updates", Replies: "Reviews"}),
	)

	got := f.Fetch(context.Background(), false)
	if diff := cmp.Diff(3, len(got.Blogs)); diff != "" {
		t.Errorf("blog count mismatch (-want +got):\n%s", diff)
	}
}
