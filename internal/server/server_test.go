package server

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/smartworkmark/seo-content-portal/internal/filter"
	"github.com/smartworkmark/seo-content-portal/internal/model"
	"github.com/smartworkmark/seo-content-portal/internal/savedfilters"
	"github.com/smartworkmark/seo-content-portal/internal/storage"
)

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

type fakeSource struct {
	mu     sync.Mutex
	snap   model.ContentResponse
	forced []bool
	panics bool
}

func (f *fakeSource) Fetch(_ context.Context, forceRefresh bool) model.ContentResponse {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.panics {
		panic("sheets exploded")
	}
	f.forced = append(f.forced, forceRefresh)
	return f.snap
}

func (f *fakeSource) calls() []bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]bool(nil), f.forced...)
}

func fixtureSnapshot() model.ContentResponse {
	return model.ContentResponse{
		Blogs: []model.Blog{
			{ID: "blog-1", Date: "2025-06-14", PracticeName: "Acme Dental", BlogTitle: "Whitening", URL: "https://acme.example/whitening"},
			{ID: "blog-2", Date: "2025-06-10", PracticeName: "Zen Dental", BlogTitle: "Implants", URL: "https://zen.example/implants"},
			{ID: "blog-3", Date: "2025-05-01", PracticeName: "Acme Dental", BlogTitle: "Braces", URL: "https://acme.example/braces"},
		},
		GmbPosts: []model.GmbPost{
			{ID: "gmb-1", Date: "2025-06-12", PracticeName: "Zen Dental", PostTitle: "Summer hours", URL: "https://g.page/zen"},
		},
		Replies: []model.Reply{
			{ID: "reply-1", DateTime: "2025-06-13 09:30", AccountName: "Acme Dental", Reply: "Thanks!", URL: "https://g.page/acme/r1"},
		},
		BlogErrors: []model.BlogError{
			{ID: "blog-error-4", Date: "2025-06-13", PracticeName: "Acme Dental", ErrorMessage: "Error: Unable to publish, retrying"},
		},
		GmbPostErrors: []model.GmbPostError{},
		Practices:     []string{"Acme Dental", "Zen Dental"},
		Accounts:      []string{"Acme Dental"},
		Source:        model.SourceLive,
		GeneratedAt:   fixedNow,
	}
}

type fixture struct {
	source *fakeSource
	store  *storage.SQLite
	srv    *httptest.Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := storage.NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("new sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	source := &fakeSource{snap: fixtureSnapshot()}
	s := New(source, savedfilters.New(store, logger), store, logger,
		WithClock(func() time.Time { return fixedNow }),
		WithLocation(time.UTC),
	)
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return &fixture{source: source, store: store, srv: srv}
}

func (f *fixture) do(t *testing.T, method, path, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, f.srv.URL+path, r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestContentCacheHeaders(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		wantCache string
		wantForce bool
	}{
		{name: "cached", path: "/api/content", wantCache: "public, s-maxage=60, stale-while-revalidate=300"},
		{name: "refresh", path: "/api/content?refresh=true", wantCache: "no-cache, no-store, must-revalidate", wantForce: true},
		{name: "refresh must be exactly true", path: "/api/content?refresh=1", wantCache: "public, s-maxage=60, stale-while-revalidate=300"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			resp := f.do(t, http.MethodGet, tt.path, "")

			if diff := cmp.Diff(http.StatusOK, resp.StatusCode); diff != "" {
				t.Errorf("status mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantCache, resp.Header.Get("Cache-Control")); diff != "" {
				t.Errorf("Cache-Control mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff([]bool{tt.wantForce}, f.source.calls()); diff != "" {
				t.Errorf("forceRefresh mismatch (-want +got):\n%s", diff)
			}

			got := decode[model.ContentResponse](t, resp)
			if diff := cmp.Diff(fixtureSnapshot(), got); diff != "" {
				t.Errorf("body mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestContentFailure(t *testing.T) {
	f := newFixture(t)
	f.source.panics = true

	resp := f.do(t, http.MethodGet, "/api/content", "")
	if diff := cmp.Diff(http.StatusInternalServerError, resp.StatusCode); diff != "" {
		t.Errorf("status mismatch (-want +got):\n%s", diff)
	}
	got := decode[map[string]string](t, resp)
	if diff := cmp.Diff(map[string]string{"error": "Failed to fetch content"}, got); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}
}

type blogPage struct {
	Rows       []model.Blog     `json:"rows"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
	TotalPages int              `json:"totalPages"`
	Total      int              `json:"total"`
	Counts     filter.TabCounts `json:"counts"`
}

func blogIDs(rows []model.Blog) []string {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	return ids
}

func TestTable(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantIDs    []string
		wantTotal  int
		wantCounts filter.TabCounts
	}{
		{
			name:       "defaults to last 7 days newest first",
			query:      "",
			wantIDs:    []string{"blog-1", "blog-2"},
			wantTotal:  2,
			wantCounts: filter.TabCounts{Blogs: 2, GmbPosts: 1, Replies: 1},
		},
		{
			name:       "90 days ascending",
			query:      "?range=90d&dir=asc",
			wantIDs:    []string{"blog-3", "blog-2", "blog-1"},
			wantTotal:  3,
			wantCounts: filter.TabCounts{Blogs: 3, GmbPosts: 1, Replies: 1},
		},
		{
			name:       "group selection applies to every tab",
			query:      "?range=90d&groups=Acme%20Dental",
			wantIDs:    []string{"blog-1", "blog-3"},
			wantTotal:  2,
			wantCounts: filter.TabCounts{Blogs: 2, GmbPosts: 0, Replies: 1},
		},
		{
			name:       "sort by practice",
			query:      "?range=90d&sort=practiceName&dir=desc",
			wantIDs:    []string{"blog-2", "blog-1", "blog-3"},
			wantTotal:  3,
			wantCounts: filter.TabCounts{Blogs: 3, GmbPosts: 1, Replies: 1},
		},
		{
			name:       "page size splits",
			query:      "?range=90d&pageSize=2&page=2",
			wantIDs:    []string{"blog-3"},
			wantTotal:  3,
			wantCounts: filter.TabCounts{Blogs: 3, GmbPosts: 1, Replies: 1},
		},
		{
			name:       "page past the end is empty",
			query:      "?page=9",
			wantIDs:    []string{},
			wantTotal:  2,
			wantCounts: filter.TabCounts{Blogs: 2, GmbPosts: 1, Replies: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			resp := f.do(t, http.MethodGet, "/api/content/blogs"+tt.query, "")
			if diff := cmp.Diff(http.StatusOK, resp.StatusCode); diff != "" {
				t.Fatalf("status mismatch (-want +got):\n%s", diff)
			}

			got := decode[blogPage](t, resp)
			if diff := cmp.Diff(tt.wantIDs, blogIDs(got.Rows)); diff != "" {
				t.Errorf("rows mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantTotal, got.Total); diff != "" {
				t.Errorf("total mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantCounts, got.Counts); diff != "" {
				t.Errorf("counts mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTableGroupsWithCommas(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantIDs []string
	}{
		{
			name:    "comma inside one name",
			query:   "?range=30d&groups=Smith%2C+Jones+DDS",
			wantIDs: []string{"blog-5"},
		},
		{
			name:    "repeated parameter",
			query:   "?range=30d&groups=Smith%2C+Jones+DDS&groups=Zen+Dental",
			wantIDs: []string{"blog-2", "blog-5"},
		},
		{
			name:    "comma is not a separator",
			query:   "?range=30d&groups=Smith",
			wantIDs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.source.mu.Lock()
			f.source.snap.Blogs = append(f.source.snap.Blogs, model.Blog{
				ID: "blog-5", Date: "2025-06-01", PracticeName: "Smith, Jones DDS",
				BlogTitle: "Veneers", URL: "https://smithjones.example/veneers",
			})
			f.source.mu.Unlock()

			resp := f.do(t, http.MethodGet, "/api/content/blogs"+tt.query, "")
			if diff := cmp.Diff(http.StatusOK, resp.StatusCode); diff != "" {
				t.Fatalf("status mismatch (-want +got):\n%s", diff)
			}
			got := decode[blogPage](t, resp)
			if diff := cmp.Diff(tt.wantIDs, blogIDs(got.Rows)); diff != "" {
				t.Errorf("rows mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(len(tt.wantIDs), got.Total); diff != "" {
				t.Errorf("total mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTableErrorMode(t *testing.T) {
	f := newFixture(t)
	resp := f.do(t, http.MethodGet, "/api/content/blogs?errors=true", "")
	if diff := cmp.Diff(http.StatusOK, resp.StatusCode); diff != "" {
		t.Fatalf("status mismatch (-want +got):\n%s", diff)
	}

	got := decode[struct {
		Rows []model.BlogError `json:"rows"`
	}](t, resp)
	if diff := cmp.Diff(fixtureSnapshot().BlogErrors, got.Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestTableBadRequest(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{name: "unknown kind", path: "/api/content/videos"},
		{name: "replies have no errors", path: "/api/content/replies?errors=true"},
		{name: "retired range", path: "/api/content/blogs?range=all"},
		{name: "bad page", path: "/api/content/blogs?page=two"},
		{name: "page size too large", path: "/api/content/blogs?pageSize=1000"},
		{name: "export unknown kind", path: "/api/export/videos"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			resp := f.do(t, http.MethodGet, tt.path, "")
			if diff := cmp.Diff(http.StatusBadRequest, resp.StatusCode); diff != "" {
				t.Errorf("status mismatch (-want +got):\n%s", diff)
			}
			if got := decode[map[string]string](t, resp); got["error"] == "" {
				t.Error("expected an error message")
			}
		})
	}
}

func TestExport(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		wantName string
		want     [][]string
	}{
		{
			name:     "blogs",
			path:     "/api/export/blogs?range=30d",
			wantName: `attachment; filename="blogs-2025-06-15.csv"`,
			want: [][]string{
				{"Date", "Practice Name", "Blog Title", "Keyword", "URL"},
				{"2025-06-14", "Acme Dental", "Whitening", "", "https://acme.example/whitening"},
				{"2025-06-10", "Zen Dental", "Implants", "", "https://zen.example/implants"},
			},
		},
		{
			name:     "blog errors",
			path:     "/api/export/blogs?errors=true",
			wantName: `attachment; filename="blogs-errors-2025-06-15.csv"`,
			want: [][]string{
				{"Date", "Practice Name", "Company ID", "Error"},
				{"2025-06-13", "Acme Dental", "", "Error: Unable to publish, retrying"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			resp := f.do(t, http.MethodGet, tt.path, "")
			if diff := cmp.Diff(http.StatusOK, resp.StatusCode); diff != "" {
				t.Fatalf("status mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff("text/csv; charset=utf-8", resp.Header.Get("Content-Type")); diff != "" {
				t.Errorf("content type mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantName, resp.Header.Get("Content-Disposition")); diff != "" {
				t.Errorf("disposition mismatch (-want +got):\n%s", diff)
			}

			got, err := csv.NewReader(resp.Body).ReadAll()
			if err != nil {
				t.Fatalf("read csv: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("csv mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSavedFilters(t *testing.T) {
	f := newFixture(t)

	resp := f.do(t, http.MethodPost, "/api/filters",
		`{"name":"  Acme weekly ","contentType":"blogs","practices":["Acme Dental"],"dateRange":"7d"}`)
	if diff := cmp.Diff(http.StatusCreated, resp.StatusCode); diff != "" {
		t.Fatalf("create status mismatch (-want +got):\n%s", diff)
	}
	created := decode[model.SavedFilter](t, resp)
	if diff := cmp.Diff("Acme weekly", created.Name); diff != "" {
		t.Errorf("name mismatch (-want +got):\n%s", diff)
	}
	if created.ID == "" || created.CreatedAt == "" {
		t.Fatalf("expected id and createdAt, got %+v", created)
	}

	resp = f.do(t, http.MethodPatch, "/api/filters/"+created.ID, `{"dateRange":"30d"}`)
	if diff := cmp.Diff(http.StatusOK, resp.StatusCode); diff != "" {
		t.Fatalf("update status mismatch (-want +got):\n%s", diff)
	}
	updated := decode[model.SavedFilter](t, resp)
	want := created
	want.DateRange = model.Range30d
	if diff := cmp.Diff(want, updated); diff != "" {
		t.Errorf("updated filter mismatch (-want +got):\n%s", diff)
	}

	resp = f.do(t, http.MethodGet, "/api/filters?contentType=blogs", "")
	if diff := cmp.Diff([]model.SavedFilter{want}, decode[[]model.SavedFilter](t, resp)); diff != "" {
		t.Errorf("blog filters mismatch (-want +got):\n%s", diff)
	}
	resp = f.do(t, http.MethodGet, "/api/filters?contentType=replies", "")
	if diff := cmp.Diff([]model.SavedFilter{}, decode[[]model.SavedFilter](t, resp)); diff != "" {
		t.Errorf("reply filters mismatch (-want +got):\n%s", diff)
	}

	resp = f.do(t, http.MethodDelete, "/api/filters/"+created.ID, "")
	if diff := cmp.Diff(http.StatusNoContent, resp.StatusCode); diff != "" {
		t.Errorf("delete status mismatch (-want +got):\n%s", diff)
	}
	resp = f.do(t, http.MethodDelete, "/api/filters/"+created.ID, "")
	if diff := cmp.Diff(http.StatusNotFound, resp.StatusCode); diff != "" {
		t.Errorf("second delete status mismatch (-want +got):\n%s", diff)
	}

	resp = f.do(t, http.MethodGet, "/api/filters", "")
	if diff := cmp.Diff([]model.SavedFilter{}, decode[[]model.SavedFilter](t, resp)); diff != "" {
		t.Errorf("filters mismatch (-want +got):\n%s", diff)
	}
}

func TestSavedFiltersValidation(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantError  string
	}{
		{name: "blank name", method: http.MethodPost, path: "/api/filters", body: `{"name":"   ","contentType":"blogs","practices":[],"dateRange":"7d"}`, wantStatus: http.StatusBadRequest, wantError: "Please enter a name"},
		{name: "bad content type", method: http.MethodPost, path: "/api/filters", body: `{"name":"x","contentType":"videos","practices":[],"dateRange":"7d"}`, wantStatus: http.StatusBadRequest},
		{name: "retired range", method: http.MethodPost, path: "/api/filters", body: `{"name":"x","contentType":"blogs","practices":[],"dateRange":"all"}`, wantStatus: http.StatusBadRequest},
		{name: "malformed body", method: http.MethodPost, path: "/api/filters", body: `{"name":`, wantStatus: http.StatusBadRequest, wantError: "invalid request body"},
		{name: "unknown field", method: http.MethodPost, path: "/api/filters", body: `{"title":"x"}`, wantStatus: http.StatusBadRequest, wantError: "invalid request body"},
		{name: "update missing", method: http.MethodPatch, path: "/api/filters/nope", body: `{"name":"x"}`, wantStatus: http.StatusNotFound, wantError: "Saved filter not found"},
		{name: "list bad content type", method: http.MethodGet, path: "/api/filters?contentType=videos", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			resp := f.do(t, tt.method, tt.path, tt.body)
			if diff := cmp.Diff(tt.wantStatus, resp.StatusCode); diff != "" {
				t.Errorf("status mismatch (-want +got):\n%s", diff)
			}
			got := decode[map[string]string](t, resp)
			if tt.wantError != "" {
				if diff := cmp.Diff(tt.wantError, got["error"]); diff != "" {
					t.Errorf("error mismatch (-want +got):\n%s", diff)
				}
			} else if got["error"] == "" {
				t.Error("expected an error message")
			}
		})
	}
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	resp := f.do(t, http.MethodGet, "/healthz", "")
	var body bytes.Buffer
	if _, err := body.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	if diff := cmp.Diff(`{"status":"ok","lastRefresh":null}`+"\n", body.String()); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}

	run := model.RefreshRun{Source: model.SourceMock, Blogs: 250}
	if err := f.store.RecordRefresh(context.Background(), &run); err != nil {
		t.Fatalf("record refresh: %v", err)
	}

	resp = f.do(t, http.MethodGet, "/healthz", "")
	got := decode[struct {
		Status      string            `json:"status"`
		LastRefresh *model.RefreshRun `json:"lastRefresh"`
	}](t, resp)
	if got.LastRefresh == nil {
		t.Fatal("expected last refresh")
	}
	if diff := cmp.Diff(250, got.LastRefresh.Blogs); diff != "" {
		t.Errorf("blogs mismatch (-want +got):\n%s", diff)
	}
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := New(&fakeSource{}, nil, nil, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("ListenAndServe: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("ListenAndServe did not return after cancel")
	}
}
