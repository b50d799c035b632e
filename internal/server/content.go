package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/smartworkmark/seo-content-portal/internal/filter"
	"github.com/smartworkmark/seo-content-portal/internal/model"
	"github.com/smartworkmark/seo-content-portal/internal/table"
)

const maxPageSize = 100

// Query is a parsed table or export request.
type Query struct {
	kind      model.ContentKind
	errorMode bool
	sel       filter.Selection
	sortKey   string
	dir       table.Direction
	page      int
	pageSize  int
}

// ParseQuery reads the table parameters for kind from v: groups (repeated,
// one name each), range, sort, dir, page, pageSize and errors. Missing
// values take their defaults.
func ParseQuery(kind string, v url.Values) (Query, error) {
	q := Query{
		kind:      model.ContentKind(kind),
		errorMode: v.Get("errors") == "true",
		sortKey:   v.Get("sort"),
		dir:       table.ParseDirection(v.Get("dir")),
		page:      1,
		pageSize:  table.DefaultPageSize,
	}
	if !q.kind.Valid() {
		return q, fmt.Errorf("unknown content type %q", q.kind)
	}
	if q.errorMode && !q.kind.HasErrors() {
		return q, fmt.Errorf("%s have no error records", q.kind)
	}
	if q.sortKey == "" {
		q.sortKey = table.DefaultSortKey(q.kind)
	}

	q.sel.DateRange = model.DefaultDateRange
	if raw := v.Get("range"); raw != "" {
		q.sel.DateRange = model.DateRange(raw)
		if !q.sel.DateRange.Valid() {
			return q, fmt.Errorf("invalid date range %q", raw)
		}
	}
	// Group names may contain commas, so each is its own parameter.
	for _, g := range v["groups"] {
		if g = strings.TrimSpace(g); g != "" {
			q.sel.Groups = append(q.sel.Groups, g)
		}
	}

	if raw := v.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return q, fmt.Errorf("invalid page %q", raw)
		}
		q.page = n
	}
	if raw := v.Get("pageSize"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxPageSize {
			return q, fmt.Errorf("page size must be between 1 and %d", maxPageSize)
		}
		q.pageSize = n
	}
	return q, nil
}

// Filename names a CSV export of q made at now.
func (q Query) Filename(now time.Time) string {
	return table.ExportFilename(q.kind, q.errorMode, now)
}

// tablePage is one table page plus the per-tab counts for the selection.
type tablePage[T any] struct {
	table.Page[T]
	Counts filter.TabCounts `json:"counts"`
}

// view filters and sorts records for q.
func view[T model.Record](records []T, q Query, now time.Time, loc *time.Location) []T {
	rows := filter.Apply(records, q.sel.Groups, q.sel.DateRange, now)
	return table.Sort(rows, q.sortKey, q.dir, loc)
}

func pageOf[T model.Record](records []T, q Query, now time.Time, loc *time.Location, counts filter.TabCounts) tablePage[T] {
	return tablePage[T]{
		Page:   table.NewPage(view(records, q, now, loc), q.page, q.pageSize),
		Counts: counts,
	}
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	q, err := ParseQuery(r.PathValue("kind"), r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap, err := s.fetch(r.Context(), false)
	if err != nil {
		s.logger.Error("fetch content", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch content")
		return
	}

	now := s.now().In(s.loc)
	counts := filter.Counts(&snap, q.sel, now)

	var body any
	switch {
	case q.kind == model.KindBlogs && q.errorMode:
		body = pageOf(snap.BlogErrors, q, now, s.loc, counts)
	case q.kind == model.KindBlogs:
		body = pageOf(snap.Blogs, q, now, s.loc, counts)
	case q.kind == model.KindGmbPosts && q.errorMode:
		body = pageOf(snap.GmbPostErrors, q, now, s.loc, counts)
	case q.kind == model.KindGmbPosts:
		body = pageOf(snap.GmbPosts, q, now, s.loc, counts)
	default:
		body = pageOf(snap.Replies, q, now, s.loc, counts)
	}
	s.writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	q, err := ParseQuery(r.PathValue("kind"), r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap, err := s.fetch(r.Context(), false)
	if err != nil {
		s.logger.Error("fetch content", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch content")
		return
	}

	now := s.now().In(s.loc)
	name := q.Filename(now)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))

	if err := Export(w, &snap, q, now, s.loc); err != nil {
		s.logger.Error("export csv", "kind", q.kind, "errors", q.errorMode, "error", err)
	}
}

// Export writes the filtered, sorted records selected by q as CSV.
func Export(w io.Writer, snap *model.ContentResponse, q Query, now time.Time, loc *time.Location) error {
	columns := table.ColumnsFor(q.kind, q.errorMode)
	if columns == nil {
		return errors.New("no export columns")
	}
	switch {
	case q.kind == model.KindBlogs && q.errorMode:
		return table.WriteCSV(w, view(snap.BlogErrors, q, now, loc), columns)
	case q.kind == model.KindBlogs:
		return table.WriteCSV(w, view(snap.Blogs, q, now, loc), columns)
	case q.kind == model.KindGmbPosts && q.errorMode:
		return table.WriteCSV(w, view(snap.GmbPostErrors, q, now, loc), columns)
	case q.kind == model.KindGmbPosts:
		return table.WriteCSV(w, view(snap.GmbPosts, q, now, loc), columns)
	default:
		return table.WriteCSV(w, view(snap.Replies, q, now, loc), columns)
	}
}
