package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/smartworkmark/seo-content-portal/internal/model"
)

// Column is a field key and its header label.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

var (
	blogColumns = []Column{
		{Key: "date", Label: "Date"},
		{Key: "practiceName", Label: "Practice Name"},
		{Key: "blogTitle", Label: "Blog Title"},
		{Key: "keyword", Label: "Keyword"},
		{Key: "url", Label: "URL"},
	}
	gmbPostColumns = []Column{
		{Key: "date", Label: "Date"},
		{Key: "practiceName", Label: "Practice Name"},
		{Key: "postTitle", Label: "Post Title"},
		{Key: "keyword", Label: "Keyword"},
		{Key: "url", Label: "URL"},
	}
	replyColumns = []Column{
		{Key: "dateTime", Label: "Date/Time"},
		{Key: "accountName", Label: "Account Name"},
		{Key: "reply", Label: "Reply"},
		{Key: "url", Label: "URL"},
	}
	blogErrorColumns = []Column{
		{Key: "date", Label: "Date"},
		{Key: "practiceName", Label: "Practice Name"},
		{Key: "companyId", Label: "Company ID"},
		{Key: "errorMessage", Label: "Error"},
	}
	gmbPostErrorColumns = []Column{
		{Key: "date", Label: "Date"},
		{Key: "practiceName", Label: "Practice Name"},
		{Key: "postTitle", Label: "Post Title"},
		{Key: "keyword", Label: "Keyword"},
		{Key: "reason", Label: "Reason"},
	}
)

// ColumnsFor returns the table and export columns of kind. Replies have no
// error mode; errorMode is ignored for them.
func ColumnsFor(kind model.ContentKind, errorMode bool) []Column {
	switch kind {
	case model.KindBlogs:
		if errorMode {
			return blogErrorColumns
		}
		return blogColumns
	case model.KindGmbPosts:
		if errorMode {
			return gmbPostErrorColumns
		}
		return gmbPostColumns
	case model.KindReplies:
		return replyColumns
	}
	return nil
}

// DefaultSortKey is the date field of kind.
func DefaultSortKey(kind model.ContentKind) string {
	if kind == model.KindReplies {
		return "dateTime"
	}
	return "date"
}

// WriteCSV writes a header row of column labels followed by one line per
// record. Fields holding a comma, quote, newline or carriage return, or
// starting with whitespace, are quoted with inner quotes doubled.
func WriteCSV[T model.Record](w io.Writer, rows []T, columns []Column) error {
	cw := csv.NewWriter(w)

	header := make([]string, len(columns))
	for i, c := range columns {
		header[i] = c.Label
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	record := make([]string, len(columns))
	for _, row := range rows {
		for i, c := range columns {
			record[i] = cellText(row.Field(c.Key))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %s: %w", row.RecordID(), err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func cellText(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// ExportFilename names an export of kind made at now, e.g.
// "blogs-2025-06-15.csv" or "blogs-errors-2025-06-15.csv".
func ExportFilename(kind model.ContentKind, errorMode bool, now time.Time) string {
	base := string(kind)
	if errorMode && kind.HasErrors() {
		base += "-errors"
	}
	return fmt.Sprintf("%s-%s.csv", base, now.UTC().Format(time.DateOnly))
}
