// Package classify turns raw sheet rows into valid records and error records.
package classify

import "strings"

// Field is a canonical column a classifier reads.
type Field string

// Canonical fields.
const (
	FieldDate      Field = "date"
	FieldTime      Field = "time"
	FieldDateTime  Field = "dateTime"
	FieldGroup     Field = "group"
	FieldTitle     Field = "title"
	FieldKeyword   Field = "keyword"
	FieldURL       Field = "url"
	FieldCompanyID Field = "companyId"
)

// Columns maps each canonical field to the header texts that may label it.
// Header texts are compared lower-cased and trimmed.
type Columns map[Field][]string

// DefaultBlogColumns matches the Blogs sheet: Date, Time, Practice Name,
// Practice URL, Blog Title, Post URL, Webflow Item ID, Webflow Collection
// ID, Keyword, Make Execution, Notes, CompanyID.
func DefaultBlogColumns() Columns {
	return Columns{
		FieldDate:      {"date"},
		FieldTime:      {"time"},
		FieldGroup:     {"practice name"},
		FieldTitle:     {"blog title"},
		FieldKeyword:   {"keyword"},
		FieldURL:       {"post url"},
		FieldCompanyID: {"companyid"},
	}
}

// DefaultGmbPostColumns matches the GMB Posts sheet: Date, Time, Practice
// Name, Practice URL, Post Title, Post URL, Make Execution, Keyword, CompanyID.
func DefaultGmbPostColumns() Columns {
	return Columns{
		FieldDate:      {"date"},
		FieldTime:      {"time"},
		FieldGroup:     {"practice name"},
		FieldTitle:     {"post title"},
		FieldKeyword:   {"keyword"},
		FieldURL:       {"post url"},
		FieldCompanyID: {"companyid"},
	}
}

// DefaultReplyColumns matches the GMB Replies sheet: Account Name, Date
// Time, Reply, Reviews URL, Make Execution, Review ID, Location ID.
func DefaultReplyColumns() Columns {
	return Columns{
		FieldDateTime: {"date time"},
		FieldGroup:    {"account name"},
		FieldTitle:    {"reply"},
		FieldURL:      {"reviews url"},
	}
}

// Merge returns a copy of c with extra header aliases appended per field.
func (c Columns) Merge(extra map[string][]string) Columns {
	out := make(Columns, len(c))
	for f, names := range c {
		out[f] = append([]string(nil), names...)
	}
	for name, aliases := range extra {
		f := Field(name)
		out[f] = append(out[f], aliases...)
	}
	return out
}

// Layout is a Columns set resolved against one header row.
type Layout map[Field]int

// Resolve maps every field to the index of the first header cell matching
// one of its aliases. Fields with no matching header resolve to -1.
func (c Columns) Resolve(header []string) Layout {
	index := make(map[string]int, len(header))
	for i, h := range header {
		key := normalizeHeader(h)
		if _, seen := index[key]; !seen {
			index[key] = i
		}
	}

	layout := make(Layout, len(c))
	for f, aliases := range c {
		layout[f] = -1
		for _, alias := range aliases {
			if i, ok := index[normalizeHeader(alias)]; ok {
				layout[f] = i
				break
			}
		}
	}
	return layout
}

// Cell returns the cell for f in row, or "" when the column is missing or
// the row is short.
func (l Layout) Cell(row []string, f Field) string {
	i, ok := l[f]
	if !ok || i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}
