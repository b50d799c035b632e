package classify

import (
	"fmt"
	"regexp"

	"github.com/smartworkmark/seo-content-portal/internal/model"
	"github.com/smartworkmark/seo-content-portal/internal/urlcheck"
)

// Diagnostics used when the sheet gives no better explanation.
const (
	BlogFallbackMessage   = "Missing blog title or invalid URL"
	GmbPostFallbackReason = "Missing or invalid URL"
)

const (
	blogIDPrefix    = "blog"
	gmbPostIDPrefix = "gmb"
	replyIDPrefix   = "reply"
	errorIDInfix    = "error"
)

var localhostPrefix = regexp.MustCompile(`(?i)^(https?://)?localhost(:\d+)?/`)

// BlogResult is the outcome of classifying the Blogs sheet.
type BlogResult struct {
	Valid  []model.Blog
	Errors []model.BlogError
}

// GmbPostResult is the outcome of classifying the GMB Posts sheet.
type GmbPostResult struct {
	Valid  []model.GmbPost
	Errors []model.GmbPostError
}

// Classifier holds the column configuration for each sheet.
type Classifier struct {
	blogs    Columns
	gmbPosts Columns
	replies  Columns
}

// New creates a Classifier with explicit column configurations.
func New(blogs, gmbPosts, replies Columns) *Classifier {
	return &Classifier{blogs: blogs, gmbPosts: gmbPosts, replies: replies}
}

// Default creates a Classifier for the standard sheet headers.
func Default() *Classifier {
	return New(DefaultBlogColumns(), DefaultGmbPostColumns(), DefaultReplyColumns())
}

// Blogs splits the Blogs sheet into published posts and error rows.
// rows[0] is the header row.
func (c *Classifier) Blogs(rows [][]string) BlogResult {
	var res BlogResult
	if len(rows) <= 1 {
		return res
	}

	layout := c.blogs.Resolve(rows[0])
	for i, row := range rows[1:] {
		pos := i + 1
		date := layout.Cell(row, FieldDate)
		practice := layout.Cell(row, FieldGroup)
		title := layout.Cell(row, FieldTitle)
		link := SanitizeBlogURL(layout.Cell(row, FieldURL))
		dateTime := joinDateTime(date, layout.Cell(row, FieldTime))
		companyID := layout.Cell(row, FieldCompanyID)

		switch {
		case date != "" && practice != "" && title != "" && urlcheck.IsValid(link):
			res.Valid = append(res.Valid, model.Blog{
				ID:           recordID(blogIDPrefix, pos),
				Date:         dateTime,
				PracticeName: practice,
				CompanyID:    companyID,
				BlogTitle:    title,
				Keyword:      layout.Cell(row, FieldKeyword),
				URL:          link,
			})
		case date != "" && practice != "":
			msg := title
			if msg == "" {
				msg = BlogFallbackMessage
			}
			res.Errors = append(res.Errors, model.BlogError{
				ID:           errorID(blogIDPrefix, pos),
				Date:         dateTime,
				PracticeName: practice,
				CompanyID:    companyID,
				ErrorMessage: msg,
			})
		}
	}
	return res
}

// GmbPosts splits the GMB Posts sheet into published posts and error rows.
// The URL cell of an error row doubles as its reason.
func (c *Classifier) GmbPosts(rows [][]string) GmbPostResult {
	var res GmbPostResult
	if len(rows) <= 1 {
		return res
	}

	layout := c.gmbPosts.Resolve(rows[0])
	for i, row := range rows[1:] {
		pos := i + 1
		date := layout.Cell(row, FieldDate)
		practice := layout.Cell(row, FieldGroup)
		title := layout.Cell(row, FieldTitle)
		link := layout.Cell(row, FieldURL)
		dateTime := joinDateTime(date, layout.Cell(row, FieldTime))
		companyID := layout.Cell(row, FieldCompanyID)
		keyword := layout.Cell(row, FieldKeyword)

		switch {
		case date != "" && practice != "" && title != "" && urlcheck.IsValid(link):
			res.Valid = append(res.Valid, model.GmbPost{
				ID:           recordID(gmbPostIDPrefix, pos),
				Date:         dateTime,
				PracticeName: practice,
				CompanyID:    companyID,
				PostTitle:    title,
				Keyword:      keyword,
				URL:          link,
			})
		case date != "" && practice != "":
			reason := link
			if reason == "" {
				reason = GmbPostFallbackReason
			}
			res.Errors = append(res.Errors, model.GmbPostError{
				ID:           errorID(gmbPostIDPrefix, pos),
				Date:         dateTime,
				PracticeName: practice,
				CompanyID:    companyID,
				PostTitle:    title,
				Keyword:      keyword,
				Reason:       reason,
			})
		}
	}
	return res
}

// Replies keeps the rows of the GMB Replies sheet that have a date time,
// account, reply text and valid link. Other rows are dropped silently.
func (c *Classifier) Replies(rows [][]string) []model.Reply {
	if len(rows) <= 1 {
		return nil
	}

	layout := c.replies.Resolve(rows[0])
	var out []model.Reply
	for i, row := range rows[1:] {
		r := model.Reply{
			ID:          recordID(replyIDPrefix, i+1),
			DateTime:    layout.Cell(row, FieldDateTime),
			AccountName: layout.Cell(row, FieldGroup),
			Reply:       layout.Cell(row, FieldTitle),
			URL:         layout.Cell(row, FieldURL),
		}
		if r.DateTime == "" || r.AccountName == "" || r.Reply == "" || !urlcheck.IsValid(r.URL) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// SanitizeBlogURL strips a leading localhost origin that the publishing
// automation sometimes prepends, then adds https:// when no scheme is left.
//
//	http://localhost:3000/example.com/path -> https://example.com/path
func SanitizeBlogURL(raw string) string {
	if raw == "" {
		return ""
	}
	s := localhostPrefix.ReplaceAllString(raw, "")
	if s != "" && !urlcheck.HasScheme(s) {
		return "https://" + s
	}
	return s
}

func joinDateTime(date, clock string) string {
	if clock == "" {
		return date
	}
	return date + " " + clock
}

func recordID(prefix string, pos int) string {
	return fmt.Sprintf("%s-%d", prefix, pos)
}

func errorID(prefix string, pos int) string {
	return fmt.Sprintf("%s-%s-%d", prefix, errorIDInfix, pos)
}
