package model

import "strings"

// Record is a single table row of any content kind. The set of
// implementations is closed: Blog, GmbPost, Reply, BlogError, GmbPostError.
type Record interface {
	Kind() ContentKind
	RecordID() string
	// GroupName is the practice name, or the account name for replies.
	GroupName() string
	// DateValue is the raw date (or date time) cell the record was built from.
	DateValue() string
	// Field returns the value of a table column by its JSON key, or nil.
	Field(key string) any

	isRecord()
}

// ValidRecord is a record that passed classification and carries a link.
type ValidRecord interface {
	Record
	Link() string
}

// Blog is a published blog post.
type Blog struct {
	ID           string `json:"id"`
	Date         string `json:"date"`
	PracticeName string `json:"practiceName"`
	CompanyID    string `json:"companyId"`
	BlogTitle    string `json:"blogTitle"`
	Keyword      string `json:"keyword"`
	URL          string `json:"url"`
}

// GmbPost is a published Google Business post.
type GmbPost struct {
	ID           string `json:"id"`
	Date         string `json:"date"`
	PracticeName string `json:"practiceName"`
	CompanyID    string `json:"companyId"`
	PostTitle    string `json:"postTitle"`
	Keyword      string `json:"keyword"`
	URL          string `json:"url"`
}

// Reply is a posted reply to a Google Business review.
type Reply struct {
	ID          string `json:"id"`
	DateTime    string `json:"dateTime"`
	AccountName string `json:"accountName"`
	Reply       string `json:"reply"`
	URL         string `json:"url"`
}

// BlogError is a blog row with a date and practice that failed validation.
type BlogError struct {
	ID           string `json:"id"`
	Date         string `json:"date"`
	PracticeName string `json:"practiceName"`
	CompanyID    string `json:"companyId"`
	// ErrorMessage comes from the blog title cell.
	ErrorMessage string `json:"errorMessage"`
}

// ReasonProcessing marks a GMB post that is still being published.
const ReasonProcessing = "processing"

// GmbPostError is a GMB post row with a date and practice that failed validation.
type GmbPostError struct {
	ID           string `json:"id"`
	Date         string `json:"date"`
	PracticeName string `json:"practiceName"`
	CompanyID    string `json:"companyId"`
	// PostTitle and Keyword are only shown while the post is processing.
	PostTitle string `json:"postTitle"`
	Keyword   string `json:"keyword"`
	// Reason comes from the post URL cell.
	Reason string `json:"reason"`
}

// IsProcessing reports whether the post is still in flight rather than failed.
func (e GmbPostError) IsProcessing() bool {
	return strings.EqualFold(strings.TrimSpace(e.Reason), ReasonProcessing)
}

func (Blog) Kind() ContentKind         { return KindBlogs }
func (GmbPost) Kind() ContentKind      { return KindGmbPosts }
func (Reply) Kind() ContentKind        { return KindReplies }
func (BlogError) Kind() ContentKind    { return KindBlogs }
func (GmbPostError) Kind() ContentKind { return KindGmbPosts }

func (b Blog) RecordID() string         { return b.ID }
func (p GmbPost) RecordID() string      { return p.ID }
func (r Reply) RecordID() string        { return r.ID }
func (e BlogError) RecordID() string    { return e.ID }
func (e GmbPostError) RecordID() string { return e.ID }

func (b Blog) GroupName() string         { return b.PracticeName }
func (p GmbPost) GroupName() string      { return p.PracticeName }
func (r Reply) GroupName() string        { return r.AccountName }
func (e BlogError) GroupName() string    { return e.PracticeName }
func (e GmbPostError) GroupName() string { return e.PracticeName }

func (b Blog) DateValue() string         { return b.Date }
func (p GmbPost) DateValue() string      { return p.Date }
func (r Reply) DateValue() string        { return r.DateTime }
func (e BlogError) DateValue() string    { return e.Date }
func (e GmbPostError) DateValue() string { return e.Date }

func (b Blog) Link() string    { return b.URL }
func (p GmbPost) Link() string { return p.URL }
func (r Reply) Link() string   { return r.URL }

func (Blog) isRecord()         {}
func (GmbPost) isRecord()      {}
func (Reply) isRecord()        {}
func (BlogError) isRecord()    {}
func (GmbPostError) isRecord() {}

// Field implements Record.
func (b Blog) Field(key string) any {
	switch key {
	case "id":
		return b.ID
	case "date":
		return b.Date
	case "practiceName":
		return b.PracticeName
	case "companyId":
		return b.CompanyID
	case "blogTitle":
		return b.BlogTitle
	case "keyword":
		return b.Keyword
	case "url":
		return b.URL
	}
	return nil
}

// Field implements Record.
func (p GmbPost) Field(key string) any {
	switch key {
	case "id":
		return p.ID
	case "date":
		return p.Date
	case "practiceName":
		return p.PracticeName
	case "companyId":
		return p.CompanyID
	case "postTitle":
		return p.PostTitle
	case "keyword":
		return p.Keyword
	case "url":
		return p.URL
	}
	return nil
}

// Field implements Record.
func (r Reply) Field(key string) any {
	switch key {
	case "id":
		return r.ID
	case "dateTime":
		return r.DateTime
	case "accountName":
		return r.AccountName
	case "reply":
		return r.Reply
	case "url":
		return r.URL
	}
	return nil
}

// Field implements Record.
func (e BlogError) Field(key string) any {
	switch key {
	case "id":
		return e.ID
	case "date":
		return e.Date
	case "practiceName":
		return e.PracticeName
	case "companyId":
		return e.CompanyID
	case "errorMessage":
		return e.ErrorMessage
	}
	return nil
}

// Field implements Record. Title and keyword read as empty unless the post
// is still processing.
func (e GmbPostError) Field(key string) any {
	switch key {
	case "id":
		return e.ID
	case "date":
		return e.Date
	case "practiceName":
		return e.PracticeName
	case "companyId":
		return e.CompanyID
	case "postTitle":
		if !e.IsProcessing() {
			return ""
		}
		return e.PostTitle
	case "keyword":
		if !e.IsProcessing() {
			return ""
		}
		return e.Keyword
	case "reason":
		return e.Reason
	}
	return nil
}
