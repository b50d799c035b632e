// Package mock generates the sample snapshot served when the spreadsheet is
// not configured or cannot be reached.
package mock

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/smartworkmark/seo-content-portal/internal/dates"
	"github.com/smartworkmark/seo-content-portal/internal/model"
	"github.com/smartworkmark/seo-content-portal/internal/summary"
)

// Record counts of a generated snapshot.
const (
	BlogCount         = 250
	GmbPostCount      = 350
	ReplyCount        = 180
	BlogErrorCount    = 15
	GmbPostErrorCount = 25

	spanDays = 90
)

// Generator builds snapshots from a seeded pseudo-random source.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a Generator. Equal seeds yield equal sequences of
// snapshots for equal clocks.
func NewGenerator(seed uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Generate builds a complete snapshot with dates in the 90 days before now.
func (g *Generator) Generate(now time.Time) model.ContentResponse {
	blogs := make([]model.Blog, BlogCount)
	for i := range blogs {
		blogs[i] = model.Blog{
			ID:           fmt.Sprintf("blog-%d", i+1),
			Date:         g.date(now),
			PracticeName: g.pick(practices),
			CompanyID:    g.pick(companyIDs),
			BlogTitle:    g.pick(blogTitles),
			Keyword:      g.pick(keywords),
			URL:          fmt.Sprintf("https://example.com/blog/%d", i+1),
		}
	}

	posts := make([]model.GmbPost, GmbPostCount)
	for i := range posts {
		posts[i] = model.GmbPost{
			ID:           fmt.Sprintf("gmb-%d", i+1),
			Date:         g.date(now),
			PracticeName: g.pick(practices),
			CompanyID:    g.pick(companyIDs),
			PostTitle:    g.pick(gmbPostTitles),
			Keyword:      g.pick(keywords),
			URL:          fmt.Sprintf("https://business.google.com/posts/%d", i+1),
		}
	}

	replies := make([]model.Reply, ReplyCount)
	for i := range replies {
		replies[i] = model.Reply{
			ID:          fmt.Sprintf("reply-%d", i+1),
			DateTime:    g.date(now),
			AccountName: g.pick(practices),
			Reply:       g.pick(replyTexts),
			URL:         fmt.Sprintf("https://business.google.com/reviews/%d", i+1),
		}
	}

	blogErrors := make([]model.BlogError, BlogErrorCount)
	for i := range blogErrors {
		blogErrors[i] = model.BlogError{
			ID:           fmt.Sprintf("blog-error-%d", i+1),
			Date:         g.date(now),
			PracticeName: g.pick(practices),
			CompanyID:    g.pick(companyIDs),
			ErrorMessage: g.pick(blogErrorMessages),
		}
	}

	postErrors := make([]model.GmbPostError, GmbPostErrorCount)
	for i := range postErrors {
		e := model.GmbPostError{
			ID:           fmt.Sprintf("gmb-error-%d", i+1),
			Date:         g.date(now),
			PracticeName: g.pick(practices),
			CompanyID:    g.pick(companyIDs),
			Reason:       g.pick(gmbErrorReasons),
		}
		if e.IsProcessing() {
			e.PostTitle = g.pick(gmbPostTitles)
			e.Keyword = g.pick(keywords)
		}
		postErrors[i] = e
	}

	newestFirst(blogs)
	newestFirst(posts)
	newestFirst(replies)
	newestFirst(blogErrors)
	newestFirst(postErrors)

	return model.ContentResponse{
		Blogs:         blogs,
		GmbPosts:      posts,
		Replies:       replies,
		Summary:       summary.Summarize(now, blogs, posts, replies),
		Practices:     summary.Practices(blogs, posts, blogErrors, postErrors),
		Accounts:      summary.Accounts(replies),
		BlogErrors:    blogErrors,
		GmbPostErrors: postErrors,
		ErrorSummary:  summary.SummarizeErrors(now, blogErrors, postErrors),
		Source:        model.SourceMock,
		GeneratedAt:   now,
	}
}

// date returns an RFC 3339 UTC timestamp between 8 AM and 8 PM on one of
// the last 90 days.
func (g *Generator) date(now time.Time) string {
	day := dates.StartOfDay(now, g.rng.IntN(spanDays))
	t := day.Add(time.Duration(8+g.rng.IntN(12))*time.Hour + time.Duration(g.rng.IntN(60))*time.Minute)
	return t.UTC().Format(time.RFC3339)
}

func (g *Generator) pick(values []string) string {
	return values[g.rng.IntN(len(values))]
}

func newestFirst[T model.Record](records []T) {
	slices.SortStableFunc(records, func(a, b T) int {
		return dates.ParseLenient(b.DateValue(), time.UTC).Compare(dates.ParseLenient(a.DateValue(), time.UTC))
	})
}

// Cache owns the current mock snapshot. The zero value is not usable; call NewCache.
type Cache struct {
	mu       sync.Mutex
	gen      *Generator
	now      func() time.Time
	snapshot *model.ContentResponse
}

// NewCache creates a Cache that generates snapshots lazily with gen.
func NewCache(gen *Generator, now func() time.Time) *Cache {
	if now == nil {
		now = time.Now
	}
	return &Cache{gen: gen, now: now}
}

// Get returns the cached snapshot, generating it on first use.
func (c *Cache) Get() model.ContentResponse {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snapshot == nil {
		c.regenerate()
	}
	return *c.snapshot
}

// Refresh replaces the cached snapshot with a newly generated one and returns it.
func (c *Cache) Refresh() model.ContentResponse {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.regenerate()
	return *c.snapshot
}

func (c *Cache) regenerate() {
	snap := c.gen.Generate(c.now())
	c.snapshot = &snap
}
