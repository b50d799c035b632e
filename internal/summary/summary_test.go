package summary

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/smartworkmark/seo-content-portal/internal/model"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func TestSummarize(t *testing.T) {
	blogs := []model.Blog{
		{Date: "2025-06-15 08:00"},
		{Date: "2025-06-09"},
		{Date: "2025-06-08 23:59"},
		{Date: "garbage"},
	}
	posts := []model.GmbPost{
		{Date: "2025-06-15"},
		{Date: "2025-06-15 18:00"},
		{Date: "2025-06-12 10:00"},
	}
	replies := []model.Reply{
		{DateTime: "2025-06-15T09:30:00Z"},
		{DateTime: "2025-05-01 10:00"},
	}

	got := Summarize(now, blogs, posts, replies)

	want := model.SummaryData{
		Blogs7d:       2,
		GmbPosts7d:    2,
		Replies7d:     1,
		TodayActivity: 3,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Summarize() mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarizeErrors(t *testing.T) {
	blogErrors := []model.BlogError{{Date: "2025-06-10"}, {Date: "2025-01-01"}, {Date: ""}}
	postErrors := []model.GmbPostError{{Date: "2025-06-14 10:00"}, {Date: "2025-06-09 00:00"}}

	got := SummarizeErrors(now, blogErrors, postErrors)

	want := model.ErrorSummaryData{BlogErrors: 1, GmbPostErrors: 2}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SummarizeErrors() mismatch (-want +got):\n%s", diff)
	}
}

func TestPractices(t *testing.T) {
	got := Practices(
		[]model.Blog{{PracticeName: "Riverside"}, {PracticeName: "Acme"}},
		[]model.GmbPost{{PracticeName: "Acme"}, {PracticeName: "Bright"}},
		[]model.BlogError{{PracticeName: "Zen"}},
		[]model.GmbPostError{{PracticeName: "Bright"}},
	)

	want := []string{"Acme", "Bright", "Riverside", "Zen"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Practices() mismatch (-want +got):\n%s", diff)
	}
}

func TestAccounts(t *testing.T) {
	got := Accounts([]model.Reply{{AccountName: "b"}, {AccountName: "a"}, {AccountName: "b"}})

	if diff := cmp.Diff([]string{"a", "b"}, got); diff != "" {
		t.Errorf("Accounts() mismatch (-want +got):\n%s", diff)
	}
}

func TestEmptyInputs(t *testing.T) {
	if diff := cmp.Diff(model.SummaryData{}, Summarize(now, nil, nil, nil)); diff != "" {
		t.Errorf("Summarize() mismatch (-want +got):\n%s", diff)
	}
	if got := Accounts(nil); len(got) != 0 {
		t.Errorf("Accounts(nil) = %v, want empty", got)
	}
}
