package main

import (
	"context"
	"log/slog"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/smartworkmark/seo-content-portal/internal/config"
	"github.com/smartworkmark/seo-content-portal/internal/fetcher"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{level: "debug", want: slog.LevelDebug},
		{level: "INFO", want: slog.LevelInfo},
		{level: "warn", want: slog.LevelWarn},
		{level: "error", want: slog.LevelError},
		{level: "verbose", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			log := newLogger(tt.level)
			if !log.Enabled(context.Background(), tt.want) {
				t.Errorf("level %s not enabled", tt.want)
			}
			if log.Enabled(context.Background(), tt.want-1) {
				t.Errorf("level below %s enabled", tt.want)
			}
		})
	}
}

func TestSheetNames(t *testing.T) {
	got := sheetNames(config.SheetNames{Replies: "Review Replies"})
	want := fetcher.SheetNames{Blogs: "Blogs", GmbPosts: "GMB Posts", Replies: "Review Replies"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("sheetNames() mismatch (-want +got):\n%s", diff)
	}
}

func TestExportValues(t *testing.T) {
	saved := exportFlags
	t.Cleanup(func() { exportFlags = saved })

	exportFlags.groups = []string{"Acme Dental", "Smith, Jones DDS"}
	exportFlags.dateRange = "30d"
	exportFlags.sortKey = ""
	exportFlags.dir = "asc"
	exportFlags.errors = true

	want := url.Values{
		"groups": {"Acme Dental", "Smith, Jones DDS"},
		"range":  {"30d"},
		"sort":   {""},
		"dir":    {"asc"},
		"errors": {"true"},
	}
	if diff := cmp.Diff(want, exportValues()); diff != "" {
		t.Errorf("exportValues() mismatch (-want +got):\n%s", diff)
	}
}

func TestExportGroupFlagKeepsCommas(t *testing.T) {
	saved := exportFlags
	t.Cleanup(func() { exportFlags = saved })

	if err := exportCmd.Flags().Parse([]string{"--group", "Smith, Jones DDS", "--group", "Acme Dental"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if diff := cmp.Diff([]string{"Smith, Jones DDS", "Acme Dental"}, exportFlags.groups); diff != "" {
		t.Errorf("groups mismatch (-want +got):\n%s", diff)
	}
}
