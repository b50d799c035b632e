package main

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/smartworkmark/seo-content-portal/internal/classify"
	"github.com/smartworkmark/seo-content-portal/internal/config"
	"github.com/smartworkmark/seo-content-portal/internal/fetcher"
	"github.com/smartworkmark/seo-content-portal/internal/mock"
	"github.com/smartworkmark/seo-content-portal/internal/savedfilters"
	"github.com/smartworkmark/seo-content-portal/internal/sheets"
	"github.com/smartworkmark/seo-content-portal/internal/storage"
)

// app holds the components every command shares.
type app struct {
	cfg     *config.Config
	log     *slog.Logger
	store   *storage.SQLite
	fetcher *fetcher.Fetcher
	filters *savedfilters.Store
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := newLogger(cfg.LogLevel)

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create data directory %s: %w", dir, err)
		}
	}

	store, err := storage.NewSQLite(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", cfg.DatabasePath, err)
	}

	now := func() time.Time { return time.Now().In(cfg.Location) }

	var source fetcher.RowSource
	if cfg.SheetsConfigured() {
		client := &http.Client{Timeout: cfg.FetchTimeout}
		source = sheets.New(client, cfg.SheetsBaseURL, cfg.SpreadsheetID, cfg.APIKey)
	} else {
		log.Warn("GOOGLE_SHEETS_ID or GOOGLE_API_KEY not set, serving mock data")
	}

	classifier := classify.New(
		classify.DefaultBlogColumns().Merge(cfg.Columns.Blogs),
		classify.DefaultGmbPostColumns().Merge(cfg.Columns.GmbPosts),
		classify.DefaultReplyColumns().Merge(cfg.Columns.Replies),
	)

	seed := cfg.MockSeed
	if seed == 0 {
		seed = rand.Uint64()
	}
	cache := mock.NewCache(mock.NewGenerator(seed), now)

	f := fetcher.New(source, classifier, cache, log,
		fetcher.WithSheetNames(sheetNames(cfg.Sheets)),
		fetcher.WithClock(now),
	)

	return &app{
		cfg:     cfg,
		log:     log,
		store:   store,
		fetcher: f,
		filters: savedfilters.New(store, log),
	}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn("close database", "error", err)
	}
}

// sheetNames fills names missing from the config file with the defaults.
func sheetNames(cfg config.SheetNames) fetcher.SheetNames {
	names := fetcher.DefaultSheetNames()
	if cfg.Blogs != "" {
		names.Blogs = cfg.Blogs
	}
	if cfg.GmbPosts != "" {
		names.GmbPosts = cfg.GmbPosts
	}
	if cfg.Replies != "" {
		names.Replies = cfg.Replies
	}
	return names
}
