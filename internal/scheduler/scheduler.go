// Package scheduler refreshes the content snapshot on a cron schedule and
// alerts on error records it has not reported before.
package scheduler

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/smartworkmark/seo-content-portal/internal/model"
	"github.com/smartworkmark/seo-content-portal/internal/notify"
	"github.com/smartworkmark/seo-content-portal/internal/storage"
)

// DefaultSchedule refreshes once an hour.
const DefaultSchedule = "@every 1h"

// Fetcher produces content snapshots.
type Fetcher interface {
	Fetch(ctx context.Context, forceRefresh bool) model.ContentResponse
}

// Sender is the interface for sending alert messages.
type Sender interface {
	SendMessage(text string)
}

// Scheduler periodically refreshes content and reports new errors.
type Scheduler struct {
	store    storage.Storage
	fetcher  Fetcher
	sender   Sender
	log      *slog.Logger
	schedule string
	loc      *time.Location
	pause    time.Duration
}

// New creates a Scheduler. sender may be nil to disable alerts.
func New(store storage.Storage, f Fetcher, sender Sender, log *slog.Logger, schedule string, loc *time.Location) *Scheduler {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		store:    store,
		fetcher:  f,
		sender:   sender,
		log:      log,
		schedule: schedule,
		loc:      loc,
		pause:    50 * time.Millisecond,
	}
}

// Run refreshes once immediately, then on every tick of the schedule,
// blocking until ctx is cancelled. It fails only on an invalid schedule.
func (s *Scheduler) Run(ctx context.Context) error {
	c := cron.New(cron.WithLocation(s.loc), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(s.schedule, func() { s.refresh(ctx) }); err != nil {
		return fmt.Errorf("schedule %q: %w", s.schedule, err)
	}

	s.refresh(ctx)

	c.Start()
	s.log.Info("scheduler started", "schedule", s.schedule)
	<-ctx.Done()
	<-c.Stop().Done()
	s.log.Info("scheduler stopped")
	return nil
}

func (s *Scheduler) refresh(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	run, err := s.RefreshOnce(ctx)
	if err != nil {
		s.log.Error("refresh", "error", err)
		return
	}
	s.log.Info("refresh finished",
		"source", run.Source,
		"blogs", run.Blogs,
		"gmb_posts", run.GmbPosts,
		"replies", run.Replies,
		"new_errors", run.NewErrors,
		"duration", time.Since(start),
	)
}

// RefreshOnce fetches a snapshot, alerts on unseen error records and records
// the run. Mock snapshots and posts still processing are never alerted on.
// The first live run only marks the errors already present as seen.
func (s *Scheduler) RefreshOnce(ctx context.Context) (model.RefreshRun, error) {
	snap := s.fetcher.Fetch(ctx, false)

	newErrors := 0
	if snap.Source == model.SourceLive {
		n, err := s.reportNewErrors(ctx, &snap)
		if err != nil {
			return model.RefreshRun{}, err
		}
		newErrors = n
	}

	run := model.NewRefreshRun(&snap, newErrors)
	if err := s.store.RecordRefresh(ctx, &run); err != nil {
		return run, fmt.Errorf("record refresh: %w", err)
	}
	return run, nil
}

func (s *Scheduler) reportNewErrors(ctx context.Context, snap *model.ContentResponse) (int, error) {
	priming, err := s.isFirstLiveRun(ctx)
	if err != nil {
		return 0, err
	}

	records := make([]model.Record, 0, len(snap.BlogErrors)+len(snap.GmbPostErrors))
	for _, e := range snap.BlogErrors {
		records = append(records, e)
	}
	for _, e := range snap.GmbPostErrors {
		if e.IsProcessing() {
			continue
		}
		records = append(records, e)
	}

	var unseen []model.Record
	for _, rec := range records {
		fp := Fingerprint(rec)
		seen, err := s.store.IsSeen(ctx, rec.Kind(), fp)
		if err != nil {
			s.log.Error("check seen", "kind", rec.Kind(), "id", rec.RecordID(), "error", err)
			continue
		}
		if !seen {
			unseen = append(unseen, rec)
		}
	}

	if !priming && s.sender != nil {
		for i, msg := range notify.FormatDigest(unseen) {
			if i > 0 {
				// Rate limit: ~20 messages/sec max for Telegram
				time.Sleep(s.pause)
			}
			s.sender.SendMessage(msg)
		}
	}

	for _, rec := range unseen {
		if err := s.store.MarkSeen(ctx, rec.Kind(), Fingerprint(rec)); err != nil {
			s.log.Error("mark seen", "kind", rec.Kind(), "id", rec.RecordID(), "error", err)
		}
	}

	if priming {
		s.log.Info("first live refresh, existing errors marked as seen", "count", len(unseen))
		return 0, nil
	}
	return len(unseen), nil
}

func (s *Scheduler) isFirstLiveRun(ctx context.Context) (bool, error) {
	_, err := s.store.LastRefresh(ctx, model.SourceLive)
	if errors.Is(err, storage.ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("last live refresh: %w", err)
	}
	return false, nil
}

// Fingerprint identifies an error record across refreshes. Record IDs are
// row positions and shift when the sheet changes, so the content is hashed.
func Fingerprint(rec model.Record) string {
	var detail string
	switch e := rec.(type) {
	case model.BlogError:
		detail = e.CompanyID + "|" + e.ErrorMessage
	case model.GmbPostError:
		detail = e.CompanyID + "|" + e.PostTitle + "|" + e.Reason
	}
	h := sha256.Sum256([]byte(string(rec.Kind()) + "|" + rec.DateValue() + "|" + rec.GroupName() + "|" + detail))
	return fmt.Sprintf("sha256:%x", h[:16])
}
