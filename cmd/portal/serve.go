package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/smartworkmark/seo-content-portal/internal/notify"
	"github.com/smartworkmark/seo-content-portal/internal/scheduler"
	"github.com/smartworkmark/seo-content-portal/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the portal API and refresh content in the background",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	var sender scheduler.Sender
	if a.cfg.AlertsEnabled() {
		tg, err := notify.New(a.cfg.TelegramBotToken, a.cfg.TelegramChatID, a.log)
		if err != nil {
			return err
		}
		sender = tg
	} else {
		a.log.Info("TELEGRAM_BOT_TOKEN not set, error alerts disabled")
	}

	sched := scheduler.New(a.store, a.fetcher, sender, a.log, a.cfg.RefreshSchedule, a.cfg.Location)
	srv := server.New(a.fetcher, a.filters, a.store, a.log, server.WithLocation(a.cfg.Location))

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a.log.Info("starting portal", "addr", a.cfg.ListenAddr, "live", a.cfg.SheetsConfigured())

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return sched.Run(ctx) })
	g.Go(func() error { return srv.ListenAndServe(ctx, a.cfg.ListenAddr) })
	err = g.Wait()

	a.log.Info("portal stopped")
	return err
}
