// Command imapfetch polls an IMAP folder and files the PDF attachments of
// unseen messages like the inbound webhook does.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"hausmeister/internal/app"
	"hausmeister/internal/config"
	"hausmeister/internal/imapsource"
	"hausmeister/internal/logging"
	"hausmeister/internal/otel"
)

func main() {
	if err := run(); err != nil {
		slog.Error("imapfetch stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	if cfg.IMAP.Server == "" || cfg.IMAP.Username == "" {
		return errors.New("IMAP_SERVER and IMAP_USERNAME are required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		return err
	}
	defer shutdownTracing(context.Background())

	core, err := app.Build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer core.Close()

	dial := func(ctx context.Context) (imapsource.Mailbox, error) {
		return imapsource.Dial(ctx, cfg.IMAP)
	}
	poller := imapsource.NewPoller(dial, core.Ingester, cfg.IMAP.Recipient, cfg.IMAP.PollInterval, log)

	log.Info("polling mailbox",
		"server", cfg.IMAP.Server,
		"mailbox", cfg.IMAP.Mailbox,
		"interval", cfg.IMAP.PollInterval,
	)
	return poller.Run(ctx)
}
