// Package imapsource feeds messages from an IMAP folder into the same
// ingestion path as the inbound webhook.
package imapsource

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"time"

	"hausmeister/internal/inbound"
	"hausmeister/internal/service"
)

// RawMessage is one message as stored on the server.
type RawMessage struct {
	UID  uint32
	Data []byte
}

// Mailbox is the part of an IMAP session the poller needs.
type Mailbox interface {
	FetchUnseen(ctx context.Context) ([]RawMessage, error)
	MarkSeen(ctx context.Context, uid uint32) error
	Close() error
}

// DialFunc opens a fresh mailbox session for one poll.
type DialFunc func(ctx context.Context) (Mailbox, error)

// PollResult summarizes one poll.
type PollResult struct {
	Fetched   int
	Ingested  int
	Rejected  int
	Unparsed  int
	Deferred  int
	Documents int
}

// Poller periodically drains unseen messages from a mailbox.
type Poller struct {
	dial      DialFunc
	ingester  service.Ingester
	recipient string
	interval  time.Duration
	log       *slog.Logger
}

// NewPoller builds a poller. A non-empty recipient replaces the To address
// of every fetched message, for mailboxes that receive forwarded mail.
func NewPoller(dial DialFunc, ing service.Ingester, recipient string, interval time.Duration, log *slog.Logger) *Poller {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Poller{
		dial:      dial,
		ingester:  ing,
		recipient: inbound.ExtractAddress(recipient),
		interval:  interval,
		log:       log.With("component", "imapsource"),
	}
}

// Run polls until ctx is cancelled. Poll errors are logged and retried on
// the next tick.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if res, err := p.PollOnce(ctx); err != nil {
			p.log.ErrorContext(ctx, "poll failed", "error", err)
		} else if res.Fetched > 0 {
			p.log.InfoContext(ctx, "poll finished",
				"fetched", res.Fetched,
				"ingested", res.Ingested,
				"rejected", res.Rejected,
				"unparsed", res.Unparsed,
				"deferred", res.Deferred,
				"documents", res.Documents,
			)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// PollOnce opens a session, processes every unseen message sequentially and
// closes the session.
func (p *Poller) PollOnce(ctx context.Context) (PollResult, error) {
	var res PollResult

	mb, err := p.dial(ctx)
	if err != nil {
		return res, err
	}
	defer func() {
		if err := mb.Close(); err != nil {
			p.log.WarnContext(ctx, "closing mailbox failed", "error", err)
		}
	}()

	msgs, err := mb.FetchUnseen(ctx)
	res.Fetched = len(msgs)

	for _, raw := range msgs {
		if ctx.Err() != nil {
			break
		}
		p.handle(ctx, mb, raw, &res)
	}
	return res, err
}

func (p *Poller) handle(ctx context.Context, mb Mailbox, raw RawMessage, res *PollResult) {
	log := p.log.With("uid", raw.UID)

	msg, err := inbound.ParseMIME(bytes.NewReader(raw.Data))
	if err != nil {
		// A message that cannot be parsed never will be.
		res.Unparsed++
		log.WarnContext(ctx, "unparseable message, marking seen", "error", err)
		p.markSeen(ctx, mb, raw.UID)
		return
	}
	if p.recipient != "" {
		msg.To = p.recipient
	}

	out, err := p.ingester.Ingest(ctx, msg)
	switch {
	case err == nil:
		res.Ingested++
		res.Documents += out.Processed()
	case isRejection(err):
		res.Rejected++
		log.WarnContext(ctx, "message rejected", "from", msg.From, "to", msg.To, "error", err)
	default:
		res.Deferred++
		log.ErrorContext(ctx, "ingest failed, leaving unseen", "error", err)
	}

	if shouldMarkSeen(err) {
		p.markSeen(ctx, mb, raw.UID)
	}
}

func (p *Poller) markSeen(ctx context.Context, mb Mailbox, uid uint32) {
	if err := mb.MarkSeen(ctx, uid); err != nil {
		p.log.ErrorContext(ctx, "mark seen failed", "uid", uid, "error", err)
	}
}

// shouldMarkSeen reports whether an ingest outcome is final. Authorization
// rejections are final; anything else may succeed on a later poll.
func shouldMarkSeen(err error) bool {
	return err == nil || isRejection(err)
}

func isRejection(err error) bool {
	return errors.Is(err, service.ErrInboxNotFound) || errors.Is(err, service.ErrSenderNotVerified)
}
