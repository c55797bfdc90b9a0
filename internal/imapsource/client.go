package imapsource

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"

	"hausmeister/internal/config"
)

// imapMailbox is a Mailbox backed by a logged-in go-imap client with the
// configured folder selected.
type imapMailbox struct {
	c *client.Client
}

var _ Mailbox = (*imapMailbox)(nil)

// Dial connects over TLS, logs in and selects the configured folder.
func Dial(ctx context.Context, cfg config.IMAPConfig) (Mailbox, error) {
	timeout := cfg.DialTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	dialer := &tls.Dialer{NetDialer: &net.Dialer{Timeout: timeout}}
	conn, err := dialer.DialContext(ctx, "tcp", cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.Server, err)
	}

	c, err := client.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("create IMAP client: %w", err)
	}

	if err := c.Login(cfg.Username, cfg.Password); err != nil {
		c.Logout()
		return nil, fmt.Errorf("login: %w", err)
	}

	if _, err := c.Select(cfg.Mailbox, false); err != nil {
		c.Logout()
		return nil, fmt.Errorf("select %s: %w", cfg.Mailbox, err)
	}

	return &imapMailbox{c: c}, nil
}

// FetchUnseen returns the raw RFC 5322 source of every message without the
// \Seen flag. Bodies are fetched with PEEK so the server does not flag them.
func (m *imapMailbox) FetchUnseen(ctx context.Context) ([]RawMessage, error) {
	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.SeenFlag}

	uids, err := m.c.UidSearch(criteria)
	if err != nil {
		return nil, fmt.Errorf("search unseen: %w", err)
	}
	if len(uids) == 0 {
		return nil, nil
	}

	seqSet := new(imap.SeqSet)
	seqSet.AddNum(uids...)

	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{imap.FetchUid, section.FetchItem()}

	messages := make(chan *imap.Message, 16)
	done := make(chan error, 1)
	go func() {
		done <- m.c.UidFetch(seqSet, items, messages)
	}()

	var out []RawMessage
	for msg := range messages {
		body := msg.GetBody(section)
		if body == nil {
			continue
		}
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, body); err != nil {
			continue
		}
		out = append(out, RawMessage{UID: msg.Uid, Data: buf.Bytes()})
	}

	if err := <-done; err != nil {
		return out, fmt.Errorf("fetch: %w", err)
	}
	return out, nil
}

// MarkSeen adds the \Seen flag to one message.
func (m *imapMailbox) MarkSeen(ctx context.Context, uid uint32) error {
	seqSet := new(imap.SeqSet)
	seqSet.AddNum(uid)

	item := imap.FormatFlagsOp(imap.AddFlags, true)
	if err := m.c.UidStore(seqSet, item, []interface{}{imap.SeenFlag}, nil); err != nil {
		return fmt.Errorf("mark seen: %w", err)
	}
	return nil
}

func (m *imapMailbox) Close() error {
	return m.c.Logout()
}
