package inbound

import (
	"fmt"
	"io"

	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
)

// ParseMIME normalizes a raw RFC 5322 message, as delivered by mail relays
// that forward the original message or read from a mailbox.
func ParseMIME(r io.Reader) (*Message, error) {
	mr, err := mail.CreateReader(r)
	if err != nil && !message.IsUnknownCharset(err) {
		return nil, fmt.Errorf("read mime message: %w", err)
	}
	defer mr.Close()

	subject, err := mr.Header.Subject()
	if err != nil {
		subject = mr.Header.Get("Subject")
	}

	var text, html string
	var files []Attachment
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil && !message.IsUnknownCharset(err) {
			return nil, fmt.Errorf("read mime part: %w", err)
		}
		if part == nil {
			continue
		}

		switch h := part.Header.(type) {
		case *mail.InlineHeader:
			ct, _, _ := h.ContentType()
			body, err := io.ReadAll(part.Body)
			if err != nil {
				continue
			}
			switch {
			case ct == "text/plain" && text == "":
				text = string(body)
			case ct == "text/html" && html == "":
				html = string(body)
			case isPDF(ct):
				_, params, _ := h.ContentDisposition()
				files = append(files, pdfAttachment(params["filename"], body, len(files)))
			}
		case *mail.AttachmentHeader:
			ct, _, _ := h.ContentType()
			if !isPDF(ct) {
				continue
			}
			body, err := io.ReadAll(part.Body)
			if err != nil {
				return nil, fmt.Errorf("read attachment: %w", err)
			}
			name, _ := h.Filename()
			files = append(files, pdfAttachment(name, body, len(files)))
		}
	}

	msg := newMessage(firstAddress(mr.Header, "From"), firstAddress(mr.Header, "To"), subject, text, html)
	msg.Attachments = files
	return msg, nil
}

func firstAddress(h mail.Header, key string) string {
	list, err := h.AddressList(key)
	if err == nil && len(list) > 0 {
		return list[0].Address
	}
	return h.Get(key)
}

func pdfAttachment(name string, body []byte, idx int) Attachment {
	return Attachment{
		Filename: attachmentName(name, idx),
		Content:  body,
		Size:     int64(len(body)),
	}
}
