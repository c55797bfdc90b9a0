// Package inbound turns the payloads of inbound-mail relays into one
// canonical Message.
//
// Supported shapes and the keys each one populates:
//
//	json      generic relays: from, to, subject, text (or body-plain), html,
//	          attachments[{filename, content(base64), content_type, size}]
//	sendgrid  multipart/form-data: from, to, subject, text, html, file parts
//	mailgun   multipart/form-data: sender, recipient, subject, body-plain,
//	          body-html, file parts (identified by the "recipient" field)
//	mime      message/rfc822: a raw RFC 5322 message
package inbound

import "strings"

// Dialect names the upstream payload shape a Message was parsed from.
type Dialect string

const (
	DialectJSON     Dialect = "json"
	DialectSendGrid Dialect = "sendgrid"
	DialectMailgun  Dialect = "mailgun"
	DialectMIME     Dialect = "mime"
)

const (
	pdfContentType = "application/pdf"

	// DefaultSubject is stored for mails without a subject line.
	DefaultSubject = "Kein Betreff"
)

// Message is the normalized inbound email. From and To hold bare lowercase
// addresses.
type Message struct {
	From        string
	To          string
	Subject     string
	Body        string
	Attachments []Attachment
}

// Attachment is a PDF file carried by the email.
type Attachment struct {
	Filename string
	Content  []byte
	Size     int64
}

// ExtractAddress returns the bare address of "Name <addr>" forms, or the
// trimmed input otherwise. The result is lowercase.
func ExtractAddress(s string) string {
	if start := strings.Index(s, "<"); start >= 0 {
		if end := strings.Index(s[start+1:], ">"); end > 0 {
			return strings.ToLower(s[start+1 : start+1+end])
		}
	}
	return strings.ToLower(strings.TrimSpace(s))
}

func newMessage(from, to, subject, text, html string) *Message {
	body := text
	if strings.TrimSpace(body) == "" && html != "" {
		body = htmlToText(html)
	}
	if strings.TrimSpace(subject) == "" {
		subject = DefaultSubject
	}
	return &Message{
		From:    ExtractAddress(from),
		To:      ExtractAddress(to),
		Subject: subject,
		Body:    body,
	}
}

func isPDF(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	return ct == pdfContentType
}
