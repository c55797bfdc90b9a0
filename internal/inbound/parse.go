package inbound

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"strings"
)

var ErrMissingBoundary = errors.New("multipart payload without boundary")

// Parse normalizes a webhook body according to its Content-Type.
// Bodies with an unknown or missing content type are read as JSON.
func Parse(contentType string, body []byte) (*Message, Dialect, error) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = ""
	}

	switch mediaType {
	case "multipart/form-data":
		return parseForm(body, params["boundary"])
	case "message/rfc822":
		msg, err := ParseMIME(bytes.NewReader(body))
		return msg, DialectMIME, err
	default:
		msg, err := parseJSON(body)
		return msg, DialectJSON, err
	}
}

type jsonPayload struct {
	From        string           `json:"from"`
	To          string           `json:"to"`
	Subject     string           `json:"subject"`
	Text        string           `json:"text"`
	BodyPlain   string           `json:"body-plain"`
	HTML        string           `json:"html"`
	Attachments []jsonAttachment `json:"attachments"`
}

type jsonAttachment struct {
	Filename    string `json:"filename"`
	Content     string `json:"content"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

func parseJSON(body []byte) (*Message, error) {
	var p jsonPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("decode json payload: %w", err)
	}

	text := p.Text
	if text == "" {
		text = p.BodyPlain
	}
	msg := newMessage(p.From, p.To, p.Subject, text, p.HTML)

	for i, a := range p.Attachments {
		if a.ContentType != "" && !isPDF(a.ContentType) {
			continue
		}
		content, err := decodeBase64(a.Content)
		if err != nil {
			return nil, fmt.Errorf("decode attachment %d: %w", i, err)
		}
		size := a.Size
		if size <= 0 {
			size = int64(len(content))
		}
		msg.Attachments = append(msg.Attachments, Attachment{
			Filename: attachmentName(a.Filename, i),
			Content:  content,
			Size:     size,
		})
	}
	return msg, nil
}

func decodeBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	return base64.RawStdEncoding.DecodeString(s)
}

// parseForm streams the parts in order so attachments keep the order in
// which the relay sent them.
func parseForm(body []byte, boundary string) (*Message, Dialect, error) {
	if boundary == "" {
		return nil, "", ErrMissingBoundary
	}

	fields := make(map[string]string)
	var files []Attachment

	mr := multipart.NewReader(bytes.NewReader(body), boundary)
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, "", fmt.Errorf("read multipart: %w", err)
		}

		data, err := io.ReadAll(part)
		part.Close()
		if err != nil {
			return nil, "", fmt.Errorf("read part %q: %w", part.FormName(), err)
		}

		if part.FileName() != "" {
			if isPDF(part.Header.Get("Content-Type")) {
				files = append(files, Attachment{
					Filename: part.FileName(),
					Content:  data,
					Size:     int64(len(data)),
				})
			}
			continue
		}

		name := part.FormName()
		if _, seen := fields[name]; !seen {
			fields[name] = string(data)
		}
	}

	var msg *Message
	dialect := DialectSendGrid
	if _, ok := fields["recipient"]; ok {
		dialect = DialectMailgun
		msg = newMessage(fields["sender"], fields["recipient"], fields["subject"], fields["body-plain"], fields["body-html"])
	} else {
		msg = newMessage(fields["from"], fields["to"], fields["subject"], fields["text"], fields["html"])
	}
	msg.Attachments = files
	return msg, dialect, nil
}

func attachmentName(name string, idx int) string {
	if strings.TrimSpace(name) != "" {
		return name
	}
	return fmt.Sprintf("attachment-%d.pdf", idx+1)
}
