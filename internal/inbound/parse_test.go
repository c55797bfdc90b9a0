package inbound

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type formFile struct {
	field       string
	filename    string
	contentType string
	content     []byte
}

func buildForm(t *testing.T, fields map[string]string, files []formFile) (string, []byte) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.field, f.filename))
		h.Set("Content-Type", f.contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return w.FormDataContentType(), body.Bytes()
}

func TestExtractAddress(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Hausverwaltung <HV@Example.com>", want: "hv@example.com"},
		{in: "  billing@vendor.de  ", want: "billing@vendor.de"},
		{in: "<only@brackets.de>", want: "only@brackets.de"},
		{in: "Broken <missing-end", want: "broken <missing-end"},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractAddress(tt.in))
		})
	}
}

func TestParse_SendGridMultipart(t *testing.T) {
	inv1 := bytes.Repeat([]byte("a"), 2048)
	inv2 := bytes.Repeat([]byte("b"), 5120)
	ct, body := buildForm(t, map[string]string{
		"from":    "Hausverwaltung <hv@example.com>",
		"to":      "belege-acme@eingang.example.de",
		"subject": "Rechnungen März",
		"text":    "Anbei zwei Rechnungen",
	}, []formFile{
		{field: "attachment1", filename: "invoice1.pdf", contentType: "application/pdf", content: inv1},
		{field: "attachment2", filename: "invoice2.pdf", contentType: "application/pdf", content: inv2},
		{field: "attachment3", filename: "logo.png", contentType: "image/png", content: []byte("png")},
	})

	msg, dialect, err := Parse(ct, body)
	require.NoError(t, err)

	assert.Equal(t, DialectSendGrid, dialect)
	assert.Equal(t, "hv@example.com", msg.From)
	assert.Equal(t, "belege-acme@eingang.example.de", msg.To)
	assert.Equal(t, "Rechnungen März", msg.Subject)
	assert.Equal(t, "Anbei zwei Rechnungen", msg.Body)
	require.Len(t, msg.Attachments, 2)
	assert.Equal(t, "invoice1.pdf", msg.Attachments[0].Filename)
	assert.Equal(t, int64(2048), msg.Attachments[0].Size)
	assert.Equal(t, "invoice2.pdf", msg.Attachments[1].Filename)
	assert.Equal(t, int64(5120), msg.Attachments[1].Size)
	assert.Equal(t, inv2, msg.Attachments[1].Content)
}

func TestParse_MailgunMultipart(t *testing.T) {
	ct, body := buildForm(t, map[string]string{
		"sender":     "Stadtwerke <rechnung@stadtwerke.de>",
		"recipient":  "belege-acme@eingang.example.de",
		"body-plain": "",
		"body-html":  "<html><body><p>Ihre Rechnung</p><script>x()</script></body></html>",
	}, nil)

	msg, dialect, err := Parse(ct, body)
	require.NoError(t, err)

	assert.Equal(t, DialectMailgun, dialect)
	assert.Equal(t, "rechnung@stadtwerke.de", msg.From)
	assert.Equal(t, "belege-acme@eingang.example.de", msg.To)
	assert.Equal(t, DefaultSubject, msg.Subject)
	assert.Equal(t, "Ihre Rechnung", msg.Body)
	assert.Empty(t, msg.Attachments)
}

func TestParse_MultipartWithoutBoundary(t *testing.T) {
	_, _, err := Parse("multipart/form-data", []byte("x"))
	assert.ErrorIs(t, err, ErrMissingBoundary)
}

func TestParse_JSON(t *testing.T) {
	pdf := []byte("%PDF-1.4 test")
	payload := map[string]any{
		"from":       "hv@example.com",
		"to":         "Belege <belege-acme@eingang.example.de>",
		"subject":    "Beleg",
		"body-plain": "siehe Anhang",
		"attachments": []map[string]any{
			{"filename": "beleg.pdf", "content": base64.StdEncoding.EncodeToString(pdf)},
			{"filename": "notes.txt", "content": base64.StdEncoding.EncodeToString([]byte("hi")), "content_type": "text/plain"},
			{"content": base64.StdEncoding.EncodeToString(pdf), "content_type": "application/pdf", "size": 99},
		},
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	msg, dialect, err := Parse("application/json; charset=utf-8", body)
	require.NoError(t, err)

	assert.Equal(t, DialectJSON, dialect)
	assert.Equal(t, "belege-acme@eingang.example.de", msg.To)
	assert.Equal(t, "siehe Anhang", msg.Body)
	require.Len(t, msg.Attachments, 2)
	assert.Equal(t, "beleg.pdf", msg.Attachments[0].Filename)
	assert.Equal(t, int64(len(pdf)), msg.Attachments[0].Size)
	assert.Equal(t, pdf, msg.Attachments[0].Content)
	assert.Equal(t, "attachment-3.pdf", msg.Attachments[1].Filename)
	assert.Equal(t, int64(99), msg.Attachments[1].Size)
}

func TestParse_JSONFallbackForUnknownContentType(t *testing.T) {
	msg, dialect, err := Parse("", []byte(`{"from":"a@b.de","to":"c@d.de"}`))
	require.NoError(t, err)
	assert.Equal(t, DialectJSON, dialect)
	assert.Equal(t, "a@b.de", msg.From)
	assert.Empty(t, msg.Attachments)
}

func TestParse_InvalidJSON(t *testing.T) {
	_, _, err := Parse("application/json", []byte("{not json"))
	assert.Error(t, err)
}

func TestParse_InvalidBase64(t *testing.T) {
	_, _, err := Parse("application/json", []byte(`{"attachments":[{"filename":"a.pdf","content":"***"}]}`))
	assert.ErrorContains(t, err, "decode attachment 0")
}

const rawMail = "From: Hausverwaltung <hv@example.com>\r\n" +
	"To: belege-acme@eingang.example.de\r\n" +
	"Subject: Rechnung 4711\r\n" +
	"MIME-Version: 1.0\r\n" +
	"Content-Type: multipart/mixed; boundary=BOUNDARY\r\n" +
	"\r\n" +
	"--BOUNDARY\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"\r\n" +
	"Bitte buchen.\r\n" +
	"--BOUNDARY\r\n" +
	"Content-Type: application/pdf\r\n" +
	"Content-Disposition: attachment; filename=\"rechnung-4711.pdf\"\r\n" +
	"Content-Transfer-Encoding: base64\r\n" +
	"\r\n" +
	"JVBERi0xLjQgdGVzdA==\r\n" +
	"--BOUNDARY\r\n" +
	"Content-Type: image/jpeg\r\n" +
	"Content-Disposition: attachment; filename=\"foto.jpg\"\r\n" +
	"\r\n" +
	"jpeg\r\n" +
	"--BOUNDARY--\r\n"

func TestParse_RawMIME(t *testing.T) {
	msg, dialect, err := Parse("message/rfc822", []byte(rawMail))
	require.NoError(t, err)

	assert.Equal(t, DialectMIME, dialect)
	assert.Equal(t, "hv@example.com", msg.From)
	assert.Equal(t, "belege-acme@eingang.example.de", msg.To)
	assert.Equal(t, "Rechnung 4711", msg.Subject)
	assert.Equal(t, "Bitte buchen.", strings.TrimSpace(msg.Body))
	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, "rechnung-4711.pdf", msg.Attachments[0].Filename)
	assert.Equal(t, []byte("%PDF-1.4 test"), msg.Attachments[0].Content)
}

func TestHTMLToText(t *testing.T) {
	got := htmlToText("<html><head><title>x</title><style>p{}</style></head><body><p>Zeile 1</p><p>Zeile   2</p></body></html>")
	assert.Equal(t, "Zeile 1\nZeile 2", got)
}
