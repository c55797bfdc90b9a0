package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestObjectKey(t *testing.T) {
	now := time.UnixMilli(1767225600123)
	assert.Equal(t, "company-1/1767225600123-doc-1-invoice1.pdf", ObjectKey("company-1", "doc-1", "invoice1.pdf", now))
}

func TestObjectKey_DistinctDocumentsNeverShareAKey(t *testing.T) {
	now := time.UnixMilli(1772443800000)

	sameName := []string{
		ObjectKey("company-1", "doc-1", "Rechnung.pdf", now),
		ObjectKey("company-1", "doc-2", "Rechnung.pdf", now),
	}
	assert.NotEqual(t, sameName[0], sameName[1])

	sameSanitized := []string{
		ObjectKey("company-1", "doc-1", "Rechnung ä.pdf", now),
		ObjectKey("company-1", "doc-2", "Rechnung ü.pdf", now),
	}
	assert.Equal(t, SanitizeFilename("Rechnung ä.pdf"), SanitizeFilename("Rechnung ü.pdf"))
	assert.NotEqual(t, sameSanitized[0], sameSanitized[1])
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "invoice1.pdf", want: "invoice1.pdf"},
		{in: "Rechnung März 2026.pdf", want: "Rechnung_M_rz_2026.pdf"},
		{in: "../../etc/passwd", want: "passwd"},
		{in: `C:\Users\hv\beleg.pdf`, want: "beleg.pdf"},
		{in: "   ", want: "document.pdf"},
		{in: "..", want: "document.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.in))
		})
	}
}

func TestJoinURL(t *testing.T) {
	assert.Equal(t, "https://cdn.example.de/files/c1/1-a%20b.pdf", joinURL("https://cdn.example.de/files/", "c1/1-a b.pdf"))
}
