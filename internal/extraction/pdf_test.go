package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPDFText_NotAPDF(t *testing.T) {
	text, err := PDFText([]byte("this is not a pdf"), 100)
	assert.Error(t, err)
	assert.Empty(t, text)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Grüß", truncate("Grüße", 4))
	assert.Equal(t, "kurz", truncate("kurz", 10))
	assert.Equal(t, "ohne Limit", truncate("ohne Limit", 0))
}

func TestSystemPrompt_WithoutText(t *testing.T) {
	p := systemPrompt(Input{Subject: "Rechnung", Sender: "a@b.de", Filename: "x.pdf"})
	assert.Contains(t, p, "anhand des Betreffs und Dateinamens")
	assert.NotContains(t, p, "Textinhalt")
}
