package extraction

import (
	"encoding/json"
	"fmt"
	"strings"
)

const toolName = "extract_invoice_data"

func systemPrompt(in Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, `Du bist ein Buchhalter-Assistent für Hausverwaltungen. Analysiere die folgenden E-Mail-Informationen und extrahiere Rechnungsdaten.

E-Mail-Betreff: %s
Absender: %s
Dateiname: %s
`, in.Subject, in.Sender, in.Filename)

	if in.Text != "" {
		fmt.Fprintf(&b, "\nTextinhalt der PDF (ggf. gekürzt):\n%s\n", in.Text)
		b.WriteString("\nBestimme folgende Informationen anhand des Textinhalts, Betreffs und Dateinamens:\n")
	} else {
		b.WriteString("\nBestimme folgende Informationen anhand des Betreffs und Dateinamens:\n")
	}
	b.WriteString(`- vendor_name: Name des Lieferanten/Dienstleisters
- amount: Rechnungsbetrag (nur Zahl)
- invoice_date: Rechnungsdatum (YYYY-MM-DD Format)
- invoice_number: Rechnungsnummer
- document_type: "invoice" | "receipt" | "contract" | "other"
- needs_review: true wenn Informationen unklar sind
- questions: Array von offenen Fragen [{question, type, suggestion}] falls Zuordnung unklar`)
	return b.String()
}

func userPrompt(in Input) string {
	return fmt.Sprintf("Analysiere diese Rechnung: Betreff=%q, Absender=%q, Datei=%q", in.Subject, in.Sender, in.Filename)
}

// toolSchema is the JSON schema of the forced tool call.
var toolSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "vendor_name": {"type": "string"},
    "amount": {"type": "number"},
    "invoice_date": {"type": "string"},
    "invoice_number": {"type": "string"},
    "document_type": {"type": "string", "enum": ["invoice", "receipt", "contract", "other"]},
    "needs_review": {"type": "boolean"},
    "questions": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "question": {"type": "string"},
          "type": {"type": "string"},
          "suggestion": {"type": "string"}
        },
        "required": ["question"]
      }
    },
    "extracted_data": {"type": "object", "description": "Additional extracted metadata"}
  },
  "required": ["document_type", "needs_review"],
  "additionalProperties": false
}`)
