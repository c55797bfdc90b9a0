// Package extraction reads invoice data out of an ingested document with an
// LLM behind an OpenAI-compatible chat completions endpoint.
package extraction

import (
	"context"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// Extractor is the invoice data extraction capability. A nil Extractor
// means extraction is not configured.
type Extractor interface {
	Extract(ctx context.Context, in Input) (*Result, error)
}

// Input is what the model gets to see about one attachment.
type Input struct {
	Subject  string
	Sender   string
	Filename string
	// Text is the PDF text layer, possibly truncated. Empty for scanned files.
	Text string
}

// Question is an open point the model could not decide on its own.
type Question struct {
	Question   string `json:"question"`
	Type       string `json:"type,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Result mirrors the arguments of the extract_invoice_data tool call.
type Result struct {
	VendorName    *string        `json:"vendor_name,omitempty"`
	Amount        *Amount        `json:"amount,omitempty"`
	InvoiceDate   *string        `json:"invoice_date,omitempty"`
	InvoiceNumber *string        `json:"invoice_number,omitempty"`
	DocumentType  string         `json:"document_type"`
	NeedsReview   bool           `json:"needs_review"`
	Questions     []Question     `json:"questions,omitempty"`
	ExtractedData map[string]any `json:"extracted_data,omitempty"`
}

// Amount is a monetary value that also accepts numeric strings such as
// "119,00", which models occasionally return despite the schema.
type Amount float64

func (a *Amount) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*a = Amount(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	f, err := parseDecimal(s)
	if err != nil {
		return err
	}
	*a = Amount(f)
	return nil
}

// thousandsOnly matches German grouping without decimals, e.g. "1.234" or "12.345.678".
var thousandsOnly = regexp.MustCompile(`^-?[1-9]\d{0,2}(\.\d{3})+$`)

// parseDecimal accepts "1234.56", "1234,56", "1.234,56" and "1.234".
func parseDecimal(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "€"))
	switch {
	case strings.Contains(s, ","):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case thousandsOnly.MatchString(s):
		s = strings.ReplaceAll(s, ".", "")
	}
	return strconv.ParseFloat(s, 64)
}

// Float returns the amount as *float64, nil when absent.
func (a *Amount) Float() *float64 {
	if a == nil {
		return nil
	}
	f := float64(*a)
	return &f
}
