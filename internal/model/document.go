package model

import (
	"encoding/json"
	"errors"
	"time"
)

// ErrAmountRequired is returned when a document without an amount is booked.
var ErrAmountRequired = errors.New("amount is required before booking")

// Document is an ingested receipt or invoice file together with the data
// extracted from it. Optional columns are pointers so that "not extracted"
// and "zero" stay distinguishable.
type Document struct {
	ID            string          `json:"id"`
	CompanyID     string          `json:"company_id"`
	BuildingID    *string         `json:"building_id,omitempty"`
	TaskID        *string         `json:"task_id,omitempty"`
	SenderEmail   string          `json:"sender_email"`
	Subject       *string         `json:"subject,omitempty"`
	FileURL       string          `json:"file_url"`
	FileName      string          `json:"file_name"`
	StoragePath   string          `json:"storage_path"`
	FileSizeBytes *int64          `json:"file_size_bytes,omitempty"`
	Status        DocumentStatus  `json:"status"`
	DocumentType  *string         `json:"document_type,omitempty"`
	ExtractedData json.RawMessage `json:"extracted_data,omitempty"`
	Amount        *float64        `json:"amount,omitempty"`
	VendorName    *string         `json:"vendor_name,omitempty"`
	InvoiceDate   *time.Time      `json:"invoice_date,omitempty"`
	InvoiceNumber *string         `json:"invoice_number,omitempty"`
	Notes         *string         `json:"notes,omitempty"`
	ProcessedAt   *time.Time      `json:"processed_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ReadyToBook checks the fields a human must have filled in before the
// document can be booked.
func (d *Document) ReadyToBook() error {
	if d.Amount == nil {
		return ErrAmountRequired
	}
	return nil
}

// ExtractionUpdate carries the fields produced by automatic extraction.
// Nil fields leave the stored value untouched.
type ExtractionUpdate struct {
	Status        DocumentStatus
	VendorName    *string
	Amount        *float64
	InvoiceDate   *time.Time
	InvoiceNumber *string
	DocumentType  *string
	ExtractedData json.RawMessage
	ProcessedAt   *time.Time
}

// BookingUpdate carries the manual corrections applied when booking.
type BookingUpdate struct {
	BuildingID *string
	Amount     *float64
	Notes      *string
}
