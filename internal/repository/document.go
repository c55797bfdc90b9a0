package repository

import (
	"context"

	"hausmeister/internal/model"
)

// DocumentFilter narrows a document listing. Zero values match everything.
type DocumentFilter struct {
	CompanyID string
	Status    model.DocumentStatus
}

// DocumentReader is the read side of document persistence.
type DocumentReader interface {
	// FindByID returns ErrNotFound when no document has the given ID.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// List returns a page of documents, newest first, and the total count for the filter.
	List(ctx context.Context, f DocumentFilter, pq PageQuery) (*PageResult[model.Document], error)
}

// DocumentWriter is the write side used by the ingest pipeline.
// Status changes only apply while the row is still in status from;
// otherwise ErrStatusConflict is returned.
type DocumentWriter interface {
	// Create inserts a new document record. The caller provides the ID.
	// Returns the stored document including database timestamps.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// ApplyExtraction merges extraction output and moves the status.
	ApplyExtraction(ctx context.Context, id string, from model.DocumentStatus, upd model.ExtractionUpdate) error

	// UpdateStatus moves the status without touching other fields.
	UpdateStatus(ctx context.Context, id string, from, to model.DocumentStatus) error
}

// DocumentRepository is the full set of document operations.
type DocumentRepository interface {
	DocumentReader
	DocumentWriter

	// Book marks the document booked and applies manual corrections.
	Book(ctx context.Context, id string, from model.DocumentStatus, upd model.BookingUpdate) error

	// Delete removes a document by ID. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id string) error
}
