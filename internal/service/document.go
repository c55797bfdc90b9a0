package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hausmeister/internal/model"
	"hausmeister/internal/repository"
	"hausmeister/internal/storage"
)

var (
	ErrIDRequired = errors.New("id is required")
	ErrNotFound   = errors.New("document not found")
	ErrConflict   = errors.New("document was changed concurrently")
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
	downloadURLTTL   = 15 * time.Minute
)

// DocumentListQuery filters and pages a document listing.
type DocumentListQuery struct {
	CompanyID string
	Status    string
	Limit     int
	Offset    int
}

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items []model.Document `json:"data"`
	Total int              `json:"total"`
}

// BookInput carries the reviewer's corrections applied while booking.
type BookInput struct {
	BuildingID *string
	Amount     *float64
	Notes      *string
}

// DocumentService defines the use cases a reviewer has on documents.
type DocumentService interface {
	// List returns documents using limit/offset and a total count.
	List(ctx context.Context, q DocumentListQuery) (*DocumentListResult, error)

	// Get returns a single document by its ID.
	Get(ctx context.Context, id string) (*model.Document, error)

	// DownloadURL returns a short-lived link to the stored PDF.
	DownloadURL(ctx context.Context, id string) (string, error)

	// Book finalizes a processed or reviewed document.
	Book(ctx context.Context, id string, in BookInput) (*model.Document, error)

	// Delete removes a document by ID from both storage and repository.
	Delete(ctx context.Context, id string) error
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	store storage.Storage
	repo  repository.DocumentRepository
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(store storage.Storage, repo repository.DocumentRepository) DocumentService {
	return &documentService{store: store, repo: repo}
}

// List returns paginated documents without exposing repository types.
func (s *documentService) List(ctx context.Context, q DocumentListQuery) (*DocumentListResult, error) {
	limit, offset := q.Limit, q.Offset
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if offset < 0 {
		offset = 0
	}

	f := repository.DocumentFilter{CompanyID: q.CompanyID}
	if q.Status != "" {
		st, err := model.ParseDocumentStatus(q.Status)
		if err != nil {
			return nil, err
		}
		f.Status = st
	}

	res, err := s.repo.List(ctx, f, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &DocumentListResult{Items: res.Items, Total: res.Total}, nil
}

// Get returns a document by ID.
func (s *documentService) Get(ctx context.Context, id string) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

func (s *documentService) DownloadURL(ctx context.Context, id string) (string, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	u, err := s.store.PresignGet(ctx, doc.StoragePath, downloadURLTTL)
	if err != nil {
		return "", fmt.Errorf("presign: %w", err)
	}
	return u, nil
}

// Book moves the document to booked. Corrections in `in` are applied first
// and the result must carry an amount.
func (s *documentService) Book(ctx context.Context, id string, in BookInput) (*model.Document, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := model.Transition(doc.Status, model.StatusBooked); err != nil {
		return nil, err
	}

	candidate := *doc
	if in.Amount != nil {
		candidate.Amount = in.Amount
	}
	if err := candidate.ReadyToBook(); err != nil {
		return nil, err
	}

	err = s.repo.Book(ctx, id, doc.Status, model.BookingUpdate{
		BuildingID: in.BuildingID,
		Amount:     in.Amount,
		Notes:      in.Notes,
	})
	if err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes a document from storage, then deletes its record.
func (s *documentService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	// Storage first; if this fails the row keeps the reference to the object.
	if err := s.store.Delete(ctx, doc.StoragePath); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	return s.repo.Delete(ctx, id)
}
