package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"hausmeister/internal/extraction"
	"hausmeister/internal/inbound"
	"hausmeister/internal/metrics"
	"hausmeister/internal/model"
	"hausmeister/internal/repository"
	"hausmeister/internal/storage"
)

var (
	ErrInboxNotFound     = errors.New("inbox not found")
	ErrSenderNotVerified = errors.New("sender not verified")
)

// Fallback questions recorded when no automatic extraction result exists.
const (
	QuestionExtractionFailed = "Die automatische Erkennung ist fehlgeschlagen. Bitte ordne diesen Beleg manuell zu."
	QuestionManualAssignment = "Bitte ordne diesen Beleg einem Objekt zu und gib den Betrag an."
)

const pdfContentType = "application/pdf"

var tracer = otel.Tracer("hausmeister/service")

// IngestedDocument identifies one document created from an email.
type IngestedDocument struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
}

// IngestResult lists the documents created, in attachment order.
type IngestResult struct {
	Documents []IngestedDocument
}

// Processed is the number of documents created.
func (r *IngestResult) Processed() int {
	return len(r.Documents)
}

// Ingester turns an authorized inbound email into documents.
type Ingester interface {
	Ingest(ctx context.Context, msg *inbound.Message) (*IngestResult, error)
}

// IngestDeps are the collaborators of the ingest pipeline. Extractor may be
// nil, in which case every document goes to manual review.
type IngestDeps struct {
	Tenants      repository.TenantLookup
	Documents    repository.DocumentWriter
	Questions    repository.QuestionWriter
	Store        storage.Storage
	Extractor    extraction.Extractor
	Metrics      *metrics.Ingest
	Logger       *slog.Logger
	PDFTextLimit int
	Now          func() time.Time
	NewID        func() string
}

type ingestService struct {
	IngestDeps
}

// NewIngestService constructs the ingest pipeline.
func NewIngestService(d IngestDeps) Ingester {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.NewID == nil {
		d.NewID = uuid.NewString
	}
	return &ingestService{IngestDeps: d}
}

// Ingest authorizes the email and then handles its attachments one after
// another. A failing attachment is logged and skipped; it never fails the
// email as a whole.
func (s *ingestService) Ingest(ctx context.Context, msg *inbound.Message) (*IngestResult, error) {
	ctx, span := tracer.Start(ctx, "ingest.email")
	defer span.End()
	span.SetAttributes(
		attribute.String("email.to", msg.To),
		attribute.Int("email.attachments", len(msg.Attachments)),
	)

	inbox, err := s.Tenants.FindActiveInbox(ctx, msg.To)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.Metrics.Email(metrics.OutcomeInboxNotFound)
			s.Logger.WarnContext(ctx, "inbound email for unknown inbox", "to", msg.To)
			return nil, ErrInboxNotFound
		}
		s.fail(span, err)
		return nil, fmt.Errorf("lookup inbox: %w", err)
	}
	span.SetAttributes(attribute.String("company.id", inbox.CompanyID))

	if _, err := s.Tenants.FindVerifiedSender(ctx, inbox.CompanyID, msg.From); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.Metrics.Email(metrics.OutcomeSenderUnverified)
			s.Logger.WarnContext(ctx, "inbound email from unverified sender",
				"company_id", inbox.CompanyID, "from", msg.From)
			return nil, ErrSenderNotVerified
		}
		s.fail(span, err)
		return nil, fmt.Errorf("lookup sender: %w", err)
	}

	res := &IngestResult{Documents: make([]IngestedDocument, 0, len(msg.Attachments))}
	for i := range msg.Attachments {
		a := &msg.Attachments[i]
		doc, ok := s.ingestAttachment(ctx, inbox.CompanyID, msg, a)
		if !ok {
			continue
		}
		res.Documents = append(res.Documents, IngestedDocument{ID: doc.ID, Filename: a.Filename})
	}

	s.Metrics.Email(metrics.OutcomeAccepted)
	s.Logger.InfoContext(ctx, "inbound email processed",
		"company_id", inbox.CompanyID,
		"from", msg.From,
		"attachments", len(msg.Attachments),
		"processed", res.Processed(),
	)
	return res, nil
}

func (s *ingestService) fail(span trace.Span, err error) {
	s.Metrics.Email(metrics.OutcomeError)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// ingestAttachment stores one PDF, records it as pending and resolves its
// status. ok is false when no document record exists.
func (s *ingestService) ingestAttachment(ctx context.Context, companyID string, msg *inbound.Message, a *inbound.Attachment) (*model.Document, bool) {
	ctx, span := tracer.Start(ctx, "ingest.attachment")
	defer span.End()
	span.SetAttributes(
		attribute.String("attachment.filename", a.Filename),
		attribute.Int64("attachment.size", a.Size),
	)
	log := s.Logger.With("company_id", companyID, "filename", a.Filename)

	docID := s.NewID()
	key := storage.ObjectKey(companyID, docID, a.Filename, s.Now())
	if _, err := s.Store.Put(ctx, key, bytes.NewReader(a.Content), storage.PutObjectOptions{
		Size:        int64(len(a.Content)),
		ContentType: pdfContentType,
		Metadata:    map[string]string{"original-filename": a.Filename},
	}); err != nil {
		s.Metrics.Skipped(metrics.SkipUpload)
		span.RecordError(err)
		log.ErrorContext(ctx, "attachment upload failed, skipping", "key", key, "error", err)
		return nil, false
	}

	subject := msg.Subject
	size := a.Size
	doc, err := s.Documents.Create(ctx, &model.Document{
		ID:            docID,
		CompanyID:     companyID,
		SenderEmail:   msg.From,
		Subject:       &subject,
		FileURL:       s.Store.PublicURL(key),
		FileName:      a.Filename,
		StoragePath:   key,
		FileSizeBytes: &size,
		Status:        model.StatusPending,
	})
	if err != nil {
		s.Metrics.Skipped(metrics.SkipInsert)
		span.RecordError(err)
		log.ErrorContext(ctx, "document insert failed, skipping", "error", err)
		if delErr := s.Store.Delete(ctx, key); delErr != nil {
			log.ErrorContext(ctx, "rollback of stored attachment failed", "key", key, "error", delErr)
		}
		return nil, false
	}
	span.SetAttributes(attribute.String("document.id", doc.ID))

	status := s.resolve(ctx, log.With("document_id", doc.ID), companyID, doc.ID, msg, a)
	s.Metrics.Document(string(status))
	return doc, true
}

// resolve moves a pending document to processed or needs_review. A result
// that cannot be written sends the document to review instead. If even that
// write fails the document stays pending.
func (s *ingestService) resolve(ctx context.Context, log *slog.Logger, companyID, docID string, msg *inbound.Message, a *inbound.Attachment) model.DocumentStatus {
	if s.Extractor == nil {
		return s.fallback(ctx, log, companyID, docID, QuestionManualAssignment)
	}

	in := extraction.Input{Subject: msg.Subject, Sender: msg.From, Filename: a.Filename}
	if text, err := extraction.PDFText(a.Content, s.PDFTextLimit); err != nil {
		log.DebugContext(ctx, "no pdf text layer", "error", err)
	} else {
		in.Text = text
	}

	start := s.Now()
	res, err := s.Extractor.Extract(ctx, in)
	s.Metrics.Extraction(s.Now().Sub(start), err != nil)
	if err != nil {
		log.WarnContext(ctx, "extraction failed, routing to review", "error", err)
		return s.fallback(ctx, log, companyID, docID, QuestionExtractionFailed)
	}

	upd := s.extractionUpdate(ctx, log, res)
	if err := s.Documents.ApplyExtraction(ctx, docID, model.StatusPending, upd); err != nil {
		log.ErrorContext(ctx, "apply extraction failed, routing to review", "error", err)
		return s.fallback(ctx, log, companyID, docID, QuestionExtractionFailed)
	}

	questions := make([]model.DocumentQuestion, 0, len(res.Questions))
	for _, q := range res.Questions {
		if strings.TrimSpace(q.Question) == "" {
			continue
		}
		questions = append(questions, newQuestion(docID, companyID, q.Question, q.Type, q.Suggestion))
	}
	if len(questions) > 0 {
		if err := s.Questions.CreateQuestions(ctx, questions); err != nil {
			log.ErrorContext(ctx, "recording extraction questions failed", "error", err)
		}
	}
	return upd.Status
}

func (s *ingestService) fallback(ctx context.Context, log *slog.Logger, companyID, docID, question string) model.DocumentStatus {
	if err := s.Documents.UpdateStatus(ctx, docID, model.StatusPending, model.StatusNeedsReview); err != nil {
		log.ErrorContext(ctx, "marking document for review failed", "error", err)
		return model.StatusPending
	}
	if err := s.Questions.CreateQuestions(ctx, []model.DocumentQuestion{
		newQuestion(docID, companyID, question, model.QuestionTypeAssignment, ""),
	}); err != nil {
		log.ErrorContext(ctx, "recording review question failed", "error", err)
	}
	return model.StatusNeedsReview
}

// extractionUpdate keeps only the fields the model actually filled in.
func (s *ingestService) extractionUpdate(ctx context.Context, log *slog.Logger, res *extraction.Result) model.ExtractionUpdate {
	now := s.Now().UTC()
	upd := model.ExtractionUpdate{
		Status:        model.StatusProcessed,
		VendorName:    nonEmpty(res.VendorName),
		InvoiceNumber: nonEmpty(res.InvoiceNumber),
		ProcessedAt:   &now,
	}
	if res.NeedsReview {
		upd.Status = model.StatusNeedsReview
	}
	if amount := res.Amount.Float(); amount != nil && *amount != 0 {
		upd.Amount = amount
	}
	if d := nonEmpty(res.InvoiceDate); d != nil {
		if t, err := time.Parse(time.DateOnly, *d); err == nil {
			upd.InvoiceDate = &t
		} else {
			log.WarnContext(ctx, "ignoring unparsable invoice date", "invoice_date", *d)
		}
	}
	if res.DocumentType != "" {
		dt := res.DocumentType
		upd.DocumentType = &dt
	}
	if res.ExtractedData != nil {
		if raw, err := json.Marshal(res.ExtractedData); err == nil {
			upd.ExtractedData = raw
		}
	}
	return upd
}

func newQuestion(documentID, companyID, text, qType, suggestion string) model.DocumentQuestion {
	if qType == "" {
		qType = model.QuestionTypeAssignment
	}
	q := model.DocumentQuestion{
		ID:           uuid.NewString(),
		DocumentID:   documentID,
		CompanyID:    companyID,
		Question:     text,
		QuestionType: qType,
		Status:       model.QuestionOpen,
	}
	if suggestion != "" {
		q.SuggestedAnswer = &suggestion
	}
	return q
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
