package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"hausmeister/internal/model"
	"hausmeister/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentColumns = `id, company_id, building_id, task_id, sender_email, subject, file_url, file_name,
		storage_path, file_size_bytes, status, document_type, extracted_data, amount, vendor_name,
		invoice_date, invoice_number, notes, processed_at, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(s rowScanner) (*model.Document, error) {
	var (
		d         model.Document
		extracted []byte
	)
	if err := s.Scan(
		&d.ID,
		&d.CompanyID,
		&d.BuildingID,
		&d.TaskID,
		&d.SenderEmail,
		&d.Subject,
		&d.FileURL,
		&d.FileName,
		&d.StoragePath,
		&d.FileSizeBytes,
		&d.Status,
		&d.DocumentType,
		&extracted,
		&d.Amount,
		&d.VendorName,
		&d.InvoiceDate,
		&d.InvoiceNumber,
		&d.Notes,
		&d.ProcessedAt,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(extracted) > 0 {
		d.ExtractedData = extracted
	}
	return &d, nil
}

// Create inserts a new pending document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (id, company_id, sender_email, subject, file_url, file_name, storage_path, file_size_bytes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`
	out := *doc
	if err := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.CompanyID,
		doc.SenderEmail,
		doc.Subject,
		doc.FileURL,
		doc.FileName,
		doc.StoragePath,
		doc.FileSizeBytes,
		string(doc.Status),
	).Scan(&out.CreatedAt, &out.UpdatedAt); err != nil {
		return nil, fmt.Errorf("insert document: %w", err)
	}
	return &out, nil
}

// FindByID fetches a single document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	q := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	d, err := scanDocument(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

// List returns documents using LIMIT/OFFSET pagination and a total count.
func (r *DocumentPostgres) List(ctx context.Context, f repository.DocumentFilter, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	var (
		conds []string
		args  []any
	)
	if f.CompanyID != "" {
		args = append(args, f.CompanyID)
		conds = append(conds, fmt.Sprintf("company_id = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	qList := fmt.Sprintf(`SELECT %s FROM documents%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		documentColumns, where, len(args)+1, len(args)+2)
	rows, err := r.db.QueryContext(ctx, qList, append(args, pq.Limit, pq.Offset)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Document]{
		Items: items,
		Total: total,
	}, nil
}

// ApplyExtraction writes the extraction output. Nil fields keep their stored value.
func (r *DocumentPostgres) ApplyExtraction(ctx context.Context, id string, from model.DocumentStatus, upd model.ExtractionUpdate) error {
	const q = `
		UPDATE documents SET
			status = $3,
			vendor_name = COALESCE($4, vendor_name),
			amount = COALESCE($5, amount),
			invoice_date = COALESCE($6, invoice_date),
			invoice_number = COALESCE($7, invoice_number),
			document_type = COALESCE($8, document_type),
			extracted_data = COALESCE($9::jsonb, extracted_data),
			processed_at = COALESCE($10, processed_at),
			updated_at = now()
		WHERE id = $1 AND status = $2
	`
	res, err := r.db.ExecContext(ctx, q,
		id,
		string(from),
		string(upd.Status),
		upd.VendorName,
		upd.Amount,
		upd.InvoiceDate,
		upd.InvoiceNumber,
		upd.DocumentType,
		nullJSON(upd.ExtractedData),
		upd.ProcessedAt,
	)
	if err != nil {
		return fmt.Errorf("apply extraction: %w", err)
	}
	return expectOneRow(res)
}

// UpdateStatus moves a document from one status to another.
func (r *DocumentPostgres) UpdateStatus(ctx context.Context, id string, from, to model.DocumentStatus) error {
	const q = `UPDATE documents SET status = $3, updated_at = now() WHERE id = $1 AND status = $2`
	res, err := r.db.ExecContext(ctx, q, id, string(from), string(to))
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	return expectOneRow(res)
}

// Book marks a document booked together with the reviewer's corrections.
func (r *DocumentPostgres) Book(ctx context.Context, id string, from model.DocumentStatus, upd model.BookingUpdate) error {
	const q = `
		UPDATE documents SET
			status = $3,
			building_id = COALESCE($4, building_id),
			amount = COALESCE($5, amount),
			notes = COALESCE($6, notes),
			updated_at = now()
		WHERE id = $1 AND status = $2
	`
	res, err := r.db.ExecContext(ctx, q, id, string(from), string(model.StatusBooked), upd.BuildingID, upd.Amount, upd.Notes)
	if err != nil {
		return fmt.Errorf("book document: %w", err)
	}
	return expectOneRow(res)
}

// Delete removes a document by ID. It does not return an error if the row does not exist.
// Questions are removed by the foreign key cascade.
func (r *DocumentPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM documents WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrStatusConflict
	}
	return nil
}

func nullJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
