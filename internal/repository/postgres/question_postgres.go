package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"hausmeister/internal/model"
	"hausmeister/internal/repository"
)

// QuestionPostgres stores document questions.
type QuestionPostgres struct {
	db *sql.DB
}

func NewQuestionPostgres(db *sql.DB) *QuestionPostgres {
	return &QuestionPostgres{db: db}
}

var _ repository.QuestionRepository = (*QuestionPostgres)(nil)

const questionColumns = `id, document_id, company_id, question, question_type, suggested_answer,
		answer, answered_by, answered_at, status, created_at`

func scanQuestion(s rowScanner) (*model.DocumentQuestion, error) {
	var q model.DocumentQuestion
	if err := s.Scan(
		&q.ID,
		&q.DocumentID,
		&q.CompanyID,
		&q.Question,
		&q.QuestionType,
		&q.SuggestedAnswer,
		&q.Answer,
		&q.AnsweredBy,
		&q.AnsweredAt,
		&q.Status,
		&q.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &q, nil
}

// CreateQuestions inserts all questions of one document in a single transaction.
func (r *QuestionPostgres) CreateQuestions(ctx context.Context, qs []model.DocumentQuestion) error {
	if len(qs) == 0 {
		return nil
	}
	const q = `
		INSERT INTO document_questions (id, document_id, company_id, question, question_type, suggested_answer, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	for _, dq := range qs {
		if _, err := tx.ExecContext(ctx, q,
			dq.ID,
			dq.DocumentID,
			dq.CompanyID,
			dq.Question,
			dq.QuestionType,
			dq.SuggestedAnswer,
			string(dq.Status),
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert question: %w", err)
		}
	}
	return tx.Commit()
}

func (r *QuestionPostgres) FindByID(ctx context.Context, id string) (*model.DocumentQuestion, error) {
	q := `SELECT ` + questionColumns + ` FROM document_questions WHERE id = $1`
	dq, err := scanQuestion(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return dq, err
}

// ListByDocument returns the questions of a document in creation order.
func (r *QuestionPostgres) ListByDocument(ctx context.Context, documentID string) ([]model.DocumentQuestion, error) {
	q := `SELECT ` + questionColumns + ` FROM document_questions WHERE document_id = $1 ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, q, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.DocumentQuestion, 0)
	for rows.Next() {
		dq, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *dq)
	}
	return out, rows.Err()
}

func (r *QuestionPostgres) Answer(ctx context.Context, id, answer string, answeredBy *string) (*model.DocumentQuestion, error) {
	q := `
		UPDATE document_questions
		SET answer = $2, answered_by = $3, answered_at = now(), status = $4
		WHERE id = $1 AND status = $5
		RETURNING ` + questionColumns
	dq, err := scanQuestion(r.db.QueryRowContext(ctx, q, id, answer, answeredBy,
		string(model.QuestionAnswered), string(model.QuestionOpen)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrStatusConflict
	}
	return dq, err
}
