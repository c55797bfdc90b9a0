package model

import "time"

// QuestionStatus is the state of a DocumentQuestion.
type QuestionStatus string

const (
	QuestionOpen     QuestionStatus = "open"
	QuestionAnswered QuestionStatus = "answered"
)

// QuestionTypeAssignment is used when the type is not otherwise known.
const QuestionTypeAssignment = "assignment"

// DocumentQuestion is an open point a human has to resolve for a document.
type DocumentQuestion struct {
	ID              string         `json:"id"`
	DocumentID      string         `json:"document_id"`
	CompanyID       string         `json:"company_id"`
	Question        string         `json:"question"`
	QuestionType    string         `json:"question_type"`
	SuggestedAnswer *string        `json:"suggested_answer,omitempty"`
	Answer          *string        `json:"answer,omitempty"`
	AnsweredBy      *string        `json:"answered_by,omitempty"`
	AnsweredAt      *time.Time     `json:"answered_at,omitempty"`
	Status          QuestionStatus `json:"status"`
	CreatedAt       time.Time      `json:"created_at"`
}
