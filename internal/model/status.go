package model

import (
	"errors"
	"fmt"
)

// DocumentStatus is the lifecycle state of a Document.
type DocumentStatus string

const (
	StatusPending     DocumentStatus = "pending"
	StatusProcessed   DocumentStatus = "processed"
	StatusNeedsReview DocumentStatus = "needs_review"
	StatusBooked      DocumentStatus = "booked"
)

var (
	ErrUnknownStatus     = errors.New("unknown document status")
	ErrIllegalTransition = errors.New("illegal document status transition")
)

// transitions lists every legal move. Status only moves forward:
// pending -> {processed | needs_review} -> booked.
var transitions = map[DocumentStatus][]DocumentStatus{
	StatusPending:     {StatusProcessed, StatusNeedsReview},
	StatusProcessed:   {StatusBooked},
	StatusNeedsReview: {StatusBooked},
}

// ParseDocumentStatus converts a stored or user-supplied string into a status.
func ParseDocumentStatus(s string) (DocumentStatus, error) {
	st := DocumentStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return st, nil
}

// Valid reports whether s is one of the known statuses.
func (s DocumentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessed, StatusNeedsReview, StatusBooked:
		return true
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s DocumentStatus) Terminal() bool {
	return s == StatusBooked
}

// Transition validates a move from one status to another.
func Transition(from, to DocumentStatus) error {
	if !from.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, from)
	}
	if !to.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, to)
	}
	if from.Terminal() {
		return fmt.Errorf("%w: %s is final", ErrIllegalTransition, from)
	}
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, to)
}
