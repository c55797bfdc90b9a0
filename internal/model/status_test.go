package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    DocumentStatus
		to      DocumentStatus
		wantErr error
	}{
		{name: "pending to processed", from: StatusPending, to: StatusProcessed},
		{name: "pending to needs_review", from: StatusPending, to: StatusNeedsReview},
		{name: "processed to booked", from: StatusProcessed, to: StatusBooked},
		{name: "needs_review to booked", from: StatusNeedsReview, to: StatusBooked},
		{name: "pending cannot skip to booked", from: StatusPending, to: StatusBooked, wantErr: ErrIllegalTransition},
		{name: "processed cannot go back", from: StatusProcessed, to: StatusPending, wantErr: ErrIllegalTransition},
		{name: "booked is terminal", from: StatusBooked, to: StatusNeedsReview, wantErr: ErrIllegalTransition},
		{name: "no self loop", from: StatusProcessed, to: StatusProcessed, wantErr: ErrIllegalTransition},
		{name: "needs_review does not flip to processed", from: StatusNeedsReview, to: StatusProcessed, wantErr: ErrIllegalTransition},
		{name: "unknown source", from: "archived", to: StatusBooked, wantErr: ErrUnknownStatus},
		{name: "unknown target", from: StatusPending, to: "done", wantErr: ErrUnknownStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Transition(tt.from, tt.to)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseDocumentStatus(t *testing.T) {
	st, err := ParseDocumentStatus("needs_review")
	assert.NoError(t, err)
	assert.Equal(t, StatusNeedsReview, st)

	_, err = ParseDocumentStatus("NEEDS_REVIEW")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestDocumentStatus_Terminal(t *testing.T) {
	assert.True(t, StatusBooked.Terminal())
	assert.False(t, StatusPending.Terminal())
}

func TestTransition_FromFinalStatus(t *testing.T) {
	for _, to := range []DocumentStatus{StatusPending, StatusProcessed, StatusNeedsReview, StatusBooked} {
		err := Transition(StatusBooked, to)
		assert.ErrorIs(t, err, ErrIllegalTransition, string(to))
		assert.ErrorContains(t, err, "booked is final")
	}
}

func TestDocument_ReadyToBook(t *testing.T) {
	d := &Document{}
	assert.ErrorIs(t, d.ReadyToBook(), ErrAmountRequired)

	amount := 12.5
	d.Amount = &amount
	assert.NoError(t, d.ReadyToBook())
}
