package repository

import (
	"context"

	"hausmeister/internal/model"
)

// TenantLookup resolves which company an inbound mail belongs to and
// whether its sender may deliver documents. It never writes.
type TenantLookup interface {
	// FindActiveInbox returns the active inbox registered for address.
	FindActiveInbox(ctx context.Context, address string) (*model.EmailInbox, error)

	// FindVerifiedSender returns the verified sender entry of a company.
	FindVerifiedSender(ctx context.Context, companyID, email string) (*model.VerifiedSender, error)
}
