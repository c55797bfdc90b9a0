package model

import "time"

// EmailInbox is the receiving address a company hands to its vendors.
type EmailInbox struct {
	ID           string    `json:"id" db:"id"`
	CompanyID    string    `json:"company_id" db:"company_id"`
	EmailAddress string    `json:"email_address" db:"email_address"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// VerifiedSender is an address allowed to deliver documents to a company.
type VerifiedSender struct {
	ID         string     `json:"id" db:"id"`
	CompanyID  string     `json:"company_id" db:"company_id"`
	Email      string     `json:"email" db:"email"`
	IsVerified bool       `json:"is_verified" db:"is_verified"`
	VerifiedAt *time.Time `json:"verified_at,omitempty" db:"verified_at"`
	AddedBy    *string    `json:"added_by,omitempty" db:"added_by"`
}
