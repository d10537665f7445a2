// Package domain defines the lead model for the supporting leads context.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Lead is a sales prospect. Deletion is always soft: the row moves to the
// recycle bin and its activity history stays intact and addressable.
type Lead struct {
	ID             int64      `json:"id"`
	OrganizationID uuid.UUID  `json:"-"`
	CompanyName    string     `json:"companyName"`
	ContactName    *string    `json:"contactName,omitempty"`
	Email          *string    `json:"email,omitempty"`
	Phone          *string    `json:"phone,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	DeletedAt      *time.Time `json:"deletedAt,omitempty"`
	DeletedBy      *string    `json:"deletedBy,omitempty"`
}

// Deleted reports whether the lead is in the recycle bin.
func (l Lead) Deleted() bool {
	return l.DeletedAt != nil
}
