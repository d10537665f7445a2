package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"salescrm_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// LeadRef is the minimal lead projection the activities context needs: an
// existence check and the denormalized company name for feed rendering.
type LeadRef struct {
	ID          int64      `db:"id"`
	CompanyName string     `db:"company_name"`
	DeletedAt   *time.Time `db:"deleted_at"`
}

// GetLeadRef looks up a lead by id within the organization. Soft-deleted
// leads are returned with DeletedAt set so callers can decide whether a
// recycle-bin lead is acceptable for the operation.
func (r *Repository) GetLeadRef(ctx context.Context, leadID int64, organizationID uuid.UUID) (LeadRef, error) {
	var ref LeadRef
	err := r.pool.QueryRow(ctx, `
		SELECT id, company_name, deleted_at
		FROM leads
		WHERE id = $1 AND organization_id = $2
	`, leadID, organizationID).Scan(&ref.ID, &ref.CompanyName, &ref.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return LeadRef{}, apperr.NotFound("lead not found")
		}
		return LeadRef{}, fmt.Errorf("failed to get lead: %w", err)
	}
	return ref, nil
}
