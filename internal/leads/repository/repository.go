// Package repository provides PostgreSQL persistence for leads.
package repository

import (
	"context"
	"errors"
	"fmt"

	"salescrm_backend/internal/leads/domain"
	"salescrm_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides access to lead storage.
type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const leadNotFoundMsg = "lead not found"

const leadSelectCols = `
	id, organization_id, company_name, contact_name, email, phone,
	created_at, deleted_at, deleted_by`

// GetByID retrieves a lead by id, including soft-deleted rows so the
// recycle bin can show them.
func (r *Repository) GetByID(ctx context.Context, id int64, organizationID uuid.UUID) (domain.Lead, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT`+leadSelectCols+`
		FROM leads
		WHERE id = $1 AND organization_id = $2
	`, id, organizationID)

	lead, err := scanLead(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Lead{}, apperr.NotFound(leadNotFoundMsg)
		}
		return domain.Lead{}, fmt.Errorf("failed to get lead: %w", err)
	}
	return lead, nil
}

// SoftDelete moves a lead to the recycle bin. Returns Conflict when the
// lead is already there.
func (r *Repository) SoftDelete(ctx context.Context, id int64, organizationID uuid.UUID, deletedBy string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE leads
		SET deleted_at = now(), deleted_by = $3
		WHERE id = $1 AND organization_id = $2 AND deleted_at IS NULL
	`, id, organizationID, deletedBy)
	if err != nil {
		return fmt.Errorf("failed to delete lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id, organizationID); err != nil {
			return err
		}
		return apperr.Conflict("lead is already deleted")
	}
	return nil
}

// Restore brings a soft-deleted lead back. Returns Conflict when the lead
// is not in the recycle bin.
func (r *Repository) Restore(ctx context.Context, id int64, organizationID uuid.UUID) (domain.Lead, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE leads
		SET deleted_at = NULL, deleted_by = NULL
		WHERE id = $1 AND organization_id = $2 AND deleted_at IS NOT NULL
	`, id, organizationID)
	if err != nil {
		return domain.Lead{}, fmt.Errorf("failed to restore lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id, organizationID); err != nil {
			return domain.Lead{}, err
		}
		return domain.Lead{}, apperr.Conflict("lead is not deleted")
	}
	return r.GetByID(ctx, id, organizationID)
}

// ListDeleted returns recycle-bin leads, most recently deleted first.
func (r *Repository) ListDeleted(ctx context.Context, organizationID uuid.UUID) ([]domain.Lead, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT`+leadSelectCols+`
		FROM leads
		WHERE organization_id = $1 AND deleted_at IS NOT NULL
		ORDER BY deleted_at DESC
	`, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list deleted leads: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, lead)
	}
	return items, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(s rowScanner) (domain.Lead, error) {
	var lead domain.Lead
	err := s.Scan(
		&lead.ID, &lead.OrganizationID, &lead.CompanyName, &lead.ContactName,
		&lead.Email, &lead.Phone, &lead.CreatedAt, &lead.DeletedAt, &lead.DeletedBy,
	)
	return lead, err
}
