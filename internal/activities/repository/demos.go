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

// Demo is the database model for a scheduled product demo.
// Native status vocabulary: Scheduled, Completed, Canceled.
type Demo struct {
	ID              int64      `db:"id"`
	OrganizationID  uuid.UUID  `db:"organization_id"`
	LeadID          int64      `db:"lead_id"`
	CompanyName     string     `db:"company_name"`
	ActivityType    string     `db:"activity_type"`
	Agenda          string     `db:"agenda"`
	StartTime       time.Time  `db:"start_time"`
	Status          string     `db:"status"`
	OutcomeNotes    *string    `db:"outcome_notes"`
	DurationMinutes *int       `db:"duration_minutes"`
	CompletedAt     *time.Time `db:"completed_at"`
	CancelReason    *string    `db:"cancel_reason"`
	UpdatedBy       *string    `db:"updated_by"`
	CreatedBy       string     `db:"created_by"`
	CreatedAt       time.Time  `db:"created_at"`
}

const demoNotFoundMsg = "demo not found"

const demoSelectCols = `
	d.id, d.organization_id, d.lead_id, l.company_name, d.activity_type, d.agenda,
	d.start_time, d.status, d.outcome_notes, d.duration_minutes, d.completed_at,
	d.cancel_reason, d.updated_by, d.created_by, d.created_at`

// CreateDemoParams holds the fields for scheduling a new demo.
type CreateDemoParams struct {
	OrganizationID uuid.UUID
	LeadID         int64
	ActivityType   string
	Agenda         string
	StartTime      time.Time
	CreatedBy      string
}

// CreateDemo inserts a new scheduled demo.
func (r *Repository) CreateDemo(ctx context.Context, params CreateDemoParams) (Demo, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO demos (organization_id, lead_id, activity_type, agenda, start_time, status, created_by)
		VALUES ($1, $2, $3, $4, $5, 'Scheduled', $6)
		RETURNING id
	`, params.OrganizationID, params.LeadID, params.ActivityType, params.Agenda, params.StartTime, params.CreatedBy).Scan(&id)
	if err != nil {
		return Demo{}, fmt.Errorf("failed to create demo: %w", err)
	}
	return r.GetDemoByID(ctx, id, params.OrganizationID)
}

// GetDemoByID retrieves a demo by id regardless of status.
func (r *Repository) GetDemoByID(ctx context.Context, id int64, organizationID uuid.UUID) (Demo, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT`+demoSelectCols+`
		FROM demos d
		JOIN leads l ON l.id = d.lead_id
		WHERE d.id = $1 AND d.organization_id = $2
	`, id, organizationID)

	demo, err := scanDemo(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Demo{}, apperr.NotFound(demoNotFoundMsg)
		}
		return Demo{}, fmt.Errorf("failed to get demo: %w", err)
	}
	return demo, nil
}

// CompleteDemo transitions a scheduled demo to Completed, recording the
// outcome. Single-shot via the status guard.
func (r *Repository) CompleteDemo(ctx context.Context, id int64, organizationID uuid.UUID, params CompleteEventParams) (Demo, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE demos
		SET status = 'Completed', outcome_notes = $3, duration_minutes = $4, completed_at = $5, updated_by = $6
		WHERE id = $1 AND organization_id = $2 AND status = 'Scheduled'
	`, id, organizationID, params.OutcomeNotes, params.DurationMinutes, params.CompletedAt, params.CompletedBy)
	if err != nil {
		return Demo{}, fmt.Errorf("failed to complete demo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetDemoByID(ctx, id, organizationID); err != nil {
			return Demo{}, err
		}
		return Demo{}, apperr.Conflict("demo is not scheduled")
	}
	return r.GetDemoByID(ctx, id, organizationID)
}

// CancelDemo transitions a scheduled demo to Canceled with the tagged reason.
func (r *Repository) CancelDemo(ctx context.Context, id int64, organizationID uuid.UUID, reason, updatedBy string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE demos
		SET status = 'Canceled', cancel_reason = $3, updated_by = $4
		WHERE id = $1 AND organization_id = $2 AND status = 'Scheduled'
	`, id, organizationID, reason, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to cancel demo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetDemoByID(ctx, id, organizationID); err != nil {
			return err
		}
		return apperr.Conflict("demo is not scheduled")
	}
	return nil
}

// ListDemosForLead returns all demos for a lead, newest start time first.
func (r *Repository) ListDemosForLead(ctx context.Context, leadID int64, organizationID uuid.UUID) ([]Demo, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT`+demoSelectCols+`
		FROM demos d
		JOIN leads l ON l.id = d.lead_id
		WHERE d.lead_id = $1 AND d.organization_id = $2
		ORDER BY d.start_time DESC
	`, leadID, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list demos: %w", err)
	}
	defer rows.Close()

	items := make([]Demo, 0)
	for rows.Next() {
		demo, err := scanDemo(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, demo)
	}
	return items, rows.Err()
}

func scanDemo(s rowScanner) (Demo, error) {
	var demo Demo
	err := s.Scan(
		&demo.ID, &demo.OrganizationID, &demo.LeadID, &demo.CompanyName,
		&demo.ActivityType, &demo.Agenda, &demo.StartTime, &demo.Status,
		&demo.OutcomeNotes, &demo.DurationMinutes, &demo.CompletedAt,
		&demo.CancelReason, &demo.UpdatedBy, &demo.CreatedBy, &demo.CreatedAt,
	)
	return demo, err
}
