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

// ActivityLog is the database model for a free-form logged activity.
// Logs are complete the moment they are created; their only transitions are
// edit (details) and soft delete.
type ActivityLog struct {
	ID              int64      `db:"id"`
	OrganizationID  uuid.UUID  `db:"organization_id"`
	LeadID          int64      `db:"lead_id"`
	CompanyName     string     `db:"company_name"`
	ActivityType    string     `db:"activity_type"`
	Details         string     `db:"details"`
	DurationMinutes *int       `db:"duration_minutes"`
	CreatedBy       string     `db:"created_by"`
	CreatedAt       time.Time  `db:"created_at"`
	DeletedAt       *time.Time `db:"deleted_at"`
	DeleteReason    *string    `db:"delete_reason"`
}

const logNotFoundMsg = "activity log not found"

const logSelectCols = `
	a.id, a.organization_id, a.lead_id, l.company_name, a.activity_type, a.details,
	a.duration_minutes, a.created_by, a.created_at, a.deleted_at, a.delete_reason`

// CreateLogParams holds the fields for inserting a new activity log.
type CreateLogParams struct {
	OrganizationID  uuid.UUID
	LeadID          int64
	ActivityType    string
	Details         string
	DurationMinutes *int
	CreatedBy       string
}

// CreateLog inserts a new activity log and returns it with the lead's
// company name denormalized.
func (r *Repository) CreateLog(ctx context.Context, params CreateLogParams) (ActivityLog, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO activity_logs (organization_id, lead_id, activity_type, details, duration_minutes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, params.OrganizationID, params.LeadID, params.ActivityType, params.Details, params.DurationMinutes, params.CreatedBy).Scan(&id)
	if err != nil {
		return ActivityLog{}, fmt.Errorf("failed to create activity log: %w", err)
	}
	return r.GetLogByID(ctx, id, params.OrganizationID)
}

// GetLogByID retrieves an activity log by id, including soft-deleted rows.
func (r *Repository) GetLogByID(ctx context.Context, id int64, organizationID uuid.UUID) (ActivityLog, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT`+logSelectCols+`
		FROM activity_logs a
		JOIN leads l ON l.id = a.lead_id
		WHERE a.id = $1 AND a.organization_id = $2
	`, id, organizationID)

	log, err := scanLog(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ActivityLog{}, apperr.NotFound(logNotFoundMsg)
		}
		return ActivityLog{}, fmt.Errorf("failed to get activity log: %w", err)
	}
	return log, nil
}

// UpdateLogDetails replaces the details text of an active log.
// Returns NotFound when the log does not exist or is already deleted.
func (r *Repository) UpdateLogDetails(ctx context.Context, id int64, organizationID uuid.UUID, details string) (ActivityLog, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE activity_logs
		SET details = $3
		WHERE id = $1 AND organization_id = $2 AND deleted_at IS NULL
	`, id, organizationID, details)
	if err != nil {
		return ActivityLog{}, fmt.Errorf("failed to update activity log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ActivityLog{}, apperr.NotFound(logNotFoundMsg)
	}
	return r.GetLogByID(ctx, id, organizationID)
}

// SoftDeleteLog marks a log deleted with the given reason. The row is kept
// so the lead history can still show the deleted entry.
func (r *Repository) SoftDeleteLog(ctx context.Context, id int64, organizationID uuid.UUID, reason string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE activity_logs
		SET deleted_at = now(), delete_reason = $3
		WHERE id = $1 AND organization_id = $2 AND deleted_at IS NULL
	`, id, organizationID, reason)
	if err != nil {
		return fmt.Errorf("failed to delete activity log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(logNotFoundMsg)
	}
	return nil
}

// ListLogsForLead returns all logs for a lead, newest first, including
// soft-deleted rows so history views can render them as deleted events.
func (r *Repository) ListLogsForLead(ctx context.Context, leadID int64, organizationID uuid.UUID) ([]ActivityLog, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT`+logSelectCols+`
		FROM activity_logs a
		JOIN leads l ON l.id = a.lead_id
		WHERE a.lead_id = $1 AND a.organization_id = $2
		ORDER BY a.created_at DESC
	`, leadID, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity logs: %w", err)
	}
	defer rows.Close()

	items := make([]ActivityLog, 0)
	for rows.Next() {
		log, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, log)
	}
	return items, rows.Err()
}

// rowScanner is satisfied by pgx.Rows and pgx.Row so scan helpers can be
// shared between single-row and multi-row queries.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanLog(s rowScanner) (ActivityLog, error) {
	var log ActivityLog
	err := s.Scan(
		&log.ID, &log.OrganizationID, &log.LeadID, &log.CompanyName, &log.ActivityType,
		&log.Details, &log.DurationMinutes, &log.CreatedBy, &log.CreatedAt,
		&log.DeletedAt, &log.DeleteReason,
	)
	return log, err
}
