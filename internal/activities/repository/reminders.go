package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"salescrm_backend/internal/activities/domain"
	"salescrm_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Reminder is the database model for a scheduled reminder.
// Native status vocabulary: Pending, Completed, Canceled.
type Reminder struct {
	ID              int64      `db:"id"`
	OrganizationID  uuid.UUID  `db:"organization_id"`
	LeadID          int64      `db:"lead_id"`
	CompanyName     string     `db:"company_name"`
	ActivityType    string     `db:"activity_type"`
	Message         string     `db:"message"`
	RemindTime      time.Time  `db:"remind_time"`
	Status          string     `db:"status"`
	Visibility      string     `db:"visibility"`
	OutcomeNotes    *string    `db:"outcome_notes"`
	DurationMinutes *int       `db:"duration_minutes"`
	CompletedAt     *time.Time `db:"completed_at"`
	CompletedBy     *string    `db:"completed_by"`
	CreatedBy       string     `db:"created_by"`
	CreatedAt       time.Time  `db:"created_at"`
}

const reminderNotFoundMsg = "reminder not found"

const reminderSelectCols = `
	r.id, r.organization_id, r.lead_id, l.company_name, r.activity_type, r.message,
	r.remind_time, r.status, r.visibility, r.outcome_notes, r.duration_minutes,
	r.completed_at, r.completed_by, r.created_by, r.created_at`

// CreateReminderParams holds the fields for scheduling a new reminder.
type CreateReminderParams struct {
	OrganizationID uuid.UUID
	LeadID         int64
	ActivityType   string
	Message        string
	RemindTime     time.Time
	CreatedBy      string
}

// CreateReminder inserts a new pending reminder.
func (r *Repository) CreateReminder(ctx context.Context, params CreateReminderParams) (Reminder, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO reminders (organization_id, lead_id, activity_type, message, remind_time, status, visibility, created_by)
		VALUES ($1, $2, $3, $4, $5, 'Pending', $6, $7)
		RETURNING id
	`, params.OrganizationID, params.LeadID, params.ActivityType, params.Message, params.RemindTime,
		string(domain.VisibilityVisible), params.CreatedBy).Scan(&id)
	if err != nil {
		return Reminder{}, fmt.Errorf("failed to create reminder: %w", err)
	}
	return r.GetReminderByID(ctx, id, params.OrganizationID)
}

// GetReminderByID retrieves a reminder by id regardless of status.
func (r *Repository) GetReminderByID(ctx context.Context, id int64, organizationID uuid.UUID) (Reminder, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT`+reminderSelectCols+`
		FROM reminders r
		JOIN leads l ON l.id = r.lead_id
		WHERE r.id = $1 AND r.organization_id = $2
	`, id, organizationID)

	reminder, err := scanReminder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Reminder{}, apperr.NotFound(reminderNotFoundMsg)
		}
		return Reminder{}, fmt.Errorf("failed to get reminder: %w", err)
	}
	return reminder, nil
}

// CompleteReminderParams holds the outcome recorded when a reminder is done.
type CompleteReminderParams struct {
	OutcomeNotes    string
	CompletedBy     string
	DurationMinutes int
	CompletedAt     time.Time
}

// CompleteReminder transitions a pending reminder to Completed, recording
// the outcome. The status guard in the WHERE clause makes the transition
// single-shot even under concurrent submission.
func (r *Repository) CompleteReminder(ctx context.Context, id int64, organizationID uuid.UUID, params CompleteReminderParams) (Reminder, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE reminders
		SET status = 'Completed', outcome_notes = $3, completed_by = $4, duration_minutes = $5, completed_at = $6
		WHERE id = $1 AND organization_id = $2 AND status = 'Pending'
	`, id, organizationID, params.OutcomeNotes, params.CompletedBy, params.DurationMinutes, params.CompletedAt)
	if err != nil {
		return Reminder{}, fmt.Errorf("failed to complete reminder: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Either gone or already terminal; Get distinguishes the two.
		if _, err := r.GetReminderByID(ctx, id, organizationID); err != nil {
			return Reminder{}, err
		}
		return Reminder{}, apperr.Conflict("reminder is not pending")
	}
	return r.GetReminderByID(ctx, id, organizationID)
}

// CancelReminder transitions a pending reminder to Canceled.
func (r *Repository) CancelReminder(ctx context.Context, id int64, organizationID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE reminders
		SET status = 'Canceled'
		WHERE id = $1 AND organization_id = $2 AND status = 'Pending'
	`, id, organizationID)
	if err != nil {
		return fmt.Errorf("failed to cancel reminder: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetReminderByID(ctx, id, organizationID); err != nil {
			return err
		}
		return apperr.Conflict("reminder is not pending")
	}
	return nil
}

// HideReminderFromLog marks a reminder hidden so the per-lead timeline does
// not show it alongside the merged completion it was absorbed into.
func (r *Repository) HideReminderFromLog(ctx context.Context, id int64, organizationID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE reminders
		SET visibility = $3
		WHERE id = $1 AND organization_id = $2
	`, id, organizationID, string(domain.VisibilityHiddenFromLog))
	if err != nil {
		return fmt.Errorf("failed to hide reminder: %w", err)
	}
	return nil
}

// ListRemindersForLead returns reminders for a lead, newest remind time
// first. Hidden reminders are excluded unless includeHidden is set.
func (r *Repository) ListRemindersForLead(ctx context.Context, leadID int64, organizationID uuid.UUID, includeHidden bool) ([]Reminder, error) {
	query := `
		SELECT` + reminderSelectCols + `
		FROM reminders r
		JOIN leads l ON l.id = r.lead_id
		WHERE r.lead_id = $1 AND r.organization_id = $2`
	if !includeHidden {
		query += ` AND r.visibility = '` + string(domain.VisibilityVisible) + `'`
	}
	query += ` ORDER BY r.remind_time DESC`

	rows, err := r.pool.Query(ctx, query, leadID, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	defer rows.Close()

	items := make([]Reminder, 0)
	for rows.Next() {
		reminder, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, reminder)
	}
	return items, rows.Err()
}

func scanReminder(s rowScanner) (Reminder, error) {
	var reminder Reminder
	err := s.Scan(
		&reminder.ID, &reminder.OrganizationID, &reminder.LeadID, &reminder.CompanyName,
		&reminder.ActivityType, &reminder.Message, &reminder.RemindTime, &reminder.Status,
		&reminder.Visibility, &reminder.OutcomeNotes, &reminder.DurationMinutes,
		&reminder.CompletedAt, &reminder.CompletedBy, &reminder.CreatedBy, &reminder.CreatedAt,
	)
	return reminder, err
}
