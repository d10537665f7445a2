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

// Meeting is the database model for a scheduled meeting.
// Native status vocabulary: Scheduled, Completed, Canceled.
type Meeting struct {
	ID              int64      `db:"id"`
	OrganizationID  uuid.UUID  `db:"organization_id"`
	LeadID          int64      `db:"lead_id"`
	CompanyName     string     `db:"company_name"`
	ActivityType    string     `db:"activity_type"`
	Agenda          string     `db:"agenda"`
	EventTime       time.Time  `db:"event_time"`
	Status          string     `db:"status"`
	OutcomeNotes    *string    `db:"outcome_notes"`
	DurationMinutes *int       `db:"duration_minutes"`
	CompletedAt     *time.Time `db:"completed_at"`
	CancelReason    *string    `db:"cancel_reason"`
	UpdatedBy       *string    `db:"updated_by"`
	CreatedBy       string     `db:"created_by"`
	CreatedAt       time.Time  `db:"created_at"`
}

const meetingNotFoundMsg = "meeting not found"

const meetingSelectCols = `
	m.id, m.organization_id, m.lead_id, l.company_name, m.activity_type, m.agenda,
	m.event_time, m.status, m.outcome_notes, m.duration_minutes, m.completed_at,
	m.cancel_reason, m.updated_by, m.created_by, m.created_at`

// CreateMeetingParams holds the fields for scheduling a new meeting.
type CreateMeetingParams struct {
	OrganizationID uuid.UUID
	LeadID         int64
	ActivityType   string
	Agenda         string
	EventTime      time.Time
	CreatedBy      string
}

// CreateMeeting inserts a new scheduled meeting.
func (r *Repository) CreateMeeting(ctx context.Context, params CreateMeetingParams) (Meeting, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO meetings (organization_id, lead_id, activity_type, agenda, event_time, status, created_by)
		VALUES ($1, $2, $3, $4, $5, 'Scheduled', $6)
		RETURNING id
	`, params.OrganizationID, params.LeadID, params.ActivityType, params.Agenda, params.EventTime, params.CreatedBy).Scan(&id)
	if err != nil {
		return Meeting{}, fmt.Errorf("failed to create meeting: %w", err)
	}
	return r.GetMeetingByID(ctx, id, params.OrganizationID)
}

// GetMeetingByID retrieves a meeting by id regardless of status.
func (r *Repository) GetMeetingByID(ctx context.Context, id int64, organizationID uuid.UUID) (Meeting, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT`+meetingSelectCols+`
		FROM meetings m
		JOIN leads l ON l.id = m.lead_id
		WHERE m.id = $1 AND m.organization_id = $2
	`, id, organizationID)

	meeting, err := scanMeeting(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Meeting{}, apperr.NotFound(meetingNotFoundMsg)
		}
		return Meeting{}, fmt.Errorf("failed to get meeting: %w", err)
	}
	return meeting, nil
}

// CompleteEventParams holds the outcome recorded when a meeting or demo is
// marked done.
type CompleteEventParams struct {
	OutcomeNotes    string
	DurationMinutes int
	CompletedAt     time.Time
	CompletedBy     string
}

// CompleteMeeting transitions a scheduled meeting to Completed, recording
// the outcome. Single-shot via the status guard.
func (r *Repository) CompleteMeeting(ctx context.Context, id int64, organizationID uuid.UUID, params CompleteEventParams) (Meeting, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE meetings
		SET status = 'Completed', outcome_notes = $3, duration_minutes = $4, completed_at = $5, updated_by = $6
		WHERE id = $1 AND organization_id = $2 AND status = 'Scheduled'
	`, id, organizationID, params.OutcomeNotes, params.DurationMinutes, params.CompletedAt, params.CompletedBy)
	if err != nil {
		return Meeting{}, fmt.Errorf("failed to complete meeting: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetMeetingByID(ctx, id, organizationID); err != nil {
			return Meeting{}, err
		}
		return Meeting{}, apperr.Conflict("meeting is not scheduled")
	}
	return r.GetMeetingByID(ctx, id, organizationID)
}

// CancelMeeting transitions a scheduled meeting to Canceled with the tagged
// reason.
func (r *Repository) CancelMeeting(ctx context.Context, id int64, organizationID uuid.UUID, reason, updatedBy string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE meetings
		SET status = 'Canceled', cancel_reason = $3, updated_by = $4
		WHERE id = $1 AND organization_id = $2 AND status = 'Scheduled'
	`, id, organizationID, reason, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to cancel meeting: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetMeetingByID(ctx, id, organizationID); err != nil {
			return err
		}
		return apperr.Conflict("meeting is not scheduled")
	}
	return nil
}

// ListMeetingsForLead returns all meetings for a lead, newest event first.
func (r *Repository) ListMeetingsForLead(ctx context.Context, leadID int64, organizationID uuid.UUID) ([]Meeting, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT`+meetingSelectCols+`
		FROM meetings m
		JOIN leads l ON l.id = m.lead_id
		WHERE m.lead_id = $1 AND m.organization_id = $2
		ORDER BY m.event_time DESC
	`, leadID, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}
	defer rows.Close()

	items := make([]Meeting, 0)
	for rows.Next() {
		meeting, err := scanMeeting(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, meeting)
	}
	return items, rows.Err()
}

func scanMeeting(s rowScanner) (Meeting, error) {
	var meeting Meeting
	err := s.Scan(
		&meeting.ID, &meeting.OrganizationID, &meeting.LeadID, &meeting.CompanyName,
		&meeting.ActivityType, &meeting.Agenda, &meeting.EventTime, &meeting.Status,
		&meeting.OutcomeNotes, &meeting.DurationMinutes, &meeting.CompletedAt,
		&meeting.CancelReason, &meeting.UpdatedBy, &meeting.CreatedBy, &meeting.CreatedAt,
	)
	return meeting, err
}
