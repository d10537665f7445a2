package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// FeedRow is the generic superset row produced by the unified feed query.
// One row per source record, with the source-native text and timestamps kept
// separate so the unification mapper can build the canonical projection
// (including merged completions) without source-specific SQL.
type FeedRow struct {
	SourceType      string
	SourceID        int64
	LeadID          int64
	CompanyName     string
	ActivityType    string
	SourceText      string // log details, reminder message, or meeting/demo agenda
	EffectiveStatus string // backend-computed, overdue already derived
	ScheduledTime   *time.Time
	CompletedAt     *time.Time
	CompletedBy     *string
	OutcomeNotes    *string
	CancelReason    *string
	DurationMinutes *int
	CreatedBy       string
	CreatedAt       time.Time
	AnchorDate      time.Time
}

// ListFeedParams holds pagination, search, and filter inputs for the unified
// activity feed. Page is 1-indexed; validation of the recognized page sizes
// and filter vocabulary happens in the service.
type ListFeedParams struct {
	Page     int
	PageSize int
	Search   string
	Filter   string
}

// unifiedFeedCTE merges the four source tables into one shape. Overdue is
// computed here, at query time, so every consumer sees the same derivation
// and no client ever compares clocks. Soft-deleted logs and leads are
// excluded from the feed (deleted logs stay visible in the per-lead history
// path only).
const unifiedFeedCTE = `
	WITH unified AS (
		SELECT 'Log' AS source_type, a.id AS source_id, a.lead_id, l.company_name,
			a.activity_type, a.details AS source_text,
			'completed' AS effective_status,
			NULL::timestamptz AS scheduled_time,
			NULL::timestamptz AS completed_at,
			NULL::text AS completed_by,
			NULL::text AS outcome_notes,
			NULL::text AS cancel_reason,
			a.duration_minutes, a.created_by, a.created_at,
			a.created_at AS anchor_date
		FROM activity_logs a
		JOIN leads l ON l.id = a.lead_id
		WHERE a.organization_id = $1 AND a.deleted_at IS NULL AND l.deleted_at IS NULL

		UNION ALL

		SELECT 'Reminder', r.id, r.lead_id, l.company_name,
			r.activity_type, r.message,
			CASE
				WHEN r.status = 'Pending' AND r.remind_time < now() THEN 'overdue'
				ELSE lower(r.status)
			END,
			r.remind_time, r.completed_at, r.completed_by, r.outcome_notes,
			NULL::text,
			r.duration_minutes, r.created_by, r.created_at,
			COALESCE(r.completed_at, r.remind_time)
		FROM reminders r
		JOIN leads l ON l.id = r.lead_id
		WHERE r.organization_id = $1 AND r.visibility = 'visible' AND l.deleted_at IS NULL

		UNION ALL

		SELECT 'Meeting', m.id, m.lead_id, l.company_name,
			m.activity_type, m.agenda,
			CASE
				WHEN m.status = 'Scheduled' AND m.event_time < now() THEN 'overdue'
				ELSE lower(m.status)
			END,
			m.event_time, m.completed_at, m.updated_by, m.outcome_notes,
			m.cancel_reason,
			m.duration_minutes, m.created_by, m.created_at,
			COALESCE(m.completed_at, m.event_time)
		FROM meetings m
		JOIN leads l ON l.id = m.lead_id
		WHERE m.organization_id = $1 AND l.deleted_at IS NULL

		UNION ALL

		SELECT 'Demo', d.id, d.lead_id, l.company_name,
			d.activity_type, d.agenda,
			CASE
				WHEN d.status = 'Scheduled' AND d.start_time < now() THEN 'overdue'
				ELSE lower(d.status)
			END,
			d.start_time, d.completed_at, d.updated_by, d.outcome_notes,
			d.cancel_reason,
			d.duration_minutes, d.created_by, d.created_at,
			COALESCE(d.completed_at, d.start_time)
		FROM demos d
		JOIN leads l ON l.id = d.lead_id
		WHERE d.organization_id = $1 AND l.deleted_at IS NULL
	)`

// ListFeed runs the unified feed query and returns one page of rows plus the
// total match count independent of page size.
func (r *Repository) ListFeed(ctx context.Context, organizationID uuid.UUID, params ListFeedParams) ([]FeedRow, int, error) {
	where, order := feedFilterClause(params.Filter)

	args := []any{organizationID}
	if params.Search != "" {
		args = append(args, "%"+params.Search+"%")
		n := len(args)
		where += fmt.Sprintf(" AND (company_name ILIKE $%d OR activity_type ILIKE $%d OR source_text ILIKE $%d OR COALESCE(outcome_notes, '') ILIKE $%d)", n, n, n, n)
	}

	offset := (params.Page - 1) * params.PageSize
	args = append(args, params.PageSize, offset)
	limitClause := fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	query := unifiedFeedCTE + `
		SELECT source_type, source_id, lead_id, company_name, activity_type, source_text,
			effective_status, scheduled_time, completed_at, completed_by, outcome_notes,
			cancel_reason, duration_minutes, created_by, created_at, anchor_date,
			COUNT(*) OVER() AS total
		FROM unified
		WHERE ` + where + order + limitClause

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query activity feed: %w", err)
	}
	defer rows.Close()

	items := make([]FeedRow, 0, params.PageSize)
	total := 0
	for rows.Next() {
		var row FeedRow
		if err := rows.Scan(
			&row.SourceType, &row.SourceID, &row.LeadID, &row.CompanyName,
			&row.ActivityType, &row.SourceText, &row.EffectiveStatus,
			&row.ScheduledTime, &row.CompletedAt, &row.CompletedBy,
			&row.OutcomeNotes, &row.CancelReason, &row.DurationMinutes,
			&row.CreatedBy, &row.CreatedAt, &row.AnchorDate, &total,
		); err != nil {
			return nil, 0, err
		}
		items = append(items, row)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if total == 0 && params.Page > 1 {
		// The requested page may simply be past the end; recount so the
		// client can still compute the page count.
		countQuery := unifiedFeedCTE + ` SELECT COUNT(*) FROM unified WHERE ` + where
		if err := r.pool.QueryRow(ctx, countQuery, args[:len(args)-2]...).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("failed to count activity feed: %w", err)
		}
	}

	return items, total, nil
}

// feedFilterClause translates the filter vocabulary into SQL. The today
// filter implies chronological (ascending) order; everything else is newest
// first with a deterministic tiebreak to keep pagination stable.
func feedFilterClause(filter string) (where, order string) {
	const defaultOrder = " ORDER BY anchor_date DESC, source_type, source_id"

	switch filter {
	case "", "all":
		return "TRUE", defaultOrder
	case "today":
		return "anchor_date::date = current_date AND effective_status NOT IN ('canceled')",
			" ORDER BY anchor_date ASC, source_type, source_id"
	case "scheduled":
		return "effective_status IN ('pending', 'scheduled')", defaultOrder
	case "completed":
		return "effective_status = 'completed'", defaultOrder
	case "overdue":
		return "effective_status = 'overdue'", defaultOrder
	case "canceled":
		return "effective_status = 'canceled'", defaultOrder
	}
	return "TRUE", defaultOrder
}
