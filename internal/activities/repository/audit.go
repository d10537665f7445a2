package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Audit action constants identify the lifecycle event an audit entry records.
const (
	AuditActionLogDeleted = "log_deleted"
	AuditActionCanceled   = "canceled"
	AuditActionCompleted  = "completed"
)

// AuditEntry records a lifecycle transition so terminal records stay
// reconstructable. Deleted logs in particular remain discoverable in lead
// history through these rows.
type AuditEntry struct {
	ID             int64          `db:"id"`
	OrganizationID uuid.UUID      `db:"organization_id"`
	LeadID         int64          `db:"lead_id"`
	SourceType     string         `db:"source_type"`
	SourceID       int64          `db:"source_id"`
	Action         string         `db:"action"`
	Reason         *string        `db:"reason"`
	Snapshot       map[string]any `db:"snapshot"`
	Actor          string         `db:"actor"`
	CreatedAt      time.Time      `db:"created_at"`
}

// CreateAuditEntryParams holds the fields for inserting an audit entry.
type CreateAuditEntryParams struct {
	OrganizationID uuid.UUID
	LeadID         int64
	SourceType     string
	SourceID       int64
	Action         string
	Reason         *string
	Snapshot       map[string]any
	Actor          string
}

// CreateAuditEntry inserts a lifecycle audit row. The snapshot preserves the
// pre-transition record as JSON.
func (r *Repository) CreateAuditEntry(ctx context.Context, params CreateAuditEntryParams) error {
	snapshotJSON, err := json.Marshal(params.Snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode audit snapshot: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO activity_audit (organization_id, lead_id, source_type, source_id, action, reason, snapshot, actor)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, params.OrganizationID, params.LeadID, params.SourceType, params.SourceID,
		params.Action, params.Reason, snapshotJSON, params.Actor)
	if err != nil {
		return fmt.Errorf("failed to create audit entry: %w", err)
	}
	return nil
}

// ListAuditForLead returns all audit entries for a lead, newest first.
func (r *Repository) ListAuditForLead(ctx context.Context, leadID int64, organizationID uuid.UUID) ([]AuditEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, organization_id, lead_id, source_type, source_id, action, reason, snapshot, actor, created_at
		FROM activity_audit
		WHERE lead_id = $1 AND organization_id = $2
		ORDER BY created_at DESC
	`, leadID, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	items := make([]AuditEntry, 0)
	for rows.Next() {
		var entry AuditEntry
		var rawSnapshot []byte
		if err := rows.Scan(
			&entry.ID, &entry.OrganizationID, &entry.LeadID, &entry.SourceType,
			&entry.SourceID, &entry.Action, &entry.Reason, &rawSnapshot,
			&entry.Actor, &entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		if len(rawSnapshot) > 0 {
			_ = json.Unmarshal(rawSnapshot, &entry.Snapshot)
		}
		items = append(items, entry)
	}
	return items, rows.Err()
}
