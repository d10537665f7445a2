// Package transport defines the request/response contracts for the
// activities bounded context.
package transport

import (
	"time"

	"salescrm_backend/internal/activities/domain"
)

// Recognized feed filters. "all" is the default.
const (
	FilterAll       = "all"
	FilterToday     = "today"
	FilterScheduled = "scheduled"
	FilterCompleted = "completed"
	FilterOverdue   = "overdue"
	FilterCanceled  = "canceled"
)

// ListActivitiesRequest is the query contract for the unified feed.
// Pagination is 1-indexed. Changing pageSize or filter resets the page on
// the client; the server just honors what it is sent.
type ListActivitiesRequest struct {
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"pageSize" validate:"omitempty"`
	Search   string `form:"search" validate:"omitempty,max=200"`
	Filter   string `form:"filter" validate:"omitempty,oneof=all today scheduled completed overdue canceled"`
}

// ActivityListResponse is the paginated unified feed. Total is independent
// of page size so the client can compute ceil(total/pageSize) pages.
type ActivityListResponse struct {
	Data     []domain.UnifiedActivity `json:"data"`
	Total    int                      `json:"total"`
	Page     int                      `json:"page"`
	PageSize int                      `json:"pageSize"`
}

// TimelineResponse is the per-lead unified history, newest first.
type TimelineResponse struct {
	LeadID int64                    `json:"leadId"`
	Items  []domain.UnifiedActivity `json:"items"`
	// FailedSources lists source adapters that could not be fetched; the
	// returned items still cover every source that succeeded.
	FailedSources []string `json:"failedSources,omitempty"`
}

// AuditEntryView is one lifecycle audit record in a lead's trail. The
// snapshot preserves the record as it was before the transition, so deleted
// logs and canceled events stay reconstructable.
type AuditEntryView struct {
	ID         int64          `json:"id"`
	SourceType string         `json:"sourceType"`
	SourceID   int64          `json:"sourceId"`
	Action     string         `json:"action"`
	Reason     *string        `json:"reason,omitempty"`
	Snapshot   map[string]any `json:"snapshot,omitempty"`
	Actor      string         `json:"actor"`
	CreatedAt  time.Time      `json:"createdAt"`
}

// AuditTrailResponse lists a lead's lifecycle audit entries, newest first.
type AuditTrailResponse struct {
	LeadID  int64            `json:"leadId"`
	Entries []AuditEntryView `json:"entries"`
}

// CreateLogRequest records a free-form activity that already happened.
// FromReminderID links the log to the pending reminder it fulfils; that
// reminder is then hidden from history so the action shows up once.
type CreateLogRequest struct {
	LeadID          int64  `json:"leadId" validate:"required,gt=0"`
	ActivityType    string `json:"activityType" validate:"required,max=100"`
	Details         string `json:"details" validate:"required,max=2000"`
	DurationMinutes *int   `json:"durationMinutes" validate:"omitempty,gt=0"`
	FromReminderID  *int64 `json:"fromReminderId" validate:"omitempty,gt=0"`
}

// UpdateLogRequest edits the details of an active log.
type UpdateLogRequest struct {
	Details string `json:"details" validate:"required,min=1,max=2000"`
}

// DeleteLogRequest soft-deletes a log. Reason is optional; a sentinel is
// recorded when omitted.
type DeleteLogRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

// CreateReminderRequest schedules a reminder.
type CreateReminderRequest struct {
	LeadID       int64     `json:"leadId" validate:"required,gt=0"`
	ActivityType string    `json:"activityType" validate:"required,max=100"`
	Message      string    `json:"message" validate:"required,max=2000"`
	RemindTime   time.Time `json:"remindTime" validate:"required"`
}

// CreateMeetingRequest schedules a meeting.
type CreateMeetingRequest struct {
	LeadID       int64     `json:"leadId" validate:"required,gt=0"`
	ActivityType string    `json:"activityType" validate:"omitempty,max=100"`
	Agenda       string    `json:"agenda" validate:"required,max=2000"`
	EventTime    time.Time `json:"eventTime" validate:"required"`
}

// CreateDemoRequest schedules a product demo.
type CreateDemoRequest struct {
	LeadID       int64     `json:"leadId" validate:"required,gt=0"`
	ActivityType string    `json:"activityType" validate:"omitempty,max=100"`
	Agenda       string    `json:"agenda" validate:"required,max=2000"`
	StartTime    time.Time `json:"startTime" validate:"required"`
}

// CompleteActivityRequest records the outcome when a scheduled item is
// marked done. DurationMinutes is deliberately untagged: the completion
// merger owns its validation so missing, zero, and negative all surface as
// the same typed validation error.
type CompleteActivityRequest struct {
	OutcomeNotes    string `json:"outcomeNotes" validate:"required,max=2000"`
	DurationMinutes *int   `json:"durationMinutes"`
}

// CancelEventRequest cancels a scheduled meeting or demo. Reason is
// mandatory for these sources.
type CancelEventRequest struct {
	Reason string `json:"reason" validate:"required,min=1,max=500"`
}
