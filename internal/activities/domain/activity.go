// Package domain provides core business rules for the activities bounded
// context: the canonical unified activity model, the actionability
// classifier, and the per-source lifecycle transition rules.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// SourceType identifies which of the four interaction records a unified
// activity was mapped from. Exactly one source type per record.
type SourceType string

const (
	SourceLog      SourceType = "Log"
	SourceReminder SourceType = "Reminder"
	SourceMeeting  SourceType = "Meeting"
	SourceDemo     SourceType = "Demo"
)

// Valid reports whether s is one of the four known source types.
func (s SourceType) Valid() bool {
	switch s {
	case SourceLog, SourceReminder, SourceMeeting, SourceDemo:
		return true
	}
	return false
}

// OriginTag distinguishes free-form logged activities from scheduled ones.
// A completed meeting keeps the Scheduled tag: the fact that it was
// scheduled is preserved.
type OriginTag string

const (
	OriginLogged    OriginTag = "Logged"
	OriginScheduled OriginTag = "Scheduled"
)

// Origin returns the tag derived from the source type.
func (s SourceType) Origin() OriginTag {
	if s == SourceLog {
		return OriginLogged
	}
	return OriginScheduled
}

// Normalized status vocabulary. Source rows may carry capitalized or
// source-specific variants ("Pending", "Meeting Done"); NormalizeStatus in
// classify.go folds them into this set.
const (
	StatusPending   = "pending"
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCanceled  = "canceled"
	StatusOverdue   = "overdue"
	StatusDeleted   = "deleted"
)

// UnifiedID builds the source-qualified feed identifier, e.g. "log-5" or
// "meeting-5". Source-qualification keeps numeric ids from colliding across
// the four tables.
func UnifiedID(source SourceType, id int64) string {
	return fmt.Sprintf("%s-%d", strings.ToLower(string(source)), id)
}

// UnifiedActivity is the canonical read-only projection every source record
// maps onto. For merged completions, Details and Date describe the outcome
// while the Original* fields preserve the pre-completion schedule for audit
// display.
type UnifiedActivity struct {
	ID                string     `json:"id"`
	SourceType        SourceType `json:"sourceType"`
	SourceID          int64      `json:"sourceId"`
	LeadID            int64      `json:"leadId"`
	CompanyName       string     `json:"companyName"`
	ActivityType      string     `json:"activityType"`
	Details           string     `json:"details"`
	LoggedOrScheduled OriginTag  `json:"loggedOrScheduled"`
	Status            string     `json:"status"`
	Date              time.Time  `json:"date"`
	CreationDate      time.Time  `json:"creationDate"`
	IsActionable      bool       `json:"isActionable"`
	DurationMinutes   *int       `json:"durationMinutes,omitempty"`

	OriginalScheduledDate *time.Time `json:"originalScheduledDate,omitempty"`
	OriginalCreatedAt     *time.Time `json:"originalCreatedAt,omitempty"`
	OriginalCreatedBy     *string    `json:"originalCreatedBy,omitempty"`
	OriginalDetails       *string    `json:"originalDetails,omitempty"`

	// Detail carries the strongly-typed source payload so completion and
	// cancellation flows can re-derive source-specific fields without an
	// untyped raw blob.
	Detail Detail `json:"detail,omitempty"`
}

// Detail is the tagged variant payload accompanying the canonical fields.
// Exactly one concrete type per source type.
type Detail interface {
	isDetail()
}

// LogDetail is the source payload for free-form activity logs.
type LogDetail struct {
	CreatedBy string `json:"createdBy"`
}

// ReminderDetail is the source payload for scheduled reminders.
type ReminderDetail struct {
	RemindTime  time.Time  `json:"remindTime"`
	Message     string     `json:"message"`
	Visibility  Visibility `json:"visibility"`
	CreatedBy   string     `json:"createdBy"`
	CompletedBy *string    `json:"completedBy,omitempty"`
}

// MeetingDetail is the source payload for scheduled meetings.
type MeetingDetail struct {
	EventTime    time.Time `json:"eventTime"`
	Agenda       string    `json:"agenda"`
	CreatedBy    string    `json:"createdBy"`
	CancelReason *string   `json:"cancelReason,omitempty"`
}

// DemoDetail is the source payload for scheduled demos.
type DemoDetail struct {
	StartTime    time.Time `json:"startTime"`
	Agenda       string    `json:"agenda"`
	CreatedBy    string    `json:"createdBy"`
	CancelReason *string   `json:"cancelReason,omitempty"`
}

func (LogDetail) isDetail()      {}
func (ReminderDetail) isDetail() {}
func (MeetingDetail) isDetail()  {}
func (DemoDetail) isDetail()     {}

// Visibility controls whether a reminder appears in the per-lead history.
// Reminders absorbed into a completion merge are hidden so the timeline does
// not show the same interaction twice.
type Visibility string

const (
	VisibilityVisible      Visibility = "visible"
	VisibilityHiddenFromLog Visibility = "hidden_from_log"
)
