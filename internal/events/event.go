// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"salescrm_backend/platform/events"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Activity Domain Events
// =============================================================================

// ActivityCompleted is published when a scheduled reminder, meeting, or demo
// is marked done.
type ActivityCompleted struct {
	BaseEvent
	SourceType      string `json:"sourceType"`
	SourceID        int64  `json:"sourceId"`
	LeadID          int64  `json:"leadId"`
	OutcomeNotes    string `json:"outcomeNotes"`
	DurationMinutes int    `json:"durationMinutes"`
	CompletedBy     string `json:"completedBy"`
}

func (e ActivityCompleted) EventName() string { return "activities.completed" }

// ActivityCanceled is published when a scheduled reminder, meeting, or demo
// is canceled.
type ActivityCanceled struct {
	BaseEvent
	SourceType string `json:"sourceType"`
	SourceID   int64  `json:"sourceId"`
	LeadID     int64  `json:"leadId"`
	Reason     string `json:"reason,omitempty"`
	CanceledBy string `json:"canceledBy"`
}

func (e ActivityCanceled) EventName() string { return "activities.canceled" }

// ActivityLogDeleted is published when a logged activity is soft-deleted.
type ActivityLogDeleted struct {
	BaseEvent
	SourceID  int64  `json:"sourceId"`
	LeadID    int64  `json:"leadId"`
	Reason    string `json:"reason"`
	DeletedBy string `json:"deletedBy"`
}

func (e ActivityLogDeleted) EventName() string { return "activities.log_deleted" }

// =============================================================================
// Lead Domain Events
// =============================================================================

// LeadSoftDeleted is published when a lead is moved to the recycle bin.
type LeadSoftDeleted struct {
	BaseEvent
	LeadID    int64  `json:"leadId"`
	DeletedBy string `json:"deletedBy"`
}

func (e LeadSoftDeleted) EventName() string { return "leads.soft_deleted" }

// LeadRestored is published when a soft-deleted lead is restored; its
// activity history becomes visible in the feed again.
type LeadRestored struct {
	BaseEvent
	LeadID     int64  `json:"leadId"`
	RestoredBy string `json:"restoredBy"`
}

func (e LeadRestored) EventName() string { return "leads.restored" }
