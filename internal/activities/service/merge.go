package service

import (
	"strings"
	"time"

	"salescrm_backend/internal/activities/domain"
	"salescrm_backend/platform/apperr"
)

// CompletionPayload is the outcome captured when a scheduled item is marked
// done.
type CompletionPayload struct {
	OutcomeNotes    string
	DurationMinutes *int
	CompletedBy     string
	CompletedAt     time.Time
}

// ValidateCompletion rejects a completion payload before any state
// transition is persisted. Duration must be present and strictly positive;
// absence means "not captured", which is not acceptable at completion time.
func ValidateCompletion(payload CompletionPayload) error {
	if strings.TrimSpace(payload.OutcomeNotes) == "" {
		return apperr.Validation("outcome notes are required")
	}
	if payload.DurationMinutes == nil {
		return apperr.Validation("duration in minutes is required")
	}
	if *payload.DurationMinutes <= 0 {
		return apperr.Validation("duration must be a positive number of minutes")
	}
	return nil
}

// MergeCompletion combines an original scheduled record with its completion
// outcome into one merged record: Date and Details describe what actually
// happened, the Original* fields preserve what was planned. A consumer can
// reconstruct both sides from the result alone.
//
// The original must be a scheduled source in a non-terminal state; the
// payload is validated before anything else so an invalid duration never
// produces a partial merge.
func MergeCompletion(original domain.UnifiedActivity, payload CompletionPayload) (domain.UnifiedActivity, error) {
	if err := ValidateCompletion(payload); err != nil {
		return domain.UnifiedActivity{}, err
	}
	if transitionErr := domain.CheckTransition(original.SourceType, original.Status, domain.TransitionComplete); transitionErr != nil {
		return domain.UnifiedActivity{}, mapTransitionError(transitionErr)
	}

	scheduledDate := original.Date
	originalCreatedAt := original.CreationDate
	originalCreatedBy := createdByOf(original.Detail)
	originalDetails := original.Details

	merged := original
	merged.Status = domain.StatusCompleted
	merged.Date = payload.CompletedAt
	merged.Details = payload.OutcomeNotes
	merged.DurationMinutes = payload.DurationMinutes
	merged.IsActionable = false
	merged.OriginalScheduledDate = &scheduledDate
	merged.OriginalCreatedAt = &originalCreatedAt
	merged.OriginalCreatedBy = &originalCreatedBy
	merged.OriginalDetails = &originalDetails

	return merged, nil
}

// mapTransitionError converts a pure domain transition error into the typed
// error the HTTP layer understands.
func mapTransitionError(err *domain.TransitionError) error {
	if err.Conflict {
		return apperr.Conflict(err.Error())
	}
	return apperr.Validation(err.Error())
}

// createdByOf extracts the creator from a typed detail payload.
func createdByOf(detail domain.Detail) string {
	switch d := detail.(type) {
	case domain.LogDetail:
		return d.CreatedBy
	case domain.ReminderDetail:
		return d.CreatedBy
	case domain.MeetingDetail:
		return d.CreatedBy
	case domain.DemoDetail:
		return d.CreatedBy
	}
	return ""
}
