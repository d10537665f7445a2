package service

import (
	"testing"
	"time"

	"salescrm_backend/internal/activities/domain"
	"salescrm_backend/internal/activities/repository"
	"salescrm_backend/platform/apperr"
)

func intPtr(v int) *int { return &v }

func pendingReminderActivity(t *testing.T) domain.UnifiedActivity {
	t.Helper()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return MapReminder(repository.Reminder{
		ID:           7,
		LeadID:       3,
		CompanyName:  "Acme",
		ActivityType: "Call",
		Message:      "follow up on proposal",
		RemindTime:   now.Add(time.Hour),
		Status:       "Pending",
		Visibility:   "visible",
		CreatedBy:    "rep@acme.test",
		CreatedAt:    now.Add(-24 * time.Hour),
	}, now)
}

func TestValidateCompletion_RejectsMissingFields(t *testing.T) {
	base := CompletionPayload{
		OutcomeNotes:    "spoke with the buyer",
		DurationMinutes: intPtr(30),
		CompletedBy:     "rep@acme.test",
		CompletedAt:     time.Now(),
	}

	empty := base
	empty.OutcomeNotes = "   "
	if err := ValidateCompletion(empty); apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error for blank notes, got %v", err)
	}

	missing := base
	missing.DurationMinutes = nil
	if err := ValidateCompletion(missing); apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error for missing duration, got %v", err)
	}

	zero := base
	zero.DurationMinutes = intPtr(0)
	if err := ValidateCompletion(zero); apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error for zero duration, got %v", err)
	}

	negative := base
	negative.DurationMinutes = intPtr(-15)
	if err := ValidateCompletion(negative); apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error for negative duration, got %v", err)
	}

	if err := ValidateCompletion(base); err != nil {
		t.Fatalf("expected valid payload to pass, got %v", err)
	}
}

func TestMergeCompletion_PreservesHistory(t *testing.T) {
	original := pendingReminderActivity(t)
	completedAt := time.Date(2026, 3, 1, 14, 30, 0, 0, time.UTC)

	merged, err := MergeCompletion(original, CompletionPayload{
		OutcomeNotes:    "call done, sending quote",
		DurationMinutes: intPtr(25),
		CompletedBy:     "rep@acme.test",
		CompletedAt:     completedAt,
	})
	if err != nil {
		t.Fatalf("expected merge to succeed, got %v", err)
	}

	if merged.Status != domain.StatusCompleted {
		t.Fatalf("expected completed status, got %q", merged.Status)
	}
	if merged.IsActionable {
		t.Fatal("merged completion must not be actionable")
	}
	if !merged.Date.Equal(completedAt) {
		t.Fatalf("expected date to move to completion time, got %v", merged.Date)
	}
	if merged.Details != "call done, sending quote" {
		t.Fatalf("expected outcome notes as details, got %q", merged.Details)
	}
	if merged.DurationMinutes == nil || *merged.DurationMinutes != 25 {
		t.Fatalf("expected duration 25, got %v", merged.DurationMinutes)
	}

	if merged.OriginalScheduledDate == nil || !merged.OriginalScheduledDate.Equal(original.Date) {
		t.Fatalf("expected original schedule preserved, got %v", merged.OriginalScheduledDate)
	}
	if merged.OriginalDetails == nil || *merged.OriginalDetails != "follow up on proposal" {
		t.Fatalf("expected original details preserved, got %v", merged.OriginalDetails)
	}
	if merged.OriginalCreatedBy == nil || *merged.OriginalCreatedBy != "rep@acme.test" {
		t.Fatalf("expected original creator preserved, got %v", merged.OriginalCreatedBy)
	}
	if merged.OriginalCreatedAt == nil || !merged.OriginalCreatedAt.Equal(original.CreationDate) {
		t.Fatalf("expected original creation time preserved, got %v", merged.OriginalCreatedAt)
	}
}

func TestMergeCompletion_TerminalOriginalConflicts(t *testing.T) {
	original := pendingReminderActivity(t)
	original.Status = domain.StatusCompleted

	_, err := MergeCompletion(original, CompletionPayload{
		OutcomeNotes:    "again",
		DurationMinutes: intPtr(10),
		CompletedBy:     "rep@acme.test",
		CompletedAt:     time.Now(),
	})
	if apperr.GetKind(err) != apperr.KindConflict {
		t.Fatalf("expected conflict for re-completion, got %v", err)
	}
}

func TestMergeCompletion_InvalidPayloadBeforeTransitionCheck(t *testing.T) {
	// Even against a terminal record, payload validation wins so the
	// caller always sees the earliest failure.
	original := pendingReminderActivity(t)
	original.Status = domain.StatusCanceled

	_, err := MergeCompletion(original, CompletionPayload{OutcomeNotes: ""})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error first, got %v", err)
	}
}
