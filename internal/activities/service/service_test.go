package service

import (
	"context"
	"testing"
	"time"

	"salescrm_backend/internal/activities/domain"
	"salescrm_backend/internal/activities/repository"
	"salescrm_backend/internal/activities/transport"
	"salescrm_backend/platform/apperr"
)

func TestDeleteLog_DefaultsReasonAndWritesAudit(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)

	err := svc.DeleteLog(context.Background(), 5, testOrg, "rep@acme.test", transport.DeleteLogRequest{})
	if err != nil {
		t.Fatalf("expected delete to succeed, got %v", err)
	}
	if store.lastDeleteReason != domain.DefaultDeleteReason {
		t.Fatalf("expected sentinel reason, got %q", store.lastDeleteReason)
	}
	if len(store.auditEntries) != 1 {
		t.Fatalf("expected one audit entry, got %d", len(store.auditEntries))
	}
	entry := store.auditEntries[0]
	if entry.Action != repository.AuditActionLogDeleted || entry.SourceID != 5 {
		t.Fatalf("unexpected audit entry: %+v", entry)
	}
}

func TestDeleteLog_AlreadyDeletedConflicts(t *testing.T) {
	deletedAt := testNow.Add(-time.Hour)
	store := &fakeStore{
		getLog: func(id int64) (repository.ActivityLog, error) {
			return repository.ActivityLog{ID: id, LeadID: 2, DeletedAt: &deletedAt}, nil
		},
	}

	err := newTestService(store).DeleteLog(context.Background(), 5, testOrg, "rep@acme.test", transport.DeleteLogRequest{})
	if apperr.GetKind(err) != apperr.KindConflict {
		t.Fatalf("expected conflict for double delete, got %v", err)
	}
	if len(store.softDeletedLogs) != 0 {
		t.Fatal("conflicting delete must not reach the store")
	}
}

func TestCreateLog_SupersedesLinkedReminder(t *testing.T) {
	remID := int64(12)
	store := &fakeStore{
		getReminder: func(id int64) (repository.Reminder, error) {
			return repository.Reminder{ID: id, LeadID: 2, Status: "Pending"}, nil
		},
	}

	_, err := newTestService(store).CreateLog(context.Background(), testOrg, "rep@acme.test", transport.CreateLogRequest{
		LeadID:         2,
		ActivityType:   "Call",
		Details:        "called instead of waiting for the reminder",
		FromReminderID: &remID,
	})
	if err != nil {
		t.Fatalf("expected create to succeed, got %v", err)
	}
	if len(store.canceledRems) != 1 || store.canceledRems[0] != remID {
		t.Fatalf("expected reminder %d canceled, got %v", remID, store.canceledRems)
	}
	if len(store.hiddenRems) != 1 || store.hiddenRems[0] != remID {
		t.Fatalf("expected reminder %d hidden, got %v", remID, store.hiddenRems)
	}
}

func TestCreateLog_RejectsForeignReminder(t *testing.T) {
	remID := int64(12)
	store := &fakeStore{
		getReminder: func(id int64) (repository.Reminder, error) {
			return repository.Reminder{ID: id, LeadID: 99, Status: "Pending"}, nil
		},
	}

	_, err := newTestService(store).CreateLog(context.Background(), testOrg, "rep@acme.test", transport.CreateLogRequest{
		LeadID:         2,
		ActivityType:   "Call",
		Details:        "details",
		FromReminderID: &remID,
	})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error for mismatched lead, got %v", err)
	}
	if len(store.canceledRems) != 0 {
		t.Fatal("foreign reminder must not be touched")
	}
}

func TestCreateLog_RejectsRecycledLead(t *testing.T) {
	deletedAt := testNow.Add(-time.Hour)
	store := &fakeStore{
		getLeadRef: func(leadID int64) (repository.LeadRef, error) {
			return repository.LeadRef{ID: leadID, CompanyName: "Acme", DeletedAt: &deletedAt}, nil
		},
	}

	_, err := newTestService(store).CreateLog(context.Background(), testOrg, "rep@acme.test", transport.CreateLogRequest{
		LeadID:       2,
		ActivityType: "Call",
		Details:      "details",
	})
	if apperr.GetKind(err) != apperr.KindConflict {
		t.Fatalf("expected conflict for recycled lead, got %v", err)
	}
}

func TestCompleteReminder_InvalidDurationNeverPersists(t *testing.T) {
	var completed bool
	store := &fakeStore{
		getReminder: func(id int64) (repository.Reminder, error) {
			return repository.Reminder{
				ID: id, LeadID: 2, Status: "Pending",
				RemindTime: testNow.Add(time.Hour),
			}, nil
		},
		completeRem: func(id int64, _ repository.CompleteReminderParams) (repository.Reminder, error) {
			completed = true
			return repository.Reminder{ID: id}, nil
		},
	}

	_, err := newTestService(store).CompleteReminder(context.Background(), 7, testOrg, "rep@acme.test", transport.CompleteActivityRequest{
		OutcomeNotes:    "done",
		DurationMinutes: intPtr(0),
	})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if completed {
		t.Fatal("invalid completion must not reach the store")
	}
}

func TestCompleteReminder_PersistsOutcome(t *testing.T) {
	var seen repository.CompleteReminderParams
	completedAt := testNow
	store := &fakeStore{
		getReminder: func(id int64) (repository.Reminder, error) {
			return repository.Reminder{
				ID: id, LeadID: 2, CompanyName: "Acme", Message: "chase",
				Status: "Pending", RemindTime: testNow.Add(-time.Hour),
				CreatedAt: testNow.Add(-48 * time.Hour),
			}, nil
		},
		completeRem: func(id int64, params repository.CompleteReminderParams) (repository.Reminder, error) {
			seen = params
			return repository.Reminder{
				ID: id, LeadID: 2, CompanyName: "Acme", Message: "chase",
				Status: "Completed", RemindTime: testNow.Add(-time.Hour),
				OutcomeNotes: &params.OutcomeNotes, DurationMinutes: &params.DurationMinutes,
				CompletedAt: &completedAt, CreatedAt: testNow.Add(-48 * time.Hour),
			}, nil
		},
	}

	activity, err := newTestService(store).CompleteReminder(context.Background(), 7, testOrg, "rep@acme.test", transport.CompleteActivityRequest{
		OutcomeNotes:    "spoke with buyer",
		DurationMinutes: intPtr(20),
	})
	if err != nil {
		t.Fatalf("expected completion to succeed, got %v", err)
	}
	if seen.OutcomeNotes != "spoke with buyer" || seen.DurationMinutes != 20 {
		t.Fatalf("unexpected persisted params: %+v", seen)
	}
	if activity.Status != domain.StatusCompleted {
		t.Fatalf("expected completed projection, got %q", activity.Status)
	}
	if activity.OriginalDetails == nil || *activity.OriginalDetails != "chase" {
		t.Fatalf("expected merged record to preserve the original message, got %v", activity.OriginalDetails)
	}
}

func TestEditLog_PersistsSanitizedDetails(t *testing.T) {
	store := &fakeStore{}

	activity, err := newTestService(store).EditLog(context.Background(), 5, testOrg, transport.UpdateLogRequest{
		Details: "<p>met the <b>CTO</b> on site</p>",
	})
	if err != nil {
		t.Fatalf("expected edit on active log to succeed, got %v", err)
	}
	if len(store.updatedLogDetails) != 1 || store.updatedLogDetails[0] != "met the CTO on site" {
		t.Fatalf("unexpected persisted details: %v", store.updatedLogDetails)
	}
	if activity.Details != "met the CTO on site" {
		t.Fatalf("unexpected projected details: %q", activity.Details)
	}
}

func TestEditLog_MarkupOnlyDetailsRejected(t *testing.T) {
	store := &fakeStore{}

	_, err := newTestService(store).EditLog(context.Background(), 5, testOrg, transport.UpdateLogRequest{
		Details: "<b> </b>",
	})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error for markup-only details, got %v", err)
	}
	if len(store.updatedLogDetails) != 0 {
		t.Fatal("rejected edit must not reach the store")
	}
}

func TestCancelMeeting_MarkupOnlyReasonRejected(t *testing.T) {
	store := &fakeStore{
		getMeeting: func(id int64) (repository.Meeting, error) {
			return repository.Meeting{
				ID: id, LeadID: 2, CompanyName: "Acme", ActivityType: "Meeting",
				Agenda: "kickoff", Status: "Scheduled",
				EventTime: testNow.Add(2 * time.Hour), CreatedAt: testNow.Add(-time.Hour),
			}, nil
		},
	}

	_, err := newTestService(store).CancelMeeting(context.Background(), 9, testOrg, "rep@acme.test", transport.CancelEventRequest{
		Reason: "<b> </b>",
	})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error for markup-only reason, got %v", err)
	}
	if len(store.canceledMeetings) != 0 {
		t.Fatal("rejected cancel must not reach the store")
	}
	if len(store.auditEntries) != 0 {
		t.Fatal("rejected cancel must not write an audit entry")
	}
}

func TestAuditTrail_MapsEntries(t *testing.T) {
	reason := "[LEAD:2:Acme] customer postponed"
	store := &fakeStore{
		listAudit: func(leadID int64) ([]repository.AuditEntry, error) {
			if leadID != 2 {
				t.Fatalf("unexpected lead id: %d", leadID)
			}
			return []repository.AuditEntry{{
				ID: 11, LeadID: 2, SourceType: "Meeting", SourceID: 9,
				Action: repository.AuditActionCanceled, Reason: &reason,
				Snapshot: map[string]any{"agenda": "kickoff"},
				Actor:    "rep@acme.test", CreatedAt: testNow.Add(-time.Hour),
			}}, nil
		},
	}

	trail, err := newTestService(store).AuditTrail(context.Background(), 2, testOrg)
	if err != nil {
		t.Fatalf("expected audit trail to succeed, got %v", err)
	}
	if trail.LeadID != 2 || len(trail.Entries) != 1 {
		t.Fatalf("unexpected trail: %+v", trail)
	}
	entry := trail.Entries[0]
	if entry.Action != repository.AuditActionCanceled || entry.Reason == nil || *entry.Reason != reason {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}
