package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"salescrm_backend/internal/activities/domain"
	"salescrm_backend/internal/activities/repository"
	"salescrm_backend/platform/apperr"

	"github.com/google/uuid"
)

var testOrg = uuid.MustParse("7f1c9c6e-9a7d-4d43-9a57-27f3a1c0b9d1")

func TestBuildTimeline_MergesAllSourcesNewestFirst(t *testing.T) {
	store := &fakeStore{
		listLogs: func(int64) ([]repository.ActivityLog, error) {
			return []repository.ActivityLog{{
				ID: 1, LeadID: 2, CompanyName: "Acme", ActivityType: "Call",
				Details: "intro", CreatedAt: testNow.Add(-3 * time.Hour),
			}}, nil
		},
		listReminders: func(int64, bool) ([]repository.Reminder, error) {
			return []repository.Reminder{{
				ID: 1, LeadID: 2, CompanyName: "Acme", Message: "chase",
				RemindTime: testNow.Add(-1 * time.Hour), Status: "Pending",
				CreatedAt: testNow.Add(-50 * time.Hour),
			}}, nil
		},
		listMeetings: func(int64) ([]repository.Meeting, error) {
			return []repository.Meeting{{
				ID: 1, LeadID: 2, CompanyName: "Acme", Agenda: "kickoff",
				EventTime: testNow.Add(-2 * time.Hour), Status: "Scheduled",
				CreatedAt: testNow.Add(-49 * time.Hour),
			}}, nil
		},
		listDemos: func(int64) ([]repository.Demo, error) {
			return []repository.Demo{{
				ID: 1, LeadID: 2, CompanyName: "Acme", Agenda: "walkthrough",
				StartTime: testNow.Add(1 * time.Hour), Status: "Scheduled",
				CreatedAt: testNow.Add(-48 * time.Hour),
			}}, nil
		},
	}

	result, err := newTestService(store).BuildTimeline(context.Background(), 2, testOrg)
	if err != nil {
		t.Fatalf("expected timeline to build, got %v", err)
	}
	if len(result.FailedSources) != 0 {
		t.Fatalf("expected no failed sources, got %v", result.FailedSources)
	}
	if len(result.Items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(result.Items))
	}
	for i := 1; i < len(result.Items); i++ {
		if result.Items[i].Date.After(result.Items[i-1].Date) {
			t.Fatalf("timeline out of order at index %d", i)
		}
	}
	if result.Items[0].SourceType != domain.SourceDemo {
		t.Fatalf("expected upcoming demo first, got %s", result.Items[0].SourceType)
	}
}

func TestBuildTimeline_ToleratesSingleSourceFailure(t *testing.T) {
	store := &fakeStore{
		listLogs: func(int64) ([]repository.ActivityLog, error) {
			return []repository.ActivityLog{{
				ID: 1, LeadID: 2, CompanyName: "Acme", ActivityType: "Call",
				Details: "intro", CreatedAt: testNow.Add(-3 * time.Hour),
			}}, nil
		},
		listReminders: func(int64, bool) ([]repository.Reminder, error) {
			return nil, errors.New("reminder table unavailable")
		},
	}

	result, err := newTestService(store).BuildTimeline(context.Background(), 2, testOrg)
	if err != nil {
		t.Fatalf("expected degraded timeline, got %v", err)
	}
	if len(result.FailedSources) != 1 || result.FailedSources[0] != "Reminder" {
		t.Fatalf("expected Reminder reported as failed, got %v", result.FailedSources)
	}
	if len(result.Items) != 1 {
		t.Fatalf("expected surviving log item, got %d items", len(result.Items))
	}
}

func TestBuildTimeline_AllSourcesFailing(t *testing.T) {
	boom := errors.New("database down")
	store := &fakeStore{
		listLogs:      func(int64) ([]repository.ActivityLog, error) { return nil, boom },
		listReminders: func(int64, bool) ([]repository.Reminder, error) { return nil, boom },
		listMeetings:  func(int64) ([]repository.Meeting, error) { return nil, boom },
		listDemos:     func(int64) ([]repository.Demo, error) { return nil, boom },
	}

	_, err := newTestService(store).BuildTimeline(context.Background(), 2, testOrg)
	if apperr.GetKind(err) != apperr.KindInternal {
		t.Fatalf("expected internal error when every source fails, got %v", err)
	}
}

func TestBuildTimeline_ExcludesHiddenReminders(t *testing.T) {
	var sawIncludeHidden bool
	store := &fakeStore{
		listReminders: func(_ int64, includeHidden bool) ([]repository.Reminder, error) {
			sawIncludeHidden = includeHidden
			return nil, nil
		},
	}

	if _, err := newTestService(store).BuildTimeline(context.Background(), 2, testOrg); err != nil {
		t.Fatalf("expected timeline to build, got %v", err)
	}
	if sawIncludeHidden {
		t.Fatal("timeline must not request hidden reminders")
	}
}

func TestBuildTimeline_UnknownLead(t *testing.T) {
	store := &fakeStore{
		getLeadRef: func(int64) (repository.LeadRef, error) {
			return repository.LeadRef{}, apperr.NotFound("lead not found")
		},
	}

	_, err := newTestService(store).BuildTimeline(context.Background(), 99, testOrg)
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
