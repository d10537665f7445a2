package service

import (
	"context"
	"testing"

	"salescrm_backend/internal/activities/repository"
	"salescrm_backend/internal/activities/transport"
	"salescrm_backend/platform/apperr"
)

func TestList_DefaultsPageAndPageSize(t *testing.T) {
	var seen repository.ListFeedParams
	store := &fakeStore{
		listFeed: func(params repository.ListFeedParams) ([]repository.FeedRow, int, error) {
			seen = params
			return nil, 0, nil
		},
	}

	result, err := newTestService(store).List(context.Background(), testOrg, transport.ListActivitiesRequest{})
	if err != nil {
		t.Fatalf("expected defaults to apply, got %v", err)
	}
	if seen.Page != 1 || seen.PageSize != 10 || seen.Filter != transport.FilterAll {
		t.Fatalf("unexpected defaults: %+v", seen)
	}
	if result.Page != 1 || result.PageSize != 10 {
		t.Fatalf("expected echoed defaults, got page=%d pageSize=%d", result.Page, result.PageSize)
	}
}

func TestList_RejectsUnknownPageSize(t *testing.T) {
	svc := newTestService(&fakeStore{})
	for _, size := range []int{5, 25, 50, 1000, -10} {
		_, err := svc.List(context.Background(), testOrg, transport.ListActivitiesRequest{PageSize: size})
		if apperr.GetKind(err) != apperr.KindValidation {
			t.Fatalf("expected validation error for pageSize %d, got %v", size, err)
		}
	}
	for _, size := range []int{10, 30, 100, 200} {
		if _, err := svc.List(context.Background(), testOrg, transport.ListActivitiesRequest{PageSize: size}); err != nil {
			t.Fatalf("expected pageSize %d to pass, got %v", size, err)
		}
	}
}

func TestList_RejectsInvalidPageAndFilter(t *testing.T) {
	svc := newTestService(&fakeStore{})

	_, err := svc.List(context.Background(), testOrg, transport.ListActivitiesRequest{Page: -1})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error for negative page, got %v", err)
	}

	_, err = svc.List(context.Background(), testOrg, transport.ListActivitiesRequest{Filter: "archived"})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error for unknown filter, got %v", err)
	}
}

func TestList_MapsRowsAndTotal(t *testing.T) {
	store := &fakeStore{
		listFeed: func(params repository.ListFeedParams) ([]repository.FeedRow, int, error) {
			rows := []repository.FeedRow{
				{
					SourceType: "Log", SourceID: 1, LeadID: 2, CompanyName: "Acme",
					ActivityType: "Call", SourceText: "intro",
					EffectiveStatus: "completed", CreatedBy: "rep@acme.test",
					CreatedAt: testNow, AnchorDate: testNow,
				},
				{
					SourceType: "Demo", SourceID: 4, LeadID: 2, CompanyName: "Acme",
					ActivityType: "Demo", SourceText: "walkthrough",
					EffectiveStatus: "scheduled", CreatedBy: "rep@acme.test",
					CreatedAt: testNow, AnchorDate: testNow,
				},
			}
			// Page 6 of 57 rows at size 10 holds the final 7; the fake
			// returns a short page but the real total.
			return rows, 57, nil
		},
	}

	result, err := newTestService(store).List(context.Background(), testOrg, transport.ListActivitiesRequest{Page: 6})
	if err != nil {
		t.Fatalf("expected list to succeed, got %v", err)
	}
	if result.Total != 57 {
		t.Fatalf("expected total 57, got %d", result.Total)
	}
	if len(result.Data) != 2 {
		t.Fatalf("expected 2 mapped rows, got %d", len(result.Data))
	}
	if result.Data[0].ID != "log-1" || result.Data[1].ID != "demo-4" {
		t.Fatalf("unexpected unified ids: %s, %s", result.Data[0].ID, result.Data[1].ID)
	}
	if !result.Data[1].IsActionable {
		t.Fatal("scheduled demo row must be actionable")
	}
}
