package service

import (
	"context"
	"sort"
	"sync"

	"salescrm_backend/internal/activities/domain"
	"salescrm_backend/internal/activities/transport"
	"salescrm_backend/platform/apperr"

	"github.com/google/uuid"
)

// BuildTimeline assembles the unified history for one lead from all four
// source tables. Sources are fetched concurrently and a failing source
// degrades the response instead of failing it: its records are omitted and
// the source is reported in FailedSources. Only when every source fails is
// an error returned.
//
// Soft-deleted leads still have a timeline; the recycle bin links here.
func (s *Service) BuildTimeline(ctx context.Context, leadID int64, org uuid.UUID) (transport.TimelineResponse, error) {
	if _, err := s.store.GetLeadRef(ctx, leadID, org); err != nil {
		return transport.TimelineResponse{}, err
	}

	now := s.now()

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		items  []domain.UnifiedActivity
		failed []string
	)

	collect := func(source domain.SourceType, fetch func() ([]domain.UnifiedActivity, error)) {
		defer wg.Done()
		fetched, err := fetch()
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			s.log.SourceFetchError(string(source), leadID, err)
			failed = append(failed, string(source))
			return
		}
		items = append(items, fetched...)
	}

	wg.Add(4)
	go collect(domain.SourceLog, func() ([]domain.UnifiedActivity, error) {
		logs, err := s.store.ListLogsForLead(ctx, leadID, org)
		if err != nil {
			return nil, err
		}
		out := make([]domain.UnifiedActivity, 0, len(logs))
		for _, l := range logs {
			out = append(out, MapLog(l))
		}
		return out, nil
	})
	go collect(domain.SourceReminder, func() ([]domain.UnifiedActivity, error) {
		reminders, err := s.store.ListRemindersForLead(ctx, leadID, org, false)
		if err != nil {
			return nil, err
		}
		out := make([]domain.UnifiedActivity, 0, len(reminders))
		for _, r := range reminders {
			out = append(out, MapReminder(r, now))
		}
		return out, nil
	})
	go collect(domain.SourceMeeting, func() ([]domain.UnifiedActivity, error) {
		meetings, err := s.store.ListMeetingsForLead(ctx, leadID, org)
		if err != nil {
			return nil, err
		}
		out := make([]domain.UnifiedActivity, 0, len(meetings))
		for _, m := range meetings {
			out = append(out, MapMeeting(m, now))
		}
		return out, nil
	})
	go collect(domain.SourceDemo, func() ([]domain.UnifiedActivity, error) {
		demos, err := s.store.ListDemosForLead(ctx, leadID, org)
		if err != nil {
			return nil, err
		}
		out := make([]domain.UnifiedActivity, 0, len(demos))
		for _, d := range demos {
			out = append(out, MapDemo(d, now))
		}
		return out, nil
	})
	wg.Wait()

	if len(failed) == 4 {
		return transport.TimelineResponse{}, apperr.Internal("all activity sources unavailable")
	}

	sortTimeline(items)
	sort.Strings(failed)

	return transport.TimelineResponse{
		LeadID:        leadID,
		Items:         items,
		FailedSources: failed,
	}, nil
}

// sortTimeline orders newest first. Ties on the anchor date fall back to
// source type then id so the ordering is stable across requests.
func sortTimeline(items []domain.UnifiedActivity) {
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if a.SourceType != b.SourceType {
			return a.SourceType < b.SourceType
		}
		return a.SourceID > b.SourceID
	})
}
