// Package service implements activity lifecycle operations and the
// read-side assembly of the unified feed and per-lead timeline.
package service

import (
	"context"
	"time"

	"salescrm_backend/internal/activities/domain"
	"salescrm_backend/internal/activities/repository"
	"salescrm_backend/internal/activities/transport"
	"salescrm_backend/internal/events"
	"salescrm_backend/platform/apperr"
	"salescrm_backend/platform/logger"
	"salescrm_backend/platform/sanitize"

	"github.com/google/uuid"
)

// Store is the persistence surface the service depends on.
type Store interface {
	GetLeadRef(ctx context.Context, leadID int64, organizationID uuid.UUID) (repository.LeadRef, error)

	CreateLog(ctx context.Context, params repository.CreateLogParams) (repository.ActivityLog, error)
	GetLogByID(ctx context.Context, id int64, organizationID uuid.UUID) (repository.ActivityLog, error)
	UpdateLogDetails(ctx context.Context, id int64, organizationID uuid.UUID, details string) (repository.ActivityLog, error)
	SoftDeleteLog(ctx context.Context, id int64, organizationID uuid.UUID, reason string) error
	ListLogsForLead(ctx context.Context, leadID int64, organizationID uuid.UUID) ([]repository.ActivityLog, error)

	CreateReminder(ctx context.Context, params repository.CreateReminderParams) (repository.Reminder, error)
	GetReminderByID(ctx context.Context, id int64, organizationID uuid.UUID) (repository.Reminder, error)
	CompleteReminder(ctx context.Context, id int64, organizationID uuid.UUID, params repository.CompleteReminderParams) (repository.Reminder, error)
	CancelReminder(ctx context.Context, id int64, organizationID uuid.UUID) error
	HideReminderFromLog(ctx context.Context, id int64, organizationID uuid.UUID) error
	ListRemindersForLead(ctx context.Context, leadID int64, organizationID uuid.UUID, includeHidden bool) ([]repository.Reminder, error)

	CreateMeeting(ctx context.Context, params repository.CreateMeetingParams) (repository.Meeting, error)
	GetMeetingByID(ctx context.Context, id int64, organizationID uuid.UUID) (repository.Meeting, error)
	CompleteMeeting(ctx context.Context, id int64, organizationID uuid.UUID, params repository.CompleteEventParams) (repository.Meeting, error)
	CancelMeeting(ctx context.Context, id int64, organizationID uuid.UUID, reason, updatedBy string) error
	ListMeetingsForLead(ctx context.Context, leadID int64, organizationID uuid.UUID) ([]repository.Meeting, error)

	CreateDemo(ctx context.Context, params repository.CreateDemoParams) (repository.Demo, error)
	GetDemoByID(ctx context.Context, id int64, organizationID uuid.UUID) (repository.Demo, error)
	CompleteDemo(ctx context.Context, id int64, organizationID uuid.UUID, params repository.CompleteEventParams) (repository.Demo, error)
	CancelDemo(ctx context.Context, id int64, organizationID uuid.UUID, reason, updatedBy string) error
	ListDemosForLead(ctx context.Context, leadID int64, organizationID uuid.UUID) ([]repository.Demo, error)

	ListFeed(ctx context.Context, organizationID uuid.UUID, params repository.ListFeedParams) ([]repository.FeedRow, int, error)

	CreateAuditEntry(ctx context.Context, params repository.CreateAuditEntryParams) error
	ListAuditForLead(ctx context.Context, leadID int64, organizationID uuid.UUID) ([]repository.AuditEntry, error)
}

// Service coordinates activity lifecycle transitions, auditing, and events.
type Service struct {
	store Store
	bus   events.Bus
	log   *logger.Logger
	now   func() time.Time
}

func New(store Store, bus events.Bus, log *logger.Logger) *Service {
	return &Service{store: store, bus: bus, log: log, now: time.Now}
}

// requireActiveLead verifies the lead exists and is not in the recycle bin.
func (s *Service) requireActiveLead(ctx context.Context, leadID int64, org uuid.UUID) (repository.LeadRef, error) {
	ref, err := s.store.GetLeadRef(ctx, leadID, org)
	if err != nil {
		return repository.LeadRef{}, err
	}
	if ref.DeletedAt != nil {
		return repository.LeadRef{}, apperr.Conflict("lead is in the recycle bin")
	}
	return ref, nil
}

func (s *Service) audit(ctx context.Context, params repository.CreateAuditEntryParams) {
	// History rows are best effort; the transition itself has already
	// been persisted.
	if err := s.store.CreateAuditEntry(ctx, params); err != nil {
		s.log.Error("failed to write activity audit entry", "error", err,
			"source_type", params.SourceType, "source_id", params.SourceID)
	}
}

// AuditTrail returns the lifecycle audit entries for a lead, newest first.
// Soft-deleted leads keep their trail; the recycle bin links here so
// deleted logs and canceled events remain reconstructable.
func (s *Service) AuditTrail(ctx context.Context, leadID int64, org uuid.UUID) (transport.AuditTrailResponse, error) {
	if _, err := s.store.GetLeadRef(ctx, leadID, org); err != nil {
		return transport.AuditTrailResponse{}, err
	}
	entries, err := s.store.ListAuditForLead(ctx, leadID, org)
	if err != nil {
		return transport.AuditTrailResponse{}, err
	}

	views := make([]transport.AuditEntryView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, transport.AuditEntryView{
			ID:         entry.ID,
			SourceType: entry.SourceType,
			SourceID:   entry.SourceID,
			Action:     entry.Action,
			Reason:     entry.Reason,
			Snapshot:   entry.Snapshot,
			Actor:      entry.Actor,
			CreatedAt:  entry.CreatedAt,
		})
	}
	return transport.AuditTrailResponse{LeadID: leadID, Entries: views}, nil
}

// CreateLog records a free-form activity that already happened. When the log
// fulfils a pending reminder, that reminder is canceled and hidden from lead
// history so the action appears exactly once.
func (s *Service) CreateLog(ctx context.Context, org uuid.UUID, actor string, req transport.CreateLogRequest) (domain.UnifiedActivity, error) {
	if _, err := s.requireActiveLead(ctx, req.LeadID, org); err != nil {
		return domain.UnifiedActivity{}, err
	}

	if req.FromReminderID != nil {
		rem, err := s.store.GetReminderByID(ctx, *req.FromReminderID, org)
		if err != nil {
			return domain.UnifiedActivity{}, err
		}
		if rem.LeadID != req.LeadID {
			return domain.UnifiedActivity{}, apperr.Validation("reminder belongs to a different lead")
		}
	}

	log, err := s.store.CreateLog(ctx, repository.CreateLogParams{
		OrganizationID:  org,
		LeadID:          req.LeadID,
		ActivityType:    sanitize.Text(req.ActivityType),
		Details:         sanitize.Text(req.Details),
		DurationMinutes: req.DurationMinutes,
		CreatedBy:       actor,
	})
	if err != nil {
		return domain.UnifiedActivity{}, err
	}

	if req.FromReminderID != nil {
		if err := s.store.CancelReminder(ctx, *req.FromReminderID, org); err != nil {
			return domain.UnifiedActivity{}, err
		}
		if err := s.store.HideReminderFromLog(ctx, *req.FromReminderID, org); err != nil {
			return domain.UnifiedActivity{}, err
		}
	}

	return MapLog(log), nil
}

// EditLog replaces the details of an active log.
func (s *Service) EditLog(ctx context.Context, id int64, org uuid.UUID, req transport.UpdateLogRequest) (domain.UnifiedActivity, error) {
	log, err := s.store.GetLogByID(ctx, id, org)
	if err != nil {
		return domain.UnifiedActivity{}, err
	}
	status := domain.StatusCompleted
	if log.DeletedAt != nil {
		status = domain.StatusDeleted
	}
	if terr := domain.CheckTransition(domain.SourceLog, status, domain.TransitionEdit); terr != nil {
		return domain.UnifiedActivity{}, mapTransitionError(terr)
	}

	details := sanitize.Text(req.Details)
	if details == "" {
		return domain.UnifiedActivity{}, apperr.Validation("details must not be empty")
	}
	updated, err := s.store.UpdateLogDetails(ctx, id, org, details)
	if err != nil {
		return domain.UnifiedActivity{}, err
	}
	return MapLog(updated), nil
}

// DeleteLog soft-deletes a log with a reason, recording an audit snapshot so
// the entry stays reconstructable from lead history.
func (s *Service) DeleteLog(ctx context.Context, id int64, org uuid.UUID, actor string, req transport.DeleteLogRequest) error {
	log, err := s.store.GetLogByID(ctx, id, org)
	if err != nil {
		return err
	}
	status := domain.StatusCompleted
	if log.DeletedAt != nil {
		status = domain.StatusDeleted
	}
	if terr := domain.CheckTransition(domain.SourceLog, status, domain.TransitionDelete); terr != nil {
		return mapTransitionError(terr)
	}

	reason := sanitize.Text(req.Reason)
	if reason == "" {
		reason = domain.DefaultDeleteReason
	}
	if err := s.store.SoftDeleteLog(ctx, id, org, reason); err != nil {
		return err
	}

	s.audit(ctx, repository.CreateAuditEntryParams{
		OrganizationID: org,
		LeadID:         log.LeadID,
		SourceType:     string(domain.SourceLog),
		SourceID:       id,
		Action:         repository.AuditActionLogDeleted,
		Reason:         &reason,
		Snapshot: map[string]any{
			"activityType": log.ActivityType,
			"details":      log.Details,
			"createdBy":    log.CreatedBy,
			"createdAt":    log.CreatedAt,
		},
		Actor: actor,
	})
	s.bus.Publish(ctx, events.ActivityLogDeleted{
		BaseEvent: events.NewBaseEvent(),
		SourceID:  id,
		LeadID:    log.LeadID,
		Reason:    reason,
		DeletedBy: actor,
	})
	return nil
}

// CreateReminder schedules a reminder for a lead.
func (s *Service) CreateReminder(ctx context.Context, org uuid.UUID, actor string, req transport.CreateReminderRequest) (domain.UnifiedActivity, error) {
	if _, err := s.requireActiveLead(ctx, req.LeadID, org); err != nil {
		return domain.UnifiedActivity{}, err
	}
	rem, err := s.store.CreateReminder(ctx, repository.CreateReminderParams{
		OrganizationID: org,
		LeadID:         req.LeadID,
		ActivityType:   sanitize.Text(req.ActivityType),
		Message:        sanitize.Text(req.Message),
		RemindTime:     req.RemindTime,
		CreatedBy:      actor,
	})
	if err != nil {
		return domain.UnifiedActivity{}, err
	}
	return MapReminder(rem, s.now()), nil
}

// CompleteReminder merges the outcome into a pending reminder. The merge is
// computed and validated before any write so an invalid payload never moves
// the record out of its pending state.
func (s *Service) CompleteReminder(ctx context.Context, id int64, org uuid.UUID, actor string, req transport.CompleteActivityRequest) (domain.UnifiedActivity, error) {
	rem, err := s.store.GetReminderByID(ctx, id, org)
	if err != nil {
		return domain.UnifiedActivity{}, err
	}
	now := s.now()
	payload := CompletionPayload{
		OutcomeNotes:    sanitize.Text(req.OutcomeNotes),
		DurationMinutes: req.DurationMinutes,
		CompletedBy:     actor,
		CompletedAt:     now,
	}
	if _, err := MergeCompletion(MapReminder(rem, now), payload); err != nil {
		return domain.UnifiedActivity{}, err
	}

	updated, err := s.store.CompleteReminder(ctx, id, org, repository.CompleteReminderParams{
		OutcomeNotes:    payload.OutcomeNotes,
		CompletedBy:     actor,
		DurationMinutes: *payload.DurationMinutes,
		CompletedAt:     now,
	})
	if err != nil {
		return domain.UnifiedActivity{}, err
	}

	s.audit(ctx, repository.CreateAuditEntryParams{
		OrganizationID: org,
		LeadID:         rem.LeadID,
		SourceType:     string(domain.SourceReminder),
		SourceID:       id,
		Action:         repository.AuditActionCompleted,
		Snapshot: map[string]any{
			"remindTime": rem.RemindTime,
			"message":    rem.Message,
		},
		Actor: actor,
	})
	s.publishCompleted(ctx, domain.SourceReminder, id, rem.LeadID, payload)
	return MapReminder(updated, now), nil
}

// CancelReminder transitions a pending reminder to canceled. No reason is
// required for reminders.
func (s *Service) CancelReminder(ctx context.Context, id int64, org uuid.UUID, actor string) (domain.UnifiedActivity, error) {
	rem, err := s.store.GetReminderByID(ctx, id, org)
	if err != nil {
		return domain.UnifiedActivity{}, err
	}
	now := s.now()
	original := MapReminder(rem, now)
	if terr := domain.CheckTransition(domain.SourceReminder, original.Status, domain.TransitionCancel); terr != nil {
		return domain.UnifiedActivity{}, mapTransitionError(terr)
	}
	if err := s.store.CancelReminder(ctx, id, org); err != nil {
		return domain.UnifiedActivity{}, err
	}
	updated, err := s.store.GetReminderByID(ctx, id, org)
	if err != nil {
		return domain.UnifiedActivity{}, err
	}

	s.audit(ctx, repository.CreateAuditEntryParams{
		OrganizationID: org,
		LeadID:         rem.LeadID,
		SourceType:     string(domain.SourceReminder),
		SourceID:       id,
		Action:         repository.AuditActionCanceled,
		Snapshot:       map[string]any{"remindTime": rem.RemindTime, "message": rem.Message},
		Actor:          actor,
	})
	s.bus.Publish(ctx, events.ActivityCanceled{
		BaseEvent:  events.NewBaseEvent(),
		SourceType: string(domain.SourceReminder),
		SourceID:   id,
		LeadID:     rem.LeadID,
		CanceledBy: actor,
	})
	return MapReminder(updated, now), nil
}

// CreateMeeting schedules a meeting for a lead.
func (s *Service) CreateMeeting(ctx context.Context, org uuid.UUID, actor string, req transport.CreateMeetingRequest) (domain.UnifiedActivity, error) {
	if _, err := s.requireActiveLead(ctx, req.LeadID, org); err != nil {
		return domain.UnifiedActivity{}, err
	}
	activityType := sanitize.Text(req.ActivityType)
	if activityType == "" {
		activityType = "Meeting"
	}
	m, err := s.store.CreateMeeting(ctx, repository.CreateMeetingParams{
		OrganizationID: org,
		LeadID:         req.LeadID,
		ActivityType:   activityType,
		Agenda:         sanitize.Text(req.Agenda),
		EventTime:      req.EventTime,
		CreatedBy:      actor,
	})
	if err != nil {
		return domain.UnifiedActivity{}, err
	}
	return MapMeeting(m, s.now()), nil
}

// CompleteMeeting merges the outcome into a scheduled meeting.
func (s *Service) CompleteMeeting(ctx context.Context, id int64, org uuid.UUID, actor string, req transport.CompleteActivityRequest) (domain.UnifiedActivity, error) {
	m, err := s.store.GetMeetingByID(ctx, id, org)
	if err != nil {
		return domain.UnifiedActivity{}, err
	}
	now := s.now()
	payload := CompletionPayload{
		OutcomeNotes:    sanitize.Text(req.OutcomeNotes),
		DurationMinutes: req.DurationMinutes,
		CompletedBy:     actor,
		CompletedAt:     now,
	}
	if _, err := MergeCompletion(MapMeeting(m, now), payload); err != nil {
		return domain.UnifiedActivity{}, err
	}

	updated, err := s.store.CompleteMeeting(ctx, id, org, repository.CompleteEventParams{
		OutcomeNotes:    payload.OutcomeNotes,
		DurationMinutes: *payload.DurationMinutes,
		CompletedAt:     now,
		CompletedBy:     actor,
	})
	if err != nil {
		return domain.UnifiedActivity{}, err
	}

	s.audit(ctx, repository.CreateAuditEntryParams{
		OrganizationID: org,
		LeadID:         m.LeadID,
		SourceType:     string(domain.SourceMeeting),
		SourceID:       id,
		Action:         repository.AuditActionCompleted,
		Snapshot:       map[string]any{"eventTime": m.EventTime, "agenda": m.Agenda},
		Actor:          actor,
	})
	s.publishCompleted(ctx, domain.SourceMeeting, id, m.LeadID, payload)
	return MapMeeting(updated, now), nil
}

// CancelMeeting cancels a scheduled meeting. The mandatory reason is stored
// tagged with the lead reference so it stays traceable outside lead context.
func (s *Service) CancelMeeting(ctx context.Context, id int64, org uuid.UUID, actor string, req transport.CancelEventRequest) (domain.UnifiedActivity, error) {
	m, err := s.store.GetMeetingByID(ctx, id, org)
	if err != nil {
		return domain.UnifiedActivity{}, err
	}
	now := s.now()
	original := MapMeeting(m, now)
	if terr := domain.CheckTransition(domain.SourceMeeting, original.Status, domain.TransitionCancel); terr != nil {
		return domain.UnifiedActivity{}, mapTransitionError(terr)
	}

	reason := sanitize.Text(req.Reason)
	if reason == "" {
		return domain.UnifiedActivity{}, apperr.Validation("cancellation reason must not be empty")
	}
	tagged := domain.CancelReasonTag(m.LeadID, m.CompanyName, reason)
	if err := s.store.CancelMeeting(ctx, id, org, tagged, actor); err != nil {
		return domain.UnifiedActivity{}, err
	}
	updated, err := s.store.GetMeetingByID(ctx, id, org)
	if err != nil {
		return domain.UnifiedActivity{}, err
	}

	s.audit(ctx, repository.CreateAuditEntryParams{
		OrganizationID: org,
		LeadID:         m.LeadID,
		SourceType:     string(domain.SourceMeeting),
		SourceID:       id,
		Action:         repository.AuditActionCanceled,
		Reason:         &tagged,
		Snapshot:       map[string]any{"eventTime": m.EventTime, "agenda": m.Agenda},
		Actor:          actor,
	})
	s.bus.Publish(ctx, events.ActivityCanceled{
		BaseEvent:  events.NewBaseEvent(),
		SourceType: string(domain.SourceMeeting),
		SourceID:   id,
		LeadID:     m.LeadID,
		Reason:     tagged,
		CanceledBy: actor,
	})
	return MapMeeting(updated, now), nil
}

// CreateDemo schedules a product demo for a lead.
func (s *Service) CreateDemo(ctx context.Context, org uuid.UUID, actor string, req transport.CreateDemoRequest) (domain.UnifiedActivity, error) {
	if _, err := s.requireActiveLead(ctx, req.LeadID, org); err != nil {
		return domain.UnifiedActivity{}, err
	}
	activityType := sanitize.Text(req.ActivityType)
	if activityType == "" {
		activityType = "Demo"
	}
	d, err := s.store.CreateDemo(ctx, repository.CreateDemoParams{
		OrganizationID: org,
		LeadID:         req.LeadID,
		ActivityType:   activityType,
		Agenda:         sanitize.Text(req.Agenda),
		StartTime:      req.StartTime,
		CreatedBy:      actor,
	})
	if err != nil {
		return domain.UnifiedActivity{}, err
	}
	return MapDemo(d, s.now()), nil
}

// CompleteDemo merges the outcome into a scheduled demo.
func (s *Service) CompleteDemo(ctx context.Context, id int64, org uuid.UUID, actor string, req transport.CompleteActivityRequest) (domain.UnifiedActivity, error) {
	d, err := s.store.GetDemoByID(ctx, id, org)
	if err != nil {
		return domain.UnifiedActivity{}, err
	}
	now := s.now()
	payload := CompletionPayload{
		OutcomeNotes:    sanitize.Text(req.OutcomeNotes),
		DurationMinutes: req.DurationMinutes,
		CompletedBy:     actor,
		CompletedAt:     now,
	}
	if _, err := MergeCompletion(MapDemo(d, now), payload); err != nil {
		return domain.UnifiedActivity{}, err
	}

	updated, err := s.store.CompleteDemo(ctx, id, org, repository.CompleteEventParams{
		OutcomeNotes:    payload.OutcomeNotes,
		DurationMinutes: *payload.DurationMinutes,
		CompletedAt:     now,
		CompletedBy:     actor,
	})
	if err != nil {
		return domain.UnifiedActivity{}, err
	}

	s.audit(ctx, repository.CreateAuditEntryParams{
		OrganizationID: org,
		LeadID:         d.LeadID,
		SourceType:     string(domain.SourceDemo),
		SourceID:       id,
		Action:         repository.AuditActionCompleted,
		Snapshot:       map[string]any{"startTime": d.StartTime, "agenda": d.Agenda},
		Actor:          actor,
	})
	s.publishCompleted(ctx, domain.SourceDemo, id, d.LeadID, payload)
	return MapDemo(updated, now), nil
}

// CancelDemo cancels a scheduled demo with a mandatory tagged reason.
func (s *Service) CancelDemo(ctx context.Context, id int64, org uuid.UUID, actor string, req transport.CancelEventRequest) (domain.UnifiedActivity, error) {
	d, err := s.store.GetDemoByID(ctx, id, org)
	if err != nil {
		return domain.UnifiedActivity{}, err
	}
	now := s.now()
	original := MapDemo(d, now)
	if terr := domain.CheckTransition(domain.SourceDemo, original.Status, domain.TransitionCancel); terr != nil {
		return domain.UnifiedActivity{}, mapTransitionError(terr)
	}

	reason := sanitize.Text(req.Reason)
	if reason == "" {
		return domain.UnifiedActivity{}, apperr.Validation("cancellation reason must not be empty")
	}
	tagged := domain.CancelReasonTag(d.LeadID, d.CompanyName, reason)
	if err := s.store.CancelDemo(ctx, id, org, tagged, actor); err != nil {
		return domain.UnifiedActivity{}, err
	}
	updated, err := s.store.GetDemoByID(ctx, id, org)
	if err != nil {
		return domain.UnifiedActivity{}, err
	}

	s.audit(ctx, repository.CreateAuditEntryParams{
		OrganizationID: org,
		LeadID:         d.LeadID,
		SourceType:     string(domain.SourceDemo),
		SourceID:       id,
		Action:         repository.AuditActionCanceled,
		Reason:         &tagged,
		Snapshot:       map[string]any{"startTime": d.StartTime, "agenda": d.Agenda},
		Actor:          actor,
	})
	s.bus.Publish(ctx, events.ActivityCanceled{
		BaseEvent:  events.NewBaseEvent(),
		SourceType: string(domain.SourceDemo),
		SourceID:   id,
		LeadID:     d.LeadID,
		Reason:     tagged,
		CanceledBy: actor,
	})
	return MapDemo(updated, now), nil
}

func (s *Service) publishCompleted(ctx context.Context, source domain.SourceType, id, leadID int64, payload CompletionPayload) {
	s.bus.Publish(ctx, events.ActivityCompleted{
		BaseEvent:       events.NewBaseEvent(),
		SourceType:      string(source),
		SourceID:        id,
		LeadID:          leadID,
		OutcomeNotes:    payload.OutcomeNotes,
		DurationMinutes: *payload.DurationMinutes,
		CompletedBy:     payload.CompletedBy,
	})
}
