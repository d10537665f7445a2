package service

import (
	"context"
	"time"

	"salescrm_backend/internal/activities/repository"
	"salescrm_backend/internal/events"
	"salescrm_backend/platform/logger"

	"github.com/google/uuid"
)

// fakeStore implements Store with per-method function hooks; unset hooks
// return zero values.
type fakeStore struct {
	getLeadRef     func(leadID int64) (repository.LeadRef, error)
	listLogs       func(leadID int64) ([]repository.ActivityLog, error)
	listReminders  func(leadID int64, includeHidden bool) ([]repository.Reminder, error)
	listMeetings   func(leadID int64) ([]repository.Meeting, error)
	listDemos      func(leadID int64) ([]repository.Demo, error)
	listFeed       func(params repository.ListFeedParams) ([]repository.FeedRow, int, error)
	getReminder    func(id int64) (repository.Reminder, error)
	completeRem    func(id int64, params repository.CompleteReminderParams) (repository.Reminder, error)
	cancelReminder func(id int64) error
	hideReminder   func(id int64) error
	createLog      func(params repository.CreateLogParams) (repository.ActivityLog, error)
	getLog         func(id int64) (repository.ActivityLog, error)
	getMeeting     func(id int64) (repository.Meeting, error)
	listAudit      func(leadID int64) ([]repository.AuditEntry, error)

	auditEntries      []repository.CreateAuditEntryParams
	softDeletedLogs   []int64
	lastDeleteReason  string
	canceledRems      []int64
	hiddenRems        []int64
	canceledMeetings  []string
	updatedLogDetails []string
}

func (f *fakeStore) GetLeadRef(_ context.Context, leadID int64, _ uuid.UUID) (repository.LeadRef, error) {
	if f.getLeadRef != nil {
		return f.getLeadRef(leadID)
	}
	return repository.LeadRef{ID: leadID, CompanyName: "Acme"}, nil
}

func (f *fakeStore) CreateLog(_ context.Context, params repository.CreateLogParams) (repository.ActivityLog, error) {
	if f.createLog != nil {
		return f.createLog(params)
	}
	return repository.ActivityLog{
		ID:           1,
		LeadID:       params.LeadID,
		CompanyName:  "Acme",
		ActivityType: params.ActivityType,
		Details:      params.Details,
		CreatedBy:    params.CreatedBy,
		CreatedAt:    time.Now(),
	}, nil
}

func (f *fakeStore) GetLogByID(_ context.Context, id int64, _ uuid.UUID) (repository.ActivityLog, error) {
	if f.getLog != nil {
		return f.getLog(id)
	}
	return repository.ActivityLog{ID: id, LeadID: 2, CompanyName: "Acme"}, nil
}

func (f *fakeStore) UpdateLogDetails(_ context.Context, id int64, _ uuid.UUID, details string) (repository.ActivityLog, error) {
	f.updatedLogDetails = append(f.updatedLogDetails, details)
	return repository.ActivityLog{ID: id, LeadID: 2, CompanyName: "Acme", Details: details}, nil
}

func (f *fakeStore) SoftDeleteLog(_ context.Context, id int64, _ uuid.UUID, reason string) error {
	f.softDeletedLogs = append(f.softDeletedLogs, id)
	f.lastDeleteReason = reason
	return nil
}

func (f *fakeStore) ListLogsForLead(_ context.Context, leadID int64, _ uuid.UUID) ([]repository.ActivityLog, error) {
	if f.listLogs != nil {
		return f.listLogs(leadID)
	}
	return nil, nil
}

func (f *fakeStore) CreateReminder(context.Context, repository.CreateReminderParams) (repository.Reminder, error) {
	return repository.Reminder{}, nil
}

func (f *fakeStore) GetReminderByID(_ context.Context, id int64, _ uuid.UUID) (repository.Reminder, error) {
	if f.getReminder != nil {
		return f.getReminder(id)
	}
	return repository.Reminder{ID: id}, nil
}

func (f *fakeStore) CompleteReminder(_ context.Context, id int64, _ uuid.UUID, params repository.CompleteReminderParams) (repository.Reminder, error) {
	if f.completeRem != nil {
		return f.completeRem(id, params)
	}
	return repository.Reminder{ID: id}, nil
}

func (f *fakeStore) CancelReminder(_ context.Context, id int64, _ uuid.UUID) error {
	f.canceledRems = append(f.canceledRems, id)
	if f.cancelReminder != nil {
		return f.cancelReminder(id)
	}
	return nil
}

func (f *fakeStore) HideReminderFromLog(_ context.Context, id int64, _ uuid.UUID) error {
	f.hiddenRems = append(f.hiddenRems, id)
	if f.hideReminder != nil {
		return f.hideReminder(id)
	}
	return nil
}

func (f *fakeStore) ListRemindersForLead(_ context.Context, leadID int64, _ uuid.UUID, includeHidden bool) ([]repository.Reminder, error) {
	if f.listReminders != nil {
		return f.listReminders(leadID, includeHidden)
	}
	return nil, nil
}

func (f *fakeStore) CreateMeeting(context.Context, repository.CreateMeetingParams) (repository.Meeting, error) {
	return repository.Meeting{}, nil
}

func (f *fakeStore) GetMeetingByID(_ context.Context, id int64, _ uuid.UUID) (repository.Meeting, error) {
	if f.getMeeting != nil {
		return f.getMeeting(id)
	}
	return repository.Meeting{ID: id}, nil
}

func (f *fakeStore) CompleteMeeting(context.Context, int64, uuid.UUID, repository.CompleteEventParams) (repository.Meeting, error) {
	return repository.Meeting{}, nil
}

func (f *fakeStore) CancelMeeting(_ context.Context, _ int64, _ uuid.UUID, reason, _ string) error {
	f.canceledMeetings = append(f.canceledMeetings, reason)
	return nil
}

func (f *fakeStore) ListMeetingsForLead(_ context.Context, leadID int64, _ uuid.UUID) ([]repository.Meeting, error) {
	if f.listMeetings != nil {
		return f.listMeetings(leadID)
	}
	return nil, nil
}

func (f *fakeStore) CreateDemo(context.Context, repository.CreateDemoParams) (repository.Demo, error) {
	return repository.Demo{}, nil
}

func (f *fakeStore) GetDemoByID(context.Context, int64, uuid.UUID) (repository.Demo, error) {
	return repository.Demo{}, nil
}

func (f *fakeStore) CompleteDemo(context.Context, int64, uuid.UUID, repository.CompleteEventParams) (repository.Demo, error) {
	return repository.Demo{}, nil
}

func (f *fakeStore) CancelDemo(context.Context, int64, uuid.UUID, string, string) error {
	return nil
}

func (f *fakeStore) ListDemosForLead(_ context.Context, leadID int64, _ uuid.UUID) ([]repository.Demo, error) {
	if f.listDemos != nil {
		return f.listDemos(leadID)
	}
	return nil, nil
}

func (f *fakeStore) ListFeed(_ context.Context, _ uuid.UUID, params repository.ListFeedParams) ([]repository.FeedRow, int, error) {
	if f.listFeed != nil {
		return f.listFeed(params)
	}
	return nil, 0, nil
}

func (f *fakeStore) CreateAuditEntry(_ context.Context, params repository.CreateAuditEntryParams) error {
	f.auditEntries = append(f.auditEntries, params)
	return nil
}

func (f *fakeStore) ListAuditForLead(_ context.Context, leadID int64, _ uuid.UUID) ([]repository.AuditEntry, error) {
	if f.listAudit != nil {
		return f.listAudit(leadID)
	}
	return nil, nil
}

func newTestService(store Store) *Service {
	log := logger.New("development")
	svc := New(store, events.NewInMemoryBus(log), log)
	svc.now = func() time.Time { return testNow }
	return svc
}
