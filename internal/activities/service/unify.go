package service

import (
	"time"

	"salescrm_backend/internal/activities/domain"
	"salescrm_backend/internal/activities/repository"
)

// The unification mappers are total: every source row yields exactly one
// UnifiedActivity, never zero or multiple, and malformed rows degrade to a
// partially populated record instead of an error. now is passed explicitly
// so overdue derivation is deterministic and matches the SQL feed's rule:
// a non-terminal scheduled item whose scheduled time has passed is overdue.

// MapLog converts an activity log row to the canonical projection.
// Logs are complete by definition; soft-deleted logs surface with a deleted
// status so lead history can still show them.
func MapLog(log repository.ActivityLog) domain.UnifiedActivity {
	status := domain.StatusCompleted
	if log.DeletedAt != nil {
		status = domain.StatusDeleted
	}
	cls := domain.Classify(domain.SourceLog, status)

	return domain.UnifiedActivity{
		ID:                domain.UnifiedID(domain.SourceLog, log.ID),
		SourceType:        domain.SourceLog,
		SourceID:          log.ID,
		LeadID:            log.LeadID,
		CompanyName:       log.CompanyName,
		ActivityType:      log.ActivityType,
		Details:           log.Details,
		LoggedOrScheduled: domain.OriginLogged,
		Status:            cls.EffectiveStatus,
		Date:              log.CreatedAt,
		CreationDate:      log.CreatedAt,
		IsActionable:      cls.IsActionable,
		DurationMinutes:   log.DurationMinutes,
		Detail:            domain.LogDetail{CreatedBy: log.CreatedBy},
	}
}

// MapReminder converts a reminder row to the canonical projection. A
// completed reminder becomes a merged record: Details and Date describe the
// outcome while the Original* fields preserve the schedule.
func MapReminder(rem repository.Reminder, now time.Time) domain.UnifiedActivity {
	effective := scheduledEffectiveStatus(rem.Status, rem.RemindTime, now)
	cls := domain.Classify(domain.SourceReminder, effective)

	unified := domain.UnifiedActivity{
		ID:                domain.UnifiedID(domain.SourceReminder, rem.ID),
		SourceType:        domain.SourceReminder,
		SourceID:          rem.ID,
		LeadID:            rem.LeadID,
		CompanyName:       rem.CompanyName,
		ActivityType:      rem.ActivityType,
		Details:           rem.Message,
		LoggedOrScheduled: domain.OriginScheduled,
		Status:            cls.EffectiveStatus,
		Date:              anchorOr(rem.RemindTime, rem.CreatedAt),
		CreationDate:      rem.CreatedAt,
		IsActionable:      cls.IsActionable,
		Detail: domain.ReminderDetail{
			RemindTime:  rem.RemindTime,
			Message:     rem.Message,
			Visibility:  domain.Visibility(rem.Visibility),
			CreatedBy:   rem.CreatedBy,
			CompletedBy: rem.CompletedBy,
		},
	}

	if cls.EffectiveStatus == domain.StatusCompleted && rem.CompletedAt != nil {
		applyCompletionMerge(&unified, completionFields{
			ScheduledTime:   rem.RemindTime,
			OriginalText:    rem.Message,
			CreatedAt:       rem.CreatedAt,
			CreatedBy:       rem.CreatedBy,
			CompletedAt:     *rem.CompletedAt,
			OutcomeNotes:    rem.OutcomeNotes,
			DurationMinutes: rem.DurationMinutes,
		})
	}

	return unified
}

// MapMeeting converts a meeting row to the canonical projection.
func MapMeeting(m repository.Meeting, now time.Time) domain.UnifiedActivity {
	effective := scheduledEffectiveStatus(m.Status, m.EventTime, now)
	cls := domain.Classify(domain.SourceMeeting, effective)

	unified := domain.UnifiedActivity{
		ID:                domain.UnifiedID(domain.SourceMeeting, m.ID),
		SourceType:        domain.SourceMeeting,
		SourceID:          m.ID,
		LeadID:            m.LeadID,
		CompanyName:       m.CompanyName,
		ActivityType:      m.ActivityType,
		Details:           m.Agenda,
		LoggedOrScheduled: domain.OriginScheduled,
		Status:            cls.EffectiveStatus,
		Date:              anchorOr(m.EventTime, m.CreatedAt),
		CreationDate:      m.CreatedAt,
		IsActionable:      cls.IsActionable,
		Detail: domain.MeetingDetail{
			EventTime:    m.EventTime,
			Agenda:       m.Agenda,
			CreatedBy:    m.CreatedBy,
			CancelReason: m.CancelReason,
		},
	}

	if cls.EffectiveStatus == domain.StatusCompleted && m.CompletedAt != nil {
		applyCompletionMerge(&unified, completionFields{
			ScheduledTime:   m.EventTime,
			OriginalText:    m.Agenda,
			CreatedAt:       m.CreatedAt,
			CreatedBy:       m.CreatedBy,
			CompletedAt:     *m.CompletedAt,
			OutcomeNotes:    m.OutcomeNotes,
			DurationMinutes: m.DurationMinutes,
		})
	}

	return unified
}

// MapDemo converts a demo row to the canonical projection.
func MapDemo(d repository.Demo, now time.Time) domain.UnifiedActivity {
	effective := scheduledEffectiveStatus(d.Status, d.StartTime, now)
	cls := domain.Classify(domain.SourceDemo, effective)

	unified := domain.UnifiedActivity{
		ID:                domain.UnifiedID(domain.SourceDemo, d.ID),
		SourceType:        domain.SourceDemo,
		SourceID:          d.ID,
		LeadID:            d.LeadID,
		CompanyName:       d.CompanyName,
		ActivityType:      d.ActivityType,
		Details:           d.Agenda,
		LoggedOrScheduled: domain.OriginScheduled,
		Status:            cls.EffectiveStatus,
		Date:              anchorOr(d.StartTime, d.CreatedAt),
		CreationDate:      d.CreatedAt,
		IsActionable:      cls.IsActionable,
		Detail: domain.DemoDetail{
			StartTime:    d.StartTime,
			Agenda:       d.Agenda,
			CreatedBy:    d.CreatedBy,
			CancelReason: d.CancelReason,
		},
	}

	if cls.EffectiveStatus == domain.StatusCompleted && d.CompletedAt != nil {
		applyCompletionMerge(&unified, completionFields{
			ScheduledTime:   d.StartTime,
			OriginalText:    d.Agenda,
			CreatedAt:       d.CreatedAt,
			CreatedBy:       d.CreatedBy,
			CompletedAt:     *d.CompletedAt,
			OutcomeNotes:    d.OutcomeNotes,
			DurationMinutes: d.DurationMinutes,
		})
	}

	return unified
}

// MapFeedRow converts a unified feed row to the canonical projection. The
// feed query already computed the effective status (including overdue), so
// this path never re-derives it.
func MapFeedRow(row repository.FeedRow) domain.UnifiedActivity {
	source := domain.SourceType(row.SourceType)
	cls := domain.Classify(source, row.EffectiveStatus)

	unified := domain.UnifiedActivity{
		ID:                domain.UnifiedID(source, row.SourceID),
		SourceType:        source,
		SourceID:          row.SourceID,
		LeadID:            row.LeadID,
		CompanyName:       row.CompanyName,
		ActivityType:      row.ActivityType,
		Details:           row.SourceText,
		LoggedOrScheduled: source.Origin(),
		Status:            cls.EffectiveStatus,
		Date:              row.AnchorDate,
		CreationDate:      row.CreatedAt,
		IsActionable:      cls.IsActionable,
		DurationMinutes:   row.DurationMinutes,
		Detail:            feedDetail(source, row),
	}

	if cls.EffectiveStatus == domain.StatusCompleted && row.CompletedAt != nil && source != domain.SourceLog {
		scheduledTime := row.CreatedAt
		if row.ScheduledTime != nil {
			scheduledTime = *row.ScheduledTime
		}
		applyCompletionMerge(&unified, completionFields{
			ScheduledTime:   scheduledTime,
			OriginalText:    row.SourceText,
			CreatedAt:       row.CreatedAt,
			CreatedBy:       row.CreatedBy,
			CompletedAt:     *row.CompletedAt,
			OutcomeNotes:    row.OutcomeNotes,
			DurationMinutes: row.DurationMinutes,
		})
	}

	return unified
}

// completionFields carries everything a completion merge needs from a
// source row.
type completionFields struct {
	ScheduledTime   time.Time
	OriginalText    string
	CreatedAt       time.Time
	CreatedBy       string
	CompletedAt     time.Time
	OutcomeNotes    *string
	DurationMinutes *int
}

// applyCompletionMerge rewrites a unified record into its merged-completion
// form: outcome in Details/Date, schedule preserved in the Original* fields.
// Nothing from the pre-completion state is discarded.
func applyCompletionMerge(unified *domain.UnifiedActivity, fields completionFields) {
	scheduled := fields.ScheduledTime
	createdAt := fields.CreatedAt
	createdBy := fields.CreatedBy
	originalText := fields.OriginalText

	unified.Date = fields.CompletedAt
	if fields.OutcomeNotes != nil {
		unified.Details = *fields.OutcomeNotes
	}
	unified.DurationMinutes = fields.DurationMinutes
	unified.OriginalScheduledDate = &scheduled
	unified.OriginalCreatedAt = &createdAt
	unified.OriginalCreatedBy = &createdBy
	unified.OriginalDetails = &originalText
}

// scheduledEffectiveStatus derives the effective status of a scheduled
// source row: non-terminal records whose scheduled time has passed are
// overdue, mirroring the SQL feed's derivation exactly.
func scheduledEffectiveStatus(status string, scheduledTime, now time.Time) string {
	effective := domain.NormalizeStatus(status)
	if (effective == domain.StatusPending || effective == domain.StatusScheduled) &&
		!scheduledTime.IsZero() && scheduledTime.Before(now) {
		return domain.StatusOverdue
	}
	return effective
}

// anchorOr guards against a missing anchor timestamp: the mapper stays
// total and falls back to the creation time rather than producing a
// zero-valued sort key.
func anchorOr(anchor, fallback time.Time) time.Time {
	if anchor.IsZero() {
		return fallback
	}
	return anchor
}

func feedDetail(source domain.SourceType, row repository.FeedRow) domain.Detail {
	switch source {
	case domain.SourceLog:
		return domain.LogDetail{CreatedBy: row.CreatedBy}
	case domain.SourceReminder:
		detail := domain.ReminderDetail{
			Message:     row.SourceText,
			Visibility:  domain.VisibilityVisible,
			CreatedBy:   row.CreatedBy,
			CompletedBy: row.CompletedBy,
		}
		if row.ScheduledTime != nil {
			detail.RemindTime = *row.ScheduledTime
		}
		return detail
	case domain.SourceMeeting:
		detail := domain.MeetingDetail{
			Agenda:       row.SourceText,
			CreatedBy:    row.CreatedBy,
			CancelReason: row.CancelReason,
		}
		if row.ScheduledTime != nil {
			detail.EventTime = *row.ScheduledTime
		}
		return detail
	case domain.SourceDemo:
		detail := domain.DemoDetail{
			Agenda:       row.SourceText,
			CreatedBy:    row.CreatedBy,
			CancelReason: row.CancelReason,
		}
		if row.ScheduledTime != nil {
			detail.StartTime = *row.ScheduledTime
		}
		return detail
	}
	return nil
}
