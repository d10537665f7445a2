package domain

import (
	"fmt"
	"strings"
)

// Transition is a lifecycle operation requested against a source record.
type Transition string

const (
	TransitionComplete Transition = "complete"
	TransitionCancel   Transition = "cancel"
	TransitionEdit     Transition = "edit"
	TransitionDelete   Transition = "delete"
)

// DefaultDeleteReason is recorded when a log is deleted without a reason.
const DefaultDeleteReason = "No reason provided"

// TransitionError describes why a requested transition is illegal. The
// service layer maps Conflict to a 409 and the rest to validation failures.
type TransitionError struct {
	Source     SourceType
	Transition Transition
	Reason     string
	Conflict   bool
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s %s: %s", strings.ToLower(string(e.Source)), e.Transition, e.Reason)
}

func illegal(source SourceType, transition Transition, reason string) *TransitionError {
	return &TransitionError{Source: source, Transition: transition, Reason: reason}
}

func conflict(source SourceType, transition Transition, reason string) *TransitionError {
	return &TransitionError{Source: source, Transition: transition, Reason: reason, Conflict: true}
}

// CheckTransition validates a requested transition against the per-source
// state table:
//
//	Log:      Active → Deleted (terminal); edit keeps Active
//	Reminder: Pending → Completed | Canceled (both terminal)
//	Meeting:  Scheduled → Completed | Canceled (both terminal)
//	Demo:     Scheduled → Completed | Canceled (both terminal)
//
// Terminal records accept no further transitions. Scheduled sources are
// never edited in place: reschedule (new record) or cancel instead.
//
// A log's unified projection reads "completed" while it is alive, so the
// completed status is NOT terminal for log edit/delete; only "deleted" ends
// a log's lifecycle.
func CheckTransition(source SourceType, status string, transition Transition) *TransitionError {
	if !source.Valid() {
		return illegal(source, transition, "unknown source type")
	}

	terminal := IsTerminalStatus(status)

	switch transition {
	case TransitionComplete:
		if source == SourceLog {
			return illegal(source, transition, "logged activities are complete by definition")
		}
		if terminal {
			return conflict(source, transition, "record is already "+NormalizeStatus(status))
		}
		return nil

	case TransitionCancel:
		if source == SourceLog {
			return illegal(source, transition, "logged activities cannot be canceled, only deleted")
		}
		if terminal {
			return conflict(source, transition, "record is already "+NormalizeStatus(status))
		}
		return nil

	case TransitionEdit:
		if source != SourceLog {
			return illegal(source, transition, "scheduled records cannot be edited, reschedule or cancel instead")
		}
		if NormalizeStatus(status) == StatusDeleted {
			return conflict(source, transition, "deleted logs cannot be edited")
		}
		return nil

	case TransitionDelete:
		if source != SourceLog {
			return illegal(source, transition, "scheduled records are canceled, not deleted")
		}
		if NormalizeStatus(status) == StatusDeleted {
			return conflict(source, transition, "log is already deleted")
		}
		return nil
	}

	return illegal(source, transition, "unknown transition")
}

// CancelReasonTag prefixes a cancellation reason with a recoverable metadata
// tag encoding the lead, so the cancellation record stays traceable back to
// its lead even if the lead itself is later modified.
// Format: [LEAD:<id>:<name>] <reason>
func CancelReasonTag(leadID int64, companyName, reason string) string {
	return fmt.Sprintf("[LEAD:%d:%s] %s", leadID, companyName, reason)
}

// ParseCancelReasonTag recovers the lead id, company name, and bare reason
// from a tagged cancellation reason. ok is false when the reason carries no
// tag.
func ParseCancelReasonTag(tagged string) (leadID int64, companyName, reason string, ok bool) {
	if !strings.HasPrefix(tagged, "[LEAD:") {
		return 0, "", "", false
	}
	end := strings.Index(tagged, "] ")
	if end < 0 {
		return 0, "", "", false
	}
	body := tagged[len("[LEAD:"):end]
	parts := strings.SplitN(body, ":", 2)
	if len(parts) != 2 {
		return 0, "", "", false
	}
	if _, err := fmt.Sscanf(parts[0], "%d", &leadID); err != nil {
		return 0, "", "", false
	}
	return leadID, parts[1], tagged[end+2:], true
}
