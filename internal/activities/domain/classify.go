package domain

import "strings"

// Classification is the derived actionability annotation attached to every
// unified record, whether it arrived through the paged feed or the per-lead
// timeline. Same input, same output: this is the single source of truth for
// the pending/scheduled/overdue vocabulary.
type Classification struct {
	IsActionable    bool
	EffectiveStatus string
}

// statusSynonyms folds source-specific status spellings into the normalized
// vocabulary. Comparisons are case-insensitive.
var statusSynonyms = map[string]string{
	"pending":      StatusPending,
	"scheduled":    StatusScheduled,
	"upcoming":     StatusScheduled,
	"completed":    StatusCompleted,
	"complete":     StatusCompleted,
	"done":         StatusCompleted,
	"meeting done": StatusCompleted,
	"demo done":    StatusCompleted,
	"canceled":     StatusCanceled,
	"cancelled":    StatusCanceled,
	"overdue":      StatusOverdue,
	"deleted":      StatusDeleted,
}

// NormalizeStatus lower-cases, trims, and folds known synonyms. Unknown
// statuses pass through lower-cased rather than erroring: the mapper must
// stay total on malformed-but-parseable input.
func NormalizeStatus(status string) string {
	key := strings.ToLower(strings.TrimSpace(status))
	if normalized, ok := statusSynonyms[key]; ok {
		return normalized
	}
	return key
}

// Classify derives actionability from source type and status.
// A record is actionable when it is a scheduled source (Reminder, Meeting,
// Demo) still in the pending/scheduled family. Overdue forces actionability
// regardless of source classification: an overdue item always requires
// action. Logs are never actionable outside the overdue override.
func Classify(source SourceType, status string) Classification {
	effective := NormalizeStatus(status)

	if effective == StatusOverdue {
		return Classification{IsActionable: true, EffectiveStatus: effective}
	}

	actionable := source != SourceLog &&
		(effective == StatusPending || effective == StatusScheduled)

	return Classification{IsActionable: actionable, EffectiveStatus: effective}
}

// IsTerminalStatus reports whether the status ends the record's lifecycle.
// Terminal records are never reverted except via lead-level restore.
func IsTerminalStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusCompleted, StatusCanceled, StatusDeleted:
		return true
	}
	return false
}
