package domain

import "testing"

func TestNormalizeStatus_FoldsSynonyms(t *testing.T) {
	cases := map[string]string{
		"Pending":      StatusPending,
		"SCHEDULED":    StatusScheduled,
		"upcoming":     StatusScheduled,
		"Completed":    StatusCompleted,
		"done":         StatusCompleted,
		"Meeting Done": StatusCompleted,
		"demo done":    StatusCompleted,
		"cancelled":    StatusCanceled,
		"Canceled":     StatusCanceled,
		"  overdue  ":  StatusOverdue,
		"Deleted":      StatusDeleted,
	}
	for input, want := range cases {
		if got := NormalizeStatus(input); got != want {
			t.Fatalf("NormalizeStatus(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestNormalizeStatus_UnknownPassesThroughLowercased(t *testing.T) {
	if got := NormalizeStatus("Snoozed"); got != "snoozed" {
		t.Fatalf("expected unknown status to pass through lowercased, got %q", got)
	}
}

func TestClassify_ScheduledSourcesAreActionableWhileOpen(t *testing.T) {
	for _, source := range []SourceType{SourceReminder, SourceMeeting, SourceDemo} {
		for _, status := range []string{"Pending", "Scheduled"} {
			cls := Classify(source, status)
			if !cls.IsActionable {
				t.Fatalf("expected %s with status %q to be actionable", source, status)
			}
		}
	}
}

func TestClassify_TerminalStatusesAreNotActionable(t *testing.T) {
	for _, source := range []SourceType{SourceReminder, SourceMeeting, SourceDemo} {
		for _, status := range []string{"Completed", "cancelled", "deleted"} {
			cls := Classify(source, status)
			if cls.IsActionable {
				t.Fatalf("expected %s with status %q to be non-actionable", source, status)
			}
		}
	}
}

func TestClassify_LogsAreNeverActionable(t *testing.T) {
	for _, status := range []string{"Completed", "Pending", "Scheduled", "deleted"} {
		cls := Classify(SourceLog, status)
		if cls.IsActionable {
			t.Fatalf("expected log with status %q to be non-actionable", status)
		}
	}
}

func TestClassify_OverdueForcesActionable(t *testing.T) {
	for _, source := range []SourceType{SourceLog, SourceReminder, SourceMeeting, SourceDemo} {
		cls := Classify(source, "overdue")
		if !cls.IsActionable {
			t.Fatalf("expected overdue %s to be actionable", source)
		}
		if cls.EffectiveStatus != StatusOverdue {
			t.Fatalf("expected effective status overdue, got %q", cls.EffectiveStatus)
		}
	}
}

func TestIsTerminalStatus(t *testing.T) {
	for _, status := range []string{"Completed", "canceled", "cancelled", "deleted"} {
		if !IsTerminalStatus(status) {
			t.Fatalf("expected %q to be terminal", status)
		}
	}
	for _, status := range []string{"pending", "scheduled", "overdue", ""} {
		if IsTerminalStatus(status) {
			t.Fatalf("expected %q to be non-terminal", status)
		}
	}
}
