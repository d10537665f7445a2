package domain

import "testing"

func TestCheckTransition_LogsCannotCompleteOrCancel(t *testing.T) {
	if err := CheckTransition(SourceLog, StatusCompleted, TransitionComplete); err == nil {
		t.Fatal("expected complete on a log to be rejected")
	}
	if err := CheckTransition(SourceLog, StatusCompleted, TransitionCancel); err == nil {
		t.Fatal("expected cancel on a log to be rejected")
	}
}

func TestCheckTransition_ActiveLogAllowsEditAndDelete(t *testing.T) {
	if err := CheckTransition(SourceLog, StatusCompleted, TransitionEdit); err != nil {
		t.Fatalf("expected edit on active log to pass, got %v", err)
	}
	if err := CheckTransition(SourceLog, StatusCompleted, TransitionDelete); err != nil {
		t.Fatalf("expected delete on active log to pass, got %v", err)
	}
}

func TestCheckTransition_DeletedLogIsTerminal(t *testing.T) {
	for _, transition := range []Transition{TransitionEdit, TransitionDelete} {
		err := CheckTransition(SourceLog, StatusDeleted, transition)
		if err == nil {
			t.Fatalf("expected %s on deleted log to be rejected", transition)
		}
		if !err.Conflict {
			t.Fatalf("expected %s on deleted log to be a conflict", transition)
		}
	}
}

func TestCheckTransition_UnknownSourceRejected(t *testing.T) {
	for _, transition := range []Transition{TransitionComplete, TransitionCancel, TransitionEdit, TransitionDelete} {
		err := CheckTransition(SourceType("Webinar"), StatusPending, transition)
		if err == nil || err.Conflict {
			t.Fatalf("expected %s on unknown source to be an illegal transition, got %v", transition, err)
		}
	}
}

func TestCheckTransition_ScheduledSourcesCompleteAndCancelOnce(t *testing.T) {
	for _, source := range []SourceType{SourceReminder, SourceMeeting, SourceDemo} {
		if err := CheckTransition(source, StatusPending, TransitionComplete); err != nil {
			t.Fatalf("expected complete on open %s to pass, got %v", source, err)
		}
		if err := CheckTransition(source, StatusOverdue, TransitionComplete); err != nil {
			t.Fatalf("expected complete on overdue %s to pass, got %v", source, err)
		}
		err := CheckTransition(source, StatusCompleted, TransitionComplete)
		if err == nil || !err.Conflict {
			t.Fatalf("expected complete on completed %s to conflict, got %v", source, err)
		}
		err = CheckTransition(source, StatusCanceled, TransitionCancel)
		if err == nil || !err.Conflict {
			t.Fatalf("expected cancel on canceled %s to conflict, got %v", source, err)
		}
	}
}

func TestCheckTransition_ScheduledSourcesRejectEditAndDelete(t *testing.T) {
	for _, source := range []SourceType{SourceReminder, SourceMeeting, SourceDemo} {
		err := CheckTransition(source, StatusPending, TransitionEdit)
		if err == nil || err.Conflict {
			t.Fatalf("expected edit on %s to be an illegal transition, got %v", source, err)
		}
		err = CheckTransition(source, StatusPending, TransitionDelete)
		if err == nil || err.Conflict {
			t.Fatalf("expected delete on %s to be an illegal transition, got %v", source, err)
		}
	}
}

func TestCancelReasonTag_RoundTrip(t *testing.T) {
	tagged := CancelReasonTag(42, "Acme B.V.", "customer postponed")
	if tagged != "[LEAD:42:Acme B.V.] customer postponed" {
		t.Fatalf("unexpected tag format: %q", tagged)
	}

	leadID, company, reason, ok := ParseCancelReasonTag(tagged)
	if !ok {
		t.Fatal("expected tag to parse")
	}
	if leadID != 42 || company != "Acme B.V." || reason != "customer postponed" {
		t.Fatalf("round trip mismatch: %d %q %q", leadID, company, reason)
	}
}

func TestParseCancelReasonTag_Untagged(t *testing.T) {
	if _, _, _, ok := ParseCancelReasonTag("just a plain reason"); ok {
		t.Fatal("expected untagged reason to report ok=false")
	}
}
