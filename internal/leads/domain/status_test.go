package domain

import (
	"testing"

	"carmatch_backend/platform/apperr"
)

func TestParseStatus(t *testing.T) {
	for _, s := range AllStatuses {
		parsed, err := ParseStatus(string(s))
		if err != nil {
			t.Fatalf("ParseStatus(%q) returned error: %v", s, err)
		}
		if parsed != s {
			t.Fatalf("ParseStatus(%q) = %q", s, parsed)
		}
	}

	for _, raw := range []string{"", "New", "SOLD", "archived", "sent to dealer"} {
		if _, err := ParseStatus(raw); !apperr.Is(err, apperr.KindInvalidTransition) {
			t.Fatalf("ParseStatus(%q): expected invalid transition error, got %v", raw, err)
		}
	}
}

func TestTerminalStatusesRefuseTransitions(t *testing.T) {
	for _, terminal := range []Status{StatusSold, StatusLost} {
		if !terminal.IsTerminal() {
			t.Fatalf("%q must be terminal", terminal)
		}
		for _, next := range AllStatuses {
			if terminal.CanTransitionTo(next) {
				t.Fatalf("terminal %q must not transition to %q", terminal, next)
			}
		}
	}
}

func TestNonTerminalStatusesMayBacktrack(t *testing.T) {
	// The graph is not forward-only: contacted may go back to sent_to_dealer.
	if !StatusContacted.CanTransitionTo(StatusSentToDealer) {
		t.Fatal("contacted -> sent_to_dealer must be allowed")
	}
	if !StatusTestDriveScheduled.CanTransitionTo(StatusContacted) {
		t.Fatal("test_drive_scheduled -> contacted must be allowed")
	}

	for _, from := range []Status{StatusNew, StatusSentToDealer, StatusContacted, StatusTestDriveScheduled} {
		for _, to := range AllStatuses {
			if to == from {
				if from.CanTransitionTo(to) {
					t.Fatalf("%q -> %q (no-op) must be rejected", from, to)
				}
				continue
			}
			if !from.CanTransitionTo(to) {
				t.Fatalf("%q -> %q must be allowed", from, to)
			}
		}
	}
}

func TestIsStatusAction(t *testing.T) {
	if !IsStatusAction("sold") {
		t.Fatal("\"sold\" is a status action")
	}
	if IsStatusAction(ActionNote) || IsStatusAction(ActionCreated) {
		t.Fatal("note/created are not status actions")
	}
}
