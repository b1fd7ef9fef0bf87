// Package domain holds the lead status state machine and the timeline action
// vocabulary shared by the repository and service layers.
package domain

import (
	"carmatch_backend/platform/apperr"
)

// Status is a lead's position in its lifecycle. The set is finite and the
// graph is deliberately permissive: any non-terminal status may move to any
// other recognized status, because real workflows backtrack (a contacted lead
// can be re-sent to the dealer). Only the terminal states refuse further
// transitions.
type Status string

const (
	StatusNew                Status = "new"
	StatusSentToDealer       Status = "sent_to_dealer"
	StatusContacted          Status = "contacted"
	StatusTestDriveScheduled Status = "test_drive_scheduled"
	StatusSold               Status = "sold"
	StatusLost               Status = "lost"
)

// AllStatuses lists every recognized status. The order carries no meaning.
var AllStatuses = []Status{
	StatusNew,
	StatusSentToDealer,
	StatusContacted,
	StatusTestDriveScheduled,
	StatusSold,
	StatusLost,
}

// ParseStatus validates a raw status string against the recognized set.
// Unknown values are never coerced.
func ParseStatus(raw string) (Status, error) {
	for _, s := range AllStatuses {
		if string(s) == raw {
			return s, nil
		}
	}
	return "", apperr.InvalidTransition("unrecognized status: " + raw)
}

// IsTerminal reports whether the status accepts no further transitions.
func (s Status) IsTerminal() bool {
	return s == StatusSold || s == StatusLost
}

// CanTransitionTo reports whether a lead currently in s may move to next.
func (s Status) CanTransitionTo(next Status) bool {
	if s.IsTerminal() {
		return false
	}
	return next != s
}

// CheckTransition returns a typed error describing why a transition is
// rejected, or nil when it is allowed.
func (s Status) CheckTransition(next Status) error {
	if s.IsTerminal() {
		return apperr.InvalidTransition("lead is already " + string(s))
	}
	if next == s {
		return apperr.InvalidTransition("lead is already " + string(s))
	}
	return nil
}

// Timeline action labels. Status-changing events use the new status string as
// their action; these constants cover the non-status actions.
const (
	ActionCreated = "created"
	ActionNote    = "note"
)

// IsStatusAction reports whether an action label names a status. Free-form
// audit events must not use these labels, otherwise the "current status equals
// the last status-changing event" invariant could be forged.
func IsStatusAction(action string) bool {
	_, err := ParseStatus(action)
	return err == nil
}
