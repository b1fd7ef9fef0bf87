package events

import (
	platformevents "carmatch_backend/platform/events"
)

// BaseEvent re-exports the platform base event.
type BaseEvent = platformevents.BaseEvent

// NewBaseEvent creates a base event stamped with the current time.
func NewBaseEvent() BaseEvent {
	return platformevents.NewBaseEvent()
}

// =============================================================================
// Lead Events
// =============================================================================

// LeadCreated is published when a buyer submits interest in a listing.
type LeadCreated struct {
	BaseEvent
	LeadID     int64
	ListingID  int64
	BuyerName  string
	BuyerEmail string
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// LeadStatusChanged is published after a successful status transition.
type LeadStatusChanged struct {
	BaseEvent
	LeadID    int64
	OldStatus string
	NewStatus string
}

func (e LeadStatusChanged) EventName() string { return "leads.status.changed" }

// LeadSentToDealer is published when a lead is handed off to the listing's
// dealer. Carries everything the notification worker needs to compose the
// dealer email without re-reading the lead.
type LeadSentToDealer struct {
	BaseEvent
	LeadID       int64
	ListingID    int64
	BuyerName    string
	BuyerEmail   string
	BuyerPhone   string
	BuyerNotes   string
	DealerName   string
	DealerEmail  string
	ListingLabel string
	ListingPrice int64
	ListingMiles int64
}

func (e LeadSentToDealer) EventName() string { return "leads.sent_to_dealer" }
