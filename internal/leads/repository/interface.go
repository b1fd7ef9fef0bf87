package repository

import (
	"context"
	"time"

	"carmatch_backend/internal/leads/domain"
)

// Lead is a buyer's recorded interest in one listing. Status is the only
// mutable field after creation; the dealer name is snapshotted at creation
// time and never updated afterwards.
type Lead struct {
	ID         int64
	BuyerName  string
	BuyerEmail string
	BuyerPhone *string
	BuyerNotes *string
	ListingID  int64
	DealerName *string
	Status     domain.Status
	CreatedAt  time.Time
}

// LeadEvent is one immutable entry in a lead's append-only timeline. The
// BIGSERIAL ID doubles as the insertion-order tie-break for events sharing a
// timestamp.
type LeadEvent struct {
	ID          int64
	LeadID      int64
	Action      string
	Description *string
	CreatedAt   time.Time
}

// LeadWithListing decorates a lead with display fields resolved from its
// listing. Both are nil when the listing no longer exists; leads outlive
// ranking pools.
type LeadWithListing struct {
	Lead
	ListingLabel *string
}

// CreateLeadParams carries the validated input for a new lead.
type CreateLeadParams struct {
	BuyerName  string
	BuyerEmail string
	BuyerPhone *string
	BuyerNotes *string
	ListingID  int64
	DealerName *string
}

// ListParams is pagination input for the admin list.
type ListParams struct {
	Page  int
	Limit int
}

// Summary aggregates lead counters for the admin dashboard.
type Summary struct {
	Total    int64
	Today    int64
	ByStatus map[string]int64
}

// Repository defines the persistence contract for leads and their timelines.
// ChangeStatus and AppendEvent must serialize per lead: the status update and
// the event append are a single atomic unit, and concurrent writers to the
// same lead never interleave. Operations on different leads never block each
// other.
type Repository interface {
	// CreateLead atomically persists the lead (status forced to new) together
	// with its "created" timeline event.
	CreateLead(ctx context.Context, params CreateLeadParams) (Lead, LeadEvent, error)

	// GetLead returns the lead or a NotFound error.
	GetLead(ctx context.Context, id int64) (Lead, error)

	// ChangeStatus validates the transition under a per-lead lock, updates the
	// status and appends the matching timeline event atomically. Returns
	// NotFound or InvalidTransition errors.
	ChangeStatus(ctx context.Context, id int64, next domain.Status) (Lead, LeadEvent, error)

	// AppendEvent adds a non-status audit event under the same per-lead lock,
	// leaving the status untouched.
	AppendEvent(ctx context.Context, id int64, action string, description *string) (LeadEvent, error)

	// ListEvents returns the lead's full timeline ordered by timestamp, ties
	// broken by insertion order.
	ListEvents(ctx context.Context, leadID int64) ([]LeadEvent, error)

	// ListAdmin returns a page of leads, newest first, with listing labels,
	// plus the total count before paging.
	ListAdmin(ctx context.Context, params ListParams) ([]LeadWithListing, int, error)

	// ListByDealer returns every lead whose captured dealer matches, newest
	// first.
	ListByDealer(ctx context.Context, dealerName string) ([]LeadWithListing, error)

	// Summary aggregates counters across all leads.
	Summary(ctx context.Context) (Summary, error)
}
