// Package service implements lead lifecycle business logic.
package service

import (
	"context"
	"strings"

	"carmatch_backend/internal/events"
	invrepo "carmatch_backend/internal/inventory/repository"
	"carmatch_backend/internal/leads/domain"
	"carmatch_backend/internal/leads/repository"
	"carmatch_backend/platform/apperr"
	"carmatch_backend/platform/logger"
	"carmatch_backend/platform/phone"
)

// ListingReader resolves the listing a lead points at.
type ListingReader interface {
	GetListing(ctx context.Context, id int64) (invrepo.Listing, error)
}

// CreateLeadInput is the validated input for lead creation.
type CreateLeadInput struct {
	BuyerName  string
	BuyerEmail string
	BuyerPhone *string
	BuyerNotes *string
	ListingID  int64
}

// Service coordinates lead creation, status transitions and the timeline.
type Service struct {
	repo     repository.Repository
	listings ListingReader
	bus      events.Bus
	log      *logger.Logger
}

func New(repo repository.Repository, listings ListingReader, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, listings: listings, bus: bus, log: log}
}

// CreateLead records a buyer's interest in a listing. The lead always starts
// in status new, the dealer name is snapshotted from the listing, and the
// timeline opens with a created event, all in one transaction.
func (s *Service) CreateLead(ctx context.Context, input CreateLeadInput) (repository.Lead, error) {
	input.BuyerName = strings.TrimSpace(input.BuyerName)
	input.BuyerEmail = strings.TrimSpace(input.BuyerEmail)
	if input.BuyerName == "" {
		return repository.Lead{}, apperr.Validation("Buyer name is required")
	}
	if input.BuyerEmail == "" {
		return repository.Lead{}, apperr.Validation("Buyer email is required")
	}

	if input.BuyerPhone != nil && *input.BuyerPhone != "" {
		normalized := phone.NormalizeE164(*input.BuyerPhone)
		input.BuyerPhone = &normalized
	}

	listing, err := s.listings.GetListing(ctx, input.ListingID)
	if err != nil {
		return repository.Lead{}, err
	}

	lead, _, err := s.repo.CreateLead(ctx, repository.CreateLeadParams{
		BuyerName:  input.BuyerName,
		BuyerEmail: input.BuyerEmail,
		BuyerPhone: input.BuyerPhone,
		BuyerNotes: input.BuyerNotes,
		ListingID:  listing.ID,
		DealerName: listing.DealerName,
	})
	if err != nil {
		return repository.Lead{}, err
	}

	s.log.Info("lead created", "lead_id", lead.ID, "listing_id", listing.ID)
	s.bus.Publish(ctx, events.LeadCreated{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     lead.ID,
		ListingID:  listing.ID,
		BuyerName:  lead.BuyerName,
		BuyerEmail: lead.BuyerEmail,
	})

	return lead, nil
}

// GetLead returns one lead by ID.
func (s *Service) GetLead(ctx context.Context, id int64) (repository.Lead, error) {
	return s.repo.GetLead(ctx, id)
}

// GetTimeline returns the lead's full event history in order.
func (s *Service) GetTimeline(ctx context.Context, id int64) ([]repository.LeadEvent, error) {
	if _, err := s.repo.GetLead(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListEvents(ctx, id)
}

// ChangeStatus applies a status transition. An unrecognized status string is
// an invalid transition, not a validation error, so callers see one error
// kind for every refused move.
func (s *Service) ChangeStatus(ctx context.Context, id int64, rawStatus string) (repository.Lead, error) {
	next, err := domain.ParseStatus(rawStatus)
	if err != nil {
		return repository.Lead{}, err
	}

	lead, err := s.repo.GetLead(ctx, id)
	if err != nil {
		return repository.Lead{}, err
	}
	previous := lead.Status

	updated, _, err := s.repo.ChangeStatus(ctx, id, next)
	if err != nil {
		return repository.Lead{}, err
	}

	s.log.LeadTransition(id, string(previous), string(next))
	s.bus.Publish(ctx, events.LeadStatusChanged{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    id,
		OldStatus: string(previous),
		NewStatus: string(next),
	})

	if next == domain.StatusSentToDealer {
		s.publishSentToDealer(ctx, updated)
	}

	return updated, nil
}

// SendToDealer is the handoff shortcut: transition to sent_to_dealer.
func (s *Service) SendToDealer(ctx context.Context, id int64) (repository.Lead, error) {
	return s.ChangeStatus(ctx, id, string(domain.StatusSentToDealer))
}

// RecordEvent appends a free-form audit entry to the timeline. Status strings
// and the reserved created action are refused; transitions must go through
// ChangeStatus so the status column and the timeline never disagree.
func (s *Service) RecordEvent(ctx context.Context, id int64, action string, description *string) (repository.LeadEvent, error) {
	action = strings.TrimSpace(action)
	if action == "" {
		return repository.LeadEvent{}, apperr.Validation("Event action is required")
	}
	if domain.IsStatusAction(action) || action == domain.ActionCreated {
		return repository.LeadEvent{}, apperr.Validation("Action '" + action + "' is reserved; use the status endpoint")
	}

	return s.repo.AppendEvent(ctx, id, action, description)
}

// ListAdmin returns a page of leads for the admin view.
func (s *Service) ListAdmin(ctx context.Context, params repository.ListParams) ([]repository.LeadWithListing, int, error) {
	return s.repo.ListAdmin(ctx, params)
}

// ListByDealer returns the leads handed to one dealer.
func (s *Service) ListByDealer(ctx context.Context, dealerName string) ([]repository.LeadWithListing, error) {
	dealerName = strings.TrimSpace(dealerName)
	if dealerName == "" {
		return nil, apperr.Validation("Dealer name is required")
	}
	return s.repo.ListByDealer(ctx, dealerName)
}

// Summary returns aggregate lead counters.
func (s *Service) Summary(ctx context.Context) (repository.Summary, error) {
	return s.repo.Summary(ctx)
}

func (s *Service) publishSentToDealer(ctx context.Context, lead repository.Lead) {
	event := events.LeadSentToDealer{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     lead.ID,
		ListingID:  lead.ListingID,
		BuyerName:  lead.BuyerName,
		BuyerEmail: lead.BuyerEmail,
	}
	if lead.BuyerPhone != nil {
		event.BuyerPhone = *lead.BuyerPhone
	}
	if lead.BuyerNotes != nil {
		event.BuyerNotes = *lead.BuyerNotes
	}
	if lead.DealerName != nil {
		event.DealerName = *lead.DealerName
	}

	// The listing may have left the inventory since the lead was created; the
	// handoff still happens, just without listing details in the email.
	listing, err := s.listings.GetListing(ctx, lead.ListingID)
	if err == nil {
		event.ListingLabel = listing.Label()
		event.ListingPrice = listing.Price
		event.ListingMiles = listing.Miles
		if listing.DealerEmail != nil {
			event.DealerEmail = *listing.DealerEmail
		}
	} else {
		s.log.Warn("listing lookup failed for dealer handoff", "lead_id", lead.ID, "listing_id", lead.ListingID, "error", err)
	}

	s.bus.Publish(ctx, event)
}
