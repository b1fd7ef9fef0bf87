package transport

import (
	"time"

	"carmatch_backend/internal/leads/repository"
	"carmatch_backend/internal/leads/service"
)

type CreateLeadRequest struct {
	BuyerName  string  `json:"buyer_name" validate:"required,min=1,max=200"`
	BuyerEmail string  `json:"buyer_email" validate:"required,email"`
	BuyerPhone *string `json:"buyer_phone,omitempty" validate:"omitempty,max=30"`
	BuyerNotes *string `json:"buyer_notes,omitempty" validate:"omitempty,max=2000"`
	ListingID  int64   `json:"listing_id" validate:"required,min=1"`
}

type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required,min=1,max=50"`
}

type RecordEventRequest struct {
	Action      string  `json:"action" validate:"required,min=1,max=50"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

type ListLeadsRequest struct {
	Page  int `form:"page" validate:"omitempty,min=1"`
	Limit int `form:"limit" validate:"omitempty,min=1,max=200"`
}

type LeadResponse struct {
	ID         int64     `json:"id"`
	BuyerName  string    `json:"buyer_name"`
	BuyerEmail string    `json:"buyer_email"`
	BuyerPhone *string   `json:"buyer_phone,omitempty"`
	BuyerNotes *string   `json:"buyer_notes,omitempty"`
	ListingID  int64     `json:"listing_id"`
	DealerName *string   `json:"dealer_name,omitempty"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

type LeadWithListingResponse struct {
	LeadResponse
	ListingLabel *string `json:"listing_label,omitempty"`
}

type LeadEventResponse struct {
	ID          int64     `json:"id"`
	LeadID      int64     `json:"lead_id"`
	Action      string    `json:"action"`
	Description *string   `json:"description,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

type LeadPageResponse struct {
	Items []LeadWithListingResponse `json:"items"`
	Total int                       `json:"total"`
	Page  int                       `json:"page"`
	Limit int                       `json:"limit"`
}

type SummaryResponse struct {
	Total    int64            `json:"total"`
	Today    int64            `json:"today"`
	ByStatus map[string]int64 `json:"by_status"`
}

func (r CreateLeadRequest) ToInput() service.CreateLeadInput {
	return service.CreateLeadInput{
		BuyerName:  r.BuyerName,
		BuyerEmail: r.BuyerEmail,
		BuyerPhone: r.BuyerPhone,
		BuyerNotes: r.BuyerNotes,
		ListingID:  r.ListingID,
	}
}

func FromLead(l repository.Lead) LeadResponse {
	return LeadResponse{
		ID:         l.ID,
		BuyerName:  l.BuyerName,
		BuyerEmail: l.BuyerEmail,
		BuyerPhone: l.BuyerPhone,
		BuyerNotes: l.BuyerNotes,
		ListingID:  l.ListingID,
		DealerName: l.DealerName,
		Status:     string(l.Status),
		CreatedAt:  l.CreatedAt,
	}
}

func FromLeadWithListing(l repository.LeadWithListing) LeadWithListingResponse {
	return LeadWithListingResponse{
		LeadResponse: FromLead(l.Lead),
		ListingLabel: l.ListingLabel,
	}
}

func FromLeadsWithListing(leads []repository.LeadWithListing) []LeadWithListingResponse {
	out := make([]LeadWithListingResponse, 0, len(leads))
	for _, l := range leads {
		out = append(out, FromLeadWithListing(l))
	}
	return out
}

func FromEvent(e repository.LeadEvent) LeadEventResponse {
	return LeadEventResponse{
		ID:          e.ID,
		LeadID:      e.LeadID,
		Action:      e.Action,
		Description: e.Description,
		Timestamp:   e.CreatedAt,
	}
}

func FromEvents(events []repository.LeadEvent) []LeadEventResponse {
	out := make([]LeadEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, FromEvent(e))
	}
	return out
}

func FromSummary(s repository.Summary) SummaryResponse {
	return SummaryResponse{
		Total:    s.Total,
		Today:    s.Today,
		ByStatus: s.ByStatus,
	}
}
