package transport

import (
	"time"

	"carmatch_backend/internal/inventory/repository"
)

type CreateListingRequest struct {
	Year        int     `json:"year" validate:"required,min=1900"`
	Make        string  `json:"make" validate:"required,min=1,max=100"`
	Model       string  `json:"model" validate:"required,min=1,max=100"`
	Trim        *string `json:"trim,omitempty" validate:"omitempty,max=100"`
	Price       int64   `json:"price" validate:"required,min=1"`
	Miles       int64   `json:"miles" validate:"min=0"`
	BodyStyle   *string `json:"body_style,omitempty" validate:"omitempty,max=50"`
	Condition   *string `json:"condition,omitempty" validate:"omitempty,max=20"`
	HasThirdRow bool    `json:"has_third_row"`
	IsAWD       bool    `json:"is_awd"`
	DealerName  *string `json:"dealer_name,omitempty" validate:"omitempty,max=200"`
	DealerEmail *string `json:"dealer_email,omitempty" validate:"omitempty,email"`
	DealerPhone *string `json:"dealer_phone,omitempty" validate:"omitempty,max=30"`
	Source      *string `json:"source,omitempty" validate:"omitempty,max=100"`
	URL         *string `json:"url,omitempty" validate:"omitempty,url"`
}

type ListListingsRequest struct {
	Page  int `form:"page" validate:"omitempty,min=1"`
	Limit int `form:"limit" validate:"omitempty,min=1,max=200"`
}

type ListingResponse struct {
	ID          int64     `json:"id"`
	Year        int       `json:"year"`
	Make        string    `json:"make"`
	Model       string    `json:"model"`
	Trim        *string   `json:"trim,omitempty"`
	Label       string    `json:"label"`
	Price       int64     `json:"price"`
	Miles       int64     `json:"miles"`
	BodyStyle   *string   `json:"body_style,omitempty"`
	Condition   *string   `json:"condition,omitempty"`
	HasThirdRow bool      `json:"has_third_row"`
	IsAWD       bool      `json:"is_awd"`
	DealerName  *string   `json:"dealer_name,omitempty"`
	DealerEmail *string   `json:"dealer_email,omitempty"`
	DealerPhone *string   `json:"dealer_phone,omitempty"`
	Source      *string   `json:"source,omitempty"`
	URL         *string   `json:"url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type ListingPageResponse struct {
	Items []ListingResponse `json:"items"`
	Total int               `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// ToParams converts the request into repository input.
func (r CreateListingRequest) ToParams() repository.CreateListingParams {
	return repository.CreateListingParams{
		Year:        r.Year,
		Make:        r.Make,
		Model:       r.Model,
		Trim:        r.Trim,
		Price:       r.Price,
		Miles:       r.Miles,
		BodyStyle:   r.BodyStyle,
		Condition:   r.Condition,
		HasThirdRow: r.HasThirdRow,
		IsAWD:       r.IsAWD,
		DealerName:  r.DealerName,
		DealerEmail: r.DealerEmail,
		DealerPhone: r.DealerPhone,
		Source:      r.Source,
		URL:         r.URL,
	}
}

// FromListing maps a stored listing to its API shape.
func FromListing(l repository.Listing) ListingResponse {
	return ListingResponse{
		ID:          l.ID,
		Year:        l.Year,
		Make:        l.Make,
		Model:       l.Model,
		Trim:        l.Trim,
		Label:       l.Label(),
		Price:       l.Price,
		Miles:       l.Miles,
		BodyStyle:   l.BodyStyle,
		Condition:   l.Condition,
		HasThirdRow: l.HasThirdRow,
		IsAWD:       l.IsAWD,
		DealerName:  l.DealerName,
		DealerEmail: l.DealerEmail,
		DealerPhone: l.DealerPhone,
		Source:      l.Source,
		URL:         l.URL,
		CreatedAt:   l.CreatedAt,
	}
}

// FromListings maps a slice, returning an empty slice rather than nil so the
// JSON encodes as [].
func FromListings(listings []repository.Listing) []ListingResponse {
	out := make([]ListingResponse, 0, len(listings))
	for _, l := range listings {
		out = append(out, FromListing(l))
	}
	return out
}
