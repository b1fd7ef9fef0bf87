package transport

import (
	"time"

	"carmatch_backend/internal/match/engine"
)

// FiltersDTO mirrors the hard filter block of a ranking request.
type FiltersDTO struct {
	MinPrice        *int64   `json:"min_price,omitempty" validate:"omitempty,min=0"`
	MaxPrice        *int64   `json:"max_price,omitempty" validate:"omitempty,min=0"`
	MinYear         *int     `json:"min_year,omitempty" validate:"omitempty,min=1900"`
	MaxYear         *int     `json:"max_year,omitempty" validate:"omitempty,min=1900"`
	MaxMiles        *int64   `json:"max_miles,omitempty" validate:"omitempty,min=0"`
	Conditions      []string `json:"conditions,omitempty" validate:"omitempty,dive,oneof=new used cpo"`
	RequireThirdRow bool     `json:"require_third_row"`
	RequireAWD      bool     `json:"require_awd"`
}

// WeightsDTO carries per-criterion importances. Omitted fields count as zero;
// an omitted weights block falls back to profile defaults, then to uniform.
type WeightsDTO struct {
	Price     float64 `json:"price" validate:"min=0"`
	Mileage   float64 `json:"mileage" validate:"min=0"`
	Year      float64 `json:"year" validate:"min=0"`
	BodyStyle float64 `json:"body_style" validate:"min=0"`
	Condition float64 `json:"condition" validate:"min=0"`
	ThirdRow  float64 `json:"third_row" validate:"min=0"`
	AWD       float64 `json:"awd" validate:"min=0"`
}

type MatchRequest struct {
	Filters             FiltersDTO  `json:"filters"`
	Weights             *WeightsDTO `json:"weights,omitempty"`
	BodyStylePreference *string     `json:"body_style_preference,omitempty" validate:"omitempty,max=50"`
	BuyerProfileID      *int64      `json:"buyer_profile_id,omitempty" validate:"omitempty,min=1"`
	LimitResults        int         `json:"limit_results"`
}

// ListingScore is one ranked result with the listing's descriptive fields
// echoed through unchanged.
type ListingScore struct {
	ListingID int64   `json:"listing_id"`
	Score     float64 `json:"score"`
	Score100  int     `json:"score_100"`

	Year      int     `json:"year"`
	Make      string  `json:"make"`
	Model     string  `json:"model"`
	Trim      *string `json:"trim,omitempty"`
	Price     int64   `json:"price"`
	Miles     int64   `json:"miles"`
	BodyStyle *string `json:"body_style,omitempty"`
	Condition *string `json:"condition,omitempty"`

	DealerName *string `json:"dealer_name,omitempty"`
	Source     *string `json:"source,omitempty"`
	URL        *string `json:"url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

type MatchResponse struct {
	TotalCandidates int            `json:"total_candidates"`
	Returned        int            `json:"returned"`
	Results         []ListingScore `json:"results"`
}

// ToEngineFilters converts the wire filters into the engine's value object.
func (f FiltersDTO) ToEngineFilters() engine.Filters {
	return engine.Filters{
		MinPrice:        f.MinPrice,
		MaxPrice:        f.MaxPrice,
		MinYear:         f.MinYear,
		MaxYear:         f.MaxYear,
		MaxMiles:        f.MaxMiles,
		Conditions:      f.Conditions,
		RequireThirdRow: f.RequireThirdRow,
		RequireAWD:      f.RequireAWD,
	}
}

// ToEngineWeights converts the wire weights into the engine's value object.
func (w WeightsDTO) ToEngineWeights() engine.Weights {
	return engine.Weights{
		Price:     w.Price,
		Miles:     w.Mileage,
		Year:      w.Year,
		BodyStyle: w.BodyStyle,
		Condition: w.Condition,
		ThirdRow:  w.ThirdRow,
		AWD:       w.AWD,
	}
}

// WeightsFromMap builds engine weights from a profile's stored criterion map.
func WeightsFromMap(stored map[string]float64) engine.Weights {
	return engine.Weights{
		Price:     stored["price"],
		Miles:     stored["mileage"],
		Year:      stored["year"],
		BodyStyle: stored["body_style"],
		Condition: stored["condition"],
		ThirdRow:  stored["third_row"],
		AWD:       stored["awd"],
	}
}
