package transport

import (
	"time"

	"carmatch_backend/internal/profiles/repository"
)

type CreateProfileRequest struct {
	Name           *string            `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Email          *string            `json:"email,omitempty" validate:"omitempty,email"`
	Location       *string            `json:"location,omitempty" validate:"omitempty,max=200"`
	BudgetMin      *int64             `json:"budget_min,omitempty" validate:"omitempty,min=0"`
	BudgetMax      *int64             `json:"budget_max,omitempty" validate:"omitempty,min=0"`
	DefaultWeights map[string]float64 `json:"default_weights,omitempty"`
}

type UpdateProfileRequest struct {
	Name           *string            `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Email          *string            `json:"email,omitempty" validate:"omitempty,email"`
	Location       *string            `json:"location,omitempty" validate:"omitempty,max=200"`
	BudgetMin      *int64             `json:"budget_min,omitempty" validate:"omitempty,min=0"`
	BudgetMax      *int64             `json:"budget_max,omitempty" validate:"omitempty,min=0"`
	DefaultWeights map[string]float64 `json:"default_weights,omitempty"`
	ClearWeights   bool               `json:"clear_weights,omitempty"`
}

type ListProfilesRequest struct {
	Limit int `form:"limit" validate:"omitempty,min=1,max=200"`
}

type ProfileResponse struct {
	ID             int64              `json:"id"`
	Name           *string            `json:"name,omitempty"`
	Email          *string            `json:"email,omitempty"`
	Location       *string            `json:"location,omitempty"`
	BudgetMin      *int64             `json:"budget_min,omitempty"`
	BudgetMax      *int64             `json:"budget_max,omitempty"`
	DefaultWeights map[string]float64 `json:"default_weights,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

func (r CreateProfileRequest) ToParams() repository.CreateProfileParams {
	return repository.CreateProfileParams{
		Name:           r.Name,
		Email:          r.Email,
		Location:       r.Location,
		BudgetMin:      r.BudgetMin,
		BudgetMax:      r.BudgetMax,
		DefaultWeights: r.DefaultWeights,
	}
}

func (r UpdateProfileRequest) ToParams() repository.UpdateProfileParams {
	return repository.UpdateProfileParams{
		Name:           r.Name,
		Email:          r.Email,
		Location:       r.Location,
		BudgetMin:      r.BudgetMin,
		BudgetMax:      r.BudgetMax,
		DefaultWeights: r.DefaultWeights,
		ClearWeights:   r.ClearWeights,
	}
}

func FromProfile(p repository.BuyerProfile) ProfileResponse {
	return ProfileResponse{
		ID:             p.ID,
		Name:           p.Name,
		Email:          p.Email,
		Location:       p.Location,
		BudgetMin:      p.BudgetMin,
		BudgetMax:      p.BudgetMax,
		DefaultWeights: p.DefaultWeights,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func FromProfiles(profiles []repository.BuyerProfile) []ProfileResponse {
	out := make([]ProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, FromProfile(p))
	}
	return out
}
