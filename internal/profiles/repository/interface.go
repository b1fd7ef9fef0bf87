package repository

import (
	"context"
	"time"
)

// BuyerProfile stores a buyer's saved search defaults. DefaultWeights holds
// per-criterion ranking weights keyed by criterion name; nil means the buyer
// never saved any.
type BuyerProfile struct {
	ID             int64
	Name           *string
	Email          *string
	Location       *string
	BudgetMin      *int64
	BudgetMax      *int64
	DefaultWeights map[string]float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CreateProfileParams carries validated input for a new buyer profile.
type CreateProfileParams struct {
	Name           *string
	Email          *string
	Location       *string
	BudgetMin      *int64
	BudgetMax      *int64
	DefaultWeights map[string]float64
}

// UpdateProfileParams carries partial updates; nil fields are unchanged.
// ClearWeights removes stored weights when DefaultWeights is nil.
type UpdateProfileParams struct {
	Name           *string
	Email          *string
	Location       *string
	BudgetMin      *int64
	BudgetMax      *int64
	DefaultWeights map[string]float64
	ClearWeights   bool
}

// Repository defines the persistence contract for buyer profiles.
type Repository interface {
	Create(ctx context.Context, params CreateProfileParams) (BuyerProfile, error)
	GetByID(ctx context.Context, id int64) (BuyerProfile, error)
	List(ctx context.Context, limit int) ([]BuyerProfile, error)
	Update(ctx context.Context, id int64, params UpdateProfileParams) (BuyerProfile, error)
}
