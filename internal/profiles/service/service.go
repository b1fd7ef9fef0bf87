// Package service implements buyer profile business logic.
package service

import (
	"context"

	"carmatch_backend/internal/profiles/repository"
	"carmatch_backend/platform/apperr"
	"carmatch_backend/platform/logger"
)

// weightNames is the closed set of criteria a stored weight may reference.
var weightNames = map[string]bool{
	"price":      true,
	"mileage":    true,
	"year":       true,
	"body_style": true,
	"condition":  true,
	"third_row":  true,
	"awd":        true,
}

// Service coordinates buyer profile CRUD.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

func validateWeights(weights map[string]float64) error {
	for name, value := range weights {
		if !weightNames[name] {
			return apperr.Validation("Unknown weight criterion: " + name)
		}
		if value < 0 {
			return apperr.Validation("Weight for " + name + " cannot be negative")
		}
	}
	return nil
}

func validateBudget(min, max *int64) error {
	if min != nil && *min < 0 {
		return apperr.Validation("Budget minimum cannot be negative")
	}
	if min != nil && max != nil && *min > *max {
		return apperr.Validation("Budget minimum cannot exceed maximum")
	}
	return nil
}

// CreateProfile validates and persists a buyer profile.
func (s *Service) CreateProfile(ctx context.Context, params repository.CreateProfileParams) (repository.BuyerProfile, error) {
	if err := validateBudget(params.BudgetMin, params.BudgetMax); err != nil {
		return repository.BuyerProfile{}, err
	}
	if err := validateWeights(params.DefaultWeights); err != nil {
		return repository.BuyerProfile{}, err
	}

	profile, err := s.repo.Create(ctx, params)
	if err != nil {
		return repository.BuyerProfile{}, err
	}

	s.log.Info("buyer profile created", "profile_id", profile.ID)
	return profile, nil
}

// GetProfile returns one profile by ID.
func (s *Service) GetProfile(ctx context.Context, id int64) (repository.BuyerProfile, error) {
	return s.repo.GetByID(ctx, id)
}

// ListProfiles returns up to limit profiles, newest first.
func (s *Service) ListProfiles(ctx context.Context, limit int) ([]repository.BuyerProfile, error) {
	return s.repo.List(ctx, limit)
}

// UpdateProfile applies a partial update.
func (s *Service) UpdateProfile(ctx context.Context, id int64, params repository.UpdateProfileParams) (repository.BuyerProfile, error) {
	if err := validateBudget(params.BudgetMin, params.BudgetMax); err != nil {
		return repository.BuyerProfile{}, err
	}
	if err := validateWeights(params.DefaultWeights); err != nil {
		return repository.BuyerProfile{}, err
	}

	return s.repo.Update(ctx, id, params)
}
