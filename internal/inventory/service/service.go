// Package service implements inventory business logic.
package service

import (
	"context"
	"strings"
	"time"

	"carmatch_backend/internal/inventory/repository"
	"carmatch_backend/platform/apperr"
	"carmatch_backend/platform/logger"
	"carmatch_backend/platform/phone"
)

// Service coordinates listing ingest and reads.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// knownConditions is the closed set accepted on ingest. Matching compares
// case-insensitively, so the stored value is normalized to lowercase here.
var knownConditions = map[string]bool{
	"new":  true,
	"used": true,
	"cpo":  true,
}

// CreateListing validates and persists one ingested listing.
func (s *Service) CreateListing(ctx context.Context, params repository.CreateListingParams) (repository.Listing, error) {
	if params.Price <= 0 {
		return repository.Listing{}, apperr.Validation("Price must be positive")
	}
	if params.Miles < 0 {
		return repository.Listing{}, apperr.Validation("Miles cannot be negative")
	}
	if params.Year < 1900 || params.Year > time.Now().Year()+1 {
		return repository.Listing{}, apperr.Validation("Year is out of range")
	}

	if params.Condition != nil {
		normalized := strings.ToLower(strings.TrimSpace(*params.Condition))
		if normalized == "" {
			params.Condition = nil
		} else {
			if !knownConditions[normalized] {
				return repository.Listing{}, apperr.Validation("Condition must be one of: new, used, cpo")
			}
			params.Condition = &normalized
		}
	}
	if params.BodyStyle != nil {
		normalized := strings.ToLower(strings.TrimSpace(*params.BodyStyle))
		if normalized == "" {
			params.BodyStyle = nil
		} else {
			params.BodyStyle = &normalized
		}
	}

	if params.DealerPhone != nil && *params.DealerPhone != "" {
		normalized := phone.NormalizeE164(*params.DealerPhone)
		params.DealerPhone = &normalized
	}

	listing, err := s.repo.Create(ctx, params)
	if err != nil {
		return repository.Listing{}, err
	}

	s.log.Info("listing created",
		"listing_id", listing.ID,
		"label", listing.Label(),
		"price", listing.Price,
	)
	return listing, nil
}

// GetListing returns one listing by ID.
func (s *Service) GetListing(ctx context.Context, id int64) (repository.Listing, error) {
	return s.repo.GetByID(ctx, id)
}

// ListListings returns a page of listings plus the unpaged total.
func (s *Service) ListListings(ctx context.Context, params repository.ListParams) ([]repository.Listing, int, error) {
	return s.repo.List(ctx, params)
}

// Snapshot exposes the filtered candidate pool to the ranking service.
func (s *Service) Snapshot(ctx context.Context, filter repository.SnapshotFilter) ([]repository.Listing, error) {
	return s.repo.Snapshot(ctx, filter)
}
