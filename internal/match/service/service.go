// Package service resolves ranking requests against the live inventory.
package service

import (
	"context"
	"time"

	invrepo "carmatch_backend/internal/inventory/repository"
	"carmatch_backend/internal/match/engine"
	"carmatch_backend/internal/match/transport"
	profrepo "carmatch_backend/internal/profiles/repository"
	"carmatch_backend/platform/logger"
)

// ListingSource supplies the candidate pool for one ranking run.
type ListingSource interface {
	Snapshot(ctx context.Context, filter invrepo.SnapshotFilter) ([]invrepo.Listing, error)
}

// ProfileSource looks up stored buyer defaults.
type ProfileSource interface {
	GetProfile(ctx context.Context, id int64) (profrepo.BuyerProfile, error)
}

// ResolvedRequest is the engine input after profile defaults have been
// applied. It is also the unit the response cache hashes over.
type ResolvedRequest struct {
	Filters             engine.Filters `json:"filters"`
	Weights             engine.Weights `json:"weights"`
	BodyStylePreference string         `json:"body_style_preference"`
	Limit               int            `json:"limit"`
}

// Service runs the ranking pipeline: resolve defaults, snapshot candidates,
// score, echo listing fields back.
type Service struct {
	listings     ListingSource
	profiles     ProfileSource
	cache        *Cache
	log          *logger.Logger
	defaultLimit int
}

func New(listings ListingSource, profiles ProfileSource, cache *Cache, log *logger.Logger, defaultLimit int) *Service {
	if defaultLimit <= 0 {
		defaultLimit = 20
	}
	return &Service{
		listings:     listings,
		profiles:     profiles,
		cache:        cache,
		log:          log,
		defaultLimit: defaultLimit,
	}
}

// Match ranks the current inventory against the request. Omitted weights fall
// back to the referenced buyer profile's stored defaults, then to uniform
// weights. An omitted price bound falls back to the profile's budget range.
func (s *Service) Match(ctx context.Context, req transport.MatchRequest) (transport.MatchResponse, error) {
	started := time.Now()

	resolved, err := s.resolve(ctx, req)
	if err != nil {
		return transport.MatchResponse{}, err
	}

	key, keyErr := Key(resolved)
	if keyErr == nil {
		if resp, ok := s.cache.Get(ctx, key); ok {
			s.log.MatchRun(resp.TotalCandidates, resp.Returned, float64(time.Since(started).Milliseconds()), true)
			return resp, nil
		}
	}

	listings, err := s.listings.Snapshot(ctx, snapshotFilter(resolved.Filters))
	if err != nil {
		return transport.MatchResponse{}, err
	}

	candidates := make([]engine.Candidate, 0, len(listings))
	byID := make(map[int64]invrepo.Listing, len(listings))
	for _, l := range listings {
		candidates = append(candidates, toCandidate(l))
		byID[l.ID] = l
	}

	result, err := engine.Rank(ctx, candidates, engine.Request{
		Filters:             resolved.Filters,
		Weights:             resolved.Weights,
		BodyStylePreference: resolved.BodyStylePreference,
		Limit:               resolved.Limit,
	})
	if err != nil {
		return transport.MatchResponse{}, err
	}

	resp := transport.MatchResponse{
		TotalCandidates: result.TotalCandidates,
		Returned:        result.Returned,
		Results:         make([]transport.ListingScore, 0, len(result.Ranked)),
	}
	for _, sc := range result.Ranked {
		resp.Results = append(resp.Results, toListingScore(sc, byID[sc.Candidate.ID]))
	}

	if keyErr == nil {
		s.cache.Set(ctx, key, resp)
	}

	s.log.MatchRun(resp.TotalCandidates, resp.Returned, float64(time.Since(started).Milliseconds()), false)
	return resp, nil
}

func (s *Service) resolve(ctx context.Context, req transport.MatchRequest) (ResolvedRequest, error) {
	resolved := ResolvedRequest{
		Filters: req.Filters.ToEngineFilters(),
		Limit:   req.LimitResults,
	}
	if req.BodyStylePreference != nil {
		resolved.BodyStylePreference = *req.BodyStylePreference
	}
	if resolved.Limit == 0 {
		resolved.Limit = s.defaultLimit
	}

	var profile *profrepo.BuyerProfile
	if req.BuyerProfileID != nil {
		p, err := s.profiles.GetProfile(ctx, *req.BuyerProfileID)
		if err != nil {
			return ResolvedRequest{}, err
		}
		profile = &p
	}

	switch {
	case req.Weights != nil:
		resolved.Weights = req.Weights.ToEngineWeights()
	case profile != nil && profile.DefaultWeights != nil:
		resolved.Weights = transport.WeightsFromMap(profile.DefaultWeights)
	default:
		resolved.Weights = engine.Uniform()
	}

	if profile != nil {
		if resolved.Filters.MinPrice == nil && profile.BudgetMin != nil {
			resolved.Filters.MinPrice = profile.BudgetMin
		}
		if resolved.Filters.MaxPrice == nil && profile.BudgetMax != nil {
			resolved.Filters.MaxPrice = profile.BudgetMax
		}
	}

	return resolved, nil
}

func snapshotFilter(f engine.Filters) invrepo.SnapshotFilter {
	return invrepo.SnapshotFilter{
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

func toCandidate(l invrepo.Listing) engine.Candidate {
	c := engine.Candidate{
		ID:          l.ID,
		Price:       l.Price,
		Miles:       l.Miles,
		Year:        l.Year,
		HasThirdRow: l.HasThirdRow,
		IsAWD:       l.IsAWD,
	}
	if l.BodyStyle != nil {
		c.BodyStyle = *l.BodyStyle
	}
	if l.Condition != nil {
		c.Condition = *l.Condition
	}
	return c
}

func toListingScore(sc engine.ScoredCandidate, l invrepo.Listing) transport.ListingScore {
	return transport.ListingScore{
		ListingID:  sc.Candidate.ID,
		Score:      sc.Score,
		Score100:   sc.Score100,
		Year:       l.Year,
		Make:       l.Make,
		Model:      l.Model,
		Trim:       l.Trim,
		Price:      l.Price,
		Miles:      l.Miles,
		BodyStyle:  l.BodyStyle,
		Condition:  l.Condition,
		DealerName: l.DealerName,
		Source:     l.Source,
		URL:        l.URL,
		CreatedAt:  l.CreatedAt,
	}
}
