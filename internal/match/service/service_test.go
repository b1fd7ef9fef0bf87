package service

import (
	"context"
	"testing"

	invrepo "carmatch_backend/internal/inventory/repository"
	"carmatch_backend/internal/match/transport"
	profrepo "carmatch_backend/internal/profiles/repository"
	"carmatch_backend/platform/apperr"
	"carmatch_backend/platform/logger"
)

type fakeListings struct {
	listings   []invrepo.Listing
	lastFilter invrepo.SnapshotFilter
}

func (f *fakeListings) Snapshot(_ context.Context, filter invrepo.SnapshotFilter) ([]invrepo.Listing, error) {
	f.lastFilter = filter
	out := make([]invrepo.Listing, 0, len(f.listings))
	for _, l := range f.listings {
		if filter.MinPrice != nil && l.Price < *filter.MinPrice {
			continue
		}
		if filter.MaxPrice != nil && l.Price > *filter.MaxPrice {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

type fakeProfiles struct {
	profiles map[int64]profrepo.BuyerProfile
}

func (f *fakeProfiles) GetProfile(_ context.Context, id int64) (profrepo.BuyerProfile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return profrepo.BuyerProfile{}, apperr.NotFound("Buyer profile not found")
	}
	return p, nil
}

func ptr[T any](v T) *T { return &v }

func testListing(id, price, miles int64, year int) invrepo.Listing {
	return invrepo.Listing{
		ID:    id,
		Price: price,
		Miles: miles,
		Year:  year,
		Make:  "Toyota",
		Model: "Highlander",
	}
}

func newTestService(listings *fakeListings, profiles *fakeProfiles) *Service {
	return New(listings, profiles, nil, logger.New("test"), 20)
}

func TestMatchEchoesListingFields(t *testing.T) {
	listings := &fakeListings{listings: []invrepo.Listing{
		testListing(1, 10000, 50000, 2018),
		testListing(2, 30000, 20000, 2022),
	}}
	svc := newTestService(listings, &fakeProfiles{})

	resp, err := svc.Match(context.Background(), transport.MatchRequest{
		Weights:      &transport.WeightsDTO{Price: 1},
		LimitResults: 10,
	})
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}

	if resp.TotalCandidates != 2 || resp.Returned != 2 {
		t.Fatalf("got total=%d returned=%d, want 2/2", resp.TotalCandidates, resp.Returned)
	}
	top := resp.Results[0]
	if top.ListingID != 1 {
		t.Fatalf("cheapest listing should rank first, got %d", top.ListingID)
	}
	if top.Make != "Toyota" || top.Model != "Highlander" || top.Price != 10000 {
		t.Errorf("listing fields not echoed: %+v", top)
	}
	if top.Score100 != 100 {
		t.Errorf("cheapest listing score_100 = %d, want 100", top.Score100)
	}
}

func TestMatchUsesProfileWeightsWhenOmitted(t *testing.T) {
	listings := &fakeListings{listings: []invrepo.Listing{
		testListing(1, 10000, 90000, 2015),
		testListing(2, 30000, 10000, 2015),
	}}
	profiles := &fakeProfiles{profiles: map[int64]profrepo.BuyerProfile{
		7: {ID: 7, DefaultWeights: map[string]float64{"mileage": 5}},
	}}
	svc := newTestService(listings, profiles)

	resp, err := svc.Match(context.Background(), transport.MatchRequest{
		BuyerProfileID: ptr(int64(7)),
		LimitResults:   10,
	})
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}

	// Mileage-only weighting ranks the low-mileage listing first despite its
	// higher price.
	if resp.Results[0].ListingID != 2 {
		t.Fatalf("profile mileage weight ignored, top = %d", resp.Results[0].ListingID)
	}
}

func TestMatchRequestWeightsOverrideProfile(t *testing.T) {
	listings := &fakeListings{listings: []invrepo.Listing{
		testListing(1, 10000, 90000, 2015),
		testListing(2, 30000, 10000, 2015),
	}}
	profiles := &fakeProfiles{profiles: map[int64]profrepo.BuyerProfile{
		7: {ID: 7, DefaultWeights: map[string]float64{"mileage": 5}},
	}}
	svc := newTestService(listings, profiles)

	resp, err := svc.Match(context.Background(), transport.MatchRequest{
		Weights:        &transport.WeightsDTO{Price: 1},
		BuyerProfileID: ptr(int64(7)),
		LimitResults:   10,
	})
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}

	if resp.Results[0].ListingID != 1 {
		t.Fatalf("request weights should override profile, top = %d", resp.Results[0].ListingID)
	}
}

func TestMatchAppliesProfileBudgetAsPriceBounds(t *testing.T) {
	listings := &fakeListings{listings: []invrepo.Listing{
		testListing(1, 5000, 50000, 2015),
		testListing(2, 15000, 50000, 2015),
		testListing(3, 40000, 50000, 2015),
	}}
	profiles := &fakeProfiles{profiles: map[int64]profrepo.BuyerProfile{
		7: {ID: 7, BudgetMin: ptr(int64(10000)), BudgetMax: ptr(int64(20000))},
	}}
	svc := newTestService(listings, profiles)

	resp, err := svc.Match(context.Background(), transport.MatchRequest{
		BuyerProfileID: ptr(int64(7)),
		LimitResults:   10,
	})
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}

	if resp.TotalCandidates != 1 || resp.Results[0].ListingID != 2 {
		t.Fatalf("budget bounds not applied: total=%d results=%+v", resp.TotalCandidates, resp.Results)
	}
	if listings.lastFilter.MinPrice == nil || *listings.lastFilter.MinPrice != 10000 {
		t.Errorf("budget min not pushed into snapshot filter")
	}
}

func TestMatchExplicitPriceBoundsBeatProfileBudget(t *testing.T) {
	listings := &fakeListings{listings: []invrepo.Listing{
		testListing(1, 5000, 50000, 2015),
		testListing(2, 15000, 50000, 2015),
	}}
	profiles := &fakeProfiles{profiles: map[int64]profrepo.BuyerProfile{
		7: {ID: 7, BudgetMin: ptr(int64(10000))},
	}}
	svc := newTestService(listings, profiles)

	resp, err := svc.Match(context.Background(), transport.MatchRequest{
		Filters:        transport.FiltersDTO{MinPrice: ptr(int64(0)), MaxPrice: ptr(int64(6000))},
		BuyerProfileID: ptr(int64(7)),
		LimitResults:   10,
	})
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}

	if resp.TotalCandidates != 1 || resp.Results[0].ListingID != 1 {
		t.Fatalf("explicit bounds should win over budget: %+v", resp.Results)
	}
}

func TestMatchUnknownProfileFails(t *testing.T) {
	svc := newTestService(&fakeListings{}, &fakeProfiles{})

	_, err := svc.Match(context.Background(), transport.MatchRequest{
		BuyerProfileID: ptr(int64(99)),
		LimitResults:   10,
	})
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("got %v, want NotFound", err)
	}
}

func TestMatchDefaultLimitApplied(t *testing.T) {
	pool := make([]invrepo.Listing, 0, 30)
	for i := int64(1); i <= 30; i++ {
		pool = append(pool, testListing(i, 1000*i, 1000*i, 2015))
	}
	svc := newTestService(&fakeListings{listings: pool}, &fakeProfiles{})

	resp, err := svc.Match(context.Background(), transport.MatchRequest{
		Weights: &transport.WeightsDTO{Price: 1},
	})
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	if resp.TotalCandidates != 30 || resp.Returned != 20 {
		t.Fatalf("default limit not applied: total=%d returned=%d", resp.TotalCandidates, resp.Returned)
	}
}
