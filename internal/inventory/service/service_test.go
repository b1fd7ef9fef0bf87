package service

import (
	"context"
	"testing"
	"time"

	"carmatch_backend/internal/inventory/repository"
	"carmatch_backend/platform/apperr"
	"carmatch_backend/platform/logger"
)

type fakeRepo struct {
	nextID   int64
	listings map[int64]repository.Listing
	created  []repository.CreateListingParams
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{nextID: 1, listings: make(map[int64]repository.Listing)}
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateListingParams) (repository.Listing, error) {
	f.created = append(f.created, params)
	listing := repository.Listing{
		ID:          f.nextID,
		Year:        params.Year,
		Make:        params.Make,
		Model:       params.Model,
		Trim:        params.Trim,
		Price:       params.Price,
		Miles:       params.Miles,
		BodyStyle:   params.BodyStyle,
		Condition:   params.Condition,
		HasThirdRow: params.HasThirdRow,
		IsAWD:       params.IsAWD,
		DealerName:  params.DealerName,
		DealerEmail: params.DealerEmail,
		DealerPhone: params.DealerPhone,
		Source:      params.Source,
		URL:         params.URL,
		CreatedAt:   time.Now(),
	}
	f.nextID++
	f.listings[listing.ID] = listing
	return listing, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (repository.Listing, error) {
	listing, ok := f.listings[id]
	if !ok {
		return repository.Listing{}, apperr.NotFound("Listing not found")
	}
	return listing, nil
}

func (f *fakeRepo) List(_ context.Context, _ repository.ListParams) ([]repository.Listing, int, error) {
	out := make([]repository.Listing, 0, len(f.listings))
	for _, l := range f.listings {
		out = append(out, l)
	}
	return out, len(out), nil
}

func (f *fakeRepo) Snapshot(_ context.Context, _ repository.SnapshotFilter) ([]repository.Listing, error) {
	out := make([]repository.Listing, 0, len(f.listings))
	for _, l := range f.listings {
		out = append(out, l)
	}
	return out, nil
}

var _ repository.Repository = (*fakeRepo)(nil)

func str(v string) *string { return &v }

func validParams() repository.CreateListingParams {
	return repository.CreateListingParams{
		Year:  2021,
		Make:  "Toyota",
		Model: "Highlander",
		Trim:  str("XLE"),
		Price: 32000,
		Miles: 41000,
	}
}

func TestCreateListingRejectsInvalidNumbers(t *testing.T) {
	svc := New(newFakeRepo(), logger.New("test"))

	cases := []struct {
		name   string
		mutate func(*repository.CreateListingParams)
	}{
		{name: "zero price", mutate: func(p *repository.CreateListingParams) { p.Price = 0 }},
		{name: "negative price", mutate: func(p *repository.CreateListingParams) { p.Price = -500 }},
		{name: "negative miles", mutate: func(p *repository.CreateListingParams) { p.Miles = -1 }},
		{name: "year too old", mutate: func(p *repository.CreateListingParams) { p.Year = 1899 }},
		{name: "year in the future", mutate: func(p *repository.CreateListingParams) { p.Year = time.Now().Year() + 2 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			params := validParams()
			tc.mutate(&params)
			_, err := svc.CreateListing(context.Background(), params)
			if apperr.GetKind(err) != apperr.KindValidation {
				t.Fatalf("got %v, want Validation", err)
			}
		})
	}
}

func TestCreateListingNormalizesCondition(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, logger.New("test"))

	params := validParams()
	params.Condition = str("  CPO ")

	listing, err := svc.CreateListing(context.Background(), params)
	if err != nil {
		t.Fatalf("CreateListing() error = %v", err)
	}
	if listing.Condition == nil || *listing.Condition != "cpo" {
		t.Errorf("condition = %v, want cpo", listing.Condition)
	}

	params = validParams()
	params.Condition = str("salvage")
	if _, err := svc.CreateListing(context.Background(), params); apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("got %v, want Validation for unknown condition", err)
	}
}

func TestCreateListingNormalizesDealerPhone(t *testing.T) {
	svc := New(newFakeRepo(), logger.New("test"))

	params := validParams()
	params.DealerPhone = str("(305) 555-0123")

	listing, err := svc.CreateListing(context.Background(), params)
	if err != nil {
		t.Fatalf("CreateListing() error = %v", err)
	}
	if listing.DealerPhone == nil || *listing.DealerPhone != "+13055550123" {
		t.Errorf("dealer phone = %v, want +13055550123", listing.DealerPhone)
	}
}

func TestListingLabel(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, logger.New("test"))

	listing, err := svc.CreateListing(context.Background(), validParams())
	if err != nil {
		t.Fatalf("CreateListing() error = %v", err)
	}
	if got := listing.Label(); got != "2021 Toyota Highlander XLE" {
		t.Errorf("Label() = %q", got)
	}

	listing.Trim = nil
	if got := listing.Label(); got != "2021 Toyota Highlander" {
		t.Errorf("Label() without trim = %q", got)
	}
}
