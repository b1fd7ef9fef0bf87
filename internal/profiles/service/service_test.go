package service

import (
	"context"
	"testing"
	"time"

	"carmatch_backend/internal/profiles/repository"
	"carmatch_backend/platform/apperr"
	"carmatch_backend/platform/logger"
)

type fakeRepo struct {
	nextID   int64
	profiles map[int64]repository.BuyerProfile
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{nextID: 1, profiles: make(map[int64]repository.BuyerProfile)}
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateProfileParams) (repository.BuyerProfile, error) {
	profile := repository.BuyerProfile{
		ID:             f.nextID,
		Name:           params.Name,
		Email:          params.Email,
		Location:       params.Location,
		BudgetMin:      params.BudgetMin,
		BudgetMax:      params.BudgetMax,
		DefaultWeights: params.DefaultWeights,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	f.nextID++
	f.profiles[profile.ID] = profile
	return profile, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (repository.BuyerProfile, error) {
	profile, ok := f.profiles[id]
	if !ok {
		return repository.BuyerProfile{}, apperr.NotFound("Buyer profile not found")
	}
	return profile, nil
}

func (f *fakeRepo) List(_ context.Context, _ int) ([]repository.BuyerProfile, error) {
	out := make([]repository.BuyerProfile, 0, len(f.profiles))
	for _, p := range f.profiles {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, id int64, params repository.UpdateProfileParams) (repository.BuyerProfile, error) {
	profile, ok := f.profiles[id]
	if !ok {
		return repository.BuyerProfile{}, apperr.NotFound("Buyer profile not found")
	}
	if params.Name != nil {
		profile.Name = params.Name
	}
	if params.BudgetMin != nil {
		profile.BudgetMin = params.BudgetMin
	}
	if params.BudgetMax != nil {
		profile.BudgetMax = params.BudgetMax
	}
	if params.DefaultWeights != nil {
		profile.DefaultWeights = params.DefaultWeights
	} else if params.ClearWeights {
		profile.DefaultWeights = nil
	}
	profile.UpdatedAt = time.Now()
	f.profiles[id] = profile
	return profile, nil
}

var _ repository.Repository = (*fakeRepo)(nil)

func i64(v int64) *int64 { return &v }

func str(v string) *string { return &v }

func TestCreateProfileRejectsUnknownCriterion(t *testing.T) {
	svc := New(newFakeRepo(), logger.New("test"))

	_, err := svc.CreateProfile(context.Background(), repository.CreateProfileParams{
		DefaultWeights: map[string]float64{"price": 2, "horsepower": 1},
	})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("got %v, want Validation", err)
	}
}

func TestCreateProfileRejectsNegativeWeight(t *testing.T) {
	svc := New(newFakeRepo(), logger.New("test"))

	_, err := svc.CreateProfile(context.Background(), repository.CreateProfileParams{
		DefaultWeights: map[string]float64{"mileage": -0.5},
	})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("got %v, want Validation", err)
	}
}

func TestCreateProfileValidatesBudget(t *testing.T) {
	svc := New(newFakeRepo(), logger.New("test"))

	cases := []struct {
		name     string
		min, max *int64
		wantErr  bool
	}{
		{name: "min above max", min: i64(30000), max: i64(20000), wantErr: true},
		{name: "negative min", min: i64(-1), wantErr: true},
		{name: "min only", min: i64(5000)},
		{name: "valid range", min: i64(5000), max: i64(20000)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateProfile(context.Background(), repository.CreateProfileParams{
				BudgetMin: tc.min,
				BudgetMax: tc.max,
			})
			if tc.wantErr && apperr.GetKind(err) != apperr.KindValidation {
				t.Fatalf("got %v, want Validation", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestUpdateProfileClearsWeights(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, logger.New("test"))

	created, err := svc.CreateProfile(context.Background(), repository.CreateProfileParams{
		DefaultWeights: map[string]float64{"price": 3, "year": 1},
	})
	if err != nil {
		t.Fatalf("CreateProfile() error = %v", err)
	}

	updated, err := svc.UpdateProfile(context.Background(), created.ID, repository.UpdateProfileParams{
		ClearWeights: true,
	})
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if updated.DefaultWeights != nil {
		t.Fatalf("weights = %v, want cleared", updated.DefaultWeights)
	}
}

func TestUpdateProfileUnknown(t *testing.T) {
	svc := New(newFakeRepo(), logger.New("test"))

	_, err := svc.UpdateProfile(context.Background(), 99, repository.UpdateProfileParams{Name: str("Ana")})
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("got %v, want NotFound", err)
	}
}
