package engine

import (
	"context"
	"reflect"
	"testing"
	"time"

	"carmatch_backend/platform/apperr"
)

func i64(v int64) *int64 { return &v }
func iptr(v int) *int    { return &v }

func pricePool() []Candidate {
	return []Candidate{
		{ID: 1, Price: 10000, Miles: 50000, Year: 2018},
		{ID: 2, Price: 20000, Miles: 50000, Year: 2018},
		{ID: 3, Price: 30000, Miles: 50000, Year: 2018},
	}
}

func TestRankPriceOnlyLinearInterpolation(t *testing.T) {
	res, err := Rank(context.Background(), pricePool(), Request{
		Weights: Weights{Price: 1},
		Limit:   10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.TotalCandidates != 3 || res.Returned != 3 {
		t.Fatalf("expected 3/3 candidates, got %d/%d", res.TotalCandidates, res.Returned)
	}

	wantOrder := []int64{1, 2, 3}
	wantScore100 := []int{100, 50, 0}
	for i, sc := range res.Ranked {
		if sc.Candidate.ID != wantOrder[i] {
			t.Fatalf("position %d: expected listing %d, got %d", i, wantOrder[i], sc.Candidate.ID)
		}
		if sc.Score100 != wantScore100[i] {
			t.Fatalf("listing %d: expected score_100 %d, got %d", sc.Candidate.ID, wantScore100[i], sc.Score100)
		}
	}
}

func TestRankIsDeterministic(t *testing.T) {
	pool := []Candidate{
		{ID: 5, Price: 15000, Miles: 80000, Year: 2016, BodyStyle: "SUV", IsAWD: true},
		{ID: 2, Price: 22000, Miles: 30000, Year: 2020, BodyStyle: "Sedan"},
		{ID: 9, Price: 18000, Miles: 60000, Year: 2019, BodyStyle: "SUV", HasThirdRow: true},
		{ID: 1, Price: 18000, Miles: 60000, Year: 2019, BodyStyle: "SUV", HasThirdRow: true},
	}
	req := Request{
		Weights:             Weights{Price: 3, Miles: 2, Year: 1, BodyStyle: 2, ThirdRow: 1, AWD: 1},
		BodyStylePreference: "SUV",
		Limit:               10,
	}

	first, err := Rank(context.Background(), pool, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Rank(context.Background(), pool, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("identical input produced different output:\n%+v\n%+v", first, second)
	}

	// IDs 1 and 9 are identical except for ID; the lower ID must win the tie.
	pos := map[int64]int{}
	for i, sc := range first.Ranked {
		pos[sc.Candidate.ID] = i
	}
	if pos[1] > pos[9] {
		t.Fatalf("tie-break violated: listing 1 ranked below listing 9")
	}
}

func TestRankHardFiltersExcludeBeforeScoring(t *testing.T) {
	pool := []Candidate{
		{ID: 1, Price: 9000, Miles: 120000, Year: 2012, Condition: "used"},
		{ID: 2, Price: 25000, Miles: 40000, Year: 2019, Condition: "cpo", IsAWD: true},
		{ID: 3, Price: 31000, Miles: 10000, Year: 2022, Condition: "new", IsAWD: true},
		{ID: 4, Price: 27000, Miles: 35000, Year: 2020, Condition: "cpo"},
	}
	filters := Filters{
		MinPrice:   i64(10000),
		MaxPrice:   i64(30000),
		MinYear:    iptr(2018),
		MaxMiles:   i64(50000),
		Conditions: []string{"new", "cpo"},
		RequireAWD: true,
	}

	res, err := Rank(context.Background(), pool, Request{Filters: filters, Weights: Uniform(), Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.TotalCandidates != 1 {
		t.Fatalf("expected 1 surviving candidate, got %d", res.TotalCandidates)
	}
	if res.Ranked[0].Candidate.ID != 2 {
		t.Fatalf("expected listing 2 to survive, got %d", res.Ranked[0].Candidate.ID)
	}
	for _, sc := range res.Ranked {
		if !filters.Allows(sc.Candidate) {
			t.Fatalf("excluded listing %d appeared in results", sc.Candidate.ID)
		}
	}
}

func TestRankAllZeroWeightsPreservesInputOrder(t *testing.T) {
	pool := []Candidate{
		{ID: 7, Price: 30000, Miles: 10, Year: 2024},
		{ID: 3, Price: 10000, Miles: 99999, Year: 2010},
		{ID: 5, Price: 20000, Miles: 50000, Year: 2018},
	}

	res, err := Rank(context.Background(), pool, Request{Weights: Weights{}, Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantOrder := []int64{7, 3, 5}
	for i, sc := range res.Ranked {
		if sc.Candidate.ID != wantOrder[i] {
			t.Fatalf("position %d: expected %d, got %d (input order not preserved)", i, wantOrder[i], sc.Candidate.ID)
		}
		if sc.Score != 0 || sc.Score100 != 0 {
			t.Fatalf("listing %d: expected zero score, got %v/%d", sc.Candidate.ID, sc.Score, sc.Score100)
		}
	}
}

func TestRankReturnedMatchesLimitArithmetic(t *testing.T) {
	cases := []struct {
		name         string
		limit        int
		wantReturned int
	}{
		{"limit below pool", 2, 2},
		{"limit equals pool", 3, 3},
		{"limit above pool", 50, 3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Rank(context.Background(), pricePool(), Request{Weights: Weights{Price: 1}, Limit: tc.limit})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.TotalCandidates != 3 {
				t.Fatalf("expected total 3, got %d", res.TotalCandidates)
			}
			if res.Returned != tc.wantReturned || len(res.Ranked) != tc.wantReturned {
				t.Fatalf("expected returned %d, got %d (len %d)", tc.wantReturned, res.Returned, len(res.Ranked))
			}
		})
	}
}

func TestRankZeroVariancePoolScoresMaximum(t *testing.T) {
	pool := []Candidate{
		{ID: 1, Price: 20000, Miles: 40000, Year: 2020},
		{ID: 2, Price: 20000, Miles: 40000, Year: 2020},
	}

	res, err := Rank(context.Background(), pool, Request{Weights: Weights{Price: 1, Miles: 1, Year: 1}, Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, sc := range res.Ranked {
		if sc.Score100 != 100 {
			t.Fatalf("listing %d: zero-variance pool must score 100, got %d", sc.Candidate.ID, sc.Score100)
		}
	}
}

func TestRankMissingAttributeIsCriterionAbsent(t *testing.T) {
	// No body style on either candidate: the body-style criterion must drop
	// out of the normalization, leaving price as the only active criterion.
	pool := []Candidate{
		{ID: 1, Price: 10000, Miles: 5000, Year: 2020},
		{ID: 2, Price: 30000, Miles: 5000, Year: 2020},
	}
	req := Request{
		Weights:             Weights{Price: 1, BodyStyle: 5},
		BodyStylePreference: "SUV",
		Limit:               10,
	}

	res, err := Rank(context.Background(), pool, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Ranked[0].Candidate.ID != 1 || res.Ranked[0].Score100 != 100 {
		t.Fatalf("expected listing 1 at 100, got listing %d at %d", res.Ranked[0].Candidate.ID, res.Ranked[0].Score100)
	}
	if res.Ranked[1].Score100 != 0 {
		t.Fatalf("expected listing 2 at 0, got %d", res.Ranked[1].Score100)
	}
}

func TestRankInputValidation(t *testing.T) {
	cases := []struct {
		name string
		req  Request
	}{
		{"zero limit", Request{Weights: Weights{Price: 1}, Limit: 0}},
		{"negative limit", Request{Weights: Weights{Price: 1}, Limit: -5}},
		{"negative weight", Request{Weights: Weights{Price: -1}, Limit: 10}},
		{"inverted price bounds", Request{
			Filters: Filters{MinPrice: i64(30000), MaxPrice: i64(10000)},
			Weights: Weights{Price: 1},
			Limit:   10,
		}},
		{"inverted year bounds", Request{
			Filters: Filters{MinYear: iptr(2022), MaxYear: iptr(2018)},
			Weights: Weights{Price: 1},
			Limit:   10,
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Rank(context.Background(), pricePool(), tc.req)
			if !apperr.Is(err, apperr.KindValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestRankExpiredDeadlineReportsTimeout(t *testing.T) {
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err := Rank(ctx, pricePool(), Request{Weights: Weights{Price: 1}, Limit: 10})
	if !apperr.Is(err, apperr.KindTimeout) {
		t.Fatalf("expected timeout error, got %v", err)
	}
}

func TestRankEmptyPoolAfterFiltering(t *testing.T) {
	res, err := Rank(context.Background(), pricePool(), Request{
		Filters: Filters{MinPrice: i64(100000)},
		Weights: Weights{Price: 1},
		Limit:   10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TotalCandidates != 0 || res.Returned != 0 || len(res.Ranked) != 0 {
		t.Fatalf("expected empty result, got %+v", res)
	}
}
