// Package engine implements the multi-criteria vehicle ranking algorithm.
// It is stateless and side-effect-free: Rank never mutates its inputs and may
// run fully in parallel across concurrent requests.
package engine

import (
	"context"
	"errors"
	"math"
	"runtime"
	"sort"
	"strings"

	"carmatch_backend/platform/apperr"

	"golang.org/x/sync/errgroup"
)

// Request bundles the inputs of a single ranking run.
type Request struct {
	Filters Filters
	Weights Weights
	// BodyStylePreference is a scored preference (not a hard gate): an exact,
	// case-insensitive match scores 1.0 on the body-style criterion.
	BodyStylePreference string
	Limit               int
}

// ScoredCandidate pairs a candidate with its composite score, exposed both as
// a [0,1] value and as a 0-100 integer percentage (rounded half-up).
type ScoredCandidate struct {
	Candidate Candidate
	Score     float64
	Score100  int
}

// Result is the shaped output of a ranking run. TotalCandidates counts the
// pool after hard filtering and before the limit; Returned is len(Ranked).
type Result struct {
	TotalCandidates int
	Returned        int
	Ranked          []ScoredCandidate
}

// Rank filters, scores and orders candidates. It is deterministic: identical
// input always yields identical ordering (score descending, candidate ID
// ascending on ties). It fails fast on structural input errors and reports a
// timeout instead of returning partial work when the context deadline expires.
func Rank(ctx context.Context, candidates []Candidate, req Request) (Result, error) {
	if req.Limit <= 0 {
		return Result{}, apperr.Validation("limit_results must be greater than zero")
	}
	if err := req.Filters.Validate(); err != nil {
		return Result{}, err
	}
	if err := req.Weights.Validate(); err != nil {
		return Result{}, err
	}

	filtered := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if req.Filters.Allows(c) {
			filtered = append(filtered, c)
		}
	}

	total := len(filtered)
	if total == 0 {
		return Result{TotalCandidates: 0, Returned: 0, Ranked: []ScoredCandidate{}}, nil
	}

	ranked := make([]ScoredCandidate, total)

	if !req.Weights.Active() {
		// All-zero weight vector: every composite score is 0 and the filtered
		// pool keeps its original relative order.
		for i, c := range filtered {
			ranked[i] = ScoredCandidate{Candidate: c}
		}
		return shape(ranked, total, req.Limit), nil
	}

	prices := newRange(filtered, func(c Candidate) float64 { return float64(c.Price) })
	miles := newRange(filtered, func(c Candidate) float64 { return float64(c.Miles) })
	years := newRange(filtered, func(c Candidate) float64 { return float64(c.Year) })

	// Candidates are scored independently; the final sort is the only
	// synchronization point.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, c := range filtered {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			score := composite(c, req, prices, miles, years)
			ranked[i] = ScoredCandidate{
				Candidate: c,
				Score:     score,
				Score100:  roundPercent(score),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Result{}, apperr.Timeout("ranking deadline exceeded")
		}
		return Result{}, apperr.Wrap(apperr.KindTimeout, "ranking canceled", err)
	}

	sort.Slice(ranked, func(a, b int) bool {
		if ranked[a].Score != ranked[b].Score {
			return ranked[a].Score > ranked[b].Score
		}
		return ranked[a].Candidate.ID < ranked[b].Candidate.ID
	})

	return shape(ranked, total, req.Limit), nil
}

// composite computes the weighted average of the candidate's per-criterion
// sub-scores. A criterion participates only when its weight is non-zero AND
// its value is defined for this candidate; absent criteria are excluded from
// the normalization entirely, not treated as zero.
func composite(c Candidate, req Request, prices, miles, years valueRange) float64 {
	var weighted, weightSum float64

	add := func(weight, subScore float64) {
		weighted += weight * subScore
		weightSum += weight
	}

	w := req.Weights
	if w.Price > 0 {
		add(w.Price, prices.costScore(float64(c.Price)))
	}
	if w.Miles > 0 {
		add(w.Miles, miles.costScore(float64(c.Miles)))
	}
	if w.Year > 0 {
		add(w.Year, years.benefitScore(float64(c.Year)))
	}
	if w.BodyStyle > 0 && req.BodyStylePreference != "" && c.BodyStyle != "" {
		add(w.BodyStyle, boolScore(strings.EqualFold(c.BodyStyle, req.BodyStylePreference)))
	}
	if w.Condition > 0 && len(req.Filters.Conditions) > 0 && c.Condition != "" {
		add(w.Condition, boolScore(containsFold(req.Filters.Conditions, c.Condition)))
	}
	if w.ThirdRow > 0 {
		add(w.ThirdRow, boolScore(c.HasThirdRow))
	}
	if w.AWD > 0 {
		add(w.AWD, boolScore(c.IsAWD))
	}

	if weightSum == 0 {
		return 0
	}
	return weighted / weightSum
}

func shape(ranked []ScoredCandidate, total, limit int) Result {
	if limit < len(ranked) {
		ranked = ranked[:limit]
	}
	return Result{
		TotalCandidates: total,
		Returned:        len(ranked),
		Ranked:          ranked,
	}
}

func newRange(pool []Candidate, value func(Candidate) float64) valueRange {
	r := valueRange{min: value(pool[0]), max: value(pool[0])}
	for _, c := range pool[1:] {
		v := value(c)
		if v < r.min {
			r.min = v
		}
		if v > r.max {
			r.max = v
		}
	}
	return r
}

func boolScore(satisfied bool) float64 {
	if satisfied {
		return 1.0
	}
	return 0.0
}

// roundPercent converts a [0,1] score to an integer percentage, half-up.
func roundPercent(score float64) int {
	return int(math.Floor(score*100 + 0.5))
}
