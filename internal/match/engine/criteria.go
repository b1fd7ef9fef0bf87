package engine

import (
	"fmt"
	"strings"

	"carmatch_backend/platform/apperr"
)

// Candidate is an immutable listing snapshot carrying only the attributes the
// engine filters and scores on. Price, miles and year are always present;
// body style and condition may be empty, in which case the corresponding
// criterion is treated as absent for that candidate.
type Candidate struct {
	ID          int64
	Price       int64
	Miles       int64
	Year        int
	BodyStyle   string
	Condition   string
	HasThirdRow bool
	IsAWD       bool
}

// Filters are the hard gates applied before any scoring. A nil bound imposes
// no constraint. A candidate failing any active bound or requirement is
// excluded entirely, never penalized.
type Filters struct {
	MinPrice        *int64
	MaxPrice        *int64
	MinYear         *int
	MaxYear         *int
	MaxMiles        *int64
	Conditions      []string
	RequireThirdRow bool
	RequireAWD      bool
}

// Validate rejects structurally inverted bounds before any filtering runs.
func (f Filters) Validate() error {
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return apperr.Validation("min_price cannot exceed max_price")
	}
	if f.MinYear != nil && f.MaxYear != nil && *f.MinYear > *f.MaxYear {
		return apperr.Validation("min_year cannot exceed max_year")
	}
	return nil
}

// Allows reports whether the candidate passes every active bound and
// requirement flag.
func (f Filters) Allows(c Candidate) bool {
	if f.MinPrice != nil && c.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && c.Price > *f.MaxPrice {
		return false
	}
	if f.MinYear != nil && c.Year < *f.MinYear {
		return false
	}
	if f.MaxYear != nil && c.Year > *f.MaxYear {
		return false
	}
	if f.MaxMiles != nil && c.Miles > *f.MaxMiles {
		return false
	}
	if len(f.Conditions) > 0 && !containsFold(f.Conditions, c.Condition) {
		return false
	}
	if f.RequireThirdRow && !c.HasThirdRow {
		return false
	}
	if f.RequireAWD && !c.IsAWD {
		return false
	}
	return true
}

// Weights are relative importances per scoring criterion. They need not sum
// to 1; the engine normalizes over the criteria that are active (non-zero
// weight) and computable for each candidate. An all-zero vector is valid and
// yields a composite score of 0 for every candidate.
type Weights struct {
	Price     float64
	Miles     float64
	Year      float64
	BodyStyle float64
	Condition float64
	ThirdRow  float64
	AWD       float64
}

// Validate rejects negative weights.
func (w Weights) Validate() error {
	for name, value := range map[string]float64{
		"price":      w.Price,
		"mileage":    w.Miles,
		"year":       w.Year,
		"body_style": w.BodyStyle,
		"condition":  w.Condition,
		"third_row":  w.ThirdRow,
		"awd":        w.AWD,
	} {
		if value < 0 {
			return apperr.Validation(fmt.Sprintf("weight %q must not be negative", name))
		}
	}
	return nil
}

// Active reports whether any criterion carries a non-zero weight.
func (w Weights) Active() bool {
	return w.Price > 0 || w.Miles > 0 || w.Year > 0 || w.BodyStyle > 0 ||
		w.Condition > 0 || w.ThirdRow > 0 || w.AWD > 0
}

// Uniform returns a weight vector giving every criterion equal importance.
// Used when neither the request nor the buyer profile supplies weights.
func Uniform() Weights {
	return Weights{Price: 1, Miles: 1, Year: 1, BodyStyle: 1, Condition: 1, ThirdRow: 1, AWD: 1}
}

// valueRange holds the observed min/max of a numeric criterion across the
// filtered pool for one ranking request.
type valueRange struct {
	min, max float64
}

func (r valueRange) degenerate() bool { return r.min == r.max }

// costScore maps a value into [0,1] where lower is better. A zero-variance
// pool yields the maximum sub-score rather than penalizing anyone.
func (r valueRange) costScore(v float64) float64 {
	if r.degenerate() {
		return 1.0
	}
	return clamp01((r.max - v) / (r.max - r.min))
}

// benefitScore maps a value into [0,1] where higher is better.
func (r valueRange) benefitScore(v float64) float64 {
	if r.degenerate() {
		return 1.0
	}
	return clamp01((v - r.min) / (r.max - r.min))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func containsFold(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(v, target) {
			return true
		}
	}
	return false
}
