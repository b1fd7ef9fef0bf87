package repository

import (
	"context"
	"strconv"
	"time"
)

// Listing is one vehicle offered by a dealer. Dealer contact fields are
// denormalized onto the listing so leads can snapshot them without a join.
type Listing struct {
	ID          int64
	Year        int
	Make        string
	Model       string
	Trim        *string
	Price       int64
	Miles       int64
	BodyStyle   *string
	Condition   *string
	HasThirdRow bool
	IsAWD       bool
	DealerName  *string
	DealerEmail *string
	DealerPhone *string
	Source      *string
	URL         *string
	CreatedAt   time.Time
}

// Label renders the display name used in lead timelines and dealer emails,
// e.g. "2021 Toyota Highlander XLE".
func (l Listing) Label() string {
	label := strconv.Itoa(l.Year) + " " + l.Make + " " + l.Model
	if l.Trim != nil && *l.Trim != "" {
		label += " " + *l.Trim
	}
	return label
}

// CreateListingParams carries validated input for listing ingest.
type CreateListingParams struct {
	Year        int
	Make        string
	Model       string
	Trim        *string
	Price       int64
	Miles       int64
	BodyStyle   *string
	Condition   *string
	HasThirdRow bool
	IsAWD       bool
	DealerName  *string
	DealerEmail *string
	DealerPhone *string
	Source      *string
	URL         *string
}

// SnapshotFilter narrows the candidate pool at the SQL layer. Nil and empty
// fields leave the corresponding column unconstrained.
type SnapshotFilter struct {
	MinPrice        *int64
	MaxPrice        *int64
	MinYear         *int
	MaxYear         *int
	MaxMiles        *int64
	Conditions      []string
	RequireThirdRow bool
	RequireAWD      bool
}

// ListParams is pagination input for listing reads.
type ListParams struct {
	Page  int
	Limit int
}

// Repository defines the persistence contract for the vehicle inventory.
type Repository interface {
	Create(ctx context.Context, params CreateListingParams) (Listing, error)
	GetByID(ctx context.Context, id int64) (Listing, error)
	List(ctx context.Context, params ListParams) ([]Listing, int, error)
	// Snapshot returns the listings passing the filter, ordered by ID, as a
	// stable candidate pool for one ranking run.
	Snapshot(ctx context.Context, filter SnapshotFilter) ([]Listing, error)
}
