package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"carmatch_backend/platform/apperr"
)

var listingColumns = []string{
	"id", "year", "make", "model", "trim", "price", "miles",
	"body_style", "condition", "has_third_row", "is_awd",
	"dealer_name", "dealer_email", "dealer_phone",
	"source", "url", "created_at",
}

type PostgresRepository struct {
	pool    *pgxpool.Pool
	builder sq.StatementBuilderType
}

func New(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{
		pool:    pool,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var _ Repository = (*PostgresRepository)(nil)

func (r *PostgresRepository) Create(ctx context.Context, params CreateListingParams) (Listing, error) {
	query, args, err := r.builder.
		Insert("listings").
		Columns("year", "make", "model", "trim", "price", "miles",
			"body_style", "condition", "has_third_row", "is_awd",
			"dealer_name", "dealer_email", "dealer_phone", "source", "url").
		Values(params.Year, params.Make, params.Model, params.Trim, params.Price, params.Miles,
			params.BodyStyle, params.Condition, params.HasThirdRow, params.IsAWD,
			params.DealerName, params.DealerEmail, params.DealerPhone, params.Source, params.URL).
		Suffix("RETURNING " + columnList()).
		ToSql()
	if err != nil {
		return Listing{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	var listing Listing
	if err := r.pool.QueryRow(ctx, query, args...).Scan(scanListingDest(&listing)...); err != nil {
		return Listing{}, fmt.Errorf("failed to insert listing: %w", err)
	}
	return listing, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (Listing, error) {
	query, args, err := r.builder.
		Select(listingColumns...).
		From("listings").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return Listing{}, fmt.Errorf("failed to build select query: %w", err)
	}

	var listing Listing
	err = r.pool.QueryRow(ctx, query, args...).Scan(scanListingDest(&listing)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return Listing{}, apperr.NotFound("Listing not found")
	}
	if err != nil {
		return Listing{}, err
	}
	return listing, nil
}

func (r *PostgresRepository) List(ctx context.Context, params ListParams) ([]Listing, int, error) {
	if params.Limit <= 0 {
		params.Limit = 50
	}
	if params.Page <= 0 {
		params.Page = 1
	}
	offset := uint64((params.Page - 1) * params.Limit)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM listings`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query, args, err := r.builder.
		Select(listingColumns...).
		From("listings").
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(params.Limit)).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list query: %w", err)
	}

	listings, err := r.collect(ctx, query, args)
	if err != nil {
		return nil, 0, err
	}
	return listings, total, nil
}

// Snapshot applies the hard filters in SQL so the ranking pool never loads
// rows the engine would discard anyway. The engine re-checks every filter,
// so over-fetching here is safe but wasteful.
func (r *PostgresRepository) Snapshot(ctx context.Context, filter SnapshotFilter) ([]Listing, error) {
	qb := r.builder.
		Select(listingColumns...).
		From("listings").
		OrderBy("id ASC")

	if filter.MinPrice != nil {
		qb = qb.Where(sq.GtOrEq{"price": *filter.MinPrice})
	}
	if filter.MaxPrice != nil {
		qb = qb.Where(sq.LtOrEq{"price": *filter.MaxPrice})
	}
	if filter.MinYear != nil {
		qb = qb.Where(sq.GtOrEq{"year": *filter.MinYear})
	}
	if filter.MaxYear != nil {
		qb = qb.Where(sq.LtOrEq{"year": *filter.MaxYear})
	}
	if filter.MaxMiles != nil {
		qb = qb.Where(sq.LtOrEq{"miles": *filter.MaxMiles})
	}
	if len(filter.Conditions) > 0 {
		qb = qb.Where(sq.Eq{"LOWER(condition)": lowered(filter.Conditions)})
	}
	if filter.RequireThirdRow {
		qb = qb.Where(sq.Eq{"has_third_row": true})
	}
	if filter.RequireAWD {
		qb = qb.Where(sq.Eq{"is_awd": true})
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build snapshot query: %w", err)
	}

	return r.collect(ctx, query, args)
}

func (r *PostgresRepository) collect(ctx context.Context, query string, args []any) ([]Listing, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	listings := make([]Listing, 0)
	for rows.Next() {
		var listing Listing
		if err := rows.Scan(scanListingDest(&listing)...); err != nil {
			return nil, err
		}
		listings = append(listings, listing)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return listings, nil
}

func columnList() string {
	return strings.Join(listingColumns, ", ")
}

func lowered(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}

func scanListingDest(l *Listing) []any {
	return []any{
		&l.ID, &l.Year, &l.Make, &l.Model, &l.Trim, &l.Price, &l.Miles,
		&l.BodyStyle, &l.Condition, &l.HasThirdRow, &l.IsAWD,
		&l.DealerName, &l.DealerEmail, &l.DealerPhone,
		&l.Source, &l.URL, &l.CreatedAt,
	}
}
