package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"carmatch_backend/platform/apperr"
)

const profileColumns = `id, name, email, location, budget_min, budget_max, default_weights, created_at, updated_at`

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

var _ Repository = (*PostgresRepository)(nil)

func (r *PostgresRepository) Create(ctx context.Context, params CreateProfileParams) (BuyerProfile, error) {
	weightsJSON, err := marshalWeights(params.DefaultWeights)
	if err != nil {
		return BuyerProfile{}, err
	}

	var profile BuyerProfile
	var rawWeights []byte
	err = r.pool.QueryRow(ctx, `
		INSERT INTO buyer_profiles (name, email, location, budget_min, budget_max, default_weights)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+profileColumns,
		params.Name, params.Email, params.Location, params.BudgetMin, params.BudgetMax, weightsJSON,
	).Scan(scanProfileDest(&profile, &rawWeights)...)
	if err != nil {
		return BuyerProfile{}, fmt.Errorf("failed to insert buyer profile: %w", err)
	}

	if err := unmarshalWeights(rawWeights, &profile); err != nil {
		return BuyerProfile{}, err
	}
	return profile, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (BuyerProfile, error) {
	var profile BuyerProfile
	var rawWeights []byte
	err := r.pool.QueryRow(ctx, `
		SELECT `+profileColumns+`
		FROM buyer_profiles
		WHERE id = $1
	`, id).Scan(scanProfileDest(&profile, &rawWeights)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return BuyerProfile{}, apperr.NotFound("Buyer profile not found")
	}
	if err != nil {
		return BuyerProfile{}, err
	}

	if err := unmarshalWeights(rawWeights, &profile); err != nil {
		return BuyerProfile{}, err
	}
	return profile, nil
}

func (r *PostgresRepository) List(ctx context.Context, limit int) ([]BuyerProfile, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+profileColumns+`
		FROM buyer_profiles
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := make([]BuyerProfile, 0)
	for rows.Next() {
		var profile BuyerProfile
		var rawWeights []byte
		if err := rows.Scan(scanProfileDest(&profile, &rawWeights)...); err != nil {
			return nil, err
		}
		if err := unmarshalWeights(rawWeights, &profile); err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return profiles, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id int64, params UpdateProfileParams) (BuyerProfile, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return BuyerProfile{}, err
	}

	if params.Name != nil {
		current.Name = params.Name
	}
	if params.Email != nil {
		current.Email = params.Email
	}
	if params.Location != nil {
		current.Location = params.Location
	}
	if params.BudgetMin != nil {
		current.BudgetMin = params.BudgetMin
	}
	if params.BudgetMax != nil {
		current.BudgetMax = params.BudgetMax
	}
	if params.DefaultWeights != nil {
		current.DefaultWeights = params.DefaultWeights
	} else if params.ClearWeights {
		current.DefaultWeights = nil
	}

	weightsJSON, err := marshalWeights(current.DefaultWeights)
	if err != nil {
		return BuyerProfile{}, err
	}

	var profile BuyerProfile
	var rawWeights []byte
	err = r.pool.QueryRow(ctx, `
		UPDATE buyer_profiles
		SET name = $2, email = $3, location = $4, budget_min = $5, budget_max = $6,
		    default_weights = $7, updated_at = now()
		WHERE id = $1
		RETURNING `+profileColumns,
		id, current.Name, current.Email, current.Location, current.BudgetMin, current.BudgetMax, weightsJSON,
	).Scan(scanProfileDest(&profile, &rawWeights)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return BuyerProfile{}, apperr.NotFound("Buyer profile not found")
	}
	if err != nil {
		return BuyerProfile{}, fmt.Errorf("failed to update buyer profile: %w", err)
	}

	if err := unmarshalWeights(rawWeights, &profile); err != nil {
		return BuyerProfile{}, err
	}
	return profile, nil
}

func marshalWeights(weights map[string]float64) ([]byte, error) {
	if weights == nil {
		return nil, nil
	}
	data, err := json.Marshal(weights)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal default weights: %w", err)
	}
	return data, nil
}

func unmarshalWeights(raw []byte, profile *BuyerProfile) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, &profile.DefaultWeights); err != nil {
		return fmt.Errorf("failed to unmarshal default weights: %w", err)
	}
	return nil
}

func scanProfileDest(p *BuyerProfile, rawWeights *[]byte) []any {
	return []any{
		&p.ID, &p.Name, &p.Email, &p.Location,
		&p.BudgetMin, &p.BudgetMax, rawWeights,
		&p.CreatedAt, &p.UpdatedAt,
	}
}
